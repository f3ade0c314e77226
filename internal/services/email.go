package services

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"campusnews/internal/config"
	"campusnews/internal/logger"

	"go.uber.org/zap"
)

var ErrSMTPNotConfigured = errors.New("smtp is not configured")

type EmailService struct {
	auth smtp.Auth
	from string
	host string
	port string
}

func NewEmailService(cfg *config.Config) *EmailService {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &EmailService{
		auth: auth,
		from: cfg.SMTPUser,
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
	}
}

func (s *EmailService) Send(to []string, subject, body string) error {
	return s.send(to, subject, "text/plain", body)
}

func (s *EmailService) SendHTML(to []string, subject, body string) error {
	return s.send(to, subject, "text/html", body)
}

func (s *EmailService) send(to []string, subject, contentType, body string) error {
	if s.host == "" {
		return ErrSMTPNotConfigured
	}
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + strings.Join(to, ", ") + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: " + contentType + "; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, to, msg)
}

type EmailJob struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

type EmailSender interface {
	Send(to []string, subject, body string) error
	SendHTML(to []string, subject, body string) error
}

// MailQueue — буферизованная очередь писем; отправка в фоне.
type MailQueue struct {
	jobs chan EmailJob
}

func NewMailQueue(size int) *MailQueue {
	return &MailQueue{jobs: make(chan EmailJob, size)}
}

// Enqueue не блокирует запрос: при переполненной очереди письмо отбрасывается.
func (q *MailQueue) Enqueue(job EmailJob) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		logger.Log.Warn("Очередь писем переполнена, письмо отброшено", zap.String("subject", job.Subject))
		return false
	}
}

// Close останавливает воркеров после того, как они разберут очередь.
func (q *MailQueue) Close() {
	close(q.jobs)
}

func StartEmailWorker(q *MailQueue, sender EmailSender, workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		go func() {
			for job := range q.jobs {
				var err error
				if job.IsHTML {
					err = sender.SendHTML(job.To, job.Subject, job.Body)
				} else {
					err = sender.Send(job.To, job.Subject, job.Body)
				}
				if err != nil {
					logger.Log.Error("Ошибка отправки письма",
						zap.Strings("to", job.To),
						zap.String("subject", job.Subject),
						zap.Error(err),
					)
					continue
				}
				logger.Log.Info("Письмо отправлено", zap.Strings("to", job.To), zap.String("subject", job.Subject))
			}
		}()
	}
}
