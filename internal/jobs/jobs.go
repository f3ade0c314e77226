// Package jobs — периодические фоновые задачи.
package jobs

import (
	"context"
	"time"

	"campusnews/internal/logger"
	"campusnews/internal/metrics"
	"campusnews/internal/models"
	"campusnews/internal/repository"

	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Second

// ContentGaugesJob обновляет gauge-метрики по содержимому базы.
type ContentGaugesJob struct {
	articles repository.ArticleRepo
	users    repository.UserRepo
	comments repository.CommentRepo
}

func NewContentGaugesJob(articles repository.ArticleRepo, users repository.UserRepo, comments repository.CommentRepo) *ContentGaugesJob {
	return &ContentGaugesJob{articles: articles, users: users, comments: comments}
}

func (j *ContentGaugesJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	err := j.refresh(ctx)
	metrics.RecordJobRun("content_gauges", err)
	if err != nil {
		logger.Log.Error("Ошибка обновления метрик контента", zap.Error(err))
	}
}

func (j *ContentGaugesJob) refresh(ctx context.Context) error {
	published, err := j.articles.Count(ctx, models.PublishedFilter(models.OrderCreatedDesc))
	if err != nil {
		return err
	}
	all, err := j.articles.CountAll(ctx)
	if err != nil {
		return err
	}
	users, err := j.users.CountAll(ctx)
	if err != nil {
		return err
	}
	comments, err := j.comments.CountAll(ctx)
	if err != nil {
		return err
	}
	metrics.SetContentGauges(published, all-published, users, comments)
	return nil
}

type TokenPurger interface {
	PurgeRevoked(ctx context.Context) (int64, error)
}

// TokenPurgeJob чистит чёрный список от истёкших токенов.
type TokenPurgeJob struct {
	purger TokenPurger
}

func NewTokenPurgeJob(p TokenPurger) *TokenPurgeJob {
	return &TokenPurgeJob{purger: p}
}

func (j *TokenPurgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	n, err := j.purger.PurgeRevoked(ctx)
	metrics.RecordJobRun("revoked_tokens_purge", err)
	if err != nil {
		logger.Log.Error("Ошибка очистки отозванных токенов", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("Отозванные токены очищены", zap.Int64("count", n))
	}
}

type LimiterCleaner interface {
	Cleanup(idle time.Duration) int
}

// LimiterCleanupJob забывает давно не приходивших клиентов rate limiter'а.
type LimiterCleanupJob struct {
	limiter LimiterCleaner
	idle    time.Duration
}

func NewLimiterCleanupJob(l LimiterCleaner, idle time.Duration) *LimiterCleanupJob {
	return &LimiterCleanupJob{limiter: l, idle: idle}
}

func (j *LimiterCleanupJob) Run() {
	n := j.limiter.Cleanup(j.idle)
	metrics.RecordJobRun("limiter_cleanup", nil)
	logger.Log.Debug("Очистка rate limiter", zap.Int("removed", n))
}
