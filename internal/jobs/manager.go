package jobs

import (
	"context"

	"campusnews/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedule — задача и её cron-расписание.
type Schedule struct {
	Name string
	Spec string
	Job  cron.Job
}

type Manager struct {
	engine    *cron.Cron
	schedules []Schedule
}

func NewManager(schedules ...Schedule) *Manager {
	return &Manager{
		engine:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		schedules: schedules,
	}
}

// RegisterJobs регистрирует расписания; ошибка — неверный spec.
func (m *Manager) RegisterJobs() error {
	for _, s := range m.schedules {
		if _, err := m.engine.AddJob(s.Spec, s.Job); err != nil {
			return err
		}
		logger.Log.Info("Фоновая задача зарегистрирована", zap.String("job", s.Name), zap.String("spec", s.Spec))
	}
	return nil
}

func (m *Manager) Start() {
	logger.Log.Info("Cron запущен", zap.Int("jobs", len(m.engine.Entries())))
	m.engine.Start()
}

// Stop ждёт завершения выполняющихся задач.
func (m *Manager) Stop() context.Context {
	logger.Log.Info("Cron остановлен")
	return m.engine.Stop()
}
