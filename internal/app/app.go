package app

import (
	"context"
	"fmt"
	"time"

	"campusnews/internal/config"
	"campusnews/internal/db"
	"campusnews/internal/handlers"
	"campusnews/internal/jobs"
	"campusnews/internal/logger"
	"campusnews/internal/middleware"
	"campusnews/internal/repository"
	"campusnews/internal/repository/memstore"
	"campusnews/internal/routes"
	"campusnews/internal/services"
	"campusnews/internal/session"
	"campusnews/internal/storage"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	mailQueueSize = 100
	mailWorkers   = 3
	limiterIdle   = 10 * time.Minute
)

// Backend — набор репозиториев поверх выбранного хранилища.
type Backend struct {
	Articles   repository.ArticleRepo
	Categories repository.CategoryRepo
	Comments   repository.CommentRepo
	Users      repository.UserRepo

	pinger handlers.Pinger
	close  func()
}

// MemoryBackend — репозитории в памяти процесса (DB_DRIVER=memory, тесты).
func MemoryBackend(store *memstore.Store) *Backend {
	return &Backend{
		Articles:   store.Articles(),
		Categories: store.Categories(),
		Comments:   store.Comments(),
		Users:      store.Users(),
		close:      func() {},
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if cfg.DbDriver == "memory" {
		logger.Log.Warn("Хранилище в памяти: данные пропадут при перезапуске")
		return MemoryBackend(memstore.New()), nil
	}

	if err := db.RunMigrations(cfg); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	pool, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Подключение к PostgreSQL установлено", zap.String("dsn", cfg.GetDSNSafe()))

	return &Backend{
		Articles:   repository.NewArticleRepo(pool),
		Categories: repository.NewCategoryRepo(pool),
		Comments:   repository.NewCommentRepo(pool),
		Users:      repository.NewUserRepo(pool),
		pinger:     pool,
		close:      pool.Close,
	}, nil
}

// App — собранное приложение: роутер и фоновые процессы.
type App struct {
	Router *mux.Router
	Auth   *services.AuthService

	mail    *services.MailQueue
	cron    *jobs.Manager
	backend *Backend
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a, err := Build(cfg, backend, services.NewEmailService(cfg))
	if err != nil {
		backend.close()
		return nil, err
	}
	return a, nil
}

// Build собирает сервисы, хендлеры и маршруты поверх готового хранилища.
func Build(cfg *config.Config, b *Backend, sender services.EmailSender) (*App, error) {
	ttl, err := cfg.AccessTTL()
	if err != nil {
		return nil, fmt.Errorf("access ttl: %w", err)
	}
	media, err := storage.NewLocalStore(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}

	// Почта
	mail := services.NewMailQueue(mailQueueSize)
	services.StartEmailWorker(mail, sender, mailWorkers)

	// Сервисы
	sanitizer := services.NewSanitizer()
	authSvc := services.NewAuthService(b.Users, cfg.JWTSecret, ttl, mail, cfg.SiteName)
	articleSvc := services.NewArticleService(b.Articles, b.Categories, media, sanitizer)
	feedSvc := services.NewFeedService(b.Articles, b.Categories, b.Comments)
	categorySvc := services.NewCategoryService(b.Categories)
	engageSvc := services.NewEngagementService(b.Articles, b.Comments, sanitizer)
	dashboardSvc := services.NewDashboardService(b.Articles, b.Categories, b.Comments, b.Users)
	userSvc := services.NewUserAdminService(b.Users, b.Articles, b.Comments)
	siteSvc := services.NewSiteService(services.SiteInfo{
		Name:         cfg.SiteName,
		Description:  cfg.SiteDescription,
		ContactEmail: cfg.ContactEmail,
	}, b.Articles, b.Users, b.Categories, userSvc, mail)

	// Хендлеры
	secure := cfg.Env == "prod"
	resp := handlers.NewResponder(session.NewStore(cfg.SessionKey(), secure))
	h := routes.Handlers{
		Feed:       handlers.NewFeedHandler(feedSvc, engageSvc, resp),
		Engagement: handlers.NewEngagementHandler(engageSvc, resp),
		Articles:   handlers.NewArticleHandler(articleSvc, resp),
		Categories: handlers.NewCategoryHandler(categorySvc, resp),
		Dashboard:  handlers.NewDashboardHandler(dashboardSvc, resp),
		Users:      handlers.NewUserHandler(userSvc, resp),
		Auth:       handlers.NewAuthHandler(authSvc, resp, cfg.SiteName, secure),
		Site:       handlers.NewSiteHandler(siteSvc, resp),
		Health:     handlers.NewHealthHandler(b.pinger),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, h, routes.Options{
		Authenticator: authSvc,
		Limiter:       limiter,
		MediaDir:      media.Dir(),
	})

	// Фоновые задачи
	cron := jobs.NewManager(
		jobs.Schedule{Name: "content_gauges", Spec: "@every 1m", Job: jobs.NewContentGaugesJob(b.Articles, b.Users, b.Comments)},
		jobs.Schedule{Name: "revoked_tokens_purge", Spec: "@hourly", Job: jobs.NewTokenPurgeJob(authSvc)},
		jobs.Schedule{Name: "limiter_cleanup", Spec: "@every 5m", Job: jobs.NewLimiterCleanupJob(limiter, limiterIdle)},
	)
	if err := cron.RegisterJobs(); err != nil {
		mail.Close()
		return nil, fmt.Errorf("cron: %w", err)
	}

	return &App{Router: router, Auth: authSvc, mail: mail, cron: cron, backend: b}, nil
}

// Start запускает планировщик фоновых задач.
func (a *App) Start() {
	a.cron.Start()
}

// Close останавливает планировщик, почтовых воркеров и закрывает хранилище.
func (a *App) Close() {
	<-a.cron.Stop().Done()
	a.mail.Close()
	a.backend.close()
}
