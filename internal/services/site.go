package services

import (
	"context"
	"strings"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/repository"
	"campusnews/internal/utils/helpers"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SiteInfo — публичные настройки сайта.
type SiteInfo struct {
	Name         string
	Description  string
	ContactEmail string
}

// SiteService — страницы about/settings/contact и профиль.
type SiteService struct {
	info       SiteInfo
	articles   repository.ArticleRepo
	users      repository.UserRepo
	categories repository.CategoryRepo
	profiles   *UserAdminService
	mailer     Mailer
}

func NewSiteService(
	info SiteInfo,
	articles repository.ArticleRepo,
	users repository.UserRepo,
	categories repository.CategoryRepo,
	profiles *UserAdminService,
	mailer Mailer,
) *SiteService {
	return &SiteService{
		info:       info,
		articles:   articles,
		users:      users,
		categories: categories,
		profiles:   profiles,
		mailer:     mailer,
	}
}

func (s *SiteService) totals(ctx context.Context) (articles, users, categories int64, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		articles, err = s.articles.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.users.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.categories.Count(gctx)
		return err
	})
	if err = g.Wait(); err != nil {
		logger.WithCtx(ctx).Error("Ошибка подсчёта итогов сайта (repo)", zap.Error(err))
	}
	return
}

func (s *SiteService) Settings(ctx context.Context) (*models.SettingsView, error) {
	a, u, c, err := s.totals(ctx)
	if err != nil {
		return nil, err
	}
	return &models.SettingsView{
		SiteName:        s.info.Name,
		SiteDescription: s.info.Description,
		ContactEmail:    s.info.ContactEmail,
		TotalArticles:   a,
		TotalUsers:      u,
		TotalCategories: c,
	}, nil
}

func (s *SiteService) About(ctx context.Context) (*models.AboutView, error) {
	a, u, c, err := s.totals(ctx)
	if err != nil {
		return nil, err
	}
	return &models.AboutView{TotalArticles: a, TotalUsers: u, TotalCategories: c}, nil
}

func (s *SiteService) Profile(ctx context.Context, user *models.User) (*models.ProfileView, error) {
	return s.profiles.content(ctx, user, userDetailListSize)
}

func (s *SiteService) UpdateProfile(ctx context.Context, user *models.User, form models.ProfileForm) error {
	log := logger.WithCtx(ctx)

	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		log.Warn("Валидация профиля не пройдена", zap.Error(err))
		return err
	}

	if err := s.users.UpdateProfile(ctx, user.ID, form.FirstName, form.LastName, form.Email); err != nil {
		log.Error("Ошибка обновления профиля (repo)", zap.Error(err))
		return notFound(err)
	}
	user.FirstName, user.LastName, user.Email = form.FirstName, form.LastName, form.Email

	log.Info("Профиль обновлён")
	return nil
}

// Contact валидирует обращение и ставит письмо на адрес обратной связи.
// Обращения не сохраняются.
func (s *SiteService) Contact(ctx context.Context, form models.ContactForm) error {
	log := logger.WithCtx(ctx)

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Subject = strings.TrimSpace(form.Subject)
	form.Message = strings.TrimSpace(form.Message)
	if err := validateForm(form); err != nil {
		log.Warn("Валидация обращения не пройдена", zap.Error(err))
		return err
	}

	queued := s.mailer != nil && s.mailer.Enqueue(EmailJob{
		To:      []string{s.info.ContactEmail},
		Subject: "[" + s.info.Name + "] " + form.Subject,
		Body:    helpers.BuildContactHTML(form.Name, form.Email, form.Subject, form.Message),
		IsHTML:  true,
	})
	log.Info("Обращение принято", zap.String("from", form.Email), zap.Bool("queued", queued))
	return nil
}
