package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/pagination"
	"campusnews/internal/repository"
	"campusnews/internal/storage"
	"campusnews/internal/utils"

	"go.uber.org/zap"
)

// MediaStore хранит загруженные обложки.
type MediaStore interface {
	Save(ctx context.Context, up models.Upload) (string, error)
	Remove(ctx context.Context, rel string) error
}

type ArticleListQuery struct {
	Query  string
	Status string
	Page   string
}

// ArticleService — жизненный цикл статьи в админке.
type ArticleService struct {
	articles   repository.ArticleRepo
	categories repository.CategoryRepo
	media      MediaStore
	sanitizer  *Sanitizer
	now        func() time.Time
}

func NewArticleService(
	articles repository.ArticleRepo,
	categories repository.CategoryRepo,
	media MediaStore,
	sanitizer *Sanitizer,
) *ArticleService {
	return &ArticleService{
		articles:   articles,
		categories: categories,
		media:      media,
		sanitizer:  sanitizer,
		now:        time.Now,
	}
}

func (s *ArticleService) List(ctx context.Context, user *models.User, q ArticleListQuery) (*models.ArticleListView, error) {
	log := logger.WithCtx(ctx)

	filter := models.ArticleFilter{Query: strings.TrimSpace(q.Query), Order: models.OrderCreatedDesc}
	if !user.IsAdmin() {
		filter.AuthorID = &user.ID
	}
	if st := strings.TrimSpace(q.Status); st != "" {
		// неизвестный статус фильтрует всё, как и в базе
		status := models.ArticleStatus(st)
		filter.Status = &status
	}

	total, err := s.articles.Count(ctx, filter)
	if err != nil {
		log.Error("Ошибка подсчёта статей (repo)", zap.Error(err))
		return nil, err
	}
	page := pagination.Resolve(q.Page, total, pagination.ArticlePageSize)

	list, err := s.articles.List(ctx, filter, page.PageSize, page.Offset())
	if err != nil {
		log.Error("Ошибка получения списка статей (repo)", zap.Error(err))
		return nil, err
	}

	return &models.ArticleListView{
		Articles:       list,
		Page:           page,
		Query:          filter.Query,
		SelectedStatus: strings.TrimSpace(q.Status),
	}, nil
}

// FormView — данные для формы создания/редактирования.
func (s *ArticleService) FormView(ctx context.Context, action string, a *models.Article, fields map[string]string) (*models.ArticleFormView, error) {
	cats, err := s.categories.ListWithCounts(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения категорий (repo)", zap.Error(err))
		return nil, err
	}
	return &models.ArticleFormView{
		Action:     action,
		Article:    a,
		Categories: cats,
		Statuses:   models.ArticleStatuses,
		Errors:     fields,
	}, nil
}

// Get — статья текущего пользователя по slug. Чужие статьи не видны даже администратору.
func (s *ArticleService) Get(ctx context.Context, user *models.User, slug string) (*models.Article, error) {
	a, err := s.articles.GetBySlugAndAuthor(ctx, slug, user.ID)
	if err != nil {
		err = notFound(err)
		if errors.Is(err, ErrNotFound) {
			logger.WithCtx(ctx).Warn("Статья не найдена у автора", zap.String("slug", slug))
		}
		return nil, err
	}
	return a, nil
}

func (s *ArticleService) Create(ctx context.Context, author *models.User, form models.ArticleForm, upload *models.Upload) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание статьи", zap.String("title", strings.TrimSpace(form.Title)), zap.String("status", string(form.Status)))

	a := &models.Article{AuthorID: author.ID, AuthorUsername: author.Username}
	if err := s.apply(ctx, a, form, upload); err != nil {
		return nil, err
	}

	if err := s.articles.Create(ctx, a); err != nil {
		if upload != nil {
			s.discardImage(ctx, a.FeaturedImage)
		}
		if errors.Is(err, repository.ErrConflict) {
			log.Warn("Slug занят при вставке", zap.String("slug", a.Slug))
			return nil, fieldError("title", duplicateTitleMsg)
		}
		log.Error("Ошибка создания статьи (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Статья создана", zap.Int64("id", a.ID), zap.String("slug", a.Slug), zap.Bool("published", a.IsPublished()))
	return a, nil
}

func (s *ArticleService) Update(ctx context.Context, user *models.User, slug string, form models.ArticleForm, upload *models.Upload) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление статьи", zap.String("slug", slug))

	a, err := s.Get(ctx, user, slug)
	if err != nil {
		return nil, err
	}
	oldImage := a.FeaturedImage

	if err := s.apply(ctx, a, form, upload); err != nil {
		return nil, err
	}

	if err := s.articles.Update(ctx, a); err != nil {
		if upload != nil {
			s.discardImage(ctx, a.FeaturedImage)
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, fieldError("title", duplicateTitleMsg)
		}
		log.Error("Ошибка обновления статьи (repo)", zap.Int64("id", a.ID), zap.Error(err))
		return nil, notFound(err)
	}

	if a.FeaturedImage != oldImage {
		s.discardImage(ctx, oldImage)
	}

	log.Info("Статья обновлена", zap.Int64("id", a.ID), zap.String("slug", a.Slug))
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, user *models.User, slug string) (*models.Article, error) {
	log := logger.WithCtx(ctx)

	a, err := s.Get(ctx, user, slug)
	if err != nil {
		return nil, err
	}
	if err := s.articles.Delete(ctx, a.ID); err != nil {
		log.Error("Ошибка удаления статьи (repo)", zap.Int64("id", a.ID), zap.Error(err))
		return nil, notFound(err)
	}
	s.discardImage(ctx, a.FeaturedImage)

	log.Info("Статья удалена", zap.Int64("id", a.ID), zap.String("slug", a.Slug))
	return a, nil
}

func (s *ArticleService) discardImage(ctx context.Context, rel *string) {
	if rel == nil {
		return
	}
	if err := s.media.Remove(ctx, *rel); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось удалить обложку", zap.String("path", *rel), zap.Error(err))
	}
}

const duplicateTitleMsg = "An article with a similar title already exists."

// apply валидирует форму и переносит её в статью: slug из заголовка,
// очистка HTML, обложка, инвариант публикации.
func (s *ArticleService) apply(ctx context.Context, a *models.Article, form models.ArticleForm, upload *models.Upload) error {
	log := logger.WithCtx(ctx)

	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	form.Excerpt = strings.TrimSpace(form.Excerpt)
	if err := validateForm(form); err != nil {
		log.Warn("Валидация статьи не пройдена", zap.Error(err))
		return err
	}

	cat, err := s.categories.GetByID(ctx, form.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fieldError("category", "Select a valid choice. That choice is not one of the available choices.")
		}
		return err
	}

	slug := utils.Slugify(form.Title)
	if slug == "" {
		return fieldError("title", "Title must contain at least one letter or digit.")
	}
	taken, err := s.articles.SlugExists(ctx, slug, a.ID)
	if err != nil {
		log.Error("Ошибка проверки slug (repo)", zap.Error(err))
		return err
	}
	if taken {
		log.Warn("Slug уже занят", zap.String("slug", slug))
		return fieldError("title", duplicateTitleMsg)
	}

	content := s.sanitizer.Clean(ctx, form.Content)
	if strings.TrimSpace(content) == "" {
		return fieldError("content", "This field is required.")
	}

	if upload != nil {
		rel, err := s.media.Save(ctx, *upload)
		switch {
		case errors.Is(err, storage.ErrNotImage):
			log.Warn("Обложка отклонена", zap.Error(err))
			return fieldError("featured_image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		case errors.Is(err, storage.ErrTooLarge):
			return fieldError("featured_image", "The image is too large (5 MB max).")
		case err != nil:
			log.Error("Ошибка сохранения обложки", zap.Error(err))
			return err
		}
		a.FeaturedImage = &rel
	}

	a.Title = form.Title
	a.Slug = slug
	a.Content = content
	a.Excerpt = s.sanitizer.Clean(ctx, form.Excerpt)
	a.CategoryID = cat.ID
	a.CategoryName = cat.Name
	a.Status = form.Status
	a.ApplyStatus(s.now())
	return nil
}
