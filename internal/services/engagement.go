package services

import (
	"context"
	"errors"
	"strings"

	"campusnews/internal/logger"
	"campusnews/internal/metrics"
	"campusnews/internal/models"
	"campusnews/internal/repository"

	"go.uber.org/zap"
)

// EngagementService — лайки и комментарии читателей.
type EngagementService struct {
	articles  repository.ArticleRepo
	comments  repository.CommentRepo
	sanitizer *Sanitizer
}

func NewEngagementService(articles repository.ArticleRepo, comments repository.CommentRepo, sanitizer *Sanitizer) *EngagementService {
	return &EngagementService{articles: articles, comments: comments, sanitizer: sanitizer}
}

func (s *EngagementService) published(ctx context.Context, slug string) (*models.Article, error) {
	a, err := s.articles.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if err = notFound(err); errors.Is(err, ErrNotFound) {
			logger.WithCtx(ctx).Warn("Опубликованная статья не найдена", zap.String("slug", slug))
		} else {
			logger.WithCtx(ctx).Error("Ошибка получения статьи (repo)", zap.String("slug", slug), zap.Error(err))
		}
		return nil, err
	}
	return a, nil
}

// ToggleLike ставит или снимает лайк. Возвращает новое состояние и
// статью с актуальным числом лайков.
func (s *EngagementService) ToggleLike(ctx context.Context, slug string, user *models.User) (bool, *models.Article, error) {
	log := logger.WithCtx(ctx)

	a, err := s.published(ctx, slug)
	if err != nil {
		return false, nil, err
	}

	liked, err := s.articles.ToggleLike(ctx, a.ID, user.ID)
	if err != nil {
		log.Error("Ошибка переключения лайка (repo)", zap.Int64("article_id", a.ID), zap.Error(err))
		return false, nil, notFound(err)
	}
	metrics.RecordLikeToggle(liked)

	fresh, err := s.articles.GetPublishedBySlug(ctx, slug)
	if err != nil {
		log.Error("Ошибка перечитывания статьи (repo)", zap.Int64("article_id", a.ID), zap.Error(err))
		return false, nil, notFound(err)
	}

	log.Info("Лайк переключён", zap.Int64("article_id", a.ID), zap.Bool("liked", liked), zap.Int64("likes", fresh.LikesCount))
	return liked, fresh, nil
}

// AddComment публикует комментарий сразу одобренным.
func (s *EngagementService) AddComment(ctx context.Context, a *models.Article, user *models.User, form models.CommentForm) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	content, err := s.cleanComment(ctx, form)
	if err != nil {
		log.Warn("Валидация комментария не пройдена", zap.Error(err))
		return nil, err
	}

	c := &models.Comment{
		ArticleID:      a.ID,
		ArticleSlug:    a.Slug,
		ArticleTitle:   a.Title,
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
		Content:        content,
		IsApproved:     true,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, ErrNotFound
		}
		log.Error("Ошибка создания комментария (repo)", zap.Int64("article_id", a.ID), zap.Error(err))
		return nil, err
	}
	metrics.CommentsPostedTotal.Inc()

	log.Info("Комментарий добавлен", zap.Int64("id", c.ID), zap.Int64("article_id", a.ID))
	return c, nil
}

// CommentOn — комментарий к опубликованной статье по slug.
func (s *EngagementService) CommentOn(ctx context.Context, slug string, user *models.User, form models.CommentForm) (*models.Comment, error) {
	a, err := s.published(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.AddComment(ctx, a, user, form)
}

// CommentForChange возвращает комментарий вместе с ErrForbidden, если user
// не может его менять: обработчику нужна статья для редиректа.
func (s *EngagementService) CommentForChange(ctx context.Context, id int64, user *models.User) (*models.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if err = notFound(err); errors.Is(err, ErrNotFound) {
			logger.WithCtx(ctx).Warn("Комментарий не найден", zap.Int64("id", id))
		}
		return nil, err
	}
	if !c.CanBeChangedBy(user) {
		logger.WithCtx(ctx).Warn("Нет прав на комментарий", zap.Int64("id", id), zap.Int64("author_id", c.AuthorID))
		return c, ErrForbidden
	}
	return c, nil
}

func (s *EngagementService) EditComment(ctx context.Context, id int64, user *models.User, form models.CommentForm) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	c, err := s.CommentForChange(ctx, id, user)
	if err != nil {
		return c, err
	}
	content, err := s.cleanComment(ctx, form)
	if err != nil {
		return c, err
	}
	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		log.Error("Ошибка обновления комментария (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, notFound(err)
	}
	c.Content = content

	log.Info("Комментарий обновлён", zap.Int64("id", id))
	return c, nil
}

func (s *EngagementService) DeleteComment(ctx context.Context, id int64, user *models.User) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	c, err := s.CommentForChange(ctx, id, user)
	if err != nil {
		return c, err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления комментария (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, notFound(err)
	}

	log.Info("Комментарий удалён", zap.Int64("id", id), zap.Int64("article_id", c.ArticleID))
	return c, nil
}

// SetApproval — модерация: скрыть или вернуть комментарий.
func (s *EngagementService) SetApproval(ctx context.Context, id int64, approved bool) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	if err := s.comments.SetApproved(ctx, id, approved); err != nil {
		if err = notFound(err); errors.Is(err, ErrNotFound) {
			log.Warn("Комментарий не найден", zap.Int64("id", id))
		} else {
			log.Error("Ошибка модерации комментария (repo)", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	log.Info("Модерация комментария", zap.Int64("id", id), zap.Bool("approved", approved))
	return c, nil
}

func (s *EngagementService) cleanComment(ctx context.Context, form models.CommentForm) (string, error) {
	form.Content = strings.TrimSpace(form.Content)
	if err := validateForm(form); err != nil {
		return "", err
	}
	content := strings.TrimSpace(s.sanitizer.Clean(ctx, form.Content))
	if content == "" {
		return "", fieldError("content", "This field is required.")
	}
	return content, nil
}
