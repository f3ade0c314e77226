package services

import (
	"context"
	"errors"
	"strings"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/pagination"
	"campusnews/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const userDetailListSize = 5

type UserListQuery struct {
	Query string
	Staff string
	Page  string
}

// UserAdminService — управление пользователями в админке.
type UserAdminService struct {
	users    repository.UserRepo
	articles repository.ArticleRepo
	comments repository.CommentRepo
}

func NewUserAdminService(users repository.UserRepo, articles repository.ArticleRepo, comments repository.CommentRepo) *UserAdminService {
	return &UserAdminService{users: users, articles: articles, comments: comments}
}

func (s *UserAdminService) List(ctx context.Context, q UserListQuery) (*models.UserListView, error) {
	log := logger.WithCtx(ctx)

	filter := models.UserFilter{Query: strings.TrimSpace(q.Query)}
	switch strings.TrimSpace(q.Staff) {
	case "true":
		v := true
		filter.Staff = &v
	case "false":
		v := false
		filter.Staff = &v
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		log.Error("Ошибка подсчёта пользователей (repo)", zap.Error(err))
		return nil, err
	}
	page := pagination.Resolve(q.Page, total, pagination.UserListPageSize)

	view := &models.UserListView{Page: page, Query: filter.Query, StaffFilter: strings.TrimSpace(q.Staff)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Users, err = s.users.List(gctx, filter, page.PageSize, page.Offset())
		return err
	})
	g.Go(func() (err error) {
		view.UserCounters, err = s.users.Counters(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("Ошибка получения списка пользователей (repo)", zap.Error(err))
		return nil, err
	}
	return view, nil
}

func (s *UserAdminService) get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err = notFound(err); errors.Is(err, ErrNotFound) {
			logger.WithCtx(ctx).Warn("Пользователь не найден", zap.Int64("id", id))
		} else {
			logger.WithCtx(ctx).Error("Ошибка получения пользователя (repo)", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return u, nil
}

// Detail — карточка пользователя: последние статьи и комментарии и итоги.
func (s *UserAdminService) Detail(ctx context.Context, id int64) (*models.UserDetailView, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.content(ctx, u, userDetailListSize)
}

// content собирает материалы пользователя; limit <= 0 — все.
func (s *UserAdminService) content(ctx context.Context, u *models.User, limit int) (*models.UserDetailView, error) {
	view := &models.UserDetailView{User: u}
	own := models.ArticleFilter{AuthorID: &u.ID, Order: models.OrderCreatedDesc}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.UserArticles, err = s.articles.List(gctx, own, limit, 0)
		return err
	})
	g.Go(func() (err error) {
		view.UserComments, err = s.comments.RecentByAuthor(gctx, u.ID, limit)
		return err
	})
	g.Go(func() (err error) {
		view.ContentStats, err = s.users.ContentStats(gctx, u.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.WithCtx(ctx).Error("Ошибка сборки карточки пользователя (repo)", zap.Int64("id", u.ID), zap.Error(err))
		return nil, err
	}
	return view, nil
}

func (s *UserAdminService) ToggleStaff(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.ToggleStaff(ctx, id)
	if err != nil {
		if err = notFound(err); !errors.Is(err, ErrNotFound) {
			logger.WithCtx(ctx).Error("Ошибка смены роли (repo)", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	logger.WithCtx(ctx).Info("Роль пользователя изменена", zap.Int64("id", id), zap.Bool("is_staff", u.IsStaff))
	return u, nil
}

func (s *UserAdminService) ToggleActive(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.ToggleActive(ctx, id)
	if err != nil {
		if err = notFound(err); !errors.Is(err, ErrNotFound) {
			logger.WithCtx(ctx).Error("Ошибка смены активности (repo)", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	logger.WithCtx(ctx).Info("Активность пользователя изменена", zap.Int64("id", id), zap.Bool("is_active", u.IsActive))
	return u, nil
}

// DeleteConfirmation — всё, что будет удалено вместе с пользователем.
// Удалить самого себя нельзя: возвращается пользователь и ErrSelfDelete.
func (s *UserAdminService) DeleteConfirmation(ctx context.Context, actor *models.User, id int64) (*models.UserDeleteView, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.ID == actor.ID {
		return &models.UserDeleteView{User: u}, ErrSelfDelete
	}
	content, err := s.content(ctx, u, 0)
	if err != nil {
		return nil, err
	}
	return &models.UserDeleteView{User: u, UserArticles: content.UserArticles, UserComments: content.UserComments}, nil
}

func (s *UserAdminService) Delete(ctx context.Context, actor *models.User, id int64) (*models.User, error) {
	log := logger.WithCtx(ctx)

	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.ID == actor.ID {
		log.Warn("Попытка удалить собственный аккаунт", zap.Int64("id", id))
		return u, ErrSelfDelete
	}
	if err := s.users.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления пользователя (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, notFound(err)
	}

	log.Info("Пользователь удалён", zap.Int64("id", id), zap.String("username", u.Username))
	return u, nil
}
