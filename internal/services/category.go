package services

import (
	"context"
	"errors"
	"strings"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/repository"

	"go.uber.org/zap"
)

const duplicateCategoryMsg = "Category with this Name already exists."

type CategoryService struct {
	repo repository.CategoryRepo
}

func NewCategoryService(repo repository.CategoryRepo) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]*models.CategoryWithCount, error) {
	list, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения категорий (repo)", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err = notFound(err); errors.Is(err, ErrNotFound) {
			logger.WithCtx(ctx).Warn("Категория не найдена", zap.Int64("id", id))
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, form models.CategoryForm) (*models.Category, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание категории", zap.String("name", form.Name))

	c := &models.Category{}
	if err := s.apply(ctx, c, form); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fieldError("name", duplicateCategoryMsg)
		}
		log.Error("Ошибка создания категории (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Категория создана", zap.Int64("id", c.ID))
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, form models.CategoryForm) (*models.Category, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление категории", zap.Int64("id", id))

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, form); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fieldError("name", duplicateCategoryMsg)
		}
		log.Error("Ошибка обновления категории (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, notFound(err)
	}
	return c, nil
}

// Delete отказывает, пока в категории есть статьи: статьи не удаляются вместе с ней.
func (s *CategoryService) Delete(ctx context.Context, id int64) (*models.Category, error) {
	log := logger.WithCtx(ctx)

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.ArticleCount(ctx, id)
	if err != nil {
		log.Error("Ошибка подсчёта статей категории (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if n > 0 {
		log.Warn("Категория используется", zap.Int64("id", id), zap.Int64("articles", n))
		return c, ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return c, ErrCategoryInUse
		}
		log.Error("Ошибка удаления категории (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, notFound(err)
	}

	log.Info("Категория удалена", zap.Int64("id", id), zap.String("name", c.Name))
	return c, nil
}

func (s *CategoryService) apply(ctx context.Context, c *models.Category, form models.CategoryForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	if err := validateForm(form); err != nil {
		return err
	}

	taken, err := s.repo.NameTaken(ctx, form.Name, c.ID)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка проверки имени категории (repo)", zap.Error(err))
		return err
	}
	if taken {
		return fieldError("name", duplicateCategoryMsg)
	}

	c.Name = form.Name
	c.Description = form.Description
	return nil
}
