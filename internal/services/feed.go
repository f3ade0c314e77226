package services

import (
	"context"
	"strconv"
	"strings"

	"campusnews/internal/logger"
	"campusnews/internal/metrics"
	"campusnews/internal/models"
	"campusnews/internal/pagination"
	"campusnews/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sidebarSize = 5

// HomeQuery — сырые параметры главной страницы.
type HomeQuery struct {
	Query    string
	Category string
	Page     string
}

// FeedService собирает публичные страницы: главную и карточку статьи.
type FeedService struct {
	articles   repository.ArticleRepo
	categories repository.CategoryRepo
	comments   repository.CommentRepo
}

func NewFeedService(articles repository.ArticleRepo, categories repository.CategoryRepo, comments repository.CommentRepo) *FeedService {
	return &FeedService{articles: articles, categories: categories, comments: comments}
}

func (s *FeedService) Home(ctx context.Context, q HomeQuery) (*models.HomeView, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Сборка главной", zap.String("q", q.Query), zap.String("category", q.Category), zap.String("page", q.Page))

	filter := models.PublishedFilter(models.OrderPublishedDesc)
	filter.Query = strings.TrimSpace(q.Query)
	if raw := strings.TrimSpace(q.Category); raw != "" {
		// нечисловой id категории даёт пустую выдачу
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			id = 0
		}
		filter.CategoryID = &id
	}

	total, err := s.articles.Count(ctx, filter)
	if err != nil {
		log.Error("Ошибка подсчёта ленты (repo)", zap.Error(err))
		return nil, err
	}
	page := pagination.Resolve(q.Page, total, pagination.FeedPageSize)

	view := &models.HomeView{
		Page:             page,
		Query:            filter.Query,
		SelectedCategory: strings.TrimSpace(q.Category),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Articles, err = s.articles.List(gctx, filter, page.PageSize, page.Offset())
		return err
	})
	g.Go(func() (err error) {
		view.Categories, err = s.categories.ListPublishedCounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		view.RecentArticles, err = s.articles.List(gctx, models.PublishedFilter(models.OrderPublishedDesc), sidebarSize, 0)
		return err
	})
	g.Go(func() (err error) {
		view.PopularArticles, err = s.articles.List(gctx, models.PublishedFilter(models.OrderViewsDesc), sidebarSize, 0)
		return err
	})
	g.Go(func() error {
		latest, err := s.articles.List(gctx, models.PublishedFilter(models.OrderPublishedDesc), 1, 0)
		if err == nil && len(latest) > 0 {
			view.LatestArticle = latest[0]
		}
		return err
	})
	var totals models.SiteTotals
	var categoryCount int64
	g.Go(func() (err error) {
		totals, err = s.articles.PublishedTotals(gctx)
		return err
	})
	g.Go(func() (err error) {
		categoryCount, err = s.categories.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("Ошибка сборки главной (repo)", zap.Error(err))
		return nil, err
	}

	totals.Categories = categoryCount
	view.Totals = totals

	log.Debug("Главная собрана", zap.Int("count", len(view.Articles)), zap.Int("page", page.Page))
	return view, nil
}

// OpenArticle загружает опубликованную статью и засчитывает просмотр.
func (s *FeedService) OpenArticle(ctx context.Context, slug string) (*models.Article, error) {
	log := logger.WithCtx(ctx)

	a, err := s.articles.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if err = notFound(err); err == ErrNotFound {
			log.Warn("Статья не найдена", zap.String("slug", slug))
		} else {
			log.Error("Ошибка получения статьи (repo)", zap.String("slug", slug), zap.Error(err))
		}
		return nil, err
	}

	views, err := s.articles.IncrementViews(ctx, a.ID)
	if err != nil {
		log.Error("Ошибка увеличения просмотров (repo)", zap.Int64("id", a.ID), zap.Error(err))
		return nil, notFound(err)
	}
	a.Views = views
	metrics.ArticleViewsTotal.Inc()
	return a, nil
}

// DetailView собирает всё, что показывается рядом со статьёй.
func (s *FeedService) DetailView(ctx context.Context, a *models.Article, viewer *models.User) (*models.ArticleDetailView, error) {
	view := &models.ArticleDetailView{Article: a}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Comments, err = s.comments.ListByArticle(gctx, a.ID)
		return err
	})
	g.Go(func() (err error) {
		f := models.PublishedFilter(models.OrderPublishedDesc)
		f.CategoryID = &a.CategoryID
		f.ExcludeID = a.ID
		view.RelatedArticles, err = s.articles.List(gctx, f, sidebarSize, 0)
		return err
	})
	g.Go(func() (err error) {
		f := models.PublishedFilter(models.OrderViewsDesc)
		f.ExcludeID = a.ID
		view.PopularArticles, err = s.articles.List(gctx, f, sidebarSize, 0)
		return err
	})
	if a.PublishedAt != nil {
		g.Go(func() (err error) {
			view.PreviousArticle, err = s.articles.Adjacent(gctx, *a.PublishedAt, true)
			return err
		})
		g.Go(func() (err error) {
			view.NextArticle, err = s.articles.Adjacent(gctx, *a.PublishedAt, false)
			return err
		})
	}
	if viewer != nil {
		g.Go(func() (err error) {
			view.IsLiked, err = s.articles.IsLikedBy(gctx, a.ID, viewer.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithCtx(ctx).Error("Ошибка сборки карточки статьи (repo)", zap.Int64("id", a.ID), zap.Error(err))
		return nil, err
	}
	return view, nil
}

// Detail — просмотр карточки: один инкремент просмотров и сборка view.
func (s *FeedService) Detail(ctx context.Context, slug string, viewer *models.User) (*models.ArticleDetailView, error) {
	a, err := s.OpenArticle(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.DetailView(ctx, a, viewer)
}
