package services

import (
	"context"
	"math"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardListSize   = 5
	dashboardActivities = 3
)

type DashboardService struct {
	articles   repository.ArticleRepo
	categories repository.CategoryRepo
	comments   repository.CommentRepo
	users      repository.UserRepo
}

func NewDashboardService(
	articles repository.ArticleRepo,
	categories repository.CategoryRepo,
	comments repository.CommentRepo,
	users repository.UserRepo,
) *DashboardService {
	return &DashboardService{articles: articles, categories: categories, comments: comments, users: users}
}

// EngagementRate — (лайки+комментарии)/просмотры в процентах, не больше 100,
// с точностью до десятых. Без просмотров — 0.
func EngagementRate(views, likes, comments int64) float64 {
	if views <= 0 {
		return 0
	}
	rate := math.Min(100, float64(likes+comments)/float64(views)*100)
	return math.Round(rate*10) / 10
}

func (s *DashboardService) Build(ctx context.Context, user *models.User) (*models.DashboardView, error) {
	log := logger.WithCtx(ctx)
	log.Info("Сборка дашборда")

	view := &models.DashboardView{}
	var totals models.AuthorTotals

	own := models.ArticleFilter{AuthorID: &user.ID, Order: models.OrderCreatedDesc}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.UserArticles, err = s.articles.List(gctx, own, 0, 0)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.articles.AuthorTotals(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		view.RecentComments, err = s.comments.RecentOnAuthorArticles(gctx, user.ID, dashboardListSize)
		return err
	})
	g.Go(func() (err error) {
		view.PopularCategories, err = s.categories.Top(gctx, dashboardListSize)
		return err
	})
	g.Go(func() (err error) {
		view.PopularArticles, err = s.articles.List(gctx, models.PublishedFilter(models.OrderViewsDesc), dashboardListSize, 0)
		return err
	})
	g.Go(func() (err error) {
		view.TotalUsers, err = s.users.CountAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("Ошибка сборки дашборда (repo)", zap.Error(err))
		return nil, err
	}

	view.UserArticlesCount = totals.Articles
	view.TotalViews = totals.Views
	view.TotalLikes = totals.Likes
	view.TotalComments = totals.Comments
	if totals.Articles > 0 {
		view.AvgViews = totals.Views / totals.Articles
		view.AvgLikes = totals.Likes / totals.Articles
	}
	view.AvgViewsPercentage = min(100, view.AvgViews*10)
	view.AvgLikesPercentage = min(100, view.AvgLikes*20)
	view.EngagementRate = EngagementRate(totals.Views, totals.Likes, totals.Comments)

	view.RecentActivities = []models.Activity{}
	for i, a := range view.UserArticles {
		if i == dashboardActivities {
			break
		}
		view.RecentActivities = append(view.RecentActivities, models.Activity{
			Description: `Created article "` + a.Title + `"`,
			Timestamp:   a.CreatedAt,
			Icon:        "newspaper",
			Color:       "primary",
		})
	}

	log.Debug("Дашборд собран",
		zap.Int64("articles", totals.Articles),
		zap.Int64("views", totals.Views),
		zap.Float64("engagement", view.EngagementRate),
	)
	return view, nil
}
