package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"campusnews/internal/db"
	"campusnews/internal/models"
	"campusnews/internal/repository"
	"campusnews/internal/repository/memstore"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Одни и те же сценарии гоняются по памяти и, если задан
// CAMPUSNEWS_TEST_DSN, по живому PostgreSQL: поведение хранилищ не должно расходиться.
const testDSNEnv = "CAMPUSNEWS_TEST_DSN"

type repos struct {
	articles   repository.ArticleRepo
	categories repository.CategoryRepo
	comments   repository.CommentRepo
	users      repository.UserRepo
}

func eachBackend(t *testing.T, run func(t *testing.T, r repos)) {
	t.Run("memory", func(t *testing.T) {
		s := memstore.New()
		run(t, repos{articles: s.Articles(), categories: s.Categories(), comments: s.Comments(), users: s.Users()})
	})
	t.Run("postgres", func(t *testing.T) {
		dsn := os.Getenv(testDSNEnv)
		if dsn == "" {
			t.Skip(testDSNEnv + " не задан")
		}
		pool := openPostgres(t, dsn)
		run(t, repos{
			articles:   repository.NewArticleRepo(pool),
			categories: repository.NewCategoryRepo(pool),
			comments:   repository.NewCommentRepo(pool),
			users:      repository.NewUserRepo(pool),
		})
	})
}

func openPostgres(t *testing.T, dsn string) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.Migrate(dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx,
		`TRUNCATE article_likes, comments, articles, categories, users, revoked_tokens RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

type seed struct {
	author, reader *models.User
	cat            *models.Category
	older, newer   *models.Article
	draft          *models.Article
}

func seedContent(t *testing.T, r repos) seed {
	t.Helper()
	ctx := context.Background()
	var s seed

	s.author = &models.User{Username: "editor", PasswordHash: "x", IsStaff: true, IsActive: true}
	s.reader = &models.User{Username: "reader", PasswordHash: "x", IsActive: true}
	require.NoError(t, r.users.Create(ctx, s.author))
	require.NoError(t, r.users.Create(ctx, s.reader))

	s.cat = &models.Category{Name: "News"}
	require.NoError(t, r.categories.Create(ctx, s.cat))
	require.NoError(t, r.categories.Create(ctx, &models.Category{Name: "Sport"}))

	article := func(slug string, publishedAt *time.Time) *models.Article {
		a := &models.Article{
			Title: slug, Slug: slug, Content: "body", Status: models.StatusDraft,
			CategoryID: s.cat.ID, AuthorID: s.author.ID,
		}
		if publishedAt != nil {
			a.Status, a.PublishedAt = models.StatusPublished, publishedAt
		}
		require.NoError(t, r.articles.Create(ctx, a))
		return a
	}
	day := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	next := day.Add(24 * time.Hour)
	s.older = article("older", &day)
	s.newer = article("newer", &next)
	s.draft = article("draft", nil)

	for _, c := range []*models.Comment{
		{ArticleID: s.older.ID, AuthorID: s.reader.ID, Content: "first", IsApproved: true},
		{ArticleID: s.newer.ID, AuthorID: s.reader.ID, Content: "second", IsApproved: true},
		{ArticleID: s.newer.ID, AuthorID: s.author.ID, Content: "reply", IsApproved: true},
	} {
		require.NoError(t, r.comments.Create(ctx, c))
	}
	return s
}

func contents(list []*models.Comment) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Content)
	}
	return out
}

func TestBackends_RecentComments(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		s := seedContent(t, r)

		all, err := r.comments.RecentByAuthor(ctx, s.reader.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first"}, contents(all))

		one, err := r.comments.RecentByAuthor(ctx, s.reader.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"second"}, contents(one))

		onAuthor, err := r.comments.RecentOnAuthorArticles(ctx, s.author.ID, 0)
		require.NoError(t, err)
		assert.Len(t, onAuthor, 3)
	})
}

func TestBackends_LikesAndTotals(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		s := seedContent(t, r)

		liked, err := r.articles.ToggleLike(ctx, s.newer.ID, s.reader.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		_, err = r.articles.ToggleLike(ctx, s.draft.ID, s.reader.ID)
		require.NoError(t, err)
		views, err := r.articles.IncrementViews(ctx, s.newer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), views)

		site, err := r.articles.PublishedTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.SiteTotals{Articles: 2, Views: 1, Likes: 1}, site)

		author, err := r.articles.AuthorTotals(ctx, s.author.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AuthorTotals{Articles: 3, Views: 1, Likes: 2, Comments: 3}, author)

		stats, err := r.users.ContentStats(ctx, s.author.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ContentStats{Articles: 3, Comments: 1, Likes: 2}, stats)

		liked, err = r.articles.ToggleLike(ctx, s.newer.ID, s.reader.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		isLiked, err := r.articles.IsLikedBy(ctx, s.newer.ID, s.reader.ID)
		require.NoError(t, err)
		assert.False(t, isLiked)
	})
}

func TestBackends_Adjacent(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		s := seedContent(t, r)

		prev, err := r.articles.Adjacent(ctx, *s.newer.PublishedAt, true)
		require.NoError(t, err)
		require.NotNil(t, prev)
		assert.Equal(t, "older", prev.Slug)

		next, err := r.articles.Adjacent(ctx, *s.newer.PublishedAt, false)
		require.NoError(t, err)
		assert.Nil(t, next)
	})
}

func TestBackends_CategoryCounts(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		s := seedContent(t, r)

		published, err := r.categories.ListPublishedCounts(ctx)
		require.NoError(t, err)
		require.Len(t, published, 2)
		assert.Equal(t, "News", published[0].Name)
		assert.Equal(t, int64(2), published[0].ArticleCount)

		top, err := r.categories.Top(ctx, 0)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, int64(3), top[0].ArticleCount)

		assert.ErrorIs(t, r.categories.Delete(ctx, s.cat.ID), repository.ErrReferenced)
	})
}

func TestBackends_UserDeleteCascades(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		s := seedContent(t, r)
		_, err := r.articles.ToggleLike(ctx, s.older.ID, s.reader.ID)
		require.NoError(t, err)

		require.NoError(t, r.users.Delete(ctx, s.author.ID))

		articles, err := r.articles.CountAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, articles)
		comments, err := r.comments.CountAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, comments, "комментарии читателя к удалённым статьям уходят вместе с ними")
		stats, err := r.users.ContentStats(ctx, s.reader.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ContentStats{}, stats)
	})
}
