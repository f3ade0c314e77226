package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"campusnews/internal/models"
	"campusnews/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

// tail — запрос должен заканчиваться именно этим фрагментом.
func tail(fragment string) string {
	return regexp.QuoteMeta(fragment) + `$`
}

var (
	commentColumns = []string{
		"id", "article_id", "slug", "title", "author_id", "username", "content", "created_at", "is_approved",
	}
	articleColumns = []string{
		"id", "title", "slug", "content", "excerpt", "featured_image", "status", "views",
		"category_id", "name", "author_id", "username", "likes",
		"created_at", "updated_at", "published_at",
	}
	categoryColumns = []string{"id", "name", "description", "created_at", "article_count"}

	stamp = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func commentRows(ids ...int64) *pgxmock.Rows {
	rows := pgxmock.NewRows(commentColumns)
	for _, id := range ids {
		rows.AddRow(id, int64(1), "first-post", "First post", int64(7), "reader", "nice", stamp, true)
	}
	return rows
}

func articleRow(id int64, slug string, publishedAt *time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(articleColumns).AddRow(
		id, "Title "+slug, slug, "<p>body</p>", "", (*string)(nil), "published", int64(3),
		int64(2), "News", int64(7), "editor", int64(1),
		stamp, stamp, publishedAt,
	)
}

func TestCommentRepo_RecentByAuthor_NoLimitMeansAll(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(tail(`WHERE cm.author_id=$1 ORDER BY cm.created_at DESC, cm.id DESC`)).
		WithArgs(int64(7)).
		WillReturnRows(commentRows(3, 2, 1))

	got, err := repository.NewCommentRepo(mock).RecentByAuthor(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "first-post", got[0].ArticleSlug)
}

func TestCommentRepo_RecentByAuthor_Limited(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(tail(`WHERE cm.author_id=$1 ORDER BY cm.created_at DESC, cm.id DESC LIMIT $2`)).
		WithArgs(int64(7), 5).
		WillReturnRows(commentRows(9))

	got, err := repository.NewCommentRepo(mock).RecentByAuthor(context.Background(), 7, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ID)
}

func TestCommentRepo_RecentOnAuthorArticles_NoLimitMeansAll(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(tail(`WHERE a.author_id=$1 ORDER BY cm.created_at DESC, cm.id DESC`)).
		WithArgs(int64(7)).
		WillReturnRows(commentRows(5, 4))

	got, err := repository.NewCommentRepo(mock).RecentOnAuthorArticles(context.Background(), 7, -1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCommentRepo_GetByID_Missing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE cm.id=$1`)).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(commentColumns))

	_, err := repository.NewCommentRepo(mock).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCategoryRepo_Top(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(tail(`ORDER BY article_count DESC, c.name ASC LIMIT $1`)).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows(categoryColumns).AddRow(int64(2), "News", "", stamp, int64(4)))
	mock.ExpectQuery(tail(`ORDER BY article_count DESC, c.name ASC`)).
		WillReturnRows(pgxmock.NewRows(categoryColumns).
			AddRow(int64(2), "News", "", stamp, int64(4)).
			AddRow(int64(3), "Sport", "", stamp, int64(0)))

	repo := repository.NewCategoryRepo(mock)
	top, err := repo.Top(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(4), top[0].ArticleCount)

	all, err := repo.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoryRepo_DeleteReferenced(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categories WHERE id=$1`)).
		WithArgs(int64(2)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repository.NewCategoryRepo(mock).Delete(context.Background(), 2)
	assert.ErrorIs(t, err, repository.ErrReferenced)
}

func TestArticleRepo_Adjacent(t *testing.T) {
	mock := newMock(t)
	prevAt := stamp.Add(-time.Hour)
	mock.ExpectQuery(tail(`a.published_at < $1 ORDER BY a.published_at DESC, a.id DESC LIMIT 1`)).
		WithArgs(stamp).
		WillReturnRows(articleRow(4, "older", &prevAt))
	mock.ExpectQuery(tail(`a.published_at > $1 ORDER BY a.published_at ASC, a.id ASC LIMIT 1`)).
		WithArgs(stamp).
		WillReturnRows(pgxmock.NewRows(articleColumns))

	repo := repository.NewArticleRepo(mock)
	prev, err := repo.Adjacent(context.Background(), stamp, true)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "older", prev.Slug)
	assert.Equal(t, models.StatusPublished, prev.Status)
	assert.Equal(t, &prevAt, prev.PublishedAt)
	assert.Nil(t, prev.FeaturedImage)

	next, err := repo.Adjacent(context.Background(), stamp, false)
	require.NoError(t, err)
	assert.Nil(t, next, "у последней статьи нет следующей")
}

func TestArticleRepo_ToggleLike(t *testing.T) {
	const (
		deleteLike = `DELETE FROM article_likes WHERE article_id=$1 AND user_id=$2`
		insertLike = `INSERT INTO article_likes (article_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	)
	ctx := context.Background()

	t.Run("ставит, если лайка не было", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteLike)).WithArgs(int64(1), int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(regexp.QuoteMeta(insertLike)).WithArgs(int64(1), int64(7)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		liked, err := repository.NewArticleRepo(mock).ToggleLike(ctx, 1, 7)
		require.NoError(t, err)
		assert.True(t, liked)
	})

	t.Run("снимает существующий", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteLike)).WithArgs(int64(1), int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		liked, err := repository.NewArticleRepo(mock).ToggleLike(ctx, 1, 7)
		require.NoError(t, err)
		assert.False(t, liked)
	})

	t.Run("ошибка откатывает транзакцию", func(t *testing.T) {
		mock := newMock(t)
		boom := errors.New("connection reset")
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteLike)).WithArgs(int64(1), int64(7)).
			WillReturnError(boom)
		mock.ExpectRollback()

		_, err := repository.NewArticleRepo(mock).ToggleLike(ctx, 1, 7)
		assert.ErrorIs(t, err, boom)
	})
}

func TestArticleRepo_PublishedTotals(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.status='published'`)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "views", "likes"}).
			AddRow(int64(3), int64(120), int64(8)))

	got, err := repository.NewArticleRepo(mock).PublishedTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SiteTotals{Articles: 3, Views: 120, Likes: 8}, got)
}

func TestArticleRepo_AuthorTotals(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM comments c JOIN articles p ON p.id = c.article_id WHERE p.author_id=$1`)).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "views", "likes", "comments"}).
			AddRow(int64(4), int64(50), int64(6), int64(11)))

	got, err := repository.NewArticleRepo(mock).AuthorTotals(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.AuthorTotals{Articles: 4, Views: 50, Likes: 6, Comments: 11}, got)
}

func TestUserRepo_ContentStats(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`(SELECT COUNT(*) FROM comments WHERE author_id=$1)`)).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"articles", "comments", "likes"}).
			AddRow(int64(2), int64(5), int64(9)))

	got, err := repository.NewUserRepo(mock).ContentStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.ContentStats{Articles: 2, Comments: 5, Likes: 9}, got)
}

func TestUserRepo_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repository.NewUserRepo(mock).Create(context.Background(), &models.User{Username: "ann"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}
