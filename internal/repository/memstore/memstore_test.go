package memstore

import (
	"context"
	"testing"
	"time"

	"campusnews/internal/models"
	"campusnews/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *Store
	author *models.User
	reader *models.User
	cat    *models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	author := &models.User{Username: "editor", IsStaff: true, IsActive: true}
	reader := &models.User{Username: "reader", IsActive: true}
	require.NoError(t, s.Users().Create(ctx, author))
	require.NoError(t, s.Users().Create(ctx, reader))

	cat := &models.Category{Name: "News"}
	require.NoError(t, s.Categories().Create(ctx, cat))

	return &fixture{store: s, author: author, reader: reader, cat: cat}
}

func (f *fixture) article(t *testing.T, slug string, status models.ArticleStatus, publishedAt *time.Time) *models.Article {
	t.Helper()
	a := &models.Article{
		Title: slug, Slug: slug, Content: "body " + slug, Status: status,
		CategoryID: f.cat.ID, AuthorID: f.author.ID, PublishedAt: publishedAt,
	}
	require.NoError(t, f.store.Articles().Create(context.Background(), a))
	return a
}

func at(h int) *time.Time {
	t := time.Date(2025, 2, 1, h, 0, 0, 0, time.UTC)
	return &t
}

func TestArticles_SlugUnique(t *testing.T) {
	f := newFixture(t)
	f.article(t, "hello-world", models.StatusDraft, nil)

	dup := &models.Article{Slug: "hello-world", CategoryID: f.cat.ID, AuthorID: f.author.ID, Status: models.StatusDraft}
	assert.ErrorIs(t, f.store.Articles().Create(context.Background(), dup), repository.ErrConflict)
}

func TestArticles_ListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.article(t, "first", models.StatusPublished, at(1))
	f.article(t, "second", models.StatusPublished, at(3))
	f.article(t, "draft", models.StatusDraft, nil)

	list, err := f.store.Articles().List(ctx, models.PublishedFilter(models.OrderPublishedDesc), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Slug)
	assert.Equal(t, "News", list[0].CategoryName)
	assert.Equal(t, "editor", list[0].AuthorUsername)

	n, err := f.store.Articles().Count(ctx, models.ArticleFilter{Query: "BODY FIRST"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestArticles_Adjacent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.article(t, "one", models.StatusPublished, at(1))
	mid := f.article(t, "two", models.StatusPublished, at(2))
	f.article(t, "three", models.StatusPublished, at(3))

	prev, err := f.store.Articles().Adjacent(ctx, *mid.PublishedAt, true)
	require.NoError(t, err)
	next, err := f.store.Articles().Adjacent(ctx, *mid.PublishedAt, false)
	require.NoError(t, err)
	assert.Equal(t, "one", prev.Slug)
	assert.Equal(t, "three", next.Slug)

	none, err := f.store.Articles().Adjacent(ctx, *at(3), false)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestArticles_ToggleLike(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.article(t, "liked", models.StatusPublished, at(1))

	liked, err := f.store.Articles().ToggleLike(ctx, a.ID, f.reader.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := f.store.Articles().GetPublishedBySlug(ctx, "liked")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)

	liked, err = f.store.Articles().ToggleLike(ctx, a.ID, f.reader.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	isLiked, err := f.store.Articles().IsLikedBy(ctx, a.ID, f.reader.ID)
	require.NoError(t, err)
	assert.False(t, isLiked)
}

func TestCategories_DeleteRestrictedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.article(t, "a", models.StatusDraft, nil)

	assert.ErrorIs(t, f.store.Categories().Delete(ctx, f.cat.ID), repository.ErrReferenced)
	_, err := f.store.Categories().GetByID(ctx, f.cat.ID)
	assert.NoError(t, err)
}

func TestUsers_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.article(t, "mine", models.StatusPublished, at(1))

	c := &models.Comment{ArticleID: a.ID, AuthorID: f.reader.ID, Content: "hi", IsApproved: true}
	require.NoError(t, f.store.Comments().Create(ctx, c))
	_, err := f.store.Articles().ToggleLike(ctx, a.ID, f.reader.ID)
	require.NoError(t, err)

	require.NoError(t, f.store.Users().Delete(ctx, f.author.ID))

	n, err := f.store.Articles().CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = f.store.Comments().GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	stats, err := f.store.Users().ContentStats(ctx, f.reader.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.Comments)
}

func TestUsers_FilterAndToggle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	staff := false
	list, err := f.store.Users().List(ctx, models.UserFilter{Staff: &staff}, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "reader", list[0].Username)

	u, err := f.store.Users().ToggleStaff(ctx, f.reader.ID)
	require.NoError(t, err)
	assert.True(t, u.IsStaff)

	c, err := f.store.Users().Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UserCounters{Total: 2, Staff: 2, Active: 2}, c)
}

func TestUsers_RevokedTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now()

	require.NoError(t, f.store.Users().RevokeToken(ctx, "old", now.Add(-time.Hour)))
	require.NoError(t, f.store.Users().RevokeToken(ctx, "fresh", now.Add(time.Hour)))

	n, err := f.store.Users().PurgeRevokedTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, _ := f.store.Users().IsTokenRevoked(ctx, "fresh")
	assert.True(t, revoked)
	revoked, _ = f.store.Users().IsTokenRevoked(ctx, "old")
	assert.False(t, revoked)
}
