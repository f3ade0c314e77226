package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusnews/internal/metrics"
	"campusnews/internal/models"
	"campusnews/internal/repository/memstore"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentGaugesJob(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	u := &models.User{Username: "editor", IsStaff: true, IsActive: true}
	require.NoError(t, s.Users().Create(ctx, u))
	c := &models.Category{Name: "News"}
	require.NoError(t, s.Categories().Create(ctx, c))

	now := time.Now()
	for i, st := range []models.ArticleStatus{models.StatusPublished, models.StatusDraft, models.StatusDraft} {
		a := &models.Article{Title: "a", Slug: string(rune('a' + i)), Status: st, CategoryID: c.ID, AuthorID: u.ID}
		a.ApplyStatus(now)
		require.NoError(t, s.Articles().Create(ctx, a))
	}

	NewContentGaugesJob(s.Articles(), s.Users(), s.Comments()).Run()

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ArticlesTotal.WithLabelValues("published")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ArticlesTotal.WithLabelValues("draft")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.UsersTotal))
}

type stubPurger struct {
	calls int
	err   error
}

func (p *stubPurger) PurgeRevoked(context.Context) (int64, error) {
	p.calls++
	return 3, p.err
}

func TestTokenPurgeJob(t *testing.T) {
	before := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("revoked_tokens_purge", "failure"))

	p := &stubPurger{err: errors.New("db down")}
	NewTokenPurgeJob(p).Run()

	assert.Equal(t, 1, p.calls)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("revoked_tokens_purge", "failure")))
}

type stubCleaner struct{ idle time.Duration }

func (c *stubCleaner) Cleanup(idle time.Duration) int {
	c.idle = idle
	return 0
}

func TestManager_RegisterJobs(t *testing.T) {
	cleaner := &stubCleaner{}
	m := NewManager(
		Schedule{Name: "purge", Spec: "@hourly", Job: NewTokenPurgeJob(&stubPurger{})},
		Schedule{Name: "limiter", Spec: "*/10 * * * *", Job: NewLimiterCleanupJob(cleaner, time.Hour)},
	)
	require.NoError(t, m.RegisterJobs())
	assert.Len(t, m.engine.Entries(), 2)

	for _, e := range m.engine.Entries() {
		e.Job.Run()
	}
	assert.Equal(t, time.Hour, cleaner.idle)

	bad := NewManager(Schedule{Name: "bad", Spec: "not a spec", Job: cron.FuncJob(func() {})})
	assert.Error(t, bad.RegisterJobs())
}
