// Package metrics provides centralized Prometheus metrics for the portal.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, route template, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RateLimitedTotal counts requests rejected by the per-client limiter
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"path"},
	)
)

// Business metrics
var (
	// ArticlesTotal tracks articles in the database by status
	ArticlesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "articles_total",
			Help: "Number of articles in the database",
		},
		[]string{"status"},
	)

	UsersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Number of registered users",
		},
	)

	CommentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "comments_total",
			Help: "Number of comments in the database",
		},
	)

	// ArticleViewsTotal counts detail page views
	ArticleViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "article_views_total",
			Help: "Total number of article detail views",
		},
	)

	// LikesToggledTotal counts like toggles by resulting state
	LikesToggledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_likes_toggled_total",
			Help: "Total number of like toggles",
		},
		[]string{"action"}, // like, unlike
	)

	CommentsPostedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_posted_total",
			Help: "Total number of comments posted",
		},
	)

	// LoginAttemptsTotal counts login attempts by result
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // success, failure
	)

	// JobRunsTotal counts background job runs by job and result
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_job_runs_total",
			Help: "Total number of background job runs",
		},
		[]string{"job", "result"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, s).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, s).Observe(duration.Seconds())
}

func RecordLikeToggle(liked bool) {
	action := "unlike"
	if liked {
		action = "like"
	}
	LikesToggledTotal.WithLabelValues(action).Inc()
}

func RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

func RecordJobRun(job string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	JobRunsTotal.WithLabelValues(job, result).Inc()
}

// SetContentGauges обновляет gauge-метрики по содержимому БД.
func SetContentGauges(published, drafts, users, comments int64) {
	ArticlesTotal.WithLabelValues("published").Set(float64(published))
	ArticlesTotal.WithLabelValues("draft").Set(float64(drafts))
	UsersTotal.Set(float64(users))
	CommentsTotal.Set(float64(comments))
}
