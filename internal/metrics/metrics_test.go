package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/article/{slug}/", "200"))
	RecordHTTPRequest("GET", "/article/{slug}/", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/article/{slug}/", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordLikeToggle(t *testing.T) {
	before := testutil.ToFloat64(LikesToggledTotal.WithLabelValues("unlike"))
	RecordLikeToggle(false)
	assert.Equal(t, before+1, testutil.ToFloat64(LikesToggledTotal.WithLabelValues("unlike")))
}

func TestRecordJobRun(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{name: "success", err: nil, result: "success"},
		{name: "failure", err: errors.New("db down"), result: "failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(JobRunsTotal.WithLabelValues("test_job", tt.result))
			RecordJobRun("test_job", tt.err)
			assert.Equal(t, before+1, testutil.ToFloat64(JobRunsTotal.WithLabelValues("test_job", tt.result)))
		})
	}
}

func TestSetContentGauges(t *testing.T) {
	SetContentGauges(3, 2, 10, 7)
	assert.Equal(t, 3.0, testutil.ToFloat64(ArticlesTotal.WithLabelValues("published")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ArticlesTotal.WithLabelValues("draft")))
	assert.Equal(t, 10.0, testutil.ToFloat64(UsersTotal))
	assert.Equal(t, 7.0, testutil.ToFloat64(CommentsTotal))
}
