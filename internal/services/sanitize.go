package services

import (
	"context"

	"campusnews/internal/logger"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Sanitizer чистит пользовательский HTML перед сохранением.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &Sanitizer{policy: p}
}

func (s *Sanitizer) Clean(ctx context.Context, raw string) string {
	clean := s.policy.Sanitize(raw)
	if len(clean) != len(raw) {
		// безопасно логируем только длины
		logger.WithCtx(ctx).Debug("HTML очищен",
			zap.Int("raw_len", len(raw)),
			zap.Int("clean_len", len(clean)),
		)
	}
	return clean
}
