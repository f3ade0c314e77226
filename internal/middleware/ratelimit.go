package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"campusnews/internal/logger"
	"campusnews/internal/metrics"
	"campusnews/internal/utils/helpers"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter — token bucket на каждый клиентский IP.
type RateLimiter struct {
	rate  rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Enabled — лимит выключен при нулевых rps или burst.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.rate > 0 && rl.burst > 0
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter.AllowN(v.lastSeen, 1)
}

// Cleanup забывает клиентов, не приходивших дольше idle. Возвращает число удалённых.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	n := 0
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
			n++
		}
	}
	return n
}

// Limit ограничивает только изменяющие запросы: GET формы не расходует токены.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		ip := clientIP(r)
		if !rl.allow(ip) {
			logger.WithCtx(r.Context()).Warn("Превышен лимит запросов", zap.String("ip", ip), zap.String("path", r.URL.Path))
			metrics.RateLimitedTotal.WithLabelValues(routeTemplate(r)).Inc()
			w.Header().Set("Retry-After", "1")
			helpers.Error(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP берёт адрес соединения: заголовкам прокси без явного доверия не верим.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
