package middleware

import (
	"net/http"
	"time"

	"campusnews/internal/logger"
	"campusnews/internal/metrics"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Logging пишет строку на запрос и метрики по шаблону маршрута.
// Ставится внутри Authenticate, чтобы в логе был user_id.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		elapsed := time.Since(start)

		metrics.RecordHTTPRequest(r.Method, routeTemplate(r), lrw.statusCode, elapsed)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", elapsed),
		}
		log := logger.WithCtx(r.Context())
		switch {
		case lrw.statusCode >= 500:
			log.Error("HTTP-запрос", fields...)
		case r.URL.Path == "/healthz" || r.URL.Path == "/metrics":
			log.Debug("HTTP-запрос", fields...)
		default:
			log.Info("HTTP-запрос", fields...)
		}
	})
}

// routeTemplate — шаблон маршрута вместо сырого пути, чтобы не раздувать
// кардинальность метрик slug'ами и id.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if !lrw.wroteHeader {
		lrw.statusCode = code
		lrw.wroteHeader = true
	}
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	lrw.wroteHeader = true
	return lrw.ResponseWriter.Write(b)
}
