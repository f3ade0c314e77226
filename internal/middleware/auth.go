package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/reqctx"
	"campusnews/internal/utils/helpers"

	"go.uber.org/zap"
)

// AccessCookie — cookie с access-токеном для браузерных клиентов.
const AccessCookie = "access_token"

var errNoToken = errors.New("no access token")

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*models.User, *models.TokenClaims, error)
}

// Authenticate кладёт пользователя в контекст, если токен валиден.
// Запрос без пользователя идёт дальше анонимным: отказывают только guard'ы.
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFrom(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, claims, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("Authenticate: токен отклонён", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := reqctx.WithUser(r.Context(), user)
			ctx = reqctx.WithToken(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFrom(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); raw != "" {
			return raw, nil
		}
	}
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errNoToken
}

// IsScriptRequest — запрос от JS-клиента, которому нужен JSON, а не редирект.
func IsScriptRequest(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// LoginURL — страница входа с возвратом на next.
func LoginURL(next string) string {
	return "/login/?next=" + url.QueryEscape(next)
}

// RequireLogin: аноним получает редирект на вход, JS-клиент — 401.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqctx.User(r.Context()) == nil {
			logger.WithCtx(r.Context()).Warn("RequireLogin: требуется вход", zap.String("path", r.URL.Path))
			if IsScriptRequest(r) {
				unauthorized(w)
				return
			}
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLoginJSON — для чисто JSON-эндпоинтов: аноним всегда получает 401.
func RequireLoginJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqctx.User(r.Context()) == nil {
			logger.WithCtx(r.Context()).Warn("RequireLoginJSON: требуется вход", zap.String("path", r.URL.Path))
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	helpers.Raw(w, http.StatusUnauthorized, map[string]interface{}{
		"success": false,
		"error":   "Authentication required",
	})
}

// RequireAdmin включает RequireLogin; вошедший не-админ получает 403.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := reqctx.User(r.Context())
		if !u.IsAdmin() {
			logger.WithCtx(r.Context()).Warn("RequireAdmin: доступ запрещён", zap.String("path", r.URL.Path))
			helpers.Error(w, http.StatusForbidden, "You do not have permission to access this page.")
			return
		}
		next.ServeHTTP(w, r)
	}))
}
