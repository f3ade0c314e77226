// internal/reqctx/reqctx.go
package reqctx

import (
	"context"

	"campusnews/internal/models"
)

type key int

const (
	keyRequestID key = iota
	keyUser
	keyToken
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

// WithUser кладёт аутентифицированного пользователя в контекст запроса.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, keyUser, u)
}

// User возвращает текущего пользователя или nil для анонимного запроса.
func User(ctx context.Context) *models.User {
	u, _ := ctx.Value(keyUser).(*models.User)
	return u
}

func GetUserID(ctx context.Context) (int64, bool) {
	if u := User(ctx); u != nil {
		return u.ID, true
	}
	return 0, false
}

func WithToken(ctx context.Context, c *models.TokenClaims) context.Context {
	return context.WithValue(ctx, keyToken, c)
}

func Token(ctx context.Context) *models.TokenClaims {
	c, _ := ctx.Value(keyToken).(*models.TokenClaims)
	return c
}
