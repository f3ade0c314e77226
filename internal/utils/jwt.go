package utils

import (
	"errors"
	"fmt"
	"time"

	"campusnews/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken создаёт access-токен. jti нужен для отзыва при logout.
func GenerateToken(secret string, userID int64, role string, duration time.Duration) (string, *models.TokenClaims, error) {
	now := time.Now()
	out := &models.TokenClaims{
		UserID:    userID,
		Role:      role,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(duration),
	}
	claims := jwt.MapClaims{
		"user_id":    userID,
		"role":       role,
		"jti":        out.TokenID,
		"exp":        out.ExpiresAt.Unix(),
		"iat":        now.Unix(),
		"token_type": "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}
	return signed, out, nil
}

// ParseToken проверяет подпись и срок действия и достаёт claims.
func ParseToken(secret, raw string) (*models.TokenClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, ok1 := claims["user_id"].(float64)
	role, ok2 := claims["role"].(string)
	jti, ok3 := claims["jti"].(string)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("%w: недопустимый payload", ErrInvalidToken)
	}

	out := &models.TokenClaims{UserID: int64(userID), Role: role, TokenID: jti}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
