package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"Café Über", "cafe-uber"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Dash - and -- dashes", "dash-and-dashes"},
		{"Exams 2025: results!", "exams-2025-results"},
		{"snake_case title", "snake_case-title"},
		{"_Hello World_", "hello-world"},
		{"__init__ notes", "init__-notes"},
		{"_ - _", ""},
		{"!!!", ""},
		{"Новости", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass", hash)
	assert.True(t, CheckPasswordHash("secret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	raw, issued, err := GenerateToken("s3cret", 7, "admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.TokenID)

	got, err := ParseToken("s3cret", raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, issued.TokenID, got.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestParseToken_Rejects(t *testing.T) {
	raw, _, err := GenerateToken("s3cret", 7, "user", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", raw)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired, _, err := GenerateToken("s3cret", 7, "user", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("s3cret", expired)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
