package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SITE_NAME", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DbDriver)
	assert.Equal(t, "College News Portal", cfg.SiteName)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)

	ttl, err := cfg.AccessTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestLoadConfig_InvalidRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "fast")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		warns   int
	}{
		{
			name:    "postgres without host",
			cfg:     Config{DbDriver: "postgres", JWTSecret: "s", AccessTokenTTL: "1h"},
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			cfg:     Config{DbDriver: "memory", AccessTokenTTL: "1h"},
			wantErr: true,
		},
		{
			name:    "bad ttl",
			cfg:     Config{DbDriver: "memory", JWTSecret: "s", AccessTokenTTL: "soon"},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			cfg:     Config{DbDriver: "sqlite", JWTSecret: "s", AccessTokenTTL: "1h"},
			wantErr: true,
		},
		{
			name: "memory with warnings",
			cfg: Config{
				DbDriver: "memory", JWTSecret: "s", AccessTokenTTL: "1h",
				RateLimitRPS: 1, RateLimitBurst: 5,
			},
			// memory, session secret, smtp
			warns: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, warnings, tt.warns)
		})
	}
}

func TestSessionKeyFallback(t *testing.T) {
	cfg := Config{JWTSecret: "jwt"}
	assert.Equal(t, []byte("jwt"), cfg.SessionKey())

	cfg.SessionSecret = "session"
	assert.Equal(t, []byte("session"), cfg.SessionKey())
}

func TestGetDSNSafe_HidesPassword(t *testing.T) {
	cfg := Config{DbUser: "news", DbPass: "secret", DbHost: "db", DbPort: "5432", DbName: "campus", DbSSLMode: "disable"}
	assert.Equal(t, "postgres://news:secret@db:5432/campus?sslmode=disable", cfg.GetDSN())
	assert.NotContains(t, cfg.GetDSNSafe(), "secret")
}
