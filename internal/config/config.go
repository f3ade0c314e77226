package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbDriver  string // postgres|memory
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret      string
	AccessTokenTTL string
	SessionSecret  string

	Log      string
	LogLevel string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string

	SiteName        string
	SiteDescription string
	ContactEmail    string
	MediaDir        string

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	rps, err := strconv.ParseFloat(def(os.Getenv("RATE_LIMIT_RPS"), "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(def(os.Getenv("RATE_LIMIT_BURST"), "5"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbDriver:  strings.ToLower(def(os.Getenv("DB_DRIVER"), "postgres")),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "24h"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		SiteName:        def(os.Getenv("SITE_NAME"), "College News Portal"),
		SiteDescription: def(os.Getenv("SITE_DESCRIPTION"), "Your trusted source for campus updates"),
		ContactEmail:    def(os.Getenv("CONTACT_EMAIL"), "admin@collegenews.com"),
		MediaDir:        def(os.Getenv("MEDIA_DIR"), "media"),

		RateLimitRPS:   rps,
		RateLimitBurst: burst,
		CORSOrigins:    splitList(def(os.Getenv("CORS_ORIGINS"), "*")),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	switch c.DbDriver {
	case "postgres":
		if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
			return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
		}
	case "memory":
		warnings = append(warnings, "DB_DRIVER=memory: data is lost on restart")
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", c.DbDriver)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	if _, err := c.AccessTTL(); err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRY: %w", err)
	}

	if strings.TrimSpace(c.SessionSecret) == "" {
		warnings = append(warnings, "SESSION_SECRET is empty, falling back to JWT_SECRET")
	}

	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured, contact messages will not be delivered")
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		warnings = append(warnings, "rate limiting is disabled")
	}

	return warnings, nil
}

func (c *Config) AccessTTL() (time.Duration, error) {
	return time.ParseDuration(c.AccessTokenTTL)
}

// SessionKey — ключ подписи cookie-сессии (флеш-сообщения).
func (c *Config) SessionKey() []byte {
	if strings.TrimSpace(c.SessionSecret) != "" {
		return []byte(c.SessionSecret)
	}
	return []byte(c.JWTSecret)
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
