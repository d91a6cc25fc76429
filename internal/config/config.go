// Package config resolves the service configuration once at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// CookiePolicy holds the security attributes of the refresh-token cookie.
type CookiePolicy struct {
	Name     string
	Path     string
	HTTPOnly bool
	Secure   bool
	SameSite string
	MaxAge   time.Duration
}

// Config is the fully resolved service configuration.
type Config struct {
	AppPort     string
	Environment string

	DatabaseDriver   string // "postgres" or "sqlite"
	DatabaseDSN      string
	DatabaseMaxConns int32

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	BcryptCost         int

	RabbitMQURL string
	RedisURL    string

	MediaDir     string
	MediaBaseURL string

	CORSOrigins string

	Cookie CookiePolicy
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:sosmed.db")
	v.SetDefault("DATABASE_MAX_CONNS", 20)
	v.SetDefault("ACCESS_TOKEN_SECRET", "dev_access_secret")
	v.SetDefault("REFRESH_TOKEN_SECRET", "dev_refresh_secret")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("MEDIA_DIR", "./uploads")
	v.SetDefault("MEDIA_BASE_URL", "/media/")
	v.SetDefault("CORS_ORIGINS", "*")
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:            v.GetString("APP_PORT"),
		Environment:        strings.ToLower(v.GetString("APP_ENV")),
		DatabaseDriver:     strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		DatabaseMaxConns:   v.GetInt32("DATABASE_MAX_CONNS"),
		AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:    v.GetDuration("REFRESH_TOKEN_TTL"),
		BcryptCost:         v.GetInt("BCRYPT_COST"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		RedisURL:           v.GetString("REDIS_URL"),
		MediaDir:           v.GetString("MEDIA_DIR"),
		MediaBaseURL:       v.GetString("MEDIA_BASE_URL"),
		CORSOrigins:        v.GetString("CORS_ORIGINS"),
	}
	cfg.Cookie = ResolveCookiePolicy(cfg.Environment, cfg.RefreshTokenTTL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveCookiePolicy maps the deployment environment to refresh-cookie
// attributes. Production cookies must travel cross-site, so they are Secure
// with SameSite=None; anything else gets Lax over plain HTTP.
func ResolveCookiePolicy(env string, maxAge time.Duration) CookiePolicy {
	policy := CookiePolicy{
		Name:     "refreshToken",
		Path:     "/",
		HTTPOnly: true,
		MaxAge:   maxAge,
	}
	if env == EnvProduction {
		policy.Secure = true
		policy.SameSite = "None"
	} else {
		policy.Secure = false
		policy.SameSite = "Lax"
	}
	return policy
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate checks invariants that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if c.IsProduction() {
		if c.AccessTokenSecret == "dev_access_secret" || c.RefreshTokenSecret == "dev_refresh_secret" {
			return fmt.Errorf("development token secrets must not be used in production")
		}
		if c.AccessTokenSecret == c.RefreshTokenSecret {
			return fmt.Errorf("access and refresh token secrets must differ")
		}
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}
