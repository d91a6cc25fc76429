package config_test

import (
	"testing"
	"time"

	"sosmed/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file::memory:")
	v.SetDefault("ACCESS_TOKEN_SECRET", "dev_access_secret")
	v.SetDefault("REFRESH_TOKEN_SECRET", "dev_refresh_secret")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_DevelopmentCookiePolicy(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "refreshToken", cfg.Cookie.Name)
	assert.True(t, cfg.Cookie.HTTPOnly)
	assert.False(t, cfg.Cookie.Secure)
	assert.Equal(t, "Lax", cfg.Cookie.SameSite)
	assert.Equal(t, 24*time.Hour, cfg.Cookie.MaxAge)
}

func TestFromViper_ProductionCookiePolicy(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"APP_ENV":              "Production",
		"ACCESS_TOKEN_SECRET":  "prod-access",
		"REFRESH_TOKEN_SECRET": "prod-refresh",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, "None", cfg.Cookie.SameSite)
}

func TestFromViper_RejectsDevSecretsInProduction(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"APP_ENV": "production"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "development token secrets")
}

func TestFromViper_RejectsUnknownDriver(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"DATABASE_DRIVER": "mysql"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DATABASE_DRIVER")
}

func TestFromViper_RejectsBadBcryptCost(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"BCRYPT_COST": 2}))
	assert.Error(t, err)
}
