package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("APP_ENV", "")

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
	assert.False(t, cfg.JWTSecretFromEnv)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 300, cfg.RateLimitUserMax)
	assert.Equal(t, 5, cfg.EmailMaxRetries)
	assert.Equal(t, 30*time.Second, cfg.EmailRetryDelay)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MAIL_SEND_ENABLED", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.True(t, cfg.JWTSecretFromEnv)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.True(t, cfg.MailSendEnabled)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "production")
	assert.ErrorIs(t, Load().Validate(), ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", DevJWTSecret)
	assert.ErrorIs(t, Load().Validate(), ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "a-real-secret")
	assert.NoError(t, Load().Validate())
}

func TestValidate_StoreDriver(t *testing.T) {
	cfg := &Config{StoreDriver: "sqlite", JWTTTL: time.Hour}
	assert.Error(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.com, ,http://b.com ", ElasticsearchAddrs: ""}
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}

func TestNormalizePrefix(t *testing.T) {
	for in, want := range map[string]string{
		"":        "",
		"/":       "",
		"api":     "/api",
		"/api/":   "/api",
		" /v1/x ": "/v1/x",
	} {
		assert.Equal(t, want, normalizePrefix(in), in)
	}
}
