package config_test

import (
	"net/url"
	"testing"
	"time"

	"go-empower/internal/config"

	"github.com/stretchr/testify/assert"
)

func setDatabaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "empower")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "empower_dashboard")
	for _, key := range []string{
		"APP_ENV", "PORT", "DB_PORT", "DB_SSLMODE", "DB_MAX_RETRIES", "STATS_CACHE_TTL",
		"OUTBOX_POLL_INTERVAL", "MIGRATE_ON_START", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setDatabaseEnv(t)

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "5000", cfg.Server.Port)
		assert.Equal(t, "5432", cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 5, cfg.Database.MaxRetries)
		assert.Equal(t, 5*time.Minute, cfg.Redis.StatsCacheTTL)
		assert.Equal(t, 3*time.Second, cfg.Kafka.OutboxPollInterval)
		assert.False(t, cfg.MigrateOnStart)
		assert.Nil(t, cfg.CORSAllowedOrigins)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("overrides", func(t *testing.T) {
		setDatabaseEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("PORT", "8080")
		t.Setenv("STATS_CACHE_TTL", "30s")
		t.Setenv("MIGRATE_ON_START", "true")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://hr.example.com ,")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Redis.StatsCacheTTL)
		assert.True(t, cfg.MigrateOnStart)
		assert.Equal(t, []string{"http://localhost:5173", "https://hr.example.com"}, cfg.CORSAllowedOrigins)
	})

	t.Run("missing database env", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_NAME", "")

		_, err := config.Load()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")
		assert.Contains(t, err.Error(), "DB_NAME")
	})

	t.Run("invalid duration", func(t *testing.T) {
		setDatabaseEnv(t)
		t.Setenv("OUTBOX_POLL_INTERVAL", "soon")

		_, err := config.Load()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "OUTBOX_POLL_INTERVAL")
	})
}

func TestDatabaseConfig_Strings(t *testing.T) {
	db := config.DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "hr", SSLMode: "disable",
	}

	assert.Equal(t, "host=db user=u password=p dbname=hr port=5432 sslmode=disable", db.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/hr?sslmode=disable", db.URL())
}

func TestDatabaseConfig_URLEscapesCredentials(t *testing.T) {
	db := config.DatabaseConfig{
		Host: "db", Port: "5432", User: "hr@ops", Password: "p@ss/w:rd?#", Name: "hr", SSLMode: "require",
	}

	u, err := url.Parse(db.URL())
	assert.NoError(t, err)

	password, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "hr@ops", u.User.Username())
	assert.Equal(t, "p@ss/w:rd?#", password)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/hr", u.Path)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}
