package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 3333, cfg.HTTP.Port)
	assert.Equal(t, StorageLocal, cfg.Storage.Type)
	assert.Equal(t, "tmp/uploads", cfg.Storage.LocalDir)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileSize)
	assert.ElementsMatch(t, []string{"image/jpeg", "image/pjpeg", "image/png", "image/gif"}, cfg.Upload.AllowedMimes)
	assert.Equal(t, 24*time.Hour, cfg.Security.JWTTTL)
	assert.Equal(t, time.Hour, cfg.Security.ResetTokenTTL)
	assert.Equal(t, "RESET", cfg.Mail.Subject)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("APP_URL", "https://happy.example.com")
	t.Setenv("MAIL_URL", "https://happy.example.com/reset")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("STORAGE_BUCKET", "orphanage-images")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "https://happy.example.com", cfg.AppURL)
	assert.Equal(t, "https://happy.example.com/reset", cfg.Mail.ResetLink)
	assert.Equal(t, StorageS3, cfg.Storage.Type)
	assert.Equal(t, "orphanage-images", cfg.Storage.Bucket)
	assert.Equal(t, 2*time.Hour, cfg.Security.JWTTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowCORSOrigins)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("unknown storage type", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_TYPE", "ftp")

		_, err := Load()
		assert.ErrorContains(t, err, "unknown STORAGE_TYPE")
	})
}

func TestPostgresConnString(t *testing.T) {
	t.Run("dsn wins", func(t *testing.T) {
		p := PostgresConfig{DSN: "postgres://x@y/z", Host: "ignored"}
		assert.Equal(t, "postgres://x@y/z", p.ConnString())
	})

	t.Run("built from fields", func(t *testing.T) {
		p := PostgresConfig{Host: "db", Port: 5432, User: "happy", Password: "pw", Name: "happy", SSLMode: "disable"}
		assert.Equal(t, "postgres://happy:pw@db:5432/happy?sslmode=disable", p.ConnString())
	})
}
