package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "blobs/", cfg.S3.KeyPrefix)
	assert.Equal(t, int64(20*1024*1024), cfg.S3.MaxFileSize())
	assert.Equal(t, 1, cfg.Batch.Concurrency)
	assert.Equal(t, 1000, cfg.Batch.MaxRows)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCGEN_S3_KEY_PREFIX", "tenant-a/")
	t.Setenv("DOCGEN_BATCH_CONCURRENCY", "4")
	t.Setenv("DOCGEN_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DOCGEN_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tenant-a/", cfg.S3.KeyPrefix)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestLoad_ConcurrencyFloor(t *testing.T) {
	t.Setenv("DOCGEN_BATCH_CONCURRENCY", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Batch.Concurrency)
}

func TestDSN(t *testing.T) {
	d := DBConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", d.DSN())
}
