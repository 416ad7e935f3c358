package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "postgres://postgres:@localhost:5432/fintrack?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("SEED_SAMPLE_DATA", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendPostgres, cfg.Store.Backend)
	assert.False(t, cfg.Store.Seed)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:secret@db:5432/fintrack?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")

	_, err := config.Load()
	require.Error(t, err)
}
