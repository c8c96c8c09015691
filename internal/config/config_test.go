package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagequery/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Zero(t, cfg.Server.WriteTimeout)
	assert.False(t, cfg.Server.IsProduction())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Log.Debug())
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "imagequery_session", cfg.Session.CookieName)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, int64(32<<20), cfg.Upload.MaxMemoryBytes())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMAGEQUERY_SERVER_PORT", ":9090")
	t.Setenv("IMAGEQUERY_SERVER_ENVIRONMENT", "Production")
	t.Setenv("IMAGEQUERY_LOG_LEVEL", "DEBUG")
	t.Setenv("IMAGEQUERY_LOG_FORMAT", "plain")
	t.Setenv("IMAGEQUERY_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("IMAGEQUERY_SESSION_IDLE_TTL", "30m")
	t.Setenv("IMAGEQUERY_UPLOAD_MAX_MEMORY_MB", "4")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.True(t, cfg.Server.IsProduction())
	assert.True(t, cfg.Log.Debug())
	assert.Equal(t, "plain", cfg.Log.Format)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, int64(4<<20), cfg.Upload.MaxMemoryBytes())
}

func TestLoad_PlatformPort(t *testing.T) {
	tests := []struct {
		name       string
		port       string
		serverPort string
		want       string
	}{
		{"PORT used when no explicit port", "8080", "", ":8080"},
		{"explicit port wins", "8080", ":7000", ":7000"},
		{"neither set", "", "", ":3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			t.Setenv("IMAGEQUERY_SERVER_PORT", tt.serverPort)

			cfg, err := config.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Server.Port)
		})
	}
}
