package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	CORS    CORSConfig
	Session SessionConfig
	Upload  UploadConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Debug reports whether debug lines should be logged.
func (l *LogConfig) Debug() bool {
	return strings.EqualFold(l.Level, "debug")
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SessionConfig holds page session settings.
type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// UploadConfig holds multipart parsing settings. It bounds memory use while
// parsing, not the accepted file size.
type UploadConfig struct {
	MaxMemoryMB int64 `mapstructure:"max_memory_mb"`
}

// MaxMemoryBytes returns the in-memory multipart limit in bytes.
func (u *UploadConfig) MaxMemoryBytes() int64 {
	return u.MaxMemoryMB * 1024 * 1024
}

// Load reads configuration from environment variables with the IMAGEQUERY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("IMAGEQUERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":3000")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Session defaults
	v.SetDefault("session.cookie_name", "imagequery_session")
	v.SetDefault("session.idle_ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")

	// Upload defaults
	v.SetDefault("upload.max_memory_mb", 32)

	envBindings := map[string]string{
		"server.port":            "IMAGEQUERY_SERVER_PORT",
		"server.read_timeout":    "IMAGEQUERY_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "IMAGEQUERY_SERVER_WRITE_TIMEOUT",
		"server.environment":     "IMAGEQUERY_SERVER_ENVIRONMENT",
		"log.level":              "IMAGEQUERY_LOG_LEVEL",
		"log.format":             "IMAGEQUERY_LOG_FORMAT",
		"cors.allowed_origins":   "IMAGEQUERY_CORS_ALLOWED_ORIGINS",
		"session.cookie_name":    "IMAGEQUERY_SESSION_COOKIE_NAME",
		"session.idle_ttl":       "IMAGEQUERY_SESSION_IDLE_TTL",
		"session.sweep_interval": "IMAGEQUERY_SESSION_SWEEP_INTERVAL",
		"upload.max_memory_mb":   "IMAGEQUERY_UPLOAD_MAX_MEMORY_MB",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if IMAGEQUERY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("IMAGEQUERY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Session = SessionConfig{
		CookieName:    v.GetString("session.cookie_name"),
		IdleTTL:       v.GetDuration("session.idle_ttl"),
		SweepInterval: v.GetDuration("session.sweep_interval"),
	}
	cfg.Upload = UploadConfig{
		MaxMemoryMB: v.GetInt64("upload.max_memory_mb"),
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
