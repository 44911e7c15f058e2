// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Redis     RedisConfig
	Assistant AssistantConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestIDHeader string        `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// DATABASE_DSN, when set, takes precedence over the discrete fields.
type DatabaseConfig struct {
	RawDSN   string `env:"DATABASE_DSN"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"bizadmin"`
	Password string `env:"DB_PASSWORD" envDefault:"bizadmin"`
	DBName   string `env:"DB_NAME" envDefault:"bizadmin"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	Debug    bool   `env:"DB_DEBUG" envDefault:"false"`
	Retries  int    `env:"DB_CONNECT_RETRIES" envDefault:"10"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool          `env:"DEV" envDefault:"true"`
	Migrations    bool          `env:"MIGRATIONS" envDefault:"false"`
	Seed          bool          `env:"DB_SEED" envDefault:"false"`
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"devsessionsecret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"336h"`
}

// RedisConfig configures the conversation store of the assistant.
// An empty Addr selects the in-memory store.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"bizadmin:conversations"`
}

// AssistantConfig configures the AI chat assistant. The assistant routes are
// only mounted when APIKey is set.
type AssistantConfig struct {
	APIKey       string  `env:"OPENAI_KEY"`
	BaseURL      string  `env:"OPENAI_BASE_URL"`
	Model        string  `env:"ASSISTANT_MODEL" envDefault:"gpt-4o-mini"`
	SystemPrompt string  `env:"ASSISTANT_SYSTEM_PROMPT" envDefault:"You are a helpful assistant for a small business administration app. Answer concisely."`
	Temperature  float64 `env:"ASSISTANT_TEMPERATURE" envDefault:"0.2"`
	MaxTokens    int64   `env:"ASSISTANT_MAX_TOKENS" envDefault:"512"`
	MaxHistory   int     `env:"ASSISTANT_MAX_HISTORY" envDefault:"50"`
}

// Enabled reports whether the assistant has credentials.
func (a AssistantConfig) Enabled() bool { return a.APIKey != "" }

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	if raw := NormalizeDSN(d.RawDSN); raw != "" {
		return raw
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as expected by
// golang-migrate. A key=value DATABASE_DSN is rewritten from its own pairs; one
// lacking host, user or dbname is returned as is.
func (d DatabaseConfig) URL() string {
	raw := parseRawDSN(d.RawDSN)
	switch {
	case raw.url:
		return raw.text
	case raw.kv != nil:
		kv := raw.kv
		if kv["host"] == "" || kv["user"] == "" || kv["dbname"] == "" {
			return NormalizeDSN(d.RawDSN)
		}
		sslmode := kv["sslmode"]
		if sslmode == "" {
			sslmode = "disable"
		}
		return postgresURL(kv["host"], kv["port"], kv["user"], kv["password"], kv["dbname"], sslmode)
	case raw.text != "":
		return raw.text
	}
	return postgresURL(d.Host, strconv.Itoa(d.Port), d.User, d.Password, d.DBName, d.SSLMode)
}

// Load reads .env files (when present) and parses the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	return cfg, nil
}
