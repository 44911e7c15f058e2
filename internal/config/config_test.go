package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 336*time.Hour, cfg.App.SessionTTL)
	assert.False(t, cfg.Assistant.Enabled())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_NAME=fromfile\nOPENAI_KEY=sk-test\n"), 0o600))
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	// godotenv does not override variables that are already set
	os.Unsetenv("DB_NAME")
	os.Unsetenv("OPENAI_KEY")
	t.Cleanup(func() {
		os.Unsetenv("DB_NAME")
		os.Unsetenv("OPENAI_KEY")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "fromfile", cfg.Database.DBName)
	assert.True(t, cfg.Assistant.Enabled())
}

func TestDatabaseDSNAndURL(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "biz", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=biz sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5433/biz?sslmode=disable", d.URL())

	d.RawDSN = `  "host=h user=x dbname=y password=z"  `
	assert.Equal(t, "host=h user=x dbname=y password=z sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://x:z@h/y?sslmode=disable", d.URL())

	d.RawDSN = "host=h port=6543 user=x dbname=y sslmode=require"
	assert.Equal(t, "postgres://x@h:6543/y?sslmode=require", d.URL())

	d.RawDSN = "'postgresql://a@b/c'"
	assert.Equal(t, "postgresql://a@b/c", d.URL())

	d.RawDSN = "host=h user=x"
	assert.Equal(t, "host=h user=x sslmode=disable", d.URL(), "incomplete lists are not rewritten")
}

func TestNormalizeDSN(t *testing.T) {
	assert.Equal(t, "", NormalizeDSN("  "))
	assert.Equal(t, "postgres://a@b/c", NormalizeDSN("'postgres://a@b/c'"))
	assert.Equal(t, "host=a user=b sslmode=require", NormalizeDSN("host=a   user=b sslmode=require"))
	assert.Equal(t, "garbage", NormalizeDSN("garbage"))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "host=a password=*** dbname=c", MaskDSN("host=a password=secret dbname=c"))
	assert.Equal(t, "postgres://u:***@h/db", MaskDSN("postgres://u:secret@h/db"))
	assert.Equal(t, "postgres://u@h/db", MaskDSN("postgres://u@h/db"))
}
