package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
log:
  level: debug
  format: console
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: svc
  password: pw
  name: readiness
  sslMode: require
auth:
  jwtSecret: s3cret
openai:
  apiKey: sk-test
  model: gpt-4o
  timeoutSeconds: 30
  retries: 2
  maxWorkers: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 30*time.Second, cfg.OpenAITimeout())
	assert.Equal(t, 8, cfg.OpenAI.MaxWorkers)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `auth: {jwtSecret: x}`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 24, cfg.Auth.TokenExpireHours)
	assert.Equal(t, 45*time.Second, cfg.OpenAITimeout())
	assert.Equal(t, 3, cfg.OpenAI.Retries)
	assert.Equal(t, 4, cfg.OpenAI.MaxWorkers)
	assert.Equal(t, 30, cfg.RateLimit.Capacity)
	assert.Equal(t, 5, cfg.RateLimit.RefillRate)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDSNs(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 3306
	cfg.Database.User = "svc"
	cfg.Database.Password = "pw"
	cfg.Database.Name = "readiness"

	assert.Equal(t,
		"svc:pw@tcp(127.0.0.1:3306)/readiness?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())

	cfg.Database.Port = 5432
	assert.Equal(t,
		"host=127.0.0.1 port=5432 user=svc password=pw dbname=readiness sslmode=disable",
		cfg.PostgresDSN())
}
