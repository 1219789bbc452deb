package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, "inline")
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Contains(t, cfg.DSN, "tcp(127.0.0.1:3306)/briefbank")
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, int64(49900), cfg.Payment.Amount)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
}

func TestParseAliasesAndDurations(t *testing.T) {
	content := []byte(`
port: 8080
go_env: prod
database_url: "postgres://u:p@db/briefbank"
database:
  driver: postgresql
redis:
  host: cache
  port: 6380
  db: 2
cors_allowed_origins: ["https://briefbank.app/", " "]
jwt_secret: top
ai:
  provider: Anthropic
  max_tokens: 2048
  timeout: 90s
extraction:
  url: http://extract:8000/
s3:
  bucket: startupdeck
  presign_ttl: 5m
razorpay:
  key_id: rzp_test
  key_secret: shh
payment:
  currency: inr
`)
	cfg, err := Parse(content, "inline")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db/briefbank", cfg.DSN)
	assert.Equal(t, "redis://cache:6380/2", cfg.RedisURL)
	assert.Equal(t, []string{"https://briefbank.app"}, cfg.AllowedOrigins)
	assert.Equal(t, "top", cfg.Auth.JWTSecret)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, 2048, cfg.AI.MaxOutputTokens)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "http://extract:8000", cfg.Extraction.Endpoint)
	assert.Equal(t, 5*time.Minute, cfg.S3.PresignTTL)
	assert.Equal(t, "rzp_test", cfg.Payment.KeyID)
	assert.Equal(t, "shh", cfg.Payment.KeySecret)
	assert.Equal(t, "INR", cfg.Payment.Currency)
}

func TestParsePostgresFromParts(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  driver: postgres\n  host: pg\n  user: app\n  password: pw\n"), "inline")
	require.NoError(t, err)
	assert.Equal(t, "host=pg port=5432 user=app dbname=briefbank sslmode=disable password=pw", cfg.DSN)
}

func TestParseSQLiteMemory(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  driver: sqlite\n  path: \":memory:\"\n"), "inline")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DSN)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("prot: 80\n"), "inline")
	require.Error(t, err)
}

func TestParseValidation(t *testing.T) {
	cases := map[string]string{
		"port":      "port: 70000\n",
		"driver":    "database:\n  driver: oracle\n",
		"provider":  "ai:\n  provider: cohere\n",
		"duration":  "ai:\n  timeout: soon\n",
		"compat":    "ai:\n  provider: openai-compatible\n",
		"amount":    "payment:\n  amount: -1\n",
		"prod auth": "env: production\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content), "inline")
			require.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"AUTH_JWT_SECRET", "from-env")
	t.Setenv(EnvPrefix+"PAYMENT_KEY_SECRET", "env-secret")
	t.Setenv(EnvPrefix+"REDIS_URL", "redis-host:6379/1")

	cfg, err := Parse([]byte("jwt_secret: from-file\n"), "inline")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "env-secret", cfg.Payment.KeySecret)
	assert.Equal(t, "redis://redis-host:6379/1", cfg.RedisURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 5050\nseed: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5050, cfg.Port)
	assert.True(t, cfg.Seed)
}
