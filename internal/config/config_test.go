package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"HOST", "PORT", "CORS_ORIGINS", "DATABASE_PATH", "BCRYPT_COST", "JWT_SECRET",
	"TOKEN_TTL", "REQUIRE_OWNER", "CATALOG_BASE_URL", "CATALOG_TIMEOUT",
	"MAINTENANCE_SCHEDULE", "LOG_LEVEL", "LOG_FORMAT",
}

// cleanEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsWithSecretFromEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "./yoga.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "@daily", cfg.Maintenance.Schedule)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, ":4000", cfg.Addr())
}

func TestLoad_MissingFileIsOptional(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "x")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	p := writeFile(t, `
server:
  host: 127.0.0.1
  port: 9000
  cors_origins: ["http://localhost:8081"]
database:
  path: /tmp/file.db
auth:
  bcrypt_cost: 12
  jwt_secret: from-file
  token_ttl: 2h
  require_owner: true
catalog:
  base_url: http://catalog.local
  timeout: 3s
maintenance:
  schedule: "0 4 * * *"
log:
  level: debug
  format: json
`)
	cleanEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/tmp/file.db", cfg.Database.Path)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.RequireOwner)
	assert.Equal(t, "http://catalog.local", cfg.Catalog.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "0 4 * * *", cfg.Maintenance.Schedule)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidEnvValues(t *testing.T) {
	cases := map[string]string{
		"PORT":            "eighty",
		"BCRYPT_COST":     "ten",
		"TOKEN_TTL":       "forever",
		"REQUIRE_OWNER":   "maybe",
		"CATALOG_TIMEOUT": "soon",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			cleanEnv(t)
			t.Setenv("JWT_SECRET", "x")
			t.Setenv(key, val)
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeFile(t, "server: [this is not a map")
	_, err := Load(p)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Auth.JWTSecret = "x"
		return c
	}
	require.NoError(t, valid().Validate())

	c := valid()
	c.Auth.JWTSecret = ""
	assert.Error(t, c.Validate())

	c = valid()
	c.Auth.BcryptCost = 3
	assert.Error(t, c.Validate())

	c = valid()
	c.Server.Port = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.Database.Path = ""
	assert.Error(t, c.Validate())
}
