package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env or
// config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "finance.db", cfg.DSN())
	assert.Equal(t, 15*time.Minute, cfg.RatesRefreshInterval)
	assert.Equal(t, 3*time.Second, cfg.RatesConnectTimeout)
	assert.Equal(t, 4*time.Second, cfg.RatesReadTimeout)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.NotEmpty(t, cfg.JWTSecret, "a random secret should be generated")
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/other.db")
	t.Setenv("RATES_REFRESH_INTERVAL", "5m")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SECURE_COOKIE", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, 5*time.Minute, cfg.RatesRefreshInterval)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.True(t, cfg.SecureCookie)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7070\"\nrates_url: http://rates.local/feed\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "http://rates.local/feed", cfg.RatesURL)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ADMIN_USER=dotenv-admin\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ADMIN_USER") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-admin", cfg.AdminUser)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}},
		{"zero interval", map[string]string{"RATES_REFRESH_INTERVAL": "0s"}},
		{"negative timeout", map[string]string{"RATES_READ_TIMEOUT": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
