package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	dir := t.TempDir()
	for _, k := range []string{"DATA_PATH", "LOGS_FOLDER", "POLICY_FILE", "DEFAULT_DATASET", "ENABLE_MERMAID_CHARTS",
		"HTTP_ADDR", "HTTP_RATE_LIMIT_RPS", "HTTP_RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS"} {
		unsetEnv(t, k)
	}

	cfg := fromEnv(dir)

	assert.Equal(t, dir, cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir)
	assert.Equal(t, filepath.Join(dir, "datasets"), cfg.CacheDir)
	assert.DirExists(t, cfg.CacheDir)
	assert.Empty(t, cfg.PolicyFile)
	assert.False(t, cfg.EnableMermaidCharts)
	assert.Equal(t, HTTPConfig{Addr: ":8080", RateLimitRPS: 10, RateLimitBurst: 20, AllowedOrigins: []string{"*"}}, cfg.HTTP)
}

func TestFromEnv_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("LOGS_FOLDER", filepath.Join(dir, "custom-logs"))
	t.Setenv("POLICY_FILE", "policy.toml")
	t.Setenv("DEFAULT_DATASET", "weekly")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("HTTP_RATE_LIMIT_RPS", "2.5")
	t.Setenv("HTTP_RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := fromEnv("")

	assert.Equal(t, dir, cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, "custom-logs"), cfg.LogDir)
	assert.Equal(t, "policy.toml", cfg.PolicyFile)
	assert.Equal(t, "weekly", cfg.DefaultDataset)
	assert.True(t, cfg.EnableMermaidCharts)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, 2.5, cfg.HTTP.RateLimitRPS)
	assert.Equal(t, 20, cfg.HTTP.RateLimitBurst, "invalid ints fall back")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func TestGodotenvQuoting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`POLICY_FILE='policies/"strict".toml'`), 0o644))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, `policies/"strict".toml`, env["POLICY_FILE"])
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
