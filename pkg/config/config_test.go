package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeantrail/kernel/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OTLP_ENDPOINT", "")
	t.Setenv("EXECUTION_LIMIT", "")
	t.Setenv("SHADOW_MODE", "")

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Contains(t, cfg.DatabaseURL, "localhost")
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.Equal(t, 5, cfg.ExecutionLimit)
	assert.False(t, cfg.ShadowMode)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DATABASE_URL", "postgres://prod:5432/db")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("EXECUTION_LIMIT", "3")
	t.Setenv("SHADOW_MODE", "true")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "postgres://prod:5432/db", cfg.DatabaseURL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.ExecutionLimit)
	assert.True(t, cfg.ShadowMode)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("EXECUTION_LIMIT", "not-a-number")
	cfg := config.Load()
	assert.Equal(t, 5, cfg.ExecutionLimit)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strict.yaml")
	body := `
name: strict
autonomy:
  mode: bounded
  execution_limit: 2
bridge:
  rate_per_second: 5
  burst: 10
  min_client_version: ">= 1.0.0"
guards:
  - name: always_blocked
    expr: 'output.execution == "blocked"'
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	profile, err := config.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "strict", profile.Name)
	assert.Equal(t, "bounded", profile.Autonomy.Mode)
	assert.Equal(t, 2, profile.Autonomy.ExecutionLimit)
	assert.Equal(t, 5.0, profile.Bridge.RatePerSecond)
	require.Len(t, profile.Guards, 1)
	assert.Equal(t, "always_blocked", profile.Guards[0].Name)
}

func TestLoadProfileNameDefaultsToFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eu-west.yaml")
	require.NoError(t, os.WriteFile(path, []byte("autonomy:\n  mode: manual\n"), 0o600))

	profile, err := config.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-west", profile.Name)
}

func TestLoadProfileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad mode":      "autonomy:\n  mode: yolo\n",
		"negative":      "autonomy:\n  mode: bounded\n  execution_limit: -1\n",
		"unnamed guard": "guards:\n  - expr: 'true'\n",
		"not yaml":      "{{{{",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := config.LoadProfile(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultProfileIsValid(t *testing.T) {
	p := config.DefaultProfile()
	assert.NoError(t, p.Validate())
	assert.Equal(t, "bounded", p.Autonomy.Mode)
	assert.Equal(t, 5, p.Autonomy.ExecutionLimit)
}
