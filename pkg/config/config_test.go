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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9930", cfg.Port)
	assert.Equal(t, "https://www.thebluealliance.com/api/v3", cfg.TBA.BaseURL)
	assert.Equal(t, []string{"*"}, cfg.Origins())
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Zero(t, cfg.Webhook.RateLimit)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
log_level: debug
cors_hosts: "https://a.example, https://b.example"
firebase:
  project_id: from-file
tba:
  api_key: file-key
  timeout: 3s
webhook:
  rate_limit: 1.5
  burst: 4
`), 0o644))
	t.Setenv("TBA_API_KEY", "env-key")
	t.Setenv("WEBHOOK_BURST", "9")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-file", cfg.Firebase.ProjectID)
	assert.Equal(t, "env-key", cfg.TBA.APIKey)
	assert.Equal(t, 3*time.Second, cfg.TBA.Timeout)
	assert.Equal(t, 1.5, cfg.Webhook.RateLimit)
	assert.Equal(t, 9, cfg.Webhook.Burst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	assert.EqualError(t, cfg.Validate(), "FIREBASE_PROJECT_ID is required")

	cfg.Firebase.ProjectID = "demo"
	assert.EqualError(t, cfg.Validate(), "TBA_API_KEY is required")
}

func TestInvalidEnvKeepsFallback(t *testing.T) {
	t.Setenv("TBA_TIMEOUT", "soon")
	t.Setenv("WEBHOOK_RATE_LIMIT", "lots")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.TBA.Timeout)
	assert.Zero(t, cfg.Webhook.RateLimit)
}
