package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjo-adr-assessor/internal/domain"
)

func TestNewManager_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	cfg := m.GetConfig()
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Data.Dir)
	assert.Equal(t, 60*time.Second, m.GetAnalysisConfig().LocalTimeout)
	assert.Equal(t, uint32(1), cfg.Analysis.Breaker.MaxRequests)
	assert.Equal(t, 1.0, cfg.Analysis.RateLimit)
	assert.Equal(t, domain.DefaultAIConfig(), m.DefaultAIConfig())
	assert.Equal(t, filepath.Join(cfg.Data.Dir, "settings.db"), m.SettingsDBPath())
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	dataDir := t.TempDir()

	t.Setenv("NARANJO_SERVER_PORT", "9090")
	t.Setenv("NARANJO_LOGGING_LEVEL", "debug")
	t.Setenv("NARANJO_DATA_DIR", dataDir)
	t.Setenv("NARANJO_ANALYSIS_LOCAL_TIMEOUT", "90s")
	t.Setenv("NARANJO_ANALYSIS_DEFAULTS_MODEL_NAME", "medgemma:27b")
	t.Setenv("NARANJO_TIMELINE_LOCATION", "Asia/Bangkok")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, 9090, m.GetServerConfig().Port)
	assert.Equal(t, "debug", m.GetConfig().Logging.Level)
	assert.Equal(t, 90*time.Second, m.GetAnalysisConfig().LocalTimeout)
	assert.Equal(t, "medgemma:27b", m.DefaultAIConfig().ModelName)
	assert.Equal(t, filepath.Join(dataDir, "settings.db"), m.SettingsDBPath())

	loc, err := m.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", loc.String())

	require.NoError(t, m.EnsureDataDir())
}

func TestNewManager_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "naranjo.yaml")
	content := `
server:
  port: 7070
logging:
  format: text
analysis:
  cloud_base_url: https://example.test/
  defaults:
    provider: cloud
    model_name: gemini-2.5-flash
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := NewManager(WithConfigFile(path))
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, path, m.ConfigFileUsed())
	assert.Equal(t, 7070, m.GetServerConfig().Port)
	assert.Equal(t, "text", m.GetConfig().Logging.Format)
	assert.Equal(t, "https://example.test/", m.GetAnalysisConfig().CloudBaseURL)
	assert.Equal(t, domain.PROVIDER_CLOUD, m.DefaultAIConfig().Provider)
}

func TestNewManager_MissingExplicitFile(t *testing.T) {
	_, err := NewManager(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"bad port", func(c *domain.Config) { c.Server.Port = 70000 }},
		{"bad level", func(c *domain.Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *domain.Config) { c.Logging.Format = "xml" }},
		{"no data dir", func(c *domain.Config) { c.Data.Dir = "" }},
		{"zero timeout", func(c *domain.Config) { c.Analysis.LocalTimeout = 0 }},
		{"negative rate limit", func(c *domain.Config) { c.Analysis.RateLimit = -1 }},
		{"bad provider", func(c *domain.Config) { c.Analysis.Defaults.Provider = "openai" }},
		{"bad location", func(c *domain.Config) { c.Timeline.Location = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager()
			require.NoError(t, err)
			tt.mutate(m.GetConfig())
			assert.Error(t, m.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(domain.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	logger.Info("hidden")
	logger.WithField("provider", "local").Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"provider":"local"`)

	fallback := newLogger(domain.LoggingConfig{Level: "nonsense", Format: "text"}, &buf)
	assert.Equal(t, logrus.InfoLevel, fallback.GetLevel())
	_, isText := fallback.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}
