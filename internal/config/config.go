// Package config provides configuration management for the assessor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// EnvPrefix is prepended to every environment override, e.g. NARANJO_SERVER_PORT.
const EnvPrefix = "NARANJO"

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v          *viper.Viper
	configFile string
	config     *domain.Config
}

// Option customizes a Manager before the first load.
type Option func(*Manager)

// WithConfigFile reads an explicit file instead of searching the default paths.
func WithConfigFile(path string) Option {
	return func(m *Manager) {
		m.configFile = path
	}
}

// NewManager creates a new configuration manager
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from defaults, an optional file and the environment
func (m *Manager) loadConfig() error {
	v := viper.New()

	if m.configFile != "" {
		v.SetConfigFile(m.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".naranjo"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; defaults and environment variables still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.v = v
	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Data defaults
	v.SetDefault("data.dir", defaultDataDir())

	// Analysis defaults
	v.SetDefault("analysis.local_timeout", "60s")
	v.SetDefault("analysis.cloud_base_url", "")
	v.SetDefault("analysis.rate_limit", 1.0)
	v.SetDefault("analysis.breaker.max_requests", 1)
	v.SetDefault("analysis.breaker.interval", "60s")
	v.SetDefault("analysis.breaker.timeout", "30s")
	v.SetDefault("analysis.defaults.provider", string(domain.DefaultProvider))
	v.SetDefault("analysis.defaults.model_name", domain.DefaultLocalModel)
	v.SetDefault("analysis.defaults.endpoint_url", domain.DefaultLocalEndpoint)

	// Timeline defaults
	v.SetDefault("timeline.location", "Local")
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".naranjo"
	}
	return filepath.Join(homeDir, ".naranjo")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetAnalysisConfig returns AI analysis configuration
func (m *Manager) GetAnalysisConfig() *domain.AnalysisConfig {
	return &m.config.Analysis
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// ConfigFileUsed returns the file the configuration was read from, if any.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}
	if f := strings.ToLower(config.Logging.Format); f != "json" && f != "text" {
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	if config.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}

	if config.Analysis.LocalTimeout <= 0 {
		return fmt.Errorf("analysis local timeout must be positive, got %s", config.Analysis.LocalTimeout)
	}
	if config.Analysis.RateLimit < 0 {
		return fmt.Errorf("analysis rate limit must not be negative, got %g", config.Analysis.RateLimit)
	}
	if !domain.ProviderKind(config.Analysis.Defaults.Provider).IsValid() {
		return fmt.Errorf("invalid default provider: %q", config.Analysis.Defaults.Provider)
	}

	if _, err := m.Location(); err != nil {
		return err
	}

	return nil
}

// SettingsDBPath returns the path to the AI settings SQLite database.
func (m *Manager) SettingsDBPath() string {
	return filepath.Join(m.config.Data.Dir, "settings.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (m *Manager) EnsureDataDir() error {
	return os.MkdirAll(m.config.Data.Dir, 0755)
}

// DefaultAIConfig returns the AI settings used until the user saves their own.
func (m *Manager) DefaultAIConfig() domain.AIConfig {
	d := m.config.Analysis.Defaults
	return domain.AIConfig{
		Provider:    domain.ProviderKind(d.Provider),
		ModelName:   d.ModelName,
		EndpointURL: d.EndpointURL,
	}
}

// Location resolves timeline.location. "Local" or empty means the process zone.
func (m *Manager) Location() (*time.Location, error) {
	name := m.config.Timeline.Location
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timeline location %q: %w", name, err)
	}
	return loc, nil
}
