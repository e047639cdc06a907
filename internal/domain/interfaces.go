package domain

import (
	"context"
)

// AnalysisProvider is one interchangeable AI backend. Implementations receive the fully
// built prompt and the configuration read for this call only.
type AnalysisProvider interface {
	Name() string
	Analyze(ctx context.Context, prompt string, cfg AIConfig) (*AIAnalysisResult, error)
}

// SettingsStore persists the local AI configuration record.
type SettingsStore interface {
	// Load returns the saved configuration, or defaults when nothing valid is stored.
	Load(ctx context.Context) (AIConfig, error)
	Save(ctx context.Context, cfg AIConfig) error
	Close() error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetAnalysisConfig() *AnalysisConfig
	Reload() error
	Validate() error
	SettingsDBPath() string
}
