package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Data     DataConfig     `mapstructure:"data"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Timeline TimelineConfig `mapstructure:"timeline"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DataConfig locates the local data directory holding the settings database.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// AnalysisConfig tunes the AI analysis client.
type AnalysisConfig struct {
	LocalTimeout time.Duration          `mapstructure:"local_timeout"`
	CloudBaseURL string                 `mapstructure:"cloud_base_url"`
	RateLimit    float64                `mapstructure:"rate_limit"`
	Breaker      BreakerConfig          `mapstructure:"breaker"`
	Defaults     AnalysisDefaultsConfig `mapstructure:"defaults"`
}

// AnalysisDefaultsConfig seeds the persisted AI settings on first run.
type AnalysisDefaultsConfig struct {
	Provider    string `mapstructure:"provider"`
	ModelName   string `mapstructure:"model_name"`
	EndpointURL string `mapstructure:"endpoint_url"`
}

// BreakerConfig represents circuit breaker configuration for a provider
type BreakerConfig struct {
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// TimelineConfig controls how zone-less timestamps are interpreted.
type TimelineConfig struct {
	Location string `mapstructure:"location"`
}
