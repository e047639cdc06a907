package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naranjo-adr-assessor/internal/config"
	"github.com/naranjo-adr-assessor/internal/session"
	"github.com/naranjo-adr-assessor/internal/settings"
	"github.com/naranjo-adr-assessor/pkg/external"
)

// app is the wiring shared by every command that touches settings or providers.
type app struct {
	config   *config.Manager
	logger   *logrus.Logger
	store    *settings.SQLiteStore
	ollama   *external.OllamaClient
	analyzer *external.AnalysisClient
	loc      *time.Location
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}

	var opts []config.Option
	if cfgPath != "" {
		opts = append(opts, config.WithConfigFile(cfgPath))
	}
	configManager, err := config.NewManager(opts...)
	if err != nil {
		return nil, err
	}
	if err := configManager.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(cfg.Logging)

	if err := configManager.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := settings.NewSQLiteStore(configManager.SettingsDBPath(), logger)
	if err != nil {
		return nil, err
	}
	store.SetDefaults(configManager.DefaultAIConfig())

	loc, err := configManager.Location()
	if err != nil {
		store.Close()
		return nil, err
	}

	analysis := configManager.GetAnalysisConfig()
	breaker := external.CircuitBreakerConfig{
		MaxRequests: analysis.Breaker.MaxRequests,
		Interval:    analysis.Breaker.Interval,
		Timeout:     analysis.Breaker.Timeout,
	}
	ollama := external.NewOllamaClient(external.OllamaConfig{
		Timeout:        analysis.LocalTimeout,
		RateLimit:      analysis.RateLimit,
		CircuitBreaker: breaker,
	}, logger)
	gemini := external.NewGeminiClient(external.GeminiConfig{
		BaseURL:        analysis.CloudBaseURL,
		RateLimit:      analysis.RateLimit,
		CircuitBreaker: breaker,
	}, logger)

	logger.WithFields(logrus.Fields{
		"config_file": configManager.ConfigFileUsed(),
		"data_dir":    cfg.Data.Dir,
	}).Debug("Application initialized")

	return &app{
		config:   configManager,
		logger:   logger,
		store:    store,
		ollama:   ollama,
		analyzer: external.NewAnalysisClient(logger, ollama, gemini),
		loc:      loc,
	}, nil
}

func (a *app) newSession() *session.Session {
	return session.New(a.logger, a.analyzer, a.store, a.loc)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).Error("Failed to close settings store")
	}
}
