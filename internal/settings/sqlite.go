// Package settings persists the local AI provider configuration record.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/naranjo-adr-assessor/internal/domain"
)

const (
	settingsTable = "ai_settings"
	settingsRowID = 1
)

// SQLiteStore implements domain.SettingsStore on a single-row SQLite table.
type SQLiteStore struct {
	db       *sql.DB
	dbPath   string
	logger   *logrus.Logger
	defaults domain.AIConfig
}

// NewSQLiteStore creates a new SQLite settings store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string, logger *logrus.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath, logger: logger, defaults: domain.DefaultAIConfig()}, nil
}

// SetDefaults replaces what Load returns when no valid record is stored.
func (s *SQLiteStore) SetDefaults(cfg domain.AIConfig) {
	s.defaults = cfg
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS ai_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Load returns the saved configuration. A missing or malformed record yields the
// defaults and no error.
func (s *SQLiteStore) Load(ctx context.Context) (domain.AIConfig, error) {
	query, args, err := sq.Select("payload").
		From(settingsTable).
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return domain.AIConfig{}, fmt.Errorf("failed to build query: %w", err)
	}

	var payload string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.AIConfig{}, fmt.Errorf("failed to read settings: %w", err)
	}

	cfg, err := Decode([]byte(payload))
	if err != nil {
		s.logger.WithError(err).WithField("path", s.dbPath).Warn("Ignoring malformed AI settings, using defaults")
		return s.defaults, nil
	}
	return cfg, nil
}

// Save validates and replaces the stored configuration.
func (s *SQLiteStore) Save(ctx context.Context, cfg domain.AIConfig) error {
	cfg, err := Normalize(cfg)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query, args, err := sq.Insert(settingsTable).
		Columns("id", "payload", "updated_at").
		Values(settingsRowID, string(payload), time.Now().UTC()).
		Suffix("ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build statement: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"provider":       cfg.Provider,
		"model":          cfg.ModelName,
		"endpoint":       cfg.EndpointURL,
		"has_credential": cfg.Credential != "",
	}).Info("Saved AI settings")
	return nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Decode parses a persisted record. Unknown providers count as malformed.
func Decode(payload []byte) (domain.AIConfig, error) {
	var cfg domain.AIConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return domain.AIConfig{}, err
	}
	if !cfg.Provider.IsValid() {
		return domain.AIConfig{}, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return cfg, nil
}

// Normalize trims the record's fields and rejects an unknown provider.
func Normalize(cfg domain.AIConfig) (domain.AIConfig, error) {
	cfg.Provider = domain.ProviderKind(strings.ToLower(strings.TrimSpace(string(cfg.Provider))))
	cfg.ModelName = strings.TrimSpace(cfg.ModelName)
	cfg.EndpointURL = strings.TrimSpace(cfg.EndpointURL)
	cfg.Credential = strings.TrimSpace(cfg.Credential)

	if !cfg.Provider.IsValid() {
		return cfg, domain.NewValidationError("provider", "provider must be \"local\" or \"cloud\"", string(cfg.Provider))
	}
	return cfg, nil
}
