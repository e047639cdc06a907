package settings

import (
	"context"
	"sync"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// MemoryStore keeps the configuration in process memory only.
type MemoryStore struct {
	mu  sync.RWMutex
	cfg *domain.AIConfig
}

// NewMemoryStore creates a store seeded with initial, or empty when nil.
func NewMemoryStore(initial *domain.AIConfig) *MemoryStore {
	s := &MemoryStore{}
	if initial != nil {
		cfg := *initial
		s.cfg = &cfg
	}
	return s
}

// Load returns the saved configuration or the defaults.
func (s *MemoryStore) Load(ctx context.Context) (domain.AIConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return domain.DefaultAIConfig(), nil
	}
	return *s.cfg, nil
}

// Save validates and replaces the configuration.
func (s *MemoryStore) Save(ctx context.Context, cfg domain.AIConfig) error {
	cfg, err := Normalize(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = &cfg
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
