package external

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// AnalysisClient turns a completed Report into an AIAnalysisResult through the provider
// named by the configuration passed to each call.
type AnalysisClient struct {
	providers map[domain.ProviderKind]domain.AnalysisProvider
	logger    *logrus.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewAnalysisClient creates a client over the given providers, keyed by Name().
func NewAnalysisClient(logger *logrus.Logger, providers ...domain.AnalysisProvider) *AnalysisClient {
	byKind := make(map[domain.ProviderKind]domain.AnalysisProvider, len(providers))
	for _, p := range providers {
		byKind[domain.ProviderKind(p.Name())] = p
	}
	return &AnalysisClient{
		providers: byKind,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// Fingerprint identifies a report by the prompt it produces.
func Fingerprint(report *domain.Report) string {
	sum := sha256.Sum256([]byte(BuildPrompt(report)))
	return hex.EncodeToString(sum[:])
}

// Pending reports whether an analysis for this report is outstanding.
func (c *AnalysisClient) Pending(report *domain.Report) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[Fingerprint(report)]
	return ok
}

// Analyze runs one analysis. Overlapping calls for the same report fail with
// domain.ErrAnalysisInFlight. Every other failure is a *domain.AnalysisError.
func (c *AnalysisClient) Analyze(ctx context.Context, report *domain.Report, cfg domain.AIConfig) (*domain.AIAnalysisResult, error) {
	if report == nil {
		return nil, domain.ErrIncompleteAssessment
	}

	provider, ok := c.providers[cfg.Provider]
	if !ok {
		return nil, domain.NewConfigurationError(string(cfg.Provider), fmt.Sprintf("unknown provider %q", cfg.Provider))
	}

	prompt := BuildPrompt(report)
	key := Fingerprint(report)
	if !c.acquire(key) {
		return nil, domain.ErrAnalysisInFlight
	}
	defer c.release(key)

	fields := logrus.Fields{
		"provider":       provider.Name(),
		"model":          cfg.ModelName,
		"drug_name":      report.DrugName,
		"total_score":    report.TotalScore,
		"interpretation": report.Interpretation.String(),
	}
	c.logger.WithFields(fields).Info("Starting AI analysis")
	start := time.Now()

	result, err := provider.Analyze(ctx, prompt, cfg)
	fields["duration_ms"] = time.Since(start).Milliseconds()

	if err == nil && result == nil {
		err = domain.NewParseError(provider.Name(), "provider returned no result", "", nil)
	}
	if err != nil {
		var analysisErr *domain.AnalysisError
		if !errors.As(err, &analysisErr) {
			analysisErr = domain.NewConnectionError(provider.Name(), "analysis request failed", err)
		}
		fields["error_code"] = analysisErr.Code()
		if analysisErr.Raw != "" {
			fields["raw"] = analysisErr.Raw
		}
		c.logger.WithFields(fields).WithError(err).Warn("AI analysis failed")
		return nil, analysisErr
	}

	fields["risk_factor"] = result.RiskFactor.String()
	fields["recommendations"] = len(result.Recommendations)
	c.logger.WithFields(fields).Info("AI analysis completed")
	return result, nil
}

func (c *AnalysisClient) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *AnalysisClient) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, key)
}
