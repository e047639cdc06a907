package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// DefaultLocalTimeout bounds a local generation call.
const DefaultLocalTimeout = 60 * time.Second

// OllamaConfig represents configuration for the local inference endpoint client
type OllamaConfig struct {
	Timeout        time.Duration        `json:"timeout"`
	RateLimit      float64              `json:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `json:"circuit_breaker"`
	HTTPClient     *http.Client         `json:"-"`
}

// OllamaClient talks to a local Ollama-compatible /api/generate endpoint
type OllamaClient struct {
	httpClient *http.Client
	timeout    time.Duration
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaClient creates a new local inference client
func NewOllamaClient(config OllamaConfig, logger *logrus.Logger) *OllamaClient {
	if config.Timeout <= 0 {
		config.Timeout = DefaultLocalTimeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &OllamaClient{
		httpClient: httpClient,
		timeout:    config.Timeout,
		breaker:    newCircuitBreaker("local", config.CircuitBreaker, logger),
		limiter:    newLimiter(config.RateLimit),
		logger:     logger,
	}
}

// Name implements domain.AnalysisProvider
func (c *OllamaClient) Name() string {
	return string(domain.PROVIDER_LOCAL)
}

// Analyze sends the prompt to {endpoint}/api/generate with streaming off and JSON output
// requested, and parses the generated text.
func (c *OllamaClient) Analyze(ctx context.Context, prompt string, cfg domain.AIConfig) (*domain.AIAnalysisResult, error) {
	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, domain.NewConfigurationError(c.Name(), "model name is missing in settings")
	}

	endpoint, err := generateURL(cfg.EndpointURL)
	if err != nil {
		return nil, domain.NewConfigurationError(c.Name(), err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return executeWithBreaker(ctx, c.breaker, c.limiter, c.Name(), func(ctx context.Context) (*domain.AIAnalysisResult, error) {
		return c.generate(ctx, endpoint, prompt, cfg.ModelName)
	})
}

func (c *OllamaClient) generate(ctx context.Context, endpoint, prompt, model string) (*domain.AIAnalysisResult, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewConfigurationError(c.Name(), fmt.Sprintf("invalid endpoint URL: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"model":  model,
			"body":   string(snippet),
		}).Warn("Local inference endpoint returned an error status")
		return nil, domain.NewConnectionError(c.Name(),
			fmt.Sprintf("local endpoint returned status %d, ensure the model server is running and %q is pulled", resp.StatusCode, model), nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, endpoint, err)
	}

	var generated ollamaGenerateResponse
	if err := json.Unmarshal(payload, &generated); err != nil {
		return nil, domain.NewParseError(c.Name(), "local endpoint returned an unexpected envelope", string(payload), err)
	}

	return ParseAnalysis(c.Name(), generated.Response, RiskFallbackUnknown)
}

func (c *OllamaClient) transportError(ctx context.Context, endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewTimeoutError(c.Name(), fmt.Sprintf("local model timed out (%s), it may still be loading", c.timeout), err)
	}
	return domain.NewConnectionError(c.Name(), fmt.Sprintf("cannot connect to local endpoint %s", endpoint), err)
}

// generateURL resolves the /api/generate URL from a configured base URL.
func generateURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = domain.DefaultLocalEndpoint
	}

	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("endpoint URL %q must be an absolute http(s) URL", base)
	}
	return strings.TrimRight(base, "/") + "/api/generate", nil
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the model names installed on the local endpoint.
func (c *OllamaClient) ListModels(ctx context.Context, endpointURL string) ([]string, error) {
	generate, err := generateURL(endpointURL)
	if err != nil {
		return nil, domain.NewConfigurationError(c.Name(), err.Error())
	}
	tagsURL := strings.TrimSuffix(generate, "/api/generate") + "/api/tags"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
	if err != nil {
		return nil, domain.NewConfigurationError(c.Name(), fmt.Sprintf("invalid endpoint URL: %v", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, tagsURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewConnectionError(c.Name(), fmt.Sprintf("local endpoint returned status %d", resp.StatusCode), nil)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, domain.NewParseError(c.Name(), "local endpoint returned an unexpected model list", "", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}
