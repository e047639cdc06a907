package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// GeminiConfig represents configuration for the cloud LLM client
type GeminiConfig struct {
	BaseURL        string               `json:"base_url"`
	RateLimit      float64              `json:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `json:"circuit_breaker"`
	HTTPClient     *http.Client         `json:"-"`
}

// GeminiClient requests structured output from the Gemini API
type GeminiClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// analysisSchema declares the response shape; riskFactor is constrained to the enum.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analysis": {Type: genai.TypeString},
		"recommendations": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"riskFactor": {
			Type: genai.TypeString,
			Enum: []string{string(domain.RISK_LOW), string(domain.RISK_MEDIUM), string(domain.RISK_HIGH)},
		},
	},
	Required: []string{"analysis", "recommendations", "riskFactor"},
}

// NewGeminiClient creates a new cloud LLM client
func NewGeminiClient(config GeminiConfig, logger *logrus.Logger) *GeminiClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &GeminiClient{
		baseURL:    config.BaseURL,
		httpClient: httpClient,
		breaker:    newCircuitBreaker("cloud", config.CircuitBreaker, logger),
		limiter:    newLimiter(config.RateLimit),
		logger:     logger,
	}
}

// Name implements domain.AnalysisProvider
func (c *GeminiClient) Name() string {
	return string(domain.PROVIDER_CLOUD)
}

// Analyze issues one structured generateContent call. A missing credential or model name
// fails before any client is constructed.
func (c *GeminiClient) Analyze(ctx context.Context, prompt string, cfg domain.AIConfig) (*domain.AIAnalysisResult, error) {
	if strings.TrimSpace(cfg.Credential) == "" {
		return nil, domain.NewConfigurationError(c.Name(), "API credential is missing in settings")
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, domain.NewConfigurationError(c.Name(), "model name is missing in settings")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.Credential,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.baseURL},
	})
	if err != nil {
		return nil, domain.NewConfigurationError(c.Name(), fmt.Sprintf("cannot create client: %v", err))
	}

	return executeWithBreaker(ctx, c.breaker, c.limiter, c.Name(), func(ctx context.Context) (*domain.AIAnalysisResult, error) {
		resp, err := client.Models.GenerateContent(ctx, cfg.ModelName, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisSchema,
		})
		if err != nil {
			return nil, c.classify(ctx, err)
		}

		text := resp.Text()
		if strings.TrimSpace(text) == "" {
			return nil, domain.NewParseError(c.Name(), "no response from cloud model", "", nil)
		}
		return ParseAnalysis(c.Name(), text, RiskStrict)
	})
}

func (c *GeminiClient) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewTimeoutError(c.Name(), "cloud model request timed out", err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		c.logger.WithFields(logrus.Fields{
			"status": apiErr.Code,
			"reason": apiErr.Status,
		}).Warn("Cloud model returned an error")

		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.NewConfigurationError(c.Name(), fmt.Sprintf("credential was rejected (%d)", apiErr.Code))
		case http.StatusNotFound:
			return domain.NewConfigurationError(c.Name(), "model not found, check the model name in settings")
		}
		return domain.NewConnectionError(c.Name(), fmt.Sprintf("cloud model returned status %d", apiErr.Code), err)
	}

	return domain.NewConnectionError(c.Name(), "cannot reach cloud model", err)
}
