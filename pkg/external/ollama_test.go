package external

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjo-adr-assessor/internal/domain"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func localConfig(url string) domain.AIConfig {
	return domain.AIConfig{Provider: domain.PROVIDER_LOCAL, ModelName: "medgemma", EndpointURL: url}
}

func TestOllamaClient_Analyze(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		response     string
		expected     *domain.AIAnalysisResult
		expectedKind error
	}{
		{
			name:     "fenced response",
			status:   http.StatusOK,
			response: "Here is the result:\n```json\n{\"analysis\":\"x\",\"recommendations\":[\"a\",\"b\"],\"riskFactor\":\"Low\"}\n```",
			expected: &domain.AIAnalysisResult{Analysis: "x", Recommendations: []string{"a", "b"}, RiskFactor: domain.RISK_LOW},
		},
		{
			name:     "missing risk factor",
			status:   http.StatusOK,
			response: `{"analysis":"x","recommendations":["a"]}`,
			expected: &domain.AIAnalysisResult{Analysis: "x", Recommendations: []string{"a"}, RiskFactor: domain.RISK_UNKNOWN},
		},
		{
			name:         "refusal",
			status:       http.StatusOK,
			response:     "I cannot comply.",
			expectedKind: domain.ErrParse,
		},
		{
			name:         "model not pulled",
			status:       http.StatusNotFound,
			expectedKind: domain.ErrConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/generate", r.URL.Path)

				var req ollamaGenerateRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "medgemma", req.Model)
				assert.False(t, req.Stream)
				assert.Equal(t, "json", req.Format)
				assert.Equal(t, "prompt text", req.Prompt)

				if tt.status != http.StatusOK {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(`{"error":"model not found"}`))
					return
				}
				_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Model: req.Model, Response: tt.response, Done: true})
			}))
			defer server.Close()

			client := NewOllamaClient(OllamaConfig{}, quietLogger())
			result, err := client.Analyze(context.Background(), "prompt text", localConfig(server.URL+"/"))

			if tt.expectedKind != nil {
				assert.Nil(t, result)
				assert.True(t, errors.Is(err, tt.expectedKind), "expected %v, got %v", tt.expectedKind, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestOllamaClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewOllamaClient(OllamaConfig{Timeout: 50 * time.Millisecond}, quietLogger())
	_, err := client.Analyze(context.Background(), "prompt", localConfig(server.URL))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTimeout), "expected timeout, got %v", err)
	assert.False(t, errors.Is(err, domain.ErrParse))
}

func TestOllamaClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewOllamaClient(OllamaConfig{}, quietLogger())
	_, err := client.Analyze(context.Background(), "prompt", localConfig(url))

	assert.True(t, errors.Is(err, domain.ErrConnection), "expected connection error, got %v", err)
}

func TestOllamaClient_Configuration(t *testing.T) {
	client := NewOllamaClient(OllamaConfig{}, quietLogger())

	_, err := client.Analyze(context.Background(), "prompt", domain.AIConfig{Provider: domain.PROVIDER_LOCAL})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = client.Analyze(context.Background(), "prompt", domain.AIConfig{Provider: domain.PROVIDER_LOCAL, ModelName: "m", EndpointURL: "localhost:11434"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestOllamaClient_BreakerOpensOnRepeatedFailures(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOllamaClient(OllamaConfig{CircuitBreaker: CircuitBreakerConfig{Timeout: time.Minute}}, quietLogger())
	for i := 0; i < 3; i++ {
		_, err := client.Analyze(context.Background(), "prompt", localConfig(server.URL))
		require.ErrorIs(t, err, domain.ErrConnection)
	}

	_, err := client.Analyze(context.Background(), "prompt", localConfig(server.URL))
	assert.ErrorIs(t, err, domain.ErrConnection)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "open breaker must not reach the endpoint")
}

func TestOllamaClient_ParseFailuresDoNotTripBreaker(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "not json"})
	}))
	defer server.Close()

	client := NewOllamaClient(OllamaConfig{}, quietLogger())
	for i := 0; i < 5; i++ {
		_, err := client.Analyze(context.Background(), "prompt", localConfig(server.URL))
		require.ErrorIs(t, err, domain.ErrParse)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestGenerateURL(t *testing.T) {
	u, err := generateURL("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/api/generate", u)

	u, err = generateURL("http://gpu-box:11434//")
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434/api/generate", u)

	_, err = generateURL("ftp://gpu-box")
	assert.Error(t, err)
}

func TestOllamaClient_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"medgemma:latest"},{"name":"llama3:8b"},{"name":""}]}`))
	}))
	defer server.Close()

	client := NewOllamaClient(OllamaConfig{}, quietLogger())
	models, err := client.ListModels(context.Background(), server.URL+"/")

	require.NoError(t, err)
	assert.Equal(t, []string{"medgemma:latest", "llama3:8b"}, models)
}

func TestOllamaClient_ListModelsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewOllamaClient(OllamaConfig{}, quietLogger())
	_, err := client.ListModels(context.Background(), url)

	assert.ErrorIs(t, err, domain.ErrConnection)
}

func TestOllamaClient_RateLimit(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Response: `{"analysis":"x","recommendations":["a"],"riskFactor":"Low"}`,
			Done:     true,
		})
	}))
	defer server.Close()

	client := NewOllamaClient(OllamaConfig{Timeout: 200 * time.Millisecond, RateLimit: 0.001}, quietLogger())

	_, err := client.Analyze(context.Background(), "prompt text", localConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), "prompt text", localConfig(server.URL))
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
