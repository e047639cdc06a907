package domain

import "strings"

// RiskFactor is the AI-assessed clinical risk level.
type RiskFactor string

const (
	RISK_LOW     RiskFactor = "Low"
	RISK_MEDIUM  RiskFactor = "Medium"
	RISK_HIGH    RiskFactor = "High"
	RISK_UNKNOWN RiskFactor = "Unknown"
)

// ParseRiskFactor matches Low/Medium/High case-insensitively.
// The boolean is false when the value is absent or unrecognized.
func ParseRiskFactor(s string) (RiskFactor, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RISK_LOW, true
	case "medium":
		return RISK_MEDIUM, true
	case "high":
		return RISK_HIGH, true
	default:
		return RISK_UNKNOWN, false
	}
}

// String returns the string representation of the risk factor.
func (r RiskFactor) String() string {
	return string(r)
}

// AIAnalysisResult is the advisory narrative produced by an AI provider.
type AIAnalysisResult struct {
	Analysis        string     `json:"analysis"`
	Recommendations []string   `json:"recommendations"`
	RiskFactor      RiskFactor `json:"riskFactor"`
}

// ProviderKind selects which AI backend serves an analysis.
type ProviderKind string

const (
	PROVIDER_LOCAL ProviderKind = "local"
	PROVIDER_CLOUD ProviderKind = "cloud"
)

// IsValid reports whether the provider kind is supported.
func (p ProviderKind) IsValid() bool {
	return p == PROVIDER_LOCAL || p == PROVIDER_CLOUD
}

// Default persisted AI settings.
const (
	DefaultProvider      = PROVIDER_LOCAL
	DefaultLocalModel    = "medgemma"
	DefaultLocalEndpoint = "http://localhost:11434"
)

// AIConfig is the locally persisted provider configuration record.
type AIConfig struct {
	Provider    ProviderKind `json:"provider"`
	ModelName   string       `json:"modelName"`
	EndpointURL string       `json:"endpointUrl"`
	Credential  string       `json:"credential,omitempty"`
}

// DefaultAIConfig returns the settings used when nothing valid has been saved.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Provider:    DefaultProvider,
		ModelName:   DefaultLocalModel,
		EndpointURL: DefaultLocalEndpoint,
	}
}

// MaskedCredential replaces a stored credential in displayed settings.
const MaskedCredential = "********"

// Masked returns a copy safe to display or log.
func (c AIConfig) Masked() AIConfig {
	if c.Credential != "" {
		c.Credential = MaskedCredential
	}
	return c
}
