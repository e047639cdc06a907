package external

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/naranjo-adr-assessor/internal/domain"
)

var fencedBlock = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSON reduces model output to the candidate JSON text. The first matching
// strategy wins: a fenced code block, then the span from the first '{' to the last '}',
// then the whole input.
func ExtractJSON(raw string) string {
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return m[1]
	}

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first != -1 && last > first {
		return raw[first : last+1]
	}

	return raw
}

// RiskPolicy controls how a missing or unrecognized riskFactor is treated.
type RiskPolicy int

const (
	// RiskFallbackUnknown normalizes an absent or unrecognized risk factor to Unknown.
	RiskFallbackUnknown RiskPolicy = iota
	// RiskStrict rejects any risk factor outside Low/Medium/High.
	RiskStrict
)

type rawAnalysis struct {
	Analysis        *string  `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	RiskFactor      *string  `json:"riskFactor"`
}

// ParseAnalysis extracts and validates an AIAnalysisResult from provider output.
// Every failure is a parse error carrying the raw text; no partial result is returned.
func ParseAnalysis(provider, raw string, policy RiskPolicy) (*domain.AIAnalysisResult, error) {
	candidate := strings.TrimSpace(ExtractJSON(raw))
	if candidate == "" {
		return nil, domain.NewParseError(provider, "AI response was empty", raw, nil)
	}

	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, domain.NewParseError(provider, "AI response format was invalid", raw, err)
	}

	if parsed.Analysis == nil || strings.TrimSpace(*parsed.Analysis) == "" {
		return nil, domain.NewParseError(provider, "AI response is missing \"analysis\"", raw, nil)
	}

	recommendations := make([]string, 0, len(parsed.Recommendations))
	for _, r := range parsed.Recommendations {
		if r = strings.TrimSpace(r); r != "" {
			recommendations = append(recommendations, r)
		}
	}
	if len(recommendations) == 0 {
		return nil, domain.NewParseError(provider, "AI response is missing \"recommendations\"", raw, nil)
	}

	risk := domain.RISK_UNKNOWN
	if parsed.RiskFactor != nil {
		r, ok := domain.ParseRiskFactor(*parsed.RiskFactor)
		if !ok && policy == RiskStrict {
			return nil, domain.NewParseError(provider, fmt.Sprintf("AI response has invalid riskFactor %q", *parsed.RiskFactor), raw, nil)
		}
		risk = r
	} else if policy == RiskStrict {
		return nil, domain.NewParseError(provider, "AI response is missing \"riskFactor\"", raw, nil)
	}

	return &domain.AIAnalysisResult{
		Analysis:        strings.TrimSpace(*parsed.Analysis),
		Recommendations: recommendations,
		RiskFactor:      risk,
	}, nil
}
