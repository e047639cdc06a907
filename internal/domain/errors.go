package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeIncomplete    = "ASSESSMENT_INCOMPLETE"
	ErrCodeInFlight      = "ANALYSIS_IN_FLIGHT"
	ErrCodeConnection    = "PROVIDER_CONNECTION_ERROR"
	ErrCodeTimeout       = "PROVIDER_TIMEOUT"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeParse         = "PROVIDER_PARSE_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternal      = "INTERNAL_SERVER_ERROR"
)

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

var (
	ErrNotFound             = errors.New("not found")
	ErrUnknownLocale        = errors.New("unsupported locale")
	ErrInvalidAnswer        = errors.New("invalid answer value")
	ErrUnknownQuestion      = errors.New("unknown question id")
	ErrIncompleteAssessment = errors.New("assessment incomplete: all 10 questions must be answered")
	ErrAnalysisInFlight     = errors.New("an analysis for this report is already in progress")
)

// Analysis failure kinds. An *AnalysisError matches its kind with errors.Is.
var (
	ErrConnection    = errors.New("provider connection error")
	ErrTimeout       = errors.New("provider timeout")
	ErrConfiguration = errors.New("configuration error")
	ErrParse         = errors.New("provider response parse error")
)

// maxRawExcerpt bounds how much of a bad provider response is kept for diagnostics.
const maxRawExcerpt = 2048

// AnalysisError is the single error type returned across the AI analysis boundary.
type AnalysisError struct {
	Kind     error  `json:"-"`
	Provider string `json:"provider"`
	Message  string `json:"message"`
	Raw      string `json:"raw,omitempty"`
	Err      error  `json:"-"`
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Is matches the error's kind sentinel.
func (e *AnalysisError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// Code returns the API error code for the failure kind.
func (e *AnalysisError) Code() string {
	switch e.Kind {
	case ErrConnection:
		return ErrCodeConnection
	case ErrTimeout:
		return ErrCodeTimeout
	case ErrConfiguration:
		return ErrCodeConfiguration
	case ErrParse:
		return ErrCodeParse
	default:
		return ErrCodeInternal
	}
}

// NewConnectionError reports an unreachable or failing provider endpoint.
func NewConnectionError(provider, message string, err error) *AnalysisError {
	return &AnalysisError{Kind: ErrConnection, Provider: provider, Message: message, Err: err}
}

// NewTimeoutError reports a provider call that exceeded its deadline.
func NewTimeoutError(provider, message string, err error) *AnalysisError {
	return &AnalysisError{Kind: ErrTimeout, Provider: provider, Message: message, Err: err}
}

// NewConfigurationError reports missing settings detected before any network call.
func NewConfigurationError(provider, message string) *AnalysisError {
	return &AnalysisError{Kind: ErrConfiguration, Provider: provider, Message: message}
}

// NewParseError reports provider output that could not be reduced to a valid result.
func NewParseError(provider, message, raw string, err error) *AnalysisError {
	if len(raw) > maxRawExcerpt {
		n := maxRawExcerpt
		for n > 0 && !utf8.RuneStart(raw[n]) {
			n--
		}
		raw = raw[:n] + "…"
	}
	return &AnalysisError{Kind: ErrParse, Provider: provider, Message: message, Raw: raw, Err: err}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
