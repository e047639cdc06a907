package external

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	MaxRequests uint32        `json:"max_requests"`
	Interval    time.Duration `json:"interval"`
	Timeout     time.Duration `json:"timeout"`
}

// newCircuitBreaker creates a breaker for one provider. Only transport failures
// (connection, timeout) count against it; a model that answers with bad JSON is healthy.
func newCircuitBreaker(name string, config CircuitBreakerConfig, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	if config.Interval == 0 {
		config.Interval = 60 * time.Second
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !(errors.Is(err, domain.ErrConnection) || errors.Is(err, domain.ErrTimeout))
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("Circuit breaker state changed")
			}
		},
	})
}

// newLimiter allows rps calls per second with a burst of one. rps <= 0 disables limiting.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// executeWithBreaker waits for a limiter slot, runs call through the breaker and maps an
// open breaker to a connection error.
func executeWithBreaker(ctx context.Context, cb *gobreaker.CircuitBreaker, limiter *rate.Limiter, provider string, call func(context.Context) (*domain.AIAnalysisResult, error)) (*domain.AIAnalysisResult, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, domain.NewTimeoutError(provider, "no request slot available before the deadline", err)
	}

	result, err := cb.Execute(func() (interface{}, error) {
		return call(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.NewConnectionError(provider, "provider unavailable after repeated failures, retry shortly", err)
		}
		return nil, err
	}
	return result.(*domain.AIAnalysisResult), nil
}
