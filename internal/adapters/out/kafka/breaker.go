package kafka

import (
	"errors"
	"fmt"
	"log/slog"

	"production/internal/pkg/metrics"

	"github.com/sony/gobreaker"
)

var ErrBrokerUnavailable = errors.New("broker unavailable")

func newBreaker(config BreakerConfig, m *metrics.Metrics, logger *slog.Logger) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= config.FailureThreshold {
				return true
			}
			if config.MinRequestsToTrip > 0 && counts.Requests >= config.MinRequestsToTrip {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= config.FailureRatioThreshold
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
			if m != nil {
				m.SetBreakerState(name, int(to))
			}
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// execute runs fn through the breaker and reports a rejected call as
// ErrBrokerUnavailable.
func execute(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit breaker %s: %w", ErrBrokerUnavailable, cb.Name(), err)
	}
	return err
}
