// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package gateway

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// BreakerTransport wraps a remote transport with a circuit breaker. When the
// engine keeps failing, requests are rejected immediately instead of each
// waiting out the engine timeout. It never retries.
//
// An unknown movie and a not-ready engine are answers, not failures, so
// neither counts towards tripping the breaker.
type BreakerTransport struct {
	next Transport
	cb   *gobreaker.CircuitBreaker[[]recommend.Recommendation]
	name string
}

// NewBreakerTransport wraps next.
func NewBreakerTransport(next Transport, cfg config.BreakerConfig) *BreakerTransport {
	cbName := "engine-" + next.Name()

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	minRequests := cfg.MinRequests
	failureRatio := cfg.FailureRatio

	cb := gobreaker.NewCircuitBreaker[[]recommend.Recommendation](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}

			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := ratio >= failureRatio

			if shouldTrip {
				logging.Warn().
					Str("breaker", cbName).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || recommend.IsNotFound(err) ||
				errors.Is(err, ErrEngineNotReady) || errors.Is(err, ErrInvalidInput)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerTransport{next: next, cb: cb, name: cbName}
}

// Name implements Transport.
func (t *BreakerTransport) Name() string {
	return t.next.Name()
}

// State returns the current breaker state.
func (t *BreakerTransport) State() gobreaker.State {
	return t.cb.State()
}

// Recommend implements Transport.
func (t *BreakerTransport) Recommend(ctx context.Context, name string, k int) ([]recommend.Recommendation, error) {
	return t.execute(func() ([]recommend.Recommendation, error) {
		return t.next.Recommend(ctx, name, k)
	})
}

// Ready implements Transport. Probes go through the breaker too, so an open
// circuit reports not ready without touching the engine.
func (t *BreakerTransport) Ready(ctx context.Context) error {
	_, err := t.execute(func() ([]recommend.Recommendation, error) {
		return nil, t.next.Ready(ctx)
	})
	return err
}

func (t *BreakerTransport) execute(fn func() ([]recommend.Recommendation, error)) ([]recommend.Recommendation, error) {
	result, err := t.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(t.name, "rejected").Inc()
		return nil, fmt.Errorf("circuit breaker %s: %w", t.name, err)

	case err != nil && !recommend.IsNotFound(err) && !errors.Is(err, ErrEngineNotReady) && !errors.Is(err, ErrInvalidInput):
		metrics.CircuitBreakerRequests.WithLabelValues(t.name, "failure").Inc()
		counts := t.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(t.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(t.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(t.name).Set(0)
	return result, err
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
