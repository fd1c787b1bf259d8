// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package gateway implements the front tier: it validates a client request,
// delegates it to the recommendation engine through a Transport and turns
// whatever comes back into one of four outcomes (ok, invalid input, not
// found, unavailable).
//
// The Transport is the only code that knows whether the engine lives in the
// same process (LocalTransport), behind HTTP (HTTPTransport) or behind NATS
// request/reply (NATSTransport). BreakerTransport wraps either remote
// transport with a circuit breaker.
//
// Every call to the engine is bounded by the forwarder's timeout and is
// attempted exactly once.
package gateway

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Transport delivers a query to the engine tier.
//
// Recommend returns a *recommend.ItemNotFoundError when the engine does not
// know the name and ErrEngineNotReady while the engine is still building.
// Any other error means the engine could not be reached or answered badly.
type Transport interface {
	Name() string
	Recommend(ctx context.Context, name string, k int) ([]recommend.Recommendation, error)
	Ready(ctx context.Context) error
}

// Result is a successful forwarded query. Query holds the client's name with
// surrounding whitespace trimmed, exactly as it was sent to the engine.
type Result struct {
	Query           string
	Recommendations []recommend.Recommendation
}

// Config configures a Forwarder.
type Config struct {
	// DefaultK replaces a missing or non-positive k.
	DefaultK int

	// Timeout bounds a whole request, including the readiness probe made
	// before the engine is first seen ready.
	Timeout time.Duration
}

// Forwarder is the gateway's request path.
type Forwarder struct {
	transport Transport
	cfg       Config
	log       zerolog.Logger

	// ready latches once the engine reports ready and resets when a call
	// finds it not ready again.
	ready atomic.Bool
}

// NewForwarder creates a forwarder over t.
func NewForwarder(t Transport, cfg Config) *Forwarder {
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Forwarder{
		transport: t,
		cfg:       cfg,
		log:       logging.WithComponent("gateway"),
	}
}

// TransportName returns the name of the underlying transport.
func (f *Forwarder) TransportName() string {
	return f.transport.Name()
}

// Handle forwards one recommendation request. The error, if any, is
// ErrInvalidInput, a *RejectedError, a *recommend.ItemNotFoundError or a
// *UnavailableError.
func (f *Forwarder) Handle(ctx context.Context, rawName string, k int) (*Result, error) {
	start := time.Now()
	res, err := f.handle(ctx, rawName, k)
	outcome := Classify(err)
	metrics.RecordGatewayForward(f.transport.Name(), string(outcome), time.Since(start))

	if outcome == OutcomeUnavailable {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("transport", f.transport.Name()).
			Str("movie", logging.SanitizeValue(rawName)).
			Msg("Engine unavailable")
	}
	return res, err
}

func (f *Forwarder) handle(ctx context.Context, rawName string, k int) (*Result, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if k <= 0 {
		k = f.cfg.DefaultK
	}

	callCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	if !f.ready.Load() {
		if err := f.probe(callCtx); err != nil {
			return nil, err
		}
	}

	recs, err := f.transport.Recommend(callCtx, name, k)
	if err != nil {
		if recommend.IsNotFound(err) {
			return nil, &recommend.ItemNotFoundError{Name: name}
		}
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		if isNotReady(err) {
			f.ready.Store(false)
		}
		return nil, unavailable(f.transport.Name(), err)
	}

	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	return &Result{Query: name, Recommendations: recs}, nil
}

// Ready asks the engine whether it can serve queries and updates the
// readiness latch. A nil return means ready.
func (f *Forwarder) Ready(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()
	return f.probe(callCtx)
}

// probe runs the readiness check under ctx, which the caller has bounded.
func (f *Forwarder) probe(ctx context.Context) error {
	if err := f.transport.Ready(ctx); err != nil {
		if f.ready.Swap(false) {
			f.log.Warn().Err(err).Str("transport", f.transport.Name()).Msg("Engine no longer ready")
		}
		return unavailable(f.transport.Name(), err)
	}

	if !f.ready.Swap(true) {
		f.log.Info().Str("transport", f.transport.Name()).Msg("Engine ready")
	}
	return nil
}

// IsReady reports the latched readiness without calling the engine.
func (f *Forwarder) IsReady() bool {
	return f.ready.Load()
}

func isNotReady(err error) bool {
	return errors.Is(err, ErrEngineNotReady)
}
