// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// LocalTransport queries an engine in the same process.
type LocalTransport struct {
	slot *recommend.Slot
}

// NewLocalTransport returns a transport reading from slot.
func NewLocalTransport(slot *recommend.Slot) *LocalTransport {
	return &LocalTransport{slot: slot}
}

// Name implements Transport.
func (t *LocalTransport) Name() string {
	return "local"
}

// Recommend implements Transport.
func (t *LocalTransport) Recommend(ctx context.Context, name string, k int) ([]recommend.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	engine, ok := t.slot.Engine()
	if !ok {
		metrics.RecordRecommendQuery("not_ready", 0)
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	recs, err := engine.Recommend(name, k)
	switch {
	case err == nil:
		metrics.RecordRecommendQuery("ok", time.Since(start))
	case recommend.IsNotFound(err):
		metrics.RecordRecommendQuery("not_found", 0)
	case errors.Is(err, recommend.ErrInvalidK):
		metrics.RecordRecommendQuery("invalid_k", 0)
	}
	return recs, err
}

// Ready implements Transport.
func (t *LocalTransport) Ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.slot.Ready() {
		return ErrEngineNotReady
	}
	return nil
}
