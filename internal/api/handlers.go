// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"time"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/gateway"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Version is reported by the service info endpoints. Set at build time with
// -ldflags "-X github.com/tomtom215/cinematch/internal/api.Version=...".
var Version = "dev"

// Service names reported in service info and health payloads.
const (
	EngineServiceName  = "recommendation-engine"
	GatewayServiceName = "recommendation-gateway"
)

// EngineHandler serves the engine tier's HTTP API from the published engine.
//
// Handler methods are split across files:
//   - handlers_engine.go: service info, recommend, catalog views
//   - handlers_health.go: health, liveness and readiness for both tiers
type EngineHandler struct {
	slot      *recommend.Slot
	config    config.EngineConfig
	startTime time.Time
}

// NewEngineHandler creates the engine tier's handler. Until slot is
// published, query endpoints answer 503.
func NewEngineHandler(slot *recommend.Slot, cfg config.EngineConfig) *EngineHandler {
	return &EngineHandler{
		slot:      slot,
		config:    cfg,
		startTime: time.Now(),
	}
}

// GatewayHandler serves the gateway tier's HTTP API.
type GatewayHandler struct {
	forwarder *gateway.Forwarder
	config    config.GatewayConfig
	startTime time.Time
}

// NewGatewayHandler creates the gateway tier's handler.
func NewGatewayHandler(forwarder *gateway.Forwarder, cfg config.GatewayConfig) *GatewayHandler {
	return &GatewayHandler{
		forwarder: forwarder,
		config:    cfg,
		startTime: time.Now(),
	}
}

func uptime(start time.Time) string {
	return time.Since(start).Round(time.Second).String()
}
