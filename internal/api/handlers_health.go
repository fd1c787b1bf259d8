// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

// Health summarizes engine state. It always answers 200; use /health/ready
// for gating traffic.
func (h *EngineHandler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:  "starting",
		Service: EngineServiceName,
		Uptime:  uptime(h.startTime),
	}
	if engine, ok := h.slot.Engine(); ok {
		health.Status = "healthy"
		health.Ready = true
		health.TotalMovies = engine.Len()
	}

	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, health, time.Now())
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of index state
func (h *EngineHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondLive(w, h.startTime)
}

// HealthReady returns 200 once the index is published and 503 before.
func (h *EngineHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respondReady(w, h.slot.Ready())
}

// Health summarizes gateway state, including whether the engine answers.
func (h *GatewayHandler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:    "healthy",
		Service:   GatewayServiceName,
		Ready:     true,
		Transport: h.forwarder.TransportName(),
		Uptime:    uptime(h.startTime),
	}
	if err := h.forwarder.Ready(r.Context()); err != nil {
		health.Status = "degraded"
		health.Ready = false
	}

	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, health, time.Now())
}

// HealthLive handles liveness probe requests (Kubernetes-style)
func (h *GatewayHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondLive(w, h.startTime)
}

// HealthReady returns 200 only when the engine behind the transport is
// reachable and ready.
func (h *GatewayHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respondReady(w, h.forwarder.Ready(r.Context()) == nil)
}

func respondLive(w http.ResponseWriter, start time.Time) {
	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, map[string]interface{}{
		"alive":  true,
		"uptime": uptime(start),
	}, time.Now())
}

func respondReady(w http.ResponseWriter, ready bool) {
	w.Header().Set("Cache-Control", "no-store")

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: map[string]interface{}{
			"status": status,
			"ready":  ready,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
