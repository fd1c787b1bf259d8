// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package api provides the HTTP surface of both tiers using the Chi router.
//
// The engine router serves recommendations and catalog views straight from
// the published index. The gateway router validates client input and hands
// it to a gateway.Forwarder. Both share the same middleware stack, error
// envelope (models.APIResponse) and health endpoints.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinematch/internal/middleware"
)

// healthRoutes is the subset of handler methods both tiers expose for probes.
type healthRoutes interface {
	Health(http.ResponseWriter, *http.Request)
	HealthLive(http.ResponseWriter, *http.Request)
	HealthReady(http.ResponseWriter, *http.Request)
}

// newBaseRouter returns a router carrying the global middleware stack, the
// health endpoints and /metrics.
func newBaseRouter(mw *ChiMiddleware, health healthRoutes) *chi.Mux {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging()) // X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)   // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	// Permissive rate limiting so monitoring can probe frequently
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", health.Health)
		r.Get("/health/live", health.HealthLive)
		r.Get("/health/ready", health.HealthReady)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// NewEngineRouter builds the engine tier's HTTP handler.
func NewEngineRouter(h *EngineHandler, mw *ChiMiddleware) http.Handler {
	r := newBaseRouter(mw, h)

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", h.Index)
		r.Get("/recommend/", blankName)
		r.Get("/recommend/{name}", h.Recommend)
		r.Get("/movie/", blankName)
		r.Get("/movie/{name}", h.Movie)

		// The full title list is the one large payload.
		r.With(middleware.Compression).Get("/movies", h.Movies)
	})

	return r
}

// NewGatewayRouter builds the gateway tier's HTTP handler.
func NewGatewayRouter(h *GatewayHandler, mw *ChiMiddleware) http.Handler {
	r := newBaseRouter(mw, h)

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", h.Index)
		r.Get("/recommend/", blankName)
		r.Get("/recommend/{name}", h.Recommend)
	})

	return r
}
