// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/gateway"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Index describes the gateway service.
func (h *GatewayHandler) Index(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, models.ServiceInfo{
		Service: GatewayServiceName,
		Role:    config.RoleGateway,
		Version: Version,
		Endpoints: map[string]string{
			"recommend": "/recommend/{movie_name}?k=5",
			"health":    "/health",
			"metrics":   "/metrics",
		},
	}, time.Now())
}

// Recommend validates the request and forwards it to the engine tier.
//
// Responses:
//   - 200 with models.RecommendationResponse
//   - 400 VALIDATION_ERROR / INVALID_INPUT
//   - 404 MOVIE_NOT_FOUND
//   - 503 SERVICE_UNAVAILABLE when the engine cannot answer in time
func (h *GatewayHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	name, err := pathParam(r, "name")
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidInput, err.Error(), nil)
		return
	}
	k, err := parseK(r, h.config.DefaultK)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidInput, err.Error(), nil)
		return
	}

	req := RecommendRequest{Name: name, K: k, MaxK: h.config.MaxK}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	res, err := h.forwarder.Handle(r.Context(), req.Name, req.K)
	switch gateway.Classify(err) {
	case gateway.OutcomeOK:
		respondSuccess(w, recommendationResponse(res.Query, res.Recommendations), start)

	case gateway.OutcomeInvalidInput:
		message := "Movie name must not be blank"
		var rejected *gateway.RejectedError
		if errors.As(err, &rejected) {
			message = rejected.Reason
		}
		respondError(w, http.StatusBadRequest, CodeInvalidInput, message, nil)

	case gateway.OutcomeNotFound:
		movie := req.Name
		var nf *recommend.ItemNotFoundError
		if errors.As(err, &nf) {
			movie = nf.Name
		}
		respondErrorDetails(w, http.StatusNotFound, CodeMovieNotFound, notFoundMessage(movie), map[string]interface{}{
			"movie": movie,
		}, nil)

	default:
		respondError(w, http.StatusServiceUnavailable, CodeServiceUnavailable,
			"Recommendation service is currently unavailable", nil)
	}
}
