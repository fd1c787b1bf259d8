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
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Index describes the engine service.
func (h *EngineHandler) Index(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	info := models.ServiceInfo{
		Service: EngineServiceName,
		Role:    config.RoleEngine,
		Version: Version,
		Endpoints: map[string]string{
			"recommend": "/recommend/{movie_name}?k=5",
			"movies":    "/movies",
			"movie":     "/movie/{movie_name}",
			"health":    "/health",
			"metrics":   "/metrics",
		},
	}
	if engine, ok := h.slot.Engine(); ok {
		info.TotalMovies = engine.Len()
	}

	respondSuccess(w, info, start)
}

// Recommend returns the k movies most similar to {name}.
//
// Responses:
//   - 200 with models.RecommendationResponse
//   - 400 VALIDATION_ERROR / INVALID_INPUT for a blank name or bad k
//   - 404 MOVIE_NOT_FOUND with the name and a sample of available titles
//   - 503 SERVICE_UNAVAILABLE while the index is still building
func (h *EngineHandler) Recommend(w http.ResponseWriter, r *http.Request) {
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
		metrics.RecordRecommendQuery("invalid_k", 0)
		respondValidationError(w, apiErr)
		return
	}

	engine, ok := h.engine(w)
	if !ok {
		metrics.RecordRecommendQuery("not_ready", 0)
		return
	}

	queryStart := time.Now()
	recs, err := engine.Recommend(req.Name, req.K)
	switch {
	case err == nil:
		metrics.RecordRecommendQuery("ok", time.Since(queryStart))
	case recommend.IsNotFound(err):
		metrics.RecordRecommendQuery("not_found", 0)
		h.respondMovieNotFound(w, engine, req.Name)
		return
	case errors.Is(err, recommend.ErrInvalidK):
		metrics.RecordRecommendQuery("invalid_k", 0)
		respondError(w, http.StatusBadRequest, CodeValidation, "k must be at least 1", nil)
		return
	default:
		respondError(w, http.StatusInternalServerError, CodeInternal, "Recommendation failed", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("movie", logging.SanitizeValue(req.Name)).
		Int("k", req.K).
		Int("results", len(recs)).
		Msg("Recommendations served")

	respondSuccess(w, recommendationResponse(req.Name, recs), start)
}

// Movies lists every catalog title in catalog order.
func (h *EngineHandler) Movies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	engine, ok := h.engine(w)
	if !ok {
		return
	}

	titles := engine.Titles()
	respondSuccess(w, models.MovieList{
		TotalMovies: len(titles),
		Movies:      titles,
	}, start)
}

// Movie returns the catalog entry for {name}.
func (h *EngineHandler) Movie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	name, err := pathParam(r, "name")
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidInput, err.Error(), nil)
		return
	}
	req := MovieRequest{Name: name}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	engine, ok := h.engine(w)
	if !ok {
		return
	}

	item, err := engine.Lookup(req.Name)
	if err != nil {
		h.respondMovieNotFound(w, engine, req.Name)
		return
	}

	genres := item.Tags
	if genres == nil {
		genres = []string{}
	}
	respondSuccess(w, models.MovieDetails{
		MovieID: item.ID,
		Title:   item.Name,
		Genres:  genres,
	}, start)
}

// engine returns the published engine or answers 503.
func (h *EngineHandler) engine(w http.ResponseWriter) (*recommend.Engine, bool) {
	engine, ok := h.slot.Engine()
	if !ok {
		respondError(w, http.StatusServiceUnavailable, CodeServiceUnavailable,
			"Recommendation engine is still building its index", nil)
		return nil, false
	}
	return engine, true
}

func (h *EngineHandler) respondMovieNotFound(w http.ResponseWriter, engine *recommend.Engine, name string) {
	titles := engine.Titles()
	if limit := h.config.MaxSuggestions; limit >= 0 && len(titles) > limit {
		titles = titles[:limit]
	}
	respondErrorDetails(w, http.StatusNotFound, CodeMovieNotFound, notFoundMessage(name), map[string]interface{}{
		"movie":            name,
		"available_movies": titles,
	}, nil)
}
