// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/validation"
)

// errInvalidK reports a k query parameter that is not an integer.
var errInvalidK = errors.New("k must be an integer")

// respondJSON sends a JSON response with proper headers. A Cache-Control
// header already set by the handler is kept.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	if w.Header().Get("Cache-Control") == "" {
		if status >= http.StatusBadRequest {
			w.Header().Set("Cache-Control", "no-store")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=60")
		}
	}
	w.Header().Add("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorDetails(w, status, code, message, nil, err)
}

// respondErrorDetails sends an error response carrying details.
func respondErrorDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Error().
			Str("code", logging.SanitizeValue(code)).
			Str("error", logging.SanitizeValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusError,
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondValidationError sends a 400 built from validator output.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
}

// blankName answers routes whose {name} segment is empty, which chi would
// otherwise send to the 404 handler.
func blankName(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusBadRequest, CodeInvalidInput, "Movie name must not be blank", nil)
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// pathParam returns a decoded chi URL parameter. chi matches on the raw
// path when the request path carries escapes such as %2F, in which case the
// parameter is still escaped.
func pathParam(r *http.Request, key string) (string, error) {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value, nil
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", key, err)
	}
	return decoded, nil
}

// parseK reads the k query parameter, falling back to defaultK when absent.
// top_n is accepted as an alias.
func parseK(r *http.Request, defaultK int) (int, error) {
	query := r.URL.Query()
	value := strings.TrimSpace(query.Get("k"))
	if value == "" {
		value = strings.TrimSpace(query.Get("top_n"))
	}
	if value == "" {
		return defaultK, nil
	}

	k, err := strconv.Atoi(value)
	if err != nil {
		return 0, errInvalidK
	}
	return k, nil
}

// roundScore rounds a similarity score to 4 decimal places.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}

// recommendationResponse flattens ranked recommendations into parallel
// title and score lists.
func recommendationResponse(movie string, recs []recommend.Recommendation) models.RecommendationResponse {
	resp := models.RecommendationResponse{
		Movie:            movie,
		Recommendations:  make([]string, len(recs)),
		SimilarityScores: make([]float64, len(recs)),
	}
	for i, rec := range recs {
		resp.Recommendations[i] = rec.Name
		resp.SimilarityScores[i] = roundScore(rec.Score)
	}
	return resp
}

// notFoundMessage formats the 404 message for an unknown movie.
func notFoundMessage(name string) string {
	return fmt.Sprintf("Movie '%s' not found in catalog", name)
}

// NotFound answers unknown routes with the API error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, CodeNotFound, "Endpoint not found", nil)
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed", nil)
}
