// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package models holds the JSON payloads exchanged over HTTP by the gateway,
// the engine and their clients.
package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {
//	    "movie": "Toy Story",
//	    "recommendations": ["A Bug's Life", "The Matrix"],
//	    "similarity_scores": [0.8514, 0]
//	  },
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 1}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "MOVIE_NOT_FOUND",
//	    "message": "Movie 'Inception' not found in catalog",
//	    "details": {"movie": "Inception", "available_movies": ["Toy Story", "..."]}
//	  },
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "VALIDATION_ERROR", "MOVIE_NOT_FOUND")
//   - Message: Human-readable error message
//   - Details: Additional context (field names, the missing movie, etc.)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationResponse is the data payload of GET /recommend/{name}.
// Recommendations and SimilarityScores are parallel, in rank order.
type RecommendationResponse struct {
	Movie            string    `json:"movie"`
	Recommendations  []string  `json:"recommendations"`
	SimilarityScores []float64 `json:"similarity_scores"`
}

// MovieDetails is the data payload of GET /movie/{name}.
type MovieDetails struct {
	MovieID int      `json:"movieId"`
	Title   string   `json:"title"`
	Genres  []string `json:"genres"`
}

// MovieList is the data payload of GET /movies.
type MovieList struct {
	TotalMovies int      `json:"total_movies"`
	Movies      []string `json:"movies"`
}

// ServiceInfo is the data payload of GET / on both tiers.
type ServiceInfo struct {
	Service     string            `json:"service"`
	Role        string            `json:"role"`
	Version     string            `json:"version"`
	TotalMovies int               `json:"total_movies,omitempty"`
	Endpoints   map[string]string `json:"endpoints"`
}

// HealthStatus is the data payload of GET /health.
type HealthStatus struct {
	Status      string `json:"status"` // healthy, starting, degraded
	Service     string `json:"service"`
	Ready       bool   `json:"ready"`
	TotalMovies int    `json:"total_movies,omitempty"`
	Transport   string `json:"transport,omitempty"`
	Uptime      string `json:"uptime"`
}
