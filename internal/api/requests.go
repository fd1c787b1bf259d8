// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

// RecommendRequest is the validated input of GET /recommend/{name}.
type RecommendRequest struct {
	Name string `json:"name" validate:"notblank,max=512"`
	K    int    `json:"k" validate:"min=1,ltefield=MaxK"`

	// MaxK is the configured upper bound for K.
	MaxK int `json:"-" validate:"-"`
}

// MovieRequest is the validated input of GET /movie/{name}.
type MovieRequest struct {
	Name string `json:"name" validate:"notblank,max=512"`
}
