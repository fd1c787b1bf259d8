// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package messaging

import "github.com/tomtom215/cinematch/internal/recommend"

// Reply statuses.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotFound = "not_found"
	StatusNotReady = "not_ready"
	StatusInvalid  = "invalid"
)

// Request asks the engine for the k items most similar to Name.
type Request struct {
	Name string `json:"name"`
	K    int    `json:"k"`
}

// Reply answers both recommend and readiness requests. Readiness replies
// carry only Status.
type Reply struct {
	Status          string                     `json:"status"`
	Movie           string                     `json:"movie,omitempty"`
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty"`
	Error           string                     `json:"error,omitempty"`
}

// ReadySubject returns the readiness probe subject paired with subject.
func ReadySubject(subject string) string {
	return subject + ".ready"
}
