// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"fmt"
)

// Item is a catalog entry.
type Item struct {
	// ID is the stable catalog identifier (movieId).
	ID int `json:"id"`

	// Name is the display title. Lookups ignore case.
	Name string `json:"name"`

	// Tags are the categorical labels (genres). A tag repeated within one
	// item counts towards its term frequency.
	Tags []string `json:"tags"`
}

// Recommendation is one ranked neighbour of a queried item.
type Recommendation struct {
	// Name is the display title of the recommended item.
	Name string `json:"name"`

	// Score is the cosine similarity to the queried item, in [0, 1].
	Score float64 `json:"score"`
}

// Sentinel errors.
var (
	// ErrEmptyCatalog is returned by BuildIndex when there is nothing to index.
	ErrEmptyCatalog = errors.New("recommend: catalog is empty")

	// ErrInvalidK is returned when a query asks for fewer than one result.
	ErrInvalidK = errors.New("recommend: k must be greater than zero")

	// ErrAlreadyPublished is returned when a Slot is published twice.
	ErrAlreadyPublished = errors.New("recommend: engine already published")

	// ErrNilEngine is returned when publishing a nil engine.
	ErrNilEngine = errors.New("recommend: cannot publish nil engine")
)

// ItemNotFoundError reports a display name with no catalog match.
type ItemNotFoundError struct {
	Name string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("movie %q not found in catalog", e.Name)
}

// IsNotFound reports whether err is, or wraps, an ItemNotFoundError.
func IsNotFound(err error) bool {
	var nf *ItemNotFoundError
	return errors.As(err, &nf)
}
