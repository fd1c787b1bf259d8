// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package catalog loads the movie catalog (movieId, title, genres) that the
// engine indexes at startup.
//
// Two sources are supported: a MovieLens-style CSV file read with
// encoding/csv, and DuckDB, which can read the same CSV through
// read_csv_auto or a prepared table from a database file.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Loader reads the full catalog in source order.
type Loader interface {
	Load(ctx context.Context) ([]recommend.Item, error)
}

// noGenres is the MovieLens placeholder for an untagged movie.
const noGenres = "(no genres listed)"

// genreSeparator delimits genres within the genres column.
const genreSeparator = "|"

// New returns the Loader selected by cfg.Source, instrumented with load
// duration metrics.
func New(cfg config.CatalogConfig) (Loader, error) {
	var loader Loader
	switch cfg.Source {
	case config.SourceCSV:
		loader = NewCSVLoader(cfg.Path)
	case config.SourceDuckDB:
		d, err := NewDuckDBLoader(cfg.Database, cfg.Path, cfg.Table)
		if err != nil {
			return nil, err
		}
		loader = d
	default:
		return nil, fmt.Errorf("catalog: unknown source %q", cfg.Source)
	}
	return &measuredLoader{source: cfg.Source, next: loader}, nil
}

// measuredLoader records load duration and failures.
type measuredLoader struct {
	source string
	next   Loader
}

func (m *measuredLoader) Load(ctx context.Context) ([]recommend.Item, error) {
	start := time.Now()
	items, err := m.next.Load(ctx)
	elapsed := time.Since(start)
	metrics.RecordCatalogLoad(m.source, elapsed, err)

	if err != nil {
		logging.Error().Err(err).Str("source", m.source).Msg("Catalog load failed")
		return nil, err
	}
	logging.Info().
		Str("source", m.source).
		Int("movies", len(items)).
		Dur("duration", elapsed).
		Msg("Catalog loaded")
	return items, nil
}

// ParseGenres splits a pipe-delimited genres field into tags. Entries are
// trimmed, empty entries dropped, and the "(no genres listed)" placeholder
// yields no tags. Tags keep their case.
func ParseGenres(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" || field == noGenres {
		return nil
	}
	parts := strings.Split(field, genreSeparator)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && p != noGenres {
			tags = append(tags, p)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
