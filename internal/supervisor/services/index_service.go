// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// CatalogLoader reads the movie catalog. Satisfied by catalog.Loader.
type CatalogLoader interface {
	Load(ctx context.Context) ([]recommend.Item, error)
}

// IndexBuildService loads the catalog, builds the similarity index and
// publishes the engine into a recommend.Slot. It runs exactly once:
//   - success returns suture.ErrDoNotRestart
//   - failure returns an error wrapping suture.ErrTerminateSupervisorTree,
//     stopping the process, since an engine without an index never becomes
//     ready
type IndexBuildService struct {
	loader CatalogLoader
	slot   *recommend.Slot
	logger zerolog.Logger
	name   string
}

// NewIndexBuildService creates the one-shot index build.
func NewIndexBuildService(loader CatalogLoader, slot *recommend.Slot) *IndexBuildService {
	return &IndexBuildService{
		loader: loader,
		slot:   slot,
		logger: logging.WithComponent("index-build"),
		name:   "index-build",
	}
}

// Serve implements suture.Service.
func (s *IndexBuildService) Serve(ctx context.Context) error {
	if s.slot.Ready() {
		return suture.ErrDoNotRestart
	}

	start := time.Now()
	s.logger.Info().Msg("Loading catalog")

	items, err := s.loader.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.fail(fmt.Errorf("load catalog: %w", err))
	}

	idx, err := recommend.BuildIndex(items)
	if err != nil {
		return s.fail(fmt.Errorf("build index: %w", err))
	}
	if err := s.slot.Publish(recommend.NewEngine(idx)); err != nil {
		return s.fail(fmt.Errorf("publish engine: %w", err))
	}

	vocabulary := len(idx.Vocabulary())
	metrics.RecordIndexBuild(idx.BuildDuration(), idx.Len(), vocabulary)
	metrics.SetIndexReady(true)

	s.logger.Info().
		Int("movies", idx.Len()).
		Int("vocabulary", vocabulary).
		Dur("build_duration", idx.BuildDuration()).
		Dur("total_duration", time.Since(start)).
		Msg("Similarity index published")

	return suture.ErrDoNotRestart
}

func (s *IndexBuildService) fail(err error) error {
	metrics.SetIndexReady(false)
	s.logger.Error().Err(err).Msg("Index build failed, terminating")
	return fmt.Errorf("%w: %w", suture.ErrTerminateSupervisorTree, err)
}

// String implements fmt.Stringer for logging.
func (s *IndexBuildService) String() string {
	return s.name
}
