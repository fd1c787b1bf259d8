// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Cinematch stopped with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires the tiers selected by cfg.Server.Role into a supervisor tree and
// blocks until ctx is canceled or the tree terminates.
func run(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("role", cfg.Server.Role).
		Str("environment", cfg.Server.Environment).
		Str("transport", cfg.Gateway.Transport).
		Bool("nats", cfg.NATS.Enabled).
		Msg("Starting Cinematch with supervisor tree")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS to restrict it")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	nc, err := InitNATS(cfg)
	if err != nil {
		return err
	}
	defer nc.Shutdown(context.Background())

	var slot *recommend.Slot
	if cfg.RunsEngine() {
		slot = recommend.NewSlot()
		if err := initEngine(cfg, tree, slot, nc); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
	}
	if cfg.RunsGateway() {
		if err := initGateway(cfg, tree, slot, nc); err != nil {
			return fmt.Errorf("gateway: %w", err)
		}
	}

	logging.Info().Msg("Starting supervisor tree...")
	err = tree.Serve(ctx)

	// Report any services that failed to stop within timeout
	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}
