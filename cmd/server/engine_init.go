// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/messaging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// initEngine adds the engine tier to the tree: the one-shot index build, the
// engine HTTP API and, with NATS enabled, the NATS responder. All of them
// share slot.
func initEngine(cfg *config.Config, tree *supervisor.SupervisorTree, slot *recommend.Slot, nc *NATSComponents) error {
	loader, err := catalog.New(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("catalog loader: %w", err)
	}
	tree.AddIndexService(services.NewIndexBuildService(loader, slot))
	logging.Info().
		Str("source", cfg.Catalog.Source).
		Str("path", cfg.Catalog.Path).
		Msg("Index build service added")

	handler := api.NewEngineHandler(slot, cfg.Engine)
	router := api.NewEngineRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
	server := newHTTPServer(cfg.Engine.Host, cfg.Engine.Port, cfg.Engine.Timeout, router)
	tree.AddAPIService(services.NewHTTPServerService("engine-http", server, cfg.Server.ShutdownTimeout))

	if conn := nc.Conn(); conn != nil {
		responder := messaging.NewResponder(conn, slot, messaging.ResponderConfig{
			Subject:    cfg.NATS.Subject,
			QueueGroup: cfg.NATS.QueueGroup,
			MaxK:       cfg.Engine.MaxK,
		})
		tree.AddMessagingService(services.NewNATSResponderService(responder))
		logging.Info().Str("subject", cfg.NATS.Subject).Msg("NATS responder service added")
	}
	return nil
}

// newHTTPServer builds an http.Server with read, write and idle timeouts.
func newHTTPServer(host string, port int, timeout time.Duration, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       60 * time.Second,
	}
}
