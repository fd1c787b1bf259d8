// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/gateway"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// errLocalNeedsEngine rejects transport=local in a process without an engine.
var errLocalNeedsEngine = errors.New("gateway transport local requires role standalone")

// initGateway adds the gateway HTTP server to the tree.
func initGateway(cfg *config.Config, tree *supervisor.SupervisorTree, slot *recommend.Slot, nc *NATSComponents) error {
	transport, err := newTransport(cfg, slot, nc)
	if err != nil {
		return err
	}

	forwarder := gateway.NewForwarder(transport, gateway.Config{
		DefaultK: cfg.Gateway.DefaultK,
		Timeout:  cfg.Gateway.EngineTimeout,
	})
	handler := api.NewGatewayHandler(forwarder, cfg.Gateway)
	router := api.NewGatewayRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
	server := newHTTPServer(cfg.Gateway.Host, cfg.Gateway.Port, cfg.Gateway.Timeout, router)
	tree.AddAPIService(services.NewHTTPServerService("gateway-http", server, cfg.Server.ShutdownTimeout))

	logging.Info().
		Str("transport", transport.Name()).
		Dur("engine_timeout", cfg.Gateway.EngineTimeout).
		Bool("circuit_breaker", isBreaker(transport)).
		Msg("Gateway configured")
	return nil
}

// newTransport selects the gateway to engine transport. Remote transports are
// wrapped in a circuit breaker when enabled; the in-process transport never is.
func newTransport(cfg *config.Config, slot *recommend.Slot, nc *NATSComponents) (gateway.Transport, error) {
	var t gateway.Transport
	switch cfg.Gateway.Transport {
	case config.TransportLocal:
		if !cfg.RunsEngine() || slot == nil {
			return nil, errLocalNeedsEngine
		}
		return gateway.NewLocalTransport(slot), nil
	case config.TransportHTTP:
		t = gateway.NewHTTPTransport(cfg.Gateway.EngineURL, cfg.Gateway.EngineTimeout)
	case config.TransportNATS:
		conn := nc.Conn()
		if conn == nil {
			return nil, errors.New("gateway transport nats requires nats.enabled")
		}
		t = gateway.NewNATSTransport(conn, cfg.NATS.Subject)
	default:
		return nil, fmt.Errorf("unknown gateway transport %q", cfg.Gateway.Transport)
	}

	if cfg.Breaker.Enabled {
		t = gateway.NewBreakerTransport(t, cfg.Breaker)
	}
	return t, nil
}

func isBreaker(t gateway.Transport) bool {
	_, ok := t.(*gateway.BreakerTransport)
	return ok
}
