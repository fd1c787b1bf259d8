// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/messaging"
)

// NATSComponents holds the NATS server (when embedded) and the client
// connection shared by the engine responder and the gateway transport.
type NATSComponents struct {
	server *messaging.EmbeddedServer
	conn   *natsgo.Conn

	mu     sync.Mutex
	closed bool
}

// InitNATS starts the embedded server when configured and connects to NATS.
// It returns nil, nil when this process does not need NATS.
func InitNATS(cfg *config.Config) (*NATSComponents, error) {
	if !cfg.NeedsNATS() {
		logging.Info().Msg("NATS disabled for this role")
		return nil, nil
	}

	c := &NATSComponents{}
	url := cfg.NATS.URL

	if cfg.NATS.EmbeddedServer {
		srv, err := messaging.NewEmbeddedServer(messaging.ServerConfig{
			Host: cfg.NATS.Host,
			Port: cfg.NATS.Port,
		})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		c.server = srv
		url = srv.ClientURL()
		logging.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	conn, err := messaging.Connect(url, "cinematch-"+cfg.Server.Role)
	if err != nil {
		c.Shutdown(context.Background())
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	c.conn = conn

	logging.Info().
		Str("url", url).
		Str("subject", cfg.NATS.Subject).
		Msg("Connected to NATS")
	return c, nil
}

// Conn returns the client connection, or nil for nil components.
func (c *NATSComponents) Conn() *natsgo.Conn {
	if c == nil {
		return nil
	}
	return c.conn
}

// Shutdown drains the connection and stops the embedded server. It runs
// after the supervisor tree has stopped the responder.
func (c *NATSComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	if c.conn != nil {
		if err := c.conn.Drain(); err != nil {
			logging.Warn().Err(err).Msg("NATS connection drain failed")
			c.conn.Close()
		}
		// Drain is asynchronous; wait for it to close the connection.
		deadline := time.Now().Add(5 * time.Second)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		for !c.conn.IsClosed() && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
	}

	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Embedded NATS server shutdown failed")
		}
	}
	logging.Info().Msg("NATS components stopped")
}
