// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package messaging carries recommendation requests between the gateway and
// engine tiers over NATS request/reply.
//
// The engine side runs a Responder on a queue group so several engine
// processes can share one subject. The gateway side is a plain request
// client (see internal/gateway). EmbeddedServer runs a NATS server inside
// the process for standalone deployments and tests.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// RandomPort asks the embedded server to pick a free port.
const RandomPort = server.RANDOM_PORT

// ServerConfig configures an EmbeddedServer.
type ServerConfig struct {
	Host string
	Port int

	// ReadyTimeout bounds how long NewEmbeddedServer waits for the listener.
	// Zero means 30 seconds.
	ReadyTimeout time.Duration

	// Quiet disables the server's own log output.
	Quiet bool
}

// EmbeddedServer wraps an in-process NATS server (core NATS only, no
// JetStream) with lifecycle management.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer creates and starts an embedded NATS server.
func NewEmbeddedServer(cfg ServerConfig) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName: "cinematch",
		Host:       cfg.Host,
		Port:       cfg.Port,
		JetStream:  false,
		// The process installs its own signal handling.
		NoSigs:     true,
		NoLog:      cfg.Quiet,
		Debug:      false,
		Trace:      false,
		MaxPayload: 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	ns.ConfigureLogger()

	go ns.Start()

	timeout := cfg.ReadyTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if !ns.ReadyForConnections(timeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", timeout)
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown stops the server and waits for it to exit or for ctx to end.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.server.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.WaitForShutdown()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// IsRunning returns server health status.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}
