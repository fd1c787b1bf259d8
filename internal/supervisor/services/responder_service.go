// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/cinematch/internal/logging"
)

// ResponderRunner matches the messaging.Responder lifecycle.
//
// Satisfied by *messaging.Responder:
//   - Start() error - subscribes to the recommend and ready subjects
//   - Stop() error - drains both subscriptions
type ResponderRunner interface {
	Start() error
	Stop() error
}

// NATSResponderService wraps the engine's NATS responder as a supervised
// service. A failed Start is returned so suture restarts it with backoff.
type NATSResponderService struct {
	responder ResponderRunner
	name      string
}

// NewNATSResponderService creates a new NATS responder service wrapper.
func NewNATSResponderService(responder ResponderRunner) *NATSResponderService {
	return &NATSResponderService{
		responder: responder,
		name:      "nats-responder",
	}
}

// Serve implements suture.Service.
func (s *NATSResponderService) Serve(ctx context.Context) error {
	if err := s.responder.Start(); err != nil {
		return fmt.Errorf("NATS responder start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.responder.Stop(); err != nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("NATS responder did not drain cleanly")
	}
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *NATSResponderService) String() string {
	return s.name
}
