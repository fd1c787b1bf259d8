// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package gateway

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/tomtom215/cinematch/internal/messaging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// NATSTransport queries engines through NATS request/reply. The engines'
// queue group spreads requests across them.
type NATSTransport struct {
	nc      *nats.Conn
	subject string
}

// NewNATSTransport creates a transport publishing on subject.
func NewNATSTransport(nc *nats.Conn, subject string) *NATSTransport {
	return &NATSTransport{nc: nc, subject: subject}
}

// Name implements Transport.
func (t *NATSTransport) Name() string {
	return "nats"
}

// Recommend implements Transport.
func (t *NATSTransport) Recommend(ctx context.Context, name string, k int) ([]recommend.Recommendation, error) {
	payload, err := json.Marshal(messaging.Request{Name: name, K: k})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	rep, err := t.request(ctx, t.subject, payload)
	if err != nil {
		return nil, err
	}

	switch rep.Status {
	case messaging.StatusOK:
		if rep.Recommendations == nil {
			return []recommend.Recommendation{}, nil
		}
		return rep.Recommendations, nil
	case messaging.StatusNotFound:
		return nil, &recommend.ItemNotFoundError{Name: name}
	case messaging.StatusNotReady:
		return nil, ErrEngineNotReady
	case messaging.StatusInvalid:
		return nil, &RejectedError{Transport: t.Name(), Reason: rep.Error}
	default:
		return nil, fmt.Errorf("engine replied %q: %s", rep.Status, rep.Error)
	}
}

// Ready implements Transport.
func (t *NATSTransport) Ready(ctx context.Context) error {
	rep, err := t.request(ctx, messaging.ReadySubject(t.subject), nil)
	if err != nil {
		return err
	}
	switch rep.Status {
	case messaging.StatusReady:
		return nil
	case messaging.StatusNotReady:
		return ErrEngineNotReady
	default:
		return fmt.Errorf("unexpected readiness reply %q", rep.Status)
	}
}

func (t *NATSTransport) request(ctx context.Context, subject string, payload []byte) (*messaging.Reply, error) {
	msg, err := t.nc.RequestWithContext(ctx, subject, payload)
	if err != nil {
		return nil, fmt.Errorf("nats request %s: %w", subject, err)
	}
	var rep messaging.Reply
	if err := json.Unmarshal(msg.Data, &rep); err != nil {
		return nil, fmt.Errorf("decode engine reply: %w", err)
	}
	return &rep, nil
}
