// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tomtom215/cinematch/internal/messaging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

const natsTestSubject = "cinematch.gateway.test"

func startNATS(t *testing.T) *nats.Conn {
	t.Helper()
	srv, err := messaging.NewEmbeddedServer(messaging.ServerConfig{
		Host:         "127.0.0.1",
		Port:         messaging.RandomPort,
		ReadyTimeout: 10 * time.Second,
		Quiet:        true,
	})
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	nc, err := messaging.Connect(srv.ClientURL(), "gateway-test")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(nc.Close)
	return nc
}

func startEngineResponder(t *testing.T, nc *nats.Conn, slot *recommend.Slot) {
	t.Helper()
	r := messaging.NewResponder(nc, slot, messaging.ResponderConfig{Subject: natsTestSubject, QueueGroup: "engines"})
	if err := r.Start(); err != nil {
		t.Fatalf("Responder.Start() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Stop() })
}

func TestNATSTransport_RoundTrip(t *testing.T) {
	nc := startNATS(t)
	slot := recommend.NewSlot()
	startEngineResponder(t, nc, slot)
	tr := NewNATSTransport(nc, natsTestSubject)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := tr.Ready(ctx); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("Ready() before publish error = %v, want ErrEngineNotReady", err)
	}
	if _, err := tr.Recommend(ctx, "Toy Story", 2); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("Recommend() before publish error = %v, want ErrEngineNotReady", err)
	}

	if err := slot.Publish(toyEngine(t)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if err := tr.Ready(ctx); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}
	recs, err := tr.Recommend(ctx, "Toy Story", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 || recs[0].Name != "A Bug's Life" {
		t.Errorf("Recommend() = %v", recs)
	}

	var nf *recommend.ItemNotFoundError
	if _, err := tr.Recommend(ctx, "Inception", 2); !errors.As(err, &nf) || nf.Name != "Inception" {
		t.Errorf("Recommend(Inception) error = %v, want ItemNotFoundError for Inception", err)
	}
}

func TestNATSTransport_NoResponders(t *testing.T) {
	nc := startNATS(t)
	f := NewForwarder(NewNATSTransport(nc, natsTestSubject), Config{DefaultK: 5, Timeout: 2 * time.Second})

	start := time.Now()
	_, err := f.Handle(context.Background(), "Toy Story", 5)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("Handle() error = %v, want ErrServiceUnavailable", err)
	}
	if !errors.Is(err, nats.ErrNoResponders) {
		t.Errorf("Handle() error = %v, want it to wrap nats.ErrNoResponders", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Handle() took %v with no responders", elapsed)
	}
}

func TestNATSTransport_SilentResponder(t *testing.T) {
	nc := startNATS(t)

	// Subscribed but never replies.
	sub, err := nc.Subscribe(natsTestSubject+".>", func(*nats.Msg) {})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()
	sub2, err := nc.Subscribe(natsTestSubject, func(*nats.Msg) {})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer func() { _ = sub2.Unsubscribe() }()
	if err := nc.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	const timeout = 100 * time.Millisecond
	f := NewForwarder(NewNATSTransport(nc, natsTestSubject), Config{DefaultK: 5, Timeout: timeout})

	start := time.Now()
	_, err = f.Handle(context.Background(), "Toy Story", 5)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("Handle() error = %v, want ErrServiceUnavailable", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Handle() took %v, want about %v", elapsed, timeout)
	}
}

func TestNATSTransport_KAboveEngineMax(t *testing.T) {
	nc := startNATS(t)
	slot := recommend.NewSlot()
	if err := slot.Publish(toyEngine(t)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	r := messaging.NewResponder(nc, slot, messaging.ResponderConfig{Subject: natsTestSubject, QueueGroup: "engines", MaxK: 2})
	if err := r.Start(); err != nil {
		t.Fatalf("Responder.Start() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Stop() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewNATSTransport(nc, natsTestSubject).Recommend(ctx, "Toy Story", 3)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Recommend() error = %v, want ErrInvalidInput", err)
	}
	var rejected *RejectedError
	if !errors.As(err, &rejected) || rejected.Transport != "nats" {
		t.Errorf("Recommend() error = %v, want *RejectedError from nats", err)
	}
}

func TestNATSTransport_MalformedReply(t *testing.T) {
	nc := startNATS(t)

	sub, err := nc.Subscribe(natsTestSubject, func(m *nats.Msg) { _ = m.Respond([]byte("not json")) })
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()
	if err := nc.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = NewNATSTransport(nc, natsTestSubject).Recommend(ctx, "Toy Story", 5)
	if err == nil || recommend.IsNotFound(err) {
		t.Errorf("Recommend() error = %v, want a decode failure", err)
	}
}
