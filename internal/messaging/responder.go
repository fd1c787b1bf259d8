// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package messaging

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// ResponderConfig configures a Responder.
type ResponderConfig struct {
	Subject    string
	QueueGroup string

	// MaxK rejects larger requests as invalid. Zero means no limit.
	MaxK int
}

// Responder answers recommend and readiness requests from the engine
// published in a recommend.Slot. Until the slot is published every request
// gets a not_ready reply.
type Responder struct {
	nc   *nats.Conn
	slot *recommend.Slot
	cfg  ResponderConfig
	log  zerolog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewResponder creates a responder. Call Start to subscribe.
func NewResponder(nc *nats.Conn, slot *recommend.Slot, cfg ResponderConfig) *Responder {
	return &Responder{
		nc:   nc,
		slot: slot,
		cfg:  cfg,
		log:  logging.WithComponent("nats-responder"),
	}
}

// Start subscribes to the recommend and readiness subjects.
func (r *Responder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.subs) > 0 {
		return errors.New("responder already started")
	}

	recSub, err := r.nc.QueueSubscribe(r.cfg.Subject, r.cfg.QueueGroup, r.handleRecommend)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", r.cfg.Subject, err)
	}

	readySubject := ReadySubject(r.cfg.Subject)
	readySub, err := r.nc.QueueSubscribe(readySubject, r.cfg.QueueGroup, r.handleReady)
	if err != nil {
		_ = recSub.Unsubscribe()
		return fmt.Errorf("subscribe %s: %w", readySubject, err)
	}

	// Make sure the server knows about both interests before callers rely on them.
	if err := r.nc.Flush(); err != nil {
		_ = recSub.Unsubscribe()
		_ = readySub.Unsubscribe()
		return fmt.Errorf("flush subscriptions: %w", err)
	}

	r.subs = []*nats.Subscription{recSub, readySub}
	r.log.Info().
		Str("subject", r.cfg.Subject).
		Str("queue_group", r.cfg.QueueGroup).
		Msg("NATS responder started")
	return nil
}

// Stop drains both subscriptions so in-flight requests are answered.
func (r *Responder) Stop() error {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			errs = append(errs, fmt.Errorf("drain %s: %w", sub.Subject, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Responder) handleRecommend(msg *nats.Msg) {
	var req Request
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		r.reply(msg, "recommend", Reply{Status: StatusInvalid, Error: "malformed request"})
		return
	}

	engine, ok := r.slot.Engine()
	if !ok {
		metrics.RecordRecommendQuery("not_ready", 0)
		r.reply(msg, "recommend", Reply{Status: StatusNotReady, Movie: req.Name, Error: "engine is not ready"})
		return
	}

	if r.cfg.MaxK > 0 && req.K > r.cfg.MaxK {
		metrics.RecordRecommendQuery("invalid_k", 0)
		r.reply(msg, "recommend", Reply{
			Status: StatusInvalid,
			Movie:  req.Name,
			Error:  fmt.Sprintf("k must be at most %d", r.cfg.MaxK),
		})
		return
	}

	start := time.Now()
	recs, err := engine.Recommend(req.Name, req.K)
	switch {
	case err == nil:
		metrics.RecordRecommendQuery("ok", time.Since(start))
		r.reply(msg, "recommend", Reply{Status: StatusOK, Movie: req.Name, Recommendations: recs})
	case recommend.IsNotFound(err):
		metrics.RecordRecommendQuery("not_found", 0)
		r.reply(msg, "recommend", Reply{Status: StatusNotFound, Movie: req.Name, Error: err.Error()})
	default:
		metrics.RecordRecommendQuery("invalid_k", 0)
		r.reply(msg, "recommend", Reply{Status: StatusInvalid, Movie: req.Name, Error: err.Error()})
	}
}

func (r *Responder) handleReady(msg *nats.Msg) {
	if r.slot.Ready() {
		r.reply(msg, "ready", Reply{Status: StatusReady})
		return
	}
	r.reply(msg, "ready", Reply{Status: StatusNotReady})
}

func (r *Responder) reply(msg *nats.Msg, kind string, rep Reply) {
	metrics.RecordNATSResponse(kind, rep.Status)

	if msg.Reply == "" {
		// Published without an inbox; nobody is waiting.
		return
	}
	data, err := json.Marshal(rep)
	if err != nil {
		r.log.Error().Err(err).Str("kind", kind).Msg("Failed to encode reply")
		return
	}
	if err := msg.Respond(data); err != nil {
		r.log.Warn().Err(err).Str("kind", kind).Msg("Failed to send reply")
	}
}
