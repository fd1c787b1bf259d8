// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"context"
	"strings"
	"testing"
)

func TestGenerateIDs(t *testing.T) {
	cid := GenerateCorrelationID()
	if len(cid) != 8 {
		t.Errorf("len(GenerateCorrelationID()) = %d, want 8", len(cid))
	}
	rid := GenerateRequestID()
	if len(rid) != 36 {
		t.Errorf("len(GenerateRequestID()) = %d, want 36", len(rid))
	}
	if GenerateRequestID() == rid {
		t.Error("GenerateRequestID() returned the same id twice")
	}
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("CorrelationIDFromContext(empty) = %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q", got)
	}

	ctx = ContextWithCorrelationID(ctx, "abc12345")
	ctx = ContextWithRequestID(ctx, "req-1")
	if got := CorrelationIDFromContext(ctx); got != "abc12345" {
		t.Errorf("CorrelationIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}

	fresh := ContextWithNewCorrelationID(context.Background())
	if len(CorrelationIDFromContext(fresh)) != 8 {
		t.Error("ContextWithNewCorrelationID() did not set an id")
	}
}

func TestCtx_AttachesIDs(t *testing.T) {
	buf := captureGlobal(t, "info")

	ctx := ContextWithRequestID(ContextWithCorrelationID(context.Background(), "corr0001"), "req-42")
	Ctx(ctx).Info().Msg("with ids")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["correlation_id"] != "corr0001" {
		t.Errorf("correlation_id = %v", m["correlation_id"])
	}
	if m["request_id"] != "req-42" {
		t.Errorf("request_id = %v", m["request_id"])
	}
}

func TestCtx_NoIDs(t *testing.T) {
	buf := captureGlobal(t, "info")

	Ctx(context.Background()).Info().Msg("bare")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if _, ok := m["request_id"]; ok {
		t.Error("request_id present without one in context")
	}
	if _, ok := m["correlation_id"]; ok {
		t.Error("correlation_id present without one in context")
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t, "info")

	logger := WithComponent("gateway")
	logger.Info().Msg("tagged")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["component"] != "gateway" {
		t.Errorf("component = %v, want gateway", m["component"])
	}
}
