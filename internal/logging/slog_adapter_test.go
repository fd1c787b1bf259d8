// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { Init(DefaultConfig()) })
	return slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))), &buf
}

func TestSlogHandler_Handle(t *testing.T) {
	logger, buf := newBufferedSlog(t)

	logger.Info("service started",
		"service", "index-build",
		"attempt", 2,
		"ratio", 0.5,
		"restart", true,
		"backoff", 2*time.Second,
	)

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["message"] != "service started" {
		t.Errorf("message = %v", m["message"])
	}
	if m["level"] != "info" {
		t.Errorf("level = %v", m["level"])
	}
	if m["service"] != "index-build" {
		t.Errorf("service = %v", m["service"])
	}
	if m["attempt"] != float64(2) {
		t.Errorf("attempt = %v", m["attempt"])
	}
	if m["restart"] != true {
		t.Errorf("restart = %v", m["restart"])
	}
}

func TestSlogHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelInfo + 2, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := slogToZerologLevel(tt.level); got != tt.want {
				t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Init(DefaultConfig()) })
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	h := NewSlogHandlerWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled on a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error disabled on a warn logger")
	}

	zerolog.SetGlobalLevel(zerolog.Disabled)
	if h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error enabled with logging globally disabled")
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	logger, buf := newBufferedSlog(t)

	logger.With("tree", "cinematch").
		WithGroup("svc").
		WithGroup("http").
		Info("listening", "addr", ":5001", slog.Group("tls", "enabled", false))

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["svc.http.tree"] != "cinematch" {
		t.Errorf("grouped handler attr missing: %v", m)
	}
	if m["svc.http.addr"] != ":5001" {
		t.Errorf("svc.http.addr = %v", m["svc.http.addr"])
	}
	if m["svc.http.tls.enabled"] != false {
		t.Errorf("svc.http.tls.enabled = %v", m["svc.http.tls.enabled"])
	}
}

func TestSlogHandler_EmptyGroup(t *testing.T) {
	h := NewSlogHandler()
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") returned a new handler")
	}
}

func TestNewSlogLogger(t *testing.T) {
	buf := captureGlobal(t, "info")

	NewSlogLogger().Warn("supervisor backoff", "service", "nats-responder")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["level"] != "warn" || m["service"] != "nats-responder" {
		t.Errorf("unexpected record: %v", m)
	}
}
