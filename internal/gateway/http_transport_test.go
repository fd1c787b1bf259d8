// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

const okBody = `{"status":"success","data":{"movie":"Toy Story","recommendations":["A Bug's Life","The Matrix"],"similarity_scores":[0.8514,0]},"metadata":{"timestamp":"2026-01-10T12:00:00Z"}}`

const notFoundBody = `{"status":"error","data":null,"error":{"code":"MOVIE_NOT_FOUND","message":"not found","details":{"movie":"Inception"}},"metadata":{"timestamp":"2026-01-10T12:00:00Z"}}`

func newEngineStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPTransport_Recommend(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      bool
		wantNotFound bool
		wantNotReady bool
		wantRejected bool
		wantLen      int
	}{
		{name: "success", status: http.StatusOK, body: okBody, wantLen: 2},
		{name: "movie not found", status: http.StatusNotFound, body: notFoundBody, wantErr: true, wantNotFound: true},
		{name: "404 without movie code", status: http.StatusNotFound, body: `{"status":"error","error":{"code":"NOT_FOUND"}}`, wantErr: true},
		{name: "engine not ready", status: http.StatusServiceUnavailable, body: `{}`, wantErr: true, wantNotReady: true},
		{name: "internal error", status: http.StatusInternalServerError, body: `{}`, wantErr: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{}`, wantErr: true, wantRejected: true},
		{name: "k above engine max", status: http.StatusBadRequest, body: `{"status":"error","error":{"code":"VALIDATION_ERROR","message":"k must be at most 3"}}`, wantErr: true, wantRejected: true},
		{name: "malformed json", status: http.StatusOK, body: `{"status":`, wantErr: true},
		{name: "missing data", status: http.StatusOK, body: `{"status":"success","data":null}`, wantErr: true},
		{name: "mismatched scores", status: http.StatusOK, body: `{"status":"success","data":{"movie":"x","recommendations":["a","b"],"similarity_scores":[1]}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newEngineStub(t, tt.status, tt.body)
			tr := NewHTTPTransport(srv.URL, time.Second)

			recs, err := tr.Recommend(context.Background(), "Toy Story", 2)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Recommend() error = %v, wantErr %v", err, tt.wantErr)
			}
			if recommend.IsNotFound(err) != tt.wantNotFound {
				t.Errorf("IsNotFound(%v) = %v, want %v", err, !tt.wantNotFound, tt.wantNotFound)
			}
			if errors.Is(err, ErrEngineNotReady) != tt.wantNotReady {
				t.Errorf("errors.Is(%v, ErrEngineNotReady) = %v, want %v", err, !tt.wantNotReady, tt.wantNotReady)
			}
			if errors.Is(err, ErrInvalidInput) != tt.wantRejected {
				t.Errorf("errors.Is(%v, ErrInvalidInput) = %v, want %v", err, !tt.wantRejected, tt.wantRejected)
			}
			if len(recs) != tt.wantLen {
				t.Errorf("got %d recommendations, want %d", len(recs), tt.wantLen)
			}
		})
	}
}

func TestHTTPTransport_RejectedReason(t *testing.T) {
	srv := newEngineStub(t, http.StatusBadRequest,
		`{"status":"error","error":{"code":"VALIDATION_ERROR","message":"k must be at most 3"}}`)

	_, err := NewHTTPTransport(srv.URL, time.Second).Recommend(context.Background(), "Toy Story", 10)

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Recommend() error = %v, want *RejectedError", err)
	}
	if rejected.Reason != "k must be at most 3" {
		t.Errorf("Reason = %q, want the engine's message", rejected.Reason)
	}
	if Classify(err) != OutcomeInvalidInput {
		t.Errorf("Classify() = %v, want %v", Classify(err), OutcomeInvalidInput)
	}
}

func TestHTTPTransport_ScoresKeepRankOrder(t *testing.T) {
	srv := newEngineStub(t, http.StatusOK, okBody)

	recs, err := NewHTTPTransport(srv.URL, time.Second).Recommend(context.Background(), "Toy Story", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	want := []recommend.Recommendation{{Name: "A Bug's Life", Score: 0.8514}, {Name: "The Matrix", Score: 0}}
	for i := range want {
		if recs[i] != want[i] {
			t.Errorf("recs[%d] = %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestHTTPTransport_RequestShape(t *testing.T) {
	var gotPath, gotQuery, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/", time.Second)
	ctx := logging.ContextWithRequestID(context.Background(), "req-123")

	if _, err := tr.Recommend(ctx, "AC/DC: Let There Be Rock", 4); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if gotPath != "/recommend/AC%2FDC:%20Let%20There%20Be%20Rock" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "k=4" {
		t.Errorf("query = %q, want k=4", gotQuery)
	}
	if gotRequestID != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", gotRequestID)
	}
}

func TestHTTPTransport_Ready(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantErr      bool
		wantNotReady bool
	}{
		{name: "ready", status: http.StatusOK},
		{name: "not ready", status: http.StatusServiceUnavailable, wantErr: true, wantNotReady: true},
		{name: "unexpected", status: http.StatusTeapot, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := NewHTTPTransport(srv.URL, time.Second).Ready(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Ready() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrEngineNotReady) != tt.wantNotReady {
				t.Errorf("Ready() error = %v, wantNotReady %v", err, tt.wantNotReady)
			}
			if gotPath != "/health/ready" {
				t.Errorf("probe path = %q, want /health/ready", gotPath)
			}
		})
	}
}

func TestHTTPTransport_ClosedPort(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewForwarder(NewHTTPTransport(url, time.Second), Config{DefaultK: 5, Timeout: time.Second})

	start := time.Now()
	_, err := f.Handle(context.Background(), "Toy Story", 5)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("Handle() error = %v, want ErrServiceUnavailable", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Handle() took %v against a closed port", elapsed)
	}
}

func TestHTTPTransport_HungEngine(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	// Unblock the handler before Close waits on it.
	defer srv.Close()
	defer close(release)

	const timeout = 100 * time.Millisecond
	f := NewForwarder(NewHTTPTransport(srv.URL, timeout), Config{DefaultK: 5, Timeout: timeout})

	start := time.Now()
	_, err := f.Handle(context.Background(), "Toy Story", 5)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("Handle() error = %v, want ErrServiceUnavailable", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Handle() took %v, want about %v", elapsed, timeout)
	}
	if !strings.Contains(err.Error(), "http") {
		t.Errorf("error %q does not name the transport", err)
	}
}
