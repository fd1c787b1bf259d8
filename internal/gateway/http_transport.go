// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Error code the engine uses for an unknown movie.
const codeMovieNotFound = "MOVIE_NOT_FOUND"

// maxResponseBytes bounds how much of an engine response is read.
const maxResponseBytes = 4 << 20

// HTTPTransport queries a remote engine over its HTTP API.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport for the engine at baseURL
// (for example http://engine:5001). timeout bounds every request.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name implements Transport.
func (t *HTTPTransport) Name() string {
	return "http"
}

type recommendEnvelope struct {
	Status string                         `json:"status"`
	Data   *models.RecommendationResponse `json:"data"`
	Error  *models.APIError               `json:"error"`
}

// Recommend implements Transport.
func (t *HTTPTransport) Recommend(ctx context.Context, name string, k int) ([]recommend.Recommendation, error) {
	endpoint := "/recommend/" + url.PathEscape(name) + "?k=" + strconv.Itoa(k)

	resp, err := t.doRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("engine request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var env recommendEnvelope
		if err := decodeBody(resp.Body, &env); err != nil {
			return nil, err
		}
		return toRecommendations(env.Data)

	case http.StatusNotFound:
		var env recommendEnvelope
		if err := decodeBody(resp.Body, &env); err == nil && env.Error != nil && env.Error.Code == codeMovieNotFound {
			return nil, &recommend.ItemNotFoundError{Name: name}
		}
		return nil, fmt.Errorf("engine returned status %d", resp.StatusCode)

	case http.StatusBadRequest:
		reason := "invalid request"
		var env recommendEnvelope
		if err := decodeBody(resp.Body, &env); err == nil && env.Error != nil && env.Error.Message != "" {
			reason = env.Error.Message
		}
		return nil, &RejectedError{Transport: t.Name(), Reason: reason}

	case http.StatusServiceUnavailable:
		return nil, ErrEngineNotReady

	default:
		return nil, fmt.Errorf("engine returned status %d", resp.StatusCode)
	}
}

// Ready implements Transport by probing the engine's /health/ready.
func (t *HTTPTransport) Ready(ctx context.Context) error {
	resp, err := t.doRequest(ctx, "/health/ready")
	if err != nil {
		return fmt.Errorf("engine readiness probe: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusServiceUnavailable:
		return ErrEngineNotReady
	default:
		return fmt.Errorf("engine readiness probe returned status %d", resp.StatusCode)
	}
}

// doRequest performs a GET against the engine, forwarding the request ID.
func (t *HTTPTransport) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return t.httpClient.Do(req)
}

func decodeBody(body io.Reader, v interface{}) error {
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode engine response: %w", err)
	}
	return nil
}

func toRecommendations(data *models.RecommendationResponse) ([]recommend.Recommendation, error) {
	if data == nil {
		return nil, fmt.Errorf("engine response has no data")
	}
	if len(data.Recommendations) != len(data.SimilarityScores) {
		return nil, fmt.Errorf("engine response has %d titles but %d scores",
			len(data.Recommendations), len(data.SimilarityScores))
	}
	recs := make([]recommend.Recommendation, len(data.Recommendations))
	for i, title := range data.Recommendations {
		recs[i] = recommend.Recommendation{Name: title, Score: data.SimilarityScores[i]}
	}
	return recs, nil
}
