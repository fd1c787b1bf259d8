// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestAPIResponse_SuccessShape(t *testing.T) {
	resp := APIResponse{
		Status: StatusSuccess,
		Data: RecommendationResponse{
			Movie:            "Toy Story",
			Recommendations:  []string{"A Bug's Life"},
			SimilarityScores: []float64{0.8514},
		},
		Metadata: Metadata{Timestamp: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"status":"success"`,
		`"movie":"Toy Story"`,
		`"recommendations":["A Bug's Life"]`,
		`"similarity_scores":[0.8514]`,
		`"timestamp":"2026-01-10T12:00:00Z"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, `"error"`) {
		t.Errorf("success response carries an error field: %s", out)
	}
	if strings.Contains(out, `"query_time_ms"`) {
		t.Errorf("zero query_time_ms not omitted: %s", out)
	}
}

func TestAPIResponse_ErrorShape(t *testing.T) {
	resp := APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    "MOVIE_NOT_FOUND",
			Message: "Movie 'Inception' not found in catalog",
			Details: map[string]interface{}{"movie": "Inception"},
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded struct {
		Status string      `json:"status"`
		Data   interface{} `json:"data"`
		Error  APIError    `json:"error"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Data != nil {
		t.Errorf("data = %v, want null", decoded.Data)
	}
	if decoded.Error.Code != "MOVIE_NOT_FOUND" || decoded.Error.Details["movie"] != "Inception" {
		t.Errorf("error = %+v", decoded.Error)
	}
}

func TestMovieDetails_FieldNames(t *testing.T) {
	data, err := json.Marshal(MovieDetails{MovieID: 1, Title: "Toy Story", Genres: []string{"Animation"}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"movieId":1,"title":"Toy Story","genres":["Animation"]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
