// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package gateway

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cinematch/internal/recommend"
)

var (
	// ErrInvalidInput is returned for a blank movie name. No downstream call is made.
	ErrInvalidInput = errors.New("gateway: movie name must not be blank")

	// ErrServiceUnavailable matches every UnavailableError through errors.Is.
	ErrServiceUnavailable = errors.New("recommendation service unavailable")

	// ErrEngineNotReady is reported by transports while the engine is still
	// building its index.
	ErrEngineNotReady = errors.New("engine is not ready")
)

// UnavailableError reports that the engine tier could not produce an answer:
// it timed out, refused the connection, had no NATS responders, was behind
// an open circuit breaker, sent a malformed reply or was not ready.
type UnavailableError struct {
	Transport string
	Err       error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("recommendation service unavailable (%s): %v", e.Transport, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrServiceUnavailable) match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

// RejectedError is the engine refusing a request as invalid, for example a
// k above the engine's own limit. It matches ErrInvalidInput.
type RejectedError struct {
	Transport string
	Reason    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("engine rejected request (%s): %s", e.Transport, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *RejectedError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Outcome classifies the result of a forwarded request.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeInvalidInput Outcome = "invalid_input"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeUnavailable  Outcome = "unavailable"
)

// Classify maps an error returned by Forwarder.Handle to its Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case recommend.IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeUnavailable
	}
}

func unavailable(transport string, err error) error {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Transport: transport, Err: err}
}
