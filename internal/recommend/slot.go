// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "sync/atomic"

// Slot is the read-only handle through which request handlers reach the
// engine produced by the build phase. It starts empty (not ready) and is
// published exactly once.
type Slot struct {
	engine atomic.Pointer[Engine]
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Publish makes e visible to readers. Only the first call succeeds; a
// rebuilt index needs a new process.
func (s *Slot) Publish(e *Engine) error {
	if e == nil {
		return ErrNilEngine
	}
	if !s.engine.CompareAndSwap(nil, e) {
		return ErrAlreadyPublished
	}
	return nil
}

// Engine returns the published engine and true, or nil and false before
// the build phase has completed.
func (s *Slot) Engine() (*Engine, bool) {
	e := s.engine.Load()
	return e, e != nil
}

// Ready reports whether an engine has been published.
func (s *Slot) Ready() bool {
	return s.engine.Load() != nil
}
