// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services provides suture.Service wrappers for Cinematch components.

Each wrapper adapts a component's lifecycle (one-shot build, Start/Stop,
ListenAndServe) to suture's context-aware Serve:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

IndexBuildService:
  - Loads the catalog and builds the similarity index once
  - Publishes the engine into a recommend.Slot
  - Returns suture.ErrDoNotRestart on success
  - Terminates the tree on failure

NATSResponderService:
  - Wraps messaging.Responder (Start/Stop)
  - Drains subscriptions on shutdown

HTTPServerService:
  - Wraps *http.Server with graceful shutdown
  - Named per tier ("engine-http", "gateway-http")

Interfaces are declared here rather than imported so the wrappers can be
tested with hand-written fakes.
*/
package services
