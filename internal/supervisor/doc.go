// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor provides process supervision for Cinematch using suture v4.

Every long-running piece of a Cinematch process runs as a suture.Service under
a three-layer tree:

	RootSupervisor ("cinematch")
	├── IndexSupervisor ("index-layer")
	│   └── IndexBuildService (engine and standalone roles, one-shot)
	├── MessagingSupervisor ("messaging-layer")
	│   └── NATSResponderService (engine role with NATS enabled)
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService "engine-http"
	    └── HTTPServerService "gateway-http"

The index layer builds the similarity matrix exactly once. A successful build
publishes the engine and returns suture.ErrDoNotRestart so the service is
removed from the tree. A failed build returns an error wrapping
suture.ErrTerminateSupervisorTree: the whole tree stops and Serve returns the
build error, since a process that can never become ready should exit.

The HTTP servers and the NATS responder start immediately and answer
not-ready until the engine is published.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddIndexService(services.NewIndexBuildService(loader, slot))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Configuration

TreeConfig controls restart behavior. Zero values take suture's defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("Service did not stop")
	}
*/
package supervisor
