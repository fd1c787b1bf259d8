// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package main is the entry point for the Cinematch server.

Cinematch recommends movies by tag similarity. At startup the engine tier
loads the catalog, builds a TF-IDF vector per movie over its genres and
precomputes the cosine similarity of every pair. Queries then pick the top
k rows of one similarity row by name. A gateway tier validates client
requests and forwards them to the engine.

# Roles

One binary runs either tier or both, selected by ROLE:

	ROLE=engine      # index build + engine HTTP API (+ NATS responder)
	ROLE=gateway     # gateway HTTP API forwarding over http or nats
	ROLE=standalone  # both tiers in one process (default)

Every role runs under a Suture v4 supervisor tree:

	RootSupervisor ("cinematch")
	├── IndexSupervisor ("index-layer")
	│   └── IndexBuildService
	├── MessagingSupervisor ("messaging-layer")
	│   └── NATSResponderService (NATS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    ├── engine-http (ENGINE_PORT, default 5001)
	    └── gateway-http (GATEWAY_PORT, default 5000)

# Configuration

Configuration is loaded via Koanf v2 (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	MOVIES_CSV=data/movies.csv     # catalog (movieId,title,genres)
	CATALOG_SOURCE=csv             # csv or duckdb
	GATEWAY_TRANSPORT=local        # local, http or nats
	ENGINE_URL=http://127.0.0.1:5001
	ENGINE_TIMEOUT=5s              # bound on every gateway to engine call
	NATS_ENABLED=false
	NATS_EMBEDDED=false            # run a NATS server in-process
	LOG_LEVEL=info
	LOG_FORMAT=json

# Example Usage

Two processes over HTTP:

	ROLE=engine MOVIES_CSV=movies.csv ./cinematch
	ROLE=gateway GATEWAY_TRANSPORT=http ENGINE_URL=http://engine:5001 ./cinematch

One process, tiers talking over an embedded NATS server:

	NATS_ENABLED=true NATS_EMBEDDED=true GATEWAY_TRANSPORT=nats ./cinematch

# Signal Handling

SIGINT and SIGTERM cancel the tree: HTTP servers stop accepting connections
and drain in-flight requests, the responder drains its subscriptions, then
the NATS connection and embedded server close.

A failed index build (missing file, empty catalog) terminates the tree and
the process exits with status 1.
*/
package main
