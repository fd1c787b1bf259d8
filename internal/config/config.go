// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package config loads Cinematch configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every setting has a default, so an empty environment produces a working
// standalone process reading ./data/movies.csv.
package config

import "time"

// Process roles.
const (
	RoleEngine     = "engine"
	RoleGateway    = "gateway"
	RoleStandalone = "standalone"
)

// Gateway transports.
const (
	TransportLocal = "local"
	TransportHTTP  = "http"
	TransportNATS  = "nats"
)

// Catalog sources.
const (
	SourceCSV    = "csv"
	SourceDuckDB = "duckdb"
)

// Config is the complete process configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Engine   EngineConfig   `koanf:"engine"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Gateway  GatewayConfig  `koanf:"gateway"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	NATS     NATSConfig     `koanf:"nats"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds process-level settings.
type ServerConfig struct {
	// Role selects which tiers run in this process: engine, gateway or standalone.
	Role string `koanf:"role"`

	// Environment is development or production.
	Environment string `koanf:"environment"`

	// ShutdownTimeout bounds graceful shutdown of the supervisor tree.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// EngineConfig holds the engine tier's HTTP listener and query limits.
type EngineConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// DefaultK is used when a request omits k.
	DefaultK int `koanf:"default_k"`

	// MaxK caps k on the engine API.
	MaxK int `koanf:"max_k"`

	// MaxSuggestions caps available_movies in not-found responses.
	MaxSuggestions int `koanf:"max_suggestions"`
}

// CatalogConfig selects where the catalog is loaded from.
type CatalogConfig struct {
	// Source is csv or duckdb.
	Source string `koanf:"source"`

	// Path is the CSV file (movieId,title,genres). With source=duckdb and no
	// Table, DuckDB reads this file through read_csv_auto.
	Path string `koanf:"path"`

	// Database is the DuckDB database file. Empty means in-memory.
	Database string `koanf:"database"`

	// Table is an optional DuckDB table holding movieId, title and genres.
	Table string `koanf:"table"`
}

// GatewayConfig holds the gateway tier's listener and engine client settings.
type GatewayConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// Transport is local, http or nats.
	Transport string `koanf:"transport"`

	// EngineURL is the engine base URL for the http transport.
	EngineURL string `koanf:"engine_url"`

	// EngineTimeout bounds every gateway to engine call.
	EngineTimeout time.Duration `koanf:"engine_timeout"`

	DefaultK int `koanf:"default_k"`
	MaxK     int `koanf:"max_k"`
}

// BreakerConfig configures the circuit breaker wrapped around remote transports.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the closed-state window after which counts reset.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout"`

	// MinRequests must be seen before FailureRatio is considered.
	MinRequests uint32 `koanf:"min_requests"`

	// FailureRatio in (0, 1] trips the breaker.
	FailureRatio float64 `koanf:"failure_ratio"`
}

// NATSConfig configures NATS request/reply between the tiers.
type NATSConfig struct {
	// Enabled starts the engine responder and allows transport=nats.
	Enabled bool `koanf:"enabled"`

	URL string `koanf:"url"`

	// EmbeddedServer runs a NATS server inside this process.
	EmbeddedServer bool   `koanf:"embedded_server"`
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`

	// Subject carries recommend requests; Subject + ".ready" carries readiness probes.
	Subject    string `koanf:"subject"`
	QueueGroup string `koanf:"queue_group"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to log events.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from, in increasing priority:
//  1. Built-in defaults
//  2. Config file (CONFIG_PATH, config.yaml or /etc/cinematch/config.yaml)
//  3. Environment variables
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// RunsEngine reports whether this process hosts the engine tier.
func (c *Config) RunsEngine() bool {
	return c.Server.Role == RoleEngine || c.Server.Role == RoleStandalone
}

// RunsGateway reports whether this process hosts the gateway tier.
func (c *Config) RunsGateway() bool {
	return c.Server.Role == RoleGateway || c.Server.Role == RoleStandalone
}

// NeedsNATS reports whether this process must connect to NATS.
func (c *Config) NeedsNATS() bool {
	if !c.NATS.Enabled {
		return false
	}
	return c.RunsEngine() || c.Gateway.Transport == TransportNATS
}
