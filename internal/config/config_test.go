// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Role != RoleStandalone {
		t.Errorf("Server.Role = %q, want standalone", cfg.Server.Role)
	}
	if cfg.Engine.Port != 5001 {
		t.Errorf("Engine.Port = %d, want 5001", cfg.Engine.Port)
	}
	if cfg.Gateway.Port != 5000 {
		t.Errorf("Gateway.Port = %d, want 5000", cfg.Gateway.Port)
	}
	if cfg.Engine.DefaultK != 5 || cfg.Gateway.DefaultK != 5 {
		t.Errorf("DefaultK = %d/%d, want 5/5", cfg.Engine.DefaultK, cfg.Gateway.DefaultK)
	}
	if cfg.Engine.MaxSuggestions != 20 {
		t.Errorf("Engine.MaxSuggestions = %d, want 20", cfg.Engine.MaxSuggestions)
	}
	if cfg.Gateway.EngineTimeout != 5*time.Second {
		t.Errorf("Gateway.EngineTimeout = %v, want 5s", cfg.Gateway.EngineTimeout)
	}
	if cfg.Gateway.Transport != TransportLocal {
		t.Errorf("Gateway.Transport = %q, want local", cfg.Gateway.Transport)
	}
	if cfg.Gateway.EngineURL != "http://127.0.0.1:5001" {
		t.Errorf("Gateway.EngineURL = %q", cfg.Gateway.EngineURL)
	}
	if cfg.Catalog.Source != SourceCSV {
		t.Errorf("Catalog.Source = %q, want csv", cfg.Catalog.Source)
	}
	if cfg.NATS.Subject != "cinematch.recommend" {
		t.Errorf("NATS.Subject = %q", cfg.NATS.Subject)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown role",
			mutate:  func(c *Config) { c.Server.Role = "worker" },
			wantErr: "ROLE",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "SHUTDOWN_TIMEOUT",
		},
		{
			name:    "engine port out of range",
			mutate:  func(c *Config) { c.Engine.Port = 70000 },
			wantErr: "ENGINE_PORT",
		},
		{
			name:    "engine default k above max",
			mutate:  func(c *Config) { c.Engine.DefaultK = 60 },
			wantErr: "ENGINE_DEFAULT_K",
		},
		{
			name:    "engine max k zero",
			mutate:  func(c *Config) { c.Engine.MaxK = 0 },
			wantErr: "ENGINE_MAX_K",
		},
		{
			name:    "negative suggestions",
			mutate:  func(c *Config) { c.Engine.MaxSuggestions = -1 },
			wantErr: "ENGINE_MAX_SUGGESTIONS",
		},
		{
			name:    "standalone gateway max k above engine max k",
			mutate:  func(c *Config) { c.Gateway.MaxK = 60 },
			wantErr: "GATEWAY_MAX_K (60) must not exceed ENGINE_MAX_K (50)",
		},
		{
			name:    "unknown catalog source",
			mutate:  func(c *Config) { c.Catalog.Source = "parquet" },
			wantErr: "CATALOG_SOURCE",
		},
		{
			name:    "csv without path",
			mutate:  func(c *Config) { c.Catalog.Path = "" },
			wantErr: "CATALOG_PATH",
		},
		{
			name: "duckdb table injection",
			mutate: func(c *Config) {
				c.Catalog.Source = SourceDuckDB
				c.Catalog.Table = "movies; DROP TABLE movies"
			},
			wantErr: "CATALOG_TABLE",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Gateway.Transport = "grpc" },
			wantErr: "GATEWAY_TRANSPORT",
		},
		{
			name: "local transport outside standalone",
			mutate: func(c *Config) {
				c.Server.Role = RoleGateway
			},
			wantErr: "requires ROLE=standalone",
		},
		{
			name: "http transport with path in url",
			mutate: func(c *Config) {
				c.Gateway.Transport = TransportHTTP
				c.Gateway.EngineURL = "http://engine:5001/api"
			},
			wantErr: "ENGINE_URL",
		},
		{
			name: "http transport with bad scheme",
			mutate: func(c *Config) {
				c.Gateway.Transport = TransportHTTP
				c.Gateway.EngineURL = "ftp://engine"
			},
			wantErr: "ENGINE_URL",
		},
		{
			name:    "nats transport without nats",
			mutate:  func(c *Config) { c.Gateway.Transport = TransportNATS },
			wantErr: "NATS_ENABLED",
		},
		{
			name:    "engine timeout too long",
			mutate:  func(c *Config) { c.Gateway.EngineTimeout = 2 * time.Minute },
			wantErr: "ENGINE_TIMEOUT",
		},
		{
			name:    "breaker ratio out of range",
			mutate:  func(c *Config) { c.Breaker.FailureRatio = 1.5 },
			wantErr: "BREAKER_FAILURE_RATIO",
		},
		{
			name:    "breaker max requests zero",
			mutate:  func(c *Config) { c.Breaker.MaxRequests = 0 },
			wantErr: "BREAKER_MAX_REQUESTS",
		},
		{
			name: "nats bad url",
			mutate: func(c *Config) {
				c.NATS.Enabled = true
				c.NATS.URL = "http://nats:4222"
			},
			wantErr: "NATS_URL",
		},
		{
			name: "nats wildcard subject",
			mutate: func(c *Config) {
				c.NATS.Enabled = true
				c.NATS.Subject = "cinematch.*"
			},
			wantErr: "NATS_SUBJECT",
		},
		{
			name: "nats empty subject token",
			mutate: func(c *Config) {
				c.NATS.Enabled = true
				c.NATS.Subject = "cinematch..recommend"
			},
			wantErr: "NATS_SUBJECT",
		},
		{
			name: "wildcard cors in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
			},
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "rate limit too high",
			mutate:  func(c *Config) { c.Security.RateLimitReqs = 1000000 },
			wantErr: "RATE_LIMIT_REQUESTS",
		},
		{
			name:    "rate limit window too short",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = time.Millisecond },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ValidVariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "engine role ignores gateway settings",
			mutate: func(c *Config) {
				c.Server.Role = RoleEngine
				c.Gateway.Transport = "bogus"
			},
		},
		{
			name: "gateway role over http ignores catalog",
			mutate: func(c *Config) {
				c.Server.Role = RoleGateway
				c.Gateway.Transport = TransportHTTP
				c.Catalog.Source = "bogus"
			},
		},
		{
			name: "gateway role may allow a larger k than its own engine section",
			mutate: func(c *Config) {
				c.Server.Role = RoleGateway
				c.Gateway.Transport = TransportHTTP
				c.Gateway.MaxK = 100
			},
		},
		{
			name: "gateway over nats",
			mutate: func(c *Config) {
				c.Server.Role = RoleGateway
				c.Gateway.Transport = TransportNATS
				c.NATS.Enabled = true
			},
		},
		{
			name: "duckdb table",
			mutate: func(c *Config) {
				c.Catalog.Source = SourceDuckDB
				c.Catalog.Table = "main.movies"
			},
		},
		{
			name: "production with explicit origins",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.CORSOrigins = []string{"https://movies.example.com"}
			},
		},
		{
			name: "rate limit disabled skips bounds",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
		{
			name:   "breaker disabled skips thresholds",
			mutate: func(c *Config) { c.Breaker = BreakerConfig{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestRoleHelpers(t *testing.T) {
	tests := []struct {
		role        string
		transport   string
		natsEnabled bool
		engine      bool
		gateway     bool
		needsNATS   bool
	}{
		{RoleEngine, TransportLocal, false, true, false, false},
		{RoleEngine, TransportLocal, true, true, false, true},
		{RoleGateway, TransportHTTP, true, false, true, false},
		{RoleGateway, TransportNATS, true, false, true, true},
		{RoleStandalone, TransportLocal, false, true, true, false},
		{RoleStandalone, TransportNATS, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.transport, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Server.Role = tt.role
			cfg.Gateway.Transport = tt.transport
			cfg.NATS.Enabled = tt.natsEnabled

			if got := cfg.RunsEngine(); got != tt.engine {
				t.Errorf("RunsEngine() = %v, want %v", got, tt.engine)
			}
			if got := cfg.RunsGateway(); got != tt.gateway {
				t.Errorf("RunsGateway() = %v, want %v", got, tt.gateway)
			}
			if got := cfg.NeedsNATS(); got != tt.needsNATS {
				t.Errorf("NeedsNATS() = %v, want %v", got, tt.needsNATS)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("default environment should be development")
	}
	cfg.Server.Environment = "PROD"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("PROD should be production")
	}
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("ShouldWarnAboutCORS() = false with wildcard origins")
	}
}
