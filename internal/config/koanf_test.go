// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("LoadWithKoanf() = %+v, want defaults", cfg)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  role: engine
engine:
  port: 6001
  default_k: 10
catalog:
  source: duckdb
  table: movies
security:
  cors_origins:
    - https://a.example.com
    - https://b.example.com
`)
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Role != RoleEngine {
		t.Errorf("Server.Role = %q, want engine", cfg.Server.Role)
	}
	if cfg.Engine.Port != 6001 {
		t.Errorf("Engine.Port = %d, want 6001", cfg.Engine.Port)
	}
	if cfg.Engine.DefaultK != 10 {
		t.Errorf("Engine.DefaultK = %d, want 10", cfg.Engine.DefaultK)
	}
	if cfg.Engine.MaxK != 50 {
		t.Errorf("Engine.MaxK = %d, want default 50", cfg.Engine.MaxK)
	}
	if cfg.Catalog.Source != SourceDuckDB || cfg.Catalog.Table != "movies" {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadWithKoanf_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  role: gateway
gateway:
  transport: http
  engine_url: http://file-engine:5001
`)
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("ENGINE_URL", "http://env-engine:5001")
	t.Setenv("ENGINE_TIMEOUT", "2s")
	t.Setenv("GATEWAY_PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("BREAKER_FAILURE_RATIO", "0.25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Gateway.EngineURL != "http://env-engine:5001" {
		t.Errorf("Gateway.EngineURL = %q, want env value", cfg.Gateway.EngineURL)
	}
	if cfg.Gateway.EngineTimeout != 2*time.Second {
		t.Errorf("Gateway.EngineTimeout = %v, want 2s", cfg.Gateway.EngineTimeout)
	}
	if cfg.Gateway.Port != 8080 {
		t.Errorf("Gateway.Port = %d, want 8080", cfg.Gateway.Port)
	}
	if cfg.Breaker.FailureRatio != 0.25 {
		t.Errorf("Breaker.FailureRatio = %v, want 0.25", cfg.Breaker.FailureRatio)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadWithKoanf_ValidationFailure(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("GATEWAY_TRANSPORT", "carrier-pigeon")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf() = nil error for invalid transport")
	}
}

func TestLoadWithKoanf_BadFile(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, writeConfigFile(t, "server: [unclosed"))

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf() = nil error for malformed YAML")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"ROLE", "server.role"},
		{"ENGINE_PORT", "engine.port"},
		{"ENGINE_URL", "gateway.engine_url"},
		{"MOVIES_CSV", "catalog.path"},
		{"DUCKDB_PATH", "catalog.database"},
		{"NATS_EMBEDDED", "nats.embedded_server"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  role: standalone\n")
	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q for a missing file, want empty", got)
	}
}
