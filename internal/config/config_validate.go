// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if c.RunsEngine() {
		if err := c.validateEngine(); err != nil {
			return err
		}
		if err := c.validateCatalog(); err != nil {
			return err
		}
	}

	if c.RunsGateway() {
		if err := c.validateGateway(); err != nil {
			return err
		}
		if err := c.validateBreaker(); err != nil {
			return err
		}
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

var validRoles = map[string]bool{
	RoleEngine:     true,
	RoleGateway:    true,
	RoleStandalone: true,
}

// validateServer validates process-level settings
func (c *Config) validateServer() error {
	if !validRoles[c.Server.Role] {
		return fmt.Errorf("ROLE must be one of: engine, gateway, standalone")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateEngine validates the engine listener and query limits
func (c *Config) validateEngine() error {
	if err := validatePort(c.Engine.Port, "ENGINE_PORT"); err != nil {
		return err
	}
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("ENGINE_REQUEST_TIMEOUT must be positive")
	}
	if err := validateK(c.Engine.DefaultK, c.Engine.MaxK, "ENGINE"); err != nil {
		return err
	}
	if c.Engine.MaxSuggestions < 0 {
		return fmt.Errorf("ENGINE_MAX_SUGGESTIONS must not be negative")
	}
	return nil
}

// tableNamePattern matches a plain or schema-qualified SQL identifier.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// validateCatalog validates the catalog source
func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case SourceCSV:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required when CATALOG_SOURCE=csv")
		}
	case SourceDuckDB:
		if c.Catalog.Table == "" && c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH or CATALOG_TABLE is required when CATALOG_SOURCE=duckdb")
		}
		if c.Catalog.Table != "" && !tableNamePattern.MatchString(c.Catalog.Table) {
			return fmt.Errorf("CATALOG_TABLE %q is not a valid table name", c.Catalog.Table)
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of: csv, duckdb")
	}
	return nil
}

var validTransports = map[string]bool{
	TransportLocal: true,
	TransportHTTP:  true,
	TransportNATS:  true,
}

// validateGateway validates the gateway listener and its engine client
func (c *Config) validateGateway() error {
	if err := validatePort(c.Gateway.Port, "GATEWAY_PORT"); err != nil {
		return err
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}
	if !validTransports[c.Gateway.Transport] {
		return fmt.Errorf("GATEWAY_TRANSPORT must be one of: local, http, nats")
	}
	if c.Gateway.Transport == TransportLocal && c.Server.Role != RoleStandalone {
		return fmt.Errorf("GATEWAY_TRANSPORT=local requires ROLE=standalone")
	}
	if c.Gateway.Transport == TransportHTTP {
		if err := validateHTTPURL(c.Gateway.EngineURL, "ENGINE_URL"); err != nil {
			return err
		}
	}
	if c.Gateway.Transport == TransportNATS && !c.NATS.Enabled {
		return fmt.Errorf("GATEWAY_TRANSPORT=nats requires NATS_ENABLED=true")
	}
	if c.Gateway.EngineTimeout <= 0 {
		return fmt.Errorf("ENGINE_TIMEOUT must be positive")
	}
	if c.Gateway.EngineTimeout > time.Minute {
		return fmt.Errorf("ENGINE_TIMEOUT must not exceed %v", time.Minute)
	}
	if err := validateK(c.Gateway.DefaultK, c.Gateway.MaxK, "GATEWAY"); err != nil {
		return err
	}
	// In-process engine limits are known here; a remote engine's are not.
	if c.RunsEngine() && c.Gateway.MaxK > c.Engine.MaxK {
		return fmt.Errorf("GATEWAY_MAX_K (%d) must not exceed ENGINE_MAX_K (%d)", c.Gateway.MaxK, c.Engine.MaxK)
	}
	return nil
}

// validateBreaker validates circuit breaker thresholds (only if enabled)
func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.MaxRequests == 0 {
		return fmt.Errorf("BREAKER_MAX_REQUESTS must be at least 1")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	if c.Breaker.Interval < 0 {
		return fmt.Errorf("BREAKER_INTERVAL must not be negative")
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	return nil
}

// validateNATS validates NATS settings (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.EmbeddedServer {
		if err := validatePort(c.NATS.Port, "NATS_PORT"); err != nil {
			return err
		}
	}
	if err := validateSubject(c.NATS.Subject); err != nil {
		return fmt.Errorf("NATS_SUBJECT is invalid: %w", err)
	}
	if c.NATS.QueueGroup == "" {
		return fmt.Errorf("NATS_QUEUE_GROUP is required when NATS_ENABLED=true")
	}
	return nil
}

// validateSubject rejects empty tokens and wildcards; responders publish
// on exact subjects.
func validateSubject(subject string) error {
	if subject == "" {
		return fmt.Errorf("subject is required")
	}
	for _, token := range strings.Split(subject, ".") {
		if token == "" {
			return fmt.Errorf("subject %q has an empty token", subject)
		}
		if token == "*" || token == ">" || strings.ContainsAny(token, " \t\r\n") {
			return fmt.Errorf("subject %q must be a literal subject", subject)
		}
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed when ENVIRONMENT=production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration should be flagged at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func validatePort(port int, name string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535", name)
	}
	return nil
}

// validateK checks 1 <= defaultK <= maxK.
func validateK(defaultK, maxK int, prefix string) error {
	if maxK < 1 {
		return fmt.Errorf("%s_MAX_K must be at least 1", prefix)
	}
	if defaultK < 1 || defaultK > maxK {
		return fmt.Errorf("%s_DEFAULT_K must be between 1 and %s_MAX_K (%d)", prefix, prefix, maxK)
	}
	return nil
}
