// Package config loads the dashboard's settings from environment variables
// with defaults, and validates them on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Sheets   SheetsConfig
	Workbook WorkbookConfig
	Cache    CacheConfig
	Audit    AuditConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SheetsConfig selects the cloud spreadsheet as primary backend. It is
// used only when both the spreadsheet ID and a credentials file are set.
type SheetsConfig struct {
	SpreadsheetID   string        `env:"SPREADSHEET_ID" envAlt:"GSHEETS_SPREADSHEET_ID"`
	CredentialsFile string        `env:"GOOGLE_CREDENTIALS_FILE" envAlt:"GOOGLE_APPLICATION_CREDENTIALS"`
	Timeout         time.Duration `env:"SHEETS_TIMEOUT" default:"20s"`
}

// Enabled reports whether the spreadsheet backend is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != "" && c.CredentialsFile != ""
}

// WorkbookConfig locates the local workbook, the fallback backend (or the
// only one when the spreadsheet is not configured).
type WorkbookConfig struct {
	Path string `env:"WORKBOOK_PATH" default:"mock_data.xlsx"`
}

// CacheConfig controls the whole-table cache. Disabled by default.
type CacheConfig struct {
	Enabled bool `env:"CACHE_ENABLED" default:"false"`

	// RedisURL selects a shared Redis cache; empty means in-process.
	RedisURL string        `env:"REDIS_URL"`
	TTL      time.Duration `env:"CACHE_TTL" default:"10m"`
}

// AuditConfig holds the optional write journal database.
type AuditConfig struct {
	// DatabaseURL is the PostgreSQL connection string; empty disables the
	// journal.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns int `env:"DB_MAX_CONNS" default:"4"`
	MinConns int `env:"DB_MIN_CONNS" default:"0"`
}

// Enabled reports whether the journal database is configured.
func (c AuditConfig) Enabled() bool { return c.DatabaseURL != "" }

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// AccessCodes are the shared secrets accepted by the login gate.
	AccessCodes []string `env:"ACCESS_CODES" envAlt:"APP_PASSWORDS"`

	// RequireAccessCode enables the login gate (default: false)
	RequireAccessCode bool `env:"REQUIRE_ACCESS_CODE" default:"false"`

	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// SessionTTL is how long the access cookie stays valid (default: 12h)
	SessionTTL time.Duration `env:"SESSION_TTL" default:"12h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
