// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, then an optional YAML file named by
// HACKBOARD_CONFIG, then HACKBOARD_* environment variables (a local .env file
// is read into the environment first).
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store drivers accepted in StoreDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver picks the raw signal store backend.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// DatabaseURL is the connection string used by the postgres driver.
	DatabaseURL string `koanf:"database_url"`

	// SnapshotInterval is the period of the score snapshot aggregator.
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`

	// SnapshotOnStart runs one aggregation immediately on startup.
	SnapshotOnStart bool `koanf:"snapshot_on_start"`

	// RequestTimeout bounds each HTTP request.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// CORSAllowedOrigins lists origins allowed by the HTTP API. From the
	// environment it is a comma-separated list.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsConstLabels are attached to every metric (YAML only).
	MetricsConstLabels map[string]string `koanf:"metrics_const_labels"`

	// MetricsLatencyBuckets overrides the latency histogram buckets, in
	// milliseconds. Empty keeps the Prometheus defaults.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		StoreDriver:        DriverSQLite,
		SQLitePath:         "hackboard.db",
		SnapshotInterval:   5 * time.Minute,
		RequestTimeout:     15 * time.Second,
		CORSAllowedOrigins: []string{"*"},
		MetricsNamespace:   "hackboard",
		MetricsSubsystem:   "scoring",
	}
}

// DSN returns the connection target of the configured store driver.
func (c *Config) DSN() string {
	if c.StoreDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.SQLitePath
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SnapshotInterval <= 0:
		return fmt.Errorf("%w: snapshot_interval must be positive", ErrInvalidConfig)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	if !metricName.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: invalid metrics_namespace %q", ErrInvalidConfig, c.MetricsNamespace)
	}
	if c.MetricsSubsystem != "" && !metricName.MatchString(c.MetricsSubsystem) {
		return fmt.Errorf("%w: invalid metrics_subsystem %q", ErrInvalidConfig, c.MetricsSubsystem)
	}
	for name := range c.MetricsConstLabels {
		if !metricName.MatchString(name) {
			return fmt.Errorf("%w: invalid metrics_const_labels name %q", ErrInvalidConfig, name)
		}
	}
	for i := 1; i < len(c.MetricsLatencyBuckets); i++ {
		if c.MetricsLatencyBuckets[i] <= c.MetricsLatencyBuckets[i-1] {
			return fmt.Errorf("%w: metrics_latency_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}

	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	return nil
}
