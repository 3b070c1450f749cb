package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration structure for proofread.
// It lists the validators to run, where rule scripts live, how results are
// reported and how the process is observed.
type Config struct {
	// Lang selects the locale used for validator messages ("en", "ja").
	// Default: "en"
	Lang string `yaml:"lang"`

	// Validators is the ordered list of validators to run. The order is kept
	// within each granularity when the pipeline applies them.
	Validators []ValidatorConfig `yaml:"validators"`

	// Scripts configures rule-script plugins.
	Scripts ScriptsConfig `yaml:"scripts"`

	// Output configures result reporting and the findings history store.
	Output OutputConfig `yaml:"output"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch configures the watch command.
	Watch WatchConfig `yaml:"watch"`
}

// ValidatorConfig configures a single validator instance.
type ValidatorConfig struct {
	// Name selects the validator type (e.g., "SentenceLength", "Script").
	Name string `yaml:"name"`

	// Properties holds validator specific options.
	Properties map[string]string `yaml:"properties"`
}

// Property returns the raw value of a property.
func (v ValidatorConfig) Property(key string) (string, bool) {
	val, ok := v.Properties[key]
	return val, ok
}

// StringProperty returns a property or def when it is not set.
func (v ValidatorConfig) StringProperty(key, def string) string {
	if val, ok := v.Properties[key]; ok && val != "" {
		return val
	}
	return def
}

// IntProperty parses an integer property, returning def when it is not set.
func (v ValidatorConfig) IntProperty(key string, def int) (int, error) {
	val, ok := v.Properties[key]
	if !ok || strings.TrimSpace(val) == "" {
		return def, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return def, fmt.Errorf("validator %q: property %q must be an integer: %w", v.Name, key, err)
	}
	return i, nil
}

// BoolProperty parses a boolean property, returning def when it is not set.
func (v ValidatorConfig) BoolProperty(key string, def bool) (bool, error) {
	val, ok := v.Properties[key]
	if !ok || strings.TrimSpace(val) == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return def, fmt.Errorf("validator %q: property %q must be a boolean: %w", v.Name, key, err)
	}
	return b, nil
}

// ScriptsConfig contains configuration for rule-script plugins.
type ScriptsConfig struct {
	// Directory holds the rule scripts. A "script-path" property on a Script
	// validator overrides it. The directory is created when missing.
	// Default: "rules"
	Directory string `yaml:"directory"`

	// Strict turns any plugin load failure into a fatal registration error.
	// Default: false
	Strict bool `yaml:"strict"`

	// Git optionally synchronises the script directory from a repository.
	Git GitConfig `yaml:"git"`
}

// GitConfig configures a Git repository holding rule scripts.
type GitConfig struct {
	// Enabled turns on cloning/pulling before scripts are loaded.
	Enabled bool `yaml:"enabled"`

	// Repository is the clone URL.
	Repository string `yaml:"repository"`

	// Branch to check out.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path is the directory inside the repository containing the scripts.
	// Default: "" (repository root)
	Path string `yaml:"path"`

	// LocalPath is where the repository is cloned.
	// Default: ".proofread/scripts"
	LocalPath string `yaml:"local_path"`

	// Depth limits clone history; 0 clones everything.
	// Default: 1
	Depth int `yaml:"depth"`

	// Timeout bounds clone and pull operations.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// Auth configures repository authentication.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig configures Git authentication.
type GitAuthConfig struct {
	// Type is one of "none", "token", "ssh".
	// Default: "none"
	Type string `yaml:"type"`

	// Token is a personal access token, used when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath is the private key path, used when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase unlocks an encrypted private key.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// OutputConfig configures how findings are reported.
type OutputConfig struct {
	// Format is "plain", "json" or "csv".
	// Default: "plain"
	Format string `yaml:"format"`

	// Store persists every run and its findings.
	Store StoreConfig `yaml:"store"`
}

// StoreConfig configures the SQLite findings history.
type StoreConfig struct {
	// Enabled turns on persistence.
	Enabled bool `yaml:"enabled"`

	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: ".proofread/history.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json", "text" or "console".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns on metric collection.
	Enabled bool `yaml:"enabled"`

	// Namespace and Subsystem prefix every metric name.
	// Defaults: "proofread", "validation"
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// ListenAddress serves the metrics endpoint when not empty
	// (used by the watch command).
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns on span export.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "proofread"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of runs traced, between 0 and 1.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Timeout bounds exporter calls.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce is the quiet period after a file change before re-running.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// Schedule optionally re-runs validation on a cron schedule
	// (e.g., "*/10 * * * *"). Empty disables scheduled runs.
	Schedule string `yaml:"schedule"`
}
