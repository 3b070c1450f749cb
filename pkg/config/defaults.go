package config

import "time"

// Default values for configuration fields.
const (
	DefaultLang = "en"

	// Script defaults
	DefaultScriptDirectory = "rules"
	DefaultGitBranch       = "main"
	DefaultGitLocalPath    = ".proofread/scripts"
	DefaultGitDepth        = 1
	DefaultGitTimeout      = 30 * time.Second
	DefaultGitAuthType     = "none"

	// Output defaults
	DefaultOutputFormat     = "plain"
	DefaultStoreDriver      = "sqlite"
	DefaultStorePath        = ".proofread/history.db"
	DefaultStoreBusyTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsNamespace   = "proofread"
	DefaultMetricsSubsystem   = "validation"
	DefaultMetricsPath        = "/metrics"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "proofread"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingTimeout     = 10 * time.Second

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond
)

// NewDefaultConfig returns a configuration with every default applied and
// no validators configured.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	if cfg.Lang == "" {
		cfg.Lang = DefaultLang
	}

	// Script defaults
	if cfg.Scripts.Directory == "" {
		cfg.Scripts.Directory = DefaultScriptDirectory
	}
	applyGitDefaults(&cfg.Scripts.Git)

	// Output defaults
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}
	if cfg.Output.Store.Driver == "" {
		cfg.Output.Store.Driver = DefaultStoreDriver
	}
	if cfg.Output.Store.Path == "" {
		cfg.Output.Store.Path = DefaultStorePath
	}
	if cfg.Output.Store.BusyTimeout == 0 {
		cfg.Output.Store.BusyTimeout = DefaultStoreBusyTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}

func applyGitDefaults(git *GitConfig) {
	if git.Branch == "" {
		git.Branch = DefaultGitBranch
	}
	if git.LocalPath == "" {
		git.LocalPath = DefaultGitLocalPath
	}
	if git.Depth == 0 {
		git.Depth = DefaultGitDepth
	}
	if git.Timeout == 0 {
		git.Timeout = DefaultGitTimeout
	}
	if git.Auth.Type == "" {
		git.Auth.Type = DefaultGitAuthType
	}
}
