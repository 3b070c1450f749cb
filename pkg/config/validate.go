package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "scripts.git.repository").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
//
// Validator names are not checked here; unknown names are reported by the
// validator registry, which also knows about script validators.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Lang == "" {
		errs = append(errs, FieldError{Field: "lang", Message: "language is required"})
	}

	errs = append(errs, validateValidators(cfg.Validators)...)
	errs = append(errs, validateScripts(&cfg.Scripts)...)
	errs = append(errs, validateOutput(&cfg.Output)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateValidators validates the validator list.
func validateValidators(validators []ValidatorConfig) []FieldError {
	var errs []FieldError

	for i, v := range validators {
		if strings.TrimSpace(v.Name) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("validators[%d].name", i),
				Message: "validator name is required",
			})
		}
		for key := range v.Properties {
			if strings.TrimSpace(key) == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("validators[%d].properties", i),
					Message: "property names must not be empty",
				})
				break
			}
		}
	}

	return errs
}

// validateScripts validates rule-script configuration.
func validateScripts(cfg *ScriptsConfig) []FieldError {
	var errs []FieldError

	if cfg.Directory == "" {
		errs = append(errs, FieldError{
			Field:   "scripts.directory",
			Message: "script directory is required",
		})
	}

	if !cfg.Git.Enabled {
		return errs
	}

	if cfg.Git.Repository == "" {
		errs = append(errs, FieldError{
			Field:   "scripts.git.repository",
			Message: "repository is required when git is enabled",
		})
	}
	if cfg.Git.LocalPath == "" {
		errs = append(errs, FieldError{
			Field:   "scripts.git.local_path",
			Message: "local path is required when git is enabled",
		})
	}
	if cfg.Git.Depth < 0 {
		errs = append(errs, FieldError{
			Field:   "scripts.git.depth",
			Message: "depth must be non-negative",
		})
	}
	if cfg.Git.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "scripts.git.timeout",
			Message: "timeout must be positive",
		})
	}

	switch cfg.Git.Auth.Type {
	case "none":
	case "token":
		if cfg.Git.Auth.Token == "" {
			errs = append(errs, FieldError{
				Field:   "scripts.git.auth.token",
				Message: "token is required when auth type is 'token'",
			})
		}
	case "ssh":
		if cfg.Git.Auth.SSHKeyPath == "" {
			errs = append(errs, FieldError{
				Field:   "scripts.git.auth.ssh_key_path",
				Message: "ssh key path is required when auth type is 'ssh'",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "scripts.git.auth.type",
			Message: fmt.Sprintf("invalid auth type %q: must be 'none', 'token', or 'ssh'", cfg.Git.Auth.Type),
		})
	}

	return errs
}

// validateOutput validates output configuration.
func validateOutput(cfg *OutputConfig) []FieldError {
	var errs []FieldError

	validFormats := map[string]bool{"plain": true, "json": true, "csv": true}
	if !validFormats[cfg.Format] {
		errs = append(errs, FieldError{
			Field:   "output.format",
			Message: fmt.Sprintf("invalid output format %q: must be 'plain', 'json' or 'csv'", cfg.Format),
		})
	}

	if cfg.Store.Enabled {
		validDrivers := map[string]bool{"sqlite": true, "sqlite3": true}
		if !validDrivers[cfg.Store.Driver] {
			errs = append(errs, FieldError{
				Field:   "output.store.driver",
				Message: fmt.Sprintf("invalid store driver %q: must be 'sqlite' or 'sqlite3'", cfg.Store.Driver),
			})
		}
		if cfg.Store.Path == "" {
			errs = append(errs, FieldError{
				Field:   "output.store.path",
				Message: "store path is required when the store is enabled",
			})
		}
		if cfg.Store.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "output.store.busy_timeout",
				Message: "busy timeout must be positive",
			})
		}
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	// Validate metrics path
	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path is required when metrics are enabled",
			})
		} else if cfg.Metrics.Path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}
	}

	// Validate tracing configuration
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

// validateWatch validates watch configuration.
func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must be positive",
		})
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}
