package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ParseConfig decodes YAML configuration and applies defaults without validating.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PROOFREAD_SECTION_FIELD (e.g., PROOFREAD_SCRIPTS_DIRECTORY).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies PROOFREAD_* environment variables to cfg.
func ApplyEnvOverrides(cfg *Config) {
	if val := os.Getenv("PROOFREAD_LANG"); val != "" {
		cfg.Lang = val
	}

	// Script overrides
	if val := os.Getenv("PROOFREAD_SCRIPTS_DIRECTORY"); val != "" {
		cfg.Scripts.Directory = val
	}
	if val := os.Getenv("PROOFREAD_SCRIPTS_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Scripts.Strict = b
		}
	}
	if val := os.Getenv("PROOFREAD_SCRIPTS_GIT_REPOSITORY"); val != "" {
		cfg.Scripts.Git.Repository = val
		cfg.Scripts.Git.Enabled = true
	}
	if val := os.Getenv("PROOFREAD_SCRIPTS_GIT_BRANCH"); val != "" {
		cfg.Scripts.Git.Branch = val
	}
	if val := os.Getenv("PROOFREAD_SCRIPTS_GIT_TOKEN"); val != "" {
		cfg.Scripts.Git.Auth.Type = "token"
		cfg.Scripts.Git.Auth.Token = val
	}

	// Output overrides
	if val := os.Getenv("PROOFREAD_OUTPUT_FORMAT"); val != "" {
		cfg.Output.Format = val
	}
	if val := os.Getenv("PROOFREAD_OUTPUT_STORE_PATH"); val != "" {
		cfg.Output.Store.Path = val
		cfg.Output.Store.Enabled = true
	}

	// Telemetry overrides
	if val := os.Getenv("PROOFREAD_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PROOFREAD_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PROOFREAD_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PROOFREAD_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
		cfg.Telemetry.Tracing.Enabled = true
	}
}
