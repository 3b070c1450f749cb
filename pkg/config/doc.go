// Package config provides configuration management for proofread.
//
// This package handles loading, validating, and applying defaults to the
// YAML configuration that lists validators, rule-script settings, output
// reporting, telemetry and watch behaviour.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("proofread.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("proofread.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PROOFREAD_SECTION_FIELD.
// For example:
//
//   - PROOFREAD_SCRIPTS_DIRECTORY overrides scripts.directory
//   - PROOFREAD_OUTPUT_FORMAT overrides output.format
//   - PROOFREAD_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	lang: en
//	validators:
//	  - name: SentenceLength
//	    properties:
//	      max_len: "100"
//	  - name: Script
//	    properties:
//	      script-path: rules
//	output:
//	  format: plain
//
// # Validation
//
// All field errors are collected into a single ValidationError. Validator
// names are resolved later by the validator registry.
package config
