package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"scribe-hq/proofread/pkg/cli"
	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/telemetry/logging"
)

const defaultConfigFile = "proofread.yaml"

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "proofread",
	Short: "Proofread - document validation with scriptable rules",
	Long: `Proofread validates documents against a configurable set of validators.

Validators run at document, section and sentence granularity in a fixed,
deterministic order. Besides the built-in validators, rule scripts written
in Go are loaded from a directory (optionally synchronised from a git
repository) and interpreted at run time.

Findings are written as plain text, JSON or CSV and can be recorded in a
SQLite history.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(stderr, exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintln(stderr, err)
	return 2
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration file. A missing default file yields
// the default configuration; environment overrides apply either way.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if cfgFile != defaultConfigFile || !errors.Is(err, os.ErrNotExist) {
		return nil, cli.NewConfigError("", err.Error())
	}

	cfg = config.NewDefaultConfig()
	config.ApplyEnvOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	return cfg, nil
}

// newLogger builds the process logger from cfg. Logs go to w so they never
// mix with findings on stdout.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Redact:    true,
		Writer:    w,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())
	return logger.Slog(), nil
}
