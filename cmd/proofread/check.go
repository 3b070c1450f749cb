package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scribe-hq/proofread/pkg/cli"
	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/proofread"
	"scribe-hq/proofread/pkg/telemetry/logging"
	"scribe-hq/proofread/pkg/telemetry/tracing"
)

var checkFlags struct {
	format     string
	lang       string
	store      bool
	storePath  string
	validators []string
	scriptDir  string
	strict     bool
}

var checkCmd = &cobra.Command{
	Use:   "check [inputs...]",
	Short: "Validate documents",
	Long: `Validate documents with the configured validators.

Inputs ending in .yaml or .yml hold serialized document collections; any
other file is parsed as plain text: '#' lines open sections, blank lines
separate paragraphs and '-' or '*' lines form lists.

The command exits with status 1 when there are findings.

Examples:
  # Check with the validators from proofread.yaml
  proofread check README.md

  # Pick validators on the command line
  proofread check --validator TerminalPunctuation --validator Script notes.txt

  # JSON output for CI/CD, recorded in the findings history
  proofread check --format json --store docs.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", "", "output format: plain, json, csv (overrides config)")
	checkCmd.Flags().StringVar(&checkFlags.lang, "lang", "", "message locale: en, ja (overrides config)")
	checkCmd.Flags().BoolVar(&checkFlags.store, "store", false, "record the run in the findings history")
	checkCmd.Flags().StringVar(&checkFlags.storePath, "store-path", "", "findings history database (implies --store)")
	checkCmd.Flags().StringArrayVar(&checkFlags.validators, "validator", nil, "validator to run, repeatable (replaces configured validators)")
	checkCmd.Flags().StringVar(&checkFlags.scriptDir, "scripts", "", "rule script directory (overrides config)")
	checkCmd.Flags().BoolVar(&checkFlags.strict, "strict", false, "fail when a rule script does not load")
}

// applyCheckFlags copies command line overrides into cfg.
func applyCheckFlags(cfg *config.Config) error {
	if checkFlags.format != "" {
		cfg.Output.Format = checkFlags.format
	}
	if checkFlags.lang != "" {
		cfg.Lang = checkFlags.lang
	}
	if checkFlags.store {
		cfg.Output.Store.Enabled = true
	}
	if checkFlags.storePath != "" {
		cfg.Output.Store.Enabled = true
		cfg.Output.Store.Path = checkFlags.storePath
	}
	if len(checkFlags.validators) > 0 {
		cfg.Validators = make([]config.ValidatorConfig, 0, len(checkFlags.validators))
		for _, name := range checkFlags.validators {
			cfg.Validators = append(cfg.Validators, config.ValidatorConfig{Name: name})
		}
	}
	if checkFlags.scriptDir != "" {
		cfg.Scripts.Directory = checkFlags.scriptDir
	}
	if checkFlags.strict {
		cfg.Scripts.Strict = true
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyCheckFlags(cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	defer shutdownTracer(tracer, cfg.Telemetry.Tracing.Timeout, logger)

	out, store, err := proofread.OpenDistributor(&cfg.Output, cmd.OutOrStdout(), logger)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	if store != nil {
		defer store.Close()
	}

	p, err := proofread.Build(ctx, cfg, proofread.Options{
		Logger:      logger,
		Distributor: out,
		Tracer:      tracer,
	})
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	docs, err := proofread.LoadInputs(args...)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	ctx = logging.WithRunID(ctx, uuid.New().String())
	findings, err := p.Check(ctx, docs)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	logger.Debug("check finished",
		"documents", docs.Len(),
		"findings", len(findings),
	)
	if len(findings) > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

func shutdownTracer(tracer *tracing.Tracer, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := tracer.Shutdown(ctx); err != nil {
		logger.Warn("failed to flush traces", "error", err)
	}
}
