package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"scribe-hq/proofread/pkg/cli"
	"scribe-hq/proofread/pkg/distributor"
)

var historyFlags struct {
	storePath string
	driver    string
	limit     int
	format    string
	olderThan time.Duration
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `Show the most recent runs recorded in the findings history.

Runs are recorded by "proofread check --store" and by "proofread watch" when
output.store.enabled is set.

Examples:
  # Last 20 runs
  proofread history

  # Findings of one run as CSV
  proofread history show 6f1c0c1e-... --format csv

  # Drop runs older than 30 days
  proofread history prune --older-than 720h`,
	Args: cobra.NoArgs,
	RunE: listRuns,
}

var historyShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show the findings of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  showRun,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old runs",
	Args:  cobra.NoArgs,
	RunE:  pruneRuns,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd, historyPruneCmd)

	historyCmd.PersistentFlags().StringVar(&historyFlags.storePath, "store-path", "", "findings history database (overrides config)")
	historyCmd.PersistentFlags().StringVar(&historyFlags.driver, "driver", "", "sql driver: sqlite, sqlite3 (overrides config)")
	historyCmd.PersistentFlags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "max runs")
	historyPruneCmd.Flags().DurationVar(&historyFlags.olderThan, "older-than", 30*24*time.Hour, "delete runs started before now minus this duration")
}

func openHistory(cmd *cobra.Command) (*distributor.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	storeCfg := cfg.Output.Store
	if historyFlags.storePath != "" {
		storeCfg.Path = historyFlags.storePath
	}
	if historyFlags.driver != "" {
		storeCfg.Driver = historyFlags.driver
	}

	store, err := distributor.NewStore(&storeCfg, logger)
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context(), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	table := &cli.Table{Headers: []string{"id", "started", "finished", "findings"}}
	for _, r := range runs {
		finished := ""
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Format(time.RFC3339)
		}
		table.Append(r.ID, r.StartedAt.Format(time.RFC3339), finished, strconv.Itoa(r.Findings))
	}
	return cli.NewFormatter(cli.OutputFormat(historyFlags.format)).FormatTo(cmd.OutOrStdout(), table)
}

func showRun(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	findings, err := store.Findings(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("history show", err)
	}

	table := &cli.Table{Headers: []string{"file", "line", "validator", "message"}}
	for _, f := range findings {
		table.Append(f.FileName, strconv.Itoa(f.LineNumber), f.ValidatorName, f.Message)
	}
	return cli.NewFormatter(cli.OutputFormat(historyFlags.format)).FormatTo(cmd.OutOrStdout(), table)
}

func pruneRuns(cmd *cobra.Command, args []string) error {
	if historyFlags.olderThan <= 0 {
		return cli.NewConfigError("older-than", "must be positive")
	}

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Prune(cmd.Context(), time.Now().Add(-historyFlags.olderThan))
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d runs\n", n)
	return nil
}
