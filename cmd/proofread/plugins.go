package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"scribe-hq/proofread/pkg/cli"
	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/proofread"
	"scribe-hq/proofread/pkg/script"
)

var pluginsFlags struct {
	dir    string
	format string
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Inspect rule scripts",
	Long: `Inspect the rule scripts of the plugin directory.

Rule scripts are Go files (package main) importing "proofread/rule". They may
define any of the hooks validateDocument, validateSection, validateSentence,
preValidateSection and preValidateSentence, and an optional "message"
template variable.

Subcommands:
  list  - List scripts and the hooks they define
  lint  - Compile every script and report failures`,
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rule scripts and their hooks",
	Long: `List the rule scripts that load successfully and the hooks each defines.

Examples:
  # List the configured plugin directory
  proofread plugins list

  # List another directory as JSON
  proofread plugins list --dir rules/ --format json`,
	Args: cobra.NoArgs,
	RunE: listPlugins,
}

var pluginsLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Compile rule scripts",
	Long: `Compile every rule script and report the ones that fail.

The command exits with status 1 when a script does not compile.

Examples:
  # Lint the configured plugin directory
  proofread plugins lint

  # CSV report for CI/CD
  proofread plugins lint --format csv`,
	Args: cobra.NoArgs,
	RunE: lintPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
	pluginsCmd.AddCommand(pluginsListCmd, pluginsLintCmd)

	pluginsCmd.PersistentFlags().StringVarP(&pluginsFlags.dir, "dir", "d", "", "plugin directory (overrides config)")
	pluginsCmd.PersistentFlags().StringVar(&pluginsFlags.format, "format", "text", "output format: text, json, csv")
}

// loadPlugins loads the plugin directory selected by flags and config,
// synchronising the git source first when it is enabled.
func loadPlugins(ctx context.Context, cfg *config.Config, logger *slog.Logger) (string, []*script.Plugin, []error, error) {
	loader := script.NewLoader(script.DefaultLoaderConfig(), script.NewFileCache(), logger)

	dir := cfg.Scripts.Directory
	if dirs := scriptDirs(cfg); len(dirs) > 0 {
		dir = dirs[0]
	}
	switch {
	case pluginsFlags.dir != "":
		dir = pluginsFlags.dir
	case cfg.Scripts.Git.Enabled:
		synced, err := proofread.SyncScripts(ctx, &cfg.Scripts.Git, loader, logger)
		if err != nil {
			return "", nil, nil, err
		}
		dir = synced
	}

	plugins, err := loader.Load(dir)
	if err == nil {
		return dir, plugins, nil, nil
	}
	var list *script.ErrorList
	if !errors.As(err, &list) {
		return dir, nil, nil, err
	}
	return dir, plugins, list.Errors, nil
}

func pluginsSetup(cmd *cobra.Command) (context.Context, *config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, nil, err
	}
	return cmd.Context(), cfg, logger, nil
}

func listPlugins(cmd *cobra.Command, args []string) error {
	ctx, cfg, logger, err := pluginsSetup(cmd)
	if err != nil {
		return err
	}

	_, plugins, _, err := loadPlugins(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("plugins list", err)
	}

	table := &cli.Table{Headers: []string{"plugin", "hooks", "message"}}
	for _, p := range plugins {
		table.Append(p.Name(), strings.Join(p.DefinedHooks(), ","), p.Message())
	}
	return cli.NewFormatter(cli.OutputFormat(pluginsFlags.format)).FormatTo(cmd.OutOrStdout(), table)
}

func lintPlugins(cmd *cobra.Command, args []string) error {
	ctx, cfg, logger, err := pluginsSetup(cmd)
	if err != nil {
		return err
	}

	dir, plugins, failures, err := loadPlugins(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("plugins lint", err)
	}

	table := &cli.Table{Headers: []string{"file", "status", "error"}}
	for _, p := range plugins {
		table.Append(p.Path(), "ok", "")
	}
	for _, failure := range failures {
		table.Append(failedPath(failure), "error", failure.Error())
	}
	if err := cli.NewFormatter(cli.OutputFormat(pluginsFlags.format)).FormatTo(cmd.OutOrStdout(), table); err != nil {
		return err
	}

	if len(failures) > 0 {
		return &cli.ExitError{Code: 1, Err: fmt.Errorf("%d of %d scripts in %s failed to load", len(failures), len(failures)+len(plugins), dir)}
	}
	return nil
}

func failedPath(err error) string {
	var loadErr *script.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.FilePath
	}
	var ioErr *script.IOError
	if errors.As(err, &ioErr) {
		return ioErr.FilePath
	}
	return ""
}
