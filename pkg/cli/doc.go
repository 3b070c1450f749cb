/*
Package cli provides command-line helpers for the proofread command.

Output Formatting:

Command results that are not findings (plugin listings, run history) are
rendered as tables in text, JSON or CSV:

	table := &cli.Table{Headers: []string{"plugin", "hooks"}}
	table.Append("style.go", "validateSentence")
	if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, table); err != nil {
		return err
	}

Exit Codes:

Commands return an *ExitError to end the process with a specific status
without printing an error message, e.g. when a check reports findings.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
