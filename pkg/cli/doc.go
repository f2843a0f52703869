/*
Package cli provides command-line interface utilities for unifiedllm.

The cli package includes output formatters, a status line for interactive
calls, exit-code mapping and signal handling used by the unifiedllm command.

Output Formatting:

Chat responses and listings can be printed as text, JSON or CSV:

	formatter, err := cli.NewFormatterFor("json")
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Values implementing TextWriter control their own text rendering; values
implementing Tabular can be written as CSV.

Status Line:

While a call is in flight in interactive mode, a status line shows the
elapsed time:

	status := cli.NewStatusLine(os.Stderr)
	status.Start("waiting for openai")
	resp, err := gw.Chat(ctx, req)
	status.Stop()

Exit Codes:

ExitCode maps errors to process exit status, so scripts can tell a missing
credential from a vendor rejection:

	os.Exit(cli.ExitCode(err))

Signal Handling:

For cancellation on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
