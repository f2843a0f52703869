package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/unifiedllm/pkg/cli"
	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/history"
	"mercator-hq/unifiedllm/pkg/history/export"
	"mercator-hq/unifiedllm/pkg/history/retention"
	"mercator-hq/unifiedllm/pkg/history/storage"
)

var historyFlags struct {
	provider   string
	model      string
	outcome    string
	since      string
	limit      int
	offset     int
	output     string
	days       int
	maxRecords int64
	schedule   bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and prune the call history",
	Long: `Inspect and prune the local call history.

Every chat call, successful or not, is recorded with its provider, model,
outcome, status, latency, token counts and a truncated copy of the prompt
and response.

Subcommands:
  list   - List recorded calls, newest first
  show   - Show one call as JSON
  prune  - Delete old records according to the retention settings`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded calls",
	Long: `List recorded calls, newest first.

--since accepts a duration ("90m", "24h", "7d") or an RFC3339 timestamp.

Examples:
  # Last 20 calls
  unifiedllm history list

  # Failed Anthropic calls of the last week as CSV
  unifiedllm history list --provider anthropic --outcome api --since 7d --output csv`,
	RunE: historyListCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded call",
	Args:  cobra.ExactArgs(1),
	RunE:  historyShowCommand,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old records",
	Long: `Delete records older than the retention period, then the oldest records
beyond the record cap.

With --schedule the command keeps running and prunes on the configured cron
schedule until interrupted.

Examples:
  # Apply the configured retention once
  unifiedllm history prune

  # Keep one week and at most 1000 records
  unifiedllm history prune --days 7 --max-records 1000`,
	RunE: historyPruneCommand,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyFlags.provider, "provider", "", "filter by provider")
	historyListCmd.Flags().StringVar(&historyFlags.model, "model", "", "filter by model")
	historyListCmd.Flags().StringVar(&historyFlags.outcome, "outcome", "", "filter by outcome: success or an error kind")
	historyListCmd.Flags().StringVar(&historyFlags.since, "since", "", "only calls newer than a duration or RFC3339 time")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "max results (0 for all)")
	historyListCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyListCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format: text, json, csv")

	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", 0, "retention in days (default from config)")
	historyPruneCmd.Flags().Int64Var(&historyFlags.maxRecords, "max-records", 0, "maximum records to keep (default from config)")
	historyPruneCmd.Flags().BoolVar(&historyFlags.schedule, "schedule", false, "keep running and prune on the configured schedule")
}

// openHistory opens the configured store regardless of history.enabled, so
// existing records stay readable after recording is turned off.
func openHistory(cfg *config.Config) (history.Store, error) {
	store, err := storage.Open(cfg.History)
	if err != nil {
		return nil, cli.NewCommandError("history", fmt.Errorf("failed to open history store: %w", err))
	}
	return store, nil
}

func historyListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := cli.ParseFormat(historyFlags.output)
	if err != nil {
		return err
	}

	since, err := parseSince(historyFlags.since, time.Now())
	if err != nil {
		return err
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	query := &history.Query{
		Provider: strings.ToLower(strings.TrimSpace(historyFlags.provider)),
		Model:    historyFlags.model,
		Outcome:  historyFlags.outcome,
		Since:    since,
		Limit:    historyFlags.limit,
		Offset:   historyFlags.offset,
	}

	return listHistory(cmd.Context(), store, query, format, cmd.OutOrStdout())
}

// listHistory queries store and writes the records in format.
func listHistory(ctx context.Context, store history.Store, query *history.Query, format cli.OutputFormat, w io.Writer) error {
	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}

	if format == cli.FormatText {
		return writeHistoryTable(w, records)
	}

	exporter, err := export.New(string(format))
	if err != nil {
		return err
	}
	return exporter.Export(records, w)
}

func writeHistoryTable(w io.Writer, records []*history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPROVIDER\tMODEL\tOUTCOME\tSTATUS\tLATENCY\tTOKENS\tPROMPT")
	for _, r := range records {
		status := "-"
		if r.StatusCode > 0 {
			status = strconv.Itoa(r.StatusCode)
		}
		tokens := "-"
		if r.TotalTokens != nil {
			tokens = strconv.Itoa(*r.TotalTokens)
		}
		prompt := strings.Join(strings.Fields(r.Prompt), " ")

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%dms\t%s\t%s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Provider,
			r.Model,
			r.Outcome,
			status,
			r.Latency.Milliseconds(),
			tokens,
			history.Truncate(prompt, 40),
		)
	}
	return tw.Flush()
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return showHistory(cmd.Context(), store, args[0], cmd.OutOrStdout())
}

func showHistory(ctx context.Context, store history.Store, id string, w io.Writer) error {
	records, err := store.Query(ctx, &history.Query{IDs: []string{id}, Limit: 1})
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}
	if len(records) == 0 {
		return cli.NewCommandError("history", fmt.Errorf("record %q not found", id))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records[0])
}

func historyPruneCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rcfg := retention.FromConfig(cfg.History.Retention)
	if cmd.Flags().Changed("days") {
		rcfg.RetentionDays = historyFlags.days
	}
	if cmd.Flags().Changed("max-records") {
		rcfg.MaxRecords = historyFlags.maxRecords
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	pruner := retention.NewPruner(store, rcfg)
	if err := pruneHistory(ctx, pruner, rcfg, cmd.OutOrStdout()); err != nil {
		return err
	}
	if !historyFlags.schedule {
		return nil
	}

	return runPruneSchedule(ctx, pruner, cmd.OutOrStdout())
}

func pruneHistory(ctx context.Context, pruner *retention.Pruner, rcfg *retention.Config, w io.Writer) error {
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	days := "forever"
	if rcfg.RetentionDays > 0 {
		days = fmt.Sprintf("%d days", rcfg.RetentionDays)
	}
	limit := "unlimited"
	if rcfg.MaxRecords > 0 {
		limit = strconv.FormatInt(rcfg.MaxRecords, 10)
	}

	_, err = fmt.Fprintf(w, "Pruned %d records (retention: %s, max records: %s)\n", deleted, days, limit)
	return err
}

// runPruneSchedule runs the cron pruner until ctx is cancelled.
func runPruneSchedule(ctx context.Context, pruner *retention.Pruner, w io.Writer) error {
	if err := pruner.Start(ctx); err != nil {
		return cli.NewConfigError("history.retention.prune_schedule", err.Error())
	}
	defer pruner.Stop()

	next := pruner.NextPruning()
	if next == nil {
		return cli.NewConfigError("history.retention.prune_schedule", "no prune schedule configured")
	}
	fmt.Fprintf(w, "Next pruning at %s; press Ctrl+C to stop\n", next.Local().Format(time.RFC3339))

	<-ctx.Done()
	return nil
}

// parseSince accepts a duration before now ("90m", "24h", "7d") or an
// RFC3339 timestamp. An empty value means no lower bound.
func parseSince(value string, now time.Time) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err == nil && n >= 0 {
			t := now.AddDate(0, 0, -n)
			return &t, nil
		}
	}

	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		t := now.Add(-d)
		return &t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	return nil, cli.NewConfigError("since", fmt.Sprintf("invalid value %q (use a duration like 24h or 7d, or an RFC3339 time)", value))
}
