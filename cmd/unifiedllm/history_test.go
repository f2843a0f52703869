package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"mercator-hq/unifiedllm/pkg/cli"
	"mercator-hq/unifiedllm/pkg/history"
	"mercator-hq/unifiedllm/pkg/history/retention"
	"mercator-hq/unifiedllm/pkg/history/storage"
)

func seededStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	now := time.Now().UTC()
	total := 42

	records := []*history.Record{
		{ID: "a", Timestamp: now.Add(-3 * time.Hour), Provider: "openai", Model: "gpt-4o-mini", Outcome: history.OutcomeSuccess, StatusCode: 200, Prompt: "first\nprompt", TotalTokens: &total},
		{ID: "b", Timestamp: now.Add(-2 * time.Hour), Provider: "anthropic", Model: "claude-3-5-haiku-latest", Outcome: "api", StatusCode: 529, Error: "overloaded"},
		{ID: "c", Timestamp: now.Add(-10 * 24 * time.Hour), Provider: "gemini", Model: "gemini-1.5-flash", Outcome: "transport"},
	}
	for _, r := range records {
		if err := store.Save(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestListHistory_Text(t *testing.T) {
	store := seededStore(t)

	var buf bytes.Buffer
	if err := listHistory(context.Background(), store, &history.Query{}, cli.FormatText, &buf); err != nil {
		t.Fatalf("listHistory() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "TIME") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "anthropic") || !strings.Contains(lines[1], "529") {
		t.Errorf("newest row = %q, want the anthropic call", lines[1])
	}
	if !strings.Contains(lines[2], "first prompt") || !strings.Contains(lines[2], "42") {
		t.Errorf("row = %q, want flattened prompt and tokens", lines[2])
	}
}

func TestListHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := listHistory(context.Background(), storage.NewMemoryStore(), nil, cli.FormatText, &buf); err != nil {
		t.Fatalf("listHistory() error = %v", err)
	}
	if buf.String() != "No records found.\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestListHistory_Exports(t *testing.T) {
	store := seededStore(t)
	query := &history.Query{Provider: "openai"}

	var jsonBuf bytes.Buffer
	if err := listHistory(context.Background(), store, query, cli.FormatJSON, &jsonBuf); err != nil {
		t.Fatalf("listHistory(json) error = %v", err)
	}
	var records []history.Record
	if err := json.Unmarshal(jsonBuf.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" {
		t.Errorf("records = %+v, want only the openai call", records)
	}

	var csvBuf bytes.Buffer
	if err := listHistory(context.Background(), store, &history.Query{Limit: 2}, cli.FormatCSV, &csvBuf); err != nil {
		t.Fatalf("listHistory(csv) error = %v", err)
	}
	rows, err := csv.NewReader(&csvBuf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want header + 2", len(rows))
	}
}

func TestShowHistory(t *testing.T) {
	store := seededStore(t)

	var buf bytes.Buffer
	if err := showHistory(context.Background(), store, "b", &buf); err != nil {
		t.Fatalf("showHistory() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"error": "overloaded"`) {
		t.Errorf("output = %s", buf.String())
	}

	if err := showHistory(context.Background(), store, "missing", &buf); err == nil {
		t.Error("showHistory() expected error for an unknown id")
	}
}

func TestPruneHistory(t *testing.T) {
	store := seededStore(t)
	rcfg := &retention.Config{RetentionDays: 7, MaxRecords: 1}

	var buf bytes.Buffer
	if err := pruneHistory(context.Background(), retention.NewPruner(store, rcfg), rcfg, &buf); err != nil {
		t.Fatalf("pruneHistory() error = %v", err)
	}

	if buf.String() != "Pruned 2 records (retention: 7 days, max records: 1)\n" {
		t.Errorf("output = %q", buf.String())
	}
	if store.Size() != 1 {
		t.Errorf("store size = %d, want 1", store.Size())
	}
}

func TestRunPruneSchedule(t *testing.T) {
	rcfg := &retention.Config{RetentionDays: 7, PruneSchedule: "0 3 * * *"}
	pruner := retention.NewPruner(storage.NewMemoryStore(), rcfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var buf bytes.Buffer
	go func() { done <- runPruneSchedule(ctx, pruner, &buf) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runPruneSchedule() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runPruneSchedule() did not return after cancellation")
	}
	if !strings.HasPrefix(buf.String(), "Next pruning at ") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunPruneSchedule_NoSchedule(t *testing.T) {
	pruner := retention.NewPruner(storage.NewMemoryStore(), &retention.Config{})
	err := runPruneSchedule(context.Background(), pruner, &bytes.Buffer{})
	if cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("runPruneSchedule() error = %v, want a usage error", err)
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		value   string
		want    *time.Time
		wantErr bool
	}{
		{value: "", want: nil},
		{value: "90m", want: ptrTime(now.Add(-90 * time.Minute))},
		{value: "24h", want: ptrTime(now.Add(-24 * time.Hour))},
		{value: "7d", want: ptrTime(now.AddDate(0, 0, -7))},
		{value: "2024-05-01T00:00:00Z", want: ptrTime(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))},
		{value: "yesterday", wantErr: true},
		{value: "-5h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseSince(tt.value, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSince(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("parseSince(%q) = %v, want nil", tt.value, got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Errorf("parseSince(%q) = %v, want %v", tt.value, got, *tt.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
