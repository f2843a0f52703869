package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/history"
)

func intp(v int) *int { return &v }

// createTempDB creates a SQLite store in a temporary directory.
func createTempDB(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := NewSQLiteStore(&SQLiteConfig{
		Path:         dbPath,
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, dbPath
}

// stores returns every backend under test.
func stores(t *testing.T) map[string]history.Store {
	t.Helper()

	sqliteStore, _ := createTempDB(t)
	return map[string]history.Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func seed(t *testing.T, store history.Store, base time.Time) {
	t.Helper()

	records := []*history.Record{
		{ID: "a", Timestamp: base, Provider: "openai", Model: "gpt-4o-mini", MessageCount: 1, Outcome: history.OutcomeSuccess},
		{ID: "b", Timestamp: base.Add(time.Minute), Provider: "anthropic", Model: "claude", MessageCount: 2, Outcome: "api", StatusCode: 429, Error: "rate limited"},
		{ID: "c", Timestamp: base.Add(2 * time.Minute), Provider: "openai", Model: "gpt-4o", MessageCount: 3, Outcome: "transport"},
		{ID: "d", Timestamp: base.Add(3 * time.Minute), Provider: "gemini", Model: "gemini-1.5-flash", MessageCount: 1, Outcome: history.OutcomeSuccess},
	}
	for _, r := range records {
		if err := store.Save(context.Background(), r); err != nil {
			t.Fatalf("Save(%s) error = %v", r.ID, err)
		}
	}
}

func ids(records []*history.Record) string {
	out := ""
	for _, r := range records {
		out += r.ID
	}
	return out
}

func TestStore_SaveAndQueryRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ts := time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC)

			want := &history.Record{
				ID:               "call-1",
				Timestamp:        ts,
				Provider:         "openai",
				Model:            "gpt-4o-mini",
				MessageCount:     2,
				Prompt:           "Hello",
				Outcome:          history.OutcomeSuccess,
				StatusCode:       200,
				Latency:          1500 * time.Millisecond,
				Response:         "Hi there",
				RequestID:        "req_123",
				PromptTokens:     intp(5),
				CompletionTokens: intp(3),
				TotalTokens:      intp(8),
			}
			if err := store.Save(ctx, want); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := store.Query(ctx, &history.Query{})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("Query() returned %d records, want 1", len(got))
			}

			r := got[0]
			if r.ID != want.ID || r.Provider != want.Provider || r.Model != want.Model {
				t.Errorf("identity fields = %q/%q/%q", r.ID, r.Provider, r.Model)
			}
			if !r.Timestamp.Equal(ts) {
				t.Errorf("Timestamp = %v, want %v", r.Timestamp, ts)
			}
			if r.MessageCount != 2 || r.Prompt != "Hello" || r.Response != "Hi there" {
				t.Errorf("content fields = %d/%q/%q", r.MessageCount, r.Prompt, r.Response)
			}
			if r.StatusCode != 200 || r.Latency != 1500*time.Millisecond || r.RequestID != "req_123" {
				t.Errorf("result fields = %d/%v/%q", r.StatusCode, r.Latency, r.RequestID)
			}
			if r.PromptTokens == nil || *r.PromptTokens != 5 ||
				r.CompletionTokens == nil || *r.CompletionTokens != 3 ||
				r.TotalTokens == nil || *r.TotalTokens != 8 {
				t.Errorf("token fields = %v/%v/%v", r.PromptTokens, r.CompletionTokens, r.TotalTokens)
			}
			if r.Error != "" {
				t.Errorf("Error = %q, want empty", r.Error)
			}
		})
	}
}

func TestStore_AbsentTokensStayAbsent(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := store.Save(ctx, &history.Record{
				ID:           "x",
				Timestamp:    time.Now(),
				Provider:     "gemini",
				Model:        "gemini-1.5-flash",
				Outcome:      history.OutcomeSuccess,
				PromptTokens: intp(4),
			})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := store.Query(ctx, nil)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("Query() returned %d records", len(got))
			}
			if got[0].PromptTokens == nil || *got[0].PromptTokens != 4 {
				t.Errorf("PromptTokens = %v, want 4", got[0].PromptTokens)
			}
			if got[0].CompletionTokens != nil || got[0].TotalTokens != nil {
				t.Errorf("absent counters came back as %v/%v", got[0].CompletionTokens, got[0].TotalTokens)
			}
		})
	}
}

func TestStore_QueryFilters(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	since := base.Add(time.Minute)
	before := base.Add(3 * time.Minute)

	tests := []struct {
		name  string
		query *history.Query
		want  string
	}{
		{"all newest first", &history.Query{}, "dcba"},
		{"provider", &history.Query{Provider: "openai"}, "ca"},
		{"model", &history.Query{Model: "claude"}, "b"},
		{"outcome", &history.Query{Outcome: history.OutcomeSuccess}, "da"},
		{"since", &history.Query{Since: &since}, "dcb"},
		{"before", &history.Query{Before: &before}, "cba"},
		{"window", &history.Query{Since: &since, Before: &before}, "cb"},
		{"ids", &history.Query{IDs: []string{"a", "d"}}, "da"},
		{"limit", &history.Query{Limit: 2}, "dc"},
		{"offset", &history.Query{Offset: 1, Limit: 2}, "cb"},
		{"offset only", &history.Query{Offset: 3}, "a"},
		{"offset past end", &history.Query{Offset: 10}, ""},
	}

	for name, store := range stores(t) {
		seed(t, store, base)
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := store.Query(context.Background(), tt.query)
				if err != nil {
					t.Fatalf("Query() error = %v", err)
				}
				if ids(got) != tt.want {
					t.Errorf("Query() ids = %q, want %q", ids(got), tt.want)
				}
			})
		}
	}
}

func TestStore_CountAndDelete(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed(t, store, base)

			count, err := store.Count(ctx, &history.Query{Provider: "openai"})
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if count != 2 {
				t.Errorf("Count(openai) = %d, want 2", count)
			}

			cutoff := base.Add(2 * time.Minute)
			deleted, err := store.Delete(ctx, &history.Query{Before: &cutoff})
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if deleted != 2 {
				t.Errorf("Delete() = %d, want 2", deleted)
			}

			remaining, err := store.Query(ctx, &history.Query{})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if ids(remaining) != "dc" {
				t.Errorf("remaining ids = %q, want dc", ids(remaining))
			}

			total, err := store.Count(ctx, nil)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if total != 2 {
				t.Errorf("Count() = %d, want 2", total)
			}
		})
	}
}

func TestStore_DuplicateID(t *testing.T) {
	store, _ := createTempDB(t)
	ctx := context.Background()

	r := &history.Record{ID: "dup", Timestamp: time.Now(), Provider: "openai", Model: "m", Outcome: history.OutcomeSuccess}
	if err := store.Save(ctx, r); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	err := store.Save(ctx, r)
	if err == nil {
		t.Fatal("second Save() expected error")
	}
	var storageErr *history.StorageError
	if !errors.As(err, &storageErr) || storageErr.Operation != "save" {
		t.Errorf("error = %v, want StorageError for save", err)
	}
}

func TestSQLiteStore_Initialize(t *testing.T) {
	store, dbPath := createTempDB(t)

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file was not created: %v", err)
	}

	// Re-opening the same file must accept the existing schema.
	store.Close()
	again, err := NewSQLiteStore(&SQLiteConfig{Path: dbPath, WALMode: true, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("re-open error = %v", err)
	}
	defer again.Close()
}

func TestSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore(&SQLiteConfig{}); err == nil {
		t.Error("NewSQLiteStore() with empty path expected error")
	}
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(&SQLiteConfig{Path: MemoryPath, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSQLiteStore(:memory:) error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		r := &history.Record{ID: fmt.Sprintf("m%d", i), Timestamp: time.Now(), Provider: "openai", Model: "m", Outcome: history.OutcomeSuccess}
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	count, err := store.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.HistoryConfig
		wantErr bool
	}{
		{
			name: "memory",
			cfg:  config.HistoryConfig{Backend: BackendMemory},
		},
		{
			name: "sqlite",
			cfg: config.HistoryConfig{
				Backend: BackendSQLite,
				SQLite: config.SQLiteConfig{
					Path:        filepath.Join(t.TempDir(), "h.db"),
					WALMode:     true,
					BusyTimeout: time.Second,
				},
			},
		},
		{
			name:    "unknown backend",
			cfg:     config.HistoryConfig{Backend: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store != nil {
				store.Close()
			}
		})
	}
}
