package retention

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/history"
	"mercator-hq/unifiedllm/pkg/history/storage"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// seedDaily stores one record per day, the newest at fixedNow.
func seedDaily(t *testing.T, store history.Store, days int) {
	t.Helper()

	for i := 0; i < days; i++ {
		r := &history.Record{
			ID:        fmt.Sprintf("r%02d", i),
			Timestamp: fixedNow.AddDate(0, 0, -i),
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Outcome:   history.OutcomeSuccess,
		}
		if err := store.Save(context.Background(), r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
}

func newTestPruner(store history.Store, cfg *Config) *Pruner {
	p := NewPruner(store, cfg)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestPruner_Prune(t *testing.T) {
	tests := []struct {
		name          string
		config        *Config
		wantDeleted   int64
		wantRemaining int64
		wantOldest    string
	}{
		{
			name:          "disabled keeps everything",
			config:        &Config{},
			wantDeleted:   0,
			wantRemaining: 10,
			wantOldest:    "r09",
		},
		{
			name:          "age only",
			config:        &Config{RetentionDays: 5},
			wantDeleted:   4,
			wantRemaining: 6,
			wantOldest:    "r05",
		},
		{
			name:          "count only",
			config:        &Config{MaxRecords: 3},
			wantDeleted:   7,
			wantRemaining: 3,
			wantOldest:    "r02",
		},
		{
			name:          "age then count",
			config:        &Config{RetentionDays: 5, MaxRecords: 2},
			wantDeleted:   8,
			wantRemaining: 2,
			wantOldest:    "r01",
		},
		{
			name:          "count above total",
			config:        &Config{MaxRecords: 50},
			wantDeleted:   0,
			wantRemaining: 10,
			wantOldest:    "r09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			seedDaily(t, store, 10)

			deleted, err := newTestPruner(store, tt.config).Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("Prune() deleted = %d, want %d", deleted, tt.wantDeleted)
			}

			remaining, _ := store.Count(context.Background(), nil)
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.wantRemaining)
			}

			records, _ := store.Query(context.Background(), &history.Query{})
			if len(records) > 0 && records[len(records)-1].ID != tt.wantOldest {
				t.Errorf("oldest remaining = %s, want %s", records[len(records)-1].ID, tt.wantOldest)
			}
		})
	}
}

func TestPruner_CountKeepsTies(t *testing.T) {
	store := storage.NewMemoryStore()
	for i := 0; i < 4; i++ {
		r := &history.Record{
			ID:        fmt.Sprintf("t%d", i),
			Timestamp: fixedNow,
			Provider:  "openai",
			Model:     "m",
			Outcome:   history.OutcomeSuccess,
		}
		if err := store.Save(context.Background(), r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	deleted, err := newTestPruner(store, &Config{MaxRecords: 3}).Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted = %d, want 1", deleted)
	}
	if store.Size() != 3 {
		t.Errorf("Size() = %d, want 3", store.Size())
	}
}

func TestPruner_SQLite(t *testing.T) {
	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
		Path:        t.TempDir() + "/history.db",
		WALMode:     true,
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	seedDaily(t, store, 10)

	deleted, err := newTestPruner(store, &Config{RetentionDays: 3, MaxRecords: 2}).Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 8 {
		t.Errorf("Prune() deleted = %d, want 8", deleted)
	}

	records, err := store.Query(context.Background(), &history.Query{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 2 || records[0].ID != "r00" || records[1].ID != "r01" {
		t.Errorf("remaining = %v, want r00 r01", records)
	}
}

// failingStore fails every Delete.
type failingStore struct {
	*storage.MemoryStore
}

func (failingStore) Delete(ctx context.Context, query *history.Query) (int64, error) {
	return 0, errors.New("locked")
}

func TestPruner_DeleteFailure(t *testing.T) {
	store := failingStore{storage.NewMemoryStore()}

	_, err := newTestPruner(store, &Config{RetentionDays: 1}).Prune(context.Background())
	if err == nil {
		t.Fatal("Prune() expected error")
	}

	var retErr *history.RetentionError
	if !errors.As(err, &retErr) {
		t.Fatalf("error type = %T, want *history.RetentionError", err)
	}
	if retErr.RetentionDays != 1 {
		t.Errorf("RetentionDays = %d, want 1", retErr.RetentionDays)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.RetentionConfig{Days: 7, MaxRecords: 100, PruneSchedule: "0 * * * *"})

	if cfg.RetentionDays != 7 || cfg.MaxRecords != 100 || cfg.PruneSchedule != "0 * * * *" {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RetentionDays != config.DefaultRetentionDays {
		t.Errorf("RetentionDays = %d, want %d", cfg.RetentionDays, config.DefaultRetentionDays)
	}
	if cfg.PruneSchedule != config.DefaultPruneSchedule {
		t.Errorf("PruneSchedule = %q, want %q", cfg.PruneSchedule, config.DefaultPruneSchedule)
	}
	if cfg.MaxRecords != 0 {
		t.Errorf("MaxRecords = %d, want 0", cfg.MaxRecords)
	}
}
