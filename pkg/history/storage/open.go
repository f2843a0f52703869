package storage

import (
	"fmt"

	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/history"
)

// Backend names accepted in history.backend.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open creates the store selected by cfg.Backend.
func Open(cfg config.HistoryConfig) (history.Store, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		store, err := NewSQLiteStore(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported history backend %q (supported: %s, %s)",
			cfg.Backend, BackendSQLite, BackendMemory)
	}
}
