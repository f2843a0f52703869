// Package storage provides backends for the call history.
//
//   - SQLiteStore: embedded database (modernc.org/sqlite, no cgo) with WAL
//     mode and a busy timeout, the default backend
//   - MemoryStore: in-process map, for tests and the "memory" backend
//
// Open picks one from config.HistoryConfig:
//
//	store, err := storage.Open(cfg.History)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package storage
