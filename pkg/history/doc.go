// Package history keeps a log of gateway calls for later inspection.
//
// Every call made through a gateway with a Recorder attached, successful or
// not, becomes one Record: provider, model, message count, the last prompt,
// the response text or error, the outcome kind, status code, latency, token
// counters and the vendor request id.
//
// # Architecture
//
//  1. Recorder - assigns ids, scrubs credentials, truncates long text fields
//  2. Storage backend - persists records (storage.SQLiteStore, storage.MemoryStore)
//  3. Retention - prunes records by age or count (retention.Pruner, on a cron schedule)
//  4. Export - renders records as JSON or CSV (export package)
//
// # Basic Usage
//
//	store, err := storage.Open(cfg.History)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	rec := history.NewRecorder(store, history.RecorderConfig{
//	    MaxFieldLength: cfg.History.MaxFieldLength,
//	})
//
//	records, err := store.Query(ctx, &history.Query{Provider: "openai", Limit: 20})
//
// # Thread Safety
//
// Stores and the Recorder are safe for concurrent use.
package history
