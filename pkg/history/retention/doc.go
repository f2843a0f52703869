// Package retention prunes call history by age and record count.
//
// # Basic Usage
//
//	pruner := retention.NewPruner(store, retention.FromConfig(cfg.History.Retention))
//
//	// One-off pruning
//	deleted, err := pruner.Prune(ctx)
//
//	// Scheduled pruning, stopped when ctx is cancelled
//	if err := pruner.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pruner.Stop()
//
// Age pruning runs first, then count pruning removes the oldest records
// beyond MaxRecords.
package retention
