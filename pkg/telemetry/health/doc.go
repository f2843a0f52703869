// Package health runs diagnostic checks against the pieces a gateway call
// depends on: credentials, the history store and TLS material.
//
// Checks are registered by name and run concurrently, each bounded by its
// own timeout:
//
//	checker := health.New(5 * time.Second)
//	checker.Register("history", func(ctx context.Context) error {
//		_, err := store.Count(ctx, &history.Query{})
//		return err
//	})
//
//	report := checker.Run(ctx)
//	if !report.Healthy() {
//		os.Exit(1)
//	}
//
// A check returns nil for ok, a *Warning (see Warnf) for a usable component
// with a caveat, and any other error for a failure. The report status is the
// worst individual status; a timed-out check fails.
//
// Report implements the text and CSV output interfaces of package cli, so
// the doctor command can print it in any output format.
package health
