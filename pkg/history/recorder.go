package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mercator-hq/unifiedllm/pkg/telemetry/logging"
)

// RecorderConfig contains configuration for the call recorder.
type RecorderConfig struct {
	// MaxFieldLength is the maximum length for Prompt, Response and Error
	// before truncation. 0 disables truncation.
	MaxFieldLength int

	// WriteTimeout bounds a single write to the store.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// Redactor scrubs credentials from text fields. Nil disables redaction.
	Redactor *logging.Redactor
}

// Recorder writes gateway call records to a Store. Writes are synchronous;
// a CLI process records a call and may exit right after.
type Recorder struct {
	store  Store
	config RecorderConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store Store, cfg RecorderConfig) *Recorder {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &Recorder{
		store:  store,
		config: cfg,
		logger: slog.Default().With("component", "history.recorder"),
		now:    time.Now,
	}
}

// Store returns the backing store.
func (r *Recorder) Store() Store {
	return r.store
}

// Record fills in the ID and timestamp when missing, truncates and scrubs the
// text fields, and saves the record. The caller's record is not modified.
func (r *Recorder) Record(ctx context.Context, record *Record) (*Record, error) {
	rec := *record
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = r.now()
	}
	rec.Timestamp = rec.Timestamp.UTC()

	rec.Prompt = r.scrub(rec.Prompt)
	rec.Response = r.scrub(rec.Response)
	rec.Error = r.scrub(rec.Error)

	// The write must not be cut short by a caller context that was cancelled
	// as part of the failure being recorded.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.store.Save(writeCtx, &rec); err != nil {
		r.logger.Error("failed to store call record",
			"record_id", rec.ID,
			"provider", rec.Provider,
			"error", err,
		)
		return nil, &RecorderError{RecordID: rec.ID, Cause: err}
	}

	duration := time.Since(start)
	r.logger.Debug("call recorded",
		"record_id", rec.ID,
		"provider", rec.Provider,
		"outcome", rec.Outcome,
		"duration_ms", duration.Milliseconds(),
	)
	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow history write",
			"record_id", rec.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}

	return &rec, nil
}

func (r *Recorder) scrub(s string) string {
	if r.config.Redactor != nil {
		s = r.config.Redactor.RedactString(s)
	}
	return Truncate(s, r.config.MaxFieldLength)
}

// Truncate shortens s to at most max runes, marking the cut with "...".
// A max of 0 or less leaves s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
