package main

import (
	"context"
	"log/slog"

	"mercator-hq/unifiedllm/pkg/cli"
	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/history"
	"mercator-hq/unifiedllm/pkg/history/storage"
	"mercator-hq/unifiedllm/pkg/security/secrets"
	"mercator-hq/unifiedllm/pkg/telemetry/logging"
	"mercator-hq/unifiedllm/pkg/telemetry/metrics"
	"mercator-hq/unifiedllm/pkg/telemetry/tracing"
)

// services holds the per-command infrastructure built from the
// configuration. Optional parts are nil when disabled.
type services struct {
	cfg    *config.Config
	logger *slog.Logger

	secrets  *secrets.Manager
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	store    history.Store
	recorder *history.Recorder
}

// newServices builds the credential chain, metrics, tracing and, when
// recording is enabled, the history store. A history store that cannot be
// opened only disables recording.
func newServices(cfg *config.Config) (*services, error) {
	s := &services{
		cfg:    cfg,
		logger: slog.Default().With("component", "cli"),
	}

	mgr, err := secrets.NewFromConfig(cfg.Credentials)
	if err != nil {
		return nil, cli.NewCommandError("credentials", err)
	}
	s.secrets = mgr

	if cfg.Telemetry.Metrics.Enabled {
		s.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		s.close(context.Background())
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}
	s.tracer = tracer

	if cfg.History.Enabled {
		store, err := storage.Open(cfg.History)
		if err != nil {
			s.logger.Warn("call history disabled", "backend", cfg.History.Backend, "error", err)
		} else {
			s.store = store
			s.recorder = history.NewRecorder(store, history.RecorderConfig{
				MaxFieldLength: cfg.History.MaxFieldLength,
				Redactor:       logging.NewRedactor(cfg.Telemetry.Logging.RedactPatterns),
			})
		}
	}

	return s, nil
}

// close flushes metrics and spans and releases the store and secrets.
// Failures are logged; the command result is already decided.
func (s *services) close(ctx context.Context) {
	if path := s.cfg.Telemetry.Metrics.TextfilePath; path != "" && s.metrics != nil {
		if err := s.metrics.WriteTextfile(path); err != nil {
			s.logger.Warn("failed to write metrics", "path", path, "error", err)
		}
	}
	if s.tracer != nil {
		if err := s.tracer.Shutdown(ctx); err != nil {
			s.logger.Warn("failed to flush spans", "error", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("failed to close history store", "error", err)
		}
	}
	if s.secrets != nil {
		if err := s.secrets.Close(); err != nil {
			s.logger.Warn("failed to close credential sources", "error", err)
		}
	}
}
