// Package telemetry groups the observability packages used by the gateway.
//
// # Components
//
//   - logging: slog setup, call-scoped attributes and credential redaction
//   - metrics: Prometheus counters and histograms per provider and model
//   - tracing: OpenTelemetry spans around each chat call
//   - health: diagnostic checks behind the doctor command
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//	logger.SetDefault()
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(ctx)
//
//	gw, err := gateway.New(gateway.Options{
//		Provider: gateway.OpenAI,
//		Model:    "gpt-4o-mini",
//		Metrics:  collector,
//		Tracer:   tracer,
//	})
//
// Every part is optional. A nil collector or tracer turns the matching
// instrumentation into a no-op.
//
// # Redaction
//
// API keys are removed from log fields and from recorded history:
//
//   - sk-ant-abc123... → sk-ant-***
//   - sk-abc123...     → sk-***
//   - AIzaSy...        → AIza***
//   - Bearer eyJ...    → Bearer ***
//
// Custom patterns are added through telemetry.logging.redact_patterns.
package telemetry
