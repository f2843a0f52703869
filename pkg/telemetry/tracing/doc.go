// Package tracing wraps OpenTelemetry for gateway calls.
//
// Each call through the gateway opens one client span named "gateway.chat"
// carrying the provider, model, message count and call id. On return the
// span gets the HTTP status, vendor request id, latency and token counts, or
// the error and its kind.
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    service_name: unifiedllm
//	    endpoint: localhost:4317
//	    sampler: ratio
//	    sample_ratio: 0.25
//	    otlp:
//	      insecure: true
//
// When tracing is disabled the Tracer hands out noop spans, and a nil *Tracer
// behaves the same way.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.StartChat(ctx, "openai", "gpt-4o-mini", 1)
//	defer span.End()
package tracing
