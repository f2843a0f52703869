package tracing

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on gateway spans. Custom keys use the "unifiedllm.*"
// namespace; HTTP status follows the OpenTelemetry semantic conventions.
const (
	AttrProvider     = "unifiedllm.provider"
	AttrModel        = "unifiedllm.model"
	AttrCallID       = "unifiedllm.call_id"
	AttrMessageCount = "unifiedllm.message_count"
	AttrRequestID    = "unifiedllm.request_id"
	AttrLatencyMs    = "unifiedllm.latency_ms"
	AttrStatusCode   = "http.response.status_code"

	AttrTokensPrompt     = "unifiedllm.tokens.prompt"
	AttrTokensCompletion = "unifiedllm.tokens.completion"
	AttrTokensTotal      = "unifiedllm.tokens.total"

	AttrErrorKind = "unifiedllm.error.kind"
)

// SetCallID tags the span with the gateway call id.
func SetCallID(span trace.Span, callID string) {
	span.SetAttributes(attribute.String(AttrCallID, callID))
}

// SetResponseAttributes records what the vendor answered with.
//
// Example:
//
//	SetResponseAttributes(span, 200, "req-123", 850*time.Millisecond)
func SetResponseAttributes(span trace.Span, statusCode int, requestID string, latency time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrStatusCode, statusCode),
		attribute.Int64(AttrLatencyMs, latency.Milliseconds()),
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	span.SetAttributes(attrs...)
}

// SetTokenAttributes sets token count attributes on a span. Negative counts
// mean the vendor did not report them and are left off.
func SetTokenAttributes(span trace.Span, prompt, completion, total int) {
	var attrs []attribute.KeyValue
	if prompt >= 0 {
		attrs = append(attrs, attribute.Int(AttrTokensPrompt, prompt))
	}
	if completion >= 0 {
		attrs = append(attrs, attribute.Int(AttrTokensCompletion, completion))
	}
	if total >= 0 {
		attrs = append(attrs, attribute.Int(AttrTokensTotal, total))
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

// SetErrorAttributes records err on the span with its error kind and marks
// the span as failed.
func SetErrorAttributes(span trace.Span, err error, kind string) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String(AttrErrorKind, kind))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
