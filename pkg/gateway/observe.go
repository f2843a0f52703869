package gateway

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/unifiedllm/pkg/history"
	"mercator-hq/unifiedllm/pkg/providers"
	"mercator-hq/unifiedllm/pkg/telemetry/logging"
	"mercator-hq/unifiedllm/pkg/telemetry/metrics"
	"mercator-hq/unifiedllm/pkg/telemetry/tracing"
)

// callObservation is everything reported about one finished call.
type callObservation struct {
	callID       string
	model        string
	start        time.Time
	messageCount int
	prompt       string
	resp         *providers.Response
	err          error
}

// observe reports a finished call to logs, metrics, the span and history.
// History write failures are logged and never change the call result.
func (g *Gateway) observe(ctx context.Context, span trace.Span, obs callObservation) {
	provider := string(g.id)
	duration := time.Since(obs.start)
	logger := g.logger.With(logging.Attrs(ctx)...)

	record := &history.Record{
		ID:           obs.callID,
		Timestamp:    obs.start,
		Provider:     provider,
		Model:        obs.model,
		MessageCount: obs.messageCount,
		Prompt:       obs.prompt,
		Latency:      duration,
	}

	if obs.err != nil {
		kind := string(providers.KindOf(obs.err))

		g.metrics.RecordRequest(provider, obs.model, metrics.OutcomeError, duration)
		g.metrics.RecordError(provider, kind)
		tracing.SetErrorAttributes(span, obs.err, kind)

		record.Outcome = kind
		record.Error = obs.err.Error()
		var apiErr *providers.APIError
		if errors.As(obs.err, &apiErr) {
			record.StatusCode = apiErr.StatusCode
			record.RequestID = apiErr.RequestID
			tracing.SetResponseAttributes(span, apiErr.StatusCode, apiErr.RequestID, duration)
		}

		logger.Warn("chat call failed",
			"kind", kind,
			"duration_ms", duration.Milliseconds(),
			"error", obs.err,
		)
	} else {
		resp := obs.resp
		prompt, completion, total := tokenCounts(resp.Usage)

		g.metrics.RecordRequest(provider, obs.model, metrics.OutcomeSuccess, duration)
		g.metrics.RecordTokens(provider, obs.model, prompt, completion, total)
		tracing.SetResponseAttributes(span, resp.StatusCode, resp.RequestID, resp.Latency)
		tracing.SetTokenAttributes(span, prompt, completion, total)
		span.SetStatus(codes.Ok, "")

		record.Outcome = history.OutcomeSuccess
		record.StatusCode = resp.StatusCode
		record.Latency = resp.Latency
		record.Response = resp.Text
		record.RequestID = resp.RequestID
		if resp.Usage != nil {
			record.PromptTokens = resp.Usage.PromptTokens
			record.CompletionTokens = resp.Usage.CompletionTokens
			record.TotalTokens = resp.Usage.TotalTokens
		}

		logger.Info("chat call succeeded",
			"status", resp.StatusCode,
			"latency_ms", resp.LatencyMS(),
			"request_id", resp.RequestID,
			"total_tokens", total,
		)
	}

	if g.recorder != nil {
		// Errors are logged by the recorder.
		_, _ = g.recorder.Record(ctx, record)
	}
}

// tokenCounts flattens usage into ints, -1 marking an absent counter.
func tokenCounts(u *providers.Usage) (prompt, completion, total int) {
	if u == nil {
		return -1, -1, -1
	}
	return intOr(u.PromptTokens, -1), intOr(u.CompletionTokens, -1), intOr(u.TotalTokens, -1)
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
