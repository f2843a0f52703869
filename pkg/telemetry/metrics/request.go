package metrics

import (
	"time"

	"mercator-hq/unifiedllm/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks gateway calls.
//
// Metrics:
//   - unifiedllm_gateway_requests_total: calls by provider, model, outcome
//   - unifiedllm_gateway_latency_seconds: call latency histogram
//   - unifiedllm_gateway_tokens_total: reported tokens by type
type RequestMetrics struct {
	requestsTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	tokensTotal   *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of chat calls made through the gateway",
			},
			[]string{"provider", "model", "outcome"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "latency_seconds",
				Help:      "Latency of chat calls in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider", "model"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tokens_total",
				Help:      "Total number of tokens reported by providers",
			},
			[]string{"provider", "model", "type"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.latency,
		rm.tokensTotal,
	)

	return rm
}

// RecordRequest increments the call counter and observes latency.
func (rm *RequestMetrics) RecordRequest(provider, model, outcome string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(provider, model, outcome).Inc()
	rm.latency.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// RecordTokens records token counts for prompt, completion and total.
// Negative counts are skipped.
func (rm *RequestMetrics) RecordTokens(provider, model string, prompt, completion, total int) {
	if prompt >= 0 {
		rm.tokensTotal.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	}
	if completion >= 0 {
		rm.tokensTotal.WithLabelValues(provider, model, "completion").Add(float64(completion))
	}
	if total >= 0 {
		rm.tokensTotal.WithLabelValues(provider, model, "total").Add(float64(total))
	}
}
