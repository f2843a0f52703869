package metrics

import (
	"mercator-hq/unifiedllm/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks per-provider error and concurrency state.
//
// Metrics:
//   - unifiedllm_gateway_errors_total: failed calls by provider and error kind
//   - unifiedllm_gateway_in_flight: calls currently waiting on a provider
type ProviderMetrics struct {
	errors   *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "Total number of failed chat calls by error kind",
			},
			[]string{"provider", "kind"},
		),

		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "in_flight",
				Help:      "Number of chat calls currently in flight",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(pm.errors, pm.inFlight)

	return pm
}

// RecordError records a failed call.
//
// Kinds follow providers.ErrorKind:
//   - "config": bad adapter, endpoint or custom parameter setup
//   - "missing_credential": no API key available
//   - "transport": timeout or network failure
//   - "api": vendor answered with status >= 400
//   - "parse": response body unusable
//   - "validation": caller input rejected before sending
func (pm *ProviderMetrics) RecordError(provider, kind string) {
	pm.errors.WithLabelValues(provider, kind).Inc()
}
