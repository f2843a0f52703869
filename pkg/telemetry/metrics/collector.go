package metrics

import (
	"fmt"
	"sync"
	"time"

	"mercator-hq/unifiedllm/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for requests_total.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector owns the Prometheus registry and the gateway metric families.
//
// A nil *Collector is valid and records nothing, so callers can pass one
// through without checking whether metrics are enabled.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	providerMetrics *ProviderMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "unifiedllm"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "gateway"
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		// Chat completions land between a few hundred ms and a minute
		cfg.RequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0}
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000),
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.providerMetrics = NewProviderMetrics(cfg, registry)

	return c
}

// RecordRequest records one finished gateway call.
//
// Parameters:
//   - provider: provider id ("openai", "anthropic", "gemini")
//   - model: model name as configured on the gateway
//   - outcome: OutcomeSuccess or OutcomeError
//   - duration: wall time of the call, including validation
func (c *Collector) RecordRequest(provider, model, outcome string, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.requestMetrics.RecordRequest(provider, c.limitModel(provider, model), outcome, duration)
}

// RecordTokens adds the token counters reported by the vendor. Negative
// values mean "not reported" and are skipped.
func (c *Collector) RecordTokens(provider, model string, prompt, completion, total int) {
	if !c.enabled() {
		return
	}

	c.requestMetrics.RecordTokens(provider, c.limitModel(provider, model), prompt, completion, total)
}

// RecordError records a failed call by error kind (see providers.ErrorKind).
func (c *Collector) RecordError(provider, kind string) {
	if !c.enabled() {
		return
	}

	c.providerMetrics.RecordError(provider, kind)
}

// CallStarted increments the in-flight gauge for provider.
func (c *Collector) CallStarted(provider string) {
	if !c.enabled() {
		return
	}

	c.providerMetrics.inFlight.WithLabelValues(provider).Inc()
}

// CallFinished decrements the in-flight gauge for provider.
func (c *Collector) CallFinished(provider string) {
	if !c.enabled() {
		return
	}

	c.providerMetrics.inFlight.WithLabelValues(provider).Dec()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// limitModel folds new model labels into "other" once the cardinality
// budget is spent.
func (c *Collector) limitModel(provider, model string) string {
	if c.cardinalityLimiter.Allow(fmt.Sprintf("%s:%s", provider, model)) {
		return model
	}
	return "other"
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
