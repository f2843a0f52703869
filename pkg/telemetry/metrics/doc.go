// Package metrics provides Prometheus metrics for gateway calls.
//
// # Overview
//
// Every gateway call records one request sample, and failed calls add an error
// sample labelled with the error kind. Token counters are added when the
// vendor reports them.
//
// # Metrics
//
//	unifiedllm_gateway_requests_total{provider,model,outcome}
//	unifiedllm_gateway_latency_seconds{provider,model}
//	unifiedllm_gateway_errors_total{provider,kind}
//	unifiedllm_gateway_tokens_total{provider,model,type}
//	unifiedllm_gateway_in_flight{provider}
//
// # Usage
//
//	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, nil)
//
//	collector.RecordRequest("openai", "gpt-4o-mini", metrics.OutcomeSuccess, 800*time.Millisecond)
//	collector.RecordTokens("openai", "gpt-4o-mini", 12, 40, 52)
//
//	http.Handle("/metrics", collector.Handler())
//
// Short-lived processes such as the CLI export with WriteTextfile instead of
// serving an endpoint.
//
// # Cardinality Management
//
// Model names come from callers, so the collector caps distinct
// provider/model pairs at 10,000 and reports further models as "other".
package metrics
