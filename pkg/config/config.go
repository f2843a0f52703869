package config

import (
	"time"

	"mercator-hq/unifiedllm/pkg/providers"
)

// Config is the root configuration structure for unifiedllm.
type Config struct {
	// Gateway selects the provider and model and holds the default
	// generation options.
	Gateway GatewayConfig `yaml:"gateway"`

	// Credentials describes where API keys are looked up.
	Credentials CredentialsConfig `yaml:"credentials"`

	// History controls the call log and its retention.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging, metrics and tracing settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GatewayConfig configures the chat gateway.
type GatewayConfig struct {
	// Provider is the provider id ("openai", "anthropic", "gemini").
	// Default: "openai"
	Provider string `yaml:"provider"`

	// Model overrides the per-provider default model from Models.
	Model string `yaml:"model"`

	// Models maps provider ids to the model used when Model is empty.
	Models map[string]string `yaml:"models"`

	// APIKey is an explicit key. It may be a ${secret:name} reference.
	// Leave empty to use the credential chain.
	APIKey string `yaml:"api_key"`

	// BaseURL replaces the vendor's default base URL (proxies, tests).
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// SystemPrompt is installed on the gateway at startup when non-empty.
	SystemPrompt string `yaml:"system_prompt"`

	// Generation holds default generation options.
	Generation GenerationConfig `yaml:"generation"`

	// TLS customizes outbound TLS, e.g. for a corporate proxy with a
	// private CA. The zero value uses the system roots.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains client TLS settings for provider connections.
type TLSConfig struct {
	// CAFile is a PEM bundle added to the system roots.
	CAFile string `yaml:"ca_file"`

	// CertFile and KeyFile present a client certificate. Set both or neither.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// MinVersion is "1.2" or "1.3".
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// ServerName overrides the name used for certificate verification.
	ServerName string `yaml:"server_name"`

	// InsecureSkipVerify disables certificate verification. Tests only.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// ModelFor returns the model to use with provider: Model when set,
// otherwise the provider's entry in Models.
func (g GatewayConfig) ModelFor(provider string) string {
	if g.Model != "" {
		return g.Model
	}
	return g.Models[provider]
}

// GenerationConfig is the YAML form of providers.GenerationConfig.
type GenerationConfig struct {
	Temperature *float64       `yaml:"temperature"`
	TopP        *float64       `yaml:"top_p"`
	MaxTokens   *int           `yaml:"max_tokens"`
	Stop        []string       `yaml:"stop"`
	Custom      map[string]any `yaml:"custom"`
}

// ToProviders converts the YAML generation options into the canonical form.
// The result shares nothing with g.
func (g GenerationConfig) ToProviders() providers.GenerationConfig {
	return providers.GenerationConfig{
		Temperature: g.Temperature,
		TopP:        g.TopP,
		MaxTokens:   g.MaxTokens,
		Stop:        g.Stop,
		Custom:      g.Custom,
	}.Clone()
}

// CredentialsConfig configures the credential chain.
type CredentialsConfig struct {
	// EnvPrefix adds a prefixed environment lookup ahead of the plain one,
	// e.g. "UNIFIEDLLM_" reads UNIFIEDLLM_OPENAI_API_KEY first.
	EnvPrefix string `yaml:"env_prefix"`

	// SecretsDir is a directory with one file per secret (Kubernetes or
	// Docker secret mounts). Empty disables file lookup.
	SecretsDir string `yaml:"secrets_dir"`

	// Watch reloads secrets when files in SecretsDir change.
	Watch bool `yaml:"watch"`

	// CacheTTL caches resolved credentials. Zero disables caching.
	// Default: 5m
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// HistoryConfig configures the call history store.
type HistoryConfig struct {
	// Enabled turns call recording on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend is "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite configures the SQLite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// MaxFieldLength truncates prompt and response text stored per record.
	// Zero stores the full text.
	// Default: 4000
	MaxFieldLength int `yaml:"max_field_length"`

	// Retention controls pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite backend settings.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: <user cache dir>/unifiedllm/history.db
	Path string `yaml:"path"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig controls history pruning.
type RetentionConfig struct {
	// Days keeps records newer than this many days. Zero keeps forever.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords caps the number of stored records. Zero means no cap.
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a standard 5-field cron expression used by the
	// background pruner.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	// Default: "warn"
	Level string `yaml:"level"`

	// Format is "json", "text" or "console".
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes file and line in each record.
	AddSource bool `yaml:"add_source"`

	// RedactSecrets scrubs API keys and bearer tokens from log output.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`

	// RedactPatterns adds custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern is a custom redaction rule.
type RedactPattern struct {
	// Name identifies the pattern.
	Name string `yaml:"name"`

	// Pattern is a Go regular expression.
	Pattern string `yaml:"pattern"`

	// Replacement replaces each match; it may use $1-style group references.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespace and Subsystem prefix every metric name.
	// Default: "unifiedllm" and "gateway"
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets are the latency histogram buckets in seconds.
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`

	// TextfilePath, when set, receives a textfile export after each CLI
	// command for node_exporter's textfile collector.
	TextfilePath string `yaml:"textfile_path"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampler is "always", "never" or "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is used by the "ratio" sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter is the span exporter; only "otlp" is supported.
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP/gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is reported as service.name.
	// Default: "unifiedllm"
	ServiceName string `yaml:"service_name"`

	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter options.
type OTLPConfig struct {
	Insecure bool          `yaml:"insecure"`
	Timeout  time.Duration `yaml:"timeout"`
}
