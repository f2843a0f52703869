package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration fields.
const (
	// Gateway defaults
	DefaultProvider = "openai"
	DefaultTimeout  = 30 * time.Second

	// Credentials defaults
	DefaultCredentialCacheTTL = 5 * time.Minute

	// History defaults
	DefaultHistoryEnabled        = true
	DefaultHistoryBackend        = "sqlite"
	DefaultHistoryMaxFieldLength = 4000
	DefaultSQLiteWALMode         = true
	DefaultSQLiteBusyTimeout     = 5 * time.Second
	DefaultRetentionDays         = 30
	DefaultPruneSchedule         = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel           = "warn"
	DefaultLogFormat          = "console"
	DefaultRedactSecrets      = true
	DefaultMetricsNamespace   = "unifiedllm"
	DefaultMetricsSubsystem   = "gateway"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingExporter    = "otlp"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingService     = "unifiedllm"
	DefaultOTLPTimeout        = 10 * time.Second
)

// DefaultModels are the models used when gateway.model is not set.
var DefaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
	"gemini":    "gemini-1.5-flash",
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		History: HistoryConfig{
			Enabled: DefaultHistoryEnabled,
			SQLite:  SQLiteConfig{WALMode: DefaultSQLiteWALMode},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactSecrets: DefaultRedactSecrets},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Booleans are
// left alone since false is a meaningful setting; Default covers those.
func ApplyDefaults(cfg *Config) {
	applyGatewayDefaults(&cfg.Gateway)

	if cfg.Credentials.CacheTTL == 0 {
		cfg.Credentials.CacheTTL = DefaultCredentialCacheTTL
	}

	applyHistoryDefaults(&cfg.History)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyGatewayDefaults(g *GatewayConfig) {
	if g.Provider == "" {
		g.Provider = DefaultProvider
	}
	if g.Timeout == 0 {
		g.Timeout = DefaultTimeout
	}
	if g.Models == nil {
		g.Models = make(map[string]string, len(DefaultModels))
	}
	for provider, model := range DefaultModels {
		if g.Models[provider] == "" {
			g.Models[provider] = model
		}
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Backend == "" {
		h.Backend = DefaultHistoryBackend
	}
	if h.MaxFieldLength == 0 {
		h.MaxFieldLength = DefaultHistoryMaxFieldLength
	}
	if h.SQLite.Path == "" {
		h.SQLite.Path = DefaultHistoryPath()
	}
	if h.SQLite.BusyTimeout == 0 {
		h.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if h.Retention.Days == 0 {
		h.Retention.Days = DefaultRetentionDays
	}
	if h.Retention.PruneSchedule == "" {
		h.Retention.PruneSchedule = DefaultPruneSchedule
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLogLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLogFormat
	}

	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if t.Metrics.Subsystem == "" {
		t.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	if t.Tracing.Sampler == "" {
		t.Tracing.Sampler = DefaultTracingSampler
	}
	if t.Tracing.SampleRatio == 0 {
		t.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Tracing.Exporter == "" {
		t.Tracing.Exporter = DefaultTracingExporter
	}
	if t.Tracing.Endpoint == "" {
		t.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingService
	}
	if t.Tracing.OTLP.Timeout == 0 {
		t.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}

// DefaultHistoryPath returns the default SQLite history location under the
// user cache directory, or a file in the working directory when there is none.
func DefaultHistoryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "unifiedllm-history.db"
	}
	return filepath.Join(dir, "unifiedllm", "history.db")
}
