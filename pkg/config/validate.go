package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "gateway.timeout").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats    = []string{"json", "text", "console"}
	validBackends      = []string{"sqlite", "memory"}
	validSamplers      = []string{"always", "never", "ratio"}
	validExporters     = []string{"otlp"}
	customKeyCharacter = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGateway(&cfg.Gateway)...)
	errs = append(errs, validateCredentials(&cfg.Credentials)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateGateway(g *GatewayConfig) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(g.Provider) == "" {
		errs = append(errs, FieldError{Field: "gateway.provider", Message: "field is required"})
	}

	if g.Timeout <= 0 {
		errs = append(errs, FieldError{Field: "gateway.timeout", Message: "must be positive"})
	}

	if g.BaseURL != "" {
		u, err := url.Parse(g.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   "gateway.base_url",
				Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", g.BaseURL),
			})
		}
	}

	errs = append(errs, validateGeneration("gateway.generation", &g.Generation)...)
	errs = append(errs, validateTLS("gateway.tls", &g.TLS)...)

	return errs
}

func validateTLS(prefix string, t *TLSConfig) []FieldError {
	var errs []FieldError

	if (t.CertFile == "") != (t.KeyFile == "") {
		errs = append(errs, FieldError{Field: prefix + ".cert_file", Message: "cert_file and key_file must be set together"})
	}
	switch t.MinVersion {
	case "", "1.2", "1.3":
	default:
		errs = append(errs, FieldError{
			Field:   prefix + ".min_version",
			Message: fmt.Sprintf("must be 1.2 or 1.3, got %q", t.MinVersion),
		})
	}

	return errs
}

func validateGeneration(prefix string, g *GenerationConfig) []FieldError {
	var errs []FieldError

	if g.Temperature != nil && (*g.Temperature < 0 || *g.Temperature > 2) {
		errs = append(errs, FieldError{Field: prefix + ".temperature", Message: "must be between 0 and 2"})
	}
	if g.TopP != nil && (*g.TopP < 0 || *g.TopP > 1) {
		errs = append(errs, FieldError{Field: prefix + ".top_p", Message: "must be between 0 and 1"})
	}
	if g.MaxTokens != nil && *g.MaxTokens <= 0 {
		errs = append(errs, FieldError{Field: prefix + ".max_tokens", Message: "must be positive"})
	}
	for key := range g.Custom {
		if !customKeyCharacter.MatchString(key) {
			errs = append(errs, FieldError{
				Field:   prefix + ".custom",
				Message: fmt.Sprintf("invalid parameter name %q", key),
			})
		}
	}

	return errs
}

func validateCredentials(c *CredentialsConfig) []FieldError {
	var errs []FieldError

	if c.CacheTTL < 0 {
		errs = append(errs, FieldError{Field: "credentials.cache_ttl", Message: "must not be negative"})
	}
	if c.Watch && c.SecretsDir == "" {
		errs = append(errs, FieldError{Field: "credentials.watch", Message: "requires credentials.secrets_dir"})
	}

	return errs
}

func validateHistory(h *HistoryConfig) []FieldError {
	var errs []FieldError

	if !slices.Contains(validBackends, h.Backend) {
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validBackends, ", "), h.Backend),
		})
	}

	if h.Backend == "sqlite" && h.SQLite.Path == "" {
		errs = append(errs, FieldError{Field: "history.sqlite.path", Message: "field is required for sqlite backend"})
	}

	if h.MaxFieldLength < 0 {
		errs = append(errs, FieldError{Field: "history.max_field_length", Message: "must not be negative"})
	}
	if h.Retention.Days < 0 {
		errs = append(errs, FieldError{Field: "history.retention.days", Message: "must not be negative"})
	}
	if h.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{Field: "history.retention.max_records", Message: "must not be negative"})
	}
	if _, err := cron.ParseStandard(h.Retention.PruneSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "history.retention.prune_schedule",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		})
	}

	return errs
}

func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !slices.Contains(validLogLevels, strings.ToLower(t.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error, got %q", t.Logging.Level),
		})
	}
	if !slices.Contains(validLogFormats, strings.ToLower(t.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validLogFormats, ", "), t.Logging.Format),
		})
	}
	for i, p := range t.Logging.RedactPatterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	if !slices.IsSorted(t.Metrics.RequestDurationBuckets) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.request_duration_buckets",
			Message: "must be in increasing order",
		})
	}

	if t.Tracing.Enabled {
		if !slices.Contains(validSamplers, t.Tracing.Sampler) {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validSamplers, ", "), t.Tracing.Sampler),
			})
		}
		if t.Tracing.SampleRatio < 0 || t.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "must be between 0 and 1"})
		}
		if !slices.Contains(validExporters, t.Tracing.Exporter) {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.exporter",
				Message: fmt.Sprintf("unsupported exporter %q", t.Tracing.Exporter),
			})
		}
		if t.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "field is required when tracing is enabled"})
		}
	}

	return errs
}
