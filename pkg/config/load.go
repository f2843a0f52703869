package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "UNIFIEDLLM_"

// LoadConfig loads configuration from a YAML file at the specified path.
// Fields absent from the file keep their defaults. The result is validated;
// environment variables are not consulted (see LoadConfigWithEnvOverrides).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// UNIFIEDLLM_* environment variable overrides, which always win over the
// file. An empty path, or a path that does not exist, starts from Default().
//
// The loading sequence is:
// 1. Load YAML from file (or defaults)
// 2. Apply environment variable overrides
// 3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := loadOrDefault(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func loadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// envOverride binds one environment variable to a config field.
type envOverride struct {
	name  string
	apply func(cfg *Config, val string) error
}

var envOverrides = []envOverride{
	// Gateway
	{"GATEWAY_PROVIDER", setString(func(c *Config) *string { return &c.Gateway.Provider })},
	{"GATEWAY_MODEL", setString(func(c *Config) *string { return &c.Gateway.Model })},
	{"GATEWAY_API_KEY", setString(func(c *Config) *string { return &c.Gateway.APIKey })},
	{"GATEWAY_BASE_URL", setString(func(c *Config) *string { return &c.Gateway.BaseURL })},
	{"GATEWAY_TIMEOUT", setDuration(func(c *Config) *time.Duration { return &c.Gateway.Timeout })},
	{"GATEWAY_SYSTEM_PROMPT", setString(func(c *Config) *string { return &c.Gateway.SystemPrompt })},
	{"GATEWAY_TLS_CA_FILE", setString(func(c *Config) *string { return &c.Gateway.TLS.CAFile })},

	// Credentials
	{"CREDENTIALS_ENV_PREFIX", setString(func(c *Config) *string { return &c.Credentials.EnvPrefix })},
	{"CREDENTIALS_SECRETS_DIR", setString(func(c *Config) *string { return &c.Credentials.SecretsDir })},
	{"CREDENTIALS_WATCH", setBool(func(c *Config) *bool { return &c.Credentials.Watch })},

	// History
	{"HISTORY_ENABLED", setBool(func(c *Config) *bool { return &c.History.Enabled })},
	{"HISTORY_BACKEND", setString(func(c *Config) *string { return &c.History.Backend })},
	{"HISTORY_SQLITE_PATH", setString(func(c *Config) *string { return &c.History.SQLite.Path })},
	{"HISTORY_RETENTION_DAYS", setInt(func(c *Config) *int { return &c.History.Retention.Days })},

	// Telemetry
	{"TELEMETRY_LOGGING_LEVEL", setString(func(c *Config) *string { return &c.Telemetry.Logging.Level })},
	{"TELEMETRY_LOGGING_FORMAT", setString(func(c *Config) *string { return &c.Telemetry.Logging.Format })},
	{"TELEMETRY_METRICS_ENABLED", setBool(func(c *Config) *bool { return &c.Telemetry.Metrics.Enabled })},
	{"TELEMETRY_METRICS_TEXTFILE_PATH", setString(func(c *Config) *string { return &c.Telemetry.Metrics.TextfilePath })},
	{"TELEMETRY_TRACING_ENABLED", setBool(func(c *Config) *bool { return &c.Telemetry.Tracing.Enabled })},
	{"TELEMETRY_TRACING_ENDPOINT", setString(func(c *Config) *string { return &c.Telemetry.Tracing.Endpoint })},
	{"TELEMETRY_TRACING_SAMPLE_RATIO", setFloat(func(c *Config) *float64 { return &c.Telemetry.Tracing.SampleRatio })},
}

// applyEnvOverrides applies UNIFIEDLLM_SECTION_FIELD overrides. Unparseable
// values are reported as FieldErrors rather than silently ignored.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	for _, o := range envOverrides {
		val, ok := os.LookupEnv(EnvPrefix + o.name)
		if !ok || val == "" {
			continue
		}
		if err := o.apply(cfg, val); err != nil {
			errs = append(errs, FieldError{
				Field:   EnvPrefix + o.name,
				Message: err.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func setString(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, val string) error {
		*field(c) = val
		return nil
	}
}

func setBool(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", val)
		}
		*field(c) = b
		return nil
	}
}

func setInt(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, val string) error {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid integer %q", val)
		}
		*field(c) = i
		return nil
	}
}

func setFloat(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, val string) error {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", val)
		}
		*field(c) = f
		return nil
	}
}

func setDuration(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, val string) error {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q", val)
		}
		*field(c) = d
		return nil
	}
}
