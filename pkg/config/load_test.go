package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "unifiedllm.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
gateway:
  provider: anthropic
  timeout: 45s
  system_prompt: "Be brief."
  models:
    anthropic: claude-3-5-sonnet-latest
  generation:
    temperature: 0.2
    max_tokens: 512
    stop: ["END"]
    custom:
      top_k: 40

credentials:
  env_prefix: "ACME_"

history:
  enabled: false
  backend: memory
  retention:
    days: 7
    max_records: 1000

telemetry:
  logging:
    level: debug
    format: json
    redact_secrets: false
  metrics:
    enabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Gateway.Provider != "anthropic" {
		t.Errorf("provider = %q", cfg.Gateway.Provider)
	}
	if cfg.Gateway.Timeout != 45*time.Second {
		t.Errorf("timeout = %v", cfg.Gateway.Timeout)
	}
	if got := cfg.Gateway.ModelFor("anthropic"); got != "claude-3-5-sonnet-latest" {
		t.Errorf("model = %q", got)
	}
	if got := cfg.Gateway.ModelFor("gemini"); got != "gemini-1.5-flash" {
		t.Errorf("expected default gemini model kept, got %q", got)
	}

	gen := cfg.Gateway.Generation.ToProviders()
	if gen.Temperature == nil || *gen.Temperature != 0.2 {
		t.Errorf("temperature = %v", gen.Temperature)
	}
	if gen.Custom["top_k"] != 40 {
		t.Errorf("custom top_k = %v", gen.Custom["top_k"])
	}

	if cfg.History.Enabled {
		t.Error("expected history disabled by the file")
	}
	if cfg.History.Retention.MaxRecords != 1000 {
		t.Errorf("max_records = %d", cfg.History.Retention.MaxRecords)
	}
	if cfg.Telemetry.Logging.RedactSecrets {
		t.Error("expected redact_secrets false from file")
	}
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("format = %q", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "gateway: [unclosed",
			wantErr: "failed to parse",
		},
		{
			name:    "invalid values",
			content: "gateway:\n  timeout: -1s\nhistory:\n  backend: postgres\n",
			wantErr: "2 errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "gateway:\n  provider: openai\n")

	t.Setenv("UNIFIEDLLM_GATEWAY_PROVIDER", "gemini")
	t.Setenv("UNIFIEDLLM_GATEWAY_TIMEOUT", "12s")
	t.Setenv("UNIFIEDLLM_HISTORY_ENABLED", "false")
	t.Setenv("UNIFIEDLLM_HISTORY_RETENTION_DAYS", "3")
	t.Setenv("UNIFIEDLLM_TELEMETRY_TRACING_SAMPLE_RATIO", "0.5")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Gateway.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.Gateway.Provider)
	}
	if cfg.Gateway.Timeout != 12*time.Second {
		t.Errorf("timeout = %v", cfg.Gateway.Timeout)
	}
	if cfg.History.Enabled {
		t.Error("expected history disabled by env")
	}
	if cfg.History.Retention.Days != 3 {
		t.Errorf("retention days = %d", cfg.History.Retention.Days)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.5 {
		t.Errorf("sample ratio = %v", cfg.Telemetry.Tracing.SampleRatio)
	}
}

func TestLoadConfigWithEnvOverrides_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("UNIFIEDLLM_GATEWAY_MODEL", "gpt-4o")

	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			t.Fatalf("LoadConfigWithEnvOverrides(%q) error = %v", path, err)
		}
		if cfg.Gateway.Provider != DefaultProvider || cfg.Gateway.Model != "gpt-4o" {
			t.Errorf("unexpected gateway config %+v", cfg.Gateway)
		}
	}
}

func TestLoadConfigWithEnvOverrides_BadValue(t *testing.T) {
	t.Setenv("UNIFIEDLLM_GATEWAY_TIMEOUT", "soon")
	t.Setenv("UNIFIEDLLM_HISTORY_ENABLED", "maybe")

	_, err := LoadConfigWithEnvOverrides("")

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %v", verr.Errors)
	}
	if verr.Errors[0].Field != "UNIFIEDLLM_GATEWAY_TIMEOUT" {
		t.Errorf("unexpected field %q", verr.Errors[0].Field)
	}
}
