package secrets

import (
	"context"
	"errors"
	"testing"
)

func TestEnvProvider_GetSecret(t *testing.T) {
	t.Setenv("UNIFIEDLLM_OPENAI_API_KEY", "  sk-prefixed  ")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-plain")
	t.Setenv("GEMINI_API_KEY", "   ")

	tests := []struct {
		name     string
		prefix   string
		secret   string
		want     string
		notFound bool
	}{
		{name: "prefixed lookup", prefix: "UNIFIEDLLM_", secret: "openai-api-key", want: "sk-prefixed"},
		{name: "plain env name", prefix: "", secret: "ANTHROPIC_API_KEY", want: "sk-ant-plain"},
		{name: "blank counts as missing", prefix: "", secret: "GEMINI_API_KEY", notFound: true},
		{name: "unset", prefix: "", secret: "NOPE_API_KEY", notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewEnvProvider(tt.prefix)

			got, err := p.GetSecret(context.Background(), tt.secret)
			if tt.notFound {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvProvider_SecretNameConversion(t *testing.T) {
	p := NewEnvProvider("UNIFIEDLLM_")

	tests := []struct {
		name   string
		envVar string
	}{
		{"openai-api-key", "UNIFIEDLLM_OPENAI_API_KEY"},
		{"GEMINI_API_KEY", "UNIFIEDLLM_GEMINI_API_KEY"},
		{" token ", "UNIFIEDLLM_TOKEN"},
	}

	for _, tt := range tests {
		if got := p.secretNameToEnvVar(tt.name); got != tt.envVar {
			t.Errorf("secretNameToEnvVar(%q) = %q, want %q", tt.name, got, tt.envVar)
		}
	}

	if got := p.envVarToSecretName("UNIFIEDLLM_OPENAI_API_KEY"); got != "openai-api-key" {
		t.Errorf("envVarToSecretName() = %q", got)
	}
}

func TestEnvProvider_ListSecrets(t *testing.T) {
	t.Setenv("ULLMTEST_ONE", "1")
	t.Setenv("ULLMTEST_TWO_KEY", "2")

	names, err := NewEnvProvider("ULLMTEST_").ListSecrets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["one"] || !found["two-key"] {
		t.Errorf("expected one and two-key, got %v", names)
	}

	names, _ = NewEnvProvider("").ListSecrets(context.Background())
	if len(names) != 0 {
		t.Errorf("expected no names without prefix, got %d", len(names))
	}
}

func TestEnvProvider_Metadata(t *testing.T) {
	p := NewEnvProvider("")
	if p.Provider() != "env" {
		t.Errorf("Provider() = %q", p.Provider())
	}
	if !p.Supports("anything") {
		t.Error("expected env provider to support any name")
	}
}
