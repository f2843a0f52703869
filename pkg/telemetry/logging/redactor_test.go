package logging

import (
	"testing"

	"mercator-hq/unifiedllm/pkg/config"
)

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"openai key", "key is sk-proj-abcdefghijkl", "key is sk-***"},
		{"anthropic key", "sk-ant-api03-AbC_123-xyz", "sk-ant-***"},
		{"google key", "AIzaSyDabcdefghijklmnopqrstuvwx", "AIza***"},
		{"bearer", "Authorization: Bearer abc.def-ghi", "Authorization: Bearer ***"},
		{"query param", "url?api_key=12345&x=1", "url?api_key=***&x=1"},
		{"header", "x-api-key: abcdef", "x-api-key: ***"},
		{"short sk prefix untouched", "task-list", "task-list"},
		{"plain text", "hello world", "hello world"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_isSensitiveKey(t *testing.T) {
	r := NewRedactor(nil)

	for _, key := range []string{"api_key", "API_KEY", "Authorization", "client_secret", "session_token"} {
		if !r.isSensitiveKey(key) {
			t.Errorf("expected %q to be sensitive", key)
		}
	}
	for _, key := range []string{"provider", "model", "latency_ms"} {
		if r.isSensitiveKey(key) {
			t.Errorf("expected %q not to be sensitive", key)
		}
	}
}

func TestRedactAPIKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"sk-abcdef", "sk-a***"},
		{"abc", "***"},
		{"", "***"},
	}

	for _, tt := range tests {
		if got := RedactAPIKey(tt.input); got != tt.want {
			t.Errorf("RedactAPIKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRedactor_CustomPatterns(t *testing.T) {
	r := NewRedactor([]config.RedactPattern{
		{Name: "org", Pattern: `org-[a-z0-9]+`, Replacement: "org-***"},
		{Name: "broken", Pattern: `([`, Replacement: "x"},
	})

	if got := r.RedactString("OpenAI-Organization: org-abc123"); got != "OpenAI-Organization: org-***" {
		t.Errorf("unexpected result %q", got)
	}
}
