package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Run("with provider", func(t *testing.T) {
		err := &ConfigError{
			Provider: "openai",
			Field:    "custom",
			Message:  "unsupported key",
		}

		expected := `provider "openai" configuration error for field "custom": unsupported key`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("without provider", func(t *testing.T) {
		err := &ConfigError{Field: "provider", Message: "not supported"}

		expected := `configuration error for field "provider": not supported`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})
}

func TestMissingCredentialError(t *testing.T) {
	err := &MissingCredentialError{
		Provider:    "anthropic",
		DisplayName: "Anthropic",
		Model:       "claude-3-haiku",
		EnvVar:      "ANTHROPIC_API_KEY",
	}

	msg := err.Error()
	for _, want := range []string{"Anthropic", "claude-3-haiku", "set ANTHROPIC_API_KEY"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q to contain %q", msg, want)
		}
	}
}

func TestTransportError(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		cause := &TimeoutError{Timeout: 2 * time.Second}
		err := &TransportError{
			Provider:    "gemini",
			DisplayName: "Gemini",
			Model:       "gemini-pro",
			Kind:        TransportTimeout,
			Timeout:     2 * time.Second,
			Cause:       cause,
		}

		expected := `Gemini request timed out after 2s (provider "gemini", model "gemini-pro")`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}

		var timeoutErr *TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Error("expected error to wrap *TimeoutError")
		}
	})

	t.Run("network", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &TransportError{
			Provider:    "openai",
			DisplayName: "OpenAI",
			Model:       "gpt-4",
			Kind:        TransportNetwork,
			Cause:       cause,
		}

		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected cause in message, got %q", err.Error())
		}
		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name: "all details",
			err: &APIError{
				DisplayName: "OpenAI",
				StatusCode:  401,
				ErrorType:   "invalid_request_error",
				Code:        "invalid_api_key",
				RequestID:   "req_1",
				Message:     "Incorrect API key",
			},
			expected: "OpenAI API error (status 401, type invalid_request_error, code invalid_api_key, request req_1): Incorrect API key",
		},
		{
			name: "status only",
			err: &APIError{
				DisplayName: "Anthropic",
				StatusCode:  529,
				Message:     "overloaded",
			},
			expected: "Anthropic API error (status 529): overloaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("invalid character '<'")
	err := &ParseError{
		Provider:    "openai",
		DisplayName: "OpenAI",
		Model:       "gpt-4",
		Detail:      "response body is not valid JSON",
		Raw:         "<html>",
		Cause:       cause,
	}

	expected := `OpenAI response parse error (provider "openai", model "gpt-4"): response body is not valid JSON`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to wrap cause")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "messages[1].role", Message: "unsupported role"}

	expected := `validation error for field "messages[1].role": unsupported role`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"config", &ConfigError{}, KindConfig},
		{"missing credential", &MissingCredentialError{}, KindMissingCredential},
		{"transport", &TransportError{}, KindTransport},
		{"api", &APIError{}, KindAPI},
		{"parse", &ParseError{}, KindParse},
		{"validation", &ValidationError{}, KindValidation},
		{"wrapped", fmt.Errorf("chat failed: %w", &APIError{}), KindAPI},
		{"unknown", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
