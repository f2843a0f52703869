package providers

import (
	"net/http"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"object", `{"a":1}`, false},
		{"array", `[1,2]`, false},
		{"trailing whitespace", "{\"a\":1}\n", false},
		{"empty", ``, true},
		{"html", `<html></html>`, true},
		{"trailing data", `{"a":1} {"b":2}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIntValue(t *testing.T) {
	decoded, err := DecodeJSON([]byte(`{"i":42,"f":10.5,"g":10.0,"e":1e3,"s":"7","n":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, _ := ObjectValue(decoded)

	if got := IntValue(obj["i"]); got == nil || *got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
	for _, key := range []string{"f", "g", "e", "s", "n", "missing"} {
		if got := IntValue(obj[key]); got != nil {
			t.Errorf("%s: expected nil, got %d", key, *got)
		}
	}
}

func TestExpandEndpoint(t *testing.T) {
	t.Run("resolves placeholders", func(t *testing.T) {
		got, err := ExpandEndpoint("gemini", "/v1beta/models/{model}:generateContent", map[string]string{"model": "gemini-pro"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "/v1beta/models/gemini-pro:generateContent" {
			t.Errorf("unexpected endpoint %q", got)
		}
	})

	t.Run("no placeholders", func(t *testing.T) {
		got, err := ExpandEndpoint("openai", "/v1/chat/completions", nil)
		if err != nil || got != "/v1/chat/completions" {
			t.Errorf("unexpected result %q, %v", got, err)
		}
	})

	t.Run("missing parameter", func(t *testing.T) {
		_, err := ExpandEndpoint("acme", "/v1/{project}/models/{model}", map[string]string{"model": "m"})
		if KindOf(err) != KindConfig {
			t.Fatalf("expected config error, got %v", err)
		}
		if !strings.Contains(err.Error(), `"project"`) {
			t.Errorf("expected missing parameter to be named, got %q", err.Error())
		}
	})
}

func TestDecodeErrorBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
		wantErr bool
	}{
		{"error envelope", `{"error":{"message":"bad key"}}`, "bad key", true},
		{"empty error message", `{"error":{"message":""}}`, `{"error":{"message":""}}`, true},
		{"top-level message", `{"message":"nope"}`, "nope", false},
		{"no message", `{"detail":"x"}`, `{"detail":"x"}`, false},
		{"not JSON", `Bad Gateway`, "Bad Gateway", false},
		{"array", `["x"]`, `["x"]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &HTTPResponse{StatusCode: 400, Header: http.Header{}, Body: []byte(tt.body)}
			body := DecodeErrorBody(resp, "rid")

			if body.Details.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, body.Details.Message)
			}
			if (body.Error != nil) != tt.wantErr {
				t.Errorf("expected error object present=%v", tt.wantErr)
			}
			if body.Details.RequestID != "rid" {
				t.Errorf("expected request id to be kept, got %q", body.Details.RequestID)
			}
			if body.Details.Raw == nil {
				t.Error("expected raw payload")
			}
		})
	}
}

func TestHTTPResponse_HeaderValue(t *testing.T) {
	resp := &HTTPResponse{Header: http.Header{}}
	resp.Header.Set("request-id", "  r2 ")
	resp.Header.Set("x-request-id", " ")

	if got := resp.HeaderValue("x-request-id", "request-id"); got != "r2" {
		t.Errorf("expected r2, got %q", got)
	}
	if got := resp.HeaderValue("missing"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
