package providers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"mercator-hq/unifiedllm/pkg/providers"
)

// MapSource is an in-memory credential source.
type MapSource map[string]string

// Lookup implements providers.CredentialSource.
func (m MapSource) Lookup(name string) (string, bool) {
	v := strings.TrimSpace(m[name])
	return v, v != ""
}

// TestOptions returns client options with a test key and a short timeout.
func TestOptions(model string) providers.ClientOptions {
	return providers.ClientOptions{
		Model:       model,
		APIKey:      "test-key",
		Timeout:     5 * time.Second,
		Credentials: MapSource{},
	}
}

// TestOptionsWithURL returns test options pointed at baseURL.
func TestOptionsWithURL(model, baseURL string) providers.ClientOptions {
	opts := TestOptions(model)
	opts.BaseURL = baseURL
	return opts
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertKind fails the test unless err belongs to the expected error kind.
func AssertKind(t *testing.T, err error, want providers.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := providers.KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%T): %v", want, got, err, err)
	}
}

// AsAPIError extracts an *APIError or fails the test.
func AsAPIError(t *testing.T, err error) *providers.APIError {
	t.Helper()
	var apiErr *providers.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	return apiErr
}

// AsParseError extracts a *ParseError or fails the test.
func AsParseError(t *testing.T, err error) *providers.ParseError {
	t.Helper()
	var parseErr *providers.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	return parseErr
}

// AssertContains fails the test if haystack doesn't contain needle.
func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

// AssertIntPtr fails the test unless got points at want, or both are absent.
func AssertIntPtr(t *testing.T, name string, got *int, want *int) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil:
		t.Fatalf("%s: expected %d, got nil", name, *want)
	case want == nil:
		t.Fatalf("%s: expected nil, got %d", name, *got)
	case *got != *want:
		t.Fatalf("%s: expected %d, got %d", name, *want, *got)
	}
}
