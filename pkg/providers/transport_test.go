package providers

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPTransport_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("expected custom header to be forwarded")
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"q":1}` {
			t.Errorf("unexpected body %s", body)
		}
		w.Header().Set("x-request-id", "abc")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(TransportConfig{Timeout: 5 * time.Second})
	defer transport.Close()

	resp, latency, err := transport.Post(context.Background(), server.URL, map[string]string{"X-Test": "1"}, []byte(`{"q":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Text() != `{"ok":true}` {
		t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Text())
	}
	if resp.HeaderValue("x-request-id") != "abc" {
		t.Errorf("expected header to be preserved")
	}
	if latency <= 0 {
		t.Errorf("expected positive latency, got %v", latency)
	}
}

func TestHTTPTransport_LogsToConfiguredLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	transport := NewHTTPTransport(TransportConfig{Timeout: 5 * time.Second, Logger: logger})
	defer transport.Close()

	if _, _, err := transport.Post(context.Background(), server.URL, nil, []byte(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "sending request") || !strings.Contains(out, "component=transport") {
		t.Errorf("expected request to be logged through the configured logger, got %q", out)
	}
}

func TestHTTPTransport_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`slow down`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(TransportConfig{})
	defer transport.Close()

	_, _, err := transport.Post(context.Background(), server.URL, nil, []byte(`{}`))

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.Response.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", statusErr.Response.StatusCode)
	}
	if statusErr.Response.Text() != "slow down" {
		t.Errorf("expected raw body to be kept, got %q", statusErr.Response.Text())
	}
}

func TestHTTPTransport_RedirectStatusIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	transport := NewHTTPTransport(TransportConfig{})
	defer transport.Close()

	resp, _, err := transport.Post(context.Background(), server.URL, nil, []byte(`{}`))
	if err != nil {
		t.Fatalf("expected success below 400, got %v", err)
	}
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

func TestHTTPTransport_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	transport := NewHTTPTransport(TransportConfig{Timeout: 50 * time.Millisecond})
	defer transport.Close()

	_, _, err := transport.Post(context.Background(), server.URL, nil, []byte(`{}`))

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %T: %v", err, err)
	}
	if timeoutErr.Timeout != 50*time.Millisecond {
		t.Errorf("expected configured timeout, got %v", timeoutErr.Timeout)
	}
}

func TestHTTPTransport_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	transport := NewHTTPTransport(TransportConfig{Timeout: time.Second})
	defer transport.Close()

	_, _, err := transport.Post(context.Background(), url, nil, []byte(`{}`))

	var networkErr *NetworkError
	if !errors.As(err, &networkErr) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
}

func TestHTTPTransport_CloseIsIdempotent(t *testing.T) {
	transport := NewHTTPTransport(TransportConfig{})
	if err := transport.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := transport.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
	if transport.Timeout() != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", transport.Timeout())
	}
}

func TestHTTPTransport_CustomTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	// Default roots do not trust the test server.
	plain := NewHTTPTransport(TransportConfig{Timeout: time.Second})
	defer plain.Close()
	if _, _, err := plain.Post(context.Background(), server.URL, nil, []byte(`{}`)); err == nil {
		t.Fatal("expected certificate error with default roots")
	}

	pool := x509.NewCertPool()
	pool.AddCert(server.Certificate())
	trusted := NewHTTPTransport(TransportConfig{
		Timeout: time.Second,
		TLS:     &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
	})
	defer trusted.Close()

	resp, _, err := trusted.Post(context.Background(), server.URL, nil, []byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
}
