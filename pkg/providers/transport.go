package providers

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Transport sends one JSON POST and returns the raw response.
//
// Implementations must classify failures as *TimeoutError, *NetworkError or
// *StatusError (for HTTP status >= 400). Any status below 400 is success
// regardless of the body. Transports never retry.
type Transport interface {
	// Post sends body to url with the given headers. The returned duration is
	// the wall-clock time of the round trip, including reading the body.
	Post(ctx context.Context, url string, headers map[string]string, body []byte) (*HTTPResponse, time.Duration, error)

	// Close releases pooled connections.
	Close() error
}

// HTTPResponse is a fully read HTTP response.
type HTTPResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *HTTPResponse) Text() string {
	return string(r.Body)
}

// HeaderValue returns the first non-empty value among the named headers,
// trimmed of surrounding whitespace.
func (r *HTTPResponse) HeaderValue(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// TimeoutError is returned by a Transport when the request exceeded its
// timeout.
type TimeoutError struct {
	Timeout time.Duration
	Cause   error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Timeout)
}

// Unwrap returns the underlying error for error chain support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// NetworkError is returned by a Transport for connection, DNS, reset and
// body read failures.
type NetworkError struct {
	Cause error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// StatusError is returned by a Transport when the server answered with a
// status code >= 400. The full response is kept for payload introspection.
type StatusError struct {
	Response *HTTPResponse
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Response.StatusCode)
}

// TransportConfig configures an HTTPTransport.
type TransportConfig struct {
	// Timeout bounds the whole request, including reading the body.
	// Default: 60s
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool.
	// Default: 100
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool.
	// Default: 90s
	IdleConnTimeout time.Duration

	// TLS replaces the default client TLS settings when non-nil
	TLS *tls.Config

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// DefaultTimeout is the request timeout used when none is configured.
const DefaultTimeout = 60 * time.Second

// HTTPTransport is the net/http implementation of Transport. It owns one
// connection pool for its lifetime.
type HTTPTransport struct {
	client    *http.Client
	timeout   time.Duration
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewHTTPTransport creates a pooled HTTP transport.
func NewHTTPTransport(cfg TransportConfig) *HTTPTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = 10
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
		TLSClientConfig:     cfg.TLS,
	}

	return &HTTPTransport{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		timeout: cfg.Timeout,
		logger:  cfg.Logger.With("component", "transport"),
	}
}

// Timeout returns the fixed per-request timeout.
func (t *HTTPTransport) Timeout() time.Duration {
	return t.timeout
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, url string, headers map[string]string, body []byte) (*HTTPResponse, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, &NetworkError{Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	t.logger.Debug("sending request", "url", url)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, time.Since(start), t.classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	latency := time.Since(start)
	if err != nil {
		return nil, latency, t.classify(fmt.Errorf("failed to read response: %w", err))
	}

	out := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
	if resp.StatusCode >= 400 {
		return nil, latency, &StatusError{Response: out}
	}
	return out, latency, nil
}

// classify maps a client error onto the timeout/network buckets.
func (t *HTTPTransport) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: t.timeout, Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Timeout: t.timeout, Cause: err}
	}
	return &NetworkError{Cause: err}
}

// Close releases idle connections. It is safe to call more than once.
func (t *HTTPTransport) Close() error {
	t.closeOnce.Do(func() {
		t.client.CloseIdleConnections()
	})
	return nil
}
