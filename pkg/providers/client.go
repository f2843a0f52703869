package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// Model is the vendor model identifier (required)
	Model string

	// APIKey is an explicit credential; it wins over the credential source
	APIKey string

	// BaseURL overrides the vendor base URL (proxies, tests)
	BaseURL string

	// Timeout is the fixed per-request timeout.
	// Default: 60s
	Timeout time.Duration

	// Transport overrides the HTTP transport; the Client takes ownership
	// and closes it
	Transport Transport

	// Credentials is consulted when APIKey is empty.
	// Default: EnvSource
	Credentials CredentialSource

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// Client is the shared skeleton every vendor adapter runs on. It resolves
// the credential and endpoint once, holds the mutable generation config and
// system prompt, and drives a call through
// BUILD_PAYLOAD → SEND → MAP_TRANSPORT_ERROR → PARSE_JSON → VALIDATE_SHAPE →
// EXTRACT_FIELDS → ASSEMBLE_RESPONSE.
type Client struct {
	adapter  Adapter
	identity Identity
	model    string
	apiKey   string
	url      string
	headers  map[string]string
	timeout  time.Duration
	custom   []string

	transport Transport
	closeOnce sync.Once
	closeErr  error

	mu           sync.Mutex
	config       GenerationConfig
	systemPrompt *string

	logger *slog.Logger
}

// NewClient validates the adapter identity, resolves the endpoint and the
// credential, and creates the transport. All failures happen here, before any
// network activity.
func NewClient(adapter Adapter, opts ClientOptions) (*Client, error) {
	id := adapter.Identity()
	if err := validateIdentity(id); err != nil {
		return nil, err
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, &ConfigError{
			Provider: id.Name,
			Field:    "model",
			Message:  "model must be a non-empty string",
		}
	}

	endpoint, err := ExpandEndpoint(id.Name, id.ChatEndpoint, adapter.PathParams(model))
	if err != nil {
		return nil, err
	}

	baseURL := id.BaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}

	apiKey, err := resolveCredential(id, model, opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := opts.Transport
	if transport == nil {
		transport = NewHTTPTransport(TransportConfig{Timeout: timeout, Logger: logger})
	}

	custom := slices.Clone(adapter.CustomKeys())
	sort.Strings(custom)

	c := &Client{
		adapter:   adapter,
		identity:  id,
		model:     model,
		apiKey:    apiKey,
		url:       strings.TrimRight(baseURL, "/") + endpoint,
		headers:   adapter.Headers(apiKey),
		timeout:   timeout,
		custom:    custom,
		transport: transport,
		logger:    logger.With("provider", id.Name, "model", model),
	}

	c.logger.Debug("provider client initialized", "url", c.url, "timeout", timeout)

	return c, nil
}

// validateIdentity checks that every identity field is declared.
func validateIdentity(id Identity) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", id.Name},
		{"display_name", id.DisplayName},
		{"base_url", id.BaseURL},
		{"chat_endpoint", id.ChatEndpoint},
		{"env_key_name", id.EnvKeyName},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ConfigError{
				Provider: id.Name,
				Field:    f.name,
				Message:  fmt.Sprintf("adapter must define identity field %q", f.name),
			}
		}
	}
	return nil
}

// resolveCredential returns the explicit key, or the one found in the
// credential source under the adapter's env key name.
func resolveCredential(id Identity, model string, opts ClientOptions) (string, error) {
	if key := strings.TrimSpace(opts.APIKey); key != "" {
		return key, nil
	}

	source := opts.Credentials
	if source == nil {
		source = EnvSource{}
	}
	if key, ok := source.Lookup(id.EnvKeyName); ok {
		if key = strings.TrimSpace(key); key != "" {
			return key, nil
		}
	}

	return "", &MissingCredentialError{
		Provider:    id.Name,
		DisplayName: id.DisplayName,
		Model:       model,
		EnvVar:      id.EnvKeyName,
	}
}

// Identity returns the adapter identity.
func (c *Client) Identity() Identity {
	return c.identity
}

// Model returns the model the client sends requests for.
func (c *Client) Model() string {
	return c.model
}

// URL returns the resolved chat endpoint URL.
func (c *Client) URL() string {
	return c.url
}

// Timeout returns the fixed per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Configure merges cfg into the current generation config. Options unset in
// cfg keep their current value. Custom keys outside the adapter allow-list
// are rejected and nothing is merged.
func (c *Client) Configure(cfg GenerationConfig) error {
	if err := c.checkCustomKeys(cfg.Custom); err != nil {
		return err
	}

	c.mu.Lock()
	c.config = c.config.Merge(cfg)
	c.mu.Unlock()
	return nil
}

func (c *Client) checkCustomKeys(custom map[string]any) error {
	var unknown []string
	for key := range custom {
		if _, ok := slices.BinarySearch(c.custom, key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ConfigError{
		Provider: c.identity.Name,
		Field:    "custom",
		Message: fmt.Sprintf("unsupported %s custom parameters: %s (supported: %s)",
			c.identity.DisplayName, strings.Join(unknown, ", "), strings.Join(c.custom, ", ")),
	}
}

// Config returns a copy of the current generation config.
func (c *Client) Config() GenerationConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Clone()
}

// SetSystemPrompt sets the system prompt merged into every later request.
func (c *Client) SetSystemPrompt(text string) {
	c.mu.Lock()
	c.systemPrompt = &text
	c.mu.Unlock()
}

// ClearSystemPrompt removes the system prompt.
func (c *Client) ClearSystemPrompt() {
	c.mu.Lock()
	c.systemPrompt = nil
	c.mu.Unlock()
}

// SystemPrompt returns the current system prompt and whether one is set.
func (c *Client) SystemPrompt() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.systemPrompt == nil {
		return "", false
	}
	return *c.systemPrompt, true
}

// Chat sends messages to the vendor and returns the normalized response.
func (c *Client) Chat(ctx context.Context, messages []Message) (*Response, error) {
	c.mu.Lock()
	cfg := c.config.Clone()
	var system *string
	if c.systemPrompt != nil {
		s := *c.systemPrompt
		system = &s
	}
	c.mu.Unlock()

	payload, err := c.adapter.BuildPayload(c.model, messages, system, cfg)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ConfigError{
			Provider: c.identity.Name,
			Field:    "payload",
			Message:  fmt.Sprintf("failed to encode request: %v", err),
		}
	}

	resp, latency, err := c.transport.Post(ctx, c.url, c.headers, body)
	if err != nil {
		return nil, c.mapTransportError(err)
	}

	decoded, err := DecodeJSON(resp.Body)
	if err != nil {
		return nil, c.parseError("response body is not valid JSON", resp.Text(), err)
	}

	data, ok := ObjectValue(decoded)
	if !ok {
		return nil, c.parseError(
			fmt.Sprintf("unexpected JSON shape: expected object, got %s", jsonKind(decoded)),
			decoded, nil)
	}

	text, err := c.adapter.ExtractText(data)
	if err != nil {
		return nil, c.parseError(err.Error(), data, err)
	}

	out := &Response{
		Text:       text,
		Usage:      c.adapter.ExtractUsage(data),
		Provider:   c.identity.Name,
		Model:      c.model,
		StatusCode: resp.StatusCode,
		Latency:    latency,
		RequestID:  c.adapter.ExtractRequestID(resp, data),
		Raw:        data,
	}

	c.logger.Debug("chat request succeeded",
		"status", resp.StatusCode,
		"latency", latency,
		"request_id", out.RequestID,
	)

	return out, nil
}

// mapTransportError converts transport failures into the error taxonomy.
func (c *Client) mapTransportError(err error) error {
	var (
		timeoutErr *TimeoutError
		networkErr *NetworkError
		statusErr  *StatusError
	)

	switch {
	case errors.As(err, &statusErr):
		details := c.adapter.ExtractErrorDetails(statusErr.Response)
		c.logger.Warn("provider returned error status",
			"status", statusErr.Response.StatusCode,
			"error_type", details.ErrorType,
			"request_id", details.RequestID,
		)
		return &APIError{
			Provider:    c.identity.Name,
			DisplayName: c.identity.DisplayName,
			Model:       c.model,
			StatusCode:  statusErr.Response.StatusCode,
			ErrorType:   details.ErrorType,
			Code:        details.Code,
			Message:     details.Message,
			RequestID:   details.RequestID,
			Raw:         details.Raw,
		}

	case errors.As(err, &timeoutErr):
		c.logger.Warn("provider request timed out", "timeout", c.timeout)
		return &TransportError{
			Provider:    c.identity.Name,
			DisplayName: c.identity.DisplayName,
			Model:       c.model,
			Kind:        TransportTimeout,
			Timeout:     c.timeout,
			Cause:       err,
		}

	default:
		if !errors.As(err, &networkErr) {
			err = &NetworkError{Cause: err}
		}
		c.logger.Warn("provider request failed", "error", err)
		return &TransportError{
			Provider:    c.identity.Name,
			DisplayName: c.identity.DisplayName,
			Model:       c.model,
			Kind:        TransportNetwork,
			Timeout:     c.timeout,
			Cause:       err,
		}
	}
}

func (c *Client) parseError(detail string, raw any, cause error) error {
	return &ParseError{
		Provider:    c.identity.Name,
		DisplayName: c.identity.DisplayName,
		Model:       c.model,
		Detail:      detail,
		Raw:         raw,
		Cause:       cause,
	}
}

// Close releases the transport. Only the first call has an effect.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.transport.Close()
		c.logger.Debug("provider client closed")
	})
	return c.closeErr
}
