package anthropic

import (
	"mercator-hq/unifiedllm/pkg/providers"
)

// Identity of the Anthropic Messages API.
const (
	Name         = "anthropic"
	DisplayName  = "Anthropic"
	BaseURL      = "https://api.anthropic.com"
	ChatEndpoint = "/v1/messages"
	EnvKeyName   = "ANTHROPIC_API_KEY"
)

const (
	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultMaxTokens is sent when max_tokens is not configured
	DefaultMaxTokens = 1024
)

var requestIDHeaders = []string{"request-id", "x-request-id"}

// customKeys is the allow-list of pass-through parameters. "stream" is
// accepted for wire parity; the response is still read as one JSON document.
var customKeys = []string{
	"top_k",
	"stop_sequences",
	"metadata",
	"stream",
	"user_id",
}

// Adapter is the Anthropic provider adapter.
// It implements providers.Adapter for Anthropic's Messages API.
type Adapter struct{}

var _ providers.Adapter = Adapter{}

// New creates a client for the Anthropic Messages API.
func New(opts providers.ClientOptions) (*providers.Client, error) {
	return providers.NewClient(Adapter{}, opts)
}

// Identity implements providers.Adapter.
func (Adapter) Identity() providers.Identity {
	return providers.Identity{
		Name:         Name,
		DisplayName:  DisplayName,
		BaseURL:      BaseURL,
		ChatEndpoint: ChatEndpoint,
		EnvKeyName:   EnvKeyName,
	}
}

// PathParams implements providers.Adapter.
func (Adapter) PathParams(string) map[string]string {
	return nil
}

// Headers implements providers.Adapter.
func (Adapter) Headers(apiKey string) map[string]string {
	return map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",
	}
}

// CustomKeys implements providers.Adapter.
func (Adapter) CustomKeys() []string {
	return customKeys
}

// BuildPayload implements providers.Adapter.
func (Adapter) BuildPayload(model string, messages []providers.Message, systemPrompt *string, cfg providers.GenerationConfig) (map[string]any, error) {
	return transformRequest(model, messages, systemPrompt, cfg)
}

// ExtractText implements providers.Adapter.
func (Adapter) ExtractText(data map[string]any) (string, error) {
	return extractText(data)
}

// ExtractUsage implements providers.Adapter.
func (Adapter) ExtractUsage(data map[string]any) *providers.Usage {
	return extractUsage(data)
}

// ExtractRequestID implements providers.Adapter.
func (Adapter) ExtractRequestID(resp *providers.HTTPResponse, _ map[string]any) string {
	return resp.HeaderValue(requestIDHeaders...)
}

// ExtractErrorDetails implements providers.Adapter.
func (Adapter) ExtractErrorDetails(resp *providers.HTTPResponse) providers.APIErrorDetails {
	return extractErrorDetails(resp)
}
