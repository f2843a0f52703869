package openai

import (
	"mercator-hq/unifiedllm/pkg/providers"
)

// Identity of the OpenAI chat completions API.
const (
	Name         = "openai"
	DisplayName  = "OpenAI"
	BaseURL      = "https://api.openai.com"
	ChatEndpoint = "/v1/chat/completions"
	EnvKeyName   = "OPENAI_API_KEY"
)

// requestIDHeaders are checked in order for the vendor request id.
var requestIDHeaders = []string{"x-request-id", "request-id"}

// customKeys is the allow-list of pass-through parameters.
var customKeys = []string{
	"presence_penalty",
	"frequency_penalty",
	"logit_bias",
	"seed",
	"n",
	"user",
	"store",
	"service_tier",
	"response_format",
	"max_completion_tokens",
}

// Adapter is the OpenAI provider adapter.
// It implements providers.Adapter for the chat completions API.
type Adapter struct{}

var _ providers.Adapter = Adapter{}

// New creates a client for the OpenAI chat completions API.
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

// PathParams implements providers.Adapter. The endpoint has no parameters.
func (Adapter) PathParams(string) map[string]string {
	return nil
}

// Headers implements providers.Adapter.
func (Adapter) Headers(apiKey string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + apiKey,
		"Content-Type":  "application/json",
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
