package gemini

import (
	"mercator-hq/unifiedllm/pkg/providers"
)

// Identity of the Gemini generateContent REST API.
const (
	Name         = "gemini"
	DisplayName  = "Gemini"
	BaseURL      = "https://generativelanguage.googleapis.com"
	ChatEndpoint = "/v1beta/models/{model}:generateContent"
	EnvKeyName   = "GEMINI_API_KEY"
)

var requestIDHeaders = []string{"x-goog-request-id", "x-request-id", "request-id"}

// customKeys are generationConfig fields without a canonical option.
var customKeys = []string{
	"topK",
	"candidateCount",
}

// Adapter is the Gemini provider adapter.
type Adapter struct{}

var _ providers.Adapter = Adapter{}

// New creates a client for the Gemini generateContent API.
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

// PathParams implements providers.Adapter. The model is a path segment.
func (Adapter) PathParams(model string) map[string]string {
	return map[string]string{"model": model}
}

// Headers implements providers.Adapter.
func (Adapter) Headers(apiKey string) map[string]string {
	return map[string]string{
		"x-goog-api-key": apiKey,
		"Content-Type":   "application/json",
	}
}

// CustomKeys implements providers.Adapter.
func (Adapter) CustomKeys() []string {
	return customKeys
}

// BuildPayload implements providers.Adapter.
func (Adapter) BuildPayload(_ string, messages []providers.Message, systemPrompt *string, cfg providers.GenerationConfig) (map[string]any, error) {
	return transformRequest(messages, systemPrompt, cfg)
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
func (Adapter) ExtractRequestID(resp *providers.HTTPResponse, data map[string]any) string {
	return extractRequestID(resp, data)
}

// ExtractErrorDetails implements providers.Adapter.
func (Adapter) ExtractErrorDetails(resp *providers.HTTPResponse) providers.APIErrorDetails {
	return extractErrorDetails(resp)
}
