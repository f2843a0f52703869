package providers

import (
	"os"
	"strings"
)

// Identity holds the fixed, vendor-level facts every adapter must declare.
type Identity struct {
	// Name is the lowercase provider identifier (e.g. "openai")
	Name string

	// DisplayName is the human-readable vendor name (e.g. "OpenAI")
	DisplayName string

	// BaseURL is the vendor API origin
	BaseURL string

	// ChatEndpoint is the endpoint path template; {param} placeholders are
	// resolved from PathParams at construction
	ChatEndpoint string

	// EnvKeyName is the credential name looked up when no API key is passed
	EnvKeyName string
}

// Adapter is the vendor-specific half of a provider client.
//
// The shared half (Client) owns construction checks, credential resolution,
// transport, error mapping and JSON validation, and calls these hooks for
// everything that depends on the vendor wire format.
//
// Hooks must be pure with respect to the adapter: all mutable state
// (generation config, system prompt) lives in the Client and is passed in.
type Adapter interface {
	// Identity returns the vendor identity.
	Identity() Identity

	// PathParams returns values for the endpoint template placeholders.
	PathParams(model string) map[string]string

	// Headers returns the request headers, including authentication.
	Headers(apiKey string) map[string]string

	// CustomKeys returns the allow-list of pass-through parameter names.
	CustomKeys() []string

	// BuildPayload translates canonical messages and options into the vendor
	// request body. Roles outside {user, model} are rejected with a
	// *ValidationError naming the role and its index.
	BuildPayload(model string, messages []Message, systemPrompt *string, cfg GenerationConfig) (map[string]any, error)

	// ExtractText returns the text of the first candidate. It fails when the
	// top-level field it depends on is missing or malformed, and returns ""
	// when that field is present but empty.
	ExtractText(data map[string]any) (string, error)

	// ExtractUsage returns nil when the payload carries no usage block.
	ExtractUsage(data map[string]any) *Usage

	// ExtractRequestID returns the vendor request id of a successful
	// response, or "".
	ExtractRequestID(resp *HTTPResponse, data map[string]any) string

	// ExtractErrorDetails decodes the vendor error envelope of a non-2xx
	// response, degrading to the raw body text.
	ExtractErrorDetails(resp *HTTPResponse) APIErrorDetails
}

// CredentialSource looks up credentials by name.
type CredentialSource interface {
	// Lookup returns the credential and whether a non-empty value was found.
	Lookup(name string) (string, bool)
}

// EnvSource reads credentials from the process environment.
type EnvSource struct{}

// Lookup implements CredentialSource.
func (EnvSource) Lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}
