package providers

import (
	"maps"
	"slices"
	"time"
)

// Role identifies the author of a canonical message.
// Only two roles exist at the gateway boundary; adapters translate them to
// their vendor vocabulary.
type Role string

// Canonical message roles.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is a single canonical conversation turn.
type Message struct {
	// Role is either RoleUser or RoleModel
	Role Role `json:"role"`

	// Content is the message text (non-empty after trimming)
	Content string `json:"content"`
}

// GenerationConfig holds the canonical generation options.
// A nil pointer or nil slice means the option is unset and is omitted from
// the outbound payload.
type GenerationConfig struct {
	// Temperature controls randomness
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// TopP controls nucleus sampling
	TopP *float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens *int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`

	// Stop sequences that will halt generation, in order
	Stop []string `json:"stop,omitempty" yaml:"stop,omitempty"`

	// Custom holds vendor pass-through parameters. Keys must belong to the
	// adapter's allow-list.
	Custom map[string]any `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// Merge returns a copy of c with every option that is set in other applied
// on top. Custom parameters are merged key by key.
func (c GenerationConfig) Merge(other GenerationConfig) GenerationConfig {
	out := c.Clone()
	if other.Temperature != nil {
		out.Temperature = Float64(*other.Temperature)
	}
	if other.TopP != nil {
		out.TopP = Float64(*other.TopP)
	}
	if other.MaxTokens != nil {
		out.MaxTokens = Int(*other.MaxTokens)
	}
	if other.Stop != nil {
		out.Stop = slices.Clone(other.Stop)
	}
	if len(other.Custom) > 0 {
		if out.Custom == nil {
			out.Custom = make(map[string]any, len(other.Custom))
		}
		maps.Copy(out.Custom, other.Custom)
	}
	return out
}

// Clone returns a deep copy of the top-level fields.
func (c GenerationConfig) Clone() GenerationConfig {
	out := GenerationConfig{
		Stop:   slices.Clone(c.Stop),
		Custom: maps.Clone(c.Custom),
	}
	if c.Temperature != nil {
		out.Temperature = Float64(*c.Temperature)
	}
	if c.TopP != nil {
		out.TopP = Float64(*c.TopP)
	}
	if c.MaxTokens != nil {
		out.MaxTokens = Int(*c.MaxTokens)
	}
	return out
}

// IsZero reports whether no option is set.
func (c GenerationConfig) IsZero() bool {
	return c.Temperature == nil && c.TopP == nil && c.MaxTokens == nil &&
		c.Stop == nil && len(c.Custom) == 0
}

// Usage holds vendor-reported token counts. Each counter is nil when the
// vendor did not report it.
type Usage struct {
	PromptTokens     *int `json:"prompt_tokens,omitempty"`
	CompletionTokens *int `json:"completion_tokens,omitempty"`
	TotalTokens      *int `json:"total_tokens,omitempty"`
}

// NewUsage builds a Usage from vendor counters. When total is missing it is
// computed as prompt + completion, but only if both are present.
func NewUsage(prompt, completion, total *int) *Usage {
	if total == nil && prompt != nil && completion != nil {
		total = Int(*prompt + *completion)
	}
	return &Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
	}
}

// Response is the vendor-agnostic result of a chat call.
type Response struct {
	// Text is the generated text; empty means the vendor returned no content
	Text string `json:"text"`

	// Usage is nil when the vendor payload carries no usage block
	Usage *Usage `json:"usage,omitempty"`

	// Provider is the adapter name (e.g. "openai")
	Provider string `json:"provider"`

	// Model is the model the request was sent for
	Model string `json:"model"`

	// StatusCode is the HTTP status of the vendor response
	StatusCode int `json:"status_code"`

	// Latency is the wall-clock duration of the HTTP round trip
	Latency time.Duration `json:"latency"`

	// RequestID is the vendor request identifier, empty when absent
	RequestID string `json:"request_id,omitempty"`

	// Raw is the decoded vendor payload
	Raw map[string]any `json:"raw,omitempty"`
}

// LatencyMS returns the round-trip latency in milliseconds.
func (r *Response) LatencyMS() float64 {
	return float64(r.Latency) / float64(time.Millisecond)
}

// APIErrorDetails is the result of vendor-specific error payload parsing.
type APIErrorDetails struct {
	Message   string
	ErrorType string
	Code      string
	RequestID string

	// Raw is the decoded error payload, or the raw body text when the body
	// was not JSON
	Raw any
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
