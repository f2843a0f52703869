package gateway

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/unifiedllm/pkg/providers"
	"mercator-hq/unifiedllm/pkg/providers/anthropic"
	"mercator-hq/unifiedllm/pkg/providers/gemini"
	"mercator-hq/unifiedllm/pkg/providers/openai"
)

// ProviderID names a supported vendor.
type ProviderID string

// Supported providers.
const (
	OpenAI    ProviderID = "openai"
	Anthropic ProviderID = "anthropic"
	Gemini    ProviderID = "gemini"
)

// Constructor builds a provider client.
type Constructor func(opts providers.ClientOptions) (*providers.Client, error)

// entry is one registered provider.
type entry struct {
	newClient Constructor
	identity  providers.Identity
}

// registry maps every ProviderID constant to its adapter. A test checks that
// no constant is missing.
var registry = map[ProviderID]entry{
	OpenAI:    {newClient: openai.New, identity: openai.Adapter{}.Identity()},
	Anthropic: {newClient: anthropic.New, identity: anthropic.Adapter{}.Identity()},
	Gemini:    {newClient: gemini.New, identity: gemini.Adapter{}.Identity()},
}

// ProviderIDs returns the registered provider ids in sorted order.
func ProviderIDs() []ProviderID {
	ids := make([]ProviderID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ParseProviderID trims and lowercases name and checks it against the
// registry.
//
// Example:
//
//	id, err := gateway.ParseProviderID("  OpenAI ")
//	// id == gateway.OpenAI
func ParseProviderID(name string) (ProviderID, error) {
	id := ProviderID(strings.ToLower(strings.TrimSpace(name)))
	if id == "" {
		return "", &providers.ConfigError{
			Field:   "provider",
			Message: fmt.Sprintf("provider is required (supported: %s)", supportedList()),
		}
	}
	if _, ok := registry[id]; !ok {
		return "", &providers.ConfigError{
			Provider: string(id),
			Field:    "provider",
			Message:  fmt.Sprintf("provider %q is not supported (supported: %s)", string(id), supportedList()),
		}
	}
	return id, nil
}

// Describe returns the identity of a registered provider: display name,
// base URL and the credential name it reads.
func Describe(id ProviderID) (providers.Identity, bool) {
	e, ok := registry[id]
	if !ok {
		return providers.Identity{}, false
	}
	return e.identity, true
}

func supportedList() string {
	ids := ProviderIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

// String implements fmt.Stringer.
func (id ProviderID) String() string {
	return string(id)
}
