package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider loads credentials from environment variables.
//
// Names are upper-cased, hyphens become underscores and the optional prefix
// is prepended:
//   - "OPENAI_API_KEY" with no prefix reads OPENAI_API_KEY
//   - "openai-api-key" with prefix "UNIFIEDLLM_" reads UNIFIEDLLM_OPENAI_API_KEY
//
// A variable that is set but blank counts as missing.
type EnvProvider struct {
	Prefix string
}

// NewEnvProvider creates a new environment variable secret provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{
		Prefix: prefix,
	}
}

// GetSecret retrieves a secret from an environment variable.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	envVar := p.secretNameToEnvVar(name)

	value, ok := os.LookupEnv(envVar)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", fmt.Errorf("%w in environment: %s (env var: %s)", ErrNotFound, name, envVar)
	}

	return value, nil
}

// ListSecrets returns the names of all environment variables carrying the
// configured prefix, converted back to secret form. With no prefix it
// returns nothing rather than the whole environment.
func (p *EnvProvider) ListSecrets(ctx context.Context) ([]string, error) {
	if p.Prefix == "" {
		return nil, nil
	}

	var names []string
	for _, env := range os.Environ() {
		key, _, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, p.Prefix) {
			continue
		}
		names = append(names, p.envVarToSecretName(key))
	}

	return names, nil
}

// Provider returns the provider name.
func (p *EnvProvider) Provider() string {
	return "env"
}

// Supports always returns true; any name may be set in the environment.
func (p *EnvProvider) Supports(name string) bool {
	return true
}

// secretNameToEnvVar converts a secret name to an environment variable name.
func (p *EnvProvider) secretNameToEnvVar(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}

// envVarToSecretName converts an environment variable name back to a secret name.
func (p *EnvProvider) envVarToSecretName(envVar string) string {
	name := strings.TrimPrefix(envVar, p.Prefix)
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}
