package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/providers"
)

// secretRefRegex matches ${secret:name} references in configuration values.
var secretRefRegex = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Manager walks an ordered chain of providers and caches what it finds.
//
// Manager implements providers.CredentialSource, so it can be handed straight
// to a chat client in place of the default environment lookup.
type Manager struct {
	providers []SecretProvider
	cache     *Cache
	logger    *slog.Logger
}

var _ providers.CredentialSource = (*Manager)(nil)

// NewManager creates a new secret manager. Providers are tried in order.
func NewManager(chain []SecretProvider, cacheConfig CacheConfig) *Manager {
	return &Manager{
		providers: chain,
		cache:     NewCache(cacheConfig),
		logger:    slog.Default().With("component", "secrets"),
	}
}

// NewFromConfig builds the credential chain described by cfg:
//
//  1. prefixed environment variables, when EnvPrefix is set
//  2. plain environment variables (OPENAI_API_KEY, ...)
//  3. files in SecretsDir, when set
func NewFromConfig(cfg config.CredentialsConfig) (*Manager, error) {
	var chain []SecretProvider

	if cfg.EnvPrefix != "" {
		chain = append(chain, NewEnvProvider(cfg.EnvPrefix))
	}
	chain = append(chain, NewEnvProvider(""))

	if cfg.SecretsDir != "" {
		fp, err := NewFileProvider(cfg.SecretsDir, cfg.Watch)
		if err != nil {
			return nil, fmt.Errorf("failed to open secrets directory: %w", err)
		}
		chain = append(chain, fp)
	}

	return NewManager(chain, CacheConfig{
		Enabled: cfg.CacheTTL > 0,
		TTL:     cfg.CacheTTL,
		MaxSize: 64,
	}), nil
}

// GetSecret retrieves a secret from the first provider that has it.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := m.cache.Get(name); ok {
		return value, nil
	}

	var lastErr error
	for _, provider := range m.providers {
		if !provider.Supports(name) {
			continue
		}

		value, err := provider.GetSecret(ctx, name)
		if err != nil {
			lastErr = err
			m.logger.Debug("provider has no value for secret",
				"provider", provider.Provider(),
				"name", name,
			)
			continue
		}

		m.cache.Set(name, value)
		m.logger.Debug("secret resolved", "provider", provider.Provider(), "name", name)

		return value, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, lastErr)
	}

	return "", fmt.Errorf("%w: %q (no provider supports this secret)", ErrNotFound, name)
}

// Lookup implements providers.CredentialSource. Lookup failures other than
// "not found" are logged, since the caller only sees a missing credential.
func (m *Manager) Lookup(name string) (string, bool) {
	value, err := m.GetSecret(context.Background(), name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("credential lookup failed", "name", name, "error", err)
		}
		return "", false
	}
	return value, true
}

// ResolveReferences replaces ${secret:name} patterns with secret values.
// Unresolvable references are left in place and reported in the error.
func (m *Manager) ResolveReferences(ctx context.Context, input string) (string, error) {
	var failures []string

	output := secretRefRegex.ReplaceAllStringFunc(input, func(match string) string {
		name := strings.TrimSpace(secretRefRegex.FindStringSubmatch(match)[1])

		value, err := m.GetSecret(ctx, name)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%q: %v", name, err))
			return match
		}
		return value
	})

	if len(failures) > 0 {
		return output, fmt.Errorf("failed to resolve secret references: %s", strings.Join(failures, "; "))
	}

	return output, nil
}

// Refresh reloads all refreshable providers and clears the cache.
func (m *Manager) Refresh(ctx context.Context) error {
	var failures []string
	for _, provider := range m.providers {
		refreshable, ok := provider.(RefreshableProvider)
		if !ok {
			continue
		}
		if err := refreshable.Refresh(ctx); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", provider.Provider(), err))
		}
	}

	m.cache.Clear()

	if len(failures) > 0 {
		return fmt.Errorf("failed to refresh some providers: %s", strings.Join(failures, "; "))
	}

	return nil
}

// ListSecrets returns the sorted, de-duplicated secret names of all providers.
func (m *Manager) ListSecrets(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})

	for _, provider := range m.providers {
		names, err := provider.ListSecrets(ctx)
		if err != nil {
			m.logger.Warn("failed to list secrets from provider",
				"provider", provider.Provider(),
				"error", err,
			)
			continue
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Close releases provider resources such as file watchers.
func (m *Manager) Close() error {
	var errs []error
	for _, provider := range m.providers {
		if c, ok := provider.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
