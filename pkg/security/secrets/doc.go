/*
Package secrets resolves provider API keys from more than one place.

# Overview

The chat clients ask a providers.CredentialSource for a key by its
environment variable name (OPENAI_API_KEY, ANTHROPIC_API_KEY,
GEMINI_API_KEY). The default source is the process environment. This
package adds a Manager that walks an ordered chain of providers:

  - EnvProvider: environment variables, optionally namespaced by a prefix
  - FileProvider: one file per secret in a mounted directory, optionally
    watched with fsnotify so rotated keys are picked up

# Basic Usage

	manager, err := secrets.NewFromConfig(config.CredentialsConfig{
		SecretsDir: "/var/run/secrets/unifiedllm",
		Watch:      true,
		CacheTTL:   5 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer manager.Close()

	client, err := openai.New(providers.ClientOptions{
		Model:       "gpt-4o-mini",
		Credentials: manager,
	})

# Secret References

Configuration values may embed ${secret:name} references:

	resolved, err := manager.ResolveReferences(ctx, "${secret:openai-api-key}")

# File Permissions

Secret files must be mode 0600 or 0400. Anything more permissive is
rejected so a key is never read from a world-readable file.
*/
package secrets
