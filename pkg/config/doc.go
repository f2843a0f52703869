// Package config loads and validates unifiedllm configuration.
//
// # Overview
//
// Configuration comes from a YAML file, environment overrides and built-in
// defaults, in that order of increasing precedence:
//
//	defaults < YAML file < UNIFIEDLLM_* environment variables < CLI flags
//
// CLI flags are applied by cmd/unifiedllm after loading.
//
// # Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("unifiedllm.yaml")
//	if err != nil {
//	    return err
//	}
//
// A missing file is not an error for LoadConfigWithEnvOverrides; it starts
// from Default(). LoadConfig requires the file.
//
// # Environment Overrides
//
// Variables follow UNIFIEDLLM_SECTION_FIELD, for example
// UNIFIEDLLM_GATEWAY_PROVIDER, UNIFIEDLLM_HISTORY_SQLITE_PATH or
// UNIFIEDLLM_TELEMETRY_LOGGING_LEVEL. A value that does not parse is a
// validation error.
//
// # Validation
//
// Validation collects every problem before returning:
//
//	configuration validation failed with 2 errors:
//	  - gateway.timeout: must be positive
//	  - history.backend: must be one of sqlite, memory, got "postgres"
//
// # Example Configuration
//
//	gateway:
//	  provider: anthropic
//	  timeout: 45s
//	  system_prompt: "Answer briefly."
//	  models:
//	    anthropic: claude-3-5-sonnet-latest
//	  generation:
//	    temperature: 0.2
//	    max_tokens: 512
//	    custom:
//	      top_k: 40
//
//	credentials:
//	  secrets_dir: /var/run/secrets/unifiedllm
//	  watch: true
//
//	history:
//	  backend: sqlite
//	  retention:
//	    days: 14
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    textfile_path: /var/lib/node_exporter/unifiedllm.prom
package config
