// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Automatic redaction of vendor API keys and bearer tokens
//   - Call fields (call id, provider, model, session) carried in a context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	logger.Info("chat completed",
//	    "provider", "openai",
//	    "api_key", "sk-abc123xyz456",  // Automatically redacted
//	    "latency_ms", 812,
//	)
//
//	ctx = logging.WithCallID(ctx, callID)
//	logger.WithContext(ctx).Info("dispatching")  // Includes call_id
//
// Redaction is implemented as a slog.Handler, so the *slog.Logger returned by
// Slog redacts as well and can be passed to packages that only know slog.
//
// # Redaction
//
//   - Anthropic keys: sk-ant-api03-... → sk-ant-***
//   - OpenAI keys: sk-proj-abc123... → sk-***
//   - Google keys: AIzaSy... → AIza***
//   - Bearer tokens: Bearer abc → Bearer ***
//   - key=value pairs such as api_key=... or x-goog-api-key: ...
package logging
