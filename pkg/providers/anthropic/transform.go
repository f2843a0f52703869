package anthropic

import (
	"errors"
	"strings"

	"mercator-hq/unifiedllm/pkg/providers"
)

// AnthropicMessage represents a message in Anthropic format.
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transformation functions

// transformMessages converts canonical messages to Anthropic format.
func transformMessages(messages []providers.Message) ([]AnthropicMessage, error) {
	out := make([]AnthropicMessage, 0, len(messages))
	for i, msg := range messages {
		role, err := providers.NormalizeRole(i, msg.Role)
		if err != nil {
			return nil, err
		}
		out = append(out, AnthropicMessage{
			Role:    providers.VendorRole(role),
			Content: msg.Content,
		})
	}
	return out, nil
}

// transformRequest builds the messages request body. max_tokens is required
// by the API and defaults to DefaultMaxTokens.
func transformRequest(model string, messages []providers.Message, systemPrompt *string, cfg providers.GenerationConfig) (map[string]any, error) {
	anthropicMessages, err := transformMessages(messages)
	if err != nil {
		return nil, err
	}

	req := map[string]any{
		"model":      model,
		"messages":   anthropicMessages,
		"max_tokens": DefaultMaxTokens,
	}

	if cfg.Temperature != nil {
		req["temperature"] = *cfg.Temperature
	}
	if cfg.TopP != nil {
		req["top_p"] = *cfg.TopP
	}
	if cfg.MaxTokens != nil {
		req["max_tokens"] = *cfg.MaxTokens
	}
	if cfg.Stop != nil {
		req["stop_sequences"] = cfg.Stop
	}
	for key, value := range cfg.Custom {
		req[key] = value
	}

	// System prompt is a top-level field, not a message
	if systemPrompt != nil {
		req["system"] = *systemPrompt
	}

	return req, nil
}

// extractText concatenates the text blocks of the response content.
// Blocks of other types (tool_use, thinking) are skipped.
func extractText(data map[string]any) (string, error) {
	blocks, ok := providers.ListValue(data["content"])
	if !ok {
		return "", errors.New("unexpected response shape: 'content' missing or not a list")
	}

	var sb strings.Builder
	for _, b := range blocks {
		block, ok := providers.ObjectValue(b)
		if !ok || block["type"] != "text" {
			continue
		}
		if text, ok := providers.StringValue(block["text"]); ok {
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// extractUsage reads input/output token counts. Anthropic does not report a
// total; it is computed when both counts are integers.
func extractUsage(data map[string]any) *providers.Usage {
	usage, ok := providers.ObjectValue(data["usage"])
	if !ok {
		return nil
	}
	return providers.NewUsage(
		providers.IntValue(usage["input_tokens"]),
		providers.IntValue(usage["output_tokens"]),
		nil,
	)
}

// extractErrorDetails decodes {"error":{"type","message"},"request_id"}.
// The header request id wins over the body one.
func extractErrorDetails(resp *providers.HTTPResponse) providers.APIErrorDetails {
	body := providers.DecodeErrorBody(resp, resp.HeaderValue(requestIDHeaders...))

	if body.Details.RequestID == "" && body.Payload != nil {
		if rid, ok := providers.StringValue(body.Payload["request_id"]); ok {
			body.Details.RequestID = strings.TrimSpace(rid)
		}
	}
	if body.Error != nil {
		body.Details.ErrorType, _ = providers.StringValue(body.Error["type"])
	}
	return body.Details
}
