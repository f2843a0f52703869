package openai

import (
	"errors"
	"strings"

	"mercator-hq/unifiedllm/pkg/providers"
)

// OpenAIMessage represents a message in OpenAI format.
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transformation functions

// transformMessages converts canonical messages to OpenAI format. The system
// prompt, when set, becomes a leading system message.
func transformMessages(messages []providers.Message, systemPrompt *string) ([]OpenAIMessage, error) {
	out := make([]OpenAIMessage, 0, len(messages)+1)
	if systemPrompt != nil {
		out = append(out, OpenAIMessage{Role: "system", Content: *systemPrompt})
	}

	for i, msg := range messages {
		role, err := providers.NormalizeRole(i, msg.Role)
		if err != nil {
			return nil, err
		}
		out = append(out, OpenAIMessage{
			Role:    providers.VendorRole(role),
			Content: msg.Content,
		})
	}
	return out, nil
}

// transformRequest builds the chat completions request body.
func transformRequest(model string, messages []providers.Message, systemPrompt *string, cfg providers.GenerationConfig) (map[string]any, error) {
	openaiMessages, err := transformMessages(messages, systemPrompt)
	if err != nil {
		return nil, err
	}

	req := map[string]any{
		"model":    model,
		"messages": openaiMessages,
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
		req["stop"] = cfg.Stop
	}
	for key, value := range cfg.Custom {
		req[key] = value
	}

	return req, nil
}

// extractText returns the content of the first choice. Content may be a
// plain string or a list of typed parts, in which case the text parts are
// concatenated.
func extractText(data map[string]any) (string, error) {
	raw, present := data["choices"]
	if !present || raw == nil {
		return "", errors.New("unexpected response shape: 'choices' missing")
	}
	choices, ok := providers.ListValue(raw)
	if !ok {
		return "", errors.New("unexpected response shape: 'choices' not a list")
	}
	if len(choices) == 0 {
		return "", nil
	}

	choice, _ := providers.ObjectValue(choices[0])
	message, _ := providers.ObjectValue(choice["message"])

	switch content := message["content"].(type) {
	case string:
		return content, nil
	case []any:
		var sb strings.Builder
		for _, p := range content {
			part, ok := providers.ObjectValue(p)
			if !ok {
				continue
			}
			if typ, ok := part["type"]; ok && typ != "text" {
				continue
			}
			if text, ok := providers.StringValue(part["text"]); ok {
				sb.WriteString(text)
			}
		}
		return sb.String(), nil
	default:
		return "", nil
	}
}

// extractUsage reads the usage block.
func extractUsage(data map[string]any) *providers.Usage {
	usage, ok := providers.ObjectValue(data["usage"])
	if !ok {
		return nil
	}
	return providers.NewUsage(
		providers.IntValue(usage["prompt_tokens"]),
		providers.IntValue(usage["completion_tokens"]),
		providers.IntValue(usage["total_tokens"]),
	)
}

// extractErrorDetails decodes {"error":{"message","type","code"}}.
func extractErrorDetails(resp *providers.HTTPResponse) providers.APIErrorDetails {
	body := providers.DecodeErrorBody(resp, resp.HeaderValue(requestIDHeaders...))
	if body.Error != nil {
		body.Details.ErrorType, _ = providers.StringValue(body.Error["type"])
		body.Details.Code = providers.ScalarString(body.Error["code"])
	}
	return body.Details
}
