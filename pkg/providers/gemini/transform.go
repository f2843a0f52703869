package gemini

import (
	"errors"
	"strings"

	"mercator-hq/unifiedllm/pkg/providers"
)

// Part is a text fragment of a Gemini content.
type Part struct {
	Text string `json:"text"`
}

// Content is one conversation turn in Gemini format.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// transformContents converts canonical messages to Gemini contents. The
// canonical role vocabulary is Gemini's own, so roles pass through.
func transformContents(messages []providers.Message) ([]Content, error) {
	out := make([]Content, 0, len(messages))
	for i, msg := range messages {
		role, err := providers.NormalizeRole(i, msg.Role)
		if err != nil {
			return nil, err
		}
		out = append(out, Content{
			Role:  string(role),
			Parts: []Part{{Text: msg.Content}},
		})
	}
	return out, nil
}

// generationConfig maps canonical options onto the generationConfig object.
func generationConfig(cfg providers.GenerationConfig) map[string]any {
	out := make(map[string]any)
	if cfg.Temperature != nil {
		out["temperature"] = *cfg.Temperature
	}
	if cfg.TopP != nil {
		out["topP"] = *cfg.TopP
	}
	if cfg.MaxTokens != nil {
		out["maxOutputTokens"] = *cfg.MaxTokens
	}
	if cfg.Stop != nil {
		out["stopSequences"] = cfg.Stop
	}
	for key, value := range cfg.Custom {
		out[key] = value
	}
	return out
}

// transformRequest builds the generateContent request body. The model is
// part of the URL, not the body.
func transformRequest(messages []providers.Message, systemPrompt *string, cfg providers.GenerationConfig) (map[string]any, error) {
	contents, err := transformContents(messages)
	if err != nil {
		return nil, err
	}

	req := map[string]any{
		"contents": contents,
	}

	if systemPrompt != nil {
		req["systemInstruction"] = Content{Parts: []Part{{Text: *systemPrompt}}}
	}

	if gc := generationConfig(cfg); len(gc) > 0 {
		req["generationConfig"] = gc
	}

	return req, nil
}

// extractText joins the text parts of the first candidate. A candidate
// without content or parts (for example one blocked by safety filters)
// yields "".
func extractText(data map[string]any) (string, error) {
	raw, present := data["candidates"]
	if !present || raw == nil {
		return "", errors.New("unexpected response shape: 'candidates' missing")
	}
	candidates, ok := providers.ListValue(raw)
	if !ok {
		return "", errors.New("unexpected response shape: 'candidates' not a list")
	}
	if len(candidates) == 0 {
		return "", nil
	}

	candidate, _ := providers.ObjectValue(candidates[0])
	content, _ := providers.ObjectValue(candidate["content"])
	parts, _ := providers.ListValue(content["parts"])

	var sb strings.Builder
	for _, p := range parts {
		part, ok := providers.ObjectValue(p)
		if !ok {
			continue
		}
		if text, ok := providers.StringValue(part["text"]); ok {
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// extractUsage reads usageMetadata.
func extractUsage(data map[string]any) *providers.Usage {
	usage, ok := providers.ObjectValue(data["usageMetadata"])
	if !ok {
		return nil
	}
	return providers.NewUsage(
		providers.IntValue(usage["promptTokenCount"]),
		providers.IntValue(usage["candidatesTokenCount"]),
		providers.IntValue(usage["totalTokenCount"]),
	)
}

// extractRequestID prefers the body responseId over headers.
func extractRequestID(resp *providers.HTTPResponse, data map[string]any) string {
	if rid, ok := providers.StringValue(data["responseId"]); ok {
		if rid = strings.TrimSpace(rid); rid != "" {
			return rid
		}
	}
	return resp.HeaderValue(requestIDHeaders...)
}

// extractErrorDetails decodes the Google error shape
// {"error":{"code":<int>,"message":<str>,"status":<str>}}.
func extractErrorDetails(resp *providers.HTTPResponse) providers.APIErrorDetails {
	body := providers.DecodeErrorBody(resp, resp.HeaderValue(requestIDHeaders...))
	if body.Error != nil {
		body.Details.ErrorType, _ = providers.StringValue(body.Error["status"])
		body.Details.Code = providers.ScalarString(body.Error["code"])
	}
	return body.Details
}
