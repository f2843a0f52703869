// Package gemini implements the Google Gemini provider adapter for the
// generateContent REST API.
//
// The model is embedded in the endpoint path
// (/v1beta/models/{model}:generateContent) and the key is sent in the
// x-goog-api-key header. Canonical roles "user" and "model" are Gemini's own
// vocabulary and pass through unchanged; each message becomes a content with
// a single text part. The system prompt is sent as systemInstruction and the
// generation options are nested under generationConfig, which is omitted when
// no option is set.
package gemini
