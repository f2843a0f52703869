// Package anthropic implements the Anthropic provider adapter.
//
// # Basic Usage
//
//	client, err := anthropic.New(providers.ClientOptions{
//	    Model: "claude-3-5-haiku-latest",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Chat(ctx, []providers.Message{
//	    {Role: providers.RoleUser, Content: "Hello!"},
//	})
//
// # API Compatibility
//
// This adapter is compatible with Anthropic's Messages API version 2023-06-01.
//
// # Request Transformation
//
//   - Role "model" is sent as "assistant"
//   - The system prompt is placed in the top-level "system" field
//   - max_tokens is required by the API and defaults to 1024
//   - stop is sent as stop_sequences
//
// # Response Transformation
//
//   - Text blocks of the content list are concatenated; other block types
//     are skipped
//   - Usage comes from input_tokens and output_tokens; the total is computed
//
// # Anthropic-Specific Requirements
//
//  1. Uses x-api-key header instead of Authorization: Bearer
//  2. Requires anthropic-version header
//  3. Error responses may carry the request id in the body when the
//     request-id header is absent
package anthropic
