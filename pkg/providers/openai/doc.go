// Package openai implements the OpenAI provider adapter.
//
// The adapter targets the chat completions API (POST /v1/chat/completions)
// and authenticates with a bearer token read from OPENAI_API_KEY unless one
// is passed explicitly.
//
// # Basic Usage
//
//	client, err := openai.New(providers.ClientOptions{Model: "gpt-4o-mini"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Chat(ctx, []providers.Message{
//	    {Role: providers.RoleUser, Content: "Hello!"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Text)
//
// # Request Transformation
//
//   - Role "model" is sent as "assistant"
//   - The system prompt is sent as a leading message with role "system"
//   - temperature, top_p, max_tokens and stop keep their names
//   - Custom parameters are copied to the top level of the body
//
// # Response Transformation
//
//   - Text is the content of the first choice; a missing or malformed
//     "choices" field is a parse error, an empty list yields ""
//   - Usage comes from usage.prompt_tokens, completion_tokens, total_tokens
//   - The request id comes from the x-request-id header, then request-id
package openai
