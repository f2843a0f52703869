// Package providers implements the vendor-neutral half of the chat adapters.
//
// # Overview
//
// Every vendor adapter (openai, anthropic, gemini) is split in two. The
// vendor package implements the Adapter hooks: identity, headers, payload
// construction and response extraction. This package implements Client, the
// shared skeleton that validates the adapter once at construction, resolves
// the credential and endpoint, owns the Transport and turns every call into
// either a normalized Response or one of a closed set of errors.
//
// # Basic Usage
//
//	client, err := openai.New(providers.ClientOptions{
//	    Model:   "gpt-4o-mini",
//	    Timeout: 30 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Configure(providers.GenerationConfig{
//	    Temperature: providers.Float64(0.2),
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Chat(ctx, []providers.Message{
//	    {Role: providers.RoleUser, Content: "Hello!"},
//	})
//
// # Call Lifecycle
//
// A call moves through BUILD_PAYLOAD, SEND, MAP_TRANSPORT_ERROR, PARSE_JSON,
// VALIDATE_SHAPE, EXTRACT_FIELDS and ASSEMBLE_RESPONSE. The body is decoded
// with json.Number so integer token counters are kept apart from floats.
// Nothing is retried.
//
// # Error Handling
//
// All errors returned by a Client belong to the taxonomy below and can be
// matched with errors.As, or classified with KindOf:
//
//   - ConfigError: identity, endpoint or custom parameter misconfiguration
//   - MissingCredentialError: no API key passed and none in the credential source
//   - TransportError: timeout or network failure, no HTTP response
//   - APIError: the vendor answered with status >= 400
//   - ParseError: the body was not a JSON object or lacked a required field
//   - ValidationError: caller input such as an unsupported role
//
// Example error handling:
//
//	resp, err := client.Chat(ctx, messages)
//	if err != nil {
//	    var apiErr *providers.APIError
//	    switch {
//	    case errors.As(err, &apiErr):
//	        fmt.Printf("status %d: %s\n", apiErr.StatusCode, apiErr.Message)
//	    case providers.KindOf(err) == providers.KindTransport:
//	        fmt.Printf("network trouble: %v\n", err)
//	    default:
//	        fmt.Printf("Error: %v\n", err)
//	    }
//	}
//
// # Thread Safety
//
// Configuration and the system prompt are guarded by a mutex and snapshotted
// at the start of each call, so a Client is safe for concurrent use. A
// configuration change made while a call is in flight applies to the next
// call only.
package providers
