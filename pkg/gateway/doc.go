// Package gateway is the entry point of unifiedllm. A Gateway binds one
// provider adapter and one model, validates chat requests and reports every
// call to the optional logging, metrics, tracing and history sinks.
//
// # Basic Usage
//
//	gw, err := gateway.New(gateway.Options{
//	    Provider: gateway.OpenAI,
//	    Model:    "gpt-4o-mini",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gw.Close()
//
//	temp := 0.2
//	if err := gw.Configure(providers.GenerationConfig{Temperature: &temp}); err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := gw.SetSystemPrompt("Answer briefly.").
//	    Chat(ctx, gateway.ChatRequest{Prompt: "What is Go?"})
//
// # Providers
//
// The registry maps each ProviderID to its adapter. ParseProviderID accepts
// any casing and surrounding whitespace and lists the supported ids when the
// name is unknown.
package gateway
