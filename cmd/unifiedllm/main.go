// unifiedllm sends chat requests to OpenAI, Anthropic and Gemini through one
// request/response model and one error taxonomy.
//
// Usage:
//
//	# One-shot prompt with the configured default provider
//	unifiedllm chat "What is the capital of France?"
//
//	# Pick provider and model, tune generation
//	unifiedllm chat --provider anthropic --model claude-3-5-haiku-latest \
//	    --temperature 0.2 --max-tokens 256 "Summarize Go's memory model"
//
//	# Multi-turn conversation
//	unifiedllm chat --provider gemini --interactive
//
//	# Inspect recorded calls
//	unifiedllm history list --since 24h --output csv
//
//	# List supported providers
//	unifiedllm providers
//
//	# Check credentials and the history store before a run
//	unifiedllm doctor
//
// Exit status reflects the error kind: 2 for configuration and validation
// errors, 3 for a missing credential, 4 for transport failures, 5 for vendor
// API errors and 6 for unusable responses.
package main

func main() {
	Execute()
}
