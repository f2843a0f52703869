package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mercator-hq/unifiedllm/pkg/cli"
	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/gateway"
	"mercator-hq/unifiedllm/pkg/providers"
	"mercator-hq/unifiedllm/pkg/telemetry/logging"
)

var chatFlags struct {
	provider    string
	model       string
	apiKey      string
	baseURL     string
	timeout     time.Duration
	system      string
	temperature float64
	topP        float64
	maxTokens   int
	stop        []string
	custom      []string
	messages    []string
	output      string
	interactive bool
}

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send a chat request",
	Long: `Send a prompt or a conversation to the selected provider and print the
normalized response.

The prompt is the positional arguments joined by spaces; "-" reads it from
stdin. Use --message (repeatable) to send a conversation instead, with each
message written as role:content where role is "user" or "model".

Interactive mode keeps a multi-turn transcript. Type /reset to start over
and /exit to quit.

Examples:
  # One-shot prompt
  unifiedllm chat "Explain goroutines in one sentence"

  # Anthropic with a system prompt and sampling options
  unifiedllm chat --provider anthropic --system "Answer in French" \
      --temperature 0.3 --max-tokens 200 "Hello"

  # Conversation with vendor-specific parameters
  unifiedllm chat --provider openai --custom seed=42 \
      --message "user:Pick a number" --message "model:7" --message "user:Why?"

  # JSON output with usage and request id
  unifiedllm chat --output json "ping"`,
	RunE: chatCommand,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	f := chatCmd.Flags()
	f.StringVarP(&chatFlags.provider, "provider", "p", "", "provider id: openai, anthropic, gemini (default from config)")
	f.StringVarP(&chatFlags.model, "model", "m", "", "model name (default from config)")
	f.StringVar(&chatFlags.apiKey, "api-key", "", "API key or ${secret:name} reference (default: credential chain)")
	f.StringVar(&chatFlags.baseURL, "base-url", "", "override the vendor base URL")
	f.DurationVar(&chatFlags.timeout, "timeout", 0, "request timeout (default from config)")
	f.StringVarP(&chatFlags.system, "system", "s", "", "system prompt")
	f.Float64Var(&chatFlags.temperature, "temperature", 0, "sampling temperature")
	f.Float64Var(&chatFlags.topP, "top-p", 0, "nucleus sampling probability")
	f.IntVar(&chatFlags.maxTokens, "max-tokens", 0, "maximum tokens to generate")
	f.StringArrayVar(&chatFlags.stop, "stop", nil, "stop sequence (repeatable)")
	f.StringArrayVar(&chatFlags.custom, "custom", nil, "vendor parameter as key=value; JSON values are decoded (repeatable)")
	f.StringArrayVar(&chatFlags.messages, "message", nil, "conversation message as role:content (repeatable)")
	f.StringVarP(&chatFlags.output, "output", "o", "text", "output format: text, json, csv")
	f.BoolVarP(&chatFlags.interactive, "interactive", "i", false, "interactive multi-turn session")
}

// chatOptions is the parsed form of the chat flags.
type chatOptions struct {
	provider string
	model    string
	apiKey   string
	baseURL  string
	timeout  time.Duration
	system   string

	// generation holds only the options given on the command line
	generation providers.GenerationConfig

	prompt      string
	messages    []providers.Message
	output      cli.OutputFormat
	interactive bool
}

// streams are the command's standard streams.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func chatCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, err := parseChatFlags(cmd, args)
	if err != nil {
		return err
	}

	std := streams{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	if opts.prompt == "-" {
		data, err := readAll(std.in)
		if err != nil {
			return cli.NewCommandError("chat", fmt.Errorf("failed to read prompt from stdin: %w", err))
		}
		opts.prompt = data
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.close(context.Background())

	return runChat(ctx, cfg, svc, opts, std)
}

// parseChatFlags collects the chat flags. Generation options are taken only
// when given explicitly so the config file defaults stay in effect.
func parseChatFlags(cmd *cobra.Command, args []string) (chatOptions, error) {
	flags := cmd.Flags()

	output, err := cli.ParseFormat(chatFlags.output)
	if err != nil {
		return chatOptions{}, err
	}

	opts := chatOptions{
		provider:    chatFlags.provider,
		model:       chatFlags.model,
		apiKey:      chatFlags.apiKey,
		baseURL:     chatFlags.baseURL,
		timeout:     chatFlags.timeout,
		system:      chatFlags.system,
		prompt:      strings.Join(args, " "),
		output:      output,
		interactive: chatFlags.interactive,
	}

	if flags.Changed("temperature") {
		opts.generation.Temperature = &chatFlags.temperature
	}
	if flags.Changed("top-p") {
		opts.generation.TopP = &chatFlags.topP
	}
	if flags.Changed("max-tokens") {
		opts.generation.MaxTokens = &chatFlags.maxTokens
	}
	if flags.Changed("stop") {
		opts.generation.Stop = chatFlags.stop
	}

	if opts.generation.Custom, err = parseCustom(chatFlags.custom); err != nil {
		return chatOptions{}, err
	}
	if opts.messages, err = parseMessages(chatFlags.messages); err != nil {
		return chatOptions{}, err
	}

	return opts, nil
}

// parseCustom turns key=value pairs into vendor parameters. Values that are
// valid JSON are decoded; anything else is kept as a string.
func parseCustom(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	custom := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, cli.NewConfigError("custom", fmt.Sprintf("expected key=value, got %q", pair))
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		custom[key] = value
	}
	return custom, nil
}

// parseMessages turns role:content values into messages. Roles and content
// are validated by the gateway.
func parseMessages(values []string) ([]providers.Message, error) {
	messages := make([]providers.Message, 0, len(values))
	for i, v := range values {
		role, content, ok := strings.Cut(v, ":")
		if !ok {
			return nil, cli.NewConfigError("message", fmt.Sprintf("message %d: expected role:content, got %q", i, v))
		}
		messages = append(messages, providers.Message{Role: providers.Role(role), Content: content})
	}
	return messages, nil
}

// runChat builds the gateway and runs one call or an interactive session.
func runChat(ctx context.Context, cfg *config.Config, svc *services, opts chatOptions, std streams) error {
	gw, err := newGateway(ctx, cfg, svc, opts)
	if err != nil {
		return err
	}
	defer gw.Close()

	if opts.interactive {
		return runInteractive(ctx, gw, std)
	}

	resp, err := gw.Chat(ctx, gateway.ChatRequest{Prompt: opts.prompt, Messages: opts.messages})
	if err != nil {
		return cli.NewCommandError("chat", err)
	}

	return cli.NewFormatter(opts.output).FormatTo(std.out, newChatResult(resp))
}

// newGateway resolves provider, model, credentials and defaults from flags
// and configuration, flags winning.
func newGateway(ctx context.Context, cfg *config.Config, svc *services, opts chatOptions) (*gateway.Gateway, error) {
	id, err := gateway.ParseProviderID(firstNonEmpty(opts.provider, cfg.Gateway.Provider))
	if err != nil {
		return nil, err
	}

	gwOpts := gateway.Options{
		Provider: id,
		Model:    firstNonEmpty(opts.model, cfg.Gateway.ModelFor(string(id))),
		APIKey:   firstNonEmpty(opts.apiKey, cfg.Gateway.APIKey),
		BaseURL:  firstNonEmpty(opts.baseURL, cfg.Gateway.BaseURL),
		Timeout:  cfg.Gateway.Timeout,
	}
	if opts.timeout > 0 {
		gwOpts.Timeout = opts.timeout
	}

	if svc != nil {
		gwOpts.Metrics = svc.metrics
		gwOpts.Tracer = svc.tracer
		gwOpts.History = svc.recorder
		if svc.secrets != nil {
			gwOpts.Credentials = svc.secrets
			if gwOpts.APIKey != "" {
				key, err := svc.secrets.ResolveReferences(ctx, gwOpts.APIKey)
				if err != nil {
					return nil, cli.NewConfigError("api_key", err.Error())
				}
				gwOpts.APIKey = key
			}
		}
	}

	transport, err := newTransport(cfg.Gateway.TLS, gwOpts.Timeout)
	if err != nil {
		return nil, err
	}
	if transport != nil {
		gwOpts.Transport = transport
	}

	gw, err := gateway.New(gwOpts)
	if err != nil {
		if transport != nil {
			_ = transport.Close()
		}
		return nil, err
	}

	for _, gen := range []providers.GenerationConfig{cfg.Gateway.Generation.ToProviders(), opts.generation} {
		if err := gw.Configure(gen); err != nil {
			_ = gw.Close()
			return nil, err
		}
	}

	if system := firstNonEmpty(opts.system, cfg.Gateway.SystemPrompt); system != "" {
		gw.SetSystemPrompt(system)
	}

	return gw, nil
}

// runInteractive reads one user turn per line and keeps the transcript
// across turns. A failed turn is reported and dropped from the transcript.
func runInteractive(ctx context.Context, gw *gateway.Gateway, std streams) error {
	ctx = logging.WithSession(ctx, uuid.NewString())

	var transcript []providers.Message
	status := cli.NewStatusLine(std.errOut)
	scanner := bufio.NewScanner(std.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintf(std.errOut, "Chatting with %s (%s). /reset clears the conversation, /exit quits.\n",
		gw.Identity().DisplayName, gw.Model())

	for {
		fmt.Fprint(std.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(std.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			transcript = nil
			fmt.Fprintln(std.errOut, "Conversation cleared.")
			continue
		}

		transcript = append(transcript, providers.Message{Role: providers.RoleUser, Content: line})

		status.Start("waiting for " + gw.Provider().String())
		resp, err := gw.Chat(ctx, gateway.ChatRequest{Messages: transcript})
		if err != nil {
			status.Error(err)
			transcript = transcript[:len(transcript)-1]
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		status.Stop()

		fmt.Fprintln(std.out, resp.Text)
		if resp.Text != "" {
			transcript = append(transcript, providers.Message{Role: providers.RoleModel, Content: resp.Text})
		}
	}
}

// chatResult is the printed form of a response.
type chatResult struct {
	Text       string           `json:"text"`
	Provider   string           `json:"provider"`
	Model      string           `json:"model"`
	StatusCode int              `json:"status_code"`
	LatencyMS  float64          `json:"latency_ms"`
	RequestID  string           `json:"request_id,omitempty"`
	Usage      *providers.Usage `json:"usage,omitempty"`
}

func newChatResult(resp *providers.Response) chatResult {
	return chatResult{
		Text:       resp.Text,
		Provider:   resp.Provider,
		Model:      resp.Model,
		StatusCode: resp.StatusCode,
		LatencyMS:  resp.LatencyMS(),
		RequestID:  resp.RequestID,
		Usage:      resp.Usage,
	}
}

// WriteText implements cli.TextWriter.
func (r chatResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Text)
	return err
}

// CSVHeader implements cli.Tabular.
func (r chatResult) CSVHeader() []string {
	return []string{"provider", "model", "status_code", "latency_ms", "request_id",
		"prompt_tokens", "completion_tokens", "total_tokens", "text"}
}

// CSVRows implements cli.Tabular.
func (r chatResult) CSVRows() [][]string {
	var prompt, completion, total string
	if r.Usage != nil {
		prompt = formatCount(r.Usage.PromptTokens)
		completion = formatCount(r.Usage.CompletionTokens)
		total = formatCount(r.Usage.TotalTokens)
	}
	return [][]string{{
		r.Provider,
		r.Model,
		fmt.Sprint(r.StatusCode),
		fmt.Sprintf("%.0f", r.LatencyMS),
		r.RequestID,
		prompt,
		completion,
		total,
		r.Text,
	}}
}

func formatCount(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
