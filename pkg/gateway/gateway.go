package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mercator-hq/unifiedllm/pkg/history"
	"mercator-hq/unifiedllm/pkg/providers"
	"mercator-hq/unifiedllm/pkg/telemetry/logging"
	"mercator-hq/unifiedllm/pkg/telemetry/metrics"
	"mercator-hq/unifiedllm/pkg/telemetry/tracing"
)

// Options configures a Gateway.
type Options struct {
	// Provider selects the adapter (required)
	Provider ProviderID

	// Model is the vendor model identifier (required)
	Model string

	// APIKey is an explicit credential; it wins over Credentials
	APIKey string

	// BaseURL overrides the vendor base URL
	BaseURL string

	// Timeout is the fixed per-request timeout.
	// Default: 60s
	Timeout time.Duration

	// Credentials is consulted when APIKey is empty.
	// Default: environment variables
	Credentials providers.CredentialSource

	// Transport overrides the HTTP transport
	Transport providers.Transport

	// Logger defaults to slog.Default()
	Logger *slog.Logger

	// Metrics, Tracer and History are optional; nil disables each
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	History *history.Recorder
}

// ChatRequest carries the conversation for one call. Exactly one of Prompt
// and Messages must be set.
type ChatRequest struct {
	// Prompt is shorthand for a single user message
	Prompt string

	// Messages is the ordered conversation
	Messages []providers.Message
}

// Gateway is the single public entry point: it owns one provider client and
// wraps every call with logging, metrics, tracing and history.
type Gateway struct {
	id     ProviderID
	client *providers.Client

	logger   *slog.Logger
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	recorder *history.Recorder

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New resolves the provider in the registry and builds its client. Identity,
// endpoint and credential problems are reported here, before any network
// activity.
//
// Example:
//
//	gw, err := gateway.New(gateway.Options{
//	    Provider: gateway.Anthropic,
//	    Model:    "claude-3-5-haiku-latest",
//	})
//	if err != nil {
//	    return err
//	}
//	defer gw.Close()
func New(opts Options) (*Gateway, error) {
	id, err := ParseProviderID(string(opts.Provider))
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "gateway", "provider", string(id))

	client, err := registry[id].newClient(providers.ClientOptions{
		Model:       opts.Model,
		APIKey:      opts.APIKey,
		BaseURL:     opts.BaseURL,
		Timeout:     opts.Timeout,
		Transport:   opts.Transport,
		Credentials: opts.Credentials,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("gateway created",
		"model", client.Model(),
		"url", client.URL(),
		"timeout", client.Timeout(),
	)

	return &Gateway{
		id:       id,
		client:   client,
		logger:   logger,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		recorder: opts.History,
	}, nil
}

// Provider returns the provider id.
func (g *Gateway) Provider() ProviderID {
	return g.id
}

// Model returns the model requests are sent for.
func (g *Gateway) Model() string {
	return g.client.Model()
}

// Identity returns the provider identity.
func (g *Gateway) Identity() providers.Identity {
	return g.client.Identity()
}

// Configure merges cfg into the generation config. Unset options keep their
// current value; unsupported custom keys fail immediately and nothing is
// merged. Unlike SetSystemPrompt it is not chainable, since it can fail.
func (g *Gateway) Configure(cfg providers.GenerationConfig) error {
	return g.client.Configure(cfg)
}

// Config returns a copy of the current generation config.
func (g *Gateway) Config() providers.GenerationConfig {
	return g.client.Config()
}

// SetSystemPrompt sets the system prompt used by later calls.
func (g *Gateway) SetSystemPrompt(text string) *Gateway {
	g.client.SetSystemPrompt(text)
	return g
}

// ClearSystemPrompt removes the system prompt.
func (g *Gateway) ClearSystemPrompt() *Gateway {
	g.client.ClearSystemPrompt()
	return g
}

// SystemPrompt returns the current system prompt and whether one is set.
func (g *Gateway) SystemPrompt() (string, bool) {
	return g.client.SystemPrompt()
}

// Chat validates the request, sends it and returns the normalized response.
// Every call, including rejected ones, is reported to the configured
// metrics, tracer and history recorder.
func (g *Gateway) Chat(ctx context.Context, req ChatRequest) (*providers.Response, error) {
	start := time.Now()
	model := g.client.Model()

	callID := uuid.New().String()
	ctx = logging.WithCallID(ctx, callID)
	ctx = logging.WithProvider(ctx, string(g.id))
	ctx = logging.WithModel(ctx, model)

	messages, verr := normalizeRequest(req)
	messageCount := len(req.Messages)
	if req.Prompt != "" {
		messageCount++
	}

	ctx, span := g.tracer.StartChat(ctx, string(g.id), model, messageCount)
	defer span.End()
	tracing.SetCallID(span, callID)
	if traceID := tracing.TraceID(ctx); traceID != "" {
		ctx = logging.WithTraceID(ctx, traceID)
	}

	g.metrics.CallStarted(string(g.id))
	defer g.metrics.CallFinished(string(g.id))

	var (
		resp *providers.Response
		err  error
	)
	switch {
	case verr != nil:
		err = verr
	case g.closed.Load():
		err = &providers.ConfigError{
			Provider: string(g.id),
			Field:    "gateway",
			Message:  "gateway is closed",
		}
	default:
		resp, err = g.client.Chat(ctx, messages)
	}

	g.observe(ctx, span, callObservation{
		callID:       callID,
		model:        model,
		start:        start,
		messageCount: messageCount,
		prompt:       lastContent(req),
		resp:         resp,
		err:          err,
	})

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Close releases the provider client. Only the first call has an effect;
// Chat fails once the gateway is closed.
func (g *Gateway) Close() error {
	g.closeOnce.Do(func() {
		g.closed.Store(true)
		g.closeErr = g.client.Close()
		g.logger.Debug("gateway closed")
	})
	return g.closeErr
}

// normalizeRequest enforces the prompt/messages contract and returns the
// canonical conversation: roles trimmed and lowercased, content trimmed and
// non-empty.
func normalizeRequest(req ChatRequest) ([]providers.Message, error) {
	hasPrompt := req.Prompt != ""
	hasMessages := len(req.Messages) > 0

	switch {
	case hasPrompt && hasMessages:
		return nil, &providers.ValidationError{
			Field:   "request",
			Message: "provide only one of prompt or messages, not both",
		}
	case !hasPrompt && !hasMessages:
		return nil, &providers.ValidationError{
			Field:   "request",
			Message: "provide either prompt or messages",
		}
	case hasPrompt:
		if strings.TrimSpace(req.Prompt) == "" {
			return nil, &providers.ValidationError{
				Field:   "prompt",
				Message: "prompt must not be blank",
			}
		}
		return []providers.Message{{Role: providers.RoleUser, Content: req.Prompt}}, nil
	}

	out := make([]providers.Message, len(req.Messages))
	for i, m := range req.Messages {
		role, err := providers.NormalizeRole(i, m.Role)
		if err != nil {
			return nil, err
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return nil, &providers.ValidationError{
				Field:   fmt.Sprintf("messages[%d].content", i),
				Message: fmt.Sprintf("content of message %d must not be empty", i),
			}
		}
		out[i] = providers.Message{Role: role, Content: content}
	}
	return out, nil
}

// lastContent returns the text recorded as the call's prompt.
func lastContent(req ChatRequest) string {
	if req.Prompt != "" {
		return req.Prompt
	}
	if n := len(req.Messages); n > 0 {
		return req.Messages[n-1].Content
	}
	return ""
}
