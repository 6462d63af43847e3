package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// maxMessageTokens caps the backend output; commit messages are short.
const maxMessageTokens = 200

// OpenAI generates commit messages through the OpenAI chat completion API.
type OpenAI struct {
	client          *openai.Client
	model           string
	maxRetries      int
	initialDelay    time.Duration
	reasoningEffort string
	verbosity       string
}

// OpenAIOption is a functional option for OpenAI.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	baseURL         string
	organization    string
	timeout         time.Duration
	maxRetries      int
	reasoningEffort string
	verbosity       string
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithOrganization sets the OpenAI organization ID.
func WithOrganization(org string) OpenAIOption {
	return func(c *openAIConfig) { c.organization = org }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *openAIConfig) { c.timeout = d }
}

// WithMaxRetries sets how many times a failed request is retried.
func WithMaxRetries(n int) OpenAIOption {
	return func(c *openAIConfig) { c.maxRetries = n }
}

// WithReasoningEffort passes a reasoning-effort hint to the model.
func WithReasoningEffort(effort string) OpenAIOption {
	return func(c *openAIConfig) { c.reasoningEffort = effort }
}

// WithVerbosity sets the response verbosity hint.
func WithVerbosity(verbosity string) OpenAIOption {
	return func(c *openAIConfig) { c.verbosity = verbosity }
}

// NewOpenAI creates an OpenAI backend for the given model.
func NewOpenAI(apiKey, model string, opts ...OpenAIOption) *OpenAI {
	cfg := openAIConfig{
		timeout:    60 * time.Second,
		maxRetries: 2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}
	if cfg.organization != "" {
		clientCfg.OrgID = cfg.organization
	}
	if cfg.timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.timeout}
	}

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientCfg),
		model:           model,
		maxRetries:      cfg.maxRetries,
		initialDelay:    time.Second,
		reasoningEffort: cfg.reasoningEffort,
		verbosity:       cfg.verbosity,
	}
}

func (o *OpenAI) Name() string { return "openai" }

// Generate submits the prompt pair and returns the sanitized message text.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens: maxMessageTokens,
	}
	if o.reasoningEffort != "" && o.reasoningEffort != "none" {
		chatReq.ReasoningEffort = o.reasoningEffort
	}
	if o.verbosity != "" {
		chatReq.Verbosity = o.verbosity
	}

	var resp openai.ChatCompletionResponse
	var err error
	delay := o.initialDelay
	for attempt := 0; ; attempt++ {
		resp, err = o.client.CreateChatCompletion(ctx, chatReq)
		if err == nil || attempt >= o.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	// Validate once at the boundary; nothing downstream re-checks shape.
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response contained no choices")
	}
	message := SanitizeMessage(resp.Choices[0].Message.Content)
	if message == "" {
		return "", fmt.Errorf("openai response contained no text")
	}
	return message, nil
}
