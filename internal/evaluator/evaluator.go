// Package evaluator implements the LLM-backed stage evaluators of the
// returns pipeline. Each evaluator maps structured input to a typed verdict
// and absorbs every classifier failure into the stage's fallback sentinel:
// a stage never returns an error and never aborts the pipeline.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmvoss/returns-triage/internal/api/openai"
	"github.com/jmvoss/returns-triage/internal/tokens"
)

// Completer is the single operation the evaluators need from the classifier:
// prompt in, raw text verdict out. Implementations signal transport or
// malformed-response conditions via the error; callers convert those to the
// stage's fallback verdict.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	defaultModel   = "gpt-3.5-turbo"
	defaultTimeout = 15 * time.Second

	// Low temperature keeps the single-token verdicts stable across runs.
	verdictTemperature float32 = 0.3
)

// ClientOption configures the classifier client.
type ClientOption func(*Client)

// WithModel overrides the completion model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithTimeout bounds each classifier call. The pipeline must never hang on
// one stage, so zero is not accepted; non-positive values keep the default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for per-call accounting.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client adapts the OpenAI API client to the Completer interface, adding the
// per-call timeout and prompt token accounting.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
	counter *tokens.Counter
}

var _ Completer = (*Client)(nil)

// NewClient creates a classifier client backed by the OpenAI API.
func NewClient(api *openai.Client, opts ...ClientOption) *Client {
	c := &Client{
		api:     api,
		model:   defaultModel,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.counter = tokens.NewCounter(c.model)
	return c
}

// Complete sends the prompt as a single user message and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if n, err := c.counter.Count(prompt); err == nil {
		c.logger.Debug("classifier call",
			slog.String("model", c.model),
			slog.Int("prompt_tokens", n),
		)
	}

	temp := verdictTemperature
	resp, err := c.api.CreateChatCompletion(ctx, &openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
