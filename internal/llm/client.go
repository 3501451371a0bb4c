// ABOUTME: OpenAI chat client with bounded retries for plant replies
// ABOUTME: Per-attempt timeout, exponential backoff, and transient/fatal classification
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/plant-texts/internal/util"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = openai.GPT4oMini
	// DefaultMaxTokens keeps replies SMS-sized
	DefaultMaxTokens = 180
)

// ChatCompleter is the subset of *openai.Client the client needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ClientConfig holds configuration for the chat client
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	MaxAttempts int
	RetryDelay  time.Duration
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:      apiKey,
		ChatModel:   DefaultChatModel,
		MaxAttempts: 3,
		RetryDelay:  500 * time.Millisecond,
		Timeout:     30 * time.Second,
		MaxTokens:   DefaultMaxTokens,
		Temperature: 0.9,
	}
}

// Completion is a successful model reply
type Completion struct {
	Text     string
	Model    string
	Attempts int
	Usage    openai.Usage
}

// Client wraps a ChatCompleter with retry logic
type Client struct {
	api         ChatCompleter
	chatModel   string
	maxAttempts int
	retryDelay  time.Duration
	timeout     time.Duration
	maxTokens   int
	temperature float32
	logger      *zap.Logger
	// OnAttempt, if set, observes the outcome of every provider call.
	OnAttempt func(attempt int, err error)
}

// NewClient creates a client backed by the OpenAI API
func NewClient(config *ClientConfig, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oaiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oaiConfig.BaseURL = config.BaseURL
	}

	return NewClientWithCompleter(openai.NewClientWithConfig(oaiConfig), config, logger), nil
}

// NewClientWithCompleter creates a client around any ChatCompleter
func NewClientWithCompleter(api ChatCompleter, config *ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		api:         api,
		chatModel:   config.ChatModel,
		maxAttempts: config.MaxAttempts,
		retryDelay:  config.RetryDelay,
		timeout:     config.Timeout,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		logger:      logger,
	}
	if c.chatModel == "" {
		c.chatModel = DefaultChatModel
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	return c
}

// Model returns the configured chat model
func (c *Client) Model() string {
	return c.chatModel
}

// Complete sends messages to the model. Transient failures are retried up to
// the attempt budget; fatal failures return after the first attempt. The
// returned error is always a *ProviderTransientError or *ProviderFatalError.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := util.Sleep(ctx, util.CalculateBackoff(c.retryDelay, attempt-1)); err != nil {
				return Completion{}, &ProviderFatalError{Attempts: attempt - 1, Err: fmt.Errorf("retry aborted: %w", err)}
			}
		}

		text, usage, err := c.attempt(ctx, req)
		if c.OnAttempt != nil {
			c.OnAttempt(attempt, err)
		}
		if err == nil {
			return Completion{Text: text, Model: c.chatModel, Attempts: attempt, Usage: usage}, nil
		}

		lastErr = Classify(err)
		var fatal *ProviderFatalError
		if errors.As(lastErr, &fatal) {
			fatal.Attempts = attempt
			c.logger.Warn("provider call failed, not retrying",
				zap.Int("attempt", attempt), zap.Error(err))
			return Completion{}, fatal
		}
		if ctx.Err() != nil {
			return Completion{}, &ProviderFatalError{Attempts: attempt, Err: ctx.Err()}
		}
		c.logger.Info("provider call failed, will retry",
			zap.Int("attempt", attempt), zap.Int("max_attempts", c.maxAttempts), zap.Error(err))
	}

	transient := &ProviderTransientError{Attempts: c.maxAttempts, Err: lastErr}
	var inner *ProviderTransientError
	if errors.As(lastErr, &inner) {
		transient.StatusCode = inner.StatusCode
		transient.Err = inner.Err
	}
	return Completion{}, transient
}

func (c *Client) attempt(ctx context.Context, req openai.ChatCompletionRequest) (string, openai.Usage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", openai.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", resp.Usage, &ProviderTransientError{Err: errors.New("no completion choices returned")}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", resp.Usage, &ProviderTransientError{Err: errors.New("empty completion")}
	}
	return text, resp.Usage, nil
}
