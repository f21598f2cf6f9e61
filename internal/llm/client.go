package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pmatysiak/relbench/internal/cache"
	"github.com/pmatysiak/relbench/internal/model"
	"github.com/pmatysiak/relbench/internal/worker"
)

// sleepFunc is swapped out in tests to avoid real backoff waits.
var sleepFunc = time.Sleep

// Completer is the chat-completion contract consumed by the prompters.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Embedder is the embedding contract consumed by the retrieval store.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Client talks to an OpenRouter-compatible chat completion API. Calls are
// rate limited per model, wrapped in a circuit breaker, retried on
// transient failures and cached when a cache is attached.
type Client struct {
	api     *openai.Client
	cfg     model.APIConfig
	limiter *worker.Limiter
	breaker *CircuitBreaker
	cache   cache.Cache

	embeddingModel string
}

// NewClient creates a client for the configured endpoint. The cache may be
// nil, in which case every call goes to the wire.
func NewClient(cfg model.APIConfig, embeddingModel string, limiter *worker.Limiter, store cache.Cache) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &Client{
		api:            openai.NewClientWithConfig(clientConfig),
		cfg:            cfg,
		limiter:        limiter,
		breaker:        NewCircuitBreaker(),
		cache:          store,
		embeddingModel: embeddingModel,
	}, nil
}

// Complete sends one system/user prompt pair and returns the trimmed
// completion text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	key := cache.CompletionKey(c.cfg.Model, systemPrompt+"\x00"+userPrompt)
	if c.cache != nil {
		if data, found := c.cache.Get(key); found {
			return string(data), nil
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}

	text, err := c.completeWithRetry(ctx, req)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		_ = c.cache.Set(key, []byte(text), 0)
	}
	return text, nil
}

// Embed returns the embedding vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	key := cache.EmbeddingKey(c.embeddingModel, text)
	if c.cache != nil {
		if data, found := c.cache.Get(key); found {
			var vec []float64
			if err := json.Unmarshal(data, &vec); err == nil {
				return vec, nil
			}
		}
	}

	var vec []float64
	err := c.withRetry(ctx, func(callCtx context.Context) error {
		resp, err := c.api.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(c.embeddingModel),
			Input: []string{text},
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("no embedding in response")
		}
		vec = make([]float64, len(resp.Data[0].Embedding))
		for i, v := range resp.Data[0].Embedding {
			vec[i] = float64(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if data, err := json.Marshal(vec); err == nil {
			_ = c.cache.Set(key, data, 0)
		}
	}
	return vec, nil
}

func (c *Client) completeWithRetry(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	var text string
	err := c.withRetry(ctx, func(callCtx context.Context) error {
		resp, err := c.api.CreateChatCompletion(callCtx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	return text, err
}

// withRetry runs fn under the rate limiter and circuit breaker, retrying
// transient failures with exponential backoff. Non-retryable errors (auth
// failures, malformed requests) abort immediately.
func (c *Client) withRetry(ctx context.Context, fn func(context.Context) error) error {
	maxRetries := c.cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, c.cfg.Model); err != nil {
				return err
			}
		}

		_, err := c.breaker.Execute(ctx, func() (interface{}, error) {
			callCtx := ctx
			if c.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
				defer cancel()
			}
			return nil, fn(callCtx)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if errors.Is(err, ErrCircuitOpen) || ctx.Err() != nil {
			return err
		}
		if !isRetryable(err) {
			return err
		}
		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}
	return lastErr
}

// isRetryable classifies transient API failures: rate limits, server
// errors and network timeouts retry; other client errors are fatal.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 {
			return true
		}
		if apiErr.HTTPStatusCode >= 500 && apiErr.HTTPStatusCode < 600 {
			return true
		}
		return false
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "context deadline exceeded")
}
