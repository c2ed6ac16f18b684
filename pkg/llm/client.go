// Package llm sends completion requests to a hosted language model with
// retry, response caching and latency metrics. Providers are pluggable;
// Gemini and OpenAI-compatible endpoints are built in.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/seo-tagger/pkg/caching"
	"github.com/dtnitsch/seo-tagger/pkg/metrics"
)

// maxResponseSize limits the provider response body.
const maxResponseSize = 4 * 1024 * 1024

// Request is one completion request.
type Request struct {
	// System is the instruction that frames the task.
	System string

	// Prompt is the user content.
	Prompt string

	// Temperature controls randomness. nil uses the provider default.
	Temperature *float64

	// MaxTokens limits response length. 0 uses the provider default.
	MaxTokens int

	// JSON asks the provider for a JSON object response when it supports it.
	JSON bool

	// Validate, when set, decides whether an answer is usable. Answers it
	// rejects are returned to the caller but never cached, and a cached
	// answer it rejects counts as a miss.
	Validate func(*Response) error
}

// Finish reasons that mean the provider cut the answer short.
var truncatedFinishReasons = map[string]bool{
	"MAX_TOKENS": true, // gemini
	"length":     true, // openai
}

// Truncated reports whether the provider stopped before the answer was complete.
func (r *Response) Truncated() bool {
	return truncatedFinishReasons[r.FinishReason]
}

// TokenUsage represents token consumption details for a call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response contains the completion result.
type Response struct {
	// RequestID uniquely identifies this call in logs.
	RequestID    string     `json:"request_id"`
	Content      string     `json:"content"`
	Model        string     `json:"model"`
	Usage        TokenUsage `json:"usage"`
	FinishReason string     `json:"finish_reason"`
	Cached       bool       `json:"-"`
}

// Provider performs a single completion call against one backend.
type Provider interface {
	// Name returns the provider identifier ("gemini", "openai").
	Name() string

	// Complete sends req for model and returns the raw answer. Errors should
	// be wrapped with NewTransientError or NewFatalError.
	Complete(ctx context.Context, model string, req Request) (*Response, error)
}

// Cache stores raw responses by key. *caching.Cache satisfies it.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte) error
}

// Client wraps a Provider with retry, caching and metrics.
type Client struct {
	provider    Provider
	model       string
	retryConfig RetryConfig
	logger      *slog.Logger
	cache       Cache
	metrics     *metrics.Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(c *Client) {
		if cfg.MaxAttempts > 0 {
			c.retryConfig = cfg
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCache enables response caching.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithMetrics records request latency and cache lookups.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for model on provider.
func NewClient(provider Provider, model string, opts ...ClientOption) *Client {
	c := &Client{
		provider:    provider,
		model:       model,
		retryConfig: DefaultRetryConfig(),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("component", "llm", "provider", provider.Name(), "model", model)
	return c
}

// Provider returns the provider name.
func (c *Client) Provider() string {
	return c.provider.Name()
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

// Complete sends req, retrying transient failures with exponential backoff.
// A cached response for an identical request is returned without a call.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.Prompt == "" {
		return nil, NewFatalError(errors.New("prompt is required"))
	}

	requestID := uuid.New().String()
	key := requestKey(c.provider.Name(), c.model, req)

	if resp, ok := c.cached(key, req.Validate); ok {
		resp.RequestID = requestID
		c.logger.Debug("LLM cache hit", "request_id", requestID)
		return resp, nil
	}

	var lastErr error
	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		start := time.Now()
		resp, err := c.provider.Complete(ctx, c.model, req)
		c.metrics.ObserveAIRequest(c.provider.Name(), err, time.Since(start))

		if err == nil && resp.Content == "" {
			err = NewFatalError(ErrEmptyResponse)
		}
		if err == nil {
			resp.RequestID = requestID
			c.storeIfUsable(key, req, resp)
			c.logger.Debug("LLM request complete",
				"request_id", requestID,
				"attempt", attempt,
				"total_tokens", resp.Usage.TotalTokens,
				"duration", time.Since(start))
			return resp, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, fmt.Errorf("llm request cancelled: %w", ctx.Err())
		}
		if IsFatal(err) {
			return nil, err
		}

		if attempt < c.retryConfig.MaxAttempts {
			backoff := c.retryConfig.backoff(attempt)
			c.logger.Debug("Request failed, retrying",
				"request_id", requestID,
				"attempt", attempt,
				"max_attempts", c.retryConfig.MaxAttempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("llm request cancelled: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("llm request failed after %d attempts: %w", c.retryConfig.MaxAttempts, lastErr)
}

// requestKey identifies req for the cache. Every field that changes the
// answer is part of the key.
func requestKey(provider, model string, req Request) string {
	temp := "default"
	if req.Temperature != nil {
		temp = strconv.FormatFloat(*req.Temperature, 'g', -1, 64)
	}
	return caching.Key(provider, model, req.System, req.Prompt,
		"temperature="+temp,
		"max_tokens="+strconv.Itoa(req.MaxTokens),
		"json="+strconv.FormatBool(req.JSON))
}

func (c *Client) cached(key string, validate func(*Response) error) (*Response, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, ok := c.cache.Get(key)
	if ok {
		var resp Response
		if err := json.Unmarshal(data, &resp); err == nil && resp.Content != "" && !resp.Truncated() {
			if validate == nil || validate(&resp) == nil {
				resp.Cached = true
				c.metrics.ObserveCache(true)
				return &resp, true
			}
			c.logger.Debug("Ignoring unusable cached LLM response")
		}
	}
	c.metrics.ObserveCache(false)
	return nil, false
}

// storeIfUsable caches resp unless it was truncated or req.Validate rejects it.
func (c *Client) storeIfUsable(key string, req Request, resp *Response) {
	if c.cache == nil {
		return
	}
	if resp.Truncated() {
		c.logger.Warn("Not caching truncated LLM response",
			"request_id", resp.RequestID,
			"finish_reason", resp.FinishReason)
		return
	}
	if req.Validate != nil {
		if err := req.Validate(resp); err != nil {
			c.logger.Warn("Not caching unusable LLM response",
				"request_id", resp.RequestID,
				"error", err)
			return
		}
	}
	c.store(key, resp)
}

func (c *Client) store(key string, resp *Response) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.cache.Set(key, data); err != nil {
		c.logger.Warn("Failed to cache LLM response", "error", err)
	}
}

// NewProvider builds the named provider. endpoint overrides the provider's
// default base URL; httpClient may be nil.
func NewProvider(name, apiKey, endpoint string, httpClient *http.Client) (Provider, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	switch name {
	case ProviderGemini, "":
		return NewGemini(apiKey, endpoint, httpClient), nil
	case ProviderOpenAI:
		return NewOpenAI(apiKey, endpoint, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", name)
	}
}
