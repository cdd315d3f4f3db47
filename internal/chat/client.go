// Package chat provides the LLM-backed assistant: a provider-agnostic
// completion client with retry, plus local command routing.
package chat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxResponseSize caps the completion response body.
const maxResponseSize = 4 * 1024 * 1024

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"` // system, user, or assistant
	Content string `json:"content"`
}

// Request is a completion request.
type Request struct {
	Messages []Message

	// Temperature controls randomness; nil uses the provider default.
	Temperature *float64

	// MaxTokens limits response length; 0 uses the provider default.
	MaxTokens int
}

// TokenUsage reports token consumption for one call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completion result.
type Response struct {
	// RequestID correlates this call across logs and the UI.
	RequestID string

	Content      string
	Model        string
	Usage        TokenUsage
	FinishReason string
}

// RetryConfig controls retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        15 * time.Second,
	}
}

// Client sends completion requests to one configured provider.
type Client struct {
	provider Provider
	model    string
	baseURL  string

	httpClient *http.Client
	retry      RetryConfig
	log        *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBaseURL overrides the provider's default endpoint.
func WithBaseURL(u string) ClientOption {
	return func(client *Client) {
		client.baseURL = u
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(client *Client) {
		client.retry = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) ClientOption {
	return func(client *Client) {
		client.log = log
	}
}

// NewClient creates a client for a registered provider. An empty model
// selects the provider default.
func NewClient(providerName, model string, opts ...ClientOption) (*Client, error) {
	provider := GetProvider(providerName)
	if provider == nil {
		return nil, fmt.Errorf("unknown chat provider %q (have %v)", providerName, ListProviders())
	}
	if model == "" {
		model = provider.DefaultModel()
	}

	c := &Client{
		provider: provider,
		model:    model,
		retry:    DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		log: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Enabled reports whether the provider can be called at all.
func (c *Client) Enabled() bool {
	return c.provider.Enabled()
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends a completion request, retrying transient failures with
// exponential backoff.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, NewFatalError(fmt.Errorf("at least one message is required"))
	}

	requestID := uuid.New().String()
	started := time.Now()

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		resp, err := c.doRequest(ctx, req)
		if err == nil {
			resp.RequestID = requestID
			c.log.Debug("completion ok",
				zap.String("request_id", requestID),
				zap.String("model", resp.Model),
				zap.Int("tokens", resp.Usage.TotalTokens),
				zap.Duration("took", time.Since(started)))
			return resp, nil
		}

		lastErr = err
		if IsFatal(err) {
			return nil, err
		}

		if attempt < c.retry.MaxAttempts {
			backoff := c.backoff(attempt)
			c.log.Debug("completion failed, retrying",
				zap.String("request_id", requestID),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("completion failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

// backoff computes the exponential delay with +/-25% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= c.retry.BackoffMultiplier
	}

	backoff := time.Duration(float64(c.retry.BackoffBase) * multiplier)
	if backoff > c.retry.MaxBackoff {
		backoff = c.retry.MaxBackoff
	}

	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}

// doRequest executes one HTTP round trip.
func (c *Client) doRequest(ctx context.Context, req Request) (*Response, error) {
	body, err := c.provider.BuildRequestBody(c.model, req.Messages, req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("failed to build request body: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.provider.BuildURL(c.baseURL), bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.provider.SetHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("failed to read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	return c.provider.ParseResponse(respBody)
}

// classifyHTTPError splits HTTP errors into transient and fatal.
func classifyHTTPError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	err := fmt.Errorf("chat API error (status %d): %s", status, msg)

	switch {
	case status == http.StatusTooManyRequests:
		return NewTransientError(err)
	case status >= 500:
		return NewTransientError(err)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return NewFatalError(err)
	case status == http.StatusBadRequest:
		return NewFatalError(err)
	default:
		return NewFatalError(err)
	}
}
