// Package llm provides a provider-agnostic completion client.
// Each call is a single best-effort attempt: failures are classified as
// configuration or service errors and surfaced to the caller without
// retry, backoff, or model fallback.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stratagem-io/stratagem/model"
)

// maxResponseSize limits the completion response body to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Client is a provider-agnostic completion client.
type Client struct {
	registry   *model.Registry
	httpClient *http.Client
	logger     *slog.Logger

	// cache optionally serves repeated (prompt, model) pairs within a
	// TTL window to avoid redundant spend. If nil, caching is disabled.
	cache *Cache
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`    // "system" or "user"
	Content string `json:"content"` // Message content
}

// Request defines a completion request.
type Request struct {
	// Model is the allow-listed model name; empty uses the registry default.
	Model string

	// Messages is the conversation to send, typically one system
	// instruction and one user prompt.
	Messages []Message

	// Temperature controls randomness. nil uses the endpoint default.
	Temperature *float64

	// MaxTokens limits response length. 0 uses the endpoint default.
	MaxTokens int
}

// TokenUsage represents token consumption details for a completion call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response contains the completion result.
type Response struct {
	// RequestID uniquely identifies this call for log correlation.
	RequestID string

	// Content is the generated text.
	Content string

	// Model is the actual model that was used.
	Model string

	// Usage contains token consumption metrics.
	Usage TokenUsage

	// FinishReason indicates why generation stopped.
	FinishReason string

	// Cached is true when the response was served from the TTL cache
	// without a network call.
	Cached bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithCache enables TTL caching of completion responses.
func WithCache(cache *Cache) ClientOption {
	return func(client *Client) {
		client.cache = cache
	}
}

// NewClient creates a new completion client with the given model registry.
func NewClient(registry *model.Registry, opts ...ClientOption) *Client {
	c := &Client{
		registry: registry,
		httpClient: &http.Client{
			Timeout: 180 * time.Second, // Allow time for slow completions
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Complete sends a single completion request. The provider credential is
// checked before any network activity, so a missing key never produces
// an HTTP call. There is exactly one attempt: any transport or service
// failure is returned as a ServiceError for the caller to surface.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	endpoint, err := c.registry.Resolve(req.Model)
	if err != nil {
		return nil, NewConfigurationError(err)
	}

	provider := GetProvider(endpoint.Provider)
	if provider == nil {
		return nil, NewConfigurationError(fmt.Errorf("unknown provider: %s", endpoint.Provider))
	}

	// Credential short-circuit: fail deterministically before the wire.
	if err := provider.CheckCredential(); err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	cacheKey := cacheKeyFor(req.Messages, endpoint.Model)

	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			cacheHits.WithLabelValues(endpoint.Model).Inc()
			c.logger.Debug("Serving completion from cache",
				"request_id", requestID,
				"model", endpoint.Model)
			resp := cached
			resp.RequestID = requestID
			resp.Cached = true
			return &resp, nil
		}
	}

	started := time.Now()
	resp, err := c.doRequest(ctx, provider, endpoint, req)
	observeCompletion(endpoint.Model, err, time.Since(started))
	if err != nil {
		return nil, err
	}

	resp.RequestID = requestID
	c.logger.Debug("Completion finished",
		"request_id", requestID,
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
		"duration", time.Since(started))

	if c.cache != nil {
		c.cache.Put(cacheKey, *resp)
	}

	return resp, nil
}

// doRequest executes a single HTTP request to the completion endpoint.
func (c *Client) doRequest(ctx context.Context, provider Provider, ep *model.Endpoint, req Request) (*Response, error) {
	url := provider.BuildURL(ep.URL)

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = ep.MaxTokens
	}

	body, err := provider.BuildRequestBody(ep.Model, req.Messages, req.Temperature, maxTokens)
	if err != nil {
		return nil, NewConfigurationError(fmt.Errorf("build request body: %w", err))
	}

	c.logger.Debug("Sending completion request",
		"provider", ep.Provider,
		"model", ep.Model,
		"url", url,
		"messages", len(req.Messages))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewConfigurationError(fmt.Errorf("create HTTP request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	provider.SetHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewServiceError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewServiceError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	resp, err := provider.ParseResponse(respBody, ep.Model)
	if err != nil {
		return nil, NewServiceError(err)
	}
	return resp, nil
}

// classifyHTTPError maps an HTTP failure onto the error taxonomy.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("completion API error (status %d): %s", statusCode, bodyStr)

	switch statusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		// Credential and malformed-request problems are configuration
		// failures: retriggering the round cannot fix them.
		return NewConfigurationError(err)
	default:
		// Quota, model, and server failures all abort the round the
		// same way; there is no retry path to distinguish them for.
		return NewServiceError(err)
	}
}
