package generate

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kotomap/kotomap/pkg/catalog"
	apperrors "github.com/kotomap/kotomap/pkg/errors"
	"github.com/kotomap/kotomap/pkg/httputil"
	"github.com/kotomap/kotomap/pkg/observability"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// OpenAIConfig configures the chat-completion backend.
type OpenAIConfig struct {
	// APIKey authenticates against the API. Required.
	APIKey string

	// Model overrides DefaultModel.
	Model string

	// BaseURL overrides the API endpoint, for proxies and compatible
	// self-hosted servers.
	BaseURL string

	// Temperature for sampling. Zero means the API default.
	Temperature float32

	// MaxAttempts bounds transport retries. Zero means 3.
	MaxAttempts int
}

// OpenAIGenerator produces expansion payloads through the chat-completion
// API in JSON response mode.
type OpenAIGenerator struct {
	client *openai.Client
	cat    *catalog.Catalog
	cfg    OpenAIConfig
	system string
}

// NewOpenAIGenerator creates a generator for the given domain catalog.
func NewOpenAIGenerator(cfg OpenAIConfig, cat *catalog.Catalog) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "generator API key is not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		cat:    cat,
		cfg:    cfg,
		system: systemPrompt(cat),
	}, nil
}

// Model returns the configured model identifier, for cache keying.
func (g *OpenAIGenerator) Model() string { return g.cfg.Model }

// Expand implements [Generator]. Rate limits and 5xx responses are retried
// with exponential backoff; other failures return immediately.
func (g *OpenAIGenerator) Expand(ctx context.Context, req Request) ([]byte, error) {
	user, err := userPrompt(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "build prompt for %s", req.Focus.ID)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if g.cfg.Temperature != 0 {
		chatReq.Temperature = g.cfg.Temperature
	}

	hooks := observability.Generator()
	hooks.OnRequest(ctx, "openai", g.cfg.Model, req.Focus.ID)
	start := time.Now()

	var content string
	err = httputil.Retry(ctx, g.cfg.MaxAttempts, time.Second, func() error {
		resp, err := g.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return classifyAPIError(err)
		}
		if len(resp.Choices) == 0 {
			return apperrors.New(apperrors.ErrCodeInvalidPayload, "generator returned no choices")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		hooks.OnError(ctx, "openai", g.cfg.Model, req.Focus.ID, err)
		return nil, err
	}

	hooks.OnResponse(ctx, "openai", g.cfg.Model, req.Focus.ID, len(content), time.Since(start))
	return []byte(content), nil
}

// classifyAPIError maps API failures onto the application's error codes and
// marks transient ones retryable.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return &httputil.RetryableError{
				Err: apperrors.Wrap(apperrors.ErrCodeRateLimited, err, "generator rate limited"),
			}
		case apiErr.HTTPStatusCode >= 500:
			return &httputil.RetryableError{
				Err: apperrors.Wrap(apperrors.ErrCodeNetwork, err, "generator server error"),
			}
		default:
			return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "generator request failed")
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "generator request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	// Plain transport errors (connection refused, DNS) are worth retrying.
	return &httputil.RetryableError{
		Err: apperrors.Wrap(apperrors.ErrCodeNetwork, err, "generator request failed"),
	}
}
