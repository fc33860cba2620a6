package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"storyreel/internal/prompt"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultHTTPTimeout = 120 * time.Second
)

// ErrUnavailable indicates the provider could not be reached or refused the
// request: network failures, timeouts, auth and quota errors, 5xx responses.
var ErrUnavailable = errors.New("provider unavailable")

// ErrEmptyResponse indicates the provider answered but produced no usable
// text.
var ErrEmptyResponse = errors.New("empty provider response")

// Config captures the runtime settings required to talk to the provider.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client wraps an OpenAI-compatible chat completion API.
type Client struct {
	api   *openai.Client
	model string
}

// Option customizes the client.
type Option func(*clientSettings)

type clientSettings struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *clientSettings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewClient constructs a provider client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai: api key required")
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	settings := clientSettings{httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(&settings)
	}

	apiConfig := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiConfig.BaseURL = base
	}
	apiConfig.HTTPClient = settings.httpClient

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &Client{
		api:   openai.NewClientWithConfig(apiConfig),
		model: model,
	}, nil
}

// GenerateDocument sends one schema-constrained completion request and
// returns the raw response text. The text is not parsed here; the scenario
// package owns decoding.
func (c *Client) GenerateDocument(ctx context.Context, req *prompt.Request) (string, error) {
	if req == nil {
		return "", errors.New("genai: nil request")
	}

	completion := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Instruction},
		},
		Temperature: req.Sampling.Temperature,
		TopP:        req.Sampling.TopP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: true,
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, completion)
	if err != nil {
		return "", classifyRequestError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: blank completion content (finish_reason=%q)",
			ErrEmptyResponse, resp.Choices[0].FinishReason)
	}
	return content, nil
}

// classifyRequestError folds transport and API failures into ErrUnavailable
// while preserving the underlying detail. Context cancellation passes
// through untouched so callers can tell deliberate shutdown from provider
// trouble.
func classifyRequestError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: http %d: %s", ErrUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
