package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

const apiKeySetting = "OPENAI_API_KEY"

type Config struct {
	Token       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
	Models      []string
}

type client struct {
	api *openai.Client
	cfg Config
}

// NewClient never fails on a missing token; the first completion reports it instead.
func NewClient(cfg Config) *client {
	apiCfg := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{}

	if cfg.Temperature == 0 {
		cfg.Temperature = domain.DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = domain.DefaultMaxTokens
	}
	if len(cfg.Models) == 0 {
		cfg.Models = domain.SupportedModels
	}

	return &client{
		api: openai.NewClientWithConfig(apiCfg),
		cfg: cfg,
	}
}

func (c *client) CreateChatCompletion(ctx context.Context, model string, messages []domain.ChatMessage) (domain.Completion, error) {
	if c.cfg.Token == "" {
		return domain.Completion{}, &domain.ConfigurationError{
			Setting: apiKeySetting,
			Err:     errors.New("API key is not set"),
		}
	}

	if !lo.Contains(c.cfg.Models, model) {
		return domain.Completion{}, &domain.UpstreamError{Err: fmt.Errorf("%w: %q", domain.ErrUnsupportedModel, model)}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toChatCompletionMessages(messages),
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	slog.DebugContext(ctx, "Sending chat completion request", "model", model, "messagesCount", len(messages))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Completion{}, c.upstreamError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return domain.Completion{}, &domain.UpstreamError{Err: errors.New("no choices in response")}
	}

	return domain.Completion{
		Model:   lo.Ternary(resp.Model != "", resp.Model, model),
		Content: resp.Choices[0].Message.Content,
		Usage:   toUsage(resp.Usage),
	}, nil
}

func (c *client) upstreamError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.UpstreamError{Err: fmt.Errorf("no response within %s: %w", c.cfg.Timeout, context.DeadlineExceeded)}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return &domain.UpstreamError{Err: context.Canceled}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{StatusCode: apiErr.HTTPStatusCode, Err: errors.New(apiErr.Message)}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.UpstreamError{StatusCode: reqErr.HTTPStatusCode, Err: reqErr}
	}

	return &domain.UpstreamError{Err: err}
}
