package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"paperplane/internal/config"
	"paperplane/internal/domain"
)

const tracerName = "paperplane/llm"

// OpenAICompleter implements domain.Completer against the chat completions API
// or any server speaking the same protocol.
type OpenAICompleter struct {
	client *openai.Client
	model  string
	logger *zap.Logger
	tracer trace.Tracer
}

// NewOpenAICompleter fails with CONFIGURATION_ERROR when no API key is set.
func NewOpenAICompleter(cfg config.LLMConfig, logger *zap.Logger) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewConfigurationError("OpenAI API key not configured")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4Turbo
	}

	return &OpenAICompleter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}, nil
}

func (c *OpenAICompleter) Model() string { return c.model }

// Complete returns the first choice's content, or "" when the model sent no choices.
func (c *OpenAICompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openai.CreateChatCompletion", trace.WithAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	))
	defer span.End()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("OpenAI chat completion failed", zap.String("model", c.model), zap.Error(err))

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", domain.NewLLMServiceError(fmt.Errorf("openai status %d: %w", apiErr.HTTPStatusCode, err)).
				WithContext("status", apiErr.HTTPStatusCode)
		}
		return "", domain.NewNetworkError("OpenAI request failed", err)
	}

	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int("llm.completion_tokens", resp.Usage.CompletionTokens),
	)
	if len(resp.Choices) == 0 {
		return "", nil
	}
	c.logger.Debug("OpenAI chat completion received",
		zap.String("model", c.model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}
