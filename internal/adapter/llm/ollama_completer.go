package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"paperplane/internal/config"
	"paperplane/internal/domain"
)

// contentGenerator is the part of llms.Model the completer needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// OllamaCompleter implements domain.Completer with a local Ollama server.
type OllamaCompleter struct {
	llm    contentGenerator
	model  string
	logger *zap.Logger
}

func NewOllamaCompleter(cfg config.LLMConfig, logger *zap.Logger) (*OllamaCompleter, error) {
	if cfg.OllamaURL == "" {
		return nil, domain.NewConfigurationError("ollama server URL cannot be empty")
	}
	if cfg.OllamaModel == "" {
		return nil, domain.NewConfigurationError("ollama model name cannot be empty")
	}

	client, err := ollama.New(
		ollama.WithModel(cfg.OllamaModel),
		ollama.WithServerURL(cfg.OllamaURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return &OllamaCompleter{llm: client, model: cfg.OllamaModel, logger: logger}, nil
}

func (c *OllamaCompleter) Model() string { return c.model }

func (c *OllamaCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ollama.GenerateContent", trace.WithAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	))
	defer span.End()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.User),
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(req.Temperature),
		llms.WithMaxTokens(req.MaxTokens),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("Ollama generation failed", zap.String("model", c.model), zap.Error(err))
		return "", domain.NewLLMServiceError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return stripThinking(resp.Choices[0].Content), nil
}

// stripThinking drops a <think>...</think> preamble emitted by reasoning models.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}
