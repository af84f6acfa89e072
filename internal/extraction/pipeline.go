package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"paperplane/internal/domain"
)

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4000
)

// jsonArrayPattern is greedy: first '[' through last ']'.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Pipeline turns a markdown document into questions with one completion call.
type Pipeline struct {
	completer   domain.Completer
	logger      *zap.Logger
	tracer      trace.Tracer
	temperature float64
	maxTokens   int
}

type PipelineOption func(*Pipeline)

func WithTemperature(t float64) PipelineOption {
	return func(p *Pipeline) { p.temperature = t }
}

func WithMaxTokens(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// NewPipeline accepts a nil completer; Extract then reports a configuration error.
func NewPipeline(completer domain.Completer, logger *zap.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		completer:   completer,
		logger:      logger,
		tracer:      otel.Tracer("paperplane/extraction"),
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract runs the whole pipeline. Any failure aborts the batch; nothing is retried.
func (p *Pipeline) Extract(ctx context.Context, markdown string, sel Selector) ([]domain.Question, error) {
	ctx, span := p.tracer.Start(ctx, "extraction.Extract", trace.WithAttributes(
		attribute.String("extraction.selector", string(sel)),
		attribute.Int("extraction.markdown_bytes", len(markdown)),
	))
	defer span.End()

	questions, err := p.extract(ctx, markdown, sel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Error("Markdown extraction failed", zap.String("selector", string(sel)), zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("extraction.questions", len(questions)))
	return questions, nil
}

func (p *Pipeline) extract(ctx context.Context, markdown string, sel Selector) ([]domain.Question, error) {
	if p.completer == nil {
		return nil, domain.NewConfigurationError("OpenAI API key not configured")
	}
	if strings.TrimSpace(markdown) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("markdown")}
	}

	meta := ExtractMetadata(markdown)

	reply, err := p.completer.Complete(ctx, domain.CompletionRequest{
		System:      BuildPrompt(sel),
		User:        UserMessage(markdown),
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewNetworkError("completion request failed", err)
	}

	questions, err := ParseReply(reply, meta)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Extracted questions",
		zap.String("selector", string(sel)),
		zap.String("model", p.completer.Model()),
		zap.String("subject", meta.Subject),
		zap.String("chapter", meta.Chapter),
		zap.String("section", meta.Section),
		zap.Int("count", len(questions)),
	)
	return questions, nil
}

// ParseReply locates the JSON array in a model reply and converts every element.
func ParseReply(reply string, meta Metadata) ([]domain.Question, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, domain.NewExtractionError("No response from OpenAI", nil)
	}
	match := jsonArrayPattern.FindString(reply)
	if match == "" {
		return nil, domain.NewExtractionError("No JSON array found in response", nil)
	}

	var raws []RawQuestion
	if err := json.Unmarshal([]byte(match), &raws); err != nil {
		return nil, domain.NewParseError("model returned malformed JSON", err)
	}

	questions := make([]domain.Question, 0, len(raws))
	for i, raw := range raws {
		q, err := ToQuestion(raw, i, meta)
		if err != nil {
			return nil, domain.NewParseError(fmt.Sprintf("question %d could not be converted", i+1), err).
				WithContext("index", i)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
