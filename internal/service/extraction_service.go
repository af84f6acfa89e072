package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"paperplane/internal/domain"
	"paperplane/internal/dto"
	"paperplane/internal/extraction"
)

// Extractor is the part of extraction.Pipeline the service needs.
type Extractor interface {
	Extract(ctx context.Context, markdown string, sel extraction.Selector) ([]domain.Question, error)
}

// ExtractionService turns uploaded markdown into questions for review.
type ExtractionService interface {
	Extract(ctx context.Context, markdown, selector string) (*dto.ExtractResponse, error)
	Types() []dto.QuestionTypeOption
}

type extractionService struct {
	extractor Extractor
	model     string
	logger    *zap.Logger
}

func NewExtractionService(extractor Extractor, model string, logger *zap.Logger) ExtractionService {
	return &extractionService{extractor: extractor, model: model, logger: logger}
}

func (s *extractionService) Extract(ctx context.Context, markdown, selector string) (*dto.ExtractResponse, error) {
	sel, err := extraction.ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(markdown) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("markdown")}
	}

	start := time.Now()
	questions, err := s.extractor.Extract(ctx, markdown, sel)
	if err != nil {
		return nil, err
	}
	meta := extraction.ExtractMetadata(markdown)
	s.logger.Info("Questions extracted",
		zap.String("selector", string(sel)),
		zap.Int("count", len(questions)),
		zap.Duration("elapsed", time.Since(start)))

	if questions == nil {
		questions = []domain.Question{}
	}
	return &dto.ExtractResponse{
		Success:   true,
		Count:     len(questions),
		Type:      string(sel),
		Model:     s.model,
		Metadata:  dto.ExtractMetadata{Subject: meta.Subject, Chapter: meta.Chapter, Section: meta.Section},
		Questions: questions,
	}, nil
}

// Types lists the selector choices in display order, auto last.
func (s *extractionService) Types() []dto.QuestionTypeOption {
	sels := extraction.Selectors()
	out := make([]dto.QuestionTypeOption, 0, len(sels))
	for _, sel := range sels {
		out = append(out, dto.QuestionTypeOption{Value: string(sel), Label: sel.Label()})
	}
	return out
}
