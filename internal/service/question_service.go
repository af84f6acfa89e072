package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"paperplane/internal/cache"
	"paperplane/internal/config"
	"paperplane/internal/domain"
	"paperplane/internal/dto"
)

const defaultFilterOptionsTTL = 10 * time.Minute

// QuestionService manages curated questions and their images.
type QuestionService interface {
	Upload(ctx context.Context, q *domain.Question) (*dto.UploadResult, error)
	UploadBatch(ctx context.Context, questions []*domain.Question) *dto.BatchUploadResponse
	List(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
	CreateIndexes(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id string, q *domain.Question) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	// ProxyImage fetches an image on behalf of the browser.
	ProxyImage(ctx context.Context, rawURL string) (*Image, error)
}

type questionService struct {
	repo         domain.QuestionRepository
	images       ImageService
	cache        domain.Cache
	logger       *zap.Logger
	allowedHosts []string
	optionsTTL   time.Duration
}

// NewQuestionService wires the repository, image service and cache. optionsCache may be nil.
func NewQuestionService(
	repo domain.QuestionRepository,
	images ImageService,
	optionsCache domain.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) QuestionService {
	return &questionService{
		repo:         repo,
		images:       images,
		cache:        optionsCache,
		logger:       logger,
		allowedHosts: normalizeHosts(cfg.ImageProxy.AllowedHosts),
		optionsTTL:   config.ParseTTL(cfg.CacheTTLs.FilterOptions, defaultFilterOptionsTTL),
	}
}

// prepare validates structure and answers before anything is written.
func prepare(q *domain.Question) error {
	if q == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("question")}
	}
	if err := q.Validate(); err != nil {
		return err
	}
	return q.PrepareAnswers()
}

func (s *questionService) Upload(ctx context.Context, q *domain.Question) (*dto.UploadResult, error) {
	if err := prepare(q); err != nil {
		return nil, err
	}

	rehosted, err := s.images.Rehost(ctx, q)
	if err != nil {
		s.logger.Error("Image re-hosting failed", zap.String("question_id", q.ID), zap.Error(err))
		return nil, err
	}

	mongoID, err := s.repo.Insert(ctx, q)
	if err != nil {
		s.logger.Error("Insert failed, rolling back images",
			zap.String("question_id", q.ID),
			zap.Int("images", len(rehosted.Keys)),
			zap.Error(err))
		s.images.Cleanup(context.WithoutCancel(ctx), rehosted.Keys)
		return nil, err
	}
	s.invalidateFilterOptions(ctx)

	return &dto.UploadResult{
		Success: true,
		Message: "Question uploaded successfully",
		S3URL:   rehosted.FirstURL,
		MongoID: mongoID,
	}, nil
}

// UploadBatch processes items in order; one failure does not stop the rest.
func (s *questionService) UploadBatch(ctx context.Context, questions []*domain.Question) *dto.BatchUploadResponse {
	resp := &dto.BatchUploadResponse{Success: true, Results: make([]dto.UploadResult, 0, len(questions))}
	for i, q := range questions {
		res, err := s.Upload(ctx, q)
		if err != nil {
			s.logger.Warn("Batch item failed", zap.Int("index", i), zap.Error(err))
			resp.Failed++
			resp.Results = append(resp.Results, dto.UploadResult{Success: false, Message: errorMessage(err)})
			continue
		}
		resp.Successful++
		resp.Results = append(resp.Results, *res)
	}
	return resp
}

func errorMessage(err error) string {
	var fieldErrs domain.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) == 1 {
		return fieldErrs[0].Message
	}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

func (s *questionService) List(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	filter.Subject = strings.TrimSpace(filter.Subject)
	filter.Chapter = strings.TrimSpace(filter.Chapter)
	filter.Section = strings.TrimSpace(filter.Section)
	return s.repo.FindAll(ctx, filter)
}

func (s *questionService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	key := cache.FilterOptionsKey()
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var opts domain.FilterOptions
			if jsonErr := json.Unmarshal([]byte(raw), &opts); jsonErr == nil {
				return &opts, nil
			}
			s.logger.Warn("Discarding malformed cached filter options", zap.String("key", key))
		case !errors.Is(err, domain.ErrCacheMiss):
			s.logger.Warn("Filter options cache read failed", zap.Error(err))
		}
	}

	opts, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(opts); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.optionsTTL); err != nil {
				s.logger.Warn("Filter options cache write failed", zap.Error(err))
			}
		}
	}
	return opts, nil
}

func (s *questionService) invalidateFilterOptions(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.FilterOptionsKey()); err != nil {
		s.logger.Warn("Failed to invalidate filter options", zap.Error(err))
	}
}

func (s *questionService) CreateIndexes(ctx context.Context) ([]string, error) {
	return s.repo.CreateIndexes(ctx)
}

// Update re-hosts any new external images before replacing the document.
func (s *questionService) Update(ctx context.Context, id string, q *domain.Question) error {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("id")}
	}
	if err := prepare(q); err != nil {
		return err
	}
	rehosted, err := s.images.Rehost(ctx, q)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, q); err != nil {
		s.images.Cleanup(context.WithoutCancel(ctx), rehosted.Keys)
		return err
	}
	s.invalidateFilterOptions(ctx)
	s.logger.Info("Question updated", zap.String("mongo_id", id))
	return nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateFilterOptions(ctx)
	s.logger.Info("Question deleted", zap.String("mongo_id", id))
	return nil
}

func (s *questionService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ValidationErrors{domain.NewFieldError("ids", "ids must be a non-empty array")}
	}
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidateFilterOptions(ctx)
	}
	return n, nil
}

func (s *questionService) ProxyImage(ctx context.Context, rawURL string) (*Image, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("url")}
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("url", rawURL)}
	}
	if !s.images.IsHosted(rawURL) && !hostAllowed(u.Hostname(), s.allowedHosts) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("host %s is not allowed", u.Hostname()))
	}
	return s.images.Download(ctx, rawURL)
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.Trim(strings.TrimSpace(h), "."))
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// hostAllowed matches host against the allowlist exactly or as a subdomain.
func hostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, h := range allowed {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
