package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paperplane/internal/adapter/storage"
	"paperplane/internal/config"
	"paperplane/internal/domain"
)

const (
	defaultUploadConcurrency = 4
	defaultDownloadTimeout   = 30 * time.Second
	defaultMaxImageBytes     = 10 << 20
	fallbackContentType      = "image/jpeg"
)

// Image is a downloaded image body.
type Image struct {
	Body        []byte
	ContentType string
}

// RehostResult lists what a re-hosting pass wrote to the object store.
type RehostResult struct {
	// Keys are the object keys created, for rollback.
	Keys []string
	// URLs maps each source URL to its hosted replacement.
	URLs map[string]string
	// FirstURL is the first hosted URL in document order, if any.
	FirstURL string
}

// ImageService copies question images into the object store.
type ImageService interface {
	// Rehost uploads every external image referenced by q and rewrites the
	// references in place. On failure nothing uploaded by this call remains.
	Rehost(ctx context.Context, q *domain.Question) (*RehostResult, error)
	// Cleanup deletes keys, logging failures.
	Cleanup(ctx context.Context, keys []string)
	// Download fetches an http(s) image, bounded by size and timeout.
	Download(ctx context.Context, rawURL string) (*Image, error)
	// IsHosted reports whether rawURL points into the object store.
	IsHosted(rawURL string) bool
}

type imageService struct {
	store       domain.ObjectStore
	client      *http.Client
	logger      *zap.Logger
	tracer      trace.Tracer
	keyPrefix   string
	concurrency int
	timeout     time.Duration
	maxBytes    int64
}

// NewImageService builds the re-hosting service. client may be nil.
func NewImageService(store domain.ObjectStore, cfg config.StorageConfig, client *http.Client, logger *zap.Logger) ImageService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &imageService{
		store:       store,
		client:      client,
		logger:      logger,
		tracer:      otel.Tracer("paperplane/service"),
		keyPrefix:   cfg.KeyPrefix,
		concurrency: cfg.UploadConcurrency,
		timeout:     cfg.DownloadTimeout,
		maxBytes:    cfg.MaxImageBytes,
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultUploadConcurrency
	}
	if s.timeout <= 0 {
		s.timeout = defaultDownloadTimeout
	}
	if s.maxBytes <= 0 {
		s.maxBytes = defaultMaxImageBytes
	}
	return s
}

func (s *imageService) IsHosted(rawURL string) bool {
	_, ok := s.store.KeyFromURL(rawURL)
	return ok
}

func (s *imageService) Rehost(ctx context.Context, q *domain.Question) (*RehostResult, error) {
	refs := q.ImageRefs()
	result := &RehostResult{URLs: map[string]string{}}

	var sources []string
	seen := map[string]bool{}
	for _, ref := range refs {
		u := strings.TrimSpace(*ref)
		if u == "" || seen[u] || s.IsHosted(u) {
			continue
		}
		seen[u] = true
		sources = append(sources, u)
	}
	if len(sources) == 0 {
		return result, nil
	}

	ctx, span := s.tracer.Start(ctx, "images.Rehost", trace.WithAttributes(
		attribute.String("question.id", q.ID),
		attribute.Int("images.count", len(sources)),
	))
	defer span.End()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			hosted, key, err := s.copyOne(gctx, src)
			if err != nil {
				return err
			}
			mu.Lock()
			result.URLs[src] = hosted
			result.Keys = append(result.Keys, key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		// The group context is cancelled by now; rollback needs its own.
		s.Cleanup(context.WithoutCancel(ctx), result.Keys)
		return nil, err
	}

	for _, ref := range refs {
		if hosted, ok := result.URLs[strings.TrimSpace(*ref)]; ok {
			*ref = hosted
			if result.FirstURL == "" {
				result.FirstURL = hosted
			}
		}
	}
	s.logger.Info("Images re-hosted",
		zap.String("question_id", q.ID),
		zap.Int("count", len(result.Keys)))
	return result, nil
}

func (s *imageService) copyOne(ctx context.Context, src string) (string, string, error) {
	img, err := s.Download(ctx, src)
	if err != nil {
		return "", "", err
	}
	key := storage.ObjectKey(s.keyPrefix, src)
	contentType := img.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForKey(key)
	}
	if contentType == "" {
		contentType = fallbackContentType
	}
	hosted, err := s.store.Put(ctx, key, img.Body, contentType)
	if err != nil {
		return "", "", err
	}
	s.logger.Debug("Image uploaded", zap.String("source", src), zap.String("key", key))
	return hosted, key, nil
}

func (s *imageService) Cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to delete image during rollback", zap.String("key", key), zap.Error(err))
			continue
		}
		s.logger.Info("Rolled back uploaded image", zap.String("key", key))
	}
}

func (s *imageService) Download(ctx context.Context, rawURL string) (*Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("url", rawURL)}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, domain.NewInternalError("failed to build image request", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(fmt.Sprintf("Failed to download image from %s", rawURL), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewNetworkError(
			fmt.Sprintf("Failed to download image from %s: %s", rawURL, http.StatusText(resp.StatusCode)), nil).
			WithContext("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, domain.NewNetworkError(fmt.Sprintf("Failed to read image from %s", rawURL), err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("image %s exceeds %d bytes", rawURL, s.maxBytes))
	}
	return &Image{Body: body, ContentType: imageContentType(resp.Header.Get("Content-Type"))}, nil
}

// imageContentType keeps the header only when it names an image type.
func imageContentType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return ""
	}
	return mediaType
}
