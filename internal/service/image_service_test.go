package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paperplane/internal/config"
	"paperplane/internal/domain"
)

func newImageServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		switch {
		case strings.HasSuffix(r.URL.Path, ".png"):
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		case strings.HasSuffix(r.URL.Path, "/big.jpg"):
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case strings.HasSuffix(r.URL.Path, "/plain.jpg"):
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("jpeg-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func storageConfig(concurrency int) config.StorageConfig {
	return config.StorageConfig{
		KeyPrefix:         "questions",
		UploadConcurrency: concurrency,
		DownloadTimeout:   5 * time.Second,
		MaxImageBytes:     32,
	}
}

func TestImageService_Rehost(t *testing.T) {
	var hits int32
	srv := newImageServer(t, &hits)
	store := newMemoryStore()
	svc := NewImageService(store, storageConfig(4), srv.Client(), zap.NewNop())

	hosted := store.base + "/questions/existing.png"
	q := &domain.Question{
		ID:      "q1",
		Type:    domain.TypeSingle,
		Content: domain.Content{Text: "Which graph?", Images: []string{srv.URL + "/a.png", hosted}},
		Body: &domain.ChoiceBody{Options: []domain.Option{
			{Text: "one", ImageURL: srv.URL + "/a.png"},
			{Text: "two", ImageURL: srv.URL + "/plain.jpg"},
			{Text: "three"},
		}},
	}

	res, err := svc.Rehost(context.Background(), q)
	require.NoError(t, err)

	assert.Len(t, res.Keys, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "duplicate URLs are downloaded once")
	assert.Equal(t, 2, store.count())

	opts := q.Options()
	assert.True(t, strings.HasPrefix(q.Content.Images[0], store.base+"/questions/"))
	assert.Equal(t, hosted, q.Content.Images[1])
	assert.Equal(t, q.Content.Images[0], opts[0].ImageURL)
	assert.True(t, strings.HasSuffix(opts[1].ImageURL, ".jpg"))
	assert.Empty(t, opts[2].ImageURL)
	assert.Equal(t, q.Content.Images[0], res.FirstURL)

	for key, ct := range store.types {
		if strings.HasSuffix(key, ".png") {
			assert.Equal(t, "image/png", ct)
		} else {
			assert.Equal(t, "image/jpeg", ct, "non-image header falls back to the extension")
		}
	}
}

func TestImageService_RehostNothingToDo(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, storageConfig(0), nil, zap.NewNop())

	q := &domain.Question{Type: domain.TypeInteger, Content: domain.Content{Text: "2+2"}, Body: &domain.IntegerBody{}}
	res, err := svc.Rehost(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, res.Keys)
	assert.Empty(t, res.FirstURL)
}

func TestImageService_RehostRollsBackOnFailure(t *testing.T) {
	srv := newImageServer(t, nil)
	store := newMemoryStore()
	svc := NewImageService(store, storageConfig(1), srv.Client(), zap.NewNop())

	original := srv.URL + "/missing.gif"
	q := &domain.Question{
		Type:    domain.TypeSingle,
		Content: domain.Content{Text: "q", Images: []string{srv.URL + "/ok.png", original}},
		Body:    &domain.ChoiceBody{Options: []domain.Option{{Text: "a"}}},
	}

	_, err := svc.Rehost(context.Background(), q)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeNetwork))
	assert.Equal(t, 0, store.count())
	assert.Len(t, store.deleted, 1)
	assert.Equal(t, original, q.Content.Images[1], "references are untouched on failure")
}

func TestImageService_Download(t *testing.T) {
	srv := newImageServer(t, nil)
	svc := NewImageService(newMemoryStore(), storageConfig(1), srv.Client(), zap.NewNop())
	ctx := context.Background()

	img, err := svc.Download(ctx, srv.URL+"/x.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("png-bytes"), img.Body)

	_, err = svc.Download(ctx, srv.URL+"/big.jpg")
	assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))

	_, err = svc.Download(ctx, "ftp://example.com/a.png")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Download(ctx, srv.URL+"/nope")
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestImageService_IsHosted(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, storageConfig(1), nil, zap.NewNop())
	assert.True(t, svc.IsHosted(store.base+"/questions/a.png"))
	assert.False(t, svc.IsHosted("https://cdn.mathpix.com/a.png"))
}
