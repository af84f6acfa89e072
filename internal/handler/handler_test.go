package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paperplane/internal/config"
	"paperplane/internal/domain"
	"paperplane/internal/dto"
	"paperplane/internal/handler"
	"paperplane/internal/middleware"
	"paperplane/internal/service"
)

const (
	validToken = "good-token"
	validID    = "65f1a2b3c4d5e6f708192a3b"
)

type fixture struct {
	app        *fiber.App
	questions  *MockQuestionService
	extraction *MockExtractionService
	auth       *MockAuthService
}

func newFixture(cfg *config.Config, mongoPing, redisPing handler.PingFunc) *fixture {
	f := &fixture{
		questions:  &MockQuestionService{},
		extraction: &MockExtractionService{},
		auth:       &MockAuthService{},
	}
	f.auth.ValidateTokenFunc = func(_ context.Context, token string) (*dto.AuthClaims, error) {
		if token == validToken {
			claims := &dto.AuthClaims{Username: "admin", Provider: service.ProviderPassword}
			claims.ID = "01J0000000000000000000000A"
			return claims, nil
		}
		return nil, service.ErrInvalidJWTToken
	}
	if cfg == nil {
		cfg = &config.Config{Environment: "local", Server: config.ServerConfig{Port: 3001}}
	}

	f.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	routes := &handler.Routes{
		Auth:       handler.NewAuthHandler(f.auth),
		Questions:  handler.NewQuestionHandler(f.questions, zap.NewNop()),
		Extraction: handler.NewExtractionHandler(f.extraction, 1024, zap.NewNop()),
		System:     handler.NewSystemHandler(cfg, mongoPing, redisPing),
		Tokens:     f.auth,
	}
	routes.Register(f.app)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, authed bool) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+validToken)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), string(raw))
}

func TestQuestionRoutesRequireToken(t *testing.T) {
	f := newFixture(nil, nil, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/questions"},
		{http.MethodPost, "/api/questions/upload"},
		{http.MethodDelete, "/api/questions/" + validID},
		{http.MethodPost, "/api/extract"},
		{http.MethodGet, "/api/auth/me"},
	} {
		resp := f.do(t, tc.method, tc.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.path)
	}
}

func TestQuestionHandler_Upload(t *testing.T) {
	f := newFixture(nil, nil, nil)
	var got *domain.Question
	f.questions.UploadFunc = func(_ context.Context, q *domain.Question) (*dto.UploadResult, error) {
		got = q
		return &dto.UploadResult{Success: true, Message: "Question uploaded successfully", MongoID: validID}, nil
	}

	body := map[string]interface{}{
		"question": map[string]interface{}{
			"id":      "q1",
			"type":    "single",
			"content": map[string]interface{}{"text": "Pick one"},
			"options": []map[string]string{{"text": "a"}, {"text": "b"}},
			"answers": []string{"1"},
		},
	}
	resp := f.do(t, http.MethodPost, "/api/questions/upload", body, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.UploadResult
	decode(t, resp, &result)
	assert.True(t, result.Success)
	assert.Equal(t, validID, result.MongoID)

	require.NotNil(t, got)
	assert.Equal(t, domain.TypeSingle, got.Type)
	assert.Len(t, got.Options(), 2)
}

func TestQuestionHandler_UploadValidationError(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.questions.UploadFunc = func(_ context.Context, _ *domain.Question) (*dto.UploadResult, error) {
		return nil, domain.ValidationErrors{domain.NewFieldError("answers", domain.MissingAnswerMessage)}
	}

	resp := f.do(t, http.MethodPost, "/api/questions/upload", map[string]interface{}{"question": map[string]string{"type": "single"}}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.False(t, body.Success)
	assert.Equal(t, domain.MissingAnswerMessage, body.Message)
}

func TestQuestionHandler_UploadBatch(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.questions.UploadBatchFunc = func(_ context.Context, qs []*domain.Question) *dto.BatchUploadResponse {
		return &dto.BatchUploadResponse{Success: true, Successful: len(qs), Results: make([]dto.UploadResult, len(qs))}
	}

	resp := f.do(t, http.MethodPost, "/api/questions/upload-batch", map[string]interface{}{"questions": []interface{}{}}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/questions/upload-batch", map[string]interface{}{
		"questions": []map[string]interface{}{{"type": "integer", "content": map[string]string{"text": "2+2"}, "answers": []string{"4"}}},
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.BatchUploadResponse
	decode(t, resp, &out)
	assert.Equal(t, 1, out.Successful)
}

func TestQuestionHandler_List(t *testing.T) {
	f := newFixture(nil, nil, nil)
	var filter domain.QuestionFilter
	f.questions.ListFunc = func(_ context.Context, fl domain.QuestionFilter) ([]*domain.Question, error) {
		filter = fl
		return nil, nil
	}

	resp := f.do(t, http.MethodGet, "/api/questions?subject=Physics&chapter=Optics", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.QuestionFilter{Subject: "Physics", Chapter: "Optics"}, filter)

	var out map[string]interface{}
	decode(t, resp, &out)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, []interface{}{}, out["questions"])
}

func TestQuestionHandler_FilterOptionsAndIndexes(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.questions.FilterOptionsFunc = func(context.Context) (*domain.FilterOptions, error) {
		return &domain.FilterOptions{Subjects: []string{"Physics"}, Chapters: []string{}, Sections: []string{}}, nil
	}
	f.questions.CreateIndexesFunc = func(context.Context) ([]string, error) {
		return []string{"taxonomy_order", "question_id", "uploaded_at"}, nil
	}

	resp := f.do(t, http.MethodGet, "/api/questions/filter-options", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var opts dto.FilterOptionsResponse
	decode(t, resp, &opts)
	assert.Equal(t, []string{"Physics"}, opts.Options.Subjects)

	resp = f.do(t, http.MethodPost, "/api/questions/create-indexes", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var idx dto.CreateIndexesResponse
	decode(t, resp, &idx)
	assert.Len(t, idx.Indexes, 3)
}

func TestQuestionHandler_UpdateAndDelete(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.questions.UpdateFunc = func(_ context.Context, id string, _ *domain.Question) error {
		assert.Equal(t, validID, id)
		return nil
	}
	f.questions.DeleteFunc = func(_ context.Context, id string) error {
		return domain.NewQuestionNotFoundError(id)
	}

	body := map[string]interface{}{"question": map[string]interface{}{"type": "integer", "content": map[string]string{"text": "x"}, "answers": []string{"3"}}}
	resp := f.do(t, http.MethodPut, "/api/questions/"+validID, body, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPut, "/api/questions/not-an-id", body, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/api/questions/"+validID, nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, string(domain.CodeQuestionNotFound), errBody.Code)
}

func TestQuestionHandler_DeleteMultiple(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.questions.DeleteManyFunc = func(_ context.Context, ids []string) (int64, error) {
		return int64(len(ids)), nil
	}

	resp := f.do(t, http.MethodPost, "/api/questions/delete-multiple", dto.DeleteMultipleRequest{IDs: []string{validID, validID}}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.DeleteMultipleResponse
	decode(t, resp, &out)
	assert.Equal(t, int64(2), out.DeletedCount)
	assert.Equal(t, "Successfully deleted 2 question(s)", out.Message)

	resp = f.do(t, http.MethodPost, "/api/questions/delete-multiple", dto.DeleteMultipleRequest{IDs: []string{"nope"}}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuestionHandler_ImageProxy(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.questions.ProxyImageFunc = func(_ context.Context, rawURL string) (*service.Image, error) {
		if rawURL == "https://cdn.mathpix.com/a.png" {
			return &service.Image{Body: []byte("png-bytes"), ContentType: "image/png"}, nil
		}
		return nil, domain.NewInvalidInputError("host is not allowed")
	}

	resp := f.do(t, http.MethodGet, "/api/questions/image-proxy?url=https%3A%2F%2Fcdn.mathpix.com%2Fa.png", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "png-bytes", string(raw))

	resp = f.do(t, http.MethodGet, "/api/questions/image-proxy?url=https%3A%2F%2Fevil.io%2Fa.png", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExtractionHandler_JSON(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.extraction.ExtractFunc = func(_ context.Context, markdown, selector string) (*dto.ExtractResponse, error) {
		assert.Equal(t, "# Paper", markdown)
		assert.Equal(t, "integer", selector)
		return &dto.ExtractResponse{Success: true, Type: selector, Questions: []domain.Question{}}, nil
	}

	resp := f.do(t, http.MethodPost, "/api/extract", dto.ExtractRequest{Markdown: "# Paper", Type: "integer"}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ExtractResponse
	decode(t, resp, &out)
	assert.True(t, out.Success)
}

func multipartRequest(t *testing.T, filename, content, qtype string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	if qtype != "" {
		require.NoError(t, w.WriteField("type", qtype))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+validToken)
	return req
}

func TestExtractionHandler_Multipart(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.extraction.ExtractFunc = func(_ context.Context, markdown, selector string) (*dto.ExtractResponse, error) {
		return &dto.ExtractResponse{Success: true, Type: selector, Count: len(markdown), Questions: []domain.Question{}}, nil
	}

	resp, err := f.app.Test(multipartRequest(t, "paper.md", "1. What is 2+2?", "integer"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ExtractResponse
	decode(t, resp, &out)
	assert.Equal(t, "integer", out.Type)
	assert.Equal(t, len("1. What is 2+2?"), out.Count)

	resp, err = f.app.Test(multipartRequest(t, "paper.pdf", "%PDF", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = f.app.Test(multipartRequest(t, "", "", "auto"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = f.app.Test(multipartRequest(t, "big.md", string(bytes.Repeat([]byte("x"), 2048)), ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExtractionHandler_UpstreamFailure(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.extraction.ExtractFunc = func(context.Context, string, string) (*dto.ExtractResponse, error) {
		return nil, domain.NewExtractionError("No JSON array found in response", nil)
	}
	resp := f.do(t, http.MethodPost, "/api/extract", dto.ExtractRequest{Markdown: "x"}, true)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestExtractionHandler_Types(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.extraction.TypesFunc = func() []dto.QuestionTypeOption {
		return []dto.QuestionTypeOption{{Value: "single", Label: "Single Correct Answer Type"}, {Value: "auto", Label: "Auto"}}
	}
	resp := f.do(t, http.MethodGet, "/api/extract/types", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.QuestionTypesResponse
	decode(t, resp, &out)
	assert.Len(t, out.Types, 2)
}

func TestAuthHandler_LoginLogoutMe(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.auth.LoginFunc = func(_ context.Context, username, password string) (*dto.LoginResponse, error) {
		if username == "admin" && password == "s3cret" {
			return &dto.LoginResponse{Success: true, Username: username, Token: validToken}, nil
		}
		return nil, service.ErrInvalidCredentials
	}
	revoked := ""
	f.auth.LogoutFunc = func(_ context.Context, claims *dto.AuthClaims) error {
		revoked = claims.ID
		return nil
	}

	resp := f.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "s3cret"}, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	assert.Equal(t, validToken, login.Token)

	resp = f.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "bad"}, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/auth/me", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.MeResponse
	decode(t, resp, &me)
	assert.Equal(t, "admin", me.Username)

	resp = f.do(t, http.MethodPost, "/api/auth/logout", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "01J0000000000000000000000A", revoked)
}

func TestAuthHandler_OIDC(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.auth.OIDCStatusFunc = func() dto.OIDCConfigResponse {
		return dto.OIDCConfigResponse{Configured: true, ClientID: "***abcd"}
	}
	f.auth.OIDCLoginURLFunc = func(context.Context) (string, error) {
		return "https://auth.example.com/oauth2/authorize?state=s1", nil
	}
	f.auth.HandleOIDCCallbackFunc = func(_ context.Context, code, state string) (*dto.LoginResponse, error) {
		if code == "c1" && state == "s1" {
			return &dto.LoginResponse{Success: true, Username: "curator@example.com", Token: "t"}, nil
		}
		return nil, service.ErrInvalidAuthState
	}
	f.auth.LogoutURLFunc = func() (string, error) {
		return "", domain.NewConfigurationError("Cognito logout configuration missing")
	}

	resp := f.do(t, http.MethodGet, "/api/auth/oidc/config", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cfg dto.OIDCConfigResponse
	decode(t, resp, &cfg)
	assert.True(t, cfg.Configured)

	resp = f.do(t, http.MethodGet, "/api/auth/oidc/login", nil, false)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "https://auth.example.com/oauth2/authorize?state=s1", resp.Header.Get("Location"))

	resp = f.do(t, http.MethodGet, "/api/auth/oidc/callback?code=c1&state=s1", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/auth/oidc/callback?code=c1&state=forged", nil, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/auth/oidc/callback?error=access_denied", nil, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/auth/oidc/logout-url", nil, false)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestSystemHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	f := newFixture(nil, up, up)
	resp := f.do(t, http.MethodGet, "/api/health", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health dto.HealthResponse
	decode(t, resp, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "up", health.Mongo)

	f = newFixture(nil, up, down)
	resp = f.do(t, http.MethodGet, "/api/health", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	cfg := &config.Config{Environment: "production", Server: config.ServerConfig{PublicURL: "https://api.example.com"}}
	f = newFixture(cfg, nil, nil)
	resp = f.do(t, http.MethodGet, "/api/config", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env dto.EnvironmentInfo
	decode(t, resp, &env)
	assert.True(t, env.IsProduction)
	assert.Equal(t, "https://api.example.com", env.APIURL)

	f = newFixture(nil, nil, nil)
	resp = f.do(t, http.MethodGet, "/api/config", nil, false)
	decode(t, resp, &env)
	assert.False(t, env.IsProduction)
	assert.Equal(t, "http://localhost:3001", env.APIURL)
}
