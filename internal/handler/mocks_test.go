package handler_test

import (
	"context"

	"paperplane/internal/domain"
	"paperplane/internal/dto"
	"paperplane/internal/service"
)

// --- Manual Mocks ---

type MockQuestionService struct {
	UploadFunc        func(ctx context.Context, q *domain.Question) (*dto.UploadResult, error)
	UploadBatchFunc   func(ctx context.Context, questions []*domain.Question) *dto.BatchUploadResponse
	ListFunc          func(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error)
	FilterOptionsFunc func(ctx context.Context) (*domain.FilterOptions, error)
	CreateIndexesFunc func(ctx context.Context) ([]string, error)
	UpdateFunc        func(ctx context.Context, id string, q *domain.Question) error
	DeleteFunc        func(ctx context.Context, id string) error
	DeleteManyFunc    func(ctx context.Context, ids []string) (int64, error)
	ProxyImageFunc    func(ctx context.Context, rawURL string) (*service.Image, error)
}

func (m *MockQuestionService) Upload(ctx context.Context, q *domain.Question) (*dto.UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, q)
	}
	panic("MockQuestionService.UploadFunc not implemented")
}
func (m *MockQuestionService) UploadBatch(ctx context.Context, questions []*domain.Question) *dto.BatchUploadResponse {
	if m.UploadBatchFunc != nil {
		return m.UploadBatchFunc(ctx, questions)
	}
	panic("MockQuestionService.UploadBatchFunc not implemented")
}
func (m *MockQuestionService) List(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	panic("MockQuestionService.ListFunc not implemented")
}
func (m *MockQuestionService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	if m.FilterOptionsFunc != nil {
		return m.FilterOptionsFunc(ctx)
	}
	panic("MockQuestionService.FilterOptionsFunc not implemented")
}
func (m *MockQuestionService) CreateIndexes(ctx context.Context) ([]string, error) {
	if m.CreateIndexesFunc != nil {
		return m.CreateIndexesFunc(ctx)
	}
	panic("MockQuestionService.CreateIndexesFunc not implemented")
}
func (m *MockQuestionService) Update(ctx context.Context, id string, q *domain.Question) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, q)
	}
	panic("MockQuestionService.UpdateFunc not implemented")
}
func (m *MockQuestionService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockQuestionService.DeleteFunc not implemented")
}
func (m *MockQuestionService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if m.DeleteManyFunc != nil {
		return m.DeleteManyFunc(ctx, ids)
	}
	panic("MockQuestionService.DeleteManyFunc not implemented")
}
func (m *MockQuestionService) ProxyImage(ctx context.Context, rawURL string) (*service.Image, error) {
	if m.ProxyImageFunc != nil {
		return m.ProxyImageFunc(ctx, rawURL)
	}
	panic("MockQuestionService.ProxyImageFunc not implemented")
}

type MockExtractionService struct {
	ExtractFunc func(ctx context.Context, markdown, selector string) (*dto.ExtractResponse, error)
	TypesFunc   func() []dto.QuestionTypeOption
}

func (m *MockExtractionService) Extract(ctx context.Context, markdown, selector string) (*dto.ExtractResponse, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, markdown, selector)
	}
	panic("MockExtractionService.ExtractFunc not implemented")
}
func (m *MockExtractionService) Types() []dto.QuestionTypeOption {
	if m.TypesFunc != nil {
		return m.TypesFunc()
	}
	panic("MockExtractionService.TypesFunc not implemented")
}

type MockAuthService struct {
	LoginFunc              func(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	ValidateTokenFunc      func(ctx context.Context, token string) (*dto.AuthClaims, error)
	LogoutFunc             func(ctx context.Context, claims *dto.AuthClaims) error
	OIDCStatusFunc         func() dto.OIDCConfigResponse
	OIDCLoginURLFunc       func(ctx context.Context) (string, error)
	HandleOIDCCallbackFunc func(ctx context.Context, code, state string) (*dto.LoginResponse, error)
	LogoutURLFunc          func() (string, error)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*dto.AuthClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	panic("MockAuthService.ValidateTokenFunc not implemented")
}
func (m *MockAuthService) Logout(ctx context.Context, claims *dto.AuthClaims) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, claims)
	}
	panic("MockAuthService.LogoutFunc not implemented")
}
func (m *MockAuthService) OIDCStatus() dto.OIDCConfigResponse {
	if m.OIDCStatusFunc != nil {
		return m.OIDCStatusFunc()
	}
	panic("MockAuthService.OIDCStatusFunc not implemented")
}
func (m *MockAuthService) OIDCLoginURL(ctx context.Context) (string, error) {
	if m.OIDCLoginURLFunc != nil {
		return m.OIDCLoginURLFunc(ctx)
	}
	panic("MockAuthService.OIDCLoginURLFunc not implemented")
}
func (m *MockAuthService) HandleOIDCCallback(ctx context.Context, code, state string) (*dto.LoginResponse, error) {
	if m.HandleOIDCCallbackFunc != nil {
		return m.HandleOIDCCallbackFunc(ctx, code, state)
	}
	panic("MockAuthService.HandleOIDCCallbackFunc not implemented")
}
func (m *MockAuthService) LogoutURL() (string, error) {
	if m.LogoutURLFunc != nil {
		return m.LogoutURLFunc()
	}
	panic("MockAuthService.LogoutURLFunc not implemented")
}
