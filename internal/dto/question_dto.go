package dto

import "paperplane/internal/domain"

// QuestionRequest wraps a single question for upload and update.
// @Description Request body carrying one question
type QuestionRequest struct {
	Question *domain.Question `json:"question"`
}

// BatchUploadRequest carries several questions uploaded independently.
// @Description Request body for batch upload
type BatchUploadRequest struct {
	Questions []*domain.Question `json:"questions"`
}

// UploadResult is the outcome for one uploaded question.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	S3URL   string `json:"s3Url,omitempty"`
	MongoID string `json:"mongoId,omitempty"`
}

// BatchUploadResponse reports per-item outcomes in request order.
type BatchUploadResponse struct {
	Success    bool           `json:"success"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Results    []UploadResult `json:"results"`
}

// QuestionListResponse is returned by GET /api/questions.
type QuestionListResponse struct {
	Success   bool               `json:"success"`
	Count     int                `json:"count"`
	Questions []*domain.Question `json:"questions"`
}

type FilterOptionsResponse struct {
	Success bool                  `json:"success"`
	Options *domain.FilterOptions `json:"options"`
}

// DeleteMultipleRequest lists document ids to remove.
type DeleteMultipleRequest struct {
	IDs []string `json:"ids"`
}

type DeleteMultipleResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type CreateIndexesResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Indexes []string `json:"indexes"`
}

// MessageResponse is a generic acknowledgement.
// @Description Generic message response
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body written by the error handler.
type ErrorResponse struct {
	Success bool                     `json:"success"`
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Details map[string]interface{}   `json:"details,omitempty"`
	Errors  []domain.ValidationError `json:"errors,omitempty"`
}
