package dto

import "paperplane/internal/domain"

// ExtractRequest is the JSON form of POST /api/extract. Type defaults to auto.
// @Description Markdown to extract questions from
type ExtractRequest struct {
	Markdown string `json:"markdown"`
	Type     string `json:"type"`
}

// ExtractMetadata echoes the headings found in the document.
type ExtractMetadata struct {
	Subject string `json:"subject"`
	Chapter string `json:"chapter"`
	Section string `json:"section"`
}

type ExtractResponse struct {
	Success   bool              `json:"success"`
	Count     int               `json:"count"`
	Type      string            `json:"type"`
	Model     string            `json:"model,omitempty"`
	Metadata  ExtractMetadata   `json:"metadata"`
	Questions []domain.Question `json:"questions"`
}

// QuestionTypeOption is one entry of the type selector.
type QuestionTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type QuestionTypesResponse struct {
	Success bool                 `json:"success"`
	Types   []QuestionTypeOption `json:"types"`
}
