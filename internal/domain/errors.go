package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Pipeline and collaborator errors
	CodeConfiguration    ErrorCode = "CONFIGURATION_ERROR"
	CodeExtraction       ErrorCode = "EXTRACTION_ERROR"
	CodeParse            ErrorCode = "PARSE_ERROR"
	CodeNetwork          ErrorCode = "NETWORK_ERROR"
	CodeLLMServiceError  ErrorCode = "LLM_SERVICE_ERROR"
	CodeStorage          ErrorCode = "STORAGE_ERROR"
	CodeQuestionNotFound ErrorCode = "QUESTION_NOT_FOUND"
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrConfiguration = NewError(CodeConfiguration, "configuration error", nil)
	ErrExtraction    = NewError(CodeExtraction, "extraction error", nil)
	ErrParse         = NewError(CodeParse, "parse error", nil)
	ErrNetwork       = NewError(CodeNetwork, "network error", nil)
	ErrValidation    = NewError(CodeValidation, "validation error", nil)
	ErrNotFound      = NewError(CodeNotFound, "not found", nil)
	ErrUnauthorized  = NewError(CodeUnauthorized, "unauthorized", nil)
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithContext attaches a detail that the error handler exposes to clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err wraps a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewConfigurationError(message string) *DomainError {
	return NewError(CodeConfiguration, message, nil)
}

func NewExtractionError(message string, err error) *DomainError {
	return NewError(CodeExtraction, message, err)
}

func NewParseError(message string, err error) *DomainError {
	return NewError(CodeParse, message, err)
}

func NewNetworkError(message string, err error) *DomainError {
	return NewError(CodeNetwork, message, err)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", err)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(CodeStorage, message, err)
}

func NewQuestionNotFoundError(id string) *DomainError {
	return NewError(CodeQuestionNotFound, fmt.Sprintf("Question not found with ID: %s", id), nil)
}
