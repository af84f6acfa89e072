package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"paperplane/internal/domain"
)

const (
	maxFilterValueLength = 200
	maxDeleteIDs         = 500
)

var (
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

	// markdownExtensions are the upload types the extract endpoint accepts.
	markdownExtensions = map[string]bool{".md": true, ".markdown": true, ".txt": true}
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuestionID checks a document id path parameter.
func (v *Validator) ValidateQuestionID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !isValidObjectID(id) {
		errors = append(errors, domain.NewInvalidFormatError("id", id))
	}
	return errors
}

// ValidateDeleteIDs checks the body of a bulk delete.
func (v *Validator) ValidateDeleteIDs(ids []string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(ids) == 0 {
		errors = append(errors, domain.NewFieldError("ids", "ids must be a non-empty array"))
		return errors
	}
	if len(ids) > maxDeleteIDs {
		errors = append(errors, domain.NewOutOfRangeError("ids", len(ids), 1, maxDeleteIDs))
		return errors
	}
	for _, id := range ids {
		if !isValidObjectID(id) {
			errors = append(errors, domain.NewInvalidFormatError("ids", id))
		}
	}
	return errors
}

// ValidateFilter bounds the listing query parameters.
func (v *Validator) ValidateFilter(filter domain.QuestionFilter) domain.ValidationErrors {
	var errors domain.ValidationErrors
	for field, value := range map[string]string{
		"subject": filter.Subject,
		"chapter": filter.Chapter,
		"section": filter.Section,
	} {
		if len(value) > maxFilterValueLength {
			errors = append(errors, domain.NewOutOfRangeError(field, len(value), 0, maxFilterValueLength))
		}
	}
	return errors
}

// ValidateMarkdownFile checks an uploaded document's name and size.
func (v *Validator) ValidateMarkdownFile(filename string, size, maxBytes int64) domain.ValidationErrors {
	var errors domain.ValidationErrors
	ext := strings.ToLower(filepath.Ext(filename))
	if !markdownExtensions[ext] {
		errors = append(errors, domain.NewFieldError("file", "Please upload a .md, .markdown or .txt file"))
	}
	if size <= 0 {
		errors = append(errors, domain.NewFieldError("file", "file is empty"))
	} else if maxBytes > 0 && size > maxBytes {
		errors = append(errors, domain.NewOutOfRangeError("file", size, 1, int(maxBytes)))
	}
	return errors
}

func isValidObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}
