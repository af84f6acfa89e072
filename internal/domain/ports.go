package domain

import (
	"context"
	"time"
)

// QuestionFilter narrows a listing; empty fields match everything.
type QuestionFilter struct {
	Subject string
	Chapter string
	Section string
}

// FilterOptions are the distinct taxonomy values present in the store.
type FilterOptions struct {
	Subjects []string `json:"subjects"`
	Chapters []string `json:"chapters"`
	Sections []string `json:"sections"`
}

// QuestionRepository persists curated questions.
type QuestionRepository interface {
	// Insert stores q and returns the generated document id.
	Insert(ctx context.Context, q *Question) (string, error)
	FindByID(ctx context.Context, id string) (*Question, error)
	// FindAll returns matches ordered by subject, chapter, section, questionNumber.
	FindAll(ctx context.Context, filter QuestionFilter) ([]*Question, error)
	// Update replaces the document; returns a QUESTION_NOT_FOUND error when missing.
	Update(ctx context.Context, id string, q *Question) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	FilterOptions(ctx context.Context) (*FilterOptions, error)
	CreateIndexes(ctx context.Context) ([]string, error)
}

// ObjectStore holds re-hosted images.
type ObjectStore interface {
	// Put uploads body under key and returns its public URL.
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL reverses Put's URL; ok is false for URLs this store did not issue.
	KeyFromURL(url string) (key string, ok bool)
}

// CompletionRequest is one system+user exchange with a chat model.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completer sends a single chat completion and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Model() string
}

// Session is an authenticated login.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Provider  string    `json:"provider"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore tracks live sessions so tokens can be revoked.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Revoke(ctx context.Context, id string) error
}
