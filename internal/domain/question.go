package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// QuestionType determines which body variant a question carries.
type QuestionType string

const (
	TypeSingle        QuestionType = "single"
	TypeMultiple      QuestionType = "multiple"
	TypeInteger       QuestionType = "integer"
	TypeMatrix        QuestionType = "matrix"
	TypeComprehension QuestionType = "comprehension"
)

// QuestionTypes lists every supported type in display order.
var QuestionTypes = []QuestionType{TypeSingle, TypeMultiple, TypeInteger, TypeMatrix, TypeComprehension}

// ParseQuestionType accepts a type tag case-insensitively.
func ParseQuestionType(s string) (QuestionType, bool) {
	t := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range QuestionTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Label is the section heading used for the type in source papers.
func (t QuestionType) Label() string {
	switch t {
	case TypeSingle:
		return "Single Correct Answer Type"
	case TypeMultiple:
		return "Multiple Correct Answers Type"
	case TypeInteger:
		return "Integer/Numerical Type"
	case TypeMatrix:
		return "Matrix Match Type"
	case TypeComprehension:
		return "Linked Comprehension Type"
	default:
		return string(t)
	}
}

// Content is question text plus the images it references.
type Content struct {
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// Option is one answer choice.
type Option struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// MatrixMatch holds two labelled columns and the label to label-list mapping.
type MatrixMatch struct {
	ColumnA []string            `json:"columnA"`
	ColumnB []string            `json:"columnB"`
	Map     map[string][]string `json:"map"`
}

// SubQuestion belongs to a comprehension passage and is answered on its own.
type SubQuestion struct {
	MongoID string       `json:"_id,omitempty"`
	Type    QuestionType `json:"type"`
	Content Content      `json:"content"`
	Options []Option     `json:"options"`
	Answers []string     `json:"answers"`
}

// Meta is optional provenance.
type Meta struct {
	Year       int    `json:"year,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Source     string `json:"source,omitempty"`
}

// Body is the type-specific part of a question. Exactly one variant exists per type.
type Body interface {
	// ValidateAnswers checks the curated answers against this variant's rules.
	ValidateAnswers(t QuestionType, answers []string) error
	// DeriveAnswers computes the answer tokens this variant stores at question level.
	DeriveAnswers(current []string) []string
	imageRefs() []*string
}

// ChoiceBody backs single and multiple choice questions.
type ChoiceBody struct {
	Options []Option
}

// IntegerBody backs numerical questions; the answer is free text.
type IntegerBody struct{}

// MatrixBody backs matrix match questions.
type MatrixBody struct {
	Matrix MatrixMatch
}

// ComprehensionBody backs a shared passage with ordered sub-questions.
type ComprehensionBody struct {
	Passage      Content
	SubQuestions []SubQuestion
}

// NewBody returns the empty variant for t.
func NewBody(t QuestionType) Body {
	switch t {
	case TypeInteger:
		return &IntegerBody{}
	case TypeMatrix:
		return &MatrixBody{Matrix: MatrixMatch{Map: map[string][]string{}}}
	case TypeComprehension:
		return &ComprehensionBody{}
	default:
		return &ChoiceBody{}
	}
}

// BodyMatches reports whether b is the variant t requires.
func BodyMatches(t QuestionType, b Body) bool {
	switch b.(type) {
	case *ChoiceBody:
		return t == TypeSingle || t == TypeMultiple
	case *IntegerBody:
		return t == TypeInteger
	case *MatrixBody:
		return t == TypeMatrix
	case *ComprehensionBody:
		return t == TypeComprehension
	default:
		return false
	}
}

// Question is the canonical unit produced by extraction and persisted on demand.
type Question struct {
	MongoID        string
	ID             string
	QuestionNumber int
	Subject        string
	Chapter        string
	Section        string
	Type           QuestionType
	Content        Content
	Answers        []string
	Meta           *Meta
	Body           Body
	UploadedAt     time.Time
	UpdatedAt      time.Time
}

// Options returns the choices of a single/multiple question, nil otherwise.
func (q *Question) Options() []Option {
	if b, ok := q.Body.(*ChoiceBody); ok {
		return b.Options
	}
	return nil
}

// Matrix returns the matrix of a matrix question, nil otherwise.
func (q *Question) Matrix() *MatrixMatch {
	if b, ok := q.Body.(*MatrixBody); ok {
		return &b.Matrix
	}
	return nil
}

// Comprehension returns the passage body of a comprehension question, nil otherwise.
func (q *Question) Comprehension() *ComprehensionBody {
	if b, ok := q.Body.(*ComprehensionBody); ok {
		return b
	}
	return nil
}

// Validate checks structural consistency; answers are checked by ValidateAnswers.
func (q *Question) Validate() error {
	var errs ValidationErrors
	if _, ok := ParseQuestionType(string(q.Type)); !ok {
		errs = append(errs, NewInvalidFormatError("type", q.Type))
		return errs
	}
	if q.Body == nil || !BodyMatches(q.Type, q.Body) {
		errs = append(errs, NewFieldError("type", fmt.Sprintf("body does not match question type %q", q.Type)))
		return errs
	}
	if q.Type == TypeComprehension {
		c := q.Body.(*ComprehensionBody)
		if strings.TrimSpace(c.Passage.Text) == "" && strings.TrimSpace(q.Content.Text) == "" {
			errs = append(errs, NewMissingFieldError("comprehension_passage.text"))
		}
		if len(c.SubQuestions) == 0 {
			errs = append(errs, NewMissingFieldError("sub_questions"))
		}
	} else if strings.TrimSpace(q.Content.Text) == "" && len(q.Content.Images) == 0 {
		errs = append(errs, NewMissingFieldError("content.text"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PrepareAnswers replaces Answers with what the body derives, then validates them.
func (q *Question) PrepareAnswers() error {
	if q.Body == nil {
		q.Body = NewBody(q.Type)
	}
	q.Answers = q.Body.DeriveAnswers(q.Answers)
	return q.Body.ValidateAnswers(q.Type, q.Answers)
}

// ImageRefs returns pointers to every image URL in the question so callers can
// rewrite them in place.
func (q *Question) ImageRefs() []*string {
	refs := contentImageRefs(&q.Content)
	if q.Body != nil {
		refs = append(refs, q.Body.imageRefs()...)
	}
	return refs
}

func contentImageRefs(c *Content) []*string {
	refs := make([]*string, 0, len(c.Images))
	for i := range c.Images {
		refs = append(refs, &c.Images[i])
	}
	return refs
}

func optionImageRefs(opts []Option) []*string {
	var refs []*string
	for i := range opts {
		if opts[i].ImageURL != "" {
			refs = append(refs, &opts[i].ImageURL)
		}
	}
	return refs
}

func (b *ChoiceBody) imageRefs() []*string { return optionImageRefs(b.Options) }

func (b *IntegerBody) imageRefs() []*string { return nil }

func (b *MatrixBody) imageRefs() []*string { return nil }

func (b *ComprehensionBody) imageRefs() []*string {
	refs := contentImageRefs(&b.Passage)
	for i := range b.SubQuestions {
		refs = append(refs, contentImageRefs(&b.SubQuestions[i].Content)...)
		refs = append(refs, optionImageRefs(b.SubQuestions[i].Options)...)
	}
	return refs
}

// questionWire is the flat JSON shape exchanged with clients.
type questionWire struct {
	MongoID        string        `json:"_id,omitempty"`
	ID             string        `json:"id"`
	QuestionNumber int           `json:"questionNumber,omitempty"`
	Subject        string        `json:"subject,omitempty"`
	Chapter        string        `json:"chapter,omitempty"`
	Section        string        `json:"section,omitempty"`
	Type           QuestionType  `json:"type"`
	Content        Content       `json:"content"`
	Options        []Option      `json:"options,omitempty"`
	Answers        []string      `json:"answers"`
	MatrixMatch    *MatrixMatch  `json:"matrix_match,omitempty"`
	Passage        *Content      `json:"comprehension_passage,omitempty"`
	SubQuestions   []SubQuestion `json:"sub_questions,omitempty"`
	Meta           *Meta         `json:"meta,omitempty"`
	UploadedAt     *time.Time    `json:"uploadedAt,omitempty"`
	UpdatedAt      *time.Time    `json:"updatedAt,omitempty"`
}

// MarshalJSON emits only the active variant's fields.
func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{
		MongoID:        q.MongoID,
		ID:             q.ID,
		QuestionNumber: q.QuestionNumber,
		Subject:        q.Subject,
		Chapter:        q.Chapter,
		Section:        q.Section,
		Type:           q.Type,
		Content:        q.Content,
		Answers:        q.Answers,
		Meta:           q.Meta,
	}
	if w.Answers == nil {
		w.Answers = []string{}
	}
	if !q.UploadedAt.IsZero() {
		w.UploadedAt = &q.UploadedAt
	}
	if !q.UpdatedAt.IsZero() {
		w.UpdatedAt = &q.UpdatedAt
	}
	switch b := q.Body.(type) {
	case *ChoiceBody:
		w.Options = b.Options
	case *MatrixBody:
		m := b.Matrix
		if m.Map == nil {
			m.Map = map[string][]string{}
		}
		w.MatrixMatch = &m
	case *ComprehensionBody:
		p := b.Passage
		w.Passage = &p
		w.SubQuestions = b.SubQuestions
	}
	return json.Marshal(w)
}

// UnmarshalJSON builds the variant named by "type"; a missing type means single.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t := TypeSingle
	if w.Type != "" {
		parsed, ok := ParseQuestionType(string(w.Type))
		if !ok {
			return fmt.Errorf("unsupported question type %q", w.Type)
		}
		t = parsed
	}
	*q = Question{
		MongoID:        w.MongoID,
		ID:             w.ID,
		QuestionNumber: w.QuestionNumber,
		Subject:        w.Subject,
		Chapter:        w.Chapter,
		Section:        w.Section,
		Type:           t,
		Content:        w.Content,
		Answers:        w.Answers,
		Meta:           w.Meta,
	}
	if w.UploadedAt != nil {
		q.UploadedAt = *w.UploadedAt
	}
	if w.UpdatedAt != nil {
		q.UpdatedAt = *w.UpdatedAt
	}
	q.Body = BuildBody(t, w.Options, w.MatrixMatch, w.Passage, w.SubQuestions)
	return nil
}

// BuildBody assembles the variant for t from the flat fields, ignoring the
// fields other variants use.
func BuildBody(t QuestionType, options []Option, matrix *MatrixMatch, passage *Content, subs []SubQuestion) Body {
	switch t {
	case TypeInteger:
		return &IntegerBody{}
	case TypeMatrix:
		b := &MatrixBody{}
		if matrix != nil {
			b.Matrix = *matrix
		}
		if b.Matrix.Map == nil {
			b.Matrix.Map = map[string][]string{}
		}
		return b
	case TypeComprehension:
		b := &ComprehensionBody{SubQuestions: subs}
		if passage != nil {
			b.Passage = *passage
		}
		for i := range b.SubQuestions {
			if b.SubQuestions[i].Type == "" {
				b.SubQuestions[i].Type = TypeSingle
			}
		}
		return b
	default:
		return &ChoiceBody{Options: options}
	}
}
