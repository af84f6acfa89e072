package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"paperplane/internal/domain"
)

// RawQuestion is one element of the model's JSON array before conversion.
// It tolerates the legacy flat shape (description, imageUrl, string options).
type RawQuestion struct {
	ID           json.RawMessage     `json:"id,omitempty"`
	Type         string              `json:"type,omitempty"`
	Content      *RawContent         `json:"content,omitempty"`
	Description  string              `json:"description,omitempty"`
	ImageURL     string              `json:"imageUrl,omitempty"`
	Options      []RawOption         `json:"options,omitempty"`
	Answers      flexStrings         `json:"answers,omitempty"`
	MatrixMatch  *domain.MatrixMatch `json:"matrix_match,omitempty"`
	Passage      *RawContent         `json:"comprehension_passage,omitempty"`
	SubQuestions []RawSubQuestion    `json:"sub_questions,omitempty"`
	Meta         *domain.Meta        `json:"meta,omitempty"`
}

// RawSubQuestion is a comprehension sub-question as the model emits it.
type RawSubQuestion struct {
	Type    string      `json:"type,omitempty"`
	Content RawContent  `json:"content"`
	Options []RawOption `json:"options,omitempty"`
	Answers flexStrings `json:"answers,omitempty"`
}

// RawOption decodes from either a bare string or {text, image_url}.
type RawOption domain.Option

func (o *RawOption) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = RawOption{Text: s}
		return nil
	}
	var opt domain.Option
	if err := json.Unmarshal(data, &opt); err != nil {
		return err
	}
	*o = RawOption(opt)
	return nil
}

// RawContent decodes from either a bare string or {text, images}.
type RawContent domain.Content

func (c *RawContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = RawContent{Text: s}
		return nil
	}
	var wire struct {
		Text   string      `json:"text"`
		Images flexStrings `json:"images,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = RawContent{Text: wire.Text, Images: []string(wire.Images)}
	return nil
}

// flexStrings accepts numbers as well as strings, and a lone scalar in place
// of an array. Blank scalars and nulls decode to an empty list.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded == nil {
		return nil
	}
	items, ok := decoded.([]interface{})
	if !ok {
		items = []interface{}{decoded}
	}
	out := make(flexStrings, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case nil:
		case string:
			if ok || strings.TrimSpace(v) != "" {
				out = append(out, v)
			}
		case float64:
			out = append(out, formatNumber(v))
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	*f = out
	return nil
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprint(v)
}

// Normalize folds the legacy description/imageUrl pair into content. When both
// shapes are present content wins. Applying it twice changes nothing.
func Normalize(raw RawQuestion) RawQuestion {
	if raw.Content == nil && (raw.Description != "" || raw.ImageURL != "") {
		c := RawContent{Text: raw.Description}
		if raw.ImageURL != "" {
			c.Images = []string{raw.ImageURL}
		}
		raw.Content = &c
	}
	raw.Description = ""
	raw.ImageURL = ""
	return raw
}

// QuestionNumber returns the integral numeric id, or position (1-based) otherwise.
func (r RawQuestion) QuestionNumber(index int) int {
	fallback := index + 1
	if len(r.ID) == 0 {
		return fallback
	}
	var n float64
	if err := json.Unmarshal(r.ID, &n); err != nil {
		return fallback
	}
	if n != math.Trunc(n) || n < 1 || n > math.MaxInt32 {
		return fallback
	}
	return int(n)
}

// QuestionType resolves the element's type; absent means single.
func (r RawQuestion) QuestionType() (domain.QuestionType, error) {
	if strings.TrimSpace(r.Type) == "" {
		return domain.TypeSingle, nil
	}
	t, ok := domain.ParseQuestionType(r.Type)
	if !ok {
		return "", fmt.Errorf("unsupported question type %q", r.Type)
	}
	return t, nil
}

// ToQuestion converts a normalized element into the tagged union, attaching
// taxonomy, ordinal and the derived identifier.
func ToQuestion(raw RawQuestion, index int, meta Metadata) (domain.Question, error) {
	raw = Normalize(raw)
	t, err := raw.QuestionType()
	if err != nil {
		return domain.Question{}, err
	}
	number := raw.QuestionNumber(index)
	ids := meta.OrUnknown()

	q := domain.Question{
		ID:             QuestionID(ids.Subject, ids.Chapter, ids.Section, string(t), number),
		QuestionNumber: number,
		Subject:        meta.Subject,
		Chapter:        meta.Chapter,
		Section:        meta.Section,
		Type:           t,
		Answers:        []string(raw.Answers),
		Meta:           raw.Meta,
	}
	if q.Answers == nil {
		q.Answers = []string{}
	}
	if raw.Content != nil {
		q.Content = domain.Content(*raw.Content)
	}

	var subs []domain.SubQuestion
	for _, s := range raw.SubQuestions {
		st := domain.TypeSingle
		if parsed, ok := domain.ParseQuestionType(s.Type); ok && (parsed == domain.TypeSingle || parsed == domain.TypeMultiple) {
			st = parsed
		}
		answers := []string(s.Answers)
		if answers == nil {
			answers = []string{}
		}
		subs = append(subs, domain.SubQuestion{
			Type:    st,
			Content: domain.Content(s.Content),
			Options: toOptions(s.Options),
			Answers: answers,
		})
	}

	var passage *domain.Content
	if raw.Passage != nil {
		p := domain.Content(*raw.Passage)
		passage = &p
	}
	q.Body = domain.BuildBody(t, toOptions(raw.Options), raw.MatrixMatch, passage, subs)
	return q, nil
}

func toOptions(raw []RawOption) []domain.Option {
	if raw == nil {
		return nil
	}
	opts := make([]domain.Option, len(raw))
	for i, o := range raw {
		opts[i] = domain.Option(o)
	}
	return opts
}
