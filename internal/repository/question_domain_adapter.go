package repository

import (
	"paperplane/internal/domain"
	"paperplane/internal/repository/models"
)

func toModelQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	doc := &models.Question{
		QuestionID:     q.ID,
		QuestionNumber: q.QuestionNumber,
		Subject:        q.Subject,
		Chapter:        q.Chapter,
		Section:        q.Section,
		Type:           string(q.Type),
		Content:        toModelContent(q.Content),
		Answers:        q.Answers,
		UploadedAt:     q.UploadedAt,
		UpdatedAt:      q.UpdatedAt,
	}
	if doc.Answers == nil {
		doc.Answers = []string{}
	}
	if q.Meta != nil {
		doc.Meta = &models.Meta{Year: q.Meta.Year, Difficulty: q.Meta.Difficulty, Source: q.Meta.Source}
	}

	switch b := q.Body.(type) {
	case *domain.ChoiceBody:
		doc.Options = toModelOptions(b.Options)
		if doc.Options == nil {
			doc.Options = []models.Option{}
		}
	case *domain.MatrixBody:
		m := b.Matrix.Map
		if m == nil {
			m = map[string][]string{}
		}
		doc.MatrixMatch = &models.MatrixMatch{ColumnA: b.Matrix.ColumnA, ColumnB: b.Matrix.ColumnB, Map: m}
	case *domain.ComprehensionBody:
		p := toModelContent(b.Passage)
		doc.Passage = &p
		doc.SubQuestions = make([]models.SubQuestion, len(b.SubQuestions))
		for i, s := range b.SubQuestions {
			answers := s.Answers
			if answers == nil {
				answers = []string{}
			}
			doc.SubQuestions[i] = models.SubQuestion{
				ID:      s.MongoID,
				Type:    string(s.Type),
				Content: toModelContent(s.Content),
				Options: toModelOptions(s.Options),
				Answers: answers,
			}
		}
	}
	return doc
}

func toDomainQuestion(doc *models.Question) *domain.Question {
	if doc == nil {
		return nil
	}
	t, ok := domain.ParseQuestionType(doc.Type)
	if !ok {
		t = domain.TypeSingle
	}
	q := &domain.Question{
		ID:             doc.QuestionID,
		QuestionNumber: doc.QuestionNumber,
		Subject:        doc.Subject,
		Chapter:        doc.Chapter,
		Section:        doc.Section,
		Type:           t,
		Content:        toDomainContent(doc.Content),
		Answers:        doc.Answers,
		UploadedAt:     doc.UploadedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	if !doc.ID.IsZero() {
		q.MongoID = doc.ID.Hex()
	}
	if q.Answers == nil {
		q.Answers = []string{}
	}
	if doc.Meta != nil {
		q.Meta = &domain.Meta{Year: doc.Meta.Year, Difficulty: doc.Meta.Difficulty, Source: doc.Meta.Source}
	}

	var matrix *domain.MatrixMatch
	if doc.MatrixMatch != nil {
		matrix = &domain.MatrixMatch{ColumnA: doc.MatrixMatch.ColumnA, ColumnB: doc.MatrixMatch.ColumnB, Map: doc.MatrixMatch.Map}
	}
	var passage *domain.Content
	if doc.Passage != nil {
		p := toDomainContent(*doc.Passage)
		passage = &p
	}
	var subs []domain.SubQuestion
	for _, s := range doc.SubQuestions {
		st, ok := domain.ParseQuestionType(s.Type)
		if !ok {
			st = domain.TypeSingle
		}
		subs = append(subs, domain.SubQuestion{
			MongoID: s.ID,
			Type:    st,
			Content: toDomainContent(s.Content),
			Options: toDomainOptions(s.Options),
			Answers: s.Answers,
		})
	}
	q.Body = domain.BuildBody(t, toDomainOptions(doc.Options), matrix, passage, subs)
	return q
}

func toModelContent(c domain.Content) models.Content {
	return models.Content{Text: c.Text, Images: c.Images}
}

func toDomainContent(c models.Content) domain.Content {
	return domain.Content{Text: c.Text, Images: c.Images}
}

func toModelOptions(opts []domain.Option) []models.Option {
	if opts == nil {
		return nil
	}
	out := make([]models.Option, len(opts))
	for i, o := range opts {
		out[i] = models.Option{Text: o.Text, ImageURL: o.ImageURL}
	}
	return out
}

func toDomainOptions(opts []models.Option) []domain.Option {
	if opts == nil {
		return nil
	}
	out := make([]domain.Option, len(opts))
	for i, o := range opts {
		out[i] = domain.Option{Text: o.Text, ImageURL: o.ImageURL}
	}
	return out
}
