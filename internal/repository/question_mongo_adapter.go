package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"paperplane/internal/domain"
	"paperplane/internal/repository/models"
)

// QuestionMongoAdapter implements domain.QuestionRepository on a MongoDB collection.
type QuestionMongoAdapter struct {
	coll   *mongo.Collection
	logger *zap.Logger
	now    func() time.Time
}

func NewQuestionMongoAdapter(coll *mongo.Collection, logger *zap.Logger) *QuestionMongoAdapter {
	return &QuestionMongoAdapter{coll: coll, logger: logger, now: time.Now}
}

var _ domain.QuestionRepository = (*QuestionMongoAdapter)(nil)

// taxonomySort is the listing order used by the UI.
var taxonomySort = bson.D{
	{Key: "subject", Value: 1},
	{Key: "chapter", Value: 1},
	{Key: "section", Value: 1},
	{Key: "questionNumber", Value: 1},
}

func (a *QuestionMongoAdapter) Insert(ctx context.Context, q *domain.Question) (string, error) {
	doc := toModelQuestion(q)
	doc.ID = primitive.NilObjectID
	doc.UploadedAt = a.now().UTC()
	doc.UpdatedAt = time.Time{}

	res, err := a.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", domain.NewStorageError("failed to insert question", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", domain.NewInternalError("unexpected inserted id type", fmt.Errorf("%T", res.InsertedID))
	}
	q.MongoID = oid.Hex()
	q.UploadedAt = doc.UploadedAt
	a.logger.Info("Question saved", zap.String("mongo_id", q.MongoID), zap.String("question_id", q.ID))
	return q.MongoID, nil
}

func (a *QuestionMongoAdapter) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}
	var doc models.Question
	if err := a.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewQuestionNotFoundError(id)
		}
		return nil, domain.NewStorageError("failed to load question", err)
	}
	return toDomainQuestion(&doc), nil
}

func (a *QuestionMongoAdapter) FindAll(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	cur, err := a.coll.Find(ctx, filterDocument(filter), options.Find().SetSort(taxonomySort))
	if err != nil {
		return nil, domain.NewStorageError("failed to list questions", err)
	}
	var docs []models.Question
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.NewStorageError("failed to decode questions", err)
	}
	out := make([]*domain.Question, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainQuestion(&docs[i]))
	}
	return out, nil
}

func filterDocument(f domain.QuestionFilter) bson.M {
	m := bson.M{}
	if f.Subject != "" {
		m["subject"] = f.Subject
	}
	if f.Chapter != "" {
		m["chapter"] = f.Chapter
	}
	if f.Section != "" {
		m["section"] = f.Section
	}
	return m
}

// Update overwrites the stored question, keeping its upload time and clearing
// fields that belong to a previous type.
func (a *QuestionMongoAdapter) Update(ctx context.Context, id string, q *domain.Question) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewQuestionNotFoundError(id)
	}
	doc := toModelQuestion(q)
	doc.ID = primitive.NilObjectID
	doc.UploadedAt = time.Time{}
	doc.UpdatedAt = a.now().UTC()

	update := bson.M{"$set": doc}
	if unset := inactiveVariantFields(doc); len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := a.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return domain.NewStorageError("failed to update question", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewQuestionNotFoundError(id)
	}
	q.MongoID = id
	q.UpdatedAt = doc.UpdatedAt
	return nil
}

func inactiveVariantFields(doc *models.Question) bson.M {
	set := map[string]bool{
		"options":               doc.Options != nil,
		"matrix_match":          doc.MatrixMatch != nil,
		"comprehension_passage": doc.Passage != nil,
		"sub_questions":         doc.SubQuestions != nil,
	}
	unset := bson.M{}
	for _, f := range models.VariantFields {
		if !set[f] {
			unset[f] = ""
		}
	}
	return unset
}

func (a *QuestionMongoAdapter) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewQuestionNotFoundError(id)
	}
	res, err := a.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewStorageError("failed to delete question", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewQuestionNotFoundError(id)
	}
	return nil
}

// DeleteMany rejects the whole request if any id is malformed.
func (a *QuestionMongoAdapter) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, domain.ValidationErrors{domain.NewInvalidFormatError("ids", id)}
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return 0, nil
	}
	res, err := a.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, domain.NewStorageError("failed to delete questions", err)
	}
	return res.DeletedCount, nil
}

func (a *QuestionMongoAdapter) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	subjects, err := a.distinct(ctx, "subject")
	if err != nil {
		return nil, err
	}
	chapters, err := a.distinct(ctx, "chapter")
	if err != nil {
		return nil, err
	}
	sections, err := a.distinct(ctx, "section")
	if err != nil {
		return nil, err
	}
	return &domain.FilterOptions{Subjects: subjects, Chapters: chapters, Sections: sections}, nil
}

func (a *QuestionMongoAdapter) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := a.coll.Distinct(ctx, field, bson.M{field: bson.M{"$nin": bson.A{"", nil}}})
	if err != nil {
		return nil, domain.NewStorageError(fmt.Sprintf("failed to read distinct %s values", field), err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

// CreateIndexes builds the same indexes as the migrations, for deployments
// that do not run cmd/migrate.
func (a *QuestionMongoAdapter) CreateIndexes(ctx context.Context) ([]string, error) {
	indexes := []mongo.IndexModel{
		{Keys: taxonomySort, Options: options.Index().SetName("taxonomy_order")},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("question_id")},
		{Keys: bson.D{{Key: "uploadedAt", Value: -1}}, Options: options.Index().SetName("uploaded_at")},
	}
	names, err := a.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return nil, domain.NewStorageError("failed to create indexes", err)
	}
	a.logger.Info("Question indexes ensured", zap.Strings("indexes", names))
	return names, nil
}
