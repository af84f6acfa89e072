package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is the persisted document. Only the fields of the active type are set.
type Question struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	QuestionID     string             `bson:"id" json:"id"`
	QuestionNumber int                `bson:"questionNumber" json:"questionNumber"`
	Subject        string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Chapter        string             `bson:"chapter,omitempty" json:"chapter,omitempty"`
	Section        string             `bson:"section,omitempty" json:"section,omitempty"`
	Type           string             `bson:"type" json:"type"`
	Content        Content            `bson:"content" json:"content"`
	Options        []Option           `bson:"options,omitempty" json:"options,omitempty"`
	Answers        []string           `bson:"answers" json:"answers"`
	MatrixMatch    *MatrixMatch       `bson:"matrix_match,omitempty" json:"matrix_match,omitempty"`
	Passage        *Content           `bson:"comprehension_passage,omitempty" json:"comprehension_passage,omitempty"`
	SubQuestions   []SubQuestion      `bson:"sub_questions,omitempty" json:"sub_questions,omitempty"`
	Meta           *Meta              `bson:"meta,omitempty" json:"meta,omitempty"`
	UploadedAt     time.Time          `bson:"uploadedAt,omitempty" json:"uploadedAt"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type Content struct {
	Text   string   `bson:"text" json:"text"`
	Images []string `bson:"images,omitempty" json:"images,omitempty"`
}

type Option struct {
	Text     string `bson:"text" json:"text"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

type MatrixMatch struct {
	ColumnA []string            `bson:"columnA" json:"columnA"`
	ColumnB []string            `bson:"columnB" json:"columnB"`
	Map     map[string][]string `bson:"map" json:"map"`
}

type SubQuestion struct {
	ID      string   `bson:"_id,omitempty" json:"_id,omitempty"`
	Type    string   `bson:"type" json:"type"`
	Content Content  `bson:"content" json:"content"`
	Options []Option `bson:"options" json:"options"`
	Answers []string `bson:"answers" json:"answers"`
}

type Meta struct {
	Year       int    `bson:"year,omitempty" json:"year,omitempty"`
	Difficulty string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Source     string `bson:"source,omitempty" json:"source,omitempty"`
}

// VariantFields are the type-specific document keys; an update unsets the ones
// the new type does not use.
var VariantFields = []string{"options", "matrix_match", "comprehension_passage", "sub_questions"}
