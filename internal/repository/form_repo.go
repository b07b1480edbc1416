package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"formdash/internal/model"
)

// FormRepo reads form designs. A missing design is not an error: the pipeline
// degrades to raw value passthrough without it.
type FormRepo interface {
	GetDesign(ctx context.Context, formID string) (*model.FormDesign, error)
	Create(ctx context.Context, design *model.FormDesign) error
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a new form design repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{collection: db.Collection("forms")}
}

func (r *formRepo) GetDesign(ctx context.Context, formID string) (*model.FormDesign, error) {
	var design model.FormDesign
	err := r.collection.FindOne(ctx, bson.M{"_id": formID}).Decode(&design)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *formRepo) Create(ctx context.Context, design *model.FormDesign) error {
	now := time.Now()
	if design.CreatedAt.IsZero() {
		design.CreatedAt = now
	}
	design.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, design)
	return err
}
