package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"formdash/internal/model"
)

// ErrWidgetNotFound signals a missing widget; callers surface it distinctly
// instead of retrying
var ErrWidgetNotFound = errors.New("widget not found")

// WidgetRepo reads and writes persisted dashboard widgets
type WidgetRepo interface {
	GetByID(ctx context.Context, id string) (*model.Widget, error)
	Create(ctx context.Context, widget *model.Widget) error
	List(ctx context.Context) ([]*model.Widget, error)
}

type widgetRepo struct {
	collection *mongo.Collection
}

// NewWidgetRepo creates a new widget repository
func NewWidgetRepo(db *mongo.Database) WidgetRepo {
	return &widgetRepo{collection: db.Collection("widgets")}
}

func (r *widgetRepo) GetByID(ctx context.Context, id string) (*model.Widget, error) {
	var widget model.Widget
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&widget)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrWidgetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &widget, nil
}

func (r *widgetRepo) Create(ctx context.Context, widget *model.Widget) error {
	if widget.ID == "" {
		widget.ID = uuid.NewString()
	}
	now := time.Now()
	if widget.CreatedAt.IsZero() {
		widget.CreatedAt = now
	}
	widget.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, widget)
	return err
}

func (r *widgetRepo) List(ctx context.Context) ([]*model.Widget, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var widgets []*model.Widget
	if err = cursor.All(ctx, &widgets); err != nil {
		return nil, err
	}
	return widgets, nil
}
