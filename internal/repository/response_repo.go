package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formdash/internal/engine"
	"formdash/internal/model"
)

// ResponseRepo reads form responses for the pipeline. The store is external
// and read-only from the engine's point of view.
type ResponseRepo interface {
	ListByForms(ctx context.Context, formIDs []string, from, to *time.Time) ([]*model.ProcessedResponse, error)
	Create(ctx context.Context, record *ResponseRecord) error
}

// ResponseRecord is the write shape used by seeding; answers may arrive in
// any of the three legal raw shapes
type ResponseRecord struct {
	ID                 string    `bson:"_id,omitempty"`
	FormID             string    `bson:"formId"`
	Answers            any       `bson:"answers"`
	CreatedAt          time.Time `bson:"createdAt"`
	ProcessID          string    `bson:"processId,omitempty"`
	ApplicantProcessID string    `bson:"applicantProcessId,omitempty"`
	UserID             string    `bson:"userId,omitempty"`
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{collection: db.Collection("responses")}
}

// rawResponse is the read shape before answer normalization
type rawResponse struct {
	ID                 string    `bson:"_id"`
	FormID             string    `bson:"formId"`
	Answers            any       `bson:"answers"`
	CreatedAt          time.Time `bson:"createdAt"`
	ProcessID          string    `bson:"processId,omitempty"`
	ApplicantProcessID string    `bson:"applicantProcessId,omitempty"`
	UserID             string    `bson:"userId,omitempty"`
}

func (r *responseRepo) ListByForms(ctx context.Context, formIDs []string, from, to *time.Time) ([]*model.ProcessedResponse, error) {
	filter := bson.M{"formId": bson.M{"$in": formIDs}}
	createdAt := bson.M{}
	if from != nil {
		createdAt["$gte"] = *from
	}
	if to != nil {
		createdAt["$lte"] = *to
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raws []rawResponse
	if err = cursor.All(ctx, &raws); err != nil {
		return nil, err
	}

	responses := make([]*model.ProcessedResponse, 0, len(raws))
	for _, raw := range raws {
		responses = append(responses, &model.ProcessedResponse{
			ID:                 raw.ID,
			FormID:             raw.FormID,
			Answers:            engine.NormalizeAnswers(toPlain(raw.Answers)),
			CreatedAt:          raw.CreatedAt,
			ProcessID:          raw.ProcessID,
			ApplicantProcessID: raw.ApplicantProcessID,
			UserID:             raw.UserID,
		})
	}
	return responses, nil
}

func (r *responseRepo) Create(ctx context.Context, record *ResponseRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// toPlain strips bson container types so the engine only ever sees plain
// maps, slices, and time values
func toPlain(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = toPlain(val)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, el := range t {
			m[el.Key] = toPlain(el.Value)
		}
		return m
	case bson.A:
		out := make([]any, 0, len(t))
		for _, el := range t {
			out = append(out, toPlain(el))
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, el := range t {
			out = append(out, toPlain(el))
		}
		return out
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = toPlain(val)
		}
		return m
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	default:
		return v
	}
}
