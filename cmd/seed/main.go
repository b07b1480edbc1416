package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formdash/internal/config"
	"formdash/internal/model"
	"formdash/internal/repository"
)

// Seeds a demo form design, a handful of responses (one per legal answer
// shape), and a few widgets for local development.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	widgetRepo := repository.NewWidgetRepo(db)

	formID := "form_feedback"
	design := &model.FormDesign{
		ID:   formID,
		Name: "Field Office Feedback",
		Sections: []model.FormSection{
			{
				ID:    "s1",
				Title: "Visit",
				Questions: []model.Question{
					{ID: "q_country", Type: model.QuestionTypeShortText, Label: "Country"},
					{ID: "q_city", Type: model.QuestionTypeShortText, Label: "City"},
					{ID: "q_score", Type: model.QuestionTypeNumber, Label: "Satisfaction score"},
					{ID: "q_visit_date", Type: model.QuestionTypeDate, Label: "Visit date"},
				},
			},
			{
				ID:    "s2",
				Title: "Details",
				Questions: []model.Question{
					{ID: "q_topics", Type: model.QuestionTypeCheckbox, Label: "Topics discussed",
						Options: []string{"Logistics", "Staffing", "Budget"}},
					{ID: "q_notes", Type: model.QuestionTypeParagraph, Label: "Notes"},
					{ID: "q_stay", Type: model.QuestionTypeDateRange, Label: "Stay"},
				},
			},
		},
	}
	if err := formRepo.Create(ctx, design); err != nil {
		log.Printf("form design insert skipped: %v", err)
	}

	now := time.Now().UTC()
	seedResponses := []*repository.ResponseRecord{
		{
			// array-of-sections shape
			ID:     uuid.NewString(),
			FormID: formID,
			Answers: []any{
				map[string]any{"questions": []any{
					map[string]any{"questionId": "q_country", "value": "Ivory Coast"},
					map[string]any{"questionId": "q_city", "value": "Abidjan"},
					map[string]any{"questionId": "q_score", "value": 8},
				}},
			},
			CreatedAt: now.AddDate(0, 0, -2),
		},
		{
			// sections-wrapper shape
			ID:     uuid.NewString(),
			FormID: formID,
			Answers: map[string]any{"sections": []any{
				map[string]any{"questions": []any{
					map[string]any{"questionId": "q_country", "value": "Cote d'Ivoire"},
					map[string]any{"questionId": "q_city", "value": "Yamoussoukro"},
					map[string]any{"questionId": "q_score", "value": 6},
				}},
			}},
			CreatedAt: now.AddDate(0, 0, -1),
		},
		{
			// flat-map shape
			ID:     uuid.NewString(),
			FormID: formID,
			Answers: map[string]any{
				"q_country": "Kenya",
				"q_city":    "Nairobi",
				"q_score":   "9",
				"q_topics": []any{
					map[string]any{"option": "Logistics", "checked": true},
					map[string]any{"option": "Budget", "checked": false},
				},
			},
			CreatedAt: now,
		},
	}
	for _, record := range seedResponses {
		if err := responseRepo.Create(ctx, record); err != nil {
			log.Printf("response insert skipped: %v", err)
		}
	}

	widgets := []*model.Widget{
		{
			Title: "Average satisfaction",
			Config: model.WidgetConfig{
				Title:             "Average satisfaction",
				VisualizationType: model.VisualizationCard,
				MetricMode:        model.MetricModeAggregation,
				Metrics: []model.Metric{
					{ID: "m1", FormID: formID, FieldID: "q_score", Aggregation: model.AggMean},
				},
			},
		},
		{
			Title: "Responses per month",
			Config: model.WidgetConfig{
				Title:             "Responses per month",
				VisualizationType: model.VisualizationBar,
				MetricMode:        model.MetricModeAggregation,
				Metrics: []model.Metric{
					{ID: "m1", FormID: formID, SystemField: model.SystemFieldResponseID, Aggregation: model.AggCount},
				},
				GroupBy: model.GroupBy{
					Kind:        model.GroupTime,
					SystemField: model.SystemFieldSubmissionDate,
					TimeBucket:  model.BucketMonth,
				},
			},
		},
		{
			Title: "Scores by country",
			Config: model.WidgetConfig{
				Title:             "Scores by country",
				VisualizationType: model.VisualizationMap,
				Options: model.WidgetOptions{
					MapMetrics: []model.MapMetric{
						{ID: "mm1", Label: "Score", FormID: formID,
							CountryFieldID: "q_country", ValueFieldID: "q_score"},
					},
				},
			},
		},
	}
	for _, widget := range widgets {
		if err := widgetRepo.Create(ctx, widget); err != nil {
			log.Printf("widget insert skipped: %v", err)
		} else {
			fmt.Printf("widget %s => %s\n", widget.Title, widget.ID)
		}
	}

	fmt.Println("seed complete")
}
