package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"formdash/internal/model"
)

func TestBuildCard_AggregationMode(t *testing.T) {
	e := New(nil)
	cfg := model.WidgetConfig{
		Title:             "Average score",
		VisualizationType: model.VisualizationCard,
		Metrics:           []model.Metric{{ID: "m1", FormID: "f1", FieldID: "score", Aggregation: model.AggMean}},
	}
	p := e.BuildCard(cfg, numericResponses(10, 20, 30), nil)
	assert.False(t, p.Empty)
	assert.Equal(t, 20.0, p.Value)
	assert.Equal(t, "mean", p.StatLabel)
	assert.Equal(t, "Average score", p.Title)
	assert.Equal(t, 3, p.Meta.ResponseCount)
}

func TestBuildCard_ValueModeTakesFirstResponse(t *testing.T) {
	e := New(nil)
	now := time.Now()
	cfg := model.WidgetConfig{
		VisualizationType: model.VisualizationCard,
		MetricMode:        model.MetricModeValue,
		Metrics:           []model.Metric{{ID: "m1", FormID: "f1", FieldID: "name"}},
	}
	rs := []*model.ProcessedResponse{
		makeResponse("r1", "f1", map[string]any{"name": "first"}, now),
		makeResponse("r2", "f1", map[string]any{"name": "second"}, now.Add(time.Hour)),
	}
	p := e.BuildCard(cfg, rs, nil)
	assert.Equal(t, "first", p.Value)
	assert.Empty(t, p.StatLabel)
}

func TestBuildCard_EmptyCases(t *testing.T) {
	e := New(nil)

	t.Run("no metrics", func(t *testing.T) {
		p := e.BuildCard(model.WidgetConfig{}, numericResponses(1), nil)
		assert.True(t, p.Empty)
	})

	t.Run("no responses in aggregation mode", func(t *testing.T) {
		cfg := model.WidgetConfig{
			Metrics: []model.Metric{{ID: "m1", FormID: "f1", FieldID: "score", Aggregation: model.AggSum}},
		}
		p := e.BuildCard(cfg, nil, nil)
		assert.True(t, p.Empty)
		assert.Nil(t, p.Value)
	})

	t.Run("value mode field missing", func(t *testing.T) {
		cfg := model.WidgetConfig{
			MetricMode: model.MetricModeValue,
			Metrics:    []model.Metric{{ID: "m1", FormID: "f1", FieldID: "absent"}},
		}
		p := e.BuildCard(cfg, numericResponses(1), nil)
		assert.True(t, p.Empty)
	})
}

func TestBuildCard_CountNeverEmptyOnResponses(t *testing.T) {
	e := New(nil)
	cfg := model.WidgetConfig{
		Metrics: []model.Metric{{ID: "m1", FormID: "f1", Aggregation: model.AggCount}},
	}
	p := e.BuildCard(cfg, numericResponses(nil, nil), nil)
	assert.False(t, p.Empty)
	assert.Equal(t, 2.0, p.Value)
}
