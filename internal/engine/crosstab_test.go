package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdash/internal/model"
)

func crosstabResponses() []*model.ProcessedResponse {
	now := time.Now()
	return []*model.ProcessedResponse{
		makeResponse("r1", "f1", map[string]any{"region": "north", "channel": "web", "amount": 10}, now),
		makeResponse("r2", "f1", map[string]any{"region": "north", "channel": "phone", "amount": 20}, now),
		makeResponse("r3", "f1", map[string]any{"region": "south", "channel": "web", "amount": 30}, now),
		makeResponse("r4", "f1", map[string]any{"region": "north", "channel": "web", "amount": 40}, now),
		makeResponse("r5", "f1", map[string]any{"channel": "web"}, now), // no row value, dropped
	}
}

func crosstabConfig(agg model.AggregationType, fieldID string) model.WidgetConfig {
	return model.WidgetConfig{
		VisualizationType: model.VisualizationCrosstab,
		Metrics:           []model.Metric{{ID: "m1", FormID: "f1", FieldID: fieldID, Aggregation: agg}},
		Options: model.WidgetOptions{
			RowField:    &model.FieldRef{FormID: "f1", FieldID: "region"},
			ColumnField: &model.FieldRef{FormID: "f1", FieldID: "channel"},
		},
	}
}

func TestBuildCrosstab_CountTable(t *testing.T) {
	e := New(nil)
	p := e.BuildCrosstab(crosstabConfig(model.AggCount, ""), crosstabResponses(), nil)

	require.NotNil(t, p.Crosstab)
	ct := p.Crosstab
	assert.Equal(t, []string{"north", "south"}, ct.Rows)
	assert.Equal(t, []string{"phone", "web"}, ct.Columns)
	assert.Equal(t, [][]float64{{1, 2}, {0, 1}}, ct.Cells)
	assert.Equal(t, []float64{3, 1}, ct.RowTotals)
	assert.Equal(t, []float64{1, 3}, ct.ColumnTotals)
	assert.Equal(t, 4.0, ct.GrandTotal)
}

func TestBuildCrosstab_TotalsAreAggregatesNotCellSums(t *testing.T) {
	e := New(nil)
	p := e.BuildCrosstab(crosstabConfig(model.AggMean, "amount"), crosstabResponses(), nil)

	ct := p.Crosstab
	require.NotNil(t, ct)
	// north row: mean(10,20,40) = 70/3, not mean of the two cell means
	assert.InDelta(t, 70.0/3.0, ct.RowTotals[0], 1e-9)
	assert.InDelta(t, (10.0+30+40)/3, ct.ColumnTotals[1], 1e-9)
	assert.Equal(t, 25.0, ct.GrandTotal)
}

func TestBuildCrosstab_EmptyWithoutBothAxes(t *testing.T) {
	e := New(nil)
	cfg := crosstabConfig(model.AggCount, "")
	cfg.Options.ColumnField = nil
	p := e.BuildCrosstab(cfg, crosstabResponses(), nil)
	assert.True(t, p.Empty)
	assert.Nil(t, p.Crosstab)
}

func TestBuildCCT_FactorCombinations(t *testing.T) {
	e := New(nil)
	now := time.Now()
	rs := []*model.ProcessedResponse{
		makeResponse("r1", "f1", map[string]any{"a": "x", "b": "1", "v": 10}, now),
		makeResponse("r2", "f1", map[string]any{"a": "x", "b": "1", "v": 20}, now),
		makeResponse("r3", "f1", map[string]any{"a": "y", "b": "2", "v": 5}, now),
	}
	cfg := model.WidgetConfig{
		VisualizationType: model.VisualizationCCT,
		Metrics:           []model.Metric{{ID: "m1", FormID: "f1", FieldID: "v", Aggregation: model.AggSum}},
		Options: model.WidgetOptions{
			Factors: []model.FieldRef{
				{FormID: "f1", FieldID: "a"},
				{FormID: "f1", FieldID: "b"},
			},
		},
	}
	p := e.BuildCCT(cfg, rs, nil)

	require.Len(t, p.CCTRows, 2)
	assert.Equal(t, model.CCTRow{Factors: []string{"x", "1"}, Key: "x / 1", Value: 30, Count: 2}, p.CCTRows[0])
	assert.Equal(t, model.CCTRow{Factors: []string{"y", "2"}, Key: "y / 2", Value: 5, Count: 1}, p.CCTRows[1])
}

func TestBuildCCT_IncompleteCombinations(t *testing.T) {
	e := New(nil)
	now := time.Now()
	rs := []*model.ProcessedResponse{
		makeResponse("r1", "f1", map[string]any{"a": "x", "b": "1"}, now),
		makeResponse("r2", "f1", map[string]any{"a": "x"}, now), // missing factor b
	}
	cfg := model.WidgetConfig{
		VisualizationType: model.VisualizationCCT,
		Metrics:           []model.Metric{{ID: "m1", FormID: "f1", Aggregation: model.AggCount}},
		Options: model.WidgetOptions{
			Factors: []model.FieldRef{
				{FormID: "f1", FieldID: "a"},
				{FormID: "f1", FieldID: "b"},
			},
		},
	}

	t.Run("dropped by default", func(t *testing.T) {
		p := e.BuildCCT(cfg, rs, nil)
		require.Len(t, p.CCTRows, 1)
		assert.Equal(t, "x / 1", p.CCTRows[0].Key)
	})

	t.Run("routed to missing when requested", func(t *testing.T) {
		withMissing := cfg
		withMissing.GroupBy = model.GroupBy{IncludeMissing: true}
		p := e.BuildCCT(withMissing, rs, nil)
		require.Len(t, p.CCTRows, 2)
		assert.Equal(t, "x / "+MissingKey, p.CCTRows[1].Key)
	})
}

func TestBuildCCT_NoFactorsIsEmpty(t *testing.T) {
	e := New(nil)
	cfg := model.WidgetConfig{
		VisualizationType: model.VisualizationCCT,
		Metrics:           []model.Metric{{ID: "m1", FormID: "f1", Aggregation: model.AggCount}},
	}
	p := e.BuildCCT(cfg, nil, nil)
	assert.True(t, p.Empty)
}
