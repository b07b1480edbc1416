package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdash/internal/engine"
	"formdash/internal/model"
	"formdash/internal/repository"
)

type fakeWidgetRepo struct {
	widgets map[string]*model.Widget
}

func (f *fakeWidgetRepo) GetByID(_ context.Context, id string) (*model.Widget, error) {
	w, ok := f.widgets[id]
	if !ok {
		return nil, repository.ErrWidgetNotFound
	}
	return w, nil
}

func (f *fakeWidgetRepo) Create(_ context.Context, w *model.Widget) error {
	f.widgets[w.ID] = w
	return nil
}

func (f *fakeWidgetRepo) List(_ context.Context) ([]*model.Widget, error) {
	out := make([]*model.Widget, 0, len(f.widgets))
	for _, w := range f.widgets {
		out = append(out, w)
	}
	return out, nil
}

type fakeResponseRepo struct {
	responses []*model.ProcessedResponse
	listErr   error
	calls     int
}

func (f *fakeResponseRepo) ListByForms(_ context.Context, formIDs []string, from, to *time.Time) ([]*model.ProcessedResponse, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	want := make(map[string]bool, len(formIDs))
	for _, id := range formIDs {
		want[id] = true
	}
	var out []*model.ProcessedResponse
	for _, r := range f.responses {
		if !want[r.FormID] {
			continue
		}
		if from != nil && r.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && r.CreatedAt.After(*to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeResponseRepo) Create(_ context.Context, _ *repository.ResponseRecord) error {
	return nil
}

type fakeFormRepo struct {
	designs map[string]*model.FormDesign
}

func (f *fakeFormRepo) GetDesign(_ context.Context, formID string) (*model.FormDesign, error) {
	return f.designs[formID], nil
}

func (f *fakeFormRepo) Create(_ context.Context, _ *model.FormDesign) error { return nil }

type fakeCache struct {
	entries map[string]*model.WidgetData
	getErr  error
	setErr  error
	sets    int
}

func cacheKey(widgetID string, sandbox bool) string {
	if sandbox {
		return "sandbox:" + widgetID
	}
	return widgetID
}

func (f *fakeCache) Get(_ context.Context, widgetID string, sandbox bool) (*model.WidgetData, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[cacheKey(widgetID, sandbox)], nil
}

func (f *fakeCache) Set(_ context.Context, widgetID string, sandbox bool, payload *model.WidgetData) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.entries[cacheKey(widgetID, sandbox)] = payload
	return nil
}

func (f *fakeCache) Delete(_ context.Context, widgetIDs []string) error {
	for _, id := range widgetIDs {
		delete(f.entries, cacheKey(id, false))
		delete(f.entries, cacheKey(id, true))
	}
	return nil
}

type fixture struct {
	svc       *WidgetDataService
	widgets   *fakeWidgetRepo
	responses *fakeResponseRepo
	cache     *fakeCache
}

func newFixture(responses ...*model.ProcessedResponse) *fixture {
	widgets := &fakeWidgetRepo{widgets: map[string]*model.Widget{}}
	resp := &fakeResponseRepo{responses: responses}
	forms := &fakeFormRepo{designs: map[string]*model.FormDesign{}}
	c := &fakeCache{entries: map[string]*model.WidgetData{}}
	return &fixture{
		svc:       NewWidgetDataService(widgets, resp, forms, c, engine.New(nil), nil),
		widgets:   widgets,
		responses: resp,
		cache:     c,
	}
}

func sampleResponse(id string, score int) *model.ProcessedResponse {
	return &model.ProcessedResponse{
		ID:        id,
		FormID:    "f1",
		Answers:   map[string]any{"score": score},
		CreatedAt: time.Now().Add(-time.Hour),
	}
}

func cardWidget(id string) *model.Widget {
	return &model.Widget{
		ID:    id,
		Title: "avg",
		Config: model.WidgetConfig{
			Title:             "avg",
			VisualizationType: model.VisualizationCard,
			Metrics:           []model.Metric{{ID: "m1", FormID: "f1", FieldID: "score", Aggregation: model.AggMean}},
		},
	}
}

func TestComputeWidgetData_ComputesAndCaches(t *testing.T) {
	fx := newFixture(sampleResponse("r1", 10), sampleResponse("r2", 20))
	fx.widgets.widgets["w1"] = cardWidget("w1")

	data, err := fx.svc.ComputeWidgetData(context.Background(), "w1", false)
	require.NoError(t, err)
	assert.Equal(t, 15.0, data.Value)
	assert.Equal(t, 1, fx.cache.sets)
}

func TestComputeWidgetData_CacheHitShortCircuits(t *testing.T) {
	fx := newFixture(sampleResponse("r1", 10))
	fx.widgets.widgets["w1"] = cardWidget("w1")
	cached := &model.WidgetData{Type: model.VisualizationCard, Value: 99.0}
	fx.cache.entries[cacheKey("w1", false)] = cached

	data, err := fx.svc.ComputeWidgetData(context.Background(), "w1", false)
	require.NoError(t, err)
	assert.Same(t, cached, data)
	assert.Zero(t, fx.responses.calls, "a cache hit must not touch the response store")
}

func TestComputeWidgetData_SandboxKeysAreSeparate(t *testing.T) {
	fx := newFixture(sampleResponse("r1", 10))
	fx.widgets.widgets["w1"] = cardWidget("w1")
	fx.cache.entries[cacheKey("w1", false)] = &model.WidgetData{Value: 1.0}

	data, err := fx.svc.ComputeWidgetData(context.Background(), "w1", true)
	require.NoError(t, err)
	// the live entry must not serve the sandbox variant
	assert.Equal(t, 10.0, data.Value)
}

func TestComputeWidgetData_EmptyPayloadNotCached(t *testing.T) {
	fx := newFixture() // no responses at all
	fx.widgets.widgets["w1"] = cardWidget("w1")

	data, err := fx.svc.ComputeWidgetData(context.Background(), "w1", false)
	require.NoError(t, err)
	assert.True(t, data.Empty)
	assert.Zero(t, fx.cache.sets)
}

func TestComputeWidgetData_WidgetNotFound(t *testing.T) {
	fx := newFixture()
	_, err := fx.svc.ComputeWidgetData(context.Background(), "nope", false)
	assert.ErrorIs(t, err, repository.ErrWidgetNotFound)
}

func TestComputeWidgetData_CacheFailuresDegradeToCompute(t *testing.T) {
	fx := newFixture(sampleResponse("r1", 10))
	fx.widgets.widgets["w1"] = cardWidget("w1")
	fx.cache.getErr = errors.New("redis down")
	fx.cache.setErr = errors.New("redis down")

	data, err := fx.svc.ComputeWidgetData(context.Background(), "w1", false)
	require.NoError(t, err, "cache outage must not fail the request")
	assert.Equal(t, 10.0, data.Value)
}

func TestComputeFromConfig_UnsupportedType(t *testing.T) {
	fx := newFixture()
	_, err := fx.svc.ComputeFromConfig(context.Background(), model.WidgetConfig{
		VisualizationType: "hologram",
		Metrics:           []model.Metric{{ID: "m1", FormID: "f1"}},
	})
	assert.ErrorIs(t, err, ErrUnsupportedVisualization)
}

func TestComputeFromConfig_ValueModeMultiFormRejected(t *testing.T) {
	fx := newFixture()
	data, err := fx.svc.ComputeFromConfig(context.Background(), model.WidgetConfig{
		Title:             "bad",
		VisualizationType: model.VisualizationBar,
		MetricMode:        model.MetricModeValue,
		Metrics: []model.Metric{
			{ID: "m1", FormID: "f1", FieldID: "a"},
			{ID: "m2", FormID: "f2", FieldID: "b"},
		},
	})
	require.NoError(t, err)
	assert.True(t, data.Empty)
	assert.Equal(t, []string{"value mode metrics must reference a single form"}, data.Errors)
}

func TestComputeFromConfig_ResponseStoreErrorPropagates(t *testing.T) {
	fx := newFixture()
	fx.responses.listErr = errors.New("mongo unavailable")
	_, err := fx.svc.ComputeFromConfig(context.Background(), cardWidget("w1").Config)
	assert.Error(t, err)
}

func TestComputeFromConfig_AppliesFiltersAndDateRange(t *testing.T) {
	old := sampleResponse("r1", 10)
	old.CreatedAt = time.Now().AddDate(0, 0, -60)
	fx := newFixture(old, sampleResponse("r2", 20), sampleResponse("r3", 2))

	cfg := cardWidget("w1").Config
	cfg.DateRange = model.DateRange{Preset: model.PresetLast30Days}
	cfg.Filters = []model.Filter{{FormID: "f1", FieldID: "score", Operator: model.OpGte, Value: 10}}

	data, err := fx.svc.ComputeFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	// r1 falls outside the window, r3 fails the filter
	assert.Equal(t, 20.0, data.Value)
	assert.Equal(t, 1, data.Meta.ResponseCount)
}

func TestInvalidate_DropsBothVariants(t *testing.T) {
	fx := newFixture()
	fx.cache.entries[cacheKey("w1", false)] = &model.WidgetData{}
	fx.cache.entries[cacheKey("w1", true)] = &model.WidgetData{}

	require.NoError(t, fx.svc.Invalidate(context.Background(), []string{"w1"}))
	assert.Empty(t, fx.cache.entries)
}
