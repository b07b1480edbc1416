package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"formdash/internal/cache"
	"formdash/internal/engine"
	"formdash/internal/model"
	"formdash/internal/repository"
)

// ErrUnsupportedVisualization is fatal for the request; an unknown chart kind
// is never silently mapped to a default
var ErrUnsupportedVisualization = errors.New("unsupported visualization type")

// WidgetDataService orchestrates the pipeline: fetch inputs, filter, dispatch
// to the visualization processor, and own the result cache
type WidgetDataService struct {
	widgetRepo   repository.WidgetRepo
	responseRepo repository.ResponseRepo
	formRepo     repository.FormRepo
	dataCache    cache.WidgetDataCache
	engine       *engine.Engine
	log          *zap.Logger
}

// NewWidgetDataService creates a new widget data service
func NewWidgetDataService(
	widgetRepo repository.WidgetRepo,
	responseRepo repository.ResponseRepo,
	formRepo repository.FormRepo,
	dataCache cache.WidgetDataCache,
	eng *engine.Engine,
	log *zap.Logger,
) *WidgetDataService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WidgetDataService{
		widgetRepo:   widgetRepo,
		responseRepo: responseRepo,
		formRepo:     formRepo,
		dataCache:    dataCache,
		engine:       eng,
		log:          log,
	}
}

// ComputeWidgetData computes the payload for a persisted widget. A cache hit
// short-circuits the whole pipeline; a recomputed payload is cached only when
// non-empty so newly arriving data is never masked by a cached empty result.
func (s *WidgetDataService) ComputeWidgetData(ctx context.Context, widgetID string, sandbox bool) (*model.WidgetData, error) {
	widget, err := s.widgetRepo.GetByID(ctx, widgetID)
	if err != nil {
		return nil, err
	}

	if cached, cacheErr := s.dataCache.Get(ctx, widgetID, sandbox); cacheErr != nil {
		s.log.Warn("widget cache read failed, recomputing",
			zap.String("widgetId", widgetID), zap.Error(cacheErr))
	} else if cached != nil {
		return cached, nil
	}

	data, err := s.ComputeFromConfig(ctx, widget.Config)
	if err != nil {
		return nil, err
	}
	if !data.Empty {
		if cacheErr := s.dataCache.Set(ctx, widgetID, sandbox, data); cacheErr != nil {
			s.log.Warn("widget cache write failed",
				zap.String("widgetId", widgetID), zap.Error(cacheErr))
		}
	}
	return data, nil
}

// ComputeFromConfig runs the pipeline for one config without touching the
// cache (used for previews and by ComputeWidgetData). Any unexpected panic is
// converted into a card-shaped error payload so the caller always receives a
// well-formed payload.
func (s *WidgetDataService) ComputeFromConfig(ctx context.Context, cfg model.WidgetConfig) (data *model.WidgetData, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("widget computation panicked",
				zap.String("title", cfg.Title), zap.Any("panic", r))
			payload := model.ErrorPayload(cfg.Title, fmt.Sprint(r))
			data, err = &payload, nil
		}
	}()

	if msg := validateConfig(cfg); msg != "" {
		payload := model.ErrorPayload(cfg.Title, msg)
		return &payload, nil
	}

	formIDs := collectFormIDs(cfg)
	from, to := engine.ResolveDateRange(cfg.DateRange, time.Now())

	responses, err := s.responseRepo.ListByForms(ctx, formIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	designs := make(engine.Designs, len(formIDs))
	for _, formID := range formIDs {
		design, designErr := s.formRepo.GetDesign(ctx, formID)
		if designErr != nil {
			// partial data: resolution degrades to passthrough without it
			s.log.Warn("form design unavailable",
				zap.String("formId", formID), zap.Error(designErr))
			continue
		}
		designs[formID] = design
	}

	filtered := s.engine.ApplyFilters(responses, cfg.Filters, designs)

	var payload model.WidgetData
	switch cfg.VisualizationType {
	case model.VisualizationCard:
		payload = s.engine.BuildCard(cfg, filtered, designs)
	case model.VisualizationBar, model.VisualizationLine:
		payload = s.engine.BuildBarLine(cfg, filtered, designs)
	case model.VisualizationPie:
		payload = s.engine.BuildPie(cfg, filtered, designs)
	case model.VisualizationHistogram:
		payload = s.engine.BuildHistogram(cfg, filtered, designs)
	case model.VisualizationScatter:
		payload = s.engine.BuildScatter(cfg, filtered, designs)
	case model.VisualizationCalendarHeatmap:
		payload = s.engine.BuildCalendarHeatmap(cfg, filtered, designs)
	case model.VisualizationMap:
		payload = s.engine.BuildMap(cfg, filtered, designs)
	case model.VisualizationBubbleMap:
		payload = s.engine.BuildBubbleMap(cfg, filtered, designs)
	case model.VisualizationFlowMap:
		payload = s.engine.BuildFlowMap(cfg, filtered, designs)
	case model.VisualizationCrosstab:
		payload = s.engine.BuildCrosstab(cfg, filtered, designs)
	case model.VisualizationCCT:
		payload = s.engine.BuildCCT(cfg, filtered, designs)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVisualization, cfg.VisualizationType)
	}
	return &payload, nil
}

// Invalidate drops cached payloads; the collaborator owning response writes
// calls this whenever a response affecting these widgets' forms changes
func (s *WidgetDataService) Invalidate(ctx context.Context, widgetIDs []string) error {
	return s.dataCache.Delete(ctx, widgetIDs)
}

// CreateWidget validates the config's visualization type and persists the
// widget. An unknown type is rejected here rather than at compute time.
func (s *WidgetDataService) CreateWidget(ctx context.Context, widget *model.Widget) error {
	switch widget.Config.VisualizationType {
	case model.VisualizationCard, model.VisualizationBar, model.VisualizationLine,
		model.VisualizationPie, model.VisualizationHistogram, model.VisualizationScatter,
		model.VisualizationCalendarHeatmap, model.VisualizationMap, model.VisualizationBubbleMap,
		model.VisualizationFlowMap, model.VisualizationCrosstab, model.VisualizationCCT:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedVisualization, widget.Config.VisualizationType)
	}
	return s.widgetRepo.Create(ctx, widget)
}

// ListWidgets returns all persisted widgets
func (s *WidgetDataService) ListWidgets(ctx context.Context) ([]*model.Widget, error) {
	return s.widgetRepo.List(ctx)
}

// validateConfig enforces config invariants; a non-empty return is the error
// message for the payload
func validateConfig(cfg model.WidgetConfig) string {
	if cfg.MetricMode == model.MetricModeValue && len(cfg.Metrics) > 1 {
		formID := cfg.Metrics[0].FormID
		for _, m := range cfg.Metrics[1:] {
			if m.FormID != formID {
				return "value mode metrics must reference a single form"
			}
		}
	}
	return ""
}

// collectFormIDs gathers every form referenced by the config, deduplicated in
// first-reference order
func collectFormIDs(cfg model.WidgetConfig) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, m := range cfg.Metrics {
		add(m.FormID)
	}
	for _, f := range cfg.Filters {
		add(f.FormID)
	}
	for _, mm := range cfg.Options.MapMetrics {
		add(mm.FormID)
	}
	for _, ref := range []*model.FieldRef{
		cfg.Options.XField, cfg.Options.DateField, cfg.Options.LocationField,
		cfg.Options.OriginField, cfg.Options.DestField,
		cfg.Options.RowField, cfg.Options.ColumnField,
	} {
		if ref != nil {
			add(ref.FormID)
		}
	}
	for _, f := range cfg.Options.Factors {
		add(f.FormID)
	}
	return ids
}
