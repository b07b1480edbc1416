package engine

import (
	"time"

	"go.uber.org/zap"

	"formdash/internal/model"
)

// Engine runs the widget data pipeline: resolve, filter, group, aggregate,
// then shape per visualization type. It holds no mutable state; the logger is
// used only on documented degradation paths.
type Engine struct {
	log *zap.Logger
}

// New creates a new engine
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Designs maps formId -> design; nil entries mean the design is unavailable
// and resolution degrades to raw value passthrough.
type Designs map[string]*model.FormDesign

func newPayload(cfg model.WidgetConfig) model.WidgetData {
	return model.WidgetData{
		Type:  cfg.VisualizationType,
		Title: cfg.Title,
		Meta:  model.PayloadMeta{ComputedAt: time.Now().UTC()},
	}
}

// responsesForForm filters responses to one form; empty formID keeps all
func responsesForForm(responses []*model.ProcessedResponse, formID string) []*model.ProcessedResponse {
	if formID == "" {
		return responses
	}
	out := make([]*model.ProcessedResponse, 0, len(responses))
	for _, r := range responses {
		if r.FormID == formID {
			out = append(out, r)
		}
	}
	return out
}

// aggregationLabel returns the stat label shown on cards
func aggregationLabel(agg model.AggregationType) string {
	if agg == "" {
		return string(model.AggCount)
	}
	return string(agg)
}
