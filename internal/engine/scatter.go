package engine

import "formdash/internal/model"

// BuildScatter emits one (x, y) point per response where both metrics resolve
// numerically. Exactly two metrics from the same form are required;
// cross-form scatter is not supported and reports the gap explicitly.
func (e *Engine) BuildScatter(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) != 2 {
		p.Empty = true
		p.Errors = append(p.Errors, "scatter requires exactly two metrics")
		return p
	}
	mx, my := cfg.Metrics[0], cfg.Metrics[1]
	if mx.FormID != my.FormID {
		p.Empty = true
		p.Errors = append(p.Errors, "cross-form scatter is not supported")
		return p
	}

	rs := responsesForForm(responses, mx.FormID)
	p.Meta.ResponseCount = len(rs)
	design := designs[mx.FormID]

	points := make([]model.Point, 0, len(rs))
	for _, r := range rs {
		x, okX := firstNumeric(Resolve(r, mx.FieldID, mx.SystemField, design))
		y, okY := firstNumeric(Resolve(r, my.FieldID, my.SystemField, design))
		if okX && okY {
			points = append(points, model.Point{X: x, Y: y})
		}
	}
	if len(points) == 0 {
		p.Empty = true
		return p
	}
	p.Points = points
	return p
}

func firstNumeric(v any) (float64, bool) {
	for _, el := range flatten(v) {
		if f, ok := toFloat(el); ok {
			return f, true
		}
	}
	return 0, false
}
