package engine

import "formdash/internal/model"

// BuildCard computes the single-value card payload: one metric, either an
// aggregation over all filtered responses or, in value mode, the field value
// of the first matching response.
func (e *Engine) BuildCard(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 {
		p.Empty = true
		return p
	}
	m := cfg.Metrics[0]
	rs := responsesForForm(responses, m.FormID)
	p.Meta.ResponseCount = len(rs)

	if cfg.MetricMode == model.MetricModeValue {
		if len(rs) == 0 {
			p.Empty = true
			return p
		}
		v := Resolve(rs[0], m.FieldID, m.SystemField, designs[m.FormID])
		if v == nil {
			p.Empty = true
			return p
		}
		p.Value = v
		return p
	}

	if len(rs) == 0 {
		p.Empty = true
		p.StatLabel = aggregationLabel(m.Aggregation)
		return p
	}
	p.Value = e.Aggregate(rs, m.Aggregation, m.FieldID, m.SystemField, designs[m.FormID])
	p.StatLabel = aggregationLabel(m.Aggregation)
	return p
}
