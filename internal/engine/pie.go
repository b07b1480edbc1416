package engine

import (
	"sort"

	"formdash/internal/model"
)

// BuildPie shapes the pie payload. Value mode emits one slice per response
// from a label field and the metric's numeric value; aggregation mode groups
// then aggregates. Slices sort descending by value, zero-value slices drop,
// and an optional top-N truncates after sorting.
func (e *Engine) BuildPie(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 {
		p.Empty = true
		return p
	}
	m := cfg.Metrics[0]

	var slices []model.Slice
	if cfg.MetricMode == model.MetricModeValue {
		label := cfg.Options.XField
		if label == nil {
			label = &model.FieldRef{FormID: m.FormID, SystemField: model.SystemFieldResponseID}
		}
		rs := responsesForForm(responses, m.FormID)
		p.Meta.ResponseCount = len(rs)
		for _, r := range rs {
			lv := Resolve(r, label.FieldID, label.SystemField, designs[r.FormID])
			if lv == nil {
				continue
			}
			v := Resolve(r, m.FieldID, m.SystemField, designs[r.FormID])
			for _, el := range flatten(v) {
				if f, ok := toFloat(el); ok {
					slices = append(slices, model.Slice{Label: stringify(lv), Value: f})
					break
				}
			}
		}
	} else {
		rs := responsesForForm(responses, m.FormID)
		p.Meta.ResponseCount = len(rs)
		buckets := GroupResponses(rs, cfg.GroupBy, designs)
		for key, b := range buckets {
			v := e.Aggregate(b.Responses, m.Aggregation, m.FieldID, m.SystemField, designs[m.FormID])
			slices = append(slices, model.Slice{Label: key, Value: v})
		}
	}

	// drop zero-value slices, sort descending, tie on label
	filtered := slices[:0]
	for _, s := range slices {
		if s.Value != 0 {
			filtered = append(filtered, s)
		}
	}
	slices = filtered
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Label < slices[j].Label
	})
	if cfg.Options.Sort != nil && cfg.Options.Sort.TopN > 0 && len(slices) > cfg.Options.Sort.TopN {
		slices = slices[:cfg.Options.Sort.TopN]
	}

	if len(slices) == 0 {
		p.Empty = true
		return p
	}
	p.Slices = slices
	return p
}
