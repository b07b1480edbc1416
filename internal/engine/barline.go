package engine

import "formdash/internal/model"

// BuildBarLine shapes the multi-metric bar and line payloads. Value mode
// builds one categorical axis from a designated identifier field with one
// series per metric; aggregation mode groups then aggregates per metric with
// group keys shared across all metrics so the series stay aligned.
func (e *Engine) BuildBarLine(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 {
		p.Empty = true
		return p
	}
	if cfg.MetricMode == model.MetricModeValue {
		return e.barLineValueMode(cfg, responses, designs, p)
	}
	return e.barLineAggMode(cfg, responses, designs, p)
}

func (e *Engine) barLineValueMode(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs, p model.WidgetData) model.WidgetData {
	x := cfg.Options.XField
	if x == nil {
		x = &model.FieldRef{FormID: cfg.Metrics[0].FormID, SystemField: model.SystemFieldResponseID}
	}
	rs := responsesForForm(responses, x.FormID)
	p.Meta.ResponseCount = len(rs)

	categories := make([]string, 0, len(rs))
	rows := make([]*model.ProcessedResponse, 0, len(rs))
	for _, r := range rs {
		label := Resolve(r, x.FieldID, x.SystemField, designs[r.FormID])
		if label == nil {
			continue
		}
		categories = append(categories, stringify(label))
		rows = append(rows, r)
	}
	if len(categories) == 0 {
		p.Empty = true
		return p
	}

	series := make([]model.Series, 0, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		data := make([]float64, len(rows))
		for i, r := range rows {
			v := Resolve(r, m.FieldID, m.SystemField, designs[r.FormID])
			for _, el := range flatten(v) {
				if f, ok := toFloat(el); ok {
					data[i] = f
					break
				}
			}
		}
		series = append(series, model.Series{MetricID: m.ID, Label: metricLabel(m), Data: data})
	}
	p.Categories = categories
	p.Series = series
	return p
}

func (e *Engine) barLineAggMode(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs, p model.WidgetData) model.WidgetData {
	p.Meta.ResponseCount = len(responses)

	// group per metric, then merge bucket keys so every series covers the
	// same sorted axis
	perMetric := make([]map[string]*Bucket, len(cfg.Metrics))
	merged := make(map[string]*Bucket)
	for i, m := range cfg.Metrics {
		buckets := GroupResponses(responsesForForm(responses, m.FormID), cfg.GroupBy, designs)
		perMetric[i] = buckets
		for key, b := range buckets {
			if _, ok := merged[key]; !ok {
				merged[key] = &Bucket{Key: key, SortValue: b.SortValue}
			}
		}
	}
	if len(merged) == 0 {
		p.Empty = true
		return p
	}

	values := make([]map[string]float64, len(cfg.Metrics))
	for i, m := range cfg.Metrics {
		values[i] = make(map[string]float64, len(merged))
		for key := range merged {
			b := perMetric[i][key]
			if b == nil {
				values[i][key] = 0
				continue
			}
			values[i][key] = e.Aggregate(b.Responses, m.Aggregation, m.FieldID, m.SystemField, designs[m.FormID])
		}
	}

	spec := cfg.Options.Sort
	if spec == nil {
		spec = defaultSortSpec(cfg.GroupBy)
	}
	keys := SortedGroupKeys(merged, spec, values[sortMetricIndex(cfg.Metrics, spec)])

	series := make([]model.Series, 0, len(cfg.Metrics))
	for i, m := range cfg.Metrics {
		data := make([]float64, len(keys))
		for j, key := range keys {
			data[j] = values[i][key]
		}
		series = append(series, model.Series{MetricID: m.ID, Label: metricLabel(m), Data: data})
	}
	p.Categories = keys
	p.Series = series
	return p
}

// sortMetricIndex picks which metric's values drive metric-sorting
func sortMetricIndex(metrics []model.Metric, spec *model.SortSpec) int {
	if spec == nil || spec.MetricID == "" {
		return 0
	}
	for i, m := range metrics {
		if m.ID == spec.MetricID {
			return i
		}
	}
	return 0
}

func metricLabel(m model.Metric) string {
	if m.Label != "" {
		return m.Label
	}
	if m.FieldID != "" {
		return m.FieldID
	}
	return string(m.SystemField)
}
