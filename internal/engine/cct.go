package engine

import (
	"sort"
	"strings"

	"formdash/internal/model"
)

// BuildCCT computes the multi-factor combinatorial cross-tabulation: every
// combination of factor values observed in the data becomes one row with the
// metric aggregated over its responses. Rows sort ascending by combined key.
func (e *Engine) BuildCCT(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 || len(cfg.Options.Factors) == 0 {
		p.Empty = true
		return p
	}
	m := cfg.Metrics[0]
	rs := responsesForForm(responses, m.FormID)
	p.Meta.ResponseCount = len(rs)

	type combo struct {
		factors []string
		group   []*model.ProcessedResponse
	}
	combos := make(map[string]*combo)
	for _, r := range rs {
		factors := make([]string, 0, len(cfg.Options.Factors))
		complete := true
		for _, f := range cfg.Options.Factors {
			v := Resolve(r, f.FieldID, f.SystemField, designs[r.FormID])
			if v == nil {
				if !cfg.GroupBy.IncludeMissing {
					complete = false
					break
				}
				factors = append(factors, MissingKey)
				continue
			}
			factors = append(factors, stringify(v))
		}
		if !complete {
			continue
		}
		key := strings.Join(factors, " / ")
		c, ok := combos[key]
		if !ok {
			c = &combo{factors: factors}
			combos[key] = c
		}
		c.group = append(c.group, r)
	}
	if len(combos) == 0 {
		p.Empty = true
		return p
	}

	keys := make([]string, 0, len(combos))
	for k := range combos {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]model.CCTRow, 0, len(keys))
	for _, key := range keys {
		c := combos[key]
		value := e.Aggregate(c.group, m.Aggregation, m.FieldID, m.SystemField, designs[m.FormID])
		rows = append(rows, model.CCTRow{Factors: c.factors, Key: key, Value: value, Count: len(c.group)})
	}
	p.CCTRows = rows
	return p
}
