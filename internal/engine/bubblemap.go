package engine

import (
	"sort"

	"formdash/internal/model"
)

// BuildBubbleMap aggregates one metric per canonicalized location. Bubbles
// sort descending by value with the location name breaking ties; top-N
// truncates after sorting.
func (e *Engine) BuildBubbleMap(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 || cfg.Options.LocationField == nil {
		p.Empty = true
		return p
	}
	m := cfg.Metrics[0]
	loc := cfg.Options.LocationField
	formID := loc.FormID
	if formID == "" {
		formID = m.FormID
	}
	rs := responsesForForm(responses, formID)
	p.Meta.ResponseCount = len(rs)

	grouped := make(map[string][]*model.ProcessedResponse)
	names := make(map[string]string) // canonical key -> first-seen display name
	for _, r := range rs {
		raw := Resolve(r, loc.FieldID, loc.SystemField, designs[r.FormID])
		if raw == nil {
			continue
		}
		display := stringify(raw)
		key := CanonicalCountry(display)
		if key == "" {
			continue
		}
		if _, seen := names[key]; !seen {
			names[key] = display
		}
		grouped[key] = append(grouped[key], r)
	}

	bubbles := make([]model.Bubble, 0, len(grouped))
	for key, group := range grouped {
		value := e.Aggregate(group, m.Aggregation, m.FieldID, m.SystemField, designs[m.FormID])
		bubbles = append(bubbles, model.Bubble{Name: names[key], Value: value, Count: len(group)})
	}
	sort.Slice(bubbles, func(i, j int) bool {
		if bubbles[i].Value != bubbles[j].Value {
			return bubbles[i].Value > bubbles[j].Value
		}
		return bubbles[i].Name < bubbles[j].Name
	})
	if cfg.Options.Sort != nil && cfg.Options.Sort.TopN > 0 && len(bubbles) > cfg.Options.Sort.TopN {
		bubbles = bubbles[:cfg.Options.Sort.TopN]
	}

	if len(bubbles) == 0 {
		p.Empty = true
		return p
	}
	p.Bubbles = bubbles
	return p
}
