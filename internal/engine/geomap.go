package engine

import (
	"sort"

	"formdash/internal/model"
)

// BuildMap computes the choropleth payload. Each map metric independently
// takes, per canonicalized country, the value of the most recently created
// matching response (last-write-wins by createdAt); the per-metric results
// merge into one countries map keyed by canonical country name.
func (e *Engine) BuildMap(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Options.MapMetrics) == 0 {
		p.Empty = true
		return p
	}

	countries := make(map[string]map[string]float64)
	total := 0
	for _, mm := range cfg.Options.MapMetrics {
		rs := responsesForForm(responses, mm.FormID)
		total += len(rs)
		design := designs[mm.FormID]

		// ascending createdAt so later responses overwrite earlier ones
		ordered := append([]*model.ProcessedResponse(nil), rs...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		})

		label := mm.Label
		if label == "" {
			label = mm.ValueFieldID
		}
		for _, r := range ordered {
			raw := Resolve(r, mm.CountryFieldID, "", design)
			if raw == nil {
				continue
			}
			country := CanonicalCountry(stringify(raw))
			if country == "" {
				continue
			}
			value, ok := firstNumeric(Resolve(r, mm.ValueFieldID, "", design))
			if !ok {
				continue
			}
			if countries[country] == nil {
				countries[country] = make(map[string]float64)
			}
			countries[country][label] = value
		}
	}
	p.Meta.ResponseCount = total

	if len(countries) == 0 {
		p.Empty = true
		return p
	}
	p.Countries = countries
	return p
}
