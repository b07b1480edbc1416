package engine

import (
	"sort"

	"formdash/internal/model"
)

// BuildFlowMap links origin locations to destinations. Responses group by the
// canonicalized (origin, destination) pair and the metric aggregates per
// pair; links order descending by value with source/target breaking ties.
func (e *Engine) BuildFlowMap(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 || cfg.Options.OriginField == nil || cfg.Options.DestField == nil {
		p.Empty = true
		return p
	}
	m := cfg.Metrics[0]
	origin := cfg.Options.OriginField
	dest := cfg.Options.DestField
	rs := responsesForForm(responses, m.FormID)
	p.Meta.ResponseCount = len(rs)

	type pair struct{ source, target string }
	grouped := make(map[pair][]*model.ProcessedResponse)
	for _, r := range rs {
		o := Resolve(r, origin.FieldID, origin.SystemField, designs[r.FormID])
		d := Resolve(r, dest.FieldID, dest.SystemField, designs[r.FormID])
		if o == nil || d == nil {
			continue
		}
		key := pair{CanonicalCountry(stringify(o)), CanonicalCountry(stringify(d))}
		if key.source == "" || key.target == "" {
			continue
		}
		grouped[key] = append(grouped[key], r)
	}

	links := make([]model.FlowLink, 0, len(grouped))
	for key, group := range grouped {
		value := e.Aggregate(group, m.Aggregation, m.FieldID, m.SystemField, designs[m.FormID])
		links = append(links, model.FlowLink{Source: key.source, Target: key.target, Value: value})
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Value != links[j].Value {
			return links[i].Value > links[j].Value
		}
		if links[i].Source != links[j].Source {
			return links[i].Source < links[j].Source
		}
		return links[i].Target < links[j].Target
	})

	if len(links) == 0 {
		p.Empty = true
		return p
	}
	p.Links = links
	return p
}
