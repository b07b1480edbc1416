package engine

import (
	"time"

	"formdash/internal/model"
)

// BuildCalendarHeatmap buckets responses by UTC calendar day across the
// widget's effective date range (defaulting to the last 30 days) and
// aggregates per day. Every day in range is visited so none is skipped; days
// with zero value are omitted unless the config asks for empty dates.
func (e *Engine) BuildCalendarHeatmap(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 {
		p.Empty = true
		return p
	}
	m := cfg.Metrics[0]
	rs := responsesForForm(responses, m.FormID)
	p.Meta.ResponseCount = len(rs)

	from, to := ResolveDateRange(cfg.DateRange, time.Now())
	if from == nil || to == nil {
		f, t := lastDays(time.Now().UTC(), 30)
		if from == nil {
			from = f
		}
		if to == nil {
			to = t
		}
	}

	dateField := cfg.Options.DateField
	if dateField == nil {
		dateField = &model.FieldRef{SystemField: model.SystemFieldSubmissionDate}
	}

	byDay := make(map[string][]*model.ProcessedResponse)
	for _, r := range rs {
		v := Resolve(r, dateField.FieldID, dateField.SystemField, designs[r.FormID])
		t, ok := toTime(v)
		if !ok {
			continue
		}
		key := utcDay(t).Format("2006-01-02")
		byDay[key] = append(byDay[key], r)
	}

	var days []model.CalendarDay
	for day := utcDay(*from); !day.After(to.UTC()); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		bucket := byDay[key]
		var value float64
		if len(bucket) > 0 {
			value = e.Aggregate(bucket, m.Aggregation, m.FieldID, m.SystemField, designs[m.FormID])
		}
		if value == 0 && !cfg.Options.ShowEmptyDates {
			continue
		}
		days = append(days, model.CalendarDay{Date: key, Value: value, Count: len(bucket)})
	}

	if len(days) == 0 {
		p.Empty = true
		return p
	}
	p.Days = days
	return p
}
