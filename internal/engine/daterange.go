package engine

import (
	"time"

	"formdash/internal/model"
)

// ResolveDateRange turns a preset or custom range into concrete bounds.
// Nil bounds mean unbounded on that side.
func ResolveDateRange(dr model.DateRange, now time.Time) (from, to *time.Time) {
	now = now.UTC()
	switch dr.Preset {
	case model.PresetLast7Days:
		return lastDays(now, 7)
	case model.PresetLast30Days:
		return lastDays(now, 30)
	case model.PresetLast90Days:
		return lastDays(now, 90)
	case model.PresetThisMonth:
		f := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &f, &now
	case model.PresetLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		f := first.AddDate(0, -1, 0)
		t := first.Add(-time.Nanosecond)
		return &f, &t
	case model.PresetThisYear:
		f := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return &f, &now
	case model.PresetCustom:
		return dr.From, dr.To
	default: // all
		return nil, nil
	}
}

// lastDays covers the n calendar days ending today, inclusive
func lastDays(now time.Time, n int) (*time.Time, *time.Time) {
	f := utcDay(now).AddDate(0, 0, -(n - 1))
	return &f, &now
}
