package engine

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"formdash/internal/model"
)

// ApplyFilters keeps the responses that pass every applicable filter.
// Filters are AND-combined; a filter only applies to responses of its form.
// An empty filter list is the identity.
func (e *Engine) ApplyFilters(responses []*model.ProcessedResponse, filters []model.Filter, designs Designs) []*model.ProcessedResponse {
	if len(filters) == 0 {
		return responses
	}
	out := make([]*model.ProcessedResponse, 0, len(responses))
	for _, resp := range responses {
		pass := true
		for _, f := range filters {
			if f.FormID != "" && f.FormID != resp.FormID {
				continue
			}
			if !e.evalFilter(resp, f, designs[resp.FormID]) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, resp)
		}
	}
	return out
}

func (e *Engine) evalFilter(resp *model.ProcessedResponse, f model.Filter, design *model.FormDesign) bool {
	value := Resolve(resp, f.FieldID, f.SystemField, design)

	switch canonicalOperator(f.Operator) {
	case model.OpIsNull:
		return isEmptyValue(value)
	case model.OpIsNotNull:
		return !isEmptyValue(value)
	}

	// a missing value fails every non-null-class predicate
	if value == nil {
		return false
	}

	switch canonicalOperator(f.Operator) {
	case model.OpEquals:
		return anyOverlap(value, f.Value)
	case model.OpNotEquals:
		return !anyOverlap(value, f.Value)
	case model.OpGt:
		return compareNumeric(value, f.Value, func(a, b float64) bool { return a > b })
	case model.OpGte:
		return compareNumeric(value, f.Value, func(a, b float64) bool { return a >= b })
	case model.OpLt:
		return compareNumeric(value, f.Value, func(a, b float64) bool { return a < b })
	case model.OpLte:
		return compareNumeric(value, f.Value, func(a, b float64) bool { return a <= b })
	case model.OpContains:
		return anyString(value, f.Value, strings.Contains)
	case model.OpStartsWith:
		return anyString(value, f.Value, strings.HasPrefix)
	case model.OpEndsWith:
		return anyString(value, f.Value, strings.HasSuffix)
	case model.OpIn:
		return anyOverlap(value, f.Value)
	case model.OpNotIn:
		return !anyOverlap(value, f.Value)
	case model.OpDateEq:
		return compareDay(value, f.Value, func(a, b time.Time) bool { return a.Equal(b) })
	case model.OpDateBefore:
		return compareDay(value, f.Value, func(a, b time.Time) bool { return a.Before(b) })
	case model.OpDateAfter:
		return compareDay(value, f.Value, func(a, b time.Time) bool { return a.After(b) })
	case model.OpDateRange:
		return dayInRange(value, f.Value)
	case model.OpIsTrue:
		b, ok := toBool(value)
		return ok && b
	case model.OpIsFalse:
		b, ok := toBool(value)
		return ok && !b
	default:
		// permissive fallback: an operator this engine does not know must not
		// silently drop data
		e.log.Warn("unknown filter operator, response passes",
			zap.String("operator", string(f.Operator)),
			zap.String("filterId", f.ID))
		return true
	}
}

// canonicalOperator folds long-form aliases onto their short forms
func canonicalOperator(op model.FilterOperator) model.FilterOperator {
	switch op {
	case model.OpEq:
		return model.OpEquals
	case model.OpNeq:
		return model.OpNotEquals
	case model.OpGreaterThan:
		return model.OpGt
	case model.OpGreaterThanOrEqual:
		return model.OpGte
	case model.OpLessThan:
		return model.OpLt
	case model.OpLessThanOrEqual:
		return model.OpLte
	case model.OpIsEmpty:
		return model.OpIsNull
	case model.OpIsNotEmpty:
		return model.OpIsNotNull
	default:
		return op
	}
}

// anyOverlap reports whether any element of the resolved value matches any
// element of the filter value, using the normalized scalar comparator
func anyOverlap(value, filterValue any) bool {
	for _, v := range flatten(value) {
		for _, fv := range flatten(filterValue) {
			if scalarEquals(v, fv) {
				return true
			}
		}
	}
	return false
}

func compareNumeric(value, filterValue any, cmp func(a, b float64) bool) bool {
	a, okA := toFloat(value)
	b, okB := toFloat(filterValue)
	if !okA || !okB {
		return false
	}
	return cmp(a, b)
}

// anyString applies a case-insensitive string predicate, array-aware on the
// response side
func anyString(value, filterValue any, pred func(s, substr string) bool) bool {
	needle := normString(filterValue)
	for _, v := range flatten(value) {
		if pred(normString(v), needle) {
			return true
		}
	}
	return false
}

// utcDay truncates to the calendar day in UTC
func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func compareDay(value, filterValue any, cmp func(a, b time.Time) bool) bool {
	a, okA := toTime(value)
	b, okB := toTime(filterValue)
	if !okA || !okB {
		return false
	}
	return cmp(utcDay(a), utcDay(b))
}

// dayInRange checks inclusive {from, to} calendar-day bounds
func dayInRange(value, filterValue any) bool {
	day, ok := toTime(value)
	if !ok {
		return false
	}
	bounds, ok := asMap(filterValue)
	if !ok {
		return false
	}
	d := utcDay(day)
	if from, hasFrom := toTime(bounds["from"]); hasFrom && d.Before(utcDay(from)) {
		return false
	}
	if to, hasTo := toTime(bounds["to"]); hasTo && d.After(utcDay(to)) {
		return false
	}
	return true
}
