package engine

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"formdash/internal/model"
)

// Aggregate reduces the numeric projection of one field across responses to a
// single statistic. count never touches the field; every other aggregation
// drops non-numeric values (dates coerce to epoch milliseconds) and returns 0
// on an empty projection, never NaN.
func (e *Engine) Aggregate(responses []*model.ProcessedResponse, agg model.AggregationType, fieldID string, systemField model.SystemField, design *model.FormDesign) float64 {
	if agg == "" || agg == model.AggCount {
		return float64(len(responses))
	}
	values := NumericProjection(responses, fieldID, systemField, design)
	if len(values) == 0 {
		return 0
	}

	var result float64
	var err error
	switch agg {
	case model.AggSum:
		result, err = stats.Sum(values)
	case model.AggMean:
		result, err = stats.Mean(values)
	case model.AggMedian, model.AggP50:
		result, err = stats.Median(values)
	case model.AggMin:
		result, err = stats.Min(values)
	case model.AggMax:
		result, err = stats.Max(values)
	case model.AggStd:
		result, err = stats.StdDevP(values)
	case model.AggVariance:
		result, err = stats.VarP(values)
	case model.AggMode:
		return modeOf(values)
	case model.AggP10:
		return percentileAt(values, 0.10)
	case model.AggP25:
		return percentileAt(values, 0.25)
	case model.AggP75:
		return percentileAt(values, 0.75)
	case model.AggP90:
		return percentileAt(values, 0.90)
	default:
		// documented degradation: an unknown statistic falls back to the mean
		e.log.Warn("unknown aggregation type, falling back to mean",
			zap.String("aggregation", string(agg)))
		result, err = stats.Mean(values)
	}
	if err != nil {
		return 0
	}
	return result
}

// NumericProjection resolves the field per response, flattens arrays, and
// keeps only what coerces to a number
func NumericProjection(responses []*model.ProcessedResponse, fieldID string, systemField model.SystemField, design *model.FormDesign) []float64 {
	values := make([]float64, 0, len(responses))
	for _, r := range responses {
		v := Resolve(r, fieldID, systemField, design)
		for _, el := range flatten(v) {
			if f, ok := toFloat(el); ok {
				values = append(values, f)
			}
		}
	}
	return values
}

// percentileAt is percentile-by-rank: index floor(N*p) into the ascending
// sort, clamped to the valid range
func percentileAt(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// modeOf returns the first value reaching the maximum frequency, scanning the
// frequency table in ascending numeric order so ties break deterministically
func modeOf(values []float64) float64 {
	freq := make(map[float64]int, len(values))
	for _, v := range values {
		freq[v]++
	}
	keys := make([]float64, 0, len(freq))
	maxCount := 0
	for k, c := range freq {
		keys = append(keys, k)
		if c > maxCount {
			maxCount = c
		}
	}
	sort.Float64s(keys)
	for _, k := range keys {
		if freq[k] == maxCount {
			return k
		}
	}
	return 0
}
