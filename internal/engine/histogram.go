package engine

import (
	"fmt"
	"math"

	"formdash/internal/model"
)

const (
	histogramMinBins     = 1
	histogramMaxBins     = 50
	histogramAutoMinBins = 5
)

// BuildHistogram bins the flattened numeric projection of one field. A fixed
// bin count clamps to [1,50]; the automatic count is ceil(log2 N)+1 clamped
// to [5,50]. min==max degenerates to a single bin; otherwise the last bin
// absorbs the maximum value.
func (e *Engine) BuildHistogram(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 {
		p.Empty = true
		return p
	}
	m := cfg.Metrics[0]
	rs := responsesForForm(responses, m.FormID)
	p.Meta.ResponseCount = len(rs)

	values := NumericProjection(rs, m.FieldID, m.SystemField, designs[m.FormID])
	if len(values) == 0 {
		p.Empty = true
		return p
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		p.Bins = []model.HistogramBin{{
			Label: binLabel(min, max),
			From:  min,
			To:    max,
			Count: len(values),
		}}
		return p
	}

	binCount := cfg.Options.BinCount
	if binCount > 0 {
		binCount = clampInt(binCount, histogramMinBins, histogramMaxBins)
	} else {
		auto := int(math.Ceil(math.Log2(float64(len(values))))) + 1
		binCount = clampInt(auto, histogramAutoMinBins, histogramMaxBins)
	}

	width := (max - min) / float64(binCount)
	bins := make([]model.HistogramBin, binCount)
	for i := range bins {
		from := min + float64(i)*width
		to := from + width
		bins[i] = model.HistogramBin{Label: binLabel(from, to), From: from, To: to}
	}
	for _, v := range values {
		idx := int(math.Floor((v - min) / width))
		if idx > binCount-1 {
			idx = binCount - 1
		}
		bins[idx].Count++
	}
	p.Bins = bins
	return p
}

func binLabel(from, to float64) string {
	return fmt.Sprintf("%g - %g", roundTo2(from), roundTo2(to))
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
