package engine

import (
	"fmt"
	"sort"
	"time"

	"formdash/internal/model"
)

// MissingKey is the bucket for responses whose group value does not resolve
const MissingKey = "missing"

// Bucket is one partition produced by the grouping engine. SortValue is a
// deterministic numeric key for time buckets (epoch millis of the truncated
// instant) and 0 otherwise.
type Bucket struct {
	Key       string
	SortValue float64
	Responses []*model.ProcessedResponse
}

// GroupResponses partitions responses into named buckets. kind=none yields a
// single "all" bucket; categorical buckets are keyed by the stringified value;
// time buckets get deterministic truncated keys. Unresolvable values route to
// the missing bucket only when IncludeMissing is set, else the response drops.
func GroupResponses(responses []*model.ProcessedResponse, groupBy model.GroupBy, designs Designs) map[string]*Bucket {
	buckets := make(map[string]*Bucket)
	add := func(key string, sortValue float64, r *model.ProcessedResponse) {
		b, ok := buckets[key]
		if !ok {
			b = &Bucket{Key: key, SortValue: sortValue}
			buckets[key] = b
		}
		b.Responses = append(b.Responses, r)
	}

	switch groupBy.Kind {
	case model.GroupCategorical:
		for _, r := range responses {
			v := Resolve(r, groupBy.FieldID, groupBy.SystemField, designs[r.FormID])
			if v == nil {
				if groupBy.IncludeMissing {
					add(MissingKey, 0, r)
				}
				continue
			}
			add(stringify(v), 0, r)
		}
	case model.GroupTime:
		for _, r := range responses {
			v := Resolve(r, groupBy.FieldID, groupBy.SystemField, designs[r.FormID])
			t, ok := toTime(v)
			if !ok {
				if groupBy.IncludeMissing {
					add(MissingKey, 0, r)
				}
				continue
			}
			key, sortValue := timeBucketKey(t, groupBy.TimeBucket)
			add(key, sortValue, r)
		}
	default: // none
		for _, r := range responses {
			add("all", 0, r)
		}
	}
	return buckets
}

// timeBucketKey derives the deterministic bucket key and numeric sort value
// for a timestamp at the requested granularity
func timeBucketKey(t time.Time, bucket model.TimeBucket) (string, float64) {
	t = t.UTC()
	var key string
	var truncated time.Time
	switch bucket {
	case model.BucketYear:
		key = t.Format("2006")
		truncated = time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	case model.BucketQuarter:
		q := (int(t.Month())-1)/3 + 1
		key = fmt.Sprintf("%04d-Q%d", t.Year(), q)
		truncated = time.Date(t.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	case model.BucketMonth:
		key = t.Format("2006-01")
		truncated = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case model.BucketWeek:
		// ISO-8601: Monday start, the year owning the Thursday owns the week
		year, week := t.ISOWeek()
		key = fmt.Sprintf("%04d-W%02d", year, week)
		truncated = mondayOf(t)
	case model.BucketDay:
		key = t.Format("2006-01-02")
		truncated = utcDay(t)
	case model.BucketHour:
		key = t.Format("2006-01-02 15:00")
		truncated = t.Truncate(time.Hour)
	case model.BucketMinute:
		key = t.Format("2006-01-02 15:04")
		truncated = t.Truncate(time.Minute)
	default: // whole
		key = t.Format(time.RFC3339)
		truncated = t
	}
	return key, float64(truncated.UnixMilli())
}

func mondayOf(t time.Time) time.Time {
	d := utcDay(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// SortedGroupKeys orders bucket keys by key string, time sort value, or a
// metric's aggregated value. Ties always fall back to ascending string
// comparison of the key; TopN truncates strictly after sorting.
func SortedGroupKeys(buckets map[string]*Bucket, spec *model.SortSpec, metricValues map[string]float64) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	if spec == nil {
		spec = &model.SortSpec{By: model.SortByKey}
	}
	desc := spec.Order == model.SortDesc

	less := func(a, b string) bool {
		var cmp int
		switch spec.By {
		case model.SortByTime:
			cmp = compareFloat(buckets[a].SortValue, buckets[b].SortValue)
		case model.SortByMetric:
			cmp = compareFloat(metricValues[a], metricValues[b])
		default:
			cmp = compareString(a, b)
		}
		if desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
		return a < b
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	if spec.TopN > 0 && len(keys) > spec.TopN {
		keys = keys[:spec.TopN]
	}
	return keys
}

// defaultSortSpec picks time ordering for time grouping and key ordering
// otherwise, used when a widget does not configure sorting
func defaultSortSpec(groupBy model.GroupBy) *model.SortSpec {
	if groupBy.Kind == model.GroupTime {
		return &model.SortSpec{By: model.SortByTime}
	}
	return &model.SortSpec{By: model.SortByKey}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
