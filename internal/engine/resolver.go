package engine

import (
	"encoding/json"
	"math"
	"strings"

	"formdash/internal/model"
)

// Resolve extracts the value of a field or system pseudo-field from one
// response. When a matching form design question exists, type-specific
// coercion applies; without a design the raw value passes through unchanged.
// Absence yields nil, never an error.
func Resolve(resp *model.ProcessedResponse, fieldID string, systemField model.SystemField, design *model.FormDesign) any {
	switch systemField {
	case model.SystemFieldResponseID:
		return resp.ID
	case model.SystemFieldSubmissionDate:
		return resp.CreatedAt
	}
	raw, ok := resp.Answers[fieldID]
	if !ok || raw == nil {
		return nil
	}
	q := design.Question(fieldID)
	if q == nil {
		return raw
	}
	return coerceByType(raw, q.Type)
}

func coerceByType(raw any, qt model.QuestionType) any {
	switch qt {
	case model.QuestionTypeParagraph:
		return paragraphText(raw)
	case model.QuestionTypePhone:
		if s, ok := raw.(string); ok && s != "" && !strings.HasPrefix(s, "+") {
			return "+" + s
		}
		return raw
	case model.QuestionTypeCheckbox:
		return checkedOptions(raw)
	case model.QuestionTypeDate:
		if m, ok := asMap(raw); ok {
			if d, has := m["date"]; has {
				return d
			}
		}
		return raw
	case model.QuestionTypeDateTime:
		return dateTimeString(raw)
	case model.QuestionTypeDateRange:
		return dateRangeDays(raw)
	case model.QuestionTypeFromDatabase:
		return lookupValues(raw)
	default:
		return raw
	}
}

// paragraphText joins rich-editor block texts with newlines; anything that is
// not a {blocks: [{text}]} JSON string passes through
func paragraphText(raw any) any {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	var doc struct {
		Blocks []struct {
			Text string `json:"text"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal([]byte(s), &doc); err != nil || len(doc.Blocks) == 0 {
		return raw
	}
	texts := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		texts = append(texts, b.Text)
	}
	return strings.Join(texts, "\n")
}

// checkedOptions reduces [{option, checked}] to the checked option labels
func checkedOptions(raw any) any {
	list, ok := raw.([]any)
	if !ok {
		return raw
	}
	labels := make([]string, 0, len(list))
	for _, item := range list {
		m, isMap := asMap(item)
		if !isMap {
			continue
		}
		checked, _ := toBool(m["checked"])
		if !checked {
			continue
		}
		if option, isStr := m["option"].(string); isStr {
			labels = append(labels, option)
		}
	}
	return labels
}

// dateTimeString combines {date, time} into an ISO timestamp string
func dateTimeString(raw any) any {
	m, ok := asMap(raw)
	if !ok {
		return raw
	}
	date, _ := m["date"].(string)
	if date == "" {
		return raw
	}
	clock, _ := m["time"].(string)
	if clock == "" {
		return date
	}
	return date + "T" + clock
}

// dateRangeDays returns the day-count between {start, end}: ceiling of the
// absolute difference in days, 0 when either bound is missing or invalid
func dateRangeDays(raw any) any {
	m, ok := asMap(raw)
	if !ok {
		return 0
	}
	start, okStart := toTime(m["start"])
	end, okEnd := toTime(m["end"])
	if !okStart || !okEnd {
		return 0
	}
	diff := end.Sub(start).Hours() / 24
	return int(math.Ceil(math.Abs(diff)))
}

// lookupValues projects [{response}] entries of lookup questions to their
// response values
func lookupValues(raw any) any {
	list, ok := raw.([]any)
	if !ok {
		return raw
	}
	values := make([]any, 0, len(list))
	for _, item := range list {
		if m, isMap := asMap(item); isMap {
			if v, has := m["response"]; has {
				values = append(values, v)
			}
		}
	}
	return values
}
