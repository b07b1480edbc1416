package engine

// NormalizeAnswers flattens any of the three legal raw answer shapes into the
// canonical questionId -> value map:
//
//  1. array of sections: [{questions: [{questionId, value}, ...]}, ...]
//  2. sections wrapper:  {sections: [...same as 1...]}
//  3. flat map:          {questionId: value, ...}
//
// Entries may also appear directly at the top of a section array. The first
// non-nil value seen for a questionId wins; later duplicates are ignored so
// all three shapes resolve identically for a given questionId.
func NormalizeAnswers(raw any) map[string]any {
	out := make(map[string]any)
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			collectEntries(item, out)
		}
	case map[string]any:
		if sections, ok := v["sections"]; ok {
			if list, isList := sections.([]any); isList {
				for _, item := range list {
					collectEntries(item, out)
				}
				return out
			}
		}
		for k, val := range v {
			put(out, k, val)
		}
	}
	return out
}

// collectEntries walks one section or answer entry
func collectEntries(item any, out map[string]any) {
	m, ok := asMap(item)
	if !ok {
		return
	}
	if qid, hasID := m["questionId"].(string); hasID && qid != "" {
		put(out, qid, m["value"])
		return
	}
	if questions, ok := m["questions"].([]any); ok {
		for _, q := range questions {
			collectEntries(q, out)
		}
	}
}

func put(out map[string]any, key string, value any) {
	if existing, ok := out[key]; ok && existing != nil {
		return
	}
	out[key] = value
}
