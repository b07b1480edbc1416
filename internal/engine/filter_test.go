package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"formdash/internal/model"
)

func filterResponses() []*model.ProcessedResponse {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []*model.ProcessedResponse{
		makeResponse("r1", "f1", map[string]any{"score": 5, "name": "Alice", "tags": []any{"red", "blue"}}, base),
		makeResponse("r2", "f1", map[string]any{"score": "5", "name": "bob"}, base.AddDate(0, 0, 1)),
		makeResponse("r3", "f1", map[string]any{"score": 10, "name": "Carol", "done": "true"}, base.AddDate(0, 0, 2)),
		makeResponse("r4", "f1", map[string]any{"name": ""}, base.AddDate(0, 0, 3)),
	}
}

func applyOne(t *testing.T, f model.Filter) []string {
	t.Helper()
	e := New(nil)
	out := e.ApplyFilters(filterResponses(), []model.Filter{f}, nil)
	ids := make([]string, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestApplyFilters_EmptyListIsIdentity(t *testing.T) {
	e := New(nil)
	rs := filterResponses()
	assert.Equal(t, rs, e.ApplyFilters(rs, nil, nil))
}

func TestApplyFilters_EqualsWithNumericCoercion(t *testing.T) {
	// "5" and 5 are equal under numeric-first comparison
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "score", Operator: model.OpEquals, Value: 5})
	assert.Equal(t, []string{"r1", "r2"}, ids)
}

func TestApplyFilters_EqualsCaseInsensitiveString(t *testing.T) {
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpEq, Value: "ALICE "})
	assert.Equal(t, []string{"r1"}, ids)
}

func TestApplyFilters_NullValueFailsNonNullOperators(t *testing.T) {
	// r4 has no score at all
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "score", Operator: model.OpNotEquals, Value: 99})
	assert.NotContains(t, ids, "r4")
}

func TestApplyFilters_NullClass(t *testing.T) {
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "done", Operator: model.OpIsNull})
	assert.Equal(t, []string{"r1", "r2", "r4"}, ids)

	// empty string counts as empty
	ids = applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpIsEmpty})
	assert.Equal(t, []string{"r4"}, ids)

	ids = applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpIsNotEmpty})
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids)
}

func TestApplyFilters_ArrayMembership(t *testing.T) {
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "tags", Operator: model.OpEquals, Value: "red"})
	assert.Equal(t, []string{"r1"}, ids)

	ids = applyOne(t, model.Filter{FormID: "f1", FieldID: "tags", Operator: model.OpNotEquals, Value: "red"})
	assert.NotContains(t, ids, "r1")
}

func TestApplyFilters_NumericComparisons(t *testing.T) {
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "score", Operator: model.OpGt, Value: 5})
	assert.Equal(t, []string{"r3"}, ids)

	ids = applyOne(t, model.Filter{FormID: "f1", FieldID: "score", Operator: model.OpGreaterThanOrEqual, Value: "5"})
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids)

	// non-numeric operand fails the predicate
	ids = applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpLt, Value: 10})
	assert.Empty(t, ids)
}

func TestApplyFilters_StringClass(t *testing.T) {
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpContains, Value: "LI"})
	assert.Equal(t, []string{"r1"}, ids)

	ids = applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpStartsWith, Value: "ca"})
	assert.Equal(t, []string{"r3"}, ids)

	ids = applyOne(t, model.Filter{FormID: "f1", FieldID: "tags", Operator: model.OpEndsWith, Value: "ue"})
	assert.Equal(t, []string{"r1"}, ids)
}

func TestApplyFilters_SetClass(t *testing.T) {
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpIn, Value: []any{"alice", "BOB"}})
	assert.Equal(t, []string{"r1", "r2"}, ids)

	ids = applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpNotIn, Value: []any{"alice"}})
	assert.Equal(t, []string{"r2", "r3", "r4"}, ids)
}

func TestApplyFilters_DateClass(t *testing.T) {
	ids := applyOne(t, model.Filter{
		FormID: "f1", SystemField: model.SystemFieldSubmissionDate,
		Operator: model.OpDateEq, Value: "2024-05-02",
	})
	assert.Equal(t, []string{"r2"}, ids)

	ids = applyOne(t, model.Filter{
		FormID: "f1", SystemField: model.SystemFieldSubmissionDate,
		Operator: model.OpDateBefore, Value: "2024-05-03",
	})
	assert.Equal(t, []string{"r1", "r2"}, ids)

	ids = applyOne(t, model.Filter{
		FormID: "f1", SystemField: model.SystemFieldSubmissionDate,
		Operator: model.OpDateRange,
		Value:    map[string]any{"from": "2024-05-02", "to": "2024-05-03"},
	})
	assert.Equal(t, []string{"r2", "r3"}, ids)
}

func TestApplyFilters_BooleanClass(t *testing.T) {
	// accepts the string form "true"
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "done", Operator: model.OpIsTrue})
	assert.Equal(t, []string{"r3"}, ids)
}

func TestApplyFilters_UnknownOperatorIsPermissive(t *testing.T) {
	// the documented fallback: the response passes rather than being dropped
	ids := applyOne(t, model.Filter{FormID: "f1", FieldID: "name", Operator: "frobnicate", Value: 1})
	assert.Len(t, ids, 4)
}

func TestApplyFilters_OtherFormUnaffected(t *testing.T) {
	e := New(nil)
	rs := append(filterResponses(),
		makeResponse("x1", "f2", map[string]any{"other": 1}, time.Now()))
	out := e.ApplyFilters(rs, []model.Filter{
		{FormID: "f1", FieldID: "score", Operator: model.OpGt, Value: 100},
	}, nil)
	assert.Len(t, out, 1)
	assert.Equal(t, "x1", out[0].ID)
}

func TestApplyFilters_Monotonicity(t *testing.T) {
	e := New(nil)
	f1 := model.Filter{FormID: "f1", FieldID: "score", Operator: model.OpGte, Value: 5}
	f2 := model.Filter{FormID: "f1", FieldID: "name", Operator: model.OpContains, Value: "a"}

	only := e.ApplyFilters(filterResponses(), []model.Filter{f1}, nil)
	both := e.ApplyFilters(filterResponses(), []model.Filter{f1, f2}, nil)

	onlyIDs := make(map[string]bool)
	for _, r := range only {
		onlyIDs[r.ID] = true
	}
	for _, r := range both {
		assert.True(t, onlyIDs[r.ID], "adding filters must never admit new responses")
	}
}
