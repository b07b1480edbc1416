package engine

import (
	"sort"

	"formdash/internal/model"
)

// BuildCrosstab computes the two-dimensional cross-tabulation. Row and column
// keys sort ascending; every total (row, column, grand) is the metric's
// aggregation applied to the union of responses in that stripe, so totals are
// deterministic functions of the grouped data rather than sums of cells.
func (e *Engine) BuildCrosstab(cfg model.WidgetConfig, responses []*model.ProcessedResponse, designs Designs) model.WidgetData {
	p := newPayload(cfg)
	if len(cfg.Metrics) == 0 || cfg.Options.RowField == nil || cfg.Options.ColumnField == nil {
		p.Empty = true
		return p
	}
	m := cfg.Metrics[0]
	rowF := cfg.Options.RowField
	colF := cfg.Options.ColumnField
	rs := responsesForForm(responses, m.FormID)
	p.Meta.ResponseCount = len(rs)

	type cellKey struct{ row, col string }
	cells := make(map[cellKey][]*model.ProcessedResponse)
	byRow := make(map[string][]*model.ProcessedResponse)
	byCol := make(map[string][]*model.ProcessedResponse)
	var all []*model.ProcessedResponse
	for _, r := range rs {
		rv := Resolve(r, rowF.FieldID, rowF.SystemField, designs[r.FormID])
		cv := Resolve(r, colF.FieldID, colF.SystemField, designs[r.FormID])
		if rv == nil || cv == nil {
			continue
		}
		row, col := stringify(rv), stringify(cv)
		cells[cellKey{row, col}] = append(cells[cellKey{row, col}], r)
		byRow[row] = append(byRow[row], r)
		byCol[col] = append(byCol[col], r)
		all = append(all, r)
	}
	if len(all) == 0 {
		p.Empty = true
		return p
	}

	rows := sortedKeys(byRow)
	cols := sortedKeys(byCol)

	design := designs[m.FormID]
	table := &model.CrosstabTable{
		Rows:         rows,
		Columns:      cols,
		Cells:        make([][]float64, len(rows)),
		RowTotals:    make([]float64, len(rows)),
		ColumnTotals: make([]float64, len(cols)),
	}
	for i, row := range rows {
		table.Cells[i] = make([]float64, len(cols))
		for j, col := range cols {
			if group := cells[cellKey{row, col}]; len(group) > 0 {
				table.Cells[i][j] = e.Aggregate(group, m.Aggregation, m.FieldID, m.SystemField, design)
			}
		}
		table.RowTotals[i] = e.Aggregate(byRow[row], m.Aggregation, m.FieldID, m.SystemField, design)
	}
	for j, col := range cols {
		table.ColumnTotals[j] = e.Aggregate(byCol[col], m.Aggregation, m.FieldID, m.SystemField, design)
	}
	table.GrandTotal = e.Aggregate(all, m.Aggregation, m.FieldID, m.SystemField, design)

	p.Crosstab = table
	return p
}

func sortedKeys(m map[string][]*model.ProcessedResponse) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
