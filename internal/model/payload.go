package model

import "time"

// PayloadMeta carries computation metadata alongside every payload
type PayloadMeta struct {
	ComputedAt    time.Time `json:"computedAt"`
	ResponseCount int       `json:"responseCount"`
}

// Series is one aligned value list for bar/line charts
type Series struct {
	MetricID string    `json:"metricId"`
	Label    string    `json:"label"`
	Data     []float64 `json:"data"`
}

// Slice is one pie segment
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// HistogramBin is one value interval with its occupancy
type HistogramBin struct {
	Label string  `json:"label"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// Point is one scatter coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CalendarDay is one aggregated day of a calendar heatmap
type CalendarDay struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Bubble is one sized location marker
type Bubble struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// FlowLink is one origin-to-destination edge
type FlowLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// CrosstabTable is a two-dimensional cross-tabulation with totals
type CrosstabTable struct {
	Rows         []string    `json:"rows"`
	Columns      []string    `json:"columns"`
	Cells        [][]float64 `json:"cells"` // Cells[row][column]
	RowTotals    []float64   `json:"rowTotals"`
	ColumnTotals []float64   `json:"columnTotals"`
	GrandTotal   float64     `json:"grandTotal"`
}

// CCTRow is one factor combination of a custom cross-tabulation
type CCTRow struct {
	Factors []string `json:"factors"`
	Key     string   `json:"key"`
	Value   float64  `json:"value"`
	Count   int      `json:"count"`
}

// WidgetData is the payload consumed by the rendering layer. Type tags which
// of the optional sections is populated; Empty is the canonical nothing-to-render
// signal and is never conflated with Errors.
type WidgetData struct {
	Type   VisualizationType `json:"type"`
	Title  string            `json:"title"`
	Meta   PayloadMeta       `json:"meta"`
	Empty  bool              `json:"empty"`
	Errors []string          `json:"errors,omitempty"`

	// card
	Value     any    `json:"value,omitempty"`
	StatLabel string `json:"statLabel,omitempty"`

	// bar / line
	Categories []string `json:"categories,omitempty"`
	Series     []Series `json:"series,omitempty"`

	// pie
	Slices []Slice `json:"slices,omitempty"`

	// histogram
	Bins []HistogramBin `json:"bins,omitempty"`

	// scatter
	Points []Point `json:"points,omitempty"`

	// calendar heatmap
	Days []CalendarDay `json:"days,omitempty"`

	// map: canonical country -> metric label -> value
	Countries map[string]map[string]float64 `json:"countries,omitempty"`

	// bubble map
	Bubbles []Bubble `json:"bubbles,omitempty"`

	// flow map
	Links []FlowLink `json:"links,omitempty"`

	// crosstab
	Crosstab *CrosstabTable `json:"crosstab,omitempty"`

	// custom cross-tabulation
	CCTRows []CCTRow `json:"cctRows,omitempty"`
}

// ErrorPayload converts a computation fault into a well-formed card-shaped
// payload so the caller never receives a raw error
func ErrorPayload(title, message string) WidgetData {
	return WidgetData{
		Type:   VisualizationCard,
		Title:  title,
		Meta:   PayloadMeta{ComputedAt: time.Now().UTC()},
		Empty:  true,
		Errors: []string{message},
	}
}
