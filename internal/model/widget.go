package model

import "time"

// VisualizationType is the closed set of chart kinds a widget can render
type VisualizationType string

const (
	VisualizationCard            VisualizationType = "card"
	VisualizationBar             VisualizationType = "bar"
	VisualizationLine            VisualizationType = "line"
	VisualizationPie             VisualizationType = "pie"
	VisualizationHistogram       VisualizationType = "histogram"
	VisualizationScatter         VisualizationType = "scatter"
	VisualizationCalendarHeatmap VisualizationType = "calendar-heatmap"
	VisualizationMap             VisualizationType = "map"
	VisualizationBubbleMap       VisualizationType = "bubble-map"
	VisualizationFlowMap         VisualizationType = "flow-map"
	VisualizationCrosstab        VisualizationType = "crosstab"
	VisualizationCCT             VisualizationType = "cct"
)

// MetricMode selects between per-group statistics and raw per-response values
type MetricMode string

const (
	MetricModeAggregation MetricMode = "aggregation"
	MetricModeValue       MetricMode = "value"
)

// SystemField is a built-in pseudo-field available on every response
type SystemField string

const (
	SystemFieldResponseID     SystemField = "responseId"
	SystemFieldSubmissionDate SystemField = "submissionDate"
)

// AggregationType names the statistic computed over a bucket
type AggregationType string

const (
	AggCount    AggregationType = "count"
	AggSum      AggregationType = "sum"
	AggMean     AggregationType = "mean"
	AggMedian   AggregationType = "median"
	AggMode     AggregationType = "mode"
	AggMin      AggregationType = "min"
	AggMax      AggregationType = "max"
	AggStd      AggregationType = "std"
	AggVariance AggregationType = "variance"
	AggP10      AggregationType = "p10"
	AggP25      AggregationType = "p25"
	AggP50      AggregationType = "p50"
	AggP75      AggregationType = "p75"
	AggP90      AggregationType = "p90"
)

// Metric names one value source: exactly one of FieldID/SystemField is set
type Metric struct {
	ID          string          `json:"id" bson:"id"`
	Label       string          `json:"label,omitempty" bson:"label,omitempty"`
	FormID      string          `json:"formId" bson:"formId"`
	FieldID     string          `json:"fieldId,omitempty" bson:"fieldId,omitempty"`
	SystemField SystemField     `json:"systemField,omitempty" bson:"systemField,omitempty"`
	Aggregation AggregationType `json:"aggregation,omitempty" bson:"aggregation,omitempty"`
}

// GroupKind selects the partitioning strategy
type GroupKind string

const (
	GroupNone        GroupKind = "none"
	GroupCategorical GroupKind = "categorical"
	GroupTime        GroupKind = "time"
)

// TimeBucket is the granularity for time grouping
type TimeBucket string

const (
	BucketYear    TimeBucket = "year"
	BucketQuarter TimeBucket = "quarter"
	BucketMonth   TimeBucket = "month"
	BucketWeek    TimeBucket = "week"
	BucketDay     TimeBucket = "day"
	BucketHour    TimeBucket = "hour"
	BucketMinute  TimeBucket = "minute"
	BucketWhole   TimeBucket = "whole"
)

// GroupBy configures the grouping engine
type GroupBy struct {
	Kind           GroupKind   `json:"kind" bson:"kind"`
	FieldID        string      `json:"fieldId,omitempty" bson:"fieldId,omitempty"`
	SystemField    SystemField `json:"systemField,omitempty" bson:"systemField,omitempty"`
	TimeBucket     TimeBucket  `json:"timeBucket,omitempty" bson:"timeBucket,omitempty"`
	IncludeMissing bool        `json:"includeMissing,omitempty" bson:"includeMissing,omitempty"`
}

// DateRangePreset names a relative date window
type DateRangePreset string

const (
	PresetAll        DateRangePreset = "all"
	PresetLast7Days  DateRangePreset = "last7days"
	PresetLast30Days DateRangePreset = "last30days"
	PresetLast90Days DateRangePreset = "last90days"
	PresetThisMonth  DateRangePreset = "thisMonth"
	PresetLastMonth  DateRangePreset = "lastMonth"
	PresetThisYear   DateRangePreset = "thisYear"
	PresetCustom     DateRangePreset = "custom"
)

// DateRange restricts which responses enter the pipeline
type DateRange struct {
	Preset DateRangePreset `json:"preset,omitempty" bson:"preset,omitempty"`
	From   *time.Time      `json:"from,omitempty" bson:"from,omitempty"`
	To     *time.Time      `json:"to,omitempty" bson:"to,omitempty"`
}

// FilterOperator is the predicate applied against a resolved field value
type FilterOperator string

const (
	OpEquals             FilterOperator = "equals"
	OpEq                 FilterOperator = "eq"
	OpNotEquals          FilterOperator = "not_equals"
	OpNeq                FilterOperator = "neq"
	OpGt                 FilterOperator = "gt"
	OpGreaterThan        FilterOperator = "greater_than"
	OpGte                FilterOperator = "gte"
	OpGreaterThanOrEqual FilterOperator = "greater_than_or_equal"
	OpLt                 FilterOperator = "lt"
	OpLessThan           FilterOperator = "less_than"
	OpLte                FilterOperator = "lte"
	OpLessThanOrEqual    FilterOperator = "less_than_or_equal"
	OpContains           FilterOperator = "contains"
	OpStartsWith         FilterOperator = "starts_with"
	OpEndsWith           FilterOperator = "ends_with"
	OpIn                 FilterOperator = "in"
	OpNotIn              FilterOperator = "not_in"
	OpIsNull             FilterOperator = "is_null"
	OpIsEmpty            FilterOperator = "is_empty"
	OpIsNotNull          FilterOperator = "is_not_null"
	OpIsNotEmpty         FilterOperator = "is_not_empty"
	OpDateEq             FilterOperator = "date_eq"
	OpDateBefore         FilterOperator = "date_before"
	OpDateAfter          FilterOperator = "date_after"
	OpDateRange          FilterOperator = "date_range"
	OpIsTrue             FilterOperator = "is_true"
	OpIsFalse            FilterOperator = "is_false"
)

// Filter is one predicate; a widget's filters are AND-combined
type Filter struct {
	ID          string         `json:"id" bson:"id"`
	FormID      string         `json:"formId" bson:"formId"`
	FieldID     string         `json:"fieldId,omitempty" bson:"fieldId,omitempty"`
	SystemField SystemField    `json:"systemField,omitempty" bson:"systemField,omitempty"`
	Operator    FilterOperator `json:"operator" bson:"operator"`
	Value       any            `json:"value,omitempty" bson:"value,omitempty"`
}

// SortBy orders group keys by key string, time sort value, or a metric's aggregate
type SortBy string

const (
	SortByKey    SortBy = "key"
	SortByTime   SortBy = "time"
	SortByMetric SortBy = "metric"
)

// SortOrder is the sorting direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec configures group-key ordering; TopN truncates after sorting
type SortSpec struct {
	By       SortBy    `json:"by,omitempty" bson:"by,omitempty"`
	MetricID string    `json:"metricId,omitempty" bson:"metricId,omitempty"`
	Order    SortOrder `json:"order,omitempty" bson:"order,omitempty"`
	TopN     int       `json:"topN,omitempty" bson:"topN,omitempty"`
}

// FieldRef points at a field (or pseudo-field) of one form
type FieldRef struct {
	FormID      string      `json:"formId,omitempty" bson:"formId,omitempty"`
	FieldID     string      `json:"fieldId,omitempty" bson:"fieldId,omitempty"`
	SystemField SystemField `json:"systemField,omitempty" bson:"systemField,omitempty"`
}

// MapMetric is one country/value pair for map widgets
type MapMetric struct {
	ID             string `json:"id" bson:"id"`
	Label          string `json:"label,omitempty" bson:"label,omitempty"`
	FormID         string `json:"formId" bson:"formId"`
	CountryFieldID string `json:"countryFieldId" bson:"countryFieldId"`
	ValueFieldID   string `json:"valueFieldId" bson:"valueFieldId"`
}

// WidgetOptions holds all visualization-specific sub-config. Not every field is
// valid for every type; the service layer enforces per-type rules.
type WidgetOptions struct {
	Sort           *SortSpec   `json:"sort,omitempty" bson:"sort,omitempty"`
	XField         *FieldRef   `json:"xField,omitempty" bson:"xField,omitempty"`     // bar/line/pie value-mode axis or label source
	BinCount       int         `json:"binCount,omitempty" bson:"binCount,omitempty"` // histogram; 0 = automatic
	DateField      *FieldRef   `json:"dateField,omitempty" bson:"dateField,omitempty"`
	ShowEmptyDates bool        `json:"showEmptyDates,omitempty" bson:"showEmptyDates,omitempty"`
	MapMetrics     []MapMetric `json:"mapMetrics,omitempty" bson:"mapMetrics,omitempty"`
	LocationField  *FieldRef   `json:"locationField,omitempty" bson:"locationField,omitempty"`
	OriginField    *FieldRef   `json:"originField,omitempty" bson:"originField,omitempty"`
	DestField      *FieldRef   `json:"destField,omitempty" bson:"destField,omitempty"`
	RowField       *FieldRef   `json:"rowField,omitempty" bson:"rowField,omitempty"`
	ColumnField    *FieldRef   `json:"columnField,omitempty" bson:"columnField,omitempty"`
	Factors        []FieldRef  `json:"factors,omitempty" bson:"factors,omitempty"`
}

// WidgetConfig is the immutable description of what to compute
type WidgetConfig struct {
	Title             string            `json:"title" bson:"title"`
	VisualizationType VisualizationType `json:"visualizationType" bson:"visualizationType"`
	MetricMode        MetricMode        `json:"metricMode,omitempty" bson:"metricMode,omitempty"`
	Metrics           []Metric          `json:"metrics" bson:"metrics"`
	GroupBy           GroupBy           `json:"groupBy,omitempty" bson:"groupBy,omitempty"`
	DateRange         DateRange         `json:"dateRange,omitempty" bson:"dateRange,omitempty"`
	Filters           []Filter          `json:"filters,omitempty" bson:"filters,omitempty"`
	Options           WidgetOptions     `json:"options,omitempty" bson:"options,omitempty"`
}

// Widget is a persisted dashboard widget
type Widget struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	Title     string       `json:"title" bson:"title"`
	Config    WidgetConfig `json:"config" bson:"config"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt" bson:"updatedAt"`
}
