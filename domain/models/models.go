package models

import (
	"math"
	"sort"
	"time"
)

type ColumnKind string

const (
	ColumnNumeric     ColumnKind = "numeric"
	ColumnCategorical ColumnKind = "categorical"
	ColumnTemporal    ColumnKind = "temporal"
)

type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartPie     ChartKind = "pie"
	ChartScatter ChartKind = "scatter"
	ChartHeatmap ChartKind = "heatmap"
	ChartLine    ChartKind = "line"
)

// ChartKinds lists every chart kind in selection order.
var ChartKinds = []ChartKind{ChartBar, ChartPie, ChartScatter, ChartHeatmap, ChartLine}

func ParseChartKind(s string) (ChartKind, bool) {
	for _, k := range ChartKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Column holds one value per row. Only the slice matching Kind is filled;
// Missing marks absent values for every kind.
type Column struct {
	Name string
	Kind ColumnKind
	// Integer is set for numeric columns whose values are all whole numbers and none is missing.
	Integer bool
	Numbers []float64 // numeric, NaN where missing
	Texts   []string  // categorical
	Times   []time.Time
	Missing []bool
}

func (c *Column) Len() int {
	return len(c.Missing)
}

func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

func (c *Column) NonMissingCount() int {
	return c.Len() - c.MissingCount()
}

// PresentNumbers returns the non-missing values of a numeric column in row order.
func (c *Column) PresentNumbers() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for i, v := range c.Numbers {
		if !c.Missing[i] && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

type ValueCount struct {
	Value string
	Count int
}

// ValueCounts lists the distinct non-missing texts by descending frequency; ties keep first-seen order.
func (c *Column) ValueCounts() []ValueCount {
	index := make(map[string]int)
	var counts []ValueCount
	for i, v := range c.Texts {
		if c.Missing[i] {
			continue
		}
		if n, ok := index[v]; ok {
			counts[n].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}

// DataType mirrors the storage type label the dashboard expects.
func (c *Column) DataType() string {
	switch c.Kind {
	case ColumnNumeric:
		if c.Integer {
			return "int64"
		}
		return "float64"
	case ColumnTemporal:
		return "datetime64[ns]"
	default:
		return "object"
	}
}

type Table struct {
	Columns []*Column
}

func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnsOfKind keeps table order.
func (t *Table) ColumnsOfKind(kind ColumnKind) []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (t *Table) MissingTotal() int {
	total := 0
	for _, c := range t.Columns {
		total += c.MissingCount()
	}
	return total
}

type ColumnProfile struct {
	ColumnName string     `json:"column_name"`
	DataType   string     `json:"data_type"`
	Kind       ColumnKind `json:"kind"`
	Count      int        `json:"count"`
	Unique     int        `json:"unique"`
	Missing    int        `json:"missing"`
	Mean       *float64   `json:"mean"`
	Std        *float64   `json:"std"`
	Min        *float64   `json:"min"`
	Max        *float64   `json:"max"`
	Top        *string    `json:"top"`
}

type ChartArtifact struct {
	ChartType ChartKind `json:"chart_type"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
}

type AnalysisReport struct {
	FileID      string          `json:"file_id"`
	FileName    string          `json:"file_name"`
	RowCount    int             `json:"row_count"`
	ColumnCount int             `json:"column_count"`
	Columns     []string        `json:"columns"`
	Statistics  []ColumnProfile `json:"statistics"`
	Charts      []ChartArtifact `json:"charts"`
	Summary     string          `json:"summary"`
}
