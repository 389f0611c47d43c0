package plot

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/pivolan/analysis_server/domain/models"
)

type dataHeatmapForGraph struct {
	names     []string
	matrix    [][]float64
	nameGraph string
}

// NewDataHeatmapForGraph computes pairwise Pearson correlations over rows where both columns are present.
// Pairs with fewer than two such rows or a constant side are NaN.
func NewDataHeatmapForGraph(cols []*models.Column, nameGraph string) dataHeatmapForGraph {
	n := len(cols)
	d := dataHeatmapForGraph{names: make([]string, n), matrix: make([][]float64, n), nameGraph: nameGraph}
	for i, c := range cols {
		d.names[i] = c.Name
		d.matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairwiseCorrelation(cols[i], cols[j])
			d.matrix[i][j] = r
			d.matrix[j][i] = r
		}
	}
	return d
}

func pairwiseCorrelation(a, b *models.Column) float64 {
	var x, y []float64
	for i := range a.Numbers {
		if a.Missing[i] || b.Missing[i] {
			continue
		}
		x = append(x, a.Numbers[i])
		y = append(y, b.Numbers[i])
	}
	if len(x) < 2 || isConstant(x) || isConstant(y) {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	return math.Max(-1, math.Min(1, r))
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func (d dataHeatmapForGraph) Kind() models.ChartKind {
	return models.ChartHeatmap
}
func (d dataHeatmapForGraph) GetNameGraph() string {
	return d.nameGraph
}

func (d dataHeatmapForGraph) drawPNG(p painter) ([]byte, error) {
	return DrawHeatmap(d.nameGraph, d.names, d.matrix, p)
}

func (d dataHeatmapForGraph) drawHTML() ([]byte, error) {
	var items []opts.HeatMapData
	for i := range d.matrix {
		for j, v := range d.matrix[i] {
			var cell interface{} = "-"
			if !math.IsNaN(v) {
				cell = math.Round(v*100) / 100
			}
			items = append(items, opts.HeatMapData{Value: [3]interface{}{j, i, cell}})
		}
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: d.nameGraph}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: d.names}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: d.names}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: -1,
			Max: 1,
			InRange: &opts.VisualMapInRange{
				Color: []string{"#3b4cc0", "#dddddd", "#b40426"},
			},
		}),
	)
	hm.SetXAxis(d.names).AddSeries(d.nameGraph, items)

	var buf bytes.Buffer
	if err := hm.Render(&buf); err != nil {
		return nil, fmt.Errorf("heatmap html: %w", err)
	}
	return buf.Bytes(), nil
}
