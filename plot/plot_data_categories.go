package plot

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/pivolan/analysis_server/domain/models"
)

const pieTopCategories = 10

type dataCategoriesForGraph struct {
	xValues   []string
	yValues   []float64
	nameGraph string
}

// NewDataCategoriesForGraph keeps the top most frequent values of a categorical column.
func NewDataCategoriesForGraph(col *models.Column, top int, nameGraph string) dataCategoriesForGraph {
	counts := col.ValueCounts()
	if len(counts) > top {
		counts = counts[:top]
	}
	d := dataCategoriesForGraph{nameGraph: nameGraph}
	for _, c := range counts {
		d.xValues = append(d.xValues, c.Value)
		d.yValues = append(d.yValues, float64(c.Count))
	}
	return d
}

func (d dataCategoriesForGraph) Kind() models.ChartKind {
	return models.ChartPie
}
func (d dataCategoriesForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataCategoriesForGraph) lenXValues() int {
	return len(d.xValues)
}

func (d dataCategoriesForGraph) generateValues() []chart.Value {
	values := make([]chart.Value, 0, len(d.xValues))
	for i, x := range d.xValues {
		values = append(values, chart.Value{Value: d.yValues[i], Label: x})
	}
	return values
}

func (d dataCategoriesForGraph) drawPNG(p painter) ([]byte, error) {
	return DrawPie(d.nameGraph, d.generateValues(), p)
}

func (d dataCategoriesForGraph) drawHTML() ([]byte, error) {
	items := make([]opts.PieData, len(d.xValues))
	for i, x := range d.xValues {
		items[i] = opts.PieData{Name: x, Value: d.yValues[i]}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: d.nameGraph}))
	pie.AddSeries(d.nameGraph, items)

	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
