package plot

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/analysis_server/domain/models"
)

type dataScatterForGraph struct {
	xValues, yValues []float64
	nameXAxis        string
	nameYAxis        string
	nameGraph        string
}

// NewDataScatterForGraph pairs two numeric columns, keeping rows where both are present.
func NewDataScatterForGraph(x, y *models.Column, nameGraph string) dataScatterForGraph {
	d := dataScatterForGraph{nameXAxis: x.Name, nameYAxis: y.Name, nameGraph: nameGraph}
	for i := range x.Numbers {
		if x.Missing[i] || y.Missing[i] {
			continue
		}
		d.xValues = append(d.xValues, x.Numbers[i])
		d.yValues = append(d.yValues, y.Numbers[i])
	}
	return d
}

func (d dataScatterForGraph) Kind() models.ChartKind {
	return models.ChartScatter
}
func (d dataScatterForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataScatterForGraph) lenXValues() int {
	return len(d.xValues)
}

func (d dataScatterForGraph) drawPNG(p painter) ([]byte, error) {
	return DrawScatter(d.nameGraph, d.nameXAxis, d.nameYAxis, d.xValues, d.yValues, p)
}

func (d dataScatterForGraph) drawHTML() ([]byte, error) {
	items := make([]opts.ScatterData, len(d.xValues))
	for i := range d.xValues {
		items[i] = opts.ScatterData{Value: []float64{d.xValues[i], d.yValues[i]}, SymbolSize: 8}
	}
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: d.nameGraph}),
		charts.WithXAxisOpts(opts.XAxis{Name: d.nameXAxis, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: d.nameYAxis, Type: "value"}),
	)
	scatter.AddSeries(d.nameGraph, items)

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
