package plot

import (
	"bytes"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/analysis_server/domain/models"
)

type dataDateForGraph struct {
	xValues   []time.Time
	yValues   []float64
	nameXAxis string
	nameYAxis string
	nameGraph string
}

// NewDataDateForGraph orders rows by the time column. Rows missing either value are dropped.
func NewDataDateForGraph(when, value *models.Column, nameGraph string) dataDateForGraph {
	type point struct {
		t time.Time
		v float64
	}
	var points []point
	for i := range when.Times {
		if when.Missing[i] || value.Missing[i] {
			continue
		}
		points = append(points, point{when.Times[i], value.Numbers[i]})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].t.Before(points[j].t) })

	d := dataDateForGraph{nameXAxis: when.Name, nameYAxis: value.Name, nameGraph: nameGraph}
	for _, pt := range points {
		d.xValues = append(d.xValues, pt.t)
		d.yValues = append(d.yValues, pt.v)
	}
	return d
}

func (d dataDateForGraph) Kind() models.ChartKind {
	return models.ChartLine
}
func (d dataDateForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataDateForGraph) lenXValues() int {
	return len(d.xValues)
}

func (d dataDateForGraph) getDateLabels() []string {
	layout := timeLayoutFor(d.xValues)
	data := make([]string, len(d.xValues))
	for i, t := range d.xValues {
		data[i] = t.Format(layout)
	}
	return data
}

func (d dataDateForGraph) drawPNG(p painter) ([]byte, error) {
	return DrawTimeSeries(d.nameGraph, d.nameXAxis, d.nameYAxis, d.xValues, d.yValues, p)
}

func (d dataDateForGraph) drawHTML() ([]byte, error) {
	items := make([]opts.LineData, len(d.yValues))
	for i, v := range d.yValues {
		items[i] = opts.LineData{Value: v}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: d.nameGraph}),
		charts.WithXAxisOpts(opts.XAxis{Name: d.nameXAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: d.nameYAxis}),
	)
	line.SetXAxis(d.getDateLabels()).AddSeries(d.nameYAxis, items)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
