package plot

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pivolan/analysis_server/domain/models"
)

const histogramBins = 20

type dataHistogramForGraph struct {
	xStart, xEnd []float64
	yValues      []float64
	nameXAxis    string
	nameGraph    string
}

// NewDataHistogramForGraph bins values into equal-width buckets spanning [min, max].
// A single distinct value gets a bucket range of value±0.5.
func NewDataHistogramForGraph(values []float64, bins int, nameXAxis, nameGraph string) (dataHistogramForGraph, error) {
	if len(values) == 0 {
		return dataHistogramForGraph{}, fmt.Errorf("no values to bin")
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	edges := make([]float64, len(dividers))
	copy(edges, dividers)
	// gonum's last bucket is half-open; nudge it so max lands inside
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	return dataHistogramForGraph{
		xStart:    edges[:bins],
		xEnd:      edges[1:],
		yValues:   counts,
		nameXAxis: nameXAxis,
		nameGraph: nameGraph,
	}, nil
}

func (d dataHistogramForGraph) Kind() models.ChartKind {
	return models.ChartBar
}
func (d dataHistogramForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataHistogramForGraph) getNameYAxis() string {
	return "frequency"
}
func (d dataHistogramForGraph) getYValues() []float64 {
	return d.yValues
}
func (d dataHistogramForGraph) lenXValues() int {
	return len(d.xStart)
}

func (d dataHistogramForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	if len(d.yValues) == 0 || d.lenXValues() <= 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if d.lenXValues() < 2 {
		x = 10.0
	} else if d.lenXValues() < 10 {
		x = 3.0
	}

	const (
		paddingY     = 100
		spacingRatio = 0.2
		aspectRatio  = 9.0 / 16.0
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(d.lenXValues()) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (d dataHistogramForGraph) binLabels() []string {
	labels := make([]string, len(d.xStart))
	for i := range d.xStart {
		labels[i] = formatEdge(d.xStart[i]) + "-" + formatEdge(d.xEnd[i])
	}
	return labels
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func (d dataHistogramForGraph) generateBarValues(p painter) []chart.Value {
	var bars []chart.Value
	for i, label := range d.binLabels() {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: label,
			Style: chart.Style{
				FillColor:   steelBlue,
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	return bars
}

func (d dataHistogramForGraph) drawPNG(p painter) ([]byte, error) {
	return DrawPlotBar(d, p)
}

func (d dataHistogramForGraph) drawHTML() ([]byte, error) {
	items := make([]opts.BarData, len(d.yValues))
	for i, v := range d.yValues {
		items[i] = opts.BarData{Value: v}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: d.nameGraph}),
		charts.WithXAxisOpts(opts.XAxis{Name: d.nameXAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: d.getNameYAxis()}),
	)
	bar.SetXAxis(d.binLabels()).AddSeries(d.nameXAxis, items)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
