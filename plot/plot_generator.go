package plot

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var steelBlue = drawing.ColorFromHex("4682b4")

func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}

// generateGrid returns y ticks from zero up to the first grid line at or above max.
func generateGrid(max float64) ([]chart.Tick, float64) {
	gridStep := calculateGridStep(max)
	if gridStep == 0 {
		return nil, 1
	}
	maxY := math.Ceil(max/gridStep) * gridStep
	var ticks []chart.Tick
	for i := 0; float64(i)*gridStep <= maxY+gridStep/2; i++ {
		v := float64(i) * gridStep
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks, maxY
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2g", v)
}

// DrawPlotBar renders bars with the y axis starting at zero.
func DrawPlotBar(data barData, p painter) ([]byte, error) {
	barValues := data.generateBarValues(p)
	if len(barValues) == 0 {
		return nil, fmt.Errorf("no bars to draw")
	}
	paddingX := customizePaddingXBottom(barValues)
	width, height := data.calculateChartDimensions(40)
	ticks, maxY := generateGrid(findMaxValue(data.getYValues()))

	bar := chart.BarChart{}
	bar.Title = p.label(data.GetNameGraph())
	bar.Font = p.font
	bar.Background = chart.Style{
		StrokeColor: chart.ColorBlack,
		Padding: chart.Box{
			Bottom: paddingX,
			Top:    50,
		},
	}
	bar.Height = height + 50
	bar.Width = width + paddingX + 50
	bar.BarWidth = 40
	bar.Bars = barValues
	bar.YAxis = chart.YAxis{
		Name: p.label(data.getNameYAxis()),
		Range: &chart.ContinuousRange{
			Min: 0.0,
			Max: maxY,
		},
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlack,
			FontSize:    12,
		},
		Ticks: ticks,
		GridMajorStyle: chart.Style{
			StrokeColor:     chart.ColorBlack,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
	bar.XAxis = chart.Style{
		StrokeWidth:         2,
		StrokeColor:         chart.ColorBlack,
		TextRotationDegrees: 60,
		FontSize:            11,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

// DrawPie renders category shares; labels carry the percentage.
func DrawPie(title string, values []chart.Value, p painter) ([]byte, error) {
	total := 0.0
	for _, v := range values {
		total += v.Value
	}
	if total <= 0 {
		return nil, fmt.Errorf("pie chart needs positive values")
	}
	slices := make([]chart.Value, len(values))
	for i, v := range values {
		slices[i] = chart.Value{
			Value: v.Value,
			Label: fmt.Sprintf("%s %.1f%%", p.label(v.Label), v.Value/total*100),
		}
	}

	pie := chart.PieChart{
		Title:  p.label(title),
		Font:   p.font,
		Width:  1000,
		Height: 800,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Values: slices,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

// DrawScatter renders unconnected points.
func DrawScatter(title, nameX, nameY string, x, y []float64, p painter) ([]byte, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("scatter needs matching non-empty series")
	}
	minX, maxX := padRange(x)
	minY, maxY := padRange(y)

	graph := chart.Chart{
		Title:  p.label(title),
		Font:   p.font,
		Width:  1000,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  p.label(nameX),
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  p.label(nameY),
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
					DotColor:    steelBlue.WithAlpha(153),
				},
				XValues: x,
				YValues: y,
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

// DrawTimeSeries renders a line over time; x must already be sorted.
func DrawTimeSeries(title, nameX, nameY string, x []time.Time, y []float64, p painter) ([]byte, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("time series needs matching non-empty series")
	}
	minY, maxY := padRange(y)
	minX, maxX := float64(x[0].UnixNano()), float64(x[len(x)-1].UnixNano())
	if minX == maxX {
		minX -= float64(time.Hour)
		maxX += float64(time.Hour)
	}

	graph := chart.Chart{
		Title:  p.label(title),
		Font:   p.font,
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 40, Bottom: 60},
		},
		XAxis: chart.XAxis{
			Name:           p.label(nameX),
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
			ValueFormatter: chart.TimeValueFormatterWithFormat(timeLayoutFor(x)),
			Style:          chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:  p.label(nameY),
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Style: chart.Style{
					StrokeColor: steelBlue,
					StrokeWidth: 2,
				},
				XValues: x,
				YValues: y,
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

// timeLayoutFor drops the clock part when every timestamp is midnight.
func timeLayoutFor(x []time.Time) string {
	for _, t := range x {
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
			return "2006-01-02 15:04"
		}
	}
	return "2006-01-02"
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

// padRange widens [min,max] by 5% each side, or by 1 when every value is equal.
func padRange(values []float64) (float64, float64) {
	min, max := values[0], values[0]
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if min == max {
		return min - 1, max + 1
	}
	pad := (max - min) * 0.05
	return min - pad, max + pad
}

func customizePaddingXBottom(values []chart.Value) int {
	count := 0
	for _, v := range values {
		if len(v.Label) > count {
			count = len(v.Label)
		}
	}
	return count * 8
}
