package plot

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	heatmapCell     = 90
	heatmapTop      = 70
	heatmapBarWidth = 20
)

var (
	coolwarmLow  = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	coolwarmMid  = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	coolwarmHigh = drawing.Color{R: 180, G: 4, B: 38, A: 255}
	missingCell  = drawing.Color{R: 245, G: 245, B: 245, A: 255}
)

// coolwarm maps [-1, 1] onto a diverging blue-grey-red scale centred on zero.
func coolwarm(v float64) drawing.Color {
	if math.IsNaN(v) {
		return missingCell
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerpColor(coolwarmMid, coolwarmLow, -v)
	}
	return lerpColor(coolwarmMid, coolwarmHigh, v)
}

func lerpColor(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// DrawHeatmap renders an annotated square matrix with a colour bar.
// go-chart has no heatmap series, so cells are painted on the raw renderer.
func DrawHeatmap(title string, names []string, matrix [][]float64, p painter) ([]byte, error) {
	n := len(names)
	if n == 0 || len(matrix) != n {
		return nil, fmt.Errorf("heatmap needs a square matrix")
	}
	font, err := p.resolveFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	labels := p.labels(names)

	measure, err := chart.PNG(16, 16)
	if err != nil {
		return nil, err
	}
	measure.SetFont(font)
	measure.SetFontSize(12)
	for i, l := range labels {
		labels[i] = fitText(measure, l, heatmapCell*2)
	}
	labelWidth := 0
	for _, l := range labels {
		if w := measure.MeasureText(l).Width(); w > labelWidth {
			labelWidth = w
		}
	}

	left := labelWidth + 30
	grid := n * heatmapCell
	width := left + grid + 30 + heatmapBarWidth + 60
	height := heatmapTop + grid + 50

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	r.SetFont(font)

	fillRect(r, 0, 0, width, height, drawing.ColorWhite, drawing.ColorWhite)

	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(16)
	t := p.label(title)
	tb := r.MeasureText(t)
	r.Text(t, (width-tb.Width())/2, 35)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0, y0 := left+j*heatmapCell, heatmapTop+i*heatmapCell
			v := matrix[i][j]
			fillRect(r, x0, y0, x0+heatmapCell, y0+heatmapCell, coolwarm(v), drawing.ColorWhite)
			if math.IsNaN(v) {
				continue
			}
			text := fmt.Sprintf("%.2f", v)
			r.SetFontSize(13)
			if math.Abs(v) > 0.5 {
				r.SetFontColor(drawing.ColorWhite)
			} else {
				r.SetFontColor(drawing.ColorBlack)
			}
			b := r.MeasureText(text)
			r.Text(text, x0+(heatmapCell-b.Width())/2, y0+(heatmapCell+b.Height())/2)
		}
	}

	r.SetFontSize(12)
	r.SetFontColor(drawing.ColorBlack)
	for i, l := range labels {
		b := r.MeasureText(l)
		r.Text(l, left-10-b.Width(), heatmapTop+i*heatmapCell+(heatmapCell+b.Height())/2)

		col := fitText(r, l, heatmapCell-6)
		cb := r.MeasureText(col)
		r.Text(col, left+i*heatmapCell+(heatmapCell-cb.Width())/2, heatmapTop+grid+22)
	}

	drawColorBar(r, left+grid+30, heatmapTop, grid)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawColorBar(r chart.Renderer, x, y, height int) {
	const steps = 50
	step := float64(height) / steps
	for s := 0; s < steps; s++ {
		v := 1 - 2*(float64(s)+0.5)/steps
		y0 := y + int(math.Round(float64(s)*step))
		y1 := y + int(math.Round(float64(s+1)*step))
		c := coolwarm(v)
		fillRect(r, x, y0, x+heatmapBarWidth, y1, c, c)
	}
	r.SetFontSize(11)
	r.SetFontColor(drawing.ColorBlack)
	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		ty := y + int(math.Round((1-tick)/2*float64(height)))
		label := fmt.Sprintf("%.1f", tick)
		b := r.MeasureText(label)
		r.Text(label, x+heatmapBarWidth+6, ty+b.Height()/2)
	}
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, fill, stroke drawing.Color) {
	r.SetFillColor(fill)
	r.SetStrokeColor(stroke)
	r.SetStrokeWidth(1)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.FillStroke()
}

// fitText shortens s until it is at most maxWidth pixels wide.
func fitText(r chart.Renderer, s string, maxWidth int) string {
	if r.MeasureText(s).Width() <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ".."
		if r.MeasureText(candidate).Width() <= maxWidth {
			return candidate
		}
	}
	return string(runes)
}
