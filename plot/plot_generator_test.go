package plot

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/pivolan/analysis_server/domain/models"
)

var pngMagic = []byte("\x89PNG")

func numericColumn(name string, values ...float64) *models.Column {
	col := &models.Column{Name: name, Kind: models.ColumnNumeric, Numbers: values, Missing: make([]bool, len(values))}
	for i, v := range values {
		col.Missing[i] = math.IsNaN(v)
	}
	return col
}

func categoricalColumn(name string, values ...string) *models.Column {
	col := &models.Column{Name: name, Kind: models.ColumnCategorical, Texts: values, Missing: make([]bool, len(values))}
	for i, v := range values {
		col.Missing[i] = v == ""
	}
	return col
}

func temporalColumn(name string, values ...time.Time) *models.Column {
	col := &models.Column{Name: name, Kind: models.ColumnTemporal, Times: values, Missing: make([]bool, len(values))}
	for i, v := range values {
		col.Missing[i] = v.IsZero()
	}
	return col
}

func TestCalculateGridStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{0, 0},
		{-5, 0},
		{1, 0.2},
		{2, 0.5},
		{4, 1},
		{8, 2},
		{365, 100},
		{5000, 1000},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, calculateGridStep(tt.max), 1e-9, "max=%v", tt.max)
	}
}

func TestGenerateGrid(t *testing.T) {
	ticks, maxY := generateGrid(7)
	assert.Equal(t, 8.0, maxY)
	require.NotEmpty(t, ticks)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, 8.0, ticks[len(ticks)-1].Value)

	ticks, maxY = generateGrid(0)
	assert.Nil(t, ticks)
	assert.Equal(t, 1.0, maxY)
}

func TestHistogramBins(t *testing.T) {
	d, err := NewDataHistogramForGraph([]float64{4, 1, 2, 3}, 20, "x", "x distribution")
	require.NoError(t, err)
	require.Len(t, d.yValues, 20)
	assert.Equal(t, 4.0, sum(d.yValues))
	assert.Equal(t, 1.0, d.yValues[0])
	assert.Equal(t, 1.0, d.yValues[19])
	assert.Equal(t, 1.0, d.xStart[0])
	assert.InDelta(t, 4.0, d.xEnd[19], 1e-9)

	single, err := NewDataHistogramForGraph([]float64{5, 5}, 20, "x", "x distribution")
	require.NoError(t, err)
	assert.Equal(t, 4.5, single.xStart[0])
	assert.Equal(t, 2.0, sum(single.yValues))

	_, err = NewDataHistogramForGraph(nil, 20, "x", "x distribution")
	assert.Error(t, err)
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func TestCategoriesKeepTopValues(t *testing.T) {
	values := []string{}
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		for n := 0; n <= i; n++ {
			values = append(values, name)
		}
	}
	d := NewDataCategoriesForGraph(categoricalColumn("c", values...), pieTopCategories, "c proportions")
	assert.Equal(t, 10, d.lenXValues())
	assert.Equal(t, "l", d.xValues[0])
	assert.Equal(t, 12.0, d.yValues[0])
}

func TestPairwiseCorrelation(t *testing.T) {
	x := numericColumn("x", 1, 2, 3, math.NaN())
	y := numericColumn("y", 2, 4, 6, 100)
	z := numericColumn("z", 3, 2, 1, 0)
	c := numericColumn("c", 7, 7, 7, 7)

	assert.InDelta(t, 1.0, pairwiseCorrelation(x, y), 1e-12)
	assert.InDelta(t, -1.0, pairwiseCorrelation(x, z), 1e-12)
	assert.True(t, math.IsNaN(pairwiseCorrelation(x, c)))

	d := NewDataHeatmapForGraph([]*models.Column{x, y, z}, "correlation heatmap")
	assert.Equal(t, []string{"x", "y", "z"}, d.names)
	assert.InDelta(t, 1.0, d.matrix[0][0], 1e-12)
	assert.Equal(t, d.matrix[0][2], d.matrix[2][0])
}

func TestCoolwarm(t *testing.T) {
	assert.Equal(t, coolwarmLow, coolwarm(-1))
	assert.Equal(t, coolwarmMid, coolwarm(0))
	assert.Equal(t, coolwarmHigh, coolwarm(1))
	assert.Equal(t, coolwarmHigh, coolwarm(3))
	assert.Equal(t, missingCell, coolwarm(math.NaN()))
}

func TestPadRange(t *testing.T) {
	lo, hi := padRange([]float64{5, 5})
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 6.0, hi)

	lo, hi = padRange([]float64{0, 10})
	assert.Equal(t, -0.5, lo)
	assert.Equal(t, 10.5, hi)
}

func TestDateSeriesIsSorted(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	d := NewDataDateForGraph(
		temporalColumn("day", day(3), day(1), time.Time{}, day(2)),
		numericColumn("sales", 30, 10, 99, 20),
		"sales time series",
	)
	assert.Equal(t, []float64{10, 20, 30}, d.yValues)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, d.getDateLabels())
}

func TestPainterTransliterates(t *testing.T) {
	p := newPainter(nil)
	assert.True(t, p.transliterate)
	assert.Equal(t, "sales", p.label("sales"))
	assert.True(t, isASCII(p.label("서울")))
}

func TestDrawPlotBar(t *testing.T) {
	d, err := NewDataHistogramForGraph([]float64{1, 2, 2, 3, 3, 3}, histogramBins, "x", "x distribution")
	require.NoError(t, err)
	b, err := DrawPlotBar(d, newPainter(nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))
}

func TestDrawPie(t *testing.T) {
	b, err := DrawPie("city proportions", []chart.Value{{Value: 2, Label: "A"}, {Value: 1, Label: "B"}}, newPainter(nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))

	_, err = DrawPie("empty", []chart.Value{{Value: 0, Label: "A"}}, newPainter(nil))
	assert.Error(t, err)
}

func TestDrawScatter(t *testing.T) {
	b, err := DrawScatter("a vs b", "a", "b", []float64{1, 2, 3}, []float64{3, 1, 2}, newPainter(nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))

	b, err = DrawScatter("a vs b", "a", "b", []float64{1}, []float64{1}, newPainter(nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))
}

func TestDrawTimeSeries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	x := []time.Time{base, base.Add(24 * time.Hour), base.Add(48 * time.Hour)}
	b, err := DrawTimeSeries("v time series", "day", "v", x, []float64{1, 3, 2}, newPainter(nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))
}

func TestDrawHeatmap(t *testing.T) {
	matrix := [][]float64{
		{1, 0.3, -0.8},
		{0.3, 1, math.NaN()},
		{-0.8, math.NaN(), 1},
	}
	b, err := DrawHeatmap("correlation heatmap", []string{"alpha", "beta", "a_very_long_column_name_indeed"}, matrix, newPainter(nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))

	_, err = DrawHeatmap("empty", nil, nil, newPainter(nil))
	assert.Error(t, err)
}

func TestFitText(t *testing.T) {
	r, err := chart.PNG(16, 16)
	require.NoError(t, err)
	font, err := chart.GetDefaultFont()
	require.NoError(t, err)
	r.SetFont(font)
	r.SetFontSize(12)

	assert.Equal(t, "ab", fitText(r, "ab", 200))
	short := fitText(r, "a_very_long_column_name_indeed", 60)
	assert.LessOrEqual(t, r.MeasureText(short).Width(), 60)
	assert.Contains(t, short, "..")
}
