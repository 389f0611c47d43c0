package plot

import (
	"github.com/wcharczuk/go-chart/v2"

	"github.com/pivolan/analysis_server/domain/models"
)

// dataForGraph is a chart whose data has been prepared from a table and only needs drawing.
type dataForGraph interface {
	Kind() models.ChartKind
	GetNameGraph() string
	drawPNG(p painter) ([]byte, error)
	drawHTML() ([]byte, error)
}

type barData interface {
	GetNameGraph() string
	getNameYAxis() string
	getYValues() []float64
	calculateChartDimensions(float64) (int, int)
	generateBarValues(p painter) []chart.Value
}
