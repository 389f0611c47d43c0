package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []float64
	}{
		{"comma separated", "1,2,3", []float64{1, 2, 3}},
		{"lines and decimals", "1.5\n-2\n.25", []float64{1.5, -2, 0.25}},
		{"mixed text", "price 10 and 20.5 total", []float64{10, 20.5}},
		{"no numbers", "hello", []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNumbers(tt.text))
		})
	}
}

func TestAnalyzeNumbers(t *testing.T) {
	assert.Nil(t, AnalyzeNumbers(nil))

	stats := AnalyzeNumbers([]float64{1, 2, 3, 4, 100})
	require.NotNil(t, stats)
	assert.Equal(t, 5, stats.Count)
	assert.Equal(t, 22.0, stats.Average)
	assert.Equal(t, 3.0, stats.Median)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 100.0, stats.Max)
	assert.Equal(t, 2.0, stats.Quantiles[0.25])
	assert.Equal(t, 4.0, stats.Quantiles[0.75])
	assert.Equal(t, 2.0, stats.IQR)
	assert.Equal(t, []float64{100}, stats.Outliers)
}

func TestFormatStats(t *testing.T) {
	assert.Contains(t, FormatStats(nil), "No numbers")

	msg := FormatStats(AnalyzeNumbers([]float64{1, 2, 3}))
	assert.Contains(t, msg, "Count: 3")
	assert.Contains(t, msg, "Median: 2.00")
	assert.NotContains(t, msg, "Outliers")
}
