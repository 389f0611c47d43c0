// number_analyzer.go
package main

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type NumberStats struct {
	Average   float64
	Median    float64
	Min       float64
	Max       float64
	Count     int
	Quantiles map[float64]float64
	IQR       float64
	Outliers  []float64
}

var numberPattern = regexp.MustCompile(`-?\d*\.?\d+`)

var quantileList = []float64{0.01, 0.025, 0.1, 0.25, 0.75, 0.9, 0.975, 0.99}

// ExtractNumbers pulls every number out of free text; commas and newlines separate values.
func ExtractNumbers(text string) []float64 {
	text = strings.NewReplacer(",", " ", "\n", " ").Replace(text)
	matches := numberPattern.FindAllString(text, -1)

	numbers := make([]float64, 0, len(matches))
	for _, match := range matches {
		if num, err := strconv.ParseFloat(match, 64); err == nil {
			numbers = append(numbers, num)
		}
	}
	return numbers
}

// calculateQuantile interpolates linearly between closest ranks of a sorted slice.
func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)
	if floor == ceil {
		return sorted[int(pos)]
	}
	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	return lower + (pos-floor)*(upper-lower)
}

func findOutliers(numbers []float64, q1, q3, iqr float64) []float64 {
	outliers := make([]float64, 0)
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr
	for _, num := range numbers {
		if num < lowerBound || num > upperBound {
			outliers = append(outliers, num)
		}
	}
	return outliers
}

// AnalyzeNumbers returns nil for an empty slice.
func AnalyzeNumbers(numbers []float64) *NumberStats {
	if len(numbers) == 0 {
		return nil
	}
	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)

	quantiles := make(map[float64]float64, len(quantileList))
	for _, p := range quantileList {
		quantiles[p] = roundTo(calculateQuantile(sorted, p), 2)
	}
	iqr := quantiles[0.75] - quantiles[0.25]

	return &NumberStats{
		Average:   roundTo(stat.Mean(numbers, nil), 2),
		Median:    roundTo(calculateQuantile(sorted, 0.5), 2),
		Min:       roundTo(floats.Min(numbers), 2),
		Max:       roundTo(floats.Max(numbers), 2),
		Count:     len(numbers),
		Quantiles: quantiles,
		IQR:       roundTo(iqr, 2),
		Outliers:  findOutliers(numbers, quantiles[0.25], quantiles[0.75], iqr),
	}
}

// FormatStats renders the summary as a chat message.
func FormatStats(stats *NumberStats) string {
	if stats == nil {
		return "❌ No numbers found in the message"
	}

	outlierStr := ""
	if len(stats.Outliers) > 0 {
		outlierStr = fmt.Sprintf("\nOutliers: %.2f", stats.Outliers)
	}

	return fmt.Sprintf(`📊 Number statistics:

Count: %d
Mean: %.2f
Median: %.2f
Min: %.2f
Max: %.2f

Tail quantiles:
1st percentile: %.2f
2.5th percentile: %.2f
97.5th percentile: %.2f
99th percentile: %.2f

Main quantiles:
10th percentile: %.2f
25th percentile (Q1): %.2f
75th percentile (Q3): %.2f
90th percentile: %.2f

Interquartile range (IQR): %.2f%s`,
		stats.Count,
		stats.Average,
		stats.Median,
		stats.Min,
		stats.Max,
		stats.Quantiles[0.01],
		stats.Quantiles[0.025],
		stats.Quantiles[0.975],
		stats.Quantiles[0.99],
		stats.Quantiles[0.1],
		stats.Quantiles[0.25],
		stats.Quantiles[0.75],
		stats.Quantiles[0.9],
		stats.IQR,
		outlierStr)
}
