package main

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pivolan/analysis_server/domain/models"
)

// analyzeStatistics returns one profile per column in table order.
func analyzeStatistics(table *models.Table) []models.ColumnProfile {
	profiles := make([]models.ColumnProfile, 0, len(table.Columns))
	for _, col := range table.Columns {
		profiles = append(profiles, profileColumn(col))
	}
	return profiles
}

func profileColumn(col *models.Column) models.ColumnProfile {
	p := models.ColumnProfile{
		ColumnName: col.Name,
		DataType:   col.DataType(),
		Kind:       col.Kind,
		Count:      col.NonMissingCount(),
		Missing:    col.MissingCount(),
	}

	switch col.Kind {
	case models.ColumnNumeric:
		values := col.PresentNumbers()
		p.Unique = countUniqFloats(values)
		if len(values) == 0 {
			break
		}
		p.Mean = roundedPtr(stat.Mean(values, nil))
		if len(values) > 1 {
			p.Std = roundedPtr(stat.StdDev(values, nil))
		}
		p.Min = roundedPtr(floats.Min(values))
		p.Max = roundedPtr(floats.Max(values))
	case models.ColumnCategorical:
		top, uniq := mostFrequent(col)
		p.Unique = uniq
		p.Top = top
	case models.ColumnTemporal:
		seen := make(map[int64]struct{})
		for i, t := range col.Times {
			if !col.Missing[i] {
				seen[t.UnixNano()] = struct{}{}
			}
		}
		p.Unique = len(seen)
	}
	return p
}

func countUniqFloats(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// mostFrequent returns the most common value and the number of distinct values.
func mostFrequent(col *models.Column) (*string, int) {
	counts := col.ValueCounts()
	if len(counts) == 0 {
		return nil, 0
	}
	top := counts[0].Value
	return &top, len(counts)
}

func roundTo(num float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(num*p) / p
}

func roundedPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := roundTo(v, 4)
	return &r
}
