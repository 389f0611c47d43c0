package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pivolan/analysis_server/domain/models"
)

func sampleProfiles() []models.ColumnProfile {
	mean, min, max := 15.0, 10.0, 20.0
	top := "A"
	return []models.ColumnProfile{
		{ColumnName: "age", DataType: "float64", Kind: models.ColumnNumeric, Count: 2, Unique: 2, Missing: 1, Mean: &mean, Min: &min, Max: &max},
		{ColumnName: "city", DataType: "object", Kind: models.ColumnCategorical, Count: 3, Unique: 2, Top: &top},
	}
}

func TestGenerateTable(t *testing.T) {
	out := GenerateTable(sampleProfiles())

	lines := strings.Split(out, "\n")
	assert.Contains(t, strings.ToUpper(out), "COLUMN")
	assert.Contains(t, out, "age")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, "city")
	// header, two rows and four border lines
	assert.Len(t, lines, 6)
}

func TestGenerateTableMarkdown(t *testing.T) {
	out := GenerateTableMarkdown(sampleProfiles())

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "| "))
	assert.Regexp(t, `^\| age +\| float64 +\| numeric +\|`, lines[2])
	assert.Regexp(t, `^\| city +\| object +\| categorical +\|.*\| A +\|$`, lines[3])
}

func TestGenerateChartsTable(t *testing.T) {
	charts := []models.ChartArtifact{{ChartType: models.ChartBar, Title: "age distribution", URL: "/api/analysis/chart/x/bar"}}

	md := GenerateChartsTable(charts, true)
	assert.Regexp(t, `\| bar +\| age distribution +\| /api/analysis/chart/x/bar +\|`, md)
	assert.Contains(t, GenerateChartsTable(charts, false), "age distribution")
}

func TestFormatOptional(t *testing.T) {
	v := 7.0711
	assert.Equal(t, "7.0711", formatOptional(&v))
	assert.Equal(t, "-", formatOptional(nil))
	assert.Equal(t, "-", formatTop(nil))
}
