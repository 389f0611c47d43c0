package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pivolan/analysis_server/domain/models"
)

var profileHeader = table.Row{"Column", "Type", "Kind", "Count", "Unique", "Missing", "Mean", "Std", "Min", "Max", "Top"}

func profileWriter(profiles []models.ColumnProfile) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(profileHeader)
	for _, p := range profiles {
		t.AppendRow(table.Row{
			p.ColumnName, p.DataType, p.Kind, p.Count, p.Unique, p.Missing,
			formatOptional(p.Mean), formatOptional(p.Std), formatOptional(p.Min), formatOptional(p.Max),
			formatTop(p.Top),
		})
	}
	t.SetStyle(table.StyleDefault)
	return t
}

// GenerateTable renders the column profiles as a plain-text table.
func GenerateTable(profiles []models.ColumnProfile) string {
	return profileWriter(profiles).Render()
}

func GenerateTableMarkdown(profiles []models.ColumnProfile) string {
	return profileWriter(profiles).RenderMarkdown()
}

func chartWriter(charts []models.ChartArtifact) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Chart", "Title", "URL"})
	for _, c := range charts {
		t.AppendRow(table.Row{c.ChartType, c.Title, c.URL})
	}
	return t
}

func GenerateChartsTable(charts []models.ChartArtifact, markdown bool) string {
	if markdown {
		return chartWriter(charts).RenderMarkdown()
	}
	return chartWriter(charts).Render()
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTop(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}
