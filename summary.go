package main

import (
	"fmt"
	"strings"

	"github.com/pivolan/analysis_server/domain/models"
)

type summaryInput struct {
	Rows         int
	Columns      int
	Numeric      []string
	Categorical  []string
	MissingTotal int
}

func summaryInputFor(table *models.Table) summaryInput {
	return summaryInput{
		Rows:         table.RowCount(),
		Columns:      len(table.Columns),
		Numeric:      columnNames(table.ColumnsOfKind(models.ColumnNumeric)),
		Categorical:  columnNames(table.ColumnsOfKind(models.ColumnCategorical)),
		MissingTotal: table.MissingTotal(),
	}
}

func columnNames(cols []*models.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// generateSummary writes the one-paragraph description shown above the charts.
func generateSummary(in summaryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The dataset has %d rows and %d columns. ", in.Rows, in.Columns)
	fmt.Fprintf(&b, "It contains %d numeric and %d categorical columns.", len(in.Numeric), len(in.Categorical))

	if len(in.Numeric) > 0 {
		key := in.Numeric
		if len(key) > 3 {
			key = key[:3]
		}
		fmt.Fprintf(&b, " Key numeric columns: %s.", strings.Join(key, ", "))
	}
	if in.MissingTotal > 0 {
		fmt.Fprintf(&b, " There are %d missing values in total.", in.MissingTotal)
	}
	return b.String()
}
