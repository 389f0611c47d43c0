// csv_header_analyzer.go
package main

import (
	"fmt"
	"strings"
)

// AnalyzeHeaders turns the raw first row of a sheet into usable, unique column names.
func AnalyzeHeaders(firstRow []string) []string {
	headers := make([]string, len(firstRow))
	for i, h := range firstRow {
		headers[i] = cleanHeaderName(h, i)
	}
	return ValidateHeaders(headers)
}

// generateColumnName names a column that has no header
func generateColumnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}

func cleanHeaderName(header string, index int) string {
	header = strings.TrimSpace(strings.TrimPrefix(header, "\uFEFF"))
	if header == "" {
		return generateColumnName(index)
	}
	return header
}

// ValidateHeaders suffixes repeated names with .1, .2, ... keeping the first one intact.
func ValidateHeaders(headers []string) []string {
	seen := make(map[string]bool, len(headers))
	result := make([]string, len(headers))

	for i, header := range headers {
		candidate := header
		counter := 1
		for seen[candidate] {
			candidate = fmt.Sprintf("%s.%d", header, counter)
			counter++
		}
		seen[candidate] = true
		result[i] = candidate
	}

	return result
}
