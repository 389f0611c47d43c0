package main

import (
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"

	"github.com/pivolan/go_utils"

	"github.com/pivolan/analysis_server/domain/models"
)

const SEPARATOR = ','

var allowedExtensions = []string{".csv", ".json", ".xlsx", ".xls"}

func fileExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func checkExtension(ext string) error {
	if !go_utils.InArray(ext, allowedExtensions) {
		if ext == "" {
			ext = "(none)"
		}
		return newParseError(UnsupportedExtension, errors.New(ext))
	}
	return nil
}

// parseFile reads raw upload bytes into a table according to the extension.
func parseFile(raw []byte, ext string) (table *models.Table, err error) {
	if err := checkExtension(ext); err != nil {
		return nil, err
	}
	// spreadsheet readers panic on some malformed input
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, parseFailure("%v", r)
		}
	}()

	switch ext {
	case ".csv":
		return parseCSV(raw)
	case ".json":
		return parseJSON(raw)
	case ".xlsx":
		return parseXLSX(raw)
	default:
		return parseXLS(raw)
	}
}

func parseCSV(raw []byte) (*models.Table, error) {
	text, _, err := decodeText(raw)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = SEPARATOR
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, parseFailure("%v", err)
	}
	return tableFromRecords(records)
}

// tableFromRecords treats the first record as the header. Short rows are padded with missing values.
func tableFromRecords(records [][]string) (*models.Table, error) {
	if len(records) == 0 {
		return nil, parseFailure("no columns to parse from file")
	}
	headers := AnalyzeHeaders(records[0])
	raws := make([]rawColumn, len(headers))
	for i, h := range headers {
		raws[i] = rawColumn{name: h, values: make([]interface{}, 0, len(records)-1)}
	}
	for n, record := range records[1:] {
		if len(record) > len(headers) {
			return nil, parseFailure("expected %d fields in line %d, saw %d", len(headers), n+2, len(record))
		}
		for i := range raws {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			raws[i].values = append(raws[i].values, value)
		}
	}
	return buildTable(raws), nil
}
