package main

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pivolan/analysis_server/domain/models"
)

// rawColumn is what the readers hand over before kinds are known.
// Values are nil, string, jsonText, json.Number, float64, bool or time.Time.
// Plain strings come from text files and spreadsheets and are sniffed for missing markers, numbers and dates.
type rawColumn struct {
	name   string
	values []interface{}
}

const (
	typeNone     = ""
	typeDateTime = "DateTime"
	typeInt      = "Int64"
	typeFloat    = "Float64"
	typeString   = "String"
)

var typesWeight = []string{typeNone, typeDateTime, typeInt, typeFloat, typeString}

// nullValues are the text markers read as missing, the same set pandas uses by default.
var nullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan", "1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

var dateLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/06",
	"02.01.2006",
}

func SearchStrings(a []string, x string) int {
	for i, s := range a {
		if s == x {
			return i
		}
	}
	return -1
}

func isNullValue(s string) bool {
	return SearchStrings(nullValues, strings.TrimSpace(s)) >= 0
}

func tryParseDateTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func detectNumberType(s string) string {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return typeInt
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return typeFloat
	}
	return typeNone
}

// detectValueType classifies a single cell; typeNone means the cell is missing.
func detectValueType(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return typeNone
	case float64:
		if math.IsNaN(val) {
			return typeNone
		}
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return typeInt
		}
		return typeFloat
	case json.Number:
		if t := detectNumberType(val.String()); t != typeNone {
			return t
		}
		return typeString
	case bool, jsonText:
		return typeString
	case time.Time:
		return typeDateTime
	case string:
		if isNullValue(val) {
			return typeNone
		}
		if t := detectNumberType(val); t != typeNone {
			return t
		}
		if _, ok := tryParseDateTime(val); ok {
			return typeDateTime
		}
		return typeString
	}
	return typeString
}

// inferColumnType picks the heaviest type seen. Timestamps mixed with numbers fall back to String.
func inferColumnType(values []interface{}) (colType string, hasMissing bool) {
	colType = typeNone
	for _, v := range values {
		t := detectValueType(v)
		if t == typeNone {
			hasMissing = true
			continue
		}
		if colType != typeNone && colType != typeString && (t == typeDateTime) != (colType == typeDateTime) {
			colType = typeString
			continue
		}
		if SearchStrings(typesWeight, t) > SearchStrings(typesWeight, colType) {
			colType = t
		}
	}
	return colType, hasMissing
}

// buildColumn converts raw values into a typed column.
func buildColumn(raw rawColumn) *models.Column {
	colType, hasMissing := inferColumnType(raw.values)
	n := len(raw.values)
	col := &models.Column{Name: raw.name, Missing: make([]bool, n)}

	switch colType {
	case typeNone, typeInt, typeFloat:
		col.Kind = models.ColumnNumeric
		col.Integer = colType == typeInt && !hasMissing
		col.Numbers = make([]float64, n)
		for i, v := range raw.values {
			x, ok := toFloat(v)
			if !ok {
				col.Missing[i] = true
				x = math.NaN()
			}
			col.Numbers[i] = x
		}
	case typeDateTime:
		col.Kind = models.ColumnTemporal
		col.Times = make([]time.Time, n)
		for i, v := range raw.values {
			t, ok := toTime(v)
			col.Missing[i] = !ok
			col.Times[i] = t
		}
	default:
		col.Kind = models.ColumnCategorical
		col.Texts = make([]string, n)
		for i, v := range raw.values {
			if detectValueType(v) == typeNone {
				col.Missing[i] = true
				continue
			}
			col.Texts[i] = formatCell(v)
		}
	}
	return col
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val)
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		return f, err == nil
	case string:
		if isNullValue(val) {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		if isNullValue(val) {
			return time.Time{}, false
		}
		return tryParseDateTime(val)
	}
	return time.Time{}, false
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case jsonText:
		return string(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func buildTable(raws []rawColumn) *models.Table {
	table := &models.Table{Columns: make([]*models.Column, 0, len(raws))}
	for _, raw := range raws {
		table.Columns = append(table.Columns, buildColumn(raw))
	}
	return table
}
