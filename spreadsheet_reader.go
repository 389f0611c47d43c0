package main

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/pivolan/analysis_server/domain/models"
)

// parseXLSX reads the first sheet of an xlsx workbook as raw cell values.
// Date-styled serials become ISO timestamps.
func parseXLSX(raw []byte) (*models.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseFailure("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseFailure("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, parseFailure("failed to read sheet %q: %v", sheets[0], err)
	}
	if err := resolveDateCells(f, sheets[0], rows); err != nil {
		return nil, parseFailure("failed to read sheet %q: %v", sheets[0], err)
	}
	return tableFromRecords(widenHeader(rows))
}

// resolveDateCells rewrites numeric data cells whose number format is a date into
// "2006-01-02" or "2006-01-02 15:04:05" text.
func resolveDateCells(f *excelize.File, sheet string, rows [][]string) error {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return err
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	dateStyles := make(map[int]bool)
	for i := 1; i < len(rows); i++ {
		for j, value := range rows[i] {
			serial, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			styleID, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return err
			}
			isDate, ok := dateStyles[styleID]
			if !ok {
				isDate = isDateStyle(f, styleID)
				dateStyles[styleID] = isDate
			}
			if !isDate {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			if serial == float64(int64(serial)) {
				rows[i][j] = t.Format("2006-01-02")
			} else {
				rows[i][j] = t.Format("2006-01-02 15:04:05")
			}
		}
	}
	return nil
}

// dateNumFmts are the built-in number formats that show a calendar date.
// Pure clock formats (18-21, 45-47) stay numeric.
var dateNumFmts = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// numFmtLiterals matches quoted text, bracketed sections and escaped characters in a format code.
var numFmtLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.|_.|\*.`)

func isDateStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if dateNumFmts[style.NumFmt] {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	code := strings.ToLower(numFmtLiterals.ReplaceAllString(*style.CustomNumFmt, ""))
	return strings.ContainsAny(code, "yd")
}

// parseXLS reads the first sheet of a legacy BIFF workbook.
func parseXLS(raw []byte) (*models.Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(raw), "utf-8")
	if err != nil {
		return nil, parseFailure("failed to open workbook: %v", err)
	}
	if wb.NumSheets() == 0 {
		return nil, parseFailure("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, parseFailure("cannot read first sheet")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, parseFailure("sheet %q is empty", sheet.Name)
	}
	return tableFromRecords(widenHeader(rows))
}

// widenHeader pads the header row to the widest row; spreadsheet readers trim trailing empty cells.
func widenHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(rows[0]) < width {
		rows[0] = append(rows[0], "")
	}
	return rows
}
