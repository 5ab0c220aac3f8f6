// Package parser reads typed sheet data and cell references with excelize.
package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
	"github.com/xuri/excelize/v2"
)

// ReadTable reads a sheet into a SheetTable.
// The first non-empty row of the sheet's data region is the header; every
// following row becomes a data row padded with nil to the header width.
// A sheet without any value yields a table with no columns.
func ReadTable(f *excelize.File, sheetName string, styles *StyleCache) (*models.SheetTable, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	table := &models.SheetTable{Name: sheetName}
	region, ok := DataRegion(rows)
	if !ok {
		return table, nil
	}

	width := region.C2 - region.C1 + 1
	header := make([]string, width)
	headerRow := rows[region.R1-1]
	for c := 0; c < width; c++ {
		if idx := region.C1 - 1 + c; idx < len(headerRow) {
			header[c] = headerRow[idx]
		}
	}
	table.Columns = NormalizeHeaders(header)

	for r := region.R1 + 1; r <= region.R2; r++ {
		row := rows[r-1]
		values := make([]interface{}, width)
		for c := 0; c < width; c++ {
			idx := region.C1 - 1 + c
			if idx >= len(row) || row[idx] == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(idx+1, r)
			if err != nil {
				return nil, err
			}
			v, err := readValue(f, sheetName, cellName, row[idx], styles)
			if err != nil {
				return nil, err
			}
			values[c] = v
		}
		table.Rows = append(table.Rows, values)
	}

	return table, nil
}

// readValue converts a raw cell value into a typed value based on the
// cell type and, for numbers, the cell's number format.
func readValue(f *excelize.File, sheetName, cellName, raw string, styles *StyleCache) (interface{}, error) {
	typ, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw, nil
	case excelize.CellTypeDate:
		if t, ok := parseISOTime(raw); ok {
			return t, nil
		}
		return raw, nil
	}

	v := parseValue(raw)
	var serial float64
	switch n := v.(type) {
	case int64:
		serial = float64(n)
	case float64:
		serial = n
	default:
		return v, nil
	}

	if styles != nil && styles.IsDate(sheetName, cellName) {
		if t, err := excelize.ExcelDateToTime(serial, styles.Date1904()); err == nil {
			return t, nil
		}
	}
	return v, nil
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the input string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseISOTime parses the ISO 8601 forms used by inline date cells.
func parseISOTime(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
