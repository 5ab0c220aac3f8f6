// Package export writes query results to a formatted workbook.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/parser"
	"github.com/xuri/excelize/v2"
)

// Defaults for the result workbook layout.
const (
	DefaultSheetName  = "SQLResults"
	DefaultTableName  = "SQLTable"
	DefaultTableStyle = "TableStyleMedium2"
	DefaultPadding    = 2
)

var (
	// ErrNoColumns indicates a result without columns.
	ErrNoColumns = errors.New("result has no columns")

	// ErrTooManyRows indicates the result does not fit in one sheet.
	ErrTooManyRows = fmt.Errorf("result exceeds %d rows including the header", excelize.TotalRows)

	// ErrTooManyColumns indicates the result is wider than a sheet.
	ErrTooManyColumns = fmt.Errorf("result exceeds %d columns", excelize.MaxColumns)

	// ErrCellTooLong indicates a text value longer than a cell can hold.
	ErrCellTooLong = fmt.Errorf("cell text exceeds %d characters", excelize.TotalCellChars)
)

// Exporter writes a ResultTable as a styled table with sized columns.
type Exporter struct {
	SheetName  string
	TableName  string
	TableStyle string
	// Padding is added to the longest rendered value of each column.
	Padding int
	Logger  *slog.Logger
}

// New returns an Exporter with the default layout.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{
		SheetName:  DefaultSheetName,
		TableName:  DefaultTableName,
		TableStyle: DefaultTableStyle,
		Padding:    DefaultPadding,
		Logger:     logger,
	}
}

// Export writes res to path.
//
// The data and the table object are saved first. The width pass then checks
// token before each column; on cancellation it returns sheetsql.ErrCancelled
// and the file stays as saved. Every other failure is an *sheetsql.ExportError.
func (e *Exporter) Export(ctx context.Context, res *models.ResultTable, path string, token *sheetsql.CancelToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(res); err != nil {
		return sheetsql.NewExportError(path, err)
	}

	logger := e.logger()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := e.sheetName()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return sheetsql.NewExportError(path, err)
	}

	if err := writeRows(f, sheet, res); err != nil {
		return sheetsql.NewExportError(path, err)
	}

	ref, err := TableRange(len(res.Columns), len(res.Rows))
	if err != nil {
		return sheetsql.NewExportError(path, err)
	}
	stripes := true
	if err := f.AddTable(sheet, &excelize.Table{
		Range:          ref,
		Name:           e.tableName(),
		StyleName:      e.tableStyle(),
		ShowRowStripes: &stripes,
	}); err != nil {
		return sheetsql.NewExportError(path, fmt.Errorf("add table %s: %w", ref, err))
	}

	if err := f.SaveAs(path); err != nil {
		return sheetsql.NewExportError(path, err)
	}
	logger.Debug("result written", "path", path, "table", ref, "rows", len(res.Rows))

	for i, width := range ColumnWidths(res, e.Padding) {
		if err := token.Check(); err != nil {
			logger.Debug("width pass cancelled", "column", i+1)
			return err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return sheetsql.NewExportError(path, err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return sheetsql.NewExportError(path, err)
		}
	}

	if err := f.Save(); err != nil {
		return sheetsql.NewExportError(path, err)
	}
	logger.Debug("column widths applied", "columns", len(res.Columns))
	return nil
}

// TableRange returns the reference of a table with a header row and rows
// data rows, e.g. "A1:AD11". A table needs at least one body row, so an
// empty result still spans two rows.
func TableRange(columns, rows int) (string, error) {
	last := rows + 1
	if last < 2 {
		last = 2
	}
	return parser.FormatRange(models.CellRange{R1: 1, C1: 1, R2: last, C2: columns})
}

// ColumnWidths returns, per column, the longest rendered header or value in
// runes plus padding, capped at the widest column a sheet allows.
func ColumnWidths(res *models.ResultTable, padding int) []float64 {
	headers := parser.NormalizeHeaders(res.Columns)
	widths := make([]float64, len(headers))
	for i, h := range headers {
		longest := utf8.RuneCountInString(h)
		for _, row := range res.Rows {
			if i >= len(row) {
				continue
			}
			text, ok := render(row[i])
			if !ok {
				continue
			}
			if n := utf8.RuneCountInString(text); n > longest {
				longest = n
			}
		}
		w := float64(longest + padding)
		if w > excelize.MaxColumnWidth {
			w = excelize.MaxColumnWidth
		}
		widths[i] = w
	}
	return widths
}

func writeRows(f *excelize.File, sheet string, res *models.ResultTable) error {
	headers := parser.NormalizeHeaders(res.Columns)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r, row := range res.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}
	return nil
}

func validate(res *models.ResultTable) error {
	if res == nil || len(res.Columns) == 0 {
		return ErrNoColumns
	}
	if len(res.Rows)+1 > excelize.TotalRows {
		return ErrTooManyRows
	}
	if len(res.Columns) > excelize.MaxColumns {
		return ErrTooManyColumns
	}
	for _, col := range res.Columns {
		if utf8.RuneCountInString(col) > excelize.TotalCellChars {
			return ErrCellTooLong
		}
	}
	for _, row := range res.Rows {
		for _, v := range row {
			if s, ok := v.(string); ok && utf8.RuneCountInString(s) > excelize.TotalCellChars {
				return ErrCellTooLong
			}
		}
	}
	return nil
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (e *Exporter) sheetName() string {
	if e.SheetName != "" {
		return e.SheetName
	}
	return DefaultSheetName
}

func (e *Exporter) tableName() string {
	if e.TableName != "" {
		return e.TableName
	}
	return DefaultTableName
}

func (e *Exporter) tableStyle() string {
	if e.TableStyle != "" {
		return e.TableStyle
	}
	return DefaultTableStyle
}
