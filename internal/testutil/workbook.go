package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet describes one sheet of a fixture workbook. Rows[0] is the header.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// WriteWorkbook saves the sheets, in order, to name inside t.TempDir()
// and returns the file path.
func WriteWorkbook(t testing.TB, name string, sheets ...Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("create sheet %q: %v", sheet.Name, err)
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				t.Fatalf("write row %d of %q: %v", r+1, sheet.Name, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}
