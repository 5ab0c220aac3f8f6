// Package models defines data structures shared by the load, query and export stages.
package models

// Workbook is a read-only handle to a loaded spreadsheet file.
type Workbook struct {
	// Path is the file the workbook was opened from.
	Path string `json:"path"`
	// SheetNames lists the sheets in file order.
	SheetNames []string `json:"sheet_names"`
}
