package models

// ResultTable is the output of a query.
type ResultTable struct {
	// Columns holds the selected column names in query order.
	Columns []string `json:"columns"`
	// Rows holds the result values in query order.
	Rows [][]interface{} `json:"rows"`
}

// CellRange is an inclusive rectangle of cells in 1-based coordinates.
type CellRange struct {
	// R1 is the start row.
	R1 int `json:"r1"`
	// C1 is the start column.
	C1 int `json:"c1"`
	// R2 is the end row (inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (inclusive).
	C2 int `json:"c2"`
}
