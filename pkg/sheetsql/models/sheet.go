package models

// SheetTable is one sheet's content as a table.
type SheetTable struct {
	// Name is the sheet name, unique within a load.
	Name string `json:"name"`
	// Columns holds the header names in sheet order.
	Columns []string `json:"columns"`
	// Rows holds typed cell values; every row has len(Columns) entries.
	Rows [][]interface{} `json:"rows,omitempty"`
}

// ColumnKind returns the common kind of a column's non-null values.
// Integer and real values widen to real; any other mix is text.
// A column with no values is reported as text.
func (t *SheetTable) ColumnKind(col int) CellKind {
	kind := KindNull
	for _, row := range t.Rows {
		k := KindOf(row[col])
		switch {
		case k == KindNull || k == kind:
		case kind == KindNull:
			kind = k
		case (kind == KindInteger && k == KindReal) || (kind == KindReal && k == KindInteger):
			kind = KindReal
		default:
			return KindText
		}
	}
	if kind == KindNull {
		return KindText
	}
	return kind
}
