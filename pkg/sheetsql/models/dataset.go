package models

// Dataset maps sheet names to tables, keeping the source sheet order.
// A Dataset is built completely before it is handed out and is never
// mutated afterwards.
type Dataset struct {
	// Workbook identifies the file the dataset was read from.
	Workbook Workbook `json:"workbook"`

	order  []string
	tables map[string]*SheetTable
}

// NewDataset creates an empty dataset for the given workbook.
func NewDataset(wb Workbook) *Dataset {
	return &Dataset{
		Workbook: wb,
		tables:   make(map[string]*SheetTable),
	}
}

// Add appends a table. A table with an already known name replaces the
// previous one and keeps its position.
func (d *Dataset) Add(t *SheetTable) {
	if _, ok := d.tables[t.Name]; !ok {
		d.order = append(d.order, t.Name)
	}
	d.tables[t.Name] = t
}

// SheetNames returns the sheet names in insertion order.
func (d *Dataset) SheetNames() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Table returns the table for a sheet.
func (d *Dataset) Table(name string) (*SheetTable, bool) {
	if d == nil {
		return nil, false
	}
	t, ok := d.tables[name]
	return t, ok
}

// Tables returns the tables in insertion order.
func (d *Dataset) Tables() []*SheetTable {
	if d == nil {
		return nil
	}
	out := make([]*SheetTable, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tables[name])
	}
	return out
}

// Columns returns the column names of a sheet, or nil when the sheet is unknown.
func (d *Dataset) Columns(sheet string) []string {
	t, ok := d.Table(sheet)
	if !ok {
		return nil
	}
	out := make([]string, len(t.Columns))
	copy(out, t.Columns)
	return out
}

// Len returns the number of sheets.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}
