package dataset

// Row is one record of an export, fields addressed by position
type Row []string

// Table is a header row plus ordered data rows. Operations return new tables
// and never modify the receiver.
type Table struct {
	Name   string
	Header Row
	Rows   []Row
}

// Len returns the number of data rows
func (t Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of header columns
func (t Table) Width() int {
	return len(t.Header)
}

// WithRows returns a table sharing the name and header of t
func (t Table) WithRows(rows []Row) Table {
	return Table{Name: t.Name, Header: t.Header, Rows: rows}
}

// Filter keeps the rows for which keep returns true
func (t Table) Filter(keep func(Row) bool) Table {
	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows)
}

// FilterErr is Filter for predicates that can fail. The first error stops the scan.
func (t Table) FilterErr(keep func(Row) (bool, error)) (Table, error) {
	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		ok, err := keep(row)
		if err != nil {
			return Table{}, err
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows), nil
}

// Slice returns data rows in [start, end), clamped to the table bounds
func (t Table) Slice(start, end int) []Row {
	if start < 0 {
		start = 0
	}
	if end > len(t.Rows) {
		end = len(t.Rows)
	}
	if start >= end {
		return nil
	}
	return t.Rows[start:end]
}

// Repair drops every data row whose field count differs from the header and
// reports how many were dropped.
func Repair(t Table) (Table, int) {
	width := t.Width()
	repaired := t.Filter(func(r Row) bool { return len(r) == width })
	return repaired, t.Len() - repaired.Len()
}
