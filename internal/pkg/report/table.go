// Package report builds the unshipped orders report: marketplace orders are
// split by vendor, de-duplicated against the master sheets, checked for new
// SKUs and written to a multi-sheet workbook.
package report

import (
	"strings"
)

// Table is a rectangular sheet of string cells with normalized column names.
type Table struct {
	Columns []string
	Rows    [][]string
}

func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// NormalizeHeader trims, lower-cases and replaces spaces with underscores.
func NormalizeHeader(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// FromRecords builds a table from a header record followed by data records.
// Short rows are padded and headers are normalized.
func FromRecords(records [][]string) *Table {
	if len(records) == 0 {
		return NewTable(nil)
	}

	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		columns[i] = NormalizeHeader(h)
	}

	t := NewTable(columns)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, pad(rec, len(columns)))
	}

	return t
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}

func pad(rec []string, n int) []string {
	row := make([]string, n)
	copy(row, rec)

	return row
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}

	return -1
}

func (t *Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Get returns the cell of row under col, or "" when the column is absent.
func (t *Table) Get(row []string, col string) string {
	i := t.Index(col)
	if i < 0 || i >= len(row) {
		return ""
	}

	return row[i]
}

// Set returns the non-empty values of col as a set.
func (t *Table) Set(col string) map[string]struct{} {
	set := make(map[string]struct{})
	i := t.Index(col)
	if i < 0 {
		return set
	}

	for _, row := range t.Rows {
		if v := row[i]; v != "" {
			set[v] = struct{}{}
		}
	}

	return set
}

// Filter returns a table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := NewTable(t.Columns)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}

	return out
}

// WithColumn returns a copy of t with col set to value(row) on every row,
// appending the column when it does not exist yet.
func (t *Table) WithColumn(col string, value func(row []string) string) *Table {
	idx := t.Index(col)
	out := NewTable(t.Columns)
	if idx < 0 {
		out.Columns = append(out.Columns, col)
		idx = len(out.Columns) - 1
	}

	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := pad(row, len(out.Columns))
		r[idx] = value(row)
		out.Rows[i] = r
	}

	return out
}

// Drop returns a copy of t without the named columns; unknown names are ignored.
func (t *Table) Drop(cols ...string) *Table {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}

	var keep []int
	out := NewTable(nil)
	for i, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, i)
			out.Columns = append(out.Columns, c)
		}
	}

	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(keep))
		for j, k := range keep {
			r[j] = row[k]
		}
		out.Rows[i] = r
	}

	return out
}

// Append adds the rows of other, aligning columns by name. Columns only
// present in other are added to t.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}

	mapping := make([]int, len(other.Columns))
	for i, c := range other.Columns {
		idx := t.Index(c)
		if idx < 0 {
			t.Columns = append(t.Columns, c)
			idx = len(t.Columns) - 1
		}
		mapping[i] = idx
	}

	for i, row := range t.Rows {
		t.Rows[i] = pad(row, len(t.Columns))
	}

	for _, row := range other.Rows {
		r := make([]string, len(t.Columns))
		for i, v := range row {
			if i < len(mapping) {
				r[mapping[i]] = v
			}
		}
		t.Rows = append(t.Rows, r)
	}
}

// Unique counts the distinct non-empty values of col.
func (t *Table) Unique(col string) int {
	return len(t.Set(col))
}
