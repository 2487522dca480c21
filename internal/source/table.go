// Package source loads tabular data for the datagrid hosts. Every loader
// produces a Table: ordered column names plus one Record per row, with
// cell values already converted to Go scalars the grid can compare.
package source

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/mattn/go-runewidth"
)

var (
	ErrUnknownFormat  = errors.New("unknown input format")
	ErrUnknownCharset = errors.New("unknown charset")
	ErrDuplicateKey   = errors.New("duplicate row key")
	ErrNoColumns      = errors.New("input has no columns")
	ErrConnect        = errors.New("cannot connect to database")
)

// Record is one row of a Table, aligned with Table.Columns. Short records
// read as nil past their end.
type Record []any

// Get returns the value at column i, or nil.
func (r Record) Get(i int) any {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Table is a loaded data set.
type Table struct {
	Name    string
	Columns []string
	Records []Record
}

// ColumnIndex returns the position of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnOptions shape the grid columns built from a Table.
type ColumnOptions struct {
	Width    float64 // fixed width for every column, 0 = grid default
	MinWidth float64
	MaxWidth float64

	// Fit sizes each column to the display width of its widest value
	// (header included), bounded by MinWidth/MaxWidth. It overrides Width.
	Fit bool
}

// GridColumns builds one grid column per table column. Boolean columns
// get a select filter; everything else filters as free text.
func (t *Table) GridColumns(opts ColumnOptions) []grid.Column[Record] {
	cols := make([]grid.Column[Record], len(t.Columns))
	for i, name := range t.Columns {
		c := grid.Column[Record]{
			ID:       name,
			Header:   name,
			Accessor: func(r Record) any { return r.Get(i) },
			Width:    opts.Width,
			MinWidth: opts.MinWidth,
			MaxWidth: opts.MaxWidth,
		}
		if opts.Fit {
			c.Width = float64(t.displayWidth(i))
		}
		if t.isBoolColumn(i) {
			c.Filter = grid.FilterSelect
		}
		cols[i] = c
	}
	return cols
}

func (t *Table) displayWidth(i int) int {
	w := runewidth.StringWidth(t.Columns[i])
	for _, r := range t.Records {
		if cw := runewidth.StringWidth(grid.FormatValue(r.Get(i))); cw > w {
			w = cw
		}
	}
	return w
}

func (t *Table) isBoolColumn(i int) bool {
	seen := false
	for _, r := range t.Records {
		switch r.Get(i).(type) {
		case nil:
		case bool:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// GridRows wraps the records for the grid. With an empty key, row ids are
// the record positions; otherwise the formatted value of the key column,
// which must be unique.
func (t *Table) GridRows(key string) ([]grid.Row[Record], error) {
	if key == "" {
		return grid.Rows(t.Records), nil
	}
	ki := t.ColumnIndex(key)
	if ki < 0 {
		return nil, fmt.Errorf("key column: %w: %q", grid.ErrUnknownColumn, key)
	}

	seen := make(map[string]int, len(t.Records))
	rows := make([]grid.Row[Record], len(t.Records))
	for i, r := range t.Records {
		id := grid.FormatValue(r.Get(ki))
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w %q in rows %d and %d", ErrDuplicateKey, id, prev+1, i+1)
		}
		seen[id] = i
		rows[i] = grid.Row[Record]{Index: i, ID: id, Data: r}
	}
	return rows, nil
}

// uniqueColumns renames empty and repeated column names so every grid
// column id is distinct: "" becomes "column_3", a second "a" becomes "a_2".
func uniqueColumns(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, n := range names {
		if n == "" {
			n = "column_" + strconv.Itoa(i+1)
		}
		base := n
		for seen[n] > 0 {
			seen[base]++
			n = base + "_" + strconv.Itoa(seen[base])
		}
		seen[n]++
		out[i] = n
	}
	return out
}
