package grid

import (
	"maps"
	"strings"
)

// StyleMap is a set of presentation properties, e.g. {"background": "blue"}.
// Keys and values are opaque to the engine.
type StyleMap map[string]string

// StyleProvider supplies per-element style and classes. Methods are
// called once per element per recomputation and must be pure.
type StyleProvider[T any] interface {
	RowStyle(row Row[T]) StyleMap
	CellStyle(row Row[T], col Column[T]) StyleMap
	HeaderStyle(col Column[T]) StyleMap
	RowClass(row Row[T]) string
	CellClass(row Row[T], col Column[T]) string
	HeaderClass(col Column[T]) string
}

// NoStyle contributes nothing.
type NoStyle[T any] struct{}

func (NoStyle[T]) RowStyle(Row[T]) StyleMap { return nil }
func (NoStyle[T]) CellStyle(Row[T], Column[T]) StyleMap { return nil }
func (NoStyle[T]) HeaderStyle(Column[T]) StyleMap { return nil }
func (NoStyle[T]) RowClass(Row[T]) string { return "" }
func (NoStyle[T]) CellClass(Row[T], Column[T]) string { return "" }
func (NoStyle[T]) HeaderClass(Column[T]) string { return "" }

// StyleFuncs adapts optional functions to StyleProvider. A nil function
// contributes nothing.
type StyleFuncs[T any] struct {
	Row           func(Row[T]) StyleMap
	Cell          func(Row[T], Column[T]) StyleMap
	Header        func(Column[T]) StyleMap
	RowClasses    func(Row[T]) string
	CellClasses   func(Row[T], Column[T]) string
	HeaderClasses func(Column[T]) string
}

func (f StyleFuncs[T]) RowStyle(r Row[T]) StyleMap {
	if f.Row == nil {
		return nil
	}
	return f.Row(r)
}

func (f StyleFuncs[T]) CellStyle(r Row[T], c Column[T]) StyleMap {
	if f.Cell == nil {
		return nil
	}
	return f.Cell(r, c)
}

func (f StyleFuncs[T]) HeaderStyle(c Column[T]) StyleMap {
	if f.Header == nil {
		return nil
	}
	return f.Header(c)
}

func (f StyleFuncs[T]) RowClass(r Row[T]) string {
	if f.RowClasses == nil {
		return ""
	}
	return f.RowClasses(r)
}

func (f StyleFuncs[T]) CellClass(r Row[T], c Column[T]) string {
	if f.CellClasses == nil {
		return ""
	}
	return f.CellClasses(r, c)
}

func (f StyleFuncs[T]) HeaderClass(c Column[T]) string {
	if f.HeaderClasses == nil {
		return ""
	}
	return f.HeaderClasses(c)
}

// Resolved is the style contribution for one render target.
type Resolved struct {
	Style   StyleMap `json:"style,omitempty"`
	Classes []string `json:"classes,omitempty"`
}

func resolved(style StyleMap, class string) Resolved {
	var r Resolved
	if fields := strings.Fields(class); len(fields) > 0 {
		r.Classes = fields
	}
	if len(style) > 0 {
		r.Style = maps.Clone(style)
	}
	return r
}

// styleResolver wraps a provider, treating nil as NoStyle.
type styleResolver[T any] struct {
	p StyleProvider[T]
}

func newStyleResolver[T any](p StyleProvider[T]) styleResolver[T] {
	if p == nil {
		p = NoStyle[T]{}
	}
	return styleResolver[T]{p: p}
}

func (s styleResolver[T]) header(c Column[T]) Resolved {
	return resolved(s.p.HeaderStyle(c), s.p.HeaderClass(c))
}

func (s styleResolver[T]) row(r Row[T]) Resolved {
	return resolved(s.p.RowStyle(r), s.p.RowClass(r))
}

func (s styleResolver[T]) cell(r Row[T], c Column[T]) Resolved {
	return resolved(s.p.CellStyle(r, c), s.p.CellClass(r, c))
}
