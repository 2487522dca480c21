package grid

import (
	"fmt"
	"maps"
)

const (
	// DefaultColumnWidth is used when a column does not set Width.
	DefaultColumnWidth = 150
	// DefaultMinColumnWidth is the resize floor when a column does not set MinWidth.
	DefaultMinColumnWidth = 20
)

// ColumnFlags control individual column behavior. The zero value is a
// visible, resizable, sortable, filterable column.
type ColumnFlags uint32

const (
	ColumnFlagsNone ColumnFlags = 0

	ColumnNoResize ColumnFlags = 1 << 0 // No resize handle
	ColumnNoSort   ColumnFlags = 1 << 1 // Header clicks do not sort
	ColumnNoFilter ColumnFlags = 1 << 2 // No filter control, filters ignored
	ColumnHidden   ColumnFlags = 1 << 3 // Initially hidden
)

// FilterKind selects how a column's filter value is evaluated.
type FilterKind int

const (
	FilterText   FilterKind = iota // case-insensitive substring
	FilterSelect                   // membership in a set of accepted values
)

func (k FilterKind) String() string {
	if k == FilterSelect {
		return "select"
	}
	return "text"
}

func (k FilterKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FilterKind) UnmarshalText(b []byte) error {
	if string(b) == "select" {
		*k = FilterSelect
	} else {
		*k = FilterText
	}
	return nil
}

// Column defines one column of the grid.
type Column[T any] struct {
	ID       string
	Header   string      // Display label (defaults to ID)
	Accessor func(T) any // nil yields nil for every row
	Width    float64     // Initial width (0 = DefaultColumnWidth)
	MinWidth float64     // Resize floor (0 = DefaultMinColumnWidth)
	MaxWidth float64     // Resize ceiling (0 = unlimited)
	Flags    ColumnFlags
	Filter   FilterKind
}

// Value returns the accessor result for data, or nil without an accessor.
func (c Column[T]) Value(data T) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(data)
}

// Label returns Header, falling back to ID.
func (c Column[T]) Label() string {
	if c.Header != "" {
		return c.Header
	}
	return c.ID
}

func (c Column[T]) Sortable() bool   { return c.Flags&ColumnNoSort == 0 }
func (c Column[T]) Filterable() bool { return c.Flags&ColumnNoFilter == 0 }
func (c Column[T]) Resizable() bool  { return c.Flags&ColumnNoResize == 0 }

func (c Column[T]) minWidth() float64 {
	if c.MinWidth > 0 {
		return c.MinWidth
	}
	return DefaultMinColumnWidth
}

// clampWidth applies MinWidth/MaxWidth to w.
func (c Column[T]) clampWidth(w float64) float64 {
	if m := c.minWidth(); w < m {
		w = m
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	return w
}

// WidthStore is the width surface the Resizer drives.
type WidthStore interface {
	Width(id string) float64
	SetWidth(id string, w float64) bool
}

// ColumnModel holds the ordered column definitions together with their
// mutable visibility and width. Mutations never change column identity
// or order.
type ColumnModel[T any] struct {
	cols    []Column[T]
	index   map[string]int
	visible map[string]bool
	widths  map[string]float64
}

// NewColumnModel validates cols and returns a model. Column ids must be
// non-empty and unique.
func NewColumnModel[T any](cols []Column[T]) (*ColumnModel[T], error) {
	m := &ColumnModel[T]{
		cols:    make([]Column[T], len(cols)),
		index:   make(map[string]int, len(cols)),
		visible: make(map[string]bool, len(cols)),
		widths:  make(map[string]float64, len(cols)),
	}
	copy(m.cols, cols)

	for i, c := range m.cols {
		if c.ID == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnID)
		}
		if _, dup := m.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.ID)
		}
		m.index[c.ID] = i
		m.visible[c.ID] = c.Flags&ColumnHidden == 0

		w := c.Width
		if w <= 0 {
			w = DefaultColumnWidth
		}
		m.widths[c.ID] = c.clampWidth(w)
	}

	return m, nil
}

// Len returns the number of columns, hidden ones included.
func (m *ColumnModel[T]) Len() int { return len(m.cols) }

// Columns returns every column in order, hidden ones included.
func (m *ColumnModel[T]) Columns() []Column[T] {
	out := make([]Column[T], len(m.cols))
	copy(out, m.cols)
	return out
}

// VisibleColumns returns the visible columns in order.
func (m *ColumnModel[T]) VisibleColumns() []Column[T] {
	out := make([]Column[T], 0, len(m.cols))
	for _, c := range m.cols {
		if m.visible[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// Column looks up a column by id.
func (m *ColumnModel[T]) Column(id string) (Column[T], bool) {
	i, ok := m.index[id]
	if !ok {
		return Column[T]{}, false
	}
	return m.cols[i], true
}

// Has reports whether id names a column.
func (m *ColumnModel[T]) Has(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Visible reports whether the column is visible. Unknown ids are not.
func (m *ColumnModel[T]) Visible(id string) bool {
	return m.visible[id]
}

// SetVisible changes a column's visibility and reports whether anything
// changed.
func (m *ColumnModel[T]) SetVisible(id string, visible bool) bool {
	if !m.Has(id) || m.visible[id] == visible {
		return false
	}
	m.visible[id] = visible
	return true
}

// Visibility returns the full id → visible mapping.
func (m *ColumnModel[T]) Visibility() map[string]bool {
	return maps.Clone(m.visible)
}

// Width returns the current width of a column (0 for unknown ids).
func (m *ColumnModel[T]) Width(id string) float64 {
	return m.widths[id]
}

// SetWidth sets a column width, clamped to the column's bounds, and
// reports whether it changed. Other columns are never touched.
func (m *ColumnModel[T]) SetWidth(id string, w float64) bool {
	c, ok := m.Column(id)
	if !ok {
		return false
	}
	w = c.clampWidth(w)
	if m.widths[id] == w {
		return false
	}
	m.widths[id] = w
	return true
}

// Widths returns the full id → width mapping.
func (m *ColumnModel[T]) Widths() map[string]float64 {
	return maps.Clone(m.widths)
}

// clone returns an independent copy; column definitions are shared.
func (m *ColumnModel[T]) clone() *ColumnModel[T] {
	return &ColumnModel[T]{
		cols:    m.cols,
		index:   m.index,
		visible: maps.Clone(m.visible),
		widths:  maps.Clone(m.widths),
	}
}
