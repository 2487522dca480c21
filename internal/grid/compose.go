package grid

import (
	"log/slog"
	"time"
)

// Options configures a grid. The zero value renders every row of every
// visible column with no interaction features.
type Options[T any] struct {
	EnableColumnFiltering bool
	EnableSorting         bool

	EnablePagination bool
	PageSize         int // < 1 is treated as 1

	EnableVirtual    bool
	VirtualThreshold int     // 0 = DefaultVirtualThreshold, < 0 = always virtualize
	Overscan         int     // 0 = DefaultOverscan, < 0 = none
	RowHeight        float64 // estimated row height, <= 0 is treated as 1

	ColumnResizeMode ResizeMode
	RowSelection     bool

	// ColumnVisibility overrides the initial visibility of the named
	// columns.
	ColumnVisibility map[string]bool

	EmptyMessage string
	Styles       StyleProvider[T]

	// Passthrough presentation content.
	Caption      string
	StickyHeader bool

	FilterDebounce time.Duration // 0 = DefaultFilterDebounce
	Scheduler      Scheduler     // nil = RealScheduler
	Logger         *slog.Logger  // nil = discard

	OnSort                   func(columnID string, dir SortDirection)
	OnPageChange             func(pageIndex int)
	OnColumnResize           func(columnID string, width float64)
	OnSelectRow              func(rowID string, selected bool, sel Selection)
	OnColumnVisibilityChange func(visibility map[string]bool)
	OnFilterChange           func(filters FilterState)
}

func (o *Options[T]) overscan() int {
	switch {
	case o.Overscan == 0:
		return DefaultOverscan
	case o.Overscan < 0:
		return 0
	}
	return o.Overscan
}

func (o *Options[T]) virtualThreshold() int {
	switch {
	case o.VirtualThreshold == 0:
		return DefaultVirtualThreshold
	case o.VirtualThreshold < 0:
		return 0
	}
	return o.VirtualThreshold
}

// State bundles the independent interaction states a host owns.
type State struct {
	Filters    FilterState     `json:"filters,omitempty"`
	Sort       SortState       `json:"sort"`
	Pagination PaginationState `json:"pagination"`
	Virtual    VirtualState    `json:"virtual"`
	Selection  Selection       `json:"selection"`
}

// Clone returns a State sharing nothing mutable with s.
func (s State) Clone() State {
	s.Filters = s.Filters.Clone()
	return s
}

// Compose runs the pipeline filter -> sort -> paginate -> virtualize over
// rows, skipping the stages opts disables, then annotates the result with
// selection and styles. It is a pure function of its arguments.
func Compose[T any](rows []Row[T], cm *ColumnModel[T], opts *Options[T], st State) RenderModel[T] {
	if opts == nil {
		opts = &Options[T]{}
	}
	all := cm.Columns()
	visible := cm.VisibleColumns()
	styles := newStyleResolver(opts.Styles)

	seq := rows
	if opts.EnableColumnFiltering {
		seq = ApplyFilters(seq, all, st.Filters)
	}
	filtered := len(seq)

	if opts.EnableSorting {
		seq = ApplySort(seq, all, st.Sort)
	}

	var summary PageSummary
	if opts.EnablePagination {
		seq, summary = Paginate(seq, st.Pagination)
	} else {
		summary = PageSummary{PageSize: len(seq), PageCount: 1, TotalCount: len(seq)}
		if len(seq) > 0 {
			summary.FirstIndex, summary.LastIndex = 1, len(seq)
		}
	}

	vs := st.Virtual
	if vs.RowHeight <= 0 {
		vs.RowHeight = opts.RowHeight
	}
	var window VirtualWindow
	if opts.EnableVirtual {
		seq, window = Virtualize(seq, vs, opts.overscan(), opts.virtualThreshold())
	} else {
		seq, window = Virtualize(seq, vs, 0, len(seq)+1)
	}

	model := RenderModel[T]{
		Headers:       composeHeaders(visible, cm, opts, st, styles),
		Pagination:    summary,
		Virtual:       window,
		TotalRows:     len(rows),
		FilteredRows:  filtered,
		SelectedCount: st.Selection.Len(),
		Caption:       opts.Caption,
		StickyHeader:  opts.StickyHeader,
	}
	if opts.EnableSorting {
		model.Sort = st.Sort
	}

	if filtered == 0 && opts.EmptyMessage != "" {
		model.EmptyMessage = opts.EmptyMessage
		model.Rows = []RenderRow[T]{}
		return model
	}

	model.Rows = make([]RenderRow[T], len(seq))
	for i, r := range seq {
		pos := window.Start + i
		rr := RenderRow[T]{
			ID:       r.ID,
			Index:    r.Index,
			Position: pos,
			Offset:   float64(pos) * window.RowHeight,
			Selected: opts.RowSelection && st.Selection.Has(r.ID),
			Data:     r.Data,
			Resolved: styles.row(r),
			Cells:    make([]RenderCell, len(visible)),
		}
		for j, c := range visible {
			v := c.Value(r.Data)
			rr.Cells[j] = RenderCell{
				ColumnID: c.ID,
				Value:    v,
				Text:     FormatValue(v),
				Width:    cm.Width(c.ID),
				Resolved: styles.cell(r, c),
			}
		}
		model.Rows[i] = rr
	}
	return model
}

func composeHeaders[T any](visible []Column[T], cm *ColumnModel[T], opts *Options[T], st State, styles styleResolver[T]) []HeaderCell {
	headers := make([]HeaderCell, len(visible))
	for i, c := range visible {
		h := HeaderCell{
			ColumnID:   c.ID,
			Label:      c.Label(),
			Width:      cm.Width(c.ID),
			Sortable:   opts.EnableSorting && c.Sortable(),
			Filterable: opts.EnableColumnFiltering && c.Filterable(),
			FilterKind: c.Filter,
			Resizable:  opts.ColumnResizeMode != ResizeDisabled && c.Resizable(),
			Resolved:   styles.header(c),
		}
		if h.Sortable {
			h.Sort = st.Sort.DirectionOf(c.ID)
		}
		if h.Filterable {
			if f, ok := st.Filters[c.ID]; ok {
				h.Filter = f
				h.FilterInput = f.Text
			}
		}
		headers[i] = h
	}
	return headers
}
