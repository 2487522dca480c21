package grid

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"
)

// Grid owns the interaction state of one mounted view. It is the single
// writer of column widths, visibility, filters, sort, paging, scroll and
// selection; presentation layers translate events into Grid calls and
// read RenderModels back.
//
// All methods are safe for concurrent use. Notifications run after the
// internal lock is released, on the goroutine that caused them (for
// debounced filters, the Scheduler's goroutine).
type Grid[T any] struct {
	mu sync.Mutex

	opts    Options[T]
	rows    []Row[T]
	cols    *ColumnModel[T]
	state   State
	inputs  map[string]string
	resizer *Resizer

	debounce *Debouncer
	log      *slog.Logger
}

// New validates the column schema and returns a Grid over rows. Duplicate
// or empty column ids and ColumnVisibility entries naming unknown
// columns are configuration errors.
func New[T any](rows []Row[T], cols []Column[T], opts Options[T]) (*Grid[T], error) {
	cm, err := NewColumnModel(cols)
	if err != nil {
		return nil, err
	}
	for id, visible := range opts.ColumnVisibility {
		if !cm.Has(id) {
			return nil, fmt.Errorf("column visibility: %w: %q", ErrUnknownColumn, id)
		}
		cm.SetVisible(id, visible)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 1
	}

	g := &Grid[T]{
		opts:    opts,
		rows:    rows,
		cols:    cm,
		inputs:  make(map[string]string),
		resizer: NewResizer(opts.ColumnResizeMode),
		state: State{
			Filters:    FilterState{},
			Pagination: PaginationState{PageSize: pageSize},
			Virtual:    VirtualState{RowHeight: opts.RowHeight},
		},
		debounce: NewDebouncer(opts.Scheduler, opts.FilterDebounce),
		log:      logger,
	}
	return g, nil
}

// Close cancels pending debounced work and any in-flight drag. The Grid
// stays readable afterwards.
func (g *Grid[T]) Close() {
	g.debounce.Stop()
	g.mu.Lock()
	g.resizer.Cancel(g.cols)
	g.mu.Unlock()
}

// Options returns the configuration the Grid was built with.
func (g *Grid[T]) Options() Options[T] { return g.opts }

// ═══════════════════════════════════════════════════════════════════════════
// Data and state
// ═══════════════════════════════════════════════════════════════════════════

// SetRows replaces the row set. Interaction state is kept; a page index
// past the new end is clamped, firing OnPageChange.
func (g *Grid[T]) SetRows(rows []Row[T]) {
	g.mu.Lock()
	g.rows = rows
	index, clamped := g.clampPage()
	g.mu.Unlock()
	g.notifyPage(index, clamped)
}

// Rows returns the raw row set.
func (g *Grid[T]) Rows() []Row[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rows
}

// State returns a snapshot of the interaction state.
func (g *Grid[T]) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// Columns returns every column definition in order.
func (g *Grid[T]) Columns() []Column[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cols.Columns()
}

// VisibleColumns returns the visible columns in order.
func (g *Grid[T]) VisibleColumns() []Column[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cols.VisibleColumns()
}

// Model composes the current RenderModel.
func (g *Grid[T]) Model() RenderModel[T] {
	g.mu.Lock()
	m := Compose(g.rows, g.cols, &g.opts, g.state)

	clamped := g.opts.EnablePagination && m.Pagination.PageIndex != g.state.Pagination.PageIndex
	if clamped {
		g.log.Debug("page index clamped",
			"from", g.state.Pagination.PageIndex,
			"to", m.Pagination.PageIndex,
			"rows", m.FilteredRows)
		g.state.Pagination.PageIndex = m.Pagination.PageIndex
	}

	drag, dragging := g.resizer.Drag()
	for i := range m.Headers {
		h := &m.Headers[i]
		if text, ok := g.inputs[h.ColumnID]; ok && h.Filterable {
			h.FilterInput = text
		}
		if dragging && h.ColumnID == drag.ColumnID {
			h.Resizing = true
			if g.resizer.Mode() == ResizeOnEnd {
				h.PendingWidth = drag.Width
			}
		}
	}
	g.mu.Unlock()

	g.notifyPage(m.Pagination.PageIndex, clamped)
	return m
}

// Page composes the current page with virtualization off, so every row
// of the page materializes. Exports and plain output use it.
func (g *Grid[T]) Page() RenderModel[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	opts := g.opts
	opts.EnableVirtual = false
	return Compose(g.rows, g.cols, &opts, g.state)
}

// filteredLen returns the post-filter row count. Caller holds mu.
func (g *Grid[T]) filteredLen() int {
	if !g.opts.EnableColumnFiltering {
		return len(g.rows)
	}
	return len(ApplyFilters(g.rows, g.cols.Columns(), g.state.Filters))
}

// ═══════════════════════════════════════════════════════════════════════════
// Sorting
// ═══════════════════════════════════════════════════════════════════════════

// ClickHeader cycles the sort of a column. It is a no-op, returning false,
// when sorting is disabled or the column is not sortable.
func (g *Grid[T]) ClickHeader(columnID string) (SortState, bool) {
	g.mu.Lock()
	c, ok := g.cols.Column(columnID)
	if !g.opts.EnableSorting || !ok || !c.Sortable() {
		s := g.state.Sort
		g.mu.Unlock()
		return s, false
	}
	g.state.Sort = g.state.Sort.Toggle(columnID)
	s := g.state.Sort
	g.mu.Unlock()

	g.log.Debug("sort changed", "column", columnID, "direction", s.DirectionOf(columnID))
	if g.opts.OnSort != nil {
		g.opts.OnSort(columnID, s.DirectionOf(columnID))
	}
	return s, true
}

// SetSort replaces the sort state programmatically.
func (g *Grid[T]) SetSort(s SortState) error {
	if s.ColumnID != "" {
		g.mu.Lock()
		ok := g.cols.Has(s.ColumnID)
		g.mu.Unlock()
		if !ok {
			return fmt.Errorf("sort: %w: %q", ErrUnknownColumn, s.ColumnID)
		}
	}
	if s.Direction == SortNone {
		s = SortState{}
	}
	g.mu.Lock()
	g.state.Sort = s
	g.mu.Unlock()
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Filtering
// ═══════════════════════════════════════════════════════════════════════════

// SetFilterInput records a keystroke in a column's filter box. The raw
// text shows up in the header immediately; it becomes the column's filter
// once no further input arrives for the debounce interval. It returns
// false when filtering is disabled or the column is not filterable.
func (g *Grid[T]) SetFilterInput(columnID, text string) bool {
	g.mu.Lock()
	if !g.filterable(columnID) {
		g.mu.Unlock()
		return false
	}
	g.inputs[columnID] = text
	g.mu.Unlock()

	g.debounce.Schedule(columnID, func() { g.commitFilter(columnID) })
	return true
}

// FilterInput returns the raw filter text of a column.
func (g *Grid[T]) FilterInput(columnID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inputs[columnID]
}

// PendingFilters returns the columns whose typed text is not committed yet.
func (g *Grid[T]) PendingFilters() []string {
	return g.debounce.Pending()
}

// FlushFilters commits every pending filter input now.
func (g *Grid[T]) FlushFilters() {
	for _, id := range g.debounce.Pending() {
		if g.debounce.Cancel(id) {
			g.commitFilter(id)
		}
	}
}

func (g *Grid[T]) commitFilter(columnID string) {
	g.mu.Lock()
	text := g.inputs[columnID]
	prev, had := g.state.Filters[columnID]
	if text == "" {
		delete(g.state.Filters, columnID)
	} else {
		g.state.Filters[columnID] = TextFilter(text)
	}
	changed := had != (text != "") || prev.Text != text || len(prev.Accept) > 0
	filters := g.state.Filters.Clone()
	index, clamped := g.clampPage()
	g.mu.Unlock()

	if !changed {
		return
	}
	g.log.Debug("filter committed", "column", columnID, "text", text)
	if g.opts.OnFilterChange != nil {
		g.opts.OnFilterChange(filters)
	}
	g.notifyPage(index, clamped)
}

// SetFilterValues sets a set-membership filter on a column, taking effect
// immediately. No values clears the column's filter.
func (g *Grid[T]) SetFilterValues(columnID string, values ...string) bool {
	g.mu.Lock()
	if !g.filterable(columnID) {
		g.mu.Unlock()
		return false
	}
	g.debounce.Cancel(columnID)
	delete(g.inputs, columnID)
	if len(values) == 0 {
		delete(g.state.Filters, columnID)
	} else {
		g.state.Filters[columnID] = SelectFilter(values...)
	}
	filters := g.state.Filters.Clone()
	index, clamped := g.clampPage()
	g.mu.Unlock()

	if g.opts.OnFilterChange != nil {
		g.opts.OnFilterChange(filters)
	}
	g.notifyPage(index, clamped)
	return true
}

// SetFilters replaces the committed filters, bypassing the debounce.
// A page index the new filters leave empty is clamped.
func (g *Grid[T]) SetFilters(fs FilterState) {
	for _, id := range g.debounce.Pending() {
		g.debounce.Cancel(id)
	}
	g.mu.Lock()
	g.state.Filters = fs.Clone()
	if g.state.Filters == nil {
		g.state.Filters = FilterState{}
	}
	g.inputs = make(map[string]string)
	for id, f := range g.state.Filters {
		if f.Text != "" {
			g.inputs[id] = f.Text
		}
	}
	index, clamped := g.clampPage()
	g.mu.Unlock()
	g.notifyPage(index, clamped)
}

// ClearFilters drops every filter and pending input.
func (g *Grid[T]) ClearFilters() {
	g.SetFilters(nil)
	if g.opts.OnFilterChange != nil {
		g.opts.OnFilterChange(FilterState{})
	}
}

// FilterOptions lists the distinct values of a column over the unfiltered
// rows, for select-style filter controls.
func (g *Grid[T]) FilterOptions(columnID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.cols.Column(columnID)
	if !ok {
		return nil
	}
	return FilterOptions(g.rows, c)
}

// filterable reports whether a column accepts filters. Caller holds mu.
func (g *Grid[T]) filterable(columnID string) bool {
	c, ok := g.cols.Column(columnID)
	return g.opts.EnableColumnFiltering && ok && c.Filterable()
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination
// ═══════════════════════════════════════════════════════════════════════════

// SetPage moves to a page, clamped to the available pages. It reports
// whether the page changed.
func (g *Grid[T]) SetPage(index int) bool {
	g.mu.Lock()
	if !g.opts.EnablePagination {
		g.mu.Unlock()
		return false
	}
	ps := g.state.Pagination
	index = ClampPageIndex(index, g.filteredLen(), ps.PageSize)
	if index == ps.PageIndex {
		g.mu.Unlock()
		return false
	}
	g.state.Pagination.PageIndex = index
	g.mu.Unlock()

	if g.opts.OnPageChange != nil {
		g.opts.OnPageChange(index)
	}
	return true
}

// clampPage pulls the page index back inside the filtered rows and
// reports whether it moved. Caller holds mu and passes the result to
// notifyPage once it is released.
func (g *Grid[T]) clampPage() (int, bool) {
	ps := g.state.Pagination
	if !g.opts.EnablePagination {
		return ps.PageIndex, false
	}
	index := ClampPageIndex(ps.PageIndex, g.filteredLen(), ps.PageSize)
	if index == ps.PageIndex {
		return index, false
	}
	g.log.Debug("page index clamped", "from", ps.PageIndex, "to", index)
	g.state.Pagination.PageIndex = index
	return index, true
}

func (g *Grid[T]) notifyPage(index int, changed bool) {
	if changed && g.opts.OnPageChange != nil {
		g.opts.OnPageChange(index)
	}
}

// NextPage moves one page forward.
func (g *Grid[T]) NextPage() bool { return g.SetPage(g.State().Pagination.PageIndex + 1) }

// PrevPage moves one page back.
func (g *Grid[T]) PrevPage() bool { return g.SetPage(g.State().Pagination.PageIndex - 1) }

// FirstPage moves to the first page.
func (g *Grid[T]) FirstPage() bool { return g.SetPage(0) }

// LastPage moves to the last page.
func (g *Grid[T]) LastPage() bool {
	g.mu.Lock()
	last := PageCount(g.filteredLen(), g.state.Pagination.PageSize) - 1
	g.mu.Unlock()
	return g.SetPage(last)
}

// SetPageSize changes the page size and returns to the first page.
func (g *Grid[T]) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	g.mu.Lock()
	moved := g.state.Pagination.PageIndex != 0
	g.state.Pagination = PaginationState{PageIndex: 0, PageSize: size}
	g.mu.Unlock()

	if moved && g.opts.OnPageChange != nil {
		g.opts.OnPageChange(0)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Virtual scroll
// ═══════════════════════════════════════════════════════════════════════════

// SetScroll records the vertical scroll offset.
func (g *Grid[T]) SetScroll(offset float64) {
	if offset < 0 {
		offset = 0
	}
	g.mu.Lock()
	g.state.Virtual.ScrollOffset = offset
	g.mu.Unlock()
}

// SetViewport records the viewport height and estimated row height. A
// rowHeight <= 0 keeps the current one.
func (g *Grid[T]) SetViewport(height, rowHeight float64) {
	g.mu.Lock()
	g.state.Virtual.ViewportHeight = height
	if rowHeight > 0 {
		g.state.Virtual.RowHeight = rowHeight
	}
	g.mu.Unlock()
}

// ═══════════════════════════════════════════════════════════════════════════
// Column resize
// ═══════════════════════════════════════════════════════════════════════════

// BeginResize handles a pointer down on a column's resize handle.
func (g *Grid[T]) BeginResize(columnID string, x float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resizer.PointerDown(g.cols, columnID, x)
}

// MoveResize handles a pointer move during a drag.
func (g *Grid[T]) MoveResize(x float64) (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resizer.PointerMove(g.cols, x)
}

// EndResize handles pointer up, commits the width and fires OnColumnResize.
func (g *Grid[T]) EndResize(x float64) (ResizeDrag, bool) {
	g.mu.Lock()
	done, ok := g.resizer.PointerUp(g.cols, x)
	g.mu.Unlock()
	if !ok {
		return done, false
	}

	g.log.Debug("column resized", "column", done.ColumnID, "from", done.StartWidth, "to", done.Width)
	if done.Width != done.StartWidth && g.opts.OnColumnResize != nil {
		g.opts.OnColumnResize(done.ColumnID, done.Width)
	}
	return done, true
}

// CancelResize aborts an in-flight drag, reverting to the pre-drag width.
func (g *Grid[T]) CancelResize() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resizer.Cancel(g.cols)
}

// Resizing returns the in-flight drag, if any.
func (g *Grid[T]) Resizing() (ResizeDrag, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resizer.Drag()
}

// ColumnWidth returns the current width of a column.
func (g *Grid[T]) ColumnWidth(columnID string) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cols.Width(columnID)
}

// SetColumnWidth sets a width programmatically, clamped to the column's
// bounds, and fires OnColumnResize when it changed.
func (g *Grid[T]) SetColumnWidth(columnID string, w float64) bool {
	g.mu.Lock()
	changed := g.cols.SetWidth(columnID, w)
	w = g.cols.Width(columnID)
	g.mu.Unlock()

	if changed && g.opts.OnColumnResize != nil {
		g.opts.OnColumnResize(columnID, w)
	}
	return changed
}

// ═══════════════════════════════════════════════════════════════════════════
// Selection
// ═══════════════════════════════════════════════════════════════════════════

// ClickRow toggles a row's selection and fires OnSelectRow. With selection
// disabled it does nothing and returns ok false.
func (g *Grid[T]) ClickRow(rowID string) (selected, ok bool) {
	g.mu.Lock()
	if !g.opts.RowSelection {
		g.mu.Unlock()
		return false, false
	}
	g.state.Selection, selected = g.state.Selection.Toggle(rowID)
	sel := g.state.Selection
	g.mu.Unlock()

	if g.opts.OnSelectRow != nil {
		g.opts.OnSelectRow(rowID, selected, sel)
	}
	return selected, true
}

// Selection returns the selected row ids.
func (g *Grid[T]) Selection() Selection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Selection
}

// SetSelection replaces the selection without notifications.
func (g *Grid[T]) SetSelection(sel Selection) {
	g.mu.Lock()
	g.state.Selection = sel
	g.mu.Unlock()
}

// ClearSelection empties the selection.
func (g *Grid[T]) ClearSelection() {
	g.SetSelection(Selection{})
}

// SelectedRows returns the selected rows in original order, whether or
// not they are currently in view.
func (g *Grid[T]) SelectedRows() []Row[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Row[T]
	for _, r := range g.rows {
		if g.state.Selection.Has(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// Column visibility
// ═══════════════════════════════════════════════════════════════════════════

// SetColumnVisible shows or hides a column and fires
// OnColumnVisibilityChange with the full mapping when it changed.
func (g *Grid[T]) SetColumnVisible(columnID string, visible bool) bool {
	g.mu.Lock()
	changed := g.cols.SetVisible(columnID, visible)
	vis := g.cols.Visibility()
	g.mu.Unlock()

	if changed {
		g.notifyVisibility(vis)
	}
	return changed
}

// ToggleColumn flips a column's visibility.
func (g *Grid[T]) ToggleColumn(columnID string) bool {
	g.mu.Lock()
	if !g.cols.Has(columnID) {
		g.mu.Unlock()
		return false
	}
	g.cols.SetVisible(columnID, !g.cols.Visible(columnID))
	vis := g.cols.Visibility()
	g.mu.Unlock()

	g.notifyVisibility(vis)
	return true
}

// ShowAllColumns makes every column visible.
func (g *Grid[T]) ShowAllColumns() bool {
	g.mu.Lock()
	changed := false
	for _, c := range g.cols.Columns() {
		if g.cols.SetVisible(c.ID, true) {
			changed = true
		}
	}
	vis := g.cols.Visibility()
	g.mu.Unlock()

	if changed {
		g.notifyVisibility(vis)
	}
	return changed
}

// Visibility returns the full column id → visible mapping.
func (g *Grid[T]) Visibility() map[string]bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cols.Visibility()
}

func (g *Grid[T]) notifyVisibility(vis map[string]bool) {
	g.log.Debug("column visibility changed", "hidden", len(vis)-countTrue(vis))
	if g.opts.OnColumnVisibilityChange != nil {
		g.opts.OnColumnVisibilityChange(maps.Clone(vis))
	}
}

func countTrue(m map[string]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}
