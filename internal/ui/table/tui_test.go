package table

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUILoadingBeforeSize(t *testing.T) {
	g := newTestGrid(t, peopleTable(), "name", nil)
	m := newTableModel("people", g)
	assert.Equal(t, "Loading...", m.View())
}

func TestTUISortCycles(t *testing.T) {
	plainOutput(t)
	g := newTestGrid(t, peopleTable(), "name", nil)
	m := newSizedModel(t, g, 80, 20)

	m, _ = press(t, m, "l", "s")
	assert.Equal(t, grid.SortState{ColumnID: "age", Direction: grid.SortAscending}, g.State().Sort)
	row, ok := m.rowAt(0)
	require.True(t, ok)
	assert.Equal(t, "bob", row.ID)
	assert.Contains(t, m.View(), "sort age ▲")

	m, _ = press(t, m, "s")
	assert.Equal(t, grid.SortDescending, g.State().Sort.Direction)
	assert.Contains(t, m.View(), "sort age ▼")

	m, _ = press(t, m, "s")
	assert.False(t, g.State().Sort.Active())
	assert.Equal(t, "sort cleared", m.statusMsg)
}

func TestTUIFilterEnterFlushes(t *testing.T) {
	plainOutput(t)
	g := newTestGrid(t, peopleTable(), "name", func(o *grid.Options[source.Record]) {
		o.FilterDebounce = time.Hour
	})
	m := newSizedModel(t, g, 80, 20)

	m, _ = press(t, m, "l", "l", "/")
	require.Equal(t, tableModeFilter, m.mode)
	m, _ = press(t, m, "o", "s", "l")

	// Typed text shows up at once but nothing is filtered yet.
	assert.Equal(t, 3, m.view.FilteredRows)
	h, _ := m.view.Header("city")
	assert.Equal(t, "osl", h.FilterInput)
	assert.Equal(t, []string{"city"}, g.PendingFilters())

	m, _ = press(t, m, "enter")
	assert.Equal(t, tableModeNormal, m.mode)
	assert.Equal(t, 2, m.view.FilteredRows)
	assert.Empty(t, g.PendingFilters())
	assert.Contains(t, m.View(), "filter: city~osl")

	// esc in the filter box clears the column's filter.
	m, _ = press(t, m, "/", "esc")
	assert.Equal(t, 3, m.view.FilteredRows)
	assert.Empty(t, g.State().Filters)
}

func TestTUIFilterTypingDoesNotTriggerKeys(t *testing.T) {
	g := newTestGrid(t, peopleTable(), "name", nil)
	m := newSizedModel(t, g, 80, 20)

	m, _ = press(t, m, "/", "q")
	assert.Equal(t, tableModeFilter, m.mode)
	assert.Equal(t, "q", g.FilterInput("name"))
}

func TestTUIDebouncedFilterRunsOnEventLoop(t *testing.T) {
	plainOutput(t)
	sched := NewScheduler()
	msgs := make(chan tea.Msg, 8)
	sched.attach(func(msg tea.Msg) { msgs <- msg })

	g := newTestGrid(t, peopleTable(), "name", func(o *grid.Options[source.Record]) {
		o.Scheduler = sched
		o.FilterDebounce = time.Millisecond
	})
	m := newSizedModel(t, g, 80, 20)
	m, _ = press(t, m, "/", "b")
	assert.Equal(t, 3, m.view.FilteredRows)

	select {
	case msg := <-msgs:
		_, ok := msg.(debounceFiredMsg)
		require.True(t, ok)
		m = send(t, m, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("debounced filter never fired")
	}

	assert.Equal(t, 1, m.view.FilteredRows)
	row, ok := m.rowAt(0)
	require.True(t, ok)
	assert.Equal(t, "bob", row.ID)
}

func TestTUISelection(t *testing.T) {
	plainOutput(t)
	g := newTestGrid(t, peopleTable(), "name", nil)
	m := newSizedModel(t, g, 80, 20)

	m, _ = press(t, m, "space", "down", "space")
	assert.Equal(t, []string{"Alice", "bob"}, g.Selection().IDs())
	assert.Contains(t, m.View(), "2 selected")

	m, _ = press(t, m, "space")
	assert.Equal(t, []string{"Alice"}, g.Selection().IDs())
	assert.Equal(t, 1, m.view.SelectedCount)
}

func TestTUISelectionDisabled(t *testing.T) {
	g := newTestGrid(t, peopleTable(), "name", func(o *grid.Options[source.Record]) { o.RowSelection = false })
	m := newSizedModel(t, g, 80, 20)

	m, _ = press(t, m, "space")
	assert.Zero(t, g.Selection().Len())
	assert.Equal(t, "row selection is off", m.statusMsg)
}

func TestTUIHideAndShowColumns(t *testing.T) {
	g := newTestGrid(t, peopleTable(), "name", nil)
	m := newSizedModel(t, g, 80, 20)

	m, _ = press(t, m, "H")
	require.Len(t, m.view.Headers, 2)
	assert.Equal(t, "age", m.view.Headers[0].ColumnID)

	m, _ = press(t, m, "H")
	m, _ = press(t, m, "H")
	require.Len(t, m.view.Headers, 1)
	assert.Equal(t, "cannot hide the last column", m.statusMsg)

	m, _ = press(t, m, "V")
	assert.Len(t, m.view.Headers, 3)
}

func TestTUIResize(t *testing.T) {
	g := newTestGrid(t, peopleTable(), "name", nil)
	m := newSizedModel(t, g, 80, 20)
	start := g.ColumnWidth("name")

	m, _ = press(t, m, ">", ">")
	assert.Equal(t, tableModeResize, m.mode)
	h, _ := m.view.Header("name")
	assert.True(t, h.Resizing)
	assert.Equal(t, start+4, g.ColumnWidth("name"))

	m, _ = press(t, m, "enter")
	assert.Equal(t, tableModeNormal, m.mode)
	assert.Equal(t, start+4, g.ColumnWidth("name"))
	_, dragging := g.Resizing()
	assert.False(t, dragging)

	m, _ = press(t, m, "<", "<", "esc")
	assert.Equal(t, tableModeNormal, m.mode)
	assert.Equal(t, start+4, g.ColumnWidth("name"))
}

func TestTUIResizeOnEndStagesWidth(t *testing.T) {
	g := newTestGrid(t, peopleTable(), "name", func(o *grid.Options[source.Record]) {
		o.ColumnResizeMode = grid.ResizeOnEnd
	})
	m := newSizedModel(t, g, 80, 20)
	start := g.ColumnWidth("name")

	m, _ = press(t, m, ">")
	h, _ := m.view.Header("name")
	assert.Equal(t, start+2, h.PendingWidth)
	assert.Equal(t, start, g.ColumnWidth("name"))

	_, _ = press(t, m, "enter")
	assert.Equal(t, start+2, g.ColumnWidth("name"))
}

func TestTUIResizeDisabled(t *testing.T) {
	g := newTestGrid(t, peopleTable(), "name", func(o *grid.Options[source.Record]) {
		o.ColumnResizeMode = grid.ResizeDisabled
	})
	m := newSizedModel(t, g, 80, 20)

	m, _ = press(t, m, ">")
	assert.Equal(t, tableModeNormal, m.mode)
	assert.NotEmpty(t, m.statusMsg)
}

func TestTUIPaging(t *testing.T) {
	plainOutput(t)
	g := newTestGrid(t, peopleTable(), "name", func(o *grid.Options[source.Record]) {
		o.EnablePagination = true
		o.PageSize = 2
	})
	m := newSizedModel(t, g, 80, 20)
	assert.Contains(t, m.View(), "1 - 2 of 3")

	m, _ = press(t, m, "j", "n")
	assert.Equal(t, 1, m.view.Pagination.PageIndex)
	assert.Equal(t, 0, m.cursor)
	require.Len(t, m.view.Rows, 1)
	assert.Equal(t, "Carol", m.view.Rows[0].ID)
	assert.Contains(t, m.View(), "3 - 3 of 3")

	// Past the last page nothing moves.
	m, _ = press(t, m, "n")
	assert.Equal(t, 1, m.view.Pagination.PageIndex)

	m, _ = press(t, m, "p")
	assert.Equal(t, 0, m.view.Pagination.PageIndex)
}

func TestTUIVirtualScrolling(t *testing.T) {
	plainOutput(t)
	g := newTestGrid(t, numbersTable(500), "", func(o *grid.Options[source.Record]) {
		o.EnableVirtual = true
	})
	m := newSizedModel(t, g, 80, 20)

	assert.True(t, m.view.Virtual.Enabled)
	assert.LessOrEqual(t, len(m.view.Rows), 20)
	assert.Equal(t, 500, m.pageLen())

	m, _ = press(t, m, "G")
	assert.Equal(t, 499, m.cursor)
	assert.Equal(t, 500-m.visibleRowCount(), m.scrollY)
	row, ok := m.rowAt(499)
	require.True(t, ok)
	assert.Equal(t, "row499", row.Cells[0].Text)
	assert.Contains(t, m.View(), "row499")
	assert.NotContains(t, m.View(), "row0 ")

	m, _ = press(t, m, "g")
	assert.Equal(t, 0, m.scrollY)
	assert.Contains(t, m.View(), "row0")
}

func TestTUIEmptyMessage(t *testing.T) {
	plainOutput(t)
	g := newTestGrid(t, peopleTable(), "name", nil)
	m := newSizedModel(t, g, 80, 20)

	m, _ = press(t, m, "/", "z", "z", "enter")
	assert.Equal(t, 0, m.pageLen())
	assert.Contains(t, m.View(), "No data")
}

func TestTUIExportKeysQuit(t *testing.T) {
	for key, want := range map[string]exitMode{"J": exitJSON, "R": exitRaw, "P": exitPlain, "q": exitNormal} {
		t.Run(key, func(t *testing.T) {
			g := newTestGrid(t, peopleTable(), "name", nil)
			m := newSizedModel(t, g, 80, 20)

			m, cmd := press(t, m, key)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.Equal(t, want, m.exitMode)
		})
	}
}

func TestTUIHorizontalScroll(t *testing.T) {
	tbl := &source.Table{
		Columns: []string{"a", "b", "c", "d"},
		Records: []source.Record{{"one", "two", "three", "four"}},
	}
	rows, err := tbl.GridRows("")
	require.NoError(t, err)
	g, err := grid.New(rows, tbl.GridColumns(source.ColumnOptions{Width: 20}), grid.Options[source.Record]{})
	require.NoError(t, err)
	t.Cleanup(g.Close)

	m := newSizedModel(t, g, 30, 10)
	assert.Equal(t, 0, m.scrollX)

	m, _ = press(t, m, "l", "l")
	assert.Equal(t, 2, m.colCursor)
	assert.Positive(t, m.scrollX)
	assert.LessOrEqual(t, m.scrollX, m.getMaxScrollX())

	m, _ = press(t, m, "g")
	assert.Equal(t, 0, m.scrollX)
}

func TestSchedulerDropsUntilAttached(t *testing.T) {
	sched := NewScheduler()
	ran := make(chan struct{}, 1)
	timer := sched.AfterFunc(time.Millisecond, func() { ran <- struct{}{} })
	time.Sleep(20 * time.Millisecond)
	assert.False(t, timer.Stop())
	assert.Empty(t, ran)
}
