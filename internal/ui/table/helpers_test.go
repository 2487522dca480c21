package table

import (
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/source"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
)

func peopleTable() *source.Table {
	return &source.Table{
		Name:    "people",
		Columns: []string{"name", "age", "city"},
		Records: []source.Record{
			{"Alice", int64(30), "Oslo"},
			{"bob", int64(25), "Bergen"},
			{"Carol", int64(41), "Oslo"},
		},
	}
}

func numbersTable(n int) *source.Table {
	t := &source.Table{Name: "numbers", Columns: []string{"n"}}
	for i := range n {
		t.Records = append(t.Records, source.Record{"row" + strconv.Itoa(i)})
	}
	return t
}

func newTestGrid(t *testing.T, tbl *source.Table, key string, configure func(*grid.Options[source.Record])) *grid.Grid[source.Record] {
	t.Helper()
	rows, err := tbl.GridRows(key)
	require.NoError(t, err)
	opts := grid.Options[source.Record]{
		EnableColumnFiltering: true,
		EnableSorting:         true,
		RowSelection:          true,
		ColumnResizeMode:      grid.ResizeOnChange,
		EmptyMessage:          "No data",
		Scheduler:             grid.NewManualScheduler(),
	}
	if configure != nil {
		configure(&opts)
	}
	g, err := grid.New(rows, tbl.GridColumns(source.ColumnOptions{Fit: true, MinWidth: 3}), opts)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

// plainOutput turns off colors and Unicode fallbacks for the test.
func plainOutput(t *testing.T) {
	t.Helper()
	styles.SetNoColor(true)
	t.Cleanup(func() { styles.SetNoColor(false) })
	t.Setenv("DATAGRID_ACCESSIBLE", "")
}

func newSizedModel(t *testing.T, g *grid.Grid[source.Record], width, height int) tableModel[source.Record] {
	t.Helper()
	m := newTableModel("people", g)
	return send(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

func send[T any](t *testing.T, m tableModel[T], msg tea.Msg) tableModel[T] {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(tableModel[T])
	require.True(t, ok)
	return out
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key in turn and returns the last command.
func press[T any](t *testing.T, m tableModel[T], keys ...string) (tableModel[T], tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		out, ok := next.(tableModel[T])
		require.True(t, ok)
		m = out
	}
	return m, cmd
}

// assertText fails with a character diff when got differs from want.
func assertText(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Errorf("output mismatch:\n%s", dmp.DiffPrettyText(diffs))
}
