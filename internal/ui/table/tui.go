package table

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/mattn/go-runewidth"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	colGap      = 2 // spaces between columns
	gutterWidth = 2 // selection marker in front of each row
	chromeLines = 6 // title, filter bar, header, separator, indicators, footer
	resizeStep  = 2 // cells per < or > press
)

// Table mode
type tableMode int

const (
	tableModeNormal tableMode = iota
	tableModeFilter
	tableModeResize
)

// Exit mode: what to print after the TUI quits
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

// ═══════════════════════════════════════════════════════════════════════════
// Scheduler
// ═══════════════════════════════════════════════════════════════════════════

// Scheduler is a grid.Scheduler that runs due callbacks on the bubbletea
// event loop instead of a timer goroutine, so debounced filter commits
// never race the model. Build the grid with it and pass it to RunTUI.
type Scheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewScheduler returns a Scheduler that drops callbacks until a program
// is attached.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// debounceFiredMsg carries a due callback onto the event loop.
type debounceFiredMsg struct{ fn func() }

func (s *Scheduler) AfterFunc(d time.Duration, f func()) grid.Timer {
	return time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(debounceFiredMsg{fn: f})
		}
	})
}

func (s *Scheduler) attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type tableModel[T any] struct {
	title string
	grid  *grid.Grid[T]
	view  grid.RenderModel[T] // composed after every state change
	keys  tableKeyMap

	cursor    int // row position within the current page
	colCursor int // index into the visible columns
	scrollX   int // horizontal scroll offset in cells
	scrollY   int // first page position in the viewport
	width     int // terminal width
	height    int // terminal height
	ready     bool

	mode        tableMode
	filterInput textinput.Model
	filterCol   string
	resizeX     float64 // simulated pointer position while resizing

	exitMode exitMode // how to exit (for re-printing data)

	// Status message (flash notification, e.g. after yank)
	statusMsg   string
	statusUntil time.Time
}

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type tableKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Sort        key.Binding
	Filter      key.Binding
	Select      key.Binding
	Hide        key.Binding
	ShowAll     key.Binding
	Narrow      key.Binding
	Widen       key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	YankCell    key.Binding
	YankRow     key.Binding
	ExportJSON  key.Binding
	ExportRaw   key.Binding
	ExportPlain key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	Quit        key.Binding
}

var tableKeys = tableKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "screen up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "screen down")),
	Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
	End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
	Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	Hide:        key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide")),
	ShowAll:     key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "show all")),
	Narrow:      key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "narrower")),
	Widen:       key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "wider")),
	NextPage:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
	PrevPage:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
	YankCell:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:     key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	ExportJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	ExportRaw:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	ExportPlain: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
	Confirm:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// RunTUI launches the interactive viewer over g. It blocks until the user
// quits. If the user requests an export (J/R/P), the current page is
// printed to stdout after the TUI exits.
func RunTUI[T any](title string, g *grid.Grid[T], sched *Scheduler) error {
	m := newTableModel(title, g)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if sched != nil {
		sched.attach(p.Send)
		defer sched.attach(nil)
	}
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	// Check if user requested output after exit
	if fm, ok := finalModel.(tableModel[T]); ok {
		switch fm.exitMode {
		case exitJSON:
			return Export(os.Stdout, g, ModeJSON)
		case exitRaw:
			return Export(os.Stdout, g, ModeRaw)
		case exitPlain:
			return Export(os.Stdout, g, ModePlain)
		}
	}
	return nil
}

func newTableModel[T any](title string, g *grid.Grid[T]) tableModel[T] {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 100
	ti.Width = 30

	m := tableModel[T]{
		title:       title,
		grid:        g,
		keys:        tableKeys,
		filterInput: ti,
	}
	m.refresh()
	return m
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel[T]) Init() tea.Cmd {
	return nil
}

func (m tableModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.refresh()

	case debounceFiredMsg:
		msg.fn()
		m.refresh()

	case statusClearMsg:
		// Clear the flash message if it has expired
		if !m.statusUntil.IsZero() && !time.Now().Before(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}

	case tea.KeyMsg:
		switch m.mode {
		case tableModeFilter:
			return m.updateFilter(msg)
		case tableModeResize:
			return m.updateResize(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m tableModel[T]) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Filter):
		return m.startFilter()

	case key.Matches(msg, m.keys.Narrow):
		return m.startResize(-resizeStep)

	case key.Matches(msg, m.keys.Widen):
		return m.startResize(resizeStep)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		m.cursor++

	case key.Matches(msg, m.keys.Left):
		if m.colCursor > 0 {
			m.colCursor--
			m.ensureColVisible()
		}

	case key.Matches(msg, m.keys.Right):
		if m.colCursor < len(m.view.Headers)-1 {
			m.colCursor++
			m.ensureColVisible()
		}

	case key.Matches(msg, m.keys.PageUp):
		m.cursor = max(m.cursor-m.visibleRowCount(), 0)

	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.visibleRowCount()

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.scrollY = 0
		m.scrollX = 0

	case key.Matches(msg, m.keys.End):
		m.cursor = m.pageLen() - 1

	case key.Matches(msg, m.keys.Sort):
		cmd = m.sortColumn()

	case key.Matches(msg, m.keys.Select):
		cmd = m.toggleSelect()

	case key.Matches(msg, m.keys.Hide):
		cmd = m.hideColumn()

	case key.Matches(msg, m.keys.ShowAll):
		m.grid.ShowAllColumns()

	case key.Matches(msg, m.keys.NextPage):
		if m.grid.NextPage() {
			m.cursor, m.scrollY = 0, 0
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.grid.PrevPage() {
			m.cursor, m.scrollY = 0, 0
		}

	case key.Matches(msg, m.keys.YankCell):
		cmd = m.yankCell()

	case key.Matches(msg, m.keys.YankRow):
		cmd = m.yankRow()

	case key.Matches(msg, m.keys.ExportJSON):
		m.exitMode = exitJSON
		return m, tea.Quit

	case key.Matches(msg, m.keys.ExportRaw):
		m.exitMode = exitRaw
		return m, tea.Quit

	case key.Matches(msg, m.keys.ExportPlain):
		m.exitMode = exitPlain
		return m, tea.Quit
	}

	m.refresh()
	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Sort / Select / Hide
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel[T]) currentHeader() (grid.HeaderCell, bool) {
	if m.colCursor < 0 || m.colCursor >= len(m.view.Headers) {
		return grid.HeaderCell{}, false
	}
	return m.view.Headers[m.colCursor], true
}

func (m *tableModel[T]) sortColumn() tea.Cmd {
	h, ok := m.currentHeader()
	if !ok {
		return nil
	}
	if !h.Sortable {
		return m.setStatus(fmt.Sprintf("%s is not sortable", h.Label))
	}
	st, _ := m.grid.ClickHeader(h.ColumnID)
	if !st.Active() {
		return m.setStatus("sort cleared")
	}
	return m.setStatus(fmt.Sprintf("sorted by %s %s", h.Label, st.Direction))
}

func (m *tableModel[T]) toggleSelect() tea.Cmd {
	if !m.grid.Options().RowSelection {
		return m.setStatus("row selection is off")
	}
	row, ok := m.rowAt(m.cursor)
	if !ok {
		return nil
	}
	m.grid.ClickRow(row.ID)
	return nil
}

func (m *tableModel[T]) hideColumn() tea.Cmd {
	h, ok := m.currentHeader()
	if !ok {
		return nil
	}
	if len(m.view.Headers) <= 1 {
		return m.setStatus("cannot hide the last column")
	}
	m.grid.SetColumnVisible(h.ColumnID, false)
	return m.setStatus(fmt.Sprintf("hid %s (V shows all)", h.Label))
}

// ═══════════════════════════════════════════════════════════════════════════
// Filter
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel[T]) startFilter() (tea.Model, tea.Cmd) {
	h, ok := m.currentHeader()
	if !ok {
		return m, nil
	}
	if !h.Filterable {
		cmd := m.setStatus(fmt.Sprintf("%s is not filterable", h.Label))
		return m, cmd
	}
	m.mode = tableModeFilter
	m.filterCol = h.ColumnID
	m.filterInput.SetValue(m.grid.FilterInput(h.ColumnID))
	m.filterInput.CursorEnd()
	return m, tea.Batch(m.filterInput.Focus(), textinput.Blink)
}

// updateFilter feeds keystrokes to the filter box. Every edit goes to the
// grid as raw input; the grid commits it once typing pauses.
func (m tableModel[T]) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.grid.SetFilterInput(m.filterCol, "")
		m.grid.FlushFilters()
		m.leaveFilter()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.grid.FlushFilters()
		m.leaveFilter()
		m.refresh()
		return m, nil
	}

	before := m.filterInput.Value()
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if v := m.filterInput.Value(); v != before {
		m.grid.SetFilterInput(m.filterCol, v)
	}
	m.refresh()
	return m, cmd
}

func (m *tableModel[T]) leaveFilter() {
	m.mode = tableModeNormal
	m.filterInput.Blur()
	m.filterCol = ""
}

// ═══════════════════════════════════════════════════════════════════════════
// Resize
// ═══════════════════════════════════════════════════════════════════════════

// startResize puts the pointer down on the current column's handle and
// makes the first move. < and > keep moving it; enter releases.
func (m tableModel[T]) startResize(delta float64) (tea.Model, tea.Cmd) {
	h, ok := m.currentHeader()
	if !ok {
		return m, nil
	}
	if err := m.grid.BeginResize(h.ColumnID, 0); err != nil {
		cmd := m.setStatus(err.Error())
		return m, cmd
	}
	m.mode = tableModeResize
	m.resizeX = 0
	m.moveResize(delta)
	return m, nil
}

func (m tableModel[T]) updateResize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Narrow):
		m.moveResize(-resizeStep)
		return m, nil
	case key.Matches(msg, m.keys.Widen):
		m.moveResize(resizeStep)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if drag, ok := m.grid.EndResize(m.resizeX); ok {
			cmd = m.setStatus(fmt.Sprintf("%s width %d", drag.ColumnID, int(drag.Width)))
		}
	case key.Matches(msg, m.keys.Cancel):
		m.grid.CancelResize()
	case msg.String() == "ctrl+c":
		m.grid.CancelResize()
		return m, tea.Quit
	default:
		return m, nil
	}

	m.mode = tableModeNormal
	m.refresh()
	return m, cmd
}

func (m *tableModel[T]) moveResize(delta float64) {
	m.resizeX += delta
	m.grid.MoveResize(m.resizeX)
	m.refresh()
	m.ensureColVisible()
}

// ═══════════════════════════════════════════════════════════════════════════
// Row / Column Helpers
// ═══════════════════════════════════════════════════════════════════════════

// refresh pushes the viewport to the grid and recomposes. Cursor and
// scroll are clamped to the new page, recomposing once more if the
// viewport had to move.
func (m *tableModel[T]) refresh() {
	m.grid.SetViewport(float64(m.visibleRowCount()), 1)
	m.grid.SetScroll(float64(m.scrollY))
	m.view = m.grid.Model()

	m.cursor = min(max(m.cursor, 0), max(m.pageLen()-1, 0))
	m.colCursor = min(max(m.colCursor, 0), max(len(m.view.Headers)-1, 0))

	before := m.scrollY
	m.ensureRowVisible()
	if m.scrollY != before {
		m.grid.SetScroll(float64(m.scrollY))
		m.view = m.grid.Model()
	}
	m.scrollX = min(max(m.scrollX, 0), m.getMaxScrollX())
}

// pageLen returns the number of rows on the current page.
func (m tableModel[T]) pageLen() int {
	p := m.view.Pagination
	if p.FirstIndex == 0 {
		return 0
	}
	return p.LastIndex - p.FirstIndex + 1
}

// rowAt returns the materialized row at a page position.
func (m tableModel[T]) rowAt(pos int) (grid.RenderRow[T], bool) {
	i := pos - m.view.Virtual.Start
	if i < 0 || i >= len(m.view.Rows) {
		return grid.RenderRow[T]{}, false
	}
	return m.view.Rows[i], true
}

func (m tableModel[T]) getColDisplayWidth(colIdx int) int {
	if colIdx < 0 || colIdx >= len(m.view.Headers) {
		return 0
	}
	return max(int(m.view.Headers[colIdx].Width+0.5), 1)
}

func (m tableModel[T]) getColStartX(colIdx int) int {
	x := gutterWidth
	for i := 0; i < colIdx && i < len(m.view.Headers); i++ {
		x += m.getColDisplayWidth(i) + colGap
	}
	return x
}

func (m tableModel[T]) getColEndX(colIdx int) int {
	return m.getColStartX(colIdx) + m.getColDisplayWidth(colIdx)
}

func (m tableModel[T]) getTotalWidth() int {
	return m.getColStartX(len(m.view.Headers))
}

func (m tableModel[T]) viewportWidth() int {
	return max(m.width-2, 1)
}

func (m tableModel[T]) getMaxScrollX() int {
	return max(m.getTotalWidth()-m.viewportWidth(), 0)
}

func (m tableModel[T]) visibleRowCount() int {
	return max(m.height-chromeLines, 1)
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

type statusClearMsg struct{}

const statusDuration = 2 * time.Second

// setStatus sets a temporary status message that auto-clears.
func (m *tableModel[T]) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

// yankCell copies the selected cell value to the system clipboard.
func (m *tableModel[T]) yankCell() tea.Cmd {
	row, ok := m.rowAt(m.cursor)
	if !ok || m.colCursor >= len(row.Cells) {
		return nil
	}
	val := row.Cells[m.colCursor].Text
	if err := clipboard.WriteAll(val); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus("Copied: " + runewidth.Truncate(cellText(val), 40, "..."))
}

// yankRow copies the entire selected row (tab-separated) to the clipboard.
func (m *tableModel[T]) yankRow() tea.Cmd {
	row, ok := m.rowAt(m.cursor)
	if !ok {
		return nil
	}
	vals := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		vals[i] = cellText(c.Text)
	}
	if err := clipboard.WriteAll(strings.Join(vals, "\t")); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Copied row (%d columns)", len(vals)))
}

// ═══════════════════════════════════════════════════════════════════════════
// Scroll Helpers
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel[T]) ensureRowVisible() {
	visibleRows := m.visibleRowCount()
	if m.cursor < m.scrollY {
		m.scrollY = m.cursor
	} else if m.cursor >= m.scrollY+visibleRows {
		m.scrollY = m.cursor - visibleRows + 1
	}
	m.scrollY = min(max(m.scrollY, 0), max(m.pageLen()-visibleRows, 0))
}

func (m *tableModel[T]) ensureColVisible() {
	colStartX := m.getColStartX(m.colCursor)
	colEndX := m.getColEndX(m.colCursor)
	viewportWidth := m.viewportWidth()

	if colStartX-gutterWidth < m.scrollX {
		m.scrollX = colStartX - gutterWidth
	} else if colEndX > m.scrollX+viewportWidth {
		if colEndX-colStartX <= viewportWidth {
			m.scrollX = colEndX - viewportWidth
		} else {
			m.scrollX = colStartX
		}
	}
	m.scrollX = min(max(m.scrollX, 0), m.getMaxScrollX())
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel[T]) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder

	sb.WriteString(m.renderTitle())
	sb.WriteString("\n")
	sb.WriteString(m.renderFilterBar())
	sb.WriteString("\n")
	sb.WriteString(m.renderTable())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())

	return sb.String()
}

func (m tableModel[T]) renderTitle() string {
	v := m.view
	var sb strings.Builder
	if v.FilteredRows != v.TotalRows {
		sb.WriteString(styles.Render(styles.TitleStyle, fmt.Sprintf("%s: %d/%d rows, %d columns", m.title, v.FilteredRows, v.TotalRows, len(v.Headers))))
	} else {
		sb.WriteString(styles.Render(styles.TitleStyle, fmt.Sprintf("%s: %d rows, %d columns", m.title, v.TotalRows, len(v.Headers))))
	}

	var info []string
	if hidden := len(m.grid.Visibility()) - len(v.Headers); hidden > 0 {
		info = append(info, fmt.Sprintf("%d hidden", hidden))
	}
	if v.Sort.Active() {
		if h, ok := v.Header(v.Sort.ColumnID); ok {
			info = append(info, fmt.Sprintf("sort %s %s", h.Label, styles.SortIndicator(v.Sort.Direction.String())))
		}
	}
	if v.SelectedCount > 0 {
		info = append(info, fmt.Sprintf("%d selected", v.SelectedCount))
	}
	if len(info) > 0 {
		sb.WriteString(styles.MutedMsg(fmt.Sprintf("  [%s]", strings.Join(info, ", "))))
	}
	return sb.String()
}

func (m tableModel[T]) renderFilterBar() string {
	if m.mode == tableModeFilter {
		label := m.filterCol
		if h, ok := m.view.Header(m.filterCol); ok {
			label = h.Label
		}
		return fmt.Sprintf("/%s: %s", label, m.filterInput.View())
	}

	var parts []string
	for _, h := range m.view.Headers {
		switch {
		case h.FilterInput != "" && h.FilterInput != h.Filter.Text:
			parts = append(parts, fmt.Sprintf("%s~%s…", h.Label, h.FilterInput))
		case h.Filter.Text != "":
			parts = append(parts, fmt.Sprintf("%s~%s", h.Label, h.Filter.Text))
		case len(h.Filter.Accept) > 0:
			parts = append(parts, fmt.Sprintf("%s=[%s]", h.Label, strings.Join(h.Filter.Accept, ",")))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return styles.MutedMsg("filter: " + strings.Join(parts, "  "))
}

func (m tableModel[T]) renderFooter() string {
	if m.statusMsg != "" && time.Now().Before(m.statusUntil) {
		return styles.SuccessMsg(m.statusMsg)
	}

	switch m.mode {
	case tableModeFilter:
		return styles.MutedMsg("enter apply  esc clear")
	case tableModeResize:
		msg := "< > resize  enter apply  esc cancel"
		if h, ok := m.currentHeader(); ok {
			w := h.Width
			if h.PendingWidth > 0 {
				w = h.PendingWidth
			}
			msg = fmt.Sprintf("%s width %d  %s", h.Label, int(w+0.5), msg)
		}
		return styles.Render(styles.ResizingStyle, msg)
	}

	p := m.view.Pagination
	pos := rangeText(p)
	if p.Enabled {
		pos += fmt.Sprintf("  page %d/%d", p.PageIndex+1, p.PageCount)
	}
	help := "hjkl nav  s sort  / filter  space select  H hide  V show  </> resize  n/p page  y copy  J/R/P print  q quit"
	return styles.InfoMsg(pos) + "  " + styles.MutedMsg(help)
}

// ═══════════════════════════════════════════════════════════════════════════
// Render Table
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel[T]) renderTable() string {
	var sb strings.Builder

	if len(m.view.Headers) == 0 {
		return "No columns (V shows all)"
	}

	viewportWidth := m.viewportWidth()
	cut := func(line string) string {
		return ansi.Cut(line, m.scrollX, m.scrollX+viewportWidth)
	}

	sb.WriteString(cut(m.buildHeaderLine()))
	sb.WriteString("\n")
	sb.WriteString(cut(m.buildSeparatorLine()))
	sb.WriteString("\n")

	visibleRows := m.visibleRowCount()
	pageLen := m.pageLen()

	if m.view.ShowsEmptyMessage() {
		sb.WriteString(strings.Repeat(" ", gutterWidth))
		sb.WriteString(styles.MutedMsg(m.view.EmptyMessage))
		sb.WriteString("\n")
	}

	endRow := min(m.scrollY+visibleRows, pageLen)
	for pos := m.scrollY; pos < endRow; pos++ {
		row, ok := m.rowAt(pos)
		if !ok {
			continue
		}
		sb.WriteString(cut(m.buildRowLine(row, pos == m.cursor)))
		sb.WriteString("\n")
	}

	// Scroll indicators
	var indicators []string
	if m.scrollX > 0 {
		indicators = append(indicators, "◀")
	}
	if m.scrollX+viewportWidth < m.getTotalWidth() {
		indicators = append(indicators, "▶")
	}
	if m.scrollY > 0 {
		indicators = append(indicators, "▲")
	}
	if m.scrollY+visibleRows < pageLen {
		indicators = append(indicators, "▼")
	}
	if len(indicators) > 0 {
		sb.WriteString(styles.MutedMsg(strings.Join(indicators, " ")))
	}

	return sb.String()
}

func (m tableModel[T]) headerText(h grid.HeaderCell) string {
	var prefix []string
	if arrow := styles.SortIndicator(h.Sort.String()); arrow != "" {
		prefix = append(prefix, arrow)
	}
	if h.Filter.Active() {
		prefix = append(prefix, styles.SymbolFilter)
	}
	if len(prefix) == 0 {
		return h.Label
	}
	return strings.Join(prefix, "") + " " + h.Label
}

func (m tableModel[T]) buildHeaderLine() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", gutterWidth))

	for i, h := range m.view.Headers {
		text := fit(m.headerText(h), m.getColDisplayWidth(i))
		switch {
		case h.Resizing:
			sb.WriteString(styles.Render(styles.ResizingStyle, text))
		case i == m.colCursor:
			sb.WriteString(styles.Render(styles.HeaderActiveStyle, text))
		default:
			sb.WriteString(styles.Render(styles.HeaderStyle, text))
		}
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	return sb.String()
}

func (m tableModel[T]) buildSeparatorLine() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", gutterWidth))

	for i := range m.view.Headers {
		sep := strings.Repeat("─", m.getColDisplayWidth(i))
		if i == m.colCursor {
			sb.WriteString(styles.Render(styles.SeparatorActive, sep))
		} else {
			sb.WriteString(styles.Render(styles.SeparatorStyle, sep))
		}
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	return sb.String()
}

func (m tableModel[T]) buildRowLine(row grid.RenderRow[T], isCursorRow bool) string {
	var sb strings.Builder

	marker := strings.Repeat(" ", gutterWidth)
	if row.Selected {
		marker = fit(styles.SymbolSelected, gutterWidth)
	}
	sb.WriteString(marker)

	var rowStyle lipgloss.Style
	if len(row.Style) > 0 {
		rowStyle = styles.FromStyleMap(row.Style)
	}

	gap := strings.Repeat(" ", colGap)
	for i, c := range row.Cells {
		text := fit(cellText(c.Text), m.getColDisplayWidth(i))
		switch {
		case isCursorRow && i == m.colCursor:
			sb.WriteString(styles.Render(styles.CursorCellStyle, text))
		case isCursorRow:
			sb.WriteString(styles.Render(styles.CursorRowStyle, text+gap))
			continue
		case row.Selected:
			sb.WriteString(styles.Render(styles.SelectedRowStyle, text+gap))
			continue
		case len(c.Style) > 0:
			sb.WriteString(styles.Render(styles.FromStyleMap(c.Style), text))
		case len(row.Style) > 0:
			sb.WriteString(styles.Render(rowStyle, text))
		default:
			sb.WriteString(text)
		}
		sb.WriteString(gap)
	}

	return sb.String()
}
