// Package table renders datagrid views in the terminal. It has an
// interactive TUI (sort, debounced filters, selection, column hide and
// resize, paging, virtual scrolling) plus plain text, JSON and raw
// tab-separated output.
//
// This package is used by `datagrid view` and `datagrid query`.
package table

import (
	"io"
	"os"

	"github.com/imgajeed76/datagrid/internal/grid"
	"golang.org/x/term"
)

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// JSON outputs the current page as a JSON array of objects.
	JSON bool
	// Raw outputs the current page as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
}

// Mode is the output mode Display settles on.
type Mode int

const (
	ModePlain Mode = iota
	ModeJSON
	ModeRaw
	ModeInteractive
)

// ChooseMode picks the output mode from options and environment. The TUI
// is only used on a terminal and when there is something to show.
func ChooseMode(opts DisplayOptions, isTTY bool, rows int) Mode {
	switch {
	case opts.Raw:
		return ModeRaw
	case opts.JSON:
		return ModeJSON
	case !isTTY || opts.NoPager || rows == 0:
		return ModePlain
	}
	return ModeInteractive
}

// StdoutIsTerminal reports whether stdout is a TTY.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Display renders g to stdout in the mode ChooseMode selects. The title
// is shown in the interactive header and ignored otherwise. sched must be
// the Scheduler g was built with when the TUI may run.
func Display[T any](title string, g *grid.Grid[T], sched *Scheduler, opts DisplayOptions) error {
	page := g.Page()
	switch ChooseMode(opts, StdoutIsTerminal(), page.FilteredRows) {
	case ModeRaw:
		PrintRaw(os.Stdout, page)
	case ModeJSON:
		return PrintJSON(os.Stdout, page)
	case ModePlain:
		PrintPlain(os.Stdout, page)
	default:
		return RunTUI(title, g, sched)
	}
	return nil
}

// Export writes the current page of g in a non-interactive mode.
func Export[T any](w io.Writer, g *grid.Grid[T], mode Mode) error {
	page := g.Page()
	switch mode {
	case ModeJSON:
		return PrintJSON(w, page)
	case ModeRaw:
		PrintRaw(w, page)
	default:
		PrintPlain(w, page)
	}
	return nil
}
