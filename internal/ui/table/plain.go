package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/mattn/go-runewidth"
)

var cellEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// cellText makes a cell value safe for single-line output.
func cellText(s string) string {
	return cellEscaper.Replace(s)
}

// PrintJSON outputs the materialized rows as a JSON array of objects keyed
// by column id. Values keep their type; NULLs are null.
func PrintJSON[T any](w io.Writer, m grid.RenderModel[T]) error {
	results := make([]map[string]any, len(m.Rows))
	for i, row := range m.Rows {
		obj := make(map[string]any, len(row.Cells))
		for _, c := range row.Cells {
			obj[c.ColumnID] = c.Value
		}
		results[i] = obj
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// PrintRaw outputs one tab-separated line per row, without a header.
func PrintRaw[T any](w io.Writer, m grid.RenderModel[T]) {
	for _, row := range m.Rows {
		vals := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			vals[i] = cellText(c.Text)
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
}

// PrintPlain prints an aligned table for non-TTY output. It shows full
// content without truncation, followed by the page summary.
func PrintPlain[T any](w io.Writer, m grid.RenderModel[T]) {
	if len(m.Headers) == 0 {
		fmt.Fprintln(w, "(0 columns)")
		return
	}

	if m.Caption != "" {
		fmt.Fprintln(w, m.Caption)
		fmt.Fprintln(w)
	}

	labels := make([]string, len(m.Headers))
	colWidths := make([]int, len(m.Headers))
	for i, h := range m.Headers {
		labels[i] = h.Label
		if arrow := styles.SortIndicator(h.Sort.String()); arrow != "" {
			labels[i] += " " + arrow
		}
		colWidths[i] = runewidth.StringWidth(labels[i])
	}
	for _, row := range m.Rows {
		for i, c := range row.Cells {
			if cw := runewidth.StringWidth(cellText(c.Text)); cw > colWidths[i] {
				colWidths[i] = cw
			}
		}
	}

	// Header
	for i, label := range labels {
		if i > 0 {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprint(w, pad(label, colWidths[i]))
	}
	fmt.Fprintln(w)

	// Separator
	for i, cw := range colWidths {
		if i > 0 {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprint(w, strings.Repeat("─", cw))
	}
	fmt.Fprintln(w)

	if m.ShowsEmptyMessage() {
		fmt.Fprintln(w, m.EmptyMessage)
	}
	for _, row := range m.Rows {
		for i, c := range row.Cells {
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			fmt.Fprint(w, pad(cellText(c.Text), colWidths[i]))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, summary(m))
}

// summary is the "(11 - 20 of 25 rows)" trailer.
func summary[T any](m grid.RenderModel[T]) string {
	p := m.Pagination
	var sb strings.Builder
	switch {
	case p.Enabled:
		fmt.Fprintf(&sb, "(%s rows, page %d/%d", rangeText(p), p.PageIndex+1, p.PageCount)
	default:
		fmt.Fprintf(&sb, "(%d rows", m.FilteredRows)
	}
	if m.FilteredRows != m.TotalRows {
		fmt.Fprintf(&sb, ", %d filtered out", m.TotalRows-m.FilteredRows)
	}
	if m.SelectedCount > 0 {
		fmt.Fprintf(&sb, ", %d selected", m.SelectedCount)
	}
	sb.WriteString(")")
	return sb.String()
}

// rangeText renders "first - last of total".
func rangeText(p grid.PageSummary) string {
	return fmt.Sprintf("%d - %d of %d", p.FirstIndex, p.LastIndex, p.TotalCount)
}

// pad adds spaces to reach the desired display width (no truncation).
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// fit pads or truncates s to exactly width display cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		tail := "…"
		if width == 1 {
			tail = ""
		}
		s = runewidth.Truncate(s, width, tail)
	}
	return runewidth.FillRight(s, width)
}
