package grid

import "math"

const (
	// DefaultOverscan is the number of extra rows materialized past the
	// viewport.
	DefaultOverscan = 3
	// DefaultVirtualThreshold is the row count below which virtualization
	// is skipped and every row materializes.
	DefaultVirtualThreshold = 50
)

// VirtualState is the scroll viewport. RowHeight values <= 0 are treated
// as 1.
type VirtualState struct {
	ScrollOffset   float64 `json:"scroll_offset"`
	ViewportHeight float64 `json:"viewport_height"`
	RowHeight      float64 `json:"row_height"`
}

// VirtualWindow is the materialized index range [Start, End) of a row
// sequence plus the padding standing in for the rows outside it.
// TopPadding + (End-Start)*RowHeight + BottomPadding == TotalHeight.
type VirtualWindow struct {
	Enabled       bool    `json:"enabled"`
	Start         int     `json:"start"`
	End           int     `json:"end"`
	RowHeight     float64 `json:"row_height"`
	TopPadding    float64 `json:"top_padding"`
	BottomPadding float64 `json:"bottom_padding"`
	TotalHeight   float64 `json:"total_height"`
}

// Count returns the number of materialized rows.
func (w VirtualWindow) Count() int { return w.End - w.Start }

// Window computes the visible range for n rows. Overscan values < 0 are
// treated as 0. Scroll offsets are clamped to [0, n*rowHeight].
func Window(n int, vs VirtualState, overscan int) VirtualWindow {
	h := vs.RowHeight
	if h <= 0 {
		h = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	total := float64(n) * h

	offset := vs.ScrollOffset
	if offset < 0 || math.IsNaN(offset) {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	first := int(math.Floor(offset / h))
	if first > n {
		first = n
	}

	visible := overscan
	if vs.ViewportHeight > 0 {
		visible += int(math.Ceil(vs.ViewportHeight / h))
	}
	last := min(first+visible, n)

	return VirtualWindow{
		Enabled:       true,
		Start:         first,
		End:           last,
		RowHeight:     h,
		TopPadding:    float64(first) * h,
		BottomPadding: float64(n-last) * h,
		TotalHeight:   total,
	}
}

// Virtualize materializes only the rows inside the window. When the row
// count is below threshold every row materializes and both paddings are
// zero; the returned window then has Enabled false.
func Virtualize[T any](rows []Row[T], vs VirtualState, overscan, threshold int) ([]Row[T], VirtualWindow) {
	if len(rows) < threshold {
		h := vs.RowHeight
		if h <= 0 {
			h = 1
		}
		out := make([]Row[T], len(rows))
		copy(out, rows)
		return out, VirtualWindow{
			End:         len(rows),
			RowHeight:   h,
			TotalHeight: float64(len(rows)) * h,
		}
	}

	w := Window(len(rows), vs, overscan)
	out := make([]Row[T], w.Count())
	copy(out, rows[w.Start:w.End])
	return out, w
}
