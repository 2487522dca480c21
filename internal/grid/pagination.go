package grid

// DefaultPageSize is used by hosts that enable pagination without a size.
const DefaultPageSize = 10

// PaginationState is the page cursor. PageSize values below 1 are treated
// as 1.
type PaginationState struct {
	PageIndex int `json:"page_index"`
	PageSize  int `json:"page_size"`
}

// PageSummary describes the current page for display, e.g. "11 - 20 of 25".
// FirstIndex and LastIndex are 1-based and both 0 when there are no rows.
type PageSummary struct {
	Enabled    bool `json:"enabled"`
	PageIndex  int  `json:"page_index"`
	PageSize   int  `json:"page_size"`
	PageCount  int  `json:"page_count"`
	FirstIndex int  `json:"first_index"`
	LastIndex  int  `json:"last_index"`
	TotalCount int  `json:"total_count"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// PageCount returns ceil(total/size), at least 1.
func PageCount(total, size int) int {
	if size < 1 {
		size = 1
	}
	n := (total + size - 1) / size
	if n < 1 {
		n = 1
	}
	return n
}

// ClampPageIndex bounds index to [0, PageCount(total, size)-1].
func ClampPageIndex(index, total, size int) int {
	if index < 0 {
		return 0
	}
	if last := PageCount(total, size) - 1; index > last {
		return last
	}
	return index
}

// Paginate slices rows to the page described by ps. An out-of-range page
// index is clamped; the summary reports the page actually shown.
func Paginate[T any](rows []Row[T], ps PaginationState) ([]Row[T], PageSummary) {
	size := ps.PageSize
	if size < 1 {
		size = 1
	}
	total := len(rows)
	index := ClampPageIndex(ps.PageIndex, total, size)
	count := PageCount(total, size)

	start := index * size
	end := min(start+size, total)
	if start > total {
		start = total
	}

	page := make([]Row[T], end-start)
	copy(page, rows[start:end])

	summary := PageSummary{
		Enabled:    true,
		PageIndex:  index,
		PageSize:   size,
		PageCount:  count,
		TotalCount: total,
		HasPrev:    index > 0,
		HasNext:    index < count-1,
	}
	if end > start {
		summary.FirstIndex = start + 1
		summary.LastIndex = end
	}
	return page, summary
}
