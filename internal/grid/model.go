package grid

// HeaderCell describes one visible column header.
type HeaderCell struct {
	ColumnID string  `json:"id"`
	Label    string  `json:"label"`
	Width    float64 `json:"width"`

	Sort     SortDirection `json:"sort"`
	Sortable bool          `json:"sortable"`

	Filterable  bool       `json:"filterable"`
	FilterKind  FilterKind `json:"filter_kind"`
	Filter      Filter     `json:"filter"`
	FilterInput string     `json:"filter_input,omitempty"` // raw text, may not be committed yet

	Resizable    bool    `json:"resizable"` // exposes a resize handle
	Resizing     bool    `json:"resizing,omitempty"`
	PendingWidth float64 `json:"pending_width,omitempty"` // staged width in ResizeOnEnd mode

	Resolved
}

// RenderCell is one materialized cell.
type RenderCell struct {
	ColumnID string  `json:"id"`
	Value    any     `json:"value"`
	Text     string  `json:"text"`
	Width    float64 `json:"width"`

	Resolved
}

// RenderRow is one materialized row. Position is the 0-based index in the
// paged sequence; Offset is its top edge in size units.
type RenderRow[T any] struct {
	ID       string       `json:"id"`
	Index    int          `json:"index"`
	Position int          `json:"position"`
	Offset   float64      `json:"offset"`
	Selected bool         `json:"selected"`
	Cells    []RenderCell `json:"cells"`
	Data     T            `json:"-"`

	Resolved
}

// RenderModel is everything a presentation layer needs to draw the grid at
// one point in time. It shares no mutable state with the Grid.
type RenderModel[T any] struct {
	Headers []HeaderCell   `json:"headers"`
	Rows    []RenderRow[T] `json:"rows"`

	// EmptyMessage is set, and Rows is empty, when the filtered row
	// sequence is empty and a fallback message is configured.
	EmptyMessage string `json:"empty_message,omitempty"`

	Pagination PageSummary   `json:"pagination"`
	Virtual    VirtualWindow `json:"virtual"`
	Sort       SortState     `json:"sort"`

	TotalRows     int `json:"total_rows"`
	FilteredRows  int `json:"filtered_rows"`
	SelectedCount int `json:"selected_count"`

	Caption      string `json:"caption,omitempty"`
	StickyHeader bool   `json:"sticky_header,omitempty"`
}

// ShowsEmptyMessage reports whether the fallback message replaces the body.
func (m RenderModel[T]) ShowsEmptyMessage() bool {
	return m.EmptyMessage != ""
}

// Header returns the header for a column id.
func (m RenderModel[T]) Header(id string) (HeaderCell, bool) {
	for _, h := range m.Headers {
		if h.ColumnID == id {
			return h, true
		}
	}
	return HeaderCell{}, false
}
