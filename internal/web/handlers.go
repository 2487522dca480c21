package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/source"
)

const filterPrefix = "filter."

// ColumnInfo describes one column for GET /api/columns.
type ColumnInfo struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Width      float64         `json:"width"`
	Visible    bool            `json:"visible"`
	Sortable   bool            `json:"sortable"`
	Filterable bool            `json:"filterable"`
	FilterKind grid.FilterKind `json:"filter_kind"`
}

// OptionsResponse is the body of GET /api/columns/{id}/options.
type OptionsResponse struct {
	Column  string   `json:"column"`
	Options []string `json:"options"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleModel composes the view described by the query string:
//
//	filter.<col>=text   text filter; repeat on select columns for a value set
//	sort=<col>[:asc|:desc]
//	page=<index>        0-based
//	page_size=<n>
//	hide=<col>          repeatable or comma separated
//	selected=<row id>   repeatable
//	scroll=<px> viewport=<px>
//
// Without viewport every row of the page materializes.
func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	g, err := s.newGrid(r.URL.Query().Has("viewport"))
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	defer g.Close()

	if err := applyQuery(g, r.URL.Query()); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, r, http.StatusOK, g.Model())
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	g, err := s.newGrid(false)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	defer g.Close()

	vis := g.Visibility()
	cols := g.Columns()
	out := make([]ColumnInfo, len(cols))
	for i, c := range cols {
		out[i] = ColumnInfo{
			ID:         c.ID,
			Label:      c.Label(),
			Width:      g.ColumnWidth(c.ID),
			Visible:    vis[c.ID],
			Sortable:   s.opts.EnableSorting && c.Sortable(),
			Filterable: s.opts.EnableColumnFiltering && c.Filterable(),
			FilterKind: c.Filter,
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.newGrid(false)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	defer g.Close()

	if !hasColumn(g, id) {
		respondError(w, r, fmt.Errorf("%w: %q", grid.ErrUnknownColumn, id), http.StatusNotFound)
		return
	}
	opts := g.FilterOptions(id)
	if opts == nil {
		opts = []string{}
	}
	writeJSON(w, r, http.StatusOK, OptionsResponse{Column: id, Options: opts})
}

// newGrid builds a request-scoped grid. virtual further gates the
// configured virtualization.
func (s *Server) newGrid(virtual bool) (*grid.Grid[source.Record], error) {
	opts := s.opts
	opts.EnableVirtual = opts.EnableVirtual && virtual
	return grid.New(s.rows, s.cols, opts)
}

// applyQuery moves g into the state encoded in q. Order matters: filters
// and sort first so the page index clamps against the filtered rows.
func applyQuery[T any](g *grid.Grid[T], q url.Values) error {
	filters := grid.FilterState{}
	for k, vals := range q {
		id, ok := strings.CutPrefix(k, filterPrefix)
		if !ok {
			continue
		}
		c, ok := column(g, id)
		if !ok {
			return fmt.Errorf("filter: %w: %q", grid.ErrUnknownColumn, id)
		}
		vals = nonEmpty(vals)
		switch {
		case len(vals) == 0:
		case c.Filter == grid.FilterSelect:
			filters[id] = grid.SelectFilter(vals...)
		default:
			filters[id] = grid.TextFilter(vals[0])
		}
	}
	g.SetFilters(filters)

	if v := q.Get("sort"); v != "" {
		id, dir, _ := strings.Cut(v, ":")
		st := grid.SortState{ColumnID: id, Direction: grid.SortAscending}
		if dir != "" {
			st.Direction = grid.ParseSortDirection(dir)
			if st.Direction == grid.SortNone {
				return fmt.Errorf("sort: %w: direction %q", errBadParam, dir)
			}
		}
		if err := g.SetSort(st); err != nil {
			return err
		}
	}

	for _, v := range q["hide"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id == "" {
				continue
			}
			if !hasColumn(g, id) {
				return fmt.Errorf("hide: %w: %q", grid.ErrUnknownColumn, id)
			}
			g.SetColumnVisible(id, false)
		}
	}

	if ids := nonEmpty(q["selected"]); len(ids) > 0 {
		g.SetSelection(grid.NewSelection(ids...))
	}

	if v := q.Get("page_size"); v != "" {
		n, err := intParam("page_size", v)
		if err != nil {
			return err
		}
		g.SetPageSize(n)
	}
	if v := q.Get("page"); v != "" {
		n, err := intParam("page", v)
		if err != nil {
			return err
		}
		g.SetPage(n)
	}

	var viewport, scroll float64
	if v := q.Get("viewport"); v != "" {
		f, err := floatParam("viewport", v)
		if err != nil {
			return err
		}
		viewport = f
	}
	if v := q.Get("scroll"); v != "" {
		f, err := floatParam("scroll", v)
		if err != nil {
			return err
		}
		scroll = f
	}
	g.SetViewport(viewport, 0)
	g.SetScroll(scroll)
	return nil
}

func column[T any](g *grid.Grid[T], id string) (grid.Column[T], bool) {
	for _, c := range g.Columns() {
		if c.ID == id {
			return c, true
		}
	}
	return grid.Column[T]{}, false
}

func hasColumn[T any](g *grid.Grid[T], id string) bool {
	_, ok := column(g, id)
	return ok
}

func nonEmpty(vals []string) []string {
	out := vals[:0:0]
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func intParam(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %q is not an integer", name, errBadParam, v)
	}
	return n, nil
}

func floatParam(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%s: %w: %q is not a non-negative number", name, errBadParam, v)
	}
	return f, nil
}
