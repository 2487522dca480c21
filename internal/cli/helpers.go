package cli

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/imgajeed76/datagrid/internal/config"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/source"
	"github.com/imgajeed76/datagrid/internal/ui/table"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/spf13/cobra"
)

// viewFlags are the view-shaping flags shared by view and query.
type viewFlags struct {
	key      string
	sort     string
	filters  []string
	hide     []string
	page     int
	pageSize int
	caption  string

	json    bool
	raw     bool
	noPager bool
}

func addViewFlags(cmd *cobra.Command, f *viewFlags) {
	cmd.Flags().StringVar(&f.key, "key", "", "Column whose values identify rows (default: row number)")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "Initial sort: column[:asc|:desc]")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "Filter as column=text (repeatable, a,b lists values on yes/no columns)")
	cmd.Flags().StringArrayVar(&f.hide, "hide", nil, "Hide a column (repeatable)")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page to open (1-based)")
	cmd.Flags().IntVarP(&f.pageSize, "page-size", "n", 0, "Rows per page (default: grid.page_size)")
	cmd.Flags().StringVar(&f.caption, "caption", "", "Caption printed above the table")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the page as a JSON array of objects")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Print the page as tab-separated values (for piping)")
	cmd.Flags().BoolVar(&f.noPager, "no-pager", false, "Disable the interactive table view")
}

// parseSort parses column[:asc|:desc]. A suffix that is not a direction
// is kept as part of the column name.
func parseSort(v string) (grid.SortState, error) {
	st := grid.SortState{ColumnID: v, Direction: grid.SortAscending}
	if i := strings.LastIndex(v, ":"); i >= 0 {
		if dir := grid.ParseSortDirection(v[i+1:]); dir != grid.SortNone {
			st.ColumnID, st.Direction = v[:i], dir
		}
	}
	if st.ColumnID == "" {
		return grid.SortState{}, util.InvalidArgumentError("--sort", v, "datagrid view people.csv --sort age:desc").Wrap(util.ErrInvalidSortArg)
	}
	return st, nil
}

// parseFilter splits column=text.
func parseFilter(v string) (string, string, error) {
	col, text, ok := strings.Cut(v, "=")
	if !ok || col == "" {
		return "", "", util.InvalidArgumentError("--filter", v, "datagrid view people.csv --filter city=oslo").Wrap(util.ErrInvalidFilter)
	}
	return col, text, nil
}

// filterFor builds the filter a --filter value describes for column c.
func filterFor(c grid.Column[source.Record], text string) grid.Filter {
	if c.Filter != grid.FilterSelect {
		return grid.TextFilter(text)
	}
	var vals []string
	for _, v := range strings.Split(text, ",") {
		if v = strings.TrimSpace(v); v != "" {
			vals = append(vals, v)
		}
	}
	return grid.SelectFilter(vals...)
}

func columnOptions(d config.DisplayConfig) source.ColumnOptions {
	return source.ColumnOptions{
		Width:    float64(d.ColWidth),
		MinWidth: float64(d.MinColWidth),
		MaxWidth: float64(d.MaxColWidth),
		Fit:      d.ColWidth == 0,
	}
}

// gridRows wraps tbl for the grid, turning key problems into CLI errors.
func gridRows(tbl *source.Table, key string) ([]grid.Row[source.Record], error) {
	if key != "" && tbl.ColumnIndex(key) < 0 {
		return nil, util.UnknownColumnError("--key", key, tbl.Columns)
	}
	rows, err := tbl.GridRows(key)
	if errors.Is(err, source.ErrDuplicateKey) {
		return nil, util.NewError("Key column has duplicate values").
			WithContext("--key "+key).
			WithMessage("Without --key rows are identified by their position.").
			Wrap(err)
	}
	return rows, err
}

// buildGrid creates the terminal grid for tbl from the config and flags.
func buildGrid(tbl *source.Table, f viewFlags, sched grid.Scheduler) (*grid.Grid[source.Record], error) {
	rows, err := gridRows(tbl, f.key)
	if err != nil {
		return nil, err
	}

	opts := config.GridOptions[source.Record](cfg.Grid)
	opts.Styles = source.ValueStyles()
	opts.Caption = f.caption
	opts.Scheduler = sched
	opts.Logger = slog.Default()
	if f.pageSize > 0 {
		opts.PageSize = f.pageSize
	}

	g, err := grid.New(rows, tbl.GridColumns(columnOptions(cfg.Display)), opts)
	if err != nil {
		return nil, err
	}
	if err := applyViewFlags(g, tbl, f); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// applyViewFlags moves g into the state the flags describe: filters and
// sort first so the page clamps against the filtered rows.
func applyViewFlags(g *grid.Grid[source.Record], tbl *source.Table, f viewFlags) error {
	cols := make(map[string]grid.Column[source.Record])
	for _, c := range g.Columns() {
		cols[c.ID] = c
	}

	filters := grid.FilterState{}
	for _, v := range f.filters {
		id, text, err := parseFilter(v)
		if err != nil {
			return err
		}
		c, ok := cols[id]
		if !ok {
			return util.UnknownColumnError("--filter", id, tbl.Columns)
		}
		filters[id] = filterFor(c, text)
	}
	if len(filters) > 0 {
		g.SetFilters(filters)
	}

	if f.sort != "" {
		st, err := parseSort(f.sort)
		if err != nil {
			return err
		}
		if _, ok := cols[st.ColumnID]; !ok {
			return util.UnknownColumnError("--sort", st.ColumnID, tbl.Columns)
		}
		if err := g.SetSort(st); err != nil {
			return err
		}
	}

	for _, id := range f.hide {
		if _, ok := cols[id]; !ok {
			return util.UnknownColumnError("--hide", id, tbl.Columns)
		}
		g.SetColumnVisible(id, false)
	}

	if f.page < 1 {
		return util.InvalidArgumentError("--page", strconv.Itoa(f.page), "datagrid view people.csv --page 2")
	}
	g.SetPage(f.page - 1)
	return nil
}

// showTable renders tbl in the mode the flags and terminal call for.
func showTable(title string, tbl *source.Table, f viewFlags) error {
	sched := table.NewScheduler()
	g, err := buildGrid(tbl, f, sched)
	if err != nil {
		return err
	}
	defer g.Close()

	return table.Display(title, g, sched, table.DisplayOptions{
		JSON:    f.json,
		Raw:     f.raw,
		NoPager: f.noPager,
	})
}
