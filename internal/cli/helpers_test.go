package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/imgajeed76/datagrid/internal/config"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/source"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peopleTable() *source.Table {
	return &source.Table{
		Name:    "people",
		Columns: []string{"name", "age", "city", "active"},
		Records: []source.Record{
			{"Alice", int64(30), "Oslo", true},
			{"bob", int64(25), "Bergen", false},
			{"Carol", int64(41), "Oslo", true},
		},
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want grid.SortState
	}{
		{"age", grid.SortState{ColumnID: "age", Direction: grid.SortAscending}},
		{"age:asc", grid.SortState{ColumnID: "age", Direction: grid.SortAscending}},
		{"age:desc", grid.SortState{ColumnID: "age", Direction: grid.SortDescending}},
		{"time:of:day", grid.SortState{ColumnID: "time:of:day", Direction: grid.SortAscending}},
		{"a:b:descending", grid.SortState{ColumnID: "a:b", Direction: grid.SortDescending}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSort(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseSort(":desc")
	require.ErrorIs(t, err, util.ErrInvalidSortArg)
}

func TestParseFilter(t *testing.T) {
	col, text, err := parseFilter("city=Oslo=East")
	require.NoError(t, err)
	assert.Equal(t, "city", col)
	assert.Equal(t, "Oslo=East", text)

	col, text, err = parseFilter("city=")
	require.NoError(t, err)
	assert.Equal(t, "city", col)
	assert.Empty(t, text)

	for _, bad := range []string{"city", "=x", ""} {
		_, _, err := parseFilter(bad)
		assert.ErrorIs(t, err, util.ErrInvalidFilter, bad)
	}
}

func TestFilterFor(t *testing.T) {
	text := grid.Column[source.Record]{ID: "city"}
	assert.Equal(t, grid.TextFilter("a,b"), filterFor(text, "a,b"))

	sel := grid.Column[source.Record]{ID: "active", Filter: grid.FilterSelect}
	assert.Equal(t, grid.SelectFilter("true", "false"), filterFor(sel, " true, ,false"))
}

func TestColumnOptions(t *testing.T) {
	d := config.Default().Display
	assert.Equal(t, source.ColumnOptions{MinWidth: 4, MaxWidth: 40, Fit: true}, columnOptions(d))

	d.ColWidth = 12
	assert.Equal(t, source.ColumnOptions{Width: 12, MinWidth: 4, MaxWidth: 40}, columnOptions(d))
}

func TestBuildGridAppliesFlags(t *testing.T) {
	f := viewFlags{
		key:     "name",
		sort:    "age:desc",
		filters: []string{"city=oslo", "active=true"},
		hide:    []string{"city"},
		page:    1,
		caption: "People",
	}
	g, err := buildGrid(peopleTable(), f, grid.NewManualScheduler())
	require.NoError(t, err)
	defer g.Close()

	m := g.Page()
	require.Len(t, m.Rows, 2)
	assert.Equal(t, "Carol", m.Rows[0].ID)
	assert.Equal(t, "Alice", m.Rows[1].ID)
	assert.Equal(t, "People", m.Caption)

	var ids []string
	for _, h := range m.Headers {
		ids = append(ids, h.ColumnID)
	}
	assert.Equal(t, []string{"name", "age", "active"}, ids)

	// Fit sizes each column to its widest value, floored at MinWidth.
	assert.Equal(t, float64(5), g.ColumnWidth("name"))
	assert.Equal(t, float64(4), g.ColumnWidth("age"))
}

func TestBuildGridPaging(t *testing.T) {
	g, err := buildGrid(peopleTable(), viewFlags{page: 2, pageSize: 2}, grid.NewManualScheduler())
	require.NoError(t, err)
	defer g.Close()

	m := g.Page()
	assert.Equal(t, 1, m.Pagination.PageIndex)
	require.Len(t, m.Rows, 1)
	assert.Equal(t, "2", m.Rows[0].ID)
}

func TestBuildGridErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags viewFlags
		title string
	}{
		{"unknown key", viewFlags{key: "id", page: 1}, "Unknown column 'id' in --key"},
		{"duplicate key", viewFlags{key: "city", page: 1}, "Key column has duplicate values"},
		{"unknown filter", viewFlags{filters: []string{"zip=1"}, page: 1}, "Unknown column 'zip' in --filter"},
		{"bad filter", viewFlags{filters: []string{"zip"}, page: 1}, `Invalid value for --filter: "zip"`},
		{"unknown sort", viewFlags{sort: "zip:desc", page: 1}, "Unknown column 'zip' in --sort"},
		{"unknown hide", viewFlags{hide: []string{"zip"}, page: 1}, "Unknown column 'zip' in --hide"},
		{"bad page", viewFlags{page: 0}, `Invalid value for --page: "0"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildGrid(peopleTable(), tt.flags, grid.NewManualScheduler())
			var cliErr *util.CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, tt.title, cliErr.Title)
		})
	}
}

func TestIsWriteStatement(t *testing.T) {
	for _, q := range []string{
		"INSERT INTO t VALUES (1)",
		"  delete from t",
		"drop table t",
		"(UPDATE t SET a = 1)",
		"SELECT 1; DROP TABLE t",
		"-- c\nDROP TABLE t",
		"/* note */ delete from t",
		"SELECT 1 /* ; */; /* x */ ALTER TABLE t ADD b",
	} {
		assert.True(t, isWriteStatement(q), q)
	}
	for _, q := range []string{
		"SELECT * FROM t",
		"with x as (select 1) select * from x",
		"",
		"selectinsert",
		"SELECT 'a; DROP TABLE t' FROM t",
		"SELECT 1; -- DROP TABLE t",
		"SELECT 1 /* ; DELETE FROM t */",
		"SELECT 1;",
	} {
		assert.False(t, isWriteStatement(q), q)
	}
}

func TestSQLStatements(t *testing.T) {
	assert.Equal(t, []string{"SELECT 1", " DROP t"}, sqlStatements("SELECT 1; DROP t"))
	assert.Equal(t, []string{"SELECT ';'  ", ""}, sqlStatements("SELECT ';' -- x\n;"))
	assert.Equal(t, []string{"a   b"}, sqlStatements("a /* c */ b"))
	assert.Equal(t, []string{"a  "}, sqlStatements("a /* open"))
}

func TestParseCharsetFlag(t *testing.T) {
	prev := cfg.Input.Charset
	t.Cleanup(func() { cfg.Input.Charset = prev })

	cfg.Input.Charset = "iso-8859-15"
	cs, err := parseCharset("", "x.csv")
	require.NoError(t, err)
	assert.Equal(t, source.CharsetLatin9, cs, "config is the fallback")

	cs, err = parseCharset("latin1", "x.csv")
	require.NoError(t, err)
	assert.Equal(t, source.CharsetLatin1, cs)

	_, err = parseCharset("utf-16", "x.csv")
	require.ErrorIs(t, err, source.ErrUnknownCharset)
	var cliErr *util.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, `Invalid value for --charset: "utf-16"`, cliErr.Title)
}

func TestQueryTitle(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t", queryTitle("SELECT a\n  FROM t"))

	long := queryTitle("SELECT aaaaaaaaaa, bbbbbbbbbb, cccccccccc, dddddddddd, eeeeeeeeee, ffffffffff FROM t")
	assert.Equal(t, 60, len([]rune(long)))
	assert.Equal(t, "…", string([]rune(long)[59:]))
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	_, err := execute(t, "--config", path, "config", "grid.page_size", "25")
	require.NoError(t, err)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, saved.Grid.PageSize)

	out, err := execute(t, "--config", path, "config", "grid.page_size")
	require.NoError(t, err)
	assert.Equal(t, "25\n", out)

	_, err = execute(t, "--config", path, "config", "grid.page_size", "0")
	require.Error(t, err)

	_, err = execute(t, "--config", path, "config", "grid.nope")
	require.ErrorIs(t, err, util.ErrUnknownKey)

	out, err = execute(t, "--config", path, "config", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "grid.page_size=25\n")
	assert.Contains(t, out, "grid.resize_mode=onChange\n")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "datagrid version dev\n")
}
