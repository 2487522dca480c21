package web

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelResponse mirrors the parts of grid.RenderModel the tests read.
type modelResponse struct {
	Headers []struct {
		ID       string `json:"id"`
		Sort     string `json:"sort"`
		Sortable bool   `json:"sortable"`
	} `json:"headers"`
	Rows []struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
		Selected bool   `json:"selected"`
		Cells    []struct {
			ID      string   `json:"id"`
			Value   any      `json:"value"`
			Text    string   `json:"text"`
			Classes []string `json:"classes"`
		} `json:"cells"`
	} `json:"rows"`
	EmptyMessage string             `json:"empty_message"`
	Pagination   grid.PageSummary   `json:"pagination"`
	Virtual      grid.VirtualWindow `json:"virtual"`
	FilteredRows int                `json:"filtered_rows"`
	TotalRows    int                `json:"total_rows"`
}

func (m modelResponse) ids() []string {
	out := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.ID
	}
	return out
}

func peopleTable() *source.Table {
	return &source.Table{
		Name:    "people",
		Columns: []string{"name", "age", "active"},
		Records: []source.Record{
			{"Alice", int64(30), true},
			{"bob", int64(25), false},
			{"Carol", int64(41), true},
			{"dave", nil, false},
		},
	}
}

func newTestServer(t *testing.T, tbl *source.Table, configure func(*grid.Options[source.Record])) *Server {
	t.Helper()
	rows, err := tbl.GridRows(tbl.Columns[0])
	require.NoError(t, err)
	opts := grid.Options[source.Record]{
		EnableColumnFiltering: true,
		EnableSorting:         true,
		EnablePagination:      true,
		PageSize:              10,
		RowSelection:          true,
		EmptyMessage:          "No data",
		Styles:                source.ValueStyles(),
	}
	if configure != nil {
		configure(&opts)
	}
	s, err := NewServer(tbl.Name, rows, tbl.GridColumns(source.ColumnOptions{}), opts, nil)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func getModel(t *testing.T, s *Server, target string) modelResponse {
	t.Helper()
	rec := get(t, s, target)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var m modelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestModelDefault(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)
	m := getModel(t, s, "/api/model")

	assert.Equal(t, []string{"Alice", "bob", "Carol", "dave"}, m.ids())
	assert.Equal(t, 4, m.TotalRows)
	assert.Equal(t, 1, m.Pagination.FirstIndex)
	assert.Equal(t, 4, m.Pagination.LastIndex)
	require.Len(t, m.Headers, 3)
	assert.Equal(t, "none", m.Headers[0].Sort)

	// nil age is styled by class
	assert.Equal(t, []string{"null"}, m.Rows[3].Cells[1].Classes)
	assert.Nil(t, m.Rows[3].Cells[1].Value)
	assert.Equal(t, float64(30), m.Rows[0].Cells[1].Value)
}

func TestModelFilterSortPage(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)

	m := getModel(t, s, "/api/model?filter.name=A&sort=age:desc")
	assert.Equal(t, []string{"Carol", "Alice", "dave"}, m.ids())
	assert.Equal(t, 3, m.FilteredRows)
	assert.Equal(t, "descending", m.Headers[1].Sort)

	m = getModel(t, s, "/api/model?sort=age&page_size=2&page=1")
	assert.Equal(t, []string{"Alice", "Carol"}, m.ids())
	assert.Equal(t, "3 - 4 of 4", rangeOf(m.Pagination))

	// Out of range pages clamp to the last page.
	m = getModel(t, s, "/api/model?page_size=3&page=9")
	assert.Equal(t, 1, m.Pagination.PageIndex)
	assert.Equal(t, []string{"dave"}, m.ids())
}

func rangeOf(p grid.PageSummary) string {
	return strconv.Itoa(p.FirstIndex) + " - " + strconv.Itoa(p.LastIndex) + " of " + strconv.Itoa(p.TotalCount)
}

func TestModelSelectFilter(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)
	m := getModel(t, s, "/api/model?filter.active=true")
	assert.Equal(t, []string{"Alice", "Carol"}, m.ids())

	m = getModel(t, s, "/api/model?filter.active=true&filter.active=false")
	assert.Len(t, m.Rows, 4)
}

func TestModelEmptyMessage(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)
	m := getModel(t, s, "/api/model?filter.name=zzz")
	assert.Empty(t, m.Rows)
	assert.Equal(t, "No data", m.EmptyMessage)
}

func TestModelHideAndSelect(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)
	m := getModel(t, s, "/api/model?hide=age,active&selected=bob")
	require.Len(t, m.Headers, 1)
	assert.Equal(t, "name", m.Headers[0].ID)
	assert.False(t, m.Rows[0].Selected)
	assert.True(t, m.Rows[1].Selected)
}

func TestModelVirtualWindow(t *testing.T) {
	tbl := &source.Table{Name: "numbers", Columns: []string{"n"}}
	for i := range 200 {
		tbl.Records = append(tbl.Records, source.Record{int64(i)})
	}
	s := newTestServer(t, tbl, func(o *grid.Options[source.Record]) {
		o.EnablePagination = false
		o.EnableVirtual = true
		o.RowHeight = 10
		o.Overscan = -1
	})

	m := getModel(t, s, "/api/model?viewport=50&scroll=1000")
	require.True(t, m.Virtual.Enabled)
	assert.Equal(t, 100, m.Virtual.Start)
	assert.Equal(t, 105, m.Virtual.End)
	assert.Equal(t, float64(1000), m.Virtual.TopPadding)
	require.Len(t, m.Rows, 5)
	assert.Equal(t, 100, m.Rows[0].Position)

	// Without a viewport every row materializes.
	m = getModel(t, s, "/api/model")
	assert.Len(t, m.Rows, 200)
}

func TestModelBadRequests(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)
	tests := []struct {
		target string
		code   string
	}{
		{"/api/model?filter.ghost=x", "UNKNOWN_COLUMN"},
		{"/api/model?sort=ghost", "UNKNOWN_COLUMN"},
		{"/api/model?sort=age:sideways", "INVALID_PARAMETER"},
		{"/api/model?hide=ghost", "UNKNOWN_COLUMN"},
		{"/api/model?page=two", "INVALID_PARAMETER"},
		{"/api/model?scroll=-5", "INVALID_PARAMETER"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestModelUnencodableValue(t *testing.T) {
	tbl := &source.Table{
		Name:    "scores",
		Columns: []string{"name", "score"},
		Records: []source.Record{{"Alice", math.NaN()}},
	}
	s := newTestServer(t, tbl, nil)

	rec := get(t, s, "/api/model")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "cannot encode response", body.Error)
}

func TestColumns(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)
	rec := get(t, s, "/api/columns")
	require.Equal(t, http.StatusOK, rec.Code)

	var cols []ColumnInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cols))
	require.Len(t, cols, 3)
	assert.Equal(t, "active", cols[2].ID)
	assert.Equal(t, grid.FilterSelect, cols[2].FilterKind)
	assert.True(t, cols[0].Visible)
	assert.True(t, cols[0].Sortable)
}

func TestFilterOptions(t *testing.T) {
	s := newTestServer(t, peopleTable(), nil)

	rec := get(t, s, "/api/columns/active/options")
	require.Equal(t, http.StatusOK, rec.Code)
	var body OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, OptionsResponse{Column: "active", Options: []string{"false", "true"}}, body)

	rec = get(t, s, "/api/columns/ghost/options")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServerRejectsBadSchema(t *testing.T) {
	cols := []grid.Column[source.Record]{{ID: "a"}, {ID: "a"}}
	_, err := NewServer("x", nil, cols, grid.Options[source.Record]{}, nil)
	require.ErrorIs(t, err, grid.ErrDuplicateColumn)
}
