package grid

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Row pairs caller data with its identity. Index is the position in the
// original row set and is the tie breaker for stable ordering.
type Row[T any] struct {
	Index int
	ID    string
	Data  T
}

// Rows wraps data with index-based identities ("0", "1", ...).
func Rows[T any](data []T) []Row[T] {
	out := make([]Row[T], len(data))
	for i, d := range data {
		out[i] = Row[T]{Index: i, ID: strconv.Itoa(i), Data: d}
	}
	return out
}

// KeyedRows wraps data with identities taken from key. Callers are
// responsible for keys being unique.
func KeyedRows[T any](data []T, key func(T) string) []Row[T] {
	out := make([]Row[T], len(data))
	for i, d := range data {
		out[i] = Row[T]{Index: i, ID: key(d), Data: d}
	}
	return out
}

// Filter is the filter value of one column. When Accept is non-empty the
// column uses set membership (any accepted value matches); otherwise Text
// is matched as a case-insensitive substring.
type Filter struct {
	Text   string   `json:"text,omitempty"`
	Accept []string `json:"accept,omitempty"`
}

// TextFilter is shorthand for a free-text filter.
func TextFilter(text string) Filter { return Filter{Text: text} }

// SelectFilter is shorthand for a set-membership filter.
func SelectFilter(values ...string) Filter { return Filter{Accept: values} }

// Active reports whether the filter constrains anything.
func (f Filter) Active() bool {
	return f.Text != "" || len(f.Accept) > 0
}

// FilterState maps column id to filter value. A missing entry means the
// column is unfiltered. Columns combine with AND.
type FilterState map[string]Filter

// Clone returns an independent copy.
func (fs FilterState) Clone() FilterState {
	if fs == nil {
		return nil
	}
	out := make(FilterState, len(fs))
	for id, f := range fs {
		out[id] = Filter{Text: f.Text, Accept: slices.Clone(f.Accept)}
	}
	return out
}

// Active returns the ids of columns with an active filter, sorted.
func (fs FilterState) Active() []string {
	var ids []string
	for id, f := range fs {
		if f.Active() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// compiledFilter is a filter resolved against its column. A Caser is
// stateful, so each ApplyFilters call folds with its own.
type compiledFilter[T any] struct {
	col    Column[T]
	text   string
	accept map[string]struct{}
	fold   cases.Caser
}

func (cf compiledFilter[T]) match(data T) bool {
	v := FormatValue(cf.col.Value(data))
	if cf.accept != nil {
		_, ok := cf.accept[v]
		return ok
	}
	return strings.Contains(cf.fold.String(v), cf.text)
}

// ApplyFilters returns the rows passing every active filter, in input
// order. Filters on unknown or non-filterable columns are ignored. With no
// active filter the result has the same rows as the input.
func ApplyFilters[T any](rows []Row[T], cols []Column[T], fs FilterState) []Row[T] {
	var active []compiledFilter[T]
	caser := cases.Fold()
	for _, c := range cols {
		f, ok := fs[c.ID]
		if !ok || !f.Active() || !c.Filterable() {
			continue
		}
		cf := compiledFilter[T]{col: c, text: caser.String(f.Text), fold: caser}
		if len(f.Accept) > 0 {
			cf.accept = make(map[string]struct{}, len(f.Accept))
			for _, v := range f.Accept {
				cf.accept[v] = struct{}{}
			}
		}
		active = append(active, cf)
	}

	out := make([]Row[T], 0, len(rows))
	if len(active) == 0 {
		return append(out, rows...)
	}

rows:
	for _, r := range rows {
		for _, cf := range active {
			if !cf.match(r.Data) {
				continue rows
			}
		}
		out = append(out, r)
	}
	return out
}

// FilterOptions lists the distinct display values of col over the
// unfiltered rows, ordered by Compare on the underlying values. It feeds
// select-style filter controls.
func FilterOptions[T any](rows []Row[T], col Column[T]) []string {
	seen := make(map[string]any, len(rows))
	for _, r := range rows {
		v := col.Value(r.Data)
		s := FormatValue(v)
		if _, ok := seen[s]; !ok {
			seen[s] = v
		}
	}

	keys := slices.Collect(maps.Keys(seen))
	slices.SortFunc(keys, func(a, b string) int {
		if c := Compare(seen[a], seen[b]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return keys
}
