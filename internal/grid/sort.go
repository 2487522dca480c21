package grid

import (
	"cmp"
	"slices"
)

// SortDirection is the tri-state sort indicator of a column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "ascending"
	case SortDescending:
		return "descending"
	default:
		return "none"
	}
}

// ParseSortDirection accepts "asc"/"ascending", "desc"/"descending"; anything
// else is SortNone.
func ParseSortDirection(s string) SortDirection {
	switch s {
	case "asc", "ascending":
		return SortAscending
	case "desc", "descending":
		return SortDescending
	default:
		return SortNone
	}
}

// next advances none -> ascending -> descending -> none.
func (d SortDirection) next() SortDirection {
	switch d {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}

// SortState is the single active sort. The zero value is unsorted.
type SortState struct {
	ColumnID  string        `json:"column,omitempty"`
	Direction SortDirection `json:"direction"`
}

// Active reports whether the state sorts anything.
func (s SortState) Active() bool {
	return s.ColumnID != "" && s.Direction != SortNone
}

// DirectionOf returns the indicator for columnID.
func (s SortState) DirectionOf(columnID string) SortDirection {
	if s.ColumnID != columnID {
		return SortNone
	}
	return s.Direction
}

// Toggle returns the state after a header click on columnID. The same
// column cycles none -> ascending -> descending -> none; a different
// column replaces the active one and starts at ascending.
func (s SortState) Toggle(columnID string) SortState {
	if s.ColumnID != columnID {
		return SortState{ColumnID: columnID, Direction: SortAscending}
	}
	d := s.Direction.next()
	if d == SortNone {
		return SortState{}
	}
	return SortState{ColumnID: columnID, Direction: d}
}

type sortKey[T any] struct {
	row Row[T]
	key any
}

// ApplySort returns rows ordered by s. SortNone or an unknown or
// non-sortable column returns the rows in input order. Equal keys keep
// original row order in both directions.
func ApplySort[T any](rows []Row[T], cols []Column[T], s SortState) []Row[T] {
	out := slices.Clone(rows)
	if !s.Active() {
		return out
	}

	var col Column[T]
	found := false
	for _, c := range cols {
		if c.ID == s.ColumnID {
			col, found = c, true
			break
		}
	}
	if !found || !col.Sortable() {
		return out
	}

	// Resolve keys once; accessors may be expensive.
	ks := make([]sortKey[T], len(out))
	for i, r := range out {
		ks[i] = sortKey[T]{row: r, key: col.Value(r.Data)}
	}

	desc := s.Direction == SortDescending
	slices.SortStableFunc(ks, func(a, b sortKey[T]) int {
		c := Compare(a.key, b.key)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.row.Index, b.row.Index)
	})

	for i, k := range ks {
		out[i] = k.row
	}
	return out
}

func (d SortDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *SortDirection) UnmarshalText(b []byte) error {
	*d = ParseSortDirection(string(b))
	return nil
}
