package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleResolverNilProvider(t *testing.T) {
	s := newStyleResolver[int](nil)
	assert.Equal(t, Resolved{}, s.header(Column[int]{ID: "a"}))
	assert.Equal(t, Resolved{}, s.row(Row[int]{}))
}

func TestStyleFuncsPartial(t *testing.T) {
	s := newStyleResolver[int](StyleFuncs[int]{
		Row: func(r Row[int]) StyleMap {
			if r.Data%2 == 0 {
				return StyleMap{"background": "gray"}
			}
			return nil
		},
		CellClasses: func(_ Row[int], c Column[int]) string { return "cell  cell-" + c.ID },
	})

	even := s.row(Row[int]{Data: 2})
	assert.Equal(t, StyleMap{"background": "gray"}, even.Style)
	assert.Nil(t, even.Classes)
	assert.Nil(t, s.row(Row[int]{Data: 1}).Style)

	cell := s.cell(Row[int]{}, Column[int]{ID: "x"})
	assert.Equal(t, []string{"cell", "cell-x"}, cell.Classes)
	assert.Nil(t, cell.Style)
	assert.Equal(t, Resolved{}, s.header(Column[int]{ID: "x"}))
}

func TestResolvedCopiesStyle(t *testing.T) {
	shared := StyleMap{"color": "red"}
	s := newStyleResolver[int](StyleFuncs[int]{Header: func(Column[int]) StyleMap { return shared }})
	r := s.header(Column[int]{ID: "a"})
	r.Style["color"] = "blue"
	assert.Equal(t, "red", shared["color"])
}
