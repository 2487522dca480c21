package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumnModelValidates(t *testing.T) {
	_, err := NewColumnModel([]Column[int]{{ID: "a"}, {ID: ""}})
	require.ErrorIs(t, err, ErrEmptyColumnID)

	_, err = NewColumnModel([]Column[int]{{ID: "a"}, {ID: "a"}})
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestColumnModelDefaults(t *testing.T) {
	cm, err := NewColumnModel([]Column[int]{
		{ID: "a"},
		{ID: "b", Width: 5, MinWidth: 10},
		{ID: "c", Width: 500, MaxWidth: 300},
		{ID: "d", Flags: ColumnHidden},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, cm.Len())
	assert.Equal(t, float64(DefaultColumnWidth), cm.Width("a"))
	assert.Equal(t, 10.0, cm.Width("b"))
	assert.Equal(t, 300.0, cm.Width("c"))
	assert.False(t, cm.Visible("d"))
	assert.Len(t, cm.VisibleColumns(), 3)

	c, ok := cm.Column("a")
	require.True(t, ok)
	assert.Equal(t, "a", c.Label())
	assert.Nil(t, c.Value(1))
}

func TestColumnModelSetWidth(t *testing.T) {
	cm, err := NewColumnModel([]Column[int]{{ID: "a", Width: 100}, {ID: "b", Width: 100, MaxWidth: 120}})
	require.NoError(t, err)

	assert.True(t, cm.SetWidth("a", 200))
	assert.False(t, cm.SetWidth("a", 200), "same width is not a change")
	assert.True(t, cm.SetWidth("a", 1))
	assert.Equal(t, float64(DefaultMinColumnWidth), cm.Width("a"))
	assert.Equal(t, 100.0, cm.Width("b"), "other columns untouched")

	cm.SetWidth("b", 999)
	assert.Equal(t, 120.0, cm.Width("b"))
	assert.False(t, cm.SetWidth("missing", 50))
}

func TestColumnModelVisibility(t *testing.T) {
	cm, err := NewColumnModel(wideColumns(3))
	require.NoError(t, err)

	assert.True(t, cm.SetVisible("id1", false))
	assert.False(t, cm.SetVisible("id1", false))
	assert.False(t, cm.SetVisible("nope", false))

	vis := cm.Visibility()
	assert.Equal(t, map[string]bool{"id0": true, "id1": false, "id2": true}, vis)

	vis["id0"] = false
	assert.True(t, cm.Visible("id0"), "Visibility returns a copy")

	var ids []string
	for _, c := range cm.VisibleColumns() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"id0", "id2"}, ids)
}

func TestFilterKindText(t *testing.T) {
	b, err := FilterSelect.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "select", string(b))

	var k FilterKind
	require.NoError(t, k.UnmarshalText([]byte("select")))
	assert.Equal(t, FilterSelect, k)
	require.NoError(t, k.UnmarshalText([]byte("whatever")))
	assert.Equal(t, FilterText, k)
}
