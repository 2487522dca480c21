package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("DATAGRID_NO_COLOR", "")
	SetNoColor(false)
	assert.False(t, NoColor())

	t.Setenv("DATAGRID_NO_COLOR", "1")
	assert.True(t, NoColor())

	t.Setenv("DATAGRID_NO_COLOR", "")
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })
	assert.True(t, NoColor())
	assert.Equal(t, "Error: boom", ErrorMsg("boom"))
	assert.Equal(t, "+ done", SuccessMsg("done"))
	assert.Equal(t, "  Press Ctrl+C to stop", Mute("  Press Ctrl+C to stop"))
}

func TestSortIndicatorAccessible(t *testing.T) {
	t.Setenv("DATAGRID_ACCESSIBLE", "1")
	assert.Equal(t, "^", SortIndicator("asc"))
	assert.Equal(t, "v", SortIndicator("descending"))
	assert.Equal(t, "", SortIndicator("none"))
}

func TestFromStyleMap(t *testing.T) {
	s := FromStyleMap(map[string]string{
		"color":      "red",
		"background": "#112233",
		"bold":       "true",
		"italic":     "nope",
		"margin":     "4",
	})
	assert.Equal(t, lipgloss.TerminalColor(Error), s.GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(lipgloss.Color("#112233")), s.GetBackground())
	assert.True(t, s.GetBold())
	assert.False(t, s.GetItalic())
	assert.Equal(t, 0, s.GetMarginLeft())
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", Indent("a\n\nb", 2))
}

func TestSortIndicator(t *testing.T) {
	t.Setenv("DATAGRID_ACCESSIBLE", "")
	assert.Equal(t, SymbolSortAsc, SortIndicator("ascending"))
	assert.Equal(t, SymbolSortDesc, SortIndicator("desc"))
}
