package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, dark mode optimized
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - cursor, active sort
	Success = lipgloss.Color("#10B981") // emerald-500 - confirmations
	Warning = lipgloss.Color("#F59E0B") // amber-500 - filter matches
	Error   = lipgloss.Color("#EF4444") // red-500 - errors
	Info    = lipgloss.Color("#3B82F6") // blue-500 - column headers
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB") // gray-50 - main text
	TextSecondary = lipgloss.Color("#9CA3AF") // gray-400 - descriptions

	// Background colors
	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - cursor row
	BgSelected  = lipgloss.Color("#312E81") // indigo-900 - selected rows
	BgBorder    = lipgloss.Color("#374151") // gray-700 - borders
)

// Semantic color aliases for the grid view
var (
	ColorHeader       = Info
	ColorHeaderActive = Accent
	ColorSortArrow    = Accent
	ColorFilter       = Warning
	ColorResizing     = Warning
	ColorSeparator    = Muted
	ColorCursorCell   = Accent
	ColorCursorText   = lipgloss.Color("#000000")
)

// named maps the color names a style provider may use to palette entries.
// Anything else is passed to lipgloss as is (hex or ANSI number).
var named = map[string]lipgloss.Color{
	"accent":  Accent,
	"success": Success,
	"green":   Success,
	"warning": Warning,
	"yellow":  Warning,
	"error":   Error,
	"red":     Error,
	"info":    Info,
	"blue":    Info,
	"muted":   Muted,
	"gray":    Muted,
	"grey":    Muted,
	"white":   TextPrimary,
}

// ParseColor resolves a palette name, hex string or ANSI color number.
func ParseColor(s string) lipgloss.Color {
	if c, ok := named[s]; ok {
		return c
	}
	return lipgloss.Color(s)
}
