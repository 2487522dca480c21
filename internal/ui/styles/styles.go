package styles

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess  = "✓"
	SymbolError    = "✗"
	SymbolWarning  = "⚠"
	SymbolSortAsc  = "▲"
	SymbolSortDesc = "▼"
	SymbolSelected = "●"
	SymbolFilter   = "⌕"
)

var forceNoColor atomic.Bool

// SetNoColor disables colors regardless of the environment (--no-color).
func SetNoColor(v bool) { forceNoColor.Store(v) }

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("DATAGRID_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no spinner, ASCII symbols, simplified output
func IsAccessible() bool {
	v := os.Getenv("DATAGRID_ACCESSIBLE")
	return v == "1" || v == "true"
}

// Base text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Dim       = lipgloss.NewStyle().Foreground(Muted)
	Underline = lipgloss.NewStyle().Underline(true)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Grid view
	TitleStyle        = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	HeaderStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	HeaderActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeaderActive)
	SeparatorStyle    = lipgloss.NewStyle().Foreground(ColorSeparator)
	SeparatorActive   = lipgloss.NewStyle().Foreground(ColorHeaderActive)
	ResizingStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorResizing)
	CursorRowStyle    = lipgloss.NewStyle().Background(BgHighlight)
	CursorCellStyle   = lipgloss.NewStyle().Background(ColorCursorCell).Foreground(ColorCursorText)
	SelectedRowStyle  = lipgloss.NewStyle().Background(BgSelected).Foreground(TextPrimary)
	MatchStyle        = lipgloss.NewStyle().Foreground(ColorFilter)

	// Help bar
	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// render applies a style if colors are enabled
func render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// Render applies s unless colors are disabled.
func Render(s lipgloss.Style, text string) string {
	return render(s, text)
}

// SortIndicator returns the header arrow for a sort direction ("asc",
// "desc" or their long forms), or "" for unsorted. The symbol is unstyled
// so callers can measure and pad it.
func SortIndicator(dir string) string {
	ascii := IsAccessible()
	switch dir {
	case "asc", "ascending":
		if ascii {
			return "^"
		}
		return SymbolSortAsc
	case "desc", "descending":
		if ascii {
			return "v"
		}
		return SymbolSortDesc
	}
	return ""
}

// FromStyleMap turns engine style properties into a lipgloss style.
// Recognized keys: color (or foreground), background, bold, italic,
// underline, faint. Unknown keys are ignored.
func FromStyleMap(m map[string]string) lipgloss.Style {
	s := lipgloss.NewStyle()
	for k, v := range m {
		switch strings.ToLower(k) {
		case "color", "foreground":
			s = s.Foreground(ParseColor(v))
		case "background":
			s = s.Background(ParseColor(v))
		case "bold":
			s = s.Bold(truthy(v))
		case "italic":
			s = s.Italic(truthy(v))
		case "underline":
			s = s.Underline(truthy(v))
		case "faint":
			s = s.Faint(truthy(v))
		}
	}
	return s
}

func truthy(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", render(WarningStyle, symbol), msg)
}

// InfoMsg formats an info message
func InfoMsg(msg string) string {
	return render(InfoStyle, msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return render(MutedStyle, msg)
}

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", render(HelpKey, key), render(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// Mute renders secondary text.
func Mute(s string) string { return render(MutedStyle, s) }
