package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
	ColorGrey    = "\033[90m"
	ColorBold    = "\033[1m"
	ColorFaint   = "\033[2m"
)

// GetDisplayWidth calculates the actual display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateToWidth cuts text to at most width display cells, ending with an
// ellipsis when something was cut.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}

// PadToWidth pads text with spaces to exactly width display cells, truncating
// first when it is too long.
func PadToWidth(text string, width int, leftAlign bool) string {
	text = TruncateToWidth(text, width)
	padding := width - GetDisplayWidth(text)
	if padding <= 0 {
		return text
	}
	if leftAlign {
		return text + strings.Repeat(" ", padding)
	}
	return strings.Repeat(" ", padding) + text
}
