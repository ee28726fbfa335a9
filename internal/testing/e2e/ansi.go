package e2e

import (
	"regexp"
	"strings"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// VisibleLines strips escape codes and splits terminal output into lines,
// dropping trailing blank lines.
func VisibleLines(output string) []string {
	lines := strings.Split(StripANSI(output), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// LineContaining returns the first visible line that contains text.
func LineContaining(output, text string) (string, bool) {
	for _, line := range VisibleLines(output) {
		if strings.Contains(line, text) {
			return line, true
		}
	}
	return "", false
}
