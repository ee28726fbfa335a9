package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/presentation/layout"
	"github.com/penwyp/go-gantt/internal/util"
)

const (
	defaultTerminalWidth = 100
	minTerminalWidth     = 40
	maxLabelColumns      = 32
)

// Cell glyphs
const (
	glyphBar   = '█'
	glyphToday = '│'
	glyphGrid  = '┊'
	glyphSep   = '│'
)

var tokenColors = map[model.ColorToken]string{
	"b":    util.ColorBlue,
	"g":    util.ColorGreen,
	"r":    util.ColorRed,
	"c":    util.ColorCyan,
	"m":    util.ColorMagenta,
	"y":    util.ColorYellow,
	"k":    util.ColorWhite,
	"w":    util.ColorWhite,
	"grey": util.ColorGrey,
}

// TerminalRenderer prints a plan as a character chart. Dimmed rows are
// printed faint.
type TerminalRenderer struct {
	width   int
	noColor bool
}

// NewTerminalRenderer uses width when positive, otherwise the width of
// stdout.
func NewTerminalRenderer(width int, noColor bool) *TerminalRenderer {
	return &TerminalRenderer{width: width, noColor: noColor}
}

func (r *TerminalRenderer) Extension() string { return "txt" }

// GetMaxWidth returns the configured width or the terminal width with fallback
func (r *TerminalRenderer) GetMaxWidth() int {
	if r.width > 0 {
		return r.width
	}
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth < minTerminalWidth {
		termWidth = defaultTerminalWidth
	}
	util.LogDebugf("Terminal width %d", termWidth)
	return termWidth
}

// chartScale maps plan x values onto chart columns.
type chartScale struct {
	labelWidth int
	span       int
	columns    int
}

func (s chartScale) column(x int) int {
	if s.span <= 0 {
		return 0
	}
	return (x - s.labelWidth) * s.columns / s.span
}

func (r *TerminalRenderer) Render(w io.Writer, plan *layout.DrawPlan, meta RenderMeta) error {
	g := plan.Geometry
	width := r.GetMaxWidth()

	labelCols := width / 3
	if labelCols > maxLabelColumns {
		labelCols = maxLabelColumns
	}
	chartCols := width - labelCols - 2
	if chartCols < 1 {
		chartCols = 1
	}
	scale := chartScale{labelWidth: g.LabelWidth, span: g.TotalWidth - g.LabelWidth, columns: chartCols}

	gridCols := make(map[int]bool)
	for _, gl := range plan.Gridlines() {
		if c := scale.column(gl.X); c >= 0 && c < chartCols {
			gridCols[c] = true
		}
	}
	todayCol := -1
	if today, ok := plan.Today(); ok {
		todayCol = scale.column(today.X)
	}

	bars := make(map[int]layout.Bar)
	for _, bar := range plan.Bars() {
		bars[bar.Row] = bar
	}

	var out strings.Builder

	if meta.Title != "" {
		title := cases.Title(language.English).String(meta.Title)
		out.WriteString(r.paint(title, util.ColorBold) + "\n")
	}

	for _, label := range plan.Labels() {
		cells := make([]rune, chartCols)
		for c := range cells {
			cells[c] = ' '
			if gridCols[c] {
				cells[c] = glyphGrid
			}
		}

		bar, hasBar := bars[label.Row]
		barFrom, barTo := -1, -1
		if hasBar {
			barFrom = clamp(scale.column(bar.XLeft), 0, chartCols-1)
			barTo = clamp(scale.column(bar.XLeft+bar.Width), barFrom, chartCols-1)
		}

		text := util.PadToWidth(label.Text, labelCols, true)
		attrs := ""
		if label.Emphasis {
			attrs += util.ColorBold
		}
		if label.Alpha < 1 {
			attrs += util.ColorFaint
		}
		out.WriteString(r.paint(text, attrs+r.tokenColor(label.Color)))
		out.WriteRune(' ')
		out.WriteRune(glyphSep)

		for c, cell := range cells {
			switch {
			case c >= barFrom && c <= barTo:
				barAttrs := r.tokenColor(bar.Color)
				if bar.Alpha < 1 {
					barAttrs += util.ColorFaint
				}
				out.WriteString(r.paint(string(glyphBar), barAttrs))
			case c == todayCol:
				out.WriteString(r.paint(string(glyphToday), util.ColorBold))
			default:
				out.WriteRune(cell)
			}
		}
		out.WriteString("\n")
	}

	r.writeAxis(&out, plan.Gridlines(), scale, labelCols, chartCols)
	r.writeLegend(&out, plan.Legend(), meta.Highlight)

	_, err := io.WriteString(w, out.String())
	return err
}

// writeAxis prints the month index strip and the month name strip.
func (r *TerminalRenderer) writeAxis(out *strings.Builder, gridlines []layout.MonthGridline, scale chartScale, labelCols, chartCols int) {
	indexLine := []rune(strings.Repeat(" ", chartCols))
	nameLine := []rune(strings.Repeat(" ", chartCols))
	lastIndex, lastName := -1, -1

	for _, gl := range gridlines {
		c := scale.column(gl.X)
		if c < 0 || c >= chartCols {
			continue
		}
		lastIndex = placeText(indexLine, c, gl.Month, lastIndex)
		lastName = placeText(nameLine, c, gl.MonthName, lastName)
	}

	pad := strings.Repeat(" ", labelCols+2)
	out.WriteString(r.paint(pad+strings.TrimRight(string(indexLine), " "), util.ColorGrey) + "\n")
	out.WriteString(r.paint(pad+strings.TrimRight(string(nameLine), " "), util.ColorGrey) + "\n")
}

// placeText writes text at column c when it does not overlap the previous
// label ending at last. It returns the new last occupied column.
func placeText(line []rune, c int, text string, last int) int {
	runes := []rune(text)
	if c <= last || c+len(runes) > len(line) {
		return last
	}
	copy(line[c:], runes)
	return c + len(runes)
}

func (r *TerminalRenderer) writeLegend(out *strings.Builder, legend []layout.LegendEntry, highlight model.HighlightSet) {
	if len(legend) == 0 {
		return
	}
	parts := make([]string, 0, len(legend))
	for _, entry := range legend {
		attrs := r.tokenColor(entry.Color)
		if !highlight.Contains(entry.Color) {
			attrs += util.ColorFaint
		}
		parts = append(parts, r.paint("■ "+entry.Text, attrs))
	}
	out.WriteString(strings.Join(parts, "  ") + "\n")
}

func (r *TerminalRenderer) tokenColor(token model.ColorToken) string {
	return tokenColors[token]
}

func (r *TerminalRenderer) paint(text, attrs string) string {
	if r.noColor || attrs == "" {
		return text
	}
	return fmt.Sprintf("%s%s%s", attrs, text, util.ColorReset)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
