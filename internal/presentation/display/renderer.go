package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/presentation/formatter"
	"github.com/penwyp/go-gantt/internal/presentation/layout"
)

// Output formats understood by GetRenderer.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatTerminal = "terminal"
)

// RenderMeta carries the per-selection context a renderer may print.
type RenderMeta struct {
	Title     string
	Highlight model.HighlightSet
	Today     model.Date
	RunID     string
}

// Renderer turns a draw plan into bytes.
type Renderer interface {
	Render(w io.Writer, plan *layout.DrawPlan, meta RenderMeta) error
	Extension() string
}

// Options configures the renderers built by GetRenderer.
type Options struct {
	SVG SVGStyle
	// TerminalWidth overrides terminal size detection when positive.
	TerminalWidth int
	NoColor       bool
}

// GetRenderer returns the renderer for a format name.
func GetRenderer(format string, opts Options) (Renderer, error) {
	renderers := map[string]func(Options) Renderer{
		FormatSVG:      func(o Options) Renderer { return NewSVGRenderer(o.SVG) },
		FormatJSON:     func(Options) Renderer { return &jsonRenderer{} },
		FormatCSV:      func(Options) Renderer { return &csvRenderer{} },
		FormatTerminal: func(o Options) Renderer { return NewTerminalRenderer(o.TerminalWidth, o.NoColor) },
	}

	build, ok := renderers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return build(opts), nil
}

// Formats lists the supported format names.
func Formats() []string {
	formats := []string{FormatSVG, FormatJSON, FormatCSV, FormatTerminal}
	sort.Strings(formats)
	return formats
}

type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, plan *layout.DrawPlan, _ RenderMeta) error {
	return formatter.NewJSONFormatter(w).FormatPlan(plan)
}

func (r *jsonRenderer) Extension() string { return "json" }

type csvRenderer struct{}

func (r *csvRenderer) Render(w io.Writer, plan *layout.DrawPlan, _ RenderMeta) error {
	return formatter.NewCSVFormatter(w).FormatPlan(plan)
}

func (r *csvRenderer) Extension() string { return "csv" }
