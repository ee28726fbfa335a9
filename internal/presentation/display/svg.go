package display

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/penwyp/go-gantt/internal/core/constants"
	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/presentation/layout"
	"github.com/penwyp/go-gantt/internal/util"
)

// SVGStyle controls the pixel mapping of the SVG renderer.
type SVGStyle struct {
	// Scale is pixels per plan unit on the x axis.
	Scale      float64
	RowHeight  int
	FontFamily string
	FontSize   int
	// Palette maps color tokens to CSS colors, on top of DefaultPalette.
	Palette map[string]string
}

// DefaultPalette holds the single-letter color codes.
var DefaultPalette = map[string]string{
	"b":    "#0000ff",
	"g":    "#008000",
	"r":    "#ff0000",
	"c":    "#00bfbf",
	"m":    "#bf00bf",
	"y":    "#bfbf00",
	"k":    "#000000",
	"w":    "#ffffff",
	"grey": "#808080",
}

// DefaultSVGStyle returns the style used when nothing is configured.
func DefaultSVGStyle() SVGStyle {
	return SVGStyle{
		Scale:      1.5,
		RowHeight:  20,
		FontFamily: "DejaVu Sans, Arial, sans-serif",
		FontSize:   11,
	}
}

const (
	svgMargin      = 10
	svgTitleHeight = 36
	svgLegendGap   = 20
	svgSwatch      = 12
)

// SVGRenderer draws a plan as a standalone SVG document. Row 0 is at the top;
// the gridline labels form two strips under the last row.
type SVGRenderer struct {
	style   SVGStyle
	palette map[string]string
}

// NewSVGRenderer fills zero style fields from DefaultSVGStyle.
func NewSVGRenderer(style SVGStyle) *SVGRenderer {
	def := DefaultSVGStyle()
	if style.Scale <= 0 {
		style.Scale = def.Scale
	}
	if style.RowHeight <= 0 {
		style.RowHeight = def.RowHeight
	}
	if style.FontFamily == "" {
		style.FontFamily = def.FontFamily
	}
	if style.FontSize <= 0 {
		style.FontSize = def.FontSize
	}

	palette := make(map[string]string, len(DefaultPalette)+len(style.Palette))
	for k, v := range DefaultPalette {
		palette[k] = v
	}
	for k, v := range style.Palette {
		palette[k] = v
	}

	return &SVGRenderer{style: style, palette: palette}
}

func (r *SVGRenderer) Extension() string { return "svg" }

// Color resolves a token through the palette. Unknown tokens are passed
// through as CSS colors. The result is escaped for use in an attribute.
func (r *SVGRenderer) Color(token model.ColorToken) string {
	if c, ok := r.palette[string(token)]; ok {
		return escapeXML(c)
	}
	return escapeXML(string(token))
}

func (r *SVGRenderer) Render(w io.Writer, plan *layout.DrawPlan, meta RenderMeta) error {
	g := plan.Geometry
	s := r.style
	rh := float64(s.RowHeight)
	top := float64(svgMargin + svgTitleHeight)

	px := func(x int) float64 { return svgMargin + float64(x)*s.Scale }
	rowTop := func(row int) float64 { return top + float64(row)*rh }

	legend := plan.Legend()
	legendX := px(g.TotalWidth) + svgLegendGap
	legendWidth := 0.0
	for _, entry := range legend {
		if tw := r.textWidth(entry.Text); tw > legendWidth {
			legendWidth = tw
		}
	}
	if len(legend) > 0 {
		legendWidth += svgSwatch + 3*svgMargin
	}

	width := legendX + legendWidth + svgMargin
	height := rowTop(g.RowCount+2) + svgMargin

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<defs>
<style>
.title-text { font-family: %s; font-size: %dpx; font-weight: bold; }
.row-text { font-family: %s; font-size: %dpx; }
.axis-text { font-family: %s; font-size: %dpx; fill: %s; }
</style>
</defs>
`, num(width), num(height),
		s.FontFamily, s.FontSize+4,
		s.FontFamily, s.FontSize,
		s.FontFamily, s.FontSize-1, r.Color(constants.NeutralColor)))

	if meta.Title != "" {
		title := cases.Title(language.English).String(meta.Title)
		svg.WriteString(fmt.Sprintf(`<text class="title-text" x="%s" y="%d" text-anchor="middle">%s</text>`+"\n",
			num(width/2), svgMargin+s.FontSize+4, escapeXML(title)))
	}

	for _, prim := range plan.Primitives {
		switch p := prim.(type) {
		case layout.Band:
			if p.Alpha == 0 {
				continue
			}
			svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s"/>`+"\n",
				num(px(0)), num(rowTop(p.Row)), num(float64(p.Width)*s.Scale), num(rh),
				r.Color(constants.GuideColor), num(p.Alpha)))

		case layout.Bar:
			h := p.Height * rh
			svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s"><title>%s</title></rect>`+"\n",
				num(px(p.XLeft)), num(rowTop(p.Row)+(rh-h)/2), num(float64(p.Width)*s.Scale), num(h),
				r.Color(p.Color), num(p.Alpha), escapeXML(p.Group)))

		case layout.Label:
			weight := ""
			if p.Emphasis {
				weight = ` font-weight="bold"`
			}
			svg.WriteString(fmt.Sprintf(`<text class="row-text" x="%s" y="%s" fill="%s" fill-opacity="%s"%s>%s</text>`+"\n",
				num(px(0)+4), num(rowTop(p.Row)+rh*0.7), r.Color(p.Color), num(p.Alpha), weight, escapeXML(p.Text)))

		case layout.TodayMarker:
			svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
				num(px(p.X)), num(rowTop(p.YMin+1)), num(px(p.X)), num(rowTop(p.YMax+1)), r.Color(constants.NeutralColor)))

		case layout.MonthGridline:
			x := num(px(p.X))
			svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="0.5" stroke-dasharray="1,2"/>`+"\n",
				x, num(top), x, num(rowTop(p.LabelRow)), r.Color(constants.GuideColor)))
			svg.WriteString(fmt.Sprintf(`<text class="axis-text" x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
				x, num(rowTop(p.LabelRow)+rh*0.7), escapeXML(p.Month)))
			svg.WriteString(fmt.Sprintf(`<text class="axis-text" x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
				x, num(rowTop(p.NameRow)+rh*0.7), escapeXML(p.MonthName)))
		}
	}

	if len(legend) > 0 {
		r.drawLegend(&svg, legend, legendX, top, legendWidth)
	}

	svg.WriteString("</svg>\n")

	_, err := io.WriteString(w, svg.String())
	return err
}

func (r *SVGRenderer) drawLegend(svg *strings.Builder, legend []layout.LegendEntry, x, y, width float64) {
	rh := float64(r.style.RowHeight)
	svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="#ffffff" stroke="%s" stroke-width="0.5"/>`+"\n",
		num(x), num(y), num(width), num(float64(len(legend))*rh+svgMargin), r.Color(constants.GuideColor)))

	for i, entry := range legend {
		rowY := y + svgMargin/2 + float64(i)*rh
		svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%d" height="%d" fill="%s"/>`+"\n",
			num(x+svgMargin), num(rowY+(rh-svgSwatch)/2), svgSwatch, svgSwatch, r.Color(entry.Color)))
		svg.WriteString(fmt.Sprintf(`<text class="row-text" x="%s" y="%s">%s</text>`+"\n",
			num(x+2*svgMargin+svgSwatch), num(rowY+rh*0.7), escapeXML(entry.Text)))
	}
}

// textWidth estimates rendered text width from its display width.
func (r *SVGRenderer) textWidth(text string) float64 {
	return float64(util.GetDisplayWidth(text)) * float64(r.style.FontSize) * 0.6
}

// escapeXML escapes special XML characters in a string to ensure valid SVG output.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// num prints a pixel value with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
