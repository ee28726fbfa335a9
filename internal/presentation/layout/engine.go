package layout

import (
	"fmt"

	"github.com/penwyp/go-gantt/internal/core/constants"
	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/util"
)

// Options are the fixed inputs of an Engine.
type Options struct {
	Epoch      model.Date
	LabelWidth int
	// StrictColors turns a group seen with two colors into an error instead of
	// a logged warning.
	StrictColors bool
}

// Engine lays out one immutable row sequence. Plan may be called concurrently
// for different highlight selections.
type Engine struct {
	rows     []model.Row
	geometry Geometry
	legend   []LegendEntry
}

// NewEngine captures rows and computes the geometry.
func NewEngine(rows []model.Row, opts Options) (*Engine, error) {
	geometry, err := NewGeometry(rows, opts.Epoch, opts.LabelWidth)
	if err != nil {
		return nil, err
	}

	if err := CheckGroupColors(rows); err != nil {
		if opts.StrictColors {
			return nil, err
		}
		util.LogWarnf("%v; first color wins", err)
	}

	owned := make([]model.Row, len(rows))
	copy(owned, rows)

	return &Engine{
		rows:     owned,
		geometry: geometry,
		legend:   buildLegend(owned),
	}, nil
}

// Layout computes a single plan.
func Layout(rows []model.Row, epoch model.Date, labelWidth int, highlight model.HighlightSet, today model.Date) (*DrawPlan, error) {
	engine, err := NewEngine(rows, Options{Epoch: epoch, LabelWidth: labelWidth})
	if err != nil {
		return nil, err
	}
	return engine.Plan(highlight, today), nil
}

// Geometry returns the canvas shared by every plan of this engine.
func (e *Engine) Geometry() Geometry {
	return e.geometry
}

// Rows returns a copy of the laid out rows.
func (e *Engine) Rows() []model.Row {
	rows := make([]model.Row, len(e.rows))
	copy(rows, e.rows)
	return rows
}

// Plan emits per row a Band, a Label and, for data rows, a Bar; then the today
// marker, the month gridlines and the legend.
func (e *Engine) Plan(highlight model.HighlightSet, today model.Date) *DrawPlan {
	g := e.geometry
	prims := make([]Primitive, 0, 3*len(e.rows)+1+constants.MonthGridlineCount+len(e.legend))

	for y, row := range e.rows {
		prims = append(prims, Band{Row: y, Width: g.TotalWidth, Alpha: bandAlpha(y)})

		switch r := row.(type) {
		case model.DataRow:
			alpha := highlightAlpha(highlight, r.Color)
			prims = append(prims,
				Label{Row: y, Text: r.Label, Color: r.Color, Alpha: alpha},
				Bar{
					Row:    y,
					XLeft:  g.X(r.Start),
					Width:  model.DaysBetween(r.Start, r.End),
					Height: constants.BarHeightFraction,
					Color:  r.Color,
					Alpha:  alpha,
					Group:  r.Group,
				},
			)
		case model.HeaderRow:
			prims = append(prims, Label{
				Row:      y,
				Text:     r.Group,
				Color:    constants.NeutralColor,
				Alpha:    highlightAlpha(highlight, r.Color),
				Emphasis: true,
			})
		}
	}

	prims = append(prims, TodayMarker{X: g.X(today), YMin: -1, YMax: g.RowCount - 1})

	for i := 0; i < constants.MonthGridlineCount; i++ {
		month := g.Epoch.AddMonths(i)
		prims = append(prims, MonthGridline{
			X:          g.X(month),
			MonthIndex: i,
			Month:      fmt.Sprintf("M%d", i),
			MonthName:  month.Format("Jan"),
			Date:       month,
			LabelRow:   g.RowCount,
			NameRow:    g.RowCount + 1,
		})
	}

	for _, entry := range e.legend {
		prims = append(prims, entry)
	}

	return &DrawPlan{Geometry: g, Primitives: prims}
}

// CheckGroupColors returns an *model.UnknownGroupColorError for the first group
// name that appears with a second color.
func CheckGroupColors(rows []model.Row) error {
	seen := make(map[string]model.ColorToken)
	for _, row := range rows {
		group, color := model.RowGroup(row)
		if group == "" {
			continue
		}
		first, ok := seen[group]
		if !ok {
			seen[group] = color
			continue
		}
		if first != color {
			return &model.UnknownGroupColorError{Group: group, First: first, Conflict: color}
		}
	}
	return nil
}

// buildLegend keeps the first (group, color) pair per group name, in order.
func buildLegend(rows []model.Row) []LegendEntry {
	seen := make(map[string]bool)
	var legend []LegendEntry
	for _, row := range rows {
		group, color := model.RowGroup(row)
		if group == "" || seen[group] {
			continue
		}
		seen[group] = true
		legend = append(legend, LegendEntry{Text: group, Color: color})
	}
	return legend
}

func highlightAlpha(highlight model.HighlightSet, color model.ColorToken) float64 {
	if highlight.Contains(color) {
		return constants.AlphaHighlighted
	}
	return constants.AlphaDimmed
}

func bandAlpha(row int) float64 {
	if row%2 == 1 {
		return constants.AlphaBandOdd
	}
	return constants.AlphaBandEven
}
