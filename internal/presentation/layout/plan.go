package layout

// DrawPlan is the ordered output of the layout engine.
type DrawPlan struct {
	Geometry   Geometry
	Primitives []Primitive
}

// Bands returns the band primitives in plan order.
func (p *DrawPlan) Bands() []Band { return collect[Band](p) }

// Bars returns the bar primitives in plan order.
func (p *DrawPlan) Bars() []Bar { return collect[Bar](p) }

// Labels returns the label primitives in plan order.
func (p *DrawPlan) Labels() []Label { return collect[Label](p) }

// Gridlines returns the month gridlines in plan order.
func (p *DrawPlan) Gridlines() []MonthGridline { return collect[MonthGridline](p) }

// Legend returns the legend entries in plan order.
func (p *DrawPlan) Legend() []LegendEntry { return collect[LegendEntry](p) }

// Today returns the today marker and whether the plan has one.
func (p *DrawPlan) Today() (TodayMarker, bool) {
	markers := collect[TodayMarker](p)
	if len(markers) == 0 {
		return TodayMarker{}, false
	}
	return markers[0], true
}

func collect[T Primitive](p *DrawPlan) []T {
	var out []T
	for _, prim := range p.Primitives {
		if v, ok := prim.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
