package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-gantt/internal/presentation/layout"
)

var planHeaders = []string{"kind", "row", "x", "width", "color", "alpha", "text"}

var rowHeaders = []string{"index", "kind", "label", "group", "color", "start", "end", "days"}

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

// FormatPlan writes one line per primitive. Columns that do not apply to a
// primitive are left empty.
func (f *CSVFormatter) FormatPlan(plan *layout.DrawPlan) error {
	w := csv.NewWriter(f.w)

	if err := w.Write(planHeaders); err != nil {
		return err
	}
	for _, prim := range plan.Primitives {
		if err := w.Write(primitiveRecord(prim)); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// FormatRows writes normalized rows.
func (f *CSVFormatter) FormatRows(rows []RowView) error {
	w := csv.NewWriter(f.w)

	if err := w.Write(rowHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Index),
			r.Kind,
			r.Label,
			r.Group,
			string(r.Color),
			r.Start,
			r.End,
			strconv.Itoa(r.Days),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func primitiveRecord(prim layout.Primitive) []string {
	kind := string(prim.Kind())
	switch p := prim.(type) {
	case layout.Band:
		return []string{kind, itoa(p.Row), "0", itoa(p.Width), "", formatAlpha(p.Alpha), ""}
	case layout.Label:
		return []string{kind, itoa(p.Row), "0", "", string(p.Color), formatAlpha(p.Alpha), p.Text}
	case layout.Bar:
		return []string{kind, itoa(p.Row), itoa(p.XLeft), itoa(p.Width), string(p.Color), formatAlpha(p.Alpha), p.Group}
	case layout.TodayMarker:
		return []string{kind, itoa(p.YMax), itoa(p.X), "", "", "", ""}
	case layout.MonthGridline:
		return []string{kind, itoa(p.LabelRow), itoa(p.X), "", "", "", p.Month + " " + p.MonthName}
	case layout.LegendEntry:
		return []string{kind, "", "", "", string(p.Color), "", p.Text}
	default:
		return []string{kind, "", "", "", "", "", ""}
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func formatAlpha(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}
