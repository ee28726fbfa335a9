package formatter

import (
	"github.com/penwyp/go-gantt/internal/core/model"
)

// Row kinds as printed by the inspect formatters.
const (
	RowKindData   = "data"
	RowKindHeader = "header"
)

// RowView is the flat, printable form of a normalized row.
type RowView struct {
	Index int              `json:"index"`
	Kind  string           `json:"kind"`
	Label string           `json:"label"`
	Group string           `json:"group"`
	Color model.ColorToken `json:"color"`
	Start string           `json:"start,omitempty"`
	End   string           `json:"end,omitempty"`
	Days  int              `json:"days"`
}

// NewRowViews flattens rows in order. Header rows carry no dates.
func NewRowViews(rows []model.Row) []RowView {
	views := make([]RowView, 0, len(rows))
	for i, row := range rows {
		switch r := row.(type) {
		case model.DataRow:
			views = append(views, RowView{
				Index: i,
				Kind:  RowKindData,
				Label: r.Label,
				Group: r.Group,
				Color: r.Color,
				Start: r.Start.String(),
				End:   r.End.String(),
				Days:  model.DaysBetween(r.Start, r.End),
			})
		case model.HeaderRow:
			views = append(views, RowView{
				Index: i,
				Kind:  RowKindHeader,
				Label: r.Group,
				Group: r.Group,
				Color: r.Color,
			})
		}
	}
	return views
}
