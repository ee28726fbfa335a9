package layout

import "github.com/penwyp/go-gantt/internal/core/model"

// Geometry is the coordinate system shared by every primitive of a plan.
type Geometry struct {
	Epoch      model.Date `json:"epoch"`
	LabelWidth int        `json:"label_width"`
	TotalWidth int        `json:"total_width"`
	RowCount   int        `json:"row_count"`
}

// X maps a date onto the horizontal axis: LabelWidth + days since Epoch.
func (g Geometry) X(d model.Date) int {
	return g.LabelWidth + model.DaysBetween(g.Epoch, d)
}

// NewGeometry derives the canvas from the rows. It fails with
// *model.EmptyTimelineError when there is no DataRow.
func NewGeometry(rows []model.Row, epoch model.Date, labelWidth int) (Geometry, error) {
	maxOffset := 0
	found := false
	for _, row := range rows {
		r, ok := row.(model.DataRow)
		if !ok {
			continue
		}
		offset := model.DaysBetween(epoch, r.End)
		if !found || offset > maxOffset {
			maxOffset = offset
			found = true
		}
	}
	if !found {
		return Geometry{}, &model.EmptyTimelineError{}
	}

	return Geometry{
		Epoch:      epoch,
		LabelWidth: labelWidth,
		TotalWidth: labelWidth + maxOffset,
		RowCount:   len(rows),
	}, nil
}
