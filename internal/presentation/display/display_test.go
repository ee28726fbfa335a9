package display

import (
	"time"

	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/presentation/layout"
)

func sampleRows() []model.Row {
	return []model.Row{
		model.NewDataRow(model.TimelineRecord{
			Label: "B",
			Start: model.NewDate(2020, time.July, 5),
			End:   model.NewDate(2020, time.July, 20),
			Group: "Perception",
			Color: "m",
		}),
		model.NewDataRow(model.TimelineRecord{
			Label: "A & <co>",
			Start: model.NewDate(2020, time.July, 1),
			End:   model.NewDate(2020, time.July, 11),
			Group: "Controller",
			Color: "c",
		}),
		model.HeaderRow{Group: "Controller", Color: "c"},
	}
}

func samplePlan(highlight ...model.ColorToken) *layout.DrawPlan {
	plan, err := layout.Layout(
		sampleRows(),
		model.NewDate(2020, time.July, 1),
		100,
		model.NewHighlightSet(highlight...),
		model.NewDate(2020, time.July, 10),
	)
	if err != nil {
		panic(err)
	}
	return plan
}
