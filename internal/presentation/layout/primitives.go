package layout

import "github.com/penwyp/go-gantt/internal/core/model"

// PrimitiveKind names a draw primitive.
type PrimitiveKind string

const (
	KindBand     PrimitiveKind = "band"
	KindBar      PrimitiveKind = "bar"
	KindLabel    PrimitiveKind = "label"
	KindToday    PrimitiveKind = "today"
	KindGridline PrimitiveKind = "gridline"
	KindLegend   PrimitiveKind = "legend"
)

// Primitive is one backend-agnostic drawing instruction. Coordinates are in
// plan units: x in days offset by the label width, y in rows. The set of
// primitives is closed to this package.
type Primitive interface {
	Kind() PrimitiveKind
	isPrimitive()
}

// Band is the zebra background of one row.
type Band struct {
	Row   int     `json:"row"`
	Width int     `json:"width"`
	Alpha float64 `json:"alpha"`
}

// Bar is the horizontal bar of a task.
type Bar struct {
	Row    int              `json:"row"`
	XLeft  int              `json:"x_left"`
	Width  int              `json:"width"`
	Height float64          `json:"height"`
	Color  model.ColorToken `json:"color"`
	Alpha  float64          `json:"alpha"`
	Group  string           `json:"group"`
}

// Label is the text of a row, drawn at column 0.
type Label struct {
	Row      int              `json:"row"`
	Text     string           `json:"text"`
	Color    model.ColorToken `json:"color"`
	Alpha    float64          `json:"alpha"`
	Emphasis bool             `json:"emphasis"`
}

// TodayMarker is a vertical line spanning YMin..YMax rows.
type TodayMarker struct {
	X    int `json:"x"`
	YMin int `json:"y_min"`
	YMax int `json:"y_max"`
}

// MonthGridline is a dotted vertical guide with its index label ("M3") on
// LabelRow and the abbreviated month name on NameRow.
type MonthGridline struct {
	X          int        `json:"x"`
	MonthIndex int        `json:"month_index"`
	Month      string     `json:"month"`
	MonthName  string     `json:"month_name"`
	Date       model.Date `json:"date"`
	LabelRow   int        `json:"label_row"`
	NameRow    int        `json:"name_row"`
}

// LegendEntry is one distinct group.
type LegendEntry struct {
	Text  string           `json:"text"`
	Color model.ColorToken `json:"color"`
}

func (Band) Kind() PrimitiveKind          { return KindBand }
func (Bar) Kind() PrimitiveKind           { return KindBar }
func (Label) Kind() PrimitiveKind         { return KindLabel }
func (TodayMarker) Kind() PrimitiveKind   { return KindToday }
func (MonthGridline) Kind() PrimitiveKind { return KindGridline }
func (LegendEntry) Kind() PrimitiveKind   { return KindLegend }

func (Band) isPrimitive()          {}
func (Bar) isPrimitive()           {}
func (Label) isPrimitive()         {}
func (TodayMarker) isPrimitive()   {}
func (MonthGridline) isPrimitive() {}
func (LegendEntry) isPrimitive()   {}
