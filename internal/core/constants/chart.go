package constants

const (
	// Opacity of highlighted and dimmed rows
	AlphaHighlighted = 1.0
	AlphaDimmed      = 0.2

	// Zebra band opacity for odd rows; even rows get a zero-opacity band
	AlphaBandOdd  = 0.1
	AlphaBandEven = 0.0

	// Bar height as a fraction of one row slot
	BarHeightFraction = 0.7

	// Month gridlines drawn from the epoch
	MonthGridlineCount = 16

	// Header labels and the today marker are drawn in this color
	NeutralColor = "k"
	// Band and gridline color
	GuideColor = "grey"
)

const (
	// Chart defaults
	DefaultEpoch      = "2020-07-01"
	DefaultLabelWidth = 300
)
