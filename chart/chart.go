// Package chart lays out and draws the report charts: pie and ring charts,
// stacked single bars with an axis, gauges and KPI tiles, each with an
// optional legend.
//
// Charts compute their geometry in document units and paint through a
// Painter, which the report engine implements on top of its drawing
// surface. A chart never changes the painter's current styles permanently.
package chart

import (
	"errors"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lvillar/pdfreport/style"
)

var (
	// ErrNoData is returned when a chart has no items or their total is not positive.
	ErrNoData = errors.New("chart: no data set found")
	// ErrInvalidRange is returned when a gauge maximum is not above its minimum.
	ErrInvalidRange = errors.New("chart: max value must be greater than min value")
)

// Painter draws the chart primitives. Coordinates are corner pairs.
type Painter interface {
	// Box writes text inside the box with the given alignment. Border is
	// "0" for none or "1" for a frame.
	Box(x1, y1, x2, y2 float64, text string, font style.Font, halign, valign, border string)
	// Rectangle draws a rectangle with radius r on the corners selected by
	// the four flags of corners. A nil line skips the outline and a nil
	// fill the filling.
	Rectangle(x1, y1, x2, y2, r float64, corners string, line *style.Line, fill *style.Fill)
	Line(x1, y1, x2, y2 float64, line style.Line)
	// Sector draws a pie slice from start to end degrees, clockwise from
	// 12 o'clock. St is F, D or FD.
	Sector(xc, yc, r, start, end float64, fill style.Color, st string)
	Circle(xc, yc, r float64, fill style.Color, st string)

	SetAlpha(a float64)
	// Opacity is the report opacity restored after a translucent legend.
	Opacity() float64
	// LineHeight is the height of one text line in font.
	LineHeight(font style.Font) float64
}

// Item is one value of a chart with its computed geometry.
type Item struct {
	Label      string
	Value      float64
	Percentage float64
	Fill       style.Fill

	// Bar corners, or the pie center in X1, Y1.
	X1, Y1, X2, Y2 float64
	Radius         float64
	StartAngle     float64
	EndAngle       float64
}

// Segment styles a gauge or KPI value falling between Start and End.
type Segment struct {
	Label  string
	Start  float64
	End    float64
	Fill   style.Fill
	Font   style.Font
	Symbol string
}

// DefaultSegment is used when no segment matches a value.
func DefaultSegment(value float64) Segment {
	return Segment{
		Start: value,
		End:   value,
		Fill:  style.SolidFill(style.MustHex("009999")),
		Font:  style.Font{Family: "helvetica", Style: "B", Size: 14, Color: style.MustHex("006666")},
	}
}

// SelectSegment returns the segment for value. The first segment takes
// everything up to its end, the last one everything from its start, and
// the ones in between the half-open range [Start, End).
func SelectSegment(segments []Segment, value float64) Segment {
	last := len(segments) - 1
	for i, s := range segments {
		if (i == 0 && value <= s.End) ||
			(i > 0 && value >= s.Start && value < s.End) ||
			(i == last && value >= s.Start) {
			return s
		}
	}
	return DefaultSegment(value)
}

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber formats v with the given decimals and comma thousands
// separators, as in 1,234.5.
func FormatNumber(v float64, decimals int) string {
	return numberPrinter.Sprintf("%."+strconv.Itoa(decimals)+"f", v)
}

// formatValue prints a value the shortest way, rounded to 1/100.
func formatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func total(items []Item) float64 {
	var t float64
	for _, it := range items {
		t += it.Value
	}
	return t
}

func drawStyle(border bool) string {
	if border {
		return "FD"
	}
	return "F"
}
