package chart

import (
	"math"
	"strings"

	"github.com/lvillar/pdfreport/style"
)

const (
	gaugeStart = -90.0
	gaugeEnd   = 90.0
	gaugeSpan  = gaugeEnd - gaugeStart
)

var gaugeBackground = style.Color{R: 220, G: 220, B: 220}

// Gauge is a half-circle dial filled up to the current value.
type Gauge struct {
	X1, Y1, X2, Y2 float64
	Title          string
	TitleFont      style.Font
	Radius         float64
	Border         bool
	// Style RING, GAUGE or DONUTS (the default) leaves a hole in the dial.
	Style      string
	Min, Max   float64
	Value      float64
	Segments   []Segment
	Background *style.Fill

	xc, yc     float64
	percentage float64
	angle      float64
	segment    Segment
}

// Layout validates the range and computes the needle angle and segment.
func (c *Gauge) Layout() error {
	if c.Max <= c.Min {
		return ErrInvalidRange
	}
	maxRadius := math.Min((c.X2-c.X1)/2, (c.Y2-c.Y1)/2)
	if c.Radius <= 0 || c.Radius > maxRadius {
		c.Radius = maxRadius
	}
	c.xc = c.X1 + (c.X2-c.X1)/2
	c.yc = c.Y1 + (c.Y2-c.Y1)/2

	clamped := math.Max(c.Min, math.Min(c.Value, c.Max))
	c.percentage = (clamped - c.Min) / (c.Max - c.Min)
	c.angle = gaugeStart + gaugeSpan*c.percentage
	c.segment = SelectSegment(c.Segments, c.Value)
	return nil
}

// Percentage returns the filled share of the dial, 0..1, after Layout.
func (c *Gauge) Percentage() float64 { return c.percentage }

// Angle returns the end angle of the value sector after Layout.
func (c *Gauge) Angle() float64 { return c.angle }

// Segment returns the segment styling the value after Layout.
func (c *Gauge) Segment() Segment { return c.segment }

// OverLimit reports whether the value is above the scale.
func (c *Gauge) OverLimit() bool { return c.Value > c.Max }

// Draw lays the gauge out and paints it.
func (c *Gauge) Draw(p Painter) error {
	if err := c.Layout(); err != nil {
		return err
	}
	st := drawStyle(c.Border)
	p.Box(c.X1, c.Y1-8, c.X2, c.Y1, c.Title, c.TitleFont, "C", "T", "0")

	bg := gaugeBackground
	if c.Background != nil {
		bg = c.Background.Start
	}
	p.Sector(c.xc, c.yc, c.Radius, gaugeStart, gaugeEnd, bg, st)
	if c.percentage > 0 {
		p.Sector(c.xc, c.yc, c.Radius, gaugeStart, c.angle, c.segment.Fill.Start, st)
	}
	switch strings.ToUpper(c.Style) {
	case "", "RING", "GAUGE", PieDonuts:
		p.Circle(c.xc, c.yc, c.Radius*0.6, style.White, "F")
	}

	text := FormatNumber(c.Value, 1) + c.segment.Symbol
	if c.segment.Label != "" {
		text += "\n" + c.segment.Label
	}
	p.Box(c.X1, c.Y1, c.X2, c.yc, text, c.segment.Font, "C", "B", "0")

	font := style.Font{Family: "helvetica", Size: 8, Color: style.Black}
	p.Box(c.xc-c.Radius, c.yc+1, c.xc, c.yc+6, FormatNumber(c.Min, 0), font, "L", "M", "0")
	p.Box(c.xc, c.yc+1, c.xc+c.Radius, c.yc+6, FormatNumber(c.Max, 0), font, "R", "M", "0")
	return nil
}
