package chart

import "github.com/lvillar/pdfreport/style"

// KPI is a rounded tile showing a value in the color of its segment.
type KPI struct {
	X1, Y1, X2, Y2 float64
	Title          string
	TitleFont      style.Font
	Radius         float64
	Border         bool
	Value          float64
	Segments       []Segment
}

// Segment returns the segment styling the tile.
func (c *KPI) Segment() Segment { return SelectSegment(c.Segments, c.Value) }

// Draw paints the tile: the title at the top, the value in the middle and
// the segment label at the bottom. Without a label the value moves to the
// bottom.
func (c *KPI) Draw(p Painter) error {
	seg := c.Segment()
	fill := seg.Fill

	var line *style.Line
	if c.Border {
		line = &style.Line{Width: 0.75, Cap: "butt", Join: "miter", Dash: "0", Color: fill.Start.Adjust(-10)}
	}
	p.Rectangle(c.X1, c.Y1, c.X2, c.Y2, c.Radius, "1111", line, &fill)
	p.Box(c.X1, c.Y1, c.X2, c.Y2, c.Title, c.TitleFont, "C", "T", "0")

	valign := "B"
	if seg.Label != "" {
		valign = "M"
	}
	p.Box(c.X1, c.Y1, c.X2, c.Y2, FormatNumber(c.Value, 1)+seg.Symbol, seg.Font, "C", valign, "0")
	if seg.Label != "" {
		p.Box(c.X1, c.Y1, c.X2, c.Y2, seg.Label, c.TitleFont, "C", "B", "0")
	}
	return nil
}
