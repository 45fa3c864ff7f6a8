package chart

import (
	"math"
	"strings"

	"github.com/lvillar/pdfreport/style"
)

// Pie styles.
const (
	PieFull   = "PIE"
	PieDonuts = "DONUTS"
	PieRing   = "RING"
)

// Pie is a pie or ring chart centered in its box.
type Pie struct {
	X1, Y1, X2, Y2 float64
	// Radius 0, or one larger than the box allows, fills the box.
	Radius float64
	Border bool
	Style  string // PIE, DONUTS or RING; empty means DONUTS
	// Font is used for the total printed in the middle.
	Font   style.Font
	Legend Legend
	Items  []Item

	xc, yc float64
	total  float64
}

// Layout computes the radius, the center and the slice angles. The
// items are updated in place.
func (c *Pie) Layout() error {
	if len(c.Items) == 0 {
		return ErrNoData
	}
	maxRadius := math.Min((c.X2-c.X1)/2, (c.Y2-c.Y1)/2)
	if c.Radius <= 0 || c.Radius > maxRadius {
		c.Radius = maxRadius
	}
	c.xc = c.X1 + (c.X2-c.X1)/2
	c.yc = c.Y1 + (c.Y2-c.Y1)/2

	c.total = total(c.Items)
	if c.total <= 0 {
		return ErrNoData
	}
	angle := 0.0
	for i := range c.Items {
		it := &c.Items[i]
		it.Percentage = it.Value / c.total
		it.X1, it.Y1 = c.xc, c.yc
		it.Radius = c.Radius
		it.StartAngle = angle
		angle += 360 * it.Percentage
		it.EndAngle = angle
	}
	return nil
}

// Total returns the sum of the item values after Layout.
func (c *Pie) Total() float64 { return c.total }

// Draw lays the chart out and paints it.
func (c *Pie) Draw(p Painter) error {
	if err := c.Layout(); err != nil {
		return err
	}
	st := drawStyle(c.Border)
	for _, it := range c.Items {
		p.Sector(it.X1, it.Y1, it.Radius, it.StartAngle, it.EndAngle, it.Fill.Start, st)
	}
	switch strings.ToUpper(c.Style) {
	case "", PieDonuts, PieRing:
		p.Circle(c.xc, c.yc, c.Radius/1.5, style.White, st)
	}
	p.Box(c.xc-c.Radius, c.yc-c.Radius, c.xc+c.Radius, c.yc+c.Radius,
		"TOTAL "+formatValue(c.total), c.Font, "C", "M", "0")
	c.Legend.Draw(p, c.Items)
	return nil
}
