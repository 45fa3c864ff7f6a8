package chart

import "github.com/lvillar/pdfreport/style"

// barBackground fills the empty part of a single bar.
var barBackground = style.SolidFill(style.MustHex("EEEEEE"))

// axisSize is the depth of the axis drawn next to a single bar.
const axisSize = 15.0

// SingleBar is a stacked bar showing each item as a share of Max.
type SingleBar struct {
	X1, Y1, X2, Y2 float64
	Vertical       bool
	Min            float64
	// Max is the full scale; 0 means the total of the items.
	Max       float64
	Title     string
	TitleFont style.Font
	Legend    Legend
	Items     []Item

	total float64
}

// Layout computes the bar of every item. A vertical bar stacks from the
// bottom and stops at the top edge; a horizontal one stacks from the left.
func (c *SingleBar) Layout() error {
	if len(c.Items) == 0 {
		return ErrNoData
	}
	c.total = total(c.Items)
	if c.Max == 0 {
		c.Max = c.total
	}
	if c.Max <= 0 {
		return ErrNoData
	}

	if c.Vertical {
		bottom := c.Y2
		for i := range c.Items {
			it := &c.Items[i]
			it.Percentage = it.Value / c.Max
			height := (c.Y2 - c.Y1) * it.Percentage
			it.X1, it.X2 = c.X1, c.X2
			it.Y1, it.Y2 = bottom-height, bottom
			if it.Y1 < c.Y1 {
				it.Y1 = c.Y1
				height = 0
			}
			bottom -= height
		}
		return nil
	}

	left := c.X1
	for i := range c.Items {
		it := &c.Items[i]
		it.Percentage = it.Value / c.Max
		width := (c.X2 - c.X1) * it.Percentage
		it.X1, it.X2 = left, left+width
		it.Y1, it.Y2 = c.Y1, c.Y2
		left += width
	}
	return nil
}

// Total returns the sum of the item values after Layout.
func (c *SingleBar) Total() float64 { return c.total }

// Draw lays the bar out and paints it with its axis and legend.
func (c *SingleBar) Draw(p Painter) error {
	if err := c.Layout(); err != nil {
		return err
	}
	bg := barBackground
	p.Rectangle(c.X1, c.Y1, c.X2, c.Y2, 0, "0000", nil, &bg)
	for _, it := range c.Items {
		fill := it.Fill
		p.Rectangle(it.X1, it.Y1, it.X2, it.Y2, 0, "0000", nil, &fill)
	}

	if c.Title != "" {
		h := p.LineHeight(c.TitleFont)
		if c.Vertical {
			p.Box(c.X1-axisSize, c.Y1-h, c.X2, c.Y1, c.Title, c.TitleFont, "C", "M", "0")
		} else {
			p.Box(c.X1, c.Y1-h, c.X2, c.Y1, c.Title, c.TitleFont, "C", "M", "0")
		}
	}

	var axis Axis
	if c.Vertical {
		axis = NewAxis(c.X1-axisSize, c.Y1, c.X1, c.Y2, c.Min, c.Max, true)
	} else {
		axis = NewAxis(c.X1, c.Y2, c.X2, c.Y2+axisSize, c.Min, c.Max, false)
	}
	axis.Draw(p)

	c.Legend.Draw(p, c.Items)
	return nil
}
