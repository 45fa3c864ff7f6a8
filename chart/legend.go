package chart

import "github.com/lvillar/pdfreport/style"

// Legend describes the box listing the chart items.
type Legend struct {
	X1, Y1, X2, Y2 float64
	Radius         float64
	Visible        bool
	Opacity        float64
	Title          string
	Font           style.Font
	Vertical       bool
	Line           style.Line
	Fill           style.Fill

	Padding     float64
	Margin      float64 // between vertical items
	BoxSize     float64
	TitleHeight float64
	ItemHeight  float64
	ShowValues  bool
}

// NewLegend returns a visible horizontal legend covering the given box.
func NewLegend(x1, y1, x2, y2 float64) Legend {
	return Legend{
		X1: x1, Y1: y1, X2: x2, Y2: y2,
		Visible:     true,
		Opacity:     1,
		Font:        style.DefaultFont(),
		Line:        style.DefaultLine(),
		Fill:        style.DefaultFill(),
		Padding:     2,
		Margin:      1,
		BoxSize:     5,
		TitleHeight: 6,
		ItemHeight:  6,
		ShowValues:  true,
	}
}

// Draw paints the legend for items. Nothing is drawn when the legend is
// hidden or items is empty.
func (l Legend) Draw(p Painter, items []Item) {
	if !l.Visible || len(items) == 0 {
		return
	}
	p.SetAlpha(l.Opacity)
	p.Rectangle(l.X1, l.Y1, l.X2, l.Y2, l.Radius, "1111", &l.Line, &l.Fill)
	if l.Vertical {
		l.drawVertical(p, items)
	} else {
		l.drawHorizontal(p, items)
	}
	p.SetAlpha(p.Opacity())
}

func (l Legend) label(it Item) string {
	if l.ShowValues {
		return it.Label + " (" + formatValue(it.Value) + ")"
	}
	return it.Label
}

func (l Legend) drawHorizontal(p Painter, items []Item) {
	x := l.X1 + l.Padding
	y := l.Y1 + l.Padding

	count := len(items)
	if l.Title != "" {
		count++
	}
	width := (l.X2 - l.X1 - float64(count-1)*l.Padding) / float64(count+1)
	if width < 10 {
		width = 10
	}

	if l.Title != "" {
		p.Box(x, y, x+width, y+l.TitleHeight, l.Title, l.Font, "L", "M", "0")
		x += width + l.Padding
	}
	for _, it := range items {
		fill := it.Fill
		p.Rectangle(x, y, x+l.BoxSize, y+l.BoxSize, 0, "0000", &l.Line, &fill)
		x += l.BoxSize + l.Padding
		p.Box(x, y, x+width, y+l.ItemHeight, l.label(it), l.Font, "L", "M", "0")
		x += width + l.Padding
	}
}

func (l Legend) drawVertical(p Painter, items []Item) {
	y := l.Y1 + l.Padding
	right := l.X2 - l.Padding

	if l.Title != "" {
		p.Box(l.X1+l.Padding, y, right, y+l.TitleHeight, l.Title, l.Font, "L", "M", "0")
		y += l.TitleHeight
	}
	for _, it := range items {
		x := l.X1 + l.Padding
		fill := it.Fill
		p.Rectangle(x, y, x+l.BoxSize, y+l.BoxSize, 0, "0000", &l.Line, &fill)
		x += l.BoxSize + l.Padding
		p.Box(x, y, right, y+l.ItemHeight, l.label(it), l.Font, "L", "M", "0")
		y += l.ItemHeight + l.Margin
	}
}
