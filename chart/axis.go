package chart

import "github.com/lvillar/pdfreport/style"

// Axis is a value scale with ticks and labels. A horizontal axis runs along
// the top edge of its box with the labels below; a vertical one along the
// right edge with the labels on its left, the maximum at the top.
type Axis struct {
	X1, Y1, X2, Y2 float64
	Min, Max       float64
	Title          string
	Font           style.Font
	Visible        bool
	Vertical       bool
	Line           style.Line

	TickSize    float64
	Ticks       int
	LabelWidth  float64
	LabelHeight float64
	TitleHeight float64
	ShowLabels  bool
}

// NewAxis returns a visible axis with five ticks and helvetica 8 labels.
func NewAxis(x1, y1, x2, y2, min, max float64, vertical bool) Axis {
	return Axis{
		X1: x1, Y1: y1, X2: x2, Y2: y2,
		Min:         min,
		Max:         max,
		Font:        style.Font{Family: "helvetica", Size: 8, Color: style.Black},
		Visible:     true,
		Vertical:    vertical,
		Line:        style.Line{Width: 0.2, Cap: "butt", Join: "miter", Dash: "0", Color: style.Black},
		TickSize:    1.2,
		Ticks:       5,
		LabelWidth:  10,
		LabelHeight: 6,
		TitleHeight: 6,
		ShowLabels:  true,
	}
}

// Draw paints the axis when it is visible.
func (a Axis) Draw(p Painter) {
	if !a.Visible {
		return
	}
	if a.Ticks < 2 {
		a.Ticks = 2
	}
	if a.Vertical {
		a.drawVertical(p)
	} else {
		a.drawHorizontal(p)
	}
}

func (a Axis) step() float64 { return (a.Max - a.Min) / float64(a.Ticks-1) }

func (a Axis) drawHorizontal(p Painter) {
	y := a.Y1
	p.Line(a.X1, y, a.X2, y, a.Line)
	gap := (a.X2 - a.X1) / float64(a.Ticks-1)
	for t := 0; t < a.Ticks; t++ {
		x := a.X1 + float64(t)*gap
		p.Line(x, y, x, y+a.TickSize, a.Line)
	}

	if a.Title != "" {
		top := y + 2*a.TickSize + a.LabelHeight
		p.Box(a.X1, top, a.X2, top+a.TitleHeight, a.Title, a.Font, "C", "M", "0")
	}
	if !a.ShowLabels {
		return
	}
	for t := 0; t < a.Ticks; t++ {
		x := a.X1 + float64(t)*gap - a.LabelWidth/2
		label := formatValue(a.Min + float64(t)*a.step())
		p.Box(x, y+a.TickSize, x+a.LabelWidth, y+a.TickSize+a.LabelHeight, label, a.Font, "C", "M", "0")
	}
}

func (a Axis) drawVertical(p Painter) {
	x := a.X2
	p.Line(x, a.Y1, x, a.Y2, a.Line)
	gap := (a.Y2 - a.Y1) / float64(a.Ticks-1)
	for t := 0; t < a.Ticks; t++ {
		y := a.Y1 + float64(t)*gap
		p.Line(x-a.TickSize, y, x, y, a.Line)
	}

	if a.Title != "" {
		p.Box(x-a.TickSize-a.LabelWidth, a.Y1-a.TitleHeight, x, a.Y1, a.Title, a.Font, "R", "B", "0")
	}
	if !a.ShowLabels {
		return
	}
	for t := 0; t < a.Ticks; t++ {
		y := a.Y1 + float64(t)*gap - a.LabelHeight/2
		label := formatValue(a.Max - float64(t)*a.step())
		p.Box(x-a.TickSize-a.LabelWidth, y, x-a.TickSize, y+a.LabelHeight, label, a.Font, "C", "M", "0")
	}
}
