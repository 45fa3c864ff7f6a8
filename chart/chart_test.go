package chart

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/pdfreport/style"
)

// paintLog records painter calls as short strings.
type paintLog struct {
	calls   []string
	boxes   []string
	alpha   []float64
	opacity float64
}

func (l *paintLog) Box(x1, y1, x2, y2 float64, text string, font style.Font, halign, valign, border string) {
	l.calls = append(l.calls, fmt.Sprintf("box %g %g %g %g %s%s", x1, y1, x2, y2, halign, valign))
	l.boxes = append(l.boxes, text)
}

func (l *paintLog) Rectangle(x1, y1, x2, y2, r float64, corners string, line *style.Line, fill *style.Fill) {
	st := ""
	if line != nil {
		st += "D"
	}
	if fill != nil {
		st += "F:" + fill.Start.Hex()
	}
	l.calls = append(l.calls, fmt.Sprintf("rect %g %g %g %g %s", x1, y1, x2, y2, st))
}

func (l *paintLog) Line(x1, y1, x2, y2 float64, line style.Line) {
	l.calls = append(l.calls, fmt.Sprintf("line %g %g %g %g", x1, y1, x2, y2))
}

func (l *paintLog) Sector(xc, yc, r, start, end float64, fill style.Color, st string) {
	l.calls = append(l.calls, fmt.Sprintf("sector %g %g %g %g %g %s:%s", xc, yc, r, start, end, st, fill.Hex()))
}

func (l *paintLog) Circle(xc, yc, r float64, fill style.Color, st string) {
	l.calls = append(l.calls, fmt.Sprintf("circle %g %g %g %s:%s", xc, yc, r, st, fill.Hex()))
}

func (l *paintLog) SetAlpha(a float64)                 { l.alpha = append(l.alpha, a) }
func (l *paintLog) Opacity() float64                   { return l.opacity }
func (l *paintLog) LineHeight(font style.Font) float64 { return font.Size / 2 }

func (l *paintLog) count(prefix string) int {
	n := 0
	for _, c := range l.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func items(values ...float64) []Item {
	colors := []string{"FF0000", "00FF00", "0000FF", "FFFF00"}
	out := make([]Item, len(values))
	for i, v := range values {
		out[i] = Item{Label: fmt.Sprintf("i%d", i+1), Value: v, Fill: style.SolidFill(style.MustHex(colors[i%len(colors)]))}
	}
	return out
}

func TestPieLayout(t *testing.T) {
	c := &Pie{X1: 10, Y1: 20, X2: 110, Y2: 80, Items: items(1, 1, 2)}
	require.NoError(t, c.Layout())

	assert.Equal(t, 30.0, c.Radius, "radius falls back to half the shorter side")
	assert.Equal(t, 4.0, c.Total())
	assert.Equal(t, 0.25, c.Items[0].Percentage)
	assert.Equal(t, []float64{0, 90, 180}, []float64{c.Items[0].StartAngle, c.Items[1].StartAngle, c.Items[2].StartAngle})
	assert.Equal(t, 360.0, c.Items[2].EndAngle)
	assert.Equal(t, 60.0, c.Items[1].X1)
	assert.Equal(t, 50.0, c.Items[1].Y1)

	c = &Pie{X1: 0, Y1: 0, X2: 100, Y2: 100, Radius: 20, Items: items(5)}
	require.NoError(t, c.Layout())
	assert.Equal(t, 20.0, c.Radius)
}

func TestPieErrors(t *testing.T) {
	c := &Pie{X2: 10, Y2: 10}
	assert.True(t, errors.Is(c.Layout(), ErrNoData))

	c = &Pie{X2: 10, Y2: 10, Items: items(0, 0)}
	assert.True(t, errors.Is(c.Layout(), ErrNoData))
}

func TestPieDraw(t *testing.T) {
	p := &paintLog{opacity: 1}
	c := &Pie{X1: 0, Y1: 0, X2: 60, Y2: 60, Border: true, Items: items(3, 1)}
	require.NoError(t, c.Draw(p))

	assert.Equal(t, "sector 30 30 30 0 270 FD:FF0000", p.calls[0])
	assert.Equal(t, "sector 30 30 30 270 360 FD:00FF00", p.calls[1])
	assert.Equal(t, "circle 30 30 20 FD:FFFFFF", p.calls[2])
	assert.Equal(t, []string{"TOTAL 4"}, p.boxes)
	assert.Empty(t, p.alpha, "hidden legend is not drawn")

	p = &paintLog{opacity: 1}
	c = &Pie{X1: 0, Y1: 0, X2: 60, Y2: 60, Style: "pie", Items: items(3, 1)}
	require.NoError(t, c.Draw(p))
	assert.Equal(t, 0, p.count("circle"))
	assert.Equal(t, "sector 30 30 30 0 270 F:FF0000", p.calls[0])
}

func TestSingleBarHorizontal(t *testing.T) {
	c := &SingleBar{X1: 10, Y1: 10, X2: 110, Y2: 20, Items: items(30, 20)}
	require.NoError(t, c.Layout())

	assert.Equal(t, 50.0, c.Max, "full scale defaults to the total")
	assert.Equal(t, []float64{10, 70}, []float64{c.Items[0].X1, c.Items[0].X2})
	assert.Equal(t, []float64{70, 110}, []float64{c.Items[1].X1, c.Items[1].X2})
	assert.Equal(t, 0.4, c.Items[1].Percentage)
}

func TestSingleBarVertical(t *testing.T) {
	c := &SingleBar{X1: 10, Y1: 0, X2: 20, Y2: 100, Vertical: true, Max: 100, Items: items(30, 50, 40)}
	require.NoError(t, c.Layout())

	assert.Equal(t, []float64{70, 100}, []float64{c.Items[0].Y1, c.Items[0].Y2})
	assert.Equal(t, []float64{20, 70}, []float64{c.Items[1].Y1, c.Items[1].Y2})
	assert.Equal(t, []float64{0, 20}, []float64{c.Items[2].Y1, c.Items[2].Y2}, "overflow is clipped at the top")
}

func TestSingleBarDraw(t *testing.T) {
	p := &paintLog{opacity: 1}
	c := &SingleBar{X1: 0, Y1: 10, X2: 100, Y2: 20, Title: "Stock", TitleFont: style.Font{Size: 10}, Items: items(1, 3)}
	require.NoError(t, c.Draw(p))

	assert.Equal(t, "rect 0 10 100 20 F:EEEEEE", p.calls[0])
	assert.Equal(t, "rect 0 10 25 20 F:FF0000", p.calls[1])
	assert.Equal(t, "box 0 5 100 10 CM", p.calls[3])
	assert.Equal(t, "Stock", p.boxes[0])
	// axis line plus five ticks, labels 0..4 below the bar
	assert.Equal(t, 6, p.count("line"))
	assert.Equal(t, []string{"Stock", "0", "1", "2", "3", "4"}, p.boxes)

	assert.True(t, errors.Is((&SingleBar{}).Draw(p), ErrNoData))
}

func TestAxis(t *testing.T) {
	p := &paintLog{}
	a := NewAxis(0, 0, 10, 100, 0, 50, true)
	a.Ticks = 1
	a.Draw(p)
	assert.Equal(t, "line 10 0 10 100", p.calls[0])
	assert.Equal(t, 3, p.count("line"), "at least two ticks")
	assert.Equal(t, []string{"50", "0"}, p.boxes)

	p = &paintLog{}
	a = NewAxis(0, 50, 100, 65, 0, 1, false)
	a.Title = "Ratio"
	a.Draw(p)
	assert.Equal(t, []string{"Ratio", "0", "0.25", "0.5", "0.75", "1"}, p.boxes)
	assert.Equal(t, "box -5 51.2 5 57.2 CM", p.calls[7])

	p = &paintLog{}
	a.Visible = false
	a.Draw(p)
	assert.Empty(t, p.calls)
}

func TestSelectSegment(t *testing.T) {
	segs := []Segment{
		{Label: "low", Start: 0, End: 30},
		{Label: "mid", Start: 30, End: 70},
		{Label: "high", Start: 70, End: 100},
	}
	cases := map[float64]string{-5: "low", 30: "low", 31: "mid", 70: "high", 250: "high"}
	for v, want := range cases {
		assert.Equal(t, want, SelectSegment(segs, v).Label, "value %g", v)
	}

	gap := []Segment{{Label: "a", Start: 0, End: 10}, {Label: "b", Start: 20, End: 30}, {Label: "c", Start: 40, End: 50}}
	def := SelectSegment(gap, 15)
	assert.Equal(t, "", def.Label)
	assert.Equal(t, "009999", def.Fill.Start.Hex())
	assert.Equal(t, 14.0, def.Font.Size)
	assert.Equal(t, "009999", SelectSegment(nil, 1).Fill.Start.Hex())
}

func TestGauge(t *testing.T) {
	c := &Gauge{X1: 0, Y1: 10, X2: 100, Y2: 60, Min: 0, Max: 200, Value: 50,
		Segments: []Segment{{Label: "ok", Start: 0, End: 100, Fill: style.SolidFill(style.MustHex("00AA00")), Symbol: "%"}}}
	p := &paintLog{}
	require.NoError(t, c.Draw(p))

	assert.Equal(t, 25.0, c.Radius)
	assert.Equal(t, 0.25, c.Percentage())
	assert.Equal(t, -45.0, c.Angle())
	assert.False(t, c.OverLimit())
	assert.Equal(t, "sector 50 35 25 -90 90 F:DCDCDC", p.calls[1])
	assert.Equal(t, "sector 50 35 25 -90 -45 F:00AA00", p.calls[2])
	assert.Equal(t, "circle 50 35 15 F:FFFFFF", p.calls[3])
	assert.Equal(t, []string{"", "50.0%\nok", "0", "200"}, p.boxes)
}

func TestGaugeClampAndErrors(t *testing.T) {
	c := &Gauge{X2: 10, Y2: 10, Min: 10, Max: 10}
	assert.True(t, errors.Is(c.Layout(), ErrInvalidRange))

	c = &Gauge{X2: 10, Y2: 10, Min: 0, Max: 10, Value: 15, Style: "pie"}
	p := &paintLog{}
	require.NoError(t, c.Draw(p))
	assert.Equal(t, 1.0, c.Percentage())
	assert.True(t, c.OverLimit())
	assert.Equal(t, 0, p.count("circle"))

	c = &Gauge{X2: 10, Y2: 10, Min: 0, Max: 10, Value: -3}
	p = &paintLog{}
	require.NoError(t, c.Draw(p))
	assert.Equal(t, 1, p.count("sector"), "empty gauge only draws the dial")
}

func TestKPI(t *testing.T) {
	seg := Segment{Label: "target met", Start: 0, End: 100, Fill: style.SolidFill(style.MustHex("336699")), Font: style.DefaultFont(), Symbol: " EUR"}
	c := &KPI{X1: 0, Y1: 0, X2: 40, Y2: 20, Title: "Revenue", Radius: 2, Border: true, Value: 1234.56, Segments: []Segment{seg}}
	p := &paintLog{}
	require.NoError(t, c.Draw(p))

	assert.Equal(t, "rect 0 0 40 20 DF:336699", p.calls[0])
	assert.Equal(t, []string{"Revenue", "1,234.6 EUR", "target met"}, p.boxes)
	assert.Equal(t, "box 0 0 40 20 CM", p.calls[2])

	c.Segments, c.Border = nil, false
	p = &paintLog{}
	require.NoError(t, c.Draw(p))
	assert.Equal(t, "rect 0 0 40 20 F:009999", p.calls[0])
	assert.Equal(t, "box 0 0 40 20 CB", p.calls[2])
	assert.Len(t, p.boxes, 2)
}

func TestLegend(t *testing.T) {
	l := NewLegend(0, 0, 100, 20)
	l.Title = "Parts"
	l.Opacity = 0.5
	p := &paintLog{opacity: 0.8}
	l.Draw(p, items(2, 3.5))

	assert.Equal(t, []float64{0.5, 0.8}, p.alpha)
	assert.Equal(t, "rect 0 0 100 20 DF:FFFFFF", p.calls[0])
	assert.Equal(t, []string{"Parts", "i1 (2)", "i2 (3.5)"}, p.boxes)
	// three cells share the width: (100 - 2*2) / 4
	assert.Equal(t, "box 2 2 26 8 LM", p.calls[1])
	assert.Equal(t, "rect 28 2 33 7 DF:FF0000", p.calls[2])
	assert.Equal(t, "box 35 2 59 8 LM", p.calls[3])

	l = NewLegend(0, 0, 50, 40)
	l.Vertical = true
	l.ShowValues = false
	p = &paintLog{opacity: 1}
	l.Draw(p, items(1, 1))
	assert.Equal(t, []string{"i1", "i2"}, p.boxes)
	assert.Equal(t, "box 9 2 48 8 LM", p.calls[2])
	assert.Equal(t, "rect 2 9 7 14 DF:00FF00", p.calls[3])

	p = &paintLog{}
	l.Visible = false
	l.Draw(p, items(1))
	assert.Empty(t, p.calls)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234.5", FormatNumber(1234.5, 1))
	assert.Equal(t, "0.0", FormatNumber(0, 1))
	assert.Equal(t, "1,000", FormatNumber(999.7, 0))
	assert.Equal(t, "3.33", formatValue(3.333))
}
