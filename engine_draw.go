package pdfreport

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lvillar/pdfreport/canvas"
	"github.com/lvillar/pdfreport/chart"
	"github.com/lvillar/pdfreport/doctpl"
	"github.com/lvillar/pdfreport/style"
)

// lineProbeWidth is wide enough for a single character to fit on one line.
const lineProbeWidth = 1000.0

// attrReader reads the settings of one template element. The first
// failure is kept and reported by err, so an element reads all its
// settings before checking once.
type attrReader struct {
	r     *Report
	n     *doctpl.Node
	first error
}

func (r *Report) attrs(n *doctpl.Node) *attrReader { return &attrReader{r: r, n: n} }

func (a *attrReader) fail(err error) {
	if a.first == nil {
		a.first = elementError(err, a.n.Key())
	}
}

// err returns the first failure wrapped with the engine operation.
func (a *attrReader) err(op string) error {
	if a.first == nil {
		return nil
	}
	return newReportError(op, a.first)
}

func (a *attrReader) has(keys string) bool          { return a.n.Has(keys) }
func (a *attrReader) str(keys, def string) string   { return a.n.String(keys, def) }
func (a *attrReader) upper(keys, def string) string { return strings.ToUpper(strings.TrimSpace(a.str(keys, def))) }

// text returns the value with its tags resolved.
func (a *attrReader) text(keys, def string) string { return a.r.Resolve(a.n.String(keys, def)) }

func (a *attrReader) required(keys string) string {
	v, ok := a.n.Value(keys)
	if !ok || strings.TrimSpace(v) == "" {
		a.fail(fmt.Errorf("%w: %s", ErrMissingAttribute, keys))
		return ""
	}
	return v
}

func (a *attrReader) num(keys string, def float64) float64 {
	v, ok := a.n.Value(keys)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	return a.parseNum(keys, v)
}

func (a *attrReader) reqNum(keys string) float64 {
	v := a.required(keys)
	if v == "" {
		return 0
	}
	return a.parseNum(keys, v)
}

// parseNum reads a number. Tags are resolved first, and a value that is
// still not a number is evaluated as an expression, as in y2="{Y}+6".
func (a *attrReader) parseNum(keys, v string) float64 {
	if hasTags(v) {
		v = a.r.Resolve(v)
	}
	v = strings.TrimSpace(v)
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	out, err := a.r.evalExpr(v)
	if err == nil {
		if f, ok := toFloat(out); ok {
			return f
		}
	}
	a.fail(fmt.Errorf("%w: %s=%q is not a number", ErrInvalidParam, keys, v))
	return 0
}

func (a *attrReader) color(keys string, def style.Color) style.Color {
	v, ok := a.n.Value(keys)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	c, err := style.ParseHex(a.r.Resolve(v))
	if err != nil {
		a.fail(fmt.Errorf("%w: %s: %w", ErrInvalidParam, keys, err))
		return def
	}
	return c
}

func (a *attrReader) bool(keys string, def bool) bool {
	v, ok := a.n.Value(keys)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	return doctpl.ParseBool(a.r.Resolve(v))
}

// clamp01 keeps an opacity between 0 and 1.
func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// readFont reads a font element over base.
func (r *Report) readFont(n *doctpl.Node, base style.Font) (style.Font, error) {
	a := r.attrs(n)
	f := style.Font{
		Family: strings.ToLower(a.str("fontfamily|family", base.Family)),
		Style:  strings.ToUpper(a.str("fontstyle|style", base.Style)),
		Size:   a.num("fontsize|size", base.Size),
		Color:  a.color("fontcolor|color", base.Color),
	}
	return f, a.err("ProcessFont")
}

// readLine reads a linestyle element over the default line.
func (r *Report) readLine(n *doctpl.Node) (style.Line, error) {
	a := r.attrs(n)
	l := style.Line{
		Width: a.num("linewidth|width", r.line.Width),
		Cap:   strings.ToLower(a.str("linecap|cap", r.line.Cap)),
		Join:  strings.ToLower(a.str("linejoin|join", r.line.Join)),
		Dash:  a.str("linedash|dash", r.line.Dash),
		Phase: a.num("linephase|phase", r.line.Phase),
		Color: a.color("linecolor|color", r.line.Color),
	}
	return l, a.err("ProcessLineStyle")
}

// readFill reads a fill element over the default fill. The start color
// is required.
func (r *Report) readFill(n *doctpl.Node) (style.Fill, error) {
	a := r.attrs(n)
	f := style.Fill{Type: style.NormalizeFillType(a.str("type", r.fill.Type))}
	a.required("startcolor|color|color1")
	f.Start = a.color("startcolor|color|color1", r.fill.Start)
	f.End = a.color("endcolor|color2", r.fill.End)
	return f, a.err("ProcessFill")
}

// childStyles reads the optional font, linestyle and fill children of n,
// falling back to the report defaults.
func (r *Report) childStyles(n *doctpl.Node) (style.Font, style.Line, style.Fill, error) {
	font, line, fill := r.font, r.line, r.fill
	var err error
	if c := n.Child("font"); c != nil && !c.IsScalar() {
		if font, err = r.readFont(c, r.font); err != nil {
			return font, line, fill, err
		}
	}
	if c := n.Child("linestyle"); c != nil && !c.IsScalar() {
		if line, err = r.readLine(c); err != nil {
			return font, line, fill, err
		}
	}
	if c := n.Child("fill"); c != nil && !c.IsScalar() {
		if fill, err = r.readFill(c); err != nil {
			return font, line, fill, err
		}
	}
	return font, line, fill, nil
}

// withFont draws fn in font f and restores the default font.
func (r *Report) withFont(f style.Font, fn func()) {
	if f.Equal(r.font) {
		fn()
		return
	}
	r.surface.SetFont(f)
	fn()
	r.surface.SetFont(r.font)
}

// withLine draws fn with line l and restores the default line.
func (r *Report) withLine(l style.Line, fn func()) {
	if l.Equal(r.line) {
		fn()
		return
	}
	r.surface.SetLineStyle(l)
	fn()
	r.surface.SetLineStyle(r.line)
}

// withFillColor draws fn with fill color c and restores the default fill.
func (r *Report) withFillColor(c style.Color, fn func()) {
	if c == r.fill.Start {
		fn()
		return
	}
	r.surface.SetFillColor(c)
	fn()
	r.surface.SetFillColor(r.fill.Start)
}

// drawBox writes text in the box from (x1,y1) to (x2,y2). Text that does
// not fit the box height is cut one character at a time.
func (r *Report) drawBox(x1, y1, x2, y2 float64, text string, font style.Font, halign, valign, border string, line style.Line, fill *style.Fill) {
	x, y := min(x1, x2), min(y1, y2)
	w, h := math.Abs(x2-x1), math.Abs(y2-y1)
	r.withLine(line, func() {
		r.withFont(font, func() {
			runes := []rune(text)
			for len(runes) > 0 && r.surface.TextHeight(w, string(runes)) > h {
				runes = runes[:len(runes)-1]
			}
			box := canvas.TextBox{
				X: x, Y: y, W: w, H: h,
				Text:   string(runes),
				Border: border,
				Align:  style.HorizontalAlign(halign),
				VAlign: style.VerticalAlign(valign),
			}
			if fill == nil {
				r.surface.Box(box)
				return
			}
			switch fill.Type {
			case style.FillLinear:
				r.surface.LinearGradient(x, y, w, h, fill.Start, fill.End)
			case style.FillRadial:
				r.surface.RadialGradient(x, y, w, h, fill.Start, fill.End)
			default:
				box.Fill = true
			}
			r.withFillColor(fill.Start, func() { r.surface.Box(box) })
		})
	})
}

// drawRect draws a rectangle with rounded corners selected by corners. The
// outline is drawn for a line wider than 0 and the inside is filled for a
// solid fill.
func (r *Report) drawRect(x1, y1, x2, y2, radius float64, corners string, line *style.Line, fill *style.Fill) {
	st := ""
	if line != nil && line.Width > 0 {
		st = "D"
	}
	if fill != nil && fill.Type == style.FillSolid {
		st += "F"
	}
	if st == "" {
		return
	}
	rect := canvas.Rect{
		X: min(x1, x2), Y: min(y1, y2), W: math.Abs(x2 - x1), H: math.Abs(y2 - y1),
		R:       radius,
		Corners: corners,
		Style:   st,
	}
	l := r.line
	if line != nil {
		l = *line
	}
	c := r.fill.Start
	if fill != nil {
		c = fill.Start
	}
	r.withLine(l, func() {
		r.withFillColor(c, func() { r.surface.Rectangle(rect) })
	})
}

// painter draws charts on the report surface with the report styles.
type painter struct{ r *Report }

var _ chart.Painter = painter{}

func (p painter) Box(x1, y1, x2, y2 float64, text string, font style.Font, halign, valign, border string) {
	p.r.drawBox(x1, y1, x2, y2, text, font, halign, valign, border, p.r.line, nil)
}

func (p painter) Rectangle(x1, y1, x2, y2, radius float64, corners string, line *style.Line, fill *style.Fill) {
	p.r.drawRect(x1, y1, x2, y2, radius, corners, line, fill)
}

func (p painter) Line(x1, y1, x2, y2 float64, line style.Line) {
	p.r.withLine(line, func() { p.r.surface.Line(x1, y1, x2, y2) })
}

func (p painter) Sector(xc, yc, radius, start, end float64, fill style.Color, st string) {
	p.r.withFillColor(fill, func() { p.r.surface.Sector(xc, yc, radius, start, end, st) })
}

func (p painter) Circle(xc, yc, radius float64, fill style.Color, st string) {
	p.r.withFillColor(fill, func() { p.r.surface.Circle(xc, yc, radius, 0, 360, st) })
}

func (p painter) SetAlpha(a float64) { p.r.surface.SetAlpha(a) }
func (p painter) Opacity() float64   { return p.r.opacity }

func (p painter) LineHeight(font style.Font) float64 {
	var h float64
	p.r.withFont(font, func() { h = p.r.surface.TextHeight(lineProbeWidth, "X") })
	return h
}
