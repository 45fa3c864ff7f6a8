package pdfreport

import (
	"context"
	"fmt"
	"strings"

	"github.com/lvillar/pdfreport/doctpl"
	"github.com/lvillar/pdfreport/style"
)

// offset is the position shift applied to every element of a content
// block printed by print_content.
type offset struct{ x, y float64 }

// processContent prints the content block named by a print_content node.
// The block is shifted by the optional x and y of the node and by the row
// offset of the current section.
func (r *Report) processContent(ctx context.Context, pc *doctpl.Node) error {
	a := r.attrs(pc)
	if ok, err := r.condition(a.str("if", "")); err != nil {
		return newReportError("ProcessContent", elementError(err, pc.Key()))
	} else if !ok {
		return nil
	}

	id := strings.ToLower(strings.TrimSpace(a.str("value|id|content", "")))
	if id == "" {
		return newReportError("ProcessContent", elementError(fmt.Errorf("%w: content id", ErrMissingAttribute), pc.Key()))
	}
	content, ok := r.contents[id]
	if !ok {
		return newReportError("ProcessContent", elementError(ErrMissingContent, id))
	}

	off := offset{x: a.num("x", 0), y: a.num("y", 0)}
	if err := a.err("ProcessContent"); err != nil {
		return err
	}
	if sec := r.current(); sec != nil {
		off.y += sec.OffsetY()
	}

	for _, el := range content.Children {
		if cond, ok := el.Attr("if"); ok {
			hold, err := r.condition(cond)
			if err != nil {
				return newReportError("ProcessContent", elementError(err, id+"/"+el.Key()))
			}
			if !hold {
				continue
			}
		}
		if err := r.processElement(ctx, el, off); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) processElement(ctx context.Context, el *doctpl.Node, off offset) error {
	switch el.Name {
	case "rem", "comment", "id", "text":
		return nil
	case "page":
		return r.processPage(el)
	case "line":
		return r.processLine(el, off)
	case "box":
		return r.processBox(el, off)
	case "rectangle", "rect":
		return r.processRectangle(el, off)
	case "piechart":
		return r.processPieChart(ctx, el, off)
	case "singlebarchart":
		return r.processSingleBarChart(ctx, el, off)
	case "gaugechart":
		return r.processGaugeChart(el, off)
	case "kpichart":
		return r.processKPIChart(el, off)
	case "font":
		f, err := r.readFont(el, r.font)
		if err != nil {
			return err
		}
		r.font = f
		r.surface.SetFont(f)
		return nil
	case "linestyle":
		l, err := r.readLine(el)
		if err != nil {
			return err
		}
		r.line = l
		r.surface.SetLineStyle(l)
		return nil
	case "fill":
		f, err := r.readFill(el)
		if err != nil {
			return err
		}
		r.fill = f
		if f.Type == style.FillSolid {
			r.surface.SetFillColor(f.Start)
		}
		return nil
	case "circle":
		return r.processCircle(el, off)
	case "barcode":
		return r.processBarcode(el, off)
	case "image":
		return r.processImage(el, off)
	case "background":
		return r.processBackground(el)
	case "watermark":
		return r.processWatermark(el)
	case "pagenumber":
		return r.processPageNumber(el)
	case "opacity", "alphacolor", "alpha":
		return r.processOpacity(el)
	case "var", "setvar":
		return r.processVar(el)
	}
	return newReportError("ProcessContent", elementError(ErrUnsupportedElement, el.Key()))
}

// processPage adds a page, changing the default orientation and format
// first when the element sets them.
func (r *Report) processPage(el *doctpl.Node) error {
	a := r.attrs(el)
	r.page.Orientation = a.upper("orientation", r.page.Orientation)
	r.page.Format = a.str("format", r.page.Format)
	r.addPage(r.page)
	return nil
}

func (r *Report) processLine(el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	x1 := a.reqNum("x1") + off.x
	y1 := a.reqNum("y1") + off.y
	x2 := a.reqNum("x2") + off.x
	y2 := a.reqNum("y2") + off.y
	orientation := strings.ToLower(a.str("orientation", "db"))
	if err := a.err("ProcessLine"); err != nil {
		return err
	}
	line := r.line
	if c := el.Child("linestyle"); c != nil && !c.IsScalar() {
		l, err := r.readLine(c)
		if err != nil {
			return err
		}
		line = l
	}

	switch orientation {
	case "ht", "horizontallytop":
		y2 = y1
	case "hb", "horizontallybottom":
		y1 = y2
	case "vl", "verticallyleft":
		x2 = x1
	case "vr", "verticallyright":
		x1 = x2
	case "df", "diagonallyforward":
		y1, y2 = y2, y1
	}
	r.withLine(line, func() { r.surface.Line(x1, y1, x2, y2) })
	return nil
}

func (r *Report) processBox(el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	x1 := a.reqNum("x1") + off.x
	y1 := a.reqNum("y1") + off.y
	x2 := a.reqNum("x2") + off.x
	y2 := a.reqNum("y2") + off.y
	halign := a.str("align|textalign|texthorizalign", "L")
	valign := a.str("vertalign|textvertalign", "T")
	border := a.str("border", "1")
	if err := a.err("ProcessBox"); err != nil {
		return err
	}
	font, line, fill, err := r.childStyles(el)
	if err != nil {
		return err
	}
	text := a.str("text", el.Text)
	r.drawBox(x1, y1, x2, y2, r.Resolve(text), font, halign, valign, border, line, &fill)
	return nil
}

func (r *Report) processRectangle(el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	x1 := a.reqNum("x1") + off.x
	y1 := a.reqNum("y1") + off.y
	x2 := a.reqNum("x2") + off.x
	y2 := a.reqNum("y2") + off.y
	radius := a.num("r|radius", 0)
	corners := a.str("border", "1111")
	if err := a.err("ProcessRectangle"); err != nil {
		return err
	}
	_, line, fill, err := r.childStyles(el)
	if err != nil {
		return err
	}
	r.drawRect(x1, y1, x2, y2, radius, corners, &line, &fill)
	return nil
}

// processCircle draws a circle or an arc with the default style, or with
// its own linestyle restored afterwards.
func (r *Report) processCircle(el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	x := a.reqNum("x") + off.x
	y := a.reqNum("y") + off.y
	radius := a.reqNum("r|radius")
	start := a.num("angstart", 0)
	end := a.num("angend", 360)
	if err := a.err("ProcessCircle"); err != nil {
		return err
	}
	line := r.line
	if c := el.Child("linestyle"); c != nil && !c.IsScalar() {
		l, err := r.readLine(c)
		if err != nil {
			return err
		}
		line = l
	}
	r.withLine(line, func() { r.surface.Circle(x, y, radius, start, end, "D") })
	return nil
}

func (r *Report) processOpacity(el *doctpl.Node) error {
	a := r.attrs(el)
	v := a.num("value", 1)
	if err := a.err("ProcessOpacity"); err != nil {
		return err
	}
	r.opacity = clamp01(v)
	r.surface.SetAlpha(r.opacity)
	return nil
}

// processVar sets a variable that is not set yet. The value is either the
// tag-resolved value attribute or the result of the expr attribute.
func (r *Report) processVar(el *doctpl.Node) error {
	a := r.attrs(el)
	name := a.required("name")
	if err := a.err("ProcessVar"); err != nil {
		return err
	}
	if code, ok := el.Value("expr"); ok {
		v, err := r.evalExpr(r.Resolve(code))
		if err != nil {
			return newReportError("ProcessVar", elementError(err, el.Key()))
		}
		r.vars.Set(name, v, false)
		return nil
	}
	v, ok := el.Value("value")
	if !ok {
		return newReportError("ProcessVar", elementError(fmt.Errorf("%w: value", ErrMissingAttribute), el.Key()))
	}
	r.vars.Set(name, r.Resolve(v), false)
	return nil
}
