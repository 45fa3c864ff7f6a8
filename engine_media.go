package pdfreport

import (
	"fmt"
	"strings"

	"github.com/lvillar/pdfreport/canvas"
	"github.com/lvillar/pdfreport/doctpl"
	"github.com/lvillar/pdfreport/observability"
	"github.com/lvillar/pdfreport/pageops"
)

// outputLayout names the default output file.
const outputLayout = "20060102_150405"

// processBarcode draws a barcode. Position, size, alignment and type
// become the defaults of the barcodes that follow.
func (r *Report) processBarcode(el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	b := r.barcode
	b.X = a.num("x", 0) + off.x
	b.Y = a.num("y", 0) + off.y
	b.Width = a.num("width", b.Width)
	b.Height = a.num("height", b.Height)
	b.Align = a.upper("align", b.Align)
	b.Type = a.upper("type", b.Type)
	b.Value = a.text("value", b.Value)
	if err := a.err("ProcessBarcode"); err != nil {
		return err
	}
	r.barcode = b
	if err := r.surface.Barcode(b); err != nil {
		return newReportError("ProcessBarcode", elementError(err, el.Key()))
	}
	return nil
}

// processImage places a picture. The size is given either by width and
// height or by the opposite corner x2, y2.
func (r *Report) processImage(el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	file := r.Resolve(a.required("file"))
	x := a.reqNum("x|x1") + off.x
	y := a.reqNum("y|y1") + off.y
	var w, h float64
	switch {
	case a.has("width") && a.has("height"):
		w, h = a.num("width", 30), a.num("height", 20)
	case a.has("x2") && a.has("y2"):
		w = a.num("x2", 0) + off.x - x
		h = a.num("y2", 0) + off.y - y
	default:
		a.fail(fmt.Errorf("%w: width,height or x2,y2", ErrMissingAttribute))
	}
	typ := a.str("type", "")
	if err := a.err("ProcessImage"); err != nil {
		return err
	}
	img := canvas.Image{File: r.path(file), X: x, Y: y, W: w, H: h, Type: typ}
	if err := r.surface.Image(img); err != nil {
		return newReportError("ProcessImage", elementError(err, el.Key()))
	}
	return nil
}

// processBackground draws a page of an existing PDF under the current page.
func (r *Report) processBackground(el *doctpl.Node) error {
	a := r.attrs(el)
	file := r.Resolve(a.required("file"))
	page := int(a.num("page", 1))
	if err := a.err("ProcessBackground"); err != nil {
		return err
	}
	if err := r.surface.Background(r.path(file), page); err != nil {
		return newReportError("ProcessBackground", elementError(err, el.Key()))
	}
	return nil
}

func (r *Report) processWatermark(el *doctpl.Node) error {
	a := r.attrs(el)
	wm := pageops.TextWatermark{
		Text:     r.Resolve(a.required("text|value")),
		FontSize: a.num("size|fontsize", 0),
		Opacity:  clamp01(a.num("opacity", 0)),
		Angle:    a.num("angle", 0),
	}
	if a.has("color") {
		wm.Color = a.color("color", wm.Color)
	}
	if err := a.err("ProcessWatermark"); err != nil {
		return err
	}
	r.surface.Watermark(wm)
	return nil
}

func (r *Report) processPageNumber(el *doctpl.Node) error {
	a := r.attrs(el)
	st := pageops.PageNumberStyle{
		Format:   r.Resolve(a.str("format|value", pageops.DefaultPageNumberFormat)),
		Position: pageops.ParsePosition(a.str("position", "bottom-center")),
		FontSize: a.num("size|fontsize", 0),
		Color:    a.color("color", r.font.Color),
		Margin:   a.num("margin", 0),
	}
	if err := a.err("ProcessPageNumber"); err != nil {
		return err
	}
	r.surface.PageNumber(st)
	return nil
}

// processOutput writes the document to the file named by the element. The
// destination is always the file, whatever dest says.
func (r *Report) processOutput(el *doctpl.Node) error {
	name := strings.TrimSpace(r.Resolve(el.String("name|filename", "")))
	if name == "" {
		name = "document_" + r.cfg.now().Format(outputLayout) + ".pdf"
	}
	r.log.Info("writing output",
		observability.String("file", name),
		observability.String("dest", el.String("dest|destination", "F")),
	)
	if err := r.writeFile(name); err != nil {
		return newReportError("ProcessOutput", elementError(err, el.Key()))
	}
	return nil
}
