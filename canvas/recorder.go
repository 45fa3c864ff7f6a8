package canvas

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lvillar/pdfreport/pageops"
	"github.com/lvillar/pdfreport/style"
)

// Op is one recorded drawing call.
type Op struct {
	Kind   string // page, line, box, rect, circle, sector, gradient, barcode, image, background, watermark, pagenumber, alpha
	Page   int
	Text   string
	Coords []float64
	Style  string
}

// Recorder is a Surface that keeps every call in memory. Its text metrics
// are fixed: a character is 0.2 and a line 0.45 times the font size wide
// and high, so layouts are reproducible without font files.
type Recorder struct {
	Ops   []Op
	Info  Info
	Pages []style.Page

	Font      style.Font
	LineStyle style.Line
	Fill      style.Color
	Alpha     float64

	// ResolveFiles makes Image and Background fail for missing files.
	ResolveFiles bool
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns a Recorder with the default styles applied.
func NewRecorder() *Recorder {
	return &Recorder{
		Font:      style.DefaultFont(),
		LineStyle: style.DefaultLine(),
		Fill:      style.White,
		Alpha:     1,
	}
}

func (r *Recorder) add(op Op) {
	op.Page = len(r.Pages)
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) AddPage(p style.Page) {
	r.Pages = append(r.Pages, p)
	r.add(Op{Kind: "page", Text: p.Format + "," + p.Orientation})
}

func (r *Recorder) SetInfo(info Info)          { r.Info = info }
func (r *Recorder) SetFont(f style.Font)       { r.Font = f }
func (r *Recorder) SetLineStyle(l style.Line)  { r.LineStyle = l }
func (r *Recorder) SetFillColor(c style.Color) { r.Fill = c }

func (r *Recorder) SetAlpha(a float64) {
	r.Alpha = a
	r.add(Op{Kind: "alpha", Coords: []float64{a}})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.add(Op{Kind: "line", Coords: []float64{x1, y1, x2, y2}, Style: r.LineStyle.Color.Hex()})
}

func (r *Recorder) lineHeight() float64 { return r.Font.Size * 0.45 }
func (r *Recorder) charWidth() float64  { return r.Font.Size * 0.2 }

func (r *Recorder) TextHeight(width float64, text string) float64 {
	if text == "" {
		return 0
	}
	lines := 0
	for _, para := range strings.Split(text, "\n") {
		n := len([]rune(para))
		if width <= 0 || n == 0 {
			lines++
			continue
		}
		lines += max(1, int(math.Ceil(float64(n)*r.charWidth()/width)))
	}
	return float64(lines) * r.lineHeight()
}

func (r *Recorder) Box(b TextBox) {
	st := b.Align + b.VAlign + "/" + b.Border
	if b.Fill {
		st += "/F"
	}
	r.add(Op{Kind: "box", Text: b.Text, Coords: []float64{b.X, b.Y, b.W, b.H}, Style: st})
}

func (r *Recorder) Rectangle(rc Rect) {
	r.add(Op{Kind: "rect", Coords: []float64{rc.X, rc.Y, rc.W, rc.H, rc.R}, Style: rc.Style})
}

func (r *Recorder) Circle(x, y, rad, start, end float64, st string) {
	r.add(Op{Kind: "circle", Coords: []float64{x, y, rad, start, end}, Style: st})
}

func (r *Recorder) Sector(xc, yc, rad, start, end float64, st string) {
	r.add(Op{Kind: "sector", Coords: []float64{xc, yc, rad, start, end}, Style: st + ":" + r.Fill.Hex()})
}

func (r *Recorder) LinearGradient(x, y, w, h float64, from, to style.Color) {
	r.add(Op{Kind: "gradient", Coords: []float64{x, y, w, h}, Style: "L:" + from.Hex() + "-" + to.Hex()})
}

func (r *Recorder) RadialGradient(x, y, w, h float64, from, to style.Color) {
	r.add(Op{Kind: "gradient", Coords: []float64{x, y, w, h}, Style: "R:" + from.Hex() + "-" + to.Hex()})
}

func (r *Recorder) Barcode(b style.Barcode) error {
	if _, err := EncodeBarcode(b.Type, b.Value); err != nil {
		return err
	}
	r.add(Op{Kind: "barcode", Text: b.Value, Coords: []float64{b.X, b.Y, b.Width, b.Height}, Style: b.Type})
	return nil
}

func (r *Recorder) Image(img Image) error {
	typ := imageType(img)
	switch typ {
	case "png", "jpg", "gif", "bmp", "tiff", "webp", "svg":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedImage, typ)
	}
	if err := r.checkFile(img.File); err != nil {
		return err
	}
	r.add(Op{Kind: "image", Text: img.File, Coords: []float64{img.X, img.Y, img.W, img.H}, Style: typ})
	return nil
}

func (r *Recorder) Background(file string, page int) error {
	if err := r.checkFile(file); err != nil {
		return err
	}
	r.add(Op{Kind: "background", Text: file, Coords: []float64{float64(page)}})
	return nil
}

func (r *Recorder) checkFile(file string) error {
	if !r.ResolveFiles {
		return nil
	}
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	return nil
}

func (r *Recorder) Watermark(wm pageops.TextWatermark) {
	r.add(Op{Kind: "watermark", Text: wm.Text, Coords: []float64{wm.FontSize, wm.Opacity, wm.Angle}})
}

func (r *Recorder) PageNumber(st pageops.PageNumberStyle) {
	format := st.Format
	if format == "" {
		format = pageops.DefaultPageNumberFormat
	}
	r.add(Op{Kind: "pagenumber", Text: pageops.FormatPageNumber(format, r.PageNo(), totalPagesAlias)})
}

func (r *Recorder) TotalPagesAlias() string { return totalPagesAlias }
func (r *Recorder) PageNo() int             { return len(r.Pages) }

// Output writes one line per recorded call, with the total pages alias
// replaced.
func (r *Recorder) Output(w io.Writer) error {
	total := strconv.Itoa(len(r.Pages))
	for _, op := range r.Ops {
		coords := make([]string, len(op.Coords))
		for i, c := range op.Coords {
			coords[i] = strconv.FormatFloat(c, 'f', -1, 64)
		}
		text := strings.ReplaceAll(op.Text, totalPagesAlias, total)
		if _, err := fmt.Fprintf(w, "%d %s [%s] %q %s\n", op.Page, op.Kind, strings.Join(coords, " "), text, op.Style); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) Err() error { return nil }

// OpsOf returns the recorded calls of one kind.
func (r *Recorder) OpsOf(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the text of every recorded box, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.OpsOf("box") {
		out = append(out, op.Text)
	}
	return out
}
