package canvas

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	fpdfbarcode "github.com/go-pdf/fpdf/contrib/barcode"

	"github.com/lvillar/pdfreport/pageops"
	"github.com/lvillar/pdfreport/style"
)

// lineHeightRatio is the text line height as a multiple of the font size.
const lineHeightRatio = 1.25

const totalPagesAlias = "{nb}"

var coreFonts = map[string]bool{
	"helvetica":    true,
	"arial":        true,
	"times":        true,
	"courier":      true,
	"symbol":       true,
	"zapfdingbats": true,
}

// PDF is a Surface writing a PDF document through fpdf.
type PDF struct {
	pdf     *fpdf.Fpdf
	fontDir string
	tr      func(string) string

	font style.Font
	line style.Line
	fill style.Color

	utf8Fonts   map[string]bool
	utf8Active  bool
	images      map[string]bool
	backgrounds *pageops.Backgrounds
	closed      []byte
}

var _ Surface = (*PDF)(nil)

// NewPDF creates an empty document. page sets the unit and the default
// format; fontDir is searched for TrueType fonts other than the core ones.
func NewPDF(page style.Page, fontDir string) *PDF {
	if page.Unit == "" {
		page.Unit = "mm"
	}
	pdf := fpdf.New(page.Orientation, page.Unit, page.Format, fontDir)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages(totalPagesAlias)

	c := &PDF{
		pdf:         pdf,
		fontDir:     fontDir,
		tr:          pdf.UnicodeTranslatorFromDescriptor(""),
		utf8Fonts:   make(map[string]bool),
		images:      make(map[string]bool),
		backgrounds: pageops.NewBackgrounds(),
	}
	c.SetFont(style.DefaultFont())
	c.SetLineStyle(style.DefaultLine())
	c.SetFillColor(style.White)
	return c
}

// Fpdf exposes the underlying document for drawing the surface does not cover.
func (c *PDF) Fpdf() *fpdf.Fpdf { return c.pdf }

func (c *PDF) AddPage(p style.Page) {
	orientation := strings.ToUpper(p.Orientation)
	if orientation == "" {
		orientation = "P"
	}
	format := p.Format
	if format == "" {
		format = "A4"
	}
	c.pdf.AddPageFormat(orientation, c.pdf.GetPageSizeStr(format))
	c.SetFont(c.font)
	c.SetLineStyle(c.line)
	c.SetFillColor(c.fill)
}

func (c *PDF) SetInfo(info Info) {
	if info.Creator != "" {
		c.pdf.SetCreator(info.Creator, true)
	}
	if info.Author != "" {
		c.pdf.SetAuthor(info.Author, true)
	}
	if info.Title != "" {
		c.pdf.SetTitle(info.Title, true)
	}
	if info.Subject != "" {
		c.pdf.SetSubject(info.Subject, true)
	}
	if info.Keywords != "" {
		c.pdf.SetKeywords(info.Keywords, true)
	}
}

func (c *PDF) SetFont(f style.Font) {
	family := strings.ToLower(strings.TrimSpace(f.Family))
	if family == "" {
		family = "helvetica"
	}
	st := strings.ToUpper(f.Style)
	c.utf8Active = false
	if !coreFonts[family] {
		c.utf8Active = c.loadUTF8Font(family, st)
	}
	c.pdf.SetFont(family, st, f.Size)
	c.pdf.SetTextColor(f.Color.R, f.Color.G, f.Color.B)
	c.font = f
}

// loadUTF8Font registers family from the font directory. File names follow
// the family plus "b", "i" or "bi" convention, e.g. dejavusansb.ttf.
func (c *PDF) loadUTF8Font(family, st string) bool {
	base := strings.ReplaceAll(st, "U", "")
	suffix := ""
	switch {
	case strings.Contains(base, "B") && strings.Contains(base, "I"):
		suffix, base = "bi", "BI"
	case strings.Contains(base, "B"):
		suffix = "b"
	case strings.Contains(base, "I"):
		suffix = "i"
	}
	key := family + base
	if c.utf8Fonts[key] {
		return true
	}
	if c.fontDir == "" {
		return false
	}
	file := family + suffix + ".ttf"
	if _, err := os.Stat(filepath.Join(c.fontDir, file)); err != nil {
		return false
	}
	c.pdf.AddUTF8Font(family, base, file)
	c.utf8Fonts[key] = true
	return true
}

func (c *PDF) text(s string) string {
	if c.utf8Active {
		return s
	}
	return c.tr(s)
}

func (c *PDF) SetLineStyle(l style.Line) {
	c.pdf.SetLineWidth(l.Width)
	if l.Cap != "" {
		c.pdf.SetLineCapStyle(l.Cap)
	}
	if l.Join != "" {
		c.pdf.SetLineJoinStyle(l.Join)
	}
	dash := l.DashPattern()
	if dash == nil {
		dash = []float64{}
	}
	c.pdf.SetDashPattern(dash, l.Phase)
	c.pdf.SetDrawColor(l.Color.R, l.Color.G, l.Color.B)
	c.line = l
}

func (c *PDF) SetFillColor(col style.Color) {
	c.pdf.SetFillColor(col.R, col.G, col.B)
	c.fill = col
}

func (c *PDF) SetAlpha(a float64) {
	c.pdf.SetAlpha(a, "Normal")
}

func (c *PDF) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDF) lineHeight() float64 {
	_, unitSize := c.pdf.GetFontSize()
	return unitSize * lineHeightRatio
}

func (c *PDF) lines(width float64, text string) int {
	if text == "" {
		return 0
	}
	if c.utf8Active {
		return len(c.pdf.SplitText(text, width))
	}
	return len(c.pdf.SplitLines([]byte(c.tr(text)), width))
}

func (c *PDF) TextHeight(width float64, text string) float64 {
	return float64(c.lines(width, text)) * c.lineHeight()
}

func (c *PDF) Box(b TextBox) {
	if b.Fill {
		c.pdf.Rect(b.X, b.Y, b.W, b.H, "F")
	}
	if b.Text != "" {
		lh := c.lineHeight()
		th := float64(c.lines(b.W, b.Text)) * lh
		y := b.Y
		switch b.VAlign {
		case "M":
			y += (b.H - th) / 2
		case "B":
			y += b.H - th
		}
		align := b.Align
		if align == "" {
			align = "L"
		}
		c.pdf.SetXY(b.X, y)
		c.pdf.MultiCell(b.W, lh, c.text(b.Text), "", align, false)
	}
	c.border(b.X, b.Y, b.W, b.H, b.Border)
}

func (c *PDF) border(x, y, w, h float64, border string) {
	bd := strings.ToUpper(strings.TrimSpace(border))
	switch bd {
	case "", "0":
		return
	case "1":
		c.pdf.Rect(x, y, w, h, "D")
		return
	}
	if strings.Contains(bd, "L") {
		c.pdf.Line(x, y, x, y+h)
	}
	if strings.Contains(bd, "T") {
		c.pdf.Line(x, y, x+w, y)
	}
	if strings.Contains(bd, "R") {
		c.pdf.Line(x+w, y, x+w, y+h)
	}
	if strings.Contains(bd, "B") {
		c.pdf.Line(x, y+h, x+w, y+h)
	}
}

func (c *PDF) Rectangle(r Rect) {
	st := r.Style
	if st == "" {
		st = "D"
	}
	if r.R <= 0 {
		c.pdf.Rect(r.X, r.Y, r.W, r.H, st)
		return
	}
	tr, br, bl, tl := cornerRadii(r.Corners, r.R)
	c.pdf.RoundedRectExt(r.X, r.Y, r.W, r.H, tl, tr, br, bl, st)
}

// cornerRadii reads the rounded corner flags (top-right, bottom-right,
// bottom-left, top-left) and returns each corner's radius.
func cornerRadii(corners string, r float64) (tr, br, bl, tl float64) {
	if corners == "" {
		corners = "1111"
	}
	flag := func(i int) float64 {
		if i < len(corners) && corners[i] == '0' {
			return 0
		}
		return r
	}
	return flag(0), flag(1), flag(2), flag(3)
}

func (c *PDF) Circle(x, y, r, start, end float64, st string) {
	if end-start >= 360 || end-start <= -360 {
		c.pdf.Circle(x, y, r, st)
		return
	}
	c.pdf.Arc(x, y, r, r, 0, start, end, st)
}

func (c *PDF) Sector(xc, yc, r, start, end float64, st string) {
	if end-start >= 360 {
		c.pdf.Circle(xc, yc, r, st)
		return
	}
	c.pdf.MoveTo(xc, yc)
	c.pdf.ArcTo(xc, yc, r, r, 0, 90-end, 90-start)
	c.pdf.ClosePath()
	c.pdf.DrawPath(st)
}

func (c *PDF) LinearGradient(x, y, w, h float64, from, to style.Color) {
	c.pdf.LinearGradient(x, y, w, h, from.R, from.G, from.B, to.R, to.G, to.B, 0, 0, 1, 0)
}

func (c *PDF) RadialGradient(x, y, w, h float64, from, to style.Color) {
	c.pdf.RadialGradient(x, y, w, h, from.R, from.G, from.B, to.R, to.G, to.B, 0.5, 0.5, 0.5, 0.5, 1)
}

func (c *PDF) Barcode(b style.Barcode) error {
	bc, err := EncodeBarcode(b.Type, b.Value)
	if err != nil {
		return err
	}
	defer c.SetFillColor(c.fill)

	c.pdf.SetFillColor(b.Background.R, b.Background.G, b.Background.B)
	c.pdf.Rect(b.X, b.Y, b.Width, b.Height, "F")

	if bc == nil {
		key := fpdfbarcode.RegisterPdf417(c.pdf, b.Value, 10, 2)
		fpdfbarcode.Barcode(c.pdf, key, b.X, b.Y, b.Width, b.Height, false)
		return c.Err()
	}

	c.pdf.SetFillColor(b.Color.R, b.Color.G, b.Color.B)
	bounds := bc.Bounds()
	if IsMatrixBarcode(b.Type) {
		size := min(b.Width, b.Height)
		n := max(bounds.Dx(), bounds.Dy())
		left, module := barcodeLayout(b.X, b.Width, size/float64(n), n, b.Align)
		top := b.Y + (b.Height-float64(bounds.Dy())*module)/2
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if isDark(bc.At(x, y)) {
					c.pdf.Rect(left+float64(x-bounds.Min.X)*module, top+float64(y-bounds.Min.Y)*module, module, module, "F")
				}
			}
		}
		return c.Err()
	}

	textH := 0.0
	if b.FontSize > 0 {
		c.pdf.SetFont(b.FontFamily, "", b.FontSize)
		_, unitSize := c.pdf.GetFontSize()
		textH = unitSize * lineHeightRatio
	}
	barH := b.Height - textH
	left, module := barcodeLayout(b.X, b.Width, b.XRes, bounds.Dx(), b.Align)
	for _, run := range barRuns(bc) {
		c.pdf.Rect(left+float64(run[0])*module, b.Y, float64(run[1])*module, barH, "F")
	}
	if textH > 0 {
		c.pdf.SetTextColor(b.Color.R, b.Color.G, b.Color.B)
		c.pdf.SetXY(b.X, b.Y+barH)
		c.pdf.CellFormat(b.Width, textH, c.tr(b.Value), "", 0, "C", false, 0, "")
		c.SetFont(c.font)
	}
	return c.Err()
}

func (c *PDF) Image(img Image) error {
	typ := imageType(img)
	opts := fpdf.ImageOptions{ReadDpi: true}
	if nativeImage(typ) {
		if _, err := os.Stat(img.File); err != nil {
			return fmt.Errorf("canvas: image: %w", err)
		}
		opts.ImageType = typ
	} else {
		if !c.images[img.File] {
			data, err := convertImage(img.File, typ)
			if err != nil {
				return err
			}
			c.pdf.RegisterImageOptionsReader(img.File, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
			c.images[img.File] = true
		}
		opts.ImageType = "PNG"
	}
	c.pdf.ImageOptions(img.File, img.X, img.Y, img.W, img.H, false, opts, 0, "")
	return c.Err()
}

func (c *PDF) Background(file string, page int) error {
	return c.backgrounds.Draw(c.pdf, file, page)
}

func (c *PDF) Watermark(wm pageops.TextWatermark) {
	pageops.DrawTextWatermark(c.pdf, wm)
	c.SetFont(c.font)
}

func (c *PDF) PageNumber(st pageops.PageNumberStyle) {
	pageops.DrawPageNumber(c.pdf, st, totalPagesAlias)
	c.SetFont(c.font)
}

func (c *PDF) TotalPagesAlias() string { return totalPagesAlias }
func (c *PDF) PageNo() int             { return c.pdf.PageNo() }

// Output closes the document on the first call and writes it to w. Later
// calls write the same bytes again.
func (c *PDF) Output(w io.Writer) error {
	if c.closed == nil {
		var buf bytes.Buffer
		if err := c.pdf.Output(&buf); err != nil {
			return fmt.Errorf("canvas: %w", err)
		}
		c.closed = buf.Bytes()
	}
	if _, err := w.Write(c.closed); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	return nil
}

func (c *PDF) Err() error {
	if c.pdf.Err() {
		return fmt.Errorf("canvas: %w", c.pdf.Error())
	}
	return nil
}
