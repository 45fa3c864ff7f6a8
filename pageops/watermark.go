package pageops

import (
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/lvillar/pdfreport/style"
)

// TextWatermark defines a text-based watermark.
type TextWatermark struct {
	Text     string      // watermark text
	FontSize float64     // font size in points (default: 60)
	Color    style.Color // text color (default: light gray)
	Opacity  float64     // 0.0 to 1.0 (default: 0.3)
	Angle    float64     // rotation angle in degrees (default: 45)
}

func (wm TextWatermark) withDefaults() TextWatermark {
	if wm.FontSize == 0 {
		wm.FontSize = 60
	}
	if wm.Opacity == 0 {
		wm.Opacity = 0.3
	}
	if wm.Angle == 0 {
		wm.Angle = 45
	}
	if wm.Color == (style.Color{}) {
		wm.Color = style.Color{R: 200, G: 200, B: 200}
	}
	return wm
}

// DrawTextWatermark renders the watermark text centered on the current
// page. The previous alpha is restored afterwards; the caller re-applies
// its own font and text color.
func DrawTextWatermark(pdf *fpdf.Fpdf, wm TextWatermark) {
	wm = wm.withDefaults()
	pageW, pageH := pdf.GetPageSize()
	alpha, blend := pdf.GetAlpha()

	pdf.SetFont("Helvetica", "B", wm.FontSize)
	pdf.SetTextColor(wm.Color.R, wm.Color.G, wm.Color.B)
	pdf.SetAlpha(wm.Opacity, "Normal")

	textW := pdf.GetStringWidth(wm.Text)
	_, unitSize := pdf.GetFontSize()
	cx := pageW / 2
	cy := pageH / 2

	pdf.TransformBegin()
	pdf.TransformRotate(wm.Angle, cx, cy)
	pdf.Text(cx-textW/2, cy+unitSize/3, wm.Text)
	pdf.TransformEnd()

	pdf.SetAlpha(alpha, blend)
}

// DefaultPageNumberFormat is used when PageNumberStyle.Format is empty.
const DefaultPageNumberFormat = "Page {PAGEINDEX} of {PAGETOTAL}"

// PageNumberStyle defines the appearance and position of page numbers.
type PageNumberStyle struct {
	Format   string      // text with {PAGEINDEX} and {PAGETOTAL} (default: "Page {PAGEINDEX} of {PAGETOTAL}")
	Position Position    // where to place the number (default: BottomCenter)
	FontSize float64     // font size in points (default: 10)
	Color    style.Color // text color (default: black)
	Margin   float64     // margin from page edge in document units (default: 10)
}

// FormatPageNumber fills the page placeholders of format. totalAlias is
// the document's total-pages alias, replaced when the document is closed.
func FormatPageNumber(format string, page int, totalAlias string) string {
	r := strings.NewReplacer(
		"{PAGEINDEX}", strconv.Itoa(page),
		"{pageindex}", strconv.Itoa(page),
		"{PAGETOTAL}", totalAlias,
		"{pagetotal}", totalAlias,
	)
	return r.Replace(format)
}

// DrawPageNumber writes the page number of the current page.
func DrawPageNumber(pdf *fpdf.Fpdf, st PageNumberStyle, totalAlias string) {
	if st.Format == "" {
		st.Format = DefaultPageNumberFormat
	}
	if st.FontSize == 0 {
		st.FontSize = 10
	}
	if st.Margin == 0 {
		st.Margin = 10
	}

	text := FormatPageNumber(st.Format, pdf.PageNo(), totalAlias)
	pdf.SetFont("Helvetica", "", st.FontSize)
	pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)

	pageW, pageH := pdf.GetPageSize()
	_, unitSize := pdf.GetFontSize()
	// Measure with a two-digit total in place of the alias.
	measured := text
	if totalAlias != "" {
		measured = strings.ReplaceAll(text, totalAlias, "00")
	}
	textW := pdf.GetStringWidth(measured)
	x, y := calculatePosition(st.Position, pageW, pageH, textW, unitSize, st.Margin)
	pdf.Text(x, y, text)
}
