package pageops

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/lvillar/pdfreport/style"
)

// createTestPDF generates a simple test PDF file with the given number of pages.
func createTestPDF(t *testing.T, filename string, numPages int) {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	for i := 1; i <= numPages; i++ {
		pdf.AddPage()
		pdf.Text(20, 30, fmt.Sprintf("Page %d of %d", i, numPages))
	}
	if err := pdf.OutputFileAndClose(filename); err != nil {
		t.Fatalf("creating test PDF: %v", err)
	}
}

func newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetCompression(false)
	return pdf
}

func output(t *testing.T, pdf *fpdf.Fpdf) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	return buf.Bytes()
}

func TestBackgroundDraw(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "letterhead.pdf")
	createTestPDF(t, src, 2)

	pdf := newDoc()
	bg := NewBackgrounds()
	for i := 0; i < 3; i++ {
		pdf.AddPage()
		if err := bg.Draw(pdf, src, 2); err != nil {
			t.Fatalf("draw background: %v", err)
		}
	}
	if len(bg.tpls) != 1 {
		t.Errorf("expected the page to be imported once, got %d templates", len(bg.tpls))
	}
	output(t, pdf)
}

func TestBackgroundMissingFile(t *testing.T) {
	pdf := newDoc()
	pdf.AddPage()
	err := NewBackgrounds().Draw(pdf, filepath.Join(t.TempDir(), "none.pdf"), 1)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestDrawTextWatermark(t *testing.T) {
	pdf := newDoc()
	pdf.AddPage()
	pdf.SetAlpha(0.8, "Normal")
	DrawTextWatermark(pdf, TextWatermark{Text: "DRAFT"})

	if a, _ := pdf.GetAlpha(); a != 0.8 {
		t.Errorf("alpha not restored: got %v", a)
	}
	output(t, pdf)
}

func TestDrawPageNumber(t *testing.T) {
	pdf := newDoc()
	for i := 0; i < 2; i++ {
		pdf.AddPage()
		DrawPageNumber(pdf, PageNumberStyle{Position: BottomRight, Color: style.Color{R: 90}}, "{nb}")
	}
	out := output(t, pdf)
	if bytes.Contains(out, []byte("{nb}")) {
		t.Error("total pages alias was not replaced")
	}
}

func TestFormatPageNumber(t *testing.T) {
	got := FormatPageNumber("Page {PAGEINDEX} / {PAGETOTAL}", 3, "{nb}")
	if got != "Page 3 / {nb}" {
		t.Errorf("got %q", got)
	}
}

func TestParsePosition(t *testing.T) {
	tests := map[string]Position{
		"TL":          TopLeft,
		"top-right":   TopRight,
		"center":      Center,
		"bottom-left": BottomLeft,
		"BR":          BottomRight,
		"":            BottomCenter,
		"somewhere":   BottomCenter,
		" TopCenter ": TopCenter,
	}
	for in, want := range tests {
		if got := ParsePosition(in); got != want {
			t.Errorf("ParsePosition(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCalculatePosition(t *testing.T) {
	const w, h, tw, th, m = 200.0, 300.0, 20.0, 4.0, 10.0
	tests := []struct {
		pos  Position
		x, y float64
	}{
		{TopLeft, 10, 14},
		{TopCenter, 90, 14},
		{TopRight, 170, 14},
		{BottomLeft, 10, 290},
		{BottomCenter, 90, 290},
		{BottomRight, 170, 290},
		{Center, 90, 150},
	}
	for _, tt := range tests {
		x, y := calculatePosition(tt.pos, w, h, tw, th, m)
		if x != tt.x || y != tt.y {
			t.Errorf("position %d: got (%v, %v), want (%v, %v)", tt.pos, x, y, tt.x, tt.y)
		}
	}
}
