// Package pageops stamps pages of a document while it is being built:
// imported PDF pages as backgrounds, rotated text watermarks and page
// numbers.
//
// It uses the gofpdi contrib package to import pages of existing PDFs as
// templates into the live document.
package pageops

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// Position specifies where to place an element on a page.
type Position int

const (
	Center Position = iota
	TopLeft
	TopCenter
	TopRight
	BottomLeft
	BottomCenter
	BottomRight
)

var positionNames = map[string]Position{
	"c": Center, "center": Center, "middle": Center,
	"tl": TopLeft, "top-left": TopLeft, "topleft": TopLeft,
	"tc": TopCenter, "t": TopCenter, "top": TopCenter, "top-center": TopCenter, "topcenter": TopCenter,
	"tr": TopRight, "top-right": TopRight, "topright": TopRight,
	"bl": BottomLeft, "bottom-left": BottomLeft, "bottomleft": BottomLeft,
	"bc": BottomCenter, "b": BottomCenter, "bottom": BottomCenter, "bottom-center": BottomCenter, "bottomcenter": BottomCenter,
	"br": BottomRight, "bottom-right": BottomRight, "bottomright": BottomRight,
}

// ParsePosition reads a position name such as "bottom-right" or "BR".
// Unknown names give BottomCenter.
func ParsePosition(s string) Position {
	if p, ok := positionNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p
	}
	return BottomCenter
}

// Backgrounds imports pages of existing PDFs and draws them as page
// backgrounds. Each file page is imported once and reused.
type Backgrounds struct {
	imp  *gofpdi.Importer
	tpls map[string]int
}

// NewBackgrounds returns an empty importer.
func NewBackgrounds() *Backgrounds {
	return &Backgrounds{imp: gofpdi.NewImporter(), tpls: make(map[string]int)}
}

// Draw places page (1-based) of file over the whole current page.
func (b *Backgrounds) Draw(pdf *fpdf.Fpdf, file string, page int) error {
	if page < 1 {
		page = 1
	}
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("pageops: background: %w", err)
	}
	key := fmt.Sprintf("%s#%d", file, page)
	tplID, ok := b.tpls[key]
	if !ok {
		tplID = importPage(pdf, b.imp, file, page)
		if pdf.Err() {
			return fmt.Errorf("pageops: background %s: %w", file, pdf.Error())
		}
		b.tpls[key] = tplID
	}

	pw, ph := pdf.GetPageSize()
	b.imp.UseImportedTemplate(pdf, tplID, 0, 0, pw, ph)
	if pdf.Err() {
		return fmt.Errorf("pageops: background %s: %w", file, pdf.Error())
	}
	return nil
}

// importPage imports a single page from a source file into the target PDF
// and returns the template ID.
func importPage(pdf *fpdf.Fpdf, imp *gofpdi.Importer, sourceFile string, pageNum int) int {
	return imp.ImportPage(pdf, sourceFile, pageNum, "/MediaBox")
}

// calculatePosition returns x, y coordinates for text placement.
func calculatePosition(pos Position, pageW, pageH, textW, textH, margin float64) (x, y float64) {
	switch pos {
	case TopLeft:
		return margin, margin + textH
	case TopCenter:
		return (pageW - textW) / 2, margin + textH
	case TopRight:
		return pageW - textW - margin, margin + textH
	case BottomLeft:
		return margin, pageH - margin
	case BottomRight:
		return pageW - textW - margin, pageH - margin
	case Center:
		return (pageW - textW) / 2, pageH / 2
	default: // BottomCenter
		return (pageW - textW) / 2, pageH - margin
	}
}
