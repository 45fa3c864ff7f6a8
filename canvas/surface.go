// Package canvas defines the drawing surface the report engine paints on,
// with a PDF implementation built on fpdf and a Recorder that keeps every
// call in memory for tests and previews.
//
// A Surface is stateful: SetFont, SetLineStyle and SetFillColor change the
// style used by the drawing calls that follow. Coordinates are in the
// document unit with the origin at the top-left corner of the page.
package canvas

import (
	"errors"
	"io"

	"github.com/lvillar/pdfreport/pageops"
	"github.com/lvillar/pdfreport/style"
)

var (
	// ErrUnsupportedImage is returned for image formats the surface cannot embed.
	ErrUnsupportedImage = errors.New("canvas: unsupported image format")
	// ErrUnsupportedBarcode is returned for unknown barcode types.
	ErrUnsupportedBarcode = errors.New("canvas: unsupported barcode type")
)

// Info is the document metadata.
type Info struct {
	Creator  string
	Author   string
	Title    string
	Subject  string
	Keywords string
}

// TextBox is a text cell drawn with the current font, line and fill.
type TextBox struct {
	X, Y, W, H float64
	Text       string
	Border     string // "0" none, "1" all sides, or a subset of "LTRB"
	Align      string // L, C, R, J
	VAlign     string // T, M, B
	Fill       bool
}

// Rect is a rectangle, optionally with rounded corners.
type Rect struct {
	X, Y, W, H float64
	R          float64 // corner radius, 0 for square corners
	// Corners selects the rounded corners as four flags in the order
	// top-right, bottom-right, bottom-left, top-left. Empty means all.
	Corners string
	Style   string // D draw, F fill, DF both
}

// Image places a picture file. Type overrides the file extension.
type Image struct {
	File       string
	X, Y, W, H float64
	Type       string
}

// Surface is the drawing backend.
type Surface interface {
	// AddPage starts a new page in the given format.
	AddPage(p style.Page)
	SetInfo(info Info)

	SetFont(f style.Font)
	SetLineStyle(l style.Line)
	SetFillColor(c style.Color)
	// SetAlpha sets the opacity, 0..1, of everything drawn next.
	SetAlpha(a float64)

	Line(x1, y1, x2, y2 float64)
	Box(b TextBox)
	// TextHeight returns the height Box needs to show text at width.
	TextHeight(width float64, text string) float64
	Rectangle(r Rect)
	// Circle draws an arc from start to end, in degrees counter-clockwise
	// from 3 o'clock. A 360 degree span is a full circle.
	Circle(x, y, r, start, end float64, style string)
	// Sector draws a pie slice from start to end, in degrees clockwise
	// from 12 o'clock.
	Sector(xc, yc, r, start, end float64, style string)
	LinearGradient(x, y, w, h float64, from, to style.Color)
	RadialGradient(x, y, w, h float64, from, to style.Color)

	Barcode(b style.Barcode) error
	Image(img Image) error
	// Background draws page (1-based) of a PDF file under the current page.
	Background(file string, page int) error
	Watermark(wm pageops.TextWatermark)
	PageNumber(st pageops.PageNumberStyle)

	// TotalPagesAlias is replaced by the page count when the document is written.
	TotalPagesAlias() string
	PageNo() int
	Output(w io.Writer) error
	// Err returns the first error the surface ran into, if any.
	Err() error
}
