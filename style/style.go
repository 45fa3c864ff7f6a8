// Package style holds the drawing settings a report template can set:
// fonts, line styles, fills, page formats and barcode options.
//
// Colors are written in templates as 6-digit hex strings ("FF0000" or
// "#FF0000"). Every settings type has an Equal method; the engine only
// applies an override when it differs from the current default.
package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for colors that are not 6 hex digits.
var ErrInvalidColor = errors.New("style: the color must be expressed in hexadecimal format, 6 characters long")

// Color represents an RGB color value.
type Color struct {
	R, G, B int
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// ParseHex parses "RRGGBB" with an optional leading '#'.
func ParseHex(s string) (Color, error) {
	h := strings.TrimLeft(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: int(v >> 16 & 0xFF), G: int(v >> 8 & 0xFF), B: int(v & 0xFF)}, nil
}

// MustHex is ParseHex for compile-time constants. It panics on bad input.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as uppercase "RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", clamp(c.R), clamp(c.G), clamp(c.B))
}

// Adjust adds amount to every channel, clamped to 0..255.
// Negative amounts darken the color.
func (c Color) Adjust(amount int) Color {
	return Color{R: clamp(c.R + amount), G: clamp(c.G + amount), B: clamp(c.B + amount)}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Font defines font properties for text rendering.
type Font struct {
	Family string
	Style  string  // "", "B", "I", "U", "BI", ...
	Size   float64 // in points
	Color  Color
}

// DefaultFont returns helvetica regular 9pt black.
func DefaultFont() Font {
	return Font{Family: "helvetica", Style: "", Size: 9, Color: Black}
}

// Equal reports whether f and o render identically.
func (f Font) Equal(o Font) bool {
	return f.Family == o.Family && f.Style == o.Style && f.Size == o.Size && f.Color == o.Color
}

// Line defines the stroke used for lines and borders.
type Line struct {
	Width float64
	Cap   string // butt, round, square
	Join  string // miter, round, bevel
	Dash  string // "0" for solid, or on/off lengths such as "2" or "2,1"
	Phase float64
	Color Color
}

// DefaultLine returns a 0.2 wide solid black line.
func DefaultLine() Line {
	return Line{Width: 0.2, Cap: "butt", Join: "miter", Dash: "0", Phase: 0, Color: Black}
}

// Equal reports whether l and o render identically.
func (l Line) Equal(o Line) bool {
	return l.Width == o.Width && l.Cap == o.Cap && l.Join == o.Join &&
		l.Dash == o.Dash && l.Phase == o.Phase && l.Color == o.Color
}

// DashPattern converts Dash to on/off lengths. A single value n means
// n on, n off. It returns nil for a solid line.
func (l Line) DashPattern() []float64 {
	d := strings.TrimSpace(l.Dash)
	if d == "" || d == "0" {
		return nil
	}
	var out []float64
	for _, part := range strings.Split(d, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v < 0 {
			return nil
		}
		out = append(out, v)
	}
	if len(out) == 1 {
		out = append(out, out[0])
	}
	return out
}

// Fill types.
const (
	FillSolid  = "S"
	FillLinear = "L"
	FillRadial = "R"
)

// Fill defines how closed shapes are filled.
type Fill struct {
	Type  string
	Start Color
	End   Color
}

// DefaultFill returns a solid white fill.
func DefaultFill() Fill {
	return Fill{Type: FillSolid, Start: White, End: White}
}

// SolidFill returns a solid fill of c.
func SolidFill(c Color) Fill {
	return Fill{Type: FillSolid, Start: c, End: White}
}

// NormalizeFillType maps a template fill type to S, L or R. "G"radient is
// an alias for linear and anything unknown becomes solid.
func NormalizeFillType(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return FillSolid
	}
	switch t[:1] {
	case "L", "G":
		return FillLinear
	case "R":
		return FillRadial
	default:
		return FillSolid
	}
}

// Equal reports whether f and o render identically.
func (f Fill) Equal(o Fill) bool {
	return f.Type == o.Type && f.Start == o.Start && f.End == o.End
}

// Page describes a page format.
type Page struct {
	Format      string // A4, A3, Letter, ...
	Orientation string // P or L
	Unit        string // mm, pt, cm, in
}

// DefaultPage returns A4 portrait in millimeters.
func DefaultPage() Page {
	return Page{Format: "A4", Orientation: "P", Unit: "mm"}
}

// ParsePage reads "format[,orientation[,unit]]" such as "A4,L". Missing
// parts are taken from base.
func ParsePage(s string, base Page) Page {
	p := base
	parts := strings.Split(s, ",")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		p.Format = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		p.Orientation = strings.ToUpper(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		p.Unit = strings.TrimSpace(parts[2])
	}
	return p
}

// Barcode holds the placement and look of a barcode.
type Barcode struct {
	X, Y       float64
	Width      float64
	Height     float64
	XRes       float64
	Align      string // L, C, R
	Type       string // C39, C93, C128, EAN13, QRCODE, ...
	Value      string
	FontFamily string
	FontSize   float64
	Color      Color
	Background Color
}

// DefaultBarcode returns a 30x10 Code 39 barcode with helvetica 9 text.
func DefaultBarcode() Barcode {
	return Barcode{
		Width:      30,
		Height:     10,
		XRes:       0.4,
		Align:      "C",
		Type:       "C39",
		FontFamily: "helvetica",
		FontSize:   9,
		Color:      Black,
		Background: White,
	}
}

var horizontalAlign = map[string]string{
	"l": "L", "left": "L",
	"r": "R", "right": "R",
	"c": "C", "center": "C", "m": "C", "mid": "C", "middle": "C",
	"j": "J", "justify": "J", "justification": "J",
}

var verticalAlign = map[string]string{
	"t": "T", "top": "T",
	"m": "M", "mid": "M", "middle": "M", "cen": "M", "center": "M",
	"b": "B", "bot": "B", "bottom": "B",
}

// HorizontalAlign normalizes a template alignment to L, C, R or J.
// Unknown values give L.
func HorizontalAlign(a string) string {
	if v, ok := horizontalAlign[strings.ToLower(strings.TrimSpace(a))]; ok {
		return v
	}
	return "L"
}

// VerticalAlign normalizes a template alignment to T, M or B.
// Unknown values give T.
func VerticalAlign(a string) string {
	if v, ok := verticalAlign[strings.ToLower(strings.TrimSpace(a))]; ok {
		return v
	}
	return "T"
}
