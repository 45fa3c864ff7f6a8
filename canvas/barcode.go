package canvas

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/aztec"
	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	"github.com/boombuler/barcode/twooffive"
)

// BarcodePDF417 is drawn through the fpdf barcode contrib package.
const BarcodePDF417 = "PDF417"

// EncodeBarcode encodes value as a barcode of the given type. Type names
// follow the usual PDF library names: C39, C39+, C39E, C39E+, C93, C128,
// C128A, C128B, C128C, EAN8, EAN13, UPCA, I25, I25+, S25, S25+, CODABAR,
// QRCODE (with an optional ",L|M|Q|H" level), DATAMATRIX and AZTEC.
//
// PDF417 is accepted and returns a nil barcode.
func EncodeBarcode(typ, value string) (barcode.Barcode, error) {
	t := strings.ToUpper(strings.TrimSpace(typ))
	level := ""
	if i := strings.IndexByte(t, ','); i >= 0 {
		t, level = t[:i], strings.TrimSpace(t[i+1:])
	}

	var (
		bc  barcode.Barcode
		err error
	)
	switch t {
	case "C39":
		bc, err = code39.Encode(value, false, false)
	case "C39+":
		bc, err = code39.Encode(value, true, false)
	case "C39E":
		bc, err = code39.Encode(value, false, true)
	case "C39E+":
		bc, err = code39.Encode(value, true, true)
	case "C93":
		bc, err = code93.Encode(value, true, true)
	case "C128", "C128A", "C128B", "C128C":
		bc, err = code128.Encode(value)
	case "EAN8", "EAN13":
		bc, err = ean.Encode(value)
	case "UPCA":
		bc, err = ean.Encode("0" + value)
	case "I25", "I25+":
		bc, err = twooffive.Encode(value, true)
	case "S25", "S25+":
		bc, err = twooffive.Encode(value, false)
	case "CODABAR":
		bc, err = codabar.Encode(codabarFrame(value))
	case "QRCODE", "QR":
		bc, err = qr.Encode(value, qrLevel(level), qr.Auto)
	case "DATAMATRIX":
		bc, err = datamatrix.Encode(value)
	case "AZTEC":
		bc, err = aztec.Encode([]byte(value), aztec.DEFAULT_EC_PERCENT, aztec.DEFAULT_LAYERS)
	case BarcodePDF417:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBarcode, typ)
	}
	if err != nil {
		return nil, fmt.Errorf("canvas: encoding %s barcode %q: %w", t, value, err)
	}
	return bc, nil
}

// IsMatrixBarcode reports whether typ is a 2D symbology, drawn square and
// without a text line.
func IsMatrixBarcode(typ string) bool {
	t := strings.ToUpper(strings.TrimSpace(typ))
	if i := strings.IndexByte(t, ','); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "QRCODE", "QR", "DATAMATRIX", "AZTEC", BarcodePDF417:
		return true
	}
	return false
}

func qrLevel(l string) qr.ErrorCorrectionLevel {
	switch l {
	case "L":
		return qr.L
	case "Q":
		return qr.Q
	case "H":
		return qr.H
	default:
		return qr.M
	}
}

// codabarFrame adds the A start and stop characters when value has none.
func codabarFrame(value string) string {
	isStop := func(c byte) bool { return strings.IndexByte("ABCDabcd", c) >= 0 }
	if len(value) >= 2 && isStop(value[0]) && isStop(value[len(value)-1]) {
		return value
	}
	return "A" + value + "A"
}

// isDark reports whether a barcode module is a bar.
func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}

// barRuns returns the bars of a 1D barcode as (start, width) module runs.
func barRuns(bc barcode.Barcode) [][2]int {
	b := bc.Bounds()
	var runs [][2]int
	start := -1
	for x := b.Min.X; x < b.Max.X; x++ {
		dark := isDark(bc.At(x, b.Min.Y))
		switch {
		case dark && start < 0:
			start = x
		case !dark && start >= 0:
			runs = append(runs, [2]int{start - b.Min.X, x - start})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start - b.Min.X, b.Max.X - start})
	}
	return runs
}

// barcodeLayout places a barcode of modules wide modules in the box.
// Module width is xres unless that overflows the box. The barcode is
// aligned horizontally by align.
func barcodeLayout(x, w, xres float64, modules int, align string) (left, module float64) {
	module = xres
	if module <= 0 || float64(modules)*module > w {
		module = w / float64(modules)
	}
	total := float64(modules) * module
	switch strings.ToUpper(align) {
	case "L":
		left = x
	case "R":
		left = x + w - total
	default:
		left = x + (w-total)/2
	}
	return left, module
}
