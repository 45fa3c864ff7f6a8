package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// svgRasterSize is the pixel size of the longest side of a rasterized SVG.
const svgRasterSize = 1024

// imageType returns the lowercased type of img, from Type or the file
// extension.
func imageType(img Image) string {
	t := img.Type
	if t == "" {
		t = filepath.Ext(img.File)
	}
	t = strings.ToLower(strings.TrimPrefix(t, "."))
	switch t {
	case "jpeg":
		return "jpg"
	case "tif":
		return "tiff"
	}
	return t
}

// nativeImage reports whether fpdf embeds the type directly.
func nativeImage(t string) bool {
	return t == "png" || t == "jpg" || t == "gif"
}

// convertImage decodes a picture fpdf cannot embed and re-encodes it as PNG.
func convertImage(file, typ string) ([]byte, error) {
	switch typ {
	case "bmp", "tiff", "webp", "svg":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, typ)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("canvas: image: %w", err)
	}
	defer f.Close()

	var img image.Image
	switch typ {
	case "bmp":
		img, err = bmp.Decode(f)
	case "tiff":
		img, err = tiff.Decode(f)
	case "webp":
		img, err = webp.Decode(f)
	default:
		img, err = rasterizeSVG(f)
	}
	if err != nil {
		return nil, fmt.Errorf("canvas: decoding %s: %w", file, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("canvas: encoding %s: %w", file, err)
	}
	return buf.Bytes(), nil
}

// rasterizeSVG draws an SVG icon into an RGBA image, keeping the view box
// aspect ratio.
func rasterizeSVG(f *os.File) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(f, oksvg.WarnErrorMode)
	if err != nil {
		return nil, err
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = svgRasterSize, svgRasterSize
	}
	w, h := svgRasterSize, svgRasterSize
	if vw > vh {
		h = int(float64(svgRasterSize) * vh / vw)
	} else {
		w = int(float64(svgRasterSize) * vw / vh)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return rgba, nil
}
