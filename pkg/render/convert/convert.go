// Package convert converts SVG documents to PNG and PDF.
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (librsvg) when it is on the
// PATH. [ToPNG] falls back to [Rasterize], a pure-Go rasterizer built on
// srwiley/oksvg that draws shapes but skips text elements.
package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"os/exec"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const rsvg = "rsvg-convert"

// HasRSVG reports whether rsvg-convert is available.
func HasRSVG() bool {
	_, err := exec.LookPath(rsvg)
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	if !HasRSVG() {
		return nil, fmt.Errorf("pdf export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG at the given scale. A scale of 2.0 doubles
// the resolution.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if HasRSVG() {
		return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
	}
	return Rasterize(svg, scale)
}

// Rasterize draws svg in pure Go and encodes the result as PNG. The image
// size is the viewBox times scale, rounded up.
func Rasterize(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has empty viewBox %vx%v", icon.ViewBox.W, icon.ViewBox.H)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Dimensions returns the viewBox size of an SVG document.
func Dimensions(svg []byte) (w, h float64, err error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return 0, 0, fmt.Errorf("parse svg: %w", err)
	}
	return icon.ViewBox.W, icon.ViewBox.H, nil
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command(rsvg, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", rsvg, err, errBuf.String())
	}
	return out.Bytes(), nil
}
