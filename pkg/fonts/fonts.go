// Package fonts provides the Go font family for raster rendering.
//
// The fonts ship with golang.org/x/image, so raster output needs no system
// fonts. Parsed fonts are cached after first use; faces are not, because a
// [font.Face] is not safe for concurrent use.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS name of the family, for vector output that should
// match raster output.
const FontFamily = "Go"

// FallbackFontFamily lists CSS fallbacks for viewers without the Go fonts.
const FallbackFontFamily = `Go, 'Helvetica Neue', Helvetica, Arial, sans-serif`

var (
	parseOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
	parseErr  error
)

func parse() error {
	parseOnce.Do(func() {
		if regular, parseErr = opentype.Parse(goregular.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse go regular: %w", parseErr)
			return
		}
		if bold, parseErr = opentype.Parse(gobold.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse go bold: %w", parseErr)
		}
	})
	return parseErr
}

// Face returns a new face of the given size in points at 72 DPI.
func Face(size float64, isBold bool) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, err
	}
	f := regular
	if isBold {
		f = bold
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
