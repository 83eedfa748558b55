// Package raster renders a [render.Scene] to a bitmap with fogleman/gg.
//
// Text uses the Go fonts from [fonts], so output does not depend on the
// fonts installed on the host. The bitmap is the scene size times the scale
// factor, rounded up to whole pixels:
//
//	img, err := raster.Render(scene, raster.WithScale(2))
//	png, err := raster.EncodePNG(scene)
package raster

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/fonts"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/render"
)

// Option configures raster rendering.
type Option func(*Canvas)

// Bitmap limits. Scenes that would exceed them fail with LAYOUT_OVERFLOW
// before any pixel buffer is allocated.
const (
	MaxSide   = 32768
	MaxPixels = 1 << 28
)

// WithScale multiplies the output resolution. Values <= 0 and non-finite
// values are ignored.
func WithScale(s float64) Option {
	return func(c *Canvas) {
		if s > 0 && !math.IsInf(s, 0) {
			c.scale = s
		}
	}
}

// Size returns the pixel dimensions of scene at the given scale.
func Size(scene render.Scene, scale float64) (w, h int) {
	return int(math.Ceil(scene.Width * scale)), int(math.Ceil(scene.Height * scale))
}

// CheckSize fails with LAYOUT_OVERFLOW when the bitmap for scene at scale
// would exceed MaxSide or MaxPixels.
func CheckSize(scene render.Scene, scale float64) error {
	w, h := math.Ceil(scene.Width*scale), math.Ceil(scene.Height*scale)
	if math.IsNaN(w) || math.IsNaN(h) || w > MaxSide || h > MaxSide || w*h > MaxPixels {
		return errors.New(errors.ErrCodeLayoutOverflow,
			"bitmap %gx%g at scale %g exceeds the raster limit", scene.Width, scene.Height, scale)
	}
	return nil
}

// Render draws scene onto a new RGBA image.
func Render(scene render.Scene, opts ...Option) (image.Image, error) {
	dc, err := draw(scene, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG renders scene and encodes it as PNG.
func EncodePNG(scene render.Scene, opts ...Option) ([]byte, error) {
	dc, err := draw(scene, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func draw(scene render.Scene, opts []Option) (*gg.Context, error) {
	c := &Canvas{scale: 1, faces: make(map[faceKey]font.Face)}
	for _, opt := range opts {
		opt(c)
	}
	defer c.closeFaces()

	if err := CheckSize(scene, c.scale); err != nil {
		return nil, err
	}
	w, h := Size(scene, c.scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty scene %vx%v", scene.Width, scene.Height)
	}
	c.dc = gg.NewContext(w, h)
	c.dc.SetLineCapRound()

	scene.Draw(c)
	if c.err != nil {
		return nil, c.err
	}
	return c.dc, nil
}

type faceKey struct {
	size float64
	bold bool
}

// Canvas is a [render.Canvas] backed by a gg context. The first font error
// is kept and reported by Render; later text calls are skipped.
type Canvas struct {
	dc    *gg.Context
	scale float64
	faces map[faceKey]font.Face
	err   error
}

func (c *Canvas) DrawRect(r layout.Rect, s render.RectStyle) {
	k := c.scale
	x, y, w, h := r.X*k, r.Y*k, r.W*k, r.H*k
	if s.Radius > 0 {
		c.dc.DrawRoundedRectangle(x, y, w, h, s.Radius*k)
	} else {
		c.dc.DrawRectangle(x, y, w, h)
	}
	stroke := s.Stroke != "" && s.StrokeWidth > 0
	if s.Fill != "" {
		c.dc.SetHexColor(s.Fill)
		if stroke {
			c.dc.FillPreserve()
		} else {
			c.dc.Fill()
		}
	}
	if stroke {
		c.dc.SetHexColor(s.Stroke)
		c.dc.SetLineWidth(s.StrokeWidth * k)
		c.setDash(s.Dash)
		c.dc.Stroke()
	}
	c.dc.ClearPath()
}

func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, s render.LineStyle) {
	if s.Color == "" || s.Width <= 0 {
		return
	}
	k := c.scale
	c.dc.SetHexColor(s.Color)
	c.dc.SetLineWidth(s.Width * k)
	c.setDash(s.Dash)
	c.dc.DrawLine(x1*k, y1*k, x2*k, y2*k)
	c.dc.Stroke()
}

func (c *Canvas) DrawText(x, y float64, text string, s render.TextStyle) {
	if c.err != nil || text == "" {
		return
	}
	face, err := c.face(s.Size*c.scale, s.Bold)
	if err != nil {
		c.err = err
		return
	}
	c.dc.SetFontFace(face)
	c.dc.SetHexColor(s.Color)

	var ax float64
	switch s.Anchor {
	case render.AnchorMiddle:
		ax = 0.5
	case render.AnchorEnd:
		ax = 1
	}
	c.dc.DrawStringAnchored(text, x*c.scale, y*c.scale, ax, 0.35)
}

func (c *Canvas) setDash(dash []float64) {
	if len(dash) == 0 {
		c.dc.SetDash()
		return
	}
	scaled := make([]float64, len(dash))
	for i, d := range dash {
		scaled[i] = d * c.scale
	}
	c.dc.SetDash(scaled...)
}

func (c *Canvas) face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size, bold}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	f, err := fonts.Face(size, bold)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	c.faces[key] = f
	return f, nil
}

func (c *Canvas) closeFaces() {
	for _, f := range c.faces {
		_ = f.Close()
	}
}
