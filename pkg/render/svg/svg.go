// Package svg renders a [render.Scene] as a standalone SVG document.
//
// The document's width, height and viewBox equal the scene size, so one
// user unit maps to one pixel:
//
//	doc := svg.Render(scene)
//
// Text uses dominant-baseline="central" to honor the scene's convention that
// a text y coordinate is the vertical center of the line.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/render"
)

// DefaultFontFamily is the font stack written on text elements.
const DefaultFontFamily = "Helvetica, Arial, sans-serif"

// Option configures SVG output.
type Option func(*Canvas)

// WithFontFamily overrides the CSS font stack used for text.
func WithFontFamily(f string) Option { return func(c *Canvas) { c.font = f } }

// WithTitle adds a <title> element, shown as a tooltip by most viewers.
func WithTitle(t string) Option { return func(c *Canvas) { c.title = t } }

// Canvas is a [render.Canvas] that appends SVG elements to a buffer.
type Canvas struct {
	buf   bytes.Buffer
	font  string
	title string
}

// Render draws scene into a complete SVG document.
func Render(scene render.Scene, opts ...Option) []byte {
	c := &Canvas{font: DefaultFontFamily}
	for _, opt := range opts {
		opt(c)
	}

	fmt.Fprintf(&c.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(scene.Width), num(scene.Height), num(scene.Width), num(scene.Height))
	if c.title != "" {
		fmt.Fprintf(&c.buf, "  <title>%s</title>\n", EscapeXML(c.title))
	}
	scene.Draw(c)
	c.buf.WriteString("</svg>\n")
	return c.buf.Bytes()
}

func (c *Canvas) DrawRect(r layout.Rect, s render.RectStyle) {
	fmt.Fprintf(&c.buf, `  <rect x="%s" y="%s" width="%s" height="%s"`, num(r.X), num(r.Y), num(r.W), num(r.H))
	if s.Radius > 0 {
		fmt.Fprintf(&c.buf, ` rx="%s" ry="%s"`, num(s.Radius), num(s.Radius))
	}
	fmt.Fprintf(&c.buf, ` fill="%s"`, paint(s.Fill))
	if s.Stroke != "" && s.StrokeWidth > 0 {
		fmt.Fprintf(&c.buf, ` stroke="%s" stroke-width="%s"`, paint(s.Stroke), num(s.StrokeWidth))
		writeDash(&c.buf, s.Dash)
	}
	c.buf.WriteString("/>\n")
}

func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, s render.LineStyle) {
	fmt.Fprintf(&c.buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="round"`,
		num(x1), num(y1), num(x2), num(y2), paint(s.Color), num(s.Width))
	writeDash(&c.buf, s.Dash)
	c.buf.WriteString("/>\n")
}

func (c *Canvas) DrawText(x, y float64, text string, s render.TextStyle) {
	fmt.Fprintf(&c.buf, `  <text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s" text-anchor="%s" dominant-baseline="central"`,
		num(x), num(y), EscapeXML(c.font), num(s.Size), paint(s.Color), anchor(s.Anchor))
	if s.Bold {
		c.buf.WriteString(` font-weight="bold"`)
	}
	fmt.Fprintf(&c.buf, ">%s</text>\n", EscapeXML(text))
}

func writeDash(buf *bytes.Buffer, dash []float64) {
	if len(dash) == 0 {
		return
	}
	parts := make([]string, len(dash))
	for i, d := range dash {
		parts[i] = num(d)
	}
	fmt.Fprintf(buf, ` stroke-dasharray="%s"`, strings.Join(parts, ","))
}

func anchor(a render.Anchor) string {
	switch a {
	case render.AnchorMiddle:
		return "middle"
	case render.AnchorEnd:
		return "end"
	}
	return "start"
}

// paint returns an attribute-safe fill or stroke value.
func paint(c string) string {
	if c == "" {
		return "none"
	}
	return EscapeXML(c)
}

// num formats a coordinate with at most two decimals and no trailing zeros.
// Non-finite values are written as 0.
func num(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
