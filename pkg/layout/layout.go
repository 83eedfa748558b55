package layout

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
)

// Layout is the geometry of a diagram. Every node and group ID has an entry
// in Rects; the root group has none.
type Layout struct {
	Canvas Rect            `json:"canvas"`
	Title  Rect            `json:"title"`
	Legend Rect            `json:"legend"`
	Rects  map[string]Rect `json:"rects"`

	// Entries places one swatch and caption per style tag inside Legend.
	Entries []LegendEntry `json:"legend_entries,omitempty"`

	// Text metrics the renderer must reuse to stay inside the boxes.
	FontSize float64 `json:"font_size"`
	Padding  float64 `json:"padding"`
}

// LegendEntry is one row item of the legend band.
type LegendEntry struct {
	Style  string `json:"style"`
	Swatch Rect   `json:"swatch"`
	Text   Rect   `json:"text"`
}

// Rect returns the rectangle assigned to id.
func (l Layout) Rect(id string) (Rect, bool) {
	r, ok := l.Rects[id]
	return r, ok
}

// LineHeight is the vertical advance used for node and group text.
func (l Layout) LineHeight() float64 { return l.FontSize * 1.4 }

type size struct{ w, h float64 }

type assigner struct {
	d     *diagram.Diagram
	opts  Options
	sizes map[string]size
	dirs  map[string]diagram.Direction
	bands map[string]float64
	rects map[string]Rect
}

// Compute assigns a rectangle to every node and group of d.
func Compute(d *diagram.Diagram, opts Options) (Layout, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Layout{}, err
	}

	a := &assigner{
		d:     d,
		opts:  opts,
		sizes: make(map[string]size),
		dirs:  make(map[string]diagram.Direction),
		bands: make(map[string]float64),
		rects: make(map[string]Rect, d.NodeCount()+d.GroupCount()),
	}

	rootDir := resolve(opts.Direction, resolve(d.Direction(), diagram.TopToBottom))
	content := a.measureChildren(d.Root(), rootDir)

	margin := opts.Padding
	l := Layout{FontSize: opts.FontSize, Padding: opts.Padding}
	y := margin

	titleW, titleH := a.titleSize()
	if titleH > 0 {
		l.Title = Rect{X: margin, Y: y, H: titleH}
		y += titleH + opts.Gap/2
	}

	a.place(d.Root(), rootDir, margin, y)
	y += content.h

	var legendW float64
	if styles := d.Styles(); opts.Legend && len(styles) > 0 {
		y += opts.Gap / 2
		l.Entries, legendW = a.legend(styles, margin, y)
		l.Legend = Rect{X: margin, Y: y, H: opts.LineHeight()}
		y += l.Legend.H
	}

	inner := max(content.w, titleW, legendW)
	if titleH > 0 {
		l.Title.W = inner
	}
	if legendW > 0 {
		l.Legend.W = inner
	}
	l.Canvas = Rect{W: math.Ceil(inner + 2*margin), H: math.Ceil(y + margin)}
	l.Rects = a.rects

	if math.IsInf(l.Canvas.W, 0) || math.IsInf(l.Canvas.H, 0) || math.IsNaN(l.Canvas.W) || math.IsNaN(l.Canvas.H) {
		return Layout{}, errors.New(errors.ErrCodeLayoutOverflow, "canvas size %gx%g is not finite", l.Canvas.W, l.Canvas.H)
	}
	if opts.MaxWidth > 0 && l.Canvas.W > opts.MaxWidth {
		return Layout{}, errors.New(errors.ErrCodeLayoutOverflow,
			"canvas width %.0f exceeds limit %.0f", l.Canvas.W, opts.MaxWidth)
	}
	if opts.MaxHeight > 0 && l.Canvas.H > opts.MaxHeight {
		return Layout{}, errors.New(errors.ErrCodeLayoutOverflow,
			"canvas height %.0f exceeds limit %.0f", l.Canvas.H, opts.MaxHeight)
	}
	return l, nil
}

func resolve(dir, fallback diagram.Direction) diagram.Direction {
	if dir == diagram.DirectionDefault {
		return fallback
	}
	return dir
}

func (a *assigner) measureChildren(g *diagram.Group, dir diagram.Direction) size {
	var s size
	for i, c := range g.Children() {
		cs := a.measure(c, dir)
		if dir == diagram.LeftToRight {
			if i > 0 {
				s.w += a.opts.Gap
			}
			s.w += cs.w
			s.h = max(s.h, cs.h)
		} else {
			if i > 0 {
				s.h += a.opts.Gap
			}
			s.h += cs.h
			s.w = max(s.w, cs.w)
		}
	}
	return s
}

func (a *assigner) measure(c diagram.Child, inherited diagram.Direction) size {
	var s size
	if c.Kind == diagram.KindNode {
		n, _ := a.d.Node(c.ID)
		s = a.nodeSize(n)
	} else {
		g, _ := a.d.Group(c.ID)
		dir := resolve(g.Direction, inherited)
		a.dirs[g.ID] = dir

		lines := textLines(groupLabel(g))
		band := max(a.opts.LabelHeight, float64(len(lines))*a.opts.LineHeight()+a.opts.Padding/2)
		a.bands[g.ID] = band

		content := a.measureChildren(g, dir)
		pad := a.opts.Padding
		s.w = max(content.w, a.textWidth(lines)) + 2*pad
		s.h = band + content.h + 2*pad
	}
	a.sizes[c.ID] = s
	return s
}

func (a *assigner) nodeSize(n *diagram.Node) size {
	lines := textLines(n.DisplayLabel())
	if n.Annotation != "" {
		lines = append(lines, textLines(n.Annotation)...)
	}
	fs := a.opts.FontSize
	return size{
		w: max(a.opts.NodeMinWidth, a.textWidth(lines)+2*fs),
		h: max(a.opts.NodeMinHeight, float64(len(lines))*a.opts.LineHeight()+fs),
	}
}

func (a *assigner) place(g *diagram.Group, dir diagram.Direction, x, y float64) {
	for _, c := range g.Children() {
		s := a.sizes[c.ID]
		a.rects[c.ID] = Rect{X: x, Y: y, W: s.w, H: s.h}
		if c.Kind == diagram.KindGroup {
			child, _ := a.d.Group(c.ID)
			pad := a.opts.Padding
			a.place(child, a.dirs[c.ID], x+pad, y+a.bands[c.ID]+pad)
		}
		if dir == diagram.LeftToRight {
			x += s.w + a.opts.Gap
		} else {
			y += s.h + a.opts.Gap
		}
	}
}

func (a *assigner) titleSize() (w, h float64) {
	if t := a.d.Title(); t != "" {
		fs := a.opts.TitleSize()
		w = max(w, runeWidth(t, fs*0.6))
		h += fs * 1.4
	}
	if s := a.d.Subtitle(); s != "" {
		fs := a.opts.SubtitleSize()
		w = max(w, runeWidth(s, fs*0.6))
		h += fs * 1.4
	}
	return w, h
}

func (a *assigner) legend(styles []string, x, y float64) ([]LegendEntry, float64) {
	lh := a.opts.LineHeight()
	sw := a.opts.FontSize
	entries := make([]LegendEntry, 0, len(styles))
	start := x
	for i, s := range styles {
		if i > 0 {
			x += a.opts.Gap / 2
		}
		tw := runeWidth(s, a.opts.CharWidth())
		e := LegendEntry{
			Style:  s,
			Swatch: Rect{X: x, Y: y + (lh-sw)/2, W: sw, H: sw},
			Text:   Rect{X: x + sw + sw/2, Y: y, W: tw, H: lh},
		}
		entries = append(entries, e)
		x = e.Text.Right()
	}
	return entries, x - start
}

func (a *assigner) textWidth(lines []string) float64 {
	var w float64
	for _, ln := range lines {
		w = max(w, runeWidth(ln, a.opts.CharWidth()))
	}
	return w
}

func groupLabel(g *diagram.Group) string {
	if g.Label != "" {
		return g.Label
	}
	return g.ID
}

func textLines(s string) []string { return strings.Split(s, "\n") }

func runeWidth(s string, cw float64) float64 {
	return float64(utf8.RuneCountInString(s)) * cw
}
