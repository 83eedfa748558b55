package render

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/layout"
)

// arrowAngle is the half-angle between the two strokes of an arrowhead.
const arrowAngle = 25 * math.Pi / 180

// Render paints d at the positions in l. Elements without a rectangle in l
// are skipped.
func Render(d *diagram.Diagram, l layout.Layout, theme Theme) Scene {
	r := &renderer{d: d, l: l, t: theme}
	r.background()
	r.title()
	_ = d.Walk(func(c diagram.Child, _ int) error {
		if c.Kind == diagram.KindGroup {
			r.group(c.ID)
		} else {
			r.node(c.ID)
		}
		return nil
	})
	for _, e := range d.Edges() {
		r.edge(e)
	}
	r.legend()
	return Scene{Width: l.Canvas.W, Height: l.Canvas.H, Ops: r.rec.Ops}
}

type renderer struct {
	d   *diagram.Diagram
	l   layout.Layout
	t   Theme
	rec Recorder
}

func (r *renderer) background() {
	if r.t.Background == "" {
		return
	}
	r.rec.DrawRect(r.l.Canvas, RectStyle{Fill: r.t.Background})
}

func (r *renderer) title() {
	band := r.l.Title
	if band.Empty() {
		return
	}
	fs := r.l.FontSize
	x := r.l.Canvas.CenterX()
	y := band.Y
	if t := r.d.Title(); t != "" {
		size := fs * 1.6
		r.rec.DrawText(x, y+size*0.7, t, TextStyle{Color: r.t.TitleColor, Size: size, Bold: true, Anchor: AnchorMiddle})
		y += size * 1.4
	}
	if s := r.d.Subtitle(); s != "" {
		size := fs * 1.1
		r.rec.DrawText(x, y+size*0.7, s, TextStyle{Color: r.t.SubtitleColor, Size: size, Anchor: AnchorMiddle})
	}
}

func (r *renderer) group(id string) {
	box, ok := r.l.Rect(id)
	if !ok {
		return
	}
	g, _ := r.d.Group(id)
	r.rec.DrawRect(box, RectStyle{
		Fill:        r.t.GroupFill,
		Stroke:      r.t.GroupStroke,
		StrokeWidth: r.t.StrokeWidth,
		Radius:      r.t.CornerRadius,
	})

	label := g.Label
	if label == "" {
		label = g.ID
	}
	lh := r.l.LineHeight()
	x := box.X + r.l.Padding
	y := box.Y + r.l.Padding/2 + lh/2
	for i, ln := range strings.Split(label, "\n") {
		r.rec.DrawText(x, y+float64(i)*lh, ln, TextStyle{
			Color:  r.t.GroupText,
			Size:   r.l.FontSize,
			Bold:   i == 0,
			Anchor: AnchorStart,
		})
	}
}

func (r *renderer) node(id string) {
	box, ok := r.l.Rect(id)
	if !ok {
		return
	}
	n, _ := r.d.Node(id)
	r.rec.DrawRect(box, RectStyle{
		Fill:        r.t.Fill(n.Style),
		Stroke:      r.t.NodeStroke,
		StrokeWidth: r.t.StrokeWidth,
		Radius:      r.t.CornerRadius,
	})

	type line struct {
		text string
		sub  bool
	}
	var lines []line
	for _, ln := range strings.Split(n.DisplayLabel(), "\n") {
		lines = append(lines, line{ln, false})
	}
	if n.Annotation != "" {
		for _, ln := range strings.Split(n.Annotation, "\n") {
			lines = append(lines, line{ln, true})
		}
	}

	lh := r.l.LineHeight()
	y := box.CenterY() - float64(len(lines)-1)*lh/2
	for i, ln := range lines {
		s := TextStyle{Color: r.t.NodeText, Size: r.l.FontSize, Bold: true, Anchor: AnchorMiddle}
		if ln.sub {
			s = TextStyle{Color: r.t.NodeSubtext, Size: r.l.FontSize * 0.9, Anchor: AnchorMiddle}
		}
		r.rec.DrawText(box.CenterX(), y+float64(i)*lh, ln.text, s)
	}
}

func (r *renderer) edge(e diagram.Edge) {
	src, okS := r.l.Rect(e.Source)
	dst, okD := r.l.Rect(e.Target)
	if !okS || !okD {
		return
	}
	ls := LineStyle{
		Color: r.t.Stroke(e.Style.Color),
		Width: r.t.StrokeWidth,
		Dash:  DashPattern(e.Style.Line),
	}

	if e.Source == e.Target {
		r.selfLoop(src, e, ls)
		return
	}

	x1, y1, x2, y2 := Anchors(src, dst)
	r.rec.DrawLine(x1, y1, x2, y2, ls)
	r.arrowheads(x1, y1, x2, y2, e.Style.Arrow, ls)
	r.edgeLabel((x1+x2)/2, (y1+y2)/2, e.Label, ls.Color)
}

// selfLoop draws a rectangular loop off the right side of box.
func (r *renderer) selfLoop(box layout.Rect, e diagram.Edge, ls LineStyle) {
	reach := r.l.Padding
	top, bot := box.CenterY()-box.H/4, box.CenterY()+box.H/4
	x0, x1 := box.Right(), box.Right()+reach
	r.rec.DrawLine(x0, top, x1, top, ls)
	r.rec.DrawLine(x1, top, x1, bot, ls)
	r.rec.DrawLine(x1, bot, x0, bot, ls)
	switch e.Style.Arrow {
	case diagram.ArrowForward:
		r.arrowhead(x1, bot, x0, bot, ls)
	case diagram.ArrowBoth:
		r.arrowhead(x1, bot, x0, bot, ls)
		r.arrowhead(x1, top, x0, top, ls)
	}
	r.edgeLabel(x1, box.CenterY(), e.Label, ls.Color)
}

func (r *renderer) arrowheads(x1, y1, x2, y2 float64, a diagram.Arrow, ls LineStyle) {
	switch a {
	case diagram.ArrowForward:
		r.arrowhead(x1, y1, x2, y2, ls)
	case diagram.ArrowBoth:
		r.arrowhead(x1, y1, x2, y2, ls)
		r.arrowhead(x2, y2, x1, y1, ls)
	}
}

// arrowhead draws two strokes meeting at (x2, y2), pointing away from (x1, y1).
func (r *renderer) arrowhead(x1, y1, x2, y2 float64, ls LineStyle) {
	dx, dy := x2-x1, y2-y1
	if dx == 0 && dy == 0 {
		return
	}
	ls.Dash = nil
	back := math.Atan2(-dy, -dx)
	size := r.t.ArrowSize
	for _, a := range []float64{back - arrowAngle, back + arrowAngle} {
		r.rec.DrawLine(x2, y2, x2+size*math.Cos(a), y2+size*math.Sin(a), ls)
	}
}

func (r *renderer) edgeLabel(x, y float64, label, color string) {
	if label == "" {
		return
	}
	size := r.l.FontSize * 0.9
	lh := size * 1.4
	lines := strings.Split(label, "\n")
	var w float64
	for _, ln := range lines {
		w = max(w, float64(utf8.RuneCountInString(ln))*size*0.6)
	}
	h := float64(len(lines)) * lh
	if r.t.Background != "" {
		r.rec.DrawRect(layout.Rect{X: x - w/2 - 3, Y: y - h/2, W: w + 6, H: h}, RectStyle{Fill: r.t.Background})
	}
	top := y - h/2 + lh/2
	for i, ln := range lines {
		r.rec.DrawText(x, top+float64(i)*lh, ln, TextStyle{Color: r.t.EdgeText, Size: size, Anchor: AnchorMiddle})
	}
}

func (r *renderer) legend() {
	for _, e := range r.l.Entries {
		r.rec.DrawRect(e.Swatch, RectStyle{
			Fill:        r.t.Fill(e.Style),
			Stroke:      r.t.NodeStroke,
			StrokeWidth: 1,
			Radius:      2,
		})
		r.rec.DrawText(e.Text.X, e.Text.CenterY(), e.Style, TextStyle{
			Color:  r.t.GroupText,
			Size:   r.l.FontSize,
			Anchor: AnchorStart,
		})
	}
}

// Anchors returns the endpoints of a connector between boxes a and b.
//
// For disjoint or partially overlapping boxes each endpoint is where the
// segment between the two centers crosses that box's border. When one box
// contains the other, the container anchors on its side nearest the inner
// box and the inner box anchors on its own side facing that border.
func Anchors(a, b layout.Rect) (x1, y1, x2, y2 float64) {
	switch {
	case a.Contains(b):
		x1, y1, x2, y2 = nested(a, b)
		return x1, y1, x2, y2
	case b.Contains(a):
		x2, y2, x1, y1 = nested(b, a)
		return x1, y1, x2, y2
	}
	ax, ay := a.CenterX(), a.CenterY()
	bx, by := b.CenterX(), b.CenterY()
	x1, y1 = exit(a, bx-ax, by-ay)
	x2, y2 = exit(b, ax-bx, ay-by)
	return x1, y1, x2, y2
}

// exit returns where the ray from the center of r along (dx, dy) leaves r.
func exit(r layout.Rect, dx, dy float64) (float64, float64) {
	cx, cy := r.CenterX(), r.CenterY()
	if dx == 0 && dy == 0 {
		return cx, cy
	}
	t := math.Inf(1)
	if dx != 0 {
		t = min(t, (r.W/2)/math.Abs(dx))
	}
	if dy != 0 {
		t = min(t, (r.H/2)/math.Abs(dy))
	}
	return cx + t*dx, cy + t*dy
}

// nested anchors the container outer on the side closest to inner.
func nested(outer, inner layout.Rect) (ox, oy, ix, iy float64) {
	sides := []float64{
		inner.X - outer.X,             // left
		outer.Right() - inner.Right(), // right
		inner.Y - outer.Y,             // top
		outer.Bottom() - inner.Bottom(),
	}
	best := 0
	for i, d := range sides {
		if d < sides[best] {
			best = i
		}
	}
	switch best {
	case 0:
		return outer.X, inner.CenterY(), inner.X, inner.CenterY()
	case 1:
		return outer.Right(), inner.CenterY(), inner.Right(), inner.CenterY()
	case 2:
		return inner.CenterX(), outer.Y, inner.CenterX(), inner.Y
	default:
		return inner.CenterX(), outer.Bottom(), inner.CenterX(), inner.Bottom()
	}
}
