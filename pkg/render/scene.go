package render

import "github.com/matzehuels/archviz/pkg/layout"

// Anchor is the horizontal alignment of text relative to its x coordinate.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// RectStyle describes how a rectangle is filled and stroked. An empty Fill
// or Stroke disables that part.
type RectStyle struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Radius      float64
	Dash        []float64
}

// LineStyle describes a stroked segment.
type LineStyle struct {
	Color string
	Width float64
	Dash  []float64
}

// TextStyle describes a single line of text. The y coordinate passed with it
// is the vertical center of the line.
type TextStyle struct {
	Color  string
	Size   float64
	Bold   bool
	Anchor Anchor
}

// Canvas is the drawing surface a backend implements.
type Canvas interface {
	DrawRect(r layout.Rect, s RectStyle)
	DrawLine(x1, y1, x2, y2 float64, s LineStyle)
	DrawText(x, y float64, text string, s TextStyle)
}

// OpKind identifies the Canvas call an Op replays.
type OpKind int

const (
	OpRect OpKind = iota
	OpLine
	OpText
)

func (k OpKind) String() string {
	switch k {
	case OpRect:
		return "rect"
	case OpLine:
		return "line"
	case OpText:
		return "text"
	}
	return "unknown"
}

// Op is one recorded drawing call. Only the fields for its Kind are set.
type Op struct {
	Kind OpKind

	Rect      layout.Rect
	RectStyle RectStyle

	X1, Y1, X2, Y2 float64
	LineStyle      LineStyle

	X, Y      float64
	Text      string
	TextStyle TextStyle
}

// Draw issues the operation against c.
func (op Op) Draw(c Canvas) {
	switch op.Kind {
	case OpRect:
		c.DrawRect(op.Rect, op.RectStyle)
	case OpLine:
		c.DrawLine(op.X1, op.Y1, op.X2, op.Y2, op.LineStyle)
	case OpText:
		c.DrawText(op.X, op.Y, op.Text, op.TextStyle)
	}
}

// Scene is a backend-neutral picture of a diagram.
type Scene struct {
	Width  float64
	Height float64
	Ops    []Op
}

// Draw replays every operation in order.
func (s Scene) Draw(c Canvas) {
	for _, op := range s.Ops {
		op.Draw(c)
	}
}

// Recorder is a Canvas that stores the calls it receives.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) DrawRect(rect layout.Rect, s RectStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Rect: rect, RectStyle: s})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64, s LineStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, LineStyle: s})
}

func (r *Recorder) DrawText(x, y float64, text string, s TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X: x, Y: y, Text: text, TextStyle: s})
}

// Count returns the number of recorded operations of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
