package layout

import (
	"math"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
)

// Default sizing, in user units.
const (
	DefaultPadding       = 20.0
	DefaultGap           = 40.0
	DefaultLabelHeight   = 24.0
	DefaultNodeMinWidth  = 120.0
	DefaultNodeMinHeight = 60.0
	DefaultFontSize      = 13.0
	DefaultMaxWidth      = 16384.0
	DefaultMaxHeight     = 16384.0
)

// Options controls sizing and limits. Zero-valued fields are replaced by
// defaults in [Options.SetDefaults], except MaxWidth and MaxHeight where zero
// means unlimited. Zero therefore always means "default": a layout with no
// padding or no gap is requested with [NoSpace].
type Options struct {
	// Direction overrides the diagram's root direction when set.
	Direction diagram.Direction

	Padding       float64 // space between a group border and its content
	Gap           float64 // space between siblings
	LabelHeight   float64 // group label band
	NodeMinWidth  float64
	NodeMinHeight float64

	// FontSize drives the text metric: a character is 0.6 em wide and a
	// line is 1.4 em tall.
	FontSize float64

	// Legend reserves a band listing the style tags in use.
	Legend bool

	MaxWidth  float64
	MaxHeight float64
}

// NoSpace requests a zero Padding or Gap. [Options.SetDefaults] turns it
// into 0 instead of the default.
const NoSpace = -1.0

// DefaultOptions returns options with every default applied and the default
// canvas limits.
func DefaultOptions() Options {
	o := Options{MaxWidth: DefaultMaxWidth, MaxHeight: DefaultMaxHeight}
	o.SetDefaults()
	return o
}

// SetDefaults fills zero-valued sizing fields.
func (o *Options) SetDefaults() {
	switch o.Padding {
	case 0:
		o.Padding = DefaultPadding
	case NoSpace:
		o.Padding = 0
	}
	switch o.Gap {
	case 0:
		o.Gap = DefaultGap
	case NoSpace:
		o.Gap = 0
	}
	if o.LabelHeight == 0 {
		o.LabelHeight = DefaultLabelHeight
	}
	if o.NodeMinWidth == 0 {
		o.NodeMinWidth = DefaultNodeMinWidth
	}
	if o.NodeMinHeight == 0 {
		o.NodeMinHeight = DefaultNodeMinHeight
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
}

// Validate rejects negative and non-finite sizes.
func (o Options) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"padding", o.Padding},
		{"gap", o.Gap},
		{"label height", o.LabelHeight},
		{"node min width", o.NodeMinWidth},
		{"node min height", o.NodeMinHeight},
		{"font size", o.FontSize},
		{"max width", o.MaxWidth},
		{"max height", o.MaxHeight},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a finite number, got %g", f.name, f.v)
		}
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative, got %g", f.name, f.v)
		}
	}
	return nil
}

// CharWidth is the advance assumed for every character.
func (o Options) CharWidth() float64 { return o.FontSize * 0.6 }

// LineHeight is the vertical advance of one text line.
func (o Options) LineHeight() float64 { return o.FontSize * 1.4 }

// TitleSize is the font size of the diagram title.
func (o Options) TitleSize() float64 { return o.FontSize * 1.6 }

// SubtitleSize is the font size of the diagram subtitle.
func (o Options) SubtitleSize() float64 { return o.FontSize * 1.1 }
