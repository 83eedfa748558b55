package render

import (
	"maps"
	"strings"

	"github.com/matzehuels/archviz/pkg/diagram"
)

// Theme holds the colors and stroke metrics of a rendering. Colors are
// "#RRGGBB" strings.
type Theme struct {
	Background string

	// Palette maps node style tags to fill colors. Unknown tags use DefaultFill.
	Palette     map[string]string
	DefaultFill string
	NodeStroke  string
	NodeText    string
	NodeSubtext string

	GroupFill   string
	GroupStroke string
	GroupText   string

	// EdgeColors maps edge color tags ("red", "blue") to colors. Tags that
	// already start with '#' are used as is.
	EdgeColors map[string]string
	EdgeColor  string
	EdgeText   string

	TitleColor    string
	SubtitleColor string

	StrokeWidth  float64
	CornerRadius float64
	ArrowSize    float64
}

// DefaultPalette returns the built-in style colors.
func DefaultPalette() map[string]string {
	return map[string]string{
		"compute":  "#FF9900",
		"network":  "#4A90E2",
		"public":   "#7ED321",
		"private":  "#D0021B",
		"security": "#9013FE",
		"database": "#FF6B6B",
		"peering":  "#0277BD",
		"storage":  "#3F8624",
		"client":   "#232F3E",
	}
}

// DefaultTheme returns a light theme using [DefaultPalette].
func DefaultTheme() Theme {
	return Theme{
		Background:  "#FFFFFF",
		Palette:     DefaultPalette(),
		DefaultFill: "#607D8B",
		NodeStroke:  "#232F3E",
		NodeText:    "#FFFFFF",
		NodeSubtext: "#F2F2F2",
		GroupFill:   "#F7F9FC",
		GroupStroke: "#232F3E",
		GroupText:   "#232F3E",
		EdgeColors: map[string]string{
			"red":    "#D0021B",
			"blue":   "#4A90E2",
			"green":  "#7ED321",
			"orange": "#FF9900",
			"purple": "#9013FE",
			"gray":   "#888888",
			"grey":   "#888888",
			"black":  "#000000",
		},
		EdgeColor:     "#555555",
		EdgeText:      "#333333",
		TitleColor:    "#232F3E",
		SubtitleColor: "#808080",
		StrokeWidth:   1.5,
		CornerRadius:  8,
		ArrowSize:     10,
	}
}

// WithPalette returns a copy of t whose palette is extended by overrides.
func (t Theme) WithPalette(overrides map[string]string) Theme {
	p := maps.Clone(t.Palette)
	if p == nil {
		p = make(map[string]string, len(overrides))
	}
	maps.Copy(p, overrides)
	t.Palette = p
	return t
}

// Fill returns the fill color for a node style tag.
func (t Theme) Fill(style string) string {
	if c, ok := t.Palette[style]; ok {
		return c
	}
	return t.DefaultFill
}

// Stroke returns the line color for an edge color tag or hex value.
// Unknown tags and malformed hex values get EdgeColor.
func (t Theme) Stroke(tag string) string {
	if diagram.IsHexColor(tag) {
		return tag
	}
	if c, ok := t.EdgeColors[strings.ToLower(tag)]; ok {
		return c
	}
	return t.EdgeColor
}

// DashPattern returns the on/off lengths for a line style; nil for solid.
func DashPattern(s diagram.LineStyle) []float64 {
	switch s {
	case diagram.Dashed:
		return []float64{8, 4}
	case diagram.Dotted:
		return []float64{2, 3}
	}
	return nil
}
