// Package pipeline wires the diagram stages together for the CLI and the
// render service.
//
// The pipeline has three stages, each consuming the previous one's output:
//
//  1. Layout: compute rectangles for every node and group
//  2. Render: paint a scene (native engine) or emit DOT (graphviz engine)
//  3. Encode: produce artifacts in the requested formats (SVG, PNG, PDF, DOT)
//
// A [Runner] runs the stages with caching. Layouts are cached by diagram
// hash and layout options; artifacts by diagram hash and every option that
// changes the output bytes.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, d, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archviz/pkg/cache"
	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/render"
	"github.com/matzehuels/archviz/pkg/render/raster"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// Rendering engines.
const (
	// EngineNative lays out and paints with archviz's own layout assigner.
	EngineNative = "native"
	// EngineGraphviz delegates layout and drawing to Graphviz.
	EngineGraphviz = "graphviz"
)

// DefaultScale is the raster resolution multiplier.
const DefaultScale = 1.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatDOT: true,
}

// ValidEngines is the set of supported rendering engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// Options contains all configuration for a pipeline run.
// It decodes from JSON for service requests.
type Options struct {
	// Layout options
	Direction string  `json:"direction,omitempty"`
	Padding   float64 `json:"padding,omitempty"`
	Gap       float64 `json:"gap,omitempty"`
	FontSize  float64 `json:"font_size,omitempty"`
	Legend    bool    `json:"legend,omitempty"`
	MaxWidth  float64 `json:"max_width,omitempty"`
	MaxHeight float64 `json:"max_height,omitempty"`

	// Render options
	Formats    []string          `json:"formats,omitempty"`
	Engine     string            `json:"engine,omitempty"`
	Scale      float64           `json:"scale,omitempty"`
	Palette    map[string]string `json:"palette,omitempty"`
	Background string            `json:"background,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Diagram *diagram.Diagram

	// DiagramHash is the content hash of the diagram's canonical JSON form.
	DiagramHash string

	// Layout is the native layout. It is computed for the graphviz engine
	// too, so callers always get canvas dimensions and overflow checks.
	Layout layout.Layout

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	GroupCount int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be one of: native, graphviz)", engine)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// SetDefaults fills zero-valued fields. Layout sizes are left zero here and
// defaulted by [layout.Options.SetDefaults] so cache keys stay stable.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate sets defaults and checks every field.
func (o *Options) Validate() error {
	o.SetDefaults()
	if _, err := diagram.ParseDirection(o.Direction); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %g", o.Scale)
	}
	for tag, c := range o.Palette {
		if !diagram.IsHexColor(c) {
			return errors.New(errors.ErrCodeInvalidStyle, "invalid color %q for style %q", c, tag)
		}
	}
	if o.Background != "" && !diagram.IsHexColor(o.Background) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid background color %q", o.Background)
	}
	return o.LayoutOptions().Validate()
}

// LayoutOptions converts to layout options with defaults applied.
func (o *Options) LayoutOptions() layout.Options {
	dir, _ := diagram.ParseDirection(o.Direction)
	lo := layout.Options{
		Direction: dir,
		Padding:   o.Padding,
		Gap:       o.Gap,
		FontSize:  o.FontSize,
		Legend:    o.Legend,
		MaxWidth:  o.MaxWidth,
		MaxHeight: o.MaxHeight,
	}
	lo.SetDefaults()
	return lo
}

// Theme returns the default theme with the configured overrides.
func (o *Options) Theme() render.Theme {
	t := render.DefaultTheme().WithPalette(o.Palette)
	if o.Background != "" {
		t.Background = o.Background
	}
	return t
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	lo := o.LayoutOptions()
	return cache.LayoutKeyOpts{
		Direction: lo.Direction.String(),
		Padding:   lo.Padding,
		Gap:       lo.Gap,
		FontSize:  lo.FontSize,
		Legend:    lo.Legend,
		MaxWidth:  lo.MaxWidth,
		MaxHeight: lo.MaxHeight,
	}
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Engine:    o.Engine,
		ThemeHash: o.themeHash(),
		Layout:    o.LayoutKeyOpts(),
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func (o *Options) themeHash() string {
	if len(o.Palette) == 0 && o.Background == "" {
		return ""
	}
	keys := slices.Sorted(maps.Keys(o.Palette))
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s;", k, o.Palette[k])
	}
	b.WriteString("bg=" + o.Background)
	return cache.Hash([]byte(b.String()))
}

// CheckRasterSize fails with LAYOUT_OVERFLOW when a png of l at the
// configured scale would exceed the canvas limits.
func (o *Options) CheckRasterSize(l layout.Layout) error {
	if !slices.Contains(o.Formats, FormatPNG) {
		return nil
	}
	lo := o.LayoutOptions()
	w, h := l.Canvas.W*o.Scale, l.Canvas.H*o.Scale
	if lo.MaxWidth > 0 && w > lo.MaxWidth || lo.MaxHeight > 0 && h > lo.MaxHeight {
		return errors.New(errors.ErrCodeLayoutOverflow,
			"png at scale %g is %.0fx%.0f, limit %.0fx%.0f", o.Scale, w, h, lo.MaxWidth, lo.MaxHeight)
	}
	return raster.CheckSize(render.Scene{Width: l.Canvas.W, Height: l.Canvas.H}, o.Scale)
}

// marshalLayout and unmarshalLayout serialize layouts for the cache.
func marshalLayout(l layout.Layout) ([]byte, error) { return json.Marshal(l) }

func unmarshalLayout(data []byte) (layout.Layout, error) {
	var l layout.Layout
	err := json.Unmarshal(data, &l)
	return l, err
}
