package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/export"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/observability"
	"github.com/matzehuels/archviz/pkg/render"
	"github.com/matzehuels/archviz/pkg/render/dot"
)

// RenderFromLayout encodes d in every requested format. The native engine
// paints l through the scene renderer; the graphviz engine ignores l and
// renders the DOT form.
func RenderFromLayout(ctx context.Context, d *diagram.Diagram, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.CheckRasterSize(l); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var out map[string][]byte
	var err error
	if opts.Engine == EngineGraphviz {
		out, err = renderGraphviz(ctx, d, opts)
	} else {
		out, err = renderNative(d, l, opts)
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return out, err
}

func renderNative(d *diagram.Diagram, l layout.Layout, opts Options) (map[string][]byte, error) {
	theme := opts.Theme()
	scene := render.Render(d, l, theme)
	encOpts := export.Options{Scale: opts.Scale, Title: d.Title()}

	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if format == FormatDOT {
			out[format] = []byte(dot.ToDOT(d, dotOptions(opts, theme)))
			continue
		}
		f, err := export.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		data, err := export.Encode(scene, f, encOpts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		out[format] = data
	}
	return out, nil
}

func renderGraphviz(ctx context.Context, d *diagram.Diagram, opts Options) (map[string][]byte, error) {
	src := dot.ToDOT(d, dotOptions(opts, opts.Theme()))

	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(src)
		case FormatSVG:
			data, err = dot.RenderSVG(ctx, src)
		case FormatPNG:
			data, err = dot.RenderPNG(ctx, src, opts.Scale)
		case FormatPDF:
			data, err = dot.RenderPDF(ctx, src)
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportIO, err, "graphviz %s", format)
		}
		out[format] = data
	}
	return out, nil
}

func dotOptions(opts Options, theme render.Theme) dot.Options {
	dir, _ := diagram.ParseDirection(opts.Direction)
	return dot.Options{Theme: theme, Direction: dir}
}

// WriteArtifacts writes each artifact to base plus the format's extension
// and returns the absolute paths in format order.
func WriteArtifacts(ctx context.Context, artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	hooks := observability.Pipeline()
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		hooks.OnExportStart(ctx, format, path)
		abs, err := export.WriteFile(data, path)
		hooks.OnExportComplete(ctx, format, path, len(data), err)
		if err != nil {
			return paths, err
		}
		paths = append(paths, abs)
	}
	return paths, nil
}
