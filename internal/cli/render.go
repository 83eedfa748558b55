package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // output file (single format) or base path
	formats string  // comma-separated output formats
	engine  string  // native or graphviz
	scale   float64 // raster resolution multiplier
	noCache bool
	layout  layoutFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [description]",
		Short: "Render a diagram description to SVG, PNG, PDF or DOT",
		Long: `Render a diagram description to one or more image files.

The description is a JSON, YAML or TOML document. Output files are named after
the input unless -o is given; with several formats, -o is a base path and each
format gets its own extension. Relative output paths are resolved against
$ARCHVIZ_OUTPUT_DIR when set.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := c.Config.PipelineOptions()
			opts.layout.apply(cmd, &popts)
			if cmd.Flags().Changed("format") {
				popts.Formats = pipeline.ParseFormats(opts.formats)
			}
			if cmd.Flags().Changed("engine") {
				popts.Engine = opts.engine
			}
			if cmd.Flags().Changed("scale") {
				popts.Scale = opts.scale
			}
			return c.runRender(cmd.Context(), args[0], popts, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: native (default), graphviz")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "raster resolution multiplier (default 1)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	opts.layout.register(cmd)

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output ends in
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the description, runs the pipeline and writes each format.
func (c *CLI) runRender(ctx context.Context, input string, popts pipeline.Options, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	d, err := pipeline.Load(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded diagram", "file", input, "summary", pipeline.Summary(d))

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts.Logger = logger
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", strings.Join(popts.Formats, ", ")))
	if !c.verbose {
		spinner.Start()
	}
	res, err := runner.Execute(ctx, d, popts)
	if !c.verbose {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := resolveOutput(basePath(opts.output, input))
	paths, err := pipeline.WriteArtifacts(ctx, res.Artifacts, popts.Formats, base)
	if err != nil {
		return err
	}

	name := d.Title()
	if name == "" {
		name = filepath.Base(input)
	}
	printSuccess("Rendered %s", name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.NodeCount, res.Stats.GroupCount, res.Stats.EdgeCount, res.CacheInfo.RenderHit)
	printKeyValue("canvas", fmt.Sprintf("%gx%g", res.Layout.Canvas.W, res.Layout.Canvas.H))
	prog.done("Render complete", "formats", strings.Join(popts.Formats, ","), "cached", res.CacheInfo.RenderHit)
	return nil
}
