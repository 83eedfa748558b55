package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archviz/pkg/pipeline"
)

// layoutFlags holds the layout flags shared by render, layout and serve.
type layoutFlags struct {
	direction string
	padding   float64
	gap       float64
	fontSize  float64
	maxWidth  float64
	maxHeight float64
	legend    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.direction, "direction", "", "root flow: TB (default) or LR")
	cmd.Flags().Float64Var(&f.padding, "padding", 0, "space inside group borders (default 20)")
	cmd.Flags().Float64Var(&f.gap, "gap", 0, "space between siblings (default 40)")
	cmd.Flags().Float64Var(&f.fontSize, "font-size", 0, "base font size (default 13)")
	cmd.Flags().Float64Var(&f.maxWidth, "max-width", 0, "fail when the canvas is wider (0 = config value)")
	cmd.Flags().Float64Var(&f.maxHeight, "max-height", 0, "fail when the canvas is taller (0 = config value)")
	cmd.Flags().BoolVar(&f.legend, "legend", false, "draw a legend of the style tags in use")
}

// apply overrides opts with the flags the user set explicitly.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("direction") {
		opts.Direction = f.direction
	}
	if changed("padding") {
		opts.Padding = f.padding
	}
	if changed("gap") {
		opts.Gap = f.gap
	}
	if changed("font-size") {
		opts.FontSize = f.fontSize
	}
	if changed("max-width") {
		opts.MaxWidth = f.maxWidth
	}
	if changed("max-height") {
		opts.MaxHeight = f.maxHeight
	}
	if changed("legend") {
		opts.Legend = f.legend
	}
}
