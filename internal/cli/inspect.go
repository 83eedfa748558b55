package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archviz/pkg/export"
)

// inspectCommand creates the inspect command for exported images.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [image]",
		Short: "Print the dimensions of an exported PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], cmd.OutOrStdout())
		},
	}
}

func runInspect(path string, w io.Writer) error {
	width, height, err := export.ReadDimensions(path)
	if err != nil {
		return err
	}
	kind := "image"
	if f, err := export.FormatFromPath(path); err == nil {
		kind = f.String()
	}
	abs, _ := filepath.Abs(path)
	fmt.Fprintf(w, "%s\t%s\t%gx%g\n", abs, kind, width, height)
	return nil
}
