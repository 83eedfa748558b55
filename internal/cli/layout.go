package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/export"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		asTable bool
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [description]",
		Short: "Print the computed layout of a diagram as JSON",
		Long: `Print the computed layout of a diagram.

Every node and group maps to a rectangle {x, y, w, h} in canvas units, along
with the canvas, title and legend bands. The output is JSON on stdout unless
-o is given; --table prints a readable table instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			flags.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), args[0], opts, output, asTable, noCache, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&asTable, "table", false, "print a table instead of JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// runLayout loads the description, computes the layout and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, asTable, noCache bool, w io.Writer) error {
	d, err := pipeline.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, err := runner.Layout(ctx, d, opts)
	if err != nil {
		return err
	}

	if asTable {
		fmt.Fprintln(w, layoutTable(d, l))
		return nil
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	}
	path, err := export.WriteFile(data, resolveOutput(output))
	if err != nil {
		return err
	}
	printSuccess("Layout complete")
	printFile(path)
	printStats(d.NodeCount(), d.GroupCount(), d.EdgeCount(), false)
	return nil
}

// layoutTable renders the rectangles in walk order, indented by depth.
func layoutTable(d *diagram.Diagram, l layout.Layout) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("ID", "KIND", "X", "Y", "W", "H")

	_ = d.Walk(func(ch diagram.Child, depth int) error {
		r := l.Rects[ch.ID]
		indent := fmt.Sprintf("%*s", (depth-1)*2, "")
		t.Row(indent+ch.ID, ch.Kind.String(),
			fmt.Sprintf("%g", r.X), fmt.Sprintf("%g", r.Y),
			fmt.Sprintf("%g", r.W), fmt.Sprintf("%g", r.H))
		return nil
	})
	t.Row("(canvas)", "", "0", "0", fmt.Sprintf("%g", l.Canvas.W), fmt.Sprintf("%g", l.Canvas.H))
	return t.String()
}
