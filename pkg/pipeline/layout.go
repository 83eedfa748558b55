package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/observability"
)

// ComputeLayout runs the layout assigner and reports to the pipeline hooks.
func ComputeLayout(ctx context.Context, d *diagram.Diagram, opts Options) (layout.Layout, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, d.NodeCount(), d.GroupCount())
	start := time.Now()

	l, err := layout.Compute(d, opts.LayoutOptions())
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	return l, err
}
