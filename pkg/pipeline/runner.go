package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archviz/pkg/cache"
	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state. Multiple goroutines can share one
// Runner with different diagrams and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout and render for d with caching.
func (r *Runner) Execute(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hash, err := HashDiagram(d)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Diagram:     d,
		DiagramHash: hash,
		Stats: Stats{
			NodeCount:  d.NodeCount(),
			GroupCount: d.GroupCount(),
			EdgeCount:  d.EdgeCount(),
		},
	}

	layoutStart := time.Now()
	l, layoutHit, err := r.layout(ctx, d, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Debug("computed layout",
		"nodes", result.Stats.NodeCount,
		"groups", result.Stats.GroupCount,
		"canvas", fmt.Sprintf("%gx%g", l.Canvas.W, l.Canvas.H),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.render(ctx, d, l, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"engine", opts.Engine,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout computes the layout for d with caching.
func (r *Runner) Layout(ctx context.Context, d *diagram.Diagram, opts Options) (layout.Layout, error) {
	if err := opts.Validate(); err != nil {
		return layout.Layout{}, err
	}
	hash, err := HashDiagram(d)
	if err != nil {
		return layout.Layout{}, err
	}
	l, _, err := r.layout(ctx, d, hash, opts)
	return l, err
}

func (r *Runner) layout(ctx context.Context, d *diagram.Diagram, hash string, opts Options) (layout.Layout, bool, error) {
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := unmarshalLayout(data); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return l, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	l, err := ComputeLayout(ctx, d, opts)
	if err != nil {
		return layout.Layout{}, false, err
	}
	if data, err := marshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

func (r *Runner) render(ctx context.Context, d *diagram.Diagram, l layout.Layout, hash string, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	rendered, err := RenderFromLayout(ctx, d, l, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
