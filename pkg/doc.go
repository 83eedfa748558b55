// Package pkg holds the archviz libraries.
//
// archviz turns a declarative description of nodes, nested clusters and
// edges into a deterministic architecture diagram. The packages follow the
// data flow:
//
//	JSON / YAML / TOML description
//	         ↓
//	    [io]        parse into the model
//	         ↓
//	    [diagram]   containment tree + edge overlay
//	         ↓
//	    [layout]    rectangles for every node and group
//	         ↓
//	    [render]    scene of shapes, text and connectors
//	         ↓
//	    [export]    SVG, PNG, PDF or DOT files
//
// [pipeline] ties the steps together with caching through [cache].
// [store] records render history for the HTTP service, [observability]
// exposes hooks around each step, and [errors] carries the coded errors
// every package returns.
//
// # Quick Start
//
//	d := diagram.New("Web Tier", "")
//	_, _ = d.AddNode(diagram.Root, "lb", "Load Balancer", "network")
//	app, _ := d.AddGroup(diagram.Root, "app", "App Servers")
//	_, _ = app.AddNode("web1", "web-1", "compute")
//	_ = d.AddEdge("lb", "app", "", diagram.EdgeStyle{})
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, d, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	_ = os.WriteFile("web.svg", res.Artifacts["svg"], 0o644)
package pkg
