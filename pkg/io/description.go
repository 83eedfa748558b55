package io

import (
	"fmt"
	"strings"

	"github.com/matzehuels/archviz/pkg/diagram"
)

// Description is the serialized form of a diagram.
type Description struct {
	Title     string    `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Subtitle  string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty" toml:"subtitle,omitempty"`
	Direction string    `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	Children  []Element `json:"children" yaml:"children" toml:"children"`
	Edges     []Edge    `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`
}

// Element is a node or a cluster.
type Element struct {
	ID         string    `json:"id" yaml:"id" toml:"id"`
	Type       string    `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Label      string    `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Style      string    `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
	Annotation string    `json:"annotation,omitempty" yaml:"annotation,omitempty" toml:"annotation,omitempty"`
	Direction  string    `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	Children   []Element `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// IsCluster reports whether e describes a group.
func (e Element) IsCluster() bool {
	switch strings.ToLower(e.Type) {
	case "cluster", "group":
		return true
	}
	return len(e.Children) > 0
}

// Edge is a connector between two element IDs.
type Edge struct {
	From  string `json:"from" yaml:"from" toml:"from"`
	To    string `json:"to" yaml:"to" toml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Style string `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Arrow string `json:"arrow,omitempty" yaml:"arrow,omitempty" toml:"arrow,omitempty"`
}

// Build constructs a diagram from a description. Elements are added in
// document order, so the diagram's walk order matches the document.
func Build(desc *Description) (*diagram.Diagram, error) {
	dir, err := diagram.ParseDirection(desc.Direction)
	if err != nil {
		return nil, fmt.Errorf("diagram direction: %w", err)
	}
	d := diagram.New(desc.Title, desc.Subtitle, diagram.WithDirection(dir))
	if err := addElements(d, diagram.Root, desc.Children); err != nil {
		return nil, err
	}
	for i, e := range desc.Edges {
		if err := addEdge(d, e); err != nil {
			return nil, fmt.Errorf("edge %d (%s->%s): %w", i, e.From, e.To, err)
		}
	}
	return d, nil
}

func addElements(d *diagram.Diagram, parent string, elems []Element) error {
	for _, el := range elems {
		if !el.IsCluster() {
			var opts []diagram.NodeOption
			if el.Annotation != "" {
				opts = append(opts, diagram.WithAnnotation(el.Annotation))
			}
			if _, err := d.AddNode(parent, el.ID, el.Label, el.Style, opts...); err != nil {
				return fmt.Errorf("node %q: %w", el.ID, err)
			}
			continue
		}

		dir, err := diagram.ParseDirection(el.Direction)
		if err != nil {
			return fmt.Errorf("cluster %q: %w", el.ID, err)
		}
		g, err := d.AddGroup(parent, el.ID, el.Label)
		if err != nil {
			return fmt.Errorf("cluster %q: %w", el.ID, err)
		}
		g.SetDirection(dir)
		if err := addElements(d, el.ID, el.Children); err != nil {
			return err
		}
	}
	return nil
}

func addEdge(d *diagram.Diagram, e Edge) error {
	line, err := diagram.ParseLineStyle(e.Style)
	if err != nil {
		return err
	}
	arrow, err := diagram.ParseArrow(e.Arrow)
	if err != nil {
		return err
	}
	return d.AddEdge(e.From, e.To, e.Label, diagram.EdgeStyle{Line: line, Color: e.Color, Arrow: arrow})
}

// Describe converts a diagram into its description.
func Describe(d *diagram.Diagram) *Description {
	desc := &Description{
		Title:    d.Title(),
		Subtitle: d.Subtitle(),
		Children: describeChildren(d, d.Root()),
	}
	if dir := d.Direction(); dir != diagram.DirectionDefault {
		desc.Direction = dir.String()
	}
	for _, e := range d.Edges() {
		out := Edge{From: e.Source, To: e.Target, Label: e.Label, Color: e.Style.Color}
		if e.Style.Line != diagram.Solid {
			out.Style = e.Style.Line.String()
		}
		if e.Style.Arrow != diagram.ArrowForward {
			out.Arrow = e.Style.Arrow.String()
		}
		desc.Edges = append(desc.Edges, out)
	}
	return desc
}

func describeChildren(d *diagram.Diagram, g *diagram.Group) []Element {
	children := g.Children()
	out := make([]Element, 0, len(children))
	for _, c := range children {
		if c.Kind == diagram.KindNode {
			n, _ := d.Node(c.ID)
			out = append(out, Element{ID: n.ID, Label: n.Label, Style: n.Style, Annotation: n.Annotation})
			continue
		}
		sub, _ := d.Group(c.ID)
		el := Element{
			ID:       sub.ID,
			Type:     "cluster",
			Label:    sub.Label,
			Children: describeChildren(d, sub),
		}
		if sub.Direction != diagram.DirectionDefault {
			el.Direction = sub.Direction.String()
		}
		out = append(out, el)
	}
	return out
}
