package diagram

import (
	"slices"

	"github.com/matzehuels/archviz/pkg/errors"
)

// Root is the identifier of the implicit root group. Pass it as the parent to
// place nodes and groups at the top level.
const Root = ""

// Kind distinguishes the two element types of the containment tree.
type Kind int

const (
	// KindNone is returned by [Diagram.Kind] for identifiers that are not in
	// the diagram.
	KindNone Kind = iota
	KindNode
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindGroup:
		return "group"
	}
	return "none"
}

// Node is a leaf of the containment tree, rendered as a labeled shape.
type Node struct {
	ID         string
	Label      string
	Style      string // style tag, e.g. "compute", "network", "security"
	Annotation string // optional multi-line text shown under the label
	Parent     string // owning group (Root for top-level nodes)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Child is an entry in a group's ordered child list.
type Child struct {
	Kind Kind
	ID   string
}

// Group is a named container of nodes and nested groups.
type Group struct {
	ID        string
	Label     string
	Parent    string
	Direction Direction // DirectionDefault inherits from the parent
	children  []Child
}

// Children returns the group's children in insertion order.
func (g *Group) Children() []Child { return slices.Clone(g.children) }

// IsRoot reports whether g is the implicit root group.
func (g *Group) IsRoot() bool { return g.ID == Root }

// Edge is a directed connector between two nodes or groups.
type Edge struct {
	Source string
	Target string
	Label  string
	Style  EdgeStyle
}

// Option configures a Diagram at construction.
type Option func(*Diagram)

// WithDirection sets the flow of the root group.
func WithDirection(dir Direction) Option {
	return func(d *Diagram) { d.root.Direction = dir }
}

// NodeOption configures a node added with [Diagram.AddNode].
type NodeOption func(*Node)

// WithAnnotation attaches multi-line text rendered below the node label.
func WithAnnotation(text string) NodeOption {
	return func(n *Node) { n.Annotation = text }
}

// Diagram is the in-memory model: a root group, a title, and an edge overlay.
//
// The zero value is not usable - use New to create a Diagram.
type Diagram struct {
	title    string
	subtitle string
	root     *Group
	groups   map[string]*Group
	nodes    map[string]*Node
	edges    []Edge
}

// New creates an empty diagram with the given title and subtitle.
func New(title, subtitle string, opts ...Option) *Diagram {
	root := &Group{ID: Root}
	d := &Diagram{
		title:    title,
		subtitle: subtitle,
		root:     root,
		groups:   map[string]*Group{Root: root},
		nodes:    make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Title returns the diagram title.
func (d *Diagram) Title() string { return d.title }

// Subtitle returns the diagram subtitle.
func (d *Diagram) Subtitle() string { return d.subtitle }

// Direction returns the flow of the root group.
func (d *Diagram) Direction() Direction { return d.root.Direction }

// Root returns the implicit root group.
func (d *Diagram) Root() *Group { return d.root }

// GroupRef is a handle to a group in a diagram, used to add children without
// repeating the parent identifier.
type GroupRef struct {
	d  *Diagram
	id string
}

// ID returns the group identifier.
func (r GroupRef) ID() string { return r.id }

// AddGroup adds a nested group inside the referenced group. On the zero
// GroupRef returned by a failed call it fails with UNKNOWN_REFERENCE.
func (r GroupRef) AddGroup(id, label string) (GroupRef, error) {
	if r.d == nil {
		return GroupRef{}, errDetached()
	}
	return r.d.AddGroup(r.id, id, label)
}

// AddNode adds a node inside the referenced group.
func (r GroupRef) AddNode(id, label, style string, opts ...NodeOption) (NodeRef, error) {
	if r.d == nil {
		return NodeRef{}, errDetached()
	}
	return r.d.AddNode(r.id, id, label, style, opts...)
}

func errDetached() error {
	return errors.New(errors.ErrCodeUnknownReference, "group reference is not attached to a diagram")
}

// SetDirection overrides the flow of the referenced group's children.
// It does nothing on a zero GroupRef.
func (r GroupRef) SetDirection(dir Direction) {
	if r.d == nil {
		return
	}
	if g, ok := r.d.groups[r.id]; ok {
		g.Direction = dir
	}
}

// NodeRef is a handle to a node in a diagram.
type NodeRef struct {
	id string
}

// ID returns the node identifier.
func (r NodeRef) ID() string { return r.id }

// AddGroup adds a group under parent. Use Root as the parent for top-level
// groups. It fails with UNKNOWN_REFERENCE if parent is not a group in the
// diagram and DUPLICATE_ID if id is already taken by a node or group.
func (d *Diagram) AddGroup(parent, id, label string) (GroupRef, error) {
	p, err := d.claim(parent, id)
	if err != nil {
		return GroupRef{}, err
	}
	d.groups[id] = &Group{ID: id, Label: label, Parent: parent}
	p.children = append(p.children, Child{Kind: KindGroup, ID: id})
	return GroupRef{d: d, id: id}, nil
}

// AddNode adds a node under parent with the given label and style tag.
// Errors follow the same rules as AddGroup.
func (d *Diagram) AddNode(parent, id, label, style string, opts ...NodeOption) (NodeRef, error) {
	p, err := d.claim(parent, id)
	if err != nil {
		return NodeRef{}, err
	}
	n := &Node{ID: id, Label: label, Style: style, Parent: parent}
	for _, opt := range opts {
		opt(n)
	}
	d.nodes[id] = n
	p.children = append(p.children, Child{Kind: KindNode, ID: id})
	return NodeRef{id: id}, nil
}

// claim resolves the parent group and checks that id is free.
func (d *Diagram) claim(parent, id string) (*Group, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	p, ok := d.groups[parent]
	if !ok {
		if _, isNode := d.nodes[parent]; isNode {
			return nil, errors.New(errors.ErrCodeUnknownReference, "parent %q is a node, not a group", parent)
		}
		return nil, errors.New(errors.ErrCodeUnknownReference, "unknown parent group %q", parent)
	}
	if d.Kind(id) != KindNone {
		return nil, errors.New(errors.ErrCodeDuplicateID, "identifier %q already in use", id)
	}
	return p, nil
}

// AddEdge connects source to target. Both must be existing node or group
// identifiers; the root group cannot be an endpoint. A missing endpoint fails
// with UNKNOWN_REFERENCE and a malformed color with INVALID_STYLE. Parallel
// edges and self-loops are allowed.
func (d *Diagram) AddEdge(source, target, label string, style EdgeStyle) error {
	if err := ValidateEdgeColor(style.Color); err != nil {
		return err
	}
	if source == Root || d.Kind(source) == KindNone {
		return errors.New(errors.ErrCodeUnknownReference, "unknown edge source %q", source)
	}
	if target == Root || d.Kind(target) == KindNone {
		return errors.New(errors.ErrCodeUnknownReference, "unknown edge target %q", target)
	}
	d.edges = append(d.edges, Edge{Source: source, Target: target, Label: label, Style: style})
	return nil
}

// Kind reports whether id names a node, a group, or nothing.
// The root group reports KindGroup.
func (d *Diagram) Kind(id string) Kind {
	if _, ok := d.nodes[id]; ok {
		return KindNode
	}
	if _, ok := d.groups[id]; ok {
		return KindGroup
	}
	return KindNone
}

// Node returns the node with the given ID.
func (d *Diagram) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Group returns the group with the given ID. Group(Root) returns the root.
func (d *Diagram) Group(id string) (*Group, bool) {
	g, ok := d.groups[id]
	return g, ok
}

// Edges returns a copy of the edge list in insertion order.
func (d *Diagram) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// GroupCount returns the number of groups, not counting the root.
func (d *Diagram) GroupCount() int { return len(d.groups) - 1 }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// Walk visits every node and group below the root in depth-first pre-order,
// following insertion order. depth is 1 for top-level elements. A non-nil
// error from fn stops the walk and is returned.
func (d *Diagram) Walk(fn func(c Child, depth int) error) error {
	return d.walk(d.root, 1, fn)
}

func (d *Diagram) walk(g *Group, depth int, fn func(Child, int) error) error {
	for _, c := range g.children {
		if err := fn(c, depth); err != nil {
			return err
		}
		if c.Kind == KindGroup {
			if err := d.walk(d.groups[c.ID], depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Styles returns the distinct non-empty node style tags in walk order.
func (d *Diagram) Styles() []string {
	var out []string
	seen := make(map[string]bool)
	_ = d.Walk(func(c Child, _ int) error {
		if c.Kind != KindNode {
			return nil
		}
		s := d.nodes[c.ID].Style
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
		return nil
	})
	return out
}

// Ancestors returns the group IDs enclosing id, innermost first, excluding
// the root. It returns nil for unknown IDs and top-level elements.
func (d *Diagram) Ancestors(id string) []string {
	var parent string
	switch d.Kind(id) {
	case KindNode:
		parent = d.nodes[id].Parent
	case KindGroup:
		parent = d.groups[id].Parent
	default:
		return nil
	}
	var out []string
	for parent != Root {
		out = append(out, parent)
		parent = d.groups[parent].Parent
	}
	return out
}

// Contains reports whether group encloses id at any depth.
func (d *Diagram) Contains(group, id string) bool {
	if group == Root {
		return id != Root && d.Kind(id) != KindNone
	}
	return slices.Contains(d.Ancestors(id), group)
}

// Validate re-checks the model invariants: every edge endpoint resolves,
// every child is registered exactly once, and the tree reaches every element.
// Diagrams built through AddGroup, AddNode and AddEdge always validate.
func (d *Diagram) Validate() error {
	seen := make(map[string]bool)
	err := d.Walk(func(c Child, _ int) error {
		if seen[c.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "identifier %q appears twice in the tree", c.ID)
		}
		seen[c.ID] = true
		return nil
	})
	if err != nil {
		return err
	}
	if len(seen) != len(d.nodes)+len(d.groups)-1 {
		return errors.New(errors.ErrCodeInternal, "group tree does not reach every element")
	}
	for _, e := range d.edges {
		if !seen[e.Source] {
			return errors.New(errors.ErrCodeUnknownReference, "unknown edge source %q", e.Source)
		}
		if !seen[e.Target] {
			return errors.New(errors.ErrCodeUnknownReference, "unknown edge target %q", e.Target)
		}
	}
	return nil
}
