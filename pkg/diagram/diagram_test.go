package diagram

import (
	"slices"
	"testing"

	"github.com/matzehuels/archviz/pkg/errors"
)

func buildSample(t *testing.T) *Diagram {
	t.Helper()
	d := New("Redis on AWS", "multi-AZ")
	cloud, err := d.AddGroup(Root, "aws", "AWS Cloud")
	if err != nil {
		t.Fatalf("AddGroup(aws) error: %v", err)
	}
	vpc, err := cloud.AddGroup("vpc", "VPC")
	if err != nil {
		t.Fatalf("AddGroup(vpc) error: %v", err)
	}
	if _, err := d.AddNode(Root, "users", "DevOps Team", "client"); err != nil {
		t.Fatalf("AddNode(users) error: %v", err)
	}
	if _, err := vpc.AddNode("bastion", "Bastion Host", "compute", WithAnnotation("t3.micro\npublic IP")); err != nil {
		t.Fatalf("AddNode(bastion) error: %v", err)
	}
	if _, err := vpc.AddNode("redis1", "Redis Node 1", "database"); err != nil {
		t.Fatalf("AddNode(redis1) error: %v", err)
	}
	if err := d.AddEdge("users", "bastion", "SSH", EdgeStyle{}); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	if err := d.AddEdge("bastion", "redis1", "tunnel", EdgeStyle{Line: Dashed, Color: "red"}); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	return d
}

func TestAddNodeAndGroup(t *testing.T) {
	d := buildSample(t)

	if d.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", d.NodeCount())
	}
	if d.GroupCount() != 2 {
		t.Errorf("GroupCount() = %d, want 2", d.GroupCount())
	}
	if d.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", d.EdgeCount())
	}

	n, ok := d.Node("bastion")
	if !ok {
		t.Fatal("Node(bastion) not found")
	}
	if n.Parent != "vpc" || n.Style != "compute" || n.Annotation != "t3.micro\npublic IP" {
		t.Errorf("Node(bastion) = %+v", n)
	}

	root := d.Root()
	want := []Child{{KindGroup, "aws"}, {KindNode, "users"}}
	if got := root.Children(); !slices.Equal(got, want) {
		t.Errorf("Root().Children() = %v, want %v", got, want)
	}
}

func TestDuplicateID(t *testing.T) {
	tests := []struct {
		name  string
		build func(d *Diagram) error
	}{
		{
			name: "node reuses node id",
			build: func(d *Diagram) error {
				_, err := d.AddNode("vpc", "redis1", "again", "")
				return err
			},
		},
		{
			name: "group reuses node id",
			build: func(d *Diagram) error {
				_, err := d.AddGroup(Root, "bastion", "dup")
				return err
			},
		},
		{
			name: "node reuses group id in another branch",
			build: func(d *Diagram) error {
				_, err := d.AddNode(Root, "vpc", "dup", "")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := buildSample(t)
			err := tt.build(d)
			if !errors.Is(err, errors.ErrCodeDuplicateID) {
				t.Errorf("error = %v, want DUPLICATE_ID", err)
			}
		})
	}
}

func TestUnknownReference(t *testing.T) {
	tests := []struct {
		name  string
		build func(d *Diagram) error
	}{
		{
			name: "unknown parent",
			build: func(d *Diagram) error {
				_, err := d.AddNode("nope", "x", "x", "")
				return err
			},
		},
		{
			name: "node as parent",
			build: func(d *Diagram) error {
				_, err := d.AddGroup("bastion", "x", "x")
				return err
			},
		},
		{
			name: "unknown edge source",
			build: func(d *Diagram) error {
				return d.AddEdge("ghost", "redis1", "", EdgeStyle{})
			},
		},
		{
			name: "unknown edge target",
			build: func(d *Diagram) error {
				return d.AddEdge("redis1", "ghost", "", EdgeStyle{})
			},
		},
		{
			name: "root as endpoint",
			build: func(d *Diagram) error {
				return d.AddEdge(Root, "redis1", "", EdgeStyle{})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := buildSample(t)
			before := d.EdgeCount()
			err := tt.build(d)
			if !errors.Is(err, errors.ErrCodeUnknownReference) {
				t.Errorf("error = %v, want UNKNOWN_REFERENCE", err)
			}
			if d.EdgeCount() != before {
				t.Error("failed AddEdge must not record an edge")
			}
		})
	}
}

func TestInvalidID(t *testing.T) {
	d := New("", "")
	if _, err := d.AddNode(Root, "", "empty", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AddNode(\"\") error = %v, want INVALID_INPUT", err)
	}
}

func TestEdgeToGroup(t *testing.T) {
	d := buildSample(t)
	if err := d.AddEdge("users", "vpc", "enters", EdgeStyle{Arrow: ArrowBoth}); err != nil {
		t.Fatalf("AddEdge to group error: %v", err)
	}
	edges := d.Edges()
	last := edges[len(edges)-1]
	if last.Target != "vpc" || last.Style.Arrow != ArrowBoth {
		t.Errorf("last edge = %+v", last)
	}
}

func TestWalkOrder(t *testing.T) {
	d := buildSample(t)

	var got []string
	var depths []int
	_ = d.Walk(func(c Child, depth int) error {
		got = append(got, c.ID)
		depths = append(depths, depth)
		return nil
	})

	want := []string{"aws", "vpc", "bastion", "redis1", "users"}
	if !slices.Equal(got, want) {
		t.Errorf("Walk order = %v, want %v", got, want)
	}
	if !slices.Equal(depths, []int{1, 2, 3, 3, 1}) {
		t.Errorf("Walk depths = %v", depths)
	}
}

func TestStyles(t *testing.T) {
	d := buildSample(t)
	want := []string{"compute", "database", "client"}
	if got := d.Styles(); !slices.Equal(got, want) {
		t.Errorf("Styles() = %v, want %v", got, want)
	}
}

func TestAncestorsAndContains(t *testing.T) {
	d := buildSample(t)

	if got := d.Ancestors("redis1"); !slices.Equal(got, []string{"vpc", "aws"}) {
		t.Errorf("Ancestors(redis1) = %v", got)
	}
	if got := d.Ancestors("users"); got != nil {
		t.Errorf("Ancestors(users) = %v, want nil", got)
	}
	if !d.Contains("aws", "redis1") {
		t.Error("Contains(aws, redis1) = false")
	}
	if d.Contains("vpc", "users") {
		t.Error("Contains(vpc, users) = true")
	}
	if !d.Contains(Root, "users") {
		t.Error("Contains(Root, users) = false")
	}
}

func TestValidate(t *testing.T) {
	d := buildSample(t)
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestKind(t *testing.T) {
	d := buildSample(t)
	tests := []struct {
		id   string
		want Kind
	}{
		{"redis1", KindNode},
		{"vpc", KindGroup},
		{Root, KindGroup},
		{"missing", KindNone},
	}
	for _, tt := range tests {
		if got := d.Kind(tt.id); got != tt.want {
			t.Errorf("Kind(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestAddEdgeInvalidColor(t *testing.T) {
	d := buildSample(t)
	before := d.EdgeCount()
	err := d.AddEdge("users", "redis1", "", EdgeStyle{Color: `#f00" onload="x`})
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Fatalf("AddEdge() error = %v, want INVALID_STYLE", err)
	}
	if d.EdgeCount() != before {
		t.Error("rejected edge was recorded")
	}
}

func TestZeroGroupRef(t *testing.T) {
	d := New("", "")
	ref, err := d.AddGroup("missing", "g", "G")
	if err == nil {
		t.Fatal("expected error for unknown parent")
	}

	if _, err := ref.AddNode("n", "N", ""); !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("AddNode on zero ref error = %v, want UNKNOWN_REFERENCE", err)
	}
	if _, err := ref.AddGroup("g2", "G2"); !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("AddGroup on zero ref error = %v, want UNKNOWN_REFERENCE", err)
	}
	ref.SetDirection(LeftToRight)
}
