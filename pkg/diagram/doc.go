// Package diagram provides the declarative model for architecture diagrams.
//
// # Overview
//
// A [Diagram] is a tree of groups (clusters) holding nodes, plus an overlay of
// directed edges. The tree expresses ownership; edges reference nodes or groups
// by identifier and are independent of containment:
//
//	d := diagram.New("Redis on AWS", "Multi-AZ deployment")
//	cloud, _ := d.AddGroup(diagram.Root, "aws", "AWS Cloud")
//	vpc, _ := cloud.AddGroup("vpc", "VPC 10.0.0.0/16")
//	_, _ = vpc.AddNode("bastion", "Bastion Host", "compute")
//	_, _ = vpc.AddNode("redis1", "Redis Node 1", "database")
//	_ = d.AddEdge("bastion", "redis1", "SSH tunnel", diagram.EdgeStyle{Line: diagram.Dashed})
//
// # Invariants
//
//   - Identifiers are unique across the whole diagram, nodes and groups alike.
//     Reuse fails with a DUPLICATE_ID error.
//   - Parents and edge endpoints must exist when referenced. A missing
//     reference fails with an UNKNOWN_REFERENCE error.
//   - The group tree is acyclic: a group's parent is fixed when it is added.
//
// # Ordering
//
// Children are kept in insertion order and [Diagram.Walk] visits them in that
// order. Layout and rendering depend on this for reproducible output; nothing
// in the model iterates a map to produce ordered results.
//
// # Concurrency
//
// A Diagram is built by a single goroutine and then treated as read-only. Once
// building is done it may be shared by concurrent readers.
package diagram
