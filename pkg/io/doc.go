// Package io reads and writes diagram descriptions.
//
// # Overview
//
// A description is a declarative document that [Build] turns into a
// [diagram.Diagram]. Three encodings are supported: JSON, YAML and TOML. The
// encoding is picked from the file extension by [FormatFromPath]:
//
//	d, err := io.Import("infra.yaml")
//
// # Format
//
//	title: Redis Infrastructure
//	subtitle: ap-south-1
//	direction: TB
//	children:
//	  - id: users
//	    label: End Users
//	    style: client
//	  - id: vpc
//	    type: cluster
//	    label: Custom VPC
//	    direction: LR
//	    children:
//	      - id: bastion
//	        label: Bastion Host
//	        style: compute
//	        annotation: |-
//	          t3.micro
//	          Public IP
//	edges:
//	  - from: users
//	    to: bastion
//	    label: SSH
//	    style: dashed
//	    color: red
//	    arrow: forward
//
// An element is a cluster when its type is "cluster" (or "group") or when it
// has children; otherwise it is a node. Edge styles are solid, dashed or
// dotted; arrows are none, forward or both.
//
// # Errors
//
// Decoding failures are INVALID_FORMAT. Building surfaces the same coded
// errors as the builder API: UNKNOWN_REFERENCE, DUPLICATE_ID, INVALID_INPUT
// and INVALID_STYLE, with the offending element in the message.
//
// # Export
//
// [Describe] converts a diagram back into a description; [Write] and
// [Export] encode it. Import, describe and re-import yields an equivalent
// diagram.
package io
