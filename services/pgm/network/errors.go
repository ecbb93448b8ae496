// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package network provides the probabilistic network container: nodes
// bound to variables, directed and undirected links, and the potentials
// attached to nodes.
//
// # Ownership Model
//
// The network stores pointers to variables and potentials but does NOT own
// them. Copy shares both with the original; DeepCopy clones variables and
// re-resolves every potential against the clone.
//
// # Thread Safety
//
// ProbNet is NOT safe for concurrent use while it is being built or pruned.
// A network that is no longer mutated can be read from multiple goroutines,
// which is how concurrent projection uses it.
package network

import "errors"

// Sentinel errors for network operations.
var (
	// ErrNodeNotFound is returned when a variable, name or node is not part
	// of the network.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode is returned when adding a node for a variable, or a
	// variable name, that the network already has.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrInvalidNode is returned when adding a nil variable.
	ErrInvalidNode = errors.New("invalid node")

	// ErrLinkExists is returned when adding a link that is already present.
	ErrLinkExists = errors.New("link already exists")

	// ErrLinkNotFound is returned when removing a link that does not exist.
	ErrLinkNotFound = errors.New("link not found")

	// ErrSelfLoop is returned when linking a node to itself.
	ErrSelfLoop = errors.New("self loop")

	// ErrMaxNodesExceeded is returned when the network has reached its
	// configured maximum node capacity.
	ErrMaxNodesExceeded = errors.New("maximum node count exceeded")
)
