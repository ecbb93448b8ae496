// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package operations holds the structural algorithms that prepare a
// network for inference: topological ordering, barren and unreachable node
// pruning, numeric-variable conversion, criteria unification and evidence
// projection of every potential.
//
// Functions that return a network never mutate their input; the Remove*
// functions work in place on the network they are given.
package operations

import "errors"

// Sentinel errors for network operations.
var (
	// ErrCyclicNetwork is returned when the directed links of a network
	// contain a cycle, so no topological order exists.
	ErrCyclicNetwork = errors.New("network has a directed cycle")
)
