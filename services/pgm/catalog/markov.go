// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// MarkovLoop builds the undirected cycle A - B - C - D - A with pairwise
// potentials that favour equal neighbours.
func MarkovLoop() (*network.ProbNet, error) {
	b := newBuilder(network.MarkovNetwork, network.WithName("loop"))

	names := []string{"A", "B", "C", "D"}
	vars := make([]*variable.Variable, len(names))
	for i, name := range names {
		vars[i] = b.finite(name, "on", "off")
	}
	agree := []float64{10, 1, 1, 10}
	for i := range vars {
		b.joint(agree, vars[i], vars[(i+1)%len(vars)])
	}

	return b.done()
}
