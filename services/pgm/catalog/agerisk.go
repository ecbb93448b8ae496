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
)

// AgeRisk builds Age -> Risk -> Screening, where Age is discretized over
// [0, 120] years into "young" [0, 45] and "old" (45, 120].
func AgeRisk() (*network.ProbNet, error) {
	b := newBuilder(network.BayesianNetwork, network.WithName("age-risk"))

	age := b.discretized("Age", []string{"young", "old"}, []float64{0, 45, 120}, "years")
	risk := b.finite("Risk", "high", "low")
	screening := b.finite("Screening", "positive", "negative")

	b.cpt([]float64{0.55, 0.45}, age)
	b.cpt([]float64{0.1, 0.9, 0.4, 0.6}, risk, age)
	b.cpt([]float64{0.85, 0.15, 0.05, 0.95}, screening, risk)

	return b.done()
}
