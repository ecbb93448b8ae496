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

// DeterministicChain builds Source -> Relay1 -> Relay2 -> Sink over the
// states "low", "mid" and "high". Every child copies its parent, so a
// single finding fixes the whole chain once evidence is extended.
func DeterministicChain() (*network.ProbNet, error) {
	b := newBuilder(network.BayesianNetwork, network.WithName("chain"))
	states := []string{"low", "mid", "high"}

	source := b.finite("Source", states...)
	relay1 := b.finite("Relay1", states...)
	relay2 := b.finite("Relay2", states...)
	sink := b.finite("Sink", states...)

	identity := []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	b.cpt([]float64{0.2, 0.5, 0.3}, source)
	b.cpt(identity, relay1, source)
	b.cpt(identity, relay2, relay1)
	b.cpt(identity, sink, relay2)

	return b.done()
}
