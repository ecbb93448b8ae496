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

// Asia builds the chest clinic network. Every variable has the states
// "yes" and "no", in that order. TbOrCancer is a deterministic OR of
// Tuberculosis and LungCancer.
func Asia() (*network.ProbNet, error) {
	b := newBuilder(network.BayesianNetwork, network.WithName("asia"))

	asia := b.finite("VisitAsia", "yes", "no")
	tub := b.finite("Tuberculosis", "yes", "no")
	smoker := b.finite("Smoker", "yes", "no")
	cancer := b.finite("LungCancer", "yes", "no")
	bronchitis := b.finite("Bronchitis", "yes", "no")
	either := b.finite("TbOrCancer", "yes", "no")
	xray := b.finite("XRay", "yes", "no")
	dyspnea := b.finite("Dyspnea", "yes", "no")

	b.cpt([]float64{0.01, 0.99}, asia)
	b.cpt([]float64{0.05, 0.95, 0.01, 0.99}, tub, asia)
	b.cpt([]float64{0.5, 0.5}, smoker)
	b.cpt([]float64{0.1, 0.9, 0.01, 0.99}, cancer, smoker)
	b.cpt([]float64{0.6, 0.4, 0.3, 0.7}, bronchitis, smoker)
	b.cpt([]float64{
		1, 0, // tub=yes cancer=yes
		1, 0, // tub=no cancer=yes
		1, 0, // tub=yes cancer=no
		0, 1, // tub=no cancer=no
	}, either, tub, cancer)
	b.cpt([]float64{0.98, 0.02, 0.05, 0.95}, xray, either)
	b.cpt([]float64{
		0.9, 0.1, // either=yes bronchitis=yes
		0.8, 0.2, // either=no bronchitis=yes
		0.7, 0.3, // either=yes bronchitis=no
		0.1, 0.9, // either=no bronchitis=no
	}, dyspnea, either, bronchitis)

	return b.done()
}
