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
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// Criteria of the Treatment network.
var (
	CriterionCost          = potential.Criterion{Name: "cost", Unit: "EUR"}
	CriterionEffectiveness = potential.Criterion{Name: "effectiveness", Unit: "QALY"}
)

// Treatment builds an influence diagram for treating a disease after a
// test.
//
// Description:
//
//	Disease -> Test -> Therapy, where Therapy is a decision. Cost depends on
//	Therapy and Effect on Disease and Therapy; Total is their sum. The
//	Test -> Therapy link forbids therapy after a negative test and reveals
//	the positive state. Each call declares fresh criteria copied from
//	CriterionCost and CriterionEffectiveness.
func Treatment() (*network.ProbNet, error) {
	cost, effect := CriterionCost, CriterionEffectiveness
	b := newBuilder(network.InfluenceDiagram,
		network.WithName("treatment"),
		network.WithCriteria(&cost, &effect),
	)

	disease := b.finite("Disease", "present", "absent")
	test := b.finite("Test", "positive", "negative")
	therapy := b.finite("Therapy", "yes", "no")
	costVar := b.finite("Cost", "value")
	effectVar := b.finite("Effect", "value")
	total := b.finite("Total", "value")

	b.cpt([]float64{0.14, 0.86}, disease)
	b.cpt([]float64{0.9, 0.1, 0.07, 0.93}, test, disease)
	b.node(therapy, network.Decision)
	l := b.link(test, therapy)

	b.utility(&cost, []float64{20000, 0}, costVar, therapy)
	b.utility(&effect, []float64{
		8, 9.5, // therapy=yes
		3, 10, // therapy=no
	}, effectVar, disease, therapy)

	if b.err == nil {
		sv, err := potential.NewCombinatorPotential(total, []*variable.Variable{costVar, effectVar}, potential.CombinatorSum, nil)
		b.err = err
		b.add(sv)
	}

	restriction := b.table(potential.RoleLinkRestriction, []float64{
		1, 0, // therapy=yes
		1, 1, // therapy=no
	}, []*variable.Variable{test, therapy})
	if b.err == nil {
		l.Restriction = restriction
		l.RevealingStates = test.States()[:1]
	}

	return b.done()
}
