// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

func discretizedAge(t *testing.T) *variable.Variable {
	t.Helper()
	p, err := variable.NewPartitionedInterval([]float64{0, 50, 120}, []bool{false, true, true})
	require.NoError(t, err)
	v, err := variable.NewDiscretized("Age", []string{"young", "old"}, p, variable.WithUnit("years"))
	require.NoError(t, err)
	return v
}

func TestConvertNumericalVariablesToFiniteStates(t *testing.T) {
	age := discretizedAge(t)
	risk := binary(t, "Risk")
	prior := cpt(t, []float64{0.6, 0.4}, age)
	child := cpt(t, []float64{0.9, 0.1, 0.3, 0.7}, risk, age)

	net := network.New(network.BayesianNetwork, network.WithName("risk"))
	require.NoError(t, net.AddPotential(prior, nil))
	require.NoError(t, net.AddPotential(child, nil))
	ageNode, _ := net.Node(age)
	riskNode, _ := net.Node(risk)
	restriction, err := potential.NewTablePotential([]*variable.Variable{age, risk}, potential.RoleLinkRestriction,
		potential.WithValues(1, 1, 0, 1))
	require.NoError(t, err)
	net.Link(ageNode, riskNode, true).Restriction = restriction

	ev, err := evidence.NewCaseWith(mustFinding(t, age, 1), mustFinding(t, risk, 0))
	require.NoError(t, err)

	out, converted, err := ConvertNumericalVariablesToFiniteStates(net, ev)
	require.NoError(t, err)

	newAge, err := out.Variable("Age")
	require.NoError(t, err)
	assert.NotSame(t, age, newAge)
	assert.Equal(t, variable.FiniteStates, newAge.Type())
	assert.Equal(t, []string{"young", "old"}, newAge.StateNames())
	assert.Nil(t, newAge.Interval())

	sameRisk, err := out.Variable("Risk")
	require.NoError(t, err)
	assert.Same(t, risk, sameRisk, "finite-states variables are shared")

	for _, p := range out.Potentials() {
		assert.False(t, potential.Contains(p, age), "%s still refers to the discretized variable", p)
		assert.True(t, potential.Contains(p, newAge))
	}
	newAgeNode, _ := out.Node(newAge)
	newRiskNode, _ := out.Node(sameRisk)
	l := out.Link(newAgeNode, newRiskNode, true)
	require.NotNil(t, l)
	require.True(t, l.HasRestriction())
	assert.Same(t, newAge, l.Restriction.Variables()[0])
	assert.Equal(t, []float64{1, 1, 0, 1}, l.Restriction.Values())

	f, ok := converted.Finding(newAge)
	require.True(t, ok)
	assert.Equal(t, 1, f.StateIndex())
	assert.True(t, converted.Contains(risk))
	assert.False(t, converted.Contains(age))

	t.Run("inputs untouched", func(t *testing.T) {
		got, err := net.Variable("Age")
		require.NoError(t, err)
		assert.Same(t, age, got)
		assert.Same(t, age, prior.Variables()[0])
		assert.Same(t, age, restriction.Variables()[0])
		assert.True(t, ev.Contains(age))
	})
}

func TestConvertNumericalVariablesToFiniteStates_NothingToConvert(t *testing.T) {
	net, vars := graph(t, network.BayesianNetwork, "A>B")
	ev, err := evidence.NewCaseWith(mustFinding(t, vars["A"], 0))
	require.NoError(t, err)

	out, converted, err := ConvertNumericalVariablesToFiniteStates(net, ev)
	require.NoError(t, err)
	assert.Equal(t, names(net.Nodes()), names(out.Nodes()))
	assert.Equal(t, ev.Findings(), converted.Findings())
	assert.NotSame(t, ev, converted)
}

func decisionNetwork(t *testing.T) (*network.ProbNet, map[string]potential.Potential) {
	t.Helper()
	treat := binary(t, "Treat")
	costVar, qalyVar, total := binary(t, "Cost"), binary(t, "Effect"), binary(t, "Total")
	cost := &potential.Criterion{Name: "cost", Unit: "EUR"}
	qaly := &potential.Criterion{Name: "qaly", Unit: "QALY"}

	net := network.New(network.InfluenceDiagram, network.WithCriteria(cost, qaly))
	_, err := net.AddNode(treat, network.Decision)
	require.NoError(t, err)

	uc, err := potential.NewTablePotential([]*variable.Variable{costVar, treat}, potential.RoleUnspecified,
		potential.WithCriterion(cost), potential.WithValues(100, 100, 0, 0))
	require.NoError(t, err)
	ue, err := potential.NewTablePotential([]*variable.Variable{qalyVar, treat}, potential.RoleUnspecified,
		potential.WithCriterion(qaly), potential.WithValues(2, 2, 1, 1))
	require.NoError(t, err)
	sv, err := potential.NewCombinatorPotential(total, []*variable.Variable{costVar, qalyVar}, potential.CombinatorSum, nil)
	require.NoError(t, err)
	for _, p := range []potential.Potential{uc, ue, sv} {
		require.NoError(t, net.AddPotential(p, net))
	}
	return net, map[string]potential.Potential{"Cost": uc, "Effect": ue, "Total": sv}
}

func TestConvertToUnicriterion(t *testing.T) {
	net, ps := decisionNetwork(t)

	out, err := ConvertToUnicriterion(net, map[string]float64{"cost": -1, "qaly": 30000})
	require.NoError(t, err)

	criteria := out.Criteria()
	require.Len(t, criteria, 1)
	assert.Equal(t, UnicriterionName, criteria[0].Name)

	utilities := out.UtilityPotentials(criteria[0])
	require.Len(t, utilities, 3)
	byName := make(map[string]potential.Potential)
	for _, p := range utilities {
		byName[p.ConditionedVariable().Name()] = p
	}
	assert.Equal(t, []float64{-100, -100, 0, 0}, byName["Cost"].(*potential.TablePotential).Values())
	assert.Equal(t, []float64{60000, 60000, 30000, 30000}, byName["Effect"].(*potential.TablePotential).Values())
	assert.Equal(t, potential.CombinatorSum, byName["Total"].Combinator())

	assert.Equal(t, []float64{100, 100, 0, 0}, ps["Cost"].(*potential.TablePotential).Values(), "input is not modified")
	assert.Equal(t, "cost", ps["Cost"].Criterion().Name)
	assert.Len(t, net.Criteria(), 2)
}

func TestConvertToUnicriterion_Errors(t *testing.T) {
	t.Run("missing scale", func(t *testing.T) {
		net, _ := decisionNetwork(t)
		_, err := ConvertToUnicriterion(net, map[string]float64{"cost": 1})
		assert.ErrorIs(t, err, potential.ErrWrongCriterion)
	})

	t.Run("undeclared criterion", func(t *testing.T) {
		net, _ := decisionNetwork(t)
		stray, err := potential.NewTablePotential([]*variable.Variable{binary(t, "Stray")}, potential.RoleUnspecified,
			potential.WithCriterion(&potential.Criterion{Name: "pain"}))
		require.NoError(t, err)
		require.NoError(t, net.AddPotential(stray, nil))

		_, err = ConvertToUnicriterion(net, map[string]float64{"cost": 1, "qaly": 1, "pain": 1})
		assert.ErrorIs(t, err, potential.ErrWrongCriterion)
	})

	t.Run("opaque utility", func(t *testing.T) {
		net, _ := decisionNetwork(t)
		crit, _ := net.Criterion("cost")
		op := potential.NewOpaquePotential("regression", nil, []*variable.Variable{binary(t, "Opaque")},
			potential.RoleUnspecified, crit)
		require.NoError(t, net.AddPotential(op, nil))

		_, err := ConvertToUnicriterion(net, map[string]float64{"cost": 1, "qaly": 1})
		assert.ErrorIs(t, err, potential.ErrNonProjectable)
	})
}
