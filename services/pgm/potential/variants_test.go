// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package potential

import (
	"errors"
	"testing"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantProjector evaluates to a uniform table over the discrete
// unobserved variables.
type constantProjector struct{}

func (constantProjector) ProjectTable(p *OpaquePotential, ev *evidence.Case) (*TablePotential, error) {
	var vars []*variable.Variable
	for _, v := range p.Variables() {
		if v.IsDiscrete() && !ev.Contains(v) {
			vars = append(vars, v)
		}
	}
	t, err := NewTablePotential(vars, RoleJointProbability)
	if err != nil {
		return nil, err
	}
	t.SetUniform()
	return t, nil
}

func TestOpaquePotential_Project(t *testing.T) {
	a := finite(t, "A", 2)
	domain, err := variable.NewPartitionedInterval([]float64{0, 10}, []bool{false, true})
	require.NoError(t, err)
	x, err := variable.NewNumeric("X", domain)
	require.NoError(t, err)

	t.Run("payload without table form", func(t *testing.T) {
		p := NewOpaquePotential("cox-hazard", struct{}{}, []*variable.Variable{a}, RoleConditionalProbability, nil)
		_, err := p.Project(evidence.NewCase(), ProjectOptions{}, nil)
		assert.True(t, errors.Is(err, ErrNonProjectable))
	})

	t.Run("unobserved numeric variable", func(t *testing.T) {
		p := NewOpaquePotential("linear", constantProjector{}, []*variable.Variable{x, a}, RoleConditionalProbability, nil)
		_, err := p.Project(evidence.NewCase(), ProjectOptions{}, nil)
		assert.True(t, errors.Is(err, ErrNonProjectable))
	})

	t.Run("projector", func(t *testing.T) {
		p := NewOpaquePotential("linear", constantProjector{}, []*variable.Variable{x, a}, RoleConditionalProbability, nil)
		f, err := evidence.NewNumericFinding(x, 3)
		require.NoError(t, err)
		ev, err := evidence.NewCaseWith(f)
		require.NoError(t, err)

		tables, err := p.Project(ev, ProjectOptions{}, nil)
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, []*variable.Variable{a}, tables[0].Variables())
	})

	t.Run("copies share payload", func(t *testing.T) {
		payload := &struct{ beta float64 }{beta: 1.5}
		p := NewOpaquePotential("linear", payload, []*variable.Variable{a}, RoleConditionalProbability, nil)
		a2 := a.Clone()
		cp, err := p.DeepCopy(mapResolver{"A": a2})
		require.NoError(t, err)
		assert.Same(t, a2, cp.Variables()[0])
		assert.Same(t, payload, cp.(*OpaquePotential).Payload())
		assert.Equal(t, KindOpaque, cp.Kind())
	})
}

func TestCombinatorPotential(t *testing.T) {
	total := finite(t, "Total", 1)
	cost := finite(t, "Cost", 1)
	benefit := finite(t, "Benefit", 1)

	_, err := NewCombinatorPotential(total, []*variable.Variable{cost}, CombinatorNone, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	c, err := NewCombinatorPotential(total, []*variable.Variable{cost, benefit}, CombinatorSum, nil)
	require.NoError(t, err)

	assert.Equal(t, KindCombinator, c.Kind())
	assert.Equal(t, CombinatorSum, c.Combinator())
	assert.True(t, c.IsUtility())
	assert.Same(t, total, c.ConditionedVariable())
	assert.Equal(t, "Sum(Total | Cost, Benefit)", c.String())

	_, err = c.Project(evidence.NewCase(), ProjectOptions{}, nil)
	assert.True(t, errors.Is(err, ErrNonProjectable))

	findings, err := c.InducedFindings(evidence.NewCase())
	require.NoError(t, err)
	assert.Empty(t, findings)

	cp := c.Copy()
	require.NoError(t, cp.ReplaceVariable(cost, benefit))
	assert.Same(t, cost, c.Variables()[1], "copy is independent")
}

func TestEnums_String(t *testing.T) {
	assert.Equal(t, "conditional-probability", RoleConditionalProbability.String())
	assert.Equal(t, "unknown", Role(99).String())
	assert.Equal(t, "table", KindTable.String())
	assert.Equal(t, "product", CombinatorProduct.String())
}
