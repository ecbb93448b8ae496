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
	"fmt"
	"testing"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finite(t *testing.T, name string, n int) *variable.Variable {
	t.Helper()
	states := make([]string, n)
	for i := range states {
		states[i] = fmt.Sprintf("s%d", i)
	}
	v, err := variable.NewFiniteStates(name, states)
	require.NoError(t, err)
	return v
}

func observe(t *testing.T, findings ...any) *evidence.Case {
	t.Helper()
	ev := evidence.NewCase()
	for i := 0; i < len(findings); i += 2 {
		f, err := evidence.NewStateFinding(findings[i].(*variable.Variable), findings[i+1].(int))
		require.NoError(t, err)
		require.NoError(t, ev.AddFinding(f))
	}
	return ev
}

type mapResolver map[string]*variable.Variable

func (m mapResolver) Variable(name string) (*variable.Variable, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return nil, errors.New("no such variable")
}

func TestTablePotential_PositionAndConfiguration(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 2)

	tp, err := NewTablePotential([]*variable.Variable{a, b}, RoleJointProbability)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2}, tp.Dimensions())
	assert.Equal(t, []int{1, 2}, tp.Offsets())
	assert.Equal(t, 3, tp.Position([]int{1, 1}))
	assert.Equal(t, []int{0, 1}, tp.Configuration(2))
	assert.Equal(t, 4, tp.Size())
}

func TestTablePotential_RoundTrip(t *testing.T) {
	vars := []*variable.Variable{finite(t, "A", 2), finite(t, "B", 3), finite(t, "C", 4)}
	tp, err := NewTablePotential(vars, RoleJointProbability)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 6}, tp.Offsets())
	for pos := 0; pos < tp.Size(); pos++ {
		assert.Equal(t, pos, tp.Position(tp.Configuration(pos)))
	}
	assert.Panics(t, func() { tp.Position([]int{0, 3, 0}) })
	assert.Panics(t, func() { tp.Configuration(24) })
}

func TestNewTablePotential_Errors(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		vars := make([]*variable.Variable, 70)
		for i := range vars {
			vars[i] = finite(t, fmt.Sprintf("V%d", i), 2)
		}
		_, err := NewTablePotential(vars, RoleJointProbability)
		assert.True(t, errors.Is(err, ErrOutOfResources))

		_, err = NewTablePotential(vars[:30], RoleJointProbability)
		assert.True(t, errors.Is(err, ErrOutOfResources))
	})

	t.Run("numeric variable", func(t *testing.T) {
		domain, err := variable.NewPartitionedInterval([]float64{0, 1}, []bool{false, true})
		require.NoError(t, err)
		x, err := variable.NewNumeric("X", domain)
		require.NoError(t, err)
		_, err = NewTablePotential([]*variable.Variable{x}, RoleJointProbability)
		assert.True(t, errors.Is(err, ErrNotDiscrete))
	})

	t.Run("wrong number of values", func(t *testing.T) {
		_, err := NewTablePotential([]*variable.Variable{finite(t, "A", 2)}, RoleJointProbability,
			WithValues(0.1, 0.2, 0.7))
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	})

	t.Run("repeated variable", func(t *testing.T) {
		a := finite(t, "A", 2)
		_, err := NewTablePotential([]*variable.Variable{a, a}, RoleJointProbability)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	})
}

func TestTablePotential_ProjectTable(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 2)
	// P(A | B): cells ordered (a0,b0) (a1,b0) (a0,b1) (a1,b1).
	cpt, err := NewTablePotential([]*variable.Variable{a, b}, RoleConditionalProbability,
		WithValues(0.9, 0.1, 0.2, 0.8))
	require.NoError(t, err)

	t.Run("observe parent", func(t *testing.T) {
		p, err := cpt.ProjectTable(observe(t, b, 1), ProjectOptions{})
		require.NoError(t, err)
		assert.Equal(t, []*variable.Variable{a}, p.Variables())
		assert.Equal(t, []float64{0.2, 0.8}, p.Values())
		assert.Equal(t, RoleConditionalProbability, p.Role())
	})

	t.Run("observe child", func(t *testing.T) {
		p, err := cpt.ProjectTable(observe(t, a, 0), ProjectOptions{})
		require.NoError(t, err)
		assert.Equal(t, []*variable.Variable{b}, p.Variables())
		assert.Equal(t, []float64{0.9, 0.2}, p.Values())
	})

	t.Run("observe all", func(t *testing.T) {
		p, err := cpt.ProjectTable(observe(t, a, 1, b, 0), ProjectOptions{})
		require.NoError(t, err)
		assert.Empty(t, p.Variables())
		assert.Equal(t, []float64{0.1}, p.Values())
	})

	t.Run("idempotent", func(t *testing.T) {
		ev := observe(t, b, 1)
		once, err := cpt.ProjectTable(ev, ProjectOptions{})
		require.NoError(t, err)
		twice, err := once.ProjectTable(ev, ProjectOptions{})
		require.NoError(t, err)
		assert.True(t, once.Equal(twice))
	})

	t.Run("no evidence copies", func(t *testing.T) {
		p, err := cpt.ProjectTable(evidence.NewCase(), ProjectOptions{})
		require.NoError(t, err)
		assert.True(t, cpt.Equal(p))
		assert.NotSame(t, cpt, p)
	})

	t.Run("does not mutate source", func(t *testing.T) {
		_, err := cpt.Project(observe(t, b, 0), ProjectOptions{}, nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.9, 0.1, 0.2, 0.8}, cpt.Values())
	})
}

func TestTablePotential_ProjectTable_MiddleVariable(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 3)
	c := finite(t, "C", 2)
	values := make([]float64, 12)
	for i := range values {
		values[i] = float64(i)
	}
	tp, err := NewTablePotential([]*variable.Variable{a, b, c}, RoleJointProbability, WithValues(values...))
	require.NoError(t, err)

	p, err := tp.ProjectTable(observe(t, b, 2), ProjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, []*variable.Variable{a, c}, p.Variables())
	assert.Equal(t, []float64{4, 5, 10, 11}, p.Values())
}

func TestTablePotential_ProjectUncertainty(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 2)
	u := &UncertainValue{Function: "Beta", Arguments: []float64{2, 3}}
	tp, err := NewTablePotential([]*variable.Variable{a, b}, RoleJointProbability,
		WithValues(0.25, 0.25, 0.25, 0.25),
		WithUncertainValues([]*UncertainValue{u, nil, nil, nil}))
	require.NoError(t, err)

	kept, err := tp.ProjectTable(observe(t, b, 0), ProjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, []*UncertainValue{u, nil}, kept.Uncertain())

	dropped, err := tp.ProjectTable(observe(t, b, 1), ProjectOptions{})
	require.NoError(t, err)
	assert.Nil(t, dropped.Uncertain(), "all-nil projection is dropped")

	skipped, err := tp.ProjectTable(observe(t, b, 0), ProjectOptions{DropUncertainty: true})
	require.NoError(t, err)
	assert.Nil(t, skipped.Uncertain())
}

func TestTablePotential_AccumulatedOffsets(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 3)
	c := finite(t, "C", 2)
	d := finite(t, "D", 3)

	tp, err := NewTablePotential([]*variable.Variable{a, b, c}, RoleJointProbability)
	require.NoError(t, err)
	other := []*variable.Variable{c, d, a}
	strides := Strides(other)
	require.Equal(t, []int{1, 2, 6}, strides)

	acc := tp.AccumulatedOffsets(other)
	require.Len(t, acc, 3)

	direct := func(coords []int) int {
		// A is at index 2 of other, C at index 0; D stays at 0.
		return coords[0]*strides[2] + coords[2]*strides[0]
	}

	coords := make([]int, 3)
	pos := 0
	for cell := 1; cell < tp.Size(); cell++ {
		j := 0
		for {
			coords[j]++
			if coords[j] < tp.Dimensions()[j] {
				break
			}
			coords[j] = 0
			j++
		}
		pos += acc[j]
		assert.Equal(t, direct(coords), pos, "cell %d coords %v", cell, coords)
	}
}

func TestTablePotential_Mutators(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 3)
	tp, err := NewTablePotential([]*variable.Variable{a, b}, RoleConditionalProbability)
	require.NoError(t, err)

	tp.SetUniform()
	for _, v := range tp.Values() {
		assert.Equal(t, 0.5, v)
	}

	tp.SetValue(0.7, 0, 2)
	assert.Equal(t, 0.7, tp.Value(0, 2))

	tp.Scale(2)
	assert.Equal(t, 1.4, tp.Value(0, 2))

	require.NoError(t, tp.SetValues([]float64{1, 3, 2, 2, 0, 0}))
	tp.Normalize()
	assert.Equal(t, []float64{0.25, 0.75, 0.5, 0.5, 0, 0}, tp.Values())

	assert.True(t, errors.Is(tp.SetValues([]float64{1}), ErrInvalidConfiguration))
	require.NoError(t, tp.SetValues([]float64{0, 0, 0, 0, 0, 0}))
	assert.True(t, tp.IsAllZero())
}

func TestTablePotential_CopyIsIndependent(t *testing.T) {
	a := finite(t, "A", 2)
	tp, err := NewTablePotential([]*variable.Variable{a}, RoleJointProbability, WithValues(0.3, 0.7))
	require.NoError(t, err)

	cp := tp.Copy().(*TablePotential)
	cp.SetValue(1, 0)

	assert.Equal(t, 0.3, tp.Value(0))
	assert.Same(t, a, cp.Variables()[0])
}

func TestTablePotential_DeepCopy(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 2)
	tp, err := NewTablePotential([]*variable.Variable{a, b}, RoleJointProbability,
		WithValues(0.1, 0.2, 0.3, 0.4))
	require.NoError(t, err)

	a2, b2 := a.Clone(), b.Clone()
	copied, err := tp.DeepCopy(mapResolver{"A": a2, "B": b2})
	require.NoError(t, err)
	assert.Same(t, a2, copied.Variables()[0])
	assert.Same(t, b2, copied.Variables()[1])
	assert.Equal(t, tp.Values(), copied.(*TablePotential).Values())

	_, err = tp.DeepCopy(mapResolver{"A": a2})
	assert.True(t, errors.Is(err, ErrVariableNotFound))

	_, err = tp.DeepCopy(mapResolver{"A": a2, "B": finite(t, "B", 3)})
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestTablePotential_ReplaceVariable(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 2)
	tp, err := NewTablePotential([]*variable.Variable{a, b}, RoleJointProbability)
	require.NoError(t, err)

	a2 := a.Clone()
	require.NoError(t, tp.ReplaceVariable(a, a2))
	assert.Same(t, a2, tp.Variables()[0])

	assert.True(t, errors.Is(tp.ReplaceVariable(a, a2), ErrVariableNotFound))
	assert.True(t, errors.Is(tp.ReplaceVariable(b, finite(t, "B", 3)), ErrInvalidConfiguration))
}

func TestTablePotential_InducedFindings(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 2)
	// B is a copy of A.
	identity, err := NewTablePotential([]*variable.Variable{b, a}, RoleConditionalProbability,
		WithValues(1, 0, 0, 1))
	require.NoError(t, err)

	t.Run("parent implies child", func(t *testing.T) {
		findings, err := identity.InducedFindings(observe(t, a, 1))
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Same(t, b, findings[0].Variable())
		assert.Equal(t, 1, findings[0].StateIndex())
	})

	t.Run("child implies parent", func(t *testing.T) {
		findings, err := identity.InducedFindings(observe(t, b, 0))
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Same(t, a, findings[0].Variable())
		assert.Equal(t, 0, findings[0].StateIndex())
	})

	t.Run("impossible evidence", func(t *testing.T) {
		_, err := identity.InducedFindings(observe(t, a, 1, b, 0))
		assert.True(t, errors.Is(err, evidence.ErrIncompatibleEvidence))
	})

	t.Run("not deterministic", func(t *testing.T) {
		noisy, err := NewTablePotential([]*variable.Variable{b, a}, RoleConditionalProbability,
			WithValues(0.9, 0.1, 0.2, 0.8))
		require.NoError(t, err)
		findings, err := noisy.InducedFindings(observe(t, a, 1))
		require.NoError(t, err)
		assert.Empty(t, findings)
	})

	t.Run("utility never induces", func(t *testing.T) {
		u, err := NewTablePotential([]*variable.Variable{a}, RoleUnspecified,
			WithValues(0, 0), WithCriterion(&Criterion{Name: "cost"}))
		require.NoError(t, err)
		findings, err := u.InducedFindings(observe(t, a, 1))
		require.NoError(t, err)
		assert.Empty(t, findings)
	})
}

func TestTablePotential_String(t *testing.T) {
	a := finite(t, "A", 2)
	b := finite(t, "B", 2)
	c := finite(t, "C", 2)

	cpt, _ := NewTablePotential([]*variable.Variable{a, b, c}, RoleConditionalProbability)
	assert.Equal(t, "P(A | B, C)", cpt.String())

	joint, _ := NewTablePotential([]*variable.Variable{a, b}, RoleJointProbability)
	assert.Equal(t, "P(A, B)", joint.String())

	u, _ := NewTablePotential([]*variable.Variable{a}, RoleUnspecified, WithCriterion(&Criterion{Name: "cost"}))
	assert.Equal(t, "U(A)", u.String())
	assert.Same(t, a, u.ConditionedVariable())
	assert.Nil(t, joint.ConditionedVariable())
}

func TestZeroProbability(t *testing.T) {
	z := ZeroProbability()
	assert.Same(t, z, ZeroProbability())
	assert.True(t, IsZeroProbability(z))
	assert.True(t, z.IsFrozen())
	assert.Equal(t, []float64{0}, z.Values())
	assert.Empty(t, z.Variables())

	assert.Panics(t, func() { z.SetValue(1) })
	assert.Panics(t, func() { z.Scale(2) })
	assert.Panics(t, func() { z.SetUniform() })

	cp := z.Copy().(*TablePotential)
	assert.False(t, cp.IsFrozen())
	assert.False(t, IsZeroProbability(cp))
	assert.NotPanics(t, func() { cp.SetValue(1) })
}
