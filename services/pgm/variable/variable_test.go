// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package variable

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		t        Type
		expected string
	}{
		{FiniteStates, "finite-states"},
		{Numeric, "numeric"},
		{Discretized, "discretized"},
		{Type(99), "unknown"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, tc.t.String())
	}
}

func TestNewFiniteStates(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := NewFiniteStates("Smoker", []string{"yes", "no"})
		require.NoError(t, err)

		assert.Equal(t, "Smoker", v.Name())
		assert.Equal(t, "Smoker", v.BaseName())
		assert.Equal(t, NoTimeSlice, v.TimeSlice())
		assert.False(t, v.IsTemporal())
		assert.True(t, v.IsDiscrete())
		assert.Equal(t, 2, v.NumStates())
		assert.Equal(t, []string{"yes", "no"}, v.StateNames())
		assert.Nil(t, v.Interval())
	})

	t.Run("duplicated states", func(t *testing.T) {
		_, err := NewFiniteStates("X", []string{"a", "a"})
		assert.True(t, errors.Is(err, ErrMalformedConfiguration))
	})

	t.Run("no states", func(t *testing.T) {
		_, err := NewFiniteStates("X", nil)
		assert.True(t, errors.Is(err, ErrMalformedConfiguration))
	})

	t.Run("empty state name", func(t *testing.T) {
		_, err := NewFiniteStates("X", []string{"a", ""})
		assert.True(t, errors.Is(err, ErrMalformedConfiguration))
	})
}

func TestVariable_StateLookups(t *testing.T) {
	v, err := NewFiniteStates("Weather", []string{"sunny", "cloudy", "rainy"})
	require.NoError(t, err)

	idx, err := v.StateIndex("rainy")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = v.StateIndex("snowy")
	assert.True(t, errors.Is(err, ErrInvalidState))

	s, err := v.State(1)
	require.NoError(t, err)
	assert.Equal(t, State{Name: "cloudy"}, s)

	_, err = v.State(3)
	assert.True(t, errors.Is(err, ErrInvalidState))
	_, err = v.State(-1)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = v.StateIndexForValue(1.0)
	assert.True(t, errors.Is(err, ErrInvalidState), "finite-states variables have no numeric domain")
}

func TestVariable_TemporalName(t *testing.T) {
	v, err := NewFiniteStates("Rain [2]", []string{"yes", "no"})
	require.NoError(t, err)

	assert.Equal(t, "Rain [2]", v.Name())
	assert.Equal(t, "Rain", v.BaseName())
	assert.Equal(t, 2, v.TimeSlice())
	assert.True(t, v.IsTemporal())

	shifted, err := v.ShiftInTime(3)
	require.NoError(t, err)
	assert.Equal(t, "Rain [5]", shifted.Name())
	assert.Equal(t, 5, shifted.TimeSlice())
	assert.NotSame(t, v, shifted)
	assert.Equal(t, 2, v.TimeSlice(), "shifting must not mutate the source")

	_, err = v.ShiftInTime(-3)
	assert.True(t, errors.Is(err, ErrMalformedConfiguration))

	atemporal, err := NewFiniteStates("Rain", []string{"yes", "no"})
	require.NoError(t, err)
	_, err = atemporal.ShiftInTime(1)
	assert.True(t, errors.Is(err, ErrMalformedConfiguration))
}

func TestVariable_Clone(t *testing.T) {
	v, err := NewFiniteStates("X", []string{"a", "b"}, WithUnit("kg"))
	require.NoError(t, err)

	c := v.Clone()
	assert.NotSame(t, v, c)
	assert.Equal(t, v.Name(), c.Name())
	assert.Equal(t, v.StateNames(), c.StateNames())
	assert.Equal(t, "kg", c.Unit())

	fs, err := c.CloneAs(Numeric)
	require.NoError(t, err)
	assert.Equal(t, Numeric, fs.Type())
	assert.Equal(t, FiniteStates, c.Type())
}

func TestNewDiscretized(t *testing.T) {
	p, err := NewPartitionedInterval([]float64{0, 10, 20}, []bool{false, true, true})
	require.NoError(t, err)

	v, err := NewDiscretized("Age", []string{"young", "old"}, p)
	require.NoError(t, err)
	assert.Equal(t, Discretized, v.Type())

	idx, err := v.StateIndexForValue(10)
	require.NoError(t, err)
	assert.Equal(t, 0, idx, "10 belongs to the left subinterval")

	idx, err = v.StateIndexForValue(15)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = NewDiscretized("Age", []string{"only"}, p)
	assert.True(t, errors.Is(err, ErrMalformedConfiguration))

	fs, err := v.CloneAs(FiniteStates)
	require.NoError(t, err)
	assert.Nil(t, fs.Interval())
	assert.Equal(t, v.StateNames(), fs.StateNames())
}

func TestPartitionedInterval_Validation(t *testing.T) {
	tests := []struct {
		name   string
		limits []float64
		sides  []bool
	}{
		{"length mismatch", []float64{0, 1, 2}, []bool{false, true}},
		{"single limit", []float64{0}, []bool{false}},
		{"decreasing", []float64{0, 2, 1}, []bool{false, true, true}},
		{"nan", []float64{0, math.NaN()}, []bool{false, true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPartitionedInterval(tc.limits, tc.sides)
			assert.True(t, errors.Is(err, ErrMalformedConfiguration))
		})
	}
}

func TestPartitionedInterval_IndexOf(t *testing.T) {
	// (0, 10] (10, 20) [20, 30]
	p, err := NewPartitionedInterval([]float64{0, 10, 20, 30}, []bool{true, true, false, true})
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumSubintervals())
	assert.Equal(t, "(0, 10] (10, 20) [20, 30]", p.String())

	tests := []struct {
		value    float64
		expected int
		valid    bool
	}{
		{-1, -1, false},
		{0, -1, false}, // open lower bound
		{0.5, 0, true},
		{10, 0, true},
		{10.1, 1, true},
		{20, 2, true},
		{30, 2, true},
		{30.1, -1, false},
		{math.NaN(), -1, false},
	}

	for _, tc := range tests {
		idx, err := p.IndexOf(tc.value)
		if !tc.valid {
			assert.True(t, errors.Is(err, ErrInvalidState), "value %g", tc.value)
			assert.False(t, p.Contains(tc.value))
			continue
		}
		require.NoError(t, err, "value %g", tc.value)
		assert.Equal(t, tc.expected, idx, "value %g", tc.value)
	}
}

func TestPartitionedInterval_CopiesInputs(t *testing.T) {
	limits := []float64{0, 1}
	sides := []bool{false, true}
	p, err := NewPartitionedInterval(limits, sides)
	require.NoError(t, err)

	limits[1] = 100
	sides[1] = false
	assert.Equal(t, []float64{0, 1}, p.Limits())
	assert.Equal(t, []bool{false, true}, p.BelongsToLeftSide())

	q, err := NewPartitionedInterval([]float64{0, 1}, []bool{false, true})
	require.NoError(t, err)
	assert.True(t, p.Equal(q))
}
