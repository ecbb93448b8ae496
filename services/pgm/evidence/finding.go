// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evidence

import (
	"fmt"
	"math"
	"strconv"

	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// Finding is an observed value of one variable.
//
// Discrete findings carry a state index. Numeric findings carry a value;
// on a discretized variable the state index is derived from the value.
// Findings are small values and are passed by value.
type Finding struct {
	variable   *variable.Variable
	stateIndex int
	value      float64
	hasValue   bool
}

// NewStateFinding records that v is in the state with the given index.
func NewStateFinding(v *variable.Variable, stateIndex int) (Finding, error) {
	if v == nil {
		return Finding{}, fmt.Errorf("%w: nil variable", ErrInvalidFinding)
	}
	if _, err := v.State(stateIndex); err != nil {
		return Finding{}, err
	}
	return Finding{variable: v, stateIndex: stateIndex, value: math.NaN()}, nil
}

// NewStateNameFinding records that v is in the named state.
func NewStateNameFinding(v *variable.Variable, state string) (Finding, error) {
	if v == nil {
		return Finding{}, fmt.Errorf("%w: nil variable", ErrInvalidFinding)
	}
	idx, err := v.StateIndex(state)
	if err != nil {
		return Finding{}, err
	}
	return Finding{variable: v, stateIndex: idx, value: math.NaN()}, nil
}

// NewNumericFinding records a numeric observation.
//
// Description:
//
//	For a discretized variable the state index is the subinterval that
//	contains value. For a numeric variable the index is -1.
//
// Errors:
//
//	ErrInvalidFinding - v is nil or finite-states.
//	variable.ErrInvalidState - value is outside the variable domain.
func NewNumericFinding(v *variable.Variable, value float64) (Finding, error) {
	if v == nil {
		return Finding{}, fmt.Errorf("%w: nil variable", ErrInvalidFinding)
	}
	switch v.Type() {
	case variable.Discretized:
		idx, err := v.StateIndexForValue(value)
		if err != nil {
			return Finding{}, err
		}
		return Finding{variable: v, stateIndex: idx, value: value, hasValue: true}, nil
	case variable.Numeric:
		if !v.Interval().Contains(value) {
			return Finding{}, fmt.Errorf("%w: %g is outside the domain of %q",
				variable.ErrInvalidState, value, v.Name())
		}
		return Finding{variable: v, stateIndex: -1, value: value, hasValue: true}, nil
	default:
		return Finding{}, fmt.Errorf("%w: numeric value for %s variable %q",
			ErrInvalidFinding, v.Type(), v.Name())
	}
}

// Variable returns the observed variable.
func (f Finding) Variable() *variable.Variable { return f.variable }

// StateIndex returns the observed state, -1 for numeric variables.
func (f Finding) StateIndex() int { return f.stateIndex }

// NumericalValue returns the observed value and whether one was recorded.
func (f Finding) NumericalValue() (float64, bool) { return f.value, f.hasValue }

// State returns the observed state of a discrete variable.
func (f Finding) State() (variable.State, error) {
	return f.variable.State(f.stateIndex)
}

// IsZero reports whether f is the zero Finding.
func (f Finding) IsZero() bool { return f.variable == nil }

// Compatible reports whether two findings about the same variable agree.
//
// Finite-states findings must have the same state index, numeric findings
// the same value, and discretized findings either of the two.
func (f Finding) Compatible(other Finding) bool {
	if f.variable != other.variable {
		return false
	}
	switch f.variable.Type() {
	case variable.Numeric:
		return f.hasValue && other.hasValue && f.value == other.value
	case variable.Discretized:
		if f.stateIndex == other.stateIndex {
			return true
		}
		return f.hasValue && other.hasValue && f.value == other.value
	default:
		return f.stateIndex == other.stateIndex
	}
}

// String renders the finding as "Variable=state" or "Variable=value".
func (f Finding) String() string {
	if f.variable == nil {
		return "<none>"
	}
	if f.variable.Type() == variable.Numeric {
		return f.variable.Name() + "=" + strconv.FormatFloat(f.value, 'g', -1, 64)
	}
	s, err := f.State()
	if err != nil {
		return f.variable.Name() + "=?"
	}
	return f.variable.Name() + "=" + s.Name
}
