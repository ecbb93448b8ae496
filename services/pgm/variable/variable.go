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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoTimeSlice marks a variable that does not belong to a temporal model.
const NoTimeSlice = -1

// Type is the kind of domain a variable ranges over.
type Type int

const (
	// FiniteStates variables range over an ordered list of named states.
	FiniteStates Type = iota

	// Numeric variables range over a real interval and have no states.
	Numeric

	// Discretized variables range over a real interval partitioned into
	// subintervals; subinterval i is state i.
	Discretized
)

var typeNames = map[Type]string{
	FiniteStates: "finite-states",
	Numeric:      "numeric",
	Discretized:  "discretized",
}

// String returns the string representation of the Type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// State is a named value of a discrete variable. States compare by name.
type State struct {
	Name string
}

// String returns the state name.
func (s State) String() string { return s.Name }

// temporalName matches "base [slice]".
var temporalName = regexp.MustCompile(`^(.*\S)\s*\[(\d+)\]$`)

// Variable describes a quantity of the model.
//
// Variables are compared by pointer identity; see the package documentation.
type Variable struct {
	name      string
	baseName  string
	timeSlice int
	varType   Type
	states    []State
	interval  *PartitionedInterval
	precision float64
	unit      string
}

// Option configures a Variable at construction time.
type Option func(*Variable)

// WithUnit sets the unit of measure of a numeric or discretized variable.
func WithUnit(unit string) Option {
	return func(v *Variable) { v.unit = unit }
}

// WithPrecision sets the precision used when entering numeric findings.
func WithPrecision(precision float64) Option {
	return func(v *Variable) { v.precision = precision }
}

// NewFiniteStates creates a finite-states variable.
//
// Description:
//
//	The name may carry a time slice suffix ("Rain [2]"); the base name and the
//	slice are derived from it.
//
// Errors:
//
//	ErrMalformedConfiguration - no states, an empty state name, or duplicated
//	state names.
func NewFiniteStates(name string, stateNames []string, opts ...Option) (*Variable, error) {
	states, err := buildStates(stateNames)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	v := newVariable(name, FiniteStates, opts...)
	v.states = states
	return v, nil
}

// NewNumeric creates a continuous variable over the given domain.
func NewNumeric(name string, domain *PartitionedInterval, opts ...Option) (*Variable, error) {
	if domain == nil {
		return nil, fmt.Errorf("%w: numeric variable %q needs a domain", ErrMalformedConfiguration, name)
	}
	v := newVariable(name, Numeric, opts...)
	v.interval = domain
	return v, nil
}

// NewDiscretized creates a variable whose domain is split into subintervals,
// one state per subinterval.
//
// Errors:
//
//	ErrMalformedConfiguration - the number of states differs from the number
//	of subintervals, or the state names are invalid.
func NewDiscretized(name string, stateNames []string, partition *PartitionedInterval, opts ...Option) (*Variable, error) {
	if partition == nil {
		return nil, fmt.Errorf("%w: discretized variable %q needs a partition", ErrMalformedConfiguration, name)
	}
	if len(stateNames) != partition.NumSubintervals() {
		return nil, fmt.Errorf("%w: variable %q has %d states but %d subintervals",
			ErrMalformedConfiguration, name, len(stateNames), partition.NumSubintervals())
	}
	states, err := buildStates(stateNames)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	v := newVariable(name, Discretized, opts...)
	v.states = states
	v.interval = partition
	return v, nil
}

func newVariable(name string, t Type, opts ...Option) *Variable {
	v := &Variable{
		name:      name,
		baseName:  name,
		timeSlice: NoTimeSlice,
		varType:   t,
	}
	if m := temporalName.FindStringSubmatch(name); m != nil {
		if slice, err := strconv.Atoi(m[2]); err == nil {
			v.baseName = m[1]
			v.timeSlice = slice
		}
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func buildStates(names []string) ([]State, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no states", ErrMalformedConfiguration)
	}
	seen := make(map[string]bool, len(names))
	states := make([]State, len(names))
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("%w: state %d has an empty name", ErrMalformedConfiguration, i)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: duplicated state %q", ErrMalformedConfiguration, n)
		}
		seen[n] = true
		states[i] = State{Name: n}
	}
	return states, nil
}

// Name returns the full name, including the time slice suffix if any.
func (v *Variable) Name() string { return v.name }

// BaseName returns the name without the time slice suffix.
func (v *Variable) BaseName() string { return v.baseName }

// TimeSlice returns the slice of a temporal variable or NoTimeSlice.
func (v *Variable) TimeSlice() int { return v.timeSlice }

// IsTemporal reports whether the variable belongs to a time slice.
func (v *Variable) IsTemporal() bool { return v.timeSlice != NoTimeSlice }

// Type returns the domain kind.
func (v *Variable) Type() Type { return v.varType }

// IsDiscrete reports whether the variable has states, i.e. can index a table.
func (v *Variable) IsDiscrete() bool { return v.varType != Numeric }

// Unit returns the unit of measure.
func (v *Variable) Unit() string { return v.unit }

// Precision returns the precision of numeric findings.
func (v *Variable) Precision() float64 { return v.precision }

// Interval returns the domain partition of a numeric or discretized
// variable, nil for finite-states variables.
func (v *Variable) Interval() *PartitionedInterval { return v.interval }

// NumStates returns the cardinality; 0 for numeric variables.
func (v *Variable) NumStates() int { return len(v.states) }

// States returns a copy of the states.
func (v *Variable) States() []State {
	out := make([]State, len(v.states))
	copy(out, v.states)
	return out
}

// StateNames returns the state names in order.
func (v *Variable) StateNames() []string {
	out := make([]string, len(v.states))
	for i, s := range v.states {
		out[i] = s.Name
	}
	return out
}

// State returns the state at index i.
func (v *Variable) State(i int) (State, error) {
	if i < 0 || i >= len(v.states) {
		return State{}, fmt.Errorf("%w: index %d for %q with %d states", ErrInvalidState, i, v.name, len(v.states))
	}
	return v.states[i], nil
}

// StateIndex returns the index of the named state.
func (v *Variable) StateIndex(name string) (int, error) {
	for i, s := range v.states {
		if s.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q is not a state of %q", ErrInvalidState, name, v.name)
}

// StateIndexForValue maps a numeric value to the state of a discretized
// variable.
func (v *Variable) StateIndexForValue(value float64) (int, error) {
	if v.varType != Discretized {
		return -1, fmt.Errorf("%w: %q is %s, not discretized", ErrInvalidState, v.name, v.varType)
	}
	idx, err := v.interval.IndexOf(value)
	if err != nil {
		return -1, fmt.Errorf("variable %q: %w", v.name, err)
	}
	return idx, nil
}

// Clone returns an independent copy with the same attributes.
func (v *Variable) Clone() *Variable {
	c := *v
	c.states = v.States()
	return &c
}

// CloneAs returns a copy of v converted to another domain kind. It is used
// when a discretized variable is re-typed as finite-states.
func (v *Variable) CloneAs(t Type) (*Variable, error) {
	if t != Numeric && len(v.states) == 0 {
		return nil, fmt.Errorf("%w: %q has no states to become %s", ErrMalformedConfiguration, v.name, t)
	}
	c := v.Clone()
	c.varType = t
	if t == FiniteStates {
		c.interval = nil
	}
	return c, nil
}

// ShiftInTime returns a clone whose time slice is moved by shift. The name is
// rebuilt from the base name.
//
// Errors:
//
//	ErrMalformedConfiguration - v is not temporal or the shifted slice is
//	negative.
func (v *Variable) ShiftInTime(shift int) (*Variable, error) {
	if !v.IsTemporal() {
		return nil, fmt.Errorf("%w: %q is not temporal", ErrMalformedConfiguration, v.name)
	}
	slice := v.timeSlice + shift
	if slice < 0 {
		return nil, fmt.Errorf("%w: %q shifted by %d reaches slice %d", ErrMalformedConfiguration, v.name, shift, slice)
	}
	c := v.Clone()
	c.timeSlice = slice
	c.name = TemporalName(v.baseName, slice)
	return c, nil
}

// TemporalName builds the "base [slice]" name of a temporal variable.
func TemporalName(base string, slice int) string {
	return base + " [" + strconv.Itoa(slice) + "]"
}

// String returns a readable description, e.g. "Smoker{yes,no}".
func (v *Variable) String() string {
	switch v.varType {
	case Numeric:
		return v.name + v.interval.String()
	default:
		return v.name + "{" + strings.Join(v.StateNames(), ",") + "}"
	}
}
