// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package potential provides factors (potentials) over discrete variables
// and the dense table algebra inference engines are built on.
//
// # Variants
//
// Potential is implemented by a closed set of variants, identified by Kind:
//
//   - TablePotential: a dense array over the product of the variables'
//     states, indexed with mixed-radix offsets.
//   - OpaquePotential: a potential from a family outside this package
//     (regression, hazard, decision tree...). It is projectable only when
//     its payload knows how to build a table.
//   - CombinatorPotential: the sum or product of utility parents of a
//     super-value node.
//
// # Table Layout
//
// For variables v0..vn-1 with cardinalities d0..dn-1 the offsets are
// offsets[0] = 1 and offsets[i] = offsets[i-1] * d[i-1]. The configuration
// (c0..cn-1) is stored at position sum(ci * offsets[i]); v0 varies fastest.
//
// # Thread Safety
//
// A table that is no longer mutated can be shared between goroutines
// without locks. Mutators (SetValue, SetValues, SetUniform, Scale) must
// complete before the table is shared. Frozen tables, like the
// ZeroProbability sentinel, panic on mutation.
package potential

import (
	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// Role tells how a potential participates in the model.
type Role int

const (
	// RoleUnspecified is used by utility and auxiliary potentials.
	RoleUnspecified Role = iota

	// RoleConditionalProbability is P(v0 | v1..vn-1).
	RoleConditionalProbability

	// RoleJointProbability is P(v0..vn-1).
	RoleJointProbability

	// RolePolicy is the decision rule of v0 given v1..vn-1.
	RolePolicy

	// RoleLinkRestriction marks compatible configurations of a link.
	RoleLinkRestriction
)

var roleNames = map[Role]string{
	RoleUnspecified:            "unspecified",
	RoleConditionalProbability: "conditional-probability",
	RoleJointProbability:       "joint-probability",
	RolePolicy:                 "policy",
	RoleLinkRestriction:        "link-restriction",
}

// String returns the string representation of the Role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Kind identifies the concrete variant behind a Potential.
type Kind int

const (
	KindTable Kind = iota
	KindOpaque
	KindCombinator
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindOpaque:
		return "opaque"
	case KindCombinator:
		return "combinator"
	default:
		return "unknown"
	}
}

// Combinator is how a super-value potential merges its utility parents.
type Combinator int

const (
	CombinatorNone Combinator = iota
	CombinatorSum
	CombinatorProduct
)

// String returns the string representation of the Combinator.
func (c Combinator) String() string {
	switch c {
	case CombinatorNone:
		return "none"
	case CombinatorSum:
		return "sum"
	case CombinatorProduct:
		return "product"
	default:
		return "unknown"
	}
}

// Criterion is a decision criterion (cost, effectiveness...). A potential
// with a criterion is a utility.
type Criterion struct {
	Name string
	Unit string
}

// ProjectOptions tunes projection.
type ProjectOptions struct {
	// DropUncertainty skips the uncertain-value array of tables.
	DropUncertainty bool
}

// VariableResolver finds a variable by name. Networks implement it.
type VariableResolver interface {
	Variable(name string) (*variable.Variable, error)
}

// Potential is the contract shared by every factor variant.
type Potential interface {
	// Variables returns the ordered variable list. Callers must not modify it.
	Variables() []*variable.Variable

	// ConditionedVariable returns variables[0] for conditional, policy and
	// utility potentials, nil otherwise.
	ConditionedVariable() *variable.Variable

	Role() Role
	Criterion() *Criterion
	IsUtility() bool
	Kind() Kind
	Combinator() Combinator

	// Project reduces the potential to tables under the evidence.
	// alreadyProjected holds the tables projected so far by the caller, for
	// families whose projection depends on other potentials.
	Project(ev *evidence.Case, opts ProjectOptions, alreadyProjected []*TablePotential) ([]*TablePotential, error)

	// InducedFindings returns the findings implied deterministically by ev.
	InducedFindings(ev *evidence.Case) ([]evidence.Finding, error)

	// Copy returns an independent potential over the same variables.
	Copy() Potential

	// DeepCopy returns a copy whose variables are resolved by name.
	DeepCopy(resolver VariableResolver) (Potential, error)

	// ReplaceVariable substitutes old with replacement in place.
	ReplaceVariable(old, replacement *variable.Variable) error

	String() string
}

// conditionedVariable implements Potential.ConditionedVariable for every
// variant.
func conditionedVariable(vars []*variable.Variable, role Role, utility bool) *variable.Variable {
	if len(vars) == 0 {
		return nil
	}
	switch {
	case utility, role == RoleConditionalProbability, role == RolePolicy:
		return vars[0]
	default:
		return nil
	}
}

// Contains reports whether v is one of p's variables.
func Contains(p Potential, v *variable.Variable) bool {
	return indexOf(p.Variables(), v) >= 0
}

func indexOf(vars []*variable.Variable, v *variable.Variable) int {
	for i, w := range vars {
		if w == v {
			return i
		}
	}
	return -1
}

func resolveAll(vars []*variable.Variable, resolver VariableResolver) ([]*variable.Variable, error) {
	out := make([]*variable.Variable, len(vars))
	for i, v := range vars {
		r, err := resolver.Variable(v.Name())
		if err != nil {
			return nil, errorf(ErrVariableNotFound, "%q: %w", v.Name(), err)
		}
		if r.NumStates() != v.NumStates() {
			return nil, errorf(ErrInvalidConfiguration, "%q resolves to a variable with %d states, expected %d",
				v.Name(), r.NumStates(), v.NumStates())
		}
		out[i] = r
	}
	return out, nil
}

func formatVariables(prefix string, vars []*variable.Variable, conditioned bool) string {
	s := prefix + "("
	for i, v := range vars {
		switch {
		case i == 0:
		case i == 1 && conditioned:
			s += " | "
		default:
			s += ", "
		}
		s += v.Name()
	}
	return s + ")"
}
