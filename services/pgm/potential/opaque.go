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
	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// TableProjector is implemented by opaque payloads that can be evaluated
// into a table once the evidence is known.
type TableProjector interface {
	ProjectTable(p *OpaquePotential, ev *evidence.Case) (*TablePotential, error)
}

// OpaquePotential wraps a potential family this package does not model
// (regression, hazard, tree...). The payload is treated as immutable and is
// shared between copies.
type OpaquePotential struct {
	family    string
	payload   any
	variables []*variable.Variable
	role      Role
	criterion *Criterion
}

// NewOpaquePotential creates an opaque potential of the named family.
func NewOpaquePotential(family string, payload any, vars []*variable.Variable, role Role, criterion *Criterion) *OpaquePotential {
	return &OpaquePotential{
		family:    family,
		payload:   payload,
		variables: append([]*variable.Variable(nil), vars...),
		role:      role,
		criterion: criterion,
	}
}

// Family returns the family name, e.g. "cox-hazard".
func (o *OpaquePotential) Family() string { return o.family }

// Payload returns the family-specific parameters.
func (o *OpaquePotential) Payload() any { return o.payload }

// Variables implements Potential.
func (o *OpaquePotential) Variables() []*variable.Variable { return o.variables }

// ConditionedVariable implements Potential.
func (o *OpaquePotential) ConditionedVariable() *variable.Variable {
	return conditionedVariable(o.variables, o.role, o.IsUtility())
}

// Role implements Potential.
func (o *OpaquePotential) Role() Role { return o.role }

// Criterion implements Potential.
func (o *OpaquePotential) Criterion() *Criterion { return o.criterion }

// IsUtility implements Potential.
func (o *OpaquePotential) IsUtility() bool { return o.criterion != nil }

// Kind implements Potential.
func (o *OpaquePotential) Kind() Kind { return KindOpaque }

// Combinator implements Potential.
func (o *OpaquePotential) Combinator() Combinator { return CombinatorNone }

// Project implements Potential.
//
// Errors:
//
//	ErrNonProjectable - the payload is not a TableProjector, or a numeric
//	variable is not fixed by ev.
func (o *OpaquePotential) Project(ev *evidence.Case, _ ProjectOptions, _ []*TablePotential) ([]*TablePotential, error) {
	for _, v := range o.variables {
		if !v.IsDiscrete() && !ev.Contains(v) {
			return nil, errorf(ErrNonProjectable, "numeric variable %q of %s is not observed", v.Name(), o)
		}
	}
	projector, ok := o.payload.(TableProjector)
	if !ok {
		return nil, errorf(ErrNonProjectable, "%s family has no table form", o.family)
	}
	t, err := projector.ProjectTable(o, ev)
	if err != nil {
		return nil, err
	}
	return []*TablePotential{t}, nil
}

// InducedFindings implements Potential. Opaque families never induce
// findings.
func (o *OpaquePotential) InducedFindings(*evidence.Case) ([]evidence.Finding, error) {
	return nil, nil
}

// Copy implements Potential.
func (o *OpaquePotential) Copy() Potential {
	return NewOpaquePotential(o.family, o.payload, o.variables, o.role, o.criterion)
}

// DeepCopy implements Potential.
func (o *OpaquePotential) DeepCopy(resolver VariableResolver) (Potential, error) {
	vars, err := resolveAll(o.variables, resolver)
	if err != nil {
		return nil, err
	}
	return NewOpaquePotential(o.family, o.payload, vars, o.role, o.criterion), nil
}

// ReplaceVariable implements Potential.
func (o *OpaquePotential) ReplaceVariable(old, replacement *variable.Variable) error {
	i := indexOf(o.variables, old)
	if i < 0 {
		return errorf(ErrVariableNotFound, "%q is not in %s", old.Name(), o)
	}
	o.variables[i] = replacement
	return nil
}

// String implements Potential.
func (o *OpaquePotential) String() string {
	return formatVariables(o.family, o.variables, o.role == RoleConditionalProbability)
}
