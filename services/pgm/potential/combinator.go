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

// CombinatorPotential is the potential of a super-value node: the sum or
// product of the utilities of its parents. It has no table of its own.
type CombinatorPotential struct {
	variables  []*variable.Variable
	combinator Combinator
	criterion  *Criterion
}

// NewCombinatorPotential creates the potential of the super-value node
// whose variable is utility, combining parents.
//
// Errors:
//
//	ErrInvalidConfiguration - c is CombinatorNone, or utility is nil.
func NewCombinatorPotential(utility *variable.Variable, parents []*variable.Variable, c Combinator, criterion *Criterion) (*CombinatorPotential, error) {
	if c != CombinatorSum && c != CombinatorProduct {
		return nil, errorf(ErrInvalidConfiguration, "combinator %s", c)
	}
	if utility == nil {
		return nil, errorf(ErrInvalidConfiguration, "nil utility variable")
	}
	vars := make([]*variable.Variable, 0, len(parents)+1)
	vars = append(vars, utility)
	vars = append(vars, parents...)
	return &CombinatorPotential{variables: vars, combinator: c, criterion: criterion}, nil
}

// Variables implements Potential.
func (c *CombinatorPotential) Variables() []*variable.Variable { return c.variables }

// ConditionedVariable implements Potential.
func (c *CombinatorPotential) ConditionedVariable() *variable.Variable { return c.variables[0] }

// Role implements Potential.
func (c *CombinatorPotential) Role() Role { return RoleUnspecified }

// Criterion implements Potential.
func (c *CombinatorPotential) Criterion() *Criterion { return c.criterion }

// IsUtility implements Potential. A combinator is always a utility.
func (c *CombinatorPotential) IsUtility() bool { return true }

// Kind implements Potential.
func (c *CombinatorPotential) Kind() Kind { return KindCombinator }

// Combinator implements Potential.
func (c *CombinatorPotential) Combinator() Combinator { return c.combinator }

// Project implements Potential. Combinators are resolved by the inference
// engine from the parents' tables, so they always fail with
// ErrNonProjectable.
func (c *CombinatorPotential) Project(*evidence.Case, ProjectOptions, []*TablePotential) ([]*TablePotential, error) {
	return nil, errorf(ErrNonProjectable, "%s", c)
}

// InducedFindings implements Potential.
func (c *CombinatorPotential) InducedFindings(*evidence.Case) ([]evidence.Finding, error) {
	return nil, nil
}

// Copy implements Potential.
func (c *CombinatorPotential) Copy() Potential {
	return &CombinatorPotential{
		variables:  append([]*variable.Variable(nil), c.variables...),
		combinator: c.combinator,
		criterion:  c.criterion,
	}
}

// DeepCopy implements Potential.
func (c *CombinatorPotential) DeepCopy(resolver VariableResolver) (Potential, error) {
	vars, err := resolveAll(c.variables, resolver)
	if err != nil {
		return nil, err
	}
	return &CombinatorPotential{variables: vars, combinator: c.combinator, criterion: c.criterion}, nil
}

// ReplaceVariable implements Potential.
func (c *CombinatorPotential) ReplaceVariable(old, replacement *variable.Variable) error {
	i := indexOf(c.variables, old)
	if i < 0 {
		return errorf(ErrVariableNotFound, "%q is not in %s", old.Name(), c)
	}
	c.variables[i] = replacement
	return nil
}

// String implements Potential, e.g. "Sum(Total | Cost, Benefit)".
func (c *CombinatorPotential) String() string {
	prefix := "Sum"
	if c.combinator == CombinatorProduct {
		prefix = "Product"
	}
	return formatVariables(prefix, c.variables, true)
}
