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
	"fmt"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// ConvertNumericalVariablesToFiniteStates returns a copy of net in which
// every discretized variable is replaced by a finite-states variable with
// the same states, together with ev rewritten for the copy.
//
// Description:
//
//	Potentials and link restrictions that mention a converted variable are
//	copied and re-pointed; the others stay shared with net. Findings on a
//	converted variable become state findings on its replacement, keeping the
//	state index. Purely numeric variables are left as they are. Neither net
//	nor ev is modified.
//
// Errors:
//
//	potential.ErrInvalidConfiguration, ErrVariableNotFound - a potential
//	rejected the replacement variable.
func ConvertNumericalVariablesToFiniteStates(net *network.ProbNet, ev *evidence.Case) (*network.ProbNet, *evidence.Case, error) {
	out := net.Copy()

	replaced := make(map[*variable.Variable]*variable.Variable)
	for _, v := range out.Variables() {
		if v.Type() != variable.Discretized {
			continue
		}
		fs, err := v.CloneAs(variable.FiniteStates)
		if err != nil {
			return nil, nil, err
		}
		replaced[v] = fs
	}
	if len(replaced) == 0 {
		return out, ev.Copy(), nil
	}

	for old, fs := range replaced {
		if err := out.ReplaceVariable(old, fs); err != nil {
			panic(fmt.Sprintf("operations: rebinding %s in a fresh copy: %v", old.Name(), err))
		}
	}

	for _, n := range out.Nodes() {
		ps := n.Potentials()
		changed := false
		for i, p := range ps {
			c, ok, err := repoint(p, replaced)
			if err != nil {
				return nil, nil, err
			}
			if ok {
				ps[i] = c
				changed = true
			}
		}
		if changed {
			if err := out.SetPotentials(n, ps...); err != nil {
				return nil, nil, err
			}
		}
	}

	for _, l := range out.Links() {
		if l.Restriction == nil {
			continue
		}
		c, ok, err := repoint(l.Restriction, replaced)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			l.Restriction = c.(*potential.TablePotential)
		}
	}

	converted := evidence.NewCase()
	for _, f := range ev.Findings() {
		fs, ok := replaced[f.Variable()]
		if !ok {
			converted.ChangeFinding(f)
			continue
		}
		nf, err := evidence.NewStateFinding(fs, f.StateIndex())
		if err != nil {
			return nil, nil, err
		}
		converted.ChangeFinding(nf)
	}
	return out, converted, nil
}

// repoint returns a copy of p with replaced variables substituted, and
// whether p mentioned any of them.
func repoint(p potential.Potential, replaced map[*variable.Variable]*variable.Variable) (potential.Potential, bool, error) {
	var c potential.Potential
	for _, v := range p.Variables() {
		fs, ok := replaced[v]
		if !ok {
			continue
		}
		if c == nil {
			c = p.Copy()
		}
		if err := c.ReplaceVariable(v, fs); err != nil {
			return nil, false, fmt.Errorf("converting %s: %w", v.Name(), err)
		}
	}
	return c, c != nil, nil
}

// UnicriterionName is the name of the criterion produced by
// ConvertToUnicriterion.
const UnicriterionName = "unicriterion"

// ConvertToUnicriterion returns a copy of net whose utilities all use a
// single criterion.
//
// Description:
//
//	Every utility table is copied and multiplied by the scale of its
//	criterion; super-value combinators are re-created under the new
//	criterion. The copy declares only the unified criterion.
//
// Inputs:
//
//	net - The decision network.
//	scales - Multiplier per criterion name, e.g. {"cost": -1, "qaly": 30000}.
//
// Errors:
//
//	potential.ErrWrongCriterion - a declared criterion has no scale, or a
//	utility refers to an undeclared criterion
//	potential.ErrNonProjectable - an opaque utility cannot be rescaled
func ConvertToUnicriterion(net *network.ProbNet, scales map[string]float64) (*network.ProbNet, error) {
	for _, c := range net.Criteria() {
		if _, ok := scales[c.Name]; !ok {
			return nil, fmt.Errorf("%w: no scale for criterion %q", potential.ErrWrongCriterion, c.Name)
		}
	}

	unified := &potential.Criterion{Name: UnicriterionName}
	out := net.Copy()
	for _, n := range out.Nodes() {
		ps := n.Potentials()
		changed := false
		for i, p := range ps {
			if !p.IsUtility() {
				continue
			}
			c, err := rescale(net, p, scales, unified)
			if err != nil {
				return nil, err
			}
			ps[i] = c
			changed = true
		}
		if changed {
			if err := out.SetPotentials(n, ps...); err != nil {
				return nil, err
			}
		}
	}
	out.SetCriteria(unified)
	return out, nil
}

func rescale(net *network.ProbNet, p potential.Potential, scales map[string]float64, unified *potential.Criterion) (potential.Potential, error) {
	switch p.Kind() {
	case potential.KindCombinator:
		vars := p.Variables()
		return potential.NewCombinatorPotential(vars[0], vars[1:], p.Combinator(), unified)
	case potential.KindTable:
		crit := p.Criterion()
		if crit == nil {
			return nil, fmt.Errorf("%w: %s has no criterion", potential.ErrWrongCriterion, p)
		}
		if declared, ok := net.Criterion(crit.Name); !ok || declared != crit {
			return nil, fmt.Errorf("%w: %s uses undeclared criterion %q", potential.ErrWrongCriterion, p, crit.Name)
		}
		scale, ok := scales[crit.Name]
		if !ok {
			return nil, fmt.Errorf("%w: no scale for criterion %q", potential.ErrWrongCriterion, crit.Name)
		}
		t := p.Copy().(*potential.TablePotential)
		t.Scale(scale)
		t.SetCriterion(unified)
		return t, nil
	default:
		return nil, fmt.Errorf("%w: cannot rescale %s utility %s", potential.ErrNonProjectable, p.Kind(), p)
	}
}
