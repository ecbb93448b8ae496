// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package evidence holds observations (findings) over the variables of a
// network and the deterministic propagation that extends them.
//
// # Thread Safety
//
// Case is NOT safe for concurrent mutation. A Case that is no longer
// modified can be read (Finding, Contains, Findings) from multiple
// goroutines, which is how concurrent projections use it.
package evidence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// Inducer derives the findings that are implied deterministically by the
// findings of a case. Potentials implement it.
type Inducer interface {
	InducedFindings(ev *Case) ([]Finding, error)
}

// Source provides the potentials touching a variable. Networks implement
// it; only network types with deterministic-induction semantics report
// PropagatesDeterministicEvidence.
type Source interface {
	PropagatesDeterministicEvidence() bool
	InducersOf(v *variable.Variable) []Inducer
}

// Case is a set of findings keyed by variable. Insertion order is not
// significant; Findings returns them sorted by variable name.
type Case struct {
	findings map[*variable.Variable]Finding
}

// NewCase creates an empty evidence case.
func NewCase() *Case {
	return &Case{findings: make(map[*variable.Variable]Finding)}
}

// NewCaseWith creates a case holding the given findings.
//
// Errors:
//
//	ErrIncompatibleEvidence - two findings disagree on the same variable.
func NewCaseWith(findings ...Finding) (*Case, error) {
	c := NewCase()
	if err := c.AddFindings(findings...); err != nil {
		return nil, err
	}
	return c, nil
}

// AddFinding inserts f unless the variable is already observed.
//
// Description:
//
//	Re-adding a finding that agrees with the recorded one is a no-op.
//	Agreement follows Finding.Compatible.
//
// Errors:
//
//	ErrInvalidFinding - f is the zero Finding.
//	ErrIncompatibleEvidence - the variable is observed with another value.
func (c *Case) AddFinding(f Finding) error {
	if f.IsZero() {
		return fmt.Errorf("%w: zero finding", ErrInvalidFinding)
	}
	if existing, ok := c.findings[f.variable]; ok {
		if !existing.Compatible(f) {
			return fmt.Errorf("%w: %s conflicts with %s", ErrIncompatibleEvidence, f, existing)
		}
		return nil
	}
	c.findings[f.variable] = f
	return nil
}

// AddFindings adds each finding in order, stopping at the first error.
func (c *Case) AddFindings(findings ...Finding) error {
	for _, f := range findings {
		if err := c.AddFinding(f); err != nil {
			return err
		}
	}
	return nil
}

// ChangeFinding replaces any finding for f's variable with f.
func (c *Case) ChangeFinding(f Finding) {
	if f.IsZero() {
		return
	}
	delete(c.findings, f.variable)
	c.findings[f.variable] = f
}

// RemoveFinding drops the finding of v and reports whether there was one.
func (c *Case) RemoveFinding(v *variable.Variable) bool {
	if _, ok := c.findings[v]; !ok {
		return false
	}
	delete(c.findings, v)
	return true
}

// Finding returns the finding recorded for v.
func (c *Case) Finding(v *variable.Variable) (Finding, bool) {
	if c == nil {
		return Finding{}, false
	}
	f, ok := c.findings[v]
	return f, ok
}

// Contains reports whether v is observed.
func (c *Case) Contains(v *variable.Variable) bool {
	if c == nil {
		return false
	}
	_, ok := c.findings[v]
	return ok
}

// Len returns the number of findings.
func (c *Case) Len() int {
	if c == nil {
		return 0
	}
	return len(c.findings)
}

// IsEmpty reports whether the case has no findings.
func (c *Case) IsEmpty() bool { return c.Len() == 0 }

// Findings returns the findings sorted by variable name.
func (c *Case) Findings() []Finding {
	if c == nil {
		return nil
	}
	out := make([]Finding, 0, len(c.findings))
	for _, f := range c.findings {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].variable.Name() < out[j].variable.Name()
	})
	return out
}

// Variables returns the observed variables sorted by name.
func (c *Case) Variables() []*variable.Variable {
	findings := c.Findings()
	out := make([]*variable.Variable, len(findings))
	for i, f := range findings {
		out[i] = f.variable
	}
	return out
}

// Copy returns an independent case with the same findings.
func (c *Case) Copy() *Case {
	out := NewCase()
	if c == nil {
		return out
	}
	for v, f := range c.findings {
		out.findings[v] = f
	}
	return out
}

// Fuse merges other into c.
//
// Description:
//
//	Findings for unobserved variables are added. For observed variables the
//	existing finding is kept, unless overwrite is set, in which case the
//	incoming finding replaces it through ChangeFinding. Conflicts are never
//	reported: a conflicting finding that is not overwritten is skipped.
func (c *Case) Fuse(other *Case, overwrite bool) {
	if other == nil {
		return
	}
	for _, f := range other.Findings() {
		if _, observed := c.findings[f.variable]; !observed {
			c.findings[f.variable] = f
			continue
		}
		if overwrite {
			c.ChangeFinding(f)
		}
	}
}

// Extend adds every finding implied deterministically by the current ones.
//
// Description:
//
//	Worklist fixed point. The queue is seeded with the current findings. For
//	each popped finding, every inducer touching its variable is asked for
//	induced findings; each one not already present is added to the case and
//	queued. Terminates when the queue is empty. It is a no-op when src does
//	not propagate deterministic evidence.
//
// Outputs:
//
//	[]Finding - the findings added, in discovery order.
//	error - ErrIncompatibleEvidence when an induced finding contradicts the
//	case or an inducer detects zero-probability evidence.
func (c *Case) Extend(src Source) ([]Finding, error) {
	if src == nil || !src.PropagatesDeterministicEvidence() {
		return nil, nil
	}

	queue := c.Findings()
	var added []Finding
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		for _, inducer := range src.InducersOf(f.variable) {
			induced, err := inducer.InducedFindings(c)
			if err != nil {
				return added, err
			}
			for _, nf := range induced {
				if c.Contains(nf.variable) {
					if err := c.AddFinding(nf); err != nil {
						return added, err
					}
					continue
				}
				c.findings[nf.variable] = nf
				added = append(added, nf)
				queue = append(queue, nf)
			}
		}
	}
	return added, nil
}

// String renders the case as "{A=a, B=b}".
func (c *Case) String() string {
	findings := c.Findings()
	parts := make([]string, len(findings))
	for i, f := range findings {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
