// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog builds the example networks used by the pgm command and
// by tests across the module.
//
// Networks are built in code; there is no file format. Every call to Build
// returns a fresh network that the caller owns.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// ErrUnknownNetwork is returned by Build for a name that is not registered.
var ErrUnknownNetwork = errors.New("unknown network")

// Entry describes a registered network.
type Entry struct {
	Name        string
	Description string
	Build       func() (*network.ProbNet, error)
}

var entries = map[string]Entry{
	"asia": {
		Name:        "asia",
		Description: "Chest clinic Bayesian network (Lauritzen and Spiegelhalter)",
		Build:       Asia,
	},
	"chain": {
		Name:        "chain",
		Description: "Bayesian network whose links copy the parent state",
		Build:       DeterministicChain,
	},
	"treatment": {
		Name:        "treatment",
		Description: "Influence diagram with cost and effectiveness criteria",
		Build:       Treatment,
	},
	"age-risk": {
		Name:        "age-risk",
		Description: "Bayesian network with a discretized age variable",
		Build:       AgeRisk,
	},
	"loop": {
		Name:        "loop",
		Description: "Markov network over a four node cycle",
		Build:       MarkovLoop,
	},
}

// Names returns the registered network names in order.
func Names() []string {
	return slices.Sorted(maps.Keys(entries))
}

// Entries returns the registered networks ordered by name.
func Entries() []Entry {
	out := make([]Entry, 0, len(entries))
	for _, name := range Names() {
		out = append(out, entries[name])
	}
	return out
}

// Build returns a new instance of the named network.
//
// Errors:
//
//	ErrUnknownNetwork - name is not registered
func Build(name string) (*network.ProbNet, error) {
	e, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownNetwork, name, Names())
	}
	return e.Build()
}

// builder accumulates the first error so network definitions read as a
// flat list of statements.
type builder struct {
	net *network.ProbNet
	err error
}

func newBuilder(t network.NetworkType, opts ...network.Option) *builder {
	return &builder{net: network.New(t, opts...)}
}

func (b *builder) finite(name string, states ...string) *variable.Variable {
	if b.err != nil {
		return nil
	}
	v, err := variable.NewFiniteStates(name, states)
	b.err = err
	return v
}

func (b *builder) discretized(name string, states []string, limits []float64, unit string) *variable.Variable {
	if b.err != nil {
		return nil
	}
	sides := make([]bool, len(limits))
	for i := 1; i < len(sides); i++ {
		sides[i] = true
	}
	partition, err := variable.NewPartitionedInterval(limits, sides)
	if err != nil {
		b.err = err
		return nil
	}
	v, err := variable.NewDiscretized(name, states, partition, variable.WithUnit(unit))
	b.err = err
	return v
}

func (b *builder) node(v *variable.Variable, t network.NodeType) *network.Node {
	if b.err != nil {
		return nil
	}
	n, err := b.net.AddNode(v, t)
	b.err = err
	return n
}

func (b *builder) table(role potential.Role, values []float64, vars []*variable.Variable, opts ...potential.TableOption) *potential.TablePotential {
	if b.err != nil {
		return nil
	}
	p, err := potential.NewTablePotential(vars, role, append(opts, potential.WithValues(values...))...)
	if err != nil {
		b.err = err
		return nil
	}
	return p
}

// cpt adds P(vars[0] | vars[1:]). values run over vars[0] fastest.
func (b *builder) cpt(values []float64, vars ...*variable.Variable) {
	b.add(b.table(potential.RoleConditionalProbability, values, vars))
}

func (b *builder) joint(values []float64, vars ...*variable.Variable) {
	b.add(b.table(potential.RoleJointProbability, values, vars))
}

func (b *builder) utility(c *potential.Criterion, values []float64, vars ...*variable.Variable) {
	b.add(b.table(potential.RoleUnspecified, values, vars, potential.WithCriterion(c)))
}

func (b *builder) add(p potential.Potential) {
	if b.err != nil {
		return
	}
	b.err = b.net.AddPotential(p, b.net)
}

func (b *builder) link(from, to *variable.Variable) *network.Link {
	if b.err != nil {
		return nil
	}
	fn, ok1 := b.net.Node(from)
	tn, ok2 := b.net.Node(to)
	if !ok1 || !ok2 {
		b.err = fmt.Errorf("%w: linking %s to %s", network.ErrNodeNotFound, from.Name(), to.Name())
		return nil
	}
	l, err := b.net.AddLink(fn, tn, true)
	b.err = err
	return l
}

func (b *builder) done() (*network.ProbNet, error) {
	if b.err != nil {
		return nil, fmt.Errorf("building %s: %w", b.net.Name(), b.err)
	}
	return b.net, nil
}
