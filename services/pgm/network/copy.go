// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package network

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// Copy creates a structural copy of the network.
//
// Description:
//
//	Creates an independent graph that can be pruned without affecting the
//	original. Used by every operation that must not mutate its input.
//
// Behavior:
//
//   - Nodes are new structs over the same variables
//   - Potentials, criteria and link restrictions are shared
//   - Each node's property map is cloned, so SetProperty on a copy never
//     leaks into the original or into other nodes
//   - Links are rebuilt between the cloned nodes
//   - The copy gets a fresh ID
func (net *ProbNet) Copy() *ProbNet {
	clone, mapping := net.cloneNodes(func(v *variable.Variable) *variable.Variable { return v })
	for _, n := range net.nodes {
		mapping[n].potentials = slices.Clone(n.potentials)
	}
	clone.constants = slices.Clone(net.constants)
	for _, l := range net.links {
		clone.attach(&Link{
			From:            mapping[l.From],
			To:              mapping[l.To],
			Directed:        l.Directed,
			Restriction:     l.Restriction,
			RevealingStates: slices.Clone(l.RevealingStates),
		})
	}
	return clone
}

// DeepCopy creates a copy that shares nothing mutable with the original.
//
// Description:
//
//	Variables are cloned and every potential, including link restrictions,
//	is deep copied with the clone as resolver, so the copy's potentials
//	refer only to the copy's variables.
//
// Errors:
//
//	potential.ErrVariableNotFound - a potential mentions a variable without
//	a node in the network.
func (net *ProbNet) DeepCopy() (*ProbNet, error) {
	clone, mapping := net.cloneNodes(func(v *variable.Variable) *variable.Variable { return v.Clone() })

	deep := func(p potential.Potential) (potential.Potential, error) {
		c, err := p.DeepCopy(clone)
		if err != nil {
			return nil, fmt.Errorf("deep copy of %s: %w", p, err)
		}
		return c, nil
	}

	for _, n := range net.nodes {
		target := mapping[n]
		for _, p := range n.potentials {
			c, err := deep(p)
			if err != nil {
				return nil, err
			}
			target.potentials = append(target.potentials, c)
		}
	}
	for _, p := range net.constants {
		c, err := deep(p)
		if err != nil {
			return nil, err
		}
		clone.constants = append(clone.constants, c)
	}
	for _, l := range net.links {
		cl := &Link{
			From:            mapping[l.From],
			To:              mapping[l.To],
			Directed:        l.Directed,
			RevealingStates: slices.Clone(l.RevealingStates),
		}
		if l.Restriction != nil {
			r, err := deep(l.Restriction)
			if err != nil {
				return nil, err
			}
			cl.Restriction = r.(*potential.TablePotential)
		}
		clone.attach(cl)
	}
	return clone, nil
}

// cloneNodes builds an empty copy of net holding one new node per node,
// over the variables returned by mapVar.
func (net *ProbNet) cloneNodes(mapVar func(*variable.Variable) *variable.Variable) (*ProbNet, map[*Node]*Node) {
	clone := &ProbNet{
		id:              uuid.New(),
		name:            net.name,
		netType:         net.netType,
		nodes:           make([]*Node, 0, len(net.nodes)),
		nodesByVariable: make(map[*variable.Variable]*Node, len(net.nodes)),
		nodesByName:     make(map[string]*Node, len(net.nodes)),
		criteria:        slices.Clone(net.criteria),
		options:         net.options,
	}
	mapping := make(map[*Node]*Node, len(net.nodes))
	for _, n := range net.nodes {
		v := mapVar(n.variable)
		cn := &Node{
			variable:   v,
			nodeType:   n.nodeType,
			properties: maps.Clone(n.properties),
		}
		clone.nodes = append(clone.nodes, cn)
		clone.nodesByVariable[v] = cn
		clone.nodesByName[v.Name()] = cn
		clone.nodesByType[cn.nodeType] = append(clone.nodesByType[cn.nodeType], cn)
		mapping[n] = cn
	}
	return clone, mapping
}
