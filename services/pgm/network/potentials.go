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
	"slices"

	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// AddPotential attaches p to the network, creating nodes and links as
// needed.
//
// Description:
//
//	Every variable of p without a node gets one. Its type is copied from
//	source when source has a node for the variable; otherwise it is Chance,
//	except for the conditioned variable of a combinator potential (SVSum or
//	SVProduct) or of a utility potential (Utility).
//
//	A potential without variables becomes a constant potential of the
//	network. Otherwise it is attached to the node of its conditioned
//	variable, or of its first variable when it has none.
//
//	In directed networks a link from each other variable to the conditioned
//	variable is added when missing. In undirected networks every pair of
//	variables is joined by an undirected link when missing.
//
// Inputs:
//
//	p - The potential to add. Must not be nil.
//	source - Optional network the variables come from. May be nil.
//
// Errors:
//
//	ErrMaxNodesExceeded, ErrDuplicateNode - creating a missing node failed;
//	nodes already created for p are removed again
func (net *ProbNet) AddPotential(p potential.Potential, source *ProbNet) error {
	vars := p.Variables()
	if len(vars) == 0 {
		net.constants = append(net.constants, p)
		return nil
	}

	conditioned := p.ConditionedVariable()
	var added []*Node
	for _, v := range vars {
		if _, ok := net.nodesByVariable[v]; ok {
			continue
		}
		n, err := net.AddNode(v, inferNodeType(p, v, conditioned, source))
		if err != nil {
			// Nodes created for p have no links or potentials yet.
			for _, m := range added {
				_ = net.RemoveNode(m)
			}
			return fmt.Errorf("adding potential %s: %w", p, err)
		}
		added = append(added, n)
	}

	owner := vars[0]
	if conditioned != nil {
		owner = conditioned
	}
	ownerNode := net.nodesByVariable[owner]
	ownerNode.potentials = append(ownerNode.potentials, p)

	if net.netType.Directed() {
		if conditioned == nil {
			return nil
		}
		for _, v := range vars {
			if v == conditioned {
				continue
			}
			if err := net.ensureLink(net.nodesByVariable[v], ownerNode, true); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range vars {
		for j := i + 1; j < len(vars); j++ {
			if err := net.ensureLink(net.nodesByVariable[vars[i]], net.nodesByVariable[vars[j]], false); err != nil {
				return err
			}
		}
	}
	return nil
}

func inferNodeType(p potential.Potential, v, conditioned *variable.Variable, source *ProbNet) NodeType {
	if source != nil {
		if n, ok := source.nodesByVariable[v]; ok {
			return n.nodeType
		}
	}
	if v != conditioned {
		return Chance
	}
	switch {
	case p.Combinator() == potential.CombinatorSum:
		return SVSum
	case p.Combinator() == potential.CombinatorProduct:
		return SVProduct
	case p.IsUtility():
		return Utility
	default:
		return Chance
	}
}

func (net *ProbNet) ensureLink(from, to *Node, directed bool) error {
	if net.Link(from, to, directed) != nil {
		return nil
	}
	_, err := net.AddLink(from, to, directed)
	return err
}

// RemovePotential detaches p and reports whether it was found.
//
// Description:
//
//	The nodes of p's variables are searched first (every node when p has
//	no variables) and the first reference to p is removed. When no node
//	holds it, p is removed from the constant potentials.
func (net *ProbNet) RemovePotential(p potential.Potential) bool {
	candidates := net.nodes
	if vars := p.Variables(); len(vars) > 0 {
		candidates = net.NodesOf(vars)
	}
	for _, n := range candidates {
		if idx := slices.Index(n.potentials, p); idx >= 0 {
			n.potentials = slices.Delete(n.potentials, idx, idx+1)
			return true
		}
	}
	if idx := slices.Index(net.constants, p); idx >= 0 {
		net.constants = slices.Delete(net.constants, idx, idx+1)
		return true
	}
	return false
}

// SetPotentials replaces the potentials of n without touching links.
func (net *ProbNet) SetPotentials(n *Node, ps ...potential.Potential) error {
	if !net.owns(n) {
		return fmt.Errorf("%w: %v", ErrNodeNotFound, n)
	}
	n.potentials = slices.Clone(ps)
	return nil
}

// Potentials returns every potential, node by node in insertion order,
// followed by the constant potentials.
func (net *ProbNet) Potentials() []potential.Potential {
	var out []potential.Potential
	for _, n := range net.nodes {
		out = append(out, n.potentials...)
	}
	return append(out, net.constants...)
}

// PotentialsOf returns the potentials that mention v.
func (net *ProbNet) PotentialsOf(v *variable.Variable) []potential.Potential {
	var out []potential.Potential
	for _, p := range net.Potentials() {
		if potential.Contains(p, v) {
			out = append(out, p)
		}
	}
	return out
}

// UtilityPotentials returns the potentials that carry a criterion, or every
// utility potential when criterion is nil.
func (net *ProbNet) UtilityPotentials(criterion *potential.Criterion) []potential.Potential {
	var out []potential.Potential
	for _, p := range net.Potentials() {
		if !p.IsUtility() {
			continue
		}
		if criterion == nil || p.Criterion() == criterion {
			out = append(out, p)
		}
	}
	return out
}

// ConstantPotentials returns the potentials without variables.
func (net *ProbNet) ConstantPotentials() []potential.Potential {
	return slices.Clone(net.constants)
}
