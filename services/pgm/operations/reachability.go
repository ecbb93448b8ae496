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

	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// RemoveUnreachableNodes deletes, in place, the nodes that are not
// reachable from the variables of interest given the observed variables,
// and returns how many were removed.
//
// Description:
//
//	Approximates d-separation with local rules over a keep set seeded with
//	the interest nodes and their neighbors. Each node popped from a
//	UniqueStack applies, in order:
//
//	  collider: if the node is observed or has an observed descendant and
//	    one of its parents is kept, all its parents are kept.
//	  evidence child: every child that is observed or has an observed
//	    descendant is kept.
//	  chain (not for observed nodes): a kept child keeps all parents and
//	    all children; a kept parent keeps all children.
//
//	A newly kept node is pushed together with its parents and children, so
//	every rule is re-checked whenever its premise may have changed. The keep
//	set only grows, so the result is the closure of the rules and does not
//	depend on the order nodes are visited in. It contains every node
//	d-connected to the interest nodes. When the stack is empty, every node
//	outside the keep set is deleted.
//
//	In undirected networks the keep set is the set of nodes connected to
//	the interest nodes by paths whose inner nodes are unobserved.
func RemoveUnreachableNodes(net *network.ProbNet, interest, observed []*variable.Variable) int {
	isObserved := variableSet(observed)

	var keep map[*network.Node]bool
	if net.Type().Directed() {
		keep = reachableDirected(net, interest, isObserved)
	} else {
		keep = reachableUndirected(net, interest, isObserved)
	}

	removed := 0
	for _, n := range net.Nodes() {
		if keep[n] {
			continue
		}
		if err := net.RemoveNode(n); err != nil {
			panic(fmt.Sprintf("operations: removing unreachable node %v: %v", n, err))
		}
		removed++
	}
	return removed
}

func reachableDirected(net *network.ProbNet, interest []*variable.Variable, isObserved map[*variable.Variable]bool) map[*network.Node]bool {
	keep := make(map[*network.Node]bool)
	explore := NewUniqueStack[*network.Node]()
	// A node joining the keep set can enable a rule at any of its
	// neighbors, so they are examined again.
	mark := func(n *network.Node) {
		if keep[n] {
			return
		}
		keep[n] = true
		explore.Push(n)
		for _, m := range n.Neighbors() {
			explore.Push(m)
		}
	}

	for _, n := range net.NodesOf(interest) {
		mark(n)
		for _, m := range n.Neighbors() {
			mark(m)
		}
	}

	towardEvidence := observedOrAncestor(net, isObserved)

	for !explore.IsEmpty() {
		n, _ := explore.Pop()
		if !keep[n] {
			continue
		}
		parents := n.Parents()
		children := n.Children()

		if towardEvidence[n] && anyKept(parents, keep) {
			for _, p := range parents {
				mark(p)
			}
		}

		for _, c := range children {
			if towardEvidence[c] {
				mark(c)
			}
		}

		if isObserved[n.Variable()] {
			continue
		}
		if anyKept(children, keep) {
			for _, p := range parents {
				mark(p)
			}
			for _, c := range children {
				mark(c)
			}
		}
		if anyKept(parents, keep) {
			for _, c := range children {
				mark(c)
			}
		}
	}
	return keep
}

func reachableUndirected(net *network.ProbNet, interest []*variable.Variable, isObserved map[*variable.Variable]bool) map[*network.Node]bool {
	keep := make(map[*network.Node]bool)
	explore := NewUniqueStack[*network.Node]()
	for _, n := range net.NodesOf(interest) {
		keep[n] = true
		explore.Push(n)
	}
	for !explore.IsEmpty() {
		n, _ := explore.Pop()
		for _, m := range n.Siblings() {
			if keep[m] {
				continue
			}
			keep[m] = true
			if !isObserved[m.Variable()] {
				explore.Push(m)
			}
		}
	}
	return keep
}

// observedOrAncestor marks the nodes that are observed or have an observed
// descendant.
func observedOrAncestor(net *network.ProbNet, isObserved map[*variable.Variable]bool) map[*network.Node]bool {
	marked := make(map[*network.Node]bool)
	var queue []*network.Node
	for _, n := range net.Nodes() {
		if isObserved[n.Variable()] {
			marked[n] = true
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range n.Parents() {
			if !marked[p] {
				marked[p] = true
				queue = append(queue, p)
			}
		}
	}
	return marked
}

func anyKept(nodes []*network.Node, keep map[*network.Node]bool) bool {
	for _, n := range nodes {
		if keep[n] {
			return true
		}
	}
	return false
}
