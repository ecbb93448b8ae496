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

// RemoveBarrenNodes deletes, in place, the nodes that cannot influence the
// variables of interest or the evidence, and returns how many were removed.
//
// Description:
//
//	A node is barren when it has no children and its variable is neither of
//	interest nor observed. Each round seeds the barren set with such leaves,
//	then promotes parents that are not protected, have more than one child
//	and whose children are all barren. A single-child parent is never
//	promoted within a round. The barren set is deleted and the next round
//	starts from the new leaves, until a round finds nothing.
//
//	For A->B->C, D->C with interest {B}: round one removes C, round two
//	removes D, and A survives as the parent of B.
//
//	Undirected networks have no barren nodes; nothing is removed.
func RemoveBarrenNodes(net *network.ProbNet, interest, observed []*variable.Variable) int {
	if !net.Type().Directed() {
		return 0
	}
	protected := variableSet(interest, observed)

	removed := 0
	for {
		barren := make(map[*network.Node]bool)
		var pending []*network.Node
		for _, n := range net.Nodes() {
			if n.NumChildren() == 0 && !protected[n.Variable()] {
				barren[n] = true
				pending = append(pending, n)
			}
		}
		if len(pending) == 0 {
			return removed
		}

		for len(pending) > 0 {
			n := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			for _, p := range n.Parents() {
				if barren[p] || protected[p.Variable()] || p.NumChildren() <= 1 {
					continue
				}
				if allBarren(p.Children(), barren) {
					barren[p] = true
					pending = append(pending, p)
				}
			}
		}

		for _, n := range net.Nodes() {
			if !barren[n] {
				continue
			}
			if err := net.RemoveNode(n); err != nil {
				panic(fmt.Sprintf("operations: removing barren node %v: %v", n, err))
			}
			removed++
		}
	}
}

func allBarren(nodes []*network.Node, barren map[*network.Node]bool) bool {
	for _, n := range nodes {
		if !barren[n] {
			return false
		}
	}
	return true
}

func variableSet(groups ...[]*variable.Variable) map[*variable.Variable]bool {
	set := make(map[*variable.Variable]bool)
	for _, g := range groups {
		for _, v := range g {
			set[v] = true
		}
	}
	return set
}
