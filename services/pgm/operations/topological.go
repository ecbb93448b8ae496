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
	"context"
	"fmt"
	"time"

	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
)

// SortTopologically orders the nodes so that every directed link goes from
// an earlier node to a later one.
//
// Description:
//
//	Kahn's algorithm on a private copy of net. A LIFO stack is seeded with
//	the parentless nodes; each popped node is emitted and its outgoing links
//	are removed, pushing children that are left without parents. The
//	emitted nodes are resolved against net, so callers get net's own nodes.
//	Undirected links are ignored. Ties are broken by the stack, so the order
//	is deterministic for a given network.
//
// Errors:
//
//	ErrCyclicNetwork - some nodes are never freed of parents
//	context errors - ctx was cancelled
func SortTopologically(ctx context.Context, net *network.ProbNet, opts ...Option) ([]*network.Node, error) {
	cfg := newConfig(opts)
	ctx, span := startSpan(ctx, "SortTopologically", net)
	defer span.End()
	start := time.Now()

	order, err := sortTopologically(ctx, net)
	recordSortMetrics(ctx, time.Since(start), err == nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	cfg.logger.Debug("network sorted", "net", net.Name(), "nodes", len(order))
	return order, nil
}

func sortTopologically(ctx context.Context, net *network.ProbNet) ([]*network.Node, error) {
	work := net.Copy()

	var stack []*network.Node
	for _, n := range work.Nodes() {
		if n.NumParents() == 0 {
			stack = append(stack, n)
		}
	}

	order := make([]*network.Node, 0, net.NodeCount())
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		orig, ok := net.Node(n.Variable())
		if !ok {
			panic(fmt.Sprintf("operations: node %v of the working copy is missing from %v", n, net))
		}
		order = append(order, orig)

		for _, child := range n.Children() {
			if err := work.RemoveLink(n, child, true); err != nil {
				panic(fmt.Sprintf("operations: consuming link %v -> %v: %v", n, child, err))
			}
			if child.NumParents() == 0 {
				stack = append(stack, child)
			}
		}
	}

	if len(order) != net.NodeCount() {
		return nil, fmt.Errorf("%w: %d of %d nodes are on or behind a cycle",
			ErrCyclicNetwork, net.NodeCount()-len(order), net.NodeCount())
	}
	return order, nil
}

// SortedPotentials returns the potentials of net with nodes taken in
// topological order, followed by the constant potentials.
func SortedPotentials(ctx context.Context, net *network.ProbNet, opts ...Option) ([]potential.Potential, error) {
	order, err := SortTopologically(ctx, net, opts...)
	if err != nil {
		return nil, err
	}
	var out []potential.Potential
	for _, n := range order {
		out = append(out, n.Potentials()...)
	}
	return append(out, net.ConstantPotentials()...), nil
}
