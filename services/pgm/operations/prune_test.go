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
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

func TestRemoveBarrenNodes(t *testing.T) {
	tests := []struct {
		name     string
		edges    []string
		interest []string
		observed []string
		want     []string
		removed  int
	}{
		{
			name:     "parent of interest survives",
			edges:    []string{"A>B", "B>C", "D>C"},
			interest: []string{"B"},
			want:     []string{"A", "B"},
			removed:  2,
		},
		{
			name:     "evidence protects leaves",
			edges:    []string{"A>B", "B>C", "D>C"},
			interest: []string{"B"},
			observed: []string{"C"},
			want:     []string{"A", "B", "C", "D"},
		},
		{
			name:     "multi-child parent of barren leaves",
			edges:    []string{"X>A", "P>L1", "P>L2"},
			interest: []string{"A"},
			want:     []string{"A", "X"},
			removed:  3,
		},
		{
			name:     "interest leaf keeps ancestors",
			edges:    []string{"A>B", "B>C"},
			interest: []string{"C"},
			want:     []string{"A", "B", "C"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			net, vars := graph(t, network.BayesianNetwork, tc.edges...)
			removed := RemoveBarrenNodes(net, pick(vars, tc.interest...), pick(vars, tc.observed...))
			assert.Equal(t, tc.removed, removed)
			assert.Equal(t, tc.want, names(net.Nodes()))
		})
	}
}

func TestRemoveBarrenNodes_Undirected(t *testing.T) {
	net, vars := graph(t, network.MarkovNetwork, "A-B", "B-C")
	assert.Zero(t, RemoveBarrenNodes(net, pick(vars, "A"), nil))
	assert.Equal(t, 3, net.NodeCount())
}

func TestRemoveUnreachableNodes(t *testing.T) {
	tests := []struct {
		name     string
		netType  network.NetworkType
		edges    []string
		interest []string
		observed []string
		want     []string
	}{
		{
			name:     "chain blocked by evidence",
			edges:    []string{"A>B", "B>C"},
			interest: []string{"A"},
			observed: []string{"B"},
			want:     []string{"A", "B"},
		},
		{
			name:     "open chain",
			edges:    []string{"A>B", "B>C"},
			interest: []string{"A"},
			want:     []string{"A", "B", "C"},
		},
		{
			name:     "closed collider",
			edges:    []string{"A>C", "B>C"},
			interest: []string{"A"},
			want:     []string{"A", "C"},
		},
		{
			name:     "collider opened by evidence",
			edges:    []string{"A>C", "B>C"},
			interest: []string{"A"},
			observed: []string{"C"},
			want:     []string{"A", "B", "C"},
		},
		{
			name:     "collider opened by observed descendant",
			edges:    []string{"A>C", "B>C", "C>D"},
			interest: []string{"A"},
			observed: []string{"D"},
			want:     []string{"A", "B", "C", "D"},
		},
		{
			name:     "disconnected component",
			edges:    []string{"A>B", "X>Y"},
			interest: []string{"A"},
			want:     []string{"A", "B"},
		},
		{
			name:     "markov separator",
			netType:  network.MarkovNetwork,
			edges:    []string{"A-B", "B-C", "C-D"},
			interest: []string{"A"},
			observed: []string{"B"},
			want:     []string{"A", "B"},
		},
		{
			name:     "collider parent kept after the collider",
			edges:    []string{"Z>I", "C>I", "N>C", "P1>N", "P2>N", "P1>Z"},
			interest: []string{"I"},
			observed: []string{"N"},
			want:     []string{"C", "I", "N", "P1", "P2", "Z"},
		},
		{
			name:     "markov open path",
			netType:  network.MarkovNetwork,
			edges:    []string{"A-B", "B-C", "X-Y"},
			interest: []string{"A"},
			want:     []string{"A", "B", "C"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			net, vars := graph(t, tc.netType, tc.edges...)
			before := net.NodeCount()
			removed := RemoveUnreachableNodes(net, pick(vars, tc.interest...), pick(vars, tc.observed...))
			assert.Equal(t, tc.want, names(net.Nodes()))
			assert.Equal(t, before-len(tc.want), removed)
		})
	}
}

// randomDAG builds a DAG over a random topological order. Nodes and links
// are inserted in shuffled order so traversal order varies between graphs.
func randomDAG(t *testing.T, rng *rand.Rand, size int, density float64) (*network.ProbNet, []*variable.Variable) {
	t.Helper()
	order := rng.Perm(size)
	var nodes, links []string
	for i := range size {
		nodes = append(nodes, fmt.Sprintf("N%d", order[i]))
		for j := i + 1; j < size; j++ {
			if rng.Float64() < density {
				links = append(links, fmt.Sprintf("N%d>N%d", order[i], order[j]))
			}
		}
	}
	rng.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })
	rng.Shuffle(len(links), func(i, j int) { links[i], links[j] = links[j], links[i] })
	net, _ := graph(t, network.BayesianNetwork, append(nodes, links...)...)
	return net, net.Variables()
}

func component(net *network.ProbNet, interest []*variable.Variable) map[string]bool {
	seen := make(map[string]bool)
	queue := net.NodesOf(interest)
	for _, n := range queue {
		seen[n.Name()] = true
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, m := range n.Neighbors() {
			if !seen[m.Name()] {
				seen[m.Name()] = true
				queue = append(queue, m)
			}
		}
	}
	return seen
}

// activeTrailNodes returns the nodes that lie on an active trail starting
// at an interest node, observed endpoints included. A trail enters a node
// either from a child (up) or from a parent (down); an unobserved node
// passes both ways, and a node that is observed or has an observed
// descendant turns a trail coming down back up to its parents.
func activeTrailNodes(net *network.ProbNet, interest, observed []*variable.Variable) map[string]bool {
	type visit struct {
		node *network.Node
		up   bool
	}
	isObserved := variableSet(observed)
	towardEvidence := observedOrAncestor(net, isObserved)

	reached := make(map[string]bool)
	seen := make(map[visit]bool)
	var queue []visit
	for _, n := range net.NodesOf(interest) {
		queue = append(queue, visit{n, true})
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if seen[v] {
			continue
		}
		seen[v] = true
		reached[v.node.Name()] = true

		open := !isObserved[v.node.Variable()]
		if v.up && open {
			for _, p := range v.node.Parents() {
				queue = append(queue, visit{p, true})
			}
		}
		if open {
			for _, c := range v.node.Children() {
				queue = append(queue, visit{c, false})
			}
		}
		if !v.up && towardEvidence[v.node] {
			for _, p := range v.node.Parents() {
				queue = append(queue, visit{p, true})
			}
		}
	}
	return reached
}

func TestRemoveUnreachableNodes_RandomDAGs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := range 300 {
		net, vars := randomDAG(t, rng, 3+rng.Intn(9), 0.15+0.3*rng.Float64())
		interest := []*variable.Variable{vars[rng.Intn(len(vars))]}
		var observed []*variable.Variable
		for _, v := range vars {
			if v != interest[0] && rng.Float64() < 0.3 {
				observed = append(observed, v)
			}
		}

		reach := component(net, interest)
		connected := activeTrailNodes(net, interest, observed)
		first := net.Copy()
		RemoveUnreachableNodes(first, interest, observed)
		second := net.Copy()
		RemoveUnreachableNodes(second, interest, observed)

		kept := names(first.Nodes())
		assert.Equal(t, kept, names(second.Nodes()), "iteration %d is deterministic", iter)
		for _, name := range kept {
			assert.True(t, reach[name], "iteration %d keeps %s outside the component", iter, name)
		}
		for name := range connected {
			assert.Contains(t, kept, name, "iteration %d drops d-connected %s", iter, name)
		}

		n, ok := net.Node(interest[0])
		require.True(t, ok)
		must := append([]*network.Node{n}, n.Neighbors()...)
		for _, m := range must {
			assert.Contains(t, kept, m.Name(), "iteration %d drops %s", iter, m.Name())
		}
	}
}

// Relabelling the nodes of one graph changes the order in which they are
// inserted and visited, never the surviving set.
func TestRemoveUnreachableNodes_OrderIndependent(t *testing.T) {
	edges := [][2]string{{"Z", "I"}, {"C", "I"}, {"N", "C"}, {"P1", "N"}, {"P2", "N"}, {"P1", "Z"}, {"Q", "P2"}, {"I", "L"}}
	rng := rand.New(rand.NewSource(11))
	var want []string
	for iter := range 40 {
		shuffled := slices.Clone(edges)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		order := make([]string, len(shuffled))
		for i, e := range shuffled {
			order[i] = e[0] + ">" + e[1]
		}
		net, vars := graph(t, network.BayesianNetwork, order...)
		RemoveUnreachableNodes(net, pick(vars, "I"), pick(vars, "N"))
		got := names(net.Nodes())
		if iter == 0 {
			want = got
			assert.Equal(t, []string{"C", "I", "L", "N", "P1", "P2", "Q", "Z"}, want)
			continue
		}
		assert.Equal(t, want, got, "insertion order %v", order)
	}
}

func TestGetPruned(t *testing.T) {
	net, vars := graph(t, network.BayesianNetwork, "A>B", "B>C", "D>C", "X>Y")
	ev, err := evidence.NewCaseWith(mustFinding(t, vars["B"], 0))
	require.NoError(t, err)
	logger, buf := debugLogger()

	pruned, err := GetPruned(context.Background(), net, pick(vars, "A"), ev, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, names(pruned.Nodes()))
	assert.Equal(t, 6, net.NodeCount(), "input is not modified")
	assert.Equal(t, 4, net.LinkCount())
	assert.NotEqual(t, net.ID(), pruned.ID())
	assert.Contains(t, buf.Messages(), "network pruned")
}

func TestGetPruned_Cancelled(t *testing.T) {
	net, vars := graph(t, network.BayesianNetwork, "A>B")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GetPruned(ctx, net, pick(vars, "A"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func mustFinding(t *testing.T, v *variable.Variable, state int) evidence.Finding {
	t.Helper()
	f, err := evidence.NewStateFinding(v, state)
	require.NoError(t, err)
	return f
}
