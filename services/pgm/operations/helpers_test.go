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
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianPGM/pkg/logging"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

func binary(t *testing.T, name string) *variable.Variable {
	t.Helper()
	v, err := variable.NewFiniteStates(name, []string{"yes", "no"})
	require.NoError(t, err)
	return v
}

// graph builds a network of binary chance nodes from edges written "A>B"
// (directed) or "A-B" (undirected). A lone name adds an isolated node.
func graph(t *testing.T, netType network.NetworkType, edges ...string) (*network.ProbNet, map[string]*variable.Variable) {
	t.Helper()
	net := network.New(netType, network.WithName("graph"))
	vars := make(map[string]*variable.Variable)
	node := func(name string) *network.Node {
		v, ok := vars[name]
		if !ok {
			v = binary(t, name)
			vars[name] = v
			_, err := net.AddNode(v, network.Chance)
			require.NoError(t, err)
		}
		n, ok := net.Node(v)
		require.True(t, ok)
		return n
	}
	for _, e := range edges {
		sep, directed := ">", true
		if strings.Contains(e, "-") {
			sep, directed = "-", false
		}
		ends := strings.Split(e, sep)
		if len(ends) == 1 {
			node(ends[0])
			continue
		}
		_, err := net.AddLink(node(ends[0]), node(ends[1]), directed)
		require.NoError(t, err)
	}
	return net, vars
}

func names(nodes []*network.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	sort.Strings(out)
	return out
}

func pick(vars map[string]*variable.Variable, keys ...string) []*variable.Variable {
	out := make([]*variable.Variable, len(keys))
	for i, k := range keys {
		out[i] = vars[k]
	}
	return out
}

func cpt(t *testing.T, values []float64, vars ...*variable.Variable) *potential.TablePotential {
	t.Helper()
	p, err := potential.NewTablePotential(vars, potential.RoleConditionalProbability, potential.WithValues(values...))
	require.NoError(t, err)
	return p
}

func debugLogger() (*logging.Logger, *logging.BufferedExporter) {
	buf := logging.NewBufferedExporter()
	return logging.New(logging.Config{Level: logging.LevelDebug, Quiet: true, Exporter: buf}), buf
}
