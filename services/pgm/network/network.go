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

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// ProbNet is a probabilistic graphical model: nodes over variables, links
// between them and the potentials attached to the nodes.
//
// Thread Safety:
//
//	ProbNet is NOT safe for concurrent mutation. Once built it may be read
//	concurrently.
type ProbNet struct {
	id      uuid.UUID
	name    string
	netType NetworkType

	// nodes in insertion order.
	nodes []*Node

	nodesByVariable map[*variable.Variable]*Node
	nodesByName     map[string]*Node

	// nodesByType is indexed by NodeType.
	nodesByType [NumNodeTypes][]*Node

	links     []*Link
	constants []potential.Potential
	criteria  []*potential.Criterion
	options   Options
}

// New creates an empty network of the given type.
//
// Example:
//
//	net := New(BayesianNetwork, WithName("asia"), WithMaxNodes(64))
func New(t NetworkType, opts ...Option) *ProbNet {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &ProbNet{
		id:              uuid.New(),
		name:            options.Name,
		netType:         t,
		nodesByVariable: make(map[*variable.Variable]*Node),
		nodesByName:     make(map[string]*Node),
		criteria:        slices.Clone(options.Criteria),
		options:         options,
	}
}

// ID returns the identity of the network. Every copy gets a fresh ID.
func (net *ProbNet) ID() uuid.UUID { return net.id }

// Name returns the network name.
func (net *ProbNet) Name() string { return net.name }

// Type returns the network type.
func (net *ProbNet) Type() NetworkType { return net.netType }

// Criteria returns the declared decision criteria.
func (net *ProbNet) Criteria() []*potential.Criterion { return slices.Clone(net.criteria) }

// Criterion returns the declared criterion with the given name.
func (net *ProbNet) Criterion(name string) (*potential.Criterion, bool) {
	for _, c := range net.criteria {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// AddCriterion declares a decision criterion. Declaring a name twice is a
// no-op.
func (net *ProbNet) AddCriterion(c *potential.Criterion) {
	if _, ok := net.Criterion(c.Name); !ok {
		net.criteria = append(net.criteria, c)
	}
}

// SetCriteria replaces the declared decision criteria.
func (net *ProbNet) SetCriteria(criteria ...*potential.Criterion) {
	net.criteria = slices.Clone(criteria)
}

// NodeCount returns the number of nodes.
func (net *ProbNet) NodeCount() int { return len(net.nodes) }

// LinkCount returns the number of links.
func (net *ProbNet) LinkCount() int { return len(net.links) }

// AddNode adds a node for v.
//
// Errors:
//
//	ErrInvalidNode - v is nil
//	ErrMaxNodesExceeded - the network is at capacity
//	ErrDuplicateNode - v, or another variable with its name, already has a node
func (net *ProbNet) AddNode(v *variable.Variable, t NodeType) (*Node, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: variable is nil", ErrInvalidNode)
	}
	if len(net.nodes) >= net.options.MaxNodes {
		return nil, ErrMaxNodesExceeded
	}
	if _, exists := net.nodesByName[v.Name()]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, v.Name())
	}
	if _, exists := net.nodesByVariable[v]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, v.Name())
	}

	n := &Node{variable: v, nodeType: t}
	net.nodes = append(net.nodes, n)
	net.nodesByVariable[v] = n
	net.nodesByName[v.Name()] = n
	net.nodesByType[t] = append(net.nodesByType[t], n)
	return n, nil
}

// RemoveNode deletes n, its links and its potentials. Potentials of other
// nodes that mention n's variable are left untouched.
//
// Errors:
//
//	ErrNodeNotFound - n does not belong to the network
func (net *ProbNet) RemoveNode(n *Node) error {
	if !net.owns(n) {
		return fmt.Errorf("%w: %v", ErrNodeNotFound, n)
	}
	for _, l := range slices.Concat(n.incoming, n.outgoing, n.undirected) {
		net.unlink(l)
	}
	net.nodes = slices.DeleteFunc(net.nodes, func(m *Node) bool { return m == n })
	delete(net.nodesByVariable, n.variable)
	delete(net.nodesByName, n.variable.Name())
	net.removeFromTypeIndex(n)
	return nil
}

// ReplaceVariable rebinds the node of old to replacement. The names must
// match, so name lookups keep working. Potentials are not touched.
//
// Errors:
//
//	ErrNodeNotFound - old has no node
//	ErrDuplicateNode - replacement already has a node or another name
func (net *ProbNet) ReplaceVariable(old, replacement *variable.Variable) error {
	n, ok := net.nodesByVariable[old]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, old.Name())
	}
	if _, exists := net.nodesByVariable[replacement]; exists || replacement.Name() != old.Name() {
		return fmt.Errorf("%w: cannot rebind %s to %s", ErrDuplicateNode, old.Name(), replacement.Name())
	}
	delete(net.nodesByVariable, old)
	net.nodesByVariable[replacement] = n
	net.nodesByName[replacement.Name()] = n
	n.variable = replacement
	return nil
}

// SetNodeType changes the type of n and moves it within the type index.
func (net *ProbNet) SetNodeType(n *Node, t NodeType) error {
	if !net.owns(n) {
		return fmt.Errorf("%w: %v", ErrNodeNotFound, n)
	}
	if n.nodeType == t {
		return nil
	}
	net.removeFromTypeIndex(n)
	n.nodeType = t
	net.nodesByType[t] = append(net.nodesByType[t], n)
	return nil
}

func (net *ProbNet) removeFromTypeIndex(n *Node) {
	idx := slices.Index(net.nodesByType[n.nodeType], n)
	if idx < 0 {
		panic(fmt.Sprintf("network: node %v missing from the %s index", n, n.nodeType))
	}
	net.nodesByType[n.nodeType] = slices.Delete(net.nodesByType[n.nodeType], idx, idx+1)
}

func (net *ProbNet) owns(n *Node) bool {
	return n != nil && net.nodesByVariable[n.variable] == n
}

// Node returns the node of v.
func (net *ProbNet) Node(v *variable.Variable) (*Node, bool) {
	n, ok := net.nodesByVariable[v]
	return n, ok
}

// NodeByName returns the node whose variable has the given name.
//
// Errors:
//
//	ErrNodeNotFound - no variable has that name
func (net *ProbNet) NodeByName(name string) (*Node, error) {
	n, ok := net.nodesByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	return n, nil
}

// Variable resolves a variable by name. It makes ProbNet a
// potential.VariableResolver.
func (net *ProbNet) Variable(name string) (*variable.Variable, error) {
	n, err := net.NodeByName(name)
	if err != nil {
		return nil, err
	}
	return n.variable, nil
}

// Nodes returns the nodes in insertion order.
func (net *ProbNet) Nodes() []*Node { return slices.Clone(net.nodes) }

// NodesByType returns the nodes of type t in insertion order.
func (net *ProbNet) NodesByType(t NodeType) []*Node {
	if t < 0 || t >= NumNodeTypes {
		return nil
	}
	return slices.Clone(net.nodesByType[t])
}

// Variables returns the variables in node order.
func (net *ProbNet) Variables() []*variable.Variable {
	out := make([]*variable.Variable, len(net.nodes))
	for i, n := range net.nodes {
		out[i] = n.variable
	}
	return out
}

// NodesOf returns the nodes of the given variables, skipping variables that
// have none.
func (net *ProbNet) NodesOf(vars []*variable.Variable) []*Node {
	out := make([]*Node, 0, len(vars))
	for _, v := range vars {
		if n, ok := net.nodesByVariable[v]; ok {
			out = append(out, n)
		}
	}
	return out
}

// AddLink joins two nodes of the network.
//
// Errors:
//
//	ErrNodeNotFound - an endpoint does not belong to the network
//	ErrSelfLoop - from and to are the same node
//	ErrLinkExists - an equivalent link is present
func (net *ProbNet) AddLink(from, to *Node, directed bool) (*Link, error) {
	if !net.owns(from) || !net.owns(to) {
		return nil, fmt.Errorf("%w: link %v -> %v", ErrNodeNotFound, from, to)
	}
	if from == to {
		return nil, fmt.Errorf("%w: %v", ErrSelfLoop, from)
	}
	if net.Link(from, to, directed) != nil {
		return nil, fmt.Errorf("%w: %v -> %v", ErrLinkExists, from, to)
	}

	l := &Link{From: from, To: to, Directed: directed}
	net.attach(l)
	return l, nil
}

func (net *ProbNet) attach(l *Link) {
	net.links = append(net.links, l)
	if l.Directed {
		l.From.outgoing = append(l.From.outgoing, l)
		l.To.incoming = append(l.To.incoming, l)
		return
	}
	l.From.undirected = append(l.From.undirected, l)
	l.To.undirected = append(l.To.undirected, l)
}

// RemoveLink deletes the link between from and to.
//
// Errors:
//
//	ErrLinkNotFound - there is no such link
func (net *ProbNet) RemoveLink(from, to *Node, directed bool) error {
	l := net.Link(from, to, directed)
	if l == nil {
		return fmt.Errorf("%w: %v -> %v", ErrLinkNotFound, from, to)
	}
	net.unlink(l)
	return nil
}

func (net *ProbNet) unlink(l *Link) {
	drop := func(s []*Link) []*Link {
		return slices.DeleteFunc(s, func(m *Link) bool { return m == l })
	}
	net.links = drop(net.links)
	if l.Directed {
		l.From.outgoing = drop(l.From.outgoing)
		l.To.incoming = drop(l.To.incoming)
		return
	}
	l.From.undirected = drop(l.From.undirected)
	l.To.undirected = drop(l.To.undirected)
}

// Link returns the link between from and to, or nil. Undirected links match
// in both orientations.
func (net *ProbNet) Link(from, to *Node, directed bool) *Link {
	if from == nil || to == nil {
		return nil
	}
	if directed {
		for _, l := range from.outgoing {
			if l.To == to {
				return l
			}
		}
		return nil
	}
	for _, l := range from.undirected {
		if l.Other(from) == to {
			return l
		}
	}
	return nil
}

// Links returns every link in insertion order.
func (net *ProbNet) Links() []*Link { return slices.Clone(net.links) }

// PropagatesDeterministicEvidence implements evidence.Source.
func (net *ProbNet) PropagatesDeterministicEvidence() bool {
	return net.netType.PropagatesDeterministicEvidence()
}

// InducersOf implements evidence.Source: the potentials that mention v.
func (net *ProbNet) InducersOf(v *variable.Variable) []evidence.Inducer {
	ps := net.PotentialsOf(v)
	out := make([]evidence.Inducer, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

// Stats returns statistics about the network.
func (net *ProbNet) Stats() Stats {
	byType := make(map[NodeType]int)
	potentials := 0
	for t := NodeType(0); t < NumNodeTypes; t++ {
		if c := len(net.nodesByType[t]); c > 0 {
			byType[t] = c
		}
	}
	for _, n := range net.nodes {
		potentials += len(n.potentials)
	}
	return Stats{
		NodeCount:      len(net.nodes),
		LinkCount:      len(net.links),
		PotentialCount: potentials,
		ConstantCount:  len(net.constants),
		NodesByType:    byType,
		MaxNodes:       net.options.MaxNodes,
	}
}

// String returns a one-line summary, e.g. "asia (bayesian-network, 8 nodes)".
func (net *ProbNet) String() string {
	return fmt.Sprintf("%s (%s, %d nodes)", net.name, net.netType, len(net.nodes))
}
