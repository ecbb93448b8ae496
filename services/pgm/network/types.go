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
	"maps"

	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// DefaultMaxNodes is the default node capacity of a network.
const DefaultMaxNodes = 100_000

// NetworkType is the kind of model a network represents.
type NetworkType int

const (
	BayesianNetwork NetworkType = iota
	DynamicBayesianNetwork
	MarkovNetwork
	InfluenceDiagram
	DecisionAnalysisNetwork
)

var networkTypeNames = map[NetworkType]string{
	BayesianNetwork:         "bayesian-network",
	DynamicBayesianNetwork:  "dynamic-bayesian-network",
	MarkovNetwork:           "markov-network",
	InfluenceDiagram:        "influence-diagram",
	DecisionAnalysisNetwork: "decision-analysis-network",
}

// String returns the string representation of the NetworkType.
func (t NetworkType) String() string {
	if name, ok := networkTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Directed reports whether potentials induce parent links. Only Markov
// networks are undirected.
func (t NetworkType) Directed() bool { return t != MarkovNetwork }

// PropagatesDeterministicEvidence reports whether findings implied by
// deterministic potentials are added to the evidence before inference.
// Decision models do not propagate, since policies are not fixed yet.
func (t NetworkType) PropagatesDeterministicEvidence() bool {
	switch t {
	case BayesianNetwork, DynamicBayesianNetwork, MarkovNetwork:
		return true
	default:
		return false
	}
}

// NodeType is the role of a node in a network.
type NodeType int

const (
	Chance NodeType = iota
	Decision
	Utility
	SVSum
	SVProduct

	// NumNodeTypes is the number of node types. Used to size the type index.
	NumNodeTypes
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case Chance:
		return "chance"
	case Decision:
		return "decision"
	case Utility:
		return "utility"
	case SVSum:
		return "sv-sum"
	case SVProduct:
		return "sv-product"
	default:
		return "unknown"
	}
}

// Combinator maps super-value node types to their combinator.
func (t NodeType) Combinator() potential.Combinator {
	switch t {
	case SVSum:
		return potential.CombinatorSum
	case SVProduct:
		return potential.CombinatorProduct
	default:
		return potential.CombinatorNone
	}
}

// IsUtility reports whether nodes of this type hold utilities.
func (t NodeType) IsUtility() bool {
	return t == Utility || t == SVSum || t == SVProduct
}

// Link is an edge between two nodes of the same network.
//
// For undirected links From and To are the endpoints in the order they were
// given; the link is symmetric.
type Link struct {
	From     *Node
	To       *Node
	Directed bool

	// Restriction marks the compatible (From, To) configurations of an
	// asymmetric decision problem. Nil when the link is unrestricted.
	Restriction *potential.TablePotential

	// RevealingStates are the states of From that reveal To.
	RevealingStates []variable.State
}

// Other returns the endpoint of l that is not n.
func (l *Link) Other(n *Node) *Node {
	if l.From == n {
		return l.To
	}
	return l.From
}

// HasRestriction reports whether the link carries a restriction table.
func (l *Link) HasRestriction() bool { return l.Restriction != nil }

// Node is a variable of a network together with its role, potentials and
// incident links.
//
// The Variable pointer is NOT owned by the Node.
type Node struct {
	variable   *variable.Variable
	nodeType   NodeType
	potentials []potential.Potential
	properties map[string]string

	// incoming holds directed links whose To is this node.
	incoming []*Link

	// outgoing holds directed links whose From is this node.
	outgoing []*Link

	// undirected holds undirected links with this node as either endpoint.
	undirected []*Link
}

// Variable returns the variable of the node.
func (n *Node) Variable() *variable.Variable { return n.variable }

// Name returns the variable name.
func (n *Node) Name() string { return n.variable.Name() }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.nodeType }

// Potentials returns the potentials attached to the node.
func (n *Node) Potentials() []potential.Potential {
	return append([]potential.Potential(nil), n.potentials...)
}

// Parents returns the sources of incoming links, in link order.
func (n *Node) Parents() []*Node {
	out := make([]*Node, len(n.incoming))
	for i, l := range n.incoming {
		out[i] = l.From
	}
	return out
}

// Children returns the targets of outgoing links, in link order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.outgoing))
	for i, l := range n.outgoing {
		out[i] = l.To
	}
	return out
}

// Siblings returns the nodes joined to n by undirected links.
func (n *Node) Siblings() []*Node {
	out := make([]*Node, len(n.undirected))
	for i, l := range n.undirected {
		out[i] = l.Other(n)
	}
	return out
}

// Neighbors returns parents, children and siblings without duplicates.
func (n *Node) Neighbors() []*Node {
	seen := make(map[*Node]bool)
	var out []*Node
	for _, group := range [][]*Node{n.Parents(), n.Children(), n.Siblings()} {
		for _, m := range group {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// NumParents returns the number of incoming links.
func (n *Node) NumParents() int { return len(n.incoming) }

// NumChildren returns the number of outgoing links.
func (n *Node) NumChildren() int { return len(n.outgoing) }

// IsParentOf reports whether a directed link n -> child exists.
func (n *Node) IsParentOf(child *Node) bool {
	for _, l := range n.outgoing {
		if l.To == child {
			return true
		}
	}
	return false
}

// Property returns an additional property of the node.
func (n *Node) Property(key string) (string, bool) {
	v, ok := n.properties[key]
	return v, ok
}

// SetProperty sets an additional property of the node.
func (n *Node) SetProperty(key, value string) {
	if n.properties == nil {
		n.properties = make(map[string]string)
	}
	n.properties[key] = value
}

// Properties returns a copy of the additional properties.
func (n *Node) Properties() map[string]string {
	return maps.Clone(n.properties)
}

// String returns the variable name and node type, e.g. "Smoker(chance)".
func (n *Node) String() string {
	return n.variable.Name() + "(" + n.nodeType.String() + ")"
}

// Options configures ProbNet behavior and limits.
type Options struct {
	// Name is a human-readable network name.
	Name string

	// MaxNodes is the maximum number of nodes the network can hold.
	// Default: 100,000
	MaxNodes int

	// Criteria are the decision criteria of utility potentials.
	Criteria []*potential.Criterion
}

// DefaultOptions returns the default network configuration.
func DefaultOptions() Options {
	return Options{MaxNodes: DefaultMaxNodes}
}

// Option is a functional option for configuring ProbNet.
type Option func(*Options)

// WithName sets the network name.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithMaxNodes sets the maximum number of nodes the network can hold.
func WithMaxNodes(n int) Option {
	return func(o *Options) {
		o.MaxNodes = n
	}
}

// WithCriteria declares the decision criteria of the network.
func WithCriteria(criteria ...*potential.Criterion) Option {
	return func(o *Options) {
		o.Criteria = append(o.Criteria, criteria...)
	}
}

// Stats contains statistics about a network.
type Stats struct {
	NodeCount      int
	LinkCount      int
	PotentialCount int
	ConstantCount  int
	NodesByType    map[NodeType]int
	MaxNodes       int
}
