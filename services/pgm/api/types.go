// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

// NetworkSummary is one entry of GET /v1/networks.
type NetworkSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NodeInfo describes a node and its potentials.
type NodeInfo struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Kind       string   `json:"kind"`
	States     []string `json:"states"`
	Parents    []string `json:"parents,omitempty"`
	Potentials []string `json:"potentials,omitempty"`
}

// NetworkInfo is the body of GET /v1/networks/:name.
type NetworkInfo struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Links      int        `json:"links"`
	Potentials int        `json:"potentials"`
	Criteria   []string   `json:"criteria,omitempty"`
	Nodes      []NodeInfo `json:"nodes"`
}

// OrderResponse is the body of GET /v1/networks/:name/order.
type OrderResponse struct {
	Order []string `json:"order"`
}

// EvidenceRequest carries findings as variable name to state name, or to a
// number for discretized and numeric variables.
type EvidenceRequest struct {
	Evidence map[string]string `json:"evidence"`
}

// PruneRequest is the body of POST /v1/networks/:name/prune.
type PruneRequest struct {
	Interest []string          `json:"interest" binding:"required,min=1,dive,required"`
	Evidence map[string]string `json:"evidence"`
}

// PruneResponse lists the nodes left after pruning.
type PruneResponse struct {
	Removed int        `json:"removed"`
	Nodes   []NodeInfo `json:"nodes"`
}

// FindingInfo is one finding of an extended case.
type FindingInfo struct {
	Variable string `json:"variable"`
	State    string `json:"state"`
	Induced  bool   `json:"induced"`
}

// ExtendResponse is the body of POST /v1/networks/:name/extend.
type ExtendResponse struct {
	Findings []FindingInfo `json:"findings"`
	Added    int           `json:"added"`
}

// TableInfo is a projected potential.
type TableInfo struct {
	Potential string    `json:"potential"`
	Variables []string  `json:"variables"`
	Values    []float64 `json:"values"`
}

// ProjectResponse is the body of POST /v1/networks/:name/project. When
// ZeroProbability is set the evidence is impossible and Tables is empty.
type ProjectResponse struct {
	ZeroProbability bool        `json:"zero_probability"`
	Tables          []TableInfo `json:"tables"`
}

// ErrorResponse is returned with every 4xx and 5xx status. TraceID is set
// when the request was traced.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}
