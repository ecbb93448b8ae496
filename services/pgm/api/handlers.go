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

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianPGM/pkg/telemetry"
	"github.com/AleutianAI/AleutianPGM/services/pgm/catalog"
	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/operations"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

func (s *Server) listNetworks(c *gin.Context) {
	entries := catalog.Entries()
	out := make([]NetworkSummary, len(entries))
	for i, e := range entries {
		out[i] = NetworkSummary{Name: e.Name, Description: e.Description}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getNetwork(c *gin.Context) {
	net, ok := s.loadNetwork(c)
	if !ok {
		return
	}
	stats := net.Stats()
	info := NetworkInfo{
		ID:         net.ID().String(),
		Name:       net.Name(),
		Type:       net.Type().String(),
		Links:      stats.LinkCount,
		Potentials: stats.PotentialCount,
		Nodes:      nodeInfos(net.Nodes()),
	}
	for _, cr := range net.Criteria() {
		info.Criteria = append(info.Criteria, cr.Name)
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) sortNetwork(c *gin.Context) {
	net, ok := s.loadNetwork(c)
	if !ok {
		return
	}
	order, err := operations.SortTopologically(c.Request.Context(), net, s.opts...)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	out := OrderResponse{Order: make([]string, len(order))}
	for i, n := range order {
		out.Order[i] = n.Name()
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) pruneNetwork(c *gin.Context) {
	var req PruneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	net, ok := s.loadNetwork(c)
	if !ok {
		return
	}
	ev, err := parseCase(net, req.Evidence)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	interest := make([]*variable.Variable, 0, len(req.Interest))
	for _, name := range req.Interest {
		v, err := net.Variable(name)
		if err != nil {
			s.fail(c, statusFor(err), fmt.Errorf("interest %s: %w", name, err))
			return
		}
		interest = append(interest, v)
	}

	pruned, err := operations.GetPruned(c.Request.Context(), net, interest, ev, s.opts...)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, PruneResponse{
		Removed: net.NodeCount() - pruned.NodeCount(),
		Nodes:   nodeInfos(pruned.Nodes()),
	})
}

func (s *Server) extendEvidence(c *gin.Context) {
	net, ev, ok := s.loadWithEvidence(c)
	if !ok {
		return
	}
	extended, added, err := operations.ExtendEvidence(c.Request.Context(), net, ev, s.opts...)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	induced := make(map[*variable.Variable]bool, len(added))
	for _, f := range added {
		induced[f.Variable()] = true
	}
	out := ExtendResponse{Added: len(added)}
	for _, f := range extended.Findings() {
		out.Findings = append(out.Findings, FindingInfo{
			Variable: f.Variable().Name(),
			State:    findingValue(f),
			Induced:  induced[f.Variable()],
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) projectPotentials(c *gin.Context) {
	net, ev, ok := s.loadWithEvidence(c)
	if !ok {
		return
	}
	tables, err := operations.ProjectPotentials(c.Request.Context(), net, ev, s.opts...)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	if len(tables) == 1 && potential.IsZeroProbability(tables[0]) {
		c.JSON(http.StatusOK, ProjectResponse{ZeroProbability: true, Tables: []TableInfo{}})
		return
	}
	out := ProjectResponse{Tables: make([]TableInfo, len(tables))}
	for i, t := range tables {
		names := make([]string, 0, len(t.Variables()))
		for _, v := range t.Variables() {
			names = append(names, v.Name())
		}
		out.Tables[i] = TableInfo{Potential: t.String(), Variables: names, Values: t.Values()}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) loadNetwork(c *gin.Context) (*network.ProbNet, bool) {
	net, err := catalog.Build(c.Param("name"))
	if err != nil {
		s.fail(c, statusFor(err), err)
		return nil, false
	}
	return net, true
}

// loadWithEvidence builds the network and the case of an EvidenceRequest.
// An empty body means no evidence.
func (s *Server) loadWithEvidence(c *gin.Context) (*network.ProbNet, *evidence.Case, bool) {
	var req EvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(c, http.StatusBadRequest, err)
		return nil, nil, false
	}
	net, ok := s.loadNetwork(c)
	if !ok {
		return nil, nil, false
	}
	ev, err := parseCase(net, req.Evidence)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return nil, nil, false
	}
	return net, ev, true
}

// fail records err on the request span and aborts with an ErrorResponse.
func (s *Server) fail(c *gin.Context, status int, err error) {
	ctx := c.Request.Context()
	_ = c.Error(err)
	telemetry.RecordError(trace.SpanFromContext(ctx), err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), TraceID: telemetry.TraceID(ctx)})
}

// parseCase resolves the findings in name order so errors are stable.
func parseCase(net *network.ProbNet, values map[string]string) (*evidence.Case, error) {
	findings := make([]evidence.Finding, 0, len(values))
	for _, name := range slices.Sorted(maps.Keys(values)) {
		v, err := net.Variable(name)
		if err != nil {
			return nil, fmt.Errorf("evidence %s: %w", name, err)
		}
		f, err := evidence.ParseFinding(v, values[name])
		if err != nil {
			return nil, fmt.Errorf("evidence %s: %w", name, err)
		}
		findings = append(findings, f)
	}
	return evidence.NewCaseWith(findings...)
}

func nodeInfos(nodes []*network.Node) []NodeInfo {
	out := make([]NodeInfo, len(nodes))
	for i, n := range nodes {
		info := NodeInfo{
			Name:   n.Name(),
			Type:   n.Type().String(),
			Kind:   n.Variable().Type().String(),
			States: n.Variable().StateNames(),
		}
		for _, p := range n.Parents() {
			info.Parents = append(info.Parents, p.Name())
		}
		for _, p := range n.Potentials() {
			info.Potentials = append(info.Potentials, p.String())
		}
		out[i] = info
	}
	return out
}

// findingValue is the state name, or the number for numeric variables.
func findingValue(f evidence.Finding) string {
	if s, err := f.State(); err == nil {
		return s.Name
	}
	if x, ok := f.NumericalValue(); ok {
		return fmt.Sprint(x)
	}
	return ""
}
