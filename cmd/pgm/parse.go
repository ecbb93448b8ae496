// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianPGM/services/pgm/catalog"
	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

func loadNetwork(name string) (*network.ProbNet, error) {
	return catalog.Build(name)
}

// parseEvidence turns "Var=state" pairs into a case. Discretized and
// numeric variables also accept a number.
func parseEvidence(net *network.ProbNet, pairs []string) (*evidence.Case, error) {
	findings := make([]evidence.Finding, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("evidence %q: want VARIABLE=STATE", pair)
		}
		v, err := net.Variable(name)
		if err != nil {
			return nil, fmt.Errorf("evidence %q: %w", pair, err)
		}
		f, err := evidence.ParseFinding(v, value)
		if err != nil {
			return nil, fmt.Errorf("evidence %q: %w", pair, err)
		}
		findings = append(findings, f)
	}
	return evidence.NewCaseWith(findings...)
}

func parseVariables(net *network.ProbNet, names []string) ([]*variable.Variable, error) {
	out := make([]*variable.Variable, 0, len(names))
	for _, name := range names {
		v, err := net.Variable(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseScales reads "criterion=factor" pairs.
func parseScales(pairs []string) (map[string]float64, error) {
	scales := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("scale %q: want CRITERION=FACTOR", pair)
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("scale %q: %w", pair, err)
		}
		scales[name] = f
	}
	return scales, nil
}
