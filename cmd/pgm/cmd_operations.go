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
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/operations"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
)

// withEvidence loads args[0] and the --evidence findings.
func (a *app) withEvidence(name string, pairs []string) (*network.ProbNet, *evidence.Case, error) {
	net, err := loadNetwork(name)
	if err != nil {
		return nil, nil, err
	}
	ev, err := parseEvidence(net, pairs)
	if err != nil {
		return nil, nil, err
	}
	return net, ev, nil
}

func (a *app) pruneCmd() *cobra.Command {
	var interest, pairs []string
	cmd := &cobra.Command{
		Use:   "prune NETWORK --interest VAR [--evidence VAR=STATE]",
		Short: "Remove the nodes irrelevant to the variables of interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, ev, err := a.withEvidence(args[0], pairs)
			if err != nil {
				return a.fail(err)
			}
			vars, err := parseVariables(net, interest)
			if err != nil {
				return a.fail(err)
			}
			pruned, err := operations.GetPruned(cmd.Context(), net, vars, ev, a.options()...)
			if err != nil {
				return a.fail(err)
			}
			a.printer.Title(fmt.Sprintf("%s pruned for %s given %s", net.Name(), strings.Join(interest, ","), ev))
			a.printer.KeyValue("removed", net.NodeCount()-pruned.NodeCount())
			a.printer.Table([]string{"NODE", "TYPE", "STATES", "PARENTS", "POTENTIALS"}, nodeRows(pruned.Nodes()))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&interest, "interest", "i", nil, "variables of interest")
	cmd.Flags().StringSliceVarP(&pairs, "evidence", "e", nil, "findings as VAR=STATE")
	_ = cmd.MarkFlagRequired("interest")
	return cmd
}

func (a *app) extendCmd() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "extend NETWORK --evidence VAR=STATE",
		Short: "Add the findings implied deterministically by the evidence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, ev, err := a.withEvidence(args[0], pairs)
			if err != nil {
				return a.fail(err)
			}
			extended, added, err := operations.ExtendEvidence(cmd.Context(), net, ev, a.options()...)
			if err != nil {
				return a.fail(err)
			}
			induced := make(map[string]bool, len(added))
			for _, f := range added {
				induced[f.Variable().Name()] = true
			}
			var rows [][]string
			for _, f := range extended.Findings() {
				source := "observed"
				if induced[f.Variable().Name()] {
					source = "induced"
				}
				s, _ := f.State()
				rows = append(rows, []string{f.Variable().Name(), s.Name, source})
			}
			a.printer.Table([]string{"VARIABLE", "STATE", "SOURCE"}, rows)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&pairs, "evidence", "e", nil, "findings as VAR=STATE")
	return cmd
}

func (a *app) projectCmd() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "project NETWORK [--evidence VAR=STATE]",
		Short: "Reduce every potential to a table under the evidence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, ev, err := a.withEvidence(args[0], pairs)
			if err != nil {
				return a.fail(err)
			}
			tables, err := operations.ProjectPotentials(cmd.Context(), net, ev, a.options()...)
			if err != nil {
				return a.fail(err)
			}
			if len(tables) == 1 && potential.IsZeroProbability(tables[0]) {
				a.printer.Warning("the evidence has zero probability")
				return nil
			}
			rows := make([][]string, len(tables))
			for i, t := range tables {
				rows[i] = []string{t.String(), fmt.Sprint(t.Size()), formatValues(t.Values())}
			}
			a.printer.Table([]string{"POTENTIAL", "CELLS", "VALUES"}, rows)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&pairs, "evidence", "e", nil, "findings as VAR=STATE")
	return cmd
}

func formatValues(values []float64) string {
	const shown = 8
	parts := make([]string, 0, min(len(values), shown)+1)
	for i, v := range values {
		if i == shown {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%.4g", v))
	}
	return strings.Join(parts, " ")
}

func (a *app) convertCmd() *cobra.Command {
	var pairs, scales []string
	cmd := &cobra.Command{
		Use:   "convert NETWORK [--evidence VAR=VALUE] [--scale CRITERION=FACTOR]",
		Short: "Make discretized variables finite-states and optionally merge criteria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, ev, err := a.withEvidence(args[0], pairs)
			if err != nil {
				return a.fail(err)
			}
			out, converted, err := operations.ConvertNumericalVariablesToFiniteStates(net, ev)
			if err != nil {
				return a.fail(err)
			}
			if len(scales) > 0 {
				factors, err := parseScales(scales)
				if err != nil {
					return a.fail(err)
				}
				if out, err = operations.ConvertToUnicriterion(out, factors); err != nil {
					return a.fail(err)
				}
			}

			var rows [][]string
			for _, v := range out.Variables() {
				rows = append(rows, []string{v.Name(), v.Type().String(), strings.Join(v.StateNames(), ",")})
			}
			a.printer.Table([]string{"VARIABLE", "KIND", "STATES"}, rows)
			if !converted.IsEmpty() {
				a.printer.KeyValue("evidence", converted)
			}
			for _, c := range out.Criteria() {
				a.printer.KeyValue("criterion", c.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&pairs, "evidence", "e", nil, "findings as VAR=STATE or VAR=NUMBER")
	cmd.Flags().StringSliceVar(&scales, "scale", nil, "criterion weights as CRITERION=FACTOR")
	return cmd
}
