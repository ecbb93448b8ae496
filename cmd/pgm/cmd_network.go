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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianPGM/services/pgm/catalog"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/operations"
)

func (a *app) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the example networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows [][]string
			for _, e := range catalog.Entries() {
				rows = append(rows, []string{e.Name, e.Description})
			}
			a.printer.Title("Example networks")
			a.printer.Table([]string{"NAME", "DESCRIPTION"}, rows)
			return nil
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info NETWORK",
		Short: "Describe the nodes, links and potentials of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork(args[0])
			if err != nil {
				return a.fail(err)
			}
			stats := net.Stats()
			a.printer.Title(net.String())
			a.printer.KeyValue("id", net.ID())
			a.printer.KeyValue("links", stats.LinkCount)
			a.printer.KeyValue("potentials", stats.PotentialCount)
			for _, c := range net.Criteria() {
				a.printer.KeyValue("criterion", c.Name+" ("+c.Unit+")")
			}
			a.printer.Table([]string{"NODE", "TYPE", "STATES", "PARENTS", "POTENTIALS"}, nodeRows(net.Nodes()))
			return nil
		},
	}
}

func nodeRows(nodes []*network.Node) [][]string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		var parents []string
		for _, p := range n.Parents() {
			parents = append(parents, p.Name())
		}
		var ps []string
		for _, p := range n.Potentials() {
			ps = append(ps, p.String())
		}
		rows = append(rows, []string{
			n.Name(),
			n.Type().String(),
			strings.Join(n.Variable().StateNames(), ","),
			strings.Join(parents, ","),
			strings.Join(ps, "; "),
		})
	}
	return rows
}

func (a *app) sortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort NETWORK",
		Short: "Print the nodes in topological order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork(args[0])
			if err != nil {
				return a.fail(err)
			}
			order, err := operations.SortTopologically(cmd.Context(), net, a.options()...)
			if err != nil {
				return a.fail(err)
			}
			rows := make([][]string, len(order))
			for i, n := range order {
				rows[i] = []string{strconv.Itoa(i + 1), n.Name(), n.Type().String()}
			}
			a.printer.Table([]string{"#", "NODE", "TYPE"}, rows)
			return nil
		},
	}
}
