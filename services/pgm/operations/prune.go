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
	"time"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// GetPruned returns a copy of net without the nodes that are irrelevant to
// the variables of interest given ev.
//
// Description:
//
//	Copies net, removes barren nodes, then removes unreachable nodes. The
//	input network is never modified. The copy shares variables and
//	potentials with net.
//
// Inputs:
//
//	ctx - Context for cancellation and tracing.
//	net - The network to prune.
//	interest - Variables whose posterior is wanted.
//	ev - Evidence; may be nil.
//
// Errors:
//
//	context errors - ctx was cancelled before pruning started
func GetPruned(ctx context.Context, net *network.ProbNet, interest []*variable.Variable, ev *evidence.Case, opts ...Option) (*network.ProbNet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	ctx, span := startSpan(ctx, "GetPruned", net)
	defer span.End()
	start := time.Now()

	observed := ev.Variables()
	pruned := net.Copy()
	barren := RemoveBarrenNodes(pruned, interest, observed)
	unreachable := RemoveUnreachableNodes(pruned, interest, observed)

	recordPruneMetrics(ctx, time.Since(start), barren, unreachable)
	cfg.logger.Debug("network pruned",
		"net", net.Name(),
		"nodes_before", net.NodeCount(),
		"barren", barren,
		"unreachable", unreachable,
		"nodes_after", pruned.NodeCount(),
	)
	return pruned, nil
}
