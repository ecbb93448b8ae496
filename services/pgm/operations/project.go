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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
)

// Projection outcomes reported on pgm_projections_total.
const (
	outcomeOK    = "ok"
	outcomeZero  = "zero_probability"
	outcomeError = "error"
)

// ProjectPotentials reduces every potential of net to a table under ev.
//
// Description:
//
//	Potentials are projected concurrently on at most WithWorkers goroutines.
//	The result keeps the order of net.Potentials(); a potential that
//	projects to several tables contributes them in place. Super-value
//	combinators have no table form and are skipped. When a projected
//	probability table is all zero the evidence is impossible and the result
//	is the single shared ZeroProbability table.
//
// Errors:
//
//	potential.ErrNonProjectable - an opaque potential cannot be projected
//	potential.ErrInvalidConfiguration - a finding does not fit its variable
//	context errors - ctx was cancelled
func ProjectPotentials(ctx context.Context, net *network.ProbNet, ev *evidence.Case, opts ...Option) ([]*potential.TablePotential, error) {
	cfg := newConfig(opts)
	ctx, span := startSpan(ctx, "ProjectPotentials", net)
	defer span.End()
	start := time.Now()

	tables, outcome, err := projectPotentials(ctx, net, ev, cfg)
	recordProjectionMetrics(ctx, time.Since(start), outcome)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	cfg.logger.Debug("potentials projected",
		"net", net.Name(),
		"evidence", ev.Len(),
		"tables", len(tables),
		"outcome", outcome,
	)
	return tables, nil
}

func projectPotentials(ctx context.Context, net *network.ProbNet, ev *evidence.Case, cfg config) ([]*potential.TablePotential, string, error) {
	var ps []potential.Potential
	for _, p := range net.Potentials() {
		if p.Kind() == potential.KindCombinator {
			cfg.logger.Debug("skipping super-value potential", "potential", p.String())
			continue
		}
		ps = append(ps, p)
	}

	results := make([][]*potential.TablePotential, len(ps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	popts := cfg.projectOptions()
	for i, p := range ps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tables, err := p.Project(ev, popts, nil)
			if err != nil {
				return fmt.Errorf("projecting %s: %w", p, err)
			}
			results[i] = tables
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, outcomeError, err
	}

	var out []*potential.TablePotential
	for i, tables := range results {
		for _, t := range tables {
			if impossible(ps[i], t) {
				return []*potential.TablePotential{potential.ZeroProbability()}, outcomeZero, nil
			}
			out = append(out, t)
		}
	}
	return out, outcomeOK, nil
}

// impossible reports whether t, projected from p, rules out the evidence.
func impossible(p potential.Potential, t *potential.TablePotential) bool {
	if p.IsUtility() {
		return false
	}
	switch p.Role() {
	case potential.RoleConditionalProbability, potential.RoleJointProbability:
		return t.IsAllZero()
	default:
		return false
	}
}

// ExtendEvidence returns a copy of ev with every finding implied
// deterministically by the potentials of net. The input case is left
// untouched.
//
// Errors:
//
//	evidence.ErrIncompatibleEvidence - the evidence has zero probability or
//	an induced finding contradicts an existing one
func ExtendEvidence(ctx context.Context, net *network.ProbNet, ev *evidence.Case, opts ...Option) (*evidence.Case, []evidence.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	cfg := newConfig(opts)
	_, span := startSpan(ctx, "ExtendEvidence", net)
	defer span.End()

	extended := ev.Copy()
	added, err := extended.Extend(net)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	cfg.logger.Debug("evidence extended", "net", net.Name(), "findings", extended.Len(), "added", len(added))
	return extended, added, nil
}
