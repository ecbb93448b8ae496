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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
)

// Package-level tracer and meter for network operations.
var (
	tracer = otel.Tracer("aleutian.pgm.operations")
	meter  = otel.Meter("aleutian.pgm.operations")
)

var (
	pruneLatency      metric.Float64Histogram
	nodesRemoved      metric.Int64Counter
	sortLatency       metric.Float64Histogram
	projectionLatency metric.Float64Histogram
	projectionsTotal  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		pruneLatency, err = meter.Float64Histogram(
			"pgm_prune_duration_seconds",
			metric.WithDescription("Duration of network pruning"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesRemoved, err = meter.Int64Counter(
			"pgm_nodes_removed_total",
			metric.WithDescription("Nodes removed by pruning, by reason"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		sortLatency, err = meter.Float64Histogram(
			"pgm_sort_duration_seconds",
			metric.WithDescription("Duration of topological sorts"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		projectionLatency, err = meter.Float64Histogram(
			"pgm_projection_duration_seconds",
			metric.WithDescription("Duration of evidence projection of a whole network"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		projectionsTotal, err = meter.Int64Counter(
			"pgm_projections_total",
			metric.WithDescription("Network projections, by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordPruneMetrics(ctx context.Context, duration time.Duration, barren, unreachable int) {
	if err := initMetrics(); err != nil {
		return
	}
	pruneLatency.Record(ctx, duration.Seconds())
	nodesRemoved.Add(ctx, int64(barren), metric.WithAttributes(attribute.String("reason", "barren")))
	nodesRemoved.Add(ctx, int64(unreachable), metric.WithAttributes(attribute.String("reason", "unreachable")))
}

func recordSortMetrics(ctx context.Context, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	sortLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
}

func recordProjectionMetrics(ctx context.Context, duration time.Duration, outcome string) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	projectionLatency.Record(ctx, duration.Seconds(), attrs)
	projectionsTotal.Add(ctx, 1, attrs)
}

// startSpan creates a span for an operation on net.
func startSpan(ctx context.Context, op string, net *network.ProbNet) (context.Context, trace.Span) {
	return tracer.Start(ctx, "operations."+op,
		trace.WithAttributes(
			attribute.String("pgm.net.id", net.ID().String()),
			attribute.String("pgm.net.name", net.Name()),
			attribute.String("pgm.net.type", net.Type().String()),
			attribute.Int("pgm.net.node_count", net.NodeCount()),
		),
	)
}
