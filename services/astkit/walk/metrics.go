// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package walk

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for tree walks.
var (
	tracer = otel.Tracer("astkit.walk")
	meter  = otel.Meter("astkit.walk")
)

// Walker names used as the "walker" metric attribute.
const (
	walkerSync        = "sync"
	walkerAsync       = "async"
	walkerIdentifiers = "identifiers"
	walkerScopes      = "scopes"
)

var (
	walksTotal         metric.Int64Counter
	nodesVisited       metric.Int64Counter
	identifiersSurface metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		walksTotal, err = meter.Int64Counter(
			"astkit_walk_total",
			metric.WithDescription("Total number of tree walks"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesVisited, err = meter.Int64Counter(
			"astkit_walk_nodes_total",
			metric.WithDescription("Total number of nodes entered by tree walks"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		identifiersSurface, err = meter.Int64Counter(
			"astkit_identifiers_surfaced_total",
			metric.WithDescription("Identifiers reported to identifier-walk callbacks"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordWalk records one finished walk.
func recordWalk(ctx context.Context, walker string, visited int64, failed bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("walker", walker),
		attribute.Bool("success", !failed),
	)
	walksTotal.Add(ctx, 1, attrs)
	nodesVisited.Add(ctx, visited, metric.WithAttributes(attribute.String("walker", walker)))
}

// recordIdentifiers records how many identifiers one identifier walk surfaced.
func recordIdentifiers(ctx context.Context, surfaced int64) {
	if err := initMetrics(); err != nil {
		return
	}
	identifiersSurface.Add(ctx, surfaced)
}

// startAsyncSpan creates a span covering an asynchronous walk.
func startAsyncSpan(ctx context.Context, rootType string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "walk.WalkAsync",
		trace.WithAttributes(attribute.String("walk.root_type", rootType)),
	)
}
