// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry installs the OpenTelemetry providers used by astkit.
//
// The parse and walk packages create their tracers and meters through the
// otel globals; until Init runs they are no-ops. Init swaps in real
// providers chosen by Config:
//
//   - traces: "stdout" (pretty JSON on stderr), "otlp" (gRPC) or "none"
//   - metrics: "prometheus" (a private registry), "stdout" or "none"
//
// The CLI is short-lived, so there is no /metrics endpoint. Instead
// WriteTextfile dumps the Prometheus registry in the node-exporter textfile
// format at exit.
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
// # Thread Safety
//
// Init should be called once at startup. WriteTextfile and the span
// helpers are safe for concurrent use.
package telemetry

import "errors"

var (
	// ErrNilContext is returned when a nil context is passed to Init.
	ErrNilContext = errors.New("telemetry: nil context")

	// ErrUnknownExporter is returned for an unrecognized exporter name.
	ErrUnknownExporter = errors.New("telemetry: unknown exporter")

	// ErrNoRegistry is returned by WriteTextfile when the Prometheus
	// exporter is not active.
	ErrNoRegistry = errors.New("telemetry: prometheus exporter not initialized")
)
