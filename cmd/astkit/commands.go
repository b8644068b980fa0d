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
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func (a *app) newRefsCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "refs FILE...",
		Short: "List free references: identifiers read from outside the file's own scopes",
		Example: `  astkit refs src/app.js
  astkit refs --watch src/*.ts
  astkit refs -o json lib/index.tsx`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-analyze files whenever they change")
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		analyze := a.identifiers(a.cfg.Walk.IncludeAll)
		if watch {
			return a.watch(ctx, "refs", args, analyze)
		}
		return a.analyzeCommand(ctx, "refs", args, analyze)
	})
	return cmd
}

func (a *app) newIdentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idents FILE...",
		Short: "List every identifier with its reference and local classification",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		return a.analyzeCommand(ctx, "idents", args, a.identifiers(true))
	})
	return cmd
}

func (a *app) newBindingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bindings FILE...",
		Short:   "Show the import and export binding tables of modules",
		Example: `  astkit bindings -o yaml src/index.ts`,
		Args:    cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		return a.analyzeCommand(ctx, "bindings", args, bindings)
	})
	return cmd
}

func (a *app) newScopesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scopes FILE",
		Short: "Dump the lexical scopes of a file and the names each declares",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		return a.analyzeCommand(ctx, "scopes", args, scopes)
	})
	return cmd
}

func (a *app) newLangCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang FILE...",
		Short: "Show the detected language and parser features of files",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(_ context.Context, args []string) error {
		start := time.Now()
		reports := make([]FileReport, len(args))
		for i, path := range args {
			reports[i] = a.detectLang(path)
		}
		return exitWith(a.writeReports("lang", start, reports))
	})
	return cmd
}

// analyzeCommand runs analyze over paths once and writes the result.
func (a *app) analyzeCommand(ctx context.Context, command string, paths []string, analyze analyzer) error {
	start := time.Now()
	reports, err := a.analyzeFiles(ctx, paths, analyze)
	if err != nil {
		return &ExitError{Code: CLIExitError, Wrapped: err}
	}
	recordRun(ctx, command, reports)
	a.logger.Info("analysis complete",
		"command", command,
		"files", len(reports),
		"failed", countFailed(reports),
		"duration", time.Since(start),
	)
	return exitWith(a.writeReports(command, start, reports))
}

func countFailed(reports []FileReport) int {
	n := 0
	for _, r := range reports {
		if r.Failed() {
			n++
		}
	}
	return n
}

// exitWith turns a non-zero exit code into an *ExitError.
func exitWith(code int) error {
	if code == CLIExitSuccess {
		return nil
	}
	return &ExitError{Code: code}
}

// recordRun counts analyzed and failed files. The counter is looked up per
// run so that it reports to the provider installed for this invocation.
func recordRun(ctx context.Context, command string, reports []FileReport) {
	counter, err := otel.Meter("astkit.cli").Int64Counter(
		"astkit_cli_files_total",
		metric.WithDescription("Files analyzed by the astkit command"),
	)
	if err != nil {
		slog.Debug("cli metrics unavailable", slog.String("error", err.Error()))
		return
	}
	failed := countFailed(reports)
	counter.Add(ctx, int64(len(reports)-failed), metric.WithAttributes(
		attribute.String("command", command), attribute.Bool("failed", false)))
	if failed > 0 {
		counter.Add(ctx, int64(failed), metric.WithAttributes(
			attribute.String("command", command), attribute.Bool("failed", true)))
	}
}
