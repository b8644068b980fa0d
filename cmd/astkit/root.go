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
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/astkit/cmd/astkit/config"
	"github.com/AleutianAI/astkit/pkg/logging"
	"github.com/AleutianAI/astkit/services/astkit/parse"
	"github.com/AleutianAI/astkit/services/astkit/telemetry"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	flags rootFlags

	cfg        config.Config
	configPath string
	runID      string
	logger     *logging.Logger
	cache      *parse.Cache
	shutdown   func(context.Context) error
}

type rootFlags struct {
	configPath      string
	logLevel        string
	format          string
	color           string
	traceExporter   string
	metricsTextfile string
	lang            string
	errorRecovery   bool
}

// newRootCmd builds the command tree writing results to stdout and logs
// to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "astkit",
		Short: "Inspect identifiers, bindings and scopes of JavaScript and TypeScript files",
		Long: `astkit parses JavaScript and TypeScript (including JSX and declaration
files) and reports how identifiers are used: free references, declarations,
import/export bindings and lexical scopes.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "path to astkit.yaml (default ./astkit.yaml, then ~/.astkit/astkit.yaml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&a.flags.format, "format", "o", "", "output format: text, json, yaml")
	pf.StringVar(&a.flags.color, "color", "", "colorize text output: auto, always, never")
	pf.StringVar(&a.flags.traceExporter, "trace-exporter", "", "trace exporter: none, stdout, otlp")
	pf.StringVar(&a.flags.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	pf.StringVar(&a.flags.lang, "lang", "", "force the language: js, jsx, ts, tsx, dts")
	pf.BoolVar(&a.flags.errorRecovery, "recover", false, "analyze files with syntax errors instead of failing them")

	root.AddCommand(
		a.newRefsCmd(),
		a.newIdentsCmd(),
		a.newBindingsCmd(),
		a.newScopesCmd(),
		a.newLangCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and starts logging and
// telemetry. On failure everything it started is stopped again.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, path, err := config.Load(a.flags.configPath)
	if err != nil {
		return &ExitError{Code: CLIExitError, Wrapped: err}
	}
	a.applyFlags(cmd, &cfg)
	if err := config.Validate(cfg); err != nil {
		return &ExitError{Code: CLIExitError, Wrapped: err}
	}
	a.cfg = cfg
	a.configPath = path

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return &ExitError{Code: CLIExitError, Wrapped: err}
	}
	a.runID = uuid.NewString()
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Log.Dir,
		Service: "astkit",
		JSON:    cfg.Log.JSON,
		Quiet:   cfg.Log.Quiet,
		Writer:  a.stderr,
	}).With("run_id", a.runID)
	slog.SetDefault(a.logger.Slog())

	telCfg := cfg.TelemetryConfig(version)
	telCfg.Writer = a.stderr
	a.shutdown, err = telemetry.Init(cmd.Context(), telCfg)
	if err != nil {
		_ = a.logger.Close()
		return &ExitError{Code: CLIExitError, Wrapped: fmt.Errorf("init telemetry: %w", err)}
	}

	if cfg.Parse.CacheCapacity > 0 {
		a.cache = parse.NewCache(parse.WithCapacity(cfg.Parse.CacheCapacity))
	}

	source := path
	if source == "" {
		source = "defaults"
	}
	a.logger.Debug("configuration loaded",
		"command", cmd.Name(),
		"config", source,
		"format", cfg.Output.Format,
		"trace_exporter", cfg.Telemetry.TraceExporter,
		"metric_exporter", cfg.Telemetry.MetricExporter,
	)
	return nil
}

// applyFlags copies explicitly set persistent flags over cfg.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if flags.Changed("format") {
		cfg.Output.Format = a.flags.format
	}
	if flags.Changed("color") {
		cfg.Output.Color = a.flags.color
	}
	if flags.Changed("trace-exporter") {
		cfg.Telemetry.TraceExporter = a.flags.traceExporter
	}
	if flags.Changed("metrics-textfile") {
		cfg.Telemetry.MetricsTextfile = a.flags.metricsTextfile
	}
	if flags.Changed("lang") {
		cfg.Parse.Language = a.flags.lang
	}
	if flags.Changed("recover") {
		cfg.Parse.ErrorRecovery = a.flags.errorRecovery
	}
}

// teardown writes the metrics textfile, flushes telemetry and closes the
// log file.
func (a *app) teardown(ctx context.Context) error {
	var errs []error
	if path := a.cfg.Telemetry.MetricsTextfile; path != "" {
		err := telemetry.WriteTextfile(path)
		switch {
		case errors.Is(err, telemetry.ErrNoRegistry):
			a.logger.Warn("metrics textfile skipped, prometheus exporter disabled", "path", path)
		case err != nil:
			errs = append(errs, err)
		default:
			a.logger.Debug("metrics written", "path", path)
		}
	}
	if a.shutdown != nil {
		// The command context may already be canceled by a signal.
		if err := a.shutdown(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
		}
	}
	if a.cache != nil {
		stats := a.cache.Stats()
		a.logger.Debug("parse cache", "hits", stats.Hits, "misses", stats.Misses, "evictions", stats.Evictions)
	}
	if err := a.logger.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// run adapts a subcommand body into a cobra RunE that always tears down.
func (a *app) run(body func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		defer func() {
			if tErr := a.teardown(ctx); tErr != nil && err == nil {
				err = &ExitError{Code: CLIExitError, Wrapped: tErr}
			}
		}()
		return body(ctx, args)
	}
}

// parseOptions returns the parse options for path under the active
// configuration.
func (a *app) parseOptions(path string) []parse.Option {
	opts := []parse.Option{
		parse.WithFilename(path),
		parse.WithErrorRecovery(a.cfg.Parse.ErrorRecovery),
		parse.WithMaxFileSize(a.cfg.Parse.MaxFileSize),
	}
	if a.cfg.Parse.Language != "" {
		opts = append(opts, parse.WithLanguage(a.cfg.Parse.Language))
	}
	if a.cache != nil {
		opts = append(opts, parse.WithCache(a.cache))
	}
	return opts
}
