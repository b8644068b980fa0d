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
	"fmt"
	"os"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/astkit/services/astkit/ast"
	"github.com/AleutianAI/astkit/services/astkit/parse"
	"github.com/AleutianAI/astkit/services/astkit/telemetry"
	"github.com/AleutianAI/astkit/services/astkit/walk"
)

// Identifier is one reported identifier occurrence.
type Identifier struct {
	Name      string `json:"name" yaml:"name"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	Parent    string `json:"parent" yaml:"parent"`
	Reference bool   `json:"reference" yaml:"reference"`
	Local     bool   `json:"local" yaml:"local"`
}

// ScopeReport describes one lexical scope.
type ScopeReport struct {
	Kind  string   `json:"kind" yaml:"kind"` // root, function or block
	Node  string   `json:"node,omitempty" yaml:"node,omitempty"`
	Line  int      `json:"line,omitempty" yaml:"line,omitempty"`
	Depth int      `json:"depth" yaml:"depth"`
	Names []string `json:"names" yaml:"names"`
}

// LangReport is the language detection result for one file.
type LangReport struct {
	Lang    string        `json:"lang" yaml:"lang"`
	IsTS    bool          `json:"isTs" yaml:"isTs"`
	IsDTS   bool          `json:"isDts" yaml:"isDts"`
	Options parse.Options `json:"options" yaml:"options"`
}

// FileReport is the per-file result of any subcommand. Only the section
// belonging to the subcommand is filled.
type FileReport struct {
	File        string               `json:"file" yaml:"file"`
	Lang        string               `json:"lang,omitempty" yaml:"lang,omitempty"`
	Hash        string               `json:"hash,omitempty" yaml:"hash,omitempty"`
	Identifiers []Identifier         `json:"identifiers,omitempty" yaml:"identifiers,omitempty"`
	Imports     []walk.ImportBinding `json:"imports,omitempty" yaml:"imports,omitempty"`
	Exports     []walk.ExportBinding `json:"exports,omitempty" yaml:"exports,omitempty"`
	Scopes      []ScopeReport        `json:"scopes,omitempty" yaml:"scopes,omitempty"`
	Language    *LangReport          `json:"language,omitempty" yaml:"language,omitempty"`
	Diagnostics []string             `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Error       string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the file could not be analyzed.
func (r FileReport) Failed() bool {
	return r.Error != ""
}

// analyzer fills the subcommand's section of rep from a parsed file.
type analyzer func(ctx context.Context, res *parse.Result, rep *FileReport) error

// analyzeFiles parses and analyzes paths concurrently, at most
// Parse.Concurrency at a time. Reports come back in argument order.
// Per-file failures are recorded in the report; only cancellation fails
// the whole run.
func (a *app) analyzeFiles(ctx context.Context, paths []string, fn analyzer) ([]FileReport, error) {
	reports := make([]FileReport, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Parse.Concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			reports[i] = a.analyzeFile(gCtx, path, fn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, fmt.Errorf("analysis canceled: %w", err)
	}
	return reports, nil
}

// analyzeFile reads, parses and analyzes one file.
func (a *app) analyzeFile(ctx context.Context, path string, fn analyzer) FileReport {
	ctx, span := telemetry.StartSpan(ctx, "astkit.cli", "cli.analyzeFile",
		trace.WithAttributes(attribute.String("file", path)))
	defer span.End()
	logger := telemetry.LoggerWithTrace(ctx, a.logger.Slog()).With("file", path)

	rep := FileReport{File: path}
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Error("failed to read file", "error", err)
		rep.Error = err.Error()
		return rep
	}

	res, err := parse.Parse(ctx, string(data), a.parseOptions(path)...)
	if err != nil {
		telemetry.RecordError(span, err)
		if parse.IsSyntaxError(err) {
			logger.Warn("syntax errors", "error", err)
		} else {
			logger.Error("failed to parse file", "error", err)
		}
		rep.Error = err.Error()
		return rep
	}
	rep.Lang = res.Options.Lang
	rep.Hash = res.Hash
	for _, d := range res.Errors {
		rep.Diagnostics = append(rep.Diagnostics, d.Error())
	}

	if err := fn(ctx, res, &rep); err != nil {
		telemetry.RecordError(span, err)
		logger.Error("analysis failed", "error", err)
		rep.Error = err.Error()
		return rep
	}

	logger.Debug("file analyzed",
		"lang", rep.Lang,
		"nodes", res.NodeCount,
		"diagnostics", len(rep.Diagnostics),
		"duration", time.Since(start),
	)
	return rep
}

// knownIDs seeds a fresh scope table from Walk.KnownIDs. Each file gets
// its own table because walks mutate it.
func (a *app) knownIDs() walk.ScopeTable {
	known := make(walk.ScopeTable, len(a.cfg.Walk.KnownIDs))
	for _, name := range a.cfg.Walk.KnownIDs {
		known[name]++
	}
	return known
}

// identifiers collects identifier occurrences. includeAll selects every
// occurrence instead of free references only.
func (a *app) identifiers(includeAll bool) analyzer {
	return func(_ context.Context, res *parse.Result, rep *FileReport) error {
		rep.Identifiers = []Identifier{}
		walk.WalkIdentifiers(res.Program, func(id, parent *ast.Node, _ []*ast.Node, isRef, isLocal bool) {
			item := Identifier{
				Name:      id.Name,
				Reference: isRef,
				Local:     isLocal,
			}
			if parent != nil {
				item.Parent = parent.Type
			}
			if id.Loc != nil {
				item.Line = id.Loc.Start.Line
				item.Column = id.Loc.Start.Column
			}
			rep.Identifiers = append(rep.Identifiers, item)
		}, walk.WithIncludeAll(includeAll), walk.WithKnownIDs(a.knownIDs()))
		return nil
	}
}

// bindings builds the import and export tables of the top-level
// statements.
func bindings(_ context.Context, res *parse.Result, rep *FileReport) error {
	imports := make(map[string]walk.ImportBinding)
	exports := make(map[string]walk.ExportBinding)
	for _, stmt := range res.Program.GetList("body") {
		if stmt == nil {
			continue
		}
		switch stmt.Type {
		case ast.TypeImportDeclaration:
			if err := walk.WalkImportDeclaration(imports, stmt); err != nil {
				return err
			}
		case ast.TypeExportNamedDeclaration, ast.TypeExportDefaultDeclaration, ast.TypeExportAllDeclaration:
			if err := walk.WalkExportDeclaration(exports, stmt); err != nil {
				return err
			}
		}
	}

	rep.Imports = make([]walk.ImportBinding, 0, len(imports))
	for _, b := range imports {
		rep.Imports = append(rep.Imports, b)
	}
	sort.Slice(rep.Imports, func(i, j int) bool { return rep.Imports[i].Local < rep.Imports[j].Local })

	rep.Exports = make([]walk.ExportBinding, 0, len(exports))
	for _, b := range exports {
		rep.Exports = append(rep.Exports, b)
	}
	sort.Slice(rep.Exports, func(i, j int) bool { return rep.Exports[i].Exported < rep.Exports[j].Exported })
	return nil
}

// scopes dumps the attached scope tree in opening order.
func scopes(_ context.Context, res *parse.Result, rep *FileReport) error {
	tree := walk.AttachScopes(res.Program)
	for _, s := range tree.Scopes() {
		item := ScopeReport{Kind: "root", Names: s.Names()}
		switch {
		case s.Parent == nil:
		case s.IsBlockScope:
			item.Kind = "block"
		default:
			item.Kind = "function"
		}
		for p := s.Parent; p != nil; p = p.Parent {
			item.Depth++
		}
		if s.Node != nil {
			item.Node = s.Node.Type
			if s.Node.Loc != nil {
				item.Line = s.Node.Loc.Start.Line
			}
		}
		rep.Scopes = append(rep.Scopes, item)
	}
	return nil
}

// detectLang reports the language of path without reading it.
func (a *app) detectLang(path string) FileReport {
	lang := a.cfg.Parse.Language
	if lang == "" {
		lang = ast.GetLang(path)
	}
	return FileReport{
		File: path,
		Lang: lang,
		Language: &LangReport{
			Lang:    lang,
			IsTS:    ast.IsTs(lang),
			IsDTS:   ast.IsDts(path),
			Options: parse.ParserOptions(lang),
		},
	}
}
