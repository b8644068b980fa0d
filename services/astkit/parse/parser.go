// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package parse turns JavaScript and TypeScript source into ast trees.
//
// Parsing is done with tree-sitter; the concrete syntax tree is converted
// into Babel-shaped ast.Node values so that the walk package and the ast
// predicates can work on it.
package parse

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// Result is the outcome of a parse.
type Result struct {
	// Program is the root node. For ParseExpression it is the expression.
	Program *ast.Node `json:"program"`

	// Comments lists every comment in source order.
	Comments []ast.Comment `json:"comments"`

	// Errors holds syntax diagnostics. It is only non-empty when error
	// recovery is enabled; otherwise Parse fails instead.
	Errors []*ParseError `json:"errors,omitempty"`

	// Options are the parsing options derived from the language.
	Options Options `json:"options"`

	// Hash is the hex SHA-256 of the source.
	Hash string `json:"hash"`

	// NodeCount is the number of ast nodes created.
	NodeCount int `json:"nodeCount"`
}

// Parse parses a whole module.
//
// Description:
//
//	The language comes from WithLanguage, or from WithFilename's
//	extension, and defaults to JavaScript with JSX. The program always
//	has sourceType "module".
//
// Inputs:
//   - ctx: Context for cancellation and tracing. Must not be nil.
//   - code: The source text. Must be valid UTF-8.
//   - opts: Parse options.
//
// Outputs:
//   - *Result: The tree, comments and diagnostics.
//   - error: ErrFileTooLarge, ErrInvalidContent, a context error, or
//     *SyntaxErrors (matching ErrParseFailed) when the source has syntax
//     errors and recovery is off.
//
// Example:
//
//	res, err := parse.Parse(ctx, src, parse.WithFilename("app.tsx"))
//	if err != nil {
//	    return err
//	}
//	walk.WalkIdentifiers(res.Program, onIdentifier)
//
// Thread Safety: Safe for concurrent use. A new tree-sitter parser is
// created per call.
func Parse(ctx context.Context, code string, opts ...Option) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	cfg := newConfig(opts)
	if cfg.cache != nil {
		return cfg.cache.parse(ctx, code, cfg)
	}
	return parseSource(ctx, code, cfg, false)
}

// ParseExpression parses code as a single expression.
//
// Description:
//
//	The input is parsed as if it were wrapped in parentheses, so "{}" is
//	an object literal. Positions are relative to the input. Anything that
//	is not exactly one expression fails with ErrNotExpression. The cache
//	option is ignored.
//
// Example:
//
//	res, _ := parse.ParseExpression(ctx, "a?.b(c)")
//	res.Program.Type // "OptionalCallExpression"
func ParseExpression(ctx context.Context, code string, opts ...Option) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return parseSource(ctx, code, newConfig(opts), true)
}

// parseSource runs the instrumented parse of code.
func parseSource(ctx context.Context, code string, cfg config, expression bool) (*Result, error) {
	options := ParserOptions(cfg.lang)
	ctx, span := startParseSpan(ctx, options.Grammar, cfg.filename, len(code))
	defer span.End()

	start := time.Now()
	result, err := convertSource(ctx, code, cfg, options, expression)
	recordParseMetrics(ctx, options.Grammar, time.Since(start), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	setParseSpanResult(span, result.NodeCount, len(result.Errors))
	return result, nil
}

// checkSize rejects code longer than the configured limit.
func checkSize(code string, cfg config) error {
	if int64(len(code)) > cfg.maxFileSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(code), cfg.maxFileSize)
	}
	return nil
}

func convertSource(ctx context.Context, code string, cfg config, options Options, expression bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if err := checkSize(code, cfg); err != nil {
		return nil, err
	}
	if len(code) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", cfg.filename),
			slog.Int("size_bytes", len(code)))
	}
	if !utf8.ValidString(code) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	hash := sha256.Sum256([]byte(code))
	src := []byte(code)
	shift := 0
	if expression {
		src = []byte("(" + code + "\n)")
		shift = 1
	}

	parser := sitter.NewParser()
	parser.SetLanguage(options.language())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: tree-sitter: %w", ErrParseFailed, err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: tree-sitter returned nil root node", ErrParseFailed)
	}

	c := newConverter(src, cfg.filename, shift)
	c.scan(root)
	if len(c.errors) == 0 && root.HasError() {
		c.addDiagnostic(root, "syntax error")
	}
	if len(c.errors) > 0 && !cfg.errorRecovery {
		return nil, &SyntaxErrors{Errors: c.errors}
	}

	var program *ast.Node
	if expression {
		program, err = c.expression(root)
		if err != nil {
			return nil, err
		}
	} else {
		program = c.program(root)
	}

	if c.comments == nil {
		c.comments = []ast.Comment{}
	}
	return &Result{
		Program:   program,
		Comments:  c.comments,
		Errors:    c.errors,
		Options:   options,
		Hash:      hex.EncodeToString(hash[:]),
		NodeCount: c.nodes,
	}, nil
}

// expression unwraps the synthetic parentheses around a ParseExpression
// input.
func (c *converter) expression(root *sitter.Node) (*ast.Node, error) {
	stmts := named(root)
	if len(stmts) != 1 || stmts[0].Type() != "expression_statement" {
		return nil, fmt.Errorf("%w: found %d statements", ErrNotExpression, len(stmts))
	}
	paren := firstNamed(stmts[0])
	if paren == nil || paren.Type() != "parenthesized_expression" ||
		paren.StartByte() != 0 || int(paren.EndByte()) != len(c.src) {
		return nil, ErrNotExpression
	}
	inner := firstNamed(paren)
	if inner == nil {
		return nil, ErrNotExpression
	}
	out := c.expr(inner)
	if out == nil {
		return nil, ErrNotExpression
	}
	return out, nil
}
