// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parse

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// File size limits.
const (
	// DefaultMaxFileSize is the largest input Parse accepts by default (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize is the size above which a warning is logged (1MB).
	WarnFileSize = 1 * 1024 * 1024
)

// Grammar names reported by Options.Grammar.
const (
	GrammarJavaScript = "javascript"
	GrammarTypeScript = "typescript"
	GrammarTSX        = "tsx"
)

// Option configures Parse and ParseExpression.
type Option func(*config)

type config struct {
	lang          string
	filename      string
	errorRecovery bool
	cache         *Cache
	maxFileSize   int64
}

func newConfig(opts []Option) config {
	c := config{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&c)
	}
	if c.lang == "" && c.filename != "" {
		c.lang = ast.GetLang(c.filename)
	}
	return c
}

// WithLanguage selects the dialect: "ts", "mts", "cts" and "dts" use the
// TypeScript grammar, "tsx" (and its m/c variants) the TSX grammar, and
// anything else JavaScript with JSX.
func WithLanguage(lang string) Option {
	return func(c *config) {
		c.lang = lang
	}
}

// WithFilename records the file name for diagnostics and, unless
// WithLanguage is also given, derives the language from it.
func WithFilename(name string) Option {
	return func(c *config) {
		c.filename = name
	}
}

// WithErrorRecovery returns trees with syntax errors instead of failing.
// The diagnostics are reported in Result.Errors.
func WithErrorRecovery(enabled bool) Option {
	return func(c *config) {
		c.errorRecovery = enabled
	}
}

// WithCache serves Parse from cache and stores fresh results in it.
func WithCache(cache *Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithMaxFileSize sets the largest input accepted. Non-positive values are
// ignored.
func WithMaxFileSize(bytes int64) Option {
	return func(c *config) {
		if bytes > 0 {
			c.maxFileSize = bytes
		}
	}
}

// Options describes how a language is parsed.
type Options struct {
	// Lang is the language the options were computed for.
	Lang string `json:"lang" yaml:"lang"`

	// Grammar is the tree-sitter grammar used.
	Grammar string `json:"grammar" yaml:"grammar"`

	// TypeScript is true when type syntax is accepted.
	TypeScript bool `json:"typescript" yaml:"typescript"`

	// JSX is true when JSX is accepted.
	JSX bool `json:"jsx" yaml:"jsx"`

	// DTS is true for declaration files.
	DTS bool `json:"dts" yaml:"dts"`

	// Decorators is true when class decorators are accepted.
	Decorators bool `json:"decorators" yaml:"decorators"`

	// SourceType is always "module".
	SourceType string `json:"sourceType" yaml:"sourceType"`
}

// ParserOptions returns the parsing options for lang.
//
// Description:
//
//	TypeScript dialects get type syntax and decorators, plus JSX for the
//	tsx family. Every other language, including "", is JavaScript with
//	JSX enabled.
func ParserOptions(lang string) Options {
	o := Options{Lang: lang, SourceType: "module"}
	if ast.IsTs(lang) {
		o.TypeScript = true
		o.Decorators = true
		o.DTS = lang == ast.LangDTS
		o.JSX = ast.IsJSX(lang)
		o.Grammar = GrammarTypeScript
		if o.JSX {
			o.Grammar = GrammarTSX
		}
		return o
	}
	o.JSX = true
	o.Grammar = GrammarJavaScript
	return o
}

// language returns the tree-sitter grammar for o.
func (o Options) language() *sitter.Language {
	switch o.Grammar {
	case GrammarTypeScript:
		return typescript.GetLanguage()
	case GrammarTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}
