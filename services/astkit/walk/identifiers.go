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
	"strings"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// ScopeTable counts, per name, how many enclosing scope layers currently
// declare it. A name is local while its count is positive; names whose count
// drops to zero are deleted.
type ScopeTable map[string]int

// Has reports whether name is declared by an enclosing layer.
func (t ScopeTable) Has(name string) bool {
	return t[name] > 0
}

func (t ScopeTable) mark(name string) {
	t[name]++
}

func (t ScopeTable) unmark(name string) {
	if t[name] <= 1 {
		delete(t, name)
		return
	}
	t[name]--
}

// IdentifierFunc receives one identifier occurrence.
//
// Inputs:
//
//	id          - The Identifier or JSXIdentifier node.
//	parent      - Its parent, or nil when id is the walk root.
//	parentStack - Ancestors, root first. Only valid during the call.
//	isReference - Whether id reads a binding (see ast.IsReferencedIdentifier).
//	isLocal     - Whether an enclosing scope layer declares id's name.
type IdentifierFunc func(id, parent *ast.Node, parentStack []*ast.Node, isReference, isLocal bool)

// IdentifierOption configures WalkIdentifiers.
type IdentifierOption func(*identifierConfig)

type identifierConfig struct {
	includeAll  bool
	parentStack []*ast.Node
	knownIDs    ScopeTable
}

// WithIncludeAll reports every identifier occurrence, not only free
// references.
func WithIncludeAll(includeAll bool) IdentifierOption {
	return func(c *identifierConfig) {
		c.includeAll = includeAll
	}
}

// WithParentStack starts the walk below the given ancestors, root first. The
// slice is copied.
func WithParentStack(stack []*ast.Node) IdentifierOption {
	return func(c *identifierConfig) {
		c.parentStack = stack
	}
}

// WithKnownIDs seeds the walk with names already bound by the caller's
// context. The table is updated in place and returns to its initial
// contents when the walk finishes.
func WithKnownIDs(known ScopeTable) IdentifierOption {
	return func(c *identifierConfig) {
		c.knownIDs = known
	}
}

// WalkIdentifiers reports identifier occurrences under root, classified as
// references or not and as local or not.
//
// Description:
//
//	By default only free references are reported: identifiers that read
//	a binding not declared by any enclosing scope inside the walk (or in
//	the seeded known IDs). WithIncludeAll reports every occurrence.
//
//	Scope layers are opened on entry to and closed on leave of:
//	  - functions: their parameters, plus the name of a named function
//	    expression;
//	  - blocks, including function bodies: their let/const/var/function/
//	    class declarations, so parameter defaults never see body names;
//	  - catch clauses: their parameter;
//	  - for/for-in/for-of: their let/const loop variables.
//	The names each scope node contributed are cached in ast.Node.ScopeIDs
//	and reused by later walks.
//
//	Children of TypeScript-only constructs are not visited, except the
//	runtime expression inside "as", "satisfies", "!", "<T>x" and "x<T>".
//	JSX namespaced names ("svg:circle") are never reported. Inside object
//	patterns each ObjectProperty gets Extra["inPattern"] = true, and the
//	key of a shorthand property is not reported separately from its value.
//
// Inputs:
//
//	root         - Tree to walk.
//	onIdentifier - Receives occurrences in document order.
//	opts         - WithIncludeAll, WithParentStack, WithKnownIDs.
//
// Example:
//
//	walk.WalkIdentifiers(fn, func(id, parent *ast.Node, _ []*ast.Node, isRef, isLocal bool) {
//	    free = append(free, id.Name)
//	})
//
// Thread Safety:
//
//	Writes scope caches and annotations into the tree; not safe for
//	concurrent use on the same tree.
func WalkIdentifiers(root *ast.Node, onIdentifier IdentifierFunc, opts ...IdentifierOption) {
	if root == nil {
		return
	}
	cfg := identifierConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	known := cfg.knownIDs
	if known == nil {
		known = ScopeTable{}
	}
	stack := append([]*ast.Node(nil), cfg.parentStack...)
	opened := make(map[*ast.Node]bool)
	var surfaced int64

	w := &walker{ctx: context.Background()}
	w.enter = func(_ context.Context, c *Context, node, parent *ast.Node, _ string, _ int) error {
		if parent != nil {
			stack = append(stack, parent)
		}
		if parent != nil && strings.HasPrefix(parent.Type, "TS") && !ast.IsTSExpressionType(parent.Type) {
			c.Skip()
			return nil
		}

		switch {
		case node.Type == ast.TypeJSXNamespacedName:
			c.Skip()

		case ast.IsIdentifier(node):
			if isShorthandKey(node, parent) {
				return nil
			}
			isLocal := known.Has(node.Name)
			isRef := ast.IsReferencedIdentifier(node, parent, stack)
			if cfg.includeAll || (isRef && !isLocal) {
				surfaced++
				onIdentifier(node, parent, stack, isRef, isLocal)
			}

		case node.Type == ast.TypeObjectProperty && parent.Is(ast.TypeObjectPattern):
			node.SetExtra("inPattern", true)

		case ast.IsFunctionType(node):
			opened[node] = true
			if node.ScopeIDs != nil {
				markAll(node, known)
				return nil
			}
			WalkFunctionParams(node, func(id *ast.Node) {
				markScopeIdentifier(node, id, known)
			})
			if node.Type == ast.TypeFunctionExpression {
				if id := node.Get("id"); id.Is(ast.TypeIdentifier) {
					markScopeIdentifier(node, id, known)
				}
			}

		case node.Type == ast.TypeBlockStatement:
			opened[node] = true
			if node.ScopeIDs != nil {
				markAll(node, known)
				return nil
			}
			WalkBlockDeclarations(node, func(id *ast.Node) {
				markScopeIdentifier(node, id, known)
			})

		case node.Type == ast.TypeCatchClause && node.Get("param") != nil:
			opened[node] = true
			if node.ScopeIDs != nil {
				markAll(node, known)
				return nil
			}
			for _, id := range ast.ExtractIdentifiers(node.Get("param"), nil) {
				markScopeIdentifier(node, id, known)
			}

		case ast.IsForStatement(node):
			opened[node] = true
			if node.ScopeIDs != nil {
				markAll(node, known)
				return nil
			}
			walkForStatement(node, false, func(id *ast.Node) {
				markScopeIdentifier(node, id, known)
			})
		}
		return nil
	}
	w.leave = func(_ context.Context, _ *Context, node, parent *ast.Node, _ string, _ int) error {
		if parent != nil {
			stack = stack[:len(stack)-1]
		}
		if opened[node] {
			delete(opened, node)
			for _, name := range node.ScopeIDs {
				known.unmark(name)
			}
		}
		return nil
	}

	_, _ = w.run(root)
	recordWalk(w.ctx, walkerIdentifiers, w.visited, false)
	recordIdentifiers(w.ctx, surfaced)
}

// isShorthandKey reports whether id is the key of "{ id }" or "{ id = 1 }",
// whose value slot holds its own copy of the same name.
func isShorthandKey(id, parent *ast.Node) bool {
	return parent.Is(ast.TypeObjectProperty) && parent.Shorthand && !parent.Computed &&
		parent.Get("key") == id && parent.Get("value") != nil && parent.Get("value") != id
}

// WalkFunctionParams calls onIdent for every identifier bound by fn's
// parameters, in order.
func WalkFunctionParams(fn *ast.Node, onIdent func(id *ast.Node)) {
	for _, p := range fn.GetList("params") {
		for _, id := range ast.ExtractIdentifiers(p, nil) {
			onIdent(id)
		}
	}
}

// WalkBlockDeclarations calls onIdent for every name declared directly in
// block's body: variable declarations of any kind (except "declare"),
// function and class declarations with an id (except "declare"), and var
// loop variables of for statements. Nested blocks are not searched.
//
// block is a BlockStatement, Program, StaticBlock or anything else with a
// "body" list.
func WalkBlockDeclarations(block *ast.Node, onIdent func(id *ast.Node)) {
	for _, stmt := range block.GetList("body") {
		if stmt == nil {
			continue
		}
		switch {
		case stmt.Type == ast.TypeVariableDeclaration:
			if stmt.Declare {
				continue
			}
			for _, decl := range stmt.GetList("declarations") {
				for _, id := range ast.ExtractIdentifiers(decl.Get("id"), nil) {
					onIdent(id)
				}
			}
		case stmt.Type == ast.TypeFunctionDeclaration || stmt.Type == ast.TypeClassDeclaration:
			if stmt.Declare || stmt.Get("id") == nil {
				continue
			}
			onIdent(stmt.Get("id"))
		case ast.IsForStatement(stmt):
			walkForStatement(stmt, true, onIdent)
		}
	}
}

// walkForStatement reports the loop variables of a for/for-in/for-of head:
// var declarations when isVar is true, let/const/using otherwise.
func walkForStatement(stmt *ast.Node, isVar bool, onIdent func(id *ast.Node)) {
	variable := stmt.Get("left")
	if stmt.Type == ast.TypeForStatement {
		variable = stmt.Get("init")
	}
	if !variable.Is(ast.TypeVariableDeclaration) {
		return
	}
	if (variable.Kind == "var") != isVar {
		return
	}
	for _, decl := range variable.GetList("declarations") {
		for _, id := range ast.ExtractIdentifiers(decl.Get("id"), nil) {
			onIdent(id)
		}
	}
}

func markAll(node *ast.Node, known ScopeTable) {
	for _, name := range node.ScopeIDs {
		known.mark(name)
	}
}

// markScopeIdentifier adds id's name to node's layer, once per layer.
func markScopeIdentifier(node, id *ast.Node, known ScopeTable) {
	if node.AddScopeID(id.Name) {
		known.mark(id.Name)
	}
}
