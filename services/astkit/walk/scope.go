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
	"sort"
	"strings"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// blockKinds are the declaration kinds scoped to the enclosing block.
var blockKinds = map[string]bool{
	"let":         true,
	"const":       true,
	"using":       true,
	"await using": true,
}

// Scope is one lexical scope of an attached scope tree.
type Scope struct {
	// Parent is the enclosing scope, nil for the root.
	Parent *Scope

	// IsBlockScope is true for block, for and catch scopes; false for
	// function scopes and the root.
	IsBlockScope bool

	// Declarations holds the names declared directly in this scope.
	Declarations map[string]bool

	// Node is the node that opened the scope; nil for the root.
	Node *ast.Node
}

func newScope(parent *Scope, block bool, node *ast.Node, params []*ast.Node) *Scope {
	s := &Scope{
		Parent:       parent,
		IsBlockScope: block,
		Declarations: make(map[string]bool),
		Node:         node,
	}
	for _, p := range params {
		for _, name := range assignedNames(p, nil) {
			s.Declarations[name] = true
		}
	}
	return s
}

// Contains reports whether name is declared in this scope or any ancestor.
func (s *Scope) Contains(name string) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Declarations[name] {
			return true
		}
	}
	return false
}

// Names returns the names declared directly in this scope, sorted.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.Declarations))
	for name := range s.Declarations {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// addDeclaration records the names bound by node's id. var-like
// declarations in a block scope are hoisted to the nearest function scope.
func (s *Scope) addDeclaration(node *ast.Node, isBlockDeclaration bool) {
	if !isBlockDeclaration && s.IsBlockScope && s.Parent != nil {
		s.Parent.addDeclaration(node, isBlockDeclaration)
		return
	}
	if id := node.Get("id"); id != nil {
		for _, name := range assignedNames(id, nil) {
			s.Declarations[name] = true
		}
	}
}

// ScopeTree is the result of AttachScopes.
type ScopeTree struct {
	// Root is the outermost scope.
	Root *Scope

	byNode map[*ast.Node]*Scope
	order  []*Scope
}

// Of returns the scope opened by node, or nil if node opens none.
func (t *ScopeTree) Of(node *ast.Node) *Scope {
	return t.byNode[node]
}

// Scopes returns every scope in the order it was opened, root first.
func (t *ScopeTree) Scopes() []*Scope {
	return append([]*Scope(nil), t.order...)
}

// AttachScopes builds the lexical scope chain of root.
//
// Description:
//
//	Functions open a function scope holding their parameters (and, for
//	named function expressions, their own name). Blocks that are not a
//	function body, for statements and catch clauses open block scopes.
//	let/const/class declarations land in the current scope; var and
//	function declarations land in the nearest function scope.
//
// Inputs:
//
//	root - Tree to analyse. It is not modified.
//
// Outputs:
//
//	*ScopeTree - Root scope plus a lookup from scope-opening node to scope.
func AttachScopes(root *ast.Node) *ScopeTree {
	tree := &ScopeTree{byNode: make(map[*ast.Node]*Scope)}
	scope := newScope(nil, false, nil, nil)
	tree.Root = scope
	tree.order = append(tree.order, scope)

	w := &walker{ctx: context.Background()}
	w.enter = func(_ context.Context, _ *Context, node, parent *ast.Node, _ string, _ int) error {
		if strings.HasSuffix(node.Type, "FunctionDeclaration") || node.Type == ast.TypeClassDeclaration {
			scope.addDeclaration(node, false)
		}

		if node.Type == ast.TypeVariableDeclaration {
			isBlock := blockKinds[node.Kind]
			for _, d := range node.GetList("declarations") {
				scope.addDeclaration(d, isBlock)
			}
		}

		var next *Scope
		switch {
		case strings.Contains(node.Type, "Function"):
			next = newScope(scope, false, node, node.GetList("params"))
			if node.Type == ast.TypeFunctionExpression && node.Get("id") != nil {
				next.addDeclaration(node, false)
			}
		case ast.IsForStatement(node):
			next = newScope(scope, true, node, nil)
		case node.Type == ast.TypeBlockStatement && (parent == nil || !strings.Contains(parent.Type, "Function")):
			next = newScope(scope, true, node, nil)
		case node.Type == ast.TypeCatchClause:
			var params []*ast.Node
			if p := node.Get("param"); p != nil {
				params = []*ast.Node{p}
			}
			next = newScope(scope, true, node, params)
		}

		if next != nil {
			tree.byNode[node] = next
			tree.order = append(tree.order, next)
			scope = next
		}
		return nil
	}
	w.leave = func(_ context.Context, _ *Context, node, _ *ast.Node, _ string, _ int) error {
		if tree.byNode[node] != nil && scope.Parent != nil {
			scope = scope.Parent
		}
		return nil
	}

	_, _ = w.run(root)
	recordWalk(w.ctx, walkerScopes, w.visited, false)
	return tree
}

// assignedNames collects the names a binding pattern assigns. Unlike
// ast.ExtractIdentifiers it ignores member-expression targets.
func assignedNames(node *ast.Node, out []string) []string {
	if node == nil {
		return out
	}
	switch node.Type {
	case ast.TypeIdentifier:
		out = append(out, node.Name)
	case ast.TypeObjectPattern:
		for _, prop := range node.GetList("properties") {
			if prop == nil {
				continue
			}
			if prop.Type == ast.TypeRestElement {
				out = assignedNames(prop.Get("argument"), out)
			} else {
				out = assignedNames(prop.Get("value"), out)
			}
		}
	case ast.TypeArrayPattern:
		for _, el := range node.GetList("elements") {
			out = assignedNames(el, out)
		}
	case ast.TypeRestElement:
		out = assignedNames(node.Get("argument"), out)
	case ast.TypeAssignmentPattern:
		out = assignedNames(node.Get("left"), out)
	case "TSParameterProperty":
		out = assignedNames(node.Get("parameter"), out)
	}
	return out
}
