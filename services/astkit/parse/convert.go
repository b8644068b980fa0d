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
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// maxDiagnostics caps the syntax errors collected from one file.
const maxDiagnostics = 50

// converter turns a tree-sitter concrete syntax tree into ast nodes.
//
// Offsets are byte offsets. shift is the length of a synthetic prefix
// placed before the user's code (ParseExpression wraps its input in
// parentheses); it is subtracted from every reported position.
type converter struct {
	src        []byte
	filename   string
	shift      int
	lineStarts []int

	comments []ast.Comment
	errors   []*ParseError
	nodes    int
}

func newConverter(src []byte, filename string, shift int) *converter {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &converter{src: src, filename: filename, shift: shift, lineStarts: starts}
}

// position maps a byte offset of the parsed buffer to a user-visible
// position.
func (c *converter) position(offset int) ast.Position {
	line := sort.Search(len(c.lineStarts), func(i int) bool { return c.lineStarts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	col := offset - c.lineStarts[line]
	if line == 0 {
		col -= c.shift
	}
	return ast.Position{Line: line + 1, Column: max(col, 0), Index: max(offset-c.shift, 0)}
}

// span sets the location of out to the byte range [start, end).
func (c *converter) span(out *ast.Node, start, end int) {
	s, e := c.position(start), c.position(end)
	out.Start, out.End = s.Index, e.Index
	out.Loc = &ast.SourceLocation{Start: s, End: e}
}

// node creates a node of typ covering n.
func (c *converter) node(typ string, n *sitter.Node) *ast.Node {
	c.nodes++
	out := ast.New(typ)
	c.span(out, int(n.StartByte()), int(n.EndByte()))
	return out
}

// between creates a node of typ covering from the start of a to the end of b.
func (c *converter) between(typ string, a, b *sitter.Node) *ast.Node {
	c.nodes++
	out := ast.New(typ)
	c.span(out, int(a.StartByte()), int(b.EndByte()))
	return out
}

// extendTo moves the end of out to the end of n.
func (c *converter) extendTo(out *ast.Node, n *sitter.Node) {
	e := c.position(int(n.EndByte()))
	out.End = e.Index
	if out.Loc != nil {
		out.Loc.End = e
	}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// named returns the named children of n, without comments.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// firstNamed returns the first non-comment named child of n.
func firstNamed(n *sitter.Node) *sitter.Node {
	if kids := named(n); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

// childOfType returns the first direct child of n with the given type.
func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}
	return nil
}

// childrenOfType returns the direct children of n with the given type.
func childrenOfType(n *sitter.Node, typ string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == typ {
			out = append(out, child)
		}
	}
	return out
}

// hasToken reports whether n has an anonymous direct child tok, such as
// "async", "static" or "*".
func hasToken(n *sitter.Node, tok string) bool {
	if n == nil {
		return false
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() && child.Type() == tok {
			return true
		}
	}
	return false
}

// field is n.ChildByFieldName that tolerates a nil n.
func field(n *sitter.Node, name string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// scan collects comments and syntax diagnostics from the whole tree.
func (c *converter) scan(n *sitter.Node) {
	if n == nil {
		return
	}
	switch {
	case n.Type() == "comment":
		c.addComment(n)
		return
	case n.IsMissing():
		c.addDiagnostic(n, "missing "+n.Type())
	case n.IsError():
		c.addDiagnostic(n, "unexpected "+snippet(c.text(n)))
	}
	if !n.HasError() && n.NamedChildCount() == 0 {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c.scan(n.Child(i))
	}
}

func (c *converter) addComment(n *sitter.Node) {
	raw := c.text(n)
	cm := ast.Comment{Type: "CommentLine", Value: strings.TrimPrefix(raw, "//")}
	if strings.HasPrefix(raw, "/*") {
		cm.Type = "CommentBlock"
		cm.Value = strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/")
	}
	start, end := c.position(int(n.StartByte())), c.position(int(n.EndByte()))
	cm.Start, cm.End = start.Index, end.Index
	cm.Loc = &ast.SourceLocation{Start: start, End: end}
	c.comments = append(c.comments, cm)
}

func (c *converter) addDiagnostic(n *sitter.Node, msg string) {
	if len(c.errors) >= maxDiagnostics {
		return
	}
	pos := c.position(int(n.StartByte()))
	c.errors = append(c.errors, &ParseError{
		FilePath: c.filename,
		Line:     pos.Line,
		Column:   pos.Column,
		Index:    pos.Index,
		Message:  msg,
	})
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	if s == "" {
		return "token"
	}
	return fmt.Sprintf("%q", s)
}

// program converts the root "program" node.
func (c *converter) program(root *sitter.Node) *ast.Node {
	prog := c.node(ast.TypeProgram, root)
	prog.SetExtra("sourceType", "module")

	var stmts []*sitter.Node
	for _, child := range named(root) {
		if child.Type() == "hash_bang_line" {
			interp := c.node(ast.TypeInterpreter, child)
			interp.Value = strings.TrimPrefix(c.text(child), "#!")
			prog.Set("interpreter", interp)
			continue
		}
		stmts = append(stmts, child)
	}
	directives, body := c.statementList(stmts, true)
	return prog.SetList("directives", directives...).SetList("body", body...)
}

// statementList converts a statement sequence. With allowDirectives, a
// leading run of bare string statements becomes Directive nodes.
func (c *converter) statementList(stmts []*sitter.Node, allowDirectives bool) (directives, body []*ast.Node) {
	for _, s := range stmts {
		if allowDirectives {
			if d := c.directive(s); d != nil {
				directives = append(directives, d)
				continue
			}
			allowDirectives = false
		}
		if out := c.statement(s); out != nil {
			body = append(body, out)
		}
	}
	return directives, body
}

func (c *converter) directive(s *sitter.Node) *ast.Node {
	if s.Type() != "expression_statement" {
		return nil
	}
	kids := named(s)
	if len(kids) != 1 || kids[0].Type() != "string" {
		return nil
	}
	raw := c.text(kids[0])
	lit := c.node(ast.TypeDirectiveLit, kids[0])
	lit.Value = stripQuotes(raw)
	lit.Raw = raw
	lit.SetExtra("raw", raw)
	lit.SetExtra("rawValue", lit.Value)
	return c.node(ast.TypeDirective, s).Set("value", lit)
}

// block converts a statement_block into a BlockStatement.
func (c *converter) block(n *sitter.Node, allowDirectives bool) *ast.Node {
	out := c.node(ast.TypeBlockStatement, n)
	directives, body := c.statementList(named(n), allowDirectives)
	if allowDirectives {
		out.SetList("directives", directives...)
	}
	return out.SetList("body", body...)
}

// statement converts one statement or declaration. ERROR nodes yield nil.
func (c *converter) statement(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "ERROR", "comment":
		return nil

	case "expression_statement":
		inner := firstNamed(n)
		if inner == nil {
			return c.node(ast.TypeEmptyStatement, n)
		}
		if inner.Type() == "internal_module" || inner.Type() == "module" {
			return c.tsModule(inner)
		}
		return c.node(ast.TypeExpressionStatement, n).Set("expression", c.expr(inner))

	case "variable_declaration":
		return c.variableDeclaration(n, "var")

	case "lexical_declaration":
		kind := "let"
		if k := field(n, "kind"); k != nil {
			kind = c.text(k)
		} else if hasToken(n, "const") {
			kind = "const"
		}
		return c.variableDeclaration(n, kind)

	case "function_declaration", "generator_function_declaration":
		return c.function(ast.TypeFunctionDeclaration, n)

	case "function_signature":
		return c.function(ast.TypeTSDeclareFunction, n)

	case "class_declaration", "abstract_class_declaration":
		return c.class(ast.TypeClassDeclaration, n)

	case "statement_block":
		return c.block(n, false)

	case "empty_statement":
		return c.node(ast.TypeEmptyStatement, n)

	case "debugger_statement":
		return c.node("DebuggerStatement", n)

	case "if_statement":
		out := c.node(ast.TypeIfStatement, n).
			Set("test", c.condition(field(n, "condition"))).
			Set("consequent", c.statement(field(n, "consequence")))
		var alt *ast.Node
		if elseClause := field(n, "alternative"); elseClause != nil {
			alt = c.statement(firstNamed(elseClause))
		}
		return out.Set("alternate", alt)

	case "for_statement":
		return c.forStatement(n)

	case "for_in_statement":
		return c.forInStatement(n)

	case "while_statement":
		return c.node(ast.TypeWhileStatement, n).
			Set("test", c.condition(field(n, "condition"))).
			Set("body", c.statement(field(n, "body")))

	case "do_statement":
		return c.node(ast.TypeDoWhileStatement, n).
			Set("body", c.statement(field(n, "body"))).
			Set("test", c.condition(field(n, "condition")))

	case "try_statement":
		return c.tryStatement(n)

	case "switch_statement":
		return c.switchStatement(n)

	case "return_statement":
		return c.node(ast.TypeReturnStatement, n).Set("argument", c.exprOrNil(firstNamed(n)))

	case "throw_statement":
		return c.node(ast.TypeThrowStatement, n).Set("argument", c.exprOrNil(firstNamed(n)))

	case "break_statement", "continue_statement":
		typ := ast.TypeBreakStatement
		if n.Type() == "continue_statement" {
			typ = ast.TypeContinueStatement
		}
		var label *ast.Node
		if l := field(n, "label"); l != nil {
			label = c.identifier(l)
		} else if l := childOfType(n, "statement_identifier"); l != nil {
			label = c.identifier(l)
		}
		return c.node(typ, n).Set("label", label)

	case "labeled_statement":
		label := field(n, "label")
		if label == nil {
			label = childOfType(n, "statement_identifier")
		}
		return c.node(ast.TypeLabeledStatement, n).
			Set("label", c.identifierOrNil(label)).
			Set("body", c.statement(field(n, "body")))

	case "with_statement":
		return c.node("WithStatement", n).
			Set("object", c.condition(field(n, "object"))).
			Set("body", c.statement(field(n, "body")))

	case "import_statement":
		return c.importDeclaration(n)

	case "export_statement":
		return c.exportDeclaration(n)

	case "interface_declaration", "type_alias_declaration", "enum_declaration",
		"ambient_declaration", "module", "internal_module", "import_alias":
		return c.tsDeclaration(n)
	}
	return c.generic(n, c.statement)
}

// condition converts the parenthesized head of if/while/do/with/switch.
func (c *converter) condition(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "parenthesized_expression" {
		return c.expr(firstNamed(n))
	}
	return c.expr(n)
}

func (c *converter) variableDeclaration(n *sitter.Node, kind string) *ast.Node {
	out := c.node(ast.TypeVariableDeclaration, n)
	out.Kind = kind
	var decls []*ast.Node
	for _, d := range named(n) {
		if d.Type() != "variable_declarator" {
			continue
		}
		target := c.pattern(field(d, "name"))
		if t := field(d, "type"); t != nil && target != nil {
			c.annotate(target, t)
		}
		decls = append(decls, c.node(ast.TypeVariableDeclarator, d).
			Set("id", target).
			Set("init", c.exprOrNil(field(d, "value"))))
	}
	return out.SetList("declarations", decls...)
}

// forStatement converts "for (init; test; update) body".
func (c *converter) forStatement(n *sitter.Node) *ast.Node {
	var init, test *ast.Node
	if i := field(n, "initializer"); i != nil {
		switch i.Type() {
		case "lexical_declaration", "variable_declaration":
			init = c.statement(i)
		case "expression_statement":
			init = c.exprOrNil(firstNamed(i))
		case "empty_statement":
		default:
			init = c.expr(i)
		}
	}
	if t := field(n, "condition"); t != nil {
		switch t.Type() {
		case "expression_statement":
			test = c.exprOrNil(firstNamed(t))
		case "empty_statement":
		default:
			test = c.expr(t)
		}
	}
	return c.node(ast.TypeForStatement, n).
		Set("init", init).
		Set("test", test).
		Set("update", c.exprOrNil(field(n, "increment"))).
		Set("body", c.statement(field(n, "body")))
}

// forInStatement converts for-in, for-of and for-await-of.
func (c *converter) forInStatement(n *sitter.Node) *ast.Node {
	typ := ast.TypeForInStatement
	if op := field(n, "operator"); (op != nil && c.text(op) == "of") || (op == nil && hasToken(n, "of")) {
		typ = ast.TypeForOfStatement
	}

	left := field(n, "left")
	var target *ast.Node
	if kind := field(n, "kind"); kind != nil {
		decl := c.between(ast.TypeVariableDeclaration, kind, left)
		decl.Kind = c.text(kind)
		declarator := c.node(ast.TypeVariableDeclarator, left).
			Set("id", c.pattern(left)).
			Set("init", c.exprOrNil(field(n, "value")))
		target = decl.SetList("declarations", declarator)
	} else {
		target = c.pattern(left)
	}

	out := c.node(typ, n).
		Set("left", target).
		Set("right", c.expr(field(n, "right"))).
		Set("body", c.statement(field(n, "body")))
	if typ == ast.TypeForOfStatement && hasToken(n, "await") {
		out.SetExtra("await", true)
	}
	return out
}

func (c *converter) tryStatement(n *sitter.Node) *ast.Node {
	out := c.node(ast.TypeTryStatement, n).Set("block", c.block(field(n, "body"), false))

	var handler *ast.Node
	if h := field(n, "handler"); h != nil {
		var param *ast.Node
		if p := field(h, "parameter"); p != nil {
			param = c.pattern(p)
			if t := field(h, "type"); t != nil {
				c.annotate(param, t)
			}
		}
		handler = c.node(ast.TypeCatchClause, h).
			Set("param", param).
			Set("body", c.block(field(h, "body"), false))
	}

	var finalizer *ast.Node
	if f := field(n, "finalizer"); f != nil {
		if body := field(f, "body"); body != nil {
			finalizer = c.block(body, false)
		} else if body := childOfType(f, "statement_block"); body != nil {
			finalizer = c.block(body, false)
		}
	}
	return out.Set("handler", handler).Set("finalizer", finalizer)
}

func (c *converter) switchStatement(n *sitter.Node) *ast.Node {
	out := c.node(ast.TypeSwitchStatement, n).Set("discriminant", c.condition(field(n, "value")))
	var cases []*ast.Node
	for _, sc := range named(field(n, "body")) {
		if sc.Type() != "switch_case" && sc.Type() != "switch_default" {
			continue
		}
		value := field(sc, "value")
		var consequent []*sitter.Node
		for _, s := range named(sc) {
			if !sameNode(s, value) {
				consequent = append(consequent, s)
			}
		}
		_, body := c.statementList(consequent, false)
		cases = append(cases, c.node(ast.TypeSwitchCase, sc).
			Set("test", c.exprOrNil(value)).
			SetList("consequent", body...))
	}
	return out.SetList("cases", cases...)
}

// generic converts an unrecognised node kind to a node named after the
// grammar type, keeping its named children in a "nodes" list.
func (c *converter) generic(n *sitter.Node, child func(*sitter.Node) *ast.Node) *ast.Node {
	out := c.node(pascal(n.Type()), n)
	var kids []*ast.Node
	for _, k := range named(n) {
		if conv := child(k); conv != nil {
			kids = append(kids, conv)
		}
	}
	return out.SetList("nodes", kids...)
}

// pascal turns "some_grammar_name" into "SomeGrammarName".
func pascal(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}
