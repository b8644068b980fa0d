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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

type seenIdent struct {
	name        string
	isReference bool
	isLocal     bool
}

func collect(root *ast.Node, opts ...IdentifierOption) []seenIdent {
	var out []seenIdent
	WalkIdentifiers(root, func(id, _ *ast.Node, _ []*ast.Node, isRef, isLocal bool) {
		out = append(out, seenIdent{id.Name, isRef, isLocal})
	}, opts...)
	return out
}

func collectNames(root *ast.Node, opts ...IdentifierOption) []string {
	var out []string
	for _, s := range collect(root, opts...) {
		out = append(out, s.name)
	}
	return out
}

// destructuredParam is "(({ title }) => [])".
func destructuredParam() *ast.Node {
	return exprStmt(arrow(
		[]*ast.Node{objPattern(objProp(id("title"), id("title"), true))},
		arrayExpr(),
	))
}

func TestWalkIdentifiers_DestructuredParam(t *testing.T) {
	t.Run("free references only", func(t *testing.T) {
		assert.Empty(t, collect(destructuredParam()))
	})

	t.Run("include all", func(t *testing.T) {
		got := collect(destructuredParam(), WithIncludeAll(true))
		require.Len(t, got, 1)
		assert.Equal(t, seenIdent{name: "title", isReference: false, isLocal: true}, got[0])
	})
}

func TestWalkIdentifiers_NestedOrder(t *testing.T) {
	// function nested(){ const a=1; function inner(){ const b=2; return a+b }; return inner() }
	inner := funcDecl("inner", nil, block(
		varDecl("const", declarator(id("b"), num(2))),
		ret(binary("+", id("a"), id("b"))),
	))
	body := block(
		varDecl("const", declarator(id("a"), num(1))),
		inner,
		ast.New("EmptyStatement"),
		ret(call(id("inner"))),
	)
	funcDecl("nested", nil, body)

	assert.Equal(t, []string{"a", "inner", "b", "a", "b", "inner"}, collectNames(body, WithIncludeAll(true)))

	got := collect(body, WithIncludeAll(true))
	assert.False(t, got[0].isReference)
	assert.True(t, got[3].isReference)
	assert.True(t, got[3].isLocal)
	assert.True(t, got[5].isReference)
}

func TestWalkIdentifiers_FreeReferences(t *testing.T) {
	// function f(a) { let b = a; return b + c + console.log }
	root := funcDecl("f", []*ast.Node{id("a")}, block(
		varDecl("let", declarator(id("b"), id("a"))),
		ret(binary("+", binary("+", id("b"), id("c")), member(id("console"), id("log"), false))),
	))
	assert.Equal(t, []string{"c", "console"}, collectNames(root))
}

func TestWalkIdentifiers_JSXNamespacedName(t *testing.T) {
	// <svg:circle foo:bar="" />
	jsxIdent := func(name string) *ast.Node {
		n := ast.New(ast.TypeJSXIdentifier)
		n.Name = name
		return n
	}
	nsName := func(ns, name string) *ast.Node {
		return ast.New(ast.TypeJSXNamespacedName).Set("namespace", jsxIdent(ns)).Set("name", jsxIdent(name))
	}
	attr := ast.New(ast.TypeJSXAttribute).Set("name", nsName("foo", "bar")).Set("value", strLit(""))
	opening := ast.New("JSXOpeningElement").Set("name", nsName("svg", "circle")).SetList("attributes", attr)
	opening.SetExtra("selfClosing", true)
	el := ast.New(ast.TypeJSXElement).Set("openingElement", opening).Set("closingElement", nil).SetList("children")

	assert.Empty(t, collect(exprStmt(el)))
	assert.Empty(t, collect(exprStmt(el), WithIncludeAll(true)))
}

func TestWalkIdentifiers_TypeScriptSkipped(t *testing.T) {
	// (x as Foo)
	typeRef := ast.New("TSTypeReference").Set("typeName", id("Foo"))
	asExpr := ast.New(ast.TypeTSAsExpression).Set("expression", id("x")).Set("typeAnnotation", typeRef)
	assert.Equal(t, []string{"x"}, collectNames(exprStmt(asExpr), WithIncludeAll(true)))

	// type T = Bar
	alias := ast.New("TSTypeAliasDeclaration").Set("id", id("T")).Set("typeAnnotation",
		ast.New("TSTypeReference").Set("typeName", id("Bar")))
	assert.Empty(t, collect(program(alias), WithIncludeAll(true)))
}

func TestWalkIdentifiers_DestructureAssignment(t *testing.T) {
	// ({ a } = obj)
	pattern := objPattern(objProp(id("a"), id("a"), true))
	root := exprStmt(assign(pattern, id("obj")))

	assert.Equal(t, []string{"a", "obj"}, collectNames(root))
	assert.True(t, pattern.GetList("properties")[0].ExtraBool("inPattern"))
}

func TestWalkIdentifiers_CatchAndForScopes(t *testing.T) {
	// try {} catch (e) { e; x }
	tryNode := tryStmt(block(), catchClause(id("e"), block(exprStmt(id("e")), exprStmt(id("x")))))
	assert.Equal(t, []string{"x"}, collectNames(tryNode))

	// for (const item of list) { item; y }
	loop := forOf(varDecl("const", declarator(id("item"), nil)), id("list"),
		block(exprStmt(id("item")), exprStmt(id("y"))))
	assert.Equal(t, []string{"list", "y"}, collectNames(loop))

	// for (let i = 0; i < n; i++) {}
	update := ast.New("UpdateExpression").Set("argument", id("i"))
	update.Operator = "++"
	classic := forStmt(varDecl("let", declarator(id("i"), num(0))), binary("<", id("i"), id("n")), update, block())
	assert.Equal(t, []string{"n"}, collectNames(classic))
}

func TestWalkIdentifiers_NamedFunctionExpression(t *testing.T) {
	// (function fact(n) { return fact(n) })
	fn := funcExpr("fact", []*ast.Node{id("n")}, block(ret(call(id("fact"), id("n")))))
	assert.Empty(t, collect(exprStmt(fn)))
}

func TestWalkIdentifiers_KnownIDsRestored(t *testing.T) {
	known := ScopeTable{"x": 1}
	var counts []int
	root := funcDecl("f", []*ast.Node{id("x")}, block(exprStmt(id("x")), exprStmt(id("y"))))

	WalkIdentifiers(root, func(id, _ *ast.Node, _ []*ast.Node, _, _ bool) {
		counts = append(counts, known[id.Name])
	}, WithIncludeAll(true), WithKnownIDs(known))

	// f is not declared by any layer; x is the seeded entry plus the
	// parameter; y is unknown.
	assert.Equal(t, []int{0, 2, 2, 0}, counts)
	assert.Equal(t, ScopeTable{"x": 1}, known)
}

func TestWalkIdentifiers_SeededNamesAreLocal(t *testing.T) {
	root := exprStmt(binary("+", id("props"), id("other")))
	assert.Equal(t, []string{"other"}, collectNames(root, WithKnownIDs(ScopeTable{"props": 1})))
}

func TestWalkIdentifiers_FunctionBodyOpensOwnLayer(t *testing.T) {
	// function f(a) { var a; a }
	known := ScopeTable{}
	fn := funcDecl("f", []*ast.Node{id("a")}, block(
		varDecl("var", declarator(id("a"), nil)),
		exprStmt(id("a")),
	))
	var countAtUse int
	WalkIdentifiers(fn, func(id, parent *ast.Node, _ []*ast.Node, isRef, _ bool) {
		if isRef && id.Name == "a" {
			countAtUse = known["a"]
		}
	}, WithIncludeAll(true), WithKnownIDs(known))

	assert.Equal(t, 2, countAtUse)
	assert.Equal(t, []string{"a"}, fn.ScopeIDs)
	assert.Equal(t, []string{"a"}, fn.Get("body").ScopeIDs)
	assert.Empty(t, known)
}

func TestWalkIdentifiers_ParamDefaultStableAcrossWalks(t *testing.T) {
	// function f(a = x) { var x; return x }
	param := ast.New(ast.TypeAssignmentPattern).Set("left", id("a")).Set("right", id("x"))
	root := program(funcDecl("f", []*ast.Node{param}, block(
		varDecl("var", declarator(id("x"), nil)),
		ret(id("x")),
	)))

	first := collect(root, WithIncludeAll(true))
	second := collect(root, WithIncludeAll(true))
	assert.Equal(t, first, second)

	var defaults []seenIdent
	for _, s := range second {
		if s.name == "x" && s.isReference {
			defaults = append(defaults, s)
		}
	}
	require.Len(t, defaults, 2)
	assert.False(t, defaults[0].isLocal)
	assert.True(t, defaults[1].isLocal)

	fn := root.GetList("body")[0]
	assert.Equal(t, []string{"a"}, fn.ScopeIDs)
	assert.Equal(t, []string{"x"}, fn.Get("body").ScopeIDs)
}

func TestWalkIdentifiers_ShadowingCounts(t *testing.T) {
	// function outer(a) { function inner(a) { a } a }
	inner := funcDecl("inner", []*ast.Node{id("a")}, block(exprStmt(id("a"))))
	outer := funcDecl("outer", []*ast.Node{id("a")}, block(inner, exprStmt(id("a"))))
	known := ScopeTable{}
	var counts []int
	WalkIdentifiers(outer, func(id, _ *ast.Node, _ []*ast.Node, isRef, _ bool) {
		if isRef && id.Name == "a" {
			counts = append(counts, known["a"])
		}
	}, WithIncludeAll(true), WithKnownIDs(known))
	assert.Equal(t, []int{2, 1}, counts)
	assert.Empty(t, known)
}

func TestWalkIdentifiers_MemoizedScopes(t *testing.T) {
	root := program(funcDecl("f", []*ast.Node{id("a")}, block(
		varDecl("let", declarator(id("b"), nil)),
		exprStmt(binary("+", id("a"), binary("+", id("b"), id("c")))),
	)))

	first := collect(root, WithIncludeAll(true))
	fn := root.GetList("body")[0]
	assert.Equal(t, []string{"a"}, fn.ScopeIDs)
	assert.Equal(t, []string{"b"}, fn.Get("body").ScopeIDs)

	second := collect(root, WithIncludeAll(true))
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a"}, fn.ScopeIDs)
}

func TestWalkIdentifiers_ParentStack(t *testing.T) {
	outerStmt := exprStmt(nil)
	expr := member(id("a"), id("b"), false)
	outerStmt.Set("expression", expr)

	var stacks [][]string
	WalkIdentifiers(expr, func(id, _ *ast.Node, stack []*ast.Node, _, _ bool) {
		var types []string
		for _, n := range stack {
			types = append(types, n.Type)
		}
		stacks = append(stacks, types)
	}, WithIncludeAll(true), WithParentStack([]*ast.Node{outerStmt}))

	require.Len(t, stacks, 2)
	assert.Equal(t, []string{ast.TypeExpressionStatement, ast.TypeMemberExpression}, stacks[0])
}

func TestWalkFunctionParams(t *testing.T) {
	fn := arrow([]*ast.Node{
		id("a"),
		objPattern(objProp(id("k"), id("b"), false)),
		ast.New(ast.TypeRestElement).Set("argument", id("rest")),
	}, block())

	var names []string
	WalkFunctionParams(fn, func(id *ast.Node) { names = append(names, id.Name) })
	assert.Equal(t, []string{"a", "b", "rest"}, names)
}

func TestWalkBlockDeclarations(t *testing.T) {
	declared := varDecl("let", declarator(id("ambient"), nil))
	declared.Declare = true
	anonymous := ast.New(ast.TypeClassDeclaration).Set("id", nil)

	body := block(
		varDecl("const", declarator(id("a"), num(1)), declarator(id("b"), num(2))),
		funcDecl("fn", nil, block()),
		ast.New(ast.TypeClassDeclaration).Set("id", id("Klass")),
		declared,
		anonymous,
		forOf(varDecl("var", declarator(id("v"), nil)), id("xs"), block()),
		forOf(varDecl("let", declarator(id("l"), nil)), id("xs"), block()),
		block(varDecl("let", declarator(id("nested"), nil))),
	)

	var names []string
	WalkBlockDeclarations(body, func(id *ast.Node) { names = append(names, id.Name) })
	assert.Equal(t, []string{"a", "b", "fn", "Klass", "v"}, names)
}

func TestScopeTable(t *testing.T) {
	table := ScopeTable{}
	table.mark("a")
	table.mark("a")
	assert.True(t, table.Has("a"))
	table.unmark("a")
	assert.Equal(t, 1, table["a"])
	table.unmark("a")
	assert.False(t, table.Has("a"))
	_, present := table["a"]
	assert.False(t, present)
}
