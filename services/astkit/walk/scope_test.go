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

func TestAttachScopes(t *testing.T) {
	// const top = 1
	// function outer(p, { q }) {
	//   var hoisted
	//   if (x) { let inner; var alsoHoisted }
	//   try {} catch (err) {}
	//   for (let i = 0;;) {}
	// }
	ifBlock := block(
		varDecl("let", declarator(id("inner"), nil)),
		varDecl("var", declarator(id("alsoHoisted"), nil)),
	)
	ifStmt := ast.New(ast.TypeIfStatement).Set("test", id("x")).Set("consequent", ifBlock)
	catch := catchClause(id("err"), block())
	loop := forStmt(varDecl("let", declarator(id("i"), num(0))), nil, nil, block())
	outer := funcDecl("outer", []*ast.Node{id("p"), objPattern(objProp(id("q"), id("q"), true))}, block(
		varDecl("var", declarator(id("hoisted"), nil)),
		ifStmt,
		tryStmt(block(), catch),
		loop,
	))
	root := program(varDecl("const", declarator(id("top"), num(1))), outer)

	tree := AttachScopes(root)

	assert.Equal(t, []string{"outer", "top"}, tree.Root.Names())

	fnScope := tree.Of(outer)
	require.NotNil(t, fnScope)
	assert.False(t, fnScope.IsBlockScope)
	assert.Same(t, tree.Root, fnScope.Parent)
	assert.Equal(t, []string{"alsoHoisted", "hoisted", "p", "q"}, fnScope.Names())
	assert.Nil(t, tree.Of(outer.Get("body")))

	blockScope := tree.Of(ifBlock)
	require.NotNil(t, blockScope)
	assert.True(t, blockScope.IsBlockScope)
	assert.Equal(t, []string{"inner"}, blockScope.Names())
	assert.True(t, blockScope.Contains("top"))
	assert.True(t, blockScope.Contains("p"))
	assert.False(t, blockScope.Contains("err"))

	assert.Equal(t, []string{"err"}, tree.Of(catch).Names())
	assert.Equal(t, []string{"i"}, tree.Of(loop).Names())

	scopes := tree.Scopes()
	require.NotEmpty(t, scopes)
	assert.Same(t, tree.Root, scopes[0])
	assert.Same(t, fnScope, scopes[1])
}

func TestAttachScopes_NamedFunctionExpression(t *testing.T) {
	fn := funcExpr("self", []*ast.Node{id("n")}, block())
	tree := AttachScopes(program(exprStmt(fn)))

	assert.Empty(t, tree.Root.Names())
	assert.Equal(t, []string{"n", "self"}, tree.Of(fn).Names())
}

func TestAttachScopes_ArrowAndClass(t *testing.T) {
	fn := arrow([]*ast.Node{id("v")}, id("v"))
	class := ast.New(ast.TypeClassDeclaration).Set("id", id("Widget")).Set("body", ast.New(ast.TypeClassBody).SetList("body"))
	tree := AttachScopes(program(class, exprStmt(fn)))

	assert.Equal(t, []string{"Widget"}, tree.Root.Names())
	assert.Equal(t, []string{"v"}, tree.Of(fn).Names())
}
