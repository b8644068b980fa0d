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

func importDecl(source string, specs ...*ast.Node) *ast.Node {
	return ast.New(ast.TypeImportDeclaration).SetList("specifiers", specs...).Set("source", strLit(source))
}

func importSpec(imported *ast.Node, local string) *ast.Node {
	return ast.New(ast.TypeImportSpecifier).Set("imported", imported).Set("local", id(local))
}

func TestWalkImportDeclaration(t *testing.T) {
	typeOnly := importDecl("types", importSpec(id("T"), "T"))
	typeOnly.ImportKind = "type"
	typeSpec := importSpec(id("Props"), "Props")
	typeSpec.ImportKind = "type"

	decls := []*ast.Node{
		importDecl("side-effect"),
		importDecl("def", ast.New(ast.TypeImportDefaultSpecifier).Set("local", id("Def"))),
		importDecl("ns", ast.New(ast.TypeImportNamespaceSpecifier).Set("local", id("NS"))),
		importDecl("named", importSpec(id("a"), "a"), importSpec(id("b"), "renamed")),
		importDecl("str", importSpec(strLit("kebab-name"), "kebab")),
		importDecl("mixed", typeSpec),
		typeOnly,
	}

	imports := map[string]ImportBinding{}
	for _, d := range decls {
		require.NoError(t, WalkImportDeclaration(imports, d))
	}

	assert.Len(t, imports, 6)
	assert.Equal(t, "default", imports["Def"].Imported)
	assert.Equal(t, "def", imports["Def"].Source)
	assert.Equal(t, "*", imports["NS"].Imported)
	assert.Equal(t, "a", imports["a"].Imported)
	assert.Equal(t, "b", imports["renamed"].Imported)
	assert.Equal(t, "kebab-name", imports["kebab"].Imported)
	assert.True(t, imports["Props"].IsType)
	assert.False(t, imports["a"].IsType)
	assert.NotContains(t, imports, "T")
	assert.Same(t, decls[1].GetList("specifiers")[0], imports["Def"].Specifier)
}

func TestWalkImportDeclaration_WrongNode(t *testing.T) {
	err := WalkImportDeclaration(map[string]ImportBinding{}, exprStmt(id("x")))
	assert.ErrorIs(t, err, ast.ErrUnexpectedNode)
}

func TestWalkExportDeclaration(t *testing.T) {
	exports := map[string]ExportBinding{}

	// export const a = 1, { b } = obj
	named := ast.New(ast.TypeExportNamedDeclaration).Set("declaration", varDecl("const",
		declarator(id("a"), num(1)),
		declarator(objPattern(objProp(id("b"), id("b"), true)), id("obj")),
	)).SetList("specifiers")
	require.NoError(t, WalkExportDeclaration(exports, named))

	// export function fn() {}
	require.NoError(t, WalkExportDeclaration(exports,
		ast.New(ast.TypeExportNamedDeclaration).Set("declaration", funcDecl("fn", nil, block())).SetList("specifiers")))

	// export { x as y, z } from "mod"
	spec := func(local, exported string) *ast.Node {
		return ast.New(ast.TypeExportSpecifier).Set("local", id(local)).Set("exported", id(exported))
	}
	reexport := ast.New(ast.TypeExportNamedDeclaration).Set("declaration", nil).
		SetList("specifiers", spec("x", "y"), spec("z", "z")).Set("source", strLit("mod"))
	require.NoError(t, WalkExportDeclaration(exports, reexport))

	// export * as ns from "other"
	nsExport := ast.New(ast.TypeExportNamedDeclaration).
		SetList("specifiers", ast.New(ast.TypeExportNamespaceSpecifier).Set("exported", id("ns"))).
		Set("source", strLit("other"))
	require.NoError(t, WalkExportDeclaration(exports, nsExport))

	// export type { T }
	typeExport := ast.New(ast.TypeExportNamedDeclaration).SetList("specifiers", spec("T", "T"))
	typeExport.ExportKind = "type"
	require.NoError(t, WalkExportDeclaration(exports, typeExport))

	assert.Equal(t, "a", exports["a"].Local)
	assert.NotContains(t, exports, "b")
	assert.Equal(t, "fn", exports["fn"].Local)
	assert.Nil(t, exports["fn"].Source)

	require.Contains(t, exports, "y")
	assert.Equal(t, "x", exports["y"].Local)
	require.NotNil(t, exports["y"].Source)
	assert.Equal(t, "mod", *exports["y"].Source)
	assert.Equal(t, "z", exports["z"].Local)

	assert.Equal(t, "*", exports["ns"].Local)
	assert.Equal(t, "other", *exports["ns"].Source)
	assert.True(t, exports["T"].IsType)
}

func TestWalkExportDeclaration_Default(t *testing.T) {
	cases := []struct {
		name  string
		decl  *ast.Node
		local string
	}{
		{"identifier", id("App"), "App"},
		{"named function", funcDecl("main", nil, block()), "main"},
		{"anonymous function", funcDecl("", nil, block()), "default"},
		{"expression", call(id("make")), "default"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exports := map[string]ExportBinding{}
			node := ast.New(ast.TypeExportDefaultDeclaration).Set("declaration", tc.decl)
			require.NoError(t, WalkExportDeclaration(exports, node))
			assert.Equal(t, tc.local, exports["default"].Local)
			assert.Equal(t, "default", exports["default"].Exported)
			assert.Same(t, tc.decl, exports["default"].Declaration)
		})
	}
}

func TestWalkExportDeclaration_All(t *testing.T) {
	exports := map[string]ExportBinding{}
	node := ast.New(ast.TypeExportAllDeclaration).Set("source", strLit("./lib"))
	require.NoError(t, WalkExportDeclaration(exports, node))
	require.Contains(t, exports, "*")
	assert.Equal(t, "./lib", *exports["*"].Source)

	assert.ErrorIs(t, WalkExportDeclaration(exports, exprStmt(id("x"))), ast.ErrUnexpectedNode)
	assert.ErrorIs(t, WalkExportDeclaration(exports, nil), ast.ErrUnexpectedNode)
}
