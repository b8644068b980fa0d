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

import "github.com/AleutianAI/astkit/services/astkit/ast"

// Builders for hand-made trees, shaped the way the parser shapes them.

func id(name string) *ast.Node { return ast.CreateIdentifier(name) }

func num(v float64) *ast.Node { return ast.CreateNumericLiteral(v) }

func strLit(v string) *ast.Node { return ast.CreateStringLiteral(v) }

func program(body ...*ast.Node) *ast.Node {
	return ast.New(ast.TypeProgram).SetList("body", body...)
}

func block(body ...*ast.Node) *ast.Node {
	return ast.New(ast.TypeBlockStatement).SetList("body", body...)
}

func exprStmt(e *ast.Node) *ast.Node {
	return ast.New(ast.TypeExpressionStatement).Set("expression", e)
}

func ret(e *ast.Node) *ast.Node {
	return ast.New(ast.TypeReturnStatement).Set("argument", e)
}

func varDecl(kind string, decls ...*ast.Node) *ast.Node {
	n := ast.New(ast.TypeVariableDeclaration).SetList("declarations", decls...)
	n.Kind = kind
	return n
}

func declarator(target, init *ast.Node) *ast.Node {
	return ast.New(ast.TypeVariableDeclarator).Set("id", target).Set("init", init)
}

func funcDecl(name string, params []*ast.Node, body *ast.Node) *ast.Node {
	var nameNode *ast.Node
	if name != "" {
		nameNode = id(name)
	}
	return ast.New(ast.TypeFunctionDeclaration).Set("id", nameNode).SetList("params", params...).Set("body", body)
}

func funcExpr(name string, params []*ast.Node, body *ast.Node) *ast.Node {
	n := funcDecl(name, params, body)
	n.Type = ast.TypeFunctionExpression
	return n
}

func arrow(params []*ast.Node, body *ast.Node) *ast.Node {
	return ast.New(ast.TypeArrowFunction).SetList("params", params...).Set("body", body)
}

func binary(op string, left, right *ast.Node) *ast.Node {
	n := ast.New("BinaryExpression").Set("left", left).Set("right", right)
	n.Operator = op
	return n
}

func call(callee *ast.Node, args ...*ast.Node) *ast.Node {
	return ast.CreateCallExpression(callee, args...)
}

func member(object, property *ast.Node, computed bool) *ast.Node {
	return ast.CreateMemberExpression(object, property, computed)
}

func arrayExpr(elems ...*ast.Node) *ast.Node {
	return ast.New(ast.TypeArrayExpression).SetList("elements", elems...)
}

func objProp(key, value *ast.Node, shorthand bool) *ast.Node {
	n := ast.New(ast.TypeObjectProperty).Set("key", key).Set("value", value)
	n.Shorthand = shorthand
	return n
}

func objPattern(props ...*ast.Node) *ast.Node {
	return ast.New(ast.TypeObjectPattern).SetList("properties", props...)
}

func assign(left, right *ast.Node) *ast.Node {
	n := ast.New(ast.TypeAssignment).Set("left", left).Set("right", right)
	n.Operator = "="
	return n
}

func catchClause(param, body *ast.Node) *ast.Node {
	return ast.New(ast.TypeCatchClause).Set("param", param).Set("body", body)
}

func tryStmt(body, handler *ast.Node) *ast.Node {
	return ast.New(ast.TypeTryStatement).Set("block", body).Set("handler", handler).Set("finalizer", nil)
}

func forOf(left, right, body *ast.Node) *ast.Node {
	n := ast.New(ast.TypeForOfStatement).Set("left", left).Set("right", right).Set("body", body)
	return n
}

func forStmt(init, test, update, body *ast.Node) *ast.Node {
	return ast.New(ast.TypeForStatement).Set("init", init).Set("test", test).Set("update", update).Set("body", body)
}

func identNames(ids []*ast.Node) []string {
	out := make([]string, len(ids))
	for i, n := range ids {
		out[i] = n.Name
	}
	return out
}
