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

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// keywordTypes maps predefined type names to their node types.
var keywordTypes = map[string]string{
	"any":       "TSAnyKeyword",
	"unknown":   "TSUnknownKeyword",
	"number":    "TSNumberKeyword",
	"string":    "TSStringKeyword",
	"boolean":   "TSBooleanKeyword",
	"bigint":    "TSBigIntKeyword",
	"symbol":    "TSSymbolKeyword",
	"object":    "TSObjectKeyword",
	"never":     "TSNeverKeyword",
	"void":      "TSVoidKeyword",
	"undefined": "TSUndefinedKeyword",
	"null":      "TSNullKeyword",
	"intrinsic": "TSIntrinsicKeyword",
}

// typeAnnotation wraps the type of a type_annotation (": T") node in a
// TSTypeAnnotation.
func (c *converter) typeAnnotation(t *sitter.Node) *ast.Node {
	inner := t
	switch t.Type() {
	case "type_annotation", "opting_type_annotation", "omitting_type_annotation", "adding_type_annotation":
		inner = firstNamed(t)
	}
	return c.node(ast.TypeTSTypeAnnotation, t).Set("typeAnnotation", c.tsType(inner))
}

// tsType converts a type node.
func (c *converter) tsType(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "ERROR":
		return nil

	case "predefined_type":
		if typ, ok := keywordTypes[c.text(n)]; ok {
			return c.node(typ, n)
		}
		return c.typeReference(n, c.identifier(n), nil)

	case "this_type", "this":
		return c.node("TSThisType", n)

	case "type_identifier", "identifier":
		return c.typeReference(n, c.identifier(n), nil)

	case "nested_type_identifier", "nested_identifier", "member_expression":
		return c.typeReference(n, c.entityName(n), nil)

	case "generic_type":
		name := field(n, "name")
		var typeName *ast.Node
		if name != nil && name.Type() != "type_identifier" {
			typeName = c.entityName(name)
		} else {
			typeName = c.identifierOrNil(name)
		}
		return c.typeReference(n, typeName, field(n, "type_arguments"))

	case "union_type", "intersection_type":
		typ := ast.TypeTSUnionType
		if n.Type() == "intersection_type" {
			typ = "TSIntersectionType"
		}
		var types []*ast.Node
		c.flattenTypes(n, n.Type(), &types)
		return c.node(typ, n).SetList("types", types...)

	case "literal_type":
		inner := firstNamed(n)
		if inner != nil {
			switch inner.Type() {
			case "null":
				return c.node("TSNullKeyword", n)
			case "undefined":
				return c.node("TSUndefinedKeyword", n)
			}
		}
		return c.node(ast.TypeTSLiteralType, n).Set("literal", c.exprOrNil(inner))

	case "template_literal_type":
		return c.node(ast.TypeTSLiteralType, n).Set("literal", c.template(n))

	case "array_type":
		return c.node("TSArrayType", n).Set("elementType", c.tsType(firstNamed(n)))

	case "tuple_type":
		var elems []*ast.Node
		for _, e := range named(n) {
			elems = append(elems, c.tsType(e))
		}
		return c.node("TSTupleType", n).SetList("elementTypes", elems...)

	case "optional_type":
		return c.node("TSOptionalType", n).Set("typeAnnotation", c.tsType(firstNamed(n)))

	case "rest_type":
		return c.node("TSRestType", n).Set("typeAnnotation", c.tsType(firstNamed(n)))

	case "parenthesized_type":
		return c.tsType(firstNamed(n))

	case "readonly_type":
		out := c.node("TSTypeOperator", n).Set("typeAnnotation", c.tsType(firstNamed(n)))
		out.Operator = "readonly"
		return out

	case "index_type_query":
		out := c.node("TSTypeOperator", n).Set("typeAnnotation", c.tsType(firstNamed(n)))
		out.Operator = "keyof"
		return out

	case "type_query":
		return c.node("TSTypeQuery", n).Set("exprName", c.entityName(firstNamed(n)))

	case "lookup_type":
		kids := named(n)
		out := c.node("TSIndexedAccessType", n)
		if len(kids) == 2 {
			out.Set("objectType", c.tsType(kids[0])).Set("indexType", c.tsType(kids[1]))
		}
		return out

	case "conditional_type":
		return c.node("TSConditionalType", n).
			Set("checkType", c.tsType(field(n, "left"))).
			Set("extendsType", c.tsType(field(n, "right"))).
			Set("trueType", c.tsType(field(n, "consequence"))).
			Set("falseType", c.tsType(field(n, "alternative")))

	case "infer_type":
		param := c.node("TSTypeParameter", n)
		if id := firstNamed(n); id != nil {
			param.Name = c.text(id)
		}
		return c.node("TSInferType", n).Set("typeParameter", param)

	case "function_type", "constructor_type":
		typ := "TSFunctionType"
		if n.Type() == "constructor_type" {
			typ = "TSConstructorType"
		}
		out := c.node(typ, n)
		if tp := field(n, "type_parameters"); tp != nil {
			out.Set("typeParameters", c.typeParameters(tp))
		}
		out.SetList("parameters", c.params(field(n, "parameters"))...)
		if rt := field(n, "return_type"); rt != nil {
			out.Set("typeAnnotation", c.node(ast.TypeTSTypeAnnotation, rt).Set("typeAnnotation", c.tsType(rt)))
		}
		return out

	case "type_predicate", "type_predicate_annotation", "asserts", "asserts_annotation":
		return c.generic(n, c.tsType)

	case "object_type", "interface_body":
		return c.node("TSTypeLiteral", n).SetList("members", c.typeMembers(n)...)

	case "existential_type":
		return c.node("TSAnyKeyword", n)
	}
	return c.generic(n, c.tsType)
}

func (c *converter) typeReference(n *sitter.Node, name *ast.Node, args *sitter.Node) *ast.Node {
	out := c.node("TSTypeReference", n).Set("typeName", name)
	if args != nil {
		out.Set("typeParameters", c.typeArguments(args))
	}
	return out
}

// entityName converts a dotted name such as "A.B.C" into a left-nested
// TSQualifiedName chain.
func (c *converter) entityName(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "nested_type_identifier", "nested_identifier", "member_expression":
		kids := named(n)
		if len(kids) < 2 {
			return c.identifier(n)
		}
		return c.node("TSQualifiedName", n).
			Set("left", c.entityName(kids[0])).
			Set("right", c.identifier(kids[len(kids)-1]))
	case "generic_type":
		return c.tsType(n)
	}
	return c.identifier(n)
}

func (c *converter) flattenTypes(n *sitter.Node, kind string, out *[]*ast.Node) {
	for _, k := range named(n) {
		if k.Type() == kind {
			c.flattenTypes(k, kind, out)
			continue
		}
		*out = append(*out, c.tsType(k))
	}
}

// typeMembers converts the members of an object type or interface body.
func (c *converter) typeMembers(n *sitter.Node) []*ast.Node {
	members := []*ast.Node{}
	for _, m := range named(n) {
		switch m.Type() {
		case "property_signature":
			key, computed := c.propertyKey(field(m, "name"))
			prop := c.node(ast.TypeTSPropertySignature, m).Set("key", key)
			prop.Computed = computed
			prop.Optional = hasToken(m, "?")
			if hasToken(m, "readonly") {
				prop.SetExtra("readonly", true)
			}
			if t := field(m, "type"); t != nil {
				prop.Set("typeAnnotation", c.typeAnnotation(t))
			}
			members = append(members, prop)

		case "method_signature":
			key, computed := c.propertyKey(field(m, "name"))
			sig := c.node("TSMethodSignature", m).Set("key", key)
			sig.Computed = computed
			sig.Optional = hasToken(m, "?")
			sig.Kind = "method"
			if tp := field(m, "type_parameters"); tp != nil {
				sig.Set("typeParameters", c.typeParameters(tp))
			}
			sig.SetList("parameters", c.params(field(m, "parameters"))...)
			if rt := field(m, "return_type"); rt != nil {
				sig.Set("typeAnnotation", c.typeAnnotation(rt))
			}
			members = append(members, sig)

		case "call_signature", "construct_signature":
			typ := "TSCallSignatureDeclaration"
			if m.Type() == "construct_signature" {
				typ = "TSConstructSignatureDeclaration"
			}
			sig := c.node(typ, m)
			if tp := field(m, "type_parameters"); tp != nil {
				sig.Set("typeParameters", c.typeParameters(tp))
			}
			sig.SetList("parameters", c.params(field(m, "parameters"))...)
			if rt := field(m, "return_type"); rt != nil {
				sig.Set("typeAnnotation", c.typeAnnotation(rt))
			}
			members = append(members, sig)

		case "index_signature":
			sig := c.node("TSIndexSignature", m)
			var params []*ast.Node
			if name := field(m, "name"); name != nil {
				param := c.identifier(name)
				if idx := field(m, "index_type"); idx != nil {
					param.Set("typeAnnotation", c.node(ast.TypeTSTypeAnnotation, idx).
						Set("typeAnnotation", c.tsType(idx)))
				}
				params = append(params, param)
			}
			sig.SetList("parameters", params...)
			if t := field(m, "type"); t != nil {
				sig.Set("typeAnnotation", c.typeAnnotation(t))
			}
			members = append(members, sig)

		case "ERROR":
		default:
			members = append(members, c.generic(m, c.tsType))
		}
	}
	return members
}

// typeParameters converts "<T extends U = V>".
func (c *converter) typeParameters(n *sitter.Node) *ast.Node {
	out := c.node("TSTypeParameterDeclaration", n)
	var params []*ast.Node
	for _, p := range named(n) {
		if p.Type() != "type_parameter" {
			continue
		}
		param := c.node("TSTypeParameter", p)
		if name := field(p, "name"); name != nil {
			param.Name = c.text(name)
		}
		if cons := field(p, "constraint"); cons != nil {
			param.Set("constraint", c.tsType(firstNamed(cons)))
		}
		if def := field(p, "value"); def != nil {
			param.Set("default", c.tsType(firstNamed(def)))
		}
		params = append(params, param)
	}
	return out.SetList("params", params...)
}

// typeArguments converts "<A, B>".
func (c *converter) typeArguments(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	var params []*ast.Node
	for _, t := range named(n) {
		params = append(params, c.tsType(t))
	}
	return c.node("TSTypeParameterInstantiation", n).SetList("params", params...)
}

// tsDeclaration converts TypeScript-only declarations.
func (c *converter) tsDeclaration(n *sitter.Node) *ast.Node {
	switch n.Type() {
	case "interface_declaration":
		out := c.node("TSInterfaceDeclaration", n).Set("id", c.identifierOrNil(field(n, "name")))
		if tp := field(n, "type_parameters"); tp != nil {
			out.Set("typeParameters", c.typeParameters(tp))
		}
		if ext := childOfType(n, "extends_type_clause"); ext != nil {
			var heritage []*ast.Node
			for _, t := range named(ext) {
				heritage = append(heritage, c.node("TSExpressionWithTypeArguments", t).
					Set("expression", c.tsType(t)))
			}
			out.SetList("extends", heritage...)
		}
		body := c.node("TSInterfaceBody", n)
		if b := field(n, "body"); b != nil {
			body = c.node("TSInterfaceBody", b).SetList("body", c.typeMembers(b)...)
		}
		return out.Set("body", body)

	case "type_alias_declaration":
		out := c.node("TSTypeAliasDeclaration", n).Set("id", c.identifierOrNil(field(n, "name")))
		if tp := field(n, "type_parameters"); tp != nil {
			out.Set("typeParameters", c.typeParameters(tp))
		}
		return out.Set("typeAnnotation", c.tsType(field(n, "value")))

	case "enum_declaration":
		out := c.node("TSEnumDeclaration", n).Set("id", c.identifierOrNil(field(n, "name")))
		if hasToken(n, "const") {
			out.SetExtra("const", true)
		}
		var members []*ast.Node
		for _, m := range named(field(n, "body")) {
			switch m.Type() {
			case "enum_assignment":
				key, _ := c.propertyKey(field(m, "name"))
				members = append(members, c.node(ast.TypeTSEnumMember, m).
					Set("id", key).
					Set("initializer", c.exprOrNil(field(m, "value"))))
			case "ERROR":
			default:
				key, _ := c.propertyKey(m)
				members = append(members, c.node(ast.TypeTSEnumMember, m).Set("id", key))
			}
		}
		return out.SetList("members", members...)

	case "ambient_declaration":
		if hasToken(n, "global") {
			mod := c.node("TSModuleDeclaration", n)
			mod.Declare = true
			mod.Kind = "global"
			global := ast.New(ast.TypeIdentifier)
			global.Name = "global"
			c.nodes++
			c.span(global, int(n.StartByte()), int(n.StartByte()))
			return mod.Set("id", global).Set("body", c.moduleBlock(childOfType(n, "statement_block")))
		}
		inner := firstNamed(n)
		decl := c.statement(inner)
		if decl != nil {
			decl.Declare = true
			if decl.Type == ast.TypeFunctionDeclaration {
				decl.Type = ast.TypeTSDeclareFunction
			}
			c.span(decl, int(n.StartByte()), int(n.EndByte()))
		}
		return decl

	case "module", "internal_module":
		return c.tsModule(n)

	case "import_alias":
		kids := named(n)
		out := c.node("TSImportEqualsDeclaration", n)
		out.ImportKind = "value"
		if len(kids) >= 2 {
			out.Set("id", c.identifier(kids[0])).Set("moduleReference", c.entityName(kids[len(kids)-1]))
		}
		return out
	}
	return c.generic(n, c.statement)
}

// tsModule converts "namespace A.B {}" and "module 'x' {}".
func (c *converter) tsModule(n *sitter.Node) *ast.Node {
	out := c.node("TSModuleDeclaration", n)
	out.Kind = "module"
	if n.Type() == "internal_module" {
		out.Kind = "namespace"
	}
	name := field(n, "name")
	var id *ast.Node
	switch {
	case name == nil:
	case name.Type() == "string":
		id = c.stringLiteral(name)
	default:
		id = c.entityName(name)
	}
	out.Set("id", id)
	if body := field(n, "body"); body != nil {
		out.Set("body", c.moduleBlock(body))
	}
	return out
}

func (c *converter) moduleBlock(body *sitter.Node) *ast.Node {
	if body == nil {
		return nil
	}
	_, stmts := c.statementList(named(body), false)
	return c.node("TSModuleBlock", body).SetList("body", stmts...)
}
