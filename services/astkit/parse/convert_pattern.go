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

// pattern converts a binding or assignment target. Object and array
// literals on the left of an assignment become patterns too.
func (c *converter) pattern(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "ERROR":
		return nil

	case "identifier", "shorthand_property_identifier_pattern", "shorthand_property_identifier", "undefined":
		return c.identifier(n)

	case "object_pattern", "object":
		return c.objectPattern(n)

	case "array_pattern", "array":
		return c.node(ast.TypeArrayPattern, n).SetList("elements", c.elements(n, c.pattern)...)

	case "assignment_pattern", "assignment_expression":
		return c.node(ast.TypeAssignmentPattern, n).
			Set("left", c.pattern(field(n, "left"))).
			Set("right", c.expr(field(n, "right")))

	case "rest_pattern", "rest_element", "spread_element":
		return c.node(ast.TypeRestElement, n).Set("argument", c.pattern(firstNamed(n)))

	case "parenthesized_expression":
		return c.pattern(firstNamed(n))
	}
	return c.expr(n)
}

func (c *converter) objectPattern(n *sitter.Node) *ast.Node {
	var props []*ast.Node
	for _, m := range named(n) {
		switch m.Type() {
		case "pair_pattern", "pair":
			key, computed := c.propertyKey(field(m, "key"))
			prop := c.node(ast.TypeObjectProperty, m).
				Set("key", key).
				Set("value", c.pattern(field(m, "value")))
			prop.Computed = computed
			props = append(props, prop)

		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			prop := c.node(ast.TypeObjectProperty, m).
				Set("key", c.identifier(m)).
				Set("value", c.identifier(m))
			prop.Shorthand = true
			props = append(props, prop)

		case "object_assignment_pattern", "assignment_pattern":
			props = append(props, c.shorthandDefault(m))

		case "rest_pattern", "rest_element", "spread_element":
			props = append(props, c.pattern(m))

		case "ERROR":
		default:
			props = append(props, c.pattern(m))
		}
	}
	return c.node(ast.TypeObjectPattern, n).SetList("properties", props...)
}

// shorthandDefault converts "{ a = 1 }" into a shorthand ObjectProperty
// whose value is an AssignmentPattern.
func (c *converter) shorthandDefault(m *sitter.Node) *ast.Node {
	left := field(m, "left")
	right := c.expr(field(m, "right"))
	if left == nil || (left.Type() != "shorthand_property_identifier_pattern" &&
		left.Type() != "shorthand_property_identifier" && left.Type() != "identifier") {
		return c.node(ast.TypeAssignmentPattern, m).
			Set("left", c.pattern(left)).
			Set("right", right)
	}
	value := c.node(ast.TypeAssignmentPattern, m).
		Set("left", c.identifier(left)).
		Set("right", right)
	prop := c.node(ast.TypeObjectProperty, m).
		Set("key", c.identifier(left)).
		Set("value", value)
	prop.Shorthand = true
	return prop
}

// params converts formal_parameters. TypeScript parameters carry their
// annotation, optional marker and default; parameters with an
// accessibility or readonly modifier become TSParameterProperty.
func (c *converter) params(n *sitter.Node) []*ast.Node {
	out := []*ast.Node{}
	for _, p := range named(n) {
		switch p.Type() {
		case "required_parameter", "optional_parameter":
			out = append(out, c.tsParameter(p))
		case "decorator", "ERROR":
		default:
			out = append(out, c.pattern(p))
		}
	}
	return out
}

func (c *converter) tsParameter(p *sitter.Node) *ast.Node {
	target := c.pattern(field(p, "pattern"))
	if target == nil {
		return nil
	}
	if p.Type() == "optional_parameter" {
		target.Optional = true
	}
	if t := field(p, "type"); t != nil {
		c.annotate(target, t)
	}
	param := target
	if v := field(p, "value"); v != nil {
		param = c.node(ast.TypeAssignmentPattern, p).
			Set("left", target).
			Set("right", c.expr(v))
	}

	access := childOfType(p, "accessibility_modifier")
	readonly := hasToken(p, "readonly") || childOfType(p, "readonly") != nil
	if access == nil && !readonly && !hasToken(p, "override") {
		return param
	}
	prop := c.node("TSParameterProperty", p).Set("parameter", param)
	if access != nil {
		prop.SetExtra("accessibility", c.text(access))
	}
	if readonly {
		prop.SetExtra("readonly", true)
	}
	return prop
}

// annotate attaches a type annotation to target and extends its end over
// the annotation, as Babel does for typed bindings.
func (c *converter) annotate(target *ast.Node, t *sitter.Node) {
	if target == nil || t == nil {
		return
	}
	target.Set("typeAnnotation", c.typeAnnotation(t))
	c.extendTo(target, t)
}

// function converts any function-like node into typ.
func (c *converter) function(typ string, n *sitter.Node) *ast.Node {
	out := c.node(typ, n)
	out.Async = hasToken(n, "async")
	out.Generator = hasToken(n, "*") || n.Type() == "generator_function" || n.Type() == "generator_function_declaration"

	if typ != ast.TypeArrowFunction {
		out.Set("id", c.identifierOrNil(field(n, "name")))
	}
	if tp := field(n, "type_parameters"); tp != nil {
		out.Set("typeParameters", c.typeParameters(tp))
	}

	switch {
	case field(n, "parameters") != nil:
		out.SetList("params", c.params(field(n, "parameters"))...)
	case field(n, "parameter") != nil:
		out.SetList("params", c.pattern(field(n, "parameter")))
	default:
		out.SetList("params")
	}

	if rt := field(n, "return_type"); rt != nil {
		out.Set("returnType", c.typeAnnotation(rt))
	}

	body := field(n, "body")
	switch {
	case body == nil:
		if typ != ast.TypeTSDeclareFunction && typ != ast.TypeTSDeclareMethod {
			out.Set("body", nil)
		}
	case body.Type() == "statement_block":
		out.Set("body", c.block(body, true))
	default:
		out.Set("body", c.expr(body))
		out.SetExtra("expression", true)
	}
	return out
}

// method converts a method_definition or method signature. typ is
// ObjectMethod, ClassMethod or TSDeclareMethod; private class methods
// become ClassPrivateMethod.
func (c *converter) method(typ string, m *sitter.Node) *ast.Node {
	key, computed := c.propertyKey(field(m, "name"))
	if typ == ast.TypeClassMethod && key != nil && key.Type == ast.TypePrivateName {
		typ = ast.TypeClassPrivateMethod
	}

	out := c.node(typ, m)
	out.Computed = computed
	out.Static = hasToken(m, "static")
	out.Async = hasToken(m, "async")
	out.Generator = hasToken(m, "*")
	out.Kind = "method"
	switch {
	case hasToken(m, "get"):
		out.Kind = "get"
	case hasToken(m, "set"):
		out.Kind = "set"
	case typ != ast.TypeObjectMethod && !computed && !out.Static && isKeyNamed(key, "constructor"):
		out.Kind = "constructor"
	}
	if access := childOfType(m, "accessibility_modifier"); access != nil {
		out.SetExtra("accessibility", c.text(access))
	}
	if m.Type() == "abstract_method_signature" || hasToken(m, "abstract") {
		out.SetExtra("abstract", true)
	}
	if hasToken(m, "?") {
		out.Optional = true
	}

	if decorators := c.decorators(m); len(decorators) > 0 {
		out.SetList("decorators", decorators...)
	}
	out.Set("key", key)
	if tp := field(m, "type_parameters"); tp != nil {
		out.Set("typeParameters", c.typeParameters(tp))
	}
	out.SetList("params", c.params(field(m, "parameters"))...)
	if rt := field(m, "return_type"); rt != nil {
		out.Set("returnType", c.typeAnnotation(rt))
	}
	if body := field(m, "body"); body != nil {
		out.Set("body", c.block(body, true))
	}
	return out
}

func isKeyNamed(key *ast.Node, name string) bool {
	if key == nil {
		return false
	}
	switch key.Type {
	case ast.TypeIdentifier:
		return key.Name == name
	case ast.TypeStringLiteral:
		s, ok := key.Value.(string)
		return ok && s == name
	}
	return false
}

func (c *converter) decorators(n *sitter.Node) []*ast.Node {
	var out []*ast.Node
	for _, d := range childrenOfType(n, "decorator") {
		out = append(out, c.node("Decorator", d).Set("expression", c.expr(firstNamed(d))))
	}
	return out
}

// class converts a class declaration or expression.
func (c *converter) class(typ string, n *sitter.Node) *ast.Node {
	out := c.node(typ, n)
	if n.Type() == "abstract_class_declaration" {
		out.SetExtra("abstract", true)
	}
	if decorators := c.decorators(n); len(decorators) > 0 {
		out.SetList("decorators", decorators...)
	}
	out.Set("id", c.identifierOrNil(field(n, "name")))
	if tp := field(n, "type_parameters"); tp != nil {
		out.Set("typeParameters", c.typeParameters(tp))
	}

	var superClass, superTypes *ast.Node
	var implements []*ast.Node
	if heritage := childOfType(n, "class_heritage"); heritage != nil {
		for _, h := range named(heritage) {
			switch h.Type() {
			case "extends_clause":
				superClass = c.expr(field(h, "value"))
				if superClass == nil {
					superClass = c.expr(firstNamed(h))
				}
				if ta := field(h, "type_arguments"); ta != nil {
					superTypes = c.typeArguments(ta)
				}
			case "implements_clause":
				for _, t := range named(h) {
					implements = append(implements, c.node("TSExpressionWithTypeArguments", t).
						Set("expression", c.tsType(t)))
				}
			default:
				superClass = c.expr(h)
			}
		}
	}
	out.Set("superClass", superClass)
	if superTypes != nil {
		out.Set("superTypeParameters", superTypes)
	}
	if len(implements) > 0 {
		out.SetList("implements", implements...)
	}

	body := field(n, "body")
	classBody := ast.New(ast.TypeClassBody)
	if body != nil {
		classBody = c.node(ast.TypeClassBody, body)
		classBody.SetList("body", c.classMembers(body)...)
	} else {
		classBody.SetList("body")
	}
	return out.Set("body", classBody)
}

func (c *converter) classMembers(body *sitter.Node) []*ast.Node {
	members := []*ast.Node{}
	for _, m := range named(body) {
		switch m.Type() {
		case "method_definition":
			members = append(members, c.method(ast.TypeClassMethod, m))

		case "method_signature", "abstract_method_signature":
			members = append(members, c.method(ast.TypeTSDeclareMethod, m))

		case "field_definition", "public_field_definition":
			members = append(members, c.classProperty(m))

		case "class_static_block":
			block := c.node(ast.TypeStaticBlock, m)
			var stmts []*sitter.Node
			if b := field(m, "body"); b != nil {
				stmts = named(b)
			} else if b := childOfType(m, "statement_block"); b != nil {
				stmts = named(b)
			}
			_, list := c.statementList(stmts, false)
			members = append(members, block.SetList("body", list...))

		case "decorator", "ERROR":
		default:
			members = append(members, c.generic(m, c.tsType))
		}
	}
	return members
}

func (c *converter) classProperty(m *sitter.Node) *ast.Node {
	nameNode := field(m, "property")
	if nameNode == nil {
		nameNode = field(m, "name")
	}
	key, computed := c.propertyKey(nameNode)

	typ := ast.TypeClassProperty
	switch {
	case hasToken(m, "accessor"):
		typ = ast.TypeClassAccessorProp
	case key != nil && key.Type == ast.TypePrivateName:
		typ = ast.TypeClassPrivateProp
	}

	out := c.node(typ, m)
	out.Computed = computed
	out.Static = hasToken(m, "static")
	out.Declare = hasToken(m, "declare")
	out.Optional = hasToken(m, "?")
	if access := childOfType(m, "accessibility_modifier"); access != nil {
		out.SetExtra("accessibility", c.text(access))
	}
	if hasToken(m, "readonly") {
		out.SetExtra("readonly", true)
	}
	if decorators := c.decorators(m); len(decorators) > 0 {
		out.SetList("decorators", decorators...)
	}
	out.Set("key", key)
	if t := field(m, "type"); t != nil {
		out.Set("typeAnnotation", c.typeAnnotation(t))
	}
	return out.Set("value", c.exprOrNil(field(m, "value")))
}
