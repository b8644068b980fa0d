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
	"math"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

var logicalOperators = map[string]bool{"&&": true, "||": true, "??": true}

func (c *converter) exprOrNil(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	return c.expr(n)
}

// expr converts an expression node.
func (c *converter) expr(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "ERROR":
		return nil

	case "identifier", "undefined", "property_identifier", "shorthand_property_identifier",
		"statement_identifier", "type_identifier":
		return c.identifier(n)

	case "private_property_identifier":
		return c.privateName(n)

	case "this":
		return c.node(ast.TypeThis, n)

	case "super":
		return c.node(ast.TypeSuper, n)

	case "import":
		return c.node(ast.TypeImport, n)

	case "number":
		return c.number(n)

	case "string":
		return c.stringLiteral(n)

	case "template_string":
		return c.template(n)

	case "regex":
		return c.regex(n)

	case "true", "false":
		lit := c.node(ast.TypeBooleanLiteral, n)
		lit.Value = n.Type() == "true"
		return lit

	case "null":
		return c.node(ast.TypeNullLiteral, n)

	case "object":
		return c.object(n)

	case "array":
		return c.node(ast.TypeArrayExpression, n).SetList("elements", c.elements(n, c.expr)...)

	case "function", "function_expression", "generator_function":
		return c.function(ast.TypeFunctionExpression, n)

	case "arrow_function":
		return c.function(ast.TypeArrowFunction, n)

	case "class":
		return c.class(ast.TypeClassExpression, n)

	case "call_expression":
		return c.call(n)

	case "new_expression":
		out := c.node(ast.TypeNewExpression, n).Set("callee", c.expr(field(n, "constructor")))
		if ta := field(n, "type_arguments"); ta != nil {
			out.Set("typeParameters", c.typeArguments(ta))
		}
		return out.SetList("arguments", c.arguments(field(n, "arguments"))...)

	case "await_expression":
		return c.node("AwaitExpression", n).Set("argument", c.exprOrNil(firstNamed(n)))

	case "yield_expression":
		out := c.node("YieldExpression", n).Set("argument", c.exprOrNil(firstNamed(n)))
		out.Delegate = hasToken(n, "*")
		return out

	case "member_expression", "subscript_expression":
		return c.member(n)

	case "assignment_expression":
		out := c.node(ast.TypeAssignment, n).
			Set("left", c.pattern(field(n, "left"))).
			Set("right", c.expr(field(n, "right")))
		out.Operator = "="
		return out

	case "augmented_assignment_expression":
		out := c.node(ast.TypeAssignment, n).
			Set("left", c.pattern(field(n, "left"))).
			Set("right", c.expr(field(n, "right")))
		out.Operator = c.operator(n, "=")
		return out

	case "unary_expression":
		out := c.node("UnaryExpression", n).Set("argument", c.expr(field(n, "argument")))
		out.Operator = c.operator(n, "")
		out.Prefix = true
		return out

	case "binary_expression":
		op := c.operator(n, "")
		typ := "BinaryExpression"
		if logicalOperators[op] {
			typ = "LogicalExpression"
		}
		out := c.node(typ, n).
			Set("left", c.expr(field(n, "left"))).
			Set("right", c.expr(field(n, "right")))
		out.Operator = op
		return out

	case "update_expression":
		arg := field(n, "argument")
		out := c.node("UpdateExpression", n).Set("argument", c.expr(arg))
		out.Operator = c.operator(n, "")
		out.Prefix = arg != nil && arg.StartByte() > n.StartByte()
		return out

	case "ternary_expression":
		return c.node("ConditionalExpression", n).
			Set("test", c.expr(field(n, "condition"))).
			Set("consequent", c.expr(field(n, "consequence"))).
			Set("alternate", c.expr(field(n, "alternative")))

	case "sequence_expression":
		var exprs []*ast.Node
		c.flattenSequence(n, &exprs)
		return c.node(ast.TypeSequenceExpression, n).SetList("expressions", exprs...)

	case "parenthesized_expression":
		inner := c.expr(firstNamed(n))
		if inner != nil {
			inner.SetExtra("parenthesized", true)
			inner.SetExtra("parenStart", c.position(int(n.StartByte())).Index)
		}
		return inner

	case "spread_element":
		return c.node(ast.TypeSpreadElement, n).Set("argument", c.expr(firstNamed(n)))

	case "meta_property":
		return c.metaProperty(n)

	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return c.jsxElement(n)

	case "as_expression", "satisfies_expression":
		typ := ast.TypeTSAsExpression
		if n.Type() == "satisfies_expression" {
			typ = ast.TypeTSSatisfiesExpression
		}
		kids := named(n)
		out := c.node(typ, n)
		if len(kids) > 0 {
			out.Set("expression", c.expr(kids[0]))
		}
		if len(kids) > 1 {
			out.Set("typeAnnotation", c.tsType(kids[len(kids)-1]))
		}
		return out

	case "non_null_expression":
		return c.node(ast.TypeTSNonNullExpression, n).Set("expression", c.expr(firstNamed(n)))

	case "type_assertion":
		kids := named(n)
		out := c.node(ast.TypeTSTypeAssertion, n)
		if len(kids) == 2 {
			var typ *ast.Node
			if ta := kids[0]; ta.Type() == "type_arguments" {
				typ = c.tsType(firstNamed(ta))
			} else {
				typ = c.tsType(ta)
			}
			out.Set("typeAnnotation", typ).Set("expression", c.expr(kids[1]))
		}
		return out

	case "instantiation_expression":
		return c.node(ast.TypeTSInstantiationExpression, n).
			Set("expression", c.expr(field(n, "function"))).
			Set("typeParameters", c.typeArguments(field(n, "type_arguments")))
	}
	return c.generic(n, c.expr)
}

func (c *converter) identifier(n *sitter.Node) *ast.Node {
	out := c.node(ast.TypeIdentifier, n)
	out.Name = c.text(n)
	return out
}

func (c *converter) identifierOrNil(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	return c.identifier(n)
}

// privateName converts "#name".
func (c *converter) privateName(n *sitter.Node) *ast.Node {
	out := c.node(ast.TypePrivateName, n)
	id := c.node(ast.TypeIdentifier, n)
	id.Name = strings.TrimPrefix(c.text(n), "#")
	if id.Start < id.End {
		c.span(id, int(n.StartByte())+1, int(n.EndByte()))
	}
	return out.Set("id", id)
}

// operator returns the text of n's operator field, or fallback.
func (c *converter) operator(n *sitter.Node, fallback string) string {
	if op := field(n, "operator"); op != nil {
		return c.text(op)
	}
	return fallback
}

func (c *converter) number(n *sitter.Node) *ast.Node {
	raw := c.text(n)
	if strings.HasSuffix(raw, "n") {
		lit := c.node(ast.TypeBigIntLiteral, n)
		lit.Value = strings.TrimSuffix(raw, "n")
		lit.Raw = raw
		lit.SetExtra("raw", raw)
		lit.SetExtra("rawValue", lit.Value)
		return lit
	}
	v, ok := ast.ParseNumber(raw)
	if !ok {
		v = math.NaN()
	}
	lit := c.node(ast.TypeNumericLiteral, n)
	lit.Value = v
	lit.Raw = raw
	lit.SetExtra("raw", raw)
	lit.SetExtra("rawValue", v)
	return lit
}

func (c *converter) stringLiteral(n *sitter.Node) *ast.Node {
	raw := c.text(n)
	value, _ := decodeString(stripQuotes(raw))
	lit := c.node(ast.TypeStringLiteral, n)
	lit.Value = value
	lit.Raw = raw
	lit.SetExtra("raw", raw)
	lit.SetExtra("rawValue", value)
	return lit
}

// template converts a template literal. Quasis are cut from the source
// between the backticks and the ${} substitutions.
func (c *converter) template(n *sitter.Node) *ast.Node {
	out := c.node(ast.TypeTemplateLiteral, n)
	var quasis, exprs []*ast.Node

	start := int(n.StartByte()) + 1
	addQuasi := func(end int, tail bool) {
		if end < start {
			end = start
		}
		raw := string(c.src[start:end])
		elem := ast.New(ast.TypeTemplateElem)
		c.nodes++
		c.span(elem, start, end)
		elem.Raw = raw
		if cooked, ok := decodeString(raw); ok {
			elem.Value = cooked
		}
		elem.SetExtra("tail", tail)
		quasis = append(quasis, elem)
	}

	for _, sub := range named(n) {
		if sub.Type() != "template_substitution" {
			continue
		}
		addQuasi(int(sub.StartByte()), false)
		exprs = append(exprs, c.exprOrNil(firstNamed(sub)))
		start = int(sub.EndByte())
	}
	end := int(n.EndByte())
	if end > start && c.src[end-1] == '`' {
		end--
	}
	addQuasi(end, true)

	return out.SetList("quasis", quasis...).SetList("expressions", exprs...)
}

func (c *converter) regex(n *sitter.Node) *ast.Node {
	raw := c.text(n)
	lit := c.node(ast.TypeRegExpLiteral, n)
	if p := field(n, "pattern"); p != nil {
		lit.Pattern = c.text(p)
	}
	if f := field(n, "flags"); f != nil {
		lit.Flags = c.text(f)
	}
	if lit.Pattern == "" {
		if i := strings.LastIndexByte(raw, '/'); i > 0 {
			lit.Pattern = raw[1:i]
			lit.Flags = raw[i+1:]
		}
	}
	lit.Raw = raw
	lit.SetExtra("raw", raw)
	return lit
}

// elements converts the items of an array or array pattern, keeping holes
// as nil entries.
func (c *converter) elements(n *sitter.Node, conv func(*sitter.Node) *ast.Node) []*ast.Node {
	out := []*ast.Node{}
	sawElement := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch {
		case child.Type() == "comment":
		case child.IsNamed():
			out = append(out, conv(child))
			sawElement = true
		case child.Type() == ",":
			if !sawElement {
				out = append(out, nil)
			}
			sawElement = false
		}
	}
	return out
}

func (c *converter) flattenSequence(n *sitter.Node, out *[]*ast.Node) {
	for _, child := range named(n) {
		if child.Type() == "sequence_expression" {
			c.flattenSequence(child, out)
			continue
		}
		*out = append(*out, c.expr(child))
	}
}

func (c *converter) arguments(n *sitter.Node) []*ast.Node {
	out := []*ast.Node{}
	for _, arg := range named(n) {
		out = append(out, c.expr(arg))
	}
	return out
}

// isOptionalLink reports whether n contains "?." directly.
func isOptionalLink(n *sitter.Node) bool {
	return hasToken(n, "?.") || childOfType(n, "optional_chain") != nil
}

// continuesChain reports whether node is an optional chain that a
// following member or call extends.
func continuesChain(node *ast.Node) bool {
	if node == nil || node.ExtraBool("parenthesized") {
		return false
	}
	return node.Type == ast.TypeOptionalMember || node.Type == ast.TypeOptionalCall
}

func (c *converter) member(n *sitter.Node) *ast.Node {
	object := c.expr(field(n, "object"))
	var property *ast.Node
	computed := n.Type() == "subscript_expression"
	if computed {
		property = c.expr(field(n, "index"))
	} else if p := field(n, "property"); p != nil {
		property = c.expr(p)
	}

	if object.Is(ast.TypeImport) && !computed && property.Is(ast.TypeIdentifier) {
		object.Type = ast.TypeIdentifier
		object.Name = "import"
		return c.node(ast.TypeMetaProperty, n).Set("meta", object).Set("property", property)
	}

	optional := isOptionalLink(n)
	typ := ast.TypeMemberExpression
	if optional || continuesChain(object) {
		typ = ast.TypeOptionalMember
	}
	out := c.node(typ, n).Set("object", object).Set("property", property)
	out.Computed = computed
	out.Optional = optional
	return out
}

func (c *converter) call(n *sitter.Node) *ast.Node {
	fn := field(n, "function")
	args := field(n, "arguments")
	callee := c.expr(fn)

	if args != nil && args.Type() == "template_string" {
		out := c.node(ast.TypeTaggedTemplate, n).Set("tag", callee)
		if ta := field(n, "type_arguments"); ta != nil {
			out.Set("typeParameters", c.typeArguments(ta))
		}
		return out.Set("quasi", c.template(args))
	}

	optional := isOptionalLink(n)
	typ := ast.TypeCallExpression
	if optional || continuesChain(callee) {
		typ = ast.TypeOptionalCall
	}
	out := c.node(typ, n).Set("callee", callee)
	out.Optional = optional
	if ta := field(n, "type_arguments"); ta != nil {
		out.Set("typeParameters", c.typeArguments(ta))
	}
	return out.SetList("arguments", c.arguments(args)...)
}

// metaProperty converts "new.target" and "import.meta".
func (c *converter) metaProperty(n *sitter.Node) *ast.Node {
	text := c.text(n)
	metaName, propName, _ := strings.Cut(text, ".")
	start := int(n.StartByte())

	meta := ast.New(ast.TypeIdentifier)
	meta.Name = strings.TrimSpace(metaName)
	c.span(meta, start, start+len(metaName))

	prop := ast.New(ast.TypeIdentifier)
	prop.Name = strings.TrimSpace(propName)
	c.span(prop, int(n.EndByte())-len(propName), int(n.EndByte()))

	c.nodes += 2
	return c.node(ast.TypeMetaProperty, n).Set("meta", meta).Set("property", prop)
}

// object converts an object literal.
func (c *converter) object(n *sitter.Node) *ast.Node {
	var props []*ast.Node
	for _, m := range named(n) {
		switch m.Type() {
		case "pair":
			key, computed := c.propertyKey(field(m, "key"))
			prop := c.node(ast.TypeObjectProperty, m).
				Set("key", key).
				Set("value", c.expr(field(m, "value")))
			prop.Computed = computed
			props = append(props, prop)

		case "shorthand_property_identifier":
			prop := c.node(ast.TypeObjectProperty, m).
				Set("key", c.identifier(m)).
				Set("value", c.identifier(m))
			prop.Shorthand = true
			props = append(props, prop)

		case "method_definition":
			props = append(props, c.method(ast.TypeObjectMethod, m))

		case "spread_element":
			props = append(props, c.expr(m))

		case "assignment_pattern", "object_assignment_pattern":
			props = append(props, c.shorthandDefault(m))

		case "ERROR":
		default:
			props = append(props, c.expr(m))
		}
	}
	return c.node(ast.TypeObjectExpression, n).SetList("properties", props...)
}

// propertyKey converts an object or class member key and reports whether
// it is computed ("[expr]").
func (c *converter) propertyKey(n *sitter.Node) (*ast.Node, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Type() {
	case "computed_property_name":
		return c.expr(firstNamed(n)), true
	case "property_identifier", "identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "type_identifier":
		return c.identifier(n), false
	case "private_property_identifier":
		return c.privateName(n), false
	}
	return c.expr(n), false
}
