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
	"html"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// jsxElement converts jsx_element, jsx_self_closing_element and
// jsx_fragment. An opening tag with no name is a fragment.
func (c *converter) jsxElement(n *sitter.Node) *ast.Node {
	switch n.Type() {
	case "jsx_self_closing_element":
		opening := c.jsxOpening(n, true)
		return c.node(ast.TypeJSXElement, n).
			Set("openingElement", opening).
			SetList("children").
			Set("closingElement", nil)

	case "jsx_fragment":
		return c.node(ast.TypeJSXFragment, n).
			Set("openingFragment", c.node("JSXOpeningFragment", n)).
			SetList("children", c.jsxChildren(n)...).
			Set("closingFragment", c.node("JSXClosingFragment", n))
	}

	open := field(n, "open_tag")
	if open == nil {
		open = childOfType(n, "jsx_opening_element")
	}
	closeTag := field(n, "close_tag")
	if closeTag == nil {
		closeTag = childOfType(n, "jsx_closing_element")
	}

	if open != nil && field(open, "name") == nil && firstNamed(open) == nil {
		out := c.node(ast.TypeJSXFragment, n).
			Set("openingFragment", c.node("JSXOpeningFragment", open)).
			SetList("children", c.jsxChildren(n)...)
		if closeTag != nil {
			out.Set("closingFragment", c.node("JSXClosingFragment", closeTag))
		}
		return out
	}

	out := c.node(ast.TypeJSXElement, n)
	if open != nil {
		out.Set("openingElement", c.jsxOpening(open, false))
	}
	out.SetList("children", c.jsxChildren(n)...)
	var closing *ast.Node
	if closeTag != nil {
		closing = c.node("JSXClosingElement", closeTag).
			Set("name", c.jsxName(jsxTagName(closeTag)))
	}
	return out.Set("closingElement", closing)
}

// jsxTagName returns the name node of an opening, closing or
// self-closing tag.
func jsxTagName(tag *sitter.Node) *sitter.Node {
	if name := field(tag, "name"); name != nil {
		return name
	}
	for _, k := range named(tag) {
		switch k.Type() {
		case "identifier", "member_expression", "nested_identifier", "jsx_namespace_name", "this":
			return k
		}
	}
	return nil
}

func (c *converter) jsxOpening(tag *sitter.Node, selfClosing bool) *ast.Node {
	out := c.node("JSXOpeningElement", tag)
	out.SetExtra("selfClosing", selfClosing)
	nameNode := jsxTagName(tag)
	out.Set("name", c.jsxName(nameNode))
	if ta := field(tag, "type_arguments"); ta != nil {
		out.Set("typeParameters", c.typeArguments(ta))
	}

	attrs := []*ast.Node{}
	for _, a := range named(tag) {
		if sameNode(a, nameNode) {
			continue
		}
		switch a.Type() {
		case "jsx_attribute":
			attrs = append(attrs, c.jsxAttribute(a))
		case "jsx_expression":
			spread := firstNamed(a)
			if spread != nil && spread.Type() == "spread_element" {
				attrs = append(attrs, c.node("JSXSpreadAttribute", a).
					Set("argument", c.expr(firstNamed(spread))))
			}
		}
	}
	return out.SetList("attributes", attrs...)
}

func (c *converter) jsxAttribute(a *sitter.Node) *ast.Node {
	kids := named(a)
	out := c.node(ast.TypeJSXAttribute, a)
	if len(kids) == 0 {
		return out.Set("name", nil).Set("value", nil)
	}
	out.Set("name", c.jsxName(kids[0]))
	var value *ast.Node
	if len(kids) > 1 {
		v := kids[len(kids)-1]
		switch v.Type() {
		case "string":
			raw := c.text(v)
			lit := c.node(ast.TypeStringLiteral, v)
			lit.Value = html.UnescapeString(stripQuotes(raw))
			lit.Raw = raw
			lit.SetExtra("raw", raw)
			lit.SetExtra("rawValue", lit.Value)
			value = lit
		case "jsx_expression":
			value = c.jsxExpression(v)
		default:
			value = c.expr(v)
		}
	}
	return out.Set("value", value)
}

// jsxName converts a tag or attribute name.
func (c *converter) jsxName(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "jsx_namespace_name":
		kids := named(n)
		out := c.node(ast.TypeJSXNamespacedName, n)
		if len(kids) == 2 {
			out.Set("namespace", c.jsxIdentifier(kids[0])).Set("name", c.jsxIdentifier(kids[1]))
		}
		return out

	case "member_expression":
		return c.node(ast.TypeJSXMemberExpression, n).
			Set("object", c.jsxName(field(n, "object"))).
			Set("property", c.jsxIdentifier(field(n, "property")))

	case "nested_identifier":
		kids := named(n)
		if len(kids) < 2 {
			return c.jsxIdentifier(n)
		}
		return c.node(ast.TypeJSXMemberExpression, n).
			Set("object", c.jsxName(kids[0])).
			Set("property", c.jsxIdentifier(kids[len(kids)-1]))
	}
	return c.jsxIdentifier(n)
}

func (c *converter) jsxIdentifier(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	out := c.node(ast.TypeJSXIdentifier, n)
	out.Name = c.text(n)
	return out
}

// jsxChildren converts the content between the tags of an element.
func (c *converter) jsxChildren(n *sitter.Node) []*ast.Node {
	out := []*ast.Node{}
	for _, k := range named(n) {
		switch k.Type() {
		case "jsx_opening_element", "jsx_closing_element":
		case "jsx_text", "html_character_reference":
			text := c.node("JSXText", k)
			raw := c.text(k)
			text.Value = html.UnescapeString(raw)
			text.Raw = raw
			text.SetExtra("raw", raw)
			out = append(out, text)
		case "jsx_expression":
			if spread := firstNamed(k); spread != nil && spread.Type() == "spread_element" {
				out = append(out, c.node("JSXSpreadChild", k).Set("expression", c.expr(firstNamed(spread))))
				continue
			}
			out = append(out, c.jsxExpression(k))
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			out = append(out, c.jsxElement(k))
		}
	}
	return out
}

// jsxExpression converts "{expr}". Empty braces hold a JSXEmptyExpression.
func (c *converter) jsxExpression(n *sitter.Node) *ast.Node {
	out := c.node("JSXExpressionContainer", n)
	inner := firstNamed(n)
	if inner == nil {
		empty := ast.New("JSXEmptyExpression")
		c.nodes++
		c.span(empty, int(n.StartByte())+1, max(int(n.EndByte())-1, int(n.StartByte())+1))
		return out.Set("expression", empty)
	}
	return out.Set("expression", c.expr(inner))
}
