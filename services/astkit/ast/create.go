// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

// CreateStringLiteral returns a StringLiteral node for value, with the raw
// source form recorded in Extra the way a parser would.
func CreateStringLiteral(value string) *Node {
	raw := jsonQuote(value)
	n := &Node{Type: TypeStringLiteral, Value: value, Raw: raw}
	n.SetExtra("rawValue", value)
	n.SetExtra("raw", raw)
	return n
}

// CreateTSUnionType returns a TSUnionType over types.
func CreateTSUnionType(types ...*Node) *Node {
	return New(TypeTSUnionType).SetList("types", types...)
}

// CreateTSLiteralType returns a TSLiteralType wrapping literal.
func CreateTSLiteralType(literal *Node) *Node {
	return New(TypeTSLiteralType).Set("literal", literal)
}

// CreateIdentifier returns an Identifier node.
func CreateIdentifier(name string) *Node {
	return &Node{Type: TypeIdentifier, Name: name}
}

// CreateNumericLiteral returns a NumericLiteral node.
func CreateNumericLiteral(value float64) *Node {
	raw := FormatNumber(value)
	n := &Node{Type: TypeNumericLiteral, Value: value, Raw: raw}
	n.SetExtra("rawValue", value)
	n.SetExtra("raw", raw)
	return n
}

// CreateBooleanLiteral returns a BooleanLiteral node.
func CreateBooleanLiteral(value bool) *Node {
	return &Node{Type: TypeBooleanLiteral, Value: value}
}

// CreateMemberExpression returns "object.property", or "object[property]"
// when computed is true.
func CreateMemberExpression(object, property *Node, computed bool) *Node {
	n := New(TypeMemberExpression).Set("object", object).Set("property", property)
	n.Computed = computed
	return n
}

// CreateCallExpression returns "callee(args...)".
func CreateCallExpression(callee *Node, args ...*Node) *Node {
	return New(TypeCallExpression).Set("callee", callee).SetList("arguments", args...)
}
