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

// Small builders for hand-made trees.

func ident(name string) *Node { return CreateIdentifier(name) }

func str(v string) *Node { return CreateStringLiteral(v) }

func num(v float64) *Node { return CreateNumericLiteral(v) }

func member(object, property *Node, computed bool) *Node {
	return CreateMemberExpression(object, property, computed)
}

func objProp(key, value *Node, shorthand bool) *Node {
	n := New(TypeObjectProperty).Set("key", key).Set("value", value)
	n.Shorthand = shorthand
	return n
}

func assignPattern(left, right *Node) *Node {
	return New(TypeAssignmentPattern).Set("left", left).Set("right", right)
}

func rest(arg *Node) *Node {
	return New(TypeRestElement).Set("argument", arg)
}

func objPattern(props ...*Node) *Node {
	return New(TypeObjectPattern).SetList("properties", props...)
}

func arrPattern(elems ...*Node) *Node {
	return New(TypeArrayPattern).SetList("elements", elems...)
}

func assign(left, right *Node) *Node {
	n := New(TypeAssignment).Set("left", left).Set("right", right)
	n.Operator = "="
	return n
}
