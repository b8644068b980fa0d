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

// ExtractIdentifiers appends the identifiers a binding pattern binds to out
// and returns the extended slice.
//
// Description:
//
//	Renames, defaults and rest elements all resolve to the local name:
//	"{ a: b = 1, ...c }" yields b and c. For a member expression the base
//	object of the chain is appended ("a" for "a.b.c"). Node kinds that bind
//	nothing contribute nothing.
//
// Inputs:
//
//	node - A pattern, identifier or member expression. May be nil.
//	out  - Accumulator. May be nil.
//
// Outputs:
//
//	[]*Node - out with the identifiers appended in source order.
//
// Example:
//
//	ids := ExtractIdentifiers(declarator.Get("id"), nil)
func ExtractIdentifiers(node *Node, out []*Node) []*Node {
	if node == nil {
		return out
	}
	switch node.Type {
	case TypeIdentifier, TypeJSXIdentifier:
		out = append(out, node)

	case TypeMemberExpression, TypeJSXMemberExpression:
		object := node
		for object.Type == TypeMemberExpression || object.Type == TypeJSXMemberExpression {
			next := object.Get("object")
			if next == nil {
				break
			}
			object = next
		}
		out = append(out, object)

	case TypeObjectPattern:
		for _, prop := range node.GetList("properties") {
			if prop == nil {
				continue
			}
			if prop.Type == TypeRestElement {
				out = ExtractIdentifiers(prop.Get("argument"), out)
			} else {
				out = ExtractIdentifiers(prop.Get("value"), out)
			}
		}

	case TypeArrayPattern:
		for _, el := range node.GetList("elements") {
			if el != nil {
				out = ExtractIdentifiers(el, out)
			}
		}

	case TypeRestElement:
		out = ExtractIdentifiers(node.Get("argument"), out)

	case TypeAssignmentPattern:
		out = ExtractIdentifiers(node.Get("left"), out)

	case "TSParameterProperty":
		out = ExtractIdentifiers(node.Get("parameter"), out)
	}
	return out
}
