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

import "strings"

// IsReferenced reports whether node, sitting in the given parent, reads a
// binding rather than declaring one or naming a property.
//
// Description:
//
//	The decision is made from the parent's kind and which of the parent's
//	slots holds node. The grandparent disambiguates object properties
//	(pattern vs literal) and export specifiers (re-export vs local export).
//	Parent kinds not listed below count as references.
//
// Inputs:
//
//	node        - The identifier-like node being classified.
//	parent      - Its parent. A nil parent counts as a reference.
//	grandparent - The parent's parent. May be nil.
//
// Outputs:
//
//	bool - True when node is a reference.
//
// Example:
//
//	// foo.bar: the object is a reference, the property is not.
//	IsReferenced(member.Get("object"), member, nil)   // true
//	IsReferenced(member.Get("property"), member, nil) // false
func IsReferenced(node, parent, grandparent *Node) bool {
	if parent == nil {
		return true
	}
	switch parent.Type {
	// yes: PARENT[NODE], NODE.child; no: parent.NODE
	case TypeMemberExpression, TypeOptionalMember:
		if parent.Get("property") == node {
			return parent.Computed
		}
		return parent.Get("object") == node

	case TypeJSXMemberExpression:
		return parent.Get("object") == node

	// no: let NODE = init; yes: let id = NODE
	case TypeVariableDeclarator:
		return parent.Get("init") == node

	// yes: () => NODE; no: (NODE) => {}
	case TypeArrowFunction:
		return parent.Get("body") == node

	case TypePrivateName:
		return false

	// no: class { NODE() {} }; yes: class { [NODE]() {} }
	case TypeClassMethod, TypeClassPrivateMethod, TypeObjectMethod:
		if parent.Get("key") == node {
			return parent.Computed
		}
		return false

	// yes: { [NODE]: "" }; no: { NODE: "" }
	case TypeObjectProperty:
		if parent.Get("key") == node {
			return parent.Computed
		}
		return grandparent == nil || grandparent.Type != TypeObjectPattern

	// no: class { NODE = value }; yes: class { [NODE] = value }, class { key = NODE }
	case TypeClassProperty, TypeClassAccessorProp:
		if parent.Get("key") == node {
			return parent.Computed
		}
		return true

	case TypeClassPrivateProp:
		return parent.Get("key") != node

	// no: class NODE {}; yes: class Foo extends NODE {}
	case TypeClassDeclaration, TypeClassExpression:
		return parent.Get("superClass") == node

	// yes: left = NODE; no: NODE = right
	case TypeAssignment:
		return parent.Get("right") == node

	// no: [NODE = foo] = []; yes: [foo = NODE] = []
	case TypeAssignmentPattern:
		return parent.Get("right") == node

	case TypeLabeledStatement, TypeCatchClause, TypeRestElement,
		TypeBreakStatement, TypeContinueStatement:
		return false

	// no: function NODE() {}, function foo(NODE) {}
	case TypeFunctionDeclaration, TypeFunctionExpression:
		return false

	// no: export NODE from "foo"; export * as NODE from "foo"
	case TypeExportNamespaceSpecifier, TypeExportDefaultSpecifier:
		return false

	// no: export { foo as NODE }; yes: export { NODE as foo };
	// no: export { NODE as foo } from "foo"
	case TypeExportSpecifier:
		if grandparent != nil && grandparent.Get("source") != nil {
			return false
		}
		return parent.Get("local") == node

	case TypeImportDefaultSpecifier, TypeImportNamespaceSpecifier, TypeImportSpecifier:
		return false

	// no: import "foo" with { NODE: "json" }
	case TypeImportAttribute:
		return false

	// no: <div NODE="foo" />, <svg:NODE />
	case TypeJSXAttribute, TypeJSXNamespacedName:
		return false

	// no: [NODE] = []; ({ NODE }) = []
	case TypeObjectPattern, TypeArrayPattern:
		return false

	// no: new.NODE, NODE.target
	case TypeMetaProperty:
		return false

	// yes: type X = { someProperty: NODE }; no: type X = { NODE: OtherType }
	case TypeObjectTypeProperty:
		return parent.Get("key") != node

	// yes: enum X { Foo = NODE }; no: enum X { NODE }
	case TypeTSEnumMember:
		return parent.Get("id") != node

	// yes: { [NODE]: value }; no: { NODE: value }
	case TypeTSPropertySignature:
		if parent.Get("key") == node {
			return parent.Computed
		}
		return true
	}
	return true
}

// IsReferencedIdentifier refines IsReferenced for identifier walks, where the
// ancestor chain is available.
//
// Description:
//
//	A root identifier (nil parent) is a reference. The implicit "arguments"
//	binding never is. Otherwise IsReferenced decides, using the element
//	below the top of parentStack as grandparent, and assignment targets
//	are then reclassified as references: simple assignment operands and
//	assignment-pattern operands, plus object-property values and
//	array-pattern elements inside a destructuring assignment.
//
// Inputs:
//
//	id          - The identifier being classified.
//	parent      - Its parent, or nil at the root.
//	parentStack - Ancestors, root first; the top is parent.
func IsReferencedIdentifier(id, parent *Node, parentStack []*Node) bool {
	if parent == nil {
		return true
	}
	if id.Name == "arguments" {
		return false
	}

	var grandparent *Node
	if len(parentStack) >= 2 {
		grandparent = parentStack[len(parentStack)-2]
	}
	if IsReferenced(id, parent, grandparent) {
		return true
	}

	switch parent.Type {
	case TypeAssignment, TypeAssignmentPattern:
		return true
	case TypeObjectProperty:
		return parent.Get("key") != id && IsInDestructureAssignment(parent, parentStack)
	case TypeArrayPattern:
		return IsInDestructureAssignment(parent, parentStack)
	}
	return false
}

// IsInDestructureAssignment reports whether parent, an object property or
// array pattern, sits inside the target of a destructuring assignment such
// as "({ a: b } = obj)" or "[x] = arr".
//
// Description:
//
//	Scans parentStack from the top down. An AssignmentExpression ends the
//	scan with true. Object properties and *Pattern kinds are passed over.
//	Anything else ends the scan with false.
func IsInDestructureAssignment(parent *Node, parentStack []*Node) bool {
	if parent == nil || (parent.Type != TypeObjectProperty && parent.Type != TypeArrayPattern) {
		return false
	}
	for i := len(parentStack) - 1; i >= 0; i-- {
		p := parentStack[i]
		if p.Type == TypeAssignment {
			return true
		}
		if p.Type != TypeObjectProperty && !strings.HasSuffix(p.Type, "Pattern") {
			break
		}
	}
	return false
}

// IsInNewExpression reports whether the top of parentStack, looking through
// any member-expression chain, is a NewExpression, as for Foo in
// "new Foo.Bar.Baz()".
func IsInNewExpression(parentStack []*Node) bool {
	for i := len(parentStack) - 1; i >= 0; i-- {
		p := parentStack[i]
		if p.Type == TypeNewExpression {
			return true
		}
		if p.Type != TypeMemberExpression {
			break
		}
	}
	return false
}
