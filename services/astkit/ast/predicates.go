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

import (
	"slices"
	"strings"
)

// expressionTypes are expression kinds whose names do not end in
// "Expression" or "Literal".
var expressionTypes = map[string]bool{
	TypeIdentifier:                  true,
	TypeMetaProperty:                true,
	TypeSuper:                       true,
	TypeImport:                      true,
	TypeJSXElement:                  true,
	TypeJSXFragment:                 true,
	"TopicReference":                true,
	"PipelineBareFunction":          true,
	"PipelinePrimaryTopicReference": true,
	TypeTSTypeAssertion:             true,
}

var declarationTypes = map[string]bool{
	TypeFunctionDeclaration:       true,
	TypeVariableDeclaration:       true,
	TypeClassDeclaration:          true,
	TypeExportAllDeclaration:      true,
	TypeExportDefaultDeclaration:  true,
	TypeExportNamedDeclaration:    true,
	TypeImportDeclaration:         true,
	"DeclareClass":                true,
	"DeclareFunction":             true,
	"DeclareInterface":            true,
	"DeclareModule":               true,
	"DeclareModuleExports":        true,
	"DeclareTypeAlias":            true,
	"DeclareOpaqueType":           true,
	"DeclareVariable":             true,
	"DeclareExportDeclaration":    true,
	"DeclareExportAllDeclaration": true,
	"InterfaceDeclaration":        true,
	"OpaqueType":                  true,
	"TypeAlias":                   true,
	"EnumDeclaration":             true,
	TypeTSDeclareFunction:         true,
	"TSInterfaceDeclaration":      true,
	"TSTypeAliasDeclaration":      true,
	"TSEnumDeclaration":           true,
	"TSModuleDeclaration":         true,
}

// IsTypeOf reports whether node matches any of the given types.
//
// Description:
//
//	Besides concrete type names, the pseudo-types PseudoFunction,
//	PseudoLiteral and PseudoExpression match the corresponding families
//	(see IsFunctionType, IsLiteralType, IsExpressionType).
//
// Inputs:
//
//	node  - The node to test. May be nil.
//	types - Type names to match against.
//
// Outputs:
//
//	bool - False for a nil node.
func IsTypeOf(node *Node, types ...string) bool {
	if node == nil {
		return false
	}
	for _, typ := range types {
		switch typ {
		case PseudoFunction:
			if IsFunctionType(node) {
				return true
			}
		case PseudoLiteral:
			if IsLiteralType(node) {
				return true
			}
		case PseudoExpression:
			if IsExpressionType(node) {
				return true
			}
		default:
			if node.Type == typ {
				return true
			}
		}
	}
	return false
}

// IsLiteralType reports whether node is any literal kind, including the
// ESTree "Literal".
func IsLiteralType(node *Node) bool {
	return node != nil && strings.HasSuffix(node.Type, "Literal")
}

// IsFunctionType reports whether node is a function-like kind: function
// declarations and expressions, arrows, and object/class methods.
// TypeScript declaration-only forms are excluded.
func IsFunctionType(node *Node) bool {
	if node == nil || strings.HasPrefix(node.Type, "TS") {
		return false
	}
	t := node.Type
	return strings.HasSuffix(t, "FunctionExpression") ||
		strings.HasSuffix(t, "FunctionDeclaration") ||
		strings.HasSuffix(t, "Method")
}

// IsExpressionType reports whether node is an expression kind.
func IsExpressionType(node *Node) bool {
	if node == nil {
		return false
	}
	return strings.HasSuffix(node.Type, "Expression") ||
		IsLiteralType(node) ||
		expressionTypes[node.Type]
}

// IsDeclarationType reports whether node is a declaration kind. A Placeholder
// counts when it stands in for a declaration.
func IsDeclarationType(node *Node) bool {
	if node == nil {
		return false
	}
	if node.Type == TypePlaceholder {
		return node.ExpectedNode == "Declaration"
	}
	return declarationTypes[node.Type]
}

// IsIdentifier reports whether node is an Identifier or a JSXIdentifier.
func IsIdentifier(node *Node) bool {
	return node != nil && (node.Type == TypeIdentifier || node.Type == TypeJSXIdentifier)
}

// IsIdentifierOf reports whether node is an Identifier whose name is one of
// names.
func IsIdentifierOf(node *Node, names ...string) bool {
	return node.Is(TypeIdentifier) && slices.Contains(names, node.Name)
}

// IsCallOf reports whether node is a call whose callee is a plain identifier
// named one of names.
func IsCallOf(node *Node, names ...string) bool {
	return IsCallOfFunc(node, func(name string) bool {
		return slices.Contains(names, name)
	})
}

// IsCallOfFunc reports whether node is a call whose callee is a plain
// identifier accepted by test.
func IsCallOfFunc(node *Node, test func(name string) bool) bool {
	if !node.Is(TypeCallExpression) {
		return false
	}
	callee := node.Get("callee")
	return callee.Is(TypeIdentifier) && test(callee.Name)
}

// IsTaggedFunctionCallOf reports whether node is a tagged template whose tag
// is an identifier named one of names.
func IsTaggedFunctionCallOf(node *Node, names ...string) bool {
	if !node.Is(TypeTaggedTemplate) {
		return false
	}
	tag := node.Get("tag")
	return tag.Is(TypeIdentifier) && slices.Contains(names, tag.Name)
}

// IsForStatement reports whether node is a for, for-in or for-of statement.
func IsForStatement(node *Node) bool {
	return IsTypeOf(node, TypeForStatement, TypeForInStatement, TypeForOfStatement)
}

// IsTSExpressionType reports whether typ is one of TSExpressionTypes.
func IsTSExpressionType(typ string) bool {
	return slices.Contains(TSExpressionTypes, typ)
}

// UnwrapTSNode strips TypeScript expression wrappers ("as", "satisfies",
// non-null, type assertion, instantiation) and returns the runtime
// expression underneath.
func UnwrapTSNode(node *Node) *Node {
	for node != nil && IsTSExpressionType(node.Type) {
		inner := node.Get("expression")
		if inner == nil {
			return node
		}
		node = inner
	}
	return node
}
