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

// typeOnlyDeclarations are declarations exported with exportKind "type".
var typeOnlyDeclarations = map[string]bool{
	"interface_declaration":  true,
	"type_alias_declaration": true,
}

// moduleName converts an import or export name, which is an identifier or
// a string literal.
func (c *converter) moduleName(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "string" {
		return c.stringLiteral(n)
	}
	return c.identifier(n)
}

// kindToken returns "type" or "typeof" when n carries that modifier, else
// "value".
func kindToken(n *sitter.Node) string {
	switch {
	case hasToken(n, "type"):
		return "type"
	case hasToken(n, "typeof"):
		return "typeof"
	}
	return "value"
}

func (c *converter) importDeclaration(n *sitter.Node) *ast.Node {
	if req := childOfType(n, "import_require_clause"); req != nil {
		return c.importEquals(n, req)
	}

	out := c.node(ast.TypeImportDeclaration, n)
	out.ImportKind = kindToken(n)

	specifiers := []*ast.Node{}
	if clause := childOfType(n, "import_clause"); clause != nil {
		for _, part := range named(clause) {
			switch part.Type() {
			case "identifier":
				specifiers = append(specifiers, c.node(ast.TypeImportDefaultSpecifier, part).
					Set("local", c.identifier(part)))

			case "namespace_import":
				specifiers = append(specifiers, c.node(ast.TypeImportNamespaceSpecifier, part).
					Set("local", c.identifierOrNil(firstNamed(part))))

			case "named_imports":
				for _, s := range named(part) {
					if s.Type() != "import_specifier" {
						continue
					}
					specifiers = append(specifiers, c.importSpecifier(s))
				}
			}
		}
	}

	out.SetList("specifiers", specifiers...)
	out.Set("source", c.moduleSource(n))
	if attrs := c.importAttributes(n); attrs != nil {
		out.SetList("attributes", attrs...)
	}
	return out
}

func (c *converter) importSpecifier(s *sitter.Node) *ast.Node {
	nameNode := field(s, "name")
	imported := c.moduleName(nameNode)
	var local *ast.Node
	if alias := field(s, "alias"); alias != nil {
		local = c.identifier(alias)
	} else if nameNode != nil {
		local = c.identifier(nameNode)
	}
	spec := c.node(ast.TypeImportSpecifier, s).
		Set("imported", imported).
		Set("local", local)
	spec.ImportKind = kindToken(s)
	return spec
}

// moduleSource returns the "source" string of an import or export, or nil.
func (c *converter) moduleSource(n *sitter.Node) *ast.Node {
	if src := field(n, "source"); src != nil {
		return c.stringLiteral(src)
	}
	if src := childOfType(n, "string"); src != nil {
		return c.stringLiteral(src)
	}
	return nil
}

// importAttributes converts "with { type: 'json' }".
func (c *converter) importAttributes(n *sitter.Node) []*ast.Node {
	attr := childOfType(n, "import_attribute")
	if attr == nil {
		return nil
	}
	out := []*ast.Node{}
	for _, obj := range named(attr) {
		for _, pair := range named(obj) {
			if pair.Type() != "pair" {
				continue
			}
			key, _ := c.propertyKey(field(pair, "key"))
			out = append(out, c.node(ast.TypeImportAttribute, pair).
				Set("key", key).
				Set("value", c.expr(field(pair, "value"))))
		}
	}
	return out
}

// importEquals converts "import x = require('y')".
func (c *converter) importEquals(n, req *sitter.Node) *ast.Node {
	out := c.node("TSImportEqualsDeclaration", n)
	out.ImportKind = kindToken(n)
	ref := c.node("TSExternalModuleReference", req)
	if src := childOfType(req, "string"); src != nil {
		ref.Set("expression", c.stringLiteral(src))
	}
	return out.
		Set("id", c.identifierOrNil(childOfType(req, "identifier"))).
		Set("moduleReference", ref)
}

func (c *converter) exportDeclaration(n *sitter.Node) *ast.Node {
	decorators := c.decorators(n)

	// export = value
	if hasToken(n, "=") {
		value := field(n, "value")
		if value == nil {
			value = firstNamed(n)
		}
		return c.node("TSExportAssignment", n).Set("expression", c.exprOrNil(value))
	}

	// export as namespace X
	if hasToken(n, "as") && hasToken(n, "namespace") {
		return c.node("TSNamespaceExportDeclaration", n).
			Set("id", c.identifierOrNil(firstNamed(n)))
	}

	if hasToken(n, "default") {
		out := c.node(ast.TypeExportDefaultDeclaration, n)
		var decl *ast.Node
		if d := field(n, "declaration"); d != nil {
			decl = c.statement(d)
		} else if v := field(n, "value"); v != nil {
			decl = c.defaultValue(v)
		}
		if decl != nil && len(decorators) > 0 && decl.Type == ast.TypeClassDeclaration && !decl.Has("decorators") {
			decl.SetList("decorators", decorators...)
		}
		out.ExportKind = "value"
		return out.Set("declaration", decl)
	}

	if d := field(n, "declaration"); d != nil {
		out := c.node(ast.TypeExportNamedDeclaration, n)
		out.ExportKind = "value"
		if typeOnlyDeclarations[d.Type()] {
			out.ExportKind = "type"
		}
		decl := c.statement(d)
		if decl != nil && len(decorators) > 0 && decl.Type == ast.TypeClassDeclaration && !decl.Has("decorators") {
			decl.SetList("decorators", decorators...)
		}
		return out.
			Set("declaration", decl).
			SetList("specifiers").
			Set("source", nil)
	}

	source := c.moduleSource(n)

	if ns := childOfType(n, "namespace_export"); ns != nil {
		spec := c.node(ast.TypeExportNamespaceSpecifier, ns).
			Set("exported", c.moduleName(firstNamed(ns)))
		out := c.node(ast.TypeExportNamedDeclaration, n).
			SetList("specifiers", spec).
			Set("source", source)
		out.ExportKind = kindToken(n)
		return out
	}

	clause := childOfType(n, "export_clause")
	if clause == nil && hasToken(n, "*") {
		out := c.node(ast.TypeExportAllDeclaration, n).Set("source", source)
		out.ExportKind = kindToken(n)
		if attrs := c.importAttributes(n); attrs != nil {
			out.SetList("attributes", attrs...)
		}
		return out
	}

	specifiers := []*ast.Node{}
	for _, s := range named(clause) {
		if s.Type() != "export_specifier" {
			continue
		}
		nameNode := field(s, "name")
		local := c.moduleName(nameNode)
		exported := local
		if alias := field(s, "alias"); alias != nil {
			exported = c.moduleName(alias)
		} else if nameNode != nil {
			exported = c.moduleName(nameNode)
		}
		spec := c.node(ast.TypeExportSpecifier, s).
			Set("local", local).
			Set("exported", exported)
		spec.ExportKind = kindToken(s)
		specifiers = append(specifiers, spec)
	}
	out := c.node(ast.TypeExportNamedDeclaration, n).
		Set("declaration", nil).
		SetList("specifiers", specifiers...).
		Set("source", source)
	out.ExportKind = kindToken(n)
	if attrs := c.importAttributes(n); attrs != nil {
		out.SetList("attributes", attrs...)
	}
	return out
}

// defaultValue converts the value of "export default". Anonymous functions
// and classes become declarations with a nil id.
func (c *converter) defaultValue(v *sitter.Node) *ast.Node {
	switch v.Type() {
	case "function", "function_expression", "generator_function":
		return c.function(ast.TypeFunctionDeclaration, v)
	case "class":
		return c.class(ast.TypeClassDeclaration, v)
	}
	return c.expr(v)
}
