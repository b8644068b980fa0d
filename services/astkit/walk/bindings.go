// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package walk

import (
	"fmt"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// ImportBinding is one local name introduced by an import declaration.
type ImportBinding struct {
	// Local is the name bound in this module.
	Local string `json:"local" yaml:"local"`

	// Imported is the exported name in the source module, "default" for a
	// default import or "*" for a namespace import.
	Imported string `json:"imported" yaml:"imported"`

	// Source is the module specifier.
	Source string `json:"source" yaml:"source"`

	// IsType is true for "import { type x }".
	IsType bool `json:"isType" yaml:"isType"`

	// Specifier is the specifier node the binding came from.
	Specifier *ast.Node `json:"-" yaml:"-"`
}

// ExportBinding is one name a module exports.
type ExportBinding struct {
	// Local is the local name being exported, "default" for an anonymous
	// default export, or "*" for namespace re-exports.
	Local string `json:"local" yaml:"local"`

	// Exported is the public name, "default" or "*".
	Exported string `json:"exported" yaml:"exported"`

	// IsType is true for type-only exports.
	IsType bool `json:"isType" yaml:"isType"`

	// Source is the re-exported module specifier, or nil for local exports.
	Source *string `json:"source" yaml:"source"`

	// Specifier is the export specifier node, if the binding came from one.
	Specifier *ast.Node `json:"-" yaml:"-"`

	// Declaration is the exported declaration or default-exported
	// expression, if any.
	Declaration *ast.Node `json:"-" yaml:"-"`
}

// WalkImportDeclaration records the bindings of one ImportDeclaration in
// imports, keyed by local name.
//
// Description:
//
//	Whole-declaration type imports ("import type ...") are skipped.
//	Side-effect imports ("import 'x'") add nothing. Later declarations
//	overwrite earlier ones with the same local name.
//
// Outputs:
//
//	error - When node is not an ImportDeclaration, or a specifier name
//	        cannot be resolved.
func WalkImportDeclaration(imports map[string]ImportBinding, node *ast.Node) error {
	if !node.Is(ast.TypeImportDeclaration) {
		return fmt.Errorf("walk import: %w", ast.ErrUnexpectedNode)
	}
	if node.ImportKind == "type" {
		return nil
	}
	source, err := ast.ResolveString(node.Get("source"), false)
	if err != nil {
		return fmt.Errorf("walk import source: %w", err)
	}
	for _, spec := range node.GetList("specifiers") {
		if spec == nil {
			continue
		}
		local := spec.Get("local")
		if local == nil {
			continue
		}
		b := ImportBinding{
			Local:     local.Name,
			Source:    source,
			Specifier: spec,
			IsType:    spec.Type == ast.TypeImportSpecifier && spec.ImportKind == "type",
		}
		switch spec.Type {
		case ast.TypeImportSpecifier:
			imported, err := ast.ResolveString(spec.Get("imported"), false)
			if err != nil {
				return fmt.Errorf("walk import specifier: %w", err)
			}
			b.Imported = imported
		case ast.TypeImportNamespaceSpecifier:
			b.Imported = "*"
		default:
			b.Imported = "default"
		}
		imports[b.Local] = b
	}
	return nil
}

// WalkExportDeclaration records the bindings of one export declaration in
// exports, keyed by exported name.
//
// Description:
//
//	ExportNamedDeclaration with specifiers: one binding per specifier,
//	"export * as ns" giving local "*", "export d from" giving local
//	"default". Without specifiers: the identifier-named variables or the
//	named function, class, enum, interface or type of the declaration.
//	ExportDefaultDeclaration: exported "default", local the expression's
//	name, the declaration's id, or "default". ExportAllDeclaration: a
//	single "*" entry with the source.
//
//	Destructured variable exports are not recorded.
func WalkExportDeclaration(exports map[string]ExportBinding, node *ast.Node) error {
	if node == nil {
		return fmt.Errorf("walk export: %w", ast.ErrUnexpectedNode)
	}
	switch node.Type {
	case ast.TypeExportNamedDeclaration:
		return walkExportNamed(exports, node)

	case ast.TypeExportDefaultDeclaration:
		decl := node.Get("declaration")
		local := "default"
		if ast.IsExpressionType(decl) {
			if decl.Name != "" {
				local = decl.Name
			}
		} else if id := decl.Get("id"); id != nil {
			name, err := ast.ResolveString(id, false)
			if err != nil {
				return fmt.Errorf("walk export default: %w", err)
			}
			local = name
		}
		exports["default"] = ExportBinding{
			Local:       local,
			Exported:    "default",
			Declaration: decl,
		}
		return nil

	case ast.TypeExportAllDeclaration:
		source, err := ast.ResolveString(node.Get("source"), false)
		if err != nil {
			return fmt.Errorf("walk export all: %w", err)
		}
		exports["*"] = ExportBinding{
			Local:    "*",
			Exported: "*",
			IsType:   node.ExportKind == "type",
			Source:   &source,
		}
		return nil
	}
	return fmt.Errorf("walk export %s: %w", node.Type, ast.ErrUnexpectedNode)
}

func walkExportNamed(exports map[string]ExportBinding, node *ast.Node) error {
	var source *string
	if src := node.Get("source"); src != nil {
		s, err := ast.ResolveString(src, false)
		if err != nil {
			return fmt.Errorf("walk export source: %w", err)
		}
		source = &s
	}

	if specs := node.GetList("specifiers"); len(specs) > 0 {
		for _, s := range specs {
			if s == nil {
				continue
			}
			isSpecifier := s.Type == ast.TypeExportSpecifier
			b := ExportBinding{
				IsType:    node.ExportKind == "type" || (isSpecifier && s.ExportKind == "type"),
				Source:    source,
				Specifier: s,
			}
			switch s.Type {
			case ast.TypeExportSpecifier:
				local, err := ast.ResolveString(s.Get("local"), false)
				if err != nil {
					return fmt.Errorf("walk export specifier: %w", err)
				}
				b.Local = local
			case ast.TypeExportNamespaceSpecifier:
				b.Local = "*"
			default:
				b.Local = "default"
			}
			exported := s.Get("exported")
			if isSpecifier {
				name, err := ast.ResolveString(exported, false)
				if err != nil {
					return fmt.Errorf("walk export specifier: %w", err)
				}
				b.Exported = name
			} else if exported != nil {
				b.Exported = exported.Name
			}
			exports[b.Exported] = b
		}
		return nil
	}

	decl := node.Get("declaration")
	if decl == nil {
		return nil
	}
	isType := node.ExportKind == "type"
	if decl.Type == ast.TypeVariableDeclaration {
		for _, d := range decl.GetList("declarations") {
			id := d.Get("id")
			if !id.Is(ast.TypeIdentifier) {
				continue
			}
			exports[id.Name] = ExportBinding{
				Local:       id.Name,
				Exported:    id.Name,
				IsType:      isType,
				Declaration: decl,
			}
		}
		return nil
	}
	if id := decl.Get("id"); id.Is(ast.TypeIdentifier) {
		exports[id.Name] = ExportBinding{
			Local:       id.Name,
			Exported:    id.Name,
			IsType:      isType,
			Declaration: decl,
		}
	}
	return nil
}
