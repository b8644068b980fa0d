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

// Node type names the toolkit inspects directly. Any other Babel type name is
// still a valid Node.Type; this list is not closed.
const (
	TypeFile    = "File"
	TypeProgram = "Program"

	TypeIdentifier    = "Identifier"
	TypePrivateName   = "PrivateName"
	TypeThis          = "ThisExpression"
	TypeSuper         = "Super"
	TypeImport        = "Import"
	TypeMetaProperty  = "MetaProperty"
	TypePlaceholder   = "Placeholder"
	TypeTemplateElem  = "TemplateElement"
	TypeDirective     = "Directive"
	TypeDirectiveLit  = "DirectiveLiteral"
	TypeInterpreter   = "InterpreterDirective"
	TypeSpreadElement = "SpreadElement"

	TypeStringLiteral   = "StringLiteral"
	TypeNumericLiteral  = "NumericLiteral"
	TypeBooleanLiteral  = "BooleanLiteral"
	TypeNullLiteral     = "NullLiteral"
	TypeBigIntLiteral   = "BigIntLiteral"
	TypeDecimalLiteral  = "DecimalLiteral"
	TypeRegExpLiteral   = "RegExpLiteral"
	TypeTemplateLiteral = "TemplateLiteral"

	TypeExpressionStatement = "ExpressionStatement"
	TypeBlockStatement      = "BlockStatement"
	TypeEmptyStatement      = "EmptyStatement"
	TypeReturnStatement     = "ReturnStatement"
	TypeIfStatement         = "IfStatement"
	TypeForStatement        = "ForStatement"
	TypeForInStatement      = "ForInStatement"
	TypeForOfStatement      = "ForOfStatement"
	TypeWhileStatement      = "WhileStatement"
	TypeDoWhileStatement    = "DoWhileStatement"
	TypeLabeledStatement    = "LabeledStatement"
	TypeBreakStatement      = "BreakStatement"
	TypeContinueStatement   = "ContinueStatement"
	TypeThrowStatement      = "ThrowStatement"
	TypeTryStatement        = "TryStatement"
	TypeCatchClause         = "CatchClause"
	TypeSwitchStatement     = "SwitchStatement"
	TypeSwitchCase          = "SwitchCase"
	TypeStaticBlock         = "StaticBlock"

	TypeVariableDeclaration = "VariableDeclaration"
	TypeVariableDeclarator  = "VariableDeclarator"
	TypeFunctionDeclaration = "FunctionDeclaration"
	TypeFunctionExpression  = "FunctionExpression"
	TypeArrowFunction       = "ArrowFunctionExpression"
	TypeClassDeclaration    = "ClassDeclaration"
	TypeClassExpression     = "ClassExpression"
	TypeClassBody           = "ClassBody"
	TypeClassMethod         = "ClassMethod"
	TypeClassPrivateMethod  = "ClassPrivateMethod"
	TypeClassProperty       = "ClassProperty"
	TypeClassPrivateProp    = "ClassPrivateProperty"
	TypeClassAccessorProp   = "ClassAccessorProperty"
	TypeObjectMethod        = "ObjectMethod"
	TypeObjectProperty      = "ObjectProperty"

	TypeObjectExpression   = "ObjectExpression"
	TypeArrayExpression    = "ArrayExpression"
	TypeMemberExpression   = "MemberExpression"
	TypeOptionalMember     = "OptionalMemberExpression"
	TypeCallExpression     = "CallExpression"
	TypeOptionalCall       = "OptionalCallExpression"
	TypeNewExpression      = "NewExpression"
	TypeAssignment         = "AssignmentExpression"
	TypeSequenceExpression = "SequenceExpression"
	TypeTaggedTemplate     = "TaggedTemplateExpression"

	TypeObjectPattern     = "ObjectPattern"
	TypeArrayPattern      = "ArrayPattern"
	TypeAssignmentPattern = "AssignmentPattern"
	TypeRestElement       = "RestElement"

	TypeImportDeclaration        = "ImportDeclaration"
	TypeImportSpecifier          = "ImportSpecifier"
	TypeImportDefaultSpecifier   = "ImportDefaultSpecifier"
	TypeImportNamespaceSpecifier = "ImportNamespaceSpecifier"
	TypeImportAttribute          = "ImportAttribute"
	TypeExportNamedDeclaration   = "ExportNamedDeclaration"
	TypeExportDefaultDeclaration = "ExportDefaultDeclaration"
	TypeExportAllDeclaration     = "ExportAllDeclaration"
	TypeExportSpecifier          = "ExportSpecifier"
	TypeExportNamespaceSpecifier = "ExportNamespaceSpecifier"
	TypeExportDefaultSpecifier   = "ExportDefaultSpecifier"

	TypeJSXElement          = "JSXElement"
	TypeJSXFragment         = "JSXFragment"
	TypeJSXIdentifier       = "JSXIdentifier"
	TypeJSXMemberExpression = "JSXMemberExpression"
	TypeJSXNamespacedName   = "JSXNamespacedName"
	TypeJSXAttribute        = "JSXAttribute"

	TypeTSAsExpression            = "TSAsExpression"
	TypeTSTypeAssertion           = "TSTypeAssertion"
	TypeTSNonNullExpression       = "TSNonNullExpression"
	TypeTSInstantiationExpression = "TSInstantiationExpression"
	TypeTSSatisfiesExpression     = "TSSatisfiesExpression"
	TypeTSEnumMember              = "TSEnumMember"
	TypeTSPropertySignature       = "TSPropertySignature"
	TypeTSUnionType               = "TSUnionType"
	TypeTSLiteralType             = "TSLiteralType"
	TypeTSTypeAnnotation          = "TSTypeAnnotation"
	TypeTSDeclareFunction         = "TSDeclareFunction"
	TypeTSDeclareMethod           = "TSDeclareMethod"
	TypeObjectTypeProperty        = "ObjectTypeProperty"
)

// Pseudo-types accepted by IsTypeOf in addition to concrete type names.
const (
	PseudoFunction   = "Function"
	PseudoLiteral    = "Literal"
	PseudoExpression = "Expression"
)

// TSExpressionTypes are the TypeScript wrapper kinds whose inner expression is
// ordinary runtime code ("foo as T", "<T>foo", "foo!", "foo<T>",
// "foo satisfies T").
var TSExpressionTypes = []string{
	TypeTSAsExpression,
	TypeTSTypeAssertion,
	TypeTSNonNullExpression,
	TypeTSInstantiationExpression,
	TypeTSSatisfiesExpression,
}

// Comment is a source comment collected by the parser.
//
// Type is "CommentBlock" or "CommentLine"; Value excludes the delimiters.
type Comment struct {
	Type  string          `json:"type" yaml:"type"`
	Value string          `json:"value" yaml:"value"`
	Start int             `json:"start" yaml:"start"`
	End   int             `json:"end" yaml:"end"`
	Loc   *SourceLocation `json:"loc,omitempty" yaml:"loc,omitempty"`
}
