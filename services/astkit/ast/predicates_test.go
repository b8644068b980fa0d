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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTypeOf(t *testing.T) {
	assert.False(t, IsTypeOf(nil, TypeNullLiteral))
	assert.True(t, IsTypeOf(New(TypeNullLiteral), TypeNullLiteral))
	assert.True(t, IsTypeOf(New(TypeNullLiteral), PseudoLiteral, TypeObjectExpression))
	assert.True(t, IsTypeOf(New(TypeClassMethod), PseudoFunction))
	assert.False(t, IsTypeOf(New("AnyTypeAnnotation"), TypeNullLiteral))

	assert.True(t, IsTypeOf(New(TypeArrayExpression), PseudoExpression))
	assert.True(t, IsTypeOf(New(TypeNullLiteral), PseudoExpression))
	assert.True(t, IsTypeOf(New(TypeJSXElement), PseudoExpression))
	assert.True(t, IsTypeOf(New("Literal"), PseudoLiteral))
}

func TestIsLiteralType(t *testing.T) {
	assert.True(t, IsLiteralType(New(TypeNullLiteral)))
	assert.True(t, IsLiteralType(New("Literal")))
	assert.True(t, IsLiteralType(New(TypeTemplateLiteral)))
	assert.False(t, IsLiteralType(New("AnyTypeAnnotation")))
	assert.False(t, IsLiteralType(nil))
}

func TestIsFunctionType(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{TypeFunctionDeclaration, true},
		{TypeFunctionExpression, true},
		{TypeArrowFunction, true},
		{TypeClassMethod, true},
		{TypeClassPrivateMethod, true},
		{TypeObjectMethod, true},
		{TypeTSDeclareMethod, false},
		{TypeTSDeclareFunction, false},
		{"MethodDefinition", false},
		{TypeCallExpression, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFunctionType(New(tt.typ)))
		})
	}
	assert.False(t, IsFunctionType(nil))
}

func TestIsDeclarationType(t *testing.T) {
	assert.True(t, IsDeclarationType(New(TypeFunctionDeclaration)))
	assert.True(t, IsDeclarationType(&Node{Type: TypePlaceholder, ExpectedNode: "Declaration"}))
	assert.False(t, IsDeclarationType(&Node{Type: TypePlaceholder, ExpectedNode: "Expression"}))
	assert.False(t, IsDeclarationType(New(TypeFunctionExpression)))
	assert.True(t, IsDeclarationType(New("TSInterfaceDeclaration")))
	assert.False(t, IsDeclarationType(nil))
}

func TestIsExpressionType(t *testing.T) {
	assert.True(t, IsExpressionType(New(TypeArrayExpression)))
	assert.True(t, IsExpressionType(New(TypeBooleanLiteral)))
	assert.True(t, IsExpressionType(New(TypeSuper)))
	assert.True(t, IsExpressionType(New(TypeFunctionExpression)))
	assert.True(t, IsExpressionType(New("Literal")))
	assert.True(t, IsExpressionType(New(TypeTSTypeAssertion)))
	assert.False(t, IsExpressionType(New(TypeFunctionDeclaration)))
	assert.False(t, IsExpressionType(nil))
}

func TestIsIdentifierOf(t *testing.T) {
	assert.True(t, IsIdentifierOf(ident("foo"), "foo"))
	assert.True(t, IsIdentifierOf(ident("bar"), "foo", "bar"))
	assert.False(t, IsIdentifierOf(ident("baz"), "foo", "bar"))
	assert.False(t, IsIdentifierOf(&Node{Type: TypeJSXIdentifier, Name: "foo"}, "foo"))
	assert.False(t, IsIdentifierOf(nil, "foo"))
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier(ident("a")))
	assert.True(t, IsIdentifier(&Node{Type: TypeJSXIdentifier, Name: "div"}))
	assert.False(t, IsIdentifier(New(TypePrivateName)))
	assert.False(t, IsIdentifier(nil))
}

func TestIsCallOf(t *testing.T) {
	assert.False(t, IsCallOf(nil, "foo"))
	assert.False(t, IsCallOf(New(TypeThis), "foo"))
	assert.False(t, IsCallOf(CreateCallExpression(New(TypeThis)), "foo"))
	assert.True(t, IsCallOf(CreateCallExpression(ident("foo")), "foo"))
	assert.True(t, IsCallOf(CreateCallExpression(ident("bar")), "foo", "bar"))
	assert.True(t, IsCallOfFunc(CreateCallExpression(ident("bar")), func(n string) bool {
		return strings.HasPrefix(n, "b")
	}))
	assert.False(t, IsCallOf(CreateCallExpression(member(ident("a"), ident("foo"), false)), "foo"))
}

func TestIsTaggedFunctionCallOf(t *testing.T) {
	assert.False(t, IsTaggedFunctionCallOf(nil, "foo"))
	assert.False(t, IsTaggedFunctionCallOf(New(TypeThis), "foo"))

	quasi := New(TypeTemplateLiteral).SetList("quasis").SetList("expressions")
	tagged := New(TypeTaggedTemplate).Set("tag", ident("foo")).Set("quasi", quasi)
	assert.True(t, IsTaggedFunctionCallOf(tagged, "foo"))
	assert.False(t, IsTaggedFunctionCallOf(tagged, "bar"))
}

func TestIsForStatement(t *testing.T) {
	assert.True(t, IsForStatement(New(TypeForStatement)))
	assert.True(t, IsForStatement(New(TypeForInStatement)))
	assert.True(t, IsForStatement(New(TypeForOfStatement)))
	assert.False(t, IsForStatement(New(TypeWhileStatement)))
}

func TestUnwrapTSNode(t *testing.T) {
	inner := ident("foo")
	as := New(TypeTSAsExpression).Set("expression", inner)
	nonNull := New(TypeTSNonNullExpression).Set("expression", as)
	satisfies := New(TypeTSSatisfiesExpression).Set("expression", nonNull)

	assert.Same(t, inner, UnwrapTSNode(satisfies))
	assert.Same(t, inner, UnwrapTSNode(inner))
	assert.Nil(t, UnwrapTSNode(nil))
}
