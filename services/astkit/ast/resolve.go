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
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// RegExpValue is the resolved value of a regular-expression literal.
//
// Regexp is compiled with ECMAScript semantics. It is nil when the engine
// rejects the pattern; Err then holds the compile error.
type RegExpValue struct {
	Pattern string
	Flags   string
	Regexp  *regexp2.Regexp
	Err     error
}

// String renders the literal in source form.
func (r *RegExpValue) String() string {
	return "/" + r.Pattern + "/" + r.Flags
}

// ResolveLiteral converts a literal node into its Go value.
//
// Description:
//
//	StringLiteral → string, NumericLiteral and DecimalLiteral → float64,
//	BooleanLiteral → bool, NullLiteral → nil, BigIntLiteral → *big.Int,
//	RegExpLiteral → *RegExpValue, TemplateLiteral → string (see
//	ResolveTemplateLiteral).
//
// Outputs:
//
//	any   - The value.
//	error - ErrNotLiteral for non-literal nodes, or the template error.
func ResolveLiteral(node *Node) (any, error) {
	if node == nil {
		return nil, resolveErr("ResolveLiteral", nil, ErrNotLiteral)
	}
	switch node.Type {
	case TypeTemplateLiteral:
		return ResolveTemplateLiteral(node)
	case TypeNullLiteral:
		return nil, nil
	case TypeBigIntLiteral:
		digits := strings.ReplaceAll(fmt.Sprint(node.Value), "_", "")
		v, ok := new(big.Int).SetString(digits, 0)
		if !ok {
			return nil, &ResolveError{Op: "ResolveLiteral", NodeType: node.Type, Message: "bad bigint " + digits, Err: ErrNotLiteral}
		}
		return v, nil
	case TypeRegExpLiteral:
		return compileRegExp(node.Pattern, node.Flags), nil
	case TypeBooleanLiteral, TypeStringLiteral:
		return node.Value, nil
	case TypeNumericLiteral:
		return toFloat(node.Value), nil
	case TypeDecimalLiteral:
		f, err := strconv.ParseFloat(fmt.Sprint(node.Value), 64)
		if err != nil {
			return nil, &ResolveError{Op: "ResolveLiteral", NodeType: node.Type, Message: err.Error(), Err: ErrNotLiteral}
		}
		return f, nil
	}
	return nil, resolveErr("ResolveLiteral", node, ErrNotLiteral)
}

// ResolveTemplateLiteral evaluates a template literal whose interpolations
// are all literals, as in `a${1}b${"c"}`.
//
// Description:
//
//	The cooked text of each quasi is concatenated with the string form of
//	the literal following it. A non-literal interpolation is an error.
func ResolveTemplateLiteral(node *Node) (string, error) {
	if !node.Is(TypeTemplateLiteral) {
		return "", resolveErr("ResolveTemplateLiteral", node, ErrUnexpectedNode)
	}
	quasis := node.GetList("quasis")
	exprs := node.GetList("expressions")

	var b strings.Builder
	for i, q := range quasis {
		if q != nil {
			if cooked, ok := q.Value.(string); ok {
				b.WriteString(cooked)
			}
		}
		if i >= len(exprs) || exprs[i] == nil {
			continue
		}
		expr := exprs[i]
		if !IsLiteralType(expr) {
			return "", &ResolveError{
				Op:       "ResolveTemplateLiteral",
				NodeType: expr.Type,
				Message:  "TemplateLiteral expression must be a literal",
				Err:      ErrNotLiteral,
			}
		}
		v, err := ResolveLiteral(expr)
		if err != nil {
			return "", err
		}
		b.WriteString(ToJSString(v))
	}
	return b.String(), nil
}

// ResolveString returns the static name or string form of a node.
//
// Description:
//
//	Identifier → its name (an error when computed is true, since "a[b]"
//	names no static key), PrivateName → "#name", ThisExpression → "this",
//	Super → "super", and literals → the string conversion of their value.
//
// Inputs:
//
//	node     - The node to resolve.
//	computed - Whether node sits in a computed position.
//
// Outputs:
//
//	string - The resolved name.
//	error  - ErrInvalidIdentifier or ErrNotLiteral wrapped in *ResolveError.
func ResolveString(node *Node, computed bool) (string, error) {
	if node == nil {
		return "", resolveErr("ResolveString", nil, ErrUnexpectedNode)
	}
	switch node.Type {
	case TypeIdentifier:
		if computed {
			return "", resolveErr("ResolveString", node, ErrInvalidIdentifier)
		}
		return node.Name, nil
	case TypePrivateName:
		if id := node.Get("id"); id != nil {
			return "#" + id.Name, nil
		}
		return "#" + node.Name, nil
	case TypeThis:
		return "this", nil
	case TypeSuper:
		return "super", nil
	}
	v, err := ResolveLiteral(node)
	if err != nil {
		return "", err
	}
	return ToJSString(v), nil
}

// ResolveIdentifier flattens a static member chain into its segments.
//
// Description:
//
//	"foo.bar.baz" and `foo.bar["baz"]` yield [foo bar baz], "this.#a"
//	yields [this #a]. A computed member whose property is not a literal
//	("foo[bar]") is not static and yields ErrInvalidIdentifier, as does any
//	node that is not a name or member expression.
func ResolveIdentifier(node *Node) ([]string, error) {
	if IsTypeOf(node, TypeIdentifier, TypePrivateName, TypeThis, TypeSuper) {
		s, err := ResolveString(node, false)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}

	if node.Is(TypeMemberExpression) {
		object := node.Get("object")
		if IsTypeOf(object, TypeIdentifier, TypeMemberExpression, TypeThis, TypeSuper) {
			keys, err := ResolveIdentifier(object)
			if err != nil {
				return nil, err
			}
			property := node.Get("property")
			if !IsTypeOf(property, TypeIdentifier, TypePrivateName, PseudoLiteral) {
				return nil, resolveErr("ResolveIdentifier", property, ErrInvalidIdentifier)
			}
			s, err := ResolveString(property, node.Computed)
			if err != nil {
				return nil, err
			}
			return append(keys, s), nil
		}
	}
	return nil, resolveErr("ResolveIdentifier", node, ErrInvalidIdentifier)
}

// ResolveObjectKey returns the static key of a property-like node
// (ObjectProperty, ObjectMethod, ClassProperty, ClassMethod,
// TSPropertySignature, ...).
//
// When raw is true a non-computed identifier key is returned as written and
// any other key is returned through EscapeKey, so the result can be pasted
// back into an object literal.
func ResolveObjectKey(node *Node, raw bool) (string, error) {
	if node == nil {
		return "", resolveErr("ResolveObjectKey", nil, ErrUnexpectedNode)
	}
	key := node.Get("key")
	if key == nil {
		return "", resolveErr("ResolveObjectKey", node, ErrUnexpectedNode)
	}
	if key.Type == TypeIdentifier && !node.Computed {
		return key.Name, nil
	}
	s, err := ResolveString(key, node.Computed)
	if err != nil {
		return "", err
	}
	if raw {
		return EscapeKey(s), nil
	}
	return s, nil
}

// ToJSString converts a resolved literal value to a string the way
// JavaScript's String() does.
func ToJSString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return FormatNumber(x)
	case int:
		return strconv.Itoa(x)
	case *big.Int:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, _ := ParseNumber(x)
		return f
	}
	return 0
}

func compileRegExp(pattern, flags string) *RegExpValue {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	return &RegExpValue{Pattern: pattern, Flags: flags, Regexp: re, Err: err}
}
