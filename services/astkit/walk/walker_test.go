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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// label names a node for order assertions.
func label(n *ast.Node) string {
	if n.Name != "" {
		return n.Name
	}
	if v, ok := n.Value.(float64); ok {
		return ast.FormatNumber(v)
	}
	return n.Type
}

// sample is "f(a, b + 1)" as an expression statement.
func sample() *ast.Node {
	return program(exprStmt(call(id("f"), id("a"), binary("+", id("b"), num(1)))))
}

func TestWalk_Order(t *testing.T) {
	var events []string
	_, err := Walk(sample(), Handlers{
		Enter: func(_ *Context, n, _ *ast.Node, _ string, _ int) error {
			events = append(events, "enter:"+label(n))
			return nil
		},
		Leave: func(_ *Context, n, _ *ast.Node, _ string, _ int) error {
			events = append(events, "leave:"+label(n))
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"enter:Program",
		"enter:ExpressionStatement",
		"enter:CallExpression",
		"enter:f", "leave:f",
		"enter:a", "leave:a",
		"enter:BinaryExpression",
		"enter:b", "leave:b",
		"enter:1", "leave:1",
		"leave:BinaryExpression",
		"leave:CallExpression",
		"leave:ExpressionStatement",
		"leave:Program",
	}, events)
}

func TestWalk_ParentKeyIndex(t *testing.T) {
	root := sample()
	type visit struct {
		node, parent, key string
		index            int
	}
	var got []visit
	_, err := Walk(root, Handlers{Enter: func(_ *Context, n, parent *ast.Node, key string, index int) error {
		p := ""
		if parent != nil {
			p = label(parent)
		}
		got = append(got, visit{label(n), p, key, index})
		return nil
	}})
	require.NoError(t, err)
	assert.Equal(t, visit{"Program", "", "", -1}, got[0])
	assert.Equal(t, visit{"ExpressionStatement", "Program", "body", 0}, got[1])
	assert.Equal(t, visit{"CallExpression", "ExpressionStatement", "expression", -1}, got[2])
	assert.Equal(t, visit{"f", "CallExpression", "callee", -1}, got[3])
	assert.Equal(t, visit{"a", "CallExpression", "arguments", 0}, got[4])
	assert.Equal(t, visit{"BinaryExpression", "CallExpression", "arguments", 1}, got[5])
}

func TestWalk_Skip(t *testing.T) {
	var entered, left []string
	_, err := Walk(sample(), Handlers{
		Enter: func(c *Context, n, _ *ast.Node, _ string, _ int) error {
			entered = append(entered, label(n))
			if n.Type == "BinaryExpression" {
				c.Skip()
			}
			return nil
		},
		Leave: func(_ *Context, n, _ *ast.Node, _ string, _ int) error {
			left = append(left, label(n))
			return nil
		},
	})
	require.NoError(t, err)
	assert.NotContains(t, entered, "b")
	assert.NotContains(t, entered, "1")
	assert.Contains(t, left, "BinaryExpression")
}

func TestWalk_RemoveFromList(t *testing.T) {
	root := program(
		exprStmt(id("a")),
		exprStmt(id("remove")),
		exprStmt(id("b")),
	)
	var entered, left []string
	var indexOfB int
	_, err := Walk(root, Handlers{
		Enter: func(c *Context, n, _ *ast.Node, _ string, index int) error {
			entered = append(entered, label(n))
			if n.Type == ast.TypeExpressionStatement && n.Get("expression").Name == "remove" {
				c.Remove()
			}
			if n.Type == ast.TypeExpressionStatement && n.Get("expression").Name == "b" {
				indexOfB = index
			}
			return nil
		},
		Leave: func(_ *Context, n, _ *ast.Node, _ string, _ int) error {
			left = append(left, label(n))
			return nil
		},
	})
	require.NoError(t, err)

	body := root.GetList("body")
	require.Len(t, body, 2)
	assert.Equal(t, "a", body[0].Get("expression").Name)
	assert.Equal(t, "b", body[1].Get("expression").Name)

	// The removed node's children are not entered and its leave does not fire.
	assert.NotContains(t, entered, "remove")
	assert.NotContains(t, left, "remove")
	// The following sibling is visited at its shifted index.
	assert.Contains(t, entered, "b")
	assert.Equal(t, 1, indexOfB)
}

func TestWalk_RemoveSingleSlot(t *testing.T) {
	d := declarator(id("x"), num(1))
	root := varDecl("let", d)
	_, err := Walk(root, Handlers{Enter: func(c *Context, n, _ *ast.Node, key string, _ int) error {
		if key == "init" {
			c.Remove()
		}
		return nil
	}})
	require.NoError(t, err)
	assert.True(t, d.Has("init"))
	assert.Nil(t, d.Get("init"))
}

func TestWalk_RemoveInLeave(t *testing.T) {
	root := arrayExpr(id("a"), id("b"), id("c"))
	var entered []string
	_, err := Walk(root, Handlers{
		Enter: func(_ *Context, n, _ *ast.Node, _ string, _ int) error {
			entered = append(entered, label(n))
			return nil
		},
		Leave: func(c *Context, n, _ *ast.Node, _ string, _ int) error {
			if n.Name == "a" {
				c.Remove()
			}
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, identNames(root.GetList("elements")))
	assert.Equal(t, []string{"ArrayExpression", "a", "b", "c"}, entered)
}

func TestWalk_Replace(t *testing.T) {
	root := sample()
	var entered, left []string
	_, err := Walk(root, Handlers{
		Enter: func(c *Context, n, _ *ast.Node, _ string, _ int) error {
			entered = append(entered, label(n))
			if n.Type == "BinaryExpression" {
				c.Replace(call(id("g"), id("z")))
			}
			return nil
		},
		Leave: func(_ *Context, n, _ *ast.Node, _ string, _ int) error {
			left = append(left, label(n))
			return nil
		},
	})
	require.NoError(t, err)

	// The replacement's children are walked and leave sees the replacement.
	assert.Contains(t, entered, "g")
	assert.Contains(t, entered, "z")
	assert.NotContains(t, entered, "b")
	assert.NotContains(t, left, "BinaryExpression")

	args := root.GetList("body")[0].Get("expression").GetList("arguments")
	assert.Equal(t, ast.TypeCallExpression, args[1].Type)
	assert.Equal(t, "g", args[1].Get("callee").Name)
}

func TestWalk_ReplaceSingleSlotInLeave(t *testing.T) {
	stmt := exprStmt(id("old"))
	_, err := Walk(stmt, Handlers{Leave: func(c *Context, n, _ *ast.Node, _ string, _ int) error {
		if n.Name == "old" {
			c.Replace(id("new"))
		}
		return nil
	}})
	require.NoError(t, err)
	assert.Equal(t, "new", stmt.Get("expression").Name)
}

func TestWalk_Root(t *testing.T) {
	t.Run("removed root", func(t *testing.T) {
		got, err := Walk(sample(), Handlers{Enter: func(c *Context, n, parent *ast.Node, _ string, _ int) error {
			if parent == nil {
				c.Remove()
			}
			return nil
		}})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("replaced root", func(t *testing.T) {
		replacement := program()
		got, err := Walk(sample(), Handlers{Enter: func(c *Context, n, parent *ast.Node, _ string, _ int) error {
			if parent == nil {
				c.Replace(replacement)
			}
			return nil
		}})
		require.NoError(t, err)
		assert.Same(t, replacement, got)
	})

	t.Run("nil root", func(t *testing.T) {
		got, err := Walk(nil, Handlers{})
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestWalk_LeaveOnlyIsIdempotent(t *testing.T) {
	root := program(
		varDecl("const", declarator(objPattern(objProp(id("a"), id("a"), true)), call(id("f")))),
		exprStmt(arrayExpr(id("x"), nil, num(2))),
	)
	want := root.Clone()

	got, err := Walk(root, Handlers{Leave: func(_ *Context, _, _ *ast.Node, _ string, _ int) error {
		return nil
	}})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWalk_SkipsHoles(t *testing.T) {
	var seen []string
	_, err := Walk(arrayExpr(id("a"), nil, id("b")), Handlers{Enter: func(_ *Context, n, _ *ast.Node, _ string, index int) error {
		seen = append(seen, fmt.Sprintf("%s@%d", label(n), index))
		return nil
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ArrayExpression@-1", "a@0", "b@2"}, seen)
}

func TestWalk_ErrorStops(t *testing.T) {
	boom := errors.New("boom")
	var entered []string
	_, err := Walk(sample(), Handlers{Enter: func(_ *Context, n, _ *ast.Node, _ string, _ int) error {
		entered = append(entered, label(n))
		if n.Name == "a" {
			return boom
		}
		return nil
	}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "a", entered[len(entered)-1])
	assert.NotContains(t, entered, "b")
}
