// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package walk traverses astkit syntax trees.
//
// Walk and WalkAsync are generic depth-first traversals with enter/leave
// callbacks that can skip, remove or replace the current node.
// WalkIdentifiers builds on Walk to report identifier occurrences together
// with whether they reference a binding and whether that binding is local,
// tracking lexical scopes with a reference-counted name table.
package walk

import (
	"context"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// Context is the control handle passed to walk callbacks.
//
// The requests it records apply to the node of the callback invocation that
// received it and are consumed when that callback returns.
type Context struct {
	skip     bool
	remove   bool
	replaced *ast.Node
}

// Skip stops the walker from descending into the current node's children.
// The node's leave callback still fires. Calling Skip in leave has no
// effect.
func (c *Context) Skip() {
	c.skip = true
}

// Remove detaches the current node from its parent. In a list slot the later
// siblings shift down; in a single slot the slot is cleared. No further
// callbacks fire for the node or its subtree.
func (c *Context) Remove() {
	c.remove = true
}

// Replace substitutes node for the current node in its parent. When called in
// enter the walker continues into node's children and passes node to leave.
func (c *Context) Replace(node *ast.Node) {
	c.replaced = node
}

func (c *Context) reset() {
	c.skip, c.remove, c.replaced = false, false, nil
}

// Callback is a synchronous walk hook.
//
// Inputs:
//
//	c      - Control handle for this invocation.
//	node   - The node being visited.
//	parent - Its parent, or nil for the root.
//	key    - The parent slot holding node; "" for the root.
//	index  - Position within a list slot, or -1.
//
// Returning an error aborts the walk and the error is returned by Walk.
type Callback func(c *Context, node, parent *ast.Node, key string, index int) error

// Handlers are the optional enter and leave hooks for Walk.
type Handlers struct {
	Enter Callback
	Leave Callback
}

// AsyncCallback is a walk hook that may block. It receives the walk's
// context.
type AsyncCallback func(ctx context.Context, c *Context, node, parent *ast.Node, key string, index int) error

// AsyncHandlers are the optional enter and leave hooks for WalkAsync.
type AsyncHandlers struct {
	Enter AsyncCallback
	Leave AsyncCallback
}

// Walk traverses root depth-first, calling Enter in pre-order and Leave in
// post-order.
//
// Description:
//
//	Children are visited slot by slot in the node's slot order, list
//	elements in index order; nil children and nil list holes are not
//	visited. Callbacks may Skip, Remove or Replace the current node via
//	the Context. Mutations are applied to the tree in place.
//
// Inputs:
//
//	root     - Tree to walk. A nil root returns (nil, nil).
//	handlers - Hooks. Either may be nil.
//
// Outputs:
//
//	*ast.Node - The root after any replacement, or nil if it was removed.
//	error     - The first error returned by a callback.
//
// Example:
//
//	_, err := walk.Walk(program, walk.Handlers{
//	    Enter: func(c *walk.Context, n, parent *ast.Node, key string, index int) error {
//	        if n.Type == "DebuggerStatement" {
//	            c.Remove()
//	        }
//	        return nil
//	    },
//	})
//
// Thread Safety:
//
//	Not safe for concurrent use on the same tree.
func Walk(root *ast.Node, handlers Handlers) (*ast.Node, error) {
	w := &walker{
		ctx:   context.Background(),
		enter: adapt(handlers.Enter),
		leave: adapt(handlers.Leave),
	}
	out, err := w.run(root)
	recordWalk(w.ctx, walkerSync, w.visited, err != nil)
	return out, err
}

func adapt(cb Callback) AsyncCallback {
	if cb == nil {
		return nil
	}
	return func(_ context.Context, c *Context, node, parent *ast.Node, key string, index int) error {
		return cb(c, node, parent, key, index)
	}
}

type walker struct {
	ctx     context.Context
	enter   AsyncCallback
	leave   AsyncCallback
	control Context
	visited int64
}

func (w *walker) run(root *ast.Node) (*ast.Node, error) {
	if root == nil {
		return nil, nil
	}
	return w.visit(root, nil, "", -1)
}

// visit walks node and returns what now occupies its position: node, its
// replacement, or nil when it was removed.
func (w *walker) visit(node, parent *ast.Node, key string, index int) (*ast.Node, error) {
	if err := w.ctx.Err(); err != nil {
		return node, err
	}
	w.visited++

	if w.enter != nil {
		w.control.reset()
		if err := w.enter(w.ctx, &w.control, node, parent, key, index); err != nil {
			return node, err
		}
		skip, remove, replaced := w.control.skip, w.control.remove, w.control.replaced
		if replaced != nil {
			node = replaced
			w.place(parent, key, index, node)
		}
		if remove {
			w.detach(parent, key, index)
			return nil, nil
		}
		if skip {
			return w.runLeave(node, parent, key, index)
		}
	}

	for _, k := range node.Keys() {
		if node.IsList(k) {
			for i := 0; i < len(node.GetList(k)); i++ {
				child := node.GetList(k)[i]
				if child == nil {
					continue
				}
				got, err := w.visit(child, node, k, i)
				if err != nil {
					return node, err
				}
				if got == nil {
					i--
				}
			}
			continue
		}
		if child := node.Get(k); child != nil {
			if _, err := w.visit(child, node, k, -1); err != nil {
				return node, err
			}
		}
	}

	return w.runLeave(node, parent, key, index)
}

func (w *walker) runLeave(node, parent *ast.Node, key string, index int) (*ast.Node, error) {
	if w.leave == nil {
		return node, nil
	}
	w.control.reset()
	if err := w.leave(w.ctx, &w.control, node, parent, key, index); err != nil {
		return node, err
	}
	if r := w.control.replaced; r != nil {
		node = r
		w.place(parent, key, index, node)
	}
	if w.control.remove {
		w.detach(parent, key, index)
		return nil, nil
	}
	return node, nil
}

func (w *walker) place(parent *ast.Node, key string, index int, node *ast.Node) {
	if parent == nil {
		return
	}
	if index >= 0 {
		parent.ReplaceAt(key, index, node)
		return
	}
	parent.Set(key, node)
}

func (w *walker) detach(parent *ast.Node, key string, index int) {
	if parent == nil {
		return
	}
	if index >= 0 {
		parent.RemoveAt(key, index)
		return
	}
	parent.Set(key, nil)
}
