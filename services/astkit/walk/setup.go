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
	"context"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// Filter selects the nodes a Setup handler runs for. A nil Filter selects
// every node.
type Filter func(node *ast.Node) bool

// Types returns a Filter matching any of the given node types. The
// pseudo-types ast.PseudoFunction, ast.PseudoLiteral and
// ast.PseudoExpression are accepted.
func Types(types ...string) Filter {
	return func(node *ast.Node) bool {
		return ast.IsTypeOf(node, types...)
	}
}

// Match returns pred as a Filter.
func Match(pred func(*ast.Node) bool) Filter {
	return pred
}

type registration struct {
	filter  Filter
	handler AsyncCallback
}

// Setup collects handlers for WalkSetup.
type Setup struct {
	enter []registration
	leave []registration
}

// OnEnter runs handler when entering nodes accepted by filter.
func (s *Setup) OnEnter(filter Filter, handler AsyncCallback) {
	s.enter = append(s.enter, registration{filter: filter, handler: handler})
}

// OnLeave runs handler when leaving nodes accepted by filter.
func (s *Setup) OnLeave(filter Filter, handler AsyncCallback) {
	s.leave = append(s.leave, registration{filter: filter, handler: handler})
}

// WalkSetup registers handlers through setup, then walks root with
// WalkAsync, running the matching handlers in registration order for each
// node.
//
// Description:
//
//	setup runs synchronously before WalkSetup returns; no handler has run
//	at that point. An error from setup is reported through the returned
//	Pending without walking.
//
// Example:
//
//	p := walk.WalkSetup(ctx, program, func(s *walk.Setup) error {
//	    s.OnEnter(walk.Types(ast.TypeFunctionDeclaration), countFunctions)
//	    return nil
//	})
//	_, err := p.Wait()
func WalkSetup(ctx context.Context, root *ast.Node, setup func(s *Setup) error) *Pending {
	s := &Setup{}
	if err := setup(s); err != nil {
		p := &Pending{done: make(chan struct{}), err: err}
		close(p.done)
		return p
	}
	return WalkAsync(ctx, root, AsyncHandlers{
		Enter: dispatch(s.enter),
		Leave: dispatch(s.leave),
	})
}

func dispatch(regs []registration) AsyncCallback {
	if len(regs) == 0 {
		return nil
	}
	return func(ctx context.Context, c *Context, node, parent *ast.Node, key string, index int) error {
		for _, r := range regs {
			if r.filter != nil && !r.filter(node) {
				continue
			}
			if err := r.handler(ctx, c, node, parent, key, index); err != nil {
				return err
			}
		}
		return nil
	}
}
