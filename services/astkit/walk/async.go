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
	"errors"

	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// ErrNilRoot is returned by WalkAsync and WalkSetup when given a nil tree.
var ErrNilRoot = errors.New("nil root node")

// Pending is the handle of a walk running on its own goroutine.
type Pending struct {
	done chan struct{}
	root *ast.Node
	err  error
}

// Done is closed when the walk has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the walk finishes and returns its result: the root after
// any replacement (nil if removed) and the first callback error.
func (p *Pending) Wait() (*ast.Node, error) {
	<-p.done
	return p.root, p.err
}

// WalkAsync runs the same traversal as Walk on a new goroutine, with
// callbacks that may block.
//
// Description:
//
//	Callbacks are invoked strictly one at a time in document order: the
//	walker waits for each callback to return before visiting the next
//	node, so enter is pre-order and leave is post-order no matter how long
//	individual callbacks take. The first callback error ends the walk.
//	ctx is passed to every callback and is checked before each node is
//	entered; once it is done the walk ends with ctx.Err().
//
// Inputs:
//
//	ctx      - Passed to callbacks; cancellation stops the walk. Must not be nil.
//	root     - Tree to walk.
//	handlers - Hooks. Either may be nil.
//
// Outputs:
//
//	*Pending - Handle to wait on. Never nil.
//
// Thread Safety:
//
//	The tree must not be touched by other goroutines until Wait returns.
func WalkAsync(ctx context.Context, root *ast.Node, handlers AsyncHandlers) *Pending {
	p := &Pending{done: make(chan struct{})}
	if ctx == nil {
		p.err = errors.New("walk: nil context")
		close(p.done)
		return p
	}
	if root == nil {
		p.err = ErrNilRoot
		close(p.done)
		return p
	}

	go func() {
		defer close(p.done)

		spanCtx, span := startAsyncSpan(ctx, root.Type)
		defer span.End()

		w := &walker{ctx: spanCtx, enter: handlers.Enter, leave: handlers.Leave}
		p.root, p.err = w.run(root)
		if p.err != nil {
			span.RecordError(p.err)
			span.SetStatus(codes.Error, p.err.Error())
		}
		recordWalk(spanCtx, walkerAsync, w.visited, p.err != nil)
	}()
	return p
}
