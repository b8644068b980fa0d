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
	"errors"
	"fmt"
)

// Sentinel errors for resolution failures.
//
// These errors can be checked using errors.Is() regardless of which resolver
// produced them.
var (
	// ErrInvalidIdentifier indicates a node that cannot be flattened into a
	// static name: a computed identifier ("a[b]"), a non-literal computed
	// member, or a node kind that is not a name at all.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNotLiteral indicates that a literal was required but the node is
	// some other kind, including a template interpolation that is not a
	// literal.
	ErrNotLiteral = errors.New("not a literal")

	// ErrUnexpectedNode indicates a node kind the operation does not accept.
	ErrUnexpectedNode = errors.New("unexpected node")
)

// ResolveError describes a failed static resolution.
//
// It wraps one of the sentinel errors above, so callers can use errors.Is
// for the category and errors.As for the details.
type ResolveError struct {
	// Op is the resolver that failed ("ResolveString", "ResolveLiteral", ...).
	Op string

	// NodeType is the type of the node that could not be resolved.
	NodeType string

	// Message is optional extra detail.
	Message string

	// Err is the sentinel cause.
	Err error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	if e.NodeType != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.NodeType, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the sentinel cause.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

func resolveErr(op string, node *Node, cause error) *ResolveError {
	e := &ResolveError{Op: op, Err: cause}
	if node != nil {
		e.NodeType = node.Type
	}
	return e
}
