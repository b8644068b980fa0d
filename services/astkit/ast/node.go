// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast defines the JavaScript/TypeScript syntax tree used by astkit,
// together with the predicates, classifiers and resolvers that operate on a
// single node or a node plus its ancestors.
//
// Node types follow the Babel naming ("Identifier", "MemberExpression",
// "TSAsExpression", ...). Children are stored in ordered, named slots so a
// generic walker can visit any node kind without a per-kind table.
package ast

import "slices"

// Position is a point in source text.
//
// Line is 1-based, Column is a 0-based byte offset within the line and
// Index is the 0-based byte offset from the start of the source.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Index  int `json:"index" yaml:"index"`
}

// SourceLocation is the span a node covers.
type SourceLocation struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// Slot is one named child position of a node.
//
// A slot holds either a single child (which may be nil) or, when IsList is
// true, an ordered list of children (which may contain nil holes, as in
// "[a, , b]").
type Slot struct {
	Key    string
	Node   *Node
	List   []*Node
	IsList bool
}

// Node is a syntax tree node.
//
// Description:
//
//	Type is the discriminant. The scalar fields carry the attributes the
//	toolkit inspects; a given node kind uses only the fields meaningful to
//	it. Children live in ordered slots (see Get, GetList, Set, SetList) and
//	slot order is traversal order.
//
// Thread Safety:
//
//	Not safe for concurrent mutation. Trees obtained from a shared cache
//	must be cloned before mutating.
type Node struct {
	Type  string          `json:"type"`
	Start int             `json:"start"`
	End   int             `json:"end"`
	Loc   *SourceLocation `json:"loc,omitempty"`

	// Identifier / JSXIdentifier / PrivateName name.
	Name string `json:"name,omitempty"`
	// Literal payload (string, float64, bool, nil, or the raw digits of a BigInt).
	Value any    `json:"value,omitempty"`
	Raw   string `json:"raw,omitempty"`

	Operator     string `json:"operator,omitempty"`
	Kind         string `json:"kind,omitempty"`
	ImportKind   string `json:"importKind,omitempty"`
	ExportKind   string `json:"exportKind,omitempty"`
	Pattern      string `json:"pattern,omitempty"`
	Flags        string `json:"flags,omitempty"`
	ExpectedNode string `json:"expectedNode,omitempty"`

	Computed  bool `json:"computed,omitempty"`
	Optional  bool `json:"optional,omitempty"`
	Shorthand bool `json:"shorthand,omitempty"`
	Static    bool `json:"static,omitempty"`
	Async     bool `json:"async,omitempty"`
	Generator bool `json:"generator,omitempty"`
	Declare   bool `json:"declare,omitempty"`
	Prefix    bool `json:"prefix,omitempty"`
	Delegate  bool `json:"delegate,omitempty"`
	Method    bool `json:"method,omitempty"`

	// Extra holds parser and consumer annotations (raw text, parenthesized,
	// inPattern, ...).
	Extra map[string]any `json:"extra,omitempty"`

	// ScopeIDs are the names this node contributed as a scope layer during
	// an identifier walk. Populated lazily and reused on later walks.
	ScopeIDs []string `json:"-"`

	slots []Slot
}

// New returns an empty node of the given type.
func New(typ string) *Node {
	return &Node{Type: typ}
}

// Is reports whether n is non-nil and has the given type.
func (n *Node) Is(typ string) bool {
	return n != nil && n.Type == typ
}

// Slots returns the node's slots in traversal order. The returned slice is a
// copy; the child pointers are shared.
func (n *Node) Slots() []Slot {
	if n == nil {
		return nil
	}
	out := make([]Slot, len(n.slots))
	copy(out, n.slots)
	return out
}

// Keys returns the slot keys in traversal order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	keys := make([]string, len(n.slots))
	for i, s := range n.slots {
		keys[i] = s.Key
	}
	return keys
}

// Has reports whether the node declares a slot with the given key.
func (n *Node) Has(key string) bool {
	return n.slot(key) != nil
}

// IsList reports whether the slot with the given key holds a list.
func (n *Node) IsList(key string) bool {
	s := n.slot(key)
	return s != nil && s.IsList
}

// Get returns the single child stored under key, or nil.
func (n *Node) Get(key string) *Node {
	s := n.slot(key)
	if s == nil || s.IsList {
		return nil
	}
	return s.Node
}

// GetList returns the list stored under key, or nil.
//
// The returned slice aliases the node's storage; use SetList, RemoveAt or
// ReplaceAt to change it.
func (n *Node) GetList(key string) []*Node {
	s := n.slot(key)
	if s == nil || !s.IsList {
		return nil
	}
	return s.List
}

// Set stores a single child under key, appending the slot if it does not
// exist yet. It returns n so builders can chain.
func (n *Node) Set(key string, child *Node) *Node {
	if s := n.slot(key); s != nil {
		s.Node, s.List, s.IsList = child, nil, false
		return n
	}
	n.slots = append(n.slots, Slot{Key: key, Node: child})
	return n
}

// SetList stores a list of children under key, appending the slot if it does
// not exist yet. It returns n so builders can chain.
func (n *Node) SetList(key string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	if s := n.slot(key); s != nil {
		s.Node, s.List, s.IsList = nil, children, true
		return n
	}
	n.slots = append(n.slots, Slot{Key: key, List: children, IsList: true})
	return n
}

// RemoveAt deletes the i-th element of the list under key, shifting later
// elements down by one.
func (n *Node) RemoveAt(key string, i int) {
	s := n.slot(key)
	if s == nil || !s.IsList || i < 0 || i >= len(s.List) {
		return
	}
	s.List = slices.Delete(s.List, i, i+1)
}

// ReplaceAt overwrites the i-th element of the list under key.
func (n *Node) ReplaceAt(key string, i int, child *Node) {
	s := n.slot(key)
	if s == nil || !s.IsList || i < 0 || i >= len(s.List) {
		return
	}
	s.List[i] = child
}

// SetExtra records an annotation in Extra.
func (n *Node) SetExtra(key string, value any) {
	if n.Extra == nil {
		n.Extra = make(map[string]any)
	}
	n.Extra[key] = value
}

// ExtraBool returns the boolean annotation stored under key.
func (n *Node) ExtraBool(key string) bool {
	if n == nil || n.Extra == nil {
		return false
	}
	b, _ := n.Extra[key].(bool)
	return b
}

// HasScopeID reports whether name is already in the node's scope cache.
func (n *Node) HasScopeID(name string) bool {
	return n != nil && slices.Contains(n.ScopeIDs, name)
}

// AddScopeID appends name to the node's scope cache unless present. It
// reports whether the name was added.
func (n *Node) AddScopeID(name string) bool {
	if n.HasScopeID(name) {
		return false
	}
	n.ScopeIDs = append(n.ScopeIDs, name)
	return true
}

// Children returns every non-nil direct child in traversal order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, s := range n.slots {
		if s.IsList {
			for _, c := range s.List {
				if c != nil {
					out = append(out, c)
				}
			}
		} else if s.Node != nil {
			out = append(out, s.Node)
		}
	}
	return out
}

// Clone returns a deep copy of n. The scope cache is not copied.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.ScopeIDs = nil
	if n.Extra != nil {
		c.Extra = make(map[string]any, len(n.Extra))
		for k, v := range n.Extra {
			c.Extra[k] = v
		}
	}
	if n.Loc != nil {
		loc := *n.Loc
		c.Loc = &loc
	}
	if n.slots != nil {
		c.slots = make([]Slot, len(n.slots))
		for i, s := range n.slots {
			cs := Slot{Key: s.Key, IsList: s.IsList}
			if s.IsList {
				cs.List = make([]*Node, len(s.List))
				for j, child := range s.List {
					cs.List[j] = child.Clone()
				}
			} else {
				cs.Node = s.Node.Clone()
			}
			c.slots[i] = cs
		}
	}
	return &c
}

func (n *Node) slot(key string) *Slot {
	if n == nil {
		return nil
	}
	for i := range n.slots {
		if n.slots[i].Key == key {
			return &n.slots[i]
		}
	}
	return nil
}
