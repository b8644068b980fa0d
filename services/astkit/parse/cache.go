// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parse

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/AleutianAI/astkit/services/astkit/ast"
)

// DefaultCacheCapacity is the number of results a Cache keeps by default.
const DefaultCacheCapacity = 256

// Cache is an LRU cache of parse results keyed by language, file name,
// error recovery and source hash.
//
// Description:
//
//	Concurrent Parse calls for the same key share one parse. Results are
//	cloned on the way out, so callers may mutate the returned tree (for
//	example with walk's Remove and Replace) without affecting later hits.
//
// Thread Safety: All methods are safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // Front = most recent

	group singleflight.Group

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type cacheEntry struct {
	key    string
	result *Result
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCapacity sets the maximum number of cached results. Non-positive
// values keep the default.
func WithCapacity(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewCache creates an empty cache.
//
// Example:
//
//	cache := parse.NewCache(parse.WithCapacity(1000))
//	res, err := parse.Parse(ctx, src, parse.WithCache(cache))
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{capacity: DefaultCacheCapacity, order: list.New()}
	for _, opt := range opts {
		opt(c)
	}
	c.items = make(map[string]*list.Element, c.capacity)
	return c
}

// Get returns the cached result for code parsed with opts, if present.
// The cache option in opts is ignored.
func (c *Cache) Get(code string, opts ...Option) (*Result, bool) {
	cfg := newConfig(opts)
	if checkSize(code, cfg) != nil {
		return nil, false
	}
	res, ok := c.lookup(cacheKey(code, cfg))
	if !ok {
		return nil, false
	}
	return cloneResult(res), true
}

// GetOrParse is Parse with this cache.
func (c *Cache) GetOrParse(ctx context.Context, code string, opts ...Option) (*Result, error) {
	return Parse(ctx, code, append(opts, WithCache(c))...)
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge removes every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.Len(),
	}
}

// parse serves a Parse call from the cache, parsing on a miss.
func (c *Cache) parse(ctx context.Context, code string, cfg config) (*Result, error) {
	if err := checkSize(code, cfg); err != nil {
		return nil, err
	}
	key := cacheKey(code, cfg)
	if res, ok := c.lookup(key); ok {
		c.hits.Add(1)
		recordCacheLookup(ctx, true)
		return cloneResult(res), nil
	}
	c.misses.Add(1)
	recordCacheLookup(ctx, false)

	v, err, _ := c.group.Do(key, func() (any, error) {
		res, err := parseSource(ctx, code, cfg, false)
		if err != nil {
			return nil, err
		}
		c.store(key, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneResult(v.(*Result)), nil
}

func (c *Cache) lookup(key string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).result, true
}

func (c *Cache) store(key string, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).result = res
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
			c.evictions.Add(1)
		}
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, result: res})
}

func cacheKey(code string, cfg config) string {
	h := sha256.New()
	h.Write([]byte(cfg.lang))
	h.Write([]byte{0})
	h.Write([]byte(cfg.filename))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(cfg.errorRecovery)))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

// cloneResult copies the tree and slices of res so the cached value stays
// untouched.
func cloneResult(res *Result) *Result {
	out := *res
	out.Program = res.Program.Clone()
	out.Comments = append([]ast.Comment{}, res.Comments...)
	if res.Errors != nil {
		out.Errors = make([]*ParseError, len(res.Errors))
		for i, e := range res.Errors {
			cp := *e
			out.Errors[i] = &cp
		}
	}
	return &out
}
