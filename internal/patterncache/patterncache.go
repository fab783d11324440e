// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package patterncache compiles search-term patterns once per process.
// Note sections expand into a fresh pair list for every document, so the
// same pattern text recurs across a batch; compiled expressions are shared
// read-only between goroutines.
package patterncache

import (
	"fmt"
	"regexp"

	gocache "github.com/patrickmn/go-cache"
)

// Flags are prepended to every pattern: case-insensitive, and '.' matches
// newlines so anchors may span line breaks.
const Flags = "(?is)"

// Cache holds compiled expressions keyed by their source pattern.
type Cache struct {
	cache *gocache.Cache
}

// New creates an empty cache. Entries never expire.
func New() *Cache {
	return &Cache{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Default is the process-wide cache used when callers do not supply one.
var Default = New()

// Compile returns the compiled form of pattern with Flags applied.
func (c *Cache) Compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := c.cache.Get(pattern); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(Flags + pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	c.cache.SetDefault(pattern, re)
	return re, nil
}

// Len reports the number of cached expressions.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}
