// Package cache memoizes aggregation results per (operation, filter spec).
//
// Keys canonicalize the spec by sorting its dimensions, so two
// semantically identical specs hit the same entry regardless of how they
// were constructed. Invalidation is all-or-nothing: any accepted mutation
// flushes every entry, because the dependency graph between a cached query
// and the columns it touches is not tracked. Correctness over cleverness.
package cache

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/claimlens/claimlens/internal/filter"
)

// Key is a canonical cache key.
type Key string

// NewKey builds the canonical key for an operation and spec.
// An absent/empty spec and an all-"All" spec produce the same key.
// Values are quoted so a value containing the delimiters cannot collide
// with a different spec.
func NewKey(operation string, spec filter.Spec) Key {
	var b strings.Builder
	b.WriteString(operation)
	for _, p := range spec.Pairs() {
		b.WriteByte('|')
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(strconv.Quote(p[1]))
	}
	return Key(b.String())
}

// Cache is the session-local query cache. Not safe for concurrent use;
// the owning session is single-threaded by contract.
type Cache struct {
	entries map[Key]any
	logger  *slog.Logger
}

// New creates an empty cache.
func New(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{entries: make(map[Key]any), logger: logger}
}

// GetOrCompute returns the cached value for (operation, spec), computing
// and memoizing it on a miss. The exact return value of compute is stored.
func (c *Cache) GetOrCompute(operation string, spec filter.Spec, compute func() any) any {
	key := NewKey(operation, spec)
	if v, ok := c.entries[key]; ok {
		return v
	}
	v := compute()
	c.entries[key] = v
	return v
}

// Flush drops every entry. Called on any accepted mutation or reset;
// there is no per-key invalidation and no TTL.
func (c *Cache) Flush() {
	if len(c.entries) == 0 {
		return
	}
	c.logger.Debug("query cache flushed", "entries", len(c.entries))
	c.entries = make(map[Key]any)
}

// Len returns the number of live entries.
func (c *Cache) Len() int { return len(c.entries) }
