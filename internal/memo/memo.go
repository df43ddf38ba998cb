// Package memo provides the caching seam of the analysis database. Query
// functions are pure given their inputs, so any correct implementation of
// Cache, including no caching at all, yields identical results; only
// latency changes.
package memo

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes query results keyed by query name plus argument. Errors
// are never cached: a computation that fails runs again on the next
// request.
type Cache interface {
	// GetOrCompute returns the cached value for key, computing and storing
	// it on a miss. Concurrent requests for the same key share one
	// computation.
	GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (any, error)) (any, error)
	// Clear drops every cached value. Called when an input changes.
	Clear()
}

// Table is an in-memory Cache. Concurrent misses on the same key are
// collapsed into a single computation via singleflight.
type Table struct {
	mu      sync.RWMutex
	entries map[string]any
	group   singleflight.Group
}

func NewTable() *Table {
	return &Table{entries: make(map[string]any)}
}

func (t *Table) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (any, error)) (any, error) {
	t.mu.RLock()
	value, ok := t.entries[key]
	t.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err, _ := t.group.Do(key, func() (any, error) {
		// Re-check: another flight may have stored the value between the
		// read miss and the flight start.
		t.mu.RLock()
		cached, ok := t.entries[key]
		t.mu.RUnlock()
		if ok {
			return cached, nil
		}
		computed, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		t.entries[key] = computed
		t.mu.Unlock()
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (t *Table) Clear() {
	t.mu.Lock()
	t.entries = make(map[string]any)
	t.mu.Unlock()
}

// Nop caches nothing; every request recomputes. Useful as a baseline in
// tests and benchmarks.
type Nop struct{}

func (Nop) GetOrCompute(ctx context.Context, _ string, compute func(ctx context.Context) (any, error)) (any, error) {
	return compute(ctx)
}

func (Nop) Clear() {}
