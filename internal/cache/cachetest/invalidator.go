// Package cachetest records page invalidations.
package cachetest

import (
	"context"
	"sync"
)

// Invalidator records every invalidated path.
type Invalidator struct {
	mu    sync.Mutex
	paths []string
	all   int
}

// Invalidate implements cache.Invalidator.
func (i *Invalidator) Invalidate(_ context.Context, paths ...string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.paths = append(i.paths, paths...)
}

// InvalidateAll implements cache.Invalidator.
func (i *Invalidator) InvalidateAll(context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.all++
}

// AllCount returns how many times every page was invalidated.
func (i *Invalidator) AllCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.all
}

// Paths returns the invalidated paths in call order.
func (i *Invalidator) Paths() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]string, len(i.paths))
	copy(out, i.paths)
	return out
}
