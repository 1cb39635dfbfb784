// Package ratelimit implements fixed-window request counting behind a
// swappable counter store. The middleware layer decides keys and classes;
// this package owns windows, ceilings and counter storage.
//
// Two stores exist: a process-local in-memory table (default; limits are
// then per instance) and a Redis-backed table for deployments that need
// global enforcement. Both satisfy the same one-method contract so the swap
// never touches the middleware.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Class is a rate-limiting category with its own window and ceilings.
// Verified identities get materially higher ceilings than anonymous network
// addresses.
type Class struct {
	// Name namespaces bucket keys (e.g. "write:user:<id>").
	Name string
	// Window is the fixed counting window.
	Window time.Duration
	// Authed is the ceiling for requests with a resolved identity.
	Authed int
	// Anon is the ceiling for requests keyed by network address.
	Anon int
	// PerIP forces address keying even when an identity is resolved.
	// Used for authentication attempts, where identity is not yet trusted.
	PerIP bool
}

// Ceiling returns the request ceiling for one window.
func (c Class) Ceiling(authenticated bool) int {
	if authenticated && !c.PerIP {
		return c.Authed
	}
	return c.Anon
}

// The standard operation classes.
var (
	// General covers all API traffic.
	General = Class{Name: "general", Window: 15 * time.Minute, Authed: 1000, Anon: 100}
	// Write covers create/update/delete routes.
	Write = Class{Name: "write", Window: time.Minute, Authed: 50, Anon: 10}
	// Auth covers authentication attempts, always per address.
	Auth = Class{Name: "auth", Window: 15 * time.Minute, Authed: 5, Anon: 5, PerIP: true}
	// Upload covers attachment/upload routes.
	Upload = Class{Name: "upload", Window: time.Hour, Authed: 20, Anon: 20}
)

// Store counts requests per key within fixed windows.
//
// Incr records one request against key's current window and returns the
// count including this request plus the instant the window resets. A fresh
// window starts at the first request after the previous one elapsed.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, reset time.Time, err error)
}

// bucket is one in-memory counter. It remembers its own window because the
// store is shared across classes with different windows, and eviction must
// judge each bucket against the window it was counted under.
type bucket struct {
	start  time.Time
	window time.Duration
	count  int64
}

// elapsed reports whether the bucket's own window has passed.
func (b *bucket) elapsed(now time.Time) bool {
	return now.Sub(b.start) >= b.window
}

// MemoryStore is the process-local Store. Buckets are created lazily and
// evicted opportunistically once their window has elapsed, so memory stays
// bounded without a background goroutine.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	// now is a seam for tests.
	now func() time.Time
	// ops counts Incr calls to trigger opportunistic GC.
	ops int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*bucket), now: time.Now}
}

// gcEvery is the number of Incr calls between opportunistic sweeps.
const gcEvery = 5000

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Sweep elapsed buckets before touching the requested one, so a stale
	// bucket is reset even when it is the one being fetched. Each bucket is
	// judged against its own window, never the caller's.
	s.ops++
	if s.ops >= gcEvery {
		for k, b := range s.buckets {
			if b.elapsed(now) {
				delete(s.buckets, k)
			}
		}
		s.ops = 0
	}

	b, ok := s.buckets[key]
	if !ok || b.elapsed(now) {
		b = &bucket{start: now, window: window}
		s.buckets[key] = b
	}
	b.count++
	return b.count, b.start.Add(window), nil
}

// Len reports the number of live buckets; used by tests and diagnostics.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
