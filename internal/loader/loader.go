// Package loader resolves an app manifest's declared isolation strategy
// into a running app instance: federated (in-process PTY-backed child),
// sandboxed (out-of-process child wired through the host bridge), or
// WebAssembly (wazero-instantiated module). All three share an outer
// error boundary and retry counter.
package loader

import (
	"fmt"
	"sync"

	"github.com/archbase/shell/internal/registry"
)

// Status mirrors the loading-placeholder / ready / error-panel states
// every loader presents while a manifest's app instance is pending.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusError
)

// Instance is a running app the caller can tear down; Dispose must be
// idempotent since window close and reload both invoke it.
type Instance interface {
	Dispose() error
}

// Entry tracks one manifest's loaded instance plus the retry count the
// error boundary uses to cap automatic retries.
type Entry struct {
	Manifest *registry.Manifest
	Status   Status
	Instance Instance
	Err      error
	Retries  int
}

// Factory builds a fresh Instance for m; it is called once per load or
// retry attempt.
type Factory func(m *registry.Manifest) (Instance, error)

// Boundary is the shared cache + error boundary all three loader kinds
// run through: a cache miss triggers Factory; a cache hit returns the
// existing entry without re-invoking Factory; Retry clears the cache
// entry and re-requests.
type Boundary struct {
	mu      sync.Mutex
	entries map[string]*Entry
	build   Factory
}

// NewBoundary wraps build in a cache keyed by manifest id.
func NewBoundary(build Factory) *Boundary {
	return &Boundary{entries: make(map[string]*Entry), build: build}
}

// Load returns the cached entry for m.ID, building one on a cache miss.
// A falsy (nil) instance from Factory is treated as failure, per the
// federated-loader contract.
func (b *Boundary) Load(m *registry.Manifest) *Entry {
	b.mu.Lock()
	if e, ok := b.entries[m.ID]; ok {
		b.mu.Unlock()
		return e
	}
	e := &Entry{Manifest: m, Status: StatusPending}
	b.entries[m.ID] = e
	b.mu.Unlock()

	b.runBuild(e, m)
	return e
}

func (b *Boundary) runBuild(e *Entry, m *registry.Manifest) {
	inst, err := b.build(m)
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil || inst == nil {
		e.Status = StatusError
		if err == nil {
			err = fmt.Errorf("loader: %s produced no instance", m.ID)
		}
		e.Err = err
		return
	}
	e.Instance = inst
	e.Status = StatusReady
}

// Retry clears the cache entry for id and re-requests it from m,
// incrementing the retry counter on the new entry.
func (b *Boundary) Retry(m *registry.Manifest) *Entry {
	b.mu.Lock()
	prevRetries := 0
	if prev, ok := b.entries[m.ID]; ok {
		prevRetries = prev.Retries + 1
		delete(b.entries, m.ID)
	}
	b.mu.Unlock()

	e := b.Load(m)
	e.Retries = prevRetries
	return e
}

// Dispose tears down and forgets the cached entry for id, if any.
func (b *Boundary) Dispose(id string) error {
	b.mu.Lock()
	e, ok := b.entries[id]
	delete(b.entries, id)
	b.mu.Unlock()
	if !ok || e.Instance == nil {
		return nil
	}
	return e.Instance.Dispose()
}

// Get returns the current entry for id without triggering a load.
func (b *Boundary) Get(id string) (*Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	return e, ok
}

// Resolve picks the loader a manifest selects, per registry.Manifest.Strategy.
func Resolve(m *registry.Manifest) registry.Strategy {
	return m.Strategy()
}
