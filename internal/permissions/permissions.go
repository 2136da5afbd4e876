// Package permissions implements the grant table and prompt queue that
// gate every capability-scoped SDK call: one store, process-wide,
// keyed by (appId, permission).
package permissions

import (
	"strconv"
	"sync"

	"github.com/archbase/shell/internal/registry"
)

// Grant is the resolved decision for a (app, permission) pair. Absence
// from the grants table means Prompt.
type Grant int

const (
	Prompt Grant = iota
	Granted
	Denied
)

// PendingPrompt is the head-of-queue prompt the UI renders; Resolve
// records the user's decision and promotes the next queued prompt.
type PendingPrompt struct {
	ID          string
	AppID       string
	DisplayName string
	Icon        string
	Permission  registry.Permission

	resolve func(Grant)
}

// Resolve records grant as the decision for this prompt and wakes the
// caller blocked in RequestPermission. A prompt can only be resolved
// once.
func (p *PendingPrompt) Resolve(grant Grant) {
	p.resolve(grant)
}

type grantKey struct {
	appID string
	perm  registry.Permission
}

// Store holds the grant table and the ordered prompt queue. It is safe
// for concurrent use; RequestPermission blocks the calling goroutine
// until the prompt resolves, mirroring the host's single Promise per
// request.
type Store struct {
	mu      sync.Mutex
	grants  map[grantKey]Grant
	queue   []*PendingPrompt
	nextID  int
	onQueue func(*PendingPrompt) // notified whenever a new prompt becomes head of queue
}

// New creates an empty permissions store.
func New() *Store {
	return &Store{grants: make(map[grantKey]Grant)}
}

// OnPromptHeadChanged registers a callback invoked whenever a new prompt
// is promoted to the head of the queue (including the first one). The
// UI uses this to render the active prompt.
func (s *Store) OnPromptHeadChanged(fn func(*PendingPrompt)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onQueue = fn
}

// CheckPermission returns the stored grant for (appID, perm), or Prompt
// if none is stored. It does not consult the manifest; callers must
// apply the "undeclared permission is always Denied" rule themselves
// (see Effective).
func (s *Store) CheckPermission(appID string, perm registry.Permission) Grant {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grants[grantKey{appID, perm}]
	if !ok {
		return Prompt
	}
	return g
}

// Effective resolves the grant a manifest-aware caller should act on: a
// permission absent from declared is always Denied, regardless of any
// stored grant, and is never persisted.
func Effective(declared []registry.Permission, stored Grant, perm registry.Permission) Grant {
	for _, d := range declared {
		if d == perm {
			return stored
		}
	}
	return Denied
}

// RequestPermission resolves immediately from a stored grant; otherwise
// it enqueues a pending prompt (promoting it to head if the queue was
// empty) and blocks until the prompt resolves. Escape/unresolved
// teardown should call PendingPrompt.Resolve(Denied) — the safe
// default — rather than leaving the caller blocked forever.
func (s *Store) RequestPermission(appID, displayName, icon string, perm registry.Permission) Grant {
	s.mu.Lock()
	if g, ok := s.grants[grantKey{appID, perm}]; ok {
		s.mu.Unlock()
		return g
	}
	s.nextID++
	result := make(chan Grant, 1)
	resolved := false
	p := &PendingPrompt{
		ID: strconv.Itoa(s.nextID), AppID: appID, DisplayName: displayName, Icon: icon, Permission: perm,
		resolve: func(g Grant) {
			s.mu.Lock()
			if resolved {
				s.mu.Unlock()
				return
			}
			resolved = true
			s.grants[grantKey{appID, perm}] = g
			s.dequeueLocked()
			s.mu.Unlock()
			result <- g
		},
	}
	wasEmpty := len(s.queue) == 0
	s.queue = append(s.queue, p)
	notify := s.onQueue
	if wasEmpty && notify != nil {
		notify(p)
	}
	s.mu.Unlock()

	return <-result
}

// dequeueLocked removes the resolved head prompt and promotes the next
// one, notifying onQueue. Caller must hold s.mu.
func (s *Store) dequeueLocked() {
	if len(s.queue) == 0 {
		return
	}
	s.queue = s.queue[1:]
	if len(s.queue) > 0 && s.onQueue != nil {
		s.onQueue(s.queue[0])
	}
}

// Head returns the current head-of-queue prompt, or nil.
func (s *Store) Head() *PendingPrompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil
	}
	return s.queue[0]
}

// QueueLen reports the number of pending prompts.
func (s *Store) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
