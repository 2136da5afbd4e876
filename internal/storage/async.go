package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// Supervisor runs async storage operations on their own goroutine and
// discards the result if the caller has since been torn down, replacing
// the ad hoc unmount-guard pattern with an explicit primitive: every
// in-flight request gets a cancelled flag the owner can flip exactly
// once on teardown.
type Supervisor struct {
	mu        sync.Mutex
	cancelled map[*request]bool
}

type request struct{}

// NewSupervisor builds an empty request tracker.
func NewSupervisor() *Supervisor {
	return &Supervisor{cancelled: make(map[*request]bool)}
}

// Token is a handle an owner holds to cancel its own in-flight requests
// on teardown.
type Token struct {
	sup *Supervisor
	req *request
}

// Begin registers a new in-flight request and returns a token the owner
// must eventually Cancel (idempotent; a no-op once the request already
// resolved).
func (s *Supervisor) Begin() Token {
	req := &request{}
	s.mu.Lock()
	s.cancelled[req] = false
	s.mu.Unlock()
	return Token{sup: s, req: req}
}

// Cancel marks the owner's request as cancelled; any pending resolution
// for it will be discarded.
func (t Token) Cancel() {
	t.sup.mu.Lock()
	defer t.sup.mu.Unlock()
	t.sup.cancelled[t.req] = true
}

func (t Token) isCancelled() bool {
	t.sup.mu.Lock()
	defer t.sup.mu.Unlock()
	cancelled, ok := t.sup.cancelled[t.req]
	return !ok || cancelled
}

func (t Token) finish() {
	t.sup.mu.Lock()
	defer t.sup.mu.Unlock()
	delete(t.sup.cancelled, t.req)
}

// Result carries an async operation's outcome, or nothing if the owning
// token was cancelled before it arrived.
type Result struct {
	Value     string
	Found     bool
	Err       error
	Cancelled bool
}

// AsyncProvider is a single-object-store key/value map shared by every
// app, namespaced "${appID}:${key}" per window, persisted to disk on a
// background goroutine per request the way an IndexedDB transaction
// would complete off the caller's turn of the event loop.
type AsyncProvider struct {
	mu   sync.Mutex
	path string
	data map[string]string
	sup  *Supervisor
}

// NewAsyncProvider opens (or creates) the on-disk store at
// $XDG_DATA_HOME/archbase/async-storage.json.
func NewAsyncProvider() (*AsyncProvider, error) {
	path, err := xdg.DataFile(filepath.Join("archbase", "async-storage.json"))
	if err != nil {
		return nil, err
	}
	return NewAsyncProviderAt(path)
}

// NewAsyncProviderAt opens an async provider at an explicit path.
func NewAsyncProviderAt(path string) (*AsyncProvider, error) {
	p := &AsyncProvider{path: path, data: make(map[string]string), sup: NewSupervisor()}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.data); err != nil {
			p.data = make(map[string]string)
		}
	}
	return p, nil
}

func asyncKey(appID, key string) string { return appID + ":" + key }

// Get resolves (appID, key) on a background goroutine and delivers the
// result to ch; if tok is cancelled before the lookup completes, ch
// never receives anything. Callers own ch and should buffer it (size 1)
// so a cancelled-but-in-flight goroutine never blocks.
func (p *AsyncProvider) Get(ctx context.Context, tok Token, appID, key string, ch chan<- Result) {
	go func() {
		defer tok.finish()
		select {
		case <-ctx.Done():
			if !tok.isCancelled() {
				ch <- Result{Cancelled: true}
			}
			return
		default:
		}

		p.mu.Lock()
		v, ok := p.data[asyncKey(appID, key)]
		p.mu.Unlock()

		if tok.isCancelled() {
			return
		}
		ch <- Result{Value: v, Found: ok}
	}()
}

// Set persists value at (appID, key) on a background goroutine and
// reports completion (or the write error) on ch, unless tok was
// cancelled first.
func (p *AsyncProvider) Set(ctx context.Context, tok Token, appID, key, value string, ch chan<- Result) {
	go func() {
		defer tok.finish()
		p.mu.Lock()
		p.data[asyncKey(appID, key)] = value
		snapshot := make(map[string]string, len(p.data))
		for k, v := range p.data {
			snapshot[k] = v
		}
		p.mu.Unlock()

		err := p.flush(snapshot)
		if tok.isCancelled() {
			return
		}
		ch <- Result{Err: err}
	}()
}

func (p *AsyncProvider) flush(snapshot map[string]string) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}

// Supervisor exposes the provider's request supervisor so a caller (the
// SDK façade) can Begin/Cancel tokens for its own in-flight requests.
func (p *AsyncProvider) Supervisor() *Supervisor { return p.sup }
