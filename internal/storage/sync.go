// Package storage implements the two scoped-storage providers every app
// sees through the SDK's storage service: a synchronous, file-backed
// provider keyed by a prefix-partitioned namespace, and an asynchronous,
// goroutine-supervised provider modeled on a per-app object store.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// appPrefix namespaces every sync-provider key, matching the wire layout
// "archbase:${appId}:${key}" from the external-interfaces contract.
const appPrefix = "archbase"

// SyncProvider is a flat string->string store persisted to a single JSON
// file under the XDG data directory. All operations are synchronous;
// Set is fire-and-forget with persistence errors suppressed, mirroring a
// browser storage quota failure that never surfaces to the caller.
type SyncProvider struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewSyncProvider opens (or creates) the on-disk store at
// $XDG_DATA_HOME/archbase/storage.json.
func NewSyncProvider() (*SyncProvider, error) {
	path, err := xdg.DataFile(filepath.Join("archbase", "storage.json"))
	if err != nil {
		return nil, err
	}
	return NewSyncProviderAt(path)
}

// NewSyncProviderAt opens a sync provider backed by an explicit path,
// for tests that don't want to touch the real XDG data directory.
func NewSyncProviderAt(path string) (*SyncProvider, error) {
	p := &SyncProvider{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		// A corrupt store is treated like an absent one rather than a
		// fatal startup error; writes will recreate it cleanly.
		p.data = make(map[string]string)
	}
	return p, nil
}

func namespacedKey(appID, key string) string {
	return appPrefix + ":" + appID + ":" + key
}

// Get returns the raw stored string for (appID, key). A missing key
// reports ok=false; the SDK layer is responsible for JSON-decoding the
// value and treating absent/invalid as null.
func (p *SyncProvider) Get(appID, key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.data[namespacedKey(appID, key)]
	return v, ok
}

// Set writes value at (appID, key) and schedules an async flush to disk.
// Persistence failures are swallowed: quota/write errors never surface
// to the calling app.
func (p *SyncProvider) Set(appID, key, value string) {
	p.mu.Lock()
	p.data[namespacedKey(appID, key)] = value
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	go p.flush(snapshot)
}

// Clear removes every key in appID's namespace, leaving other apps'
// entries untouched.
func (p *SyncProvider) Clear(appID string) {
	prefix := appPrefix + ":" + appID + ":"
	p.mu.Lock()
	for k := range p.data {
		if strings.HasPrefix(k, prefix) {
			delete(p.data, k)
		}
	}
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	go p.flush(snapshot)
}

// Keys returns the scope-local key names (the namespace prefix
// stripped) for appID.
func (p *SyncProvider) Keys(appID string) []string {
	prefix := appPrefix + ":" + appID + ":"
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0)
	for k := range p.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, strings.TrimPrefix(k, prefix))
		}
	}
	return out
}

func (p *SyncProvider) snapshotLocked() map[string]string {
	out := make(map[string]string, len(p.data))
	for k, v := range p.data {
		out[k] = v
	}
	return out
}

func (p *SyncProvider) flush(snapshot map[string]string) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(p.path), 0o755)
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, p.path)
}
