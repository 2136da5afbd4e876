package registry

import "sync"

// Status is the registry's coarse init state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

// RegisterError is appended to the registry's error list when a manifest is
// rejected; the offending manifest is omitted from the active set.
type RegisterError struct {
	ManifestID string
	Err        error
}

// LoaderRegisterer is implemented by the remote-loader layer; Init calls it
// once per validated manifest so the loader can prepare caches ahead of
// first use.
type LoaderRegisterer interface {
	RegisterManifest(m *Manifest) error
}

// Registry holds every known manifest plus the init status machine
// described in §4.4: idle -> loading -> {ready, error}.
type Registry struct {
	mu        sync.RWMutex
	status    Status
	manifests map[string]*Manifest
	errors    []RegisterError
}

// New creates an idle, empty registry.
func New() *Registry {
	return &Registry{manifests: make(map[string]*Manifest)}
}

// Status returns the current init status.
func (r *Registry) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Errors returns the accumulated registration errors.
func (r *Registry) Errors() []RegisterError {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RegisterError(nil), r.errors...)
}

// Get returns a registered, ready manifest by id, or nil.
func (r *Registry) Get(id string) *Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.manifests[id]
}

// List returns every registered manifest.
func (r *Registry) List() []*Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Manifest, 0, len(r.manifests))
	for _, m := range r.manifests {
		out = append(out, m)
	}
	return out
}

// InitOptions bundles the five init steps from §4.4 so Init can run them in
// the documented order and fail closed on any exception.
type InitOptions struct {
	// Known is the hard-coded set of bundled manifests, schema-checked
	// synchronously.
	Known []*Manifest
	// Rehydrate loads previously-installed marketplace manifests from a
	// persistent store; nil means no marketplace support.
	Rehydrate func() ([]*Manifest, error)
	// Loader registers every validated manifest with the remote-loader
	// layer; nil means no loader is wired (tests only).
	Loader LoaderRegisterer
	// InjectSDKFactory installs the global SDK factory used by
	// non-framework apps; nil is a no-op.
	InjectSDKFactory func()
	// Activate invokes activation handlers for the final manifest set;
	// nil is a no-op.
	Activate func([]*Manifest)
}

// Init runs the registry's five-step boot sequence. On any step's error the
// registry transitions to StatusError and no partial success is exposed:
// the manifest set reflects only what completed before the failure.
func (r *Registry) Init(opts InitOptions) error {
	r.mu.Lock()
	r.status = StatusLoading
	r.mu.Unlock()

	var accepted []*Manifest

	registerOne := func(m *Manifest) {
		if err := Validate(m); err != nil {
			r.mu.Lock()
			r.errors = append(r.errors, RegisterError{ManifestID: m.ID, Err: err})
			r.mu.Unlock()
			return
		}
		accepted = append(accepted, m)
	}

	// (a) hard-coded known manifests, schema-checked synchronously.
	for _, m := range opts.Known {
		registerOne(m)
	}

	// (b) rehydrate installed marketplace manifests.
	if opts.Rehydrate != nil {
		installed, err := opts.Rehydrate()
		if err != nil {
			return r.fail(err)
		}
		for _, m := range installed {
			registerOne(m)
		}
	}

	// (c) register all accepted manifests with the remote loader.
	if opts.Loader != nil {
		for _, m := range accepted {
			if err := opts.Loader.RegisterManifest(m); err != nil {
				return r.fail(err)
			}
		}
	}

	r.mu.Lock()
	for _, m := range accepted {
		r.manifests[m.ID] = m
	}
	r.mu.Unlock()

	// (d) inject a global SDK factory for non-framework apps.
	if opts.InjectSDKFactory != nil {
		opts.InjectSDKFactory()
	}

	// (e) invoke activation handlers.
	if opts.Activate != nil {
		opts.Activate(accepted)
	}

	r.mu.Lock()
	r.status = StatusReady
	r.mu.Unlock()
	return nil
}

func (r *Registry) fail(err error) error {
	r.mu.Lock()
	r.status = StatusError
	r.errors = append(r.errors, RegisterError{Err: err})
	r.mu.Unlock()
	return err
}
