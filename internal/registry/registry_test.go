package registry_test

import (
	"errors"
	"testing"

	"github.com/archbase/shell/internal/registry"
)

func TestInitRegistersKnownManifests(t *testing.T) {
	r := registry.New()
	known := []*registry.Manifest{
		{ID: "launcher", Name: "Launcher"},
		{ID: "files", Name: "Files"},
	}

	if err := r.Init(registry.InitOptions{Known: known}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r.Status() != registry.StatusReady {
		t.Fatalf("expected StatusReady, got %v", r.Status())
	}
	if len(r.List()) != 2 {
		t.Fatalf("expected 2 manifests, got %d", len(r.List()))
	}
	if r.Get("launcher") == nil {
		t.Fatal("expected launcher to be registered")
	}
}

func TestInitRejectsInvalidManifestWithoutFailingOthers(t *testing.T) {
	r := registry.New()
	known := []*registry.Manifest{
		{ID: "", Name: "bad"},
		{ID: "ok", Name: "Good"},
	}

	if err := r.Init(registry.InitOptions{Known: known}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r.Status() != registry.StatusReady {
		t.Fatalf("expected StatusReady despite one bad manifest, got %v", r.Status())
	}
	if len(r.List()) != 1 {
		t.Fatalf("expected only the valid manifest registered, got %d", len(r.List()))
	}
	if len(r.Errors()) != 1 {
		t.Fatalf("expected exactly one recorded error, got %d", len(r.Errors()))
	}
}

func TestInitRehydrateFailureExposesNoPartialSuccess(t *testing.T) {
	r := registry.New()
	known := []*registry.Manifest{{ID: "launcher", Name: "Launcher"}}

	err := r.Init(registry.InitOptions{
		Known: known,
		Rehydrate: func() ([]*registry.Manifest, error) {
			return nil, errors.New("store unreachable")
		},
	})
	if err == nil {
		t.Fatal("expected Init to return the rehydrate error")
	}
	if r.Status() != registry.StatusError {
		t.Fatalf("expected StatusError, got %v", r.Status())
	}
	if len(r.List()) != 0 {
		t.Fatalf("expected no manifests exposed on failure, got %d", len(r.List()))
	}
}

type stubLoader struct {
	fail  string
	calls []string
}

func (s *stubLoader) RegisterManifest(m *registry.Manifest) error {
	s.calls = append(s.calls, m.ID)
	if m.ID == s.fail {
		return errors.New("loader rejected " + m.ID)
	}
	return nil
}

func TestInitLoaderFailureTransitionsToError(t *testing.T) {
	r := registry.New()
	loader := &stubLoader{fail: "files"}
	known := []*registry.Manifest{
		{ID: "launcher", Name: "Launcher"},
		{ID: "files", Name: "Files"},
	}

	err := r.Init(registry.InitOptions{Known: known, Loader: loader})
	if err == nil {
		t.Fatal("expected loader error to propagate")
	}
	if r.Status() != registry.StatusError {
		t.Fatalf("expected StatusError, got %v", r.Status())
	}
	if len(r.List()) != 0 {
		t.Fatalf("expected no manifests exposed after loader failure, got %d", len(r.List()))
	}
}

func TestInitInjectsSDKFactoryAndActivatesAfterRegistration(t *testing.T) {
	r := registry.New()
	known := []*registry.Manifest{{ID: "launcher", Name: "Launcher"}}

	injected := false
	var activated []*registry.Manifest
	err := r.Init(registry.InitOptions{
		Known:            known,
		InjectSDKFactory: func() { injected = true },
		Activate:         func(ms []*registry.Manifest) { activated = ms },
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !injected {
		t.Fatal("expected SDK factory injection to run")
	}
	if len(activated) != 1 || activated[0].ID != "launcher" {
		t.Fatalf("expected activation to receive the registered manifest, got %+v", activated)
	}
}
