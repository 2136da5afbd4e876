package loader_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/archbase/shell/internal/loader"
	"github.com/archbase/shell/internal/registry"
)

type fakeInstance struct {
	disposed bool
}

func (f *fakeInstance) Dispose() error {
	f.disposed = true
	return nil
}

func TestBoundaryLoadCachesAcrossCalls(t *testing.T) {
	calls := 0
	b := loader.NewBoundary(func(m *registry.Manifest) (loader.Instance, error) {
		calls++
		return &fakeInstance{}, nil
	})
	m := &registry.Manifest{ID: "app1"}

	b.Load(m)
	b.Load(m)

	if calls != 1 {
		t.Fatalf("expected factory to run once, ran %d times", calls)
	}
}

func TestBoundaryLoadTreatsNilInstanceAsError(t *testing.T) {
	b := loader.NewBoundary(func(m *registry.Manifest) (loader.Instance, error) {
		return nil, nil
	})
	e := b.Load(&registry.Manifest{ID: "app1"})
	if e.Status != loader.StatusError {
		t.Fatalf("expected StatusError for a nil instance, got %v", e.Status)
	}
}

func TestBoundaryRetryIncrementsCountAndRebuilds(t *testing.T) {
	calls := 0
	b := loader.NewBoundary(func(m *registry.Manifest) (loader.Instance, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return &fakeInstance{}, nil
	})
	m := &registry.Manifest{ID: "app1"}

	first := b.Load(m)
	if first.Status != loader.StatusError {
		t.Fatalf("expected first load to fail, got %v", first.Status)
	}

	second := b.Retry(m)
	if second.Status != loader.StatusReady {
		t.Fatalf("expected retry to succeed, got %v", second.Status)
	}
	if second.Retries != 1 {
		t.Fatalf("expected retry count 1, got %d", second.Retries)
	}
}

func TestBoundaryDisposeTearsDownAndForgets(t *testing.T) {
	inst := &fakeInstance{}
	b := loader.NewBoundary(func(m *registry.Manifest) (loader.Instance, error) {
		return inst, nil
	})
	m := &registry.Manifest{ID: "app1"}
	b.Load(m)

	if err := b.Dispose(m.ID); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if !inst.disposed {
		t.Fatalf("expected instance to be disposed")
	}
	if _, ok := b.Get(m.ID); ok {
		t.Fatalf("expected entry to be forgotten after dispose")
	}
}

func TestResolvePicksManifestStrategy(t *testing.T) {
	m := &registry.Manifest{ID: "app1", Wasm: &registry.Wasm{WasmURL: "app.wasm"}}
	if got := loader.Resolve(m); got != registry.StrategyWasm {
		t.Fatalf("expected StrategyWasm, got %v", got)
	}
}

func TestNormalizeSandboxTokensAlwaysIncludesAllowScripts(t *testing.T) {
	tokens := loader.NormalizeSandboxTokens(nil)
	if len(tokens) != 1 || tokens[0] != "allow-scripts" {
		t.Fatalf("expected [allow-scripts], got %v", tokens)
	}
}

func TestNormalizeSandboxTokensFiltersDangerousTokens(t *testing.T) {
	tokens := loader.NormalizeSandboxTokens([]string{"allow-forms", "allow-same-origin"})
	for _, tok := range tokens {
		if tok == "allow-same-origin" {
			t.Fatalf("expected allow-same-origin to be filtered, got %v", tokens)
		}
	}
	found := false
	for _, tok := range tokens {
		if tok == "allow-forms" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected allow-forms to survive, got %v", tokens)
	}
}

func TestNewSandboxedFactoryRejectsJavascriptScheme(t *testing.T) {
	factory := loader.NewSandboxedFactory(func(method string, payload json.RawMessage) (any, error) {
		return nil, nil
	})
	m := &registry.Manifest{
		ID: "app1",
		Sandbox: &registry.Sandbox{
			URL:    "javascript:alert(1)",
			Origin: "*",
			Allow:  []string{"allow-forms"},
		},
	}

	_, err := factory(m)
	if err == nil {
		t.Fatalf("expected javascript: scheme to be rejected")
	}
}

func TestNewSandboxedFactoryRejectsMissingSandboxConfig(t *testing.T) {
	factory := loader.NewSandboxedFactory(func(method string, payload json.RawMessage) (any, error) {
		return nil, nil
	})
	_, err := factory(&registry.Manifest{ID: "app1"})
	if err == nil {
		t.Fatalf("expected error for a manifest with no sandbox config")
	}
}

func TestNewFederatedFactoryRejectsMissingEntrypoint(t *testing.T) {
	factory := loader.NewFederatedFactory(80, 24)
	_, err := factory(&registry.Manifest{ID: "app1"})
	if err == nil {
		t.Fatalf("expected error for a manifest with no entrypoint")
	}
}

func TestNewWasmFactoryRejectsMissingWasmConfig(t *testing.T) {
	factory := loader.NewWasmFactory(func(ctx context.Context, url string) ([]byte, error) {
		t.Fatalf("fetch should not be called without wasm config")
		return nil, nil
	}, func(method string, payload json.RawMessage) (any, error) {
		return nil, nil
	})
	_, err := factory(&registry.Manifest{ID: "app1"})
	if err == nil {
		t.Fatalf("expected error for a manifest with no wasm config")
	}
}

func TestNewWasmFactoryPropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("network down")
	factory := loader.NewWasmFactory(func(ctx context.Context, url string) ([]byte, error) {
		return nil, fetchErr
	}, func(method string, payload json.RawMessage) (any, error) {
		return nil, nil
	})
	_, err := factory(&registry.Manifest{ID: "app1", Wasm: &registry.Wasm{WasmURL: "app.wasm"}})
	if err == nil || !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}
}
