// Package host wires the registry, loader, permissions, services, and wm
// packages into the single object the running shell constructs once at
// startup: the control-flow SPEC_FULL describes as "E populates manifests
// -> F registers loaders -> C.openWindow -> D binds ... -> F resolves the
// app module and wraps it in I (secured by G) -> the app consumes H
// through I" lives here, not scattered across cmd/.
package host

import (
	"encoding/json"
	"fmt"
	"os/exec"

	xpty "github.com/charmbracelet/x/xpty"

	"github.com/charmbracelet/log"

	"github.com/archbase/shell/internal/bridge"
	"github.com/archbase/shell/internal/interact"
	"github.com/archbase/shell/internal/loader"
	"github.com/archbase/shell/internal/permissions"
	"github.com/archbase/shell/internal/registry"
	"github.com/archbase/shell/internal/sdk"
	"github.com/archbase/shell/internal/services"
	"github.com/archbase/shell/internal/storage"
	"github.com/archbase/shell/internal/wm"
)

// DefaultHandler answers bridge calls from sandboxed and WASM apps with a
// "not implemented" error rather than panicking or hanging: the bridge
// and loader wiring is real, but no method router is wired to any façade
// yet since bridge.Handler carries no caller identity to look one up by.
func DefaultHandler(method string, _ json.RawMessage) (any, error) {
	return nil, fmt.Errorf("host: sdk method %q not implemented", method)
}

// AppHost bundles the process-wide singletons behind every app instance:
// the manifest registry, the strategy-dispatching loader boundary, the
// permission grant table, the shared service stores a façade is built
// against, and the global-shortcut registry that drives window management.
type AppHost struct {
	Registry    *registry.Registry
	Boundary    *loader.Boundary
	Permissions *permissions.Store
	Stores      sdk.Stores
	Interact    *interact.Registry
}

// BridgeHandler answers SDK calls arriving over a sandboxed or WASM app's
// bridge.Endpoint; the caller supplies one backed by a façade-aware
// dispatcher so every incoming call still passes through G before it
// reaches H.
type BridgeHandler = bridge.Handler

// New builds an AppHost whose federated loader launches child PTYs at
// cols x rows and whose sandboxed/WASM loaders route incoming SDK calls
// through handler.
func New(cols, rows int, handler BridgeHandler, wasmFetch loader.WasmFetcher) (*AppHost, error) {
	syncStore, err := storage.NewSyncProvider()
	if err != nil {
		return nil, fmt.Errorf("host: sync storage: %w", err)
	}

	h := &AppHost{
		Registry:    registry.New(),
		Permissions: permissions.New(),
		Interact:    interact.NewRegistry(),
		Stores: sdk.Stores{
			Windows:       wm.New(),
			Commands:      services.NewCommandRegistry(),
			Settings:      services.NewSettingsStore(),
			Notifications: services.NewNotificationStore(),
			Sync:          syncStore,
			Collaboration: services.NewCollaborationMirror(),
		},
	}
	h.Stores.Permissions = h.Permissions

	federated := loader.NewFederatedFactory(cols, rows)
	sandboxed := loader.NewSandboxedFactory(handler)
	var wasm loader.Factory
	if wasmFetch != nil {
		wasm = loader.NewWasmFactory(wasmFetch, handler)
	}

	h.Boundary = loader.NewBoundary(func(m *registry.Manifest) (loader.Instance, error) {
		switch loader.Resolve(m) {
		case registry.StrategyWasm:
			if wasm == nil {
				return nil, fmt.Errorf("host: app %s declares a wasm strategy but no fetcher is configured", m.ID)
			}
			return wasm(m)
		case registry.StrategySandbox:
			return sandboxed(m)
		default:
			return federated(m)
		}
	})

	return h, nil
}

// RegisterManifest implements registry.LoaderRegisterer. The loader
// boundary is a lazy, on-demand cache keyed by manifest id — there is
// nothing to pre-warm before first use, so registration only has to
// confirm the manifest resolves to a strategy the host supports.
func (h *AppHost) RegisterManifest(m *registry.Manifest) error {
	switch loader.Resolve(m) {
	case registry.StrategyFederated, registry.StrategySandbox, registry.StrategyWasm:
		return nil
	default:
		return fmt.Errorf("host: app %s: unresolvable strategy", m.ID)
	}
}

// Init runs the registry's boot sequence against known (bundled)
// manifests plus whatever LoadManifestDir finds under manifestDir,
// registering every validated manifest with this host's loader boundary
// and logging the final accepted/rejected counts.
func (h *AppHost) Init(known []*registry.Manifest, manifestDir string) error {
	err := h.Registry.Init(registry.InitOptions{
		Known: known,
		Rehydrate: func() ([]*registry.Manifest, error) {
			if manifestDir == "" {
				return nil, nil
			}
			return registry.LoadManifestDir(manifestDir)
		},
		Loader: h,
		Activate: func(accepted []*registry.Manifest) {
			for _, m := range accepted {
				log.Debug("app registered", "id", m.ID, "strategy", loader.Resolve(m))
			}
		},
	})
	if err != nil {
		return err
	}
	for _, e := range h.Registry.Errors() {
		log.Warn("app rejected", "id", e.ManifestID, "error", e.Err)
	}
	return nil
}

// NewDefault builds an AppHost sized for an 80x24 federated child with
// DefaultHandler answering sandboxed/WASM bridge calls, then rehydrates
// manifestDir. It is the constructor every entry point (local run, SSH,
// web) shares; each caller gets its own AppHost rather than sharing one,
// since the global-shortcut registry it owns binds closures over a
// single *app.OS.
func NewDefault(manifestDir string) (*AppHost, error) {
	h, err := New(80, 24, DefaultHandler, nil)
	if err != nil {
		return nil, err
	}
	if err := h.Init(nil, manifestDir); err != nil {
		return nil, err
	}
	return h, nil
}

// LaunchedApp is what Launch hands back to the caller hosting the new
// window: the wm.Store id to track, the capability-scoped façade handed
// to the app, and — only for the federated strategy — the PTY and
// process the window's chrome should attach to directly.
type LaunchedApp struct {
	Manifest  *registry.Manifest
	WindowID  string
	Facade    *sdk.Facade
	Federated bool
	PTY       xpty.Pty
	Cmd       *exec.Cmd
}

// Launch resolves appID through the registry, loads (or reuses) its
// instance through the loader boundary, opens a window for it in the
// shared wm.Store, and builds the permission-enforcing façade the app's
// process or bridge handler is given. This is the control-flow
// SPEC_FULL's overview paragraph describes end to end.
func (h *AppHost) Launch(appID string, vw, vh, taskbarH int) (*LaunchedApp, error) {
	m := h.Registry.Get(appID)
	if m == nil {
		return nil, fmt.Errorf("host: app %s is not registered", appID)
	}

	entry := h.Boundary.Load(m)
	if entry.Status == loader.StatusError {
		return nil, fmt.Errorf("host: app %s failed to load: %w", appID, entry.Err)
	}

	windowID := h.Stores.Windows.OpenWindow(wm.OpenSpec{
		AppID:  m.ID,
		Title:  displayName(m),
		Width:  m.Window.Width,
		Height: m.Window.Height,
		Icon:   m.Icon,
	}, vw, vh, taskbarH)

	base := sdk.New(m.ID, windowID, m, h.Stores)
	facade := sdk.Secure(base, m, h.Permissions)

	la := &LaunchedApp{Manifest: m, WindowID: windowID, Facade: facade}
	switch inst := entry.Instance.(type) {
	case *loader.FederatedApp:
		la.Federated = true
		la.PTY = inst.Pty
		la.Cmd = inst.Cmd
	}

	facade.Notifications.Push(services.NotifySuccess, displayName(m), "launched", 4000, true)
	return la, nil
}

// Close tears down appID's loaded instance and removes its window from
// the shared store.
func (h *AppHost) Close(appID, windowID string) error {
	h.Stores.Windows.CloseWindow(windowID)
	return h.Boundary.Dispose(appID)
}

func displayName(m *registry.Manifest) string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Name
}

// RegisterWindowBuiltins binds eight of the nine global shortcuts (§4.2's
// keycombo table) to wm.Store window-management operations, giving
// component D real actions to dispatch instead of stubs. launcher is
// invoked for ActionOpenLauncher; everything else drives h.Stores.Windows
// directly. ActionOpenCommandPalette is not bound, so its combo does
// nothing. vw/vh/taskbarH are supplied by the caller since they change
// with the host's viewport. configOverrides, typically
// config.AppLauncherOverrides(userConfig), lets the user's config.toml
// rebind any of these shortcuts; combos it doesn't name keep
// interact.DefaultBuiltins.
func (h *AppHost) RegisterWindowBuiltins(launcher func(), viewport func() (vw, vh, taskbarH int), configOverrides map[string]string) error {
	handlers := map[interact.BuiltinAction]func(){
		interact.ActionOpenLauncher: launcher,
		interact.ActionCloseWindow: func() {
			if id := h.Stores.Windows.Focused(); id != "" {
				h.Stores.Windows.CloseWindow(id)
			}
		},
		interact.ActionMinimizeAll:      h.Stores.Windows.MinimizeAll,
		interact.ActionFocusNext:        h.Stores.Windows.FocusNext,
		interact.ActionFocusPrevious:    h.Stores.Windows.FocusPrevious,
		interact.ActionTileHorizontal: func() {
			vw, vh, taskbarH := viewport()
			h.Stores.Windows.TileWindows(wm.TileHorizontal, vw, vh, taskbarH)
		},
		interact.ActionTileVertical: func() {
			vw, vh, taskbarH := viewport()
			h.Stores.Windows.TileWindows(wm.TileVertical, vw, vh, taskbarH)
		},
		interact.ActionCascade: func() {
			vw, vh, taskbarH := viewport()
			h.Stores.Windows.CascadeWindows(vw, vh, taskbarH)
		},
	}

	overrides := make(map[interact.BuiltinAction]string, len(configOverrides))
	for name, combo := range configOverrides {
		if action, ok := interact.BuiltinActionByName(name); ok {
			overrides[action] = combo
		}
	}
	return h.Interact.RegisterBuiltins(handlers, overrides)
}
