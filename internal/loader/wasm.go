package loader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/archbase/shell/internal/bridge"
	"github.com/archbase/shell/internal/registry"
)

// WasmFetcher retrieves the compiled bytes for a manifest's wasmUrl; the
// terminal host has no browser fetch(), so the caller supplies whatever
// resolves a URL or local path to bytes (http.Get, os.ReadFile, an
// embedded asset lookup, ...).
type WasmFetcher func(ctx context.Context, url string) ([]byte, error)

// wasmExports is the lifecycle API every WASM app is expected to export,
// the cell-grid analogue of {render, resize, dispose, setSDK, onKey*,
// onPointer*}. Every entry is optional except render; a module missing
// an optional export simply never receives that callback.
type wasmExports struct {
	render        api.Function
	resize        api.Function
	dispose       api.Function
	setSDK        api.Function
	onKeyDown     api.Function
	onKeyUp       api.Function
	onPointerDown api.Function
	onPointerMove api.Function
	onPointerUp   api.Function
	alloc         api.Function
	dealloc       api.Function
}

// WasmApp is a wazero-instantiated module rendering into a cell-grid
// surface (canvas-2d, dom, or hybrid per the manifest's RenderMode).
type WasmApp struct {
	Manifest *registry.Manifest
	runtime  wazero.Runtime
	module   api.Module
	exports  wasmExports
}

// Dispose invokes the guest's dispose export, if any, then tears down
// the module and its runtime.
func (a *WasmApp) Dispose() error {
	if a.exports.dispose != nil {
		_, _ = a.exports.dispose.Call(context.Background())
	}
	if a.module != nil {
		_ = a.module.Close(context.Background())
	}
	if a.runtime != nil {
		return a.runtime.Close(context.Background())
	}
	return nil
}

// Render invokes the guest's render export with the current surface
// size in cells.
func (a *WasmApp) Render(ctx context.Context, width, height int) error {
	_, err := a.exports.render.Call(ctx, uint64(int32(width)), uint64(int32(height)))
	return err
}

// Resize forwards a surface resize to the guest, a no-op if it declined
// to export one.
func (a *WasmApp) Resize(ctx context.Context, width, height int) error {
	if a.exports.resize == nil {
		return nil
	}
	_, err := a.exports.resize.Call(ctx, uint64(int32(width)), uint64(int32(height)))
	return err
}

// HandleKey forwards a key event to whichever of onKeyDown/onKeyUp the
// guest exported; keyCode is host-assigned and opaque to this layer.
func (a *WasmApp) HandleKey(ctx context.Context, down bool, keyCode int32) error {
	fn := a.exports.onKeyUp
	if down {
		fn = a.exports.onKeyDown
	}
	if fn == nil {
		return nil
	}
	_, err := fn.Call(ctx, uint64(uint32(keyCode)))
	return err
}

// HandlePointer forwards a pointer event to the matching exported
// handler (down/move/up); phase selects which.
func (a *WasmApp) HandlePointer(ctx context.Context, phase string, x, y int32) error {
	var fn api.Function
	switch phase {
	case "down":
		fn = a.exports.onPointerDown
	case "move":
		fn = a.exports.onPointerMove
	case "up":
		fn = a.exports.onPointerUp
	}
	if fn == nil {
		return nil
	}
	_, err := fn.Call(ctx, uint64(uint32(x)), uint64(uint32(y)))
	return err
}

// NewWasmFactory builds a Factory that fetches, compiles, and
// instantiates a manifest's declared WASM module, wiring a single host
// import — archbase.sdk_call — through which every guest SDK call is
// routed to handler, the same capability-checking path the sandboxed
// and federated loaders use.
func NewWasmFactory(fetch WasmFetcher, handler bridge.Handler) Factory {
	return func(m *registry.Manifest) (Instance, error) {
		if m.Wasm == nil {
			return nil, fmt.Errorf("wasm app %s: no wasm config", m.ID)
		}
		ctx := context.Background()

		wasmBytes, err := fetch(ctx, m.Wasm.WasmURL)
		if err != nil {
			return nil, fmt.Errorf("wasm app %s: fetch: %w", m.ID, err)
		}

		cfg := wazero.NewRuntimeConfig()
		if m.Wasm.Memory > 0 {
			pages := uint32((m.Wasm.Memory + 65535) / 65536)
			cfg = cfg.WithMemoryLimitPages(pages)
		}
		runtime := wazero.NewRuntimeWithConfig(ctx, cfg)

		app := &WasmApp{Manifest: m, runtime: runtime}

		hostMod := runtime.NewHostModuleBuilder("archbase")
		hostMod.NewFunctionBuilder().
			WithFunc(func(ctx context.Context, mod api.Module, methodPtr, methodLen, payloadPtr, payloadLen uint32) uint64 {
				return hostSDKCall(ctx, mod, app, handler, methodPtr, methodLen, payloadPtr, payloadLen)
			}).
			Export("sdk_call")
		if _, err := hostMod.Instantiate(ctx); err != nil {
			_ = runtime.Close(ctx)
			return nil, fmt.Errorf("wasm app %s: host module: %w", m.ID, err)
		}

		compiled, err := runtime.CompileModule(ctx, wasmBytes)
		if err != nil {
			_ = runtime.Close(ctx)
			return nil, fmt.Errorf("wasm app %s: compile: %w", m.ID, err)
		}

		module, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(m.ID))
		if err != nil {
			_ = runtime.Close(ctx)
			return nil, fmt.Errorf("wasm app %s: instantiate: %w", m.ID, err)
		}
		app.module = module

		app.exports = wasmExports{
			render:        module.ExportedFunction("render"),
			resize:        module.ExportedFunction("resize"),
			dispose:       module.ExportedFunction("dispose"),
			setSDK:        module.ExportedFunction("set_sdk"),
			onKeyDown:     module.ExportedFunction("on_key_down"),
			onKeyUp:       module.ExportedFunction("on_key_up"),
			onPointerDown: module.ExportedFunction("on_pointer_down"),
			onPointerMove: module.ExportedFunction("on_pointer_move"),
			onPointerUp:   module.ExportedFunction("on_pointer_up"),
			alloc:         module.ExportedFunction("archbase_alloc"),
			dealloc:       module.ExportedFunction("archbase_dealloc"),
		}
		if app.exports.render == nil {
			_ = app.Dispose()
			return nil, fmt.Errorf("wasm app %s: module does not export render", m.ID)
		}
		if app.exports.setSDK != nil {
			if _, err := app.exports.setSDK.Call(ctx); err != nil {
				_ = app.Dispose()
				return nil, fmt.Errorf("wasm app %s: set_sdk: %w", m.ID, err)
			}
		}

		return app, nil
	}
}

// hostSDKCall is the archbase.sdk_call host import: it reads the
// dotted method name and JSON payload out of the guest's linear memory,
// dispatches through handler (the same one the sandboxed loader's
// bridge.Endpoint uses), writes the JSON result back into
// guest-allocated memory via the guest's exported allocator, and
// returns it packed as (ptr<<32 | len). A guest that calls this
// without exporting archbase_alloc/archbase_dealloc cannot receive a
// result and will see a zero return.
func hostSDKCall(ctx context.Context, mod api.Module, app *WasmApp, handler bridge.Handler, methodPtr, methodLen, payloadPtr, payloadLen uint32) uint64 {
	mem := mod.Memory()
	methodBytes, ok := mem.Read(methodPtr, methodLen)
	if !ok {
		return 0
	}
	payloadBytes, ok := mem.Read(payloadPtr, payloadLen)
	if !ok {
		return 0
	}

	result, err := handler(string(methodBytes), payloadBytes)
	var resultJSON []byte
	if err != nil {
		resultJSON = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	} else {
		resultJSON, err = json.Marshal(result)
		if err != nil {
			resultJSON = []byte(`{"error":"internal marshal failure"}`)
		}
	}

	if app.exports.alloc == nil {
		return 0
	}
	allocated, err := app.exports.alloc.Call(ctx, uint64(len(resultJSON)))
	if err != nil || len(allocated) == 0 {
		return 0
	}
	outPtr := uint32(allocated[0])
	if !mem.Write(outPtr, resultJSON) {
		return 0
	}
	return (uint64(outPtr) << 32) | uint64(len(resultJSON))
}
