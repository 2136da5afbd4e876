// Package registry validates, stores, and reactivates app manifests: the
// declarative description of an app's identity, capabilities, isolation
// strategy, and default window geometry.
package registry

// Permission names the fixed, forward-compatible superset of capabilities a
// manifest may declare.
type Permission string

const (
	PermNotifications    Permission = "notifications"
	PermStorage          Permission = "storage"
	PermClipboardRead    Permission = "clipboard.read"
	PermClipboardWrite   Permission = "clipboard.write"
	PermFilesystemRead   Permission = "filesystem.read"
	PermFilesystemWrite  Permission = "filesystem.write"
	PermNetwork          Permission = "network"
	PermCamera           Permission = "camera"
	PermMicrophone       Permission = "microphone"
	PermCollaboration    Permission = "collaboration"
)

// KnownPermissions is the full, fixed permission set manifests may declare
// against.
var KnownPermissions = map[Permission]bool{
	PermNotifications: true, PermStorage: true, PermClipboardRead: true,
	PermClipboardWrite: true, PermFilesystemRead: true, PermFilesystemWrite: true,
	PermNetwork: true, PermCamera: true, PermMicrophone: true, PermCollaboration: true,
}

// WindowDefaults carries the default geometry and capability flags a
// manifest contributes to wm.OpenSpec when an app is launched.
type WindowDefaults struct {
	Width, Height       int
	MinWidth, MinHeight int
	MaxWidth, MaxHeight int
	Resizable           *bool
	Maximizable         *bool
	Minimizable         *bool
	Closable            *bool
}

// Contributes lists the commands and settings keys a manifest declares
// ownership of.
type Contributes struct {
	Commands []string
	Settings []string
}

// Isolation controls the CSS isolation strategy for a federated app.
type Isolation struct {
	CSS string // "shadow" or "true"
}

// Sandbox selects and configures the sandboxed-iframe-equivalent loader
// (an out-of-process child connected over the host bridge).
type Sandbox struct {
	URL    string
	Origin string
	Allow  []string
}

// RenderMode selects how a WASM app's exported surface is presented.
type RenderMode string

const (
	RenderCanvas2D RenderMode = "canvas-2d"
	RenderDOM      RenderMode = "dom"
	RenderHybrid   RenderMode = "hybrid"
)

// Wasm configures the WebAssembly loader.
type Wasm struct {
	WasmURL              string
	JSGlueURL            string
	ModuleType           string
	RenderMode           RenderMode
	Memory               int
	StreamingCompilation bool
}

// Strategy is the resolved runtime isolation strategy for a manifest.
type Strategy int

const (
	StrategyFederated Strategy = iota
	StrategySandbox
	StrategyWasm
)

// Manifest is the declarative description of one installable app.
type Manifest struct {
	ID          string
	Name        string
	Version     string
	Entrypoint  string
	RemoteEntry string

	DisplayName string
	Description string
	Icon        string
	Keywords    []string

	Window           WindowDefaults
	Permissions      []Permission
	ActivationEvents []string
	Contributes      Contributes

	Source string // "local" | "marketplace"

	Isolation *Isolation
	Sandbox   *Sandbox
	Wasm      *Wasm
}

// Strategy resolves which loader a manifest selects. wasm beats sandbox
// beats federated when more than one is present.
func (m *Manifest) Strategy() Strategy {
	switch {
	case m.Wasm != nil:
		return StrategyWasm
	case m.Sandbox != nil:
		return StrategySandbox
	default:
		return StrategyFederated
	}
}

// DeclaresPermission reports whether the manifest declared p.
func (m *Manifest) DeclaresPermission(p Permission) bool {
	for _, declared := range m.Permissions {
		if declared == p {
			return true
		}
	}
	return false
}

// ValidationError describes one manifest rejected at registration time.
type ValidationError struct {
	ManifestID string
	Reason     string
}

func (e *ValidationError) Error() string {
	return "manifest " + e.ManifestID + ": " + e.Reason
}

// Validate checks the bit-exact invariants from the manifest shape: id and
// name non-empty, at most one of Sandbox/Wasm configured, and declared
// permissions a subset of KnownPermissions.
func Validate(m *Manifest) error {
	if m.ID == "" {
		return &ValidationError{ManifestID: m.ID, Reason: "id must be non-empty"}
	}
	if m.Name == "" {
		return &ValidationError{ManifestID: m.ID, Reason: "name must be non-empty"}
	}
	if m.Wasm != nil && m.Sandbox != nil {
		return &ValidationError{ManifestID: m.ID, Reason: "manifest sets both wasm and sandbox"}
	}

	for _, p := range m.Permissions {
		if !KnownPermissions[p] {
			return &ValidationError{ManifestID: m.ID, Reason: "undeclared permission: " + string(p)}
		}
	}

	return nil
}
