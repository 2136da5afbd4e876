package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// tomlManifest is the on-disk shape of a manifest file. Field names are
// lowercase/kebab in TOML, mapped onto the in-memory Manifest by
// manifestFromTOML.
type tomlManifest struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Entrypoint  string   `toml:"entrypoint"`
	RemoteEntry string   `toml:"remote_entry"`
	DisplayName string   `toml:"display_name"`
	Description string   `toml:"description"`
	Icon        string   `toml:"icon"`
	Keywords    []string `toml:"keywords"`
	Source      string   `toml:"source"`

	Window struct {
		Width       int   `toml:"width"`
		Height      int   `toml:"height"`
		MinWidth    int   `toml:"min_width"`
		MinHeight   int   `toml:"min_height"`
		MaxWidth    int   `toml:"max_width"`
		MaxHeight   int   `toml:"max_height"`
		Resizable   *bool `toml:"resizable"`
		Maximizable *bool `toml:"maximizable"`
		Minimizable *bool `toml:"minimizable"`
		Closable    *bool `toml:"closable"`
	} `toml:"window"`

	Permissions      []string `toml:"permissions"`
	ActivationEvents []string `toml:"activation_events"`

	Contributes struct {
		Commands []string `toml:"commands"`
		Settings []string `toml:"settings"`
	} `toml:"contributes"`

	Isolation *struct {
		CSS string `toml:"css"`
	} `toml:"isolation"`

	Sandbox *struct {
		URL    string   `toml:"url"`
		Origin string   `toml:"origin"`
		Allow  []string `toml:"allow"`
	} `toml:"sandbox"`

	Wasm *struct {
		WasmURL              string `toml:"wasm_url"`
		JSGlueURL            string `toml:"js_glue_url"`
		ModuleType           string `toml:"module_type"`
		RenderMode           string `toml:"render_mode"`
		Memory               int    `toml:"memory"`
		StreamingCompilation bool   `toml:"streaming_compilation"`
	} `toml:"wasm"`
}

func manifestFromTOML(t *tomlManifest) *Manifest {
	m := &Manifest{
		ID:          t.ID,
		Name:        t.Name,
		Version:     t.Version,
		Entrypoint:  t.Entrypoint,
		RemoteEntry: t.RemoteEntry,
		DisplayName: t.DisplayName,
		Description: t.Description,
		Icon:        t.Icon,
		Keywords:    t.Keywords,
		Source:      t.Source,
		Window: WindowDefaults{
			Width: t.Window.Width, Height: t.Window.Height,
			MinWidth: t.Window.MinWidth, MinHeight: t.Window.MinHeight,
			MaxWidth: t.Window.MaxWidth, MaxHeight: t.Window.MaxHeight,
			Resizable: t.Window.Resizable, Maximizable: t.Window.Maximizable,
			Minimizable: t.Window.Minimizable, Closable: t.Window.Closable,
		},
		ActivationEvents: t.ActivationEvents,
		Contributes: Contributes{
			Commands: t.Contributes.Commands,
			Settings: t.Contributes.Settings,
		},
	}

	if m.Source == "" {
		m.Source = "local"
	}

	for _, p := range t.Permissions {
		m.Permissions = append(m.Permissions, Permission(p))
	}

	if t.Isolation != nil {
		m.Isolation = &Isolation{CSS: t.Isolation.CSS}
	}
	if t.Sandbox != nil {
		m.Sandbox = &Sandbox{URL: t.Sandbox.URL, Origin: t.Sandbox.Origin, Allow: t.Sandbox.Allow}
	}
	if t.Wasm != nil {
		m.Wasm = &Wasm{
			WasmURL:              t.Wasm.WasmURL,
			JSGlueURL:            t.Wasm.JSGlueURL,
			ModuleType:           t.Wasm.ModuleType,
			RenderMode:           RenderMode(t.Wasm.RenderMode),
			Memory:               t.Wasm.Memory,
			StreamingCompilation: t.Wasm.StreamingCompilation,
		}
	}

	return m
}

// LoadManifestFile reads and parses a single manifest.toml, returning the
// validated Manifest. The caller decides whether to register it.
func LoadManifestFile(path string) (*Manifest, error) {
	// #nosec G304 - path is operator-supplied (CLI arg or registry scan root)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var t tomlManifest
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	m := manifestFromTOML(&t)
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadManifestDir walks dir non-recursively for *.toml manifest files,
// returning every manifest that parses and validates. It is the Rehydrate
// hook InitOptions expects for reactivating marketplace-installed apps.
func LoadManifestDir(dir string) ([]*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest dir %s: %w", dir, err)
	}

	var out []*Manifest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		m, err := LoadManifestFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
