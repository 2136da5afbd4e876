package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/archbase/shell/internal/registry"
)

const sampleManifest = `
id = "notes"
name = "Notes"
version = "1.0.0"
entrypoint = "notes"
permissions = ["storage", "clipboard.read"]

[window]
width = 80
height = 24

[sandbox]
url = "archbase-app://notes"
allow = ["fullscreen"]
`

func TestLoadManifestFileParsesAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := registry.LoadManifestFile(path)
	if err != nil {
		t.Fatalf("LoadManifestFile: %v", err)
	}
	if m.ID != "notes" || m.Name != "Notes" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Window.Width != 80 || m.Window.Height != 24 {
		t.Fatalf("unexpected window defaults: %+v", m.Window)
	}
	if m.Strategy() != registry.StrategySandbox {
		t.Fatalf("expected sandbox strategy, got %v", m.Strategy())
	}
	if !m.DeclaresPermission(registry.PermStorage) {
		t.Fatal("expected storage permission to be declared")
	}
}

func TestLoadManifestFileRejectsInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte(`name = "Missing ID"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := registry.LoadManifestFile(path); err == nil {
		t.Fatal("expected validation error for missing id")
	}
}

func TestLoadManifestDirSkipsNonTOMLFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.toml"), []byte(sampleManifest), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignore me"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	manifests, err := registry.LoadManifestDir(dir)
	if err != nil {
		t.Fatalf("LoadManifestDir: %v", err)
	}
	if len(manifests) != 1 || manifests[0].ID != "notes" {
		t.Fatalf("unexpected manifests: %+v", manifests)
	}
}

func TestLoadManifestDirMissingDirReturnsEmpty(t *testing.T) {
	manifests, err := registry.LoadManifestDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("LoadManifestDir: %v", err)
	}
	if manifests != nil {
		t.Fatalf("expected nil manifests, got %+v", manifests)
	}
}
