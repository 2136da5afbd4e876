package sdk_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/archbase/shell/internal/permissions"
	"github.com/archbase/shell/internal/registry"
	"github.com/archbase/shell/internal/sdk"
	"github.com/archbase/shell/internal/services"
	"github.com/archbase/shell/internal/storage"
	"github.com/archbase/shell/internal/wm"
)

func newStores(t *testing.T) sdk.Stores {
	t.Helper()
	sync, err := storage.NewSyncProviderAt(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatalf("NewSyncProviderAt: %v", err)
	}
	return sdk.Stores{
		Windows:       wm.New(),
		Commands:      services.NewCommandRegistry(),
		Settings:      services.NewSettingsStore(),
		Notifications: services.NewNotificationStore(),
		Sync:          sync,
		Collaboration: services.NewCollaborationMirror(),
		Permissions:   permissions.New(),
	}
}

// waitForHead polls until a prompt is at the head of the queue (up to
// one second) and returns it, or nil if none appeared. RequestPermission
// blocks until its prompt resolves, so tests call it on a goroutine and
// use this to reach the prompt.
func waitForHead(s *permissions.Store) *permissions.PendingPrompt {
	for i := 0; i < 1000; i++ {
		if head := s.Head(); head != nil {
			return head
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

func TestSecureNotificationsNoOpWithoutGrantedDeclaredPermission(t *testing.T) {
	stores := newStores(t)
	manifest := &registry.Manifest{ID: "app1", Name: "App One", Permissions: nil}
	base := sdk.New(manifest.ID, "win1", manifest, stores)
	facade := sdk.Secure(base, manifest, stores.Permissions)

	if id := facade.Notifications.Push(services.NotifyInfo, "Hi", "", 0, true); id != "" {
		t.Fatalf("expected no-op push to return empty id, got %q", id)
	}
	if len(stores.Notifications.List()) != 0 {
		t.Fatalf("expected no notification to be stored")
	}
}

func TestSecureNotificationsPassThroughWhenGranted(t *testing.T) {
	stores := newStores(t)
	manifest := &registry.Manifest{ID: "app1", Name: "App One", Permissions: []registry.Permission{registry.PermNotifications}}
	go stores.Permissions.RequestPermission("app1", "App One", "", registry.PermNotifications)
	head := waitForHead(stores.Permissions)
	if head != nil {
		head.Resolve(permissions.Granted)
	} else {
		t.Fatal("expected a pending prompt")
	}

	base := sdk.New(manifest.ID, "win1", manifest, stores)
	facade := sdk.Secure(base, manifest, stores.Permissions)

	id := facade.Notifications.Push(services.NotifyInfo, "Hi", "", 0, true)
	if id == "" {
		t.Fatalf("expected granted push to return a non-empty id")
	}
	if len(stores.Notifications.List()) != 1 {
		t.Fatalf("expected one stored notification")
	}
}

func TestSecureStorageNoOpWithoutGrant(t *testing.T) {
	stores := newStores(t)
	manifest := &registry.Manifest{ID: "app1", Name: "App One", Permissions: []registry.Permission{registry.PermStorage}}
	base := sdk.New(manifest.ID, "win1", manifest, stores)
	facade := sdk.Secure(base, manifest, stores.Permissions)

	facade.Storage.Set("k", "v") // no grant stored: CheckPermission reports Prompt, so the write is suppressed
	if _, ok := facade.Storage.Get("k"); ok {
		t.Fatalf("expected storage write to be suppressed while ungranted")
	}
}

func TestPermissionsListTreatsUndeclaredAsDenied(t *testing.T) {
	stores := newStores(t)
	manifest := &registry.Manifest{ID: "app1", Name: "App One", Permissions: []registry.Permission{registry.PermStorage}}
	go stores.Permissions.RequestPermission("app1", "App One", "", registry.PermStorage)
	waitForHead(stores.Permissions).Resolve(permissions.Granted)

	base := sdk.New(manifest.ID, "win1", manifest, stores)
	list := base.Permissions.List()

	if list[registry.PermStorage] != permissions.Granted {
		t.Fatalf("expected declared+granted permission to read Granted, got %v", list[registry.PermStorage])
	}
	if list[registry.PermNotifications] != permissions.Denied {
		t.Fatalf("expected undeclared permission to read Denied, got %v", list[registry.PermNotifications])
	}
}

func TestPermissionsRequestRefusesUndeclared(t *testing.T) {
	stores := newStores(t)
	manifest := &registry.Manifest{ID: "app1", Name: "App One", Permissions: nil}
	base := sdk.New(manifest.ID, "win1", manifest, stores)

	if base.Permissions.Request(registry.PermStorage) {
		t.Fatalf("expected undeclared permission request to refuse immediately")
	}
	if stores.Permissions.QueueLen() != 0 {
		t.Fatalf("expected no prompt to be enqueued for an undeclared permission")
	}
}

func TestWindowsServiceScopedToOwnApp(t *testing.T) {
	stores := newStores(t)
	manifestA := &registry.Manifest{ID: "appA", Name: "A"}
	manifestB := &registry.Manifest{ID: "appB", Name: "B"}
	facadeA := sdk.New(manifestA.ID, "winA", manifestA, stores)
	facadeB := sdk.New(manifestB.ID, "winB", manifestB, stores)

	id := facadeA.Windows.Open(wm.OpenSpec{Title: "A's window"}, 1920, 1080, 48)

	facadeB.Windows.Close(id) // must be a no-op: appB does not own id
	if stores.Windows.Get(id) == nil {
		t.Fatalf("expected cross-app Close to be a no-op")
	}

	facadeA.Windows.Close(id)
	if stores.Windows.Get(id) != nil {
		t.Fatalf("expected owner's Close to remove the window")
	}
}
