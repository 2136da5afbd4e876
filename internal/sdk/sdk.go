// Package sdk builds the per-app capability-scoped façade over the
// shared desktop services: one Facade per (appID, windowID), backed by
// the process-wide stores in wm, services, storage and permissions. A
// base façade passes every call straight through to its store; Secure
// wraps it so notifications, storage and collaboration calls are
// checked against the permissions store before they reach the store at
// all, matching the "soft failure" contract in §4.8/§7.
package sdk

import (
	"github.com/archbase/shell/internal/permissions"
	"github.com/archbase/shell/internal/registry"
	"github.com/archbase/shell/internal/services"
	"github.com/archbase/shell/internal/storage"
	"github.com/archbase/shell/internal/wm"
)

// Notifications is the app-facing toast surface. Push returns the new
// notification's id, or "" when the call is denied.
type Notifications interface {
	Push(typ services.NotificationType, title, message string, duration int, dismissible bool) string
	Dismiss(id string) bool
}

// SyncStorage is the app-facing synchronous key/value surface, scoped
// to one app's namespace.
type SyncStorage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Clear()
	Keys() []string
}

// Collaboration is the app-facing read/write surface over the
// collaboration mirror.
type Collaboration interface {
	Peers() []services.Peer
	UpdatePeer(p services.Peer)
	RemovePeer(id string)
}

// Permissions is the app-facing capability surface: every method
// resolves against the manifest's declared permissions, never the raw
// grant table alone.
type Permissions interface {
	Check(p registry.Permission) permissions.Grant
	List() map[registry.Permission]permissions.Grant
	Request(p registry.Permission) bool
}

// Windows is the app-facing window surface, scoped to windows the app
// itself owns: Open always stamps the caller's appID; mutating calls on
// a window owned by a different app are no-ops.
type Windows interface {
	Open(spec wm.OpenSpec, vw, vh, taskbarH int) string
	Close(id string)
	Focus(id string)
	Minimize(id string)
	Restore(id string)
	Maximize(id string, vw, vh, taskbarH int)
	SetBounds(id string, b wm.Bounds)
	List() []*wm.Window
}

// Commands is the app-facing command surface.
type Commands interface {
	Register(id string, handler func(args ...any) (any, error))
	Unregister(id string)
	Execute(id string, args ...any) (any, error)
	List() []*services.Command
}

// Settings is the app-facing settings surface.
type Settings interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	OnChange(key string, fn func(any)) func()
}

// ContextMenu is the app-facing context-menu surface: Open builds a
// viewport-clamped menu instance the host renders.
type ContextMenu interface {
	Open(x, y, w, h, vw, vh int, items []services.MenuItem) *services.Menu
}

// Facade is the complete per-app SDK surface, constructed once per
// (appID, windowID) app instance.
type Facade struct {
	AppID    string
	WindowID string

	Windows       Windows
	Commands      Commands
	Settings      Settings
	ContextMenu   ContextMenu
	Notifications Notifications
	Storage       SyncStorage
	Collaboration Collaboration
	Permissions   Permissions
}

// Stores bundles the process-wide singletons a façade is built against.
type Stores struct {
	Windows       *wm.Store
	Commands      *services.CommandRegistry
	Settings      *services.SettingsStore
	Notifications *services.NotificationStore
	Sync          *storage.SyncProvider
	Collaboration *services.CollaborationMirror
	Permissions   *permissions.Store
}

// New builds the unwrapped base façade for (appID, windowID) against
// manifest's declared permissions: every call reaches its backing store
// directly, with no capability enforcement. Callers almost always want
// Secure's wrapper instead; New exists so tests and the in-process
// (non-sandboxed) loader can compose their own enforcement if needed.
func New(appID, windowID string, manifest *registry.Manifest, s Stores) *Facade {
	return &Facade{
		AppID:         appID,
		WindowID:      windowID,
		Windows:       &windowsService{appID: appID, store: s.Windows},
		Commands:      &commandsService{appID: appID, registry: s.Commands},
		Settings:      &settingsService{store: s.Settings},
		ContextMenu:   &contextMenuService{},
		Notifications: &notificationsService{appID: appID, store: s.Notifications},
		Storage:       &syncStorageService{appID: appID, provider: s.Sync},
		Collaboration: &collaborationService{mirror: s.Collaboration},
		Permissions:   &permissionsService{appID: appID, displayName: displayName(manifest), icon: manifest.Icon, declared: manifest.Permissions, store: s.Permissions},
	}
}

func displayName(m *registry.Manifest) string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Name
}

type windowsService struct {
	appID string
	store *wm.Store
}

func (w *windowsService) Open(spec wm.OpenSpec, vw, vh, taskbarH int) string {
	spec.AppID = w.appID
	return w.store.OpenWindow(spec, vw, vh, taskbarH)
}

func (w *windowsService) owns(id string) bool {
	win := w.store.Get(id)
	return win != nil && win.AppID == w.appID
}

func (w *windowsService) Close(id string) {
	if w.owns(id) {
		w.store.CloseWindow(id)
	}
}

func (w *windowsService) Focus(id string) {
	if w.owns(id) {
		w.store.FocusWindow(id)
	}
}

func (w *windowsService) Minimize(id string) {
	if w.owns(id) {
		w.store.MinimizeWindow(id)
	}
}

func (w *windowsService) Restore(id string) {
	if w.owns(id) {
		w.store.RestoreWindow(id)
	}
}

func (w *windowsService) Maximize(id string, vw, vh, taskbarH int) {
	if w.owns(id) {
		w.store.MaximizeWindow(id, vw, vh, taskbarH)
	}
}

func (w *windowsService) SetBounds(id string, b wm.Bounds) {
	if w.owns(id) {
		w.store.SetBounds(id, b)
	}
}

func (w *windowsService) List() []*wm.Window {
	all := w.store.Windows()
	out := make([]*wm.Window, 0, len(all))
	for _, win := range all {
		if win.AppID == w.appID {
			out = append(out, win)
		}
	}
	return out
}

type commandsService struct {
	appID    string
	registry *services.CommandRegistry
}

func (c *commandsService) Register(id string, handler func(args ...any) (any, error)) {
	c.registry.Register(c.appID, id, handler)
}

func (c *commandsService) Unregister(id string) { c.registry.Unregister(id) }

func (c *commandsService) Execute(id string, args ...any) (any, error) {
	return c.registry.Execute(id, args...)
}

func (c *commandsService) List() []*services.Command { return c.registry.List() }

type settingsService struct {
	store *services.SettingsStore
}

func (s *settingsService) Get(key string) (any, bool)           { return s.store.Get(key) }
func (s *settingsService) Set(key string, value any)            { s.store.Set(key, value) }
func (s *settingsService) OnChange(key string, fn func(any)) func() { return s.store.OnChange(key, fn) }

type contextMenuService struct{}

func (contextMenuService) Open(x, y, w, h, vw, vh int, items []services.MenuItem) *services.Menu {
	m := &services.Menu{X: x, Y: y, Items: items}
	m.Clamp(w, h, vw, vh)
	return m
}

type notificationsService struct {
	appID string
	store *services.NotificationStore
}

func (n *notificationsService) Push(typ services.NotificationType, title, message string, duration int, dismissible bool) string {
	return n.store.Push(n.appID, typ, title, message, duration, dismissible).ID
}

func (n *notificationsService) Dismiss(id string) bool { return n.store.Dismiss(id) }

type syncStorageService struct {
	appID    string
	provider *storage.SyncProvider
}

func (s *syncStorageService) Get(key string) (string, bool) { return s.provider.Get(s.appID, key) }
func (s *syncStorageService) Set(key, value string)          { s.provider.Set(s.appID, key, value) }
func (s *syncStorageService) Clear()                         { s.provider.Clear(s.appID) }
func (s *syncStorageService) Keys() []string                 { return s.provider.Keys(s.appID) }

type collaborationService struct {
	mirror *services.CollaborationMirror
}

func (c *collaborationService) Peers() []services.Peer    { return c.mirror.Peers() }
func (c *collaborationService) UpdatePeer(p services.Peer) { c.mirror.UpdatePeer(p) }
func (c *collaborationService) RemovePeer(id string)        { c.mirror.RemovePeer(id) }

type permissionsService struct {
	appID       string
	displayName string
	icon        string
	declared    []registry.Permission
	store       *permissions.Store
}

func (p *permissionsService) Check(perm registry.Permission) permissions.Grant {
	return permissions.Effective(p.declared, p.store.CheckPermission(p.appID, perm), perm)
}

func (p *permissionsService) List() map[registry.Permission]permissions.Grant {
	out := make(map[registry.Permission]permissions.Grant, len(registry.KnownPermissions))
	for perm := range registry.KnownPermissions {
		out[perm] = p.Check(perm)
	}
	return out
}

func (p *permissionsService) Request(perm registry.Permission) bool {
	if !declares(p.declared, perm) {
		return false
	}
	return p.store.RequestPermission(p.appID, p.displayName, p.icon, perm) == permissions.Granted
}

func declares(declared []registry.Permission, perm registry.Permission) bool {
	for _, d := range declared {
		if d == perm {
			return true
		}
	}
	return false
}
