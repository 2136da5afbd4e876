package sdk

import (
	"github.com/archbase/shell/internal/permissions"
	"github.com/archbase/shell/internal/registry"
	"github.com/archbase/shell/internal/services"
)

// Secure builds the capability-enforcing façade on top of base: windows,
// commands, settings and contextMenu pass through unchanged (they are
// already scoped to the app id and never destructive to another app's
// state); notifications, storage and collaboration are wrapped so every
// call first checks the effective grant and falls back to a quiet
// no-op on denial instead of raising an error the app would have to
// handle.
func Secure(base *Facade, manifest *registry.Manifest, store *permissions.Store) *Facade {
	enforce := func(perm registry.Permission) bool {
		declared := manifest.Permissions
		stored := store.CheckPermission(manifest.ID, perm)
		return permissions.Effective(declared, stored, perm) == permissions.Granted
	}

	return &Facade{
		AppID:         base.AppID,
		WindowID:      base.WindowID,
		Windows:       base.Windows,
		Commands:      base.Commands,
		Settings:      base.Settings,
		ContextMenu:   base.ContextMenu,
		Notifications: &securedNotifications{inner: base.Notifications, allowed: func() bool { return enforce(registry.PermNotifications) }},
		Storage:       &securedStorage{inner: base.Storage, allowed: func() bool { return enforce(registry.PermStorage) }},
		Collaboration: &securedCollaboration{inner: base.Collaboration, allowed: func() bool { return enforce(registry.PermCollaboration) }},
		Permissions:   base.Permissions,
	}
}

type securedNotifications struct {
	inner   Notifications
	allowed func() bool
}

func (s *securedNotifications) Push(typ services.NotificationType, title, message string, duration int, dismissible bool) string {
	if !s.allowed() {
		return ""
	}
	return s.inner.Push(typ, title, message, duration, dismissible)
}

func (s *securedNotifications) Dismiss(id string) bool {
	if !s.allowed() {
		return false
	}
	return s.inner.Dismiss(id)
}

type securedStorage struct {
	inner   SyncStorage
	allowed func() bool
}

func (s *securedStorage) Get(key string) (string, bool) {
	if !s.allowed() {
		return "", false
	}
	return s.inner.Get(key)
}

func (s *securedStorage) Set(key, value string) {
	if !s.allowed() {
		return
	}
	s.inner.Set(key, value)
}

func (s *securedStorage) Clear() {
	if !s.allowed() {
		return
	}
	s.inner.Clear()
}

func (s *securedStorage) Keys() []string {
	if !s.allowed() {
		return nil
	}
	return s.inner.Keys()
}

type securedCollaboration struct {
	inner   Collaboration
	allowed func() bool
}

func (s *securedCollaboration) Peers() []services.Peer {
	if !s.allowed() {
		return nil
	}
	return s.inner.Peers()
}

func (s *securedCollaboration) UpdatePeer(p services.Peer) {
	if !s.allowed() {
		return
	}
	s.inner.UpdatePeer(p)
}

func (s *securedCollaboration) RemovePeer(id string) {
	if !s.allowed() {
		return
	}
	s.inner.RemovePeer(id)
}
