package services_test

import (
	"testing"

	"github.com/archbase/shell/internal/services"
)

func TestNotificationPushAssignsIDAndNotifiesSubscribers(t *testing.T) {
	s := services.NewNotificationStore()
	var pushed *services.Notification
	s.OnPush(func(n *services.Notification) { pushed = n })

	n := s.Push("app1", services.NotifyInfo, "Hi", "", 0, true)
	if n.ID == "" {
		t.Fatal("expected a non-empty id")
	}
	if pushed != n {
		t.Fatal("expected subscriber to receive the pushed notification")
	}
	if len(s.List()) != 1 {
		t.Fatalf("expected one notification in list, got %d", len(s.List()))
	}
}

func TestNotificationDismissRemovesByID(t *testing.T) {
	s := services.NewNotificationStore()
	n := s.Push("app1", services.NotifyError, "Oops", "", 0, true)

	if !s.Dismiss(n.ID) {
		t.Fatal("expected dismiss to report true for an existing id")
	}
	if len(s.List()) != 0 {
		t.Fatalf("expected empty list after dismiss, got %d", len(s.List()))
	}
	if s.Dismiss(n.ID) {
		t.Fatal("expected dismiss to report false for an already-removed id")
	}
}
