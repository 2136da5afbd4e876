package permissions_test

import (
	"testing"
	"time"

	"github.com/archbase/shell/internal/permissions"
	"github.com/archbase/shell/internal/registry"
)

func TestCheckPermissionDefaultsToPrompt(t *testing.T) {
	s := permissions.New()
	if got := s.CheckPermission("app1", registry.PermStorage); got != permissions.Prompt {
		t.Fatalf("expected Prompt for unknown grant, got %v", got)
	}
}

func TestEffectiveTreatsUndeclaredAsDenied(t *testing.T) {
	declared := []registry.Permission{registry.PermStorage}
	if got := permissions.Effective(declared, permissions.Granted, registry.PermNotifications); got != permissions.Denied {
		t.Fatalf("expected undeclared permission to resolve Denied even with a stored Granted, got %v", got)
	}
	if got := permissions.Effective(declared, permissions.Granted, registry.PermStorage); got != permissions.Granted {
		t.Fatalf("expected declared permission to resolve its stored grant, got %v", got)
	}
}

func TestRequestPermissionStoresResolvedGrantForSubsequentChecks(t *testing.T) {
	s2 := permissions.New()
	done := make(chan permissions.Grant, 1)
	go func() {
		done <- s2.RequestPermission("app1", "App One", "", registry.PermStorage)
	}()

	var head *permissions.PendingPrompt
	for i := 0; i < 100 && head == nil; i++ {
		head = s2.Head()
		if head == nil {
			time.Sleep(time.Millisecond)
		}
	}
	if head == nil {
		t.Fatal("expected a pending prompt to be enqueued")
	}
	head.Resolve(permissions.Granted)

	select {
	case g := <-done:
		if g != permissions.Granted {
			t.Fatalf("expected Granted, got %v", g)
		}
	case <-time.After(time.Second):
		t.Fatal("RequestPermission did not resolve")
	}

	if got := s2.CheckPermission("app1", registry.PermStorage); got != permissions.Granted {
		t.Fatalf("expected grant to be persisted, got %v", got)
	}
}

func TestRequestPermissionShortCircuitsOnExistingGrant(t *testing.T) {
	s := permissions.New()
	done := make(chan permissions.Grant, 1)
	go func() { done <- s.RequestPermission("app1", "App One", "", registry.PermStorage) }()

	var head *permissions.PendingPrompt
	for i := 0; i < 100 && head == nil; i++ {
		head = s.Head()
		if head == nil {
			time.Sleep(time.Millisecond)
		}
	}
	head.Resolve(permissions.Granted)
	<-done

	result := make(chan permissions.Grant, 1)
	go func() { result <- s.RequestPermission("app1", "App One", "", registry.PermStorage) }()

	select {
	case g := <-result:
		if g != permissions.Granted {
			t.Fatalf("expected Granted, got %v", g)
		}
	case <-time.After(time.Second):
		t.Fatal("expected immediate resolution from stored grant, RequestPermission blocked")
	}
	if s.QueueLen() != 0 {
		t.Fatalf("expected no prompt enqueued for an already-granted permission, got queue len %d", s.QueueLen())
	}
}

func TestRequestPermissionQueuesSecondPromptBehindFirst(t *testing.T) {
	s := permissions.New()

	firstDone := make(chan permissions.Grant, 1)
	go func() { firstDone <- s.RequestPermission("app1", "App One", "", registry.PermStorage) }()

	var first *permissions.PendingPrompt
	for i := 0; i < 100 && first == nil; i++ {
		first = s.Head()
		if first == nil {
			time.Sleep(time.Millisecond)
		}
	}
	if first == nil {
		t.Fatal("expected first prompt to be head")
	}

	secondDone := make(chan permissions.Grant, 1)
	go func() { secondDone <- s.RequestPermission("app2", "App Two", "", registry.PermNotifications) }()
	time.Sleep(10 * time.Millisecond)

	if s.QueueLen() != 2 {
		t.Fatalf("expected queue length 2, got %d", s.QueueLen())
	}
	if s.Head().AppID != "app1" {
		t.Fatalf("expected app1 to remain head while pending, got %s", s.Head().AppID)
	}

	first.Resolve(permissions.Denied)
	<-firstDone

	var second *permissions.PendingPrompt
	for i := 0; i < 100 && second == nil; i++ {
		second = s.Head()
		if second != nil && second.AppID != "app2" {
			second = nil
		}
		if second == nil {
			time.Sleep(time.Millisecond)
		}
	}
	if second == nil {
		t.Fatal("expected app2 prompt to be promoted to head")
	}
	second.Resolve(permissions.Granted)
	<-secondDone
}
