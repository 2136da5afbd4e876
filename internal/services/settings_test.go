package services_test

import (
	"testing"

	"github.com/archbase/shell/internal/services"
)

func TestSettingsOnChangeFiresOnlyForItsOwnKey(t *testing.T) {
	s := services.NewSettingsStore()
	var theme, font any
	s.OnChange("theme", func(v any) { theme = v })
	s.OnChange("font", func(v any) { font = v })

	s.Set("theme", "dark")
	if theme != "dark" {
		t.Fatalf("expected theme subscriber to fire with dark, got %v", theme)
	}
	if font != nil {
		t.Fatalf("expected font subscriber to stay untouched, got %v", font)
	}
}

func TestSettingsUnsubscribeStopsFutureNotifications(t *testing.T) {
	s := services.NewSettingsStore()
	calls := 0
	unsub := s.OnChange("k", func(v any) { calls++ })

	s.Set("k", 1)
	unsub()
	s.Set("k", 2)

	if calls != 1 {
		t.Fatalf("expected exactly one call before unsubscribe, got %d", calls)
	}
}

func TestSettingsGetReportsPresence(t *testing.T) {
	s := services.NewSettingsStore()
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected missing key to report false")
	}
	s.Set("k", "v")
	v, ok := s.Get("k")
	if !ok || v != "v" {
		t.Fatalf("expected (v, true), got (%v, %v)", v, ok)
	}
}
