package services_test

import (
	"testing"

	"github.com/archbase/shell/internal/services"
)

func TestCommandRegisterRefreshesHandlerForSameApp(t *testing.T) {
	r := services.NewCommandRegistry()
	r.Register("app1", "cmd.ping", func(args ...any) (any, error) { return "first", nil })
	r.Register("app1", "cmd.ping", func(args ...any) (any, error) { return "second", nil })

	got, err := r.Execute("cmd.ping")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "second" {
		t.Fatalf("expected refreshed handler to win, got %v", got)
	}
	if len(r.List()) != 1 {
		t.Fatalf("expected one command record, got %d", len(r.List()))
	}
}

func TestCommandUnregisterKeepsRecordButClearsHandler(t *testing.T) {
	r := services.NewCommandRegistry()
	r.Register("app1", "cmd.ping", func(args ...any) (any, error) { return "ok", nil })
	r.Unregister("cmd.ping")

	if len(r.List()) != 1 {
		t.Fatalf("expected command record to survive unregister, got %d entries", len(r.List()))
	}
	if _, err := r.Execute("cmd.ping"); err == nil {
		t.Fatal("expected execute to fail once handler is cleared")
	}
}

func TestCommandExecuteUnknownReturnsError(t *testing.T) {
	r := services.NewCommandRegistry()
	if _, err := r.Execute("nope"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
