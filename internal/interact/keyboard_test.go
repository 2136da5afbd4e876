package interact_test

import (
	"testing"

	"github.com/archbase/shell/internal/interact"
	"github.com/archbase/shell/internal/keycombo"
)

func TestDispatchGlobalFiresEnabledGlobalShortcut(t *testing.T) {
	r := interact.NewRegistry()
	fired := false
	r.Register(keycombo.MustParse("meta+w"), interact.ScopeGlobal, func() { fired = true })

	ok := r.DispatchGlobal(keycombo.Event{Key: "w", Meta: true}, false)
	if !ok || !fired {
		t.Fatalf("expected global shortcut to fire, ok=%v fired=%v", ok, fired)
	}
}

func TestDispatchGlobalSkipsEditableTarget(t *testing.T) {
	r := interact.NewRegistry()
	fired := false
	r.Register(keycombo.MustParse("meta+w"), interact.ScopeGlobal, func() { fired = true })

	ok := r.DispatchGlobal(keycombo.Event{Key: "w", Meta: true}, true)
	if ok || fired {
		t.Fatalf("expected editable target to suppress dispatch")
	}
}

func TestDispatchGlobalNeverFiresWindowScoped(t *testing.T) {
	r := interact.NewRegistry()
	fired := false
	r.Register(keycombo.MustParse("meta+w"), interact.ScopeWindow, func() { fired = true })

	ok := r.DispatchGlobal(keycombo.Event{Key: "w", Meta: true}, false)
	if ok || fired {
		t.Fatalf("window-scoped shortcut must not fire from the global dispatcher")
	}
}

func TestDispatchGlobalIgnoresDisabledShortcut(t *testing.T) {
	r := interact.NewRegistry()
	fired := false
	s := r.Register(keycombo.MustParse("meta+w"), interact.ScopeGlobal, func() { fired = true })
	s.Enabled = false

	if ok := r.DispatchGlobal(keycombo.Event{Key: "w", Meta: true}, false); ok || fired {
		t.Fatalf("disabled shortcut must not fire")
	}
}

func TestRegisterBuiltinsAllNine(t *testing.T) {
	r := interact.NewRegistry()
	count := 0
	handlers := map[interact.BuiltinAction]func(){}
	for action := interact.ActionOpenLauncher; action <= interact.ActionOpenCommandPalette; action++ {
		a := action
		handlers[a] = func() { count++ }
	}
	if err := r.RegisterBuiltins(handlers, nil); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}

	combo := keycombo.MustParse(interact.DefaultBuiltins[interact.ActionCascade])
	r.DispatchGlobal(keycombo.Event{Key: combo.Key, Meta: combo.Meta, Shift: combo.Shift}, false)
	if count != 1 {
		t.Fatalf("expected exactly one handler invoked, got %d", count)
	}
}
