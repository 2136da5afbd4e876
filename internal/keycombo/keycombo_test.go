package keycombo_test

import (
	"testing"

	"github.com/archbase/shell/internal/keycombo"
)

func TestParseCmdShiftP(t *testing.T) {
	c, err := keycombo.Parse("Cmd+Shift+P")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key != "p" || !c.Meta || !c.Shift || c.Ctrl || c.Alt {
		t.Fatalf("unexpected combo: %+v", c)
	}
}

func TestMatchesExactModifiers(t *testing.T) {
	combo := keycombo.MustParse("Cmd+Shift+P")

	match := keycombo.Event{Key: "p", Meta: true, Shift: true}
	if !keycombo.Matches(match, combo) {
		t.Fatalf("expected match for exact modifiers")
	}

	withAlt := keycombo.Event{Key: "p", Meta: true, Shift: true, Alt: true}
	if keycombo.Matches(withAlt, combo) {
		t.Fatalf("expected no match when an extra modifier is held")
	}

	subset := keycombo.Event{Key: "p", Meta: true}
	if keycombo.Matches(subset, combo) {
		t.Fatalf("expected no match for modifier subset")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{"Cmd+Shift+P", "ctrl+b", "alt+Shift+Tab", "shift+1"}
	for _, s := range inputs {
		combo, err := keycombo.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		reparsed, err := keycombo.Parse(keycombo.Format(combo))
		if err != nil {
			t.Fatalf("Parse(Format(%q)): %v", s, err)
		}
		if !keycombo.Equal(combo, reparsed) {
			t.Fatalf("round trip mismatch for %q: %+v vs %+v", s, combo, reparsed)
		}
	}
}

func TestParseRejectsMultipleKeys(t *testing.T) {
	if _, err := keycombo.Parse("a+b"); err == nil {
		t.Fatalf("expected error for two non-modifier keys")
	}
}

func TestParseRejectsModifierOnly(t *testing.T) {
	if _, err := keycombo.Parse("ctrl+shift"); err == nil {
		t.Fatalf("expected error when no key is present")
	}
}
