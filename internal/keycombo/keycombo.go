// Package keycombo parses, matches, and formats platform-aware keyboard
// shortcuts declared as strings such as "Cmd+Shift+P" or "ctrl+b".
package keycombo

import (
	"fmt"
	"sort"
	"strings"
)

// Combo is a case-folded key plus independent modifier flags. Equality is
// exact: a subset of modifiers never matches a superset.
type Combo struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Alt   bool
	Shift bool
}

// Event is the minimal shape a dispatcher needs to test a Combo against an
// incoming keyboard event, decoupled from any particular TUI key message
// type so tests can construct it directly.
type Event struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Alt   bool
	Shift bool
}

var modifierTokens = map[string]string{
	"cmd":     "meta",
	"command": "meta",
	"meta":    "meta",
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"opt":     "alt",
	"shift":   "shift",
}

// Parse parses a shortcut string of the form "ctrl+shift+p" into a Combo.
// Parts are separated by "+", case-insensitive, whitespace tolerant. Exactly
// one non-modifier key token is required; anything else is a parse error.
func Parse(s string) (Combo, error) {
	parts := strings.Split(s, "+")
	var combo Combo
	keySeen := false

	for _, raw := range parts {
		tok := strings.ToLower(strings.TrimSpace(raw))
		if tok == "" {
			return Combo{}, fmt.Errorf("keycombo: empty token in %q", s)
		}
		if mod, ok := modifierTokens[tok]; ok {
			switch mod {
			case "meta":
				combo.Meta = true
			case "ctrl":
				combo.Ctrl = true
			case "alt":
				combo.Alt = true
			case "shift":
				combo.Shift = true
			}
			continue
		}
		if keySeen {
			return Combo{}, fmt.Errorf("keycombo: more than one non-modifier key in %q", s)
		}
		combo.Key = tok
		keySeen = true
	}

	if !keySeen {
		return Combo{}, fmt.Errorf("keycombo: no non-modifier key found in %q", s)
	}

	return combo, nil
}

// MustParse is Parse but panics on error; only for package-level constant
// tables built from trusted literal strings.
func MustParse(s string) Combo {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Format renders a Combo back into canonical "ctrl+shift+p" form, with
// modifiers in a fixed order so Format(Parse(s)) round-trips to an equal
// Combo regardless of the order the caller wrote modifiers in.
func Format(c Combo) string {
	var mods []string
	if c.Ctrl {
		mods = append(mods, "ctrl")
	}
	if c.Meta {
		mods = append(mods, "meta")
	}
	if c.Alt {
		mods = append(mods, "alt")
	}
	if c.Shift {
		mods = append(mods, "shift")
	}
	sort.Strings(mods) // stable canonical order: alt, ctrl, meta, shift
	mods = append(mods, c.Key)
	return strings.Join(mods, "+")
}

// Matches reports whether ev satisfies combo with exact modifier equality —
// a subset of pressed modifiers never matches.
func Matches(ev Event, combo Combo) bool {
	return strings.EqualFold(ev.Key, combo.Key) &&
		ev.Ctrl == combo.Ctrl &&
		ev.Meta == combo.Meta &&
		ev.Alt == combo.Alt &&
		ev.Shift == combo.Shift
}

// Equal reports whether two combos are identical. Parsing the same logical
// shortcut from two differently-ordered strings must produce Equal combos.
func Equal(a, b Combo) bool {
	return strings.EqualFold(a.Key, b.Key) &&
		a.Ctrl == b.Ctrl && a.Meta == b.Meta && a.Alt == b.Alt && a.Shift == b.Shift
}
