package interact

import "github.com/archbase/shell/internal/keycombo"

// Scope controls which listener a bound shortcut fires from.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeWindow
	ScopeApp
)

// Shortcut is one registered combo -> action binding.
type Shortcut struct {
	Combo   keycombo.Combo
	Scope   Scope
	Enabled bool
	Action  func()
}

// Registry maps key combos to shortcut handlers across scopes. Only
// enabled global-scope shortcuts fire from DispatchGlobal.
type Registry struct {
	shortcuts []*Shortcut
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a shortcut and returns it so callers can toggle Enabled.
func (r *Registry) Register(combo keycombo.Combo, scope Scope, action func()) *Shortcut {
	s := &Shortcut{Combo: combo, Scope: scope, Enabled: true, Action: action}
	r.shortcuts = append(r.shortcuts, s)
	return s
}

// EditableTarget reports whether the current event focus target is an
// editable surface (input/textarea/contenteditable equivalent). When true,
// DispatchGlobal must not intercept the key at all.
type EditableTarget bool

// DispatchGlobal walks the registry for the first enabled global-scope
// shortcut whose combo matches ev and invokes it, reporting whether a
// shortcut fired (the caller must preventDefault/stopPropagation exactly
// when this returns true). Window/app-scoped shortcuts never fire here.
// If editable is true the event target is an editable element and the
// dispatcher returns false immediately without consulting the registry.
func (r *Registry) DispatchGlobal(ev keycombo.Event, editable EditableTarget) bool {
	if editable {
		return false
	}
	for _, s := range r.shortcuts {
		if s.Scope != ScopeGlobal || !s.Enabled {
			continue
		}
		if keycombo.Matches(ev, s.Combo) {
			s.Action()
			return true
		}
	}
	return false
}

// Dispatch invokes the first enabled shortcut of the given scope matching
// ev, regardless of editable state — used for window/app-scoped shortcuts,
// which the global listener never fires.
func (r *Registry) Dispatch(scope Scope, ev keycombo.Event) bool {
	for _, s := range r.shortcuts {
		if s.Scope != scope || !s.Enabled {
			continue
		}
		if keycombo.Matches(ev, s.Combo) {
			s.Action()
			return true
		}
	}
	return false
}

// BuiltinAction names one of the nine built-in global shortcuts.
type BuiltinAction int

const (
	ActionOpenLauncher BuiltinAction = iota
	ActionCloseWindow
	ActionMinimizeAll
	ActionFocusNext
	ActionFocusPrevious
	ActionTileHorizontal
	ActionTileVertical
	ActionCascade
	ActionOpenCommandPalette
)

// DefaultBuiltins is the canonical combo table for the nine built-in
// shortcuts; callers bind each to a handler via RegisterBuiltins.
var DefaultBuiltins = map[BuiltinAction]string{
	ActionOpenLauncher:       "meta+space",
	ActionCloseWindow:        "meta+w",
	ActionMinimizeAll:        "meta+m",
	ActionFocusNext:          "meta+tab",
	ActionFocusPrevious:      "meta+shift+tab",
	ActionTileHorizontal:     "meta+shift+h",
	ActionTileVertical:       "meta+shift+v",
	ActionCascade:            "meta+shift+c",
	ActionOpenCommandPalette: "meta+k",
}

// builtinActionNames maps each BuiltinAction to the name callers outside
// this package (config.AppLauncherOverrides) key their override tables by.
var builtinActionNames = map[string]BuiltinAction{
	"ActionOpenLauncher":       ActionOpenLauncher,
	"ActionCloseWindow":        ActionCloseWindow,
	"ActionMinimizeAll":        ActionMinimizeAll,
	"ActionFocusNext":          ActionFocusNext,
	"ActionFocusPrevious":      ActionFocusPrevious,
	"ActionTileHorizontal":     ActionTileHorizontal,
	"ActionTileVertical":       ActionTileVertical,
	"ActionCascade":            ActionCascade,
	"ActionOpenCommandPalette": ActionOpenCommandPalette,
}

// BuiltinActionByName resolves a name produced by builtinActionNames back
// to its BuiltinAction, so callers can key override tables by name without
// importing this package's untyped iota values.
func BuiltinActionByName(name string) (BuiltinAction, bool) {
	a, ok := builtinActionNames[name]
	return a, ok
}

// RegisterBuiltins registers one global shortcut for each action in
// handlers, invoking handlers[action] for the matching combo; built-in
// actions absent from handlers are not registered. Combos not present in
// overrides fall back to DefaultBuiltins.
func (r *Registry) RegisterBuiltins(handlers map[BuiltinAction]func(), overrides map[BuiltinAction]string) error {
	for action, handler := range handlers {
		comboStr, ok := overrides[action]
		if !ok {
			comboStr = DefaultBuiltins[action]
		}
		combo, err := keycombo.Parse(comboStr)
		if err != nil {
			return err
		}
		r.Register(combo, ScopeGlobal, handler)
	}
	return nil
}
