// Package wm is the authoritative window store: geometry, z-order, the
// focus stack, and lifecycle state for every open window, plus the bulk
// layout operations (tile, cascade, minimize-all) that must land as a
// single observable mutation.
package wm

import "time"

// State is a window's lifecycle state.
type State int

const (
	Normal State = iota
	Minimized
	Maximized
)

// Flags are the capability flags a window carries independent of its
// current state.
type Flags struct {
	Resizable   bool
	Maximizable bool
	Minimizable bool
	Closable    bool
	AlwaysOnTop bool
}

// DefaultFlags mirrors the teacher's hardcoded window defaults.
func DefaultFlags() Flags {
	return Flags{Resizable: true, Maximizable: true, Minimizable: true, Closable: true}
}

// Bounds is a window's position and size.
type Bounds struct {
	X, Y, W, H int
}

// Constraints bound a window's size during resize and clamp.
type Constraints struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int // 0 = unconstrained
	MaxHeight int // 0 = unconstrained
}

// Metadata is informational, never affects layout.
type Metadata struct {
	Icon       string
	CreatedAt  time.Time
	FocusedAt  time.Time
}

// Window is one open window owned by exactly one app instance.
type Window struct {
	ID          string
	AppID       string
	Title       string
	Bounds      Bounds
	Constraints Constraints
	ZIndex      int
	State       State
	Flags       Flags
	Props       map[string]any
	Metadata    Metadata

	// PreviousBounds is captured on maximize/minimize and restored
	// verbatim by the corresponding restore operation.
	PreviousBounds *Bounds
}

func clampInt(v, min, max int) int {
	if max > 0 && min > max {
		// Clamping error: maxWidth < minWidth resolves by honoring the minimum.
		max = min
	}
	if v < min {
		return min
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

func (c Constraints) ClampSize(w, h int) (int, int) {
	return clampInt(w, c.MinWidth, c.MaxWidth), clampInt(h, c.MinHeight, c.MaxHeight)
}
