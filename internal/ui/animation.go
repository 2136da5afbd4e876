// Package ui holds small rendering-adjacent helpers — window
// transition animations today — shared between the app host and the
// input dispatcher so neither owns the other's easing math.
package ui

import (
	"math"
	"time"

	"github.com/archbase/shell/internal/terminal"
)

// AnimationType distinguishes the three window transitions that get an
// eased, interpolated transform instead of an instant geometry jump.
type AnimationType int

const (
	AnimationMinimize AnimationType = iota
	AnimationRestore
	AnimationSnap
)

// Animation drives one window's bounds from a start rectangle to an end
// rectangle over Duration, easing with easeInOutCubic. Update mutates
// Window directly and reports whether the animation has finished.
type Animation struct {
	Window    *terminal.Window
	Type      AnimationType
	StartTime time.Time
	Duration  time.Duration

	StartX, StartY, StartWidth, StartHeight int
	EndX, EndY, EndWidth, EndHeight         int

	Progress float64
	Complete bool
}

func newAnimation(w *terminal.Window, typ AnimationType, endX, endY, endWidth, endHeight int, duration time.Duration) *Animation {
	if w == nil {
		return nil
	}
	return &Animation{
		Window:      w,
		Type:        typ,
		StartTime:   time.Now(),
		Duration:    duration,
		StartX:      w.X,
		StartY:      w.Y,
		StartWidth:  w.Width,
		StartHeight: w.Height,
		EndX:        endX,
		EndY:        endY,
		EndWidth:    endWidth,
		EndHeight:   endHeight,
	}
}

// NewMinimizeAnimation animates w from its current bounds to the dock
// slot at (dockX, dockY), shrinking to a pill-sized placeholder.
func NewMinimizeAnimation(w *terminal.Window, dockX, dockY int, duration time.Duration) *Animation {
	return newAnimation(w, AnimationMinimize, dockX, dockY, 5, 3, duration)
}

// NewRestoreAnimation animates w from the dock slot back to its
// pre-minimize bounds.
func NewRestoreAnimation(w *terminal.Window, dockX, dockY int, duration time.Duration) *Animation {
	if w == nil {
		return nil
	}
	a := &Animation{
		Window:      w,
		Type:        AnimationRestore,
		StartTime:   time.Now(),
		Duration:    duration,
		StartX:      dockX,
		StartY:      dockY,
		StartWidth:  5,
		StartHeight: 3,
		EndX:        w.PreMinimizeX,
		EndY:        w.PreMinimizeY,
		EndWidth:    w.PreMinimizeWidth,
		EndHeight:   w.PreMinimizeHeight,
	}
	return a
}

// NewSnapAnimation animates w from its current bounds to a target
// rectangle, used for both edge-snap commits and tiling layout changes.
func NewSnapAnimation(w *terminal.Window, x, y, width, height int, duration time.Duration) *Animation {
	return newAnimation(w, AnimationSnap, x, y, width, height, duration)
}

// Update advances the animation to the current time, writing the
// interpolated bounds onto Window, and reports whether it has reached
// its end state. A complete animation finalizes Window's fields exactly
// (no residual rounding error) before returning true.
func (a *Animation) Update() bool {
	if a.Complete {
		return true
	}

	elapsed := time.Since(a.StartTime)
	progress := float64(elapsed) / float64(a.Duration)
	if progress >= 1.0 {
		progress = 1.0
		a.Complete = true
	}
	a.Progress = easeInOutCubic(progress)

	w := a.Window
	newX := interpolate(a.StartX, a.EndX, a.Progress)
	newY := interpolate(a.StartY, a.EndY, a.Progress)
	newWidth := interpolate(a.StartWidth, a.EndWidth, a.Progress)
	newHeight := interpolate(a.StartHeight, a.EndHeight, a.Progress)

	w.X = newX
	w.Y = newY
	if a.Type == AnimationSnap && (w.Width != newWidth || w.Height != newHeight) {
		w.Resize(newWidth, newHeight)
	} else {
		w.Width = newWidth
		w.Height = newHeight
	}
	w.MarkPositionDirty()
	w.InvalidateCache()

	if a.Complete {
		a.finalize()
	}
	return a.Complete
}

func (a *Animation) finalize() {
	w := a.Window
	switch a.Type {
	case AnimationMinimize:
		w.Minimized = true
		w.Minimizing = false
		w.X, w.Y = w.PreMinimizeX, w.PreMinimizeY
		w.Width, w.Height = w.PreMinimizeWidth, w.PreMinimizeHeight
	case AnimationRestore:
		w.Minimized = false
	case AnimationSnap:
		w.Resize(w.Width, w.Height)
	}
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	p := 2*t - 2
	return 1 + p*p*p/2
}

func interpolate(start, end int, progress float64) int {
	return start + int(math.Round(float64(end-start)*progress))
}
