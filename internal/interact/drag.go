// Package interact is the pointer-driven drag/resize engine and the global
// keyboard shortcut dispatcher. Both stream through a per-frame coalescer
// so at most one geometry update lands per render frame, mirroring the
// teacher's bubbletea FPS-paced render loop and its dirty-flag windows.
package interact

import (
	"github.com/archbase/shell/internal/snap"
	"github.com/archbase/shell/internal/wm"
)

// MinVisibleArea is how many cells of a dragged window must remain inside
// the viewport on every axis.
const MinVisibleArea = 100

// Viewport describes the current screen the interaction is bound to.
type Viewport struct {
	Width     int
	Height    int
	TaskbarH  int
}

// Drag models one in-progress window-header drag.
type Drag struct {
	store      *wm.Store
	coalescer  PointerCoalescer
	active     bool
	windowID   string
	pointerX0  int
	pointerY0  int
	originX0   int
	originY0   int
	viewport   Viewport
	zones      []snap.Zone
	lastZone   *snap.Zone
	onPreview  func(*snap.Zone)
}

// NewDrag builds a Drag bound to store; onPreview is invoked (possibly with
// nil) whenever the active snap zone changes.
func NewDrag(store *wm.Store, onPreview func(*snap.Zone)) *Drag {
	return &Drag{store: store, onPreview: onPreview}
}

// StartReason explains why Start refused to begin a drag.
type StartReason int

const (
	StartOK StartReason = iota
	StartNonPrimaryButton
	StartOnChildControl
	StartWindowMaximized
)

// Start attempts to begin dragging id from a header press at
// (pointerX, pointerY). button must be the primary (left) button and
// onChildControl must be false (pointer did not land on a header button);
// a maximized window cannot be dragged. On success the window is focused
// and its pointer/origin snapshot recorded.
func (d *Drag) Start(id string, pointerX, pointerY, button int, onChildControl bool, vp Viewport) StartReason {
	if button != 0 {
		return StartNonPrimaryButton
	}
	if onChildControl {
		return StartOnChildControl
	}
	w := d.store.Get(id)
	if w == nil {
		return StartWindowMaximized // unknown id behaves like a no-op-causing refusal
	}
	if w.State == wm.Maximized {
		return StartWindowMaximized
	}

	d.store.FocusWindow(id)
	d.active = true
	d.windowID = id
	d.pointerX0, d.pointerY0 = pointerX, pointerY
	d.originX0, d.originY0 = w.Bounds.X, w.Bounds.Y
	d.viewport = vp
	d.zones = snap.Zones(vp.Width, vp.Height, vp.TaskbarH)
	d.lastZone = nil
	return StartOK
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// Move records a new pointer position, coalesced to the next Tick.
func (d *Drag) Move(pointerX, pointerY int) {
	if !d.active {
		return
	}
	d.coalescer.Record(pointerX, pointerY)
}

// Tick flushes at most one coalesced pointer position, moving the window
// and updating the snap preview. Call once per render frame.
func (d *Drag) Tick() {
	if !d.active {
		return
	}
	x, y, ok := d.coalescer.Flush()
	if !ok {
		return
	}

	w := d.store.Get(d.windowID)
	if w == nil {
		d.active = false
		return
	}

	dx := x - d.pointerX0
	dy := y - d.pointerY0
	newX := d.originX0 + dx
	newY := d.originY0 + dy
	newX, newY = constrainVisible(newX, newY, w.Bounds.W, w.Bounds.H, d.viewport, MinVisibleArea)

	d.store.UpdatePosition(d.windowID, newX, newY)

	zone := snap.AtPosition(x, y, d.zones)
	if (zone == nil) != (d.lastZone == nil) || (zone != nil && d.lastZone != nil && zone.Position != d.lastZone.Position) {
		d.lastZone = zone
		if d.onPreview != nil {
			d.onPreview(zone)
		}
	}
}

// constrainVisible keeps at least minVisible cells of a window of size
// w x h inside the viewport on every axis.
func constrainVisible(x, y, w, h int, vp Viewport, minVisible int) (int, int) {
	minX := minVisible - w
	maxX := vp.Width - minVisible
	minY := minVisible - h
	maxY := vp.Height - vp.TaskbarH - minVisible
	if x < minX {
		x = minX
	}
	if x > maxX {
		x = maxX
	}
	if y < minY {
		y = minY
	}
	if y > maxY {
		y = maxY
	}
	return x, y
}

// End finishes the drag: if a snap zone is active its bounds are committed,
// the preview is cleared, and the interaction is released. Safe to call
// when not active.
func (d *Drag) End() {
	if !d.active {
		return
	}
	if d.lastZone != nil {
		b := d.lastZone.Bounds
		d.store.SetBounds(d.windowID, wm.Bounds{X: b.X, Y: b.Y, W: b.W, H: b.H})
	}
	d.clear()
}

// Cancel aborts the drag without committing a snap, as if the owning view
// unmounted mid-drag: all pending state is released.
func (d *Drag) Cancel() {
	d.clear()
}

func (d *Drag) clear() {
	d.active = false
	d.windowID = ""
	d.lastZone = nil
	d.coalescer.Reset()
	if d.onPreview != nil {
		d.onPreview(nil)
	}
}
