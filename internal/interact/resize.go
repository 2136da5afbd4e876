package interact

import "github.com/archbase/shell/internal/wm"

// Direction is one of the eight resize handles around a window's border.
type Direction int

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// anchorsWest/North report whether a direction's delta drives the window's
// origin (west/north edges move the top-left corner) in addition to size.
func anchorsWest(d Direction) bool {
	return d == West || d == NorthWest || d == SouthWest
}

func anchorsNorth(d Direction) bool {
	return d == North || d == NorthWest || d == NorthEast
}

// Resize models one in-progress window border drag.
type Resize struct {
	store     *wm.Store
	coalescer PointerCoalescer
	active    bool
	windowID  string
	dir       Direction
	pointerX0 int
	pointerY0 int
	origin0   wm.Bounds
}

// NewResize builds a Resize bound to store.
func NewResize(store *wm.Store) *Resize {
	return &Resize{store: store}
}

// Start begins resizing id from direction dir at the given pointer
// position. Returns false (no-op) if id is unknown or not resizable.
func (r *Resize) Start(id string, dir Direction, pointerX, pointerY int) bool {
	w := r.store.Get(id)
	if w == nil || !w.Flags.Resizable {
		return false
	}
	r.store.FocusWindow(id)
	r.active = true
	r.windowID = id
	r.dir = dir
	r.pointerX0, r.pointerY0 = pointerX, pointerY
	r.origin0 = w.Bounds
	return true
}

// Active reports whether a resize is in progress.
func (r *Resize) Active() bool { return r.active }

// Move records a new pointer position, coalesced to the next Tick.
func (r *Resize) Move(pointerX, pointerY int) {
	if !r.active {
		return
	}
	r.coalescer.Record(pointerX, pointerY)
}

// Tick flushes at most one coalesced pointer position and applies the
// resulting geometry in a single atomic SetBounds.
func (r *Resize) Tick() {
	if !r.active {
		return
	}
	x, y, ok := r.coalescer.Flush()
	if !ok {
		return
	}

	w := r.store.Get(r.windowID)
	if w == nil {
		r.active = false
		return
	}

	dx := x - r.pointerX0
	dy := y - r.pointerY0

	newBounds := r.origin0

	switch r.dir {
	case East, NorthEast, SouthEast:
		newBounds.W = r.origin0.W + dx
	case West, NorthWest, SouthWest:
		newBounds.W = r.origin0.W - dx
	}
	switch r.dir {
	case South, SouthEast, SouthWest:
		newBounds.H = r.origin0.H + dy
	case North, NorthEast, NorthWest:
		newBounds.H = r.origin0.H - dy
	}

	clampedW, clampedH := w.Constraints.ClampSize(newBounds.W, newBounds.H)

	// If clamping changed a west/north delta, back-adjust the origin so the
	// opposite edge stays anchored in place.
	if anchorsWest(r.dir) {
		consumedW := r.origin0.W - clampedW
		newBounds.X = r.origin0.X + consumedW
	}
	if anchorsNorth(r.dir) {
		consumedH := r.origin0.H - clampedH
		newBounds.Y = r.origin0.Y + consumedH
	}
	newBounds.W, newBounds.H = clampedW, clampedH

	r.store.SetBounds(r.windowID, newBounds)
}

// End finishes the resize and releases interaction state.
func (r *Resize) End() {
	r.clear()
}

// Cancel aborts the resize as if the owning view unmounted mid-interaction.
func (r *Resize) Cancel() {
	r.clear()
}

func (r *Resize) clear() {
	r.active = false
	r.windowID = ""
	r.coalescer.Reset()
}
