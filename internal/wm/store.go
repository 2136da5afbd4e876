package wm

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	defaultWidth  = 500
	defaultHeight = 400
	// MinVisibleArea is how much of a dragged window must stay inside the
	// viewport. The interaction engine enforces its own interact.MinVisibleArea
	// of the same value; OpenWindow's clamp does not use it and keeps the
	// whole window inside the viewport instead.
	MinVisibleArea = 100
	cascadeStep    = 28 // header-height-per-step offset used by cascade and open placement
)

// OpenSpec describes a window to open. Width/Height/Constraints/Flags use
// manifest defaults when zero, then the hardcoded fallback of 500x400.
type OpenSpec struct {
	AppID       string
	Title       string
	Width       int
	Height      int
	Constraints Constraints
	Flags       *Flags // nil = DefaultFlags()
	Icon        string
	Props       map[string]any
}

// TileMode selects how tileWindows partitions the available area.
type TileMode int

const (
	TileHorizontal TileMode = iota
	TileVertical
	TileGrid
)

// Store is the authoritative, synchronous window store. All exported
// methods on *Store are synchronous and notify subscribers exactly once per
// call, even for batch operations.
type Store struct {
	windows    map[string]*Window
	focusStack []string // back = least recent, front = current focus, index 0
	nextZ      int
	openCount  int // seeds the cascade offset formula, never decremented

	subscribers []func()
}

// New creates an empty window store.
func New() *Store {
	return &Store{windows: make(map[string]*Window)}
}

// Subscribe registers fn to be called synchronously after every atomic
// mutation. Returns an unsubscribe function.
func (s *Store) Subscribe(fn func()) func() {
	s.subscribers = append(s.subscribers, fn)
	idx := len(s.subscribers) - 1
	return func() {
		s.subscribers[idx] = nil
	}
}

func (s *Store) notify() {
	for _, fn := range s.subscribers {
		if fn != nil {
			fn()
		}
	}
}

// Get returns the window with id, or nil if unknown.
func (s *Store) Get(id string) *Window {
	return s.windows[id]
}

// Len returns the number of open windows.
func (s *Store) Len() int {
	return len(s.windows)
}

// FocusStack returns a copy of the focus stack, front first.
func (s *Store) FocusStack() []string {
	out := make([]string, len(s.focusStack))
	copy(out, s.focusStack)
	return out
}

// Focused returns the front-most id in the focus stack whose window is not
// minimized, or "" if there is none.
func (s *Store) Focused() string {
	for _, id := range s.focusStack {
		if w := s.windows[id]; w != nil && w.State != Minimized {
			return id
		}
	}
	return ""
}

// Windows returns all windows in no particular order.
func (s *Store) Windows() []*Window {
	out := make([]*Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w)
	}
	return out
}

// OpenWindow allocates a new window, clamps its initial position inside the
// viewport, cascades its origin to avoid exact overlap with existing
// windows, pushes it to the front of the focus stack, and assigns it the
// top z-index. vw/vh/taskbarH describe the current viewport.
func (s *Store) OpenWindow(spec OpenSpec, vw, vh, taskbarH int) string {
	id := uuid.NewString()

	w := spec.Width
	if w == 0 {
		w = defaultWidth
	}
	h := spec.Height
	if h == 0 {
		h = defaultHeight
	}

	flags := DefaultFlags()
	if spec.Flags != nil {
		flags = *spec.Flags
	}

	offset := (s.openCount % 10) * cascadeStep
	x := offset
	y := offset
	x, y = clampOrigin(x, y, w, h, vw, vh-taskbarH)

	s.openCount++
	s.nextZ++

	win := &Window{
		ID:          id,
		AppID:       spec.AppID,
		Title:       spec.Title,
		Bounds:      Bounds{X: x, Y: y, W: w, H: h},
		Constraints: spec.Constraints,
		ZIndex:      s.nextZ,
		State:       Normal,
		Flags:       flags,
		Props:       spec.Props,
		Metadata:    Metadata{Icon: spec.Icon, CreatedAt: time.Now(), FocusedAt: time.Now()},
	}

	s.windows[id] = win
	s.focusStack = append([]string{id}, s.focusStack...)

	s.notify()
	return id
}

// clampOrigin keeps a window of size w x h fully inside [0, vw) x [0, vh),
// falling back to (0,0) if the window is larger than the viewport.
func clampOrigin(x, y, w, h, vw, vh int) (int, int) {
	maxX := vw - w
	maxY := vh - h
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	if x > maxX {
		x = maxX
	}
	if y > maxY {
		y = maxY
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// CloseWindow removes id from the store and the focus stack. If it was
// focused, the new front-of-stack becomes focused. Unknown ids are no-ops.
func (s *Store) CloseWindow(id string) {
	if _, ok := s.windows[id]; !ok {
		return
	}
	delete(s.windows, id)
	s.removeFromStack(id)
	s.notify()
}

func (s *Store) removeFromStack(id string) {
	for i, v := range s.focusStack {
		if v == id {
			s.focusStack = append(s.focusStack[:i], s.focusStack[i+1:]...)
			return
		}
	}
}

// MinimizeWindow captures previousBounds and sets state=minimized. The
// focus stack order is preserved for taskbar stability; callers that need
// "the next focused window" should use Focused() after calling this, which
// skips minimized windows and returns the front-most non-minimized one —
// MinimizeWindow itself does not reorder the stack.
func (s *Store) MinimizeWindow(id string) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	b := w.Bounds
	w.PreviousBounds = &b
	w.State = Minimized
	s.notify()
}

// RestoreWindow sets state=normal, restoring PreviousBounds verbatim if
// present.
func (s *Store) RestoreWindow(id string) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	if w.PreviousBounds != nil {
		w.Bounds = *w.PreviousBounds
		w.PreviousBounds = nil
	}
	w.State = Normal
	s.notify()
}

// MaximizeWindow captures previousBounds and sets bounds to the full usable
// viewport area.
func (s *Store) MaximizeWindow(id string, vw, vh, taskbarH int) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	b := w.Bounds
	w.PreviousBounds = &b
	w.Bounds = Bounds{X: 0, Y: 0, W: vw, H: vh - taskbarH}
	w.State = Maximized
	s.notify()
}

// ToggleMaximize maximizes a normal/minimized window or restores a
// maximized one to PreviousBounds.
func (s *Store) ToggleMaximize(id string, vw, vh, taskbarH int) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	if w.State == Maximized {
		s.RestoreWindow(id)
		return
	}
	s.MaximizeWindow(id, vw, vh, taskbarH)
}

// UpdatePosition moves id without changing its size.
func (s *Store) UpdatePosition(id string, x, y int) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	w.Bounds.X, w.Bounds.Y = x, y
	s.notify()
}

// UpdateSize resizes id, clamping to its constraints.
func (s *Store) UpdateSize(id string, width, height int) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	w.Bounds.W, w.Bounds.H = w.Constraints.ClampSize(width, height)
	s.notify()
}

// SetBounds atomically sets position and size in one mutation, clamping
// size to constraints.
func (s *Store) SetBounds(id string, b Bounds) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	b.W, b.H = w.Constraints.ClampSize(b.W, b.H)
	w.Bounds = b
	s.notify()
}

// FocusWindow moves id to the front of the focus stack and assigns it a new
// top z-index, strictly greater than every prior zIndex.
func (s *Store) FocusWindow(id string) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	s.removeFromStack(id)
	s.focusStack = append([]string{id}, s.focusStack...)
	s.nextZ++
	w.ZIndex = s.nextZ
	w.Metadata.FocusedAt = time.Now()
	s.notify()
}

// FocusNext rotates the focus stack right by one: the window at the back
// becomes focused and the prior focus moves behind it. FocusPrevious is
// its exact inverse.
func (s *Store) FocusNext() {
	if len(s.focusStack) < 2 {
		return
	}
	last := s.focusStack[len(s.focusStack)-1]
	rotated := append([]string{last}, s.focusStack[:len(s.focusStack)-1]...)
	s.setFocusStack(rotated)
}

// FocusPrevious rotates the focus stack left by one: the current focus
// moves to the back and the window behind it becomes focused. Exact
// inverse of FocusNext.
func (s *Store) FocusPrevious() {
	if len(s.focusStack) < 2 {
		return
	}
	first := s.focusStack[0]
	rotated := append(append([]string{}, s.focusStack[1:]...), first)
	s.setFocusStack(rotated)
}

func (s *Store) setFocusStack(stack []string) {
	s.focusStack = stack
	s.nextZ++
	if w := s.windows[stack[0]]; w != nil {
		w.ZIndex = s.nextZ
		w.Metadata.FocusedAt = time.Now()
	}
	s.notify()
}

// MinimizeAll minimizes every non-minimized window as a single mutation.
func (s *Store) MinimizeAll() {
	for _, w := range s.windows {
		if w.State != Minimized {
			b := w.Bounds
			w.PreviousBounds = &b
			w.State = Minimized
		}
	}
	s.notify()
}

// CloseAll removes every window and clears the focus stack as a single
// mutation.
func (s *Store) CloseAll() {
	s.windows = make(map[string]*Window)
	s.focusStack = nil
	s.notify()
}

func (s *Store) visibleOrdered() []*Window {
	var out []*Window
	for _, w := range s.windows {
		if w.State != Minimized {
			out = append(out, w)
		}
	}
	// Stable, deterministic order (by id) so layout is reproducible for a
	// given window set regardless of map iteration order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TileWindows partitions the usable area among every non-minimized window
// in a single mutation.
func (s *Store) TileWindows(mode TileMode, vw, vh, taskbarH int) {
	windows := s.visibleOrdered()
	n := len(windows)
	if n == 0 {
		return
	}
	usableH := vh - taskbarH

	switch mode {
	case TileHorizontal:
		colW := vw / n
		for i, w := range windows {
			x := i * colW
			width := colW
			if i == n-1 {
				width = vw - x // last column absorbs remainder
			}
			w.Bounds = Bounds{X: x, Y: 0, W: width, H: usableH}
		}
	case TileVertical:
		rowH := usableH / n
		for i, w := range windows {
			y := i * rowH
			height := rowH
			if i == n-1 {
				height = usableH - y
			}
			w.Bounds = Bounds{X: 0, Y: y, W: vw, H: height}
		}
	case TileGrid:
		cols := intSqrtCeil(n)
		rows := (n + cols - 1) / cols
		cellH := usableH / rows
		for i, w := range windows {
			row := i / cols
			col := i % cols

			// The last row's remainder spreads right: windows present in
			// that row share its full width instead of leaving a gap where
			// a full-cols row would have had more cells.
			rowCols := cols
			if row == rows-1 {
				remaining := n - row*cols
				if remaining < cols {
					rowCols = remaining
				}
			}
			cellW := vw / rowCols

			x := col * cellW
			y := row * cellH
			width := cellW
			if col == rowCols-1 {
				width = vw - x // absorb the remainder pixel
			}
			height := cellH
			if row == rows-1 {
				height = usableH - y
			}
			w.Bounds = Bounds{X: x, Y: y, W: width, H: height}
		}
	}

	s.notify()
}

func intSqrtCeil(n int) int {
	c := 1
	for c*c < n {
		c++
	}
	return c
}

// CascadeWindows places every non-minimized window with a constant
// per-window offset, clamping size to fit the viewport, as a single
// mutation.
func (s *Store) CascadeWindows(vw, vh, taskbarH int) {
	windows := s.visibleOrdered()
	usableH := vh - taskbarH

	for i, w := range windows {
		offset := i * cascadeStep
		width := w.Bounds.W
		height := w.Bounds.H
		if width > vw {
			width = vw
		}
		if height > usableH {
			height = usableH
		}
		x, y := clampOrigin(offset, offset, width, height, vw, usableH)
		w.Bounds = Bounds{X: x, Y: y, W: width, H: height}
	}

	s.notify()
}
