package interact

// PointerCoalescer buffers the most recent pointer position so that a
// stream of pointermove events collapses to at most one geometry update
// per render frame. The caller drives Flush from its own per-frame tick
// (the bubbletea equivalent of requestAnimationFrame is the program's FPS
// tick; see cmd/archbase's use of tea.WithFPS).
type PointerCoalescer struct {
	pending bool
	x, y    int
}

// Record overwrites the pending pointer position. Calling Record multiple
// times between two Flush calls only ever yields the latest position.
func (c *PointerCoalescer) Record(x, y int) {
	c.pending = true
	c.x, c.y = x, y
}

// Flush returns the pending position and clears it. ok is false if no
// Record happened since the last Flush, in which case the caller must skip
// the update for this frame.
func (c *PointerCoalescer) Flush() (x, y int, ok bool) {
	if !c.pending {
		return 0, 0, false
	}
	c.pending = false
	return c.x, c.y, true
}

// Reset discards any pending position without returning it; used when an
// interaction is cancelled mid-frame.
func (c *PointerCoalescer) Reset() {
	c.pending = false
}
