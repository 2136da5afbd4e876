// Package snap computes viewport snap regions for window drag previews and
// hit-tests a cursor position against them, as used by the drag/resize
// interaction engine while dragging a window header toward a screen edge.
package snap

import "math"

// CornerSize is the default square size, in cells, of a corner hit area and
// the minimum viewport dimension accepted by Zones.
const CornerSize = 40

// Position identifies a snap target.
type Position int

const (
	Left Position = iota
	Right
	Top
	Bottom
	TopLeft
	TopRight
	BottomLeft
	BottomRight
	Maximize
)

// Rect is an axis-aligned rectangle in viewport cells.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Zone pairs a snap Position with the bounds it commits on drop and the
// strip that, when entered, activates the preview.
type Zone struct {
	Position Position
	Bounds   Rect
	HitArea  Rect
}

// Zones computes up to nine snap zones for a viewport of size vw x vh with
// taskbarH cells reserved at the bottom. An invalid viewport — any
// non-finite, negative dimension, or a dimension below 2*CornerSize —
// yields an empty slice; this also covers the documented case where
// taskbarH meets or exceeds vh.
func Zones(vw, vh, taskbarH int) []Zone {
	if !validDim(vw) || !validDim(vh) || !validDim(taskbarH) {
		return nil
	}
	usableH := vh - taskbarH
	if vw < 2*CornerSize || usableH < 2*CornerSize {
		return nil
	}

	halfW := vw / 2
	halfWRem := vw - halfW
	halfH := usableH / 2
	halfHRem := usableH - halfH

	maxBandW := vw / 2
	maxBandX := (vw - maxBandW) / 2

	zones := []Zone{
		{
			Position: Maximize,
			Bounds:   Rect{0, 0, vw, usableH},
			HitArea:  Rect{maxBandX, 0, maxBandW, 1},
		},
		{
			Position: TopLeft,
			Bounds:   Rect{0, 0, halfW, halfH},
			HitArea:  Rect{0, 0, CornerSize, CornerSize},
		},
		{
			Position: TopRight,
			Bounds:   Rect{halfW, 0, halfWRem, halfH},
			HitArea:  Rect{vw - CornerSize, 0, CornerSize, CornerSize},
		},
		{
			Position: BottomLeft,
			Bounds:   Rect{0, halfH, halfW, halfHRem},
			HitArea:  Rect{0, usableH - CornerSize, CornerSize, CornerSize},
		},
		{
			Position: BottomRight,
			Bounds:   Rect{halfW, halfH, halfWRem, halfHRem},
			HitArea:  Rect{vw - CornerSize, usableH - CornerSize, CornerSize, CornerSize},
		},
		{
			Position: Left,
			Bounds:   Rect{0, 0, halfW, usableH},
			HitArea:  Rect{0, CornerSize, CornerSize, usableH - 2*CornerSize},
		},
		{
			Position: Right,
			Bounds:   Rect{halfW, 0, halfWRem, usableH},
			HitArea:  Rect{vw - CornerSize, CornerSize, CornerSize, usableH - 2*CornerSize},
		},
		{
			Position: Top,
			Bounds:   Rect{0, 0, vw, halfH},
			HitArea:  Rect{CornerSize, 0, vw - 2*CornerSize, CornerSize},
		},
		{
			Position: Bottom,
			Bounds:   Rect{0, halfH, vw, halfHRem},
			HitArea:  Rect{CornerSize, usableH - CornerSize, vw - 2*CornerSize, CornerSize},
		},
	}

	return zones
}

func validDim(d int) bool {
	f := float64(d)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && d >= 0
}

// AtPosition returns the first zone whose hit area contains (x, y), checking
// maximize first, then corners, then edges — the documented priority order
// for overlapping hit areas — and nil if no zone is hit.
func AtPosition(x, y int, zones []Zone) *Zone {
	var maximize, corners, edges []*Zone
	for i := range zones {
		z := &zones[i]
		switch z.Position {
		case Maximize:
			maximize = append(maximize, z)
		case TopLeft, TopRight, BottomLeft, BottomRight:
			corners = append(corners, z)
		default:
			edges = append(edges, z)
		}
	}

	for _, group := range [][]*Zone{maximize, corners, edges} {
		for _, z := range group {
			if z.HitArea.contains(x, y) {
				return z
			}
		}
	}
	return nil
}
