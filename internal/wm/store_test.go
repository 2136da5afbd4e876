package wm_test

import (
	"testing"

	"github.com/archbase/shell/internal/wm"
)

func open(s *wm.Store, appID string) string {
	return s.OpenWindow(wm.OpenSpec{AppID: appID, Title: "W"}, 1920, 1080, 48)
}

func TestFocusWindowZIndexStrictlyIncreases(t *testing.T) {
	s := wm.New()
	a := open(s, "a")
	b := open(s, "b")
	c := open(s, "c")

	s.FocusWindow(a)
	zA := s.Get(a).ZIndex
	s.FocusWindow(b)
	zB := s.Get(b).ZIndex
	s.FocusWindow(c)
	zC := s.Get(c).ZIndex

	if !(zA < zB && zB < zC) {
		t.Fatalf("expected strictly increasing zIndex, got a=%d b=%d c=%d", zA, zB, zC)
	}
}

func TestFocusStackIsPermutationOfOpenIDs(t *testing.T) {
	s := wm.New()
	ids := map[string]bool{}
	for i := 0; i < 5; i++ {
		ids[open(s, "app")] = true
	}
	s.CloseWindow(open(s, "throwaway")) // no-op on unknown after close below won't apply; just exercise churn
	stack := s.FocusStack()
	if len(stack) != s.Len() {
		t.Fatalf("focus stack length %d != window count %d", len(stack), s.Len())
	}
	seen := map[string]bool{}
	for _, id := range stack {
		if seen[id] {
			t.Fatalf("duplicate id %q in focus stack", id)
		}
		seen[id] = true
		if s.Get(id) == nil {
			t.Fatalf("focus stack contains unknown id %q", id)
		}
	}
}

func TestMinimizeThenRestoreRoundTrip(t *testing.T) {
	s := wm.New()
	id := open(s, "app")
	s.SetBounds(id, wm.Bounds{X: 10, Y: 20, W: 300, H: 200})
	before := s.Get(id).Bounds

	s.MinimizeWindow(id)
	if s.Get(id).State != wm.Minimized {
		t.Fatal("expected minimized state")
	}
	s.RestoreWindow(id)

	after := s.Get(id).Bounds
	if after != before {
		t.Fatalf("restore did not round-trip geometry: before=%+v after=%+v", before, after)
	}
	if s.Get(id).State != wm.Normal {
		t.Fatal("expected normal state after restore")
	}
}

func TestMaximizeThenToggleRoundTrip(t *testing.T) {
	s := wm.New()
	id := open(s, "app")
	s.SetBounds(id, wm.Bounds{X: 10, Y: 20, W: 300, H: 200})
	before := s.Get(id).Bounds

	s.MaximizeWindow(id, 1920, 1080, 48)
	if s.Get(id).Bounds != (wm.Bounds{X: 0, Y: 0, W: 1920, H: 1032}) {
		t.Fatalf("unexpected maximized bounds: %+v", s.Get(id).Bounds)
	}

	s.ToggleMaximize(id, 1920, 1080, 48)
	after := s.Get(id).Bounds
	if after != before {
		t.Fatalf("toggle-maximize did not round-trip geometry: before=%+v after=%+v", before, after)
	}
}

func TestSetBoundsClampsToConstraints(t *testing.T) {
	s := wm.New()
	id := s.OpenWindow(wm.OpenSpec{
		AppID:       "app",
		Constraints: wm.Constraints{MinWidth: 100, MinHeight: 100, MaxWidth: 400, MaxHeight: 400},
	}, 1920, 1080, 48)

	s.SetBounds(id, wm.Bounds{X: 0, Y: 0, W: 50, H: 900})
	got := s.Get(id).Bounds
	if got.W != 100 || got.H != 400 {
		t.Fatalf("expected clamp to [100,400], got w=%d h=%d", got.W, got.H)
	}
}

func TestTileWindowsGridCoversAreaWithoutOverlap(t *testing.T) {
	s := wm.New()
	for i := 0; i < 50; i++ {
		open(s, "app")
	}
	if s.Len() != 50 {
		t.Fatalf("expected 50 windows, got %d", s.Len())
	}

	s.TileWindows(wm.TileGrid, 1920, 1080, 48)

	var area int
	for _, w := range s.Windows() {
		b := w.Bounds
		if b.X < 0 || b.Y < 0 || b.X+b.W > 1920 || b.Y+b.H > 1032 {
			t.Fatalf("window rect %+v escapes viewport", b)
		}
		area += b.W * b.H
	}
	want := 1920 * 1032
	if area != want {
		t.Fatalf("tiled area %d != usable area %d", area, want)
	}
}

func TestCloseWindowReassignsFocus(t *testing.T) {
	s := wm.New()
	a := open(s, "a")
	b := open(s, "b")
	s.FocusWindow(b)
	if s.Focused() != b {
		t.Fatalf("expected b focused")
	}
	s.CloseWindow(b)
	if s.Focused() != a {
		t.Fatalf("expected a to become focused after closing b, got %q", s.Focused())
	}
}

func TestUnknownIDIsNoOp(t *testing.T) {
	s := wm.New()
	s.CloseWindow("does-not-exist")
	s.FocusWindow("does-not-exist")
	s.UpdatePosition("does-not-exist", 1, 1)
	if s.Len() != 0 {
		t.Fatalf("expected store to remain empty")
	}
}

func TestFocusNextChangesFocus(t *testing.T) {
	s := wm.New()
	w1 := open(s, "a")
	open(s, "b")
	open(s, "c")

	s.FocusWindow(w1)
	if s.Focused() != w1 {
		t.Fatalf("expected w1 focused")
	}
	s.FocusNext()
	if s.Focused() == w1 {
		t.Fatalf("expected focus to move off w1 after FocusNext")
	}
}

func TestFocusNextThenPreviousReturnsToStart(t *testing.T) {
	s := wm.New()
	w1 := open(s, "a")
	open(s, "b")
	open(s, "c")

	s.FocusWindow(w1)
	s.FocusNext()
	s.FocusPrevious()

	if s.Focused() != w1 {
		t.Fatalf("FocusNext then FocusPrevious should return to w1, got %q", s.Focused())
	}
}
