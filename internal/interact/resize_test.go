package interact_test

import (
	"testing"

	"github.com/archbase/shell/internal/interact"
	"github.com/archbase/shell/internal/wm"
)

func TestResizeEastGrowsWidthOnly(t *testing.T) {
	store := wm.New()
	id := store.OpenWindow(wm.OpenSpec{AppID: "a", Width: 300, Height: 200}, 1920, 1080, 48)
	store.SetBounds(id, wm.Bounds{X: 50, Y: 50, W: 300, H: 200})

	r := interact.NewResize(store)
	if !r.Start(id, interact.East, 350, 250) {
		t.Fatal("expected resize to start")
	}
	r.Move(400, 250) // dx=50
	r.Tick()

	got := store.Get(id).Bounds
	if got.W != 350 || got.H != 200 || got.X != 50 || got.Y != 50 {
		t.Fatalf("unexpected bounds after east resize: %+v", got)
	}
}

func TestResizeNorthWestAnchorsOppositeCorner(t *testing.T) {
	store := wm.New()
	id := store.OpenWindow(wm.OpenSpec{
		AppID: "a", Width: 300, Height: 200,
		Constraints: wm.Constraints{MinWidth: 100, MinHeight: 100},
	}, 1920, 1080, 48)
	store.SetBounds(id, wm.Bounds{X: 100, Y: 100, W: 300, H: 200})

	r := interact.NewResize(store)
	r.Start(id, interact.NorthWest, 100, 100)
	r.Move(150, 130) // dx=50 dy=30: west shrinks width by 50, north shrinks height by 30
	r.Tick()

	got := store.Get(id).Bounds
	if got.W != 250 || got.H != 170 {
		t.Fatalf("expected shrunk size 250x170, got %dx%d", got.W, got.H)
	}
	// opposite (east/south) edge stays anchored: X+W and Y+H unchanged
	if got.X+got.W != 400 || got.Y+got.H != 300 {
		t.Fatalf("opposite edge moved: bottom-right now at (%d,%d), want (400,300)", got.X+got.W, got.Y+got.H)
	}
}

func TestResizeClampBacksOffOriginWhenMinWidthHit(t *testing.T) {
	store := wm.New()
	id := store.OpenWindow(wm.OpenSpec{
		AppID: "a", Width: 300, Height: 200,
		Constraints: wm.Constraints{MinWidth: 250, MinHeight: 100},
	}, 1920, 1080, 48)
	store.SetBounds(id, wm.Bounds{X: 100, Y: 100, W: 300, H: 200})

	r := interact.NewResize(store)
	r.Start(id, interact.West, 100, 100)
	r.Move(400, 100) // dx=300 would shrink width to 0, clamps to MinWidth=250
	r.Tick()

	got := store.Get(id).Bounds
	if got.W != 250 {
		t.Fatalf("expected width clamped to 250, got %d", got.W)
	}
	// right edge (X+W) must stay anchored at the original 400
	if got.X+got.W != 400 {
		t.Fatalf("expected right edge anchored at 400, got %d", got.X+got.W)
	}
}
