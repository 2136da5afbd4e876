package interact_test

import (
	"testing"

	"github.com/archbase/shell/internal/interact"
	"github.com/archbase/shell/internal/snap"
	"github.com/archbase/shell/internal/wm"
)

func TestDragSnapPreviewAndCommit(t *testing.T) {
	store := wm.New()
	id := store.OpenWindow(wm.OpenSpec{AppID: "a", Width: 400, Height: 300}, 1920, 1080, 48)
	store.SetBounds(id, wm.Bounds{X: 100, Y: 50, W: 400, H: 300})

	var previews []*snap.Zone
	drag := interact.NewDrag(store, func(z *snap.Zone) { previews = append(previews, z) })
	vp := interact.Viewport{Width: 1920, Height: 1080, TaskbarH: 48}

	reason := drag.Start(id, 400, 300, 0, false, vp)
	if reason != interact.StartOK {
		t.Fatalf("expected drag to start, got reason %v", reason)
	}

	drag.Move(5, 540)
	drag.Tick()

	if len(previews) == 0 || previews[len(previews)-1] == nil {
		t.Fatalf("expected a left-edge snap preview, got %v", previews)
	}
	if previews[len(previews)-1].Position != snap.Left {
		t.Fatalf("expected left snap zone, got %+v", previews[len(previews)-1])
	}

	drag.End()

	got := store.Get(id).Bounds
	want := wm.Bounds{X: 0, Y: 0, W: 960, H: 1032}
	if got != want {
		t.Fatalf("expected commit to left-half bounds %+v, got %+v", want, got)
	}
}

func TestDragInhibitedOnMaximizedWindow(t *testing.T) {
	store := wm.New()
	id := store.OpenWindow(wm.OpenSpec{AppID: "a"}, 1920, 1080, 48)
	store.MaximizeWindow(id, 1920, 1080, 48)

	drag := interact.NewDrag(store, nil)
	vp := interact.Viewport{Width: 1920, Height: 1080, TaskbarH: 48}
	if reason := drag.Start(id, 10, 10, 0, false, vp); reason != interact.StartWindowMaximized {
		t.Fatalf("expected StartWindowMaximized, got %v", reason)
	}
	if drag.Active() {
		t.Fatalf("drag should not be active")
	}
}

func TestDragInhibitedOnNonPrimaryButton(t *testing.T) {
	store := wm.New()
	id := store.OpenWindow(wm.OpenSpec{AppID: "a"}, 1920, 1080, 48)

	drag := interact.NewDrag(store, nil)
	vp := interact.Viewport{Width: 1920, Height: 1080, TaskbarH: 48}
	if reason := drag.Start(id, 10, 10, 1, false, vp); reason != interact.StartNonPrimaryButton {
		t.Fatalf("expected StartNonPrimaryButton, got %v", reason)
	}
}

func TestDragCancelDetachesWithoutCommit(t *testing.T) {
	store := wm.New()
	id := store.OpenWindow(wm.OpenSpec{AppID: "a", Width: 400, Height: 300}, 1920, 1080, 48)
	store.SetBounds(id, wm.Bounds{X: 100, Y: 50, W: 400, H: 300})

	drag := interact.NewDrag(store, nil)
	vp := interact.Viewport{Width: 1920, Height: 1080, TaskbarH: 48}
	drag.Start(id, 400, 300, 0, false, vp)
	drag.Move(5, 540)
	drag.Tick()
	drag.Cancel()

	if drag.Active() {
		t.Fatalf("expected drag inactive after cancel")
	}
	// position moved during the tick, but the snap was never committed
	got := store.Get(id).Bounds
	if got == (wm.Bounds{X: 0, Y: 0, W: 960, H: 1032}) {
		t.Fatalf("cancel must not commit the snap zone")
	}
}
