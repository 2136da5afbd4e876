package snap_test

import (
	"testing"

	"github.com/archbase/shell/internal/snap"
)

func TestZonesRejectsTinyViewport(t *testing.T) {
	if zones := snap.Zones(10, 10, 0); zones != nil {
		t.Fatalf("expected nil zones for viewport below 2*CornerSize, got %v", zones)
	}
}

func TestZonesRejectsTaskbarTallerThanViewport(t *testing.T) {
	if zones := snap.Zones(1920, 1080, 1080); zones != nil {
		t.Fatalf("expected nil zones when taskbarH consumes the whole viewport")
	}
}

func TestAtPositionPriorityOrder(t *testing.T) {
	zones := snap.Zones(1920, 1080, 48)
	if zones == nil {
		t.Fatal("expected zones for a standard viewport")
	}

	// Top-center, inside both the maximize band and the top-left corner's
	// hit strip would be impossible by construction (disjoint), but the
	// maximize band sits above any corner at x=960,y=0.
	z := snap.AtPosition(960, 0, zones)
	if z == nil || z.Position != snap.Maximize {
		t.Fatalf("expected maximize zone at top center, got %+v", z)
	}

	z = snap.AtPosition(0, 0, zones)
	if z == nil || z.Position != snap.TopLeft {
		t.Fatalf("expected top-left corner at origin, got %+v", z)
	}

	z = snap.AtPosition(0, 540, zones)
	if z == nil || z.Position != snap.Left {
		t.Fatalf("expected left edge zone, got %+v", z)
	}

	if z := snap.AtPosition(500, 500, zones); z != nil {
		t.Fatalf("expected no zone in the interior, got %+v", z)
	}
}

func TestLeftZoneBoundsDisjointTiling(t *testing.T) {
	zones := snap.Zones(1921, 1080, 48)
	var left, right *snap.Zone
	for i := range zones {
		switch zones[i].Position {
		case snap.Left:
			left = &zones[i]
		case snap.Right:
			right = &zones[i]
		}
	}
	if left == nil || right == nil {
		t.Fatal("expected left and right zones")
	}
	if left.Bounds.W+right.Bounds.W != 1921 {
		t.Fatalf("left+right widths must cover viewport width exactly: %d+%d != 1921", left.Bounds.W, right.Bounds.W)
	}
}
