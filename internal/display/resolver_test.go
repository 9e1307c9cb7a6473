package display

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/bannerpin/bannerpin/internal/geometry"
)

func twoDisplays() []Display {
	left := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := geometry.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}
	return []Display{
		{ID: 0, Name: "eDP-1", Bounds: left, Usable: left},
		{ID: 1, Name: "DP-1", Bounds: right, Usable: right},
	}
}

func TestPick_PointOnSecondDisplay(t *testing.T) {
	displays := twoDisplays()
	d := Pick(displays, geometry.Point{X: 2000, Y: 700})
	if d.ID != 1 {
		t.Fatalf("expected display 1, got %d", d.ID)
	}
}

func TestPick_OffscreenFallsBackToPrimary(t *testing.T) {
	displays := twoDisplays()
	d := Pick(displays, geometry.Point{X: -500, Y: -500})
	if d.ID != 0 {
		t.Fatalf("expected primary display fallback, got %d", d.ID)
	}
}

func TestShrinkByStrut_BottomDock(t *testing.T) {
	usable := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	sp := &ewmh.WmStrutPartial{
		Bottom:       40,
		BottomStartX: 0,
		BottomEndX:   1919,
	}

	shrinkByStrut(&usable, sp, 1920, 1080)
	if usable.Height != 1040 {
		t.Fatalf("expected height 1040 after bottom strut, got %d", usable.Height)
	}
	if usable.Y != 0 {
		t.Fatalf("expected y unchanged, got %d", usable.Y)
	}
}

func TestShrinkByStrut_TopPanelOnlyAffectsOverlappingDisplay(t *testing.T) {
	// Panel spans only the left display on a 3840-wide root.
	sp := &ewmh.WmStrutPartial{
		Top:       30,
		TopStartX: 0,
		TopEndX:   1919,
	}

	left := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	shrinkByStrut(&left, sp, 3840, 1080)
	shrinkByStrut(&right, sp, 3840, 1080)

	if left.Y != 30 || left.Height != 1050 {
		t.Fatalf("expected left display shrunk to y=30 h=1050, got y=%d h=%d", left.Y, left.Height)
	}
	if right.Y != 0 || right.Height != 1080 {
		t.Fatalf("expected right display untouched, got y=%d h=%d", right.Y, right.Height)
	}
}
