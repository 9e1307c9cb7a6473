package geometry

import "testing"

func TestOrigin_KnownPositions(t *testing.T) {
	usable := Rect{X: 0, Y: 0, Width: 1440, Height: 900}
	win := Size{W: 300, H: 80}
	insets := Insets{Edge: 16, Bottom: 30}

	cases := []struct {
		anchor Anchor
		want   Point
	}{
		{TopLeft, Point{16, 16}},
		{TopMiddle, Point{570, 16}},
		{TopRight, Point{1440 - 16 - 300, 16}},
		{MiddleLeft, Point{16, 410}},
		{MiddleCenter, Point{570, 410}},
		{MiddleRight, Point{1124, 410}},
		{BottomLeft, Point{16, 900 - 30 - 80}},
		{BottomMiddle, Point{570, 790}},
		{BottomRight, Point{1124, 790}},
	}

	for _, tc := range cases {
		got := Origin(tc.anchor, win, usable, insets)
		if got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.anchor, tc.want, got)
		}
	}
}

func TestOrigin_StaysInsideUsableRect(t *testing.T) {
	rects := []Rect{
		{X: 0, Y: 0, Width: 1440, Height: 900},
		{X: 1920, Y: 0, Width: 2560, Height: 1440},
		{X: -1280, Y: 200, Width: 1280, Height: 1024},
	}
	sizes := []Size{
		{W: 1, H: 1},
		{W: 300, H: 80},
		{W: 360, H: 120},
		{W: 1000, H: 600},
	}
	insets := DefaultInsets

	for _, usable := range rects {
		for _, win := range sizes {
			for _, anchor := range Anchors {
				p := Origin(anchor, win, usable, insets)
				if p.X < usable.X || p.X+win.W > usable.MaxX() {
					t.Fatalf("%s in %+v: x=%d out of range for width %d", anchor, usable, p.X, win.W)
				}
				if p.Y < usable.Y || p.Y+win.H > usable.MaxY() {
					t.Fatalf("%s in %+v: y=%d out of range for height %d", anchor, usable, p.Y, win.H)
				}
			}
		}
	}
}

func TestOriginNative_LeftUsesCapturedPadding(t *testing.T) {
	usable := Rect{X: 0, Y: 0, Width: 1440, Height: 900}
	m := Metrics{
		WindowSize:    Size{W: 380, H: 90},
		BannerSize:    Size{W: 340, H: 74},
		BannerOffsetX: 24,
		NativePad:     16,
	}

	p := OriginNative(BottomLeft, m, usable, DefaultInsets)
	// Banner left edge lands at usable.X + NativePad.
	if got := p.X + m.BannerOffsetX; got != 16 {
		t.Fatalf("expected banner left edge at 16, got %d", got)
	}
	if p.Y != 900-30-90 {
		t.Fatalf("expected y=%d, got %d", 900-30-90, p.Y)
	}
}

func TestOriginNative_CenterCentersBanner(t *testing.T) {
	usable := Rect{X: 0, Y: 0, Width: 1000, Height: 600}
	m := Metrics{
		WindowSize:    Size{W: 400, H: 90},
		BannerSize:    Size{W: 300, H: 74},
		BannerOffsetX: 50,
		NativePad:     16,
	}

	p := OriginNative(TopMiddle, m, usable, DefaultInsets)
	bannerCenter := p.X + m.BannerOffsetX + m.BannerSize.W/2
	if bannerCenter != usable.MidX() {
		t.Fatalf("expected banner centered at %d, got %d", usable.MidX(), bannerCenter)
	}
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor("  Bottom-Left ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != BottomLeft {
		t.Fatalf("expected bottom-left, got %s", a)
	}

	if _, err := ParseAnchor("upper-left"); err == nil {
		t.Fatalf("expected error for unknown position")
	}
}

func TestAnchorNext_CyclesThroughAllNine(t *testing.T) {
	seen := map[Anchor]bool{}
	a := TopLeft
	for i := 0; i < len(Anchors); i++ {
		if seen[a] {
			t.Fatalf("anchor %s repeated before cycle completed", a)
		}
		seen[a] = true
		a = a.Next()
	}
	if a != TopLeft {
		t.Fatalf("expected cycle to wrap to top-left, got %s", a)
	}
	if Anchor("bogus").Next() != DefaultAnchor {
		t.Fatalf("unknown anchor should cycle to default")
	}
}
