package geometry

// Metrics carries the placement parameters captured from the first banner the
// notifier showed. The notifier lays its banner out flush against the right
// edge of a wider host window; NativePad is the banner's distance from the
// right screen edge and BannerOffsetX the banner's offset inside its window.
// Reusing them reproduces a native-equivalent margin for left and centered
// anchors.
type Metrics struct {
	WindowSize    Size
	BannerSize    Size
	BannerOffsetX int
	NativePad     int
}

// Origin computes the target top-left corner for a window of the given size
// pinned to anchor inside the usable rect. No clamping is performed; the
// result is inside usable whenever the window fits it.
func Origin(anchor Anchor, win Size, usable Rect, insets Insets) Point {
	var p Point

	switch anchor.horizontal() {
	case -1:
		p.X = usable.X + insets.Edge
	case 1:
		p.X = usable.MaxX() - insets.Edge - win.W
	default:
		p.X = usable.MidX() - win.W/2
	}

	switch anchor.vertical() {
	case -1:
		p.Y = usable.Y + insets.Edge
	case 1:
		p.Y = usable.MaxY() - insets.Bottom - win.H
	default:
		p.Y = usable.MidY() - win.H/2
	}

	return p
}

// OriginNative is the placement-cache variant of Origin. For left and centered
// anchors it positions the visible banner, not the host window, using the
// captured native padding; right-column and vertical placement follow Origin.
func OriginNative(anchor Anchor, m Metrics, usable Rect, insets Insets) Point {
	p := Origin(anchor, m.WindowSize, usable, insets)

	switch anchor.horizontal() {
	case -1:
		p.X = usable.X + m.NativePad - m.BannerOffsetX
	case 0:
		p.X = usable.MidX() - m.BannerSize.W/2 - m.BannerOffsetX
	}

	return p
}
