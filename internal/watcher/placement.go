package watcher

import "github.com/bannerpin/bannerpin/internal/geometry"

// placementCache remembers the first native banner placement the notifier
// produced, before any override. The notifier computes its horizontal padding
// internally; capturing the banner's distance from the right screen edge once
// lets left and centered anchors reproduce a native-equivalent margin.
// Write-once for the process lifetime: later banners share the same layout
// rule, so the first observation stays authoritative.
type placementCache struct {
	valid bool

	windowPos  geometry.Point
	windowSize geometry.Size
	bannerPos  geometry.Point
	bannerSize geometry.Size
	nativePad  int
}

// capture records the first observed placement. No-op once populated.
func (pc *placementCache) capture(winPos geometry.Point, winSize geometry.Size,
	bannerPos geometry.Point, bannerSize geometry.Size, usable geometry.Rect) {
	if pc.valid {
		return
	}
	pad := usable.MaxX() - (bannerPos.X + bannerSize.W)
	if pad < 0 {
		// Geometry has not settled (banner hangs past the screen edge);
		// leave the cache empty and let a later pass capture it.
		return
	}
	pc.valid = true
	pc.windowPos = winPos
	pc.windowSize = winSize
	pc.bannerPos = bannerPos
	pc.bannerSize = bannerSize
	pc.nativePad = pad
}

// bannerDrifted reports whether the banner's offset within its window differs
// from the cached reference offset. The comparison is window-relative: moving
// the whole window (including our own moves) is not drift.
func (pc *placementCache) bannerDrifted(winPos, bannerPos geometry.Point) bool {
	return bannerPos.X-winPos.X != pc.bannerPos.X-pc.windowPos.X ||
		bannerPos.Y-winPos.Y != pc.bannerPos.Y-pc.windowPos.Y
}

// metrics converts the cached placement into calculator input for the window
// currently being repositioned.
func (pc *placementCache) metrics(winSize geometry.Size) geometry.Metrics {
	return geometry.Metrics{
		WindowSize:    winSize,
		BannerSize:    pc.bannerSize,
		BannerOffsetX: pc.bannerPos.X - pc.windowPos.X,
		NativePad:     pc.nativePad,
	}
}
