package geometry

// Point is an on-screen position in pixels, top-left origin.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair in pixels.
type Size struct {
	W int
	H int
}

// Rect describes a rectangular screen region.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MaxX returns the exclusive right edge of the rect.
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the exclusive bottom edge of the rect.
func (r Rect) MaxY() int { return r.Y + r.Height }

// MidX returns the horizontal center of the rect.
func (r Rect) MidX() int { return r.X + r.Width/2 }

// MidY returns the vertical center of the rect.
func (r Rect) MidY() int { return r.Y + r.Height/2 }

// Contains reports whether p lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.MidX(), Y: r.MidY()}
}

// Insets holds the fixed margins kept between a banner and the screen edges.
// Bottom is larger than Edge to clear a persistent dock or panel.
type Insets struct {
	Edge   int
	Bottom int
}

// DefaultInsets matches the notifier's own top-right margin and leaves room
// for a bottom dock.
var DefaultInsets = Insets{Edge: 16, Bottom: 30}
