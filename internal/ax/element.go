// Package ax exposes the notifier's window tree as externally-owned elements
// and delivers window events from it. Handles are resolved fresh on every
// pass; the underlying window may be gone by the time an attribute is read,
// so every accessor can fail and callers treat failure as "skip".
package ax

import "github.com/bannerpin/bannerpin/internal/geometry"

// Element is a single node of the notifier's on-screen tree. Implementations
// wrap a window the notifier owns; bannerpin never controls its lifetime.
type Element interface {
	// Position returns the element's top-left corner in screen coordinates.
	Position() (geometry.Point, error)
	// Size returns the element's outer size.
	Size() (geometry.Size, error)
	// SetPosition moves the element. Fire-and-forget; a failed move is
	// reported but the next pass retries anyway.
	SetPosition(geometry.Point) error
	// Identifier returns the element's stable identifier (WM_CLASS instance).
	Identifier() (string, error)
	// Title returns the element's human-readable title.
	Title() (string, error)
	// Role returns the element's normalized window role.
	Role() (string, error)
	// Children enumerates nested elements.
	Children() ([]Element, error)
}

// EventKind classifies window events from the notifier.
type EventKind int

const (
	WindowCreated EventKind = iota
	WindowMoved
	WindowResized
)

func (k EventKind) String() string {
	switch k {
	case WindowCreated:
		return "window-created"
	case WindowMoved:
		return "window-moved"
	case WindowResized:
		return "window-resized"
	default:
		return "unknown"
	}
}

// Event is a single window event. Window is only valid for the duration of
// the handling pass.
type Event struct {
	Kind   EventKind
	Window Element
}

// Subscription is a live event registration. At most one is active at a time.
type Subscription interface {
	Close()
}

// Source enumerates the notifier's top-level windows and produces events for
// them. The X11 implementation is Conn; tests substitute fakes.
type Source interface {
	// Windows returns the notifier's current top-level windows.
	Windows() ([]Element, error)
	// Subscribe registers for window events, delivering them on ch until the
	// subscription is closed.
	Subscribe(ch chan<- Event) (Subscription, error)
}
