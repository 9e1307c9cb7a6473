// Package display resolves which physical display a point falls on and what
// part of that display is usable for banner placement.
package display

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/bannerpin/bannerpin/internal/geometry"
)

// Display is a physical display. Usable is Bounds minus dock and panel
// struts; banners are placed against the usable rectangle.
type Display struct {
	ID     int
	Name   string
	Bounds geometry.Rect
	Usable geometry.Rect
}

// Resolver queries display geometry through RandR. Displays are re-read on
// every resolution because monitor layout can change under us.
type Resolver struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	randrReady bool
}

// NewResolver creates a resolver on an existing X connection.
func NewResolver(xu *xgbutil.XUtil, logger *slog.Logger) *Resolver {
	return &Resolver{xu: xu, root: xu.RootWin(), logger: logger}
}

// Containing returns the display containing p, or the primary display when
// the point is off-screen or geometry has not settled yet.
func (r *Resolver) Containing(p geometry.Point) (Display, error) {
	displays, err := r.Displays()
	if err != nil {
		return Display{}, err
	}
	if len(displays) == 0 {
		return Display{}, fmt.Errorf("no displays found")
	}
	return Pick(displays, p), nil
}

// Pick selects the display whose bounds contain p, falling back to the first
// (primary) display.
func Pick(displays []Display, p geometry.Point) Display {
	for _, d := range displays {
		if d.Bounds.Contains(p) {
			return d
		}
	}
	return displays[0]
}

// Displays enumerates active displays with their usable rectangles.
func (r *Resolver) Displays() ([]Display, error) {
	if !r.randrReady {
		if err := randr.Init(r.xu.Conn()); err != nil {
			return nil, fmt.Errorf("randr init failed: %w", err)
		}
		r.randrReady = true
	}

	resources, err := randr.GetScreenResources(r.xu.Conn(), r.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var displays []Display
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(r.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("display%d", i)
		if out, err := randr.GetOutputInfo(r.xu.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := geometry.Rect{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		displays = append(displays, Display{
			ID:     i,
			Name:   name,
			Bounds: bounds,
			Usable: bounds,
		})
	}

	r.applyStruts(displays)
	return displays, nil
}

// applyStruts shrinks each display's usable rect by the dock struts that
// intersect it. A display with no intersecting docks keeps its full bounds.
func (r *Resolver) applyStruts(displays []Display) {
	rootGeom, err := xproto.GetGeometry(r.xu.Conn(), xproto.Drawable(r.root)).Reply()
	if err != nil {
		return
	}
	rootW := int(rootGeom.Width)
	rootH := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(r.xu)
	if err != nil {
		return
	}

	for _, win := range clients {
		if !isDock(r.xu, win) {
			continue
		}
		sp, err := ewmh.WmStrutPartialGet(r.xu, win)
		if err != nil {
			// Older docks only set the simple strut property.
			s, err := ewmh.WmStrutGet(r.xu, win)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: uint(rootH - 1), RightEndY: uint(rootH - 1),
				TopEndX: uint(rootW - 1), BottomEndX: uint(rootW - 1),
			}
		}

		for i := range displays {
			shrinkByStrut(&displays[i].Usable, sp, rootW, rootH)
		}
	}
}

func isDock(xu *xgbutil.XUtil, win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(xu, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// shrinkByStrut removes the strut's reserved band from usable where the
// band's span overlaps the display.
func shrinkByStrut(usable *geometry.Rect, sp *ewmh.WmStrutPartial, rootW, rootH int) {
	overlaps := func(lo, hi, start, end int) bool {
		return end > lo && start < hi
	}

	if sp.Top > 0 && overlaps(usable.X, usable.MaxX(), int(sp.TopStartX), int(sp.TopEndX)+1) {
		if band := int(sp.Top) - usable.Y; band > 0 {
			usable.Y += band
			usable.Height -= band
		}
	}
	if sp.Bottom > 0 && overlaps(usable.X, usable.MaxX(), int(sp.BottomStartX), int(sp.BottomEndX)+1) {
		if band := usable.MaxY() - (rootH - int(sp.Bottom)); band > 0 {
			usable.Height -= band
		}
	}
	if sp.Left > 0 && overlaps(usable.Y, usable.MaxY(), int(sp.LeftStartY), int(sp.LeftEndY)+1) {
		if band := int(sp.Left) - usable.X; band > 0 {
			usable.X += band
			usable.Width -= band
		}
	}
	if sp.Right > 0 && overlaps(usable.Y, usable.MaxY(), int(sp.RightStartY), int(sp.RightEndY)+1) {
		if band := usable.MaxX() - (rootW - int(sp.Right)); band > 0 {
			usable.Width -= band
		}
	}

	if usable.Width < 1 {
		usable.Width = 1
	}
	if usable.Height < 1 {
		usable.Height = 1
	}
}
