package ax

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/bannerpin/bannerpin/internal/geometry"
)

// Conn is the X11-backed Source for one notifier application, identified by
// its WM_CLASS. Banner windows are override-redirect and never appear in the
// EWMH client list, so enumeration walks the root window tree instead.
type Conn struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	appClass string
	logger   *slog.Logger

	listenOnce sync.Once
	listenErr  error

	// subMu guards sub; callbacks run on the X event goroutine while
	// Subscribe/Close are called from the controller goroutine.
	subMu sync.Mutex
	sub   *x11Subscription

	// lastGeom classifies ConfigureNotify into moved vs resized. Only
	// touched on the X event goroutine.
	lastGeom map[xproto.Window]xproto.ConfigureNotifyEvent
}

// Connect establishes the X11 connection. Failure here is the one fatal
// error class: without display access the engine cannot run at all.
func Connect(appClass string, logger *slog.Logger) (*Conn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	// Required for the cycle hotkey registration.
	keybind.Initialize(xu)

	return &Conn{
		xu:       xu,
		root:     xu.RootWin(),
		appClass: strings.ToLower(appClass),
		logger:   logger,
		lastGeom: make(map[xproto.Window]xproto.ConfigureNotifyEvent),
	}, nil
}

// EventLoop runs the X event loop. Blocks until Quit.
func (c *Conn) EventLoop() {
	xevent.Main(c.xu)
}

// Quit stops the event loop.
func (c *Conn) Quit() {
	xevent.Quit(c.xu)
}

// Close disconnects from the X server.
func (c *Conn) Close() {
	c.xu.Conn().Close()
}

// XUtil exposes the underlying connection for hotkey registration.
func (c *Conn) XUtil() *xgbutil.XUtil { return c.xu }

// RootWindow returns the root window.
func (c *Conn) RootWindow() xproto.Window { return c.root }

// Windows returns the notifier's currently viewable top-level windows.
func (c *Conn) Windows() ([]Element, error) {
	tree, err := xproto.QueryTree(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}

	var windows []Element
	for _, win := range tree.Children {
		if !c.matchesApp(win) {
			continue
		}
		attrs, err := xproto.GetWindowAttributes(c.xu.Conn(), win).Reply()
		if err != nil || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		windows = append(windows, c.element(win))
	}
	return windows, nil
}

// matchesApp reports whether win belongs to the configured notifier. A
// window whose class cannot be read does not match.
func (c *Conn) matchesApp(win xproto.Window) bool {
	class, err := icccm.WmClassGet(c.xu, win)
	if err != nil || class == nil {
		return false
	}
	return strings.ToLower(class.Class) == c.appClass ||
		strings.ToLower(class.Instance) == c.appClass
}

type x11Subscription struct {
	conn *Conn

	mu     sync.Mutex
	closed bool
}

func (s *x11Subscription) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.conn.subMu.Lock()
	if s.conn.sub == s {
		s.conn.sub = nil
	}
	s.conn.subMu.Unlock()
}

func (s *x11Subscription) open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Subscribe registers for window events from the notifier. The root-window
// listeners are installed once and kept; closing a subscription only stops
// delivery, so teardown never disturbs unrelated root callbacks such as
// hotkeys.
func (c *Conn) Subscribe(ch chan<- Event) (Subscription, error) {
	c.listenOnce.Do(func() {
		c.listenErr = c.installListeners(ch)
	})
	if c.listenErr != nil {
		return nil, c.listenErr
	}

	sub := &x11Subscription{conn: c}
	c.subMu.Lock()
	c.sub = sub
	c.subMu.Unlock()
	return sub, nil
}

func (c *Conn) installListeners(ch chan<- Event) error {
	if err := xwindow.New(c.xu, c.root).Listen(xproto.EventMaskSubstructureNotify); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	// MapNotify rather than CreateNotify: by map time the notifier has set
	// WM_CLASS, so app filtering works.
	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		if !c.matchesApp(ev.Window) {
			return
		}
		c.deliver(ch, Event{Kind: WindowCreated, Window: c.element(ev.Window)})
	}).Connect(c.xu, c.root)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if !c.matchesApp(ev.Window) {
			return
		}
		kind := WindowMoved
		if last, ok := c.lastGeom[ev.Window]; ok &&
			(last.Width != ev.Width || last.Height != ev.Height) {
			kind = WindowResized
		}
		c.lastGeom[ev.Window] = *ev.ConfigureNotifyEvent
		c.deliver(ch, Event{Kind: kind, Window: c.element(ev.Window)})
	}).Connect(c.xu, c.root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		delete(c.lastGeom, ev.Window)
	}).Connect(c.xu, c.root)

	return nil
}

// deliver forwards an event to the active subscription without blocking the
// X event loop. Dropped events are recovered by the next full re-scan.
func (c *Conn) deliver(ch chan<- Event, ev Event) {
	c.subMu.Lock()
	sub := c.sub
	c.subMu.Unlock()
	if sub == nil || !sub.open() {
		return
	}

	select {
	case ch <- ev:
	default:
		c.logger.Debug("event channel full, dropping event", "kind", ev.Kind.String())
	}
}

func (c *Conn) element(win xproto.Window) Element {
	return &xElement{conn: c, win: win}
}

// xElement wraps one window of the notifier. It holds only the window ID;
// every attribute is read fresh because the window may be destroyed at any
// time.
type xElement struct {
	conn *Conn
	win  xproto.Window
}

func (e *xElement) Position() (geometry.Point, error) {
	translate, err := xproto.TranslateCoordinates(
		e.conn.xu.Conn(), e.win, e.conn.root, 0, 0,
	).Reply()
	if err != nil {
		return geometry.Point{}, fmt.Errorf("failed to read window position: %w", err)
	}
	return geometry.Point{X: int(translate.DstX), Y: int(translate.DstY)}, nil
}

func (e *xElement) Size() (geometry.Size, error) {
	geom, err := xproto.GetGeometry(e.conn.xu.Conn(), xproto.Drawable(e.win)).Reply()
	if err != nil {
		return geometry.Size{}, fmt.Errorf("failed to read window size: %w", err)
	}
	return geometry.Size{W: int(geom.Width), H: int(geom.Height)}, nil
}

func (e *xElement) SetPosition(p geometry.Point) error {
	err := xproto.ConfigureWindowChecked(
		e.conn.xu.Conn(),
		e.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(p.X)), uint32(int32(p.Y))},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to move window: %w", err)
	}
	return nil
}

func (e *xElement) Identifier() (string, error) {
	class, err := icccm.WmClassGet(e.conn.xu, e.win)
	if err != nil {
		return "", fmt.Errorf("failed to read window class: %w", err)
	}
	return class.Instance, nil
}

func (e *xElement) Title() (string, error) {
	name, err := ewmh.WmNameGet(e.conn.xu, e.win)
	if err != nil {
		return "", fmt.Errorf("failed to read window title: %w", err)
	}
	return name, nil
}

// Role returns the window's EWMH type with the _NET_WM_WINDOW_TYPE_ prefix
// stripped and lowercased, e.g. "notification". Windows without an explicit
// type report "normal".
func (e *xElement) Role() (string, error) {
	types, err := ewmh.WmWindowTypeGet(e.conn.xu, e.win)
	if err != nil {
		return "", fmt.Errorf("failed to read window type: %w", err)
	}
	if len(types) == 0 {
		return "normal", nil
	}
	return strings.ToLower(strings.TrimPrefix(types[0], "_NET_WM_WINDOW_TYPE_")), nil
}

func (e *xElement) Children() ([]Element, error) {
	tree, err := xproto.QueryTree(e.conn.xu.Conn(), e.win).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	children := make([]Element, 0, len(tree.Children))
	for _, child := range tree.Children {
		children = append(children, e.conn.element(child))
	}
	return children, nil
}
