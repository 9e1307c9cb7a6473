// Package watcher contains the engine that keeps the notifier's banners
// pinned to the configured anchor. It subscribes to window events from the
// notifier, falls back to a short-lived poll loop around each move, and
// re-establishes itself whenever the notifier restarts.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/bannerpin/bannerpin/internal/ax"
	"github.com/bannerpin/bannerpin/internal/display"
	"github.com/bannerpin/bannerpin/internal/geometry"
)

// State is the controller's subscription state.
type State int

const (
	Unsubscribed State = iota
	RetryPending
	Subscribed
)

func (s State) String() string {
	switch s {
	case Subscribed:
		return "subscribed"
	case RetryPending:
		return "retry-pending"
	default:
		return "unsubscribed"
	}
}

// DisplayResolver maps a point to the display that should host the banner.
type DisplayResolver interface {
	Containing(geometry.Point) (display.Display, error)
}

// Options configures a Controller.
type Options struct {
	Anchor        geometry.Anchor
	Insets        geometry.Insets
	BannerRoles   []string
	OverlayPrefix string

	// RetryInterval is the pause between subscription attempts while the
	// notifier is absent.
	RetryInterval time.Duration
	// PollInterval is the overlay sampling cadence inside the poll window.
	PollInterval time.Duration
	// PollWindow is how long after a successful move the overlay poll stays
	// armed.
	PollWindow time.Duration

	Logger *slog.Logger
}

func (o *Options) fillDefaults() {
	if o.Anchor == "" {
		o.Anchor = geometry.DefaultAnchor
	}
	if o.Insets == (geometry.Insets{}) {
		o.Insets = geometry.DefaultInsets
	}
	if len(o.BannerRoles) == 0 {
		o.BannerRoles = []string{"notification"}
	}
	if o.OverlayPrefix == "" {
		o.OverlayPrefix = "widget-"
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = 2 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 500 * time.Millisecond
	}
	if o.PollWindow <= 0 {
		o.PollWindow = 6500 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Status is a snapshot of the controller for the IPC status command.
type Status struct {
	State       string    `json:"state"`
	Anchor      string    `json:"position"`
	Running     bool      `json:"notifier_running"`
	CacheValid  bool      `json:"placement_cached"`
	LastMove    time.Time `json:"last_move,omitempty"`
	MovedCount  int       `json:"moved_count"`
	OverlaySeen bool      `json:"overlay_visible"`
}

// Controller is the engine's single owner of mutable state. All state is
// touched only from the Run goroutine; external callers enqueue commands.
type Controller struct {
	source   ax.Source
	displays DisplayResolver
	opts     Options
	logger   *slog.Logger

	state       State
	running     bool
	anchor      geometry.Anchor
	insets      geometry.Insets
	cache       placementCache
	sub         ax.Subscription
	lastOverlay bool

	pollUntil  time.Time
	lastMove   time.Time
	movedCount int

	retryTimer *time.Timer
	pollTicker *time.Ticker

	events   chan ax.Event
	commands chan func()

	now func() time.Time
}

// New creates a controller. running reports whether the notifier process is
// currently present; the lifecycle watcher updates it afterwards.
func New(source ax.Source, displays DisplayResolver, opts Options) *Controller {
	opts.fillDefaults()
	return &Controller{
		source:   source,
		displays: displays,
		opts:     opts,
		logger:   opts.Logger,
		anchor:   opts.Anchor,
		insets:   opts.Insets,
		events:   make(chan ax.Event, 64),
		commands: make(chan func(), 16),
		now:      time.Now,
	}
}

// Run drives the controller until ctx is cancelled. Everything the engine
// does happens on this goroutine; event bursts are resolved strictly in
// arrival order.
func (c *Controller) Run(ctx context.Context) {
	c.trySubscribe()

	for {
		select {
		case <-ctx.Done():
			c.teardown()
			return
		case ev := <-c.events:
			c.handleEvent(ev)
		case fn := <-c.commands:
			fn()
		case <-c.retryC():
			c.retryTimer = nil
			c.trySubscribe()
		case <-c.pollC():
			c.handleTick(c.now())
		}
	}
}

func (c *Controller) retryC() <-chan time.Time {
	if c.retryTimer == nil {
		return nil
	}
	return c.retryTimer.C
}

func (c *Controller) pollC() <-chan time.Time {
	if c.pollTicker == nil {
		return nil
	}
	return c.pollTicker.C
}

// enqueue hands a closure to the run loop.
func (c *Controller) enqueue(fn func()) {
	c.commands <- fn
}

// SetAnchor changes the active anchor and triggers an immediate full pass.
// Safe to call from any goroutine.
func (c *Controller) SetAnchor(a geometry.Anchor) {
	c.enqueue(func() {
		if c.anchor == a {
			return
		}
		c.logger.Info("position changed", "from", string(c.anchor), "to", string(a))
		c.anchor = a
		c.rescanAll()
	})
}

// ApplyConfig updates anchor and insets after a config reload.
func (c *Controller) ApplyConfig(a geometry.Anchor, insets geometry.Insets) {
	c.enqueue(func() {
		changed := c.anchor != a || c.insets != insets
		c.anchor = a
		c.insets = insets
		if changed {
			c.rescanAll()
		}
	})
}

// Resubscribe re-attempts the event subscription. No-op while subscribed.
func (c *Controller) Resubscribe() {
	c.enqueue(c.trySubscribe)
}

// ProcessLaunched signals that the notifier appeared on the bus.
func (c *Controller) ProcessLaunched() {
	c.enqueue(func() {
		c.running = true
		c.trySubscribe()
	})
}

// ProcessTerminated signals that the notifier left the bus.
func (c *Controller) ProcessTerminated() {
	c.enqueue(func() {
		c.running = false
		c.unsubscribe()
		c.scheduleRetry()
	})
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	reply := make(chan Status, 1)
	c.enqueue(func() {
		reply <- Status{
			State:       c.state.String(),
			Anchor:      string(c.anchor),
			Running:     c.running,
			CacheValid:  c.cache.valid,
			LastMove:    c.lastMove,
			MovedCount:  c.movedCount,
			OverlaySeen: c.lastOverlay,
		}
	})
	return <-reply
}

// trySubscribe attempts the Unsubscribed -> Subscribed transition. Idempotent
// while Subscribed; any failure schedules a retry.
func (c *Controller) trySubscribe() {
	if c.state == Subscribed {
		return
	}
	if !c.running {
		c.logger.Debug("notifier not running, deferring subscription")
		c.scheduleRetry()
		return
	}

	sub, err := c.source.Subscribe(c.events)
	if err != nil {
		c.logger.Debug("subscription failed", "error", err)
		c.scheduleRetry()
		return
	}

	c.sub = sub
	c.state = Subscribed
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.logger.Info("subscribed to notifier events")

	// Catch banners that appeared before the subscription landed.
	c.rescanAll()
}

func (c *Controller) scheduleRetry() {
	c.state = RetryPending
	if c.retryTimer == nil {
		c.retryTimer = time.NewTimer(c.opts.RetryInterval)
	}
}

func (c *Controller) unsubscribe() {
	if c.sub != nil {
		c.sub.Close()
		c.sub = nil
	}
	if c.state == Subscribed {
		c.logger.Info("notifier terminated, subscription torn down")
	}
	c.state = Unsubscribed
	c.disarmPoll()
}

func (c *Controller) teardown() {
	c.unsubscribe()
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

func (c *Controller) handleEvent(ev ax.Event) {
	if c.state != Subscribed {
		return
	}

	switch ev.Kind {
	case ax.WindowCreated:
		// The report itself can race with layout; re-scan everything.
		c.rescanAll()
	case ax.WindowMoved, ax.WindowResized:
		if c.containsBanner(ev.Window) {
			c.reposition(ev.Window)
		} else {
			c.rescanAll()
		}
	}
}

// handleTick runs one overlay poll. The ticker is disarmed once the window
// after the last move has elapsed.
func (c *Controller) handleTick(now time.Time) {
	if now.After(c.pollUntil) {
		c.disarmPoll()
		return
	}

	prev := c.lastOverlay
	cur := c.overlayVisible()
	c.lastOverlay = cur

	if prev && !cur {
		// Overlay dismissed: pick up banners that arrived while suppressed.
		c.logger.Debug("overlay dismissed, re-scanning windows")
		c.rescanAll()
	}
}

func (c *Controller) armPoll() {
	c.pollUntil = c.now().Add(c.opts.PollWindow)
	if c.pollTicker == nil {
		c.pollTicker = time.NewTicker(c.opts.PollInterval)
	}
}

func (c *Controller) disarmPoll() {
	if c.pollTicker != nil {
		c.pollTicker.Stop()
		c.pollTicker = nil
	}
}

func (c *Controller) bannerPred() ax.Predicate {
	return ax.RoleIn(c.opts.BannerRoles...)
}

func (c *Controller) containsBanner(win ax.Element) bool {
	return ax.FindElement(win, c.bannerPred()) != nil
}

// overlayVisible reports whether the notifier currently shows an
// overlay-widget surface (collapsed stack or history panel). Repositioning
// is suppressed while one is up.
func (c *Controller) overlayVisible() bool {
	windows, err := c.source.Windows()
	if err != nil {
		return false
	}
	pred := ax.IdentifierPrefix(c.opts.OverlayPrefix)
	for _, win := range windows {
		if ax.FindElement(win, pred) != nil {
			return true
		}
	}
	return false
}

// rescanAll repositions every notifier window that contains a banner
// surface.
func (c *Controller) rescanAll() {
	if c.anchor == geometry.TopRight {
		return
	}
	windows, err := c.source.Windows()
	if err != nil {
		c.logger.Debug("window enumeration failed", "error", err)
		return
	}
	for _, win := range windows {
		if c.containsBanner(win) {
			c.reposition(win)
		}
	}
}

// reposition runs one full pass for a single window. Attribute-read failures
// skip the pass; only the startup permission failure is ever fatal.
func (c *Controller) reposition(win ax.Element) {
	// The notifier's own default is top-right; writing it back would only
	// cause churn.
	if c.anchor == geometry.TopRight {
		return
	}

	cur := c.overlayVisible()
	c.lastOverlay = cur
	if cur {
		c.logger.Debug("overlay visible, skipping pass")
		return
	}

	winPos, err := win.Position()
	if err != nil {
		c.logger.Debug("skipping window", "error", err)
		return
	}
	winSize, err := win.Size()
	if err != nil {
		c.logger.Debug("skipping window", "error", err)
		return
	}

	banner := ax.FindElement(win, c.bannerPred())
	if banner == nil {
		return
	}
	bannerPos, err := banner.Position()
	if err != nil {
		c.logger.Debug("skipping banner", "error", err)
		return
	}
	bannerSize, err := banner.Size()
	if err != nil {
		c.logger.Debug("skipping banner", "error", err)
		return
	}

	center := geometry.Point{X: winPos.X + winSize.W/2, Y: winPos.Y + winSize.H/2}
	disp, err := c.displays.Containing(center)
	if err != nil {
		c.logger.Debug("display resolution failed", "error", err)
		return
	}

	c.cache.capture(winPos, winSize, bannerPos, bannerSize, disp.Usable)

	// Neutralize any native re-layout since the reference was taken, so the
	// padding math below starts from a known placement. Drift is the banner
	// shifting WITHIN its window; the window's own position changes with
	// every move we make and must not count.
	refPos := winPos
	if c.cache.valid && c.cache.bannerDrifted(winPos, bannerPos) {
		if err := win.SetPosition(c.cache.windowPos); err != nil {
			c.logger.Debug("reference rewrite failed", "error", err)
		} else {
			refPos = c.cache.windowPos
		}
	}

	var target geometry.Point
	if c.cache.valid {
		target = geometry.OriginNative(c.anchor, c.cache.metrics(winSize), disp.Usable, c.insets)
	} else {
		target = geometry.Origin(c.anchor, winSize, disp.Usable, c.insets)
	}

	// Already placed. Skipping the write lets the ConfigureNotify from our
	// own move quiesce instead of feeding back into another pass.
	if target == refPos {
		return
	}

	if err := win.SetPosition(target); err != nil {
		c.logger.Debug("move failed", "target", target, "error", err)
		return
	}

	c.lastMove = c.now()
	c.movedCount++
	c.armPoll()
	c.logger.Debug("banner repositioned",
		"position", string(c.anchor), "x", target.X, "y", target.Y,
		"display", disp.Name)
}
