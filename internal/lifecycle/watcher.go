// Package lifecycle tracks whether the notification daemon is present on the
// session bus, so the engine can tear down and re-establish its event
// subscription across notifier restarts.
package lifecycle

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// DefaultBusName is the well-known name every freedesktop notification
// daemon claims.
const DefaultBusName = "org.freedesktop.Notifications"

// Handler receives presence transitions. Launched fires when the notifier
// claims its bus name, Terminated when the name loses its owner.
type Handler interface {
	ProcessLaunched()
	ProcessTerminated()
}

// Watcher observes NameOwnerChanged signals for the notifier's bus name.
type Watcher struct {
	busName string
	logger  *slog.Logger
	handler Handler

	conn *dbus.Conn
}

// NewWatcher creates a watcher for busName. An empty busName watches the
// standard notification daemon name.
func NewWatcher(busName string, handler Handler, logger *slog.Logger) *Watcher {
	if busName == "" {
		busName = DefaultBusName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{busName: busName, handler: handler, logger: logger}
}

// Running reports whether the notifier currently owns its bus name. Usable
// before Start for the initial presence check.
func (w *Watcher) Running() (bool, error) {
	conn := w.conn
	if conn == nil {
		c, err := dbus.SessionBus()
		if err != nil {
			return false, fmt.Errorf("failed to connect to session bus: %w", err)
		}
		conn = c
		w.conn = c
	}

	var has bool
	err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, w.busName).Store(&has)
	if err != nil {
		return false, fmt.Errorf("NameHasOwner query failed: %w", err)
	}
	return has, nil
}

// Start begins watching ownership of the notifier's bus name.
func (w *Watcher) Start() error {
	if w.conn == nil {
		conn, err := dbus.SessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		w.conn = conn
	}

	err := w.conn.AddMatchSignal(
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, w.busName),
	)
	if err != nil {
		return fmt.Errorf("failed to add NameOwnerChanged match: %w", err)
	}

	ch := make(chan *dbus.Signal, 16)
	w.conn.Signal(ch)

	w.logger.Info("watching notifier bus name", "name", w.busName)
	go w.processSignals(ch)

	return nil
}

// processSignals dispatches ownership transitions to the handler.
func (w *Watcher) processSignals(ch chan *dbus.Signal) {
	for sig := range ch {
		if sig.Name != "org.freedesktop.DBus.NameOwnerChanged" {
			continue
		}
		name, oldOwner, newOwner, ok := ownerChange(sig)
		if !ok || name != w.busName {
			continue
		}

		switch {
		case oldOwner == "" && newOwner != "":
			w.logger.Info("notifier appeared on bus", "name", name, "owner", newOwner)
			w.handler.ProcessLaunched()
		case oldOwner != "" && newOwner == "":
			w.logger.Info("notifier left the bus", "name", name)
			w.handler.ProcessTerminated()
		default:
			// Owner handover without a gap; the window set restarts either way.
			w.logger.Debug("notifier owner replaced", "name", name)
			w.handler.ProcessTerminated()
			w.handler.ProcessLaunched()
		}
	}
}

// ownerChange unpacks a NameOwnerChanged signal body.
func ownerChange(sig *dbus.Signal) (name, oldOwner, newOwner string, ok bool) {
	if len(sig.Body) != 3 {
		return "", "", "", false
	}
	name, ok1 := sig.Body[0].(string)
	oldOwner, ok2 := sig.Body[1].(string)
	newOwner, ok3 := sig.Body[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return "", "", "", false
	}
	return name, oldOwner, newOwner, true
}

// Stop closes the bus connection, ending signal delivery.
func (w *Watcher) Stop() error {
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}
