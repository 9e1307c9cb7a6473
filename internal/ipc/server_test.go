package ipc

import (
	"encoding/json"
	"testing"

	"github.com/bannerpin/bannerpin/internal/config"
	"github.com/bannerpin/bannerpin/internal/display"
	"github.com/bannerpin/bannerpin/internal/geometry"
	"github.com/bannerpin/bannerpin/internal/watcher"
)

type fakeEngine struct {
	status       watcher.Status
	setAnchor    []geometry.Anchor
	resubscribes int
}

func (e *fakeEngine) Status() watcher.Status { return e.status }
func (e *fakeEngine) SetAnchor(a geometry.Anchor) {
	e.setAnchor = append(e.setAnchor, a)
}
func (e *fakeEngine) ApplyConfig(geometry.Anchor, geometry.Insets) {}
func (e *fakeEngine) Resubscribe()                                 { e.resubscribes++ }

type fakeLister struct {
	displays []display.Display
}

func (l *fakeLister) Displays() ([]display.Display, error) { return l.displays, nil }

func newTestServer(engine *fakeEngine) *Server {
	return &Server{
		engine: engine,
		displays: &fakeLister{displays: []display.Display{
			{ID: 0, Name: "eDP-1",
				Bounds: geometry.Rect{Width: 1920, Height: 1080},
				Usable: geometry.Rect{Y: 30, Width: 1920, Height: 1050}},
		}},
		cfg: config.DefaultConfig(),
	}
}

func TestHandleCommand_GetStatus(t *testing.T) {
	engine := &fakeEngine{status: watcher.Status{
		State:      "subscribed",
		Anchor:     "bottom-left",
		Running:    true,
		CacheValid: true,
		MovedCount: 3,
	}}
	s := newTestServer(engine)

	resp := s.handleCommand(&Request{Command: CommandGetStatus})
	if resp.Status != "OK" {
		t.Fatalf("expected OK, got %s: %s", resp.Status, resp.Error)
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if status.Position != "bottom-left" || !status.NotifierRunning || status.MovedCount != 3 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if !status.DaemonRunning {
		t.Fatalf("expected daemon_running true")
	}
}

func TestHandleCommand_SetPosition(t *testing.T) {
	engine := &fakeEngine{}
	s := newTestServer(engine)

	payload, _ := json.Marshal(SetPositionPayload{Position: "Middle-Center"})
	resp := s.handleCommand(&Request{Command: CommandSetPosition, Payload: payload})
	if resp.Status != "OK" {
		t.Fatalf("expected OK, got %s: %s", resp.Status, resp.Error)
	}
	if len(engine.setAnchor) != 1 || engine.setAnchor[0] != geometry.MiddleCenter {
		t.Fatalf("expected middle-center applied, got %v", engine.setAnchor)
	}
}

func TestHandleCommand_SetPositionRejectsUnknown(t *testing.T) {
	engine := &fakeEngine{}
	s := newTestServer(engine)

	payload, _ := json.Marshal(SetPositionPayload{Position: "somewhere"})
	resp := s.handleCommand(&Request{Command: CommandSetPosition, Payload: payload})
	if resp.Status != "ERROR" {
		t.Fatalf("expected ERROR for unknown position")
	}
	if len(engine.setAnchor) != 0 {
		t.Fatalf("engine must not see invalid positions")
	}
}

func TestHandleCommand_GetPositions(t *testing.T) {
	engine := &fakeEngine{status: watcher.Status{Anchor: "top-middle"}}
	s := newTestServer(engine)

	resp := s.handleCommand(&Request{Command: CommandGetPositions})
	if resp.Status != "OK" {
		t.Fatalf("expected OK, got %s", resp.Status)
	}

	var data PositionsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(data.Positions) != 9 {
		t.Fatalf("expected 9 positions, got %d", len(data.Positions))
	}
	if data.Active != "top-middle" {
		t.Fatalf("expected active top-middle, got %q", data.Active)
	}
}

func TestHandleCommand_GetMonitorsIncludesUsable(t *testing.T) {
	s := newTestServer(&fakeEngine{})

	resp := s.handleCommand(&Request{Command: CommandGetMonitors})
	if resp.Status != "OK" {
		t.Fatalf("expected OK, got %s", resp.Status)
	}

	var data MonitorsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(data.Monitors) != 1 {
		t.Fatalf("expected 1 monitor, got %d", len(data.Monitors))
	}
	m := data.Monitors[0]
	if m.UsableY != 30 || m.UsableHeight != 1050 {
		t.Fatalf("expected usable rect carried through, got %+v", m)
	}
}

func TestHandleCommand_Resubscribe(t *testing.T) {
	engine := &fakeEngine{}
	s := newTestServer(engine)

	resp := s.handleCommand(&Request{Command: CommandResubscribe})
	if resp.Status != "OK" {
		t.Fatalf("expected OK, got %s", resp.Status)
	}
	if engine.resubscribes != 1 {
		t.Fatalf("expected one resubscribe, got %d", engine.resubscribes)
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	s := newTestServer(&fakeEngine{})
	resp := s.handleCommand(&Request{Command: "NOPE"})
	if resp.Status != "ERROR" {
		t.Fatalf("expected ERROR for unknown command")
	}
}
