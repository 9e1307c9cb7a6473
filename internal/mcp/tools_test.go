package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/bannerpin/bannerpin/internal/geometry"
	"github.com/bannerpin/bannerpin/internal/ipc"
)

type fakeClient struct {
	status    *ipc.StatusData
	positions *ipc.PositionsData
	monitors  *ipc.MonitorsData
	err       error

	setPosition string
	setPersist  bool
}

func (c *fakeClient) GetStatus() (*ipc.StatusData, error) { return c.status, c.err }
func (c *fakeClient) SetPosition(position string, persist bool) error {
	c.setPosition = position
	c.setPersist = persist
	return c.err
}
func (c *fakeClient) GetPositions() (*ipc.PositionsData, error) { return c.positions, c.err }
func (c *fakeClient) GetMonitors() (*ipc.MonitorsData, error)   { return c.monitors, c.err }

func TestHandleGetStatus(t *testing.T) {
	s := &Server{client: &fakeClient{status: &ipc.StatusData{
		State:           "subscribed",
		Position:        "bottom-left",
		NotifierRunning: true,
		MovedCount:      7,
	}}}

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Position != "bottom-left" || !out.NotifierRunning || out.MovedCount != 7 {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestHandleGetStatus_DaemonDown(t *testing.T) {
	s := &Server{client: &fakeClient{err: errors.New("failed to connect to daemon")}}

	_, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err == nil {
		t.Fatalf("expected error when daemon is unreachable")
	}
}

func TestHandleSetPosition(t *testing.T) {
	client := &fakeClient{}
	s := &Server{client: client}

	_, out, err := s.handleSetPosition(context.Background(), nil, SetPositionInput{
		Position: "middle-center",
		Persist:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.setPosition != "middle-center" || !client.setPersist {
		t.Fatalf("client saw %q persist=%v", client.setPosition, client.setPersist)
	}
	if out.Position != "middle-center" || !out.Persisted {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestHandleSetPosition_RequiresPosition(t *testing.T) {
	client := &fakeClient{}
	s := &Server{client: client}

	_, _, err := s.handleSetPosition(context.Background(), nil, SetPositionInput{})
	if err == nil {
		t.Fatalf("expected error for empty position")
	}
	if client.setPosition != "" {
		t.Fatalf("client must not be called on validation failure")
	}
}

func TestHandleListPositions(t *testing.T) {
	s := &Server{client: &fakeClient{positions: &ipc.PositionsData{
		Positions: geometry.AnchorNames(),
		Active:    "top-middle",
	}}}

	_, out, err := s.handleListPositions(context.Background(), nil, ListPositionsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Positions) != 9 || out.Active != "top-middle" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestHandleListMonitors(t *testing.T) {
	s := &Server{client: &fakeClient{monitors: &ipc.MonitorsData{
		Monitors: []ipc.MonitorInfo{
			{ID: 0, Name: "eDP-1", Width: 1920, Height: 1080, UsableWidth: 1920, UsableHeight: 1050},
		},
	}}}

	_, out, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Monitors) != 1 || out.Monitors[0].UsableHeight != 1050 {
		t.Fatalf("unexpected output: %+v", out)
	}
}
