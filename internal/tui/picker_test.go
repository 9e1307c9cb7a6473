package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bannerpin/bannerpin/internal/geometry"
	"github.com/bannerpin/bannerpin/internal/ipc"
)

type fakePositionClient struct {
	active string
	err    error

	calls []struct {
		position string
		persist  bool
	}
}

func (c *fakePositionClient) GetPositions() (*ipc.PositionsData, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &ipc.PositionsData{Positions: geometry.AnchorNames(), Active: c.active}, nil
}

func (c *fakePositionClient) SetPosition(position string, persist bool) error {
	if c.err != nil {
		return c.err
	}
	c.calls = append(c.calls, struct {
		position string
		persist  bool
	}{position, persist})
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestNewModel_StartsOnActivePosition(t *testing.T) {
	client := &fakePositionClient{active: "bottom-right"}
	m := newModel(client)

	if geometry.Anchors[m.selected] != geometry.BottomRight {
		t.Fatalf("expected selection on bottom-right, got %s", geometry.Anchors[m.selected])
	}
	if !m.connected {
		t.Fatalf("expected connected")
	}
}

func TestNewModel_DaemonDownFallsBackToDefault(t *testing.T) {
	client := &fakePositionClient{err: errors.New("connect refused")}
	m := newModel(client)

	if m.connected {
		t.Fatalf("expected disconnected")
	}
	if geometry.Anchors[m.selected] != geometry.DefaultAnchor {
		t.Fatalf("expected default selection, got %s", geometry.Anchors[m.selected])
	}
}

func TestMove_ClampsAtGridEdges(t *testing.T) {
	client := &fakePositionClient{active: "top-left"}
	m := newModel(client)

	m = update(t, m, key("up"))
	m = update(t, m, key("left"))
	if geometry.Anchors[m.selected] != geometry.TopLeft {
		t.Fatalf("expected clamp at top-left, got %s", geometry.Anchors[m.selected])
	}
	// Clamped moves must not preview.
	if len(client.calls) != 0 {
		t.Fatalf("expected no preview calls, got %d", len(client.calls))
	}
}

func TestMove_PreviewsWithoutPersisting(t *testing.T) {
	client := &fakePositionClient{active: "top-middle"}
	m := newModel(client)

	m = update(t, m, key("down"))
	if geometry.Anchors[m.selected] != geometry.MiddleCenter {
		t.Fatalf("expected middle-center, got %s", geometry.Anchors[m.selected])
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected one preview call, got %d", len(client.calls))
	}
	if client.calls[0].position != "middle-center" || client.calls[0].persist {
		t.Fatalf("expected non-persisted preview, got %+v", client.calls[0])
	}
}

func TestDigit_JumpsDirectly(t *testing.T) {
	client := &fakePositionClient{active: "top-middle"}
	m := newModel(client)

	m = update(t, m, key("7"))
	if geometry.Anchors[m.selected] != geometry.BottomLeft {
		t.Fatalf("expected bottom-left for '7', got %s", geometry.Anchors[m.selected])
	}
}

func TestEnter_PersistsAndQuits(t *testing.T) {
	client := &fakePositionClient{active: "top-middle"}
	m := newModel(client)

	m = update(t, m, key("down"))
	next, cmd := m.Update(key("enter"))
	m = next.(model)

	if !m.applied {
		t.Fatalf("expected applied flag set")
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	last := client.calls[len(client.calls)-1]
	if last.position != "middle-center" || !last.persist {
		t.Fatalf("expected persisted apply, got %+v", last)
	}
}
