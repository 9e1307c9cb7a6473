// Package tui implements the interactive position picker. It draws the nine
// anchor cells as a 3x3 grid; moving the selection previews the position live
// through the daemon, and Enter persists it.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/bannerpin/bannerpin/internal/geometry"
	"github.com/bannerpin/bannerpin/internal/ipc"
)

// positionClient is the IPC surface the picker needs.
type positionClient interface {
	GetPositions() (*ipc.PositionsData, error)
	SetPosition(position string, persist bool) error
}

type model struct {
	client positionClient

	selected  int // index into geometry.Anchors, row-major
	active    string
	connected bool
	lastError string
	applied   bool

	width  int
	height int
}

func newModel(client positionClient) model {
	m := model{client: client}

	data, err := client.GetPositions()
	if err != nil {
		m.lastError = err.Error()
		m.selected = indexOf(geometry.DefaultAnchor)
		return m
	}

	m.connected = true
	m.active = data.Active
	m.selected = indexOf(geometry.Anchor(data.Active))
	return m
}

func indexOf(a geometry.Anchor) int {
	for i, cand := range geometry.Anchors {
		if cand == a {
			return i
		}
	}
	return 1 // top-middle
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			m = m.move(0, -1)
		case "down", "j":
			m = m.move(0, 1)
		case "left", "h":
			m = m.move(-1, 0)
		case "right", "l":
			m = m.move(1, 0)

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.selected = int(msg.String()[0] - '1')
			m = m.preview()

		case "enter":
			if err := m.apply(true); err != nil {
				m.lastError = err.Error()
				return m, nil
			}
			m.applied = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// move shifts the selection within the grid, clamping at the edges, and
// previews the new position.
func (m model) move(dx, dy int) model {
	col := m.selected%3 + dx
	row := m.selected/3 + dy
	if col < 0 {
		col = 0
	}
	if col > 2 {
		col = 2
	}
	if row < 0 {
		row = 0
	}
	if row > 2 {
		row = 2
	}
	next := row*3 + col
	if next == m.selected {
		return m
	}
	m.selected = next
	return m.preview()
}

func (m model) preview() model {
	if err := m.apply(false); err != nil {
		m.lastError = err.Error()
	} else {
		m.lastError = ""
	}
	return m
}

func (m model) apply(persist bool) error {
	return m.client.SetPosition(string(geometry.Anchors[m.selected]), persist)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 2, 0)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(16).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("245"))

	selectedCellStyle = cellStyle.
				BorderForeground(lipgloss.Color("212")).
				Foreground(lipgloss.Color("212")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 2)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 2)
)

// View implements tea.Model.
func (m model) View() string {
	title := titleStyle.Render("bannerpin — pick a banner position")

	rows := make([]string, 0, 3)
	for row := 0; row < 3; row++ {
		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			label := string(geometry.Anchors[i])
			if label == m.active {
				label = "• " + label
			}
			style := cellStyle
			if i == m.selected {
				style = selectedCellStyle
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	grid := lipgloss.NewStyle().Padding(0, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))

	var status string
	if m.lastError != "" {
		status = errorStyle.Render(m.lastError)
	} else if !m.connected {
		status = errorStyle.Render("daemon not reachable; selections will not preview")
	}

	help := helpStyle.Render("arrows/hjkl move · 1-9 jump · enter apply · q quit")

	parts := []string{title, grid}
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, help)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the picker and blocks until the user quits.
func Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("pick requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m := newModel(ipc.NewClient())
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	if fm, ok := final.(model); ok && fm.applied {
		fmt.Printf("Position set to %s\n", geometry.Anchors[fm.selected])
	}
	return nil
}
