package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bannerpin/bannerpin/internal/config"
	"github.com/bannerpin/bannerpin/internal/display"
	"github.com/bannerpin/bannerpin/internal/geometry"
	"github.com/bannerpin/bannerpin/internal/runtimepath"
	"github.com/bannerpin/bannerpin/internal/watcher"
)

// Engine is the controller surface the IPC server drives.
type Engine interface {
	Status() watcher.Status
	SetAnchor(geometry.Anchor)
	ApplyConfig(anchor geometry.Anchor, insets geometry.Insets)
	Resubscribe()
}

// DisplayLister enumerates displays for GET_MONITORS.
type DisplayLister interface {
	Displays() ([]display.Display, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	engine       Engine
	displays     DisplayLister
	cfg          *config.Config
	cfgMu        sync.Mutex
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, engine Engine, displays DisplayLister) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		engine:     engine,
		displays:   displays,
		cfg:        cfg,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandGetPositions:
		return s.handleGetPositions()
	case CommandSetPosition:
		return s.handleSetPosition(req.Payload)
	case CommandResubscribe:
		return s.handleResubscribe()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload re-reads the config file and applies it to the engine
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	s.engine.ApplyConfig(newCfg.Anchor(), newCfg.Insets())

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	st := s.engine.Status()

	status := StatusData{
		State:           st.State,
		Position:        st.Anchor,
		NotifierRunning: st.Running,
		PlacementCached: st.CacheValid,
		OverlayVisible:  st.OverlaySeen,
		MovedCount:      st.MovedCount,
		LastMove:        st.LastMove,
		UptimeSeconds:   int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:   true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	displays, err := s.displays.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		monitorInfos[i] = MonitorInfo{
			ID:           d.ID,
			Name:         d.Name,
			X:            d.Bounds.X,
			Y:            d.Bounds.Y,
			Width:        d.Bounds.Width,
			Height:       d.Bounds.Height,
			UsableX:      d.Usable.X,
			UsableY:      d.Usable.Y,
			UsableWidth:  d.Usable.Width,
			UsableHeight: d.Usable.Height,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	return resp
}

func (s *Server) handleGetPositions() *Response {
	data := PositionsData{
		Positions: geometry.AnchorNames(),
		Active:    s.engine.Status().Anchor,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleSetPosition(payload json.RawMessage) *Response {
	var req SetPositionPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set-position payload: %v", err))
	}

	anchor, err := geometry.ParseAnchor(req.Position)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	s.engine.SetAnchor(anchor)

	if req.Persist {
		s.cfgMu.Lock()
		s.cfg.Position = string(anchor)
		err := config.Save(s.cfg)
		s.cfgMu.Unlock()
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to save config: %v", err))
		}
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleResubscribe() *Response {
	log.Println("IPC: Received RESUBSCRIBE command")
	s.engine.Resubscribe()

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// UpdateConfig replaces the server's config snapshot after an external reload
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
