package ipc

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetMonitors  CommandType = "GET_MONITORS"
	CommandGetPositions CommandType = "GET_POSITIONS"
	CommandSetPosition  CommandType = "SET_POSITION"
	CommandResubscribe  CommandType = "RESUBSCRIBE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	State           string    `json:"state"`
	Position        string    `json:"position"`
	NotifierRunning bool      `json:"notifier_running"`
	PlacementCached bool      `json:"placement_cached"`
	OverlayVisible  bool      `json:"overlay_visible"`
	MovedCount      int       `json:"moved_count"`
	LastMove        time.Time `json:"last_move,omitempty"`
	UptimeSeconds   int64     `json:"uptime_seconds"`
	DaemonRunning   bool      `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	UsableX      int `json:"usable_x"`
	UsableY      int `json:"usable_y"`
	UsableWidth  int `json:"usable_width"`
	UsableHeight int `json:"usable_height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// PositionsData represents the data returned by GET_POSITIONS
type PositionsData struct {
	Positions []string `json:"positions"`
	Active    string   `json:"active"`
}

// SetPositionPayload represents the payload for SET_POSITION
type SetPositionPayload struct {
	Position string `json:"position"`
	// Persist writes the position back to the config file so it survives
	// daemon restarts.
	Persist bool `json:"persist,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
