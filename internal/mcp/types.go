package mcp

import "time"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	State           string    `json:"state"`
	Position        string    `json:"position"`
	NotifierRunning bool      `json:"notifier_running"`
	PlacementCached bool      `json:"placement_cached"`
	OverlayVisible  bool      `json:"overlay_visible"`
	MovedCount      int       `json:"moved_count"`
	LastMove        time.Time `json:"last_move,omitempty"`
	UptimeSeconds   int64     `json:"uptime_seconds"`
}

// SetPositionInput is the input for the set_position tool.
type SetPositionInput struct {
	Position string `json:"position" jsonschema:"required,Banner position, one of the nine grid names (e.g. top-left, bottom-middle)"`
	Persist  bool   `json:"persist,omitempty" jsonschema:"When true, write the position to the config file so it survives daemon restarts"`
}

// SetPositionOutput is the output for the set_position tool.
type SetPositionOutput struct {
	Position  string `json:"position"`
	Persisted bool   `json:"persisted"`
}

// ListPositionsInput is the input for the list_positions tool.
type ListPositionsInput struct{}

// ListPositionsOutput is the output for the list_positions tool.
type ListPositionsOutput struct {
	Positions []string `json:"positions"`
	Active    string   `json:"active"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorInfo describes a single monitor.
type MonitorInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	UsableWidth  int    `json:"usable_width"`
	UsableHeight int    `json:"usable_height"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}
