package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}

	out := GetStatusOutput{
		State:           status.State,
		Position:        status.Position,
		NotifierRunning: status.NotifierRunning,
		PlacementCached: status.PlacementCached,
		OverlayVisible:  status.OverlayVisible,
		MovedCount:      status.MovedCount,
		LastMove:        status.LastMove,
		UptimeSeconds:   status.UptimeSeconds,
	}
	return nil, out, nil
}

func (s *Server) handleSetPosition(_ context.Context, _ *mcpsdk.CallToolRequest, args SetPositionInput) (*mcpsdk.CallToolResult, SetPositionOutput, error) {
	if args.Position == "" {
		return nil, SetPositionOutput{}, fmt.Errorf("position is required")
	}

	if err := s.client.SetPosition(args.Position, args.Persist); err != nil {
		return nil, SetPositionOutput{}, err
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Banners pinned to %s", args.Position)},
		},
	}, SetPositionOutput{Position: args.Position, Persisted: args.Persist}, nil
}

func (s *Server) handleListPositions(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListPositionsInput) (*mcpsdk.CallToolResult, ListPositionsOutput, error) {
	data, err := s.client.GetPositions()
	if err != nil {
		return nil, ListPositionsOutput{}, err
	}

	return nil, ListPositionsOutput{
		Positions: data.Positions,
		Active:    data.Active,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.client.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}

	monitors := make([]MonitorInfo, len(data.Monitors))
	for i, m := range data.Monitors {
		monitors[i] = MonitorInfo{
			ID:           m.ID,
			Name:         m.Name,
			X:            m.X,
			Y:            m.Y,
			Width:        m.Width,
			Height:       m.Height,
			UsableWidth:  m.UsableWidth,
			UsableHeight: m.UsableHeight,
		}
	}
	return nil, ListMonitorsOutput{Monitors: monitors}, nil
}
