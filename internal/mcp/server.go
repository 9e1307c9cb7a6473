// Package mcp exposes the daemon's controls as MCP tools over stdio, so
// assistants can inspect and move the banner through the same IPC surface
// the CLI uses.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bannerpin/bannerpin/internal/ipc"
)

const (
	ServerName    = "bannerpin"
	ServerVersion = "0.1.0"
)

// daemonClient is the IPC surface the tools proxy to.
type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	SetPosition(position string, persist bool) error
	GetPositions() (*ipc.PositionsData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

// Server is the MCP server for banner control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    daemonClient
}

// NewServer creates a new MCP server talking to the running daemon.
func NewServer() *Server {
	s := &Server{client: ipc.NewClient()}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the banner daemon's status: subscription state, active position, whether the notifier is running, and move statistics.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_position",
		Description: "Move notification banners to one of the nine screen positions (top-left through bottom-right). Optionally persist the choice to the config file.",
	}, s.handleSetPosition)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_positions",
		Description: "List the nine valid banner positions and which one is currently active.",
	}, s.handleListPositions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected monitors with their full and usable geometry.",
	}, s.handleListMonitors)
}
