// Package mcp exposes the editing core to agents over the Model Context
// Protocol.
//
// Tools run in-process against the command manager, so agent mutations flow
// through the same queue, history, and selection machinery as user actions.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/command/manager"
	"github.com/louisbranch/atelier.space/internal/selection"
	"github.com/louisbranch/atelier.space/internal/state/event"
	"github.com/louisbranch/atelier.space/internal/state/history"
	"github.com/louisbranch/atelier.space/internal/state/snapshot"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Atelier Canvas MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Deps bundles the collaborators the tool handlers need.
type Deps struct {
	Manager   *manager.Manager
	History   *history.Store
	Selection *selection.Manager
	Snapshots *snapshot.Manager
	Commands  command.Deps
	Graph     canvas.Graph
	Log       *event.Log
}

// Server hosts the MCP surface.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server with every canvas tool registered.
func New(deps Deps) (*Server, error) {
	if deps.Manager == nil {
		return nil, fmt.Errorf("command manager is required")
	}
	if deps.Graph == nil {
		return nil, fmt.Errorf("object graph is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, addObjectTool(), addObjectHandler(deps))
	mcp.AddTool(mcpServer, updateObjectTool(), updateObjectHandler(deps))
	mcp.AddTool(mcpServer, removeObjectTool(), removeObjectHandler(deps))
	mcp.AddTool(mcpServer, replaceObjectTool(), replaceObjectHandler(deps))
	mcp.AddTool(mcpServer, batchTool(), batchHandler(deps))
	mcp.AddTool(mcpServer, undoTool(), undoHandler(deps))
	mcp.AddTool(mcpServer, redoTool(), redoHandler(deps))
	mcp.AddTool(mcpServer, selectionResolveTool(), selectionResolveHandler(deps))
	mcp.AddTool(mcpServer, workflowBeginTool(), workflowBeginHandler(deps))
	mcp.AddTool(mcpServer, snapshotCreateTool(), snapshotCreateHandler(deps))
	mcp.AddTool(mcpServer, snapshotLoadTool(), snapshotLoadHandler(deps))
	mcp.AddTool(mcpServer, snapshotDeleteTool(), snapshotDeleteHandler(deps))
	mcp.AddTool(mcpServer, snapshotListTool(), snapshotListHandler(deps))

	mcpServer.AddResource(objectsResource(), objectsResourceHandler(deps))
	mcpServer.AddResource(eventsResource(), eventsResourceHandler(deps))

	return &Server{mcpServer: mcpServer}, nil
}

// Serve runs the MCP server over stdio until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
