package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SnapshotCreateInput represents the MCP tool input for creating a checkpoint.
type SnapshotCreateInput struct {
	Name        string `json:"name" jsonschema:"name for the checkpoint"`
	Description string `json:"description,omitempty" jsonschema:"optional description"`
}

// SnapshotCreateResult represents the MCP tool output for creating a checkpoint.
type SnapshotCreateResult struct {
	SnapshotID string `json:"snapshot_id" jsonschema:"id of the created checkpoint"`
	Name       string `json:"name" jsonschema:"name of the checkpoint"`
	CreatedAt  string `json:"created_at" jsonschema:"creation time in RFC 3339"`
}

// SnapshotLoadInput represents the MCP tool input for restoring a checkpoint.
type SnapshotLoadInput struct {
	SnapshotID string `json:"snapshot_id" jsonschema:"id of the checkpoint to restore"`
}

// SnapshotLoadResult represents the MCP tool output for restoring a checkpoint.
type SnapshotLoadResult struct {
	SnapshotID string `json:"snapshot_id" jsonschema:"id of the restored checkpoint"`
}

// SnapshotDeleteInput represents the MCP tool input for deleting a checkpoint.
type SnapshotDeleteInput struct {
	SnapshotID string `json:"snapshot_id" jsonschema:"id of the checkpoint to delete"`
}

// SnapshotDeleteResult represents the MCP tool output for deleting a checkpoint.
type SnapshotDeleteResult struct {
	SnapshotID string `json:"snapshot_id" jsonschema:"id of the deleted checkpoint"`
}

// SnapshotListInput represents the MCP tool input for listing checkpoints.
type SnapshotListInput struct{}

// SnapshotListEntry describes one checkpoint.
type SnapshotListEntry struct {
	SnapshotID  string `json:"snapshot_id" jsonschema:"id of the checkpoint"`
	Name        string `json:"name" jsonschema:"name of the checkpoint"`
	Description string `json:"description,omitempty" jsonschema:"checkpoint description"`
	CreatedAt   string `json:"created_at" jsonschema:"creation time in RFC 3339"`
}

// SnapshotListResult represents the MCP tool output for listing checkpoints.
type SnapshotListResult struct {
	Snapshots []SnapshotListEntry `json:"snapshots" jsonschema:"known checkpoints"`
}

func snapshotCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snapshot_create",
		Description: "Captures the full canvas state as a named checkpoint",
	}
}

func snapshotLoadTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snapshot_load",
		Description: "Restores a named checkpoint as a single undoable command",
	}
}

func snapshotDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snapshot_delete",
		Description: "Deletes a named checkpoint without touching history",
	}
}

func snapshotListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snapshot_list",
		Description: "Lists every named checkpoint",
	}
}

func snapshotCreateHandler(deps Deps) mcp.ToolHandlerFor[SnapshotCreateInput, SnapshotCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SnapshotCreateInput) (*mcp.CallToolResult, SnapshotCreateResult, error) {
		if deps.Snapshots == nil {
			return nil, SnapshotCreateResult{}, fmt.Errorf("snapshots are not configured")
		}
		record, err := deps.Snapshots.Create(ctx, input.Name, input.Description)
		if err != nil {
			return nil, SnapshotCreateResult{}, failure("create snapshot failed", err)
		}
		return nil, SnapshotCreateResult{
			SnapshotID: record.ID,
			Name:       record.Name,
			CreatedAt:  record.CreatedAt.Format(time.RFC3339),
		}, nil
	}
}

func snapshotLoadHandler(deps Deps) mcp.ToolHandlerFor[SnapshotLoadInput, SnapshotLoadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SnapshotLoadInput) (*mcp.CallToolResult, SnapshotLoadResult, error) {
		if deps.Snapshots == nil {
			return nil, SnapshotLoadResult{}, fmt.Errorf("snapshots are not configured")
		}
		if input.SnapshotID == "" {
			return nil, SnapshotLoadResult{}, fmt.Errorf("snapshot id is required")
		}
		if err := deps.Snapshots.Load(ctx, deps.Commands, input.SnapshotID, agentMetadata("")); err != nil {
			return nil, SnapshotLoadResult{}, failure("load snapshot failed", err)
		}
		return nil, SnapshotLoadResult{SnapshotID: input.SnapshotID}, nil
	}
}

func snapshotDeleteHandler(deps Deps) mcp.ToolHandlerFor[SnapshotDeleteInput, SnapshotDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SnapshotDeleteInput) (*mcp.CallToolResult, SnapshotDeleteResult, error) {
		if deps.Snapshots == nil {
			return nil, SnapshotDeleteResult{}, fmt.Errorf("snapshots are not configured")
		}
		if input.SnapshotID == "" {
			return nil, SnapshotDeleteResult{}, fmt.Errorf("snapshot id is required")
		}
		if err := deps.Snapshots.Delete(ctx, input.SnapshotID); err != nil {
			return nil, SnapshotDeleteResult{}, failure("delete snapshot failed", err)
		}
		return nil, SnapshotDeleteResult{SnapshotID: input.SnapshotID}, nil
	}
}

func snapshotListHandler(deps Deps) mcp.ToolHandlerFor[SnapshotListInput, SnapshotListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SnapshotListInput) (*mcp.CallToolResult, SnapshotListResult, error) {
		if deps.Snapshots == nil {
			return nil, SnapshotListResult{}, fmt.Errorf("snapshots are not configured")
		}
		records, err := deps.Snapshots.List(ctx)
		if err != nil {
			return nil, SnapshotListResult{}, failure("list snapshots failed", err)
		}
		result := SnapshotListResult{}
		for _, record := range records {
			result.Snapshots = append(result.Snapshots, SnapshotListEntry{
				SnapshotID:  record.ID,
				Name:        record.Name,
				Description: record.Description,
				CreatedAt:   record.CreatedAt.Format(time.RFC3339),
			})
		}
		return nil, result, nil
	}
}
