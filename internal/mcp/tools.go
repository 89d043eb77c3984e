package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/command/manager"
	"github.com/louisbranch/atelier.space/internal/platform/id"
	"github.com/louisbranch/atelier.space/internal/selection"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// AddObjectInput represents the MCP tool input for adding an object.
type AddObjectInput struct {
	ObjectID   string         `json:"object_id,omitempty" jsonschema:"optional object id, generated when empty"`
	Kind       string         `json:"kind" jsonschema:"object kind, e.g. image or shape"`
	Attrs      map[string]any `json:"attrs,omitempty" jsonschema:"object attributes"`
	WorkflowID string         `json:"workflow_id,omitempty" jsonschema:"optional workflow to execute within"`
}

// AddObjectResult represents the MCP tool output for adding an object.
type AddObjectResult struct {
	ObjectID  string `json:"object_id" jsonschema:"id of the created object"`
	CommandID string `json:"command_id" jsonschema:"id of the executed command"`
}

// UpdateObjectInput represents the MCP tool input for updating attributes.
type UpdateObjectInput struct {
	ObjectID   string         `json:"object_id" jsonschema:"id of the object to update"`
	Attrs      map[string]any `json:"attrs" jsonschema:"attributes to set on the object"`
	WorkflowID string         `json:"workflow_id,omitempty" jsonschema:"optional workflow to execute within"`
}

// UpdateObjectResult represents the MCP tool output for updating attributes.
type UpdateObjectResult struct {
	ObjectID  string `json:"object_id" jsonschema:"id of the updated object after retargeting"`
	CommandID string `json:"command_id" jsonschema:"id of the executed command"`
}

// RemoveObjectInput represents the MCP tool input for removing an object.
type RemoveObjectInput struct {
	ObjectID   string `json:"object_id" jsonschema:"id of the object to remove"`
	WorkflowID string `json:"workflow_id,omitempty" jsonschema:"optional workflow to execute within"`
}

// RemoveObjectResult represents the MCP tool output for removing an object.
type RemoveObjectResult struct {
	ObjectID  string `json:"object_id" jsonschema:"id of the removed object after retargeting"`
	CommandID string `json:"command_id" jsonschema:"id of the executed command"`
}

// ReplaceObjectInput represents the MCP tool input for replacing an object.
type ReplaceObjectInput struct {
	ObjectID   string         `json:"object_id" jsonschema:"id of the object to replace"`
	NewID      string         `json:"new_id,omitempty" jsonschema:"optional successor id, generated when empty"`
	Kind       string         `json:"kind" jsonschema:"successor object kind"`
	Attrs      map[string]any `json:"attrs,omitempty" jsonschema:"successor attributes"`
	WorkflowID string         `json:"workflow_id,omitempty" jsonschema:"optional workflow to execute within"`
}

// ReplaceObjectResult represents the MCP tool output for replacing an object.
type ReplaceObjectResult struct {
	OldID     string `json:"old_id" jsonschema:"id of the replaced object"`
	NewID     string `json:"new_id" jsonschema:"id of the successor object"`
	CommandID string `json:"command_id" jsonschema:"id of the executed command"`
}

// BatchStep describes one command inside a batch.
type BatchStep struct {
	Op       string         `json:"op" jsonschema:"one of add, update, remove, replace"`
	ObjectID string         `json:"object_id,omitempty" jsonschema:"target object id"`
	NewID    string         `json:"new_id,omitempty" jsonschema:"successor id for replace steps"`
	Kind     string         `json:"kind,omitempty" jsonschema:"object kind for add and replace steps"`
	Attrs    map[string]any `json:"attrs,omitempty" jsonschema:"attributes for the step"`
}

// BatchInput represents the MCP tool input for batch execution.
type BatchInput struct {
	Steps           []BatchStep `json:"steps" jsonschema:"commands to execute in order"`
	Atomic          bool        `json:"atomic,omitempty" jsonschema:"roll back everything when any step fails"`
	ContinueOnError bool        `json:"continue_on_error,omitempty" jsonschema:"keep executing after a failure"`
	WorkflowID      string      `json:"workflow_id,omitempty" jsonschema:"optional workflow to execute within"`
}

// BatchStepResult represents the outcome of one batch step.
type BatchStepResult struct {
	CommandID   string `json:"command_id" jsonschema:"id of the step's command"`
	Description string `json:"description" jsonschema:"human-readable step description"`
	Succeeded   bool   `json:"succeeded" jsonschema:"whether the step applied"`
	RolledBack  bool   `json:"rolled_back" jsonschema:"whether the step was undone by rollback"`
	Error       string `json:"error,omitempty" jsonschema:"failure detail when the step did not apply"`
}

// BatchResult represents the MCP tool output for batch execution.
type BatchResult struct {
	Results []BatchStepResult `json:"results" jsonschema:"per-step outcomes in submission order"`
	Failed  bool              `json:"failed" jsonschema:"whether the batch failed overall"`
}

// HistoryMoveInput represents the MCP tool input for undo and redo.
type HistoryMoveInput struct{}

// HistoryMoveResult represents the MCP tool output for undo and redo.
type HistoryMoveResult struct {
	Cursor  int  `json:"cursor" jsonschema:"number of applied history entries"`
	CanUndo bool `json:"can_undo" jsonschema:"whether another undo is possible"`
	CanRedo bool `json:"can_redo" jsonschema:"whether another redo is possible"`
}

// SelectionResolveInput represents the MCP tool input for identity resolution.
type SelectionResolveInput struct {
	WorkflowID string `json:"workflow_id" jsonschema:"workflow whose mappings to consult"`
	ObjectID   string `json:"object_id" jsonschema:"object id to resolve"`
}

// SelectionResolveResult represents the MCP tool output for resolution.
type SelectionResolveResult struct {
	ObjectID   string `json:"object_id" jsonschema:"the id that was asked about"`
	ResolvedID string `json:"resolved_id" jsonschema:"the current identity of that object"`
}

// WorkflowBeginInput represents the MCP tool input for starting a workflow.
type WorkflowBeginInput struct {
	WorkflowID string   `json:"workflow_id,omitempty" jsonschema:"optional workflow id, generated when empty"`
	ObjectIDs  []string `json:"object_ids" jsonschema:"ids of the currently selected objects"`
}

// WorkflowBeginResult represents the MCP tool output for starting a workflow.
type WorkflowBeginResult struct {
	WorkflowID string `json:"workflow_id" jsonschema:"id of the created workflow context"`
	Selected   int    `json:"selected" jsonschema:"number of objects in the frozen selection"`
}

func addObjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_add_object",
		Description: "Adds an object to the canvas as an undoable command",
	}
}

func updateObjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_update_object",
		Description: "Sets the attributes of a canvas object as an undoable command",
	}
}

func removeObjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_remove_object",
		Description: "Removes a canvas object as an undoable command",
	}
}

func replaceObjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_replace_object",
		Description: "Replaces a canvas object with a successor under a new identity",
	}
}

func batchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_batch",
		Description: "Executes several canvas commands in strict order, optionally atomically",
	}
}

func undoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_undo",
		Description: "Undoes the most recent canvas command",
	}
}

func redoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_redo",
		Description: "Re-applies the most recently undone canvas command",
	}
}

func selectionResolveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "selection_resolve",
		Description: "Resolves an object id through a workflow's identity mappings",
	}
}

func workflowBeginTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "workflow_begin",
		Description: "Freezes the current selection into a new workflow context",
	}
}

// runInWorkflow routes a single command either through the plain execution
// path or, when a workflow is named, through the selection-aware path so that
// retargeting and identity feedback apply.
func runInWorkflow(ctx context.Context, deps Deps, cmd command.Command, workflowID string) error {
	if workflowID == "" {
		return deps.Manager.ExecuteCommand(ctx, cmd)
	}
	snap := selection.NewSnapshot(nil, selection.Bounds{})
	if deps.Selection != nil {
		if info, ok := deps.Selection.Context(workflowID); ok {
			snap = info.Current
		}
	}
	_, err := deps.Manager.ExecuteWithSelectionContext(ctx, []command.Command{cmd}, snap, workflowID)
	return err
}

func agentMetadata(workflowID string) command.Metadata {
	return command.Metadata{WorkflowID: workflowID, Source: event.SourceAgent}
}

func addObjectHandler(deps Deps) mcp.ToolHandlerFor[AddObjectInput, AddObjectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AddObjectInput) (*mcp.CallToolResult, AddObjectResult, error) {
		if input.Kind == "" {
			return nil, AddObjectResult{}, fmt.Errorf("object kind is required")
		}
		cmd, err := command.NewAddObject(deps.Commands, canvas.Object{
			ID:    input.ObjectID,
			Kind:  input.Kind,
			Attrs: input.Attrs,
		}, agentMetadata(input.WorkflowID))
		if err != nil {
			return nil, AddObjectResult{}, fmt.Errorf("build add command: %w", err)
		}
		if err := runInWorkflow(ctx, deps, cmd, input.WorkflowID); err != nil {
			return nil, AddObjectResult{}, failure("add object failed", err)
		}
		return nil, AddObjectResult{ObjectID: cmd.ObjectID(), CommandID: cmd.ID()}, nil
	}
}

func updateObjectHandler(deps Deps) mcp.ToolHandlerFor[UpdateObjectInput, UpdateObjectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateObjectInput) (*mcp.CallToolResult, UpdateObjectResult, error) {
		if input.ObjectID == "" {
			return nil, UpdateObjectResult{}, fmt.Errorf("object id is required")
		}
		cmd, err := command.NewUpdateObject(deps.Commands, input.ObjectID, input.Attrs, agentMetadata(input.WorkflowID))
		if err != nil {
			return nil, UpdateObjectResult{}, fmt.Errorf("build update command: %w", err)
		}
		if err := runInWorkflow(ctx, deps, cmd, input.WorkflowID); err != nil {
			return nil, UpdateObjectResult{}, failure("update object failed", err)
		}
		return nil, UpdateObjectResult{ObjectID: cmd.TargetIDs()[0], CommandID: cmd.ID()}, nil
	}
}

func removeObjectHandler(deps Deps) mcp.ToolHandlerFor[RemoveObjectInput, RemoveObjectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RemoveObjectInput) (*mcp.CallToolResult, RemoveObjectResult, error) {
		if input.ObjectID == "" {
			return nil, RemoveObjectResult{}, fmt.Errorf("object id is required")
		}
		cmd, err := command.NewRemoveObject(deps.Commands, input.ObjectID, agentMetadata(input.WorkflowID))
		if err != nil {
			return nil, RemoveObjectResult{}, fmt.Errorf("build remove command: %w", err)
		}
		if err := runInWorkflow(ctx, deps, cmd, input.WorkflowID); err != nil {
			return nil, RemoveObjectResult{}, failure("remove object failed", err)
		}
		return nil, RemoveObjectResult{ObjectID: cmd.TargetIDs()[0], CommandID: cmd.ID()}, nil
	}
}

func replaceObjectHandler(deps Deps) mcp.ToolHandlerFor[ReplaceObjectInput, ReplaceObjectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReplaceObjectInput) (*mcp.CallToolResult, ReplaceObjectResult, error) {
		if input.ObjectID == "" {
			return nil, ReplaceObjectResult{}, fmt.Errorf("object id is required")
		}
		if input.Kind == "" {
			return nil, ReplaceObjectResult{}, fmt.Errorf("successor kind is required")
		}
		cmd, err := command.NewReplaceObject(deps.Commands, input.ObjectID, canvas.Object{
			ID:    input.NewID,
			Kind:  input.Kind,
			Attrs: input.Attrs,
		}, agentMetadata(input.WorkflowID))
		if err != nil {
			return nil, ReplaceObjectResult{}, fmt.Errorf("build replace command: %w", err)
		}
		if err := runInWorkflow(ctx, deps, cmd, input.WorkflowID); err != nil {
			return nil, ReplaceObjectResult{}, failure("replace object failed", err)
		}
		result := ReplaceObjectResult{CommandID: cmd.ID(), OldID: input.ObjectID, NewID: input.NewID}
		for oldID, newID := range cmd.IdentityReplacements() {
			result.OldID = oldID
			result.NewID = newID
		}
		return nil, result, nil
	}
}

func buildBatchCommands(deps Deps, input BatchInput) ([]command.Command, error) {
	cmds := make([]command.Command, 0, len(input.Steps))
	for i, step := range input.Steps {
		meta := agentMetadata(input.WorkflowID)
		var (
			cmd command.Command
			err error
		)
		switch step.Op {
		case "add":
			cmd, err = command.NewAddObject(deps.Commands, canvas.Object{ID: step.ObjectID, Kind: step.Kind, Attrs: step.Attrs}, meta)
		case "update":
			cmd, err = command.NewUpdateObject(deps.Commands, step.ObjectID, step.Attrs, meta)
		case "remove":
			cmd, err = command.NewRemoveObject(deps.Commands, step.ObjectID, meta)
		case "replace":
			cmd, err = command.NewReplaceObject(deps.Commands, step.ObjectID, canvas.Object{ID: step.NewID, Kind: step.Kind, Attrs: step.Attrs}, meta)
		default:
			return nil, fmt.Errorf("step %d: unknown op %q", i, step.Op)
		}
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func batchHandler(deps Deps) mcp.ToolHandlerFor[BatchInput, BatchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BatchInput) (*mcp.CallToolResult, BatchResult, error) {
		if len(input.Steps) == 0 {
			return nil, BatchResult{}, fmt.Errorf("at least one step is required")
		}
		cmds, err := buildBatchCommands(deps, input)
		if err != nil {
			return nil, BatchResult{}, err
		}

		var results []manager.Result
		var execErr error
		if input.WorkflowID != "" {
			snap := selection.NewSnapshot(nil, selection.Bounds{})
			if deps.Selection != nil {
				if info, ok := deps.Selection.Context(input.WorkflowID); ok {
					snap = info.Current
				}
			}
			results, execErr = deps.Manager.ExecuteWithSelectionContext(ctx, cmds, snap, input.WorkflowID)
		} else {
			results, execErr = deps.Manager.ExecuteBatch(ctx, cmds, manager.BatchOptions{
				Atomic:          input.Atomic,
				ContinueOnError: input.ContinueOnError,
			})
		}

		out := BatchResult{Failed: execErr != nil}
		for _, r := range results {
			step := BatchStepResult{
				CommandID:   r.CommandID,
				Description: r.Description,
				Succeeded:   r.Succeeded,
				RolledBack:  r.RolledBack,
			}
			if r.Err != nil {
				step.Error = r.Err.Error()
			}
			out.Results = append(out.Results, step)
		}
		// The per-step outcomes are the result; a failed batch is not a
		// protocol error.
		return nil, out, nil
	}
}

func undoHandler(deps Deps) mcp.ToolHandlerFor[HistoryMoveInput, HistoryMoveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ HistoryMoveInput) (*mcp.CallToolResult, HistoryMoveResult, error) {
		if deps.History == nil {
			return nil, HistoryMoveResult{}, fmt.Errorf("history is not configured")
		}
		if err := deps.History.Undo(ctx); err != nil {
			return nil, HistoryMoveResult{}, failure("undo failed", err)
		}
		return nil, historyState(deps), nil
	}
}

func redoHandler(deps Deps) mcp.ToolHandlerFor[HistoryMoveInput, HistoryMoveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ HistoryMoveInput) (*mcp.CallToolResult, HistoryMoveResult, error) {
		if deps.History == nil {
			return nil, HistoryMoveResult{}, fmt.Errorf("history is not configured")
		}
		if err := deps.History.Redo(ctx); err != nil {
			return nil, HistoryMoveResult{}, failure("redo failed", err)
		}
		return nil, historyState(deps), nil
	}
}

func historyState(deps Deps) HistoryMoveResult {
	return HistoryMoveResult{
		Cursor:  deps.History.Cursor(),
		CanUndo: deps.History.CanUndo(),
		CanRedo: deps.History.CanRedo(),
	}
}

func selectionResolveHandler(deps Deps) mcp.ToolHandlerFor[SelectionResolveInput, SelectionResolveResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SelectionResolveInput) (*mcp.CallToolResult, SelectionResolveResult, error) {
		if deps.Selection == nil {
			return nil, SelectionResolveResult{}, fmt.Errorf("selection manager is not configured")
		}
		if input.WorkflowID == "" {
			return nil, SelectionResolveResult{}, fmt.Errorf("workflow id is required")
		}
		if input.ObjectID == "" {
			return nil, SelectionResolveResult{}, fmt.Errorf("object id is required")
		}
		return nil, SelectionResolveResult{
			ObjectID:   input.ObjectID,
			ResolvedID: deps.Selection.ResolveObjectID(input.WorkflowID, input.ObjectID),
		}, nil
	}
}

func workflowBeginHandler(deps Deps) mcp.ToolHandlerFor[WorkflowBeginInput, WorkflowBeginResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input WorkflowBeginInput) (*mcp.CallToolResult, WorkflowBeginResult, error) {
		if deps.Selection == nil {
			return nil, WorkflowBeginResult{}, fmt.Errorf("selection manager is not configured")
		}
		workflowID := input.WorkflowID
		if workflowID == "" {
			generated, err := id.NewID()
			if err != nil {
				return nil, WorkflowBeginResult{}, fmt.Errorf("generate workflow id: %w", err)
			}
			workflowID = generated
		}
		snap := selection.NewSnapshot(input.ObjectIDs, selection.Bounds{})
		if err := deps.Selection.CreateContext(workflowID, snap); err != nil {
			return nil, WorkflowBeginResult{}, fmt.Errorf("create workflow context: %w", err)
		}
		return nil, WorkflowBeginResult{WorkflowID: workflowID, Selected: snap.Count()}, nil
	}
}
