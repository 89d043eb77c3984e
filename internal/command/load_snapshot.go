package command

import (
	"context"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// LoadSnapshot replaces the live object graph wholesale with a previously
// captured state. The prior state is exported first so the load is a single
// undoable action in the linear history.
type LoadSnapshot struct {
	Base
	snapshotID string
	name       string
	target     canvas.State
	prev       canvas.State
	captured   bool
}

// NewLoadSnapshot creates a load command for the given snapshot state.
func NewLoadSnapshot(deps Deps, snapshotID, name string, target canvas.State, meta Metadata) (*LoadSnapshot, error) {
	base, err := newBase(deps, "load snapshot "+name, meta)
	if err != nil {
		return nil, err
	}
	return &LoadSnapshot{
		Base:       base,
		snapshotID: snapshotID,
		name:       name,
		target:     target,
	}, nil
}

// CanExecute holds whenever a graph is configured; loading an empty state
// is a valid wholesale replacement.
func (c *LoadSnapshot) CanExecute(ctx context.Context) bool {
	return c.deps.Graph != nil && ctx.Err() == nil
}

// Execute captures the current state and imports the snapshot state.
func (c *LoadSnapshot) Execute(ctx context.Context) error {
	if !c.CanExecute(ctx) {
		return c.refuse(ctx)
	}
	c.markExecuting()

	if !c.captured {
		prev, err := c.deps.Graph.ExportState(ctx)
		if err != nil {
			return c.completeExecution(ctx, false, err)
		}
		c.prev = prev
		c.captured = true
	}

	err := c.deps.Graph.ImportState(ctx, c.target)
	if err == nil && c.deps.Events != nil {
		_, _ = c.deps.Events.EmitSnapshotLoaded(ctx, c.id, event.SnapshotLoadedPayload{
			SnapshotID: c.snapshotID,
			Name:       c.name,
		})
	}
	return c.completeExecution(ctx, true, err)
}

// CanUndo holds when the load succeeded and the prior state was captured.
func (c *LoadSnapshot) CanUndo() bool {
	return c.status == StatusSucceeded && c.captured
}

// Undo restores the state captured before the load.
func (c *LoadSnapshot) Undo(ctx context.Context) error {
	if !c.CanUndo() {
		return c.notUndoable()
	}
	err := c.deps.Graph.ImportState(ctx, c.prev)
	return c.completeUndo(ctx, err)
}

// Redo imports the snapshot state again.
func (c *LoadSnapshot) Redo(ctx context.Context) error {
	return c.redoVia(ctx, c.Execute)
}
