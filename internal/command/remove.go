package command

import (
	"context"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// RemoveObject deletes one object from the graph, retaining a copy so undo
// can restore it object-for-object.
type RemoveObject struct {
	Base
	objectID string
	removed  *canvas.Object
}

// NewRemoveObject creates a remove command targeting the given object id.
func NewRemoveObject(deps Deps, objectID string, meta Metadata) (*RemoveObject, error) {
	base, err := newBase(deps, "remove object", meta)
	if err != nil {
		return nil, err
	}
	return &RemoveObject{Base: base, objectID: objectID}, nil
}

// TargetIDs lists the addressed object id.
func (c *RemoveObject) TargetIDs() []string {
	return []string{c.objectID}
}

// Retarget rewrites the target id through resolve.
func (c *RemoveObject) Retarget(resolve func(string) string) {
	c.objectID = resolve(c.objectID)
}

// CanExecute reports whether the target object exists.
func (c *RemoveObject) CanExecute(ctx context.Context) bool {
	if c.deps.Graph == nil || c.objectID == "" {
		return false
	}
	_, err := c.deps.Graph.GetObject(ctx, c.objectID)
	return err == nil
}

// Execute captures the object and removes it.
func (c *RemoveObject) Execute(ctx context.Context) error {
	if !c.CanExecute(ctx) {
		return c.refuse(ctx)
	}
	c.markExecuting()

	// Capture before removal; redo reuses the same captured copy.
	if c.removed == nil {
		obj, err := c.deps.Graph.GetObject(ctx, c.objectID)
		if err != nil {
			return c.completeExecution(ctx, false, err)
		}
		c.removed = &obj
	}

	err := c.deps.Graph.RemoveObject(ctx, c.objectID)
	if err == nil && c.deps.Events != nil {
		_, _ = c.deps.Events.EmitObjectRemoved(ctx, c.id, c.meta.WorkflowID, event.ObjectRemovedPayload{
			ObjectID: c.objectID,
			Kind:     c.removed.Kind,
		})
	}
	return c.completeExecution(ctx, true, err)
}

// CanUndo holds when the removal succeeded and the object was captured.
func (c *RemoveObject) CanUndo() bool {
	return c.status == StatusSucceeded && c.removed != nil
}

// Undo restores the captured object.
func (c *RemoveObject) Undo(ctx context.Context) error {
	if !c.CanUndo() {
		return c.notUndoable()
	}
	err := c.deps.Graph.AddObject(ctx, c.removed.Clone())
	if err == nil && c.deps.Events != nil {
		_, _ = c.deps.Events.EmitObjectAdded(ctx, c.id, c.meta.WorkflowID, event.ObjectAddedPayload{
			ObjectID: c.removed.ID,
			Kind:     c.removed.Kind,
		})
	}
	return c.completeUndo(ctx, err)
}

// Redo removes the object again.
func (c *RemoveObject) Redo(ctx context.Context) error {
	return c.redoVia(ctx, c.Execute)
}
