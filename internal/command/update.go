package command

import (
	"context"

	"github.com/louisbranch/atelier.space/internal/state/event"
)

// UpdateObject replaces the attributes of one object, retaining the prior
// attributes so undo can restore them.
type UpdateObject struct {
	Base
	objectID string
	attrs    map[string]any
	prev     map[string]any
	captured bool
}

// NewUpdateObject creates an update command for the given object id.
func NewUpdateObject(deps Deps, objectID string, attrs map[string]any, meta Metadata) (*UpdateObject, error) {
	base, err := newBase(deps, "update object", meta)
	if err != nil {
		return nil, err
	}
	copied := make(map[string]any, len(attrs))
	for key, value := range attrs {
		copied[key] = value
	}
	return &UpdateObject{Base: base, objectID: objectID, attrs: copied}, nil
}

// TargetIDs lists the addressed object id.
func (c *UpdateObject) TargetIDs() []string {
	return []string{c.objectID}
}

// Retarget rewrites the target id through resolve.
func (c *UpdateObject) Retarget(resolve func(string) string) {
	c.objectID = resolve(c.objectID)
}

// CanExecute reports whether the target object exists.
func (c *UpdateObject) CanExecute(ctx context.Context) bool {
	if c.deps.Graph == nil || c.objectID == "" {
		return false
	}
	_, err := c.deps.Graph.GetObject(ctx, c.objectID)
	return err == nil
}

// Execute captures the prior attributes and applies the new ones.
func (c *UpdateObject) Execute(ctx context.Context) error {
	if !c.CanExecute(ctx) {
		return c.refuse(ctx)
	}
	c.markExecuting()

	if !c.captured {
		obj, err := c.deps.Graph.GetObject(ctx, c.objectID)
		if err != nil {
			return c.completeExecution(ctx, false, err)
		}
		c.prev = obj.Attrs
		c.captured = true
	}

	err := c.deps.Graph.UpdateObject(ctx, c.objectID, c.attrs)
	if err == nil && c.deps.Events != nil {
		_, _ = c.deps.Events.EmitObjectUpdated(ctx, c.id, c.meta.WorkflowID, event.ObjectUpdatedPayload{
			ObjectID: c.objectID,
		})
	}
	return c.completeExecution(ctx, true, err)
}

// CanUndo holds when the update succeeded and prior attributes were kept.
func (c *UpdateObject) CanUndo() bool {
	return c.status == StatusSucceeded && c.captured
}

// Undo restores the prior attributes.
func (c *UpdateObject) Undo(ctx context.Context) error {
	if !c.CanUndo() {
		return c.notUndoable()
	}
	err := c.deps.Graph.UpdateObject(ctx, c.objectID, c.prev)
	if err == nil && c.deps.Events != nil {
		_, _ = c.deps.Events.EmitObjectUpdated(ctx, c.id, c.meta.WorkflowID, event.ObjectUpdatedPayload{
			ObjectID: c.objectID,
		})
	}
	return c.completeUndo(ctx, err)
}

// Redo applies the new attributes again.
func (c *UpdateObject) Redo(ctx context.Context) error {
	return c.redoVia(ctx, c.Execute)
}
