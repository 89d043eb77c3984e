package command

import (
	"context"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// AddObject inserts one object into the graph. Undo removes it again; redo
// re-inserts the object under its original id.
type AddObject struct {
	Base
	obj canvas.Object
}

// NewAddObject creates an add command. When the object carries no id, one
// is minted at construction time so redo never regenerates it.
func NewAddObject(deps Deps, obj canvas.Object, meta Metadata) (*AddObject, error) {
	base, err := newBase(deps, "add "+obj.Kind, meta)
	if err != nil {
		return nil, err
	}
	if obj.ID == "" {
		objectID, err := deps.generateID()
		if err != nil {
			return nil, err
		}
		obj.ID = objectID
	}
	return &AddObject{Base: base, obj: obj.Clone()}, nil
}

// ObjectID returns the id the object is (or will be) inserted under.
func (c *AddObject) ObjectID() string {
	return c.obj.ID
}

// CanExecute reports whether the insert is valid: the id must be free.
func (c *AddObject) CanExecute(ctx context.Context) bool {
	if c.deps.Graph == nil {
		return false
	}
	_, err := c.deps.Graph.GetObject(ctx, c.obj.ID)
	return err != nil
}

// Execute inserts the object and records the change.
func (c *AddObject) Execute(ctx context.Context) error {
	if !c.CanExecute(ctx) {
		return c.refuse(ctx)
	}
	c.markExecuting()

	err := c.deps.Graph.AddObject(ctx, c.obj.Clone())
	if err == nil && c.deps.Events != nil {
		_, _ = c.deps.Events.EmitObjectAdded(ctx, c.id, c.meta.WorkflowID, event.ObjectAddedPayload{
			ObjectID: c.obj.ID,
			Kind:     c.obj.Kind,
		})
	}
	return c.completeExecution(ctx, true, err)
}

// CanUndo holds once the insert succeeded.
func (c *AddObject) CanUndo() bool {
	return c.status == StatusSucceeded
}

// Undo removes the inserted object.
func (c *AddObject) Undo(ctx context.Context) error {
	if !c.CanUndo() {
		return c.notUndoable()
	}
	err := c.deps.Graph.RemoveObject(ctx, c.obj.ID)
	if err == nil && c.deps.Events != nil {
		_, _ = c.deps.Events.EmitObjectRemoved(ctx, c.id, c.meta.WorkflowID, event.ObjectRemovedPayload{
			ObjectID: c.obj.ID,
			Kind:     c.obj.Kind,
		})
	}
	return c.completeUndo(ctx, err)
}

// Redo re-inserts the object under its original id.
func (c *AddObject) Redo(ctx context.Context) error {
	return c.redoVia(ctx, c.Execute)
}
