package command

import (
	"context"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// ReplaceObject destroys one object and inserts a successor carrying a new
// identity, as a transform step does when it cannot edit in place. The
// replacement is reported through IdentityReplacements so a workflow's
// selection context keeps pointing at the same logical object.
type ReplaceObject struct {
	Base
	oldID    string
	newID    string
	obj      canvas.Object
	replaced *canvas.Object
}

// NewReplaceObject creates a replace command. The successor's id is minted
// at construction time so redo reuses it.
func NewReplaceObject(deps Deps, oldID string, successor canvas.Object, meta Metadata) (*ReplaceObject, error) {
	base, err := newBase(deps, "replace "+successor.Kind, meta)
	if err != nil {
		return nil, err
	}
	if successor.ID == "" {
		newID, err := deps.generateID()
		if err != nil {
			return nil, err
		}
		successor.ID = newID
	}
	return &ReplaceObject{
		Base:  base,
		oldID: oldID,
		newID: successor.ID,
		obj:   successor.Clone(),
	}, nil
}

// NewObjectID returns the successor's id.
func (c *ReplaceObject) NewObjectID() string {
	return c.newID
}

// TargetIDs lists the addressed object id.
func (c *ReplaceObject) TargetIDs() []string {
	return []string{c.oldID}
}

// Retarget rewrites the target id through resolve.
func (c *ReplaceObject) Retarget(resolve func(string) string) {
	c.oldID = resolve(c.oldID)
}

// IdentityReplacements reports the old to new id mapping once executed.
func (c *ReplaceObject) IdentityReplacements() map[string]string {
	if c.status != StatusSucceeded {
		return nil
	}
	return map[string]string{c.oldID: c.newID}
}

// CanExecute reports whether the predecessor exists and the successor id
// is free.
func (c *ReplaceObject) CanExecute(ctx context.Context) bool {
	if c.deps.Graph == nil || c.oldID == "" || c.oldID == c.newID {
		return false
	}
	if _, err := c.deps.Graph.GetObject(ctx, c.oldID); err != nil {
		return false
	}
	_, err := c.deps.Graph.GetObject(ctx, c.newID)
	return err != nil
}

// Execute removes the predecessor and inserts the successor.
func (c *ReplaceObject) Execute(ctx context.Context) error {
	if !c.CanExecute(ctx) {
		return c.refuse(ctx)
	}
	c.markExecuting()

	if c.replaced == nil {
		obj, err := c.deps.Graph.GetObject(ctx, c.oldID)
		if err != nil {
			return c.completeExecution(ctx, false, err)
		}
		c.replaced = &obj
	}

	if err := c.deps.Graph.RemoveObject(ctx, c.oldID); err != nil {
		return c.completeExecution(ctx, false, err)
	}
	err := c.deps.Graph.AddObject(ctx, c.obj.Clone())
	if err != nil {
		// Best effort: put the predecessor back so a failed replace does
		// not leave the graph with neither object.
		_ = c.deps.Graph.AddObject(ctx, c.replaced.Clone())
		return c.completeExecution(ctx, false, err)
	}

	if c.deps.Events != nil {
		_, _ = c.deps.Events.EmitObjectReplaced(ctx, c.id, c.meta.WorkflowID, event.ObjectReplacedPayload{
			OldObjectID: c.oldID,
			NewObjectID: c.newID,
			Kind:        c.obj.Kind,
		})
	}
	return c.completeExecution(ctx, true, nil)
}

// CanUndo holds when the replacement succeeded and the predecessor was
// captured.
func (c *ReplaceObject) CanUndo() bool {
	return c.status == StatusSucceeded && c.replaced != nil
}

// Undo removes the successor and restores the predecessor.
func (c *ReplaceObject) Undo(ctx context.Context) error {
	if !c.CanUndo() {
		return c.notUndoable()
	}
	if err := c.deps.Graph.RemoveObject(ctx, c.newID); err != nil {
		return c.completeUndo(ctx, err)
	}
	err := c.deps.Graph.AddObject(ctx, c.replaced.Clone())
	if err == nil && c.deps.Events != nil {
		_, _ = c.deps.Events.EmitObjectReplaced(ctx, c.id, c.meta.WorkflowID, event.ObjectReplacedPayload{
			OldObjectID: c.newID,
			NewObjectID: c.oldID,
			Kind:        c.replaced.Kind,
		})
	}
	return c.completeUndo(ctx, err)
}

// Redo applies the replacement again, reusing the successor id minted at
// construction.
func (c *ReplaceObject) Redo(ctx context.Context) error {
	return c.redoVia(ctx, c.Execute)
}
