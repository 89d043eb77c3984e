// Package command defines the reversible unit of work for the editing core.
//
// A Command wraps one object-graph mutation with status tracking and event
// emission. Commands are constructed by callers, borrowed by the command
// manager for the duration of execution or undo, and never mutate the graph
// through any channel other than their injected dependencies.
package command

import (
	"context"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/platform/id"
	"github.com/louisbranch/atelier.space/internal/selection"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// Status tracks a command through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusExecuting Status = "executing"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusUndone    Status = "undone"
)

// Metadata carries caller-supplied context about a command.
type Metadata struct {
	// WorkflowID groups commands belonging to one multi-step workflow.
	WorkflowID string
	// Source identifies what invoked the command.
	Source event.Source
	// Mergeable marks commands that may be coalesced with adjacent ones.
	Mergeable bool
	// AffectsSelection marks commands that change the current selection.
	AffectsSelection bool
}

// Deps bundles the collaborators a command needs: the object-graph mutation
// API and the event publisher. Commands only reach the outside world through
// this bundle.
type Deps struct {
	Graph  canvas.Graph
	Events *event.Emitter
	// IDGenerator mints identities; defaults to the platform generator.
	IDGenerator func() (string, error)
}

func (d Deps) generateID() (string, error) {
	if d.IDGenerator != nil {
		return d.IDGenerator()
	}
	return id.NewID()
}

// Command is an undoable, replayable unit of object-graph mutation.
type Command interface {
	// ID is the command's stable identity.
	ID() string
	// Describe returns a human-readable description.
	Describe() string
	// Status returns the current lifecycle status.
	Status() Status
	// Metadata returns the caller-supplied metadata.
	Metadata() Metadata
	// SetSelectionContext stamps the command with a workflow id and the
	// frozen selection snapshot captured at workflow start.
	SetSelectionContext(workflowID string, snap selection.Snapshot)
	// SelectionSnapshot returns the stamped snapshot, if any.
	SelectionSnapshot() (selection.Snapshot, bool)

	// CanExecute reports whether the mutation is valid in the current
	// state. Returning false performs no mutation and is not an error.
	CanExecute(ctx context.Context) bool
	// Execute performs the mutation, transitioning status and emitting a
	// success or failure notification.
	Execute(ctx context.Context) error
	// CanUndo reports whether the command retained enough information to
	// reverse itself.
	CanUndo() bool
	// Undo reverses the mutation. Only callable when CanUndo holds.
	Undo(ctx context.Context) error
	// Redo re-applies the mutation, reusing any identifiers assigned at
	// first execution. Redo must not mint new identities.
	Redo(ctx context.Context) error
}

// Retargetable is implemented by commands whose target object ids may be
// resolved through a workflow's selection context before execution.
type Retargetable interface {
	// TargetIDs lists the object ids the command addresses.
	TargetIDs() []string
	// Retarget rewrites the command's target ids through resolve.
	Retarget(resolve func(string) string)
}

// IdentityReplacer is implemented by commands that destroy an object and
// recreate it under a new identity.
type IdentityReplacer interface {
	// IdentityReplacements returns old id to new id mappings established
	// by the last execution.
	IdentityReplacements() map[string]string
}
