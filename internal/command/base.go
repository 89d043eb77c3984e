package command

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.space/internal/errors"
	"github.com/louisbranch/atelier.space/internal/selection"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// Base carries the status and event-emission plumbing shared by every
// concrete command. Concrete commands embed it and implement the mutation
// itself.
type Base struct {
	id          string
	description string
	status      Status
	meta        Metadata
	deps        Deps

	selectionSnap    selection.Snapshot
	hasSelectionSnap bool

	// replaying marks a redo in flight so lifecycle events carry the
	// redone type instead of executed.
	replaying bool
}

// newBase mints a command identity and prepares the shared plumbing.
func newBase(deps Deps, description string, meta Metadata) (Base, error) {
	commandID, err := deps.generateID()
	if err != nil {
		return Base{}, fmt.Errorf("generate command id: %w", err)
	}
	return Base{
		id:          commandID,
		description: description,
		status:      StatusPending,
		meta:        meta,
		deps:        deps,
	}, nil
}

// ID returns the command's stable identity.
func (b *Base) ID() string {
	return b.id
}

// Describe returns the human-readable description.
func (b *Base) Describe() string {
	return b.description
}

// Status returns the current lifecycle status.
func (b *Base) Status() Status {
	return b.status
}

// Metadata returns the caller-supplied metadata.
func (b *Base) Metadata() Metadata {
	return b.meta
}

// SetSelectionContext stamps the command with a workflow id and snapshot.
func (b *Base) SetSelectionContext(workflowID string, snap selection.Snapshot) {
	b.meta.WorkflowID = workflowID
	b.selectionSnap = snap
	b.hasSelectionSnap = true
}

// SelectionSnapshot returns the stamped snapshot, if any.
func (b *Base) SelectionSnapshot() (selection.Snapshot, bool) {
	return b.selectionSnap, b.hasSelectionSnap
}

// refuse records a validation refusal: no mutation happened, the command is
// simply not runnable in the current state.
func (b *Base) refuse(ctx context.Context) error {
	b.status = StatusFailed
	err := errors.New(errors.CodeCommandValidationRefused, "command cannot execute in the current state").WithMetadata(map[string]string{
		"Description": b.description,
	})
	b.emitFailed(ctx, err)
	return err
}

// markExecuting transitions the command into the executing state.
func (b *Base) markExecuting() {
	b.status = StatusExecuting
}

// completeExecution finishes an execution attempt: it transitions status,
// emits the lifecycle event, and wraps mutation failures in a domain error.
func (b *Base) completeExecution(ctx context.Context, undoable bool, execErr error) error {
	if execErr != nil {
		b.status = StatusFailed
		wrapped := errors.Wrap(errors.CodeCommandExecutionFailed, b.description, execErr).WithMetadata(map[string]string{
			"Description": b.description,
		})
		b.emitFailed(ctx, wrapped)
		return wrapped
	}

	b.status = StatusSucceeded
	if b.deps.Events != nil {
		if b.replaying {
			_, _ = b.deps.Events.EmitCommandRedone(ctx, b.id, event.CommandRedonePayload{
				Description: b.description,
			})
		} else {
			_, _ = b.deps.Events.EmitCommandExecuted(ctx, b.id, b.meta.WorkflowID, b.source(), event.CommandExecutedPayload{
				Description: b.description,
				Undoable:    undoable,
			})
		}
	}
	return nil
}

// completeUndo finishes an undo attempt.
func (b *Base) completeUndo(ctx context.Context, undoErr error) error {
	if undoErr != nil {
		return errors.Wrap(errors.CodeCommandExecutionFailed, "undo "+b.description, undoErr).WithMetadata(map[string]string{
			"Description": b.description,
		})
	}
	b.status = StatusUndone
	if b.deps.Events != nil {
		_, _ = b.deps.Events.EmitCommandUndone(ctx, b.id, event.CommandUndonePayload{
			Description: b.description,
		})
	}
	return nil
}

// notUndoable reports an undo attempt on a command that cannot reverse.
func (b *Base) notUndoable() error {
	return errors.New(errors.CodeCommandNotUndoable, "command cannot be undone").WithMetadata(map[string]string{
		"Description": b.description,
	})
}

// redoVia replays the command through its own execute path while marking
// the attempt as a redo, so lifecycle events carry the redone type and no
// new identities are minted.
func (b *Base) redoVia(ctx context.Context, execute func(context.Context) error) error {
	if b.status != StatusUndone {
		return errors.New(errors.CodeCommandNotExecuted, "command has not been undone").WithMetadata(map[string]string{
			"Description": b.description,
		})
	}
	b.replaying = true
	defer func() { b.replaying = false }()
	return execute(ctx)
}

func (b *Base) emitFailed(ctx context.Context, failure error) {
	if b.deps.Events == nil {
		return
	}
	_, _ = b.deps.Events.EmitCommandFailed(ctx, b.id, b.meta.WorkflowID, b.source(), event.CommandFailedPayload{
		Description: b.description,
		ErrorCode:   string(errors.GetCode(failure)),
		Error:       failure.Error(),
	})
}

func (b *Base) source() event.Source {
	if b.meta.Source == "" {
		return event.SourceUser
	}
	return b.meta.Source
}
