package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/atelier.space/internal/platform/id"
)

// Journal is the append target for emitted events.
type Journal interface {
	Append(ctx context.Context, evt Event) (Event, error)
}

// Emitter provides event emission capabilities for state mutations.
type Emitter struct {
	journal     Journal
	now         func() time.Time
	idGenerator func() (string, error)
}

// NewEmitter creates a new event emitter over the journal.
func NewEmitter(journal Journal) *Emitter {
	return &Emitter{
		journal:     journal,
		now:         time.Now,
		idGenerator: id.NewID,
	}
}

// EmitInput describes the input for emitting an event.
type EmitInput struct {
	Type       Type
	CommandID  string
	WorkflowID string
	Source     Source
	EntityType string
	EntityID   string
	Payload    any
}

// Emit appends an event to the journal.
func (e *Emitter) Emit(ctx context.Context, input EmitInput) (Event, error) {
	if e == nil || e.journal == nil {
		return Event{}, fmt.Errorf("event journal is not configured")
	}

	payloadJSON, err := json.Marshal(input.Payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event payload: %w", err)
	}

	eventID, err := e.idGenerator()
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}

	source := input.Source
	if source == "" {
		source = SourceSystem
	}

	evt := Event{
		ID:          eventID,
		Timestamp:   e.now().UTC(),
		Type:        input.Type,
		CommandID:   input.CommandID,
		WorkflowID:  input.WorkflowID,
		Source:      source,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		PayloadJSON: payloadJSON,
	}

	return e.journal.Append(ctx, evt)
}

// EmitCommandExecuted emits a command.executed event.
func (e *Emitter) EmitCommandExecuted(ctx context.Context, commandID, workflowID string, source Source, payload CommandExecutedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeCommandExecuted,
		CommandID:  commandID,
		WorkflowID: workflowID,
		Source:     source,
		EntityType: "command",
		EntityID:   commandID,
		Payload:    payload,
	})
}

// EmitCommandFailed emits a command.failed event.
func (e *Emitter) EmitCommandFailed(ctx context.Context, commandID, workflowID string, source Source, payload CommandFailedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeCommandFailed,
		CommandID:  commandID,
		WorkflowID: workflowID,
		Source:     source,
		EntityType: "command",
		EntityID:   commandID,
		Payload:    payload,
	})
}

// EmitCommandUndone emits a command.undone event.
func (e *Emitter) EmitCommandUndone(ctx context.Context, commandID string, payload CommandUndonePayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeCommandUndone,
		CommandID:  commandID,
		EntityType: "command",
		EntityID:   commandID,
		Payload:    payload,
	})
}

// EmitCommandRedone emits a command.redone event.
func (e *Emitter) EmitCommandRedone(ctx context.Context, commandID string, payload CommandRedonePayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeCommandRedone,
		CommandID:  commandID,
		EntityType: "command",
		EntityID:   commandID,
		Payload:    payload,
	})
}

// EmitObjectAdded emits an object.added event.
func (e *Emitter) EmitObjectAdded(ctx context.Context, commandID, workflowID string, payload ObjectAddedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeObjectAdded,
		CommandID:  commandID,
		WorkflowID: workflowID,
		EntityType: "object",
		EntityID:   payload.ObjectID,
		Payload:    payload,
	})
}

// EmitObjectRemoved emits an object.removed event.
func (e *Emitter) EmitObjectRemoved(ctx context.Context, commandID, workflowID string, payload ObjectRemovedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeObjectRemoved,
		CommandID:  commandID,
		WorkflowID: workflowID,
		EntityType: "object",
		EntityID:   payload.ObjectID,
		Payload:    payload,
	})
}

// EmitObjectUpdated emits an object.updated event.
func (e *Emitter) EmitObjectUpdated(ctx context.Context, commandID, workflowID string, payload ObjectUpdatedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeObjectUpdated,
		CommandID:  commandID,
		WorkflowID: workflowID,
		EntityType: "object",
		EntityID:   payload.ObjectID,
		Payload:    payload,
	})
}

// EmitObjectReplaced emits an object.replaced event recording an identity
// replacement.
func (e *Emitter) EmitObjectReplaced(ctx context.Context, commandID, workflowID string, payload ObjectReplacedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeObjectReplaced,
		CommandID:  commandID,
		WorkflowID: workflowID,
		EntityType: "object",
		EntityID:   payload.NewObjectID,
		Payload:    payload,
	})
}

// EmitSnapshotCreated emits a snapshot.created event.
func (e *Emitter) EmitSnapshotCreated(ctx context.Context, payload SnapshotCreatedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeSnapshotCreated,
		EntityType: "snapshot",
		EntityID:   payload.SnapshotID,
		Payload:    payload,
	})
}

// EmitSnapshotLoaded emits a snapshot.loaded event.
func (e *Emitter) EmitSnapshotLoaded(ctx context.Context, commandID string, payload SnapshotLoadedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeSnapshotLoaded,
		CommandID:  commandID,
		EntityType: "snapshot",
		EntityID:   payload.SnapshotID,
		Payload:    payload,
	})
}

// EmitSnapshotDeleted emits a snapshot.deleted event.
func (e *Emitter) EmitSnapshotDeleted(ctx context.Context, payload SnapshotDeletedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeSnapshotDeleted,
		EntityType: "snapshot",
		EntityID:   payload.SnapshotID,
		Payload:    payload,
	})
}

// EmitHistoryCursorMoved emits a history.cursor_moved event.
func (e *Emitter) EmitHistoryCursorMoved(ctx context.Context, payload HistoryCursorMovedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeHistoryCursorMoved,
		EntityType: "history",
		Payload:    payload,
	})
}

// EmitBatchCompleted emits a batch.completed event.
func (e *Emitter) EmitBatchCompleted(ctx context.Context, workflowID string, source Source, payload BatchCompletedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeBatchCompleted,
		WorkflowID: workflowID,
		Source:     source,
		EntityType: "batch",
		Payload:    payload,
	})
}

// EmitBatchRolledBack emits a batch.rolled_back event.
func (e *Emitter) EmitBatchRolledBack(ctx context.Context, workflowID string, source Source, payload BatchRolledBackPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeBatchRolledBack,
		WorkflowID: workflowID,
		Source:     source,
		EntityType: "batch",
		Payload:    payload,
	})
}
