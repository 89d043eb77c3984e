// Package event defines the append-only event journal for the editing core.
//
// Every state mutation performed by a command is recorded as an immutable
// Event. Events are strictly ordered by sequence number and, once appended,
// are never mutated or reordered. The history store and presentation layers
// consume the journal through subscriptions.
package event

import (
	"encoding/json"
	"time"
)

// Type identifies the kind of state change an event records.
type Type string

const (
	// Command lifecycle events.
	TypeCommandExecuted Type = "command.executed"
	TypeCommandFailed   Type = "command.failed"
	TypeCommandUndone   Type = "command.undone"
	TypeCommandRedone   Type = "command.redone"

	// Object graph events.
	TypeObjectAdded    Type = "object.added"
	TypeObjectRemoved  Type = "object.removed"
	TypeObjectUpdated  Type = "object.updated"
	TypeObjectReplaced Type = "object.replaced"

	// Snapshot events.
	TypeSnapshotCreated Type = "snapshot.created"
	TypeSnapshotLoaded  Type = "snapshot.loaded"
	TypeSnapshotDeleted Type = "snapshot.deleted"

	// History cursor events.
	TypeHistoryCursorMoved Type = "history.cursor_moved"

	// Batch lifecycle events.
	TypeBatchCompleted  Type = "batch.completed"
	TypeBatchRolledBack Type = "batch.rolled_back"
)

// Source identifies what initiated the recorded change.
type Source string

const (
	// SourceUser marks changes initiated by a direct user action.
	SourceUser Source = "user"
	// SourceAgent marks changes initiated by an automated workflow agent.
	SourceAgent Source = "agent"
	// SourceSystem marks changes initiated by the system itself.
	SourceSystem Source = "system"
)

// Event is one immutable record in the journal.
type Event struct {
	// ID is a stable identifier for the event.
	ID string `json:"id"`
	// Seq is the strictly increasing journal position, starting at 1.
	Seq uint64 `json:"seq"`
	// Hash chains the event to its predecessor for integrity checks.
	Hash string `json:"hash"`
	// Timestamp is the UTC time the event was appended.
	Timestamp time.Time `json:"timestamp"`
	// Type tags the kind of change.
	Type Type `json:"type"`
	// CommandID links the event to the command that produced it.
	CommandID string `json:"command_id,omitempty"`
	// WorkflowID links the event to a multi-step workflow, when present.
	WorkflowID string `json:"workflow_id,omitempty"`
	// Source identifies what initiated the change.
	Source Source `json:"source"`
	// EntityType and EntityID address the affected domain entity.
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	// PayloadJSON carries the type-specific payload.
	PayloadJSON json.RawMessage `json:"payload,omitempty"`
}

// CommandExecutedPayload describes a successful command execution.
type CommandExecutedPayload struct {
	Description string `json:"description"`
	Undoable    bool   `json:"undoable"`
}

// CommandFailedPayload describes a failed command execution.
type CommandFailedPayload struct {
	Description string `json:"description"`
	ErrorCode   string `json:"error_code"`
	Error       string `json:"error"`
}

// CommandUndonePayload describes a command reversal.
type CommandUndonePayload struct {
	Description string `json:"description"`
}

// CommandRedonePayload describes a command replay.
type CommandRedonePayload struct {
	Description string `json:"description"`
}

// ObjectAddedPayload describes an object insertion.
type ObjectAddedPayload struct {
	ObjectID string `json:"object_id"`
	Kind     string `json:"kind"`
}

// ObjectRemovedPayload describes an object deletion.
type ObjectRemovedPayload struct {
	ObjectID string `json:"object_id"`
	Kind     string `json:"kind"`
}

// ObjectUpdatedPayload describes an attribute update.
type ObjectUpdatedPayload struct {
	ObjectID string `json:"object_id"`
}

// ObjectReplacedPayload describes an identity replacement: the old object
// was destroyed and a successor carrying a new id took its place.
type ObjectReplacedPayload struct {
	OldObjectID string `json:"old_object_id"`
	NewObjectID string `json:"new_object_id"`
	Kind        string `json:"kind"`
}

// SnapshotCreatedPayload describes a named checkpoint capture.
type SnapshotCreatedPayload struct {
	SnapshotID string `json:"snapshot_id"`
	Name       string `json:"name"`
}

// SnapshotLoadedPayload describes a wholesale state restore.
type SnapshotLoadedPayload struct {
	SnapshotID string `json:"snapshot_id"`
	Name       string `json:"name"`
}

// SnapshotDeletedPayload describes a checkpoint removal.
type SnapshotDeletedPayload struct {
	SnapshotID string `json:"snapshot_id"`
}

// HistoryCursorMovedPayload describes an undo/redo cursor transition.
type HistoryCursorMovedPayload struct {
	Cursor  int  `json:"cursor"`
	Length  int  `json:"length"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// BatchCompletedPayload summarizes a finished batch.
type BatchCompletedPayload struct {
	Commands  int  `json:"commands"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	Atomic    bool `json:"atomic"`
}

// BatchRolledBackPayload summarizes an atomic rollback.
type BatchRolledBackPayload struct {
	Commands   int    `json:"commands"`
	RolledBack int    `json:"rolled_back"`
	FailedStep int    `json:"failed_step"`
	Error      string `json:"error"`
}
