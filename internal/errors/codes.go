// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Command errors
	CodeCommandValidationRefused Code = "COMMAND_VALIDATION_REFUSED"
	CodeCommandExecutionFailed   Code = "COMMAND_EXECUTION_FAILED"
	CodeCommandNotUndoable       Code = "COMMAND_NOT_UNDOABLE"
	CodeCommandNotExecuted       Code = "COMMAND_NOT_EXECUTED"
	CodeCommandTimeout           Code = "COMMAND_TIMEOUT"

	// Manager errors
	CodeBatchFailed     Code = "BATCH_FAILED"
	CodeQueueFull       Code = "QUEUE_FULL"
	CodeManagerDisposed Code = "MANAGER_DISPOSED"

	// History errors
	CodeHistoryNothingToUndo Code = "HISTORY_NOTHING_TO_UNDO"
	CodeHistoryNothingToRedo Code = "HISTORY_NOTHING_TO_REDO"
	CodeHistoryUnknownEntry  Code = "HISTORY_UNKNOWN_ENTRY"

	// Snapshot errors
	CodeSnapshotEmptyName Code = "SNAPSHOT_EMPTY_NAME"

	// Selection errors
	CodeSelectionEmptyWorkflowID Code = "SELECTION_EMPTY_WORKFLOW_ID"

	// Object graph errors
	CodeObjectExists   Code = "OBJECT_EXISTS"
	CodeObjectNotFound Code = "OBJECT_NOT_FOUND"
	CodeObjectEmptyID  Code = "OBJECT_EMPTY_ID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
