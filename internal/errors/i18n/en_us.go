package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeCommandValidationRefused = "COMMAND_VALIDATION_REFUSED"
	CodeCommandExecutionFailed   = "COMMAND_EXECUTION_FAILED"
	CodeCommandNotUndoable       = "COMMAND_NOT_UNDOABLE"
	CodeCommandNotExecuted       = "COMMAND_NOT_EXECUTED"
	CodeCommandTimeout           = "COMMAND_TIMEOUT"
	CodeBatchFailed              = "BATCH_FAILED"
	CodeQueueFull                = "QUEUE_FULL"
	CodeManagerDisposed          = "MANAGER_DISPOSED"
	CodeHistoryNothingToUndo     = "HISTORY_NOTHING_TO_UNDO"
	CodeHistoryNothingToRedo     = "HISTORY_NOTHING_TO_REDO"
	CodeHistoryUnknownEntry      = "HISTORY_UNKNOWN_ENTRY"
	CodeSnapshotEmptyName        = "SNAPSHOT_EMPTY_NAME"
	CodeSelectionEmptyWorkflowID = "SELECTION_EMPTY_WORKFLOW_ID"
	CodeObjectExists             = "OBJECT_EXISTS"
	CodeObjectNotFound           = "OBJECT_NOT_FOUND"
	CodeObjectEmptyID            = "OBJECT_EMPTY_ID"
	CodeNotFound                 = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Command errors
		CodeCommandValidationRefused: "The operation {{.Description}} cannot run in the current state",
		CodeCommandExecutionFailed:   "The operation {{.Description}} failed",
		CodeCommandNotUndoable:       "The operation {{.Description}} cannot be undone",
		CodeCommandNotExecuted:       "The operation has not been executed yet",
		CodeCommandTimeout:           "The operation {{.Description}} timed out",

		// Manager errors
		CodeBatchFailed:     "Step {{.FailedStep}} of the batch failed",
		CodeQueueFull:       "Too many operations are pending, try again shortly",
		CodeManagerDisposed: "The editor session has been closed",

		// History errors
		CodeHistoryNothingToUndo: "There is nothing to undo",
		CodeHistoryNothingToRedo: "There is nothing to redo",
		CodeHistoryUnknownEntry:  "The requested history position does not exist",

		// Snapshot errors
		CodeSnapshotEmptyName: "Snapshot name cannot be empty",

		// Selection errors
		CodeSelectionEmptyWorkflowID: "Workflow ID is required",

		// Object graph errors
		CodeObjectExists:   "An object with ID {{.ObjectID}} already exists",
		CodeObjectNotFound: "Object {{.ObjectID}} was not found",
		CodeObjectEmptyID:  "Object ID cannot be empty",

		// Storage errors
		CodeNotFound: "The requested record was not found",
	},
}
