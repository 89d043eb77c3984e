// Package snapshot manages named full-state checkpoints.
//
// Checkpoints live outside the linear history: creating or deleting one does
// not disturb the undo cursor. Restoring one runs as a single undoable
// command, so a user can undo a whole restore in one step.
package snapshot

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/errors"
	"github.com/louisbranch/atelier.space/internal/platform/id"
	"github.com/louisbranch/atelier.space/internal/state/event"
	"github.com/louisbranch/atelier.space/internal/storage"
)

// Executor runs a command through the serialized execution pipeline.
type Executor interface {
	ExecuteCommand(ctx context.Context, cmd command.Command) error
}

// Manager creates, restores, and deletes named checkpoints.
type Manager struct {
	store    storage.SnapshotStore
	graph    canvas.Graph
	emitter  *event.Emitter
	executor Executor

	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects the time source used for checkpoint timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithIDGenerator injects the identity source used for checkpoint ids.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(m *Manager) {
		m.idGenerator = gen
	}
}

// NewManager wires a checkpoint manager over its collaborators. The executor
// is used only by Load; a nil executor makes Load return an error.
func NewManager(store storage.SnapshotStore, graph canvas.Graph, emitter *event.Emitter, executor Executor, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		graph:       graph,
		emitter:     emitter,
		executor:    executor,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create captures the full current state under a name. The checkpoint does
// not enter the history timeline.
func (m *Manager) Create(ctx context.Context, name, description string) (storage.SnapshotRecord, error) {
	if m == nil {
		return storage.SnapshotRecord{}, errors.New(errors.CodeCommandExecutionFailed, "snapshot manager not initialized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.SnapshotRecord{}, errors.New(errors.CodeSnapshotEmptyName, "snapshot name is required")
	}

	state, err := m.graph.ExportState(ctx)
	if err != nil {
		return storage.SnapshotRecord{}, errors.Wrap(errors.CodeCommandExecutionFailed, "export state", err)
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return storage.SnapshotRecord{}, errors.Wrap(errors.CodeCommandExecutionFailed, "serialize state", err)
	}
	snapshotID, err := m.idGenerator()
	if err != nil {
		return storage.SnapshotRecord{}, errors.Wrap(errors.CodeCommandExecutionFailed, "generate snapshot id", err)
	}

	record := storage.SnapshotRecord{
		ID:          snapshotID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   m.clock(),
		StateJSON:   stateJSON,
	}
	if err := m.store.PutSnapshot(ctx, record); err != nil {
		return storage.SnapshotRecord{}, errors.Wrap(errors.CodeCommandExecutionFailed, "persist snapshot", err)
	}

	if m.emitter != nil {
		if _, err := m.emitter.EmitSnapshotCreated(ctx, event.SnapshotCreatedPayload{
			SnapshotID: record.ID,
			Name:       record.Name,
		}); err != nil {
			return storage.SnapshotRecord{}, errors.Wrap(errors.CodeCommandExecutionFailed, "record snapshot creation", err)
		}
	}
	return record, nil
}

// Load restores a checkpoint by running a single load command through the
// executor, so the restore occupies exactly one undoable history entry.
func (m *Manager) Load(ctx context.Context, deps command.Deps, snapshotID string, meta command.Metadata) error {
	if m == nil || m.executor == nil {
		return errors.New(errors.CodeCommandExecutionFailed, "snapshot manager has no executor")
	}
	record, err := m.store.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return errors.Wrap(errors.CodeNotFound, "load snapshot", err).WithMetadata(map[string]string{
			"snapshot_id": snapshotID,
		})
	}

	var state canvas.State
	if err := json.Unmarshal(record.StateJSON, &state); err != nil {
		return errors.Wrap(errors.CodeCommandExecutionFailed, "decode snapshot state", err)
	}

	cmd, err := command.NewLoadSnapshot(deps, record.ID, record.Name, state, meta)
	if err != nil {
		return errors.Wrap(errors.CodeCommandExecutionFailed, "build load command", err)
	}
	return m.executor.ExecuteCommand(ctx, cmd)
}

// Delete removes a checkpoint. History entries are unaffected.
func (m *Manager) Delete(ctx context.Context, snapshotID string) error {
	if m == nil {
		return errors.New(errors.CodeCommandExecutionFailed, "snapshot manager not initialized")
	}
	if err := m.store.DeleteSnapshot(ctx, snapshotID); err != nil {
		return errors.Wrap(errors.CodeNotFound, "delete snapshot", err).WithMetadata(map[string]string{
			"snapshot_id": snapshotID,
		})
	}
	if m.emitter != nil {
		if _, err := m.emitter.EmitSnapshotDeleted(ctx, event.SnapshotDeletedPayload{
			SnapshotID: snapshotID,
		}); err != nil {
			return errors.Wrap(errors.CodeCommandExecutionFailed, "record snapshot deletion", err)
		}
	}
	return nil
}

// List returns all checkpoints known to the store.
func (m *Manager) List(ctx context.Context) ([]storage.SnapshotRecord, error) {
	if m == nil {
		return nil, errors.New(errors.CodeCommandExecutionFailed, "snapshot manager not initialized")
	}
	records, err := m.store.ListSnapshots(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCommandExecutionFailed, "list snapshots", err)
	}
	return records, nil
}
