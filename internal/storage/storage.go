// Package storage defines the persistence interfaces for the editing core.
//
// It provides a high-level abstraction for the durable event journal and the
// named snapshot checkpoints. Implementations of these interfaces (memory,
// bbolt, sqlite) live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/atelier.space/internal/state/event"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// EventStore durably persists journal events in append order.
type EventStore interface {
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	ListEvents(ctx context.Context) ([]event.Event, error)
	LatestSeq(ctx context.Context) (uint64, error)
}

// SnapshotRecord is one named full-state checkpoint.
type SnapshotRecord struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	// StateJSON is the serialized canvas state captured at creation time.
	StateJSON []byte
}

// SnapshotStore persists named snapshot checkpoints.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, record SnapshotRecord) error
	GetSnapshot(ctx context.Context, id string) (SnapshotRecord, error)
	DeleteSnapshot(ctx context.Context, id string) error
	ListSnapshots(ctx context.Context) ([]SnapshotRecord, error)
}
