// Package memory provides in-memory storage implementations for tests and
// ephemeral editor sessions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/atelier.space/internal/state/event"
	"github.com/louisbranch/atelier.space/internal/storage"
)

// Store keeps journal events and snapshot records in memory.
type Store struct {
	mu        sync.RWMutex
	events    []event.Event
	snapshots map[string]storage.SnapshotRecord
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{snapshots: make(map[string]storage.SnapshotRecord)}
}

// AppendEvent appends one event in arrival order.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if evt.Seq == 0 {
		evt.Seq = uint64(len(s.events)) + 1
	}
	s.events = append(s.events, evt)
	return evt, nil
}

// ListEvents returns a copy of all appended events.
func (s *Store) ListEvents(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

// LatestSeq returns the most recent sequence number, or zero when empty.
func (s *Store) LatestSeq(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		return 0, nil
	}
	return s.events[len(s.events)-1].Seq, nil
}

// PutSnapshot stores one snapshot record.
func (s *Store) PutSnapshot(ctx context.Context, record storage.SnapshotRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("snapshot id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[record.ID] = record
	return nil
}

// GetSnapshot fetches one snapshot record by ID.
func (s *Store) GetSnapshot(ctx context.Context, id string) (storage.SnapshotRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SnapshotRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.snapshots[id]
	if !ok {
		return storage.SnapshotRecord{}, storage.ErrNotFound
	}
	return record, nil
}

// DeleteSnapshot removes one snapshot record by ID.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.snapshots, id)
	return nil
}

// ListSnapshots returns all snapshot records ordered by creation time.
func (s *Store) ListSnapshots(ctx context.Context) ([]storage.SnapshotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]storage.SnapshotRecord, 0, len(s.snapshots))
	for _, record := range s.snapshots {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

var (
	_ storage.EventStore    = (*Store)(nil)
	_ storage.SnapshotStore = (*Store)(nil)
)
