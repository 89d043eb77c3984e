package bbolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/atelier.space/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	record := storage.SnapshotRecord{
		ID:          "snap-1",
		Name:        "before crop",
		Description: "state before the crop pass",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		StateJSON:   []byte(`{"objects":[{"id":"img1","kind":"image"}]}`),
	}
	if err := store.PutSnapshot(ctx, record); err != nil {
		t.Fatalf("put snapshot: %v", err)
	}

	got, err := store.GetSnapshot(ctx, "snap-1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got.Name != record.Name || got.Description != record.Description {
		t.Errorf("unexpected record: %+v", got)
	}
	if !got.CreatedAt.Equal(record.CreatedAt) {
		t.Errorf("expected created at %v, got %v", record.CreatedAt, got.CreatedAt)
	}
	if string(got.StateJSON) != string(record.StateJSON) {
		t.Errorf("unexpected state payload: %s", got.StateJSON)
	}
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.GetSnapshot(ctx, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_DeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	record := storage.SnapshotRecord{
		ID:        "snap-1",
		Name:      "checkpoint",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.PutSnapshot(ctx, record); err != nil {
		t.Fatalf("put snapshot: %v", err)
	}
	if err := store.DeleteSnapshot(ctx, "snap-1"); err != nil {
		t.Fatalf("delete snapshot: %v", err)
	}
	if _, err := store.GetSnapshot(ctx, "snap-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteSnapshot(ctx, "snap-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStore_ListSnapshotsOrdered(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"snap-c", "snap-a", "snap-b"} {
		record := storage.SnapshotRecord{
			ID:        id,
			Name:      id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.PutSnapshot(ctx, record); err != nil {
			t.Fatalf("put snapshot %s: %v", id, err)
		}
	}

	records, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(records))
	}
	want := []string{"snap-c", "snap-a", "snap-b"}
	for i, id := range want {
		if records[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, records[i].ID)
		}
	}
}
