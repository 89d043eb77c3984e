package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/atelier.space/internal/state/event"
	"github.com/louisbranch/atelier.space/internal/storage"
)

func TestStore_AppendAssignsSequence(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first, err := store.AppendEvent(ctx, event.Event{ID: "evt-1", Type: "object.added"})
	if err != nil {
		t.Fatalf("append first: %v", err)
	}
	if first.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", first.Seq)
	}

	second, err := store.AppendEvent(ctx, event.Event{ID: "evt-2", Type: "object.removed"})
	if err != nil {
		t.Fatalf("append second: %v", err)
	}
	if second.Seq != 2 {
		t.Fatalf("expected seq 2, got %d", second.Seq)
	}

	latest, err := store.LatestSeq(ctx)
	if err != nil {
		t.Fatalf("latest seq: %v", err)
	}
	if latest != 2 {
		t.Fatalf("expected latest seq 2, got %d", latest)
	}

	events, err := store.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 || events[0].ID != "evt-1" || events[1].ID != "evt-2" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestStore_LatestSeqEmpty(t *testing.T) {
	store := NewStore()

	latest, err := store.LatestSeq(context.Background())
	if err != nil {
		t.Fatalf("latest seq: %v", err)
	}
	if latest != 0 {
		t.Fatalf("expected zero latest seq, got %d", latest)
	}
}

func TestStore_SnapshotLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	records := []storage.SnapshotRecord{
		{ID: "snap-b", Name: "second", CreatedAt: now.Add(time.Minute)},
		{ID: "snap-a", Name: "first", CreatedAt: now},
	}
	for _, record := range records {
		if err := store.PutSnapshot(ctx, record); err != nil {
			t.Fatalf("put snapshot %s: %v", record.ID, err)
		}
	}

	got, err := store.GetSnapshot(ctx, "snap-a")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got.Name != "first" {
		t.Fatalf("expected snapshot name first, got %q", got.Name)
	}

	listed, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "snap-a" || listed[1].ID != "snap-b" {
		t.Fatalf("expected creation-time order, got %+v", listed)
	}

	if err := store.DeleteSnapshot(ctx, "snap-a"); err != nil {
		t.Fatalf("delete snapshot: %v", err)
	}
	if _, err := store.GetSnapshot(ctx, "snap-a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteSnapshot(ctx, "snap-a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated delete, got %v", err)
	}
}

func TestStore_PutSnapshotRequiresID(t *testing.T) {
	store := NewStore()

	if err := store.PutSnapshot(context.Background(), storage.SnapshotRecord{Name: "unnamed"}); err == nil {
		t.Fatal("expected error for snapshot without id")
	}
}
