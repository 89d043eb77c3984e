package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/louisbranch/atelier.space/internal/canvas"
	canvasmemory "github.com/louisbranch/atelier.space/internal/canvas/memory"
	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/errors"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

type harness struct {
	deps    command.Deps
	graph   *canvasmemory.Graph
	log     *event.Log
	emitter *event.Emitter
	store   *Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	graph := canvasmemory.NewGraph()
	log := event.NewLog()
	emitter := event.NewEmitter(log)
	counter := 0
	deps := command.Deps{
		Graph:  graph,
		Events: emitter,
		IDGenerator: func() (string, error) {
			counter++
			return fmt.Sprintf("id-%d", counter), nil
		},
	}
	store := NewStore(log, emitter)
	t.Cleanup(store.Close)
	return &harness{deps: deps, graph: graph, log: log, emitter: emitter, store: store}
}

func (h *harness) addObject(t *testing.T, ctx context.Context, id string) {
	t.Helper()
	cmd, err := command.NewAddObject(h.deps, canvas.Object{ID: id, Kind: "image"}, command.Metadata{})
	if err != nil {
		t.Fatalf("new command: %v", err)
	}
	h.store.Track(cmd)
	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("execute %s: %v", id, err)
	}
}

func TestStore_AddUndoRedoScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.addObject(t, ctx, "img1")

	entries := h.store.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	if !h.store.CanUndo() {
		t.Fatal("expected an undoable entry")
	}

	if err := h.store.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	count, _ := h.graph.ObjectCount(ctx)
	if count != 0 {
		t.Fatalf("expected empty graph after undo, got %d objects", count)
	}
	if !h.store.CanRedo() {
		t.Fatal("expected a redoable entry after undo")
	}

	if err := h.store.Redo(ctx); err != nil {
		t.Fatalf("redo: %v", err)
	}
	obj, err := h.graph.GetObject(ctx, "img1")
	if err != nil {
		t.Fatalf("expected img1 back after redo: %v", err)
	}
	if obj.ID != "img1" {
		t.Fatalf("expected id img1, got %q", obj.ID)
	}
	count, _ = h.graph.ObjectCount(ctx)
	if count != 1 {
		t.Fatalf("expected exactly one object after redo, got %d", count)
	}
}

func TestStore_UndoEmptyTimeline(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if err := h.store.Undo(ctx); !errors.IsCode(err, errors.CodeHistoryNothingToUndo) {
		t.Fatalf("expected nothing-to-undo, got %v", err)
	}
	if err := h.store.Redo(ctx); !errors.IsCode(err, errors.CodeHistoryNothingToRedo) {
		t.Fatalf("expected nothing-to-redo, got %v", err)
	}
}

func TestStore_ExecuteDiscardsForwardSegment(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.addObject(t, ctx, "a")
	h.addObject(t, ctx, "b")

	if err := h.store.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	h.addObject(t, ctx, "c")

	if h.store.CanRedo() {
		t.Fatal("expected the forward segment to be discarded")
	}
	entries := h.store.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if err := h.store.Redo(ctx); !errors.IsCode(err, errors.CodeHistoryNothingToRedo) {
		t.Fatalf("expected nothing-to-redo, got %v", err)
	}

	if _, err := h.graph.GetObject(ctx, "b"); err == nil {
		t.Fatal("expected b to stay undone")
	}
	for _, id := range []string{"a", "c"} {
		if _, err := h.graph.GetObject(ctx, id); err != nil {
			t.Fatalf("expected %s to exist: %v", id, err)
		}
	}
}

func TestStore_FailedCommandNotRecorded(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.addObject(t, ctx, "a")

	dup, err := command.NewAddObject(h.deps, canvas.Object{ID: "a", Kind: "image"}, command.Metadata{})
	if err != nil {
		t.Fatalf("new command: %v", err)
	}
	h.store.Track(dup)
	if err := dup.Execute(ctx); err == nil {
		t.Fatal("expected the duplicate add to fail")
	}

	if got := len(h.store.Entries()); got != 1 {
		t.Fatalf("expected one entry, got %d", got)
	}
}

func TestStore_JumpTo(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.addObject(t, ctx, "a")
	h.addObject(t, ctx, "b")
	h.addObject(t, ctx, "c")

	entries := h.store.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected three entries, got %d", len(entries))
	}

	// Jump back to the first entry, then forward to the last.
	if err := h.store.JumpTo(ctx, entries[0].Seq); err != nil {
		t.Fatalf("jump back: %v", err)
	}
	count, _ := h.graph.ObjectCount(ctx)
	if count != 1 {
		t.Fatalf("expected one object after jumping back, got %d", count)
	}
	if h.store.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", h.store.Cursor())
	}

	if err := h.store.JumpTo(ctx, entries[2].Seq); err != nil {
		t.Fatalf("jump forward: %v", err)
	}
	count, _ = h.graph.ObjectCount(ctx)
	if count != 3 {
		t.Fatalf("expected three objects after jumping forward, got %d", count)
	}

	// Zero rewinds the whole timeline.
	if err := h.store.JumpTo(ctx, 0); err != nil {
		t.Fatalf("jump to origin: %v", err)
	}
	count, _ = h.graph.ObjectCount(ctx)
	if count != 0 {
		t.Fatalf("expected empty graph, got %d objects", count)
	}

	if err := h.store.JumpTo(ctx, 9999); !errors.IsCode(err, errors.CodeHistoryUnknownEntry) {
		t.Fatalf("expected unknown-entry, got %v", err)
	}
}

func TestStore_ExternalUndoRewindsCursor(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	cmd, err := command.NewAddObject(h.deps, canvas.Object{ID: "a", Kind: "image"}, command.Metadata{})
	if err != nil {
		t.Fatalf("new command: %v", err)
	}
	h.store.Track(cmd)
	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if h.store.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", h.store.Cursor())
	}

	// A rollback undoes the command without going through the store; the
	// undone event keeps the cursor in sync.
	if err := cmd.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if h.store.Cursor() != 0 {
		t.Fatalf("expected cursor 0, got %d", h.store.Cursor())
	}
	if !h.store.CanRedo() {
		t.Fatal("expected the entry to be redoable")
	}
	if err := h.store.Redo(ctx); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if h.store.Cursor() != 1 {
		t.Fatalf("expected cursor 1 after redo, got %d", h.store.Cursor())
	}
}

func TestStore_CursorMovedEvents(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.addObject(t, ctx, "a")
	if err := h.store.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}

	var moves []event.Event
	for _, evt := range h.log.Events() {
		if evt.Type == event.TypeHistoryCursorMoved {
			moves = append(moves, evt)
		}
	}
	if len(moves) != 1 {
		t.Fatalf("expected one cursor move event, got %d", len(moves))
	}
}

func TestStore_BatchRollbackDiscardsEntries(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	var cmds []command.Command
	for _, id := range []string{"a", "b"} {
		cmd, err := command.NewAddObject(h.deps, canvas.Object{ID: id, Kind: "image"}, command.Metadata{})
		if err != nil {
			t.Fatalf("new command: %v", err)
		}
		h.store.Track(cmd)
		if err := cmd.Execute(ctx); err != nil {
			t.Fatalf("execute %s: %v", id, err)
		}
		cmds = append(cmds, cmd)
	}
	if len(h.store.Entries()) != 2 {
		t.Fatalf("expected two entries, got %d", len(h.store.Entries()))
	}

	// A rollback undoes the succeeded prefix in reverse order, then records
	// the batch outcome.
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := cmds[i].Undo(ctx); err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
	}
	if _, err := h.emitter.EmitBatchRolledBack(ctx, "", event.SourceUser, event.BatchRolledBackPayload{
		Commands:   3,
		RolledBack: 2,
		FailedStep: 2,
		Error:      "object not found",
	}); err != nil {
		t.Fatalf("emit rolled back: %v", err)
	}

	if got := len(h.store.Entries()); got != 0 {
		t.Fatalf("expected rolled-back entries discarded, got %d", got)
	}
	if h.store.CanRedo() {
		t.Fatal("expected nothing redoable after rollback")
	}
	if err := h.store.Redo(ctx); !errors.IsCode(err, errors.CodeHistoryNothingToRedo) {
		t.Fatalf("expected nothing-to-redo error, got %v", err)
	}
}

func TestStore_BatchRollbackWithoutUndosKeepsRedoSegment(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.addObject(t, ctx, "a")
	if err := h.store.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}

	// A batch whose first command failed rolled nothing back; the existing
	// redo segment stays intact.
	if _, err := h.emitter.EmitBatchRolledBack(ctx, "", event.SourceUser, event.BatchRolledBackPayload{
		Commands:   2,
		RolledBack: 0,
		FailedStep: 0,
		Error:      "object exists",
	}); err != nil {
		t.Fatalf("emit rolled back: %v", err)
	}

	if !h.store.CanRedo() {
		t.Fatal("expected redo segment to survive an empty rollback")
	}
	if got := len(h.store.Entries()); got != 1 {
		t.Fatalf("expected one entry, got %d", got)
	}
}
