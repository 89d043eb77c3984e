// Package history maintains the linear undo/redo timeline over the event
// journal.
//
// The store subscribes to the journal and records one entry per successful,
// undoable command execution. A cursor separates applied entries from undone
// ones. Executing a new command while the cursor sits behind the end of the
// timeline discards the forward segment; the discarded commands are never
// redoable again.
package history

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/errors"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// Entry is one undoable step on the timeline.
type Entry struct {
	// Seq is the journal position of the execution event.
	Seq uint64
	// CommandID identifies the command behind this entry.
	CommandID string
	// Description is the command's human-readable description.
	Description string

	cmd command.Command
}

// Store is the linear history over a single event journal.
type Store struct {
	// opMu serializes undo, redo, and jump operations. The inner mu only
	// guards the entry list so the journal subscriber never blocks on a
	// running operation.
	opMu sync.Mutex

	mu      sync.Mutex
	entries []Entry
	cursor  int
	pending map[string]command.Command

	emitter     *event.Emitter
	unsubscribe func()
}

// NewStore subscribes a history store to the journal. Callers must Close the
// store when done to release the subscription.
func NewStore(log *event.Log, emitter *event.Emitter) *Store {
	s := &Store{
		pending: make(map[string]command.Command),
		emitter: emitter,
	}
	s.unsubscribe = log.Subscribe(s.observe)
	return s
}

// Close releases the journal subscription.
func (s *Store) Close() {
	if s == nil || s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
}

// Track registers a command about to execute so that its execution event can
// be matched back to the command for later undo. The command manager calls
// this immediately before Execute.
func (s *Store) Track(cmd command.Command) {
	if s == nil || cmd == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[cmd.ID()] = cmd
}

// observe reacts to journal events. First executions extend the timeline;
// undone and redone events move the cursor, so reversals performed outside
// the store stay reflected here. An atomic batch rollback additionally
// discards the entries it undid, keeping the failed batch out of the redo
// path.
func (s *Store) observe(evt event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch evt.Type {
	case event.TypeCommandExecuted:
		cmd, ok := s.pending[evt.CommandID]
		if !ok {
			return
		}
		delete(s.pending, evt.CommandID)
		if !cmd.CanUndo() {
			return
		}
		// A new execution invalidates everything ahead of the cursor.
		s.entries = append(s.entries[:s.cursor], Entry{
			Seq:         evt.Seq,
			CommandID:   evt.CommandID,
			Description: cmd.Describe(),
			cmd:         cmd,
		})
		s.cursor = len(s.entries)
	case event.TypeCommandFailed:
		delete(s.pending, evt.CommandID)
	case event.TypeCommandUndone:
		if s.cursor > 0 && s.entries[s.cursor-1].CommandID == evt.CommandID {
			s.cursor--
		}
	case event.TypeCommandRedone:
		if s.cursor < len(s.entries) && s.entries[s.cursor].CommandID == evt.CommandID {
			s.cursor++
		}
	case event.TypeBatchRolledBack:
		var payload event.BatchRolledBackPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		if payload.RolledBack == 0 {
			return
		}
		// The rolled-back commands were undone one by one, rewinding the
		// cursor past them, and the batch's first execution already
		// discarded any older forward segment. Everything ahead of the
		// cursor is therefore the rolled-back prefix; drop it so it can
		// never be redone piecemeal.
		s.entries = s.entries[:s.cursor]
	}
}

// CanUndo reports whether at least one applied entry exists.
func (s *Store) CanUndo() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor > 0
}

// CanRedo reports whether at least one undone entry exists ahead of the
// cursor.
func (s *Store) CanRedo() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor < len(s.entries)
}

// Cursor returns the number of currently applied entries.
func (s *Store) Cursor() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Entries returns a copy of the timeline in execution order.
func (s *Store) Entries() []Entry {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Undo reverses the most recent applied entry and moves the cursor back.
func (s *Store) Undo(ctx context.Context) error {
	if s == nil {
		return errors.New(errors.CodeHistoryNothingToUndo, "history store not initialized")
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.undoOne(ctx); err != nil {
		return err
	}
	return s.emitCursorMoved(ctx)
}

// Redo re-applies the entry just ahead of the cursor.
func (s *Store) Redo(ctx context.Context) error {
	if s == nil {
		return errors.New(errors.CodeHistoryNothingToRedo, "history store not initialized")
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.redoOne(ctx); err != nil {
		return err
	}
	return s.emitCursorMoved(ctx)
}

// JumpTo moves the cursor so that the entry recorded at journal position seq
// is the last applied one, undoing or redoing every intervening entry
// strictly in order. A seq of zero undoes the entire timeline.
func (s *Store) JumpTo(ctx context.Context, seq uint64) error {
	if s == nil {
		return errors.New(errors.CodeHistoryUnknownEntry, "history store not initialized")
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	target := 0
	if seq != 0 {
		target = -1
		s.mu.Lock()
		for i, entry := range s.entries {
			if entry.Seq == seq {
				target = i + 1
				break
			}
		}
		s.mu.Unlock()
		if target < 0 {
			return errors.New(errors.CodeHistoryUnknownEntry, "no history entry at requested position").WithMetadata(map[string]string{
				"seq": formatSeq(seq),
			})
		}
	}

	moved := false
	for s.Cursor() > target {
		if err := s.undoOne(ctx); err != nil {
			return err
		}
		moved = true
	}
	for s.Cursor() < target {
		if err := s.redoOne(ctx); err != nil {
			return err
		}
		moved = true
	}
	if !moved {
		return nil
	}
	return s.emitCursorMoved(ctx)
}

func (s *Store) undoOne(ctx context.Context) error {
	s.mu.Lock()
	if s.cursor == 0 {
		s.mu.Unlock()
		return errors.New(errors.CodeHistoryNothingToUndo, "nothing to undo")
	}
	entry := s.entries[s.cursor-1]
	s.mu.Unlock()

	// The cursor moves when the resulting undone event is observed.
	if err := entry.cmd.Undo(ctx); err != nil {
		return errors.Wrap(errors.CodeCommandExecutionFailed, "undo history entry", err)
	}
	return nil
}

func (s *Store) redoOne(ctx context.Context) error {
	s.mu.Lock()
	if s.cursor >= len(s.entries) {
		s.mu.Unlock()
		return errors.New(errors.CodeHistoryNothingToRedo, "nothing to redo")
	}
	entry := s.entries[s.cursor]
	s.mu.Unlock()

	// The cursor moves when the resulting redone event is observed.
	if err := entry.cmd.Redo(ctx); err != nil {
		return errors.Wrap(errors.CodeCommandExecutionFailed, "redo history entry", err)
	}
	return nil
}

func formatSeq(seq uint64) string {
	return strconv.FormatUint(seq, 10)
}

func (s *Store) emitCursorMoved(ctx context.Context) error {
	if s.emitter == nil {
		return nil
	}
	s.mu.Lock()
	payload := event.HistoryCursorMovedPayload{
		Cursor:  s.cursor,
		Length:  len(s.entries),
		CanUndo: s.cursor > 0,
		CanRedo: s.cursor < len(s.entries),
	}
	s.mu.Unlock()

	if _, err := s.emitter.EmitHistoryCursorMoved(ctx, payload); err != nil {
		return errors.Wrap(errors.CodeCommandExecutionFailed, "record cursor move", err)
	}
	return nil
}
