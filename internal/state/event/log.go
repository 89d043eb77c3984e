package event

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// Store defines the interface for durably persisting appended events.
type Store interface {
	AppendEvent(ctx context.Context, evt Event) (Event, error)
}

// Subscriber receives events in append order.
type Subscriber func(Event)

// Log is the append-only, strictly ordered event journal with
// publish/subscribe fan-out. An optional Store persists events durably;
// the in-memory sequence remains the source of ordering truth.
type Log struct {
	mu          sync.RWMutex
	events      []Event
	subscribers map[int]Subscriber
	nextSubID   int
	store       Store
}

// Option configures a Log.
type Option func(*Log)

// WithStore backs the log with a durable event store.
func WithStore(store Store) Option {
	return func(l *Log) { l.store = store }
}

// NewLog creates an empty event log.
func NewLog(opts ...Option) *Log {
	l := &Log{subscribers: make(map[int]Subscriber)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append assigns the next sequence number and chain hash, persists the
// event when a store is configured, and fans it out to subscribers in
// append order. The returned event is the immutable appended record.
func (l *Log) Append(ctx context.Context, evt Event) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	l.mu.Lock()
	evt.Seq = uint64(len(l.events)) + 1
	prevHash := ""
	if len(l.events) > 0 {
		prevHash = l.events[len(l.events)-1].Hash
	}
	evt.Hash = chainHash(prevHash, evt)

	if l.store != nil {
		stored, err := l.store.AppendEvent(ctx, evt)
		if err != nil {
			l.mu.Unlock()
			return Event{}, fmt.Errorf("persist event: %w", err)
		}
		evt = stored
	}

	l.events = append(l.events, evt)
	subscribers := make([]Subscriber, 0, len(l.subscribers))
	for id := 0; id < l.nextSubID; id++ {
		if fn, ok := l.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	l.mu.Unlock()

	for _, fn := range subscribers {
		fn(evt)
	}
	return evt, nil
}

// Subscribe registers a subscriber and returns its cancel function.
// Subscribers are invoked synchronously in append order.
func (l *Log) Subscribe(fn Subscriber) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextSubID
	l.nextSubID++
	l.subscribers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subscribers, id)
		l.mu.Unlock()
	}
}

// Events returns a copy of the full ordered sequence.
func (l *Log) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Since returns a copy of all events with Seq greater than seq.
func (l *Log) Since(seq uint64) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Event
	for _, evt := range l.events {
		if evt.Seq > seq {
			out = append(out, evt)
		}
	}
	return out
}

// LatestSeq returns the sequence number of the most recent event, or zero
// for an empty log.
func (l *Log) LatestSeq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.events) == 0 {
		return 0
	}
	return l.events[len(l.events)-1].Seq
}

// Len returns the number of appended events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// chainHash links an event to its predecessor. The hash covers the previous
// hash, position, type, and payload so any reordering breaks the chain.
func chainHash(prevHash string, evt Event) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%s|%s|%s", prevHash, evt.Seq, evt.Type, evt.EntityID, evt.PayloadJSON)
	return hex.EncodeToString(h.Sum(nil))[:32]
}
