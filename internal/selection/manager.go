package selection

import (
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/atelier.space/internal/errors"
)

// DefaultTTL is the sliding time-to-live of a workflow context.
const DefaultTTL = 5 * time.Minute

// defaultSweepInterval controls how often expired contexts are swept.
const defaultSweepInterval = time.Minute

// maxResolveHops bounds mapping-chain traversal. Path compression keeps
// chains short; the bound guards against malformed cyclic input.
const maxResolveHops = 8

// workflowContext tracks one workflow's selection identity state.
type workflowContext struct {
	workflowID string
	original   Snapshot
	current    Snapshot
	// parent holds identity-replacement edges (old id -> new id),
	// compressed toward the final id on resolution.
	parent    map[string]string
	createdAt time.Time
	expiresAt time.Time
}

// Manager owns per-workflow selection contexts with sliding expiration.
//
// The manager is constructed explicitly and injected where needed; its sweep
// timer stops when Close is called, so teardown is deterministic.
type Manager struct {
	mu       sync.Mutex
	contexts map[string]*workflowContext
	ttl      time.Duration
	clock    func() time.Time

	sweepInterval time.Duration
	done          chan struct{}
	closeOnce     sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL overrides the sliding time-to-live for new contexts.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock injects a clock, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithSweepInterval overrides the periodic sweep cadence.
func WithSweepInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.sweepInterval = interval
		}
	}
}

// NewManager creates a selection context manager and starts its sweep timer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		contexts:      make(map[string]*workflowContext),
		ttl:           DefaultTTL,
		clock:         time.Now,
		sweepInterval: defaultSweepInterval,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.sweepLoop()
	return m
}

// Close stops the sweep timer. The manager remains usable for lookups, but
// owners are expected to discard it after closing.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep removes every expired context. It only ever deletes entries, so it
// is safe to interleave with command execution.
func (m *Manager) Sweep() int {
	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for workflowID, wctx := range m.contexts {
		if now.After(wctx.expiresAt) {
			delete(m.contexts, workflowID)
			removed++
		}
	}
	return removed
}

// CreateContext registers a new context for the workflow, replacing any
// previous context under the same id.
func (m *Manager) CreateContext(workflowID string, snap Snapshot) error {
	workflowID = strings.TrimSpace(workflowID)
	if workflowID == "" {
		return errors.New(errors.CodeSelectionEmptyWorkflowID, "workflow id is required")
	}

	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts[workflowID] = &workflowContext{
		workflowID: workflowID,
		original:   snap,
		current:    snap,
		parent:     make(map[string]string),
		createdAt:  now,
		expiresAt:  now.Add(m.ttl),
	}
	return nil
}

// UpdateObjectMapping records one identity-replacement edge and slides the
// context's expiration forward. A context is created lazily when the
// workflow id has not been seen before.
func (m *Manager) UpdateObjectMapping(workflowID, oldID, newID string) error {
	workflowID = strings.TrimSpace(workflowID)
	if workflowID == "" {
		return errors.New(errors.CodeSelectionEmptyWorkflowID, "workflow id is required")
	}
	if oldID == "" || newID == "" || oldID == newID {
		return nil
	}

	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	wctx := m.activeContext(workflowID, now)
	if wctx == nil {
		wctx = &workflowContext{
			workflowID: workflowID,
			parent:     make(map[string]string),
			createdAt:  now,
		}
		m.contexts[workflowID] = wctx
	}
	wctx.parent[oldID] = newID
	wctx.current = wctx.current.Remap(func(id string) string {
		return resolveChain(wctx.parent, id)
	})
	wctx.expiresAt = now.Add(m.ttl)
	return nil
}

// UpdateSnapshot refines the workflow's current selection and slides the
// context's expiration forward.
func (m *Manager) UpdateSnapshot(workflowID string, snap Snapshot) error {
	workflowID = strings.TrimSpace(workflowID)
	if workflowID == "" {
		return errors.New(errors.CodeSelectionEmptyWorkflowID, "workflow id is required")
	}

	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	wctx := m.activeContext(workflowID, now)
	if wctx == nil {
		wctx = &workflowContext{
			workflowID: workflowID,
			original:   snap,
			parent:     make(map[string]string),
			createdAt:  now,
		}
		m.contexts[workflowID] = wctx
	}
	wctx.current = snap
	wctx.expiresAt = now.Add(m.ttl)
	return nil
}

// ResolveObjectID follows identity-replacement edges transitively and
// returns the final id. Absence of a mapping is not a failure: unknown ids
// and expired workflows resolve to the input id unchanged.
func (m *Manager) ResolveObjectID(workflowID, id string) string {
	workflowID = strings.TrimSpace(workflowID)
	if workflowID == "" || id == "" {
		return id
	}

	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	wctx := m.activeContext(workflowID, now)
	if wctx == nil {
		return id
	}

	resolved := resolveChain(wctx.parent, id)
	// Path compression: point every id on the walked chain directly at the
	// final id so later resolutions take a single hop.
	for current := id; current != resolved; {
		next := wctx.parent[current]
		wctx.parent[current] = resolved
		current = next
	}
	return resolved
}

// ContextInfo describes one active workflow context.
type ContextInfo struct {
	WorkflowID string
	Original   Snapshot
	Current    Snapshot
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Context returns the active context for the workflow, if any. Expired
// contexts are indistinguishable from ones that never existed.
func (m *Manager) Context(workflowID string) (ContextInfo, bool) {
	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	wctx := m.activeContext(strings.TrimSpace(workflowID), now)
	if wctx == nil {
		return ContextInfo{}, false
	}
	return ContextInfo{
		WorkflowID: wctx.workflowID,
		Original:   wctx.original,
		Current:    wctx.current,
		CreatedAt:  wctx.createdAt,
		ExpiresAt:  wctx.expiresAt,
	}, true
}

// activeContext returns the context for the workflow, deleting it lazily
// when expired. Callers must hold the mutex.
func (m *Manager) activeContext(workflowID string, now time.Time) *workflowContext {
	wctx, ok := m.contexts[workflowID]
	if !ok {
		return nil
	}
	if now.After(wctx.expiresAt) {
		delete(m.contexts, workflowID)
		return nil
	}
	return wctx
}

// resolveChain follows mapping edges up to maxResolveHops. The bound keeps
// traversal finite even for cyclic input; a chain cut off at the bound
// returns the last id reached.
func resolveChain(parent map[string]string, id string) string {
	current := id
	for hop := 0; hop < maxResolveHops; hop++ {
		next, ok := parent[current]
		if !ok || next == current {
			return current
		}
		if next == id {
			// Cycle back to the origin; treat the mapping as unresolved.
			return id
		}
		current = next
	}
	return current
}
