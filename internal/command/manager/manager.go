// Package manager serializes command execution and coordinates batches,
// selection-aware workflows, and the history timeline.
//
// One manager owns one editing session: commands pass through a bounded
// admission queue and execute strictly one at a time. The manager never
// mutates the object graph itself; commands do, through their injected
// dependencies.
package manager

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/errors"
	"github.com/louisbranch/atelier.space/internal/selection"
	"github.com/louisbranch/atelier.space/internal/state/history"
)

// DefaultQueueSize bounds how many submissions may wait for the executor.
const DefaultQueueSize = 64

// Config tunes a Manager.
type Config struct {
	// QueueSize caps concurrent admissions. Zero means DefaultQueueSize.
	QueueSize int
	// Timeout bounds a single command execution. Zero disables the bound.
	// A timed-out command's partial effects are not retracted; the
	// failure is reported and the work is abandoned.
	Timeout time.Duration
	// Logger receives rollback diagnostics. Nil means the process logger.
	Logger *log.Logger
}

// Manager runs commands one at a time over a shared object graph.
type Manager struct {
	deps      command.Deps
	history   *history.Store
	selection *selection.Manager
	timeout   time.Duration
	logger    *log.Logger
	tracer    trace.Tracer

	queue chan struct{}

	execMu sync.Mutex

	mu       sync.Mutex
	disposed bool
}

// New wires a manager over its collaborators. The history store and
// selection manager may be nil when the caller does not need undo or
// workflow identity tracking.
func New(deps command.Deps, hist *history.Store, sel *selection.Manager, cfg Config) *Manager {
	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		deps:      deps,
		history:   hist,
		selection: sel,
		timeout:   cfg.Timeout,
		logger:    logger,
		tracer:    otel.Tracer("atelier.space/command/manager"),
		queue:     make(chan struct{}, size),
	}
}

// Dispose permanently disables the manager. All later calls fail with a
// disposed-use error. Dispose is idempotent and does not interrupt a command
// already executing.
func (m *Manager) Dispose() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.disposed = true
	m.mu.Unlock()
}

func (m *Manager) checkDisposed() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return errors.New(errors.CodeManagerDisposed, "command manager has been disposed")
	}
	return nil
}

// admit reserves a queue slot. The returned release must run on every exit
// path so a failed command never leaks capacity.
func (m *Manager) admit() (release func(), err error) {
	select {
	case m.queue <- struct{}{}:
		return func() { <-m.queue }, nil
	default:
		return nil, errors.New(errors.CodeQueueFull, "command queue is full").WithMetadata(map[string]string{
			"capacity": strconv.Itoa(cap(m.queue)),
		})
	}
}

// ExecuteCommand admits, serializes, and runs one command. The command's own
// lifecycle events carry success or failure; the error is returned to the
// caller after bookkeeping either way.
func (m *Manager) ExecuteCommand(ctx context.Context, cmd command.Command) error {
	if m == nil {
		return errors.New(errors.CodeManagerDisposed, "command manager not initialized")
	}
	if err := m.checkDisposed(); err != nil {
		return err
	}
	release, err := m.admit()
	if err != nil {
		return err
	}
	defer release()

	m.execMu.Lock()
	defer m.execMu.Unlock()
	return m.runLocked(ctx, cmd)
}

// runLocked executes one command under the execution lock.
func (m *Manager) runLocked(ctx context.Context, cmd command.Command) error {
	ctx, span := m.tracer.Start(ctx, "command.execute",
		trace.WithAttributes(
			attribute.String("command.id", cmd.ID()),
			attribute.String("command.description", cmd.Describe()),
		),
	)
	defer span.End()

	if m.history != nil {
		m.history.Track(cmd)
	}

	if m.timeout <= 0 {
		err := cmd.Execute(ctx)
		recordSpanError(span, err)
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Execute(cctx)
	}()

	select {
	case err := <-done:
		recordSpanError(span, err)
		return err
	case <-cctx.Done():
		// The abandoned goroutine may still commit partial work; that
		// work stays applied and the command is reported failed.
		err := errors.Wrap(errors.CodeCommandTimeout, "command execution timed out", cctx.Err()).WithMetadata(map[string]string{
			"command_id": cmd.ID(),
			"timeout":    m.timeout.String(),
		})
		recordSpanError(span, err)
		return err
	}
}

func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
}

