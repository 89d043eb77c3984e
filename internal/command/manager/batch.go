package manager

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/errors"
	"github.com/louisbranch/atelier.space/internal/state/event"
)

// BatchOptions controls failure handling inside ExecuteBatch.
type BatchOptions struct {
	// Atomic rolls back every succeeded command, in reverse order, when
	// any command fails.
	Atomic bool
	// ContinueOnError records failures and keeps executing the remaining
	// commands. Combined with Atomic, every step still runs before the
	// rollback undoes whatever succeeded.
	ContinueOnError bool
}

// Result is the outcome of one command inside a batch.
type Result struct {
	CommandID   string
	Description string
	Succeeded   bool
	// RolledBack marks commands undone by an atomic rollback.
	RolledBack bool
	// RollbackFailed marks commands whose rollback undo itself failed.
	RollbackFailed bool
	Err            error
}

// BatchError reports a failed batch together with every per-command outcome.
type BatchError struct {
	Results []Result

	err error
}

func (e *BatchError) Error() string {
	failed := 0
	for _, r := range e.Results {
		if r.Err != nil {
			failed++
		}
	}
	return fmt.Sprintf("batch failed: %d of %d commands failed", failed, len(e.Results))
}

func (e *BatchError) Unwrap() error { return e.err }

// ExecuteBatch runs commands in strict submission order under a single queue
// admission. Failure handling follows opts; see BatchOptions. A non-nil
// error is always a *BatchError carrying the full outcome list.
func (m *Manager) ExecuteBatch(ctx context.Context, cmds []command.Command, opts BatchOptions) ([]Result, error) {
	if m == nil {
		return nil, errors.New(errors.CodeManagerDisposed, "command manager not initialized")
	}
	if err := m.checkDisposed(); err != nil {
		return nil, err
	}
	if len(cmds) == 0 {
		return nil, nil
	}
	release, err := m.admit()
	if err != nil {
		return nil, err
	}
	defer release()

	m.execMu.Lock()
	defer m.execMu.Unlock()

	ctx, span := m.tracer.Start(ctx, "command.execute_batch",
		trace.WithAttributes(
			attribute.Int("batch.size", len(cmds)),
			attribute.Bool("batch.atomic", opts.Atomic),
		),
	)
	defer span.End()

	results := make([]Result, 0, len(cmds))
	var firstErr error
	failedStep := -1

	for i, cmd := range cmds {
		res := Result{CommandID: cmd.ID(), Description: cmd.Describe()}

		if firstErr != nil && !opts.ContinueOnError {
			// Atomic and stop-on-first-failure batches skip the
			// remainder; the skipped commands never ran.
			res.Err = errors.New(errors.CodeCommandNotExecuted, "skipped after earlier batch failure")
			results = append(results, res)
			continue
		}

		if err := m.runLocked(ctx, cmd); err != nil {
			res.Err = err
			if firstErr == nil {
				firstErr = err
				failedStep = i
			}
		} else {
			res.Succeeded = true
		}
		results = append(results, res)
	}

	if firstErr == nil {
		m.emitBatchCompleted(ctx, cmds, results, opts)
		return results, nil
	}

	if opts.Atomic {
		m.rollback(ctx, cmds, results, failedStep, firstErr)
	} else if opts.ContinueOnError {
		m.emitBatchCompleted(ctx, cmds, results, opts)
	}

	span.RecordError(firstErr)
	return results, &BatchError{
		Results: results,
		err:     errors.Wrap(errors.CodeBatchFailed, "execute batch", firstErr),
	}
}

// rollback undoes the succeeded prefix in reverse order. Undo failures are
// recorded and logged; the rollback keeps going so as much state as possible
// is restored.
func (m *Manager) rollback(ctx context.Context, cmds []command.Command, results []Result, failedStep int, cause error) {
	rolledBack := 0
	for i := len(results) - 1; i >= 0; i-- {
		if !results[i].Succeeded {
			continue
		}
		if err := cmds[i].Undo(ctx); err != nil {
			results[i].RollbackFailed = true
			results[i].Err = err
			m.logger.Printf("batch rollback: undo %s failed: %v", cmds[i].ID(), err)
			continue
		}
		results[i].RolledBack = true
		rolledBack++
	}

	if m.deps.Events == nil {
		return
	}
	meta := cmds[failedStep].Metadata()
	if _, err := m.deps.Events.EmitBatchRolledBack(ctx, meta.WorkflowID, meta.Source, event.BatchRolledBackPayload{
		Commands:   len(cmds),
		RolledBack: rolledBack,
		FailedStep: failedStep,
		Error:      cause.Error(),
	}); err != nil {
		m.logger.Printf("batch rollback: record event: %v", err)
	}
}

func (m *Manager) emitBatchCompleted(ctx context.Context, cmds []command.Command, results []Result, opts BatchOptions) {
	if m.deps.Events == nil {
		return
	}
	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}
	meta := cmds[0].Metadata()
	if _, err := m.deps.Events.EmitBatchCompleted(ctx, meta.WorkflowID, meta.Source, event.BatchCompletedPayload{
		Commands:  len(cmds),
		Succeeded: succeeded,
		Failed:    failed,
		Atomic:    opts.Atomic,
	}); err != nil {
		m.logger.Printf("batch: record completion event: %v", err)
	}
}
