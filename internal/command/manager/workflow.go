package manager

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/errors"
	"github.com/louisbranch/atelier.space/internal/selection"
)

// ExecuteWithSelectionContext runs a multi-step workflow against a frozen
// selection. Every command is stamped with the workflow id and the snapshot
// captured at workflow start. Before each step, retargetable command ids are
// resolved through the workflow's identity mappings; after each step, any
// identity replacements the command established are fed back so later steps
// keep addressing the surviving objects.
func (m *Manager) ExecuteWithSelectionContext(ctx context.Context, cmds []command.Command, snap selection.Snapshot, workflowID string) ([]Result, error) {
	if m == nil {
		return nil, errors.New(errors.CodeManagerDisposed, "command manager not initialized")
	}
	if err := m.checkDisposed(); err != nil {
		return nil, err
	}
	if m.selection == nil {
		return nil, errors.New(errors.CodeCommandExecutionFailed, "no selection manager configured")
	}
	if workflowID == "" {
		return nil, errors.New(errors.CodeSelectionEmptyWorkflowID, "workflow id is required")
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

	ctx, span := m.tracer.Start(ctx, "command.execute_workflow",
		trace.WithAttributes(
			attribute.String("workflow.id", workflowID),
			attribute.Int("workflow.steps", len(cmds)),
		),
	)
	defer span.End()

	if _, ok := m.selection.Context(workflowID); !ok {
		if err := m.selection.CreateContext(workflowID, snap); err != nil {
			return nil, err
		}
	}

	resolve := func(id string) string {
		return m.selection.ResolveObjectID(workflowID, id)
	}

	results := make([]Result, 0, len(cmds))
	for _, cmd := range cmds {
		cmd.SetSelectionContext(workflowID, snap)
		if rt, ok := cmd.(command.Retargetable); ok {
			rt.Retarget(resolve)
		}

		res := Result{CommandID: cmd.ID(), Description: cmd.Describe()}
		if err := m.runLocked(ctx, cmd); err != nil {
			res.Err = err
			results = append(results, res)
			span.RecordError(err)
			return results, err
		}
		res.Succeeded = true
		results = append(results, res)

		if ir, ok := cmd.(command.IdentityReplacer); ok {
			for oldID, newID := range ir.IdentityReplacements() {
				if err := m.selection.UpdateObjectMapping(workflowID, oldID, newID); err != nil {
					m.logger.Printf("workflow %s: record identity mapping %s->%s: %v", workflowID, oldID, newID, err)
				}
			}
		}
	}
	return results, nil
}
