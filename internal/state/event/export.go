package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ExportHumanReadable writes the journal in a plain-text form suitable for
// inspection and support bundles. Payloads are pretty-printed when they are
// valid JSON and emitted raw otherwise.
func ExportHumanReadable(events []Event, w io.Writer) error {
	for _, evt := range events {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", evt.Timestamp.UTC().Format(time.RFC3339), evt.Type); err != nil {
			return fmt.Errorf("write event header: %w", err)
		}
		if evt.Hash != "" {
			if _, err := fmt.Fprintf(w, "  hash: %s\n", evt.Hash); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  seq: %d\n", evt.Seq); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  source: %s\n", evt.Source); err != nil {
			return err
		}
		if evt.CommandID != "" {
			if _, err := fmt.Fprintf(w, "  command: %s\n", evt.CommandID); err != nil {
				return err
			}
		}
		if evt.WorkflowID != "" {
			if _, err := fmt.Fprintf(w, "  workflow: %s\n", evt.WorkflowID); err != nil {
				return err
			}
		}
		if evt.EntityType != "" {
			if _, err := fmt.Fprintf(w, "  entity: %s/%s\n", evt.EntityType, evt.EntityID); err != nil {
				return err
			}
		}
		if len(evt.PayloadJSON) > 0 && string(evt.PayloadJSON) != "null" {
			if _, err := fmt.Fprintf(w, "  payload:\n"); err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, evt.PayloadJSON, "    ", "  "); err != nil {
				// Not valid JSON, fall back to the raw payload.
				if _, err := fmt.Fprintf(w, "    %s\n", evt.PayloadJSON); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w, "    %s\n", pretty.String()); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
