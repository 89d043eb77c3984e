package event

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestExportHumanReadable_SingleEvent(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	events := []Event{
		{
			ID:          "evt-1",
			Seq:         1,
			Hash:        "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6",
			Timestamp:   ts,
			Type:        TypeObjectAdded,
			CommandID:   "cmd-1",
			Source:      SourceUser,
			EntityType:  "object",
			EntityID:    "img1",
			PayloadJSON: []byte(`{"object_id":"img1","kind":"image"}`),
		},
	}

	var buf bytes.Buffer
	if err := ExportHumanReadable(events, &buf); err != nil {
		t.Fatalf("ExportHumanReadable failed: %v", err)
	}

	output := buf.String()

	checks := []string{
		"[2025-06-01T10:30:00Z] object.added",
		"hash: a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6",
		"seq: 1",
		"source: user",
		"command: cmd-1",
		"entity: object/img1",
		"payload:",
		`"object_id"`,
		`"img1"`,
	}

	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("output missing %q\nGot:\n%s", check, output)
		}
	}
}

func TestExportHumanReadable_WithWorkflow(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	events := []Event{
		{
			Seq:         1,
			Hash:        "hash1",
			Timestamp:   ts,
			Type:        TypeObjectReplaced,
			CommandID:   "cmd-1",
			WorkflowID:  "wf1",
			Source:      SourceAgent,
			EntityType:  "object",
			EntityID:    "img2",
			PayloadJSON: []byte(`{"old_object_id":"img1","new_object_id":"img2","kind":"image"}`),
		},
	}

	var buf bytes.Buffer
	if err := ExportHumanReadable(events, &buf); err != nil {
		t.Fatalf("ExportHumanReadable failed: %v", err)
	}

	output := buf.String()

	checks := []string{
		"object.replaced",
		"workflow: wf1",
		"source: agent",
		"entity: object/img2",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("output missing %q\nGot:\n%s", check, output)
		}
	}
}

func TestExportHumanReadable_EmptyEvents(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportHumanReadable(nil, &buf); err != nil {
		t.Fatalf("ExportHumanReadable failed: %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("expected empty output, got: %q", buf.String())
	}
}

func TestExportHumanReadable_InvalidJSON(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	events := []Event{
		{
			Seq:         1,
			Timestamp:   ts,
			Type:        TypeCommandFailed,
			Source:      SourceSystem,
			PayloadJSON: []byte(`not valid json`),
		},
	}

	var buf bytes.Buffer
	if err := ExportHumanReadable(events, &buf); err != nil {
		t.Fatalf("ExportHumanReadable failed: %v", err)
	}

	// Should still contain the raw payload as fallback.
	if !strings.Contains(buf.String(), "not valid json") {
		t.Errorf("output missing raw payload\nGot:\n%s", buf.String())
	}
}
