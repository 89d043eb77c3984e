package memory

import (
	"context"
	"testing"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/errors"
)

func TestGraph_AddObject(t *testing.T) {
	tests := []struct {
		name     string
		seed     []canvas.Object
		obj      canvas.Object
		wantCode errors.Code
	}{
		{
			name: "adds object",
			obj:  canvas.Object{ID: "img1", Kind: "image"},
		},
		{
			name:     "empty id",
			obj:      canvas.Object{Kind: "image"},
			wantCode: errors.CodeObjectEmptyID,
		},
		{
			name:     "duplicate id",
			seed:     []canvas.Object{{ID: "img1", Kind: "image"}},
			obj:      canvas.Object{ID: "img1", Kind: "image"},
			wantCode: errors.CodeObjectExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			graph := NewGraph()
			for _, obj := range tt.seed {
				if err := graph.AddObject(ctx, obj); err != nil {
					t.Fatalf("seed object: %v", err)
				}
			}

			err := graph.AddObject(ctx, tt.obj)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.IsCode(err, tt.wantCode) {
				t.Fatalf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestGraph_UpdateDoesNotAliasCallerMap(t *testing.T) {
	ctx := context.Background()
	graph := NewGraph()
	if err := graph.AddObject(ctx, canvas.Object{ID: "img1", Kind: "image"}); err != nil {
		t.Fatalf("add object: %v", err)
	}

	attrs := map[string]any{"width": 100}
	if err := graph.UpdateObject(ctx, "img1", attrs); err != nil {
		t.Fatalf("update object: %v", err)
	}
	attrs["width"] = 999

	obj, err := graph.GetObject(ctx, "img1")
	if err != nil {
		t.Fatalf("get object: %v", err)
	}
	if obj.Attrs["width"] != 100 {
		t.Fatalf("expected width 100, got %v", obj.Attrs["width"])
	}
}

func TestGraph_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	graph := NewGraph()
	objects := []canvas.Object{
		{ID: "img1", Kind: "image", Attrs: map[string]any{"width": 640}},
		{ID: "txt1", Kind: "text", Attrs: map[string]any{"value": "hello"}},
	}
	for _, obj := range objects {
		if err := graph.AddObject(ctx, obj); err != nil {
			t.Fatalf("add object: %v", err)
		}
	}

	state, err := graph.ExportState(ctx)
	if err != nil {
		t.Fatalf("export state: %v", err)
	}

	restored := NewGraph()
	if err := restored.ImportState(ctx, state); err != nil {
		t.Fatalf("import state: %v", err)
	}

	restoredState, err := restored.ExportState(ctx)
	if err != nil {
		t.Fatalf("export restored state: %v", err)
	}
	if !canvas.StatesEqual(state, restoredState) {
		t.Fatal("expected round-tripped state to be structurally equal")
	}
}

func TestGraph_RemoveObjectPreservesOrder(t *testing.T) {
	ctx := context.Background()
	graph := NewGraph()
	for _, id := range []string{"a", "b", "c"} {
		if err := graph.AddObject(ctx, canvas.Object{ID: id, Kind: "shape"}); err != nil {
			t.Fatalf("add object: %v", err)
		}
	}
	if err := graph.RemoveObject(ctx, "b"); err != nil {
		t.Fatalf("remove object: %v", err)
	}

	list, err := graph.ListObjects(ctx)
	if err != nil {
		t.Fatalf("list objects: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "c" {
		t.Fatalf("unexpected order: %+v", list)
	}
}
