package canvas

import "testing"

func TestStatesEqual(t *testing.T) {
	tests := []struct {
		name string
		a    State
		b    State
		want bool
	}{
		{
			name: "both empty",
			a:    State{},
			b:    State{},
			want: true,
		},
		{
			name: "same objects different order",
			a: State{Objects: []Object{
				{ID: "a", Kind: "image"},
				{ID: "b", Kind: "text", Attrs: map[string]any{"body": "hi"}},
			}},
			b: State{Objects: []Object{
				{ID: "b", Kind: "text", Attrs: map[string]any{"body": "hi"}},
				{ID: "a", Kind: "image"},
			}},
			want: true,
		},
		{
			name: "differing attrs",
			a:    State{Objects: []Object{{ID: "a", Kind: "image", Attrs: map[string]any{"w": 10}}}},
			b:    State{Objects: []Object{{ID: "a", Kind: "image", Attrs: map[string]any{"w": 20}}}},
			want: false,
		},
		{
			name: "differing kind",
			a:    State{Objects: []Object{{ID: "a", Kind: "image"}}},
			b:    State{Objects: []Object{{ID: "a", Kind: "text"}}},
			want: false,
		},
		{
			name: "missing object",
			a:    State{Objects: []Object{{ID: "a", Kind: "image"}, {ID: "b", Kind: "image"}}},
			b:    State{Objects: []Object{{ID: "a", Kind: "image"}}},
			want: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatesEqual(tc.a, tc.b); got != tc.want {
				t.Fatalf("StatesEqual = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestObjectsEqual(t *testing.T) {
	base := Object{ID: "a", Kind: "image", Attrs: map[string]any{"w": 10}}

	tests := []struct {
		name  string
		other Object
		want  bool
	}{
		{"identical", Object{ID: "a", Kind: "image", Attrs: map[string]any{"w": 10}}, true},
		{"nil vs empty attrs", Object{ID: "a", Kind: "image", Attrs: map[string]any{"w": 10, "h": 5}}, false},
		{"different id", Object{ID: "b", Kind: "image", Attrs: map[string]any{"w": 10}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ObjectsEqual(base, tc.other); got != tc.want {
				t.Fatalf("ObjectsEqual = %v, want %v", got, tc.want)
			}
		})
	}

	if !ObjectsEqual(Object{ID: "x", Kind: "k"}, Object{ID: "x", Kind: "k", Attrs: map[string]any{}}) {
		t.Fatal("nil and empty attrs should compare equal")
	}
}

func TestObjectCloneDeepCopiesNestedAttrs(t *testing.T) {
	original := Object{
		ID:   "a",
		Kind: "image",
		Attrs: map[string]any{
			"crop":   map[string]any{"x": 10, "y": 20},
			"layers": []any{"bg", map[string]any{"name": "fg"}},
		},
	}

	clone := original.Clone()

	original.Attrs["crop"].(map[string]any)["x"] = 99
	original.Attrs["layers"].([]any)[0] = "mutated"
	original.Attrs["layers"].([]any)[1].(map[string]any)["name"] = "mutated"

	crop := clone.Attrs["crop"].(map[string]any)
	if crop["x"] != 10 {
		t.Fatalf("expected nested map copied, got x=%v", crop["x"])
	}
	layers := clone.Attrs["layers"].([]any)
	if layers[0] != "bg" {
		t.Fatalf("expected nested slice copied, got %v", layers[0])
	}
	if layers[1].(map[string]any)["name"] != "fg" {
		t.Fatalf("expected map inside slice copied, got %v", layers[1])
	}
}

func TestCloneAttrsNil(t *testing.T) {
	if CloneAttrs(nil) != nil {
		t.Fatal("expected nil attrs to stay nil")
	}
}
