// Package canvas defines the object graph contract for the editing core.
//
// The object graph is the single shared mutable resource of the editor.
// Commands are the only permitted mutators; every other component reads
// through the Graph interface or works from exported state copies.
package canvas

import (
	"context"

	"github.com/louisbranch/atelier.space/internal/errors"
)

// Object is one addressable element of the edited document.
type Object struct {
	ID    string         `json:"id"`
	Kind  string         `json:"kind"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Clone returns a deep copy of the object. Nested maps and slices inside
// Attrs are copied too, so captured states never alias the live graph.
func (o Object) Clone() Object {
	return Object{ID: o.ID, Kind: o.Kind, Attrs: CloneAttrs(o.Attrs)}
}

// CloneAttrs deep-copies an attribute map. Nil stays nil.
func CloneAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for key, value := range attrs {
		out[key] = cloneAttrValue(value)
	}
	return out
}

func cloneAttrValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return CloneAttrs(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneAttrValue(item)
		}
		return out
	default:
		return value
	}
}

// State is a full serializable copy of the object graph, ordered by
// insertion. It is the unit exchanged with the snapshot layer.
type State struct {
	Objects []Object `json:"objects"`
}

// Graph is the object-graph mutation API consumed by commands.
//
// Implementations are provided by the document subsystem; the editing core
// never implements rendering concerns, only state.
type Graph interface {
	AddObject(ctx context.Context, obj Object) error
	RemoveObject(ctx context.Context, id string) error
	UpdateObject(ctx context.Context, id string, attrs map[string]any) error
	GetObject(ctx context.Context, id string) (Object, error)
	ListObjects(ctx context.Context) ([]Object, error)
	ObjectCount(ctx context.Context) (int, error)

	// ExportState captures a full serializable copy of the graph.
	ExportState(ctx context.Context) (State, error)
	// ImportState replaces the live graph wholesale.
	ImportState(ctx context.Context, state State) error
}

// ErrObjectNotFound reports a missing object id.
func ErrObjectNotFound(id string) error {
	return errors.New(errors.CodeObjectNotFound, "object not found").WithMetadata(map[string]string{
		"ObjectID": id,
	})
}

// ErrObjectExists reports an id collision on insert.
func ErrObjectExists(id string) error {
	return errors.New(errors.CodeObjectExists, "object already exists").WithMetadata(map[string]string{
		"ObjectID": id,
	})
}
