// Package memory provides an in-memory object graph implementation.
package memory

import (
	"context"
	"sync"

	"github.com/louisbranch/atelier.space/internal/canvas"
	"github.com/louisbranch/atelier.space/internal/errors"
)

// Graph keeps document objects in memory, preserving insertion order.
type Graph struct {
	mu      sync.RWMutex
	objects map[string]canvas.Object
	order   []string
}

// NewGraph creates an empty in-memory graph.
func NewGraph() *Graph {
	return &Graph{objects: make(map[string]canvas.Object)}
}

// AddObject inserts one object. Inserting an existing id fails.
func (g *Graph) AddObject(ctx context.Context, obj canvas.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if obj.ID == "" {
		return errors.New(errors.CodeObjectEmptyID, "object id is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.objects[obj.ID]; ok {
		return canvas.ErrObjectExists(obj.ID)
	}
	g.objects[obj.ID] = obj.Clone()
	g.order = append(g.order, obj.ID)
	return nil
}

// RemoveObject deletes one object by id.
func (g *Graph) RemoveObject(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.objects[id]; !ok {
		return canvas.ErrObjectNotFound(id)
	}
	delete(g.objects, id)
	for i, existing := range g.order {
		if existing == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// UpdateObject replaces the attributes of one object.
func (g *Graph) UpdateObject(ctx context.Context, id string, attrs map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	obj, ok := g.objects[id]
	if !ok {
		return canvas.ErrObjectNotFound(id)
	}
	g.objects[id] = canvas.Object{ID: obj.ID, Kind: obj.Kind, Attrs: canvas.CloneAttrs(attrs)}
	return nil
}

// GetObject returns a copy of one object by id.
func (g *Graph) GetObject(ctx context.Context, id string) (canvas.Object, error) {
	if err := ctx.Err(); err != nil {
		return canvas.Object{}, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	obj, ok := g.objects[id]
	if !ok {
		return canvas.Object{}, canvas.ErrObjectNotFound(id)
	}
	return obj.Clone(), nil
}

// ListObjects returns copies of all objects in insertion order.
func (g *Graph) ListObjects(ctx context.Context) ([]canvas.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	list := make([]canvas.Object, 0, len(g.order))
	for _, id := range g.order {
		list = append(list, g.objects[id].Clone())
	}
	return list, nil
}

// ObjectCount returns the number of objects in the graph.
func (g *Graph) ObjectCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.objects), nil
}

// ExportState captures a full copy of the graph.
func (g *Graph) ExportState(ctx context.Context) (canvas.State, error) {
	objects, err := g.ListObjects(ctx)
	if err != nil {
		return canvas.State{}, err
	}
	return canvas.State{Objects: objects}, nil
}

// ImportState replaces the live graph wholesale.
func (g *Graph) ImportState(ctx context.Context, state canvas.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.objects = make(map[string]canvas.Object, len(state.Objects))
	g.order = g.order[:0]
	for _, obj := range state.Objects {
		if obj.ID == "" {
			return errors.New(errors.CodeObjectEmptyID, "object id is required")
		}
		g.objects[obj.ID] = obj.Clone()
		g.order = append(g.order, obj.ID)
	}
	return nil
}
