package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/atelier.space/internal/state/event"
)

// objectsResourceURI is the canonical listing of every canvas object.
const objectsResourceURI = "canvas://objects"

// eventsResourceURI is the human-readable journal export.
const eventsResourceURI = "canvas://events"

// ObjectListEntry describes one object in the canvas listing.
type ObjectListEntry struct {
	ObjectID string         `json:"object_id"`
	Kind     string         `json:"kind"`
	Attrs    map[string]any `json:"attrs,omitempty"`
}

// ObjectListPayload is the canvas://objects resource body.
type ObjectListPayload struct {
	Objects []ObjectListEntry `json:"objects"`
	Count   int               `json:"count"`
}

func objectsResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         objectsResourceURI,
		Name:        "canvas-objects",
		Description: "Every object currently on the canvas",
		MIMEType:    "application/json",
	}
}

func objectsResourceHandler(deps Deps) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if deps.Graph == nil {
			return nil, fmt.Errorf("object graph is not configured")
		}
		uri := objectsResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		objects, err := deps.Graph.ListObjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}

		payload := ObjectListPayload{Count: len(objects)}
		for _, obj := range objects {
			payload.Objects = append(payload.Objects, ObjectListEntry{
				ObjectID: obj.ID,
				Kind:     obj.Kind,
				Attrs:    obj.Attrs,
			})
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal object list: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

func eventsResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         eventsResourceURI,
		Name:        "canvas-events",
		Description: "The change journal in a human-readable form",
		MIMEType:    "text/plain",
	}
}

func eventsResourceHandler(deps Deps) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if deps.Log == nil {
			return nil, fmt.Errorf("event journal is not configured")
		}
		uri := eventsResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		var buf bytes.Buffer
		if err := event.ExportHumanReadable(deps.Log.Events(), &buf); err != nil {
			return nil, fmt.Errorf("export journal: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "text/plain",
					Text:     buf.String(),
				},
			},
		}, nil
	}
}
