// Package selection tracks which objects a workflow targets and how their
// identities have been replaced over time.
//
// A multi-step workflow captures a selection snapshot once, at workflow
// start. Intermediate steps may destroy an object and recreate it under a
// new id; the workflow's context records those replacements so later steps
// keep pointing at the same logical object.
package selection

// Bounds is the axis-aligned bounding region of a selection.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Snapshot is an immutable capture of the objects targeted at a point in
// time. Refinement happens by deriving a new snapshot, never by mutation.
type Snapshot struct {
	objectIDs []string
	bounds    Bounds
}

// NewSnapshot captures a selection over the given object ids.
func NewSnapshot(objectIDs []string, bounds Bounds) Snapshot {
	ids := make([]string, len(objectIDs))
	copy(ids, objectIDs)
	return Snapshot{objectIDs: ids, bounds: bounds}
}

// ObjectIDs returns a copy of the captured object ids.
func (s Snapshot) ObjectIDs() []string {
	ids := make([]string, len(s.objectIDs))
	copy(ids, s.objectIDs)
	return ids
}

// Count returns the number of captured objects.
func (s Snapshot) Count() int {
	return len(s.objectIDs)
}

// IsEmpty reports whether the selection captured no objects.
func (s Snapshot) IsEmpty() bool {
	return len(s.objectIDs) == 0
}

// Bounds returns the captured bounding region.
func (s Snapshot) Bounds() Bounds {
	return s.bounds
}

// Contains reports whether the snapshot captured the given id.
func (s Snapshot) Contains(id string) bool {
	for _, existing := range s.objectIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// Remap derives a new snapshot with every id passed through resolve.
func (s Snapshot) Remap(resolve func(string) string) Snapshot {
	ids := make([]string, len(s.objectIDs))
	for i, id := range s.objectIDs {
		ids[i] = resolve(id)
	}
	return Snapshot{objectIDs: ids, bounds: s.bounds}
}
