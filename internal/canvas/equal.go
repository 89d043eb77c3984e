package canvas

import "reflect"

// StatesEqual reports whether two graph states hold the same objects,
// object-for-object. Ordering is not significant; equality is structural
// over id, kind, and attributes.
func StatesEqual(a, b State) bool {
	if len(a.Objects) != len(b.Objects) {
		return false
	}
	index := make(map[string]Object, len(a.Objects))
	for _, obj := range a.Objects {
		index[obj.ID] = obj
	}
	for _, obj := range b.Objects {
		other, ok := index[obj.ID]
		if !ok {
			return false
		}
		if !ObjectsEqual(obj, other) {
			return false
		}
	}
	return true
}

// ObjectsEqual reports structural equality of two objects.
func ObjectsEqual(a, b Object) bool {
	if a.ID != b.ID || a.Kind != b.Kind {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) {
		return false
	}
	if len(a.Attrs) == 0 {
		return true
	}
	return reflect.DeepEqual(a.Attrs, b.Attrs)
}
