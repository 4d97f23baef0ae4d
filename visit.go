package msize

import (
	"reflect"

	"github.com/creachadair/mds/mapset"
)

// A visitKey identifies a reference-bearing composite by its data pointer
// and type, plus the length for slices so that overlapping views of one
// backing array do not collide. Two distinct composites that merely
// compare equal get distinct keys; only true aliasing maps to the same
// key.
type visitKey struct {
	ptr uintptr
	n   int // slice length; 0 for other kinds
	typ reflect.Type
}

// A visitSet records which composites have already been sized during the
// current top-level call. Primitives are never recorded. The zero value is
// ready for use.
type visitSet struct {
	seen mapset.Set[visitKey]
}

// reset discards all recorded visits, beginning a new top-level call.
func (s *visitSet) reset() { s.seen = nil }

// isVisited reports whether v is a composite already passed to markVisited
// since the last reset. It is always false for primitives.
func (s *visitSet) isVisited(v reflect.Value) bool {
	k, ok := keyOf(v)
	return ok && s.seen.Has(k)
}

// markVisited records v as sized. It is a no-op for primitives and
// idempotent for composites.
func (s *visitSet) markVisited(v reflect.Value) {
	if k, ok := keyOf(v); ok {
		s.seen.Add(k)
	}
}

// keyOf returns the identity key for v, or ok == false if v has no stable
// reference identity (primitives, struct values, nil references).
func keyOf(v reflect.Value) (visitKey, bool) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		var n int
		if v.Kind() == reflect.Slice {
			if v.Len() == 0 {
				// Distinct empty slices may share a data pointer.
				return visitKey{}, false
			}
			// A prefix of a slice shares its data pointer; the length
			// distinguishes overlapping views so each is traversed in full.
			n = v.Len()
		}
		if p := v.Pointer(); p != 0 {
			return visitKey{ptr: p, n: n, typ: v.Type()}, true
		}
	}
	return visitKey{}, false
}
