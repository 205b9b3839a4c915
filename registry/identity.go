package registry

import "reflect"

// Identity returns the identity token of v if v is a non-nil reference-typed
// value. Funcs are excluded: their pointer identifies code, not a closure.
func Identity(v any) (ID, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Slice:
		if rv.IsNil() {
			return 0, false
		}
		return ID(rv.Pointer()), true
	default:
		return 0, false
	}
}

// Same reports whether a and b are identical: the same reference for
// reference-typed values, equal for comparable values. Two nils are the same.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Func:
		return ra.IsNil() && rb.IsNil()
	}

	if ra.Comparable() && rb.Comparable() {
		return a == b
	}
	return false
}
