package tangle

import "github.com/wippyai/tangle/event"

// Subscribable is implemented by values whose own mutations can be observed.
// An endpoint bound to a Subscribable listens for its "set" events.
type Subscribable interface {
	On(name string, h event.Handler) event.Handle
	RemoveListener(h event.Handle) bool
}

// Object is implemented by structured values other than map[string]any.
// Keys returns the own property names in the order children are reconciled.
type Object interface {
	Keys() []string
	Has(key string) bool
	Read(key string) any
}

// Properties returns the own property names of v and a reader for them when v
// is structured: a map[string]any (keys sorted) or an Object.
func Properties(v any) (keys []string, read func(string) any, ok bool) {
	switch o := v.(type) {
	case Object:
		return o.Keys(), o.Read, true
	case map[string]any:
		if o == nil {
			return nil, nil, false
		}
		return SortedKeys(o), func(k string) any { return o[k] }, true
	}
	return nil, nil, false
}

// HasProperty reports whether key is an own property of the structured value v.
func HasProperty(v any, key string) bool {
	switch o := v.(type) {
	case Object:
		return o.Has(key)
	case map[string]any:
		_, ok := o[key]
		return ok
	}
	return false
}

// Writable is implemented by structured values that accept property writes,
// such as mirrors.
type Writable interface {
	Write(key string, value any) error
}
