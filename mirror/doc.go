// Package mirror provides mutation-observing mirrors of nested raw values.
//
// A raw structured value is a map[string]any. Wrapping it produces a *Mirror,
// a stand-in that reads through to the raw map and announces every write:
//
//	raw := map[string]any{"hello": "world", "foo": map[string]any{"bar": 1}}
//	m := mirror.Wrap(raw).(*mirror.Mirror)
//
//	m.On("set", func(e event.Event) error {
//	    fmt.Println("set", e.Key, e.Value)
//	    return nil
//	})
//	m.Write("hello", "global") // prints: set hello global
//	raw["hello"]               // "global"
//
// # Identity
//
// A Tangler owns an identity registry: a given raw map has at most one mirror,
// and wrapping a mirror returns it unchanged. Wrap recurses into every property
// when it creates a mirror, carrying a per-call cycle guard so self-referential
// values terminate:
//
//	raw["self"] = raw
//	m := mirror.Wrap(raw).(*mirror.Mirror)
//	m.Read("self") == m // true
//
// Nested maps are returned as mirrors by Read. Everything else is returned as is.
//
// # Writes
//
// Write emits "set" with the wrapped value before storing the raw value, so a
// listener sees the old raw property for the key being written. Writing nil is
// silently ignored. The names "on", "once" and "removeListener" are reserved for
// the mirror's control methods: Read returns the bound method and Write fails
// with a forbidden_assignment error.
//
// The package-level Wrap, Get and Release use a process-wide default Tangler.
// Tanglers are not safe for concurrent mutation of the same values.
package mirror
