// Package tangle observes mutations of nested, possibly cyclic, data.
//
// The library combines two mechanisms:
//
//   - mirrors (package mirror): identity-preserving stand-ins for raw
//     map[string]any values that announce every write with a "set" event
//   - endpoints (package endpoint): a path-addressable tree of nodes that
//     mirrors the shape of a bound value and emits "create", "update" and
//     "delete" for every reachable sub-value as that value changes
//
// # Architecture Overview
//
//	tangle/              Root package with the Object and Subscribable contracts
//	├── event/           Ordered per-entity listener registry
//	├── registry/        Identity registry (raw value <-> mirror handle table)
//	├── mirror/          Mutation-observing mirrors and the Tangler factory
//	├── endpoint/        Endpoint tree and reconciliation
//	├── errors/          Structured error types
//	└── cmd/tangle/      Command-line browser for YAML/JSON documents
//
// # Quick Start
//
//	raw := map[string]any{"hello": "world", "foo": map[string]any{"bar": "foobar"}}
//	m := mirror.Wrap(raw)
//
//	root := endpoint.New("example.com")
//	hello, _ := root.Child("hello")
//	hello.On("update", func(e event.Event) error {
//	    fmt.Println(hello, "=", e.Value)
//	    return nil
//	})
//
//	if err := root.Tangle(m); err != nil {
//	    log.Fatal(err)
//	}
//	m.(*mirror.Mirror).Write("hello", "global") // prints: example.com/hello = global
//
// # Thread Safety
//
// The model is single-threaded and synchronous: every notification is delivered
// on the caller's stack before the triggering call returns. Mirrors and endpoints
// must be used from one goroutine, or access must be synchronized externally.
package tangle
