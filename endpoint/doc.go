// Package endpoint provides a path-addressable tree of nodes kept in step with
// a bound ("tangled") value.
//
// Each Endpoint has a name, an optional parent and a set of children. Binding a
// value with Tangle emits "create" (first bind) or "update" on the node and then
// reconciles its children against the value's own properties:
//
//   - children whose name is no longer a property are deleted, recursively
//   - each current property is bound to an existing child or a new one
//
// A node's own event always fires before its children change. When the bound
// value is Subscribable (a mirror, for instance) the node listens for its "set"
// events and rebinds the matching child, so writes through the mirror cascade
// into the tree:
//
//	root := endpoint.New("example.com")
//	root.Tangle(m)                  // create for every reachable node
//	m.Write("foo", map[string]any{"x": 1})
//	                                 // foo: update, foo/bar: delete, foo/x: create
//
// Child walks or creates nodes by slash-separated path. Delete detaches the
// node's listener, emits "delete" and tears down the subtree; a deleted node is
// never revived, a later Child call with the same name builds a new one.
//
// A nil value means "unbound". Binding the value a node already holds fails with
// a repeated_tangle error.
package endpoint
