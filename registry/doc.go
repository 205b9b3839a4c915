// Package registry provides the identity registry that backs mirrors.
//
// A Table maps the identity of a raw structured value to the single mirror
// produced for it, and maps the mirror's own identity back to itself, so that
// looking up either side yields the same mirror.
//
// # Identity
//
// Identity tokens are derived from reference-typed values (maps, pointers,
// channels, slices). Values without reference identity cannot be registered:
//
//	id, ok := registry.Identity(m) // ok for map[string]any
//	registry.Same(a, b)            // identical-by-reference comparison
//
// # Handle Table
//
// Each registration occupies one slot of an arena and is addressed by a Handle.
// Handle 0 is reserved and always invalid. Released slots are recycled.
//
//	table := registry.NewTable()
//	h, err := table.Register(raw, mirror)
//	m, ok := table.Lookup(raw)    // mirror
//	m, ok = table.Lookup(mirror)  // the same mirror
//	table.Release(raw)
//
// # Observers
//
// Register observers to track registry lifecycle events:
//
//	table.Subscribe(obs) // obs implements OnRegistryEvent(registry.Event)
//
// EventRegistered fires after a pair is registered, EventReleased after it is
// released.
//
// # Memory Management
//
// Entries hold strong references to both the raw value and its mirror. They are
// not collected when the raw value becomes unreachable elsewhere: the owner must
// call Release (or Clear) when it drops a value. Mirrors implementing Dropper are
// told when their entry goes away.
package registry
