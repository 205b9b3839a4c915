package registry

// Handle is an opaque reference to an entry in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// ID is the identity token of a reference-typed value.
type ID uintptr

// EventType enumerates registry lifecycle notifications.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventReleased
)

// Event represents a registry lifecycle event.
type Event struct {
	Raw    any
	Mirror any
	Handle Handle
	Type   EventType
}

// Observer receives notifications about registry lifecycle events.
type Observer interface {
	OnRegistryEvent(Event)
}

// Dropper is optionally implemented by mirrors that need cleanup on release.
type Dropper interface {
	Drop()
}
