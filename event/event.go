package event

// Event names emitted by mirrors and endpoints.
const (
	Set    = "set"
	Create = "create"
	Update = "update"
	Delete = "delete"
)

// Event is a single notification.
// Mirrors fill Key and Value for "set"; endpoints fill Value and Action.
type Event struct {
	Value  any
	Name   string
	Key    string
	Action string
}

// Handler receives events. A non-nil error aborts delivery.
type Handler func(Event) error

// Handle identifies a registered handler. Handle 0 is never issued.
type Handle uint64

type listener struct {
	fn     Handler
	name   string
	handle Handle
	once   bool
}

// Channel is an ordered listener registry keyed by event name.
// The zero value is ready to use.
type Channel struct {
	listeners []listener
	next      Handle
}

// On registers h for events named name.
func (c *Channel) On(name string, h Handler) Handle {
	return c.add(name, h, false)
}

// Once registers h for a single delivery of an event named name.
func (c *Channel) Once(name string, h Handler) Handle {
	return c.add(name, h, true)
}

func (c *Channel) add(name string, h Handler, once bool) Handle {
	c.next++
	c.listeners = append(c.listeners, listener{
		fn:     h,
		name:   name,
		handle: c.next,
		once:   once,
	})
	return c.next
}

// Off removes the handler registered under h. It reports whether one was found.
func (c *Channel) Off(h Handle) bool {
	for i, l := range c.listeners {
		if l.handle == h {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Emit delivers e to the handlers registered for e.Name when Emit was called.
// Handlers added or removed during delivery take effect on the next Emit.
func (c *Channel) Emit(e Event) error {
	var batch []listener
	for _, l := range c.listeners {
		if l.name == e.Name {
			batch = append(batch, l)
		}
	}

	for _, l := range batch {
		if l.once {
			c.Off(l.handle)
		}
		if err := l.fn(e); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of handlers registered for name.
func (c *Channel) Len(name string) int {
	n := 0
	for _, l := range c.listeners {
		if l.name == name {
			n++
		}
	}
	return n
}

// Total returns the number of registered handlers across all names.
func (c *Channel) Total() int {
	return len(c.listeners)
}

// Clear removes all handlers.
func (c *Channel) Clear() {
	c.listeners = nil
}
