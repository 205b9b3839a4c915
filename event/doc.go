// Package event provides the per-entity listener registry used by mirrors and
// endpoints.
//
// A Channel holds an ordered set of handlers per event name. Delivery is
// synchronous: Emit calls every handler registered for the event's name, in
// registration order, before it returns.
//
//	var ch event.Channel
//	h := ch.On("set", func(e event.Event) error {
//	    fmt.Println(e.Key, e.Value)
//	    return nil
//	})
//	ch.Emit(event.Event{Name: "set", Key: "x", Value: 1})
//	ch.Off(h)
//
// The first handler that returns an error stops delivery, and Emit returns that
// error unchanged to the emitter.
//
// Channels are not safe for concurrent use.
package event
