package registry

import (
	"sync"

	"github.com/wippyai/tangle/errors"
)

// Table is a bidirectional raw value <-> mirror registry.
type Table struct {
	arena     *arena
	index     map[ID]Handle
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		arena: newArena(),
		index: make(map[ID]Handle),
	}
}

// Register records mirror as the mirror of raw. Both must carry reference
// identity. Registering a raw value that already has a mirror returns the
// existing handle unchanged.
func (t *Table) Register(raw, mirror any) (Handle, error) {
	rawID, ok := Identity(raw)
	if !ok {
		return 0, errors.InvalidArgument(errors.PhaseWrap, "raw value has no reference identity")
	}
	mirrorID, ok := Identity(mirror)
	if !ok {
		return 0, errors.InvalidArgument(errors.PhaseWrap, "mirror has no reference identity")
	}

	t.arena.mu.Lock()
	if h, exists := t.index[rawID]; exists {
		t.arena.mu.Unlock()
		return h, nil
	}
	h, err := t.arena.insert(entry{
		raw:      raw,
		mirror:   mirror,
		rawID:    rawID,
		mirrorID: mirrorID,
	})
	if err != nil {
		t.arena.mu.Unlock()
		return 0, err
	}
	t.index[rawID] = h
	t.index[mirrorID] = h
	t.arena.mu.Unlock()

	t.notify(Event{
		Type:   EventRegistered,
		Handle: h,
		Raw:    raw,
		Mirror: mirror,
	})
	return h, nil
}

// Handle returns the handle registered for v, which may be a raw value or a mirror.
func (t *Table) Handle(v any) (Handle, bool) {
	id, ok := Identity(v)
	if !ok {
		return 0, false
	}
	t.arena.mu.RLock()
	defer t.arena.mu.RUnlock()
	h, ok := t.index[id]
	return h, ok
}

// Lookup returns the mirror registered for v, which may be a raw value or a mirror.
func (t *Table) Lookup(v any) (any, bool) {
	id, ok := Identity(v)
	if !ok {
		return nil, false
	}
	t.arena.mu.RLock()
	defer t.arena.mu.RUnlock()
	h, ok := t.index[id]
	if !ok {
		return nil, false
	}
	e, ok := t.arena.get(h)
	if !ok {
		return nil, false
	}
	return e.mirror, true
}

// Get returns the raw value and mirror stored under h.
func (t *Table) Get(h Handle) (raw, mirror any, ok bool) {
	t.arena.mu.RLock()
	defer t.arena.mu.RUnlock()
	e, ok := t.arena.get(h)
	if !ok {
		return nil, nil, false
	}
	return e.raw, e.mirror, true
}

// Release removes the entry for v (raw value or mirror). It reports whether an
// entry was found. A mirror implementing Dropper has Drop called.
func (t *Table) Release(v any) bool {
	h, ok := t.Handle(v)
	if !ok {
		return false
	}
	return t.releaseHandle(h)
}

func (t *Table) releaseHandle(h Handle) bool {
	t.arena.mu.Lock()
	e, ok := t.arena.drop(h)
	if ok {
		delete(t.index, e.rawID)
		delete(t.index, e.mirrorID)
	}
	t.arena.mu.Unlock()
	if !ok {
		return false
	}

	if d, ok := e.mirror.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: h,
		Raw:    e.raw,
		Mirror: e.mirror,
	})
	return true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.arena.mu.RLock()
	defer t.arena.mu.RUnlock()
	return t.arena.len()
}

// Each iterates over all live entries until fn returns false.
func (t *Table) Each(fn func(h Handle, raw, mirror any) bool) {
	t.arena.mu.RLock()
	defer t.arena.mu.RUnlock()
	for i, e := range t.arena.entries {
		if e.valid {
			if !fn(Handle(i+1), e.raw, e.mirror) {
				break
			}
		}
	}
}

// Clear releases every entry.
func (t *Table) Clear() {
	// Collect handles first to avoid holding the lock during release
	var handles []Handle
	t.Each(func(h Handle, _, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.releaseHandle(h)
	}
}

// Close releases every entry and rejects further registrations.
func (t *Table) Close() error {
	t.Clear()
	t.arena.mu.Lock()
	t.arena.closed = true
	t.arena.mu.Unlock()
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnRegistryEvent(e)
	}
}
