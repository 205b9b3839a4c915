package registry

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("registry arena closed")

// arena is an index-addressed slot store with a free list.
type arena struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	raw      any
	mirror   any
	rawID    ID
	mirrorID ID
	valid    bool
}

func newArena() *arena {
	return &arena{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// insert stores an entry and returns its handle. Callers hold a.mu.
func (a *arena) insert(e entry) (Handle, error) {
	if a.closed {
		return 0, ErrClosed
	}
	e.valid = true

	if len(a.freeList) > 0 {
		handle := a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
		a.entries[handle-1] = e
		return handle, nil
	}

	a.entries = append(a.entries, e)
	return Handle(len(a.entries)), nil
}

// get returns the entry behind handle. Callers hold a.mu.
func (a *arena) get(handle Handle) (entry, bool) {
	if handle == 0 {
		return entry{}, false
	}
	idx := handle - 1
	if int(idx) >= len(a.entries) {
		return entry{}, false
	}
	e := a.entries[idx]
	if !e.valid {
		return entry{}, false
	}
	return e, true
}

// drop invalidates handle and returns its former entry. Callers hold a.mu.
func (a *arena) drop(handle Handle) (entry, bool) {
	e, ok := a.get(handle)
	if !ok {
		return entry{}, false
	}
	a.entries[handle-1] = entry{}
	a.freeList = append(a.freeList, handle)
	return e, true
}

func (a *arena) len() int {
	count := 0
	for _, e := range a.entries {
		if e.valid {
			count++
		}
	}
	return count
}
