package mirror

import (
	"go.uber.org/zap"

	"github.com/wippyai/tangle"
	"github.com/wippyai/tangle/errors"
	"github.com/wippyai/tangle/event"
	"github.com/wippyai/tangle/registry"
)

// Reserved property names. They address the mirror's control methods.
const (
	ReservedOn             = "on"
	ReservedOnce           = "once"
	ReservedRemoveListener = "removeListener"
)

func isReserved(key string) bool {
	switch key {
	case ReservedOn, ReservedOnce, ReservedRemoveListener:
		return true
	}
	return false
}

var (
	_ tangle.Object       = (*Mirror)(nil)
	_ tangle.Subscribable = (*Mirror)(nil)
)

// Mirror observes one raw map.
type Mirror struct {
	raw     map[string]any
	tangler *Tangler
	events  event.Channel
	handle  registry.Handle
}

// Raw returns the underlying map.
func (m *Mirror) Raw() map[string]any {
	return m.raw
}

// Handle returns the registry handle assigned when the mirror was created.
func (m *Mirror) Handle() registry.Handle {
	return m.handle
}

// Read returns the property key. Nested maps come back as mirrors.
// Reserved names return the corresponding bound method.
func (m *Mirror) Read(key string) any {
	switch key {
	case ReservedOn:
		return m.On
	case ReservedOnce:
		return m.Once
	case ReservedRemoveListener:
		return m.RemoveListener
	}
	v, ok := m.raw[key]
	if !ok {
		return nil
	}
	return m.tangler.Wrap(v)
}

// Write emits "set" for key and then stores value in the raw map.
// A nil value is ignored. If a listener fails the raw map is left untouched
// and the listener's error is returned.
func (m *Mirror) Write(key string, value any) error {
	if isReserved(key) {
		return errors.ForbiddenAssignment(key)
	}
	if value == nil {
		return nil
	}

	wrapped := m.tangler.Wrap(value)
	if err := m.events.Emit(event.Event{Name: event.Set, Key: key, Value: wrapped}); err != nil {
		m.tangler.log().Debug("set rejected by listener", zap.String("key", key), zap.Error(err))
		return err
	}

	if inner, ok := value.(*Mirror); ok {
		value = inner.raw
	}
	m.raw[key] = value
	return nil
}

// Keys returns the property names in sorted order, reserved names excluded.
func (m *Mirror) Keys() []string {
	keys := tangle.SortedKeys(m.raw)
	out := keys[:0]
	for _, k := range keys {
		if !isReserved(k) {
			out = append(out, k)
		}
	}
	return out
}

// Has reports whether key is an own property of the raw map.
func (m *Mirror) Has(key string) bool {
	if isReserved(key) {
		return false
	}
	_, ok := m.raw[key]
	return ok
}

// Len returns the number of properties.
func (m *Mirror) Len() int {
	return len(m.Keys())
}

// On registers h for events named name.
func (m *Mirror) On(name string, h event.Handler) event.Handle {
	return m.events.On(name, h)
}

// Once registers h for the next event named name.
func (m *Mirror) Once(name string, h event.Handler) event.Handle {
	return m.events.Once(name, h)
}

// RemoveListener detaches the handler registered under h.
func (m *Mirror) RemoveListener(h event.Handle) bool {
	return m.events.Off(h)
}

// Listeners returns the number of handlers registered for name.
func (m *Mirror) Listeners(name string) int {
	return m.events.Len(name)
}

// Emit delivers e to the mirror's listeners without touching the raw map.
func (m *Mirror) Emit(e event.Event) error {
	return m.events.Emit(e)
}

// Drop detaches every listener. The registry calls it on release.
func (m *Mirror) Drop() {
	m.events.Clear()
}
