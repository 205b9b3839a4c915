package mirror

import (
	"go.uber.org/zap"

	"github.com/wippyai/tangle"
	"github.com/wippyai/tangle/registry"
)

// Tangler produces mirrors within one identity domain.
type Tangler struct {
	table  *registry.Table
	logger *zap.Logger
}

// Option configures a Tangler.
type Option func(*Tangler)

// WithRegistry makes the Tangler share table with other owners.
func WithRegistry(table *registry.Table) Option {
	return func(t *Tangler) {
		t.table = table
	}
}

// WithLogger overrides the package logger for this Tangler.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tangler) {
		t.logger = l
	}
}

// New creates a Tangler with its own registry unless WithRegistry is given.
func New(opts ...Option) *Tangler {
	t := &Tangler{}
	for _, opt := range opts {
		opt(t)
	}
	if t.table == nil {
		t.table = registry.NewTable()
	}
	return t
}

var defaultTangler = New()

// Default returns the process-wide Tangler used by the package-level functions.
func Default() *Tangler {
	return defaultTangler
}

// Wrap wraps v with the default Tangler.
func Wrap(v any) any {
	return defaultTangler.Wrap(v)
}

// Get returns the default Tangler's mirror for v, or v itself.
func Get(v any) any {
	return defaultTangler.Get(v)
}

// Release forgets the default Tangler's mirror for v.
func Release(v any) bool {
	return defaultTangler.Release(v)
}

// guard records the raw values visited by one top-level Wrap call.
type guard map[registry.ID]struct{}

// Wrap returns the mirror of v, creating it if needed. Values that are not
// structured are returned unchanged.
func (t *Tangler) Wrap(v any) any {
	return t.wrap(v, make(guard))
}

func (t *Tangler) wrap(v any, seen guard) any {
	if m, ok := v.(*Mirror); ok {
		return m
	}
	raw, ok := v.(map[string]any)
	if !ok || raw == nil {
		return v
	}

	id, _ := registry.Identity(raw)
	if _, visited := seen[id]; visited {
		if m, ok := t.table.Lookup(raw); ok {
			return m
		}
		return v
	}
	seen[id] = struct{}{}

	if m, ok := t.table.Lookup(raw); ok {
		return m
	}

	m := &Mirror{raw: raw, tangler: t}
	h, err := t.table.Register(raw, m)
	if err != nil {
		t.log().Warn("register mirror", zap.Error(err))
		return v
	}
	m.handle = h
	t.log().Debug("mirror created", zap.Uint32("handle", uint32(h)), zap.Int("props", len(raw)))

	for _, key := range tangle.SortedKeys(raw) {
		if isReserved(key) {
			continue
		}
		t.wrap(raw[key], seen)
	}
	return m
}

// Get returns the registered mirror for v, or v itself when v is not
// structured or has no mirror yet.
func (t *Tangler) Get(v any) any {
	if m, ok := t.table.Lookup(v); ok {
		return m
	}
	return v
}

// Release forgets the mirror registered for v (raw map or mirror).
// The released mirror drops its listeners. A later Wrap creates a new mirror.
func (t *Tangler) Release(v any) bool {
	return t.table.Release(v)
}

// Len returns the number of live mirrors.
func (t *Tangler) Len() int {
	return t.table.Len()
}

// Registry exposes the underlying identity registry.
func (t *Tangler) Registry() *registry.Table {
	return t.table
}

func (t *Tangler) log() *zap.Logger {
	if t.logger != nil {
		return t.logger
	}
	return Logger()
}
