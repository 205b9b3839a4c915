package mirror

import (
	"errors"
	"testing"

	tangleerrors "github.com/wippyai/tangle/errors"
	"github.com/wippyai/tangle/event"
)

type setRecorder struct {
	events []event.Event
}

func (r *setRecorder) handle(e event.Event) error {
	r.events = append(r.events, e)
	return nil
}

func newFixture(t *testing.T) (*Tangler, map[string]any, *Mirror) {
	t.Helper()
	tg := New()
	raw := map[string]any{
		"hello": "world",
		"foo":   map[string]any{"bar": "foobar"},
	}
	m, ok := tg.Wrap(raw).(*Mirror)
	if !ok {
		t.Fatalf("Wrap returned %T, want *Mirror", tg.Wrap(raw))
	}
	return tg, raw, m
}

func TestWrap_NonStructured(t *testing.T) {
	tg := New()
	values := []any{nil, "hello", 42, 3.5, true, []any{1, 2}}
	for _, v := range values {
		got := tg.Wrap(v)
		if _, ok := got.(*Mirror); ok {
			t.Errorf("Wrap(%v) produced a mirror", v)
		}
	}
	if tg.Len() != 0 {
		t.Fatalf("registry has %d entries, want 0", tg.Len())
	}
}

func TestWrap_IdentityStable(t *testing.T) {
	tg, raw, m := newFixture(t)

	if again := tg.Wrap(raw); again != m {
		t.Fatal("wrapping the same map twice returned different mirrors")
	}
	if again := tg.Wrap(m); again != m {
		t.Fatal("wrapping a mirror should return it unchanged")
	}
	if tg.Get(raw) != m {
		t.Fatal("Get(raw) should return the registered mirror")
	}
	if tg.Get(m) != m {
		t.Fatal("Get(mirror) should return the mirror")
	}
}

func TestWrap_RecursesIntoProperties(t *testing.T) {
	tg, raw, _ := newFixture(t)

	foo := raw["foo"].(map[string]any)
	if _, ok := tg.Get(foo).(*Mirror); !ok {
		t.Fatal("nested map should be mirrored at wrap time")
	}
	if tg.Len() != 2 {
		t.Fatalf("registry has %d entries, want 2", tg.Len())
	}
}

func TestWrap_Cycle(t *testing.T) {
	tg := New()
	raw := map[string]any{"hello": "world"}
	raw["self"] = raw

	m := tg.Wrap(raw).(*Mirror)
	if m.Read("self") != m {
		t.Fatal("self property should resolve to the mirror itself")
	}
	if tg.Len() != 1 {
		t.Fatalf("registry has %d entries, want 1", tg.Len())
	}
}

func TestWrap_MutualCycle(t *testing.T) {
	tg := New()
	a := map[string]any{}
	b := map[string]any{"a": a}
	a["b"] = b

	ma := tg.Wrap(a).(*Mirror)
	mb, ok := ma.Read("b").(*Mirror)
	if !ok {
		t.Fatal("a.b should read as a mirror")
	}
	if mb.Read("a") != ma {
		t.Fatal("a.b.a should be the mirror of a")
	}
}

func TestWrap_UpdatedAndRewrapped(t *testing.T) {
	tg, raw, m := newFixture(t)

	x := map[string]any{"y": 2}
	raw["x"] = x
	if tg.Wrap(raw) != m {
		t.Fatal("rewrap returned a different mirror")
	}

	mx, ok := m.Read("x").(*Mirror)
	if !ok {
		t.Fatal("x should read as a mirror")
	}
	if mx.Read("y") != 2 {
		t.Fatalf("x.y = %v, want 2", mx.Read("y"))
	}
}

func TestRead(t *testing.T) {
	_, raw, m := newFixture(t)

	if got := m.Read("hello"); got != "world" {
		t.Fatalf("Read(hello) = %v, want world", got)
	}

	foo, ok := m.Read("foo").(*Mirror)
	if !ok {
		t.Fatal("Read(foo) should return a mirror")
	}
	if foo.Read("bar") != "foobar" {
		t.Fatalf("foo.bar = %v", foo.Read("bar"))
	}
	if rawFoo := raw["foo"].(map[string]any); foo.Raw()["bar"] != rawFoo["bar"] {
		t.Fatal("mirror should read through to the raw map")
	}

	if m.Read("missing") != nil {
		t.Fatal("missing property should read as nil")
	}
}

func TestRead_ReservedNames(t *testing.T) {
	_, _, m := newFixture(t)

	on, ok := m.Read(ReservedOn).(func(string, event.Handler) event.Handle)
	if !ok {
		t.Fatalf("Read(on) returned %T", m.Read(ReservedOn))
	}
	calls := 0
	on(event.Set, func(event.Event) error {
		calls++
		return nil
	})
	if err := m.Write("k", 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler registered via Read(on) called %d times", calls)
	}

	if _, ok := m.Read(ReservedOnce).(func(string, event.Handler) event.Handle); !ok {
		t.Fatal("Read(once) should return the bound Once method")
	}
	if _, ok := m.Read(ReservedRemoveListener).(func(event.Handle) bool); !ok {
		t.Fatal("Read(removeListener) should return the bound RemoveListener method")
	}
}

func TestWrite_Primitive(t *testing.T) {
	_, raw, m := newFixture(t)
	rec := &setRecorder{}
	m.On(event.Set, rec.handle)

	if err := m.Write("x", 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("got %d set events, want 1", len(rec.events))
	}
	if rec.events[0].Key != "x" || rec.events[0].Value != 1 {
		t.Fatalf("event = %+v", rec.events[0])
	}
	if raw["x"] != 1 || m.Read("x") != 1 {
		t.Fatalf("raw x = %v, mirror x = %v", raw["x"], m.Read("x"))
	}
}

func TestWrite_Structured(t *testing.T) {
	tg, raw, m := newFixture(t)
	rec := &setRecorder{}
	m.On(event.Set, rec.handle)

	objval := map[string]any{"y": 2}
	if err := m.Write("y", objval); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("got %d set events, want 1", len(rec.events))
	}
	wrapped, ok := rec.events[0].Value.(*Mirror)
	if !ok {
		t.Fatalf("event value is %T, want *Mirror", rec.events[0].Value)
	}
	if wrapped != tg.Wrap(objval) {
		t.Fatal("event should carry the canonical mirror")
	}
	if stored, ok := raw["y"].(map[string]any); !ok || stored["y"] != 2 {
		t.Fatalf("raw y = %v, want the unwrapped map", raw["y"])
	}
	if m.Read("y") != wrapped {
		t.Fatal("reading y should return the same mirror")
	}
}

func TestWrite_MirrorValueStoredRaw(t *testing.T) {
	tg, raw, m := newFixture(t)
	inner := map[string]any{"z": 3}
	mi := tg.Wrap(inner)

	if err := m.Write("inner", mi); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, ok := raw["inner"].(map[string]any); !ok {
		t.Fatalf("raw inner is %T, want map[string]any", raw["inner"])
	}
}

func TestWrite_EmitsBeforeMutation(t *testing.T) {
	_, raw, m := newFixture(t)
	var seen any
	m.On(event.Set, func(e event.Event) error {
		seen = raw[e.Key]
		return nil
	})

	if err := m.Write("hello", "global"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if seen != "world" {
		t.Fatalf("listener saw %v, want the old value", seen)
	}
	if raw["hello"] != "global" {
		t.Fatalf("raw hello = %v", raw["hello"])
	}
}

func TestWrite_NilIgnored(t *testing.T) {
	_, raw, m := newFixture(t)
	rec := &setRecorder{}
	m.On(event.Set, rec.handle)

	if err := m.Write("hello", nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatal("nil write should not notify")
	}
	if raw["hello"] != "world" {
		t.Fatalf("raw hello = %v, want world", raw["hello"])
	}
}

func TestWrite_ReservedForbidden(t *testing.T) {
	_, raw, m := newFixture(t)

	for _, key := range []string{ReservedOn, ReservedOnce, ReservedRemoveListener} {
		err := m.Write(key, 1)
		if !tangleerrors.IsKind(err, tangleerrors.KindForbiddenAssignment) {
			t.Errorf("Write(%q) = %v, want forbidden assignment", key, err)
		}
		if _, ok := raw[key]; ok {
			t.Errorf("raw %q was written", key)
		}
	}
}

func TestWrite_ListenerErrorAborts(t *testing.T) {
	_, raw, m := newFixture(t)
	boom := errors.New("boom")
	m.On(event.Set, func(event.Event) error { return boom })

	if err := m.Write("hello", "global"); !errors.Is(err, boom) {
		t.Fatalf("Write error = %v, want %v", err, boom)
	}
	if raw["hello"] != "world" {
		t.Fatal("failed write should leave the raw map untouched")
	}
}

func TestKeysAndHas(t *testing.T) {
	tg := New()
	raw := map[string]any{"b": 1, "a": 2, "on": 3}
	m := tg.Wrap(raw).(*Mirror)

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("Keys = %v, want [a b]", keys)
	}
	if !m.Has("a") || m.Has("on") || m.Has("zzz") {
		t.Fatal("Has returned unexpected results")
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
}

func TestOnceAndRemoveListener(t *testing.T) {
	_, _, m := newFixture(t)
	onceCalls, calls := 0, 0
	m.Once(event.Set, func(event.Event) error {
		onceCalls++
		return nil
	})
	h := m.On(event.Set, func(event.Event) error {
		calls++
		return nil
	})

	_ = m.Write("a", 1)
	_ = m.Write("b", 2)
	if onceCalls != 1 || calls != 2 {
		t.Fatalf("onceCalls=%d calls=%d", onceCalls, calls)
	}

	if !m.RemoveListener(h) {
		t.Fatal("RemoveListener failed")
	}
	_ = m.Write("c", 3)
	if calls != 2 {
		t.Fatal("removed listener still called")
	}
	if m.Listeners(event.Set) != 0 {
		t.Fatalf("Listeners = %d, want 0", m.Listeners(event.Set))
	}
}

func TestRelease(t *testing.T) {
	tg, raw, m := newFixture(t)
	m.On(event.Set, func(event.Event) error { return nil })

	if !tg.Release(raw) {
		t.Fatal("Release failed")
	}
	if m.Listeners(event.Set) != 0 {
		t.Fatal("released mirror should drop its listeners")
	}
	if _, ok := tg.Get(raw).(*Mirror); ok {
		t.Fatal("Get after Release should return the raw value")
	}
	if tg.Wrap(raw) == m {
		t.Fatal("Wrap after Release should create a new mirror")
	}
}

func TestSeparateTanglersAreIndependent(t *testing.T) {
	raw := map[string]any{"a": 1}
	m1 := New().Wrap(raw)
	m2 := New().Wrap(raw)
	if m1 == m2 {
		t.Fatal("distinct tanglers should not share mirrors")
	}
}

func TestDefaultTangler(t *testing.T) {
	raw := map[string]any{"a": 1}
	m := Wrap(raw)
	defer Release(raw)

	if Get(raw) != m {
		t.Fatal("package Get should find the package Wrap mirror")
	}
	if Default().Get(raw) != m {
		t.Fatal("Default() should be the package tangler")
	}
}
