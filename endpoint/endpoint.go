package endpoint

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/tangle"
	"github.com/wippyai/tangle/errors"
	"github.com/wippyai/tangle/event"
	"github.com/wippyai/tangle/registry"
)

// Endpoint is a node of the tree.
type Endpoint struct {
	value    any
	source   tangle.Subscribable
	parent   *Endpoint
	children map[string]*Endpoint
	settings *settings
	name     string
	events   event.Channel
	listener event.Handle
	deleted  bool
}

// New creates a root endpoint.
func New(name string, opts ...Option) *Endpoint {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	return &Endpoint{
		name:     name,
		children: make(map[string]*Endpoint),
		settings: s,
	}
}

func (n *Endpoint) newChild(name string) *Endpoint {
	return &Endpoint{
		name:     name,
		parent:   n,
		children: make(map[string]*Endpoint),
		settings: n.settings,
	}
}

// Name returns the node's name.
func (n *Endpoint) Name() string { return n.name }

// Parent returns the parent node, nil for a root.
func (n *Endpoint) Parent() *Endpoint { return n.parent }

// Value returns the bound value, nil when unbound.
func (n *Endpoint) Value() any { return n.value }

// Bound reports whether a value is bound.
func (n *Endpoint) Bound() bool { return n.value != nil }

// Deleted reports whether Delete has been called on the node.
func (n *Endpoint) Deleted() bool { return n.deleted }

// Listening reports whether the node holds a listener on its bound value.
func (n *Endpoint) Listening() bool { return n.source != nil }

// Lookup returns the direct child called name without creating it.
func (n *Endpoint) Lookup(name string) (*Endpoint, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Children returns the direct children sorted by name.
func (n *Endpoint) Children() []*Endpoint {
	out := make([]*Endpoint, 0, len(n.children))
	for _, name := range n.childNames() {
		out = append(out, n.children[name])
	}
	return out
}

func (n *Endpoint) childNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk visits n and its descendants in pre-order, children sorted by name.
// Returning false from fn skips the node's subtree.
func (n *Endpoint) Walk(fn func(*Endpoint) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// Child returns the node at path below n, creating unbound intermediate
// nodes as needed. Repeated calls return the same node.
func (n *Endpoint) Child(path string) (*Endpoint, error) {
	if path == "" {
		return nil, errors.New(errors.PhasePath, errors.KindInvalidArgument).
			Path(n.Path()...).
			Detail("expects a non-empty string as path").
			Build()
	}

	node := n
	for _, name := range strings.Split(path, "/") {
		next, ok := node.children[name]
		if !ok {
			next = node.newChild(name)
			node.children[name] = next
		}
		node = next
	}
	return node, nil
}

// Create adds a new child called name and binds value to it.
func (n *Endpoint) Create(name string, value any) error {
	child := n.newChild(name)
	n.children[name] = child
	return child.Update(value, event.Create)
}

// Tangle binds value, emitting "create" if the node was unbound and "update"
// otherwise. Binding the currently bound value fails with repeated_tangle.
func (n *Endpoint) Tangle(value any) error {
	if registry.Same(n.value, value) {
		return errors.RepeatedTangle(n.Path(), value)
	}

	action := event.Update
	if n.value == nil {
		action = event.Create
	}
	return n.Update(value, action)
}

// Update binds value, emits action and reconciles the children with the
// value's own properties. Properties holding nil count as absent. A value
// already bound at an ancestor is a back-reference: it is bound and announced
// but neither listened to nor expanded. If a handler rejects the node's own
// event the previous binding is restored and the error returned.
func (n *Endpoint) Update(value any, action string) error {
	prev, prevSource := n.value, n.source
	n.detach()
	n.value = value

	backref := n.boundByAncestor(value)
	if s, ok := value.(tangle.Subscribable); ok && !backref {
		n.attach(s)
	}

	n.settings.log().Debug("endpoint bound",
		zap.Stringer("path", n),
		zap.String("action", action),
		zap.Bool("backref", backref),
	)

	if err := n.emit(event.Event{Name: action, Value: value, Action: action}); err != nil {
		n.restore(prev, prevSource)
		return err
	}

	keys, read, ok := tangle.Properties(value)
	if !ok {
		return nil
	}

	for _, name := range n.childNames() {
		child, ok := n.children[name]
		if !ok {
			continue
		}
		if backref || !tangle.HasProperty(value, name) || read(name) == nil {
			child.Delete()
		}
	}
	if backref {
		return nil
	}

	for _, key := range keys {
		v := read(key)
		if v == nil {
			continue
		}
		var err error
		if child, exists := n.children[key]; exists {
			err = child.Tangle(v)
		} else {
			err = n.Create(key, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// restore puts back the binding Update replaced when the node's own event
// was rejected.
func (n *Endpoint) restore(value any, source tangle.Subscribable) {
	n.detach()
	n.value = value
	if source != nil {
		n.attach(source)
	}
}

func (n *Endpoint) boundByAncestor(v any) bool {
	if _, ok := registry.Identity(v); !ok {
		return false
	}
	for p := n.parent; p != nil; p = p.parent {
		if registry.Same(p.value, v) {
			return true
		}
	}
	return false
}

// Delete removes n from its parent, detaches its listener, emits "delete" if
// it was bound and deletes every child.
func (n *Endpoint) Delete() {
	if n.parent != nil && n.parent.children[n.name] == n {
		delete(n.parent.children, n.name)
	}
	n.detach()

	if n.value != nil {
		if err := n.emit(event.Event{Name: event.Delete, Value: n.value, Action: event.Delete}); err != nil {
			n.settings.log().Warn("delete listener failed",
				zap.Stringer("path", n),
				zap.Error(err),
			)
		}
		n.value = nil
	}
	n.deleted = true
	n.settings.log().Debug("endpoint deleted", zap.Stringer("path", n))

	for _, name := range n.childNames() {
		if child, ok := n.children[name]; ok {
			child.Delete()
		}
	}
}

// Assign writes value to this node's property on the parent's bound value,
// which must accept writes. The change then reaches n through the parent's
// listener.
func (n *Endpoint) Assign(value any) error {
	if n.parent == nil {
		return errors.InvalidArgument(errors.PhaseBind, "root endpoint has no parent to write through")
	}
	w, ok := n.parent.value.(tangle.Writable)
	if !ok {
		return errors.New(errors.PhaseBind, errors.KindInvalidArgument).
			Path(n.parent.Path()...).
			Detail("parent value does not accept writes").
			Build()
	}
	return w.Write(n.name, value)
}

// Path returns the names from the root down to n.
func (n *Endpoint) Path() []string {
	if n.parent == nil {
		return []string{n.name}
	}
	return append(n.parent.Path(), n.name)
}

// String returns the slash-joined path from the root.
func (n *Endpoint) String() string {
	if n.parent != nil {
		return n.parent.String() + "/" + n.name
	}
	return n.name
}

// On registers h for the node's events named name.
func (n *Endpoint) On(name string, h event.Handler) event.Handle {
	return n.events.On(name, h)
}

// Once registers h for the node's next event named name.
func (n *Endpoint) Once(name string, h event.Handler) event.Handle {
	return n.events.Once(name, h)
}

// Off removes a handler registered with On or Once.
func (n *Endpoint) Off(h event.Handle) bool {
	return n.events.Off(h)
}

func (n *Endpoint) emit(e event.Event) error {
	for _, o := range n.settings.observers {
		o.OnEndpointEvent(n, e)
	}
	return n.events.Emit(e)
}

func (n *Endpoint) attach(s tangle.Subscribable) {
	n.source = s
	n.listener = s.On(event.Set, n.onSet)
	n.settings.log().Debug("listener attached", zap.Stringer("path", n))
}

func (n *Endpoint) detach() {
	if n.source == nil {
		return
	}
	n.source.RemoveListener(n.listener)
	n.source = nil
	n.listener = 0
	n.settings.log().Debug("listener detached", zap.Stringer("path", n))
}

func (n *Endpoint) onSet(e event.Event) error {
	child, err := n.Child(e.Key)
	if err != nil {
		return err
	}
	return child.Tangle(e.Value)
}
